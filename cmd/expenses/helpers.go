package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/expense-tracker/internal/category"
	"github.com/Veraticus/expense-tracker/internal/chatbot"
	"github.com/Veraticus/expense-tracker/internal/cli"
	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/config"
	"github.com/Veraticus/expense-tracker/internal/llm"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/report"
	"github.com/Veraticus/expense-tracker/internal/storage"
	"github.com/Veraticus/expense-tracker/internal/store"
	"github.com/spf13/viper"
)

// initStorage opens the configured database and brings its schema up to date.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := config.DatabasePath(viper.GetViper())

	db, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// app is an opened database with a hydrated store on top of it.
type app struct {
	db    *storage.SQLiteStorage
	store *store.Store
}

func openApp(ctx context.Context) (*app, error) {
	db, err := initStorage(ctx)
	if err != nil {
		return nil, err
	}

	s := store.New(db, store.WithLogger(slog.Default()))
	if err := s.Hydrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to load saved data: %w", err)
	}

	return &app{db: db, store: s}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		slog.Warn("Failed to close database", "error", err)
	}
}

// announceAchievements prints every achievement unlocked while it is
// subscribed. Call the returned function to stop.
func (a *app) announceAchievements(w io.Writer) func() {
	return a.store.Subscribe(func(ev store.Event) {
		for _, ach := range ev.Unlocked {
			fmt.Fprintf(w, "%s Achievement unlocked: %s %s\n",
				cli.TrophyIcon,
				cli.SuccessStyle.Render(ach.Title),
				cli.SubtleStyle.Render("("+ach.Description+")"))
		}
	})
}

// assistant builds the chat assistant. Without an API key it runs offline.
func (a *app) assistant() (*chatbot.Assistant, error) {
	st, err := a.store.State()
	if err != nil {
		return nil, err
	}

	cfg := config.LoadChatConfig(viper.GetViper(), st.Chat)
	opts := []chatbot.Option{
		chatbot.WithLogger(slog.Default()),
		chatbot.WithRetryOptions(common.RetryOptions{
			MaxAttempts:  max(cfg.MaxRetries, 1),
			InitialDelay: cfg.RetryDelay,
			MaxDelay:     10 * cfg.RetryDelay,
			Multiplier:   2,
		}),
	}

	if cfg.APIKey != "" {
		client, err := llm.NewClient(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat client: %w", err)
		}
		opts = append(opts, chatbot.WithClient(client, cfg.Provider))
	} else {
		slog.Debug("No chat API key configured, assistant is offline", "provider", cfg.Provider)
	}

	return chatbot.NewAssistant(a.store, opts...), nil
}

func formatMoney(amount model.Money) string {
	return report.FormatAmount(viper.GetString("currency.code"), amount)
}

// parseDate accepts "today", "yesterday", YYYY-MM-DD or RFC 3339. Empty
// means today.
func parseDate(s string, now time.Time) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return now, nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	}
	t, err := model.ParseDate(s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q (use YYYY-MM-DD)", common.ErrValidation, s)
	}
	return t, nil
}

// parseMonth accepts YYYY-MM. Empty means the current month.
func parseMonth(s string, now time.Time) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return now, nil
	}
	t, err := model.ParseMonth(s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid month %q (use YYYY-MM)", common.ErrValidation, s)
	}
	return t, nil
}

func resolveCategory(st store.State, ref string) (model.Category, error) {
	c, ok := category.Resolve(st.Categories, ref)
	if !ok {
		return model.Category{}, fmt.Errorf("%w: %q", common.ErrUnknownCategory, ref)
	}
	return c, nil
}

// resolveGoal finds a savings goal by id or case-insensitive name.
func resolveGoal(st store.State, ref string) (model.SavingsGoal, error) {
	ref = strings.TrimSpace(ref)
	if g, ok := st.Goal(ref); ok {
		return g, nil
	}
	for _, g := range st.Goals {
		if strings.EqualFold(g.Name, ref) {
			return g, nil
		}
	}
	return model.SavingsGoal{}, fmt.Errorf("savings goal %q: %w", ref, common.ErrNotFound)
}

func parseIcon(name string, fallback model.Icon) (model.Icon, error) {
	if strings.TrimSpace(name) == "" {
		return fallback, nil
	}
	icon, err := model.ParseIcon(name)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrValidation, err)
	}
	return icon, nil
}

func success(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf(format, args...)))
}

func warning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, cli.FormatWarning(fmt.Sprintf(format, args...)))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// matchID resolves ref to the id of one item, accepting a unique id prefix
// like the ones list commands print.
func matchID[T any](items []T, idOf func(T) string, ref, kind string) (string, error) {
	ref = strings.TrimSpace(ref)
	var matches []string
	for _, item := range items {
		id := idOf(item)
		if id == ref {
			return id, nil
		}
		if ref != "" && strings.HasPrefix(id, ref) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s %q: %w", kind, ref, common.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %s id %q is ambiguous", common.ErrValidation, kind, ref)
	}
}
