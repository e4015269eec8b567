package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/store"
	"github.com/robfig/cron/v3"
)

// DefaultSchedule evaluates reminders once an hour.
const DefaultSchedule = "@hourly"

// Source is the part of the store the scheduler reads and updates.
type Source interface {
	State() (store.State, error)
	Now() time.Time
	PruneNotifiedReminders(ctx context.Context, activeIDs []string) error
	MarkRemindersNotified(ctx context.Context, ids ...string) error
}

// Notifier delivers a reminder to the user.
type Notifier interface {
	Notify(ctx context.Context, r Reminder) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, r Reminder) error

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, r Reminder) error {
	return f(ctx, r)
}

// LogNotifier delivers reminders as log records.
func LogNotifier(logger *slog.Logger) Notifier {
	logger = common.OrDefault(logger)
	return NotifierFunc(func(_ context.Context, r Reminder) error {
		logger.Info("Reminder", "id", r.ID, "title", r.Title, "message", r.Message)
		return nil
	})
}

// Scheduler periodically delivers new reminders.
type Scheduler struct {
	source   Source
	notifier Notifier
	logger   *slog.Logger
	cron     *cron.Cron
}

// NewScheduler creates a scheduler. A nil notifier logs reminders.
func NewScheduler(source Source, notifier Notifier, logger *slog.Logger) *Scheduler {
	logger = common.OrDefault(logger)
	if notifier == nil {
		notifier = LogNotifier(logger)
	}
	return &Scheduler{
		source:   source,
		notifier: notifier,
		logger:   logger,
		cron:     cron.New(),
	}
}

// Check evaluates reminders once: notified ids that no longer apply are
// pruned, and when reminders are enabled every undelivered reminder is sent
// and marked notified. It returns the reminders that were delivered.
func (s *Scheduler) Check(ctx context.Context) ([]Reminder, error) {
	st, err := s.source.State()
	if err != nil {
		return nil, err
	}
	all := Evaluate(st, s.source.Now())
	if err := s.source.PruneNotifiedReminders(ctx, IDs(all)); err != nil {
		return nil, fmt.Errorf("failed to prune reminders: %w", err)
	}
	if !st.Reminders.Enabled {
		return nil, nil
	}

	var delivered []Reminder
	for _, r := range Undelivered(all, st.Reminders) {
		if err := s.notifier.Notify(ctx, r); err != nil {
			s.logger.Warn("Failed to deliver reminder", "id", r.ID, "error", err)
			continue
		}
		delivered = append(delivered, r)
	}
	if len(delivered) == 0 {
		return nil, nil
	}
	if err := s.source.MarkRemindersNotified(ctx, IDs(delivered)...); err != nil {
		return delivered, fmt.Errorf("failed to mark reminders notified: %w", err)
	}
	return delivered, nil
}

// Start runs Check on the cron schedule until Stop is called.
func (s *Scheduler) Start(ctx context.Context, schedule string) error {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	_, err := s.cron.AddFunc(schedule, func() {
		delivered, err := s.Check(ctx)
		if err != nil {
			s.logger.Error("Reminder check failed", "error", err)
			return
		}
		if len(delivered) > 0 {
			s.logger.Info("Delivered reminders", "count", len(delivered))
		}
	})
	if err != nil {
		return fmt.Errorf("%w: invalid reminder schedule %q: %w", common.ErrInvalidConfig, schedule, err)
	}
	s.cron.Start()
	s.logger.Debug("Reminder scheduler started", "schedule", schedule)
	return nil
}

// Stop halts the schedule and waits for a running check to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
