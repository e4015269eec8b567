package main

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Veraticus/expense-tracker/internal/cli"
	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/llm"
	"github.com/Veraticus/expense-tracker/internal/tui"
	"github.com/spf13/cobra"
)

func chatCmd() *cobra.Command {
	var noAltScreen bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with your finance assistant",
		Long: `Open an interactive chat with your finance assistant.

The assistant sees your recent expenses, savings goals and achievements. Set
chat.api_key (or GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY) to get
real answers; without a key it runs in offline mode.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			assistant, err := a.assistant()
			if err != nil {
				return err
			}
			return tui.Run(ctx, assistant, a.store, tui.WithAltScreen(!noAltScreen))
		},
	}

	cmd.Flags().BoolVar(&noAltScreen, "inline", false, "render inline instead of using the alternate screen")

	cmd.AddCommand(chatAskCmd())
	cmd.AddCommand(chatClearCmd())
	cmd.AddCommand(chatConfigCmd())

	return cmd
}

func chatAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question...>",
		Short: "Ask the assistant a single question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			assistant, err := a.assistant()
			if err != nil {
				return err
			}
			st, err := a.store.State()
			if err != nil {
				return err
			}

			reply, err := assistant.Send(ctx, strings.Join(args, " "))
			var userErr *common.UserError
			if err != nil && !errors.As(err, &userErr) {
				return err
			}

			fmt.Fprintf(out, "%s %s: %s\n", cli.RobotIcon, cli.BoldStyle.Render(st.Chat.BotName), reply.Content)
			if userErr != nil {
				return userErr
			}
			return nil
		},
	}
}

func chatClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget the conversation history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.store.ClearChat(ctx); err != nil {
				return fmt.Errorf("failed to clear chat: %w", err)
			}
			success(cmd.OutOrStdout(), "Chat history cleared")
			return nil
		},
	}
}

func chatConfigCmd() *cobra.Command {
	var name, provider, modelName, apiKey string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the assistant settings",
		Long: `Show or change the assistant settings stored with your data.

Values set in the config file or EXPENSES_CHAT_* variables take precedence
over the stored ones.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			flags := cmd.Flags()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			st, err := a.store.State()
			if err != nil {
				return err
			}

			cfg := st.Chat
			changed := false
			if flags.Changed("name") {
				cfg.BotName, changed = name, true
			}
			if flags.Changed("provider") {
				p := strings.ToLower(strings.TrimSpace(provider))
				if p != "" && !slices.Contains(llm.Providers, p) {
					return fmt.Errorf("%w: unknown chat provider %q", common.ErrValidation, provider)
				}
				cfg.Provider, changed = p, true
			}
			if flags.Changed("model") {
				cfg.Model, changed = modelName, true
			}
			if flags.Changed("api-key") {
				cfg.APIKey, changed = strings.TrimSpace(apiKey), true
			}

			if changed {
				if err := a.store.SetChatConfig(ctx, cfg); err != nil {
					return fmt.Errorf("failed to save chat settings: %w", err)
				}
				success(out, "Chat settings saved")
				if st, err = a.store.State(); err != nil {
					return err
				}
			}

			assistant, err := a.assistant()
			if err != nil {
				return err
			}
			status := cli.StyleWarning("offline")
			if assistant.Online() {
				status = cli.StyleSuccess("online")
			}
			active := st.Chat.Provider
			if active == "" {
				active = llm.DefaultProvider
			}
			key := "not set"
			if st.Chat.APIKey != "" {
				key = "stored"
			}

			fmt.Fprintln(out, cli.RenderTable([]string{"Setting", "Value"}, [][]string{
				{"Name", st.Chat.BotName},
				{"Provider", active},
				{"Model", st.Chat.Model},
				{"API key", key},
				{"Status", status},
			}))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "assistant name")
	cmd.Flags().StringVar(&provider, "provider", "", "chat provider (gemini, openai, anthropic)")
	cmd.Flags().StringVar(&modelName, "model", "", "model name, empty for the provider default")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key to store with your data")

	return cmd
}
