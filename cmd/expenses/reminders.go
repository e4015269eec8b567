package main

import (
	"fmt"

	"github.com/Veraticus/expense-tracker/internal/cli"
	"github.com/Veraticus/expense-tracker/internal/reminder"
	"github.com/spf13/cobra"
)

func remindersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reminders",
		Aliases: []string{"reminder"},
		Short:   "Budget and savings reminders",
		Long: `Show reminders about budgets near or over their limit and savings goals
that are falling behind. 'expenses serve' delivers new ones on a schedule.`,
	}

	cmd.AddCommand(listRemindersCmd())
	cmd.AddCommand(dismissReminderCmd())
	cmd.AddCommand(toggleRemindersCmd("enable", "Turn reminders on", true))
	cmd.AddCommand(toggleRemindersCmd("disable", "Turn reminders off", false))

	return cmd
}

func listRemindersCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show current reminders",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			st, err := a.store.State()
			if err != nil {
				return err
			}

			if !st.Reminders.Enabled {
				fmt.Fprintln(out, cli.FormatInfo("Reminders are off. Turn them on with: expenses reminders enable"))
			}
			reminders := reminder.Evaluate(st, a.store.Now())
			if !all {
				reminders = reminder.Active(reminders, st.Reminders)
			}

			fmt.Fprintln(out, cli.FormatTitle(cli.BellIcon+" Reminders"))
			if len(reminders) == 0 {
				fmt.Fprintln(out, cli.StyleSuccess("Nothing needs your attention."))
				return nil
			}
			rows := make([][]string, 0, len(reminders))
			for _, r := range reminders {
				title := r.Title
				if st.Reminders.IsDismissed(r.ID) {
					title += cli.SubtleStyle.Render(" (dismissed)")
				}
				rows = append(rows, []string{r.ID, title, r.Message})
			}
			fmt.Fprintln(out, cli.RenderTable([]string{"ID", "Reminder", "Details"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include dismissed reminders")

	return cmd
}

func dismissReminderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dismiss <id>",
		Short: "Hide a reminder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.store.DismissReminder(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to dismiss reminder: %w", err)
			}
			success(cmd.OutOrStdout(), "Dismissed %s", args[0])
			return nil
		},
	}
}

func toggleRemindersCmd(name, short string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.store.SetRemindersEnabled(ctx, enabled); err != nil {
				return fmt.Errorf("failed to update reminders: %w", err)
			}
			success(cmd.OutOrStdout(), "Reminders %sd", name)
			return nil
		},
	}
}
