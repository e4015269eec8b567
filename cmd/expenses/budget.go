package main

import (
	"fmt"
	"strconv"

	"github.com/Veraticus/expense-tracker/internal/budget"
	"github.com/Veraticus/expense-tracker/internal/cli"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/report"
	"github.com/Veraticus/expense-tracker/internal/validate"
	"github.com/spf13/cobra"
)

// defaultAlertThreshold is the budget percentage that triggers a warning.
const defaultAlertThreshold = 80

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "budget",
		Aliases: []string{"budgets"},
		Short:   "Set monthly limits per category",
		Example: `  # Spend at most 1500 a month on fast food, warn at 75%
  expenses budget set "Fast Food" 1500 --threshold 75

  # See how every budget is doing this month
  expenses budget list`,
	}

	cmd.AddCommand(setBudgetCmd())
	cmd.AddCommand(listBudgetsCmd())
	cmd.AddCommand(deleteBudgetCmd())

	return cmd
}

func setBudgetCmd() *cobra.Command {
	var threshold int

	cmd := &cobra.Command{
		Use:   "set <category> <monthly-limit>",
		Short: "Create or change a category budget",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			limit, err := validate.ParseAmount(args[1])
			if err != nil {
				return err
			}

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			st, err := a.store.State()
			if err != nil {
				return err
			}
			c, err := resolveCategory(st, args[0])
			if err != nil {
				return err
			}

			stop := a.announceAchievements(cmd.OutOrStdout())
			defer stop()

			b, err := a.store.SetBudget(ctx, c.ID, limit, threshold)
			if err != nil {
				return fmt.Errorf("failed to set budget: %w", err)
			}
			success(cmd.OutOrStdout(), "%s budget set to %s a month (alert at %d%%)",
				c.Name, cli.InfoStyle.Render(formatMoney(b.MonthlyLimit)), b.AlertThreshold)
			return nil
		},
	}

	cmd.Flags().IntVarP(&threshold, "threshold", "t", defaultAlertThreshold, "alert threshold percentage (0-100)")

	return cmd
}

func listBudgetsCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "status"},
		Short:   "Show how each budget is doing",
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
			m, err := parseMonth(month, a.store.Now())
			if err != nil {
				return err
			}

			fmt.Fprintln(out, cli.FormatTitle("Budgets for "+report.FormatMonth(m.Format(model.MonthLayout))))
			statuses := st.BudgetStatuses(m)
			if len(statuses) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No budgets set. Try: expenses budget set <category> <limit>"))
				return nil
			}

			rows := make([][]string, 0, len(statuses))
			for _, s := range statuses {
				level := budget.LevelOf(s)
				rows = append(rows, []string{
					st.CategoryName(s.CategoryID),
					formatMoney(s.Spent),
					formatMoney(s.Budget.MonthlyLimit),
					formatMoney(s.Remaining),
					cli.StyleLevel(level, cli.Meter(s.Percentage, 10)+" "+strconv.Itoa(s.Percentage)+"%"),
				})
			}
			fmt.Fprintln(out, cli.RenderTable([]string{"Category", "Spent", "Limit", "Remaining", "Used"}, rows))
			fmt.Fprintf(out, "\nBudget health: %s\n", cli.InfoStyle.Render(strconv.Itoa(budget.HealthScore(statuses))+"/100"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "month (YYYY-MM, default current)")

	return cmd
}

func deleteBudgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <category>",
		Aliases: []string{"rm"},
		Short:   "Remove a category budget",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			st, err := a.store.State()
			if err != nil {
				return err
			}
			c, err := resolveCategory(st, args[0])
			if err != nil {
				return err
			}
			b, ok := budget.Find(st.Budgets, c.ID)
			if !ok {
				return fmt.Errorf("no budget for %s", c.Name)
			}
			if err := a.store.DeleteBudget(ctx, b.ID); err != nil {
				return fmt.Errorf("failed to delete budget: %w", err)
			}
			success(cmd.OutOrStdout(), "Removed the %s budget", c.Name)
			return nil
		},
	}
}
