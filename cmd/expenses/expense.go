package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Veraticus/expense-tracker/internal/budget"
	"github.com/Veraticus/expense-tracker/internal/cli"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/report"
	"github.com/Veraticus/expense-tracker/internal/store"
	"github.com/Veraticus/expense-tracker/internal/validate"
	"github.com/spf13/cobra"
)

func expenseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "expense",
		Aliases: []string{"expenses", "e"},
		Short:   "Record and manage expenses",
		Example: `  # Record lunch in the Fast Food category
  expenses expense add 85.50 --category "Fast Food" --note "Lunch"

  # List this month's expenses
  expenses expense list

  # Move an expense to another category
  expenses expense update 3f2a --category Drinks`,
	}

	cmd.AddCommand(addExpenseCmd())
	cmd.AddCommand(listExpensesCmd())
	cmd.AddCommand(updateExpenseCmd())
	cmd.AddCommand(deleteExpenseCmd())
	cmd.AddCommand(clearExpensesCmd())

	return cmd
}

func addExpenseCmd() *cobra.Command {
	var categoryRef, note, date string

	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Record a new expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			amount, err := validate.ParseAmount(args[0])
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
			cat, err := resolveCategory(st, categoryRef)
			if err != nil {
				return err
			}
			when, err := parseDate(date, a.store.Now())
			if err != nil {
				return err
			}

			stop := a.announceAchievements(out)
			defer stop()

			e, err := a.store.AddExpense(ctx, model.ExpenseInput{
				Amount:     amount,
				CategoryID: cat.ID,
				Note:       note,
				Date:       when,
			})
			if err != nil {
				return fmt.Errorf("failed to add expense: %w", err)
			}

			success(out, "Added %s to %s on %s",
				cli.InfoStyle.Render(formatMoney(e.Amount)),
				cat.Name,
				report.FormatDate(e.Date))

			st, err = a.store.State()
			if err != nil {
				return err
			}
			printBudgetAlert(out, st, cat, e.Date)
			return nil
		},
	}

	cmd.Flags().StringVarP(&categoryRef, "category", "c", "", "category name or id")
	cmd.Flags().StringVarP(&note, "note", "n", "", "optional note")
	cmd.Flags().StringVarP(&date, "date", "d", "", "expense date (YYYY-MM-DD, today, yesterday)")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

// printBudgetAlert warns when the category's budget is near or over its
// limit for the month containing at.
func printBudgetAlert(w io.Writer, st store.State, cat model.Category, at time.Time) {
	b, ok := budget.Find(st.Budgets, cat.ID)
	if !ok {
		return
	}
	status := budget.GetStatus(st.Expenses, cat.ID, b, at)
	switch {
	case status.IsOverBudget:
		warning(w, "%s is over budget: %s spent of %s (%d%%)",
			cat.Name, formatMoney(status.Spent), formatMoney(b.MonthlyLimit), status.Percentage)
	case status.IsNearLimit:
		warning(w, "%s is at %d%% of its %s budget",
			cat.Name, status.Percentage, formatMoney(b.MonthlyLimit))
	}
}

func listExpensesCmd() *cobra.Command {
	var month, categoryRef string
	var limit int
	var all bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List expenses, newest first",
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

			expenses := st.RecentExpenses(-1)
			title := "All expenses"
			if !all {
				m, err := parseMonth(month, a.store.Now())
				if err != nil {
					return err
				}
				expenses = st.ExpensesInMonth(m)
				title = "Expenses for " + report.FormatMonth(m.Format(model.MonthLayout))
			}
			if categoryRef != "" {
				cat, err := resolveCategory(st, categoryRef)
				if err != nil {
					return err
				}
				expenses = report.FilterByCategory(expenses, cat.ID)
				title += " in " + cat.Name
			}
			if limit > 0 && len(expenses) > limit {
				expenses = expenses[:limit]
			}

			fmt.Fprintln(out, cli.FormatTitle(title))
			if len(expenses) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No expenses recorded."))
				return nil
			}

			rows := make([][]string, 0, len(expenses))
			for _, e := range expenses {
				rows = append(rows, []string{
					shortID(e.ID),
					report.FormatDate(e.Date),
					st.CategoryName(e.CategoryID),
					formatMoney(e.Amount),
					e.Note,
				})
			}
			fmt.Fprintln(out, cli.RenderTable([]string{"ID", "Date", "Category", "Amount", "Note"}, rows))
			fmt.Fprintf(out, "\n%d expenses, total %s\n", len(expenses), cli.InfoStyle.Render(formatMoney(report.Total(expenses))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "month to list (YYYY-MM, default current)")
	cmd.Flags().StringVarP(&categoryRef, "category", "c", "", "only list this category")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "maximum number of expenses to show")
	cmd.Flags().BoolVar(&all, "all", false, "list every month")

	return cmd
}

func updateExpenseCmd() *cobra.Command {
	var amount, categoryRef, note, date string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			id, err := matchID(st.Expenses, func(e model.Expense) string { return e.ID }, args[0], "expense")
			if err != nil {
				return err
			}

			var patch model.ExpensePatch
			if flags.Changed("amount") {
				m, err := validate.ParseAmount(amount)
				if err != nil {
					return err
				}
				patch.Amount = &m
			}
			if flags.Changed("category") {
				cat, err := resolveCategory(st, categoryRef)
				if err != nil {
					return err
				}
				patch.CategoryID = &cat.ID
			}
			if flags.Changed("note") {
				patch.Note = &note
			}
			if flags.Changed("date") {
				when, err := parseDate(date, a.store.Now())
				if err != nil {
					return err
				}
				patch.Date = &when
			}

			stop := a.announceAchievements(out)
			defer stop()

			e, err := a.store.UpdateExpense(ctx, id, patch)
			if err != nil {
				return fmt.Errorf("failed to update expense: %w", err)
			}
			success(out, "Updated expense %s: %s in %s on %s",
				shortID(e.ID), formatMoney(e.Amount), st.CategoryName(e.CategoryID), report.FormatDate(e.Date))
			return nil
		},
	}

	cmd.Flags().StringVarP(&amount, "amount", "a", "", "new amount")
	cmd.Flags().StringVarP(&categoryRef, "category", "c", "", "new category name or id")
	cmd.Flags().StringVarP(&note, "note", "n", "", "new note")
	cmd.Flags().StringVarP(&date, "date", "d", "", "new date (YYYY-MM-DD)")

	return cmd
}

func deleteExpenseCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an expense",
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
			id, err := matchID(st.Expenses, func(e model.Expense) string { return e.ID }, args[0], "expense")
			if err != nil {
				return err
			}
			if err := a.store.DeleteExpense(ctx, id); err != nil {
				return fmt.Errorf("failed to delete expense: %w", err)
			}
			success(cmd.OutOrStdout(), "Deleted expense %s", shortID(id))
			return nil
		},
	}
}

func clearExpensesCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every expense",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if !yes {
				ok, err := cli.NewPrompter(cmd.InOrStdin(), out).Confirm(ctx, "Delete ALL expenses? This cannot be undone")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Canceled.")
					return nil
				}
			}

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.store.ClearExpenses(ctx)
			if err != nil {
				return fmt.Errorf("failed to clear expenses: %w", err)
			}
			success(out, "Deleted %s expenses", strconv.Itoa(n))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}
