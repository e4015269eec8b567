package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Veraticus/expense-tracker/internal/cli"
	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/report"
	"github.com/Veraticus/expense-tracker/internal/validate"
	"github.com/spf13/cobra"
)

func incomeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "income",
		Short: "Record and manage income",
	}

	cmd.AddCommand(addIncomeCmd())
	cmd.AddCommand(listIncomeCmd())
	cmd.AddCommand(deleteIncomeCmd())

	return cmd
}

func addIncomeCmd() *cobra.Command {
	var source, date string

	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Record income",
		Long: fmt.Sprintf(`Record income from one of these sources: %s.`,
			joinSources()),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			amount, err := validate.ParseAmount(args[0])
			if err != nil {
				return err
			}
			src, err := model.ParseIncomeSource(source)
			if err != nil {
				return fmt.Errorf("%w: %w", common.ErrValidation, err)
			}

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			when, err := parseDate(date, a.store.Now())
			if err != nil {
				return err
			}

			stop := a.announceAchievements(out)
			defer stop()

			in, err := a.store.AddIncome(ctx, amount, src, when)
			if err != nil {
				return fmt.Errorf("failed to add income: %w", err)
			}
			success(out, "Added %s income of %s on %s",
				in.Source, cli.InfoStyle.Render(formatMoney(in.Amount)), report.FormatDate(in.Date))
			return nil
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", string(model.IncomeSalary), "income source")
	cmd.Flags().StringVarP(&date, "date", "d", "", "date received (YYYY-MM-DD)")

	return cmd
}

func joinSources() string {
	names := make([]string, 0, len(model.IncomeSources))
	for _, s := range model.IncomeSources {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

func listIncomeCmd() *cobra.Command {
	var month string
	var all bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List income, newest first",
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

			incomes := slices.Clone(st.Incomes)
			title := "All income"
			if !all {
				m, err := parseMonth(month, a.store.Now())
				if err != nil {
					return err
				}
				key := m.Format(model.MonthLayout)
				incomes = slices.DeleteFunc(incomes, func(in model.Income) bool { return in.Month != key })
				title = "Income for " + report.FormatMonth(key)
			}
			slices.SortStableFunc(incomes, func(x, y model.Income) int { return y.Date.Compare(x.Date) })

			fmt.Fprintln(out, cli.FormatTitle(title))
			if len(incomes) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No income recorded."))
				return nil
			}

			total := model.Zero
			rows := make([][]string, 0, len(incomes))
			for _, in := range incomes {
				total = total.Add(in.Amount)
				rows = append(rows, []string{shortID(in.ID), report.FormatDate(in.Date), string(in.Source), formatMoney(in.Amount)})
			}
			fmt.Fprintln(out, cli.RenderTable([]string{"ID", "Date", "Source", "Amount"}, rows))
			fmt.Fprintf(out, "\nTotal %s\n", cli.InfoStyle.Render(formatMoney(total)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "month to list (YYYY-MM, default current)")
	cmd.Flags().BoolVar(&all, "all", false, "list every month")

	return cmd
}

func deleteIncomeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an income entry",
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
			id, err := matchID(st.Incomes, func(in model.Income) string { return in.ID }, args[0], "income")
			if err != nil {
				return err
			}
			if err := a.store.DeleteIncome(ctx, id); err != nil {
				return fmt.Errorf("failed to delete income: %w", err)
			}
			success(cmd.OutOrStdout(), "Deleted income %s", shortID(id))
			return nil
		},
	}
}
