package main

import (
	"fmt"
	"slices"

	"github.com/Veraticus/expense-tracker/internal/cli"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/report"
	"github.com/Veraticus/expense-tracker/internal/validate"
	"github.com/spf13/cobra"
)

func debtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "debt",
		Aliases: []string{"debts"},
		Short:   "Track money you owe",
	}

	cmd.AddCommand(addDebtCmd())
	cmd.AddCommand(listDebtsCmd())
	cmd.AddCommand(payDebtCmd())
	cmd.AddCommand(deleteDebtCmd())

	return cmd
}

func addDebtCmd() *cobra.Command {
	var creditor, reason, date, due string

	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Record a debt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := validate.ParseAmount(args[0])
			if err != nil {
				return err
			}

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			now := a.store.Now()
			borrowed, err := parseDate(date, now)
			if err != nil {
				return err
			}
			in := model.DebtInput{
				Amount:       amount,
				Creditor:     creditor,
				Reason:       reason,
				BorrowedDate: borrowed,
			}
			if due != "" {
				d, err := parseDate(due, now)
				if err != nil {
					return err
				}
				in.DueDate = &d
			}

			d, err := a.store.AddDebt(ctx, in)
			if err != nil {
				return fmt.Errorf("failed to add debt: %w", err)
			}
			success(cmd.OutOrStdout(), "Recorded %s owed to %s", cli.InfoStyle.Render(formatMoney(d.Amount)), d.Creditor)
			return nil
		},
	}

	cmd.Flags().StringVar(&creditor, "creditor", "", "who you owe")
	cmd.Flags().StringVar(&reason, "reason", "", "what it was for")
	cmd.Flags().StringVarP(&date, "date", "d", "", "date borrowed (YYYY-MM-DD)")
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("creditor")

	return cmd
}

func listDebtsCmd() *cobra.Command {
	var unpaid bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List debts",
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
			now := a.store.Now()

			debts := slices.Clone(st.Debts)
			if unpaid {
				debts = slices.DeleteFunc(debts, func(d model.Debt) bool { return d.IsPaid })
			}

			fmt.Fprintln(out, cli.FormatTitle("Debts"))
			if len(debts) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No debts recorded."))
				return nil
			}

			owed := model.Zero
			rows := make([][]string, 0, len(debts))
			for _, d := range debts {
				status := cli.StyleWarning("unpaid")
				switch {
				case d.IsPaid:
					status = cli.StyleSuccess("paid")
				case d.IsOverdue(now):
					status = cli.StyleError("overdue")
				}
				if !d.IsPaid {
					owed = owed.Add(d.Amount)
				}
				dueDate := "-"
				if d.DueDate != nil {
					dueDate = report.FormatDate(*d.DueDate)
				}
				rows = append(rows, []string{
					shortID(d.ID), d.Creditor, formatMoney(d.Amount), report.FormatDate(d.BorrowedDate), dueDate, status, d.Reason,
				})
			}
			fmt.Fprintln(out, cli.RenderTable([]string{"ID", "Creditor", "Amount", "Borrowed", "Due", "Status", "Reason"}, rows))
			fmt.Fprintf(out, "\nStill owed %s\n", cli.InfoStyle.Render(formatMoney(owed)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&unpaid, "unpaid", false, "only list unpaid debts")

	return cmd
}

func payDebtCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pay <id>",
		Short: "Mark a debt as paid",
		Args:  cobra.ExactArgs(1),
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
			id, err := matchID(st.Debts, func(d model.Debt) string { return d.ID }, args[0], "debt")
			if err != nil {
				return err
			}
			d, err := a.store.MarkDebtPaid(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to mark debt paid: %w", err)
			}
			success(cmd.OutOrStdout(), "Paid %s to %s", formatMoney(d.Amount), d.Creditor)
			return nil
		},
	}
}

func deleteDebtCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a debt",
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
			id, err := matchID(st.Debts, func(d model.Debt) string { return d.ID }, args[0], "debt")
			if err != nil {
				return err
			}
			if err := a.store.DeleteDebt(ctx, id); err != nil {
				return fmt.Errorf("failed to delete debt: %w", err)
			}
			success(cmd.OutOrStdout(), "Deleted debt %s", shortID(id))
			return nil
		},
	}
}
