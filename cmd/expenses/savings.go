package main

import (
	"context"
	"fmt"
	"io"

	"github.com/Veraticus/expense-tracker/internal/cli"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/report"
	"github.com/Veraticus/expense-tracker/internal/savings"
	"github.com/Veraticus/expense-tracker/internal/store"
	"github.com/Veraticus/expense-tracker/internal/validate"
	"github.com/spf13/cobra"
)

func savingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "savings",
		Aliases: []string{"goal", "goals"},
		Short:   "Manage savings goals",
		Example: `  # Save 20,000 for a laptop by the end of the year
  expenses savings add Laptop 20000 --deadline 2026-12-31

  # Put 2,500 toward it
  expenses savings deposit Laptop 2500

  # Overshoot and send the extra to another goal without prompting
  expenses savings deposit Laptop 5000 --move-to "Emergency Fund"`,
	}

	cmd.AddCommand(addGoalCmd())
	cmd.AddCommand(listGoalsCmd())
	cmd.AddCommand(depositCmd())
	cmd.AddCommand(deleteGoalCmd())

	return cmd
}

func addGoalCmd() *cobra.Command {
	var initial, deadline, icon, color string

	cmd := &cobra.Command{
		Use:   "add <name> <target>",
		Short: "Create a savings goal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			target, err := validate.ParseAmount(args[1])
			if err != nil {
				return err
			}
			in := model.SavingsGoalInput{
				Name:          args[0],
				TargetAmount:  target,
				InitialAmount: model.Zero,
				Color:         color,
			}
			if initial != "" {
				if in.InitialAmount, err = model.ParseMoney(initial); err != nil {
					return validate.Errorf("initial amount must be a valid number")
				}
			}
			if in.Icon, err = parseIcon(icon, model.IconPiggyBank); err != nil {
				return err
			}

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if deadline != "" {
				d, err := parseDate(deadline, a.store.Now())
				if err != nil {
					return err
				}
				in.Deadline = &d
			}

			stop := a.announceAchievements(out)
			defer stop()

			g, err := a.store.AddSavingsGoal(ctx, in)
			if err != nil {
				return fmt.Errorf("failed to add savings goal: %w", err)
			}
			success(out, "Created goal %s %s with a target of %s",
				g.Icon.Glyph(), cli.InfoStyle.Render(g.Name), formatMoney(g.TargetAmount))
			return nil
		},
	}

	cmd.Flags().StringVar(&initial, "initial", "", "amount already saved")
	cmd.Flags().StringVar(&deadline, "deadline", "", "target date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&icon, "icon", "", "icon name (default PiggyBank)")
	cmd.Flags().StringVar(&color, "color", model.DefaultGoalColor, "hex color")

	return cmd
}

func listGoalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show progress toward every goal",
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

			fmt.Fprintln(out, cli.FormatTitle(cli.TargetIcon+" Savings goals"))
			if len(st.Goals) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No savings goals yet. Try: expenses savings add <name> <target>"))
				return nil
			}

			now := a.store.Now()
			rows := make([][]string, 0, len(st.Goals))
			for _, g := range st.Goals {
				p := savings.Project(g, now)
				rows = append(rows, []string{
					g.Icon.Glyph() + " " + g.Name,
					formatMoney(g.CurrentAmount) + " / " + formatMoney(g.TargetAmount),
					cli.Meter(p.Progress, 10) + fmt.Sprintf(" %d%%", p.Progress),
					goalOutlook(g, p),
				})
			}
			fmt.Fprintln(out, cli.RenderTable([]string{"Goal", "Saved", "Progress", "Outlook"}, rows))

			saved, target, pct := savings.Overall(st.Goals)
			fmt.Fprintf(out, "\nOverall %s of %s (%d%%)\n", cli.InfoStyle.Render(formatMoney(saved)), formatMoney(target), pct)
			return nil
		},
	}
}

func goalOutlook(g model.SavingsGoal, p savings.Projection) string {
	switch {
	case p.IsComplete:
		return cli.StyleSuccess("complete")
	case p.DaysRemaining == nil:
		return formatMoney(p.Remaining) + " to go"
	case *p.DaysRemaining < 0:
		return cli.StyleError(fmt.Sprintf("deadline passed %s", report.FormatDate(*g.Deadline)))
	case p.MonthlyNeeded != nil:
		return fmt.Sprintf("%d days left, %s/month", *p.DaysRemaining, formatMoney(*p.MonthlyNeeded))
	default:
		return fmt.Sprintf("%d days left", *p.DaysRemaining)
	}
}

func depositCmd() *cobra.Command {
	var keep bool
	var moveTo string

	cmd := &cobra.Command{
		Use:   "deposit <goal> <amount>",
		Short: "Add money to a goal",
		Long: `Add money to a savings goal.

When the deposit would take the goal past its target and other goals exist,
you are asked whether to keep the extra in this goal or move it to another.
Use --keep or --move-to to decide up front.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if keep && moveTo != "" {
				return validate.Errorf("--keep and --move-to cannot be used together")
			}
			amount, err := validate.ParseAmount(args[1])
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
			goal, err := resolveGoal(st, args[0])
			if err != nil {
				return err
			}

			var dest string
			if moveTo != "" {
				d, err := resolveGoal(st, moveTo)
				if err != nil {
					return err
				}
				dest = d.ID
			}

			stop := a.announceAchievements(out)
			defer stop()

			outcome, err := a.store.Deposit(ctx, goal.ID, amount)
			if err != nil {
				return fmt.Errorf("failed to deposit: %w", err)
			}

			res := outcome.Result
			if outcome.Pending != nil {
				res, err = resolvePending(ctx, a.store, cmd.InOrStdin(), out, *outcome.Pending, keep, dest)
				if err != nil {
					return err
				}
				if res == nil {
					fmt.Fprintln(out, cli.FormatInfo("Deposit canceled, nothing was saved."))
					return nil
				}
			}

			printDeposit(out, a.store, *res)
			return nil
		},
	}

	cmd.Flags().BoolVar(&keep, "keep", false, "keep any amount over the target in this goal")
	cmd.Flags().StringVar(&moveTo, "move-to", "", "move any amount over the target to this goal")

	return cmd
}

// resolvePending settles a deposit awaiting confirmation, asking the user
// unless the flags already decided. A nil result means it was canceled.
func resolvePending(ctx context.Context, s *store.Store, in io.Reader, out io.Writer, pending savings.Pending, keep bool, dest string) (*savings.Result, error) {
	decision := cli.OverflowDecision{Choice: savings.ChoiceKeep}
	switch {
	case keep:
	case dest != "":
		decision = cli.OverflowDecision{Choice: savings.ChoiceMove, DestinationID: dest}
	default:
		st, err := s.State()
		if err != nil {
			return nil, err
		}
		decision, err = cli.NewPrompter(in, out).ResolveOverflow(ctx, pending, st.Goals)
		if err != nil {
			// Nothing was applied while pending
			if cancelErr := s.CancelDeposit(context.WithoutCancel(ctx)); cancelErr != nil {
				return nil, fmt.Errorf("%w (and failed to cancel the deposit: %w)", err, cancelErr)
			}
			return nil, err
		}
	}

	if decision.Cancel {
		if err := s.CancelDeposit(ctx); err != nil {
			return nil, fmt.Errorf("failed to cancel deposit: %w", err)
		}
		return nil, nil
	}

	res, err := s.ResolveDeposit(ctx, pending.ID, decision.Choice, decision.DestinationID)
	if err != nil {
		_ = s.CancelDeposit(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("failed to complete deposit: %w", err)
	}
	return &res, nil
}

func printDeposit(w io.Writer, s *store.Store, res savings.Result) {
	st, err := s.State()
	if err != nil {
		return
	}
	for _, alloc := range res.Allocations {
		g, _ := st.Goal(alloc.GoalID)
		success(w, "Deposited %s into %s (%s of %s)",
			cli.InfoStyle.Render(formatMoney(alloc.Amount)), g.Name,
			formatMoney(g.CurrentAmount), formatMoney(g.TargetAmount))
	}
	if res.ReachedGoal {
		g, _ := st.Goal(res.GoalID)
		fmt.Fprintf(w, "%s %s reached its target!\n", cli.TargetIcon, cli.SuccessStyle.Render(g.Name))
	}
}

func deleteGoalCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <goal>",
		Aliases: []string{"rm"},
		Short:   "Delete a savings goal",
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
			g, err := resolveGoal(st, args[0])
			if err != nil {
				return err
			}
			if err := a.store.DeleteSavingsGoal(ctx, g.ID); err != nil {
				return fmt.Errorf("failed to delete goal: %w", err)
			}
			success(cmd.OutOrStdout(), "Deleted goal %s", g.Name)
			return nil
		},
	}
}
