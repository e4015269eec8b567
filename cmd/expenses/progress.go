package main

import (
	"fmt"
	"strconv"

	"github.com/Veraticus/expense-tracker/internal/cli"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/report"
	"github.com/Veraticus/expense-tracker/internal/streak"
	"github.com/spf13/cobra"
)

func achievementsCmd() *cobra.Command {
	var unlockedOnly bool

	cmd := &cobra.Command{
		Use:     "achievements",
		Aliases: []string{"badges"},
		Short:   "Show achievements and progress toward them",
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

			list := st.Achievements
			if unlockedOnly {
				list = st.UnlockedAchievements()
			}
			fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("%s Achievements (%d/%d unlocked)",
				cli.TrophyIcon, len(st.UnlockedAchievements()), len(st.Achievements))))

			rows := make([][]string, 0, len(list))
			for _, ach := range list {
				status := cli.Meter(ach.Percent(), 10) + fmt.Sprintf(" %d%%", ach.Percent())
				if ach.IsUnlocked {
					status = cli.StyleSuccess("unlocked")
					if ach.UnlockedAt != nil {
						status += " " + report.FormatDate(*ach.UnlockedAt)
					}
				}
				rows = append(rows, []string{ach.Icon.Glyph() + " " + ach.Title, ach.Description, status})
			}
			fmt.Fprintln(out, cli.RenderTable([]string{"Achievement", "How", "Status"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&unlockedOnly, "unlocked", false, "only show unlocked achievements")

	return cmd
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show your activity stats and streak",
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
			s := st.Stats
			now := a.store.Now()

			streakText := fmt.Sprintf("%s %d days", cli.FireIcon, s.CurrentStreak)
			switch {
			case s.CurrentStreak == 0 || streak.IsBroken(s.LastActivityDate, now):
				streakText = cli.StyleWarning("no active streak, log an expense today to start one")
			case model.CalendarDays(*s.LastActivityDate, now) == 1:
				streakText += cli.StyleWarning(" (log something today to keep it)")
			}

			lastActivity := "never"
			if s.LastActivityDate != nil {
				lastActivity = report.FormatDate(*s.LastActivityDate)
			}

			rows := [][]string{
				{"Current streak", streakText},
				{"Longest streak", strconv.Itoa(s.LongestStreak) + " days"},
				{"Last activity", lastActivity},
				{"Expenses logged", strconv.Itoa(s.TotalExpenses)},
				{"Income entries", strconv.Itoa(s.TotalIncome)},
				{"Categories used", strconv.Itoa(len(s.CategoriesUsed))},
				{"Total saved", formatMoney(s.TotalSaved)},
				{"Goals created", strconv.Itoa(s.GoalsCreated)},
				{"Goals completed", strconv.Itoa(s.GoalsCompleted)},
				{"Budgets met", strconv.Itoa(s.BudgetsMet)},
			}
			fmt.Fprintln(out, cli.FormatTitle(cli.ChartIcon+" Your stats"))
			fmt.Fprintln(out, cli.RenderTable([]string{"Stat", "Value"}, rows))
			return nil
		},
	}
}

func summaryCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Income versus spending for a month",
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

			sum := report.MonthlySummary(st.Expenses, st.Incomes, st.Debts, m)
			remaining := formatMoney(sum.Remaining)
			if sum.Remaining.IsNegative() {
				remaining = cli.StyleError(remaining)
			} else {
				remaining = cli.StyleSuccess(remaining)
			}

			fmt.Fprintln(out, cli.FormatTitle("Summary for "+report.FormatMonth(sum.Month)))
			fmt.Fprintln(out, cli.RenderTable([]string{"", ""}, [][]string{
				{"Income", formatMoney(sum.TotalIncome)},
				{"Spent", formatMoney(sum.TotalExpenses)},
				{"Remaining", remaining},
				{"Savings rate", fmt.Sprintf("%.1f%%", sum.SavingsRate)},
				{"Spending rate", fmt.Sprintf("%.1f%%", sum.SpendingRate)},
				{"Unpaid debts", formatMoney(sum.TotalDebts)},
			}))

			byCategory := report.ByCategory(report.FilterByMonth(st.Expenses, m))
			if len(byCategory) == 0 {
				return nil
			}
			rows := make([][]string, 0, len(byCategory))
			for _, ct := range byCategory {
				rows = append(rows, []string{st.CategoryName(ct.CategoryID), formatMoney(ct.Amount)})
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, cli.RenderTable([]string{"Category", "Spent"}, rows))
			fmt.Fprintf(out, "\nBudget health: %d/100\n", st.HealthScore(m))
			return nil
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "month (YYYY-MM, default current)")

	return cmd
}
