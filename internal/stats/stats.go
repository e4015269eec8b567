// Package stats derives the user statistics aggregate from entity collections.
package stats

import (
	"slices"
	"time"

	"github.com/Veraticus/expense-tracker/internal/budget"
	"github.com/Veraticus/expense-tracker/internal/model"
)

// Collections are the entity lists statistics are derived from.
type Collections struct {
	Expenses []model.Expense
	Incomes  []model.Income
	Goals    []model.SavingsGoal
	Budgets  []model.Budget
}

// Recompute rebuilds every derived field from the collections. The streak
// fields are stateful and carried over from prev unchanged.
func Recompute(prev model.UserStats, c Collections, now time.Time) model.UserStats {
	next := model.UserStats{
		CurrentStreak:    prev.CurrentStreak,
		LongestStreak:    prev.LongestStreak,
		LastActivityDate: prev.LastActivityDate,
		TotalExpenses:    len(c.Expenses),
		TotalIncome:      len(c.Incomes),
		GoalsCreated:     len(c.Goals),
		CategoriesUsed:   CategoriesUsed(c.Expenses),
		TotalSaved:       model.Zero,
	}

	for _, g := range c.Goals {
		next.TotalSaved = next.TotalSaved.Add(g.CurrentAmount)
		if g.IsComplete() {
			next.GoalsCompleted++
		}
	}

	for _, s := range budget.AllStatuses(c.Expenses, c.Budgets, now) {
		if !s.IsOverBudget {
			next.BudgetsMet++
		}
	}

	return next
}

// CategoriesUsed returns the distinct category ids referenced by expenses,
// sorted.
func CategoriesUsed(expenses []model.Expense) []string {
	used := make([]string, 0)
	for _, e := range expenses {
		if !slices.Contains(used, e.CategoryID) {
			used = append(used, e.CategoryID)
		}
	}
	slices.Sort(used)
	return used
}
