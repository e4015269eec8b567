package store

import (
	"slices"
	"time"

	"github.com/Veraticus/expense-tracker/internal/achievement"
	"github.com/Veraticus/expense-tracker/internal/budget"
	"github.com/Veraticus/expense-tracker/internal/category"
	"github.com/Veraticus/expense-tracker/internal/migration"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/savings"
	"github.com/Veraticus/expense-tracker/internal/stats"
)

// State is an immutable view of the whole application state. Every commit
// replaces it as a unit; callers must not modify the slices it holds.
type State struct {
	Pending      *savings.Pending
	Expenses     []model.Expense
	Incomes      []model.Income
	Debts        []model.Debt
	Categories   []model.Category
	Budgets      []model.Budget
	Goals        []model.SavingsGoal
	Achievements []model.Achievement
	Messages     []model.ChatMessage
	Reminders    model.ReminderSettings
	Chat         model.ChatConfig
	Stats        model.UserStats
	Onboarding   model.Onboarding
}

func (st State) clone() State {
	next := st
	next.Expenses = slices.Clone(st.Expenses)
	next.Incomes = slices.Clone(st.Incomes)
	next.Debts = slices.Clone(st.Debts)
	next.Categories = slices.Clone(st.Categories)
	next.Budgets = slices.Clone(st.Budgets)
	next.Goals = slices.Clone(st.Goals)
	next.Achievements = slices.Clone(st.Achievements)
	next.Messages = slices.Clone(st.Messages)
	next.Reminders.Dismissed = slices.Clone(st.Reminders.Dismissed)
	next.Reminders.Notified = slices.Clone(st.Reminders.Notified)
	next.Stats.CategoriesUsed = slices.Clone(st.Stats.CategoriesUsed)
	return next
}

func (st State) collections() stats.Collections {
	return stats.Collections{
		Expenses: st.Expenses,
		Incomes:  st.Incomes,
		Goals:    st.Goals,
		Budgets:  st.Budgets,
	}
}

func (st State) snapshot() migration.Snapshot {
	expenses := make([]migration.StoredExpense, 0, len(st.Expenses))
	for _, e := range st.Expenses {
		expenses = append(expenses, migration.FromExpense(e))
	}
	return migration.Snapshot{
		Version:          migration.CurrentVersion,
		Expenses:         expenses,
		Incomes:          nonNil(st.Incomes),
		Debts:            nonNil(st.Debts),
		CustomCategories: nonNil(st.Categories),
		CategoryBudgets:  nonNil(st.Budgets),
		SavingsGoals:     nonNil(st.Goals),
		Achievements:     nonNil(st.Achievements),
		ChatMessages:     nonNil(st.Messages),
		UserStats:        st.Stats,
		Chat:             st.Chat,
		Onboarding:       st.Onboarding,
		Reminders:        st.reminders(),
	}
}

func (st State) reminders() model.ReminderSettings {
	r := st.Reminders
	r.Dismissed = nonNil(r.Dismissed)
	r.Notified = nonNil(r.Notified)
	return r
}

func fromSnapshot(s migration.Snapshot) State {
	expenses := make([]model.Expense, 0, len(s.Expenses))
	for _, e := range s.Expenses {
		expenses = append(expenses, e.Expense())
	}
	return State{
		Expenses:     expenses,
		Incomes:      s.Incomes,
		Debts:        s.Debts,
		Categories:   s.CustomCategories,
		Budgets:      s.CategoryBudgets,
		Goals:        s.SavingsGoals,
		Achievements: s.Achievements,
		Messages:     s.ChatMessages,
		Stats:        s.UserStats,
		Chat:         s.Chat,
		Onboarding:   s.Onboarding,
		Reminders:    s.Reminders,
	}
}

// freshState is the state of a first run.
func freshState(now time.Time) State {
	return State{
		Categories:   category.Defaults(now),
		Achievements: achievement.Initialize(nil),
		Chat:         model.ChatConfig{BotName: model.DefaultBotName},
		Reminders:    model.ReminderSettings{Enabled: true},
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// ExpensesInMonth returns the expenses dated within month, newest first.
func (st State) ExpensesInMonth(month time.Time) []model.Expense {
	var out []model.Expense
	for _, e := range st.Expenses {
		if model.InMonth(e.Date, month) {
			out = append(out, e)
		}
	}
	sortNewestFirst(out)
	return out
}

// ExpensesByCategory returns the expenses filed under categoryID, newest first.
func (st State) ExpensesByCategory(categoryID string) []model.Expense {
	var out []model.Expense
	for _, e := range st.Expenses {
		if e.CategoryID == categoryID {
			out = append(out, e)
		}
	}
	sortNewestFirst(out)
	return out
}

// RecentExpenses returns up to n expenses, newest first.
func (st State) RecentExpenses(n int) []model.Expense {
	out := slices.Clone(st.Expenses)
	sortNewestFirst(out)
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// BudgetStatuses evaluates every budget for month.
func (st State) BudgetStatuses(month time.Time) []budget.Status {
	return budget.AllStatuses(st.Expenses, st.Budgets, month)
}

// HealthScore is the budget health score for month.
func (st State) HealthScore(month time.Time) int {
	return budget.HealthScore(st.BudgetStatuses(month))
}

// GoalProjections returns the progress projection of every goal.
func (st State) GoalProjections(now time.Time) []savings.Projection {
	out := make([]savings.Projection, 0, len(st.Goals))
	for _, g := range st.Goals {
		out = append(out, savings.Project(g, now))
	}
	return out
}

// UnlockedAchievements returns the achievements the user has earned.
func (st State) UnlockedAchievements() []model.Achievement {
	return achievement.Unlocked(st.Achievements)
}

// CategoryName resolves a category id for display.
func (st State) CategoryName(id string) string {
	return category.Name(st.Categories, id)
}

// Goal looks up a savings goal by id.
func (st State) Goal(id string) (model.SavingsGoal, bool) {
	i := slices.IndexFunc(st.Goals, func(g model.SavingsGoal) bool { return g.ID == id })
	if i < 0 {
		return model.SavingsGoal{}, false
	}
	return st.Goals[i], true
}

func sortNewestFirst(expenses []model.Expense) {
	slices.SortStableFunc(expenses, func(a, b model.Expense) int {
		return b.Date.Compare(a.Date)
	})
}
