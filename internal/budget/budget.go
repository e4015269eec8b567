// Package budget computes monthly category spending against budgets.
package budget

import (
	"time"

	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/shopspring/decimal"
)

// Status is the state of one category's budget for a month.
type Status struct {
	Budget       *model.Budget `json:"budget"`
	CategoryID   string        `json:"categoryId"`
	Spent        model.Money   `json:"spent"`
	Remaining    model.Money   `json:"remaining"`
	Percentage   int           `json:"percentage"`
	IsOverBudget bool          `json:"isOverBudget"`
	IsNearLimit  bool          `json:"isNearLimit"`
}

// Level classifies a status for display.
type Level string

// Display levels.
const (
	LevelOK      Level = "ok"
	LevelWarning Level = "warning"
	LevelOver    Level = "over"
)

var hundred = decimal.NewFromInt(100)

// MonthRange returns the first and last instant of the calendar month
// containing month, both inclusive.
func MonthRange(month time.Time) (time.Time, time.Time) {
	return model.MonthBounds(month)
}

// CategorySpending sums the category's expenses dated inside the calendar
// month containing month.
func CategorySpending(expenses []model.Expense, categoryID string, month time.Time) model.Money {
	start, end := MonthRange(month)
	total := model.Zero
	for _, e := range expenses {
		at := e.Date.In(month.Location())
		if e.CategoryID == categoryID && !at.Before(start) && !at.After(end) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// Progress returns spent as a rounded percentage of limit. A zero limit
// yields 0.
func Progress(spent, limit model.Money) int {
	if limit.IsZero() {
		return 0
	}
	return int(spent.Mul(hundred).Div(limit).Round(0).IntPart())
}

// GetStatus computes the budget status for a category. A nil budget yields a
// neutral status that still reports what was spent.
func GetStatus(expenses []model.Expense, categoryID string, b *model.Budget, month time.Time) Status {
	spent := CategorySpending(expenses, categoryID, month)
	if b == nil {
		return Status{
			CategoryID: categoryID,
			Spent:      spent,
			Remaining:  model.Zero,
		}
	}

	pct := Progress(spent, b.MonthlyLimit)
	over := spent.GreaterThan(b.MonthlyLimit)
	return Status{
		CategoryID:   categoryID,
		Budget:       b,
		Spent:        spent,
		Remaining:    b.MonthlyLimit.Sub(spent),
		Percentage:   pct,
		IsOverBudget: over,
		IsNearLimit:  pct >= b.AlertThreshold && !over,
	}
}

// AllStatuses returns one status per budget, in budget order.
func AllStatuses(expenses []model.Expense, budgets []model.Budget, month time.Time) []Status {
	statuses := make([]Status, 0, len(budgets))
	for i := range budgets {
		b := budgets[i]
		statuses = append(statuses, GetStatus(expenses, b.CategoryID, &b, month))
	}
	return statuses
}

// WouldExceed reports whether spending amount more in the category would push
// it over the limit.
func WouldExceed(expenses []model.Expense, categoryID string, amount model.Money, b *model.Budget, month time.Time) bool {
	if b == nil {
		return false
	}
	spent := CategorySpending(expenses, categoryID, month).Add(amount)
	return spent.GreaterThan(b.MonthlyLimit)
}

// WouldTriggerAlert reports whether spending amount more would reach the
// alert threshold without going over the limit.
func WouldTriggerAlert(expenses []model.Expense, categoryID string, amount model.Money, b *model.Budget, month time.Time) bool {
	if b == nil {
		return false
	}
	spent := CategorySpending(expenses, categoryID, month).Add(amount)
	return Progress(spent, b.MonthlyLimit) >= b.AlertThreshold && spent.LessThanOrEqual(b.MonthlyLimit)
}

// HealthScore averages per-budget scores into 0..100. No budgets is healthy.
func HealthScore(statuses []Status) int {
	if len(statuses) == 0 {
		return 100
	}
	sum := 0
	for _, s := range statuses {
		sum += score(s)
	}
	n := len(statuses)
	return (2*sum + n) / (2 * n)
}

func score(s Status) int {
	switch {
	case s.IsOverBudget:
		return 0
	case s.Percentage >= 90:
		return 25
	case s.Percentage >= 80:
		return 50
	case s.Percentage >= 70:
		return 75
	default:
		return 100
	}
}

// LevelOf maps a status to a display level.
func LevelOf(s Status) Level {
	switch {
	case s.IsOverBudget:
		return LevelOver
	case s.Percentage >= 80:
		return LevelWarning
	default:
		return LevelOK
	}
}

// Find returns the budget for a category.
func Find(budgets []model.Budget, categoryID string) (*model.Budget, bool) {
	for i := range budgets {
		if budgets[i].CategoryID == categoryID {
			b := budgets[i]
			return &b, true
		}
	}
	return nil, false
}
