// Package report aggregates expenses into the totals shown on the dashboard
// and in the CLI summaries.
package report

import (
	"sort"
	"time"

	"github.com/Veraticus/expense-tracker/internal/model"
)

// AllCategories disables category filtering.
const AllCategories = "all"

// CategoryTotal is the amount spent in one category.
type CategoryTotal struct {
	CategoryID string      `json:"categoryId"`
	Amount     model.Money `json:"amount"`
}

// MonthTotal is the amount spent in one "YYYY-MM" month.
type MonthTotal struct {
	Month  string      `json:"month"`
	Amount model.Money `json:"amount"`
}

// FilterByMonth returns the expenses dated inside the calendar month
// containing month. A zero month returns every expense.
func FilterByMonth(expenses []model.Expense, month time.Time) []model.Expense {
	if month.IsZero() {
		return expenses
	}
	var out []model.Expense
	for _, e := range expenses {
		if model.InMonth(e.Date, month) {
			out = append(out, e)
		}
	}
	return out
}

// FilterByCategory returns the expenses in one category. An empty id or
// AllCategories returns every expense.
func FilterByCategory(expenses []model.Expense, categoryID string) []model.Expense {
	if categoryID == "" || categoryID == AllCategories {
		return expenses
	}
	var out []model.Expense
	for _, e := range expenses {
		if e.CategoryID == categoryID {
			out = append(out, e)
		}
	}
	return out
}

// Total sums the expense amounts.
func Total(expenses []model.Expense) model.Money {
	total := model.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// ByCategory totals expenses per category, largest first. Ties are ordered
// by category id.
func ByCategory(expenses []model.Expense) []CategoryTotal {
	sums := make(map[string]model.Money)
	for _, e := range expenses {
		sums[e.CategoryID] = sums[e.CategoryID].Add(e.Amount)
	}
	out := make([]CategoryTotal, 0, len(sums))
	for id, amount := range sums {
		out = append(out, CategoryTotal{CategoryID: id, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].CategoryID < out[j].CategoryID
	})
	return out
}

// ByMonth totals expenses per month, oldest month first.
func ByMonth(expenses []model.Expense) []MonthTotal {
	sums := make(map[string]model.Money)
	for _, e := range expenses {
		sums[e.Month()] = sums[e.Month()].Add(e.Amount)
	}
	out := make([]MonthTotal, 0, len(sums))
	for month, amount := range sums {
		out = append(out, MonthTotal{Month: month, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// MostExpensiveCategory returns the category with the highest total, or false
// when there are no expenses.
func MostExpensiveCategory(expenses []model.Expense) (CategoryTotal, bool) {
	totals := ByCategory(expenses)
	if len(totals) == 0 {
		return CategoryTotal{}, false
	}
	return totals[0], true
}
