package report

import (
	"time"

	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Summary is the income versus spending picture for one month.
type Summary struct {
	Month         string      `json:"month"`
	TotalIncome   model.Money `json:"totalIncome"`
	TotalExpenses model.Money `json:"totalExpenses"`
	TotalDebts    model.Money `json:"totalDebts"`
	Remaining     model.Money `json:"remaining"`
	SavingsRate   float64     `json:"savingsRate"`
	SpendingRate  float64     `json:"spendingRate"`
}

// MonthlySummary computes the summary for the month containing month.
// Rates are percentages of income and are zero when there is no income.
// TotalDebts covers every unpaid debt regardless of month.
func MonthlySummary(expenses []model.Expense, incomes []model.Income, debts []model.Debt, month time.Time) Summary {
	key := month.Format(model.MonthLayout)
	s := Summary{
		Month:         key,
		TotalIncome:   model.Zero,
		TotalDebts:    model.Zero,
		TotalExpenses: Total(FilterByMonth(expenses, month)),
	}
	for _, in := range incomes {
		if in.Month == key {
			s.TotalIncome = s.TotalIncome.Add(in.Amount)
		}
	}
	for _, d := range debts {
		if !d.IsPaid {
			s.TotalDebts = s.TotalDebts.Add(d.Amount)
		}
	}
	s.Remaining = s.TotalIncome.Sub(s.TotalExpenses)
	if s.TotalIncome.IsPositive() {
		s.SavingsRate = rate(s.Remaining, s.TotalIncome)
		s.SpendingRate = rate(s.TotalExpenses, s.TotalIncome)
	}
	return s
}

func rate(part, whole model.Money) float64 {
	return part.Mul(hundred).Div(whole).Round(1).InexactFloat64()
}
