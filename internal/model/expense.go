// Package model defines the domain entities of the expense tracker.
package model

import (
	"fmt"
	"strings"
	"time"
)

// MonthLayout is the "YYYY-MM" month key format.
const MonthLayout = "2006-01"

// Expense is a single spending entry. CategoryID references a Category.
type Expense struct {
	Date       time.Time `json:"date"`
	ID         string    `json:"id"`
	CategoryID string    `json:"categoryId"`
	Note       string    `json:"note,omitempty"`
	Amount     Money     `json:"amount"`
}

// Month returns the expense's "YYYY-MM" month key.
func (e Expense) Month() string {
	return e.Date.Format(MonthLayout)
}

// ExpenseInput is the data needed to create an expense.
type ExpenseInput struct {
	Date       time.Time
	CategoryID string
	Note       string
	Amount     Money
}

// ExpensePatch holds the mutable fields of an expense.
type ExpensePatch struct {
	Date       *time.Time
	CategoryID *string
	Note       *string
	Amount     *Money
}

// IncomeSource is one of a fixed set of income origins.
type IncomeSource string

// Supported income sources.
const (
	IncomeSalary     IncomeSource = "Salary"
	IncomeFreelance  IncomeSource = "Freelance"
	IncomeBusiness   IncomeSource = "Business"
	IncomeInvestment IncomeSource = "Investment"
	IncomeGift       IncomeSource = "Gift"
	IncomeOther      IncomeSource = "Other"
)

// IncomeSources lists every valid income source.
var IncomeSources = []IncomeSource{
	IncomeSalary, IncomeFreelance, IncomeBusiness, IncomeInvestment, IncomeGift, IncomeOther,
}

// Valid reports whether s is a known income source.
func (s IncomeSource) Valid() bool {
	for _, known := range IncomeSources {
		if s == known {
			return true
		}
	}
	return false
}

// ParseIncomeSource resolves a source name, ignoring case.
func ParseIncomeSource(s string) (IncomeSource, error) {
	for _, known := range IncomeSources {
		if strings.EqualFold(string(known), strings.TrimSpace(s)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown income source %q", s)
}

// Income is a received payment. Month is always derived from Date.
type Income struct {
	Date   time.Time    `json:"date"`
	ID     string       `json:"id"`
	Source IncomeSource `json:"source"`
	Month  string       `json:"month"`
	Amount Money        `json:"amount"`
}

// NewIncome builds an income entry with its month key derived from date.
func NewIncome(id string, amount Money, source IncomeSource, date time.Time) Income {
	return Income{
		ID:     id,
		Amount: amount,
		Source: source,
		Date:   date,
		Month:  date.Format(MonthLayout),
	}
}

// IncomePatch holds the mutable fields of an income entry.
type IncomePatch struct {
	Date   *time.Time
	Source *IncomeSource
	Amount *Money
}

// Debt is money borrowed from a creditor.
type Debt struct {
	BorrowedDate time.Time  `json:"borrowedDate"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	PaidDate     *time.Time `json:"paidDate,omitempty"`
	ID           string     `json:"id"`
	Creditor     string     `json:"creditor"`
	Reason       string     `json:"reason,omitempty"`
	Amount       Money      `json:"amount"`
	IsPaid       bool       `json:"isPaid"`
}

// MarkPaid flips the debt to paid and stamps the paid date. Already paid
// debts keep their original paid date.
func (d Debt) MarkPaid(now time.Time) Debt {
	if d.IsPaid {
		return d
	}
	d.IsPaid = true
	paid := now
	d.PaidDate = &paid
	return d
}

// IsOverdue reports whether an unpaid debt is past its due date.
func (d Debt) IsOverdue(now time.Time) bool {
	return !d.IsPaid && d.DueDate != nil && now.After(*d.DueDate)
}

// DebtInput is the data needed to record a debt.
type DebtInput struct {
	BorrowedDate time.Time
	DueDate      *time.Time
	Creditor     string
	Reason       string
	Amount       Money
}

// DebtPatch holds the editable fields of a debt.
type DebtPatch struct {
	BorrowedDate *time.Time
	DueDate      *time.Time
	Creditor     *string
	Reason       *string
	Amount       *Money
}
