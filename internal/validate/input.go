package validate

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Veraticus/expense-tracker/internal/category"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/shopspring/decimal"
)

type expenseForm struct {
	Date       time.Time   `json:"date" validate:"required"`
	CategoryID string      `json:"categoryId" validate:"required"`
	Note       string      `json:"note" validate:"runemax"`
	Amount     model.Money `json:"amount" validate:"gt=0"`
}

// Expense validates a new or edited expense and returns it normalized: the
// amount rounded to cents and the note sanitized.
func Expense(in model.ExpenseInput, now time.Time) (model.ExpenseInput, error) {
	if err := Struct(expenseForm{Date: in.Date, CategoryID: in.CategoryID, Note: in.Note, Amount: in.Amount}); err != nil {
		return in, err
	}
	if err := NotFuture(in.Date, now); err != nil {
		return in, err
	}
	in.Amount = in.Amount.Round(model.MoneyScale)
	in.Note = SanitizeNote(in.Note)
	return in, nil
}

type incomeForm struct {
	Date   time.Time          `json:"date" validate:"required"`
	Source model.IncomeSource `json:"source" validate:"incomesource"`
	Amount model.Money        `json:"amount" validate:"gt=0"`
}

// Income validates an income entry.
func Income(amount model.Money, source model.IncomeSource, date time.Time) error {
	return Struct(incomeForm{Date: date, Source: source, Amount: amount})
}

type debtForm struct {
	BorrowedDate time.Time   `json:"borrowedDate" validate:"required"`
	Creditor     string      `json:"creditor" validate:"notblank"`
	Reason       string      `json:"reason" validate:"runemax"`
	Amount       model.Money `json:"amount" validate:"gt=0"`
}

// Debt validates a debt record.
func Debt(in model.DebtInput) error {
	if err := Struct(debtForm{BorrowedDate: in.BorrowedDate, Creditor: in.Creditor, Reason: in.Reason, Amount: in.Amount}); err != nil {
		return err
	}
	if in.DueDate != nil && in.DueDate.Before(model.StartOfDay(in.BorrowedDate)) {
		return Errorf("dueDate must not be before borrowedDate")
	}
	return nil
}

type categoryForm struct {
	Name  string     `json:"name" validate:"notblank,max=50"`
	Icon  model.Icon `json:"icon" validate:"icon"`
	Color string     `json:"color" validate:"hexcolor"`
}

// Category validates a category and, when categories is non-nil, that no
// other category already uses the name. excludeID skips the category being
// edited.
func Category(name string, icon model.Icon, color string, categories []model.Category, excludeID string) error {
	if err := Struct(categoryForm{Name: name, Icon: icon, Color: color}); err != nil {
		return err
	}
	if categories != nil && category.NameExists(categories, name, excludeID) {
		return Errorf("a category named %q already exists", strings.TrimSpace(name))
	}
	return nil
}

type budgetForm struct {
	CategoryID     string      `json:"categoryId" validate:"required"`
	MonthlyLimit   model.Money `json:"monthlyLimit" validate:"gt=0"`
	AlertThreshold int         `json:"alertThreshold" validate:"gte=0,lte=100"`
}

// Budget validates a budget limit and alert threshold.
func Budget(categoryID string, limit model.Money, threshold int) error {
	return Struct(budgetForm{CategoryID: categoryID, MonthlyLimit: limit, AlertThreshold: threshold})
}

type goalForm struct {
	Name          string      `json:"name" validate:"notblank,max=100"`
	Icon          model.Icon  `json:"icon" validate:"icon"`
	Color         string      `json:"color" validate:"hexcolor"`
	TargetAmount  model.Money `json:"targetAmount" validate:"gt=0"`
	InitialAmount model.Money `json:"currentAmount" validate:"gte=0"`
}

// SavingsGoal validates a new goal.
func SavingsGoal(in model.SavingsGoalInput) error {
	return Struct(goalForm{
		Name:          in.Name,
		Icon:          in.Icon,
		Color:         in.Color,
		TargetAmount:  in.TargetAmount,
		InitialAmount: in.InitialAmount,
	})
}

type monthForm struct {
	Month string `json:"month" validate:"yearmonth"`
}

// Month validates a "YYYY-MM" month key.
func Month(month string) error {
	return Struct(monthForm{Month: month})
}

// NotFuture rejects dates after the end of today.
func NotFuture(date, now time.Time) error {
	if model.StartOfDay(date.In(now.Location())).After(model.EndOfDay(now)) {
		return Errorf("date must not be in the future")
	}
	return nil
}

// ParseAmount parses a user-entered amount. It must be a number greater than
// zero and is rounded to cents.
func ParseAmount(s string) (model.Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return model.Zero, Errorf("amount must be a valid number")
	}
	if !d.IsPositive() {
		return model.Zero, Errorf("amount must be greater than 0")
	}
	return d.Round(model.MoneyScale), nil
}

// SanitizeNote trims the note, collapses runs of whitespace and truncates it
// to the maximum note length.
func SanitizeNote(note string) string {
	note = whitespace.ReplaceAllString(strings.TrimSpace(note), " ")
	if utf8.RuneCountInString(note) > MaxNoteLength {
		note = string([]rune(note)[:MaxNoteLength])
	}
	return note
}
