package validate

import (
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: "45.50", want: "45.5"},
		{name: "rounds to cents", input: "10.005", want: "10.01"},
		{name: "surrounding space", input: "  12 ", want: "12"},
		{name: "zero", input: "0", wantErr: true},
		{name: "negative", input: "-3", wantErr: true},
		{name: "not a number", input: "abc", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, common.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestSanitizeNote(t *testing.T) {
	assert.Equal(t, "lunch with team", SanitizeNote("  lunch \n\t with   team "))
	assert.Equal(t, "", SanitizeNote("   "))

	long := strings.Repeat("é", MaxNoteLength+20)
	assert.Equal(t, MaxNoteLength, len([]rune(SanitizeNote(long))))
}

func TestExpense(t *testing.T) {
	valid := model.ExpenseInput{
		Date:       now,
		CategoryID: "default-0",
		Note:       "  coffee  beans ",
		Amount:     decimal.RequireFromString("4.256"),
	}

	got, err := Expense(valid, now)
	require.NoError(t, err)
	assert.Equal(t, "coffee beans", got.Note)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("4.26")))

	tests := []struct {
		name   string
		mutate func(*model.ExpenseInput)
		want   string
	}{
		{
			name:   "zero amount",
			mutate: func(in *model.ExpenseInput) { in.Amount = decimal.Zero },
			want:   "amount must be greater than 0",
		},
		{
			name:   "missing category",
			mutate: func(in *model.ExpenseInput) { in.CategoryID = "" },
			want:   "categoryId is required",
		},
		{
			name:   "missing date",
			mutate: func(in *model.ExpenseInput) { in.Date = time.Time{} },
			want:   "date is required",
		},
		{
			name:   "note too long",
			mutate: func(in *model.ExpenseInput) { in.Note = strings.Repeat("x", MaxNoteLength+1) },
			want:   "note must be less than 500 characters",
		},
		{
			name:   "tomorrow",
			mutate: func(in *model.ExpenseInput) { in.Date = now.AddDate(0, 0, 1) },
			want:   "date must not be in the future",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := Expense(in, now)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrValidation)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNotFuture(t *testing.T) {
	assert.NoError(t, NotFuture(now, now))
	assert.NoError(t, NotFuture(time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC), now))
	assert.Error(t, NotFuture(time.Date(2024, 3, 16, 0, 0, 1, 0, time.UTC), now))
}

func TestCategory(t *testing.T) {
	existing := []model.Category{{ID: "c1", Name: "Groceries"}}

	tests := []struct {
		name      string
		catName   string
		icon      model.Icon
		color     string
		excludeID string
		wantErr   string
	}{
		{name: "valid", catName: "Rent", icon: model.IconHome, color: "#FF8042"},
		{name: "short color", catName: "Rent", icon: model.IconHome, color: "#abc"},
		{name: "blank name", catName: "   ", icon: model.IconHome, color: "#FF8042", wantErr: "name must not be blank"},
		{name: "bad icon", catName: "Rent", icon: "Rocket", color: "#FF8042", wantErr: "icon must be one of the supported icons"},
		{name: "bad color", catName: "Rent", icon: model.IconHome, color: "red", wantErr: "color must be a hex color"},
		{name: "duplicate ignoring case", catName: "groceries", icon: model.IconHome, color: "#FF8042", wantErr: "already exists"},
		{name: "renaming itself", catName: "GROCERIES", icon: model.IconHome, color: "#FF8042", excludeID: "c1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Category(tt.catName, tt.icon, tt.color, existing, tt.excludeID)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrValidation)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBudget(t *testing.T) {
	limit := decimal.NewFromInt(100)

	assert.NoError(t, Budget("default-0", limit, 80))
	assert.NoError(t, Budget("default-0", limit, 0))
	assert.NoError(t, Budget("default-0", limit, 100))

	err := Budget("default-0", limit, 101)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alertThreshold must be between 0 and 100")

	err = Budget("default-0", decimal.Zero, 80)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "monthlyLimit must be greater than 0")
}

func TestSavingsGoal(t *testing.T) {
	in := model.SavingsGoalInput{
		Name:          "Vacation",
		Icon:          model.IconPlane,
		Color:         model.DefaultGoalColor,
		TargetAmount:  decimal.NewFromInt(1000),
		InitialAmount: decimal.Zero,
	}
	require.NoError(t, SavingsGoal(in))

	in.InitialAmount = decimal.NewFromInt(-1)
	err := SavingsGoal(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "currentAmount must not be negative")

	in.InitialAmount = decimal.Zero
	in.TargetAmount = decimal.Zero
	assert.Error(t, SavingsGoal(in))
}

func TestIncomeAndDebt(t *testing.T) {
	amount := decimal.NewFromInt(500)

	assert.NoError(t, Income(amount, model.IncomeSalary, now))
	err := Income(amount, "Lottery", now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source must be one of")

	due := now.AddDate(0, 0, -3)
	err = Debt(model.DebtInput{BorrowedDate: now, DueDate: &due, Creditor: "Sam", Amount: amount})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dueDate must not be before borrowedDate")

	err = Debt(model.DebtInput{BorrowedDate: now, Creditor: " ", Amount: amount})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creditor must not be blank")
}

func TestMonth(t *testing.T) {
	assert.NoError(t, Month("2024-03"))
	assert.Error(t, Month("2024-13"))
	assert.Error(t, Month("March"))
}
