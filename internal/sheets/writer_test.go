package sheets

import (
	"testing"
	"time"

	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestBuildRows(t *testing.T) {
	categories := []model.Category{
		{ID: "default-0", Name: "FastFood"},
		{ID: "default-2", Name: "Transportation"},
	}
	expenses := []model.Expense{
		{ID: "1", CategoryID: "default-0", Amount: decimal.RequireFromString("45.50"), Date: time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC), Note: "lunch"},
		{ID: "2", CategoryID: "default-2", Amount: decimal.RequireFromString("120"), Date: time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)},
		{ID: "3", CategoryID: "default-0", Amount: decimal.RequireFromString("4.50"), Date: time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)},
		{ID: "4", CategoryID: "removed", Amount: decimal.RequireFromString("10"), Date: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)},
	}

	rows := BuildRows(expenses, categories)

	assert.Equal(t, []any{"Expense Report", "Feb 10, 2024 - Mar 5, 2024"}, rows[0])
	assert.Equal(t, []any{"Total Spent", 180.0}, rows[3])
	assert.Equal(t, []any{"Expenses", 4}, rows[4])

	assert.Equal(t, []any{"Category", "Count", "Amount"}, rows[7])
	assert.Equal(t, []any{"Transportation", 1, 120.0}, rows[8])
	assert.Equal(t, []any{"FastFood", 2, 50.0}, rows[9])
	assert.Equal(t, []any{"Unknown", 1, 10.0}, rows[10])

	assert.Equal(t, []any{"Month", "Amount"}, rows[13])
	assert.Equal(t, []any{"Feb 2024", 45.5}, rows[14])
	assert.Equal(t, []any{"Mar 2024", 134.5}, rows[15])

	assert.Equal(t, []any{"Date", "Category", "Amount", "Note"}, rows[19])
	details := rows[20:]
	require.Len(t, details, 4)
	assert.Equal(t, []any{"2024-03-05", "FastFood", 4.5, ""}, details[0])
	assert.Equal(t, []any{"2024-02-10", "FastFood", 45.5, "lunch"}, details[3])

	// The caller's slice keeps its order.
	assert.Equal(t, "1", expenses[0].ID)
}

func TestBuildRowsEmpty(t *testing.T) {
	rows := BuildRows(nil, nil)

	assert.Equal(t, []any{"Expense Report", ""}, rows[0])
	assert.Equal(t, []any{"Total Spent", 0.0}, rows[3])
	assert.Equal(t, []any{"Date", "Category", "Amount", "Note"}, rows[len(rows)-1])
}

func TestCurrencyPattern(t *testing.T) {
	assert.Equal(t, `"EGP" #,##0.00`, CurrencyPattern(""))
	assert.Equal(t, `"USD" #,##0.00`, CurrencyPattern("USD"))
}

func TestSaveAndLoadToken(t *testing.T) {
	path := t.TempDir() + "/nested/token.json"
	want := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer"}

	require.NoError(t, SaveToken(path, want))

	got, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, want.AccessToken, got.AccessToken)
	assert.Equal(t, want.RefreshToken, got.RefreshToken)

	_, err = LoadToken(t.TempDir() + "/missing.json")
	assert.Error(t, err)
}
