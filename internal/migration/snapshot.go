// Package migration defines the persisted snapshot format and upgrades older
// snapshots to the current schema.
package migration

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Veraticus/expense-tracker/internal/model"
)

// CurrentVersion is the schema version written by this build.
const CurrentVersion = "1.0.0"

// StoredExpense is an expense as found on disk. Snapshots written before
// categories became references carry a category name in Category instead of
// a CategoryID.
type StoredExpense struct {
	Date       time.Time   `json:"date"`
	Category   *string     `json:"category,omitempty"`
	ID         string      `json:"id"`
	CategoryID string      `json:"categoryId,omitempty"`
	Note       string      `json:"note,omitempty"`
	Amount     model.Money `json:"amount"`
}

// IsLegacy reports whether the expense still uses a category name.
func (e StoredExpense) IsLegacy() bool {
	return e.Category != nil
}

// Expense converts a migrated record to the domain type.
func (e StoredExpense) Expense() model.Expense {
	return model.Expense{
		ID:         e.ID,
		Amount:     e.Amount,
		CategoryID: e.CategoryID,
		Note:       e.Note,
		Date:       e.Date,
	}
}

// FromExpense converts a domain expense to its stored form.
func FromExpense(e model.Expense) StoredExpense {
	return StoredExpense{
		ID:         e.ID,
		Amount:     e.Amount,
		CategoryID: e.CategoryID,
		Note:       e.Note,
		Date:       e.Date,
	}
}

// Snapshot is the whole persisted application state.
type Snapshot struct {
	Reminders        model.ReminderSettings `json:"reminders"`
	Chat             model.ChatConfig       `json:"chatbot"`
	Version          string                 `json:"version"`
	Expenses         []StoredExpense        `json:"expenses"`
	Incomes          []model.Income         `json:"incomes"`
	Debts            []model.Debt           `json:"debts"`
	CustomCategories []model.Category       `json:"customCategories"`
	CategoryBudgets  []model.Budget         `json:"categoryBudgets"`
	SavingsGoals     []model.SavingsGoal    `json:"savingsGoals"`
	Achievements     []model.Achievement    `json:"achievements"`
	ChatMessages     []model.ChatMessage    `json:"chatbotMessages"`
	UserStats        model.UserStats        `json:"userStats"`
	Onboarding       model.Onboarding       `json:"onboarding"`
}

// Decode parses a snapshot blob. An empty blob yields an empty snapshot.
func Decode(data []byte) (Snapshot, error) {
	var s Snapshot
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}

// Encode serializes a snapshot.
func Encode(s Snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}
