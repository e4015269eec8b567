package migration

import (
	"log/slog"
	"time"

	"github.com/Veraticus/expense-tracker/internal/category"
	"github.com/Veraticus/expense-tracker/internal/model"
)

// NeedsMigration reports whether a snapshot must be upgraded: its version
// differs, it has no categories, or an expense still uses a category name.
func NeedsMigration(s Snapshot) bool {
	if s.Version != CurrentVersion {
		return true
	}
	if len(s.CustomCategories) == 0 {
		return true
	}
	for _, e := range s.Expenses {
		if e.IsLegacy() {
			return true
		}
	}
	return false
}

// Run upgrades a snapshot. It seeds the default categories when there are
// none, resolves legacy category names to ids and stamps the current version.
// Running it on an already migrated snapshot changes nothing.
func Run(s Snapshot, now time.Time) Snapshot {
	if len(s.CustomCategories) == 0 {
		s.CustomCategories = category.Defaults(now)
	}

	expenses := make([]StoredExpense, 0, len(s.Expenses))
	for _, e := range s.Expenses {
		expenses = append(expenses, migrateExpense(e, s.CustomCategories))
	}
	s.Expenses = expenses
	s.Version = CurrentVersion
	return s
}

func migrateExpense(e StoredExpense, categories []model.Category) StoredExpense {
	if !e.IsLegacy() {
		return e
	}
	if e.CategoryID != "" {
		e.Category = nil
		return e
	}

	name := *e.Category
	e.Category = nil
	if c, ok := category.FindByName(categories, name); ok {
		e.CategoryID = c.ID
		return e
	}
	if c, ok := category.FindByName(categories, category.OtherName); ok {
		e.CategoryID = c.ID
	} else {
		e.CategoryID = categories[0].ID
	}
	slog.Debug("Legacy expense category not found, using fallback",
		"expense_id", e.ID,
		"category", name,
		"fallback", e.CategoryID)
	return e
}
