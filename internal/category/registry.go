// Package category manages the list of spending categories.
package category

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/model"
)

// OtherName is the catch-all category used when nothing else matches.
const OtherName = "Other"

var defaultSet = []struct {
	name  string
	icon  model.Icon
	color string
}{
	{"FastFood", model.IconUtensilsCrossed, "#FF8042"},
	{"Drinks", model.IconCoffee, "#8884D8"},
	{"Transportation", model.IconCar, "#0088FE"},
	{"Clothing", model.IconShirt, "#00C49F"},
	{"Entertainment", model.IconGamepad2, "#FFBB28"},
	{"Bills & Utilities", model.IconReceipt, "#82ca9d"},
	{"Healthcare", model.IconHeart, "#ff7c7c"},
	{OtherName, model.IconMoreHorizontal, model.DefaultCategoryColor},
}

// DefaultID returns the id of the i-th seeded category.
func DefaultID(i int) string {
	return fmt.Sprintf("default-%d", i)
}

// Defaults returns the starter category set.
func Defaults(now time.Time) []model.Category {
	categories := make([]model.Category, 0, len(defaultSet))
	for i, d := range defaultSet {
		categories = append(categories, model.Category{
			ID:        DefaultID(i),
			Name:      d.name,
			Icon:      d.icon,
			Color:     d.color,
			IsDefault: true,
			CreatedAt: now,
		})
	}
	return categories
}

// Add appends a user category. Name uniqueness is the caller's concern.
func Add(categories []model.Category, id, name string, icon model.Icon, color string, now time.Time) ([]model.Category, model.Category) {
	c := model.Category{
		ID:        id,
		Name:      strings.TrimSpace(name),
		Icon:      icon,
		Color:     color,
		CreatedAt: now,
	}
	next := slices.Clone(categories)
	return append(next, c), c
}

// Update merges patch into the category with the given id. IsDefault is not
// patchable.
func Update(categories []model.Category, id string, patch model.CategoryPatch) ([]model.Category, error) {
	idx := indexOf(categories, id)
	if idx < 0 {
		return categories, fmt.Errorf("category %s: %w", id, common.ErrNotFound)
	}

	next := slices.Clone(categories)
	c := next[idx]
	if patch.Name != nil {
		c.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Icon != nil {
		c.Icon = *patch.Icon
	}
	if patch.Color != nil {
		c.Color = *patch.Color
	}
	next[idx] = c
	return next, nil
}

// Delete removes a category. Default categories and categories referenced by
// any expense are refused and the input slice is returned unchanged.
func Delete(categories []model.Category, expenses []model.Expense, id string) ([]model.Category, error) {
	idx := indexOf(categories, id)
	if idx < 0 {
		return categories, fmt.Errorf("category %s: %w", id, common.ErrNotFound)
	}
	if categories[idx].IsDefault {
		return categories, fmt.Errorf("category %q: %w", categories[idx].Name, common.ErrDefaultCategory)
	}
	if n := CountExpenses(expenses, id); n > 0 {
		return categories, fmt.Errorf("category %q has %d expenses: %w", categories[idx].Name, n, common.ErrCategoryInUse)
	}

	next := make([]model.Category, 0, len(categories)-1)
	next = append(next, categories[:idx]...)
	return append(next, categories[idx+1:]...), nil
}

func indexOf(categories []model.Category, id string) int {
	return slices.IndexFunc(categories, func(c model.Category) bool { return c.ID == id })
}
