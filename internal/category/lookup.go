package category

import (
	"strings"

	"github.com/Veraticus/expense-tracker/internal/model"
)

// Find returns the category with the given id.
func Find(categories []model.Category, id string) (model.Category, bool) {
	if i := indexOf(categories, id); i >= 0 {
		return categories[i], true
	}
	return model.Category{}, false
}

// FindByName returns the first category whose name matches exactly.
func FindByName(categories []model.Category, name string) (model.Category, bool) {
	for _, c := range categories {
		if c.Name == name {
			return c, true
		}
	}
	return model.Category{}, false
}

// Resolve finds a category by id first, then by case-insensitive name.
func Resolve(categories []model.Category, ref string) (model.Category, bool) {
	if c, ok := Find(categories, ref); ok {
		return c, true
	}
	for _, c := range categories {
		if strings.EqualFold(c.Name, strings.TrimSpace(ref)) {
			return c, true
		}
	}
	return model.Category{}, false
}

// Name returns the display name for id, or "Unknown".
func Name(categories []model.Category, id string) string {
	if c, ok := Find(categories, id); ok && c.Name != "" {
		return c.Name
	}
	return model.UnknownCategoryName
}

// Color returns the color for id, or the fallback color.
func Color(categories []model.Category, id string) string {
	if c, ok := Find(categories, id); ok && c.Color != "" {
		return c.Color
	}
	return model.DefaultCategoryColor
}

// Icon returns the icon for id, or MoreHorizontal.
func Icon(categories []model.Category, id string) model.Icon {
	if c, ok := Find(categories, id); ok && c.Icon != "" {
		return c.Icon
	}
	return model.IconMoreHorizontal
}

// NameExists reports whether another category already uses name, ignoring
// case. The category with excludeID is skipped so renames to the same name pass.
func NameExists(categories []model.Category, name, excludeID string) bool {
	name = strings.TrimSpace(name)
	for _, c := range categories {
		if c.ID != excludeID && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

// CountExpenses counts expenses that reference the category.
func CountExpenses(expenses []model.Expense, id string) int {
	n := 0
	for _, e := range expenses {
		if e.CategoryID == id {
			n++
		}
	}
	return n
}
