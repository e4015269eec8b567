package model

import "time"

// DefaultCategoryColor is used when a category cannot be resolved.
const DefaultCategoryColor = "#a4de6c"

// UnknownCategoryName is displayed for expenses whose category no longer exists.
const UnknownCategoryName = "Unknown"

// Category represents a spending category. Default categories are seeded on
// first run and can never be deleted.
type Category struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Icon      Icon      `json:"icon"`
	Color     string    `json:"color"`
	IsDefault bool      `json:"isDefault"`
}

// CategoryPatch holds the mutable fields of a category. Nil fields are left untouched.
type CategoryPatch struct {
	Name  *string
	Icon  *Icon
	Color *string
}

// Budget is a monthly spending limit for one category.
type Budget struct {
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	ID             string    `json:"id"`
	CategoryID     string    `json:"categoryId"`
	MonthlyLimit   Money     `json:"monthlyLimit"`
	AlertThreshold int       `json:"alertThreshold"`
}

// BudgetPatch holds the mutable fields of a budget.
type BudgetPatch struct {
	MonthlyLimit   *Money
	AlertThreshold *int
}
