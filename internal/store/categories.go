package store

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Veraticus/expense-tracker/internal/category"
	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/validate"
)

// AddCategory creates a user category. Name uniqueness is checked by the
// caller with validate.Category before calling.
func (s *Store) AddCategory(ctx context.Context, name string, icon model.Icon, color string) (model.Category, error) {
	if err := validate.Category(name, icon, color, nil, ""); err != nil {
		return model.Category{}, err
	}

	var created model.Category
	_, err := s.commit(ctx, "category.add", func(st *State, now time.Time) error {
		st.Categories, created = category.Add(st.Categories, s.newID(), name, icon, color, now)
		return nil
	})
	return created, err
}

// UpdateCategory merges patch into the category with id.
func (s *Store) UpdateCategory(ctx context.Context, id string, patch model.CategoryPatch) (model.Category, error) {
	var updated model.Category
	_, err := s.commit(ctx, "category.update", func(st *State, _ time.Time) error {
		next, err := category.Update(st.Categories, id, patch)
		if err != nil {
			return err
		}
		c, _ := category.Find(next, id)
		if err := validate.Category(c.Name, c.Icon, c.Color, nil, ""); err != nil {
			return err
		}
		st.Categories = next
		updated = c
		return nil
	})
	return updated, err
}

// DeleteCategory removes a user category that no expense references. The
// category's budget goes with it.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	_, err := s.commit(ctx, "category.delete", func(st *State, _ time.Time) error {
		next, err := category.Delete(st.Categories, st.Expenses, id)
		if err != nil {
			return err
		}
		st.Categories = next
		st.Budgets = slices.DeleteFunc(st.Budgets, func(b model.Budget) bool { return b.CategoryID == id })
		return nil
	})
	return err
}

// SetBudget creates the budget for a category or replaces the limit and
// threshold of the existing one.
func (s *Store) SetBudget(ctx context.Context, categoryID string, limit model.Money, threshold int) (model.Budget, error) {
	if err := validate.Budget(categoryID, limit, threshold); err != nil {
		return model.Budget{}, err
	}

	var saved model.Budget
	_, err := s.commit(ctx, "budget.set", func(st *State, now time.Time) error {
		if _, ok := category.Find(st.Categories, categoryID); !ok {
			return fmt.Errorf("%w: %s", common.ErrUnknownCategory, categoryID)
		}

		i := slices.IndexFunc(st.Budgets, func(b model.Budget) bool { return b.CategoryID == categoryID })
		if i >= 0 {
			st.Budgets[i].MonthlyLimit = limit.Round(model.MoneyScale)
			st.Budgets[i].AlertThreshold = threshold
			st.Budgets[i].UpdatedAt = now
			saved = st.Budgets[i]
			return nil
		}

		saved = model.Budget{
			ID:             s.newID(),
			CategoryID:     categoryID,
			MonthlyLimit:   limit.Round(model.MoneyScale),
			AlertThreshold: threshold,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		st.Budgets = append(st.Budgets, saved)
		return nil
	})
	return saved, err
}

// UpdateBudget applies patch to the budget with id.
func (s *Store) UpdateBudget(ctx context.Context, id string, patch model.BudgetPatch) (model.Budget, error) {
	var updated model.Budget
	_, err := s.commit(ctx, "budget.update", func(st *State, now time.Time) error {
		i := slices.IndexFunc(st.Budgets, func(b model.Budget) bool { return b.ID == id })
		if i < 0 {
			return fmt.Errorf("budget %s: %w", id, common.ErrNotFound)
		}

		b := st.Budgets[i]
		if patch.MonthlyLimit != nil {
			b.MonthlyLimit = patch.MonthlyLimit.Round(model.MoneyScale)
		}
		if patch.AlertThreshold != nil {
			b.AlertThreshold = *patch.AlertThreshold
		}
		if err := validate.Budget(b.CategoryID, b.MonthlyLimit, b.AlertThreshold); err != nil {
			return err
		}
		b.UpdatedAt = now
		st.Budgets[i] = b
		updated = b
		return nil
	})
	return updated, err
}

// DeleteBudget removes the budget with id.
func (s *Store) DeleteBudget(ctx context.Context, id string) error {
	_, err := s.commit(ctx, "budget.delete", func(st *State, _ time.Time) error {
		i := slices.IndexFunc(st.Budgets, func(b model.Budget) bool { return b.ID == id })
		if i < 0 {
			return fmt.Errorf("budget %s: %w", id, common.ErrNotFound)
		}
		st.Budgets = slices.Delete(st.Budgets, i, i+1)
		return nil
	})
	return err
}
