package store

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Veraticus/expense-tracker/internal/category"
	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/streak"
	"github.com/Veraticus/expense-tracker/internal/validate"
)

// AddExpense validates and records an expense. Recording an expense counts as
// activity for the streak.
func (s *Store) AddExpense(ctx context.Context, in model.ExpenseInput) (model.Expense, error) {
	in, err := validate.Expense(in, s.clock())
	if err != nil {
		return model.Expense{}, err
	}

	e := model.Expense{
		ID:         s.newID(),
		Amount:     in.Amount,
		CategoryID: in.CategoryID,
		Note:       in.Note,
		Date:       in.Date,
	}
	_, err = s.commit(ctx, "expense.add", func(st *State, now time.Time) error {
		if _, ok := category.Find(st.Categories, e.CategoryID); !ok {
			return fmt.Errorf("%w: %s", common.ErrUnknownCategory, e.CategoryID)
		}
		st.Expenses = append(st.Expenses, e)
		st.Stats = streak.Calculate(st.Stats, now)
		return nil
	})
	if err != nil {
		return model.Expense{}, err
	}
	return e, nil
}

// UpdateExpense applies patch to the expense with id.
func (s *Store) UpdateExpense(ctx context.Context, id string, patch model.ExpensePatch) (model.Expense, error) {
	var updated model.Expense
	_, err := s.commit(ctx, "expense.update", func(st *State, now time.Time) error {
		i := slices.IndexFunc(st.Expenses, func(e model.Expense) bool { return e.ID == id })
		if i < 0 {
			return fmt.Errorf("expense %s: %w", id, common.ErrNotFound)
		}

		cur := st.Expenses[i]
		in := model.ExpenseInput{Date: cur.Date, CategoryID: cur.CategoryID, Note: cur.Note, Amount: cur.Amount}
		if patch.Date != nil {
			in.Date = *patch.Date
		}
		if patch.CategoryID != nil {
			in.CategoryID = *patch.CategoryID
		}
		if patch.Note != nil {
			in.Note = *patch.Note
		}
		if patch.Amount != nil {
			in.Amount = *patch.Amount
		}

		in, err := validate.Expense(in, now)
		if err != nil {
			return err
		}
		if patch.CategoryID != nil {
			if _, ok := category.Find(st.Categories, in.CategoryID); !ok {
				return fmt.Errorf("%w: %s", common.ErrUnknownCategory, in.CategoryID)
			}
		}

		cur.Date, cur.CategoryID, cur.Note, cur.Amount = in.Date, in.CategoryID, in.Note, in.Amount
		st.Expenses[i] = cur
		updated = cur
		return nil
	})
	return updated, err
}

// DeleteExpense removes the expense with id.
func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	_, err := s.commit(ctx, "expense.delete", func(st *State, _ time.Time) error {
		i := slices.IndexFunc(st.Expenses, func(e model.Expense) bool { return e.ID == id })
		if i < 0 {
			return fmt.Errorf("expense %s: %w", id, common.ErrNotFound)
		}
		st.Expenses = slices.Delete(st.Expenses, i, i+1)
		return nil
	})
	return err
}

// ClearExpenses removes every expense and returns how many were removed.
func (s *Store) ClearExpenses(ctx context.Context) (int, error) {
	removed := 0
	_, err := s.commit(ctx, "expense.clear", func(st *State, _ time.Time) error {
		removed = len(st.Expenses)
		st.Expenses = nil
		return nil
	})
	return removed, err
}

// ImportExpenses adds already-identified expenses in bulk, skipping ids that
// are already present. Every expense must reference an existing category.
func (s *Store) ImportExpenses(ctx context.Context, expenses []model.Expense) (int, error) {
	added := 0
	_, err := s.commit(ctx, "expense.import", func(st *State, now time.Time) error {
		seen := make(map[string]bool, len(st.Expenses))
		for _, e := range st.Expenses {
			seen[e.ID] = true
		}

		for _, e := range expenses {
			if e.ID == "" || seen[e.ID] {
				continue
			}
			in, err := validate.Expense(model.ExpenseInput{Date: e.Date, CategoryID: e.CategoryID, Note: e.Note, Amount: e.Amount}, now)
			if err != nil {
				return fmt.Errorf("expense %s: %w", e.ID, err)
			}
			if _, ok := category.Find(st.Categories, in.CategoryID); !ok {
				return fmt.Errorf("%w: %s", common.ErrUnknownCategory, in.CategoryID)
			}
			e.Amount, e.Note = in.Amount, in.Note
			st.Expenses = append(st.Expenses, e)
			seen[e.ID] = true
			added++
		}
		if added > 0 {
			st.Stats = streak.Calculate(st.Stats, now)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// AddIncome records an income entry. Its month is derived from date.
func (s *Store) AddIncome(ctx context.Context, amount model.Money, source model.IncomeSource, date time.Time) (model.Income, error) {
	if err := validate.Income(amount, source, date); err != nil {
		return model.Income{}, err
	}
	if err := validate.NotFuture(date, s.clock()); err != nil {
		return model.Income{}, err
	}

	inc := model.NewIncome(s.newID(), amount.Round(model.MoneyScale), source, date)
	_, err := s.commit(ctx, "income.add", func(st *State, _ time.Time) error {
		st.Incomes = append(st.Incomes, inc)
		return nil
	})
	if err != nil {
		return model.Income{}, err
	}
	return inc, nil
}

// UpdateIncome applies patch to the income entry with id, re-deriving its month.
func (s *Store) UpdateIncome(ctx context.Context, id string, patch model.IncomePatch) (model.Income, error) {
	var updated model.Income
	_, err := s.commit(ctx, "income.update", func(st *State, _ time.Time) error {
		i := slices.IndexFunc(st.Incomes, func(in model.Income) bool { return in.ID == id })
		if i < 0 {
			return fmt.Errorf("income %s: %w", id, common.ErrNotFound)
		}

		cur := st.Incomes[i]
		amount, source, date := cur.Amount, cur.Source, cur.Date
		if patch.Amount != nil {
			amount = *patch.Amount
		}
		if patch.Source != nil {
			source = *patch.Source
		}
		if patch.Date != nil {
			date = *patch.Date
		}
		if err := validate.Income(amount, source, date); err != nil {
			return err
		}

		updated = model.NewIncome(cur.ID, amount.Round(model.MoneyScale), source, date)
		st.Incomes[i] = updated
		return nil
	})
	return updated, err
}

// DeleteIncome removes the income entry with id.
func (s *Store) DeleteIncome(ctx context.Context, id string) error {
	_, err := s.commit(ctx, "income.delete", func(st *State, _ time.Time) error {
		i := slices.IndexFunc(st.Incomes, func(in model.Income) bool { return in.ID == id })
		if i < 0 {
			return fmt.Errorf("income %s: %w", id, common.ErrNotFound)
		}
		st.Incomes = slices.Delete(st.Incomes, i, i+1)
		return nil
	})
	return err
}

// AddDebt records an unpaid debt.
func (s *Store) AddDebt(ctx context.Context, in model.DebtInput) (model.Debt, error) {
	if err := validate.Debt(in); err != nil {
		return model.Debt{}, err
	}

	d := model.Debt{
		ID:           s.newID(),
		Amount:       in.Amount.Round(model.MoneyScale),
		Creditor:     in.Creditor,
		Reason:       validate.SanitizeNote(in.Reason),
		BorrowedDate: in.BorrowedDate,
		DueDate:      in.DueDate,
	}
	_, err := s.commit(ctx, "debt.add", func(st *State, _ time.Time) error {
		st.Debts = append(st.Debts, d)
		return nil
	})
	if err != nil {
		return model.Debt{}, err
	}
	return d, nil
}

// UpdateDebt applies patch to the debt with id.
func (s *Store) UpdateDebt(ctx context.Context, id string, patch model.DebtPatch) (model.Debt, error) {
	var updated model.Debt
	_, err := s.commit(ctx, "debt.update", func(st *State, _ time.Time) error {
		i := slices.IndexFunc(st.Debts, func(d model.Debt) bool { return d.ID == id })
		if i < 0 {
			return fmt.Errorf("debt %s: %w", id, common.ErrNotFound)
		}

		cur := st.Debts[i]
		in := model.DebtInput{
			BorrowedDate: cur.BorrowedDate,
			DueDate:      cur.DueDate,
			Creditor:     cur.Creditor,
			Reason:       cur.Reason,
			Amount:       cur.Amount,
		}
		if patch.BorrowedDate != nil {
			in.BorrowedDate = *patch.BorrowedDate
		}
		if patch.DueDate != nil {
			in.DueDate = patch.DueDate
		}
		if patch.Creditor != nil {
			in.Creditor = *patch.Creditor
		}
		if patch.Reason != nil {
			in.Reason = *patch.Reason
		}
		if patch.Amount != nil {
			in.Amount = *patch.Amount
		}
		if err := validate.Debt(in); err != nil {
			return err
		}

		cur.BorrowedDate, cur.DueDate, cur.Creditor = in.BorrowedDate, in.DueDate, in.Creditor
		cur.Reason = validate.SanitizeNote(in.Reason)
		cur.Amount = in.Amount.Round(model.MoneyScale)
		st.Debts[i] = cur
		updated = cur
		return nil
	})
	return updated, err
}

// MarkDebtPaid flips the debt to paid and stamps the paid date. A debt can
// only be paid once.
func (s *Store) MarkDebtPaid(ctx context.Context, id string) (model.Debt, error) {
	var paid model.Debt
	_, err := s.commit(ctx, "debt.pay", func(st *State, now time.Time) error {
		i := slices.IndexFunc(st.Debts, func(d model.Debt) bool { return d.ID == id })
		if i < 0 {
			return fmt.Errorf("debt %s: %w", id, common.ErrNotFound)
		}
		if st.Debts[i].IsPaid {
			return fmt.Errorf("debt %s: %w", id, common.ErrDebtAlreadyPaid)
		}
		st.Debts[i] = st.Debts[i].MarkPaid(now)
		paid = st.Debts[i]
		return nil
	})
	return paid, err
}

// DeleteDebt removes the debt with id, paid or not.
func (s *Store) DeleteDebt(ctx context.Context, id string) error {
	_, err := s.commit(ctx, "debt.delete", func(st *State, _ time.Time) error {
		i := slices.IndexFunc(st.Debts, func(d model.Debt) bool { return d.ID == id })
		if i < 0 {
			return fmt.Errorf("debt %s: %w", id, common.ErrNotFound)
		}
		st.Debts = slices.Delete(st.Debts, i, i+1)
		return nil
	})
	return err
}
