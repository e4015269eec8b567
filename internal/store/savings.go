package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/savings"
	"github.com/Veraticus/expense-tracker/internal/validate"
)

// DepositOutcome reports what a deposit did. Exactly one field is set:
// Pending when the deposit overshoots its goal and waits for the user to
// choose what happens to the overflow, Result when it was applied directly.
type DepositOutcome struct {
	Pending *savings.Pending
	Result  *savings.Result
}

// AddSavingsGoal creates a goal, optionally with an initial amount.
func (s *Store) AddSavingsGoal(ctx context.Context, in model.SavingsGoalInput) (model.SavingsGoal, error) {
	if in.Icon == "" {
		in.Icon = model.IconPiggyBank
	}
	if in.Color == "" {
		in.Color = model.DefaultGoalColor
	}
	if err := validate.SavingsGoal(in); err != nil {
		return model.SavingsGoal{}, err
	}

	var created model.SavingsGoal
	_, err := s.commit(ctx, "goal.add", func(st *State, now time.Time) error {
		created = model.SavingsGoal{
			ID:            s.newID(),
			Name:          strings.TrimSpace(in.Name),
			Icon:          in.Icon,
			Color:         in.Color,
			TargetAmount:  in.TargetAmount.Round(model.MoneyScale),
			CurrentAmount: in.InitialAmount.Round(model.MoneyScale),
			Deadline:      in.Deadline,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		st.Goals = append(st.Goals, created)
		return nil
	})
	return created, err
}

// UpdateSavingsGoal applies patch to the goal with id. The current amount is
// only changed through deposits.
func (s *Store) UpdateSavingsGoal(ctx context.Context, id string, patch model.SavingsGoalPatch) (model.SavingsGoal, error) {
	var updated model.SavingsGoal
	_, err := s.commit(ctx, "goal.update", func(st *State, now time.Time) error {
		i := slices.IndexFunc(st.Goals, func(g model.SavingsGoal) bool { return g.ID == id })
		if i < 0 {
			return fmt.Errorf("savings goal %s: %w", id, common.ErrNotFound)
		}

		g := st.Goals[i]
		if patch.Name != nil {
			g.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Icon != nil {
			g.Icon = *patch.Icon
		}
		if patch.Color != nil {
			g.Color = *patch.Color
		}
		if patch.TargetAmount != nil {
			g.TargetAmount = patch.TargetAmount.Round(model.MoneyScale)
		}
		switch {
		case patch.ClearDeadline:
			g.Deadline = nil
		case patch.Deadline != nil:
			g.Deadline = patch.Deadline
		}

		err := validate.SavingsGoal(model.SavingsGoalInput{
			Name:          g.Name,
			Icon:          g.Icon,
			Color:         g.Color,
			TargetAmount:  g.TargetAmount,
			InitialAmount: g.CurrentAmount,
		})
		if err != nil {
			return err
		}
		g.UpdatedAt = now
		st.Goals[i] = g
		updated = g
		return nil
	})
	return updated, err
}

// DeleteSavingsGoal removes the goal with id. A pending deposit that involves
// the goal is cancelled.
func (s *Store) DeleteSavingsGoal(ctx context.Context, id string) error {
	_, err := s.commit(ctx, "goal.delete", func(st *State, _ time.Time) error {
		i := slices.IndexFunc(st.Goals, func(g model.SavingsGoal) bool { return g.ID == id })
		if i < 0 {
			return fmt.Errorf("savings goal %s: %w", id, common.ErrNotFound)
		}
		st.Goals = slices.Delete(st.Goals, i, i+1)
		if p := st.Pending; p != nil && (p.GoalID == id || slices.Contains(p.CandidateIDs, id)) {
			st.Pending = nil
		}
		return nil
	})
	return err
}

// Deposit adds amount to a goal. When the deposit would push the goal past
// its target and another goal exists, nothing is applied yet: the deposit
// becomes pending until ResolveDeposit or CancelDeposit is called. Only one
// deposit can be pending at a time.
func (s *Store) Deposit(ctx context.Context, goalID string, amount model.Money) (DepositOutcome, error) {
	amount = amount.Round(model.MoneyScale)

	var out DepositOutcome
	_, err := s.commit(ctx, "goal.deposit", func(st *State, now time.Time) error {
		if st.Pending != nil {
			return common.ErrDepositPending
		}

		plan, err := savings.PlanDeposit(st.Goals, goalID, amount)
		if err != nil {
			return err
		}
		if plan.NeedsConfirmation() {
			st.Pending = savings.NewPending(s.newID(), plan, now)
			out.Pending = st.Pending
			return nil
		}

		res, err := savings.Finalize(st.Goals, goalID, amount, savings.ChoiceKeep, "")
		if err != nil {
			return err
		}
		st.Goals = savings.Apply(st.Goals, res.Allocations, now)
		out.Result = &res
		return nil
	})
	if err != nil {
		return DepositOutcome{}, err
	}
	return out, nil
}

// ResolveDeposit completes the pending deposit. ChoiceKeep lets the goal
// absorb the whole amount; ChoiceMove caps it at what the goal still needs
// and deposits the rest into destinationID. An empty pendingID resolves
// whichever deposit is pending. On error the deposit stays pending.
func (s *Store) ResolveDeposit(ctx context.Context, pendingID string, choice savings.Choice, destinationID string) (savings.Result, error) {
	var res savings.Result
	_, err := s.commit(ctx, "goal.deposit.resolve", func(st *State, now time.Time) error {
		p := st.Pending
		if p == nil || (pendingID != "" && p.ID != pendingID) {
			return common.ErrNoPendingDeposit
		}

		var err error
		res, err = savings.Finalize(st.Goals, p.GoalID, p.Amount, choice, destinationID)
		if err != nil {
			return err
		}
		st.Goals = savings.Apply(st.Goals, res.Allocations, now)
		st.Pending = nil
		return nil
	})
	return res, err
}

// CancelDeposit drops the pending deposit without applying anything.
func (s *Store) CancelDeposit(ctx context.Context) error {
	_, err := s.commit(ctx, "goal.deposit.cancel", func(st *State, _ time.Time) error {
		if st.Pending == nil {
			return common.ErrNoPendingDeposit
		}
		st.Pending = nil
		return nil
	})
	return err
}

// PendingDeposit returns the deposit awaiting confirmation, if any.
func (s *Store) PendingDeposit() (*savings.Pending, error) {
	st, err := s.State()
	if err != nil {
		return nil, err
	}
	return st.Pending, nil
}
