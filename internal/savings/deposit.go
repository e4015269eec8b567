package savings

import (
	"fmt"
	"slices"
	"time"

	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/shopspring/decimal"
)

// Choice is how a pending overflow deposit gets resolved.
type Choice string

// Overflow resolutions.
const (
	// ChoiceKeep lets the goal absorb the full deposit, exceeding its target.
	ChoiceKeep Choice = "keep"
	// ChoiceMove caps the deposit at what the goal still needs and sends the
	// rest to another goal.
	ChoiceMove Choice = "move"
)

// ParseChoice validates a choice string.
func ParseChoice(s string) (Choice, error) {
	switch Choice(s) {
	case ChoiceKeep, ChoiceMove:
		return Choice(s), nil
	}
	return "", fmt.Errorf("%w: unknown overflow choice %q", common.ErrValidation, s)
}

// Plan describes a requested deposit before it is applied.
type Plan struct {
	GoalID       string
	Candidates   []model.SavingsGoal
	Amount       model.Money
	AmountNeeded model.Money
	Overflow     model.Money
}

// NeedsConfirmation reports whether the deposit overshoots the target and
// there is somewhere else the overflow could go.
func (p Plan) NeedsConfirmation() bool {
	return p.Overflow.IsPositive() && len(p.Candidates) > 0
}

// PlanDeposit inspects a deposit of amount into goalID.
func PlanDeposit(goals []model.SavingsGoal, goalID string, amount model.Money) (Plan, error) {
	goal, ok := find(goals, goalID)
	if !ok {
		return Plan{}, fmt.Errorf("savings goal %s: %w", goalID, common.ErrNotFound)
	}
	if !amount.IsPositive() {
		return Plan{}, fmt.Errorf("%w: deposit amount must be greater than 0", common.ErrValidation)
	}

	overflow := goal.CurrentAmount.Add(amount).Sub(goal.TargetAmount)
	if overflow.IsNegative() {
		overflow = model.Zero
	}

	var candidates []model.SavingsGoal
	for _, g := range goals {
		if g.ID != goalID {
			candidates = append(candidates, g)
		}
	}

	return Plan{
		GoalID:       goalID,
		Amount:       amount,
		AmountNeeded: Remaining(goal.CurrentAmount, goal.TargetAmount),
		Overflow:     overflow,
		Candidates:   candidates,
	}, nil
}

// Pending is a deposit waiting for the user to decide what happens to the
// overflow. Nothing has been applied while a deposit is pending.
type Pending struct {
	CreatedAt    time.Time   `json:"createdAt"`
	ID           string      `json:"id"`
	GoalID       string      `json:"goalId"`
	CandidateIDs []string    `json:"candidateIds"`
	Amount       model.Money `json:"amount"`
	Overflow     model.Money `json:"overflow"`
}

// NewPending captures a plan that needs confirmation.
func NewPending(id string, p Plan, now time.Time) *Pending {
	ids := make([]string, 0, len(p.Candidates))
	for _, c := range p.Candidates {
		ids = append(ids, c.ID)
	}
	return &Pending{
		ID:           id,
		GoalID:       p.GoalID,
		Amount:       p.Amount,
		Overflow:     p.Overflow,
		CandidateIDs: ids,
		CreatedAt:    now,
	}
}

// Allocation is an amount credited to one goal.
type Allocation struct {
	GoalID string      `json:"goalId"`
	Amount model.Money `json:"amount"`
}

// Result is the outcome of a finalized deposit.
type Result struct {
	GoalID        string       `json:"goalId"`
	DestinationID string       `json:"destinationId,omitempty"`
	Allocations   []Allocation `json:"allocations"`
	Moved         model.Money  `json:"moved"`
	ReachedGoal   bool         `json:"reachedGoal"`
}

// Finalize splits a deposit of amount into goalID according to choice. The
// split is computed against the goals as they are now, not as they were
// when the deposit was requested.
func Finalize(goals []model.SavingsGoal, goalID string, amount model.Money, choice Choice, destinationID string) (Result, error) {
	goal, ok := find(goals, goalID)
	if !ok {
		return Result{}, fmt.Errorf("savings goal %s: %w", goalID, common.ErrNotFound)
	}

	forGoal := amount
	if choice == ChoiceMove {
		if destinationID == "" || destinationID == goalID {
			return Result{}, fmt.Errorf("%w: %q", common.ErrInvalidDestination, destinationID)
		}
		if _, ok := find(goals, destinationID); !ok {
			return Result{}, fmt.Errorf("%w: goal %s does not exist", common.ErrInvalidDestination, destinationID)
		}
		forGoal = decimal.Min(Remaining(goal.CurrentAmount, goal.TargetAmount), amount)
	}

	res := Result{GoalID: goalID, Moved: model.Zero}
	if forGoal.IsPositive() {
		res.Allocations = append(res.Allocations, Allocation{GoalID: goalID, Amount: forGoal})
	}
	if remainder := amount.Sub(forGoal); choice == ChoiceMove && remainder.IsPositive() {
		res.Allocations = append(res.Allocations, Allocation{GoalID: destinationID, Amount: remainder})
		res.DestinationID = destinationID
		res.Moved = remainder
	}
	res.ReachedGoal = forGoal.IsPositive() &&
		goal.CurrentAmount.LessThan(goal.TargetAmount) &&
		goal.CurrentAmount.Add(forGoal).GreaterThanOrEqual(goal.TargetAmount)

	return res, nil
}

// Apply credits allocations to their goals and returns the updated goals.
func Apply(goals []model.SavingsGoal, allocations []Allocation, now time.Time) []model.SavingsGoal {
	next := slices.Clone(goals)
	for _, a := range allocations {
		for i := range next {
			if next[i].ID == a.GoalID {
				next[i].CurrentAmount = next[i].CurrentAmount.Add(a.Amount)
				next[i].UpdatedAt = now
			}
		}
	}
	return next
}

func find(goals []model.SavingsGoal, id string) (model.SavingsGoal, bool) {
	for _, g := range goals {
		if g.ID == id {
			return g, true
		}
	}
	return model.SavingsGoal{}, false
}
