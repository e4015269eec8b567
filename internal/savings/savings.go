// Package savings computes savings goal projections and plans deposits.
package savings

import (
	"time"

	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Progress returns current as a rounded percentage of target, clamped to
// 0..100. A non-positive target yields 0.
func Progress(current, target model.Money) int {
	if !target.IsPositive() {
		return 0
	}
	pct := current.Mul(hundred).Div(target).Round(0).IntPart()
	switch {
	case pct > 100:
		return 100
	case pct < 0:
		return 0
	}
	return int(pct)
}

// Remaining returns how much is still needed, never negative.
func Remaining(current, target model.Money) model.Money {
	r := target.Sub(current)
	if r.IsNegative() {
		return model.Zero
	}
	return r
}

// DaysRemaining returns calendar days until the deadline, floored at 0.
// Nil means the goal has no deadline.
func DaysRemaining(deadline *time.Time, now time.Time) *int {
	if deadline == nil {
		return nil
	}
	days := max(model.CalendarDays(now, *deadline), 0)
	return &days
}

// MonthlyNeeded returns the contribution per month required to hit the
// target by the deadline, rounded up to a whole unit. With less than one
// full month left the whole remaining amount is due. Nil means no deadline.
func MonthlyNeeded(current, target model.Money, deadline *time.Time, now time.Time) *model.Money {
	if deadline == nil {
		return nil
	}
	remaining := Remaining(current, target)
	if !remaining.IsPositive() {
		zero := model.Zero
		return &zero
	}
	months := model.FullMonths(now, *deadline)
	if months <= 0 {
		return &remaining
	}
	needed := remaining.Div(decimal.NewFromInt(int64(months))).Ceil()
	return &needed
}

// Projection bundles the derived figures shown for a goal.
type Projection struct {
	DaysRemaining *int         `json:"daysRemaining"`
	MonthlyNeeded *model.Money `json:"monthlyNeeded"`
	GoalID        string       `json:"goalId"`
	Remaining     model.Money  `json:"remaining"`
	Progress      int          `json:"progress"`
	IsComplete    bool         `json:"isComplete"`
}

// Project computes the projection for one goal.
func Project(g model.SavingsGoal, now time.Time) Projection {
	return Projection{
		GoalID:        g.ID,
		Progress:      Progress(g.CurrentAmount, g.TargetAmount),
		Remaining:     Remaining(g.CurrentAmount, g.TargetAmount),
		DaysRemaining: DaysRemaining(g.Deadline, now),
		MonthlyNeeded: MonthlyNeeded(g.CurrentAmount, g.TargetAmount, g.Deadline, now),
		IsComplete:    g.IsComplete(),
	}
}

// Overall returns total saved, total targeted and their rounded percentage.
func Overall(goals []model.SavingsGoal) (model.Money, model.Money, int) {
	saved, target := model.Zero, model.Zero
	for _, g := range goals {
		saved = saved.Add(g.CurrentAmount)
		target = target.Add(g.TargetAmount)
	}
	if !target.IsPositive() {
		return saved, target, 0
	}
	return saved, target, int(saved.Mul(hundred).Div(target).Round(0).IntPart())
}
