package model

import "time"

// DefaultGoalColor is the color assigned to new savings goals.
const DefaultGoalColor = "#10B981"

// SavingsGoal tracks progress toward a target amount. CurrentAmount only grows
// through deposits.
type SavingsGoal struct {
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Icon          Icon       `json:"icon"`
	Color         string     `json:"color"`
	TargetAmount  Money      `json:"targetAmount"`
	CurrentAmount Money      `json:"currentAmount"`
}

// IsComplete reports whether the goal has reached its target.
func (g SavingsGoal) IsComplete() bool {
	return g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}

// SavingsGoalInput is the data needed to create a goal.
type SavingsGoalInput struct {
	Deadline      *time.Time
	Name          string
	Icon          Icon
	Color         string
	TargetAmount  Money
	InitialAmount Money
}

// SavingsGoalPatch holds the editable fields of a goal.
type SavingsGoalPatch struct {
	Deadline      *time.Time
	Name          *string
	Icon          *Icon
	Color         *string
	TargetAmount  *Money
	ClearDeadline bool
}
