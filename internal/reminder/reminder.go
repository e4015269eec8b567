// Package reminder derives budget and savings reminders from the current
// state and delivers new ones on a schedule.
package reminder

import (
	"fmt"
	"time"

	"github.com/Veraticus/expense-tracker/internal/category"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/report"
	"github.com/Veraticus/expense-tracker/internal/savings"
	"github.com/Veraticus/expense-tracker/internal/store"
)

// Kind classifies a reminder.
type Kind string

// Reminder kinds. A reminder id is its kind followed by the category or goal id.
const (
	KindBudgetOver   Kind = "budget-over"
	KindBudgetNear   Kind = "budget-near"
	KindGoalDeadline Kind = "goal-deadline"
	KindGoalProgress Kind = "goal-progress"
)

// Thresholds for goal reminders.
const (
	DeadlineWindowDays   = 30
	DeadlineProgressGoal = 90
	BehindProgress       = 50
)

// Reminder is one actionable nudge.
type Reminder struct {
	ID      string `json:"id"`
	Kind    Kind   `json:"kind"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

func newID(kind Kind, subject string) string {
	return string(kind) + "-" + subject
}

// Evaluate lists every reminder that currently applies, budgets first in
// budget order, then goals in goal order.
func Evaluate(st store.State, now time.Time) []Reminder {
	var out []Reminder

	for _, status := range st.BudgetStatuses(now) {
		if status.Budget == nil {
			continue
		}
		name := category.Name(st.Categories, status.CategoryID)
		switch {
		case status.IsOverBudget:
			out = append(out, Reminder{
				ID:      newID(KindBudgetOver, status.CategoryID),
				Kind:    KindBudgetOver,
				Title:   fmt.Sprintf("%s budget exceeded", name),
				Message: fmt.Sprintf("You have spent %d%% of your %s budget this month.", status.Percentage, name),
			})
		case status.IsNearLimit:
			remaining := status.Remaining
			if remaining.IsNegative() {
				remaining = model.Zero
			}
			out = append(out, Reminder{
				ID:      newID(KindBudgetNear, status.CategoryID),
				Kind:    KindBudgetNear,
				Title:   fmt.Sprintf("%s budget almost used", name),
				Message: fmt.Sprintf("Only %s left in your %s budget this month.", report.FormatCurrency(remaining), name),
			})
		}
	}

	for _, g := range st.Goals {
		if g.IsComplete() {
			continue
		}
		progress := savings.Progress(g.CurrentAmount, g.TargetAmount)
		days := savings.DaysRemaining(g.Deadline, now)
		switch {
		case days != nil && *days <= DeadlineWindowDays && progress < DeadlineProgressGoal:
			out = append(out, Reminder{
				ID:      newID(KindGoalDeadline, g.ID),
				Kind:    KindGoalDeadline,
				Title:   fmt.Sprintf("%s deadline is coming up", g.Name),
				Message: fmt.Sprintf("%d days left and you are at %d%% of your target.", *days, progress),
			})
		case g.Deadline == nil && progress < BehindProgress:
			out = append(out, Reminder{
				ID:      newID(KindGoalProgress, g.ID),
				Kind:    KindGoalProgress,
				Title:   fmt.Sprintf("Keep saving for %s", g.Name),
				Message: fmt.Sprintf("You are at %d%% of your target.", progress),
			})
		}
	}
	return out
}

// Active drops the reminders the user dismissed.
func Active(reminders []Reminder, settings model.ReminderSettings) []Reminder {
	var out []Reminder
	for _, r := range reminders {
		if !settings.IsDismissed(r.ID) {
			out = append(out, r)
		}
	}
	return out
}

// Undelivered returns the active reminders that were not notified yet.
func Undelivered(reminders []Reminder, settings model.ReminderSettings) []Reminder {
	var out []Reminder
	for _, r := range Active(reminders, settings) {
		if !settings.IsNotified(r.ID) {
			out = append(out, r)
		}
	}
	return out
}

// IDs returns the reminder ids.
func IDs(reminders []Reminder) []string {
	ids := make([]string, 0, len(reminders))
	for _, r := range reminders {
		ids = append(ids, r.ID)
	}
	return ids
}
