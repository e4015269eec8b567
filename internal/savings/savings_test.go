package savings

import (
	"testing"
	"time"

	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

func money(v float64) model.Money { return model.NewMoney(v) }

func ptr[T any](v T) *T { return &v }

func TestProgress(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		target  float64
		want    int
	}{
		{name: "zero target", current: 50, target: 0, want: 0},
		{name: "negative target", current: 50, target: -10, want: 0},
		{name: "half", current: 500, target: 1000, want: 50},
		{name: "rounds", current: 1, target: 3, want: 33},
		{name: "clamped at 100", current: 1200, target: 1000, want: 100},
		{name: "nothing saved", current: 0, target: 1000, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Progress(money(tt.current), money(tt.target)))
		})
	}
}

func TestProgressMonotonic(t *testing.T) {
	target := money(750)
	prev := -1
	for current := 0; current <= 1500; current += 7 {
		got := Progress(money(float64(current)), target)
		assert.GreaterOrEqual(t, got, prev, "current=%d", current)
		assert.GreaterOrEqual(t, got, 0)
		assert.LessOrEqual(t, got, 100)
		prev = got
	}
}

func TestRemaining(t *testing.T) {
	assert.True(t, money(300).Equal(Remaining(money(700), money(1000))))
	assert.True(t, model.Zero.Equal(Remaining(money(1200), money(1000))))
}

func TestDaysRemaining(t *testing.T) {
	assert.Nil(t, DaysRemaining(nil, now))

	tests := []struct {
		deadline time.Time
		name     string
		want     int
	}{
		{name: "later today", deadline: time.Date(2024, 3, 15, 23, 0, 0, 0, time.UTC), want: 0},
		{name: "tomorrow early", deadline: time.Date(2024, 3, 16, 0, 5, 0, 0, time.UTC), want: 1},
		{name: "ten days", deadline: time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC), want: 10},
		{name: "overdue floors at zero", deadline: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DaysRemaining(&tt.deadline, now)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestMonthlyNeeded(t *testing.T) {
	tests := []struct {
		deadline *time.Time
		want     *model.Money
		name     string
		current  float64
		target   float64
	}{
		{name: "no deadline", current: 0, target: 1000, want: nil},
		{name: "already met", current: 1000, target: 1000, deadline: ptr(now.AddDate(0, 6, 0)), want: ptr(model.Zero)},
		{name: "less than a month left", current: 200, target: 1000, deadline: ptr(now.AddDate(0, 0, 20)), want: ptr(money(800))},
		{name: "overdue", current: 200, target: 1000, deadline: ptr(now.AddDate(0, -1, 0)), want: ptr(money(800))},
		{name: "divides and rounds up", current: 0, target: 1000, deadline: ptr(now.AddDate(0, 3, 0)), want: ptr(money(334))},
		{name: "partial month truncated", current: 0, target: 1000, deadline: ptr(now.AddDate(0, 2, 10)), want: ptr(money(500))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MonthlyNeeded(money(tt.current), money(tt.target), tt.deadline, now)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "want %s got %s", tt.want, got)
		})
	}
}

func TestProject(t *testing.T) {
	deadline := now.AddDate(0, 0, 45)
	g := model.SavingsGoal{ID: "g", TargetAmount: money(1000), CurrentAmount: money(250), Deadline: &deadline}

	p := Project(g, now)

	assert.Equal(t, "g", p.GoalID)
	assert.Equal(t, 25, p.Progress)
	assert.True(t, money(750).Equal(p.Remaining))
	require.NotNil(t, p.DaysRemaining)
	assert.Equal(t, 45, *p.DaysRemaining)
	require.NotNil(t, p.MonthlyNeeded)
	assert.True(t, money(750).Equal(*p.MonthlyNeeded))
	assert.False(t, p.IsComplete)
}

func TestOverall(t *testing.T) {
	goals := []model.SavingsGoal{
		{TargetAmount: money(1000), CurrentAmount: money(250)},
		{TargetAmount: money(500), CurrentAmount: money(500)},
	}
	saved, target, pct := Overall(goals)
	assert.True(t, money(750).Equal(saved))
	assert.True(t, money(1500).Equal(target))
	assert.Equal(t, 50, pct)

	_, _, pct = Overall(nil)
	assert.Equal(t, 0, pct)
}
