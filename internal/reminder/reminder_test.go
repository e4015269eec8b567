package reminder_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/reminder"
	"github.com/Veraticus/expense-tracker/internal/store"
	"github.com/Veraticus/expense-tracker/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

func money(s string) model.Money {
	return decimal.RequireFromString(s)
}

type fixture struct {
	store    *store.Store
	overExp  model.Expense
	laptopID string
	tripID   string
}

func setup(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	s, _, _ := testutil.NewStore(t, now)

	for _, id := range []string{"default-0", "default-1", "default-2"} {
		_, err := s.SetBudget(ctx, id, money("100"), 80)
		require.NoError(t, err)
	}
	over, err := s.AddExpense(ctx, model.ExpenseInput{Date: now, CategoryID: "default-0", Amount: money("120")})
	require.NoError(t, err)
	_, err = s.AddExpense(ctx, model.ExpenseInput{Date: now, CategoryID: "default-1", Amount: money("85")})
	require.NoError(t, err)

	soon := now.AddDate(0, 0, 10)
	later := now.AddDate(0, 0, 60)
	goal := func(name, current string, deadline *time.Time) model.SavingsGoal {
		g, err := s.AddSavingsGoal(ctx, model.SavingsGoalInput{
			Name:          name,
			TargetAmount:  money("1000"),
			InitialAmount: money(current),
			Deadline:      deadline,
		})
		require.NoError(t, err)
		return g
	}
	laptop := goal("Laptop", "100", &soon)
	trip := goal("Trip", "200", nil)
	goal("Car", "600", nil)
	goal("Phone", "0", &later)
	goal("Done", "1000", &soon)

	return fixture{store: s, overExp: over, laptopID: laptop.ID, tripID: trip.ID}
}

func TestEvaluate(t *testing.T) {
	f := setup(t)
	st, err := f.store.State()
	require.NoError(t, err)

	got := reminder.Evaluate(st, now)

	require.Len(t, got, 4)
	assert.Equal(t, reminder.Reminder{
		ID:      "budget-over-default-0",
		Kind:    reminder.KindBudgetOver,
		Title:   "FastFood budget exceeded",
		Message: "You have spent 120% of your FastFood budget this month.",
	}, got[0])
	assert.Equal(t, reminder.Reminder{
		ID:      "budget-near-default-1",
		Kind:    reminder.KindBudgetNear,
		Title:   "Drinks budget almost used",
		Message: "Only EGP 15.00 left in your Drinks budget this month.",
	}, got[1])
	assert.Equal(t, reminder.Reminder{
		ID:      "goal-deadline-" + f.laptopID,
		Kind:    reminder.KindGoalDeadline,
		Title:   "Laptop deadline is coming up",
		Message: "10 days left and you are at 10% of your target.",
	}, got[2])
	assert.Equal(t, reminder.Reminder{
		ID:      "goal-progress-" + f.tripID,
		Kind:    reminder.KindGoalProgress,
		Title:   "Keep saving for Trip",
		Message: "You are at 20% of your target.",
	}, got[3])
}

func TestEvaluateOtherMonth(t *testing.T) {
	f := setup(t)
	st, err := f.store.State()
	require.NoError(t, err)

	got := reminder.Evaluate(st, now.AddDate(0, 1, 0))

	// Budgets reset with the month; the passed deadline counts as zero days left.
	assert.Equal(t, []string{"goal-deadline-" + f.laptopID, "goal-progress-" + f.tripID}, reminder.IDs(got))
}

func TestActiveAndUndelivered(t *testing.T) {
	all := []reminder.Reminder{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	settings := model.ReminderSettings{Dismissed: []string{"b"}, Notified: []string{"c"}, Enabled: true}

	assert.Equal(t, []string{"a", "c"}, reminder.IDs(reminder.Active(all, settings)))
	assert.Equal(t, []string{"a"}, reminder.IDs(reminder.Undelivered(all, settings)))
	assert.Empty(t, reminder.IDs(nil))
}

type recorder struct {
	fail map[string]bool
	got  []string
}

func (r *recorder) Notify(_ context.Context, rem reminder.Reminder) error {
	if r.fail[rem.ID] {
		return errors.New("delivery failed")
	}
	r.got = append(r.got, rem.ID)
	return nil
}

func TestSchedulerCheck(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	require.NoError(t, f.store.DismissReminder(ctx, "goal-progress-"+f.tripID))

	rec := &recorder{fail: map[string]bool{"goal-deadline-" + f.laptopID: true}}
	sched := reminder.NewScheduler(f.store, rec, nil)

	delivered, err := sched.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"budget-over-default-0", "budget-near-default-1"}, reminder.IDs(delivered))
	assert.Equal(t, reminder.IDs(delivered), rec.got)

	st, err := f.store.State()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"budget-over-default-0", "budget-near-default-1"}, st.Reminders.Notified)

	// Already notified reminders are not sent twice; the failed one is retried.
	rec.fail = nil
	rec.got = nil
	delivered, err = sched.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"goal-deadline-" + f.laptopID}, reminder.IDs(delivered))

	// Resolving the overspend forgets its notification.
	require.NoError(t, f.store.DeleteExpense(ctx, f.overExp.ID))
	_, err = sched.Check(ctx)
	require.NoError(t, err)
	st, err = f.store.State()
	require.NoError(t, err)
	assert.NotContains(t, st.Reminders.Notified, "budget-over-default-0")
	assert.Contains(t, st.Reminders.Notified, "budget-near-default-1")
}

func TestSchedulerCheckDisabled(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	require.NoError(t, f.store.SetRemindersEnabled(ctx, false))

	rec := &recorder{}
	delivered, err := reminder.NewScheduler(f.store, rec, nil).Check(ctx)
	require.NoError(t, err)
	assert.Empty(t, delivered)
	assert.Empty(t, rec.got)
}

func TestSchedulerCheckNotReady(t *testing.T) {
	sched := reminder.NewScheduler(store.New(testutil.NewMemorySnapshots()), nil, nil)

	_, err := sched.Check(context.Background())
	require.ErrorIs(t, err, common.ErrNotReady)
}

func TestSchedulerStart(t *testing.T) {
	f := setup(t)
	sched := reminder.NewScheduler(f.store, nil, nil)

	err := sched.Start(context.Background(), "not a schedule")
	require.ErrorIs(t, err, common.ErrInvalidConfig)

	require.NoError(t, sched.Start(context.Background(), "@every 1h"))
	sched.Stop()
}
