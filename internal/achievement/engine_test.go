package achievement

import (
	"testing"
	"time"

	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func byID(t *testing.T, list []model.Achievement, id string) model.Achievement {
	t.Helper()
	for _, a := range list {
		if a.ID == id {
			return a
		}
	}
	t.Fatalf("achievement %s not found", id)
	return model.Achievement{}
}

func TestInitializeFresh(t *testing.T) {
	list := Initialize(nil)

	require.Len(t, list, len(Catalog))
	for i, a := range list {
		assert.Equal(t, Catalog[i].ID, a.ID)
		assert.Equal(t, Catalog[i].Target, a.Target)
		assert.Zero(t, a.Progress)
		assert.False(t, a.IsUnlocked)
		assert.Nil(t, a.UnlockedAt)
	}
}

func TestInitializeKeepsUserState(t *testing.T) {
	unlockedAt := now.Add(-time.Hour)
	existing := []model.Achievement{
		{ID: FirstExpense, Title: "Old Title", Target: 5, Progress: 1, IsUnlocked: true, UnlockedAt: &unlockedAt},
		{ID: TrackerNovice, Progress: 4},
		{ID: "retired_achievement", Progress: 9},
	}

	list := Initialize(existing)

	require.Len(t, list, len(Catalog))
	first := byID(t, list, FirstExpense)
	assert.Equal(t, "First Steps", first.Title, "definition refreshed from catalog")
	assert.InDelta(t, 1.0, first.Target, 0)
	assert.True(t, first.IsUnlocked)
	assert.Equal(t, &unlockedAt, first.UnlockedAt)
	assert.InDelta(t, 4.0, byID(t, list, TrackerNovice).Progress, 0)
}

func TestCheckProgressMapping(t *testing.T) {
	stats := model.UserStats{
		TotalExpenses:  12,
		CategoriesUsed: []string{"a", "b", "c"},
		CurrentStreak:  7,
		GoalsCreated:   1,
		GoalsCompleted: 0,
		TotalSaved:     model.NewMoney(420.5),
		BudgetsMet:     0,
	}

	updated, unlocked := Check(Initialize(nil), stats, now)

	tests := []struct {
		id           string
		wantProgress float64
		wantUnlocked bool
	}{
		{FirstExpense, 1, true},
		{TrackerNovice, 10, true},
		{TrackerPro, 12, false},
		{CategoryExplorer, 3, false},
		{WeekWarrior, 7, true},
		{MonthlyMaster, 7, false},
		{SaverStarter, 1, true},
		{GoalGetter, 0, false},
		{BigSaver, 420.5, false},
		{BudgetBoss, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			a := byID(t, updated, tt.id)
			assert.InDelta(t, tt.wantProgress, a.Progress, 0.001)
			assert.Equal(t, tt.wantUnlocked, a.IsUnlocked)
			if tt.wantUnlocked {
				require.NotNil(t, a.UnlockedAt)
				assert.Equal(t, now, *a.UnlockedAt)
			}
		})
	}

	ids := make([]string, 0, len(unlocked))
	for _, a := range unlocked {
		ids = append(ids, a.ID)
	}
	assert.ElementsMatch(t, []string{FirstExpense, TrackerNovice, WeekWarrior, SaverStarter}, ids)
}

func TestCheckFirstExpenseIsMonotonic(t *testing.T) {
	list := Initialize(nil)

	list, unlocked := Check(list, model.UserStats{TotalExpenses: 0}, now)
	assert.False(t, byID(t, list, FirstExpense).IsUnlocked)
	assert.Empty(t, unlocked)

	list, unlocked = Check(list, model.UserStats{TotalExpenses: 1}, now)
	assert.True(t, byID(t, list, FirstExpense).IsUnlocked)
	require.Len(t, unlocked, 1)
	assert.Equal(t, FirstExpense, unlocked[0].ID)

	later := now.Add(48 * time.Hour)
	list, unlocked = Check(list, model.UserStats{TotalExpenses: 0}, later)
	first := byID(t, list, FirstExpense)
	assert.True(t, first.IsUnlocked, "unlock is permanent")
	assert.Equal(t, now, *first.UnlockedAt)
	assert.Empty(t, unlocked)
}

func TestCheckUnknownIDKeepsProgress(t *testing.T) {
	list := []model.Achievement{{ID: "custom", Target: 10, Progress: 3}}

	updated, unlocked := Check(list, model.UserStats{TotalExpenses: 100}, now)

	assert.InDelta(t, 3.0, updated[0].Progress, 0)
	assert.Empty(t, unlocked)
}

func TestUnlocked(t *testing.T) {
	list := []model.Achievement{{ID: "a", IsUnlocked: true}, {ID: "b"}}
	got := Unlocked(list)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}
