package achievement

import (
	"time"

	"github.com/Veraticus/expense-tracker/internal/model"
)

// Initialize merges stored per-user state onto the catalog. Definitions
// always come from the catalog; progress and unlock state come from existing
// rows with the same id. Rows for ids no longer in the catalog are dropped.
func Initialize(existing []model.Achievement) []model.Achievement {
	byID := make(map[string]model.Achievement, len(existing))
	for _, a := range existing {
		byID[a.ID] = a
	}

	out := make([]model.Achievement, 0, len(Catalog))
	for _, def := range Catalog {
		a := byID[def.ID]
		a.ID = def.ID
		a.Title = def.Title
		a.Description = def.Description
		a.Icon = def.Icon
		a.Category = def.Category
		a.Target = def.Target
		out = append(out, a)
	}
	return out
}

// Check recomputes progress for every locked achievement and unlocks those
// that reached their target. It returns the full updated list and the ones
// unlocked by this call. Unlocked achievements are never touched again.
func Check(achievements []model.Achievement, stats model.UserStats, now time.Time) ([]model.Achievement, []model.Achievement) {
	updated := make([]model.Achievement, len(achievements))
	var unlocked []model.Achievement

	for i, a := range achievements {
		if a.IsUnlocked {
			updated[i] = a
			continue
		}

		a.Progress = progressFor(a, stats)
		if a.Progress >= a.Target {
			a.Progress = a.Target
			a.IsUnlocked = true
			stamp := now
			a.UnlockedAt = &stamp
			unlocked = append(unlocked, a)
		}
		updated[i] = a
	}

	return updated, unlocked
}

func progressFor(a model.Achievement, stats model.UserStats) float64 {
	switch a.ID {
	case FirstExpense, TrackerNovice, TrackerPro:
		return float64(stats.TotalExpenses)
	case CategoryExplorer:
		return float64(len(stats.CategoriesUsed))
	case WeekWarrior, MonthlyMaster:
		return float64(stats.CurrentStreak)
	case SaverStarter:
		return float64(stats.GoalsCreated)
	case GoalGetter:
		return float64(stats.GoalsCompleted)
	case BigSaver:
		return stats.TotalSaved.InexactFloat64()
	case BudgetBoss:
		return float64(stats.BudgetsMet)
	default:
		return a.Progress
	}
}

// Unlocked filters achievements down to the unlocked ones.
func Unlocked(achievements []model.Achievement) []model.Achievement {
	var out []model.Achievement
	for _, a := range achievements {
		if a.IsUnlocked {
			out = append(out, a)
		}
	}
	return out
}
