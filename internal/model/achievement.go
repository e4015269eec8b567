package model

import "time"

// AchievementCategory groups achievements for display.
type AchievementCategory string

// Achievement categories.
const (
	AchievementTracking  AchievementCategory = "tracking"
	AchievementSaving    AchievementCategory = "saving"
	AchievementBudgeting AchievementCategory = "budgeting"
	AchievementMilestone AchievementCategory = "milestone"
	AchievementStreak    AchievementCategory = "streak"
)

// Achievement is a catalog definition merged with per-user progress.
// IsUnlocked only ever moves from false to true.
type Achievement struct {
	UnlockedAt  *time.Time          `json:"unlockedAt,omitempty"`
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Icon        Icon                `json:"icon"`
	Category    AchievementCategory `json:"category"`
	Target      float64             `json:"target"`
	Progress    float64             `json:"progress"`
	IsUnlocked  bool                `json:"isUnlocked"`
}

// Percent returns progress toward the target as 0..100.
func (a Achievement) Percent() int {
	if a.Target <= 0 {
		return 0
	}
	pct := int(a.Progress / a.Target * 100)
	if pct > 100 {
		return 100
	}
	return pct
}

// UserStats aggregates activity used to evaluate achievements.
type UserStats struct {
	LastActivityDate *time.Time `json:"lastActivityDate"`
	CategoriesUsed   []string   `json:"categoriesUsed"`
	TotalSaved       Money      `json:"totalSaved"`
	TotalExpenses    int        `json:"totalExpenses"`
	TotalIncome      int        `json:"totalIncome"`
	CurrentStreak    int        `json:"currentStreak"`
	LongestStreak    int        `json:"longestStreak"`
	BudgetsMet       int        `json:"budgetsMet"`
	GoalsCompleted   int        `json:"goalsCompleted"`
	GoalsCreated     int        `json:"goalsCreated"`
}
