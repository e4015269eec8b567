// Package achievement evaluates the achievement catalog against user stats.
package achievement

import "github.com/Veraticus/expense-tracker/internal/model"

// Catalog ids.
const (
	FirstExpense     = "first_expense"
	TrackerNovice    = "tracker_novice"
	TrackerPro       = "tracker_pro"
	CategoryExplorer = "category_explorer"
	WeekWarrior      = "week_warrior"
	MonthlyMaster    = "monthly_master"
	SaverStarter     = "saver_starter"
	GoalGetter       = "goal_getter"
	BigSaver         = "big_saver"
	BudgetBoss       = "budget_boss"
)

// Definition is the static part of an achievement.
type Definition struct {
	ID          string
	Title       string
	Description string
	Icon        model.Icon
	Category    model.AchievementCategory
	Target      float64
}

// Catalog is the current list of achievement definitions.
var Catalog = []Definition{
	{FirstExpense, "First Steps", "Log your first expense", model.IconFootprints, model.AchievementTracking, 1},
	{TrackerNovice, "Tracker Novice", "Log 10 expenses", model.IconPencil, model.AchievementTracking, 10},
	{TrackerPro, "Tracker Pro", "Log 100 expenses", model.IconScrollText, model.AchievementTracking, 100},
	{CategoryExplorer, "Category Explorer", "Use 5 different categories", model.IconPalette, model.AchievementTracking, 5},

	{WeekWarrior, "Week Warrior", "Log expenses for 7 days in a row", model.IconFlame, model.AchievementStreak, 7},
	{MonthlyMaster, "Monthly Master", "Log expenses for 30 days in a row", model.IconCalendarRange, model.AchievementStreak, 30},

	{SaverStarter, "Piggy Bank", "Create your first savings goal", model.IconPiggyBank, model.AchievementSaving, 1},
	{GoalGetter, "Goal Getter", "Complete a savings goal", model.IconTrophy, model.AchievementSaving, 1},
	{BigSaver, "Big Saver", "Save a total of 1,000", model.IconCoins, model.AchievementSaving, 1000},

	{BudgetBoss, "Budget Boss", "Set a budget for a category", model.IconTarget, model.AchievementBudgeting, 1},
}
