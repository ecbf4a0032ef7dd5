// internal/health/goals.go
package health

import (
	"math"

	"mcp-meal-planner/internal/models"
)

// MacroGoals derives the daily macro targets from TDEE and body weight.
// High glycemia raises protein and caps carbs at 40% of energy; high
// triglycerides cap carbs at 35%.
func MacroGoals(bmr, tdee, weightKg float64, goal string, glycemia, triglycerides *float64) models.DailyGoals {
	var protein float64
	switch Normalize(goal) {
	case GoalLose:
		protein = weightKg * 1.5
	case GoalGain:
		protein = weightKg * 1.7
	default:
		protein = weightKg * 1.2
	}
	highGlycemia := glycemia != nil && *glycemia >= 100
	if highGlycemia {
		protein = math.Max(protein, weightKg*1.5)
	}

	fat := tdee * 0.30 / 9
	fiber := tdee / 1000 * 14
	carbs := (tdee - (protein*4 + fat*9 + fiber*2)) / 4

	if highGlycemia {
		carbs = tdee * 0.4 / 4
	}
	if triglycerides != nil && *triglycerides >= 200 {
		carbs = tdee * 0.35 / 4
	}

	return models.DailyGoals{
		BMR:      math.RoundToEven(bmr),
		Calories: math.RoundToEven(tdee),
		Protein:  math.RoundToEven(protein),
		Fat:      math.RoundToEven(fat),
		Carbs:    math.RoundToEven(carbs),
		Fiber:    math.RoundToEven(fiber),
	}
}

type mealShares map[models.MealType]float64

var (
	defaultShares = mealShares{
		models.Breakfast: 0.25, models.MorningSnack: 0.10, models.Lunch: 0.35,
		models.AfternoonSnack: 0.10, models.Dinner: 0.15, models.Supper: 0.05,
	}
	glycemicShares = mealShares{
		models.Breakfast: 0.20, models.MorningSnack: 0.10, models.Lunch: 0.25,
		models.AfternoonSnack: 0.10, models.Dinner: 0.25, models.Supper: 0.10,
	}
	loseShares = mealShares{
		models.Breakfast: 0.20, models.MorningSnack: 0.10, models.Lunch: 0.30,
		models.AfternoonSnack: 0.10, models.Dinner: 0.25, models.Supper: 0.05,
	}
	// gainShares allots 110% of the (already increased) TDEE.
	gainShares = mealShares{
		models.Breakfast: 0.20, models.MorningSnack: 0.10, models.Lunch: 0.30,
		models.AfternoonSnack: 0.15, models.Dinner: 0.30, models.Supper: 0.05,
	}
)

// MealSplit spreads the daily energy and macros across the six meals.
// Glycemic patients get the even split regardless of goal.
func MealSplit(goal string, glycemia *float64, goals models.DailyGoals, totalKcal float64) []models.MealTarget {
	shares := defaultShares
	switch {
	case glycemia != nil && ClassifyGlycemia(*glycemia) != models.GlycemiaNormal:
		shares = glycemicShares
	case Normalize(goal) == GoalLose:
		shares = loseShares
	case Normalize(goal) == GoalGain:
		shares = gainShares
	}

	out := make([]models.MealTarget, 0, len(models.DailyMeals))
	for _, meal := range models.DailyMeals {
		pct := shares[meal]
		out = append(out, models.MealTarget{
			MealType: meal,
			Share:    pct,
			Target: models.NutritionTarget{
				Calories: round(totalKcal*pct, 1),
				Carbs:    round(goals.Carbs*pct, 1),
				Protein:  round(goals.Protein*pct, 1),
				Fat:      round(goals.Fat*pct, 1),
				Fiber:    round(goals.Fiber*pct, 1),
			},
		})
	}
	return out
}

// WaterLiters is the daily hydration recommendation, 35 ml per kg.
func WaterLiters(weightKg float64) float64 {
	return round(weightKg*35/1000, 1)
}
