// internal/health/assess.go
package health

import (
	"fmt"

	"mcp-meal-planner/internal/models"
)

// Assess runs every calculation a plan needs for the patient: BMI,
// energy expenditure, lab classes, daily goals and the per-meal split.
func Assess(p models.Patient) (models.HealthSummary, []models.MealTarget, error) {
	bmi, class, err := BMI(p.WeightKg, p.HeightCm)
	if err != nil {
		return models.HealthSummary{}, nil, fmt.Errorf("failed to compute BMI: %w", err)
	}
	bmr, tdee, err := EnergyExpenditure(p.Sex, p.Age, p.WeightKg, p.HeightCm, p.ActivityLevel, p.Goal)
	if err != nil {
		return models.HealthSummary{}, nil, fmt.Errorf("failed to compute energy expenditure: %w", err)
	}
	goals := MacroGoals(bmr, tdee, p.WeightKg, p.Goal, p.Glycemia, p.Triglycerides)

	summary := models.HealthSummary{
		BMI:               bmi,
		BMIClassification: class,
		BMR:               bmr,
		TDEE:              tdee,
		Goals:             goals,
		Labs:              EvaluateLabs(p),
	}
	return summary, MealSplit(p.Goal, p.Glycemia, goals, tdee), nil
}
