// internal/models/meal.go
package models

import (
	"time"
)

type MealPlan struct {
	ID          string        `json:"id"`
	PatientName string        `json:"patient_name"`
	Restriction Restriction   `json:"restriction,omitempty"`
	Health      HealthSummary `json:"health"`
	Meals       []PlannedMeal `json:"meals"`
	Report      string        `json:"report,omitempty"` // markdown
	CreatedAt   time.Time     `json:"created_at"`
}

type PlannedMeal struct {
	MealType MealType        `json:"meal_type"`
	Target   NutritionTarget `json:"target"`
	Foods    []FoodRecord    `json:"foods"`
	Totals   NutritionTotals `json:"totals"`
	Fitness  float64         `json:"fitness"`
	// OverCeiling marks a meal whose best combination still broke the
	// calorie ceiling; Fitness is zeroed since -Inf has no JSON form.
	OverCeiling bool    `json:"over_ceiling,omitempty"`
	Salads      []Salad `json:"salads,omitempty"`
}

// Salad is a free side suggestion for lunch and dinner.
type Salad struct {
	Name        string   `json:"name" yaml:"name"`
	Ingredients []string `json:"ingredients" yaml:"ingredients"`
}

type NutritionTotals struct {
	Calories float64 `json:"kcal"`
	Protein  float64 `json:"protein_g"`
	Carbs    float64 `json:"carbs_g"`
	Fat      float64 `json:"fat_g"`
	Fiber    float64 `json:"fiber_g"`
	Iron     float64 `json:"iron_mg"`
	Sodium   float64 `json:"sodium_mg"`
}

// SumFoods totals every record, estimating carbs per food when missing.
// The composer scores differently on a catalog where only some rows carry
// carbs: it counts the missing ones as 0. These totals are what the plan
// reports, so they can sit above the carbs the search optimized.
func SumFoods(foods []FoodRecord) NutritionTotals {
	var t NutritionTotals
	for _, f := range foods {
		t.Calories += f.Calories
		t.Protein += f.Protein
		t.Fat += f.Fat
		t.Carbs += f.EstimatedCarbs()
		t.Fiber += f.Fiber
		t.Iron += f.Iron
		t.Sodium += f.Sodium
	}
	return t
}

// HealthSummary is the computed biometric snapshot stored with a plan.
type HealthSummary struct {
	BMI               float64    `json:"bmi"`
	BMIClassification string     `json:"bmi_classification"`
	BMR               float64    `json:"bmr"`
	TDEE              float64    `json:"tdee"`
	Goals             DailyGoals `json:"goals"`
	Labs              LabResults `json:"labs"`
}

type DailyGoals struct {
	BMR      float64 `json:"bmr"`
	Calories float64 `json:"kcal"`
	Protein  float64 `json:"protein_g"`
	Fat      float64 `json:"fat_g"`
	Carbs    float64 `json:"carbs_g"`
	Fiber    float64 `json:"fiber_g"`
}

// MealTarget is one row of the daily split.
type MealTarget struct {
	MealType MealType        `json:"meal_type"`
	Share    float64         `json:"share"`
	Target   NutritionTarget `json:"target"`
}
