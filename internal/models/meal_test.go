package models

import (
	"math"
	"testing"
)

func TestSumFoodsEstimatesMissingCarbsPerRecord(t *testing.T) {
	carbs := 20.0
	foods := []FoodRecord{
		{Name: "Maçã", Calories: 100, Protein: 1, Fat: 0},
		{Name: "Iogurte", Calories: 120, Protein: 8, Fat: 4, Carbs: &carbs, Fiber: 1},
	}

	got := SumFoods(foods)
	// Maçã has no carbs value: (100 - 4) / 4 = 24, plus the 20 on record.
	if math.Abs(got.Carbs-44) > 1e-9 {
		t.Fatalf("carbs = %v, want 44", got.Carbs)
	}
	if got.Calories != 220 || got.Protein != 9 || got.Fat != 4 || got.Fiber != 1 {
		t.Fatalf("totals = %+v", got)
	}
}

func TestEstimateCarbsFloorsAtZero(t *testing.T) {
	if got := EstimateCarbs(50, 10, 5); got != 0 {
		t.Fatalf("EstimateCarbs = %v, want 0", got)
	}
	if got := EstimateCarbs(100, 5, 4); got != 11 {
		t.Fatalf("EstimateCarbs = %v, want 11", got)
	}
}
