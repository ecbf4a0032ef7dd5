package composer

import (
	"context"
	"errors"
	"math"
	"testing"

	"mcp-meal-planner/internal/models"
)

var lunchTarget = models.NutritionTarget{Calories: 500, Protein: 35, Carbs: 50, Fat: 15, Fiber: 8}

func TestRunReturnsCatalogRows(t *testing.T) {
	c := newTestComposer(t, models.Lunch, models.NoRestriction, lunchTarget, models.HealthModifiers{})

	foods, err := c.Run(context.Background(), 10, 5)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(foods) == 0 {
		t.Fatalf("Run returned no foods")
	}
	if len(foods) > len(c.Blueprint()) {
		t.Fatalf("got %d foods for a %d-slot blueprint", len(foods), len(c.Blueprint()))
	}
	for i := 1; i < len(foods); i++ {
		if foods[i].ID <= foods[i-1].ID {
			t.Fatalf("foods not in catalog order: %d after %d", foods[i].ID, foods[i-1].ID)
		}
	}
}

func TestRunEveryMealType(t *testing.T) {
	for _, meal := range models.DailyMeals {
		for _, restriction := range []models.Restriction{models.NoRestriction, models.LactoseIntolerant, models.GlutenFree, models.Vegan} {
			c := newTestComposer(t, meal, restriction, lunchTarget, models.HealthModifiers{})
			foods, err := c.Run(context.Background(), 10, 5)
			if err != nil {
				t.Fatalf("%s/%s: %v", meal, restriction, err)
			}
			if len(foods) == 0 {
				t.Fatalf("%s/%s: no foods", meal, restriction)
			}
		}
	}
}

func TestComposeDeterministic(t *testing.T) {
	health := models.HealthModifiers{Triglycerides: models.TriglycerideHigh, Iron: models.IronLow}

	first, err := newTestComposer(t, models.Dinner, models.NoRestriction, lunchTarget, health, WithSeed(7)).
		Compose(context.Background(), 20, 15)
	if err != nil {
		t.Fatal(err)
	}
	second, err := newTestComposer(t, models.Dinner, models.NoRestriction, lunchTarget, health, WithSeed(7), WithWorkers(4)).
		Compose(context.Background(), 20, 15)
	if err != nil {
		t.Fatal(err)
	}

	if !equalIndividuals(first.Individual, second.Individual) || first.Fitness != second.Fitness {
		t.Fatalf("same seed diverged: %v (%v) vs %v (%v)", first.Individual, first.Fitness, second.Individual, second.Fitness)
	}
}

func TestComposeReportsBestFitness(t *testing.T) {
	c := newTestComposer(t, models.Breakfast, models.NoRestriction, breakfastTarget, models.HealthModifiers{})

	res, err := c.Compose(context.Background(), 30, 20)
	if err != nil {
		t.Fatal(err)
	}
	if got := c.Fitness(res.Individual); got != res.Fitness {
		t.Fatalf("reported fitness %v, recomputed %v", res.Fitness, got)
	}
	if math.IsInf(res.Fitness, -1) {
		t.Fatalf("best breakfast was rejected by the calorie ceiling")
	}
	if len(res.Foods) != len(res.Individual.set()) {
		t.Fatalf("%d foods for individual %v", len(res.Foods), res.Individual)
	}
}

func TestComposeZeroGenerations(t *testing.T) {
	c := newTestComposer(t, models.Supper, models.NoRestriction, models.NutritionTarget{}, models.HealthModifiers{})

	if _, err := c.Compose(context.Background(), 5, 0); err != nil {
		t.Fatalf("zero generations: %v", err)
	}
}

func TestComposeInvalidParameters(t *testing.T) {
	c := newTestComposer(t, models.Breakfast, models.NoRestriction, breakfastTarget, models.HealthModifiers{})

	for _, tc := range []struct{ pop, gens int }{{1, 5}, {0, 5}, {10, -1}} {
		_, err := c.Compose(context.Background(), tc.pop, tc.gens)
		if !errors.Is(err, ErrInvalidParameters) {
			t.Fatalf("pop %d gens %d: err = %v, want ErrInvalidParameters", tc.pop, tc.gens, err)
		}
	}
}

func TestComposeCancelled(t *testing.T) {
	c := newTestComposer(t, models.Breakfast, models.NoRestriction, breakfastTarget, models.HealthModifiers{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Compose(ctx, 10, 5); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(testFoods(), "brunch", models.NoRestriction, lunchTarget, models.HealthModifiers{}); !errors.Is(err, ErrUnknownMealType) {
		t.Fatalf("err = %v, want ErrUnknownMealType", err)
	}

	meatOnly := []models.FoodRecord{food(1, "bife", models.CategoryMeat, 200, 30, 8, 0, 2, 50)}
	_, err := New(meatOnly, models.Lunch, models.Vegan, lunchTarget, models.HealthModifiers{})
	if !errors.Is(err, ErrEmptyCatalog) || !errors.Is(err, ErrConfiguration) {
		t.Fatalf("err = %v, want ErrEmptyCatalog", err)
	}
}

func TestNewFiltersCatalog(t *testing.T) {
	c := newTestComposer(t, models.Lunch, models.Vegan, lunchTarget, models.HealthModifiers{})
	for _, f := range c.Catalog() {
		if !f.Vegan {
			t.Fatalf("non-vegan food %s in vegan catalog", f.Name)
		}
	}

	foods, err := c.Run(context.Background(), 10, 5)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range foods {
		if !f.Vegan {
			t.Fatalf("non-vegan food %s in vegan meal", f.Name)
		}
	}
}
