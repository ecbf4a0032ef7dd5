package composer

import (
	"errors"
	"math/rand"
	"testing"

	"mcp-meal-planner/internal/models"
)

func slotsOf(bp Blueprint) []string {
	out := make([]string, len(bp))
	for i, s := range bp {
		out[i] = s.String()
	}
	return out
}

func TestResolveBlueprint(t *testing.T) {
	fruit, grains, eggs, dairy := "frutas_e_derivados", "cereais_e_derivados", "ovos_e_derivados", "leite_e_derivados"
	protein := "[carnes_e_derivados|pescados_e_frutos_do_mar]"
	side := "[cereais_e_derivados|verduras_hortalicas_e_derivados]"

	tests := []struct {
		name        string
		meal        models.MealType
		restriction models.Restriction
		want        []string
	}{
		{"breakfast", models.Breakfast, models.NoRestriction, []string{fruit, grains, eggs}},
		{"lunch", models.Lunch, models.NoRestriction, []string{protein, "leguminosas_e_derivados", side}},
		{"dinner matches lunch", models.Dinner, models.NoRestriction, []string{protein, "leguminosas_e_derivados", side}},
		{"afternoon snack", models.AfternoonSnack, models.NoRestriction, []string{fruit, "[leite_e_derivados|ovos_e_derivados]"}},
		{"supper", models.Supper, models.NoRestriction, []string{fruit, dairy}},
		{"lactose breakfast has no dairy", models.Breakfast, models.LactoseIntolerant, []string{fruit, grains, eggs}},
		{"lactose morning snack", models.MorningSnack, models.LactoseIntolerant, []string{fruit, fruit, eggs}},
		{"lactose afternoon snack keeps alternatives", models.AfternoonSnack, models.LactoseIntolerant, []string{fruit, "[leite_e_derivados|ovos_e_derivados]"}},
		{"gluten breakfast", models.Breakfast, models.GlutenFree, []string{fruit, dairy, eggs}},
		{"gluten lunch untouched", models.Lunch, models.GlutenFree, []string{protein, "leguminosas_e_derivados", side}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bp, err := ResolveBlueprint(tt.meal, tt.restriction)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := slotsOf(bp)
			if len(got) != len(tt.want) {
				t.Fatalf("slots = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("slots = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestResolveBlueprintDoesNotMutateBase(t *testing.T) {
	if _, err := ResolveBlueprint(models.Supper, models.LactoseIntolerant); err != nil {
		t.Fatal(err)
	}
	if _, err := ResolveBlueprint(models.Breakfast, models.GlutenFree); err != nil {
		t.Fatal(err)
	}

	supper, _ := ResolveBlueprint(models.Supper, models.NoRestriction)
	if got := slotsOf(supper); len(got) != 2 || got[1] != "leite_e_derivados" {
		t.Fatalf("supper = %v, base blueprint was rewritten", got)
	}
	breakfast, _ := ResolveBlueprint(models.Breakfast, models.NoRestriction)
	if got := slotsOf(breakfast); got[1] != "cereais_e_derivados" {
		t.Fatalf("breakfast = %v, base blueprint was rewritten", got)
	}
}

func TestResolveBlueprintUnknownMeal(t *testing.T) {
	_, err := ResolveBlueprint("brunch", models.NoRestriction)
	if !errors.Is(err, ErrUnknownMealType) {
		t.Fatalf("err = %v, want ErrUnknownMealType", err)
	}
}

func TestSlotResolveCoversAlternatives(t *testing.T) {
	slot := OneOf(models.CategoryMeat, models.CategorySeafood)
	rng := rand.New(rand.NewSource(1))

	seen := map[models.Category]int{}
	for i := 0; i < 200; i++ {
		seen[slot.Resolve(rng)]++
	}
	if seen[models.CategoryMeat] == 0 || seen[models.CategorySeafood] == 0 {
		t.Fatalf("resolution not randomized per call: %v", seen)
	}
	if got := Fixed(models.CategoryEggs).Resolve(rng); got != models.CategoryEggs {
		t.Fatalf("fixed slot resolved to %q", got)
	}
	if got := OneOf().Resolve(rng); got != "" {
		t.Fatalf("empty slot resolved to %q", got)
	}
}
