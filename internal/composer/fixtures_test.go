package composer

import (
	"testing"

	"mcp-meal-planner/internal/models"
)

func food(id int64, name string, cat models.Category, kcal, protein, fat, fiber, iron, sodium float64) models.FoodRecord {
	return models.FoodRecord{
		ID: id, Name: name, Category: cat,
		Calories: kcal, Protein: protein, Fat: fat,
		Fiber: fiber, Iron: iron, Sodium: sodium,
	}
}

// testFoods is a small but realistic catalog covering every blueprint.
func testFoods() []models.FoodRecord {
	foods := []models.FoodRecord{
		food(1, "banana", models.CategoryFruit, 105, 1.3, 0.4, 3.1, 0.3, 1),
		food(2, "aveia", models.CategoryGrains, 150, 5, 2.5, 4, 1, 5),
		food(3, "ovo_cozido", models.CategoryEggs, 78, 6.3, 5.3, 0, 1.2, 62),
		food(4, "leite_integral", models.CategoryDairy, 149, 8, 8, 0, 0.1, 107),
		food(5, "frango_grelhado", models.CategoryMeat, 165, 31, 3.6, 0, 0.5, 74),
		food(6, "arroz_integral", models.CategoryGrains, 130, 2.6, 1, 1.8, 0.2, 1),
		food(7, "feijao_preto", models.CategoryLegumes, 131, 9, 0.5, 7, 2.1, 1),
		food(8, "salmao", models.CategorySeafood, 208, 20, 13, 0, 0.3, 59),
		food(9, "tofu", models.CategoryLegumes, 76, 8, 5, 2, 2.7, 7),
		food(10, "pao_integral", models.CategoryGrains, 82, 3, 1, 2, 0.8, 145),
	}
	vegan := map[int64]bool{1: true, 2: true, 6: true, 7: true, 9: true, 10: true}
	for i := range foods {
		foods[i].Vegan = vegan[foods[i].ID]
		foods[i].Vegetarian = foods[i].Vegan || foods[i].Category == models.CategoryEggs || foods[i].Category == models.CategoryDairy
		foods[i].ContainsGluten = foods[i].ID == 2 || foods[i].ID == 10
		foods[i].ContainsShellfish = foods[i].ID == 8
	}
	foods[3].ContainsLactose = true
	foods[3].ContainsMilk = true
	return foods
}

func newTestComposer(t *testing.T, meal models.MealType, restriction models.Restriction, target models.NutritionTarget, health models.HealthModifiers, opts ...Option) *Composer {
	t.Helper()
	opts = append([]Option{WithSeed(42)}, opts...)
	c, err := New(testFoods(), meal, restriction, target, health, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func hasDuplicate(ind Individual) bool {
	seen := make(map[int64]bool, len(ind))
	for _, id := range ind {
		if seen[id] {
			return true
		}
		seen[id] = true
	}
	return false
}
