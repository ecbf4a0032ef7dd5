package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"mcp-meal-planner/internal/models"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "meals.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStorage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func carbs(v float64) *float64 { return &v }

func TestUpsertAndLoadCatalog(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	foods := []models.FoodRecord{
		{ID: 2, Name: "Aveia", Category: models.CategoryGrains, Catalog: models.CatalogBreakfast, Calories: 118, Carbs: carbs(20), ContainsGluten: true, Vegan: true},
		{ID: 1, Name: "Banana", Category: models.CategoryFruit, Catalog: models.CatalogBreakfast, Calories: 98, Protein: 1.3},
		{ID: 3, Name: "Frango", Category: models.CategoryMeat, Catalog: models.CatalogMainMeal, Calories: 159, Protein: 32},
	}
	if err := s.UpsertFoods(ctx, foods); err != nil {
		t.Fatalf("UpsertFoods: %v", err)
	}

	got, err := s.LoadCatalog(ctx, models.CatalogBreakfast)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("catalog = %+v, want ids 1, 2", got)
	}
	if got[0].Carbs != nil {
		t.Fatalf("banana carbs = %v, want nil", *got[0].Carbs)
	}
	if got[1].Carbs == nil || *got[1].Carbs != 20 || !got[1].ContainsGluten || !got[1].Vegan {
		t.Fatalf("aveia = %+v", got[1])
	}

	// Upsert replaces in place.
	foods[1].Calories = 105
	if err := s.UpsertFoods(ctx, foods[1:2]); err != nil {
		t.Fatalf("UpsertFoods: %v", err)
	}
	got, _ = s.LoadCatalog(ctx, models.CatalogBreakfast)
	if got[0].Calories != 105 {
		t.Fatalf("updated kcal = %v, want 105", got[0].Calories)
	}
	if n, _ := s.CountFoods(ctx); n != 3 {
		t.Fatalf("count = %d, want 3", n)
	}
}

func TestUpsertFoodsValidates(t *testing.T) {
	s := newTestStorage(t)
	bad := []models.FoodRecord{
		{ID: 0, Name: "x", Category: models.CategoryFruit, Catalog: models.CatalogSnack},
		{ID: 1, Category: models.CategoryFruit, Catalog: models.CatalogSnack},
		{ID: 1, Name: "x", Catalog: models.CatalogSnack},
		{ID: 1, Name: "x", Category: models.CategoryFruit, Catalog: "brunch"},
	}
	for _, f := range bad {
		if err := s.UpsertFoods(context.Background(), []models.FoodRecord{f}); !errors.Is(err, ErrInvalidFood) {
			t.Fatalf("UpsertFoods(%+v) = %v, want ErrInvalidFood", f, err)
		}
	}
}

func TestListFoods(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	seed, err := DefaultSeed()
	if err != nil {
		t.Fatalf("DefaultSeed: %v", err)
	}
	if err := s.ApplySeed(ctx, seed); err != nil {
		t.Fatalf("ApplySeed: %v", err)
	}

	all, err := s.ListFoods(ctx, "", "", 1000)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != len(seed.Foods) {
		t.Fatalf("all = %d, want %d", len(all), len(seed.Foods))
	}

	fruit, err := s.ListFoods(ctx, models.CatalogSnack, string(models.CategoryFruit), 1000)
	if err != nil {
		t.Fatal(err)
	}
	if len(fruit) == 0 {
		t.Fatal("no snack fruit in seed")
	}
	for _, f := range fruit {
		if f.Catalog != models.CatalogSnack || f.Category != models.CategoryFruit {
			t.Fatalf("filter leaked %+v", f)
		}
	}

	limited, _ := s.ListFoods(ctx, "", "", 2)
	if len(limited) != 2 {
		t.Fatalf("limit 2 returned %d", len(limited))
	}
}

func TestSalads(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	salads := []models.Salad{
		{Name: "Salada Simples", Ingredients: []string{"Alface", "Tomate"}},
		{Name: "Salada Grega", Ingredients: []string{"Pepino", "Azeitona"}},
	}
	if err := s.UpsertSalads(ctx, salads); err != nil {
		t.Fatalf("UpsertSalads: %v", err)
	}
	got, err := s.ListSalads(ctx)
	if err != nil {
		t.Fatalf("ListSalads: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Salada Grega" || got[1].Ingredients[1] != "Tomate" {
		t.Fatalf("salads = %+v", got)
	}
}

func testPlan(id, patient string, created time.Time) *models.MealPlan {
	return &models.MealPlan{
		ID:          id,
		PatientName: patient,
		Restriction: models.LactoseIntolerant,
		Health: models.HealthSummary{
			BMI: 24.69, BMIClassification: "peso normal", TDEE: 2345.15,
			Labs: models.LabResults{Iron: models.IronLow},
		},
		Meals: []models.PlannedMeal{
			{
				MealType: models.Breakfast,
				Target:   models.NutritionTarget{Calories: 469},
				Foods: []models.FoodRecord{
					{ID: 1, Name: "Banana", Category: models.CategoryFruit, Calories: 98},
					{ID: 10, Name: "Ovo cozido", Category: models.CategoryEggs, Calories: 146},
				},
				Totals:  models.NutritionTotals{Calories: 244},
				Fitness: -120.5,
			},
			{
				MealType:    models.Lunch,
				OverCeiling: true,
				Salads:      []models.Salad{{Name: "Salada Simples", Ingredients: []string{"Alface"}}},
			},
		},
		Report:    "# plan",
		CreatedAt: created,
	}
}

func TestSaveAndGetMealPlans(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, p := range []*models.MealPlan{
		testPlan("a", "Maria", base),
		testPlan("b", "João", base.Add(time.Hour)),
		testPlan("c", "Maria", base.Add(2*time.Hour+500*time.Millisecond)),
	} {
		if err := s.SaveMealPlan(ctx, p); err != nil {
			t.Fatalf("SaveMealPlan %d: %v", i, err)
		}
	}

	plans, err := s.GetMealPlans(ctx, "Maria", 10)
	if err != nil {
		t.Fatalf("GetMealPlans: %v", err)
	}
	if len(plans) != 2 || plans[0].ID != "c" || plans[1].ID != "a" {
		t.Fatalf("plans = %v, want c then a", planIDs(plans))
	}

	p := plans[0]
	if !p.CreatedAt.Equal(base.Add(2*time.Hour + 500*time.Millisecond)) {
		t.Fatalf("created_at = %v", p.CreatedAt)
	}
	if p.Restriction != models.LactoseIntolerant || p.Health.BMI != 24.69 || p.Health.Labs.Iron != models.IronLow {
		t.Fatalf("plan header = %+v", p)
	}
	if len(p.Meals) != 2 || p.Meals[0].MealType != models.Breakfast || p.Meals[1].MealType != models.Lunch {
		t.Fatalf("meals = %+v", p.Meals)
	}
	if len(p.Meals[0].Foods) != 2 || p.Meals[0].Foods[1].Name != "Ovo cozido" || p.Meals[0].Fitness != -120.5 {
		t.Fatalf("breakfast = %+v", p.Meals[0])
	}
	if !p.Meals[1].OverCeiling || len(p.Meals[1].Salads) != 1 {
		t.Fatalf("lunch = %+v", p.Meals[1])
	}

	all, err := s.GetMealPlans(ctx, "", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].ID != "c" || all[1].ID != "b" {
		t.Fatalf("all = %v, want c then b", planIDs(all))
	}

	if err := s.SaveMealPlan(ctx, testPlan("a", "Maria", base)); err == nil {
		t.Fatal("duplicate plan id should fail")
	}
}

func planIDs(plans []*models.MealPlan) []string {
	ids := make([]string, len(plans))
	for i, p := range plans {
		ids[i] = p.ID
	}
	return ids
}
