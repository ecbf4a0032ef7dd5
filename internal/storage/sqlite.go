// internal/storage/sqlite.go
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"mcp-meal-planner/internal/models"
)

var ErrInvalidFood = errors.New("invalid food record")

// timeLayout is fixed width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps the foreign_keys pragma in effect and
	// serializes writers.
	db.SetMaxOpenConns(1)

	storage := &SQLiteStorage{db: db}
	if err := storage.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) initSchema() error {
	schema := `
    PRAGMA foreign_keys = ON;

    CREATE TABLE IF NOT EXISTS foods (
        id INTEGER PRIMARY KEY,
        name TEXT NOT NULL,
        category TEXT NOT NULL,
        catalog TEXT NOT NULL,
        kcal REAL NOT NULL,
        protein_g REAL NOT NULL,
        fat_g REAL NOT NULL,
        carbs_g REAL,
        fiber_g REAL NOT NULL,
        iron_mg REAL NOT NULL,
        sodium_mg REAL NOT NULL,
        vegan INTEGER NOT NULL,
        vegetarian INTEGER NOT NULL,
        contains_lactose INTEGER NOT NULL,
        contains_milk INTEGER NOT NULL,
        contains_gluten INTEGER NOT NULL,
        contains_shellfish INTEGER NOT NULL,
        contains_peanut INTEGER NOT NULL
    );

    CREATE TABLE IF NOT EXISTS salads (
        name TEXT PRIMARY KEY,
        ingredients TEXT NOT NULL
    );

    CREATE TABLE IF NOT EXISTS meal_plans (
        id TEXT PRIMARY KEY,
        patient_name TEXT NOT NULL,
        restriction TEXT NOT NULL,
        health TEXT NOT NULL,
        report TEXT NOT NULL,
        created_at TEXT NOT NULL
    );

    CREATE TABLE IF NOT EXISTS plan_meals (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        plan_id TEXT NOT NULL,
        position INTEGER NOT NULL,
        meal_type TEXT NOT NULL,
        target TEXT NOT NULL,
        totals TEXT NOT NULL,
        fitness REAL NOT NULL,
        over_ceiling INTEGER NOT NULL,
        salads TEXT NOT NULL,
        FOREIGN KEY (plan_id) REFERENCES meal_plans(id) ON DELETE CASCADE
    );

    CREATE TABLE IF NOT EXISTS plan_meal_foods (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        plan_meal_id INTEGER NOT NULL,
        food_id INTEGER NOT NULL,
        food TEXT NOT NULL,
        FOREIGN KEY (plan_meal_id) REFERENCES plan_meals(id) ON DELETE CASCADE
    );

    CREATE INDEX IF NOT EXISTS idx_foods_catalog ON foods(catalog, category);
    CREATE INDEX IF NOT EXISTS idx_meal_plans_patient ON meal_plans(patient_name, created_at);
    CREATE INDEX IF NOT EXISTS idx_plan_meals_plan_id ON plan_meals(plan_id);
    CREATE INDEX IF NOT EXISTS idx_plan_meal_foods_meal_id ON plan_meal_foods(plan_meal_id);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const foodColumns = `id, name, category, catalog, kcal, protein_g, fat_g, carbs_g, fiber_g, iron_mg, sodium_mg,
        vegan, vegetarian, contains_lactose, contains_milk, contains_gluten, contains_shellfish, contains_peanut`

// UpsertFoods inserts the records or replaces the ones whose id exists.
func (s *SQLiteStorage) UpsertFoods(ctx context.Context, foods []models.FoodRecord) error {
	for _, f := range foods {
		if err := validateFood(f); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
        INSERT INTO foods (` + foodColumns + `)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            name = excluded.name, category = excluded.category, catalog = excluded.catalog,
            kcal = excluded.kcal, protein_g = excluded.protein_g, fat_g = excluded.fat_g,
            carbs_g = excluded.carbs_g, fiber_g = excluded.fiber_g, iron_mg = excluded.iron_mg,
            sodium_mg = excluded.sodium_mg, vegan = excluded.vegan, vegetarian = excluded.vegetarian,
            contains_lactose = excluded.contains_lactose, contains_milk = excluded.contains_milk,
            contains_gluten = excluded.contains_gluten, contains_shellfish = excluded.contains_shellfish,
            contains_peanut = excluded.contains_peanut
    `
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare food upsert: %w", err)
	}
	defer stmt.Close()

	for _, f := range foods {
		var carbs sql.NullFloat64
		if f.Carbs != nil {
			carbs = sql.NullFloat64{Float64: *f.Carbs, Valid: true}
		}
		_, err = stmt.ExecContext(ctx,
			f.ID, f.Name, string(f.Category), f.Catalog,
			f.Calories, f.Protein, f.Fat, carbs, f.Fiber, f.Iron, f.Sodium,
			f.Vegan, f.Vegetarian, f.ContainsLactose, f.ContainsMilk,
			f.ContainsGluten, f.ContainsShellfish, f.ContainsPeanut)
		if err != nil {
			return fmt.Errorf("failed to upsert food %d: %w", f.ID, err)
		}
	}

	return tx.Commit()
}

func validateFood(f models.FoodRecord) error {
	switch {
	case f.ID <= 0:
		return fmt.Errorf("%w: id must be positive (%q)", ErrInvalidFood, f.Name)
	case f.Name == "":
		return fmt.Errorf("%w: food %d has no name", ErrInvalidFood, f.ID)
	case f.Category == "":
		return fmt.Errorf("%w: food %d has no category", ErrInvalidFood, f.ID)
	}
	switch f.Catalog {
	case models.CatalogBreakfast, models.CatalogMainMeal, models.CatalogSnack:
	default:
		return fmt.Errorf("%w: food %d has unknown catalog %q", ErrInvalidFood, f.ID, f.Catalog)
	}
	return nil
}

// LoadCatalog returns every food of the catalog in id order.
func (s *SQLiteStorage) LoadCatalog(ctx context.Context, name string) ([]models.FoodRecord, error) {
	return s.queryFoods(ctx, "SELECT "+foodColumns+" FROM foods WHERE catalog = ? ORDER BY id", name)
}

// ListFoods browses the catalogs. Empty filters match everything.
func (s *SQLiteStorage) ListFoods(ctx context.Context, catalog, category string, limit int) ([]models.FoodRecord, error) {
	query := "SELECT " + foodColumns + " FROM foods WHERE 1=1"
	args := []interface{}{}

	if catalog != "" {
		query += " AND catalog = ?"
		args = append(args, catalog)
	}
	if category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}

	query += " ORDER BY id LIMIT ?"
	args = append(args, limit)

	return s.queryFoods(ctx, query, args...)
}

func (s *SQLiteStorage) CountFoods(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM foods").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count foods: %w", err)
	}
	return n, nil
}

func (s *SQLiteStorage) queryFoods(ctx context.Context, query string, args ...interface{}) ([]models.FoodRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query foods: %w", err)
	}
	defer rows.Close()

	var foods []models.FoodRecord
	for rows.Next() {
		var f models.FoodRecord
		var category string
		var carbs sql.NullFloat64

		err := rows.Scan(
			&f.ID, &f.Name, &category, &f.Catalog,
			&f.Calories, &f.Protein, &f.Fat, &carbs, &f.Fiber, &f.Iron, &f.Sodium,
			&f.Vegan, &f.Vegetarian, &f.ContainsLactose, &f.ContainsMilk,
			&f.ContainsGluten, &f.ContainsShellfish, &f.ContainsPeanut)
		if err != nil {
			return nil, fmt.Errorf("failed to scan food: %w", err)
		}

		f.Category = models.Category(category)
		if carbs.Valid {
			v := carbs.Float64
			f.Carbs = &v
		}
		foods = append(foods, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read foods: %w", err)
	}

	return foods, nil
}

func (s *SQLiteStorage) UpsertSalads(ctx context.Context, salads []models.Salad) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	for _, salad := range salads {
		ingredients, err := json.Marshal(salad.Ingredients)
		if err != nil {
			return fmt.Errorf("failed to encode salad %s: %w", salad.Name, err)
		}
		_, err = tx.ExecContext(ctx, `
            INSERT INTO salads (name, ingredients) VALUES (?, ?)
            ON CONFLICT(name) DO UPDATE SET ingredients = excluded.ingredients
        `, salad.Name, string(ingredients))
		if err != nil {
			return fmt.Errorf("failed to upsert salad %s: %w", salad.Name, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStorage) ListSalads(ctx context.Context) ([]models.Salad, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, ingredients FROM salads ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query salads: %w", err)
	}
	defer rows.Close()

	var salads []models.Salad
	for rows.Next() {
		var salad models.Salad
		var ingredients string
		if err := rows.Scan(&salad.Name, &ingredients); err != nil {
			return nil, fmt.Errorf("failed to scan salad: %w", err)
		}
		if err := json.Unmarshal([]byte(ingredients), &salad.Ingredients); err != nil {
			return nil, fmt.Errorf("failed to decode salad %s: %w", salad.Name, err)
		}
		salads = append(salads, salad)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read salads: %w", err)
	}

	return salads, nil
}

func (s *SQLiteStorage) SaveMealPlan(ctx context.Context, plan *models.MealPlan) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	healthJSON, err := json.Marshal(plan.Health)
	if err != nil {
		return fmt.Errorf("failed to encode health summary: %w", err)
	}

	// Insert plan
	_, err = tx.ExecContext(ctx, `
        INSERT INTO meal_plans (id, patient_name, restriction, health, report, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `, plan.ID, plan.PatientName, string(plan.Restriction), string(healthJSON),
		plan.Report, plan.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to insert meal plan: %w", err)
	}

	// Insert meals and their foods
	for i, meal := range plan.Meals {
		target, err := json.Marshal(meal.Target)
		if err != nil {
			return fmt.Errorf("failed to encode target: %w", err)
		}
		totals, err := json.Marshal(meal.Totals)
		if err != nil {
			return fmt.Errorf("failed to encode totals: %w", err)
		}
		salads, err := json.Marshal(meal.Salads)
		if err != nil {
			return fmt.Errorf("failed to encode salads: %w", err)
		}

		res, err := tx.ExecContext(ctx, `
            INSERT INTO plan_meals (plan_id, position, meal_type, target, totals, fitness, over_ceiling, salads)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        `, plan.ID, i, string(meal.MealType), string(target), string(totals),
			meal.Fitness, meal.OverCeiling, string(salads))
		if err != nil {
			return fmt.Errorf("failed to insert meal %s: %w", meal.MealType, err)
		}
		mealID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read meal id: %w", err)
		}

		for _, food := range meal.Foods {
			snapshot, err := json.Marshal(food)
			if err != nil {
				return fmt.Errorf("failed to encode food %d: %w", food.ID, err)
			}
			_, err = tx.ExecContext(ctx,
				"INSERT INTO plan_meal_foods (plan_meal_id, food_id, food) VALUES (?, ?, ?)",
				mealID, food.ID, string(snapshot))
			if err != nil {
				return fmt.Errorf("failed to insert food: %w", err)
			}
		}
	}

	return tx.Commit()
}

// GetMealPlans returns the newest plans first. An empty patient name
// matches every patient.
func (s *SQLiteStorage) GetMealPlans(ctx context.Context, patientName string, limit int) ([]*models.MealPlan, error) {
	query := `
        SELECT id, patient_name, restriction, health, report, created_at
        FROM meal_plans
        WHERE 1=1
    `
	args := []interface{}{}

	if patientName != "" {
		query += " AND patient_name = ?"
		args = append(args, patientName)
	}

	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query meal plans: %w", err)
	}

	var plans []*models.MealPlan
	for rows.Next() {
		plan := &models.MealPlan{}
		var restriction, healthJSON, createdAtStr string

		err := rows.Scan(&plan.ID, &plan.PatientName, &restriction, &healthJSON, &plan.Report, &createdAtStr)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan meal plan: %w", err)
		}

		plan.Restriction = models.Restriction(restriction)
		if err := json.Unmarshal([]byte(healthJSON), &plan.Health); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to decode health summary: %w", err)
		}
		if plan.CreatedAt, err = time.Parse(timeLayout, createdAtStr); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to read meal plans: %w", err)
	}
	// The single pooled connection must be free before loading meals.
	rows.Close()

	for _, plan := range plans {
		if err := s.loadMealsForPlan(ctx, plan); err != nil {
			return nil, fmt.Errorf("failed to load meals for plan %s: %w", plan.ID, err)
		}
	}

	return plans, nil
}

func (s *SQLiteStorage) loadMealsForPlan(ctx context.Context, plan *models.MealPlan) error {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, meal_type, target, totals, fitness, over_ceiling, salads
        FROM plan_meals
        WHERE plan_id = ?
        ORDER BY position
    `, plan.ID)
	if err != nil {
		return fmt.Errorf("failed to query meals: %w", err)
	}

	var ids []int64
	var meals []models.PlannedMeal
	for rows.Next() {
		var meal models.PlannedMeal
		var id int64
		var mealType, target, totals, salads string

		err := rows.Scan(&id, &mealType, &target, &totals, &meal.Fitness, &meal.OverCeiling, &salads)
		if err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan meal: %w", err)
		}

		meal.MealType = models.MealType(mealType)
		if err := decodeJSON(target, &meal.Target); err != nil {
			rows.Close()
			return err
		}
		if err := decodeJSON(totals, &meal.Totals); err != nil {
			rows.Close()
			return err
		}
		if err := decodeJSON(salads, &meal.Salads); err != nil {
			rows.Close()
			return err
		}
		ids = append(ids, id)
		meals = append(meals, meal)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("failed to read meals: %w", err)
	}
	rows.Close()

	for i := range meals {
		foods, err := s.loadFoodsForMeal(ctx, ids[i])
		if err != nil {
			return err
		}
		meals[i].Foods = foods
	}

	plan.Meals = meals
	return nil
}

func (s *SQLiteStorage) loadFoodsForMeal(ctx context.Context, mealID int64) ([]models.FoodRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT food FROM plan_meal_foods WHERE plan_meal_id = ? ORDER BY id", mealID)
	if err != nil {
		return nil, fmt.Errorf("failed to query meal foods: %w", err)
	}
	defer rows.Close()

	var foods []models.FoodRecord
	for rows.Next() {
		var snapshot string
		if err := rows.Scan(&snapshot); err != nil {
			return nil, fmt.Errorf("failed to scan meal food: %w", err)
		}
		var food models.FoodRecord
		if err := decodeJSON(snapshot, &food); err != nil {
			return nil, err
		}
		foods = append(foods, food)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read meal foods: %w", err)
	}

	return foods, nil
}

func decodeJSON(data string, v interface{}) error {
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return fmt.Errorf("failed to decode %T: %w", v, err)
	}
	return nil
}
