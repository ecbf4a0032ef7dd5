// internal/mealplan/generator.go
package mealplan

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"mcp-meal-planner/internal/composer"
	"mcp-meal-planner/internal/health"
	"mcp-meal-planner/internal/logger"
	"mcp-meal-planner/internal/models"
)

// saladSuggestions is how many salads lunch and dinner list.
const saladSuggestions = 3

// Source provides the foods of a catalog and the salad suggestions.
type Source interface {
	LoadCatalog(ctx context.Context, name string) ([]models.FoodRecord, error)
	ListSalads(ctx context.Context) ([]models.Salad, error)
}

type Generator struct {
	source      Source
	population  int
	generations int
	workers     int
	rng         *rand.Rand
	log         *logger.Logger
}

type Option func(*Generator)

func WithPopulation(n int) Option { return func(g *Generator) { g.population = n } }
func WithGenerations(n int) Option { return func(g *Generator) { g.generations = n } }
func WithWorkers(n int) Option { return func(g *Generator) { g.workers = n } }

// WithSeed makes every plan of the generator reproducible: each meal's
// composer is seeded from this source in meal order.
func WithSeed(seed int64) Option {
	return func(g *Generator) { g.rng = rand.New(rand.NewSource(seed)) }
}

func WithLogger(l *logger.Logger) Option { return func(g *Generator) { g.log = l } }

func NewGenerator(source Source, opts ...Option) *Generator {
	g := &Generator{
		source:      source,
		population:  composer.DefaultPopulationSize,
		generations: composer.DefaultGenerations,
		workers:     1,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if g.log == nil {
		g.log = logger.Nop()
	}
	return g
}

// Generate assesses the patient and composes all six meals of the day.
// A Generator serializes its random draws, so concurrent calls must not
// share one.
func (g *Generator) Generate(ctx context.Context, p models.Patient) (*models.MealPlan, error) {
	p.Restriction = p.Restriction.Normalize()

	summary, split, err := health.Assess(p)
	if err != nil {
		return nil, fmt.Errorf("failed to assess patient: %w", err)
	}
	mods := summary.Labs.Modifiers()

	salads, err := g.source.ListSalads(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load salads: %w", err)
	}

	catalogs := make(map[string][]models.FoodRecord)
	plan := &models.MealPlan{
		ID:          uuid.NewString(),
		PatientName: p.Name,
		Restriction: p.Restriction,
		Health:      summary,
		Meals:       make([]models.PlannedMeal, 0, len(split)),
		CreatedAt:   time.Now().UTC(),
	}

	for _, mt := range split {
		name := mt.MealType.Catalog()
		foods, ok := catalogs[name]
		if !ok {
			foods, err = g.source.LoadCatalog(ctx, name)
			if err != nil {
				return nil, fmt.Errorf("failed to load catalog %s: %w", name, err)
			}
			catalogs[name] = foods
		}

		meal, err := g.composeMeal(ctx, foods, mt, p.Restriction, mods)
		if err != nil {
			return nil, err
		}
		if mt.MealType == models.Lunch || mt.MealType == models.Dinner {
			meal.Salads = pickSalads(g.rng, salads, saladSuggestions)
		}
		plan.Meals = append(plan.Meals, meal)
	}

	plan.Report = Render(p, plan)
	g.log.Info("meal plan generated",
		"plan_id", plan.ID,
		"restriction", string(p.Restriction),
		"meals", len(plan.Meals),
	)
	return plan, nil
}

func (g *Generator) composeMeal(ctx context.Context, foods []models.FoodRecord, mt models.MealTarget,
	restriction models.Restriction, mods models.HealthModifiers) (models.PlannedMeal, error) {
	c, err := composer.New(foods, mt.MealType, restriction, mt.Target, mods,
		composer.WithSeed(g.rng.Int63()),
		composer.WithWorkers(g.workers),
		composer.WithLogger(g.log),
	)
	if err != nil {
		return models.PlannedMeal{}, fmt.Errorf("failed to set up %s: %w", mt.MealType, err)
	}
	res, err := c.Compose(ctx, g.population, g.generations)
	if err != nil {
		return models.PlannedMeal{}, fmt.Errorf("failed to compose %s: %w", mt.MealType, err)
	}

	meal := models.PlannedMeal{
		MealType: mt.MealType,
		Target:   mt.Target,
		Foods:    res.Foods,
		Totals:   models.SumFoods(res.Foods),
		Fitness:  res.Fitness,
	}
	if math.IsInf(res.Fitness, -1) {
		meal.Fitness = 0
		meal.OverCeiling = true
		g.log.Warn("meal above calorie ceiling",
			"meal_type", mt.MealType,
			"kcal", meal.Totals.Calories,
			"target_kcal", mt.Target.Calories,
		)
	}
	return meal, nil
}

func pickSalads(rng *rand.Rand, salads []models.Salad, n int) []models.Salad {
	if n > len(salads) {
		n = len(salads)
	}
	out := make([]models.Salad, 0, n)
	for _, i := range rng.Perm(len(salads))[:n] {
		out = append(out, salads[i])
	}
	return out
}

