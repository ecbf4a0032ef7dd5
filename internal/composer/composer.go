// internal/composer/composer.go
package composer

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"mcp-meal-planner/internal/logger"
	"mcp-meal-planner/internal/models"
)

const (
	DefaultPopulationSize = 50
	DefaultGenerations    = 100
)

// Composer searches for the food combination that best fits one meal.
// A Composer is not safe for concurrent Run calls; the catalog it holds is.
type Composer struct {
	mealType     models.MealType
	catalog      *catalog
	blueprint    Blueprint
	target       models.NutritionTarget
	health       models.HealthModifiers
	rng          *rand.Rand
	mutationRate float64
	workers      int
	log          *logger.Logger
}

type Option func(*Composer)

// WithRand sets the random source. Every draw of a run comes from it.
func WithRand(rng *rand.Rand) Option { return func(c *Composer) { c.rng = rng } }

func WithSeed(seed int64) Option {
	return func(c *Composer) { c.rng = rand.New(rand.NewSource(seed)) }
}

func WithMutationRate(p float64) Option { return func(c *Composer) { c.mutationRate = p } }

// WithWorkers bounds parallel fitness evaluation. 1 or less is sequential.
func WithWorkers(n int) Option { return func(c *Composer) { c.workers = n } }

func WithLogger(l *logger.Logger) Option { return func(c *Composer) { c.log = l } }

// New filters foods by restriction and resolves the meal blueprint.
func New(foods []models.FoodRecord, mealType models.MealType, restriction models.Restriction,
	target models.NutritionTarget, health models.HealthModifiers, opts ...Option) (*Composer, error) {
	blueprint, err := ResolveBlueprint(mealType, restriction)
	if err != nil {
		return nil, err
	}
	filtered, err := FilterCatalog(foods, restriction)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare catalog for %s: %w", mealType, err)
	}

	c := &Composer{
		mealType:     mealType,
		catalog:      newCatalog(filtered),
		blueprint:    blueprint,
		target:       target,
		health:       health,
		mutationRate: DefaultMutationRate,
		workers:      1,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.log == nil {
		c.log = logger.Nop()
	}
	return c, nil
}

func (c *Composer) Blueprint() Blueprint { return c.blueprint }

// Catalog returns the restriction-filtered foods.
func (c *Composer) Catalog() []models.FoodRecord { return c.catalog.foods }

// Result is the outcome of a search.
type Result struct {
	Individual Individual
	Fitness    float64
	Foods      []models.FoodRecord
}

// Run searches and returns the winning foods in catalog order.
func (c *Composer) Run(ctx context.Context, populationSize, generations int) ([]models.FoodRecord, error) {
	res, err := c.Compose(ctx, populationSize, generations)
	if err != nil {
		return nil, err
	}
	return res.Foods, nil
}

// Compose runs the generational search: tournament selection, crossover
// and mutation, with the whole population replaced every generation.
func (c *Composer) Compose(ctx context.Context, populationSize, generations int) (Result, error) {
	if populationSize < 2 || generations < 0 {
		return Result{}, fmt.Errorf("%w: population %d, generations %d", ErrInvalidParameters, populationSize, generations)
	}
	start := time.Now()

	population := make([]Individual, populationSize)
	for i := range population {
		population[i] = c.newIndividual()
	}

	for gen := 0; gen < generations; gen++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		scores, err := c.evaluate(ctx, population)
		if err != nil {
			return Result{}, err
		}
		next := make([]Individual, 0, populationSize)
		for len(next) < populationSize {
			p1 := c.selectParent(population, scores)
			p2 := c.selectParent(population, scores)
			child := c.crossover(p1, p2)
			c.mutate(child)
			next = append(next, child)
		}
		population = next
	}

	scores, err := c.evaluate(ctx, population)
	if err != nil {
		return Result{}, err
	}
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}

	res := Result{
		Individual: population[best].Clone(),
		Fitness:    scores[best],
		Foods:      c.catalog.rows(population[best]),
	}
	c.log.Debug("meal composed",
		"meal_type", c.mealType,
		"population", populationSize,
		"generations", generations,
		"fitness", res.Fitness,
		"foods", len(res.Foods),
		"elapsed", time.Since(start).String(),
	)
	return res, nil
}

// evaluate scores the population, in parallel when workers > 1. Fitness
// only reads the catalog, so no draws happen here.
func (c *Composer) evaluate(ctx context.Context, population []Individual) ([]float64, error) {
	scores := make([]float64, len(population))
	if c.workers <= 1 {
		for i, ind := range population {
			scores[i] = c.Fitness(ind)
		}
		return scores, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i := range population {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scores[i] = c.Fitness(population[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to evaluate population: %w", err)
	}
	return scores, nil
}
