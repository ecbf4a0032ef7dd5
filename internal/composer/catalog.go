// internal/composer/catalog.go
package composer

import (
	"fmt"
	"math/rand"

	"mcp-meal-planner/internal/models"
)

// HypertensionSodiumLimit is the highest sodium (mg) a food may carry for
// hypertensive patients.
const HypertensionSodiumLimit = 400.0

// FilterCatalog keeps the foods allowed by the restriction. Unknown tags
// return the catalog unchanged. An empty result is ErrEmptyCatalog.
func FilterCatalog(foods []models.FoodRecord, restriction models.Restriction) ([]models.FoodRecord, error) {
	keep := restrictionPredicate(restriction.Normalize())

	filtered := make([]models.FoodRecord, 0, len(foods))
	for _, f := range foods {
		if keep(f) {
			filtered = append(filtered, f)
		}
	}
	if len(filtered) == 0 {
		return nil, fmt.Errorf("%w (restriction %q)", ErrEmptyCatalog, restriction)
	}
	return filtered, nil
}

func restrictionPredicate(r models.Restriction) func(models.FoodRecord) bool {
	switch r {
	case models.LactoseIntolerant:
		return func(f models.FoodRecord) bool { return !f.ContainsLactose && !f.ContainsMilk }
	case models.GlutenFree:
		return func(f models.FoodRecord) bool { return !f.ContainsGluten }
	case models.ShellfishAllergy:
		return func(f models.FoodRecord) bool { return !f.ContainsShellfish }
	case models.PeanutAllergy:
		return func(f models.FoodRecord) bool { return !f.ContainsPeanut }
	case models.Vegan:
		return func(f models.FoodRecord) bool { return f.Vegan }
	case models.Vegetarian:
		return func(f models.FoodRecord) bool { return f.Vegetarian }
	case models.Hypertension:
		return func(f models.FoodRecord) bool { return f.Sodium <= HypertensionSodiumLimit }
	}
	return func(models.FoodRecord) bool { return true }
}

// catalog is the read-only view the search works against. It is safe to
// share between goroutines.
type catalog struct {
	foods      []models.FoodRecord
	ids        map[int64]struct{}
	byCategory map[models.Category][]int64
	// hasCarbs is true when any row carries a carbohydrate value; rows
	// without one then count as zero instead of being estimated.
	hasCarbs bool
}

func newCatalog(foods []models.FoodRecord) *catalog {
	c := &catalog{
		foods:      foods,
		ids:        make(map[int64]struct{}, len(foods)),
		byCategory: make(map[models.Category][]int64),
	}
	for _, f := range foods {
		c.ids[f.ID] = struct{}{}
		c.byCategory[f.Category] = append(c.byCategory[f.Category], f.ID)
		if f.Carbs != nil {
			c.hasCarbs = true
		}
	}
	return c
}

func (c *catalog) contains(id int64) bool {
	_, ok := c.ids[id]
	return ok
}

// pick draws a uniformly random food of the category, skipping ids in
// exclude. It reports false when nothing is left.
func (c *catalog) pick(rng *rand.Rand, category models.Category, exclude map[int64]struct{}) (int64, bool) {
	candidates := c.byCategory[category]
	if len(exclude) > 0 {
		free := make([]int64, 0, len(candidates))
		for _, id := range candidates {
			if _, used := exclude[id]; !used {
				free = append(free, id)
			}
		}
		candidates = free
	}
	if len(candidates) == 0 {
		return 0, false
	}
	return candidates[rng.Intn(len(candidates))], true
}

// rows returns the catalog rows whose id is in ind, in catalog order.
func (c *catalog) rows(ind Individual) []models.FoodRecord {
	members := ind.set()
	out := make([]models.FoodRecord, 0, len(members))
	for _, f := range c.foods {
		if _, ok := members[f.ID]; ok {
			out = append(out, f)
		}
	}
	return out
}
