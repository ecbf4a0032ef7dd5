// internal/composer/fitness.go
package composer

import (
	"math"

	"mcp-meal-planner/internal/models"
)

// Scoring weights.
const (
	weightCalories = 2.0
	weightProtein  = 5.0
	weightCarbs    = 2.0
	weightFat      = 2.0
	weightFiber    = 5.0

	proteinShortfallWeight = 8.0
	fiberShortfallWeight   = 6.0

	triglycerideFatWeight = 0.4
	ldlFatWeight          = 0.5
	ironRewardWeight      = 1.0
	sodiumDivisor         = 100.0

	// CalorieCeiling is the hard limit as a multiple of the calorie target.
	CalorieCeiling = 1.15
	varietyBonus   = 5.0
)

// Fitness scores an Individual; higher is better. Compositions above the
// calorie ceiling score negative infinity. Duplicate ids count once.
func (c *Composer) Fitness(ind Individual) float64 {
	members := ind.set()

	var kcal, protein, fat, carbs, fiber, iron, sodium float64
	categories := make(map[models.Category]struct{})
	for _, f := range c.catalog.foods {
		if _, ok := members[f.ID]; !ok {
			continue
		}
		kcal += f.Calories
		protein += f.Protein
		fat += f.Fat
		fiber += f.Fiber
		iron += f.Iron
		sodium += f.Sodium
		if f.Carbs != nil {
			carbs += *f.Carbs
		}
		categories[f.Category] = struct{}{}
	}
	if !c.catalog.hasCarbs {
		carbs = models.EstimateCarbs(kcal, protein, fat)
	}

	t := c.target
	penalty := weightCalories*math.Abs(t.Calories-kcal) +
		weightProtein*math.Abs(t.Protein-protein) +
		weightCarbs*math.Abs(t.Carbs-carbs) +
		weightFat*math.Abs(t.Fat-fat) +
		weightFiber*math.Abs(t.Fiber-fiber)

	if protein < t.Protein {
		penalty += proteinShortfallWeight * (t.Protein - protein)
	}
	if fiber < t.Fiber {
		penalty += fiberShortfallWeight * (t.Fiber - fiber)
	}

	switch c.health.Triglycerides {
	case models.TriglycerideModerate, models.TriglycerideHigh:
		penalty += triglycerideFatWeight * fat
	}
	switch c.health.LDL {
	case models.LDLModerate, models.LDLCritical:
		penalty += ldlFatWeight * fat
	}
	if c.health.Iron == models.IronLow {
		penalty -= ironRewardWeight * iron
	}

	penalty += sodium / sodiumDivisor

	if kcal > t.Calories*CalorieCeiling {
		return math.Inf(-1)
	}

	return -penalty + varietyBonus*float64(len(categories))
}
