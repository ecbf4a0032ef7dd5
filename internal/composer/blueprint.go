// internal/composer/blueprint.go
package composer

import (
	"fmt"
	"math/rand"
	"strings"

	"mcp-meal-planner/internal/models"
)

// Slot is one category choice point of a meal: either a fixed category or
// a set of alternatives resolved at random every time it is used.
type Slot struct {
	options []models.Category
}

func Fixed(category models.Category) Slot {
	return Slot{options: []models.Category{category}}
}

func OneOf(categories ...models.Category) Slot {
	return Slot{options: append([]models.Category(nil), categories...)}
}

func (s Slot) IsFixed() bool { return len(s.options) == 1 }

func (s Slot) Categories() []models.Category {
	return append([]models.Category(nil), s.options...)
}

// Resolve returns the concrete category for this use of the slot.
func (s Slot) Resolve(rng *rand.Rand) models.Category {
	switch len(s.options) {
	case 0:
		return ""
	case 1:
		return s.options[0]
	}
	return s.options[rng.Intn(len(s.options))]
}

func (s Slot) String() string {
	if s.IsFixed() {
		return string(s.options[0])
	}
	parts := make([]string, len(s.options))
	for i, c := range s.options {
		parts[i] = string(c)
	}
	return "[" + strings.Join(parts, "|") + "]"
}

// Blueprint is the ordered slot list for one meal.
type Blueprint []Slot

var baseBlueprints = map[models.MealType]Blueprint{
	models.Breakfast: {
		Fixed(models.CategoryFruit), Fixed(models.CategoryGrains), Fixed(models.CategoryEggs),
	},
	models.MorningSnack: {
		Fixed(models.CategoryFruit), Fixed(models.CategoryDairy),
	},
	models.Supper: {
		Fixed(models.CategoryFruit), Fixed(models.CategoryDairy),
	},
	models.Lunch: {
		OneOf(models.CategoryMeat, models.CategorySeafood),
		Fixed(models.CategoryLegumes),
		OneOf(models.CategoryGrains, models.CategoryVegetables),
	},
	models.Dinner: {
		OneOf(models.CategoryMeat, models.CategorySeafood),
		Fixed(models.CategoryLegumes),
		OneOf(models.CategoryGrains, models.CategoryVegetables),
	},
	models.AfternoonSnack: {
		Fixed(models.CategoryFruit), OneOf(models.CategoryDairy, models.CategoryEggs),
	},
}

// ResolveBlueprint returns the slots for a meal after restriction rewrites.
func ResolveBlueprint(mealType models.MealType, restriction models.Restriction) (Blueprint, error) {
	base, ok := baseBlueprints[mealType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMealType, mealType)
	}
	bp := append(Blueprint(nil), base...)

	switch restriction.Normalize() {
	case models.LactoseIntolerant:
		for i, s := range bp {
			if s.IsFixed() && s.options[0] == models.CategoryDairy {
				bp = append(bp[:i], bp[i+1:]...)
				bp = append(bp, Fixed(models.CategoryFruit), Fixed(models.CategoryEggs))
				break
			}
		}
	case models.GlutenFree:
		if mealType == models.Breakfast {
			for i, s := range bp {
				if s.IsFixed() && s.options[0] == models.CategoryGrains {
					bp[i] = Fixed(models.CategoryDairy)
				}
			}
		}
	}
	return bp, nil
}
