// internal/models/food.go
package models

import "strings"

// Category is a food-group tag from the catalog.
type Category string

const (
	CategoryFruit      Category = "frutas_e_derivados"
	CategoryGrains     Category = "cereais_e_derivados"
	CategoryEggs       Category = "ovos_e_derivados"
	CategoryDairy      Category = "leite_e_derivados"
	CategoryMeat       Category = "carnes_e_derivados"
	CategorySeafood    Category = "pescados_e_frutos_do_mar"
	CategoryLegumes    Category = "leguminosas_e_derivados"
	CategoryVegetables Category = "verduras_hortalicas_e_derivados"
)

type MealType string

const (
	Breakfast      MealType = "cafe_da_manha"
	MorningSnack   MealType = "lanche_manha"
	Lunch          MealType = "almoco"
	AfternoonSnack MealType = "lanche_tarde"
	Dinner         MealType = "jantar"
	Supper         MealType = "ceia"
)

// Catalog names used by the food table.
const (
	CatalogBreakfast = "cafe_da_manha"
	CatalogMainMeal  = "almoco_jantar"
	CatalogSnack     = "lanche_ceia"
)

// DailyMeals is the order meals appear in a generated plan.
var DailyMeals = []MealType{Breakfast, MorningSnack, Lunch, AfternoonSnack, Dinner, Supper}

// Catalog returns the name of the food catalog a meal draws from.
// Unknown meal types return "".
func (m MealType) Catalog() string {
	switch m {
	case Breakfast, AfternoonSnack:
		return CatalogBreakfast
	case Lunch, Dinner:
		return CatalogMainMeal
	case MorningSnack, Supper:
		return CatalogSnack
	}
	return ""
}

// Restriction is a dietary constraint tag.
type Restriction string

const (
	NoRestriction     Restriction = ""
	LactoseIntolerant Restriction = "lactointolerante"
	GlutenFree        Restriction = "gluten"
	ShellfishAllergy  Restriction = "frutos_do_mar"
	PeanutAllergy     Restriction = "alergia_amendoim"
	Vegan             Restriction = "vegano"
	Vegetarian        Restriction = "vegetariano"
	Hypertension      Restriction = "hipertensao"
)

// Normalize lowercases and trims the tag; "nenhuma" maps to NoRestriction.
func (r Restriction) Normalize() Restriction {
	n := Restriction(strings.ToLower(strings.TrimSpace(string(r))))
	if n == "nenhuma" {
		return NoRestriction
	}
	return n
}

type FoodRecord struct {
	ID       int64    `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Category Category `json:"category" yaml:"category"`
	Catalog  string   `json:"catalog,omitempty" yaml:"catalog"`

	Calories float64  `json:"kcal" yaml:"kcal"`
	Protein  float64  `json:"protein_g" yaml:"protein_g"`
	Fat      float64  `json:"fat_g" yaml:"fat_g"`
	Carbs    *float64 `json:"carbs_g,omitempty" yaml:"carbs_g"` // nil when the source has no value
	Fiber    float64  `json:"fiber_g" yaml:"fiber_g"`
	Iron     float64  `json:"iron_mg" yaml:"iron_mg"`
	Sodium   float64  `json:"sodium_mg" yaml:"sodium_mg"`

	Vegan             bool `json:"vegan" yaml:"vegan"`
	Vegetarian        bool `json:"vegetarian" yaml:"vegetarian"`
	ContainsLactose   bool `json:"contains_lactose" yaml:"contains_lactose"`
	ContainsMilk      bool `json:"contains_milk" yaml:"contains_milk"`
	ContainsGluten    bool `json:"contains_gluten" yaml:"contains_gluten"`
	ContainsShellfish bool `json:"contains_shellfish" yaml:"contains_shellfish"`
	ContainsPeanut    bool `json:"contains_peanut" yaml:"contains_peanut"`
}

// EstimatedCarbs returns the carbohydrate grams, derived from the energy
// left after protein and fat when the record has none.
func (f FoodRecord) EstimatedCarbs() float64 {
	if f.Carbs != nil {
		return *f.Carbs
	}
	return EstimateCarbs(f.Calories, f.Protein, f.Fat)
}

// EstimateCarbs converts leftover kcal into carbohydrate grams, floored at 0.
func EstimateCarbs(kcal, protein, fat float64) float64 {
	carbs := (kcal - (protein*4 + fat*9)) / 4
	if carbs < 0 {
		return 0
	}
	return carbs
}
