// internal/server/tools.go
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"

	"mcp-meal-planner/internal/composer"
	"mcp-meal-planner/internal/mealplan"
	"mcp-meal-planner/internal/models"
)

const (
	defaultPlanLimit = 20
	defaultFoodLimit = 50
)

type ComposeMealParams struct {
	MealType    string                 `json:"meal_type" description:"Meal to compose: cafe_da_manha, lanche_manha, almoco, lanche_tarde, jantar or ceia"`
	Restriction string                 `json:"restriction,omitempty" description:"Dietary restriction tag"`
	Target      models.NutritionTarget `json:"target" description:"Per-meal nutrition target"`
	Health      models.HealthModifiers `json:"health,omitempty" description:"Lab classifications that bias scoring"`
	Population  int                    `json:"population,omitempty" description:"Population size (defaults to server config)"`
	Generations int                    `json:"generations,omitempty" description:"Generations to run (defaults to server config)"`
	Seed        int64                  `json:"seed,omitempty" description:"Random seed for a reproducible result"`
}

type GenerateMealPlanParams struct {
	Patient     models.Patient `json:"patient" description:"Patient biometrics, goal, restriction and lab values"`
	Population  int            `json:"population,omitempty" description:"Population size per meal"`
	Generations int            `json:"generations,omitempty" description:"Generations per meal"`
	Seed        int64          `json:"seed,omitempty" description:"Random seed for a reproducible plan"`
}

type GetMealPlansParams struct {
	PatientName string `json:"patient_name,omitempty" description:"Only plans for this patient"`
	Limit       int    `json:"limit,omitempty" description:"Maximum number of plans to return"`
}

type GetFoodsParams struct {
	Catalog  string `json:"catalog,omitempty" description:"cafe_da_manha, almoco_jantar or lanche_ceia"`
	Category string `json:"category,omitempty" description:"Food group tag"`
	Limit    int    `json:"limit,omitempty" description:"Maximum number of foods to return"`
}

// ComposedMeal is the compose_meal result.
type ComposedMeal struct {
	MealType    models.MealType        `json:"meal_type"`
	Blueprint   []string               `json:"blueprint"`
	Foods       []models.FoodRecord    `json:"foods"`
	Totals      models.NutritionTotals `json:"totals"`
	Fitness     *float64               `json:"fitness"` // nil above the calorie ceiling
	OverCeiling bool                   `json:"over_ceiling,omitempty"`
}

// extractParams safely extracts parameters from the request arguments
func extractParams(req *protocol.CallToolRequest, target interface{}) error {
	// Convert the Arguments map to JSON bytes, then unmarshal to target
	jsonBytes, err := json.Marshal(req.Arguments)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal arguments: %v", ErrInvalidParams, err)
	}

	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}

	return nil
}

// searchSize fills unset request values from the server config.
func (s *MealPlanServer) searchSize(population, generations int) (int, int) {
	if population <= 0 {
		population = s.config.Population
	}
	if generations <= 0 {
		generations = s.config.Generations
	}
	return population, generations
}

// seedFor prefers the request seed, then the configured one. Zero means
// the components seed from the clock.
func (s *MealPlanServer) seedFor(requested int64) int64 {
	if requested != 0 {
		return requested
	}
	return s.config.RandomSeed
}

// handleComposeMeal runs the search for a single meal against its catalog.
func (s *MealPlanServer) handleComposeMeal(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params ComposeMealParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	mealType := models.MealType(strings.TrimSpace(params.MealType))
	catalogName := mealType.Catalog()
	if catalogName == "" {
		return nil, fmt.Errorf("%w: unknown meal type %q", ErrInvalidParams, params.MealType)
	}

	foods, err := s.storage.LoadCatalog(ctx, catalogName)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	opts := []composer.Option{
		composer.WithWorkers(s.config.Workers),
		composer.WithLogger(s.log),
	}
	if seed := s.seedFor(params.Seed); seed != 0 {
		opts = append(opts, composer.WithSeed(seed))
	}

	c, err := composer.New(foods, mealType, models.Restriction(params.Restriction), params.Target, params.Health, opts...)
	if err != nil {
		return nil, err
	}
	population, generations := s.searchSize(params.Population, params.Generations)
	res, err := c.Compose(ctx, population, generations)
	if err != nil {
		return nil, fmt.Errorf("failed to compose meal: %w", err)
	}

	out := ComposedMeal{
		MealType: mealType,
		Foods:    res.Foods,
		Totals:   models.SumFoods(res.Foods),
	}
	for _, slot := range c.Blueprint() {
		out.Blueprint = append(out.Blueprint, slot.String())
	}
	if math.IsInf(res.Fitness, -1) {
		out.OverCeiling = true
	} else {
		fitness := res.Fitness
		out.Fitness = &fitness
	}

	return s.createJSONResponse(out)
}

// handleGenerateMealPlan builds, stores and returns a full day plan.
func (s *MealPlanServer) handleGenerateMealPlan(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params GenerateMealPlanParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	p := params.Patient
	if strings.TrimSpace(p.Name) == "" {
		return nil, fmt.Errorf("%w: patient name is required", ErrInvalidParams)
	}
	if p.Age <= 0 || p.WeightKg <= 0 {
		return nil, fmt.Errorf("%w: patient age and weight must be positive", ErrInvalidParams)
	}

	population, generations := s.searchSize(params.Population, params.Generations)
	opts := []mealplan.Option{
		mealplan.WithPopulation(population),
		mealplan.WithGenerations(generations),
		mealplan.WithWorkers(s.config.Workers),
		mealplan.WithLogger(s.log),
	}
	if seed := s.seedFor(params.Seed); seed != 0 {
		opts = append(opts, mealplan.WithSeed(seed))
	}

	plan, err := mealplan.NewGenerator(s.storage, opts...).Generate(ctx, p)
	if err != nil {
		return nil, err
	}

	// Save to storage
	if err := s.storage.SaveMealPlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to save meal plan: %w", err)
	}

	return s.createJSONResponse(plan)
}

// handleGetMealPlans retrieves stored plans, newest first
func (s *MealPlanServer) handleGetMealPlans(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params GetMealPlansParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	// Set defaults
	if params.Limit <= 0 {
		params.Limit = defaultPlanLimit
	}

	plans, err := s.storage.GetMealPlans(ctx, params.PatientName, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve meal plans: %w", err)
	}
	if plans == nil {
		plans = []*models.MealPlan{}
	}

	return s.createJSONResponse(plans)
}

// handleGetFoods browses the food catalogs
func (s *MealPlanServer) handleGetFoods(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params GetFoodsParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	if params.Limit <= 0 {
		params.Limit = defaultFoodLimit
	}

	foods, err := s.storage.ListFoods(ctx, params.Catalog, params.Category, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve foods: %w", err)
	}
	if foods == nil {
		foods = []models.FoodRecord{}
	}

	return s.createJSONResponse(foods)
}

func (s *MealPlanServer) registerTools() {
	s.tools = map[string]toolHandler{
		"compose_meal":       s.handleComposeMeal,
		"generate_meal_plan": s.handleGenerateMealPlan,
		"get_meal_plans":     s.handleGetMealPlans,
		"get_foods":          s.handleGetFoods,
	}

	names := make([]string, 0, len(s.tools))
	for name := range s.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	s.log.Info("registered tools", "tools", names)
}
