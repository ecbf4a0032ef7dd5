// internal/mealplan/report.go
package mealplan

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"mcp-meal-planner/internal/health"
	"mcp-meal-planner/internal/models"
)

var mealTitles = map[models.MealType]string{
	models.Breakfast:      "🥐 Café da Manhã",
	models.MorningSnack:   "🍎 Lanche da Manhã",
	models.Lunch:          "🍽️ Almoço",
	models.AfternoonSnack: "☕ Lanche da Tarde",
	models.Dinner:         "🍲 Jantar",
	models.Supper:         "🥛 Ceia",
}

// addOn is a fixed item appended to a meal table outside the search.
type addOn struct {
	name    string
	kcal    float64
	protein float64
	fat     float64
	carbs   float64
	fiber   float64
}

var (
	cheeseSlice = addOn{name: "Queijo (1 fatia ~30g)", kcal: 90, protein: 6, fat: 7, carbs: 1}
	wheyDose    = addOn{name: "Whey Protein (1 dose)", kcal: 120, protein: 24, fat: 1, carbs: 2}
	wheyIsolate = addOn{name: "Whey Isolado (1 dose e meia)", kcal: 180, protein: 36, fat: 1, carbs: 2}
)

// Render builds the markdown handout for a generated plan.
func Render(p models.Patient, plan *models.MealPlan) string {
	var b strings.Builder
	h := plan.Health

	restriction := string(p.Restriction.Normalize())
	if restriction == "" {
		restriction = "nenhuma"
	}
	goal := health.Normalize(p.Goal)
	if goal == "" {
		goal = "manter"
	}

	b.WriteString("# 🍽️ Cardápio Diário Personalizado\n\n")
	b.WriteString("## 👤 Dados do Paciente\n")
	fmt.Fprintf(&b, "**- Nome:** %s\n", p.Name)
	fmt.Fprintf(&b, "**- Sexo:** %s\n", p.Sex)
	fmt.Fprintf(&b, "**- Idade:** %d anos\n", p.Age)
	fmt.Fprintf(&b, "**- Peso:** %s kg\n", num(p.WeightKg))
	fmt.Fprintf(&b, "**- Altura:** %s cm\n", num(p.HeightCm))
	fmt.Fprintf(&b, "**- Objetivo:** %s peso\n", goal)
	fmt.Fprintf(&b, "**- Restrições alimentares:** %s\n", restriction)
	fmt.Fprintf(&b, "**- IMC:** %s (%s)\n", num(h.BMI), h.BMIClassification)
	fmt.Fprintf(&b, "**- TMB:** %s kcal\n", num(h.BMR))
	fmt.Fprintf(&b, "**- TDEE:** %.2f kcal (meta diária de calorias)\n", h.TDEE)
	fmt.Fprintf(&b, "**- Metas diárias:** %s g proteínas, %s g gorduras, %s g carboidratos, %s g fibras\n\n",
		num(h.Goals.Protein), num(h.Goals.Fat), num(h.Goals.Carbs), num(h.Goals.Fiber))

	b.WriteString("## 🥤 Hidratação\n")
	fmt.Fprintf(&b, "- Recomendação diária: **%s litros de água**\n", num(health.WaterLiters(p.WeightKg)))
	b.WriteString("- Café e chá sem açúcar à vontade no café da manhã e nos lanches, mas cuidado com a quantidade de cafeína ao longo do dia! ☕\n")
	b.WriteString("- ☕ UMA xícara de café (sem açúcar) pode ajudar na queima de gordura, mas evite exageros!\n\n")
	b.WriteString("---\n")

	for _, meal := range plan.Meals {
		renderMeal(&b, meal, p.Restriction.Normalize())
	}
	return b.String()
}

func renderMeal(b *strings.Builder, meal models.PlannedMeal, restriction models.Restriction) {
	title, ok := mealTitles[meal.MealType]
	if !ok {
		title = string(meal.MealType)
	}
	fmt.Fprintf(b, "\n## %s\n", title)
	b.WriteString("| Alimento | Calorias | Proteínas | Gorduras | Carboidratos | Fibras |\n")
	b.WriteString("|----------|----------|-----------|----------|---------------|--------|\n")

	var total addOn
	for _, f := range meal.Foods {
		row := addOn{
			name:    displayName(f.Name),
			kcal:    f.Calories,
			protein: f.Protein,
			fat:     f.Fat,
			carbs:   round1(f.EstimatedCarbs()),
			fiber:   f.Fiber,
		}
		writeRow(b, row)
		total.add(row)
	}

	switch meal.MealType {
	case models.MorningSnack, models.AfternoonSnack:
		if restriction != models.LactoseIntolerant && !hasCheese(meal.Foods) {
			writeRow(b, cheeseSlice)
			total.add(cheeseSlice)
		}
	case models.Supper:
		whey := wheyDose
		if restriction == models.LactoseIntolerant {
			whey = wheyIsolate
		}
		writeRow(b, whey)
		total.add(whey)
	}

	fmt.Fprintf(b, "\n**Total Nutricional:** %s kcal | %sg proteína | %sg gordura | %sg carboidrato | %sg fibras\n",
		num(round1(total.kcal)), num(round1(total.protein)), num(round1(total.fat)),
		num(round1(total.carbs)), num(round1(total.fiber)))

	if meal.OverCeiling {
		b.WriteString("\n> ⚠️ Nenhuma combinação ficou abaixo do limite calórico desta refeição.\n")
	}

	if len(meal.Salads) > 0 {
		b.WriteString("\n### 🥗 Sugestões de saladas (Podem ser ingeridas na quantidade desejada pelo paciente, aumentando ainda mais a ingestão de fibras):\n")
		for _, s := range meal.Salads {
			fmt.Fprintf(b, "- %s: %s\n", s.Name, strings.Join(s.Ingredients, ", "))
		}
	}
}

func (a *addOn) add(o addOn) {
	a.kcal += o.kcal
	a.protein += o.protein
	a.fat += o.fat
	a.carbs += o.carbs
	a.fiber += o.fiber
}

func writeRow(b *strings.Builder, r addOn) {
	fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s |\n",
		r.name, num(r.kcal), num(r.protein), num(r.fat), num(r.carbs), num(r.fiber))
}

// displayName adds the household portion for breads and eggs.
func displayName(name string) string {
	lower := strings.ToLower(name)
	if strings.Contains(lower, "pão") {
		name += " (2 fatias ~ 60-70g)"
	}
	if strings.Contains(lower, "ovo") {
		name += " (2 ovos médios)"
	}
	return name
}

func hasCheese(foods []models.FoodRecord) bool {
	for _, f := range foods {
		if strings.Contains(strings.ToLower(f.Name), "queijo") {
			return true
		}
	}
	return false
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
