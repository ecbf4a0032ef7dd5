// internal/models/health.go
package models

type TriglycerideLevel string

const (
	TriglycerideNormal   TriglycerideLevel = "normal"
	TriglycerideModerate TriglycerideLevel = "moderado"
	TriglycerideHigh     TriglycerideLevel = "alto"
)

type LDLLevel string

const (
	LDLNormal   LDLLevel = "normal"
	LDLModerate LDLLevel = "moderado"
	LDLCritical LDLLevel = "critico"
)

type HDLLevel string

const (
	HDLPoor     HDLLevel = "ruim"
	HDLModerate HDLLevel = "moderado"
	HDLGood     HDLLevel = "bom"
)

type IronStatus string

const (
	IronNormal IronStatus = "normal"
	IronLow    IronStatus = "baixa"
)

type GlycemiaLevel string

const (
	GlycemiaNormal      GlycemiaLevel = "normal"
	GlycemiaPreDiabetes GlycemiaLevel = "pre_diabetes"
	GlycemiaDiabetes    GlycemiaLevel = "diabetes"
)

// NutritionTarget is the per-meal goal. Zero fields are treated as absent.
type NutritionTarget struct {
	Calories float64 `json:"kcal"`
	Protein  float64 `json:"protein_g"`
	Carbs    float64 `json:"carbs_g"`
	Fat      float64 `json:"fat_g"`
	Fiber    float64 `json:"fiber_g"`
}

// HealthModifiers are the lab classifications that bias meal scoring.
type HealthModifiers struct {
	Triglycerides TriglycerideLevel `json:"triglycerides,omitempty"`
	LDL           LDLLevel          `json:"ldl,omitempty"`
	Iron          IronStatus        `json:"iron,omitempty"`
}

// LabResults is the full classification of a patient's exams.
type LabResults struct {
	Glycemia      GlycemiaLevel     `json:"glycemia"`
	Triglycerides TriglycerideLevel `json:"triglycerides"`
	LDL           LDLLevel          `json:"ldl"`
	HDL           HDLLevel          `json:"hdl"`
	Iron          IronStatus        `json:"iron"`
}

func (l LabResults) Modifiers() HealthModifiers {
	return HealthModifiers{Triglycerides: l.Triglycerides, LDL: l.LDL, Iron: l.Iron}
}

// Patient holds biometrics and optional lab values. Nil labs classify as normal.
type Patient struct {
	Name          string      `json:"name"`
	Sex           string      `json:"sex"`
	Age           int         `json:"age"`
	WeightKg      float64     `json:"weight_kg"`
	HeightCm      float64     `json:"height_cm"`
	ActivityLevel string      `json:"activity_level"`
	Goal          string      `json:"goal"`
	Restriction   Restriction `json:"restriction,omitempty"`

	Glycemia      *float64 `json:"glycemia,omitempty"`
	Triglycerides *float64 `json:"tg,omitempty"`
	HDL           *float64 `json:"hdl,omitempty"`
	LDL           *float64 `json:"ldl,omitempty"`
	Ferritin      *float64 `json:"ferritin,omitempty"`
	Hemoglobin    *float64 `json:"hemoglobin,omitempty"`
}
