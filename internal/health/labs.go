// internal/health/labs.go
package health

import "mcp-meal-planner/internal/models"

func ClassifyGlycemia(mgdl float64) models.GlycemiaLevel {
	switch {
	case mgdl < 100:
		return models.GlycemiaNormal
	case mgdl <= 125:
		return models.GlycemiaPreDiabetes
	default:
		return models.GlycemiaDiabetes
	}
}

func ClassifyTriglycerides(mgdl float64) models.TriglycerideLevel {
	switch {
	case mgdl >= 200:
		return models.TriglycerideHigh
	case mgdl >= 150:
		return models.TriglycerideModerate
	default:
		return models.TriglycerideNormal
	}
}

func ClassifyLDL(mgdl float64) models.LDLLevel {
	switch {
	case mgdl < 100:
		return models.LDLNormal
	case mgdl < 160:
		return models.LDLModerate
	default:
		return models.LDLCritical
	}
}

func ClassifyHDL(mgdl float64) models.HDLLevel {
	switch {
	case mgdl < 40:
		return models.HDLPoor
	case mgdl <= 60:
		return models.HDLModerate
	default:
		return models.HDLGood
	}
}

// ClassifyIron flags low iron when either ferritin or hemoglobin is low.
func ClassifyIron(ferritin, hemoglobin float64) models.IronStatus {
	if ferritin < 30 || hemoglobin < 12 {
		return models.IronLow
	}
	return models.IronNormal
}

// EvaluateLabs classifies every exam of the patient. Missing values are
// considered normal.
func EvaluateLabs(p models.Patient) models.LabResults {
	res := models.LabResults{
		Glycemia:      models.GlycemiaNormal,
		Triglycerides: models.TriglycerideNormal,
		LDL:           models.LDLNormal,
		HDL:           models.HDLModerate,
		Iron:          models.IronNormal,
	}
	if p.Glycemia != nil {
		res.Glycemia = ClassifyGlycemia(*p.Glycemia)
	}
	if p.Triglycerides != nil {
		res.Triglycerides = ClassifyTriglycerides(*p.Triglycerides)
	}
	if p.LDL != nil {
		res.LDL = ClassifyLDL(*p.LDL)
	}
	if p.HDL != nil {
		res.HDL = ClassifyHDL(*p.HDL)
	}
	if p.Ferritin != nil || p.Hemoglobin != nil {
		ferritin, hemoglobin := 30.0, 12.0
		if p.Ferritin != nil {
			ferritin = *p.Ferritin
		}
		if p.Hemoglobin != nil {
			hemoglobin = *p.Hemoglobin
		}
		res.Iron = ClassifyIron(ferritin, hemoglobin)
	}
	return res
}
