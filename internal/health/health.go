// internal/health/health.go
package health

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	ErrInvalidHeight        = errors.New("height must be positive")
	ErrUnknownActivityLevel = errors.New("unknown activity level")
)

// Goal tags.
const (
	GoalLose = "perder"
	GoalGain = "ganhar"
)

// activityFactors maps activity levels to their TDEE multiplier.
var activityFactors = map[string]float64{
	"sedentario": 1.2,
	"leve":       1.375,
	"moderado":   1.55,
	"intenso":    1.725,
}

// Normalize strips accents, lowercases and trims.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(strings.ToLower(b.String()))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// BMI returns the body mass index rounded to two places and its class.
func BMI(weightKg, heightCm float64) (float64, string, error) {
	if heightCm <= 0 {
		return 0, "", ErrInvalidHeight
	}
	m := heightCm / 100
	bmi := weightKg / (m * m)

	var class string
	switch {
	case bmi < 18.5:
		class = "abaixo do peso"
	case bmi < 25:
		class = "peso normal"
	case bmi < 30:
		class = "sobrepeso"
	case bmi < 35:
		class = "obesidade grau 1"
	case bmi < 40:
		class = "obesidade grau 2"
	default:
		class = "obesidade grau 3"
	}
	return round(bmi, 2), class, nil
}

// EnergyExpenditure computes BMR (Mifflin-St Jeor) and TDEE adjusted for
// the goal: a 15% deficit to lose weight, a 10% surplus to gain.
func EnergyExpenditure(sex string, age int, weightKg, heightCm float64, activity, goal string) (bmr, tdee float64, err error) {
	factor, ok := activityFactors[Normalize(activity)]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownActivityLevel, activity)
	}

	bmr = 10*weightKg + 6.25*heightCm - 5*float64(age)
	if Normalize(sex) == "masculino" {
		bmr += 5
	} else {
		bmr -= 161
	}
	tdee = bmr * factor

	switch Normalize(goal) {
	case GoalLose:
		tdee *= 0.85
	case GoalGain:
		tdee *= 1.10
	}
	return round(bmr, 2), round(tdee, 2), nil
}
