package form

import (
	"regexp"

	"github.com/dmitrymomot/regform/pkg/validator"
)

// StrengthLabel names a strength band.
type StrengthLabel string

const (
	StrengthWeak   StrengthLabel = "Weak"
	StrengthMedium StrengthLabel = "Medium"
	StrengthStrong StrengthLabel = "Strong"
)

// MaxStrengthScore is the highest possible score.
const MaxStrengthScore = 4

// Strength is a password score in [0, MaxStrengthScore] and its label.
// It never affects validity.
type Strength struct {
	Score int           `json:"score"`
	Label StrengthLabel `json:"label"`
}

var specialCharRegex = regexp.MustCompile(`[^A-Za-z0-9]`)

// EvaluateStrength scores password one point each for: at least 8
// characters, an uppercase letter, a digit and a character other than an
// ASCII letter or digit.
func EvaluateStrength(password string) Strength {
	const field = "password"
	checks := []validator.Rule{
		validator.MinLen(field, password, minPasswordLen),
		validator.ContainsUppercase(field, password),
		validator.ContainsDigit(field, password),
		validator.Matches(field, password, specialCharRegex, "a special character"),
	}

	score := 0
	for _, c := range checks {
		if c.Check() {
			score++
		}
	}
	return Strength{Score: score, Label: strengthLabel(score)}
}

func strengthLabel(score int) StrengthLabel {
	switch {
	case score >= MaxStrengthScore:
		return StrengthStrong
	case score >= 2:
		return StrengthMedium
	default:
		return StrengthWeak
	}
}
