package validator

import (
	"fmt"
	"regexp"
)

var (
	uppercaseRegex = regexp.MustCompile(`[A-Z]`)
	digitRegex     = regexp.MustCompile(`[0-9]`)
)

// Matches validates value against a precompiled pattern.
// The description is used in the failure message, e.g. "an email address".
func Matches(field, value string, pattern *regexp.Regexp, description string) Rule {
	return Rule{
		Check: func() bool {
			return pattern.MatchString(value)
		},
		Error: ValidationError{
			Field:   field,
			Code:    CodeFormat,
			Message: fmt.Sprintf("must be %s", description),
			Params:  map[string]any{"pattern": pattern.String()},
		},
	}
}

// ContainsUppercase validates that value has at least one ASCII uppercase letter.
func ContainsUppercase(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return uppercaseRegex.MatchString(value)
		},
		Error: ValidationError{
			Field:   field,
			Code:    CodeUppercase,
			Message: "must contain at least one uppercase letter",
		},
	}
}

// ContainsDigit validates that value has at least one ASCII digit.
func ContainsDigit(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return digitRegex.MatchString(value)
		},
		Error: ValidationError{
			Field:   field,
			Code:    CodeDigit,
			Message: "must contain at least one digit",
		},
	}
}

// All combines rules into one that passes only when every rule passes.
// The combined rule reports the error of the first rule.
func All(rules ...Rule) Rule {
	if len(rules) == 0 {
		return Rule{Check: func() bool { return true }}
	}
	return Rule{
		Check: func() bool {
			for _, r := range rules {
				if !r.Check() {
					return false
				}
			}
			return true
		},
		Error: rules[0].Error,
	}
}
