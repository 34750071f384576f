package form

import (
	"regexp"
	"strings"

	"github.com/dmitrymomot/regform/pkg/sanitizer"
	"github.com/dmitrymomot/regform/pkg/validator"
)

// Reason is the machine-readable cause of an invalid verdict.
type Reason string

const (
	ReasonRequired          Reason = "required"
	ReasonTooShort          Reason = "too_short"
	ReasonInvalidFormat     Reason = "invalid_format"
	ReasonDisposableDomain  Reason = "disposable_domain"
	ReasonInvalidLength     Reason = "invalid_length"
	ReasonCountryRequired   Reason = "country_required"
	ReasonOutOfRange        Reason = "out_of_range"
	ReasonMissingComplexity Reason = "missing_complexity"
	ReasonMismatch          Reason = "mismatch"
)

// Verdict is the outcome of a rule. Reason and Message are empty when Valid.
type Verdict struct {
	Valid   bool   `json:"valid"`
	Reason  Reason `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

// Rule evaluates one field against the whole field set. Rules must be pure.
type Rule func(FieldSet) Verdict

// RuleSet maps every field to its rule.
type RuleSet map[FieldID]Rule

// Evaluate runs the rule for id. A field without a rule is valid.
func (rs RuleSet) Evaluate(id FieldID, fs FieldSet) Verdict {
	rule, ok := rs[id]
	if !ok || rule == nil {
		return Verdict{Valid: true}
	}
	return rule(fs)
}

const (
	minNameLen     = 2
	minAddressLen  = 6
	minPasswordLen = 8
	phoneDigits    = 10
	minAge         = 13
	maxAge         = 120
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// DefaultRules returns the registration form rules. Email domains found in
// disposable are rejected; a nil set disables that check.
func DefaultRules(disposable validator.Set[string]) RuleSet {
	return RuleSet{
		FirstName:       nameRule(FirstName),
		LastName:        nameRule(LastName),
		Email:           emailRule(disposable),
		Country:         selectRule(Country, "Please select a country"),
		City:            selectRule(City, "Please select a city"),
		Phone:           phoneRule,
		Age:             ageRule,
		Address:         addressRule,
		Password:        passwordRule,
		ConfirmPassword: confirmPasswordRule,
		Gender:          genderRule,
		Terms:           termsRule,
	}
}

// verdictOf reports the first failing rule. Each rule's code is a Reason.
func verdictOf(rules ...validator.Rule) Verdict {
	if verr, ok := validator.First(rules...); !ok {
		return Verdict{Reason: Reason(verr.Code), Message: verr.Message}
	}
	return Verdict{Valid: true}
}

func fail(r validator.Rule, reason Reason, msg string) validator.Rule {
	return r.WithCode(string(reason)).WithMessage(msg)
}

func nameRule(id FieldID) Rule {
	field := id.String()
	return func(fs FieldSet) Verdict {
		v := fs.Text(id)
		return verdictOf(
			fail(validator.Required(field, v), ReasonRequired, "This field is required"),
			fail(validator.MinLen(field, strings.TrimSpace(v), minNameLen), ReasonTooShort, "Too short"),
		)
	}
}

func emailRule(disposable validator.Set[string]) Rule {
	field := Email.String()
	return func(fs FieldSet) Verdict {
		v := sanitizer.TrimToLower(fs.Text(Email))
		return verdictOf(
			fail(validator.Required(field, v), ReasonRequired, "Email required"),
			fail(validator.Matches(field, v, emailRegex, "a valid email"), ReasonInvalidFormat, "Enter a valid email"),
			fail(validator.NotInSet(field, sanitizer.ExtractEmailDomain(v), disposable), ReasonDisposableDomain, "Disposable email not allowed"),
		)
	}
}

func selectRule(id FieldID, msg string) Rule {
	field := id.String()
	return func(fs FieldSet) Verdict {
		return verdictOf(fail(validator.Required(field, fs.Text(id)), ReasonRequired, msg))
	}
}

func phoneRule(fs FieldSet) Verdict {
	field := Phone.String()
	digits := sanitizer.KeepDigits(fs.Text(Phone))
	return verdictOf(
		fail(validator.NotEmpty(field, digits), ReasonRequired, "Phone required"),
		fail(validator.Len(field, digits, phoneDigits), ReasonInvalidLength, "Enter a 10-digit phone number"),
		fail(validator.Required(Country.String(), fs.Text(Country)), ReasonCountryRequired, "Select country first"),
	)
}

func ageRule(fs FieldSet) Verdict {
	field := Age.String()
	raw := fs.Text(Age)
	n, _ := validator.ParseFinite(raw)
	return verdictOf(
		fail(validator.NotEmpty(field, raw), ReasonRequired, "Age required"),
		fail(validator.All(
			validator.FiniteNumber(field, raw),
			validator.Between(field, n, minAge, maxAge),
		), ReasonOutOfRange, "Enter a valid age (13+)"),
	)
}

func addressRule(fs FieldSet) Verdict {
	field := Address.String()
	v := fs.Text(Address)
	return verdictOf(
		fail(validator.Required(field, v), ReasonRequired, "Address required"),
		fail(validator.MinLen(field, strings.TrimSpace(v), minAddressLen), ReasonTooShort, "Please provide more details"),
	)
}

func passwordRule(fs FieldSet) Verdict {
	field := Password.String()
	v := fs.Text(Password)
	return verdictOf(
		fail(validator.NotEmpty(field, v), ReasonRequired, "Password required"),
		fail(validator.MinLen(field, v, minPasswordLen), ReasonTooShort, "At least 8 characters"),
		fail(validator.All(
			validator.ContainsUppercase(field, v),
			validator.ContainsDigit(field, v),
		), ReasonMissingComplexity, "Use uppercase and numbers"),
	)
}

func confirmPasswordRule(fs FieldSet) Verdict {
	field := ConfirmPassword.String()
	v := fs.Text(ConfirmPassword)
	return verdictOf(
		fail(validator.NotEmpty(field, v), ReasonRequired, "Confirm your password"),
		fail(validator.Equal(field, v, fs.Text(Password)), ReasonMismatch, "Passwords do not match"),
	)
}

func genderRule(fs FieldSet) Verdict {
	return verdictOf(
		fail(validator.RequiredSlice(Gender.String(), fs.Value(Gender).Choices), ReasonRequired, "Select at least one option"),
	)
}

func termsRule(fs FieldSet) Verdict {
	return verdictOf(
		fail(validator.Accepted(Terms.String(), fs.Value(Terms).Checked), ReasonRequired, "You must accept terms"),
	)
}
