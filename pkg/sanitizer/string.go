package sanitizer

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Trim removes leading and trailing whitespace from a string.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// ToLower lower-cases s using Unicode case mapping rules.
// A new Caser is built per call because casers keep internal state.
func ToLower(s string) string {
	return cases.Lower(language.Und).String(s)
}

var trimToLower = Compose(Trim, ToLower)

// TrimToLower removes leading and trailing whitespace and converts to lowercase.
func TrimToLower(s string) string {
	return trimToLower(s)
}

// KeepDigits removes everything except ASCII digits.
func KeepDigits(s string) string {
	return nonDigitRegex.ReplaceAllString(s, "")
}
