package sanitizer

import (
	"strings"
	"unicode/utf8"
)

// ExtractEmailDomain returns the part after the first "@", lower-cased, up to
// the next "@" if any. Returns "" when there is no "@".
func ExtractEmailDomain(email string) string {
	_, domain, found := strings.Cut(strings.TrimSpace(email), "@")
	if !found {
		return ""
	}
	domain, _, _ = strings.Cut(domain, "@")
	return ToLower(domain)
}

// MaskEmail keeps the first character of the local part and the full domain.
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	local, domain, found := strings.Cut(email, "@")
	if !found || local == "" {
		return email
	}
	n := utf8.RuneCountInString(local)
	if n == 1 {
		return "*@" + domain
	}
	_, size := utf8.DecodeRuneInString(local)
	return local[:size] + strings.Repeat("*", n-1) + "@" + domain
}
