package sanitizer

import "regexp"

// RE2 \D is ASCII-only, so non-Latin digits are stripped as well.
var nonDigitRegex = regexp.MustCompile(`\D`)
