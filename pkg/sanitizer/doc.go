// Package sanitizer provides small, stateless helpers that normalise raw user
// input before it is validated: trimming, Unicode-aware case folding, digit
// extraction for phone numbers, e-mail domain extraction and masking.
//
// Helpers never return errors; they always produce a best-effort result. The
// Apply and Compose helpers chain transforms into pipelines:
//
//	normalize := sanitizer.Compose(sanitizer.Trim, sanitizer.ToLower)
//	email := normalize("  Jane@Example.COM ") // "jane@example.com"
package sanitizer
