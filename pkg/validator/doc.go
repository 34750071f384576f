// Package validator provides small composable validation rules for strings,
// numbers, collections and choices.
//
// A Rule bundles a Check func with the ValidationError it reports on failure.
// Rules are plain values: callers build them from the current input, tweak the
// reported message or code with WithMessage/WithCode, and evaluate them with
// one of two helpers:
//
//   - Apply runs every rule and aggregates the failures into ValidationErrors,
//     which implements error and matches ErrValidationFailed via errors.Is.
//   - First runs rules in order and returns the first failure only. Use it
//     when each rule assumes the previous ones passed, e.g. Required followed
//     by a format check.
//
// # Usage
//
//	verr, ok := validator.First(
//	    validator.Required("email", email).WithMessage("Email required"),
//	    validator.Matches("email", email, emailRe, "a valid email"),
//	)
//	if !ok {
//	    fmt.Println(verr.Code, verr.Message)
//	}
//
// Lengths are counted in characters (runes), not bytes. The package keeps no
// state and is safe for concurrent use.
package validator
