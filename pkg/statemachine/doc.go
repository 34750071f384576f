// Package statemachine provides a small, type-safe finite state machine.
//
// States and events are any comparable types, typically string-based enums:
//
//	type Status string
//	type Signal string
//
//	m := statemachine.MustNew[Status, Signal]("draft",
//	    statemachine.WithTransition[Status, Signal]("draft", "review", "submit"),
//	)
//	prev, err := m.Fire(ctx, "submit", nil)
//
// Guards veto a transition based on runtime data; actions run after all
// guards pass and before the state changes. When several transitions share a
// from/event pair the first one whose guards pass wins, which allows priority
// ordering.
//
// Fire reports failures with typed errors, testable with
// IsNoTransitionAvailableError and IsTransitionRejectedError.
//
// A Machine holds no locks. It is meant to be owned by a single goroutine or
// by a component that already serializes its events.
package statemachine
