package statemachine

import (
	"context"
	"fmt"
)

// Machine is an in-memory finite state machine over comparable state and event types.
// Transitions are stored as [from][event][]Transition for O(1) lookups.
//
// Machine is not safe for concurrent use; callers serialize access.
type Machine[S, E comparable] struct {
	current     S
	transitions map[S]map[E][]Transition[S, E]
}

func newMachine[S, E comparable](initial S) *Machine[S, E] {
	return &Machine[S, E]{
		current:     initial,
		transitions: make(map[S]map[E][]Transition[S, E]),
	}
}

// Current returns the current state.
func (m *Machine[S, E]) Current() S {
	return m.current
}

// AddTransition registers a transition. Several transitions may share the same
// from/event pair; the first one whose guards pass wins.
func (m *Machine[S, E]) AddTransition(t Transition[S, E]) {
	if _, ok := m.transitions[t.From]; !ok {
		m.transitions[t.From] = make(map[E][]Transition[S, E])
	}
	m.transitions[t.From][t.Event] = append(m.transitions[t.From][t.Event], t)
}

// Fire moves the machine along the first matching transition for event.
// It returns the previous state so callers can tell whether anything changed.
func (m *Machine[S, E]) Fire(ctx context.Context, event E, data any) (S, error) {
	from := m.current

	t, err := m.match(ctx, event, data)
	if err != nil {
		return from, err
	}

	for _, action := range t.Actions {
		if action == nil {
			continue
		}
		if err := action(ctx, from, t.To, event, data); err != nil {
			return from, fmt.Errorf("action failed: %w", err)
		}
	}

	m.current = t.To
	return from, nil
}

func (m *Machine[S, E]) match(ctx context.Context, event E, data any) (Transition[S, E], error) {
	candidates := m.transitions[m.current][event]
	if len(candidates) == 0 {
		return Transition[S, E]{}, NewErrNoTransitionAvailable(m.current, event)
	}

	for _, t := range candidates {
		if guardsPass(ctx, t.Guards, m.current, event, data) {
			return t, nil
		}
	}

	return Transition[S, E]{}, NewErrTransitionRejected(m.current, event)
}

func guardsPass[S, E comparable](ctx context.Context, guards []Guard[S, E], from S, event E, data any) bool {
	for _, guard := range guards {
		if guard != nil && !guard(ctx, from, event, data) {
			return false
		}
	}
	return true
}
