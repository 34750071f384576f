package form

import (
	"fmt"

	"github.com/dmitrymomot/regform/pkg/depgraph"
)

// Edge declares that a change to Source must re-evaluate each of Targets.
type Edge struct {
	Source  FieldID
	Targets []FieldID
}

// DefaultEdges is the registration form dependency table.
var DefaultEdges = []Edge{
	{Source: Country, Targets: []FieldID{City, Phone}},
	{Source: Password, Targets: []FieldID{ConfirmPassword}},
}

// Dependencies resolves which fields a change affects.
type Dependencies struct {
	graph *depgraph.Graph[FieldID]
}

// NewDependencies builds the resolver from edges. It fails with
// ErrUnknownField for ids outside the field set and with a
// *depgraph.CycleError when the edges form a cycle.
func NewDependencies(edges ...Edge) (*Dependencies, error) {
	g := depgraph.New[FieldID]()
	for _, id := range fieldOrder {
		g.AddNode(id)
	}

	for _, e := range edges {
		if !e.Source.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, e.Source)
		}
		for _, t := range e.Targets {
			if !t.Valid() {
				return nil, fmt.Errorf("%w: %q", ErrUnknownField, t)
			}
			g.AddEdge(e.Source, t)
		}
	}

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("form dependencies: %w", err)
	}

	return &Dependencies{graph: g}, nil
}

// DefaultDependencies returns the resolver for DefaultEdges.
func DefaultDependencies() *Dependencies {
	d, err := NewDependencies(DefaultEdges...)
	if err != nil {
		panic(err)
	}
	return d
}

// Affected returns id followed by every field that depends on it, transitively,
// each at most once.
func (d *Dependencies) Affected(id FieldID) []FieldID {
	return d.graph.Reachable(id)
}

// Targets returns the direct dependents of id.
func (d *Dependencies) Targets(id FieldID) []FieldID {
	return d.graph.Targets(id)
}
