// Package depgraph provides a small directed graph for declaring "a change to
// A invalidates B" relations. It detects cycles and computes the set of nodes
// reachable from a changed node in deterministic order.
package depgraph

import (
	"fmt"
	"strings"
)

// CycleError indicates that the graph contains a cycle.
type CycleError[K comparable] struct {
	// Cycle lists the nodes that could not be ordered. It is enough to
	// identify the problem but not necessarily a minimal cycle.
	Cycle []K
}

func (e *CycleError[K]) Error() string {
	parts := make([]string, len(e.Cycle))
	for i, n := range e.Cycle {
		parts[i] = fmt.Sprint(n)
	}
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(parts, " -> "))
}

// Graph is a directed graph keyed by K. An edge from A to B means a change to
// A must be followed by re-evaluation of B.
type Graph[K comparable] struct {
	adjacency map[K][]K
	nodes     []K
	nodeSet   map[K]bool
}

// New creates an empty Graph.
func New[K comparable]() *Graph[K] {
	return &Graph[K]{
		adjacency: make(map[K][]K),
		nodeSet:   make(map[K]bool),
	}
}

// AddNode adds a node. Adding an existing node is a no-op.
func (g *Graph[K]) AddNode(n K) {
	if g.nodeSet[n] {
		return
	}
	g.nodeSet[n] = true
	g.nodes = append(g.nodes, n)
}

// AddEdge adds from -> to. Both nodes are added implicitly; duplicate edges are ignored.
func (g *Graph[K]) AddEdge(from, to K) {
	g.AddNode(from)
	g.AddNode(to)
	for _, existing := range g.adjacency[from] {
		if existing == to {
			return
		}
	}
	g.adjacency[from] = append(g.adjacency[from], to)
}

// Has reports whether n is a node of the graph.
func (g *Graph[K]) Has(n K) bool {
	return g.nodeSet[n]
}

// Targets returns the direct successors of n in insertion order.
func (g *Graph[K]) Targets(n K) []K {
	out := make([]K, len(g.adjacency[n]))
	copy(out, g.adjacency[n])
	return out
}

// Reachable returns start followed by every node reachable from it,
// breadth-first, each at most once. The visited set keeps it finite even if
// a cycle slipped into the graph.
func (g *Graph[K]) Reachable(start K) []K {
	visited := map[K]bool{start: true}
	order := []K{start}

	for i := 0; i < len(order); i++ {
		for _, next := range g.adjacency[order[i]] {
			if visited[next] {
				continue
			}
			visited[next] = true
			order = append(order, next)
		}
	}

	return order
}

// TopologicalSort returns an order in which every node precedes its targets,
// using Kahn's algorithm. Nodes at the same level keep insertion order.
// It returns a *CycleError when the graph is not acyclic.
func (g *Graph[K]) TopologicalSort() ([]K, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := make(map[K]int, len(g.nodes))
	for _, n := range g.nodes {
		inDegree[n] = 0
	}
	for _, targets := range g.adjacency {
		for _, t := range targets {
			inDegree[t]++
		}
	}

	queue := make([]K, 0, len(g.nodes))
	for _, n := range g.nodes {
		if inDegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	result := make([]K, 0, len(g.nodes))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		result = append(result, n)

		for _, t := range g.adjacency[n] {
			inDegree[t]--
			if inDegree[t] == 0 {
				queue = append(queue, t)
			}
		}
	}

	if len(result) != len(g.nodes) {
		var cycle []K
		for _, n := range g.nodes {
			if inDegree[n] > 0 {
				cycle = append(cycle, n)
			}
		}
		return nil, &CycleError[K]{Cycle: cycle}
	}

	return result, nil
}

// Validate returns a *CycleError if the graph has a cycle.
func (g *Graph[K]) Validate() error {
	_, err := g.TopologicalSort()
	return err
}
