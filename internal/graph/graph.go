// Package graph holds the data model shared by the search engines: a weighted
// directed graph, a heuristic table and an AND-OR graph.
package graph

import (
	"cmp"
	"fmt"
	"math"
	"slices"
)

// Node is any ordered identifier. Ordering is needed for deterministic
// tie-breaking in the frontier.
type Node interface {
	cmp.Ordered
}

// WeightedEdge represents a directed connection between two nodes with a cost
type WeightedEdge[N Node] struct {
	From N       `json:"from" yaml:"from"`
	To   N       `json:"to" yaml:"to"`
	Cost float64 `json:"cost" yaml:"cost"`
}

// WeightedGraph is a simple directed graph: at most one edge per ordered pair.
// Outgoing edges keep their insertion order.
type WeightedGraph[N Node] struct {
	nodes map[N]struct{}
	edges map[N][]WeightedEdge[N]
}

// NewWeightedGraph creates an empty graph
func NewWeightedGraph[N Node]() *WeightedGraph[N] {
	return &WeightedGraph[N]{
		nodes: make(map[N]struct{}),
		edges: make(map[N][]WeightedEdge[N]),
	}
}

// AddNode registers a node without edges. Adding an existing node is a no-op.
func (g *WeightedGraph[N]) AddNode(n N) {
	g.nodes[n] = struct{}{}
}

// AddEdge adds a directed edge from -> to.
func (g *WeightedGraph[N]) AddEdge(from, to N, cost float64) error {
	if math.IsNaN(cost) || math.IsInf(cost, 0) {
		return &EdgeError{From: fmt.Sprint(from), To: fmt.Sprint(to), Err: ErrInvalidCost}
	}
	if cost < 0 {
		return &EdgeError{From: fmt.Sprint(from), To: fmt.Sprint(to), Err: ErrNegativeCost}
	}
	if _, exists := g.Cost(from, to); exists {
		return &EdgeError{From: fmt.Sprint(from), To: fmt.Sprint(to), Err: ErrDuplicateEdge}
	}

	g.AddNode(from)
	g.AddNode(to)
	g.edges[from] = append(g.edges[from], WeightedEdge[N]{From: from, To: to, Cost: cost})
	return nil
}

// Neighbors returns the outgoing edges of n, nil if n has none.
// The returned slice must not be modified.
func (g *WeightedGraph[N]) Neighbors(n N) []WeightedEdge[N] {
	return g.edges[n]
}

// Cost returns the cost of the edge from -> to, if it exists
func (g *WeightedGraph[N]) Cost(from, to N) (float64, bool) {
	for _, e := range g.edges[from] {
		if e.To == to {
			return e.Cost, true
		}
	}
	return 0, false
}

// HasNode reports whether n appears in the graph as an endpoint or isolated node
func (g *WeightedGraph[N]) HasNode(n N) bool {
	_, ok := g.nodes[n]
	return ok
}

// Nodes returns every node sorted ascending
func (g *WeightedGraph[N]) Nodes() []N {
	out := make([]N, 0, len(g.nodes))
	for n := range g.nodes {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Edges returns every edge, grouped by origin in ascending node order
func (g *WeightedGraph[N]) Edges() []WeightedEdge[N] {
	out := make([]WeightedEdge[N], 0, g.EdgeCount())
	for _, n := range g.Nodes() {
		out = append(out, g.edges[n]...)
	}
	return out
}

// EdgeCount returns the number of edges
func (g *WeightedGraph[N]) EdgeCount() int {
	count := 0
	for _, es := range g.edges {
		count += len(es)
	}
	return count
}

// Reverse returns a new graph with every edge flipped.
func (g *WeightedGraph[N]) Reverse() *WeightedGraph[N] {
	r := NewWeightedGraph[N]()
	for n := range g.nodes {
		r.AddNode(n)
	}
	for _, e := range g.Edges() {
		r.edges[e.To] = append(r.edges[e.To], WeightedEdge[N]{From: e.To, To: e.From, Cost: e.Cost})
	}
	return r
}

// PathCost sums the edge costs along path. Every consecutive pair must be an edge.
func (g *WeightedGraph[N]) PathCost(path []N) (float64, error) {
	total := 0.0
	for i := 0; i+1 < len(path); i++ {
		c, ok := g.Cost(path[i], path[i+1])
		if !ok {
			return 0, &EdgeError{From: fmt.Sprint(path[i]), To: fmt.Sprint(path[i+1]), Err: ErrNoSuchEdge}
		}
		total += c
	}
	return total, nil
}
