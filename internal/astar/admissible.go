package astar

import (
	"container/heap"

	"github.com/maastrichtu-biss/informed-search/internal/graph"
)

// tolerance absorbs floating point noise when comparing estimates to costs
const tolerance = 1e-9

// Violation is a node whose estimate exceeds its true cost to the goal
type Violation[N graph.Node] struct {
	Node      N
	Heuristic float64
	TrueCost  float64
}

// Inconsistency is an edge u -> v where h(u) > cost(u, v) + h(v)
type Inconsistency[N graph.Node] struct {
	From, To N
	Cost     float64
	HFrom    float64
	HTo      float64
}

// CostsToGoal returns the minimum cost from every node that can reach goal,
// computed by a uniform-cost sweep over the reversed graph.
func CostsToGoal[N graph.Node](g *graph.WeightedGraph[N], goal N) map[N]float64 {
	reversed := g.Reverse()
	dist := make(map[N]float64)

	openSet := &frontier[N]{tieBreak: TieBreakLowerG}
	heap.Push(openSet, &entry[N]{node: goal})

	for openSet.Len() > 0 {
		current := heap.Pop(openSet).(*entry[N])
		if _, done := dist[current.node]; done {
			continue
		}
		dist[current.node] = current.g

		for _, edge := range reversed.Neighbors(current.node) {
			if _, done := dist[edge.To]; done {
				continue
			}
			cost := current.g + edge.Cost
			heap.Push(openSet, &entry[N]{f: cost, g: cost, node: edge.To})
		}
	}
	return dist
}

// CheckAdmissible reports every node that can reach goal but whose heuristic
// overestimates the true remaining cost. Nodes that cannot reach goal are
// ignored; a reachable node without a heuristic entry is an error.
func CheckAdmissible[N graph.Node](g *graph.WeightedGraph[N], h graph.HeuristicTable[N], goal N) ([]Violation[N], error) {
	dist := CostsToGoal(g, goal)

	var violations []Violation[N]
	for _, n := range g.Nodes() {
		trueCost, reachable := dist[n]
		if !reachable {
			continue
		}
		est, err := h.Lookup(n)
		if err != nil {
			return nil, err
		}
		if est > trueCost+tolerance {
			violations = append(violations, Violation[N]{Node: n, Heuristic: est, TrueCost: trueCost})
		}
	}
	return violations, nil
}

// CheckConsistent reports every edge that breaks the triangle inequality
// h(u) <= cost(u, v) + h(v). A consistent heuristic is also admissible when
// h(goal) is zero.
func CheckConsistent[N graph.Node](g *graph.WeightedGraph[N], h graph.HeuristicTable[N]) ([]Inconsistency[N], error) {
	var out []Inconsistency[N]
	for _, e := range g.Edges() {
		hu, err := h.Lookup(e.From)
		if err != nil {
			return nil, err
		}
		hv, err := h.Lookup(e.To)
		if err != nil {
			return nil, err
		}
		if hu > e.Cost+hv+tolerance {
			out = append(out, Inconsistency[N]{From: e.From, To: e.To, Cost: e.Cost, HFrom: hu, HTo: hv})
		}
	}
	return out, nil
}
