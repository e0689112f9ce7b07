package graph

import (
	"fmt"
	"math"
	"slices"
)

// HeuristicTable maps a node to its estimated remaining cost to the goal.
// A* is optimal only if the estimates never overestimate; the table itself
// does not enforce that (see astar.CheckAdmissible).
type HeuristicTable[N Node] map[N]float64

// Lookup returns the estimate for n or a *MissingHeuristicError
func (h HeuristicTable[N]) Lookup(n N) (float64, error) {
	v, ok := h[n]
	if !ok {
		return 0, &MissingHeuristicError{Node: fmt.Sprint(n)}
	}
	return v, nil
}

// Validate rejects negative, NaN and infinite estimates
func (h HeuristicTable[N]) Validate() error {
	keys := make([]N, 0, len(h))
	for n := range h {
		keys = append(keys, n)
	}
	slices.Sort(keys)

	for _, n := range keys {
		v := h[n]
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return &NodeError{Node: fmt.Sprint(n), Err: ErrNegativeHeuristic}
		}
	}
	return nil
}
