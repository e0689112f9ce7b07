package graph

import (
	"fmt"
	"slices"
)

// AndOrGraph maps a node to its alternative option groups. Solving a node
// means solving every child of one group. A node with no groups (or no entry
// at all) is terminal.
type AndOrGraph[N Node] map[N][][]N

// Groups returns the option groups of n
func (g AndOrGraph[N]) Groups(n N) [][]N {
	return g[n]
}

// IsTerminal reports whether n has no option groups
func (g AndOrGraph[N]) IsTerminal(n N) bool {
	return len(g[n]) == 0
}

// Nodes returns every node named as a parent or a child, sorted ascending
func (g AndOrGraph[N]) Nodes() []N {
	seen := make(map[N]struct{})
	for parent, groups := range g {
		seen[parent] = struct{}{}
		for _, group := range groups {
			for _, child := range group {
				seen[child] = struct{}{}
			}
		}
	}

	out := make([]N, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Validate checks that every option group is non-empty and names each child once
func (g AndOrGraph[N]) Validate() error {
	parents := make([]N, 0, len(g))
	for n := range g {
		parents = append(parents, n)
	}
	slices.Sort(parents)

	for _, parent := range parents {
		for _, group := range g[parent] {
			if len(group) == 0 {
				return &NodeError{Node: fmt.Sprint(parent), Err: ErrEmptyGroup}
			}
			seen := make(map[N]struct{}, len(group))
			for _, child := range group {
				if _, dup := seen[child]; dup {
					return &NodeError{Node: fmt.Sprint(parent), Err: ErrDuplicateChild}
				}
				seen[child] = struct{}{}
			}
		}
	}
	return nil
}
