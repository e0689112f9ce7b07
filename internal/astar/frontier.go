package astar

import (
	"cmp"
	"slices"

	"github.com/maastrichtu-biss/informed-search/internal/graph"
)

// entry is a frontier item: priority f, accumulated cost g, the node and the
// path that reached it.
type entry[N graph.Node] struct {
	f    float64
	g    float64
	node N
	path []N
}

// frontier implements heap.Interface ordered by a TieBreak policy.
// Entries for the same node may appear more than once; stale ones are
// skipped by the visited set when popped.
type frontier[N graph.Node] struct {
	items    []*entry[N]
	tieBreak TieBreak
}

func (pq *frontier[N]) Len() int { return len(pq.items) }

func (pq *frontier[N]) Less(i, j int) bool {
	return compareEntries(pq.tieBreak, pq.items[i], pq.items[j]) < 0
}

func (pq *frontier[N]) Swap(i, j int) {
	pq.items[i], pq.items[j] = pq.items[j], pq.items[i]
}

func (pq *frontier[N]) Push(x any) {
	pq.items = append(pq.items, x.(*entry[N]))
}

func (pq *frontier[N]) Pop() any {
	old := pq.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	pq.items = old[0 : n-1]
	return item
}

// compareEntries orders by f, then by g in the direction the policy asks for,
// then by node, then lexicographically by path.
func compareEntries[N graph.Node](tb TieBreak, a, b *entry[N]) int {
	if c := cmp.Compare(a.f, b.f); c != 0 {
		return c
	}
	if c := cmp.Compare(a.g, b.g); c != 0 {
		if tb == TieBreakHigherG {
			return -c
		}
		return c
	}
	if c := cmp.Compare(a.node, b.node); c != 0 {
		return c
	}
	return slices.Compare(a.path, b.path)
}
