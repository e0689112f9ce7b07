package problem

import (
	"errors"

	"github.com/maastrichtu-biss/informed-search/internal/aostar"
	"github.com/maastrichtu-biss/informed-search/internal/astar"
	"github.com/maastrichtu-biss/informed-search/internal/spatial"
)

// ShortEdge is an edge whose cost is below the straight-line distance between
// its endpoints. A distance heuristic can overestimate across such an edge.
type ShortEdge struct {
	From, To string
	Cost     float64
	Distance float64
}

// Report is the heuristic quality check of a document
type Report struct {
	Goal            string
	Violations      []astar.Violation[string]
	Inconsistencies []astar.Inconsistency[string]
	// ShortEdges is only filled for coordinate heuristic sources
	ShortEdges []ShortEdge
}

// Admissible reports whether no node overestimates its cost to the goal
func (r *Report) Admissible() bool {
	return len(r.Violations) == 0
}

// Consistent reports whether every edge satisfies h(u) <= cost(u,v) + h(v)
func (r *Report) Consistent() bool {
	return len(r.Inconsistencies) == 0
}

// Search runs a best-first search from Start to Goal
func (d *Document) Search(opts ...astar.Option) (astar.Result[string], error) {
	if d.Goal == "" {
		return astar.Result[string]{}, ErrMissingGoal
	}
	g, err := d.WeightedGraph()
	if err != nil {
		return astar.Result[string]{}, err
	}
	h, err := d.HeuristicTable()
	if err != nil {
		return astar.Result[string]{}, err
	}
	return astar.Search(g, h, d.Start, d.Goal, opts...)
}

// Solve runs the AND-OR solver from Start
func (d *Document) Solve(opts ...aostar.Option) (*aostar.Solution[string], error) {
	g, err := d.AndOrGraph()
	if err != nil {
		return nil, err
	}
	h, err := d.HeuristicTable()
	if err != nil {
		return nil, err
	}
	return aostar.FindSolution(g, h, d.Start, opts...)
}

// Check compares the heuristic table against the true costs to Goal
func (d *Document) Check() (*Report, error) {
	if d.Goal == "" {
		return nil, ErrMissingGoal
	}
	g, err := d.WeightedGraph()
	if err != nil {
		return nil, err
	}
	h, err := d.HeuristicTable()
	if err != nil {
		return nil, err
	}

	violations, err := astar.CheckAdmissible(g, h, d.Goal)
	if err != nil {
		return nil, err
	}
	inconsistencies, err := astar.CheckConsistent(g, h)
	if err != nil {
		return nil, err
	}
	report := &Report{Goal: d.Goal, Violations: violations, Inconsistencies: inconsistencies}

	if d.usesCoordinates() {
		report.ShortEdges, err = d.shortEdges()
		if err != nil {
			return nil, err
		}
	}
	return report, nil
}

// shortEdges compares every edge whose endpoints both have coordinates
// against their distance under the document's metric.
func (d *Document) shortEdges() ([]ShortEdge, error) {
	metric, err := spatial.ParseMetric(d.HeuristicSource)
	if err != nil {
		return nil, err
	}
	coords := d.Points()

	var out []ShortEdge
	for _, e := range d.Edges {
		dist, err := spatial.EdgeCost(coords, e.From, e.To, metric)
		if errors.Is(err, spatial.ErrMissingCoordinates) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if e.Cost < dist-shortEdgeTolerance {
			out = append(out, ShortEdge{From: e.From, To: e.To, Cost: e.Cost, Distance: dist})
		}
	}
	return out, nil
}

const shortEdgeTolerance = 1e-9
