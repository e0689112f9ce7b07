// Package spatial derives search inputs from node coordinates: straight-line
// heuristics, coordinate-based edge costs and nearest-node lookup.
//
// Coordinates are orb points, X = longitude and Y = latitude for the
// haversine metric, plain planar X/Y otherwise.
package spatial

import (
	"errors"
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"

	"github.com/maastrichtu-biss/informed-search/internal/graph"
)

var (
	ErrUnknownMetric      = errors.New("unknown distance metric")
	ErrMissingCoordinates = errors.New("missing coordinates")
)

// Coordinates maps node ids to positions
type Coordinates map[string]orb.Point

// Metric selects the distance function
type Metric int

const (
	// Haversine is the great-circle distance in meters on lon/lat points
	Haversine Metric = iota
	// Planar is the Euclidean distance
	Planar
)

func (m Metric) String() string {
	switch m {
	case Haversine:
		return "haversine"
	case Planar:
		return "planar"
	}
	return fmt.Sprintf("Metric(%d)", int(m))
}

// ParseMetric converts "haversine" or "planar" to a Metric
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "haversine":
		return Haversine, nil
	case "planar":
		return Planar, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMetric, s)
}

// Distance returns the distance between a and b under m
func (m Metric) Distance(a, b orb.Point) float64 {
	if m == Planar {
		return planar.Distance(a, b)
	}
	return geo.DistanceHaversine(a, b)
}

// Heuristics returns the straight-line distance from every node to goal.
// The table is admissible for any graph whose edge costs are at least the
// straight-line distance between their endpoints (see EdgeCost).
func Heuristics(coords Coordinates, goal string, m Metric) (graph.HeuristicTable[string], error) {
	target, ok := coords[goal]
	if !ok {
		return nil, fmt.Errorf("%w for goal %s", ErrMissingCoordinates, goal)
	}

	h := make(graph.HeuristicTable[string], len(coords))
	for id, p := range coords {
		h[id] = m.Distance(p, target)
	}
	return h, nil
}

// EdgeCost returns the distance between two nodes
func EdgeCost(coords Coordinates, from, to string, m Metric) (float64, error) {
	a, ok := coords[from]
	if !ok {
		return 0, fmt.Errorf("%w for node %s", ErrMissingCoordinates, from)
	}
	b, ok := coords[to]
	if !ok {
		return 0, fmt.Errorf("%w for node %s", ErrMissingCoordinates, to)
	}
	return m.Distance(a, b), nil
}
