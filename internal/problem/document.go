// Package problem reads and writes search problem documents: a weighted
// graph, an AND-OR graph, heuristics and optional node coordinates, in YAML
// or JSON.
package problem

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/paulmach/orb"

	"github.com/maastrichtu-biss/informed-search/internal/graph"
	"github.com/maastrichtu-biss/informed-search/internal/spatial"
)

var (
	ErrInvalidDocument   = errors.New("invalid problem document")
	ErrMissingGoal       = errors.New("goal is required")
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrDocumentTooLarge  = errors.New("document too large")
)

// Heuristic sources
const (
	SourceTable     = "table"
	SourceHaversine = "haversine"
	SourcePlanar    = "planar"
)

// Edge is one weighted edge of a document
type Edge struct {
	From string  `json:"from" yaml:"from" validate:"required"`
	To   string  `json:"to" yaml:"to" validate:"required"`
	Cost float64 `json:"cost" yaml:"cost" validate:"gte=0"`
}

// Document is the on-disk form of a search problem
type Document struct {
	Name            string                `json:"name,omitempty" yaml:"name,omitempty"`
	Start           string                `json:"start" yaml:"start" validate:"required"`
	Goal            string                `json:"goal,omitempty" yaml:"goal,omitempty"`
	Edges           []Edge                `json:"edges,omitempty" yaml:"edges,omitempty" validate:"dive"`
	Heuristics      map[string]float64    `json:"heuristics,omitempty" yaml:"heuristics,omitempty" validate:"dive,gte=0"`
	AndOr           map[string][][]string `json:"andOr,omitempty" yaml:"andOr,omitempty" validate:"dive,dive,min=1"`
	Coordinates     map[string][]float64  `json:"coordinates,omitempty" yaml:"coordinates,omitempty" validate:"dive,len=2"`
	CoordinatesFile string                `json:"coordinatesFile,omitempty" yaml:"coordinatesFile,omitempty"`
	HeuristicSource string                `json:"heuristicSource,omitempty" yaml:"heuristicSource,omitempty" validate:"omitempty,oneof=table haversine planar"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the document structure. Graph level checks (duplicate
// edges, empty option groups) happen when the graphs are built.
func (d *Document) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if d.usesCoordinates() && d.Goal == "" {
		return fmt.Errorf("%w: %s heuristics need a goal", ErrInvalidDocument, d.HeuristicSource)
	}
	return nil
}

func (d *Document) usesCoordinates() bool {
	return d.HeuristicSource == SourceHaversine || d.HeuristicSource == SourcePlanar
}

// WeightedGraph builds the weighted graph. Start and goal are always nodes
// of the result, even without edges.
func (d *Document) WeightedGraph() (*graph.WeightedGraph[string], error) {
	g := graph.NewWeightedGraph[string]()
	for i, e := range d.Edges {
		if err := g.AddEdge(e.From, e.To, e.Cost); err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
	}
	if d.Start != "" {
		g.AddNode(d.Start)
	}
	if d.Goal != "" {
		g.AddNode(d.Goal)
	}
	return g, nil
}

// AndOrGraph builds and validates the AND-OR graph
func (d *Document) AndOrGraph() (graph.AndOrGraph[string], error) {
	g := make(graph.AndOrGraph[string], len(d.AndOr))
	for node, groups := range d.AndOr {
		copied := make([][]string, len(groups))
		for i, group := range groups {
			copied[i] = slices.Clone(group)
		}
		g[node] = copied
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Points returns the document coordinates as orb points
func (d *Document) Points() spatial.Coordinates {
	coords := make(spatial.Coordinates, len(d.Coordinates))
	for id, c := range d.Coordinates {
		if len(c) == 2 {
			coords[id] = orb.Point{c[0], c[1]}
		}
	}
	return coords
}

// HeuristicTable returns the heuristic table. With a coordinate source the
// straight-line distance to the goal is used for every node with
// coordinates, and explicit table entries override it.
func (d *Document) HeuristicTable() (graph.HeuristicTable[string], error) {
	h := make(graph.HeuristicTable[string], len(d.Heuristics))

	if d.usesCoordinates() {
		metric, err := spatial.ParseMetric(d.HeuristicSource)
		if err != nil {
			return nil, err
		}
		derived, err := spatial.Heuristics(d.Points(), d.Goal, metric)
		if err != nil {
			return nil, err
		}
		for id, v := range derived {
			h[id] = v
		}
	}

	for id, v := range d.Heuristics {
		h[id] = v
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}

// Reference returns the demo problem: the weighted graph and AND-OR graph
// from A to F with the classic heuristic table.
func Reference() *Document {
	return &Document{
		Name:  "reference",
		Start: "A",
		Goal:  "F",
		Edges: []Edge{
			{From: "A", To: "B", Cost: 1},
			{From: "A", To: "C", Cost: 4},
			{From: "B", To: "D", Cost: 2},
			{From: "B", To: "E", Cost: 5},
			{From: "C", To: "F", Cost: 1},
			{From: "E", To: "F", Cost: 1},
		},
		Heuristics: map[string]float64{"A": 6, "B": 4, "C": 4, "D": 2, "E": 1, "F": 0},
		AndOr: map[string][][]string{
			"A": {{"B", "C"}},
			"B": {{"D"}},
			"C": {{"E", "F"}},
			"D": {},
			"E": {},
			"F": {},
		},
		HeuristicSource: SourceTable,
	}
}
