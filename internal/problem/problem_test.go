package problem

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maastrichtu-biss/informed-search/internal/graph"
)

func TestReference(t *testing.T) {
	doc := Reference()
	require.NoError(t, doc.Validate())

	g, err := doc.WeightedGraph()
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "D", "E", "F"}, g.Nodes())
	assert.Equal(t, 6, g.EdgeCount())

	ao, err := doc.AndOrGraph()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"B", "C"}}, ao.Groups("A"))
	assert.True(t, ao.IsTerminal("F"))

	h, err := doc.HeuristicTable()
	require.NoError(t, err)
	assert.Equal(t, graph.HeuristicTable[string]{"A": 6, "B": 4, "C": 4, "D": 2, "E": 1, "F": 0}, h)
}

func TestDocument_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(d *Document)
		wantErr error
	}{
		{name: "valid", mutate: func(d *Document) {}},
		{name: "missing start", mutate: func(d *Document) { d.Start = "" }, wantErr: ErrInvalidDocument},
		{name: "negative cost", mutate: func(d *Document) { d.Edges[0].Cost = -1 }, wantErr: ErrInvalidDocument},
		{name: "edge without target", mutate: func(d *Document) { d.Edges[0].To = "" }, wantErr: ErrInvalidDocument},
		{name: "negative heuristic", mutate: func(d *Document) { d.Heuristics["A"] = -2 }, wantErr: ErrInvalidDocument},
		{name: "empty option group", mutate: func(d *Document) { d.AndOr["A"] = [][]string{{}} }, wantErr: ErrInvalidDocument},
		{name: "unknown heuristic source", mutate: func(d *Document) { d.HeuristicSource = "oracle" }, wantErr: ErrInvalidDocument},
		{name: "bad coordinate", mutate: func(d *Document) { d.Coordinates = map[string][]float64{"A": {1}} }, wantErr: ErrInvalidDocument},
		{
			name: "coordinate source without goal",
			mutate: func(d *Document) {
				d.Goal = ""
				d.HeuristicSource = SourcePlanar
			},
			wantErr: ErrInvalidDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Reference()
			tt.mutate(doc)
			err := doc.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDocument_GraphErrors(t *testing.T) {
	doc := Reference()
	doc.Edges = append(doc.Edges, Edge{From: "A", To: "B", Cost: 9})
	_, err := doc.WeightedGraph()
	assert.ErrorIs(t, err, graph.ErrDuplicateEdge)
	assert.Contains(t, err.Error(), "edge 6")

	doc = Reference()
	doc.AndOr["A"] = [][]string{{"B", "B"}}
	_, err = doc.AndOrGraph()
	assert.ErrorIs(t, err, graph.ErrDuplicateChild)
}

func TestDocument_CoordinateHeuristics(t *testing.T) {
	doc := &Document{
		Start: "a",
		Goal:  "c",
		Edges: []Edge{{From: "a", To: "b", Cost: 5}, {From: "b", To: "c", Cost: 5}},
		Coordinates: map[string][]float64{
			"a": {0, 0},
			"b": {3, 4},
			"c": {6, 8},
		},
		Heuristics:      map[string]float64{"b": 1},
		HeuristicSource: SourcePlanar,
	}
	require.NoError(t, doc.Validate())

	h, err := doc.HeuristicTable()
	require.NoError(t, err)
	assert.Equal(t, graph.HeuristicTable[string]{"a": 10, "b": 1, "c": 0}, h)

	doc.Goal = "z"
	_, err = doc.HeuristicTable()
	assert.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	for _, ext := range []string{".yaml", ".json"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "reference"+ext)
			require.NoError(t, Save(Reference(), path))

			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, Reference(), loaded)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "problem.toml"))
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("unknown field", func(t *testing.T) {
		path := filepath.Join(dir, "unknown.yaml")
		require.NoError(t, os.WriteFile(path, []byte("start: A\nmystery: 1\n"), 0644))
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("too large", func(t *testing.T) {
		path := filepath.Join(dir, "large.json")
		require.NoError(t, os.WriteFile(path, []byte(strings.Repeat(" ", MaxDocumentSize+1)), 0644))
		_, err := Load(path)
		assert.ErrorIs(t, err, ErrDocumentTooLarge)
	})
}

func TestLoad_CoordinatesFile(t *testing.T) {
	dir := t.TempDir()
	geojson := `{"type": "FeatureCollection", "features": [
		{"type": "Feature", "properties": {"id": "a"}, "geometry": {"type": "Point", "coordinates": [0, 0]}},
		{"type": "Feature", "properties": {"id": "b"}, "geometry": {"type": "Point", "coordinates": [3, 4]}}
	]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nodes.geojson"), []byte(geojson), 0644))

	doc := `start: a
goal: b
edges:
  - {from: a, to: b, cost: 5}
coordinates:
  b: [6, 8]
coordinatesFile: nodes.geojson
heuristicSource: planar
`
	path := filepath.Join(dir, "problem.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, map[string][]float64{"a": {0, 0}, "b": {6, 8}}, loaded.Coordinates)

	h, err := loaded.HeuristicTable()
	require.NoError(t, err)
	assert.Equal(t, 10.0, h["a"])
	assert.Zero(t, h["b"])
}

func TestDocument_Search(t *testing.T) {
	res, err := Reference().Search()
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, []string{"A", "B", "E", "F"}, res.Path)
	assert.Equal(t, 7.0, res.Cost)

	doc := Reference()
	doc.Goal = ""
	_, err = doc.Search()
	assert.ErrorIs(t, err, ErrMissingGoal)
}

func TestDocument_Solve(t *testing.T) {
	sol, err := Reference().Solve()
	require.NoError(t, err)
	assert.Equal(t, 17.0, sol.Cost())
	assert.Equal(t, []string{"D", "B", "E", "F", "C", "A"}, sol.Order)
}

func TestDocument_Check(t *testing.T) {
	report, err := Reference().Check()
	require.NoError(t, err)
	assert.False(t, report.Admissible())
	assert.False(t, report.Consistent())

	var nodes []string
	for _, v := range report.Violations {
		nodes = append(nodes, v.Node)
	}
	assert.Equal(t, []string{"A", "C"}, nodes)
	assert.Len(t, report.Inconsistencies, 2)

	doc := Reference()
	doc.Heuristics = map[string]float64{"A": 5, "B": 6, "C": 1, "D": 4, "E": 1, "F": 0}
	report, err = doc.Check()
	require.NoError(t, err)
	assert.True(t, report.Admissible())
	assert.True(t, report.Consistent())
}

const planarNoGoal = `start: a
edges:
  - {from: a, to: b, cost: 4}
  - {from: b, to: c, cost: 5}
coordinates:
  a: [0, 0]
  b: [3, 4]
  c: [6, 8]
heuristicSource: planar
`

func TestLoad_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planar.yaml")
	require.NoError(t, os.WriteFile(path, []byte(planarNoGoal), 0644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidDocument)

	doc, err := Load(path, WithGoal("c"), WithStart("b"))
	require.NoError(t, err)
	assert.Equal(t, "b", doc.Start)
	assert.Equal(t, "c", doc.Goal)

	doc, err = Load(path, WithGoal("c"), WithStart(""))
	require.NoError(t, err)
	assert.Equal(t, "a", doc.Start)
}

func TestDocument_CheckShortEdges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planar.yaml")
	require.NoError(t, os.WriteFile(path, []byte(planarNoGoal), 0644))

	doc, err := Load(path, WithGoal("c"))
	require.NoError(t, err)

	report, err := doc.Check()
	require.NoError(t, err)
	assert.Equal(t, []ShortEdge{{From: "a", To: "b", Cost: 4, Distance: 5}}, report.ShortEdges)
	assert.False(t, report.Admissible())

	assert.Empty(t, mustCheck(t, Reference()).ShortEdges)
}

func mustCheck(t *testing.T, doc *Document) *Report {
	t.Helper()
	report, err := doc.Check()
	require.NoError(t, err)
	return report
}
