package spatial

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limburg() Coordinates {
	return Coordinates{
		"maastricht": {5.6909, 50.8514},
		"heerlen":    {5.9815, 50.8882},
		"sittard":    {5.8697, 50.9984},
		"venlo":      {6.1724, 51.3704},
	}
}

func TestMetric_Distance(t *testing.T) {
	// Maastricht to Heerlen is about 21 km.
	d := Haversine.Distance(limburg()["maastricht"], limburg()["heerlen"])
	assert.InDelta(t, 21000, d, 1500)

	assert.Equal(t, 5.0, Planar.Distance(orb.Point{0, 0}, orb.Point{3, 4}))
}

func TestParseMetric(t *testing.T) {
	m, err := ParseMetric("Planar")
	require.NoError(t, err)
	assert.Equal(t, Planar, m)

	_, err = ParseMetric("manhattan")
	assert.ErrorIs(t, err, ErrUnknownMetric)
}

func TestHeuristics(t *testing.T) {
	coords := limburg()

	h, err := Heuristics(coords, "venlo", Haversine)
	require.NoError(t, err)
	assert.Len(t, h, 4)
	assert.Zero(t, h["venlo"])
	assert.Greater(t, h["maastricht"], h["sittard"])

	_, err = Heuristics(coords, "utrecht", Haversine)
	assert.ErrorIs(t, err, ErrMissingCoordinates)
}

func TestEdgeCost(t *testing.T) {
	coords := Coordinates{"a": {0, 0}, "b": {6, 8}}

	c, err := EdgeCost(coords, "a", "b", Planar)
	require.NoError(t, err)
	assert.Equal(t, 10.0, c)

	_, err = EdgeCost(coords, "a", "z", Planar)
	assert.ErrorIs(t, err, ErrMissingCoordinates)
}

func TestIndex_Nearest(t *testing.T) {
	ix := NewIndex(limburg())
	assert.Equal(t, 4, ix.Len())

	id, ok := ix.Nearest(orb.Point{5.70, 50.85})
	require.True(t, ok)
	assert.Equal(t, "maastricht", id)

	id, ok = ix.Nearest(orb.Point{6.2, 51.4})
	require.True(t, ok)
	assert.Equal(t, "venlo", id)

	_, ok = NewIndex(Coordinates{}).Nearest(orb.Point{0, 0})
	assert.False(t, ok)
}

func TestLoadGeoJSONNodes(t *testing.T) {
	data := []byte(`{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "properties": {"id": "A"}, "geometry": {"type": "Point", "coordinates": [1, 2]}},
			{"type": "Feature", "id": "B", "properties": {}, "geometry": {"type": "Point", "coordinates": [3, 4]}},
			{"type": "Feature", "properties": {"id": "zone"}, "geometry": {"type": "LineString", "coordinates": [[0, 0], [1, 1]]}}
		]
	}`)

	coords, err := LoadGeoJSONNodes(data)
	require.NoError(t, err)
	assert.Equal(t, Coordinates{"A": {1, 2}, "B": {3, 4}}, coords)

	t.Run("missing id", func(t *testing.T) {
		_, err := LoadGeoJSONNodes([]byte(`{"type": "FeatureCollection", "features": [
			{"type": "Feature", "properties": {}, "geometry": {"type": "Point", "coordinates": [1, 2]}}
		]}`))
		assert.ErrorIs(t, err, ErrMissingNodeID)
	})

	t.Run("invalid document", func(t *testing.T) {
		_, err := LoadGeoJSONNodes([]byte(`not json`))
		assert.Error(t, err)
	})
}
