package spatial

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var ErrMissingNodeID = errors.New("point feature has no node id")

// LoadGeoJSONNodes reads node positions from a GeoJSON FeatureCollection.
// Each Point feature names its node with an "id" property or the feature id.
// Features with other geometry types are ignored.
func LoadGeoJSONNodes(data []byte) (Coordinates, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feature collection: %w", err)
	}

	coords := make(Coordinates, len(fc.Features))
	for i, feature := range fc.Features {
		point, ok := feature.Geometry.(orb.Point)
		if !ok {
			continue
		}

		id := feature.Properties.MustString("id", "")
		if id == "" && feature.ID != nil {
			id = fmt.Sprint(feature.ID)
		}
		if id == "" {
			return nil, fmt.Errorf("feature %d: %w", i, ErrMissingNodeID)
		}
		coords[id] = point
	}
	return coords, nil
}
