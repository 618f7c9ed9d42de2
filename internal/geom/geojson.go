package geom

import (
	"fmt"

	"github.com/paulmach/orb/geojson"
)

// ToGeoJSON encodes the polygon set as a FeatureCollection. Optimization
// levels travel as feature properties so a saved set reloads with the same
// detail settings.
func ToGeoJSON(features []Feature) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, f := range features {
		gf := geojson.NewFeature(f.Polygon)
		gf.Properties["level"] = f.Level
		gf.Properties["originalLevel"] = f.OriginalLevel
		fc.Append(gf)
	}
	return fc.MarshalJSON()
}

// FromGeoJSON decodes a FeatureCollection, a single Feature, or a bare
// geometry into polygon features. Geometries go through Normalize, so rings
// are closed and cleaned on the way in.
func FromGeoJSON(data []byte) ([]Feature, error) {
	if fc, err := geojson.UnmarshalFeatureCollection(data); err == nil {
		var out []Feature
		for _, gf := range fc.Features {
			feats, err := featuresOf(gf)
			if err != nil {
				return nil, err
			}
			out = append(out, feats...)
		}
		return out, nil
	}
	if gf, err := geojson.UnmarshalFeature(data); err == nil {
		return featuresOf(gf)
	}
	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil, fmt.Errorf("geojson: not a feature collection, feature, or geometry: %w", err)
	}
	return featuresOf(geojson.NewFeature(g.Geometry()))
}

func featuresOf(gf *geojson.Feature) ([]Feature, error) {
	mp, err := Normalize(gf.Geometry)
	if err != nil {
		return nil, err
	}
	// imported data is programmatic input, so the strict checks apply
	if err := Validate(mp); err != nil {
		return nil, err
	}
	level := ClampLevel(gf.Properties.MustInt("level", 0))
	orig := ClampLevel(gf.Properties.MustInt("originalLevel", level))
	out := make([]Feature, 0, len(mp))
	for _, p := range mp {
		out = append(out, NewFeature(p, level, orig))
	}
	return out, nil
}
