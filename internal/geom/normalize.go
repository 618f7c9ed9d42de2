package geom

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Coordinates are longitude/latitude degrees as delivered by the map widget.
const (
	minLon, maxLon = -180.0, 180.0
	minLat, maxLat = -90.0, 90.0
)

// Normalize converts any supported geometry shape into a multi-polygon,
// closing and cleaning rings along the way. This is the single place that
// inspects geometry shape; everything past it works on orb.MultiPolygon.
// Gesture input is forgiving: unclosed rings are closed, duplicates dropped.
func Normalize(g orb.Geometry) (orb.MultiPolygon, error) {
	switch v := g.(type) {
	case orb.Ring:
		return orb.MultiPolygon{{CleanRing(CloseRing(v))}}, nil
	case orb.Polygon:
		return orb.MultiPolygon{normalizePolygon(v)}, nil
	case orb.MultiPolygon:
		out := make(orb.MultiPolygon, 0, len(v))
		for _, p := range v {
			out = append(out, normalizePolygon(p))
		}
		return out, nil
	case orb.LineString:
		return orb.MultiPolygon{{CleanRing(CloseRing(orb.Ring(v)))}}, nil
	default:
		return nil, fmt.Errorf("normalize: unsupported geometry type %s", g.GeoJSONType())
	}
}

func normalizePolygon(p orb.Polygon) orb.Polygon {
	out := make(orb.Polygon, 0, len(p))
	for _, r := range p {
		out = append(out, CleanRing(CloseRing(r)))
	}
	return out
}

// Validate applies the strict checks reserved for programmatically injected
// polygons: enough unique points, closed rings, in-range coordinates. Errors
// identify the offending polygon, ring and point so the caller bug is easy to
// locate. Gesture input never goes through here.
func Validate(mp orb.MultiPolygon) error {
	if len(mp) == 0 {
		return fmt.Errorf("validate: empty geometry")
	}
	for gi, p := range mp {
		if len(p) == 0 {
			return fmt.Errorf("validate: polygon %d has no rings", gi)
		}
		for ri, r := range p {
			if !r.Closed() {
				return fmt.Errorf("validate: polygon %d ring %d: not closed", gi, ri)
			}
			if n := UniquePoints(r); n < 3 {
				return fmt.Errorf("validate: polygon %d ring %d: only %d unique points", gi, ri, n)
			}
			for pi, pt := range r {
				if pt[0] < minLon || pt[0] > maxLon || pt[1] < minLat || pt[1] > maxLat {
					return fmt.Errorf("validate: polygon %d ring %d point %d: coordinate out of range (%.4f, %.4f)",
						gi, ri, pi, pt[0], pt[1])
				}
			}
		}
	}
	return nil
}
