// Package topology decomposes self-intersecting polygons into disjoint
// simple polygons and decides which holes survive the split. Hand-drawn and
// dragged rings routinely cross themselves; everything the mutation pipeline
// outputs goes through Resolve first.
package topology

import (
	"github.com/paulmach/orb"

	"github.com/AndreasOlausson/leaflet-polydraw-sub003/internal/geom"
)

// Resolve turns a possibly self-intersecting polygon into a set of simple
// polygons. A simple input comes back as a single polygon, cleaned but
// otherwise unchanged. A kinked outer ring is split into disjoint pieces at
// its intersection points; each hole is then re-attached to the piece that
// fully contains it. A hole crossed by the cut belongs to no single piece
// and is dropped: its enclosed area has been absorbed into the split result
// and no longer has a well-defined boundary.
//
// If kink detection itself fails, the input is returned untouched as a
// single piece; a user edit is never lost to a geometry error.
func Resolve(poly orb.Polygon) []orb.Polygon {
	if len(poly) == 0 {
		return nil
	}
	outer := geom.CleanRing(geom.CloseRing(poly[0]))
	kinks, err := Kinks(outer)
	if err != nil {
		return []orb.Polygon{poly}
	}

	holes := simpleHoles(poly[1:])

	if len(kinks) == 0 {
		out := orb.Polygon{orient(outer, orb.CCW)}
		for _, h := range holes {
			out = append(out, orient(h, orb.CW))
		}
		return []orb.Polygon{out}
	}

	var pieces []orb.Ring
	for _, loop := range traceLoops(withCuts(outer, kinks)) {
		loop = geom.CleanRing(loop)
		if geom.UniquePoints(loop) < 3 || geom.Area(loop) <= geom.AreaEpsilon {
			continue
		}
		pieces = append(pieces, orient(loop, orb.CCW))
	}
	if len(pieces) == 0 {
		return []orb.Polygon{poly}
	}

	out := make([]orb.Polygon, len(pieces))
	for i, p := range pieces {
		out[i] = orb.Polygon{p}
	}
	for _, h := range holes {
		for i, p := range pieces {
			if geom.RingContainsRing(p, h) {
				out[i] = append(out[i], orient(h, orb.CW))
				break
			}
		}
		// not contained by any single piece: the cut ran through it, drop
	}
	return out
}

// simpleHoles cleans the hole rings and decomposes any that intersect
// themselves, so containment tests below run on simple rings only.
func simpleHoles(holes []orb.Ring) []orb.Ring {
	var out []orb.Ring
	for _, h := range holes {
		h = geom.CleanRing(geom.CloseRing(h))
		kinks, err := Kinks(h)
		if err != nil {
			continue
		}
		if len(kinks) == 0 {
			out = append(out, h)
			continue
		}
		for _, loop := range traceLoops(withCuts(h, kinks)) {
			loop = geom.CleanRing(loop)
			if geom.UniquePoints(loop) >= 3 && geom.Area(loop) > geom.AreaEpsilon {
				out = append(out, loop)
			}
		}
	}
	return out
}

func orient(r orb.Ring, want orb.Orientation) orb.Ring {
	if r.Orientation() != want {
		r.Reverse()
	}
	return r
}
