package geom

import (
	"fmt"
	"math"

	polyclip "github.com/ctessum/polyclip-go"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Boolean set algebra runs on polyclip contours; everything above this file
// speaks orb values. Contours are converted open (no closing point) and
// results come back as closed rings grouped into polygons, outer rings CCW
// and holes CW.

func toClip(p orb.Polygon) polyclip.Polygon {
	out := make(polyclip.Polygon, 0, len(p))
	for _, r := range p {
		r = CleanRing(r)
		if len(r) > 1 && r.Closed() {
			r = r[:len(r)-1]
		}
		if len(r) < 3 {
			continue
		}
		ct := make(polyclip.Contour, 0, len(r))
		for _, pt := range r {
			ct = append(ct, polyclip.Point{X: pt[0], Y: pt[1]})
		}
		out = append(out, ct)
	}
	return out
}

func toRing(ct polyclip.Contour) orb.Ring {
	r := make(orb.Ring, 0, len(ct)+1)
	for _, pt := range ct {
		r = append(r, orb.Point{pt.X, pt.Y})
	}
	return CloseRing(r)
}

// contourContains reports whether inner lies inside outer. Result contours of
// a boolean op may share vertices, so a majority vote over inner's vertices is
// used instead of a single representative point.
func contourContains(outer, inner polyclip.Contour) bool {
	if len(inner) == 0 {
		return false
	}
	in := 0
	for _, pt := range inner {
		if outer.Contains(pt) {
			in++
		}
	}
	return in*2 > len(inner)
}

// fromClip groups result contours into polygons by containment depth: even
// depth contours are outer rings, odd depth contours become holes of their
// immediate parent.
func fromClip(res polyclip.Polygon) orb.MultiPolygon {
	n := len(res)
	if n == 0 {
		return nil
	}
	depth := make([]int, n)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = -1
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if contourContains(res[j], res[i]) {
				depth[i]++
				if parent[i] == -1 || contourContains(res[parent[i]], res[j]) {
					parent[i] = j
				}
			}
		}
	}
	polyOf := make(map[int]int, n) // contour index -> output polygon index
	var out orb.MultiPolygon
	for i := 0; i < n; i++ {
		if depth[i]%2 != 0 {
			continue
		}
		r := toRing(res[i])
		if r.Orientation() != orb.CCW {
			r.Reverse()
		}
		polyOf[i] = len(out)
		out = append(out, orb.Polygon{r})
	}
	for i := 0; i < n; i++ {
		if depth[i]%2 == 0 || parent[i] == -1 {
			continue
		}
		pi, ok := polyOf[parent[i]]
		if !ok {
			continue
		}
		r := toRing(res[i])
		if r.Orientation() != orb.CW {
			r.Reverse()
		}
		out[pi] = append(out[pi], r)
	}
	return out
}

// construct runs one boolean operation, converting polyclip panics on
// degenerate input into errors so callers can degrade instead of crashing.
func construct(op polyclip.Op, a, b orb.Polygon) (mp orb.MultiPolygon, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("boolean op: %v", r)
		}
	}()
	ca, cb := toClip(a), toClip(b)
	if len(ca) == 0 || len(cb) == 0 {
		return nil, fmt.Errorf("boolean op: degenerate input (%d/%d contours)", len(ca), len(cb))
	}
	return fromClip(ca.Construct(op, cb)), nil
}

// Union merges a and b into one or more polygons.
func Union(a, b orb.Polygon) (orb.MultiPolygon, error) {
	return construct(polyclip.UNION, a, b)
}

// Difference subtracts b from a. The result may contain several disjoint
// polygons and new holes.
func Difference(a, b orb.Polygon) (orb.MultiPolygon, error) {
	return construct(polyclip.DIFFERENCE, a, b)
}

// Intersection returns the overlap of a and b.
func Intersection(a, b orb.Polygon) (orb.MultiPolygon, error) {
	return construct(polyclip.INTERSECTION, a, b)
}

// Intersects reports whether a and b share interior area. Boolean failures
// count as "no intersection" so geometry trouble degrades to no merge.
func Intersects(a, b orb.Polygon) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	if !a.Bound().Intersects(b.Bound()) {
		return false
	}
	mp, err := Intersection(a, b)
	if err != nil {
		return false
	}
	return Area(mp) > AreaEpsilon
}

// Area returns the unsigned planar area of g.
func Area(g orb.Geometry) float64 {
	return math.Abs(planar.Area(g))
}

// RingContainsPoint reports whether pt lies inside r.
func RingContainsPoint(r orb.Ring, pt orb.Point) bool {
	r = CleanRing(r)
	if len(r) < 4 {
		return false
	}
	ct := make(polyclip.Contour, 0, len(r)-1)
	for _, p := range r[:len(r)-1] {
		ct = append(ct, polyclip.Point{X: p[0], Y: p[1]})
	}
	return ct.Contains(polyclip.Point{X: pt[0], Y: pt[1]})
}

// RingContainsRing reports whether every vertex of inner lies inside outer.
func RingContainsRing(outer, inner orb.Ring) bool {
	inner = CleanRing(inner)
	if len(inner) < 4 {
		return false
	}
	for _, pt := range inner[:len(inner)-1] {
		if !RingContainsPoint(outer, pt) {
			return false
		}
	}
	return true
}
