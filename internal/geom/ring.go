package geom

import (
	"math"

	"github.com/paulmach/orb"
)

// Epsilon merges points closer than this on either axis; coordinates are
// degrees, so this is well below any on-screen resolution.
const Epsilon = 1e-9

// AreaEpsilon is the threshold under which a ring is treated as having no
// effective area.
const AreaEpsilon = 1e-12

// SamePoint reports whether two points coincide within Epsilon per axis.
func SamePoint(a, b orb.Point) bool {
	return math.Abs(a[0]-b[0]) < Epsilon && math.Abs(a[1]-b[1]) < Epsilon
}

// CleanRing removes consecutive duplicate vertices and re-closes the ring.
// Cleaning an already-clean ring returns an equal ring. Every structural
// change runs through this first.
func CleanRing(r orb.Ring) orb.Ring {
	if len(r) == 0 {
		return r
	}
	out := make(orb.Ring, 0, len(r))
	out = append(out, r[0])
	for _, p := range r[1:] {
		if SamePoint(p, out[len(out)-1]) {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && SamePoint(out[len(out)-1], out[0]) {
		out = out[:len(out)-1]
	}
	return append(out, out[0])
}

// CleanPolygon runs CleanRing over every ring of p.
func CleanPolygon(p orb.Polygon) orb.Polygon {
	out := make(orb.Polygon, 0, len(p))
	for _, r := range p {
		out = append(out, CleanRing(r))
	}
	return out
}

// CloseRing appends the first point if the ring is not already closed.
func CloseRing(r orb.Ring) orb.Ring {
	if len(r) == 0 || r.Closed() {
		return r
	}
	return append(r, r[0])
}

// UniquePoints counts the distinct vertices of a ring, ignoring the closing
// point and consecutive duplicates.
func UniquePoints(r orb.Ring) int {
	return len(CleanRing(r)) - 1
}

// Midpoints inserts the midpoint of every edge, doubling the elbow count.
func Midpoints(r orb.Ring) orb.Ring {
	r = CleanRing(r)
	if len(r) < 3 {
		return r
	}
	out := make(orb.Ring, 0, 2*len(r))
	for i := 0; i+1 < len(r); i++ {
		a, b := r[i], r[i+1]
		out = append(out, a, orb.Point{(a[0] + b[0]) / 2, (a[1] + b[1]) / 2})
	}
	return append(out, out[0])
}

// Smooth applies one corner-cutting pass: each vertex is replaced by the two
// points a quarter of the way along its adjacent edges. The result keeps the
// ring closed and roughly doubles the vertex count.
func Smooth(r orb.Ring) orb.Ring {
	r = CleanRing(r)
	if len(r) < 4 {
		return r
	}
	out := make(orb.Ring, 0, 2*len(r))
	for i := 0; i+1 < len(r); i++ {
		a, b := r[i], r[i+1]
		out = append(out,
			orb.Point{a[0] + (b[0]-a[0])*0.25, a[1] + (b[1]-a[1])*0.25},
			orb.Point{a[0] + (b[0]-a[0])*0.75, a[1] + (b[1]-a[1])*0.75},
		)
	}
	return append(out, out[0])
}

// BoundRing returns the closed rectangle ring of p's bounding box.
func BoundRing(p orb.Polygon) orb.Ring {
	return p.Bound().ToRing()
}

// Translate shifts every ring of p by (dx, dy).
func Translate(p orb.Polygon, dx, dy float64) orb.Polygon {
	out := make(orb.Polygon, len(p))
	for i, r := range p {
		nr := make(orb.Ring, len(r))
		for j, pt := range r {
			nr[j] = orb.Point{pt[0] + dx, pt[1] + dy}
		}
		out[i] = nr
	}
	return out
}

// Scale scales every ring of p around its bound center by factor.
func Scale(p orb.Polygon, factor float64) orb.Polygon {
	c := p.Bound().Center()
	out := make(orb.Polygon, len(p))
	for i, r := range p {
		nr := make(orb.Ring, len(r))
		for j, pt := range r {
			nr[j] = orb.Point{c[0] + (pt[0]-c[0])*factor, c[1] + (pt[1]-c[1])*factor}
		}
		out[i] = nr
	}
	return out
}

// EqualUpToRotation reports whether two closed rings describe the same cycle,
// allowing the start vertex to differ.
func EqualUpToRotation(a, b orb.Ring) bool {
	a, b = CleanRing(a), CleanRing(b)
	if len(a) != len(b) {
		return false
	}
	n := len(a) - 1 // closing point
	if n <= 0 {
		return len(b)-1 <= 0
	}
	for off := 0; off < n; off++ {
		match := true
		for i := 0; i < n; i++ {
			if !SamePoint(a[i], b[(i+off)%n]) {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
