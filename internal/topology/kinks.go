package topology

import (
	"errors"
	"math"
	"sort"

	"github.com/paulmach/orb"

	"github.com/AndreasOlausson/leaflet-polydraw-sub003/internal/geom"
)

// ErrDegenerateRing means the ring has too few unique points to test.
var ErrDegenerateRing = errors.New("kinks: ring has fewer than 3 unique points")

// Kink is a self-intersection point within a ring. SegA and SegB index the
// two crossing edges (edge i runs r[i] -> r[i+1]).
type Kink struct {
	Point orb.Point
	SegA  int
	SegB  int
}

// paramEps excludes crossings at (or extremely near) segment endpoints:
// consecutive edges always share a vertex and must not count as kinks.
const paramEps = 1e-9

// Kinks finds all proper self-intersections of a ring. The ring is expected
// to be clean and closed. Collinear overlaps are not reported; they collapse
// away during cleanup or boolean ops.
func Kinks(r orb.Ring) ([]Kink, error) {
	if geom.UniquePoints(r) < 3 {
		return nil, ErrDegenerateRing
	}
	n := len(r) - 1 // closed ring: n edges
	var out []Kink
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if j == i+1 || (i == 0 && j == n-1) {
				continue // adjacent edges share a vertex
			}
			if pt, ok := segmentCross(r[i], r[i+1], r[j], r[j+1]); ok {
				out = append(out, Kink{Point: pt, SegA: i, SegB: j})
			}
		}
	}
	return out, nil
}

// segmentCross returns the proper intersection of segments a-b and c-d,
// excluding endpoint touches and parallel overlaps.
func segmentCross(a, b, c, d orb.Point) (orb.Point, bool) {
	rx, ry := b[0]-a[0], b[1]-a[1]
	sx, sy := d[0]-c[0], d[1]-c[1]
	denom := rx*sy - ry*sx
	if math.Abs(denom) < 1e-15 {
		return orb.Point{}, false
	}
	qx, qy := c[0]-a[0], c[1]-a[1]
	t := (qx*sy - qy*sx) / denom
	u := (qx*ry - qy*rx) / denom
	if t <= paramEps || t >= 1-paramEps || u <= paramEps || u >= 1-paramEps {
		return orb.Point{}, false
	}
	return orb.Point{a[0] + t*rx, a[1] + t*ry}, true
}

// edgeParam returns how far along edge a-b the point p sits, in [0,1].
func edgeParam(a, b, p orb.Point) float64 {
	dx, dy := b[0]-a[0], b[1]-a[1]
	if math.Abs(dx) >= math.Abs(dy) {
		if dx == 0 {
			return 0
		}
		return (p[0] - a[0]) / dx
	}
	return (p[1] - a[1]) / dy
}

// withCuts rebuilds the ring's vertex cycle with every kink point spliced
// into both of its edges, ordered along each edge. The result is open: the
// first vertex appears once and there is no closing duplicate.
func withCuts(r orb.Ring, kinks []Kink) orb.Ring {
	type cut struct {
		t float64
		p orb.Point
	}
	perEdge := make(map[int][]cut)
	for _, k := range kinks {
		for _, e := range [2]int{k.SegA, k.SegB} {
			perEdge[e] = append(perEdge[e], cut{t: edgeParam(r[e], r[e+1], k.Point), p: k.Point})
		}
	}
	out := make(orb.Ring, 0, len(r)+2*len(kinks))
	for i := 0; i+1 < len(r); i++ {
		out = append(out, r[i])
		cuts := perEdge[i]
		sort.Slice(cuts, func(a, b int) bool { return cuts[a].t < cuts[b].t })
		for _, c := range cuts {
			out = append(out, c.p)
		}
	}
	return out
}

// traceLoops walks the cut-augmented cycle and extracts a simple loop every
// time a point repeats, collapsing the walk back to the first occurrence.
// The leftover walk closes into the final loop.
func traceLoops(aug orb.Ring) []orb.Ring {
	var loops []orb.Ring
	var stack orb.Ring
	for _, p := range aug {
		found := -1
		for i := len(stack) - 1; i >= 0; i-- {
			if geom.SamePoint(stack[i], p) {
				found = i
				break
			}
		}
		if found < 0 {
			stack = append(stack, p)
			continue
		}
		loop := make(orb.Ring, 0, len(stack)-found+1)
		loop = append(loop, stack[found:]...)
		loop = append(loop, stack[found])
		loops = append(loops, loop)
		stack = stack[:found+1]
	}
	if len(stack) >= 3 {
		final := make(orb.Ring, 0, len(stack)+1)
		final = append(final, stack...)
		final = append(final, stack[0])
		loops = append(loops, final)
	}
	return loops
}
