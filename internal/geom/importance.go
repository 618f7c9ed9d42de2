package geom

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/simplify"
)

// SelectorConfig tunes how optimization levels map to simplification
// tolerance. Level t in [0,1] picks a tolerance along a power curve between
// ToleranceMin and ToleranceMax; the curve keeps low levels gentle.
type SelectorConfig struct {
	ToleranceMin float64
	ToleranceMax float64
	CurvePower   float64
}

// DefaultSelectorConfig returns tolerances suited to lon/lat degree space.
func DefaultSelectorConfig() SelectorConfig {
	return SelectorConfig{
		ToleranceMin: 1e-5,
		ToleranceMax: 1e-2,
		CurvePower:   1.35,
	}
}

// Tolerance returns the simplification tolerance for an optimization level.
func (c SelectorConfig) Tolerance(level int) float64 {
	t := float64(ClampLevel(level)) / float64(MaxLevel)
	return c.ToleranceMin + (c.ToleranceMax-c.ToleranceMin)*math.Pow(t, c.CurvePower)
}

// SelectImportant returns the ring vertex indices that must remain visually
// salient at the given optimization level. Index 0 and all special indices
// (anchors for non-geometry markers) are always included. Level 0 and tiny
// rings keep everything.
func (c SelectorConfig) SelectImportant(r orb.Ring, level int, special []int) map[int]bool {
	n := len(r)
	distinct := n
	if n > 0 && r.Closed() {
		distinct--
	}
	if level <= MinLevel || distinct <= 3 {
		return allImportant(n)
	}

	simplified := simplify.DouglasPeucker(c.Tolerance(level)).Ring(r.Clone())
	if len(simplified) < 3 {
		// degenerate simplification, keep full detail
		return allImportant(n)
	}

	out := make(map[int]bool, len(simplified)+len(special)+1)
	for _, kept := range simplified {
		if idx := nearestIndex(r, kept); idx >= 0 {
			out[idx] = true
		}
	}
	out[0] = true
	for _, s := range special {
		if s >= 0 && s < n {
			out[s] = true
		}
	}
	return out
}

// SimplifyPolygon runs Douglas-Peucker over every ring of p at the given
// tolerance. The input is left untouched.
func SimplifyPolygon(p orb.Polygon, tol float64) orb.Polygon {
	return simplify.DouglasPeucker(tol).Polygon(p.Clone())
}

func allImportant(n int) map[int]bool {
	out := make(map[int]bool, n)
	for i := 0; i < n; i++ {
		out[i] = true
	}
	return out
}

// nearestIndex finds the original-ring vertex closest to pt.
func nearestIndex(r orb.Ring, pt orb.Point) int {
	best, bestIdx := math.MaxFloat64, -1
	for i, p := range r {
		if d := planar.DistanceSquared(p, pt); d < best {
			best, bestIdx = d, i
		}
	}
	return bestIdx
}
