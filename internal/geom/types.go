package geom

import "github.com/paulmach/orb"

// Optimization levels control how many vertices of a polygon stay visually
// salient. 0 means full detail, 10 the most aggressive fading.
const (
	MinLevel = 0
	MaxLevel = 10
)

// ClampLevel forces v into the valid optimization-level range.
func ClampLevel(v int) int {
	if v < MinLevel {
		return MinLevel
	}
	if v > MaxLevel {
		return MaxLevel
	}
	return v
}

// Feature is one finalized polygon: an outer ring plus zero or more hole
// rings, with its optimization levels. A Feature is treated as immutable once
// produced by a mutation step; edits always build new Features.
type Feature struct {
	Polygon orb.Polygon `json:"polygon"`

	// Level is the current optimization level, OriginalLevel the value the
	// feature was created with so a later toggle can restore full detail.
	Level         int `json:"level"`
	OriginalLevel int `json:"originalLevel"`

	// Important holds outer-ring vertex indices that must stay salient.
	// Recomputed after every mutation, so it is not part of snapshots.
	Important map[int]bool `json:"-"`
}

// NewFeature builds a feature with clamped levels and no importance set; the
// caller refreshes importance once the geometry is final.
func NewFeature(p orb.Polygon, level, originalLevel int) Feature {
	return Feature{
		Polygon:       p,
		Level:         ClampLevel(level),
		OriginalLevel: ClampLevel(originalLevel),
	}
}

// Clone deep-copies the feature, geometry included.
func (f Feature) Clone() Feature {
	out := f
	out.Polygon = f.Polygon.Clone()
	if f.Important != nil {
		out.Important = make(map[int]bool, len(f.Important))
		for k, v := range f.Important {
			out.Important[k] = v
		}
	}
	return out
}

// Outer returns the feature's outer ring (nil for an empty feature).
func (f Feature) Outer() orb.Ring {
	if len(f.Polygon) == 0 {
		return nil
	}
	return f.Polygon[0]
}

// Holes returns the feature's hole rings.
func (f Feature) Holes() []orb.Ring {
	if len(f.Polygon) < 2 {
		return nil
	}
	return f.Polygon[1:]
}
