package geom

import (
	"testing"

	"github.com/paulmach/orb"
)

// noisySquare is a 1x1-degree square with redundant collinear vertices along
// every edge, the kind of ring a freehand stroke produces.
func noisySquare() orb.Ring {
	var r orb.Ring
	steps := 5
	for i := 0; i < steps; i++ {
		r = append(r, orb.Point{float64(i) / float64(steps), 0})
	}
	for i := 0; i < steps; i++ {
		r = append(r, orb.Point{1, float64(i) / float64(steps)})
	}
	for i := 0; i < steps; i++ {
		r = append(r, orb.Point{1 - float64(i)/float64(steps), 1})
	}
	for i := 0; i < steps; i++ {
		r = append(r, orb.Point{0, 1 - float64(i)/float64(steps)})
	}
	return append(r, r[0])
}

func TestSelectImportantAlwaysKeepsAnchors(t *testing.T) {
	cfg := DefaultSelectorConfig()
	ring := noisySquare()
	special := []int{3, 7}
	for level := MinLevel; level <= MaxLevel; level++ {
		got := cfg.SelectImportant(ring, level, special)
		if !got[0] {
			t.Errorf("level %d: index 0 not important", level)
		}
		for _, s := range special {
			if !got[s] {
				t.Errorf("level %d: special index %d not important", level, s)
			}
		}
	}
}

func TestSelectImportantLevelZeroKeepsAll(t *testing.T) {
	cfg := DefaultSelectorConfig()
	ring := noisySquare()
	got := cfg.SelectImportant(ring, 0, nil)
	if len(got) != len(ring) {
		t.Errorf("level 0: got %d important, want all %d", len(got), len(ring))
	}
}

func TestSelectImportantTinyRingKeepsAll(t *testing.T) {
	cfg := DefaultSelectorConfig()
	tri := orb.Ring{{0, 0}, {1, 0}, {0, 1}, {0, 0}}
	got := cfg.SelectImportant(tri, 10, nil)
	if len(got) != len(tri) {
		t.Errorf("triangle: got %d important, want all %d", len(got), len(tri))
	}
}

func TestSelectImportantFadesAtHighLevel(t *testing.T) {
	cfg := DefaultSelectorConfig()
	ring := noisySquare()
	got := cfg.SelectImportant(ring, 10, nil)
	if len(got) >= len(ring) {
		t.Errorf("level 10 on a collinear-heavy ring: %d of %d vertices still important", len(got), len(ring))
	}
}

func TestToleranceMonotonic(t *testing.T) {
	cfg := DefaultSelectorConfig()
	prev := cfg.Tolerance(0)
	if prev != cfg.ToleranceMin {
		t.Errorf("level 0 tolerance: got %v, want %v", prev, cfg.ToleranceMin)
	}
	for level := 1; level <= MaxLevel; level++ {
		cur := cfg.Tolerance(level)
		if cur <= prev {
			t.Errorf("tolerance not increasing at level %d: %v <= %v", level, cur, prev)
		}
		prev = cur
	}
	if prev != cfg.ToleranceMax {
		t.Errorf("level 10 tolerance: got %v, want %v", prev, cfg.ToleranceMax)
	}
}

func TestClampLevel(t *testing.T) {
	vs := []struct{ in, want int }{{-1, 0}, {0, 0}, {5, 5}, {10, 10}, {99, 10}}
	for _, v := range vs {
		if got := ClampLevel(v.in); got != v.want {
			t.Errorf("ClampLevel(%d): got %d, want %d", v.in, got, v.want)
		}
	}
}
