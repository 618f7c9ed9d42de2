package geom

import (
	"testing"

	"github.com/paulmach/orb"
)

func sq(x0, y0, x1, y1 float64) orb.Ring {
	return orb.Ring{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}, {x0, y0}}
}

func TestCleanRing(t *testing.T) {
	vs := []struct {
		name string
		in   orb.Ring
		want orb.Ring
	}{
		{
			name: "consecutive duplicates removed",
			in:   orb.Ring{{0, 0}, {0, 0}, {1, 0}, {1, 0}, {1, 1}, {0, 0}},
			want: orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 0}},
		},
		{
			name: "unclosed input closes",
			in:   orb.Ring{{0, 0}, {1, 0}, {1, 1}},
			want: orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 0}},
		},
		{
			name: "trailing run onto start collapses",
			in:   orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 0}, {0, 0}},
			want: orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 0}},
		},
	}
	for _, v := range vs {
		got := CleanRing(v.in)
		if len(got) != len(v.want) {
			t.Errorf("%s: got %v, want %v", v.name, got, v.want)
			continue
		}
		for i := range got {
			if !SamePoint(got[i], v.want[i]) {
				t.Errorf("%s: point %d: got %v, want %v", v.name, i, got[i], v.want[i])
			}
		}
	}
}

func TestCleanRingIdempotent(t *testing.T) {
	in := orb.Ring{{0, 0}, {2, 0}, {2, 0}, {2, 2}, {0, 2}, {0, 0}}
	once := CleanRing(in)
	twice := CleanRing(once)
	if len(once) != len(twice) {
		t.Fatalf("second clean changed length: %d -> %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("point %d changed on second clean: %v -> %v", i, once[i], twice[i])
		}
	}
}

func TestMidpoints(t *testing.T) {
	r := sq(0, 0, 2, 2)
	got := Midpoints(r)
	if UniquePoints(got) != 8 {
		t.Fatalf("midpoints of a square: got %d unique points, want 8", UniquePoints(got))
	}
	if !got.Closed() {
		t.Fatal("midpoints result is not closed")
	}
	if got[1] != (orb.Point{1, 0}) {
		t.Errorf("first midpoint: got %v, want (1,0)", got[1])
	}
}

func TestEqualUpToRotation(t *testing.T) {
	a := sq(0, 0, 2, 2)
	b := orb.Ring{{2, 0}, {2, 2}, {0, 2}, {0, 0}, {2, 0}}
	if !EqualUpToRotation(a, b) {
		t.Errorf("rotated square not recognized as equal")
	}
	c := sq(0, 0, 2, 3)
	if EqualUpToRotation(a, c) {
		t.Errorf("different rings reported equal")
	}
}

func TestTranslateScale(t *testing.T) {
	p := orb.Polygon{sq(0, 0, 2, 2)}
	moved := Translate(p, 1, -1)
	if moved[0][0] != (orb.Point{1, -1}) {
		t.Errorf("translate: got %v, want (1,-1)", moved[0][0])
	}
	scaled := Scale(p, 2)
	if got := Area(scaled[0]); got != 16 {
		t.Errorf("scale by 2: area got %v, want 16", got)
	}
}
