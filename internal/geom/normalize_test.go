package geom

import (
	"strings"
	"testing"

	"github.com/paulmach/orb"
)

func TestNormalizeShapes(t *testing.T) {
	ring := orb.Ring{{0, 0}, {1, 0}, {1, 1}} // unclosed on purpose
	vs := []struct {
		name string
		in   orb.Geometry
		want int // polygons
	}{
		{"ring", ring, 1},
		{"polygon", orb.Polygon{sq(0, 0, 1, 1)}, 1},
		{"multipolygon", orb.MultiPolygon{{sq(0, 0, 1, 1)}, {sq(2, 2, 3, 3)}}, 2},
		{"linestring stroke", orb.LineString{{0, 0}, {1, 0}, {1, 1}}, 1},
	}
	for _, v := range vs {
		mp, err := Normalize(v.in)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", v.name, err)
			continue
		}
		if len(mp) != v.want {
			t.Errorf("%s: got %d polygons, want %d", v.name, len(mp), v.want)
		}
		for gi, p := range mp {
			for ri, r := range p {
				if !r.Closed() {
					t.Errorf("%s: polygon %d ring %d not closed", v.name, gi, ri)
				}
			}
		}
	}
}

func TestNormalizeUnsupported(t *testing.T) {
	if _, err := Normalize(orb.Point{1, 2}); err == nil {
		t.Errorf("point geometry: want error, got nil")
	}
}

func TestValidateErrors(t *testing.T) {
	vs := []struct {
		name string
		in   orb.MultiPolygon
		frag string
	}{
		{"empty", orb.MultiPolygon{}, "empty"},
		{"no rings", orb.MultiPolygon{{}}, "no rings"},
		{"unclosed", orb.MultiPolygon{{orb.Ring{{0, 0}, {1, 0}, {1, 1}}}}, "not closed"},
		{"too few points", orb.MultiPolygon{{orb.Ring{{0, 0}, {1, 0}, {0, 0}}}}, "unique points"},
		{"out of range", orb.MultiPolygon{{orb.Ring{{0, 0}, {200, 0}, {1, 1}, {0, 0}}}}, "point 1"},
	}
	for _, v := range vs {
		err := Validate(v.in)
		if err == nil {
			t.Errorf("%s: want error, got nil", v.name)
			continue
		}
		if !strings.Contains(err.Error(), v.frag) {
			t.Errorf("%s: error %q does not mention %q", v.name, err, v.frag)
		}
	}
}

func TestValidateOK(t *testing.T) {
	mp := orb.MultiPolygon{{sq(0, 0, 10, 10), sq(2, 2, 4, 4)}}
	if err := Validate(mp); err != nil {
		t.Errorf("valid polygon rejected: %v", err)
	}
}
