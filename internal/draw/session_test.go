package draw

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"

	"github.com/AndreasOlausson/leaflet-polydraw-sub003/internal/geom"
	"github.com/AndreasOlausson/leaflet-polydraw-sub003/internal/modes"
)

func TestDragSlotIsExclusive(t *testing.T) {
	e, reg := newEngine()
	g := reg.Add(geom.NewFeature(orb.Polygon{sq(0, 0, 2, 2)}, 0, 0))

	s, err := e.StartDrag(g, OpMarkerDrag, reg)
	if err != nil {
		t.Fatalf("first drag: %v", err)
	}
	if _, err := e.StartDrag(g, OpPolygonDrag, reg); !errors.Is(err, ErrDragActive) {
		t.Errorf("second drag: got %v, want ErrDragActive", err)
	}
	s.Cancel()
	if e.ActiveSession() != nil {
		t.Fatal("cancel did not free the slot")
	}
	if _, err := e.StartDrag(g, OpPolygonDrag, reg); err != nil {
		t.Errorf("drag after cancel: %v", err)
	}
}

func TestDragGatedByMode(t *testing.T) {
	e, reg := newEngine()
	g := reg.Add(geom.NewFeature(orb.Polygon{sq(0, 0, 2, 2)}, 0, 0))

	e.Modes().Transition(modes.Add)
	if _, err := e.StartDrag(g, OpMarkerDrag, reg); !errors.Is(err, ErrNotPermitted) {
		t.Errorf("marker drag in add mode: got %v, want ErrNotPermitted", err)
	}

	e.Modes().Transition(modes.Off)
	if _, err := e.StartDrag(g, OpMarkerDrag, reg); err != nil {
		t.Errorf("marker drag in off mode: %v", err)
	}
}

func TestModeChangeCancelsDrag(t *testing.T) {
	e, reg := newEngine()
	g := reg.Add(geom.NewFeature(orb.Polygon{sq(0, 0, 2, 2)}, 0, 0))

	s, err := e.StartDrag(g, OpPolygonDrag, reg)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	e.Modes().Transition(modes.Subtract)
	if s.State() != SessionCancelled {
		t.Errorf("session state after mode change: got %v, want cancelled", s.State())
	}
	if e.ActiveSession() != nil {
		t.Error("slot still held after cancel")
	}
	if _, err := s.Commit(); err == nil {
		t.Error("commit on cancelled session: want error")
	}
}

func TestDragIsolatedUntilCommit(t *testing.T) {
	e, reg := newEngine()
	g := reg.Add(geom.NewFeature(orb.Polygon{sq(0, 0, 2, 2)}, 0, 0))

	s, err := e.StartDrag(g, OpPolygonDrag, reg)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.Translate(10, 5); err != nil {
		t.Fatalf("translate: %v", err)
	}
	if got := g.Feature().Polygon[0][0]; got != (orb.Point{0, 0}) {
		t.Fatalf("live feature moved mid-drag: %v", got)
	}
	if got := s.Geometry()[0][0]; got != (orb.Point{10, 5}) {
		t.Fatalf("working copy not translated: %v", got)
	}

	res, err := s.Commit()
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if len(res.Remove) != 1 || len(res.Add) != 1 {
		t.Fatalf("commit result: -%d +%d, want -1 +1", len(res.Remove), len(res.Add))
	}
	if got := res.Add[0].Polygon[0][0]; got != (orb.Point{10, 5}) {
		t.Errorf("committed position: got %v, want {10 5}", got)
	}
	if s.State() != SessionCommitted {
		t.Errorf("state after commit: got %v", s.State())
	}
	if e.ActiveSession() != nil {
		t.Error("slot still held after commit")
	}
}

func TestMarkerDragCommitSplitsSelfIntersection(t *testing.T) {
	e, reg := newEngine()
	g := reg.Add(geom.NewFeature(orb.Polygon{sq(0, 0, 2, 2)}, 0, 0))

	s, err := e.StartDrag(g, OpMarkerDrag, reg)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	// dragging (2,2) down across the bottom edge twists the ring
	if err := s.Move(orb.Polygon{{{0, 0}, {2, 0}, {1, -2}, {0, 2}, {0, 0}}}); err != nil {
		t.Fatalf("move: %v", err)
	}
	res, err := s.Commit()
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if len(res.Add) != 2 {
		t.Fatalf("twisted ring: got %d features, want 2", len(res.Add))
	}
}

func TestDragPushesHistoryOncePerGesture(t *testing.T) {
	e, reg := newEngine()
	g := reg.Add(geom.NewFeature(orb.Polygon{sq(0, 0, 2, 2)}, 0, 0))

	s, err := e.StartDrag(g, OpPolygonDrag, reg)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	for i := 0; i < 5; i++ {
		if err := s.Translate(1, 0); err != nil {
			t.Fatalf("translate %d: %v", i, err)
		}
	}
	res, err := s.Commit()
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	reg.Apply(res)
	if undo, _ := e.History().Len(); undo != 1 {
		t.Errorf("undo depth after gesture: got %d, want 1", undo)
	}
}
