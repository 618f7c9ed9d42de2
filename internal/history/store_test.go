package history

import (
	"fmt"
	"testing"

	"github.com/paulmach/orb"

	"github.com/AndreasOlausson/leaflet-polydraw-sub003/internal/geom"
)

func feat(x float64) geom.Feature {
	return geom.NewFeature(orb.Polygon{{{x, 0}, {x + 1, 0}, {x + 1, 1}, {x, 1}, {x, 0}}}, 0, 0)
}

func snap(label string, n int) Snapshot {
	var fs []geom.Feature
	for i := 0; i < n; i++ {
		fs = append(fs, feat(float64(i)))
	}
	return NewSnapshot(fs, label)
}

func TestPushEvictsOldestFirst(t *testing.T) {
	s := NewStore(Config{MaxHistorySize: 3})
	for i := 0; i < 5; i++ {
		s.Push(snap(fmt.Sprintf("a%d", i), 1))
	}
	undo, _ := s.Len()
	if undo != 3 {
		t.Fatalf("undo depth: got %d, want 3", undo)
	}
	// the oldest surviving entry must be a2: pop everything and check order
	var labels []string
	for s.CanUndo() {
		labels = append(labels, s.Undo(snap("live", 1)).Label)
	}
	want := []string{"a4", "a3", "a2"}
	for i, w := range want {
		if labels[i] != w {
			t.Errorf("pop %d: got %q, want %q", i, labels[i], w)
		}
	}
}

func TestOversizedSnapshotSkippedButClearsRedo(t *testing.T) {
	s := NewStore(Config{MaxSnapshotSize: 512})
	s.Push(snap("small", 1))
	if s.Undo(snap("live", 1)) == nil {
		t.Fatal("undo after push returned nil")
	}
	if !s.CanRedo() {
		t.Fatal("redo stack empty after undo")
	}
	big := snap("big", 200)
	if big.Size() <= 512 {
		t.Fatalf("test snapshot too small to exercise the budget: %d bytes", big.Size())
	}
	s.Push(big)
	if s.CanUndo() {
		t.Errorf("oversized snapshot was stored")
	}
	if s.CanRedo() {
		t.Errorf("a new action must clear the redo stack even when its snapshot is skipped")
	}
}

func TestTotalMemoryEviction(t *testing.T) {
	one := snap("probe", 2)
	budget := 2*one.Size() + one.Size()/2
	s := NewStore(Config{MaxTotalMemory: budget})
	for i := 0; i < 4; i++ {
		s.Push(snap(fmt.Sprintf("m%d", i), 2))
	}
	undo, _ := s.Len()
	if undo != 2 {
		t.Errorf("memory budget for ~2 snapshots: got depth %d, want 2", undo)
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	s := NewStore(Config{})
	before := snap("step", 1)
	s.Push(before)
	live := snap("", 3) // state after the mutation

	restored := s.Undo(live)
	if restored == nil || len(restored.Features) != 1 {
		t.Fatalf("undo: got %+v, want the 1-feature snapshot", restored)
	}
	redone := s.Redo(*restored)
	if redone == nil || len(redone.Features) != 3 {
		t.Fatalf("redo: got %+v, want the 3-feature live state back", redone)
	}
}

func TestUndoEmpty(t *testing.T) {
	s := NewStore(Config{})
	if s.Undo(snap("live", 1)) != nil {
		t.Errorf("undo on empty store returned a snapshot")
	}
	if s.Redo(snap("live", 1)) != nil {
		t.Errorf("redo on empty store returned a snapshot")
	}
}

func TestRestoreGuard(t *testing.T) {
	s := NewStore(Config{})
	s.BeginRestore()
	s.Push(snap("during", 1))
	s.EndRestore()
	if s.CanUndo() {
		t.Errorf("push during restore was recorded")
	}
	s.Push(snap("after", 1))
	if !s.CanUndo() {
		t.Errorf("push after restore was dropped")
	}
}

func TestStateAndNotify(t *testing.T) {
	s := NewStore(Config{})
	var last State
	calls := 0
	s.OnChange(func(st State) { last = st; calls++ })

	s.Push(snap("draw", 1))
	if calls == 0 {
		t.Fatal("no change notification after push")
	}
	if !last.CanUndo || last.CanRedo {
		t.Errorf("state after push: %+v", last)
	}
	if last.Label != "draw" {
		t.Errorf("state label: got %q, want %q", last.Label, "draw")
	}
	s.Clear()
	if last.CanUndo || last.CanRedo {
		t.Errorf("state after clear: %+v", last)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	fs := []geom.Feature{feat(0)}
	snap := NewSnapshot(fs, "iso")
	fs[0].Polygon[0][0] = orb.Point{99, 99}
	if snap.Features[0].Polygon[0][0] == (orb.Point{99, 99}) {
		t.Errorf("snapshot shares geometry with the live set")
	}
}
