// Package history keeps a bounded undo/redo stack of whole-polygon-set
// snapshots. Budgets are enforced on push: an oversized snapshot is skipped
// (undo depth degrades, live state never corrupts) and old entries are
// evicted oldest-first when count or total memory run over.
package history

import (
	"encoding/json"
	"log"
	"time"

	"github.com/AndreasOlausson/leaflet-polydraw-sub003/internal/geom"
)

// Config bounds the store. Zero values fall back to defaults.
type Config struct {
	MaxHistorySize  int   // max snapshot count per stack
	MaxTotalMemory  int64 // byte budget across both stacks
	MaxSnapshotSize int64 // byte budget for a single snapshot
}

// DefaultConfig matches interactive-editing expectations: deep enough for a
// session, small enough to never matter memory-wise.
func DefaultConfig() Config {
	return Config{
		MaxHistorySize:  50,
		MaxTotalMemory:  50 << 20,
		MaxSnapshotSize: 10 << 20,
	}
}

// Snapshot is one immutable copy of the entire polygon set.
type Snapshot struct {
	Features  []geom.Feature `json:"features"`
	Label     string         `json:"label,omitempty"`
	Timestamp time.Time      `json:"timestamp"`

	size int64
}

// NewSnapshot deep-copies features so later edits cannot reach into history.
func NewSnapshot(features []geom.Feature, label string) Snapshot {
	cp := make([]geom.Feature, len(features))
	for i, f := range features {
		cp[i] = f.Clone()
	}
	return Snapshot{Features: cp, Label: label, Timestamp: time.Now()}
}

// Size returns the snapshot's approximate byte size (its JSON encoding).
func (s *Snapshot) Size() int64 {
	if s.size == 0 {
		b, err := json.Marshal(s.Features)
		if err != nil {
			s.size = 1 // unencodable, treat as tiny rather than fail
			return s.size
		}
		s.size = int64(len(b))
	}
	return s.size
}

// State is what the host needs to render undo/redo affordances.
type State struct {
	CanUndo bool
	CanRedo bool
	Label   string // label of the action undo would revert
}

// Store is the bounded undo/redo stack pair. Not safe for concurrent use;
// the engine runs single-threaded.
type Store struct {
	cfg       Config
	undo      []Snapshot
	redo      []Snapshot
	restoring bool
	onChange  func(State)
}

// NewStore builds a store, filling unset config fields from DefaultConfig.
func NewStore(cfg Config) *Store {
	def := DefaultConfig()
	if cfg.MaxHistorySize <= 0 {
		cfg.MaxHistorySize = def.MaxHistorySize
	}
	if cfg.MaxTotalMemory <= 0 {
		cfg.MaxTotalMemory = def.MaxTotalMemory
	}
	if cfg.MaxSnapshotSize <= 0 {
		cfg.MaxSnapshotSize = def.MaxSnapshotSize
	}
	return &Store{cfg: cfg}
}

// OnChange registers the host notification for undo/redo availability.
func (s *Store) OnChange(fn func(State)) { s.onChange = fn }

// Push records a snapshot taken before a mutation. A new action invalidates
// the redo stack even when the snapshot itself is too large to keep. While a
// restore is being applied, Push is a no-op so restoring never generates
// history of its own.
func (s *Store) Push(snap Snapshot) {
	if s.restoring {
		return
	}
	s.redo = s.redo[:0]
	s.undo = s.pushBounded(s.undo, snap, s.redo)
	s.notify()
}

// Undo parks the live state on the redo stack and returns the most recent
// snapshot, or nil when there is nothing to undo.
func (s *Store) Undo(live Snapshot) *Snapshot {
	if len(s.undo) == 0 {
		return nil
	}
	s.redo = s.pushBounded(s.redo, live, s.undo)
	last := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.notify()
	return &last
}

// Redo is the mirror of Undo.
func (s *Store) Redo(live Snapshot) *Snapshot {
	if len(s.redo) == 0 {
		return nil
	}
	s.undo = s.pushBounded(s.undo, live, s.redo)
	last := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.notify()
	return &last
}

// Clear drops both stacks.
func (s *Store) Clear() {
	s.undo, s.redo = nil, nil
	s.notify()
}

// BeginRestore flags that a restored snapshot is being applied; Push ignores
// calls until EndRestore.
func (s *Store) BeginRestore() { s.restoring = true }

// EndRestore re-enables Push.
func (s *Store) EndRestore() { s.restoring = false }

// Restoring reports whether a restore is in flight.
func (s *Store) Restoring() bool { return s.restoring }

func (s *Store) CanUndo() bool { return len(s.undo) > 0 }
func (s *Store) CanRedo() bool { return len(s.redo) > 0 }

// State returns the current undo/redo availability.
func (s *Store) State() State {
	st := State{CanUndo: s.CanUndo(), CanRedo: s.CanRedo()}
	if st.CanUndo {
		st.Label = s.undo[len(s.undo)-1].Label
	}
	return st
}

// Len returns the undo and redo stack depths.
func (s *Store) Len() (undo, redo int) { return len(s.undo), len(s.redo) }

// pushBounded appends snap to stack and enforces the budgets, evicting
// oldest entries first. other is the opposite stack, which counts toward the
// total memory budget but is never evicted from here.
func (s *Store) pushBounded(stack []Snapshot, snap Snapshot, other []Snapshot) []Snapshot {
	if sz := snap.Size(); sz > s.cfg.MaxSnapshotSize {
		log.Printf("history: snapshot %q is %d bytes (max %d), skipping", snap.Label, sz, s.cfg.MaxSnapshotSize)
		return stack
	}
	stack = append(stack, snap)
	for len(stack) > s.cfg.MaxHistorySize {
		stack = stack[1:]
	}
	for sumBytes(stack)+sumBytes(other) > s.cfg.MaxTotalMemory && len(stack) > 1 {
		stack = stack[1:]
	}
	return stack
}

func sumBytes(stack []Snapshot) int64 {
	var total int64
	for i := range stack {
		total += stack[i].Size()
	}
	return total
}

func (s *Store) notify() {
	if s.onChange != nil {
		s.onChange(s.State())
	}
}
