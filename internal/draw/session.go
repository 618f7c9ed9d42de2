package draw

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"

	"github.com/AndreasOlausson/leaflet-polydraw-sub003/internal/geom"
	"github.com/AndreasOlausson/leaflet-polydraw-sub003/internal/modes"
)

// ErrDragActive means another drag already holds the exclusive slot.
var ErrDragActive = errors.New("draw: another drag is already active")

// ErrNotPermitted means the current mode or capability flags forbid the
// gesture.
var ErrNotPermitted = errors.New("draw: action not permitted in current mode")

// SessionState tracks a gesture through its lifecycle.
type SessionState int

const (
	SessionDragging SessionState = iota
	SessionCommitted
	SessionCancelled
)

// Session is one exclusive drag gesture. It owns an isolated working copy of
// the source feature's geometry; the live set only changes on Commit. The
// session value is threaded through the host's move/end handlers, there is
// no hidden global drag state.
type Session struct {
	engine *Engine
	reg    Registry
	kind   OpKind
	group  Group
	work   orb.Polygon
	state  SessionState
}

// StartDrag claims the exclusive drag slot for a gesture on group. The
// history snapshot is taken here, once per gesture, not per move frame. A
// mode change while the session is open cancels it.
func (e *Engine) StartDrag(group Group, kind OpKind, reg Registry) (*Session, error) {
	if e.session != nil {
		return nil, ErrDragActive
	}
	if e.machine != nil && !e.machine.Can(actionFor(kind)) {
		return nil, fmt.Errorf("%w: %s in mode %s", ErrNotPermitted, kind, e.machine.Mode())
	}
	s := &Session{
		engine: e,
		reg:    reg,
		kind:   kind,
		group:  group,
		work:   group.Feature().Polygon.Clone(),
		state:  SessionDragging,
	}
	e.hist.Push(e.snapshotOf(reg, string(kind)))
	e.session = s
	return s, nil
}

// ActiveSession returns the drag currently holding the slot, if any.
func (e *Engine) ActiveSession() *Session { return e.session }

// State returns the session's lifecycle state.
func (s *Session) State() SessionState { return s.state }

// Kind returns the gesture's operation kind.
func (s *Session) Kind() OpKind { return s.kind }

// Group returns the dragged group.
func (s *Session) Group() Group { return s.group }

// Geometry returns the session's working copy.
func (s *Session) Geometry() orb.Polygon { return s.work }

// Move replaces the working geometry with the host's updated coordinates.
// Intermediate frames touch only the working copy.
func (s *Session) Move(p orb.Polygon) error {
	if s.state != SessionDragging {
		return fmt.Errorf("draw: move on %v session", s.state)
	}
	s.work = p
	return nil
}

// Translate shifts the working geometry by (dx, dy), the common case for
// whole-polygon drags.
func (s *Session) Translate(dx, dy float64) error {
	if s.state != SessionDragging {
		return fmt.Errorf("draw: move on %v session", s.state)
	}
	s.work = geom.Translate(s.work, dx, dy)
	return nil
}

// Commit releases the slot and routes the final geometry through the
// mutation pipeline. History was already pushed at StartDrag.
func (s *Session) Commit() (Result, error) {
	if s.state != SessionDragging {
		return Result{}, fmt.Errorf("draw: commit on %v session", s.state)
	}
	s.state = SessionCommitted
	s.engine.session = nil
	return s.engine.apply(Candidate{Geometry: s.work, Source: s.group}, s.kind, false, s.reg, false)
}

// Cancel releases the slot and discards the working copy. Safe to call from
// escape, pointer-cancel, touch-cancel, or a mode-change observer; canceling
// a finished session is a no-op.
func (s *Session) Cancel() {
	if s.state != SessionDragging {
		return
	}
	s.state = SessionCancelled
	s.engine.session = nil
}

func (st SessionState) String() string {
	switch st {
	case SessionDragging:
		return "dragging"
	case SessionCommitted:
		return "committed"
	case SessionCancelled:
		return "cancelled"
	}
	return "unknown"
}

func actionFor(kind OpKind) modes.Action {
	switch kind {
	case OpMarkerDrag, OpAddVertex, OpRemoveVertex:
		return modes.ActionMarkerDrag
	case OpPolygonDrag, OpPolygonClone, OpTransform:
		return modes.ActionPolygonDrag
	case OpRemoveHole:
		return modes.ActionEdgeDeletion
	}
	return modes.ActionPolygonDrag
}
