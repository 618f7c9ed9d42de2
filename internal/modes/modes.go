// Package modes gates which edits are currently legal. Exactly one draw mode
// is active at a time; orthogonal capability flags are fixed per
// configuration and never change on transition.
package modes

// Mode is the active drawing mode.
type Mode int

const (
	Off Mode = iota
	Add
	Subtract
	PointToPoint
	PointToPointSubtract
	Clone
)

var modeNames = map[Mode]string{
	Off:                  "off",
	Add:                  "add",
	Subtract:             "subtract",
	PointToPoint:         "p2p",
	PointToPointSubtract: "p2pSubtract",
	Clone:                "clone",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return "unknown"
}

// Action is an edit kind checked against the current mode.
type Action int

const (
	ActionMarkerDrag Action = iota
	ActionPolygonDrag
	ActionEdgeDeletion
	ActionVertexAttach
	ActionDraw
	ActionSubtractDraw
	ActionPointToPoint
)

// Capabilities are the static flags from configuration.
type Capabilities struct {
	MarkerDrag   bool
	PolygonDrag  bool
	EdgeDeletion bool
	VertexAttach bool
}

// DefaultCapabilities enables everything; hosts restrict as needed.
func DefaultCapabilities() Capabilities {
	return Capabilities{MarkerDrag: true, PolygonDrag: true, EdgeDeletion: true, VertexAttach: true}
}

// Machine tracks the active mode. Transition is total and synchronous; it
// does not cancel in-progress gestures itself, observers do that on
// notification.
type Machine struct {
	mode      Mode
	caps      Capabilities
	observers []func(from, to Mode)
}

// NewMachine starts in Off.
func NewMachine(caps Capabilities) *Machine {
	return &Machine{caps: caps}
}

// Mode returns the active mode.
func (m *Machine) Mode() Mode { return m.mode }

// Capabilities returns the static capability flags.
func (m *Machine) Capabilities() Capabilities { return m.caps }

// OnTransition registers an observer called after every mode change,
// including self-transitions.
func (m *Machine) OnTransition(fn func(from, to Mode)) {
	m.observers = append(m.observers, fn)
}

// Transition switches to mode. It always succeeds.
func (m *Machine) Transition(mode Mode) {
	old := m.mode
	m.mode = mode
	for _, fn := range m.observers {
		fn(old, mode)
	}
}

// Can reports whether an action is permitted under the current mode and the
// static capability flags.
func (m *Machine) Can(a Action) bool {
	switch a {
	case ActionMarkerDrag:
		return m.mode == Off && m.caps.MarkerDrag
	case ActionPolygonDrag:
		return (m.mode == Off || m.mode == Clone) && m.caps.PolygonDrag
	case ActionEdgeDeletion:
		return m.mode == Off && m.caps.EdgeDeletion
	case ActionVertexAttach:
		return m.mode == Off && m.caps.VertexAttach
	case ActionDraw:
		return m.mode == Add || m.mode == Clone
	case ActionSubtractDraw:
		return m.mode == Subtract || m.mode == PointToPointSubtract
	case ActionPointToPoint:
		return m.mode == PointToPoint || m.mode == PointToPointSubtract
	}
	return false
}
