package modes

import "testing"

var allModes = []Mode{Off, Add, Subtract, PointToPoint, PointToPointSubtract, Clone}

func TestMarkerDragGating(t *testing.T) {
	enabled := NewMachine(Capabilities{MarkerDrag: true})
	disabled := NewMachine(Capabilities{})
	for _, m := range allModes {
		enabled.Transition(m)
		disabled.Transition(m)
		if got, want := enabled.Can(ActionMarkerDrag), m == Off; got != want {
			t.Errorf("mode %s, flag on: got %v, want %v", m, got, want)
		}
		if disabled.Can(ActionMarkerDrag) {
			t.Errorf("mode %s, flag off: marker drag permitted", m)
		}
	}
}

func TestPolygonDragGating(t *testing.T) {
	m := NewMachine(DefaultCapabilities())
	for _, mode := range allModes {
		m.Transition(mode)
		want := mode == Off || mode == Clone
		if got := m.Can(ActionPolygonDrag); got != want {
			t.Errorf("mode %s: polygon drag got %v, want %v", mode, got, want)
		}
	}
}

func TestDrawGating(t *testing.T) {
	m := NewMachine(DefaultCapabilities())
	vs := []struct {
		mode Mode
		a    Action
		want bool
	}{
		{Add, ActionDraw, true},
		{Off, ActionDraw, false},
		{Subtract, ActionSubtractDraw, true},
		{PointToPointSubtract, ActionSubtractDraw, true},
		{PointToPoint, ActionPointToPoint, true},
		{Add, ActionPointToPoint, false},
	}
	for _, v := range vs {
		m.Transition(v.mode)
		if got := m.Can(v.a); got != v.want {
			t.Errorf("mode %s action %d: got %v, want %v", v.mode, v.a, got, v.want)
		}
	}
}

func TestTransitionIsTotalAndNotifies(t *testing.T) {
	m := NewMachine(DefaultCapabilities())
	var seenFrom, seenTo Mode
	calls := 0
	m.OnTransition(func(from, to Mode) { seenFrom, seenTo = from, to; calls++ })

	for _, mode := range allModes {
		m.Transition(mode)
		if m.Mode() != mode {
			t.Errorf("transition to %s did not take", mode)
		}
	}
	if calls != len(allModes) {
		t.Errorf("observer calls: got %d, want %d", calls, len(allModes))
	}
	if seenFrom != PointToPointSubtract || seenTo != Clone {
		t.Errorf("last transition: got %s -> %s, want p2pSubtract -> clone", seenFrom, seenTo)
	}
}
