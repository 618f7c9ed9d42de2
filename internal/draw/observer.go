package draw

import (
	"github.com/AndreasOlausson/leaflet-polydraw-sub003/internal/geom"
	"github.com/AndreasOlausson/leaflet-polydraw-sub003/internal/history"
)

// Observer receives the three event families that cross the engine boundary.
// Everything else is returned as typed values from engine calls.
type Observer interface {
	// PolygonSetUpdated delivers the full polygon set after a mutation or a
	// history restore has been applied.
	PolygonSetUpdated(features []geom.Feature)

	// HistoryChanged reports undo/redo availability and the label of the
	// action an undo would revert.
	HistoryChanged(state history.State)

	// MenuActionRequested asks the host to surface a per-polygon menu
	// action (simplify, bbox, and friends) for the given group.
	MenuActionRequested(action OpKind, group Group)
}
