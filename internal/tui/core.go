package tui

import (
	"fmt"

	"github.com/AndreasOlausson/leaflet-polydraw-sub003/internal/draw"
	"github.com/AndreasOlausson/leaflet-polydraw-sub003/internal/geom"
	"github.com/AndreasOlausson/leaflet-polydraw-sub003/internal/history"
	"github.com/AndreasOlausson/leaflet-polydraw-sub003/internal/modes"
)

// core owns the engine and the rendered-group registry. It sits behind a
// pointer so the bubbletea model can be copied freely while every edit lands
// in one place.
type core struct {
	engine *draw.Engine
	reg    *draw.MemoryRegistry
	hist   history.State
	note   string
}

func newCore() *core {
	c := &core{reg: draw.NewMemoryRegistry()}
	c.engine = draw.NewEngine(draw.DefaultConfig(), modes.NewMachine(modes.DefaultCapabilities()))
	c.engine.Observe(c)
	return c
}

// PolygonSetUpdated implements draw.Observer. The view reads the registry
// directly on every frame, so there is nothing to cache here.
func (c *core) PolygonSetUpdated([]geom.Feature) {}

// HistoryChanged implements draw.Observer.
func (c *core) HistoryChanged(st history.State) { c.hist = st }

// MenuActionRequested implements draw.Observer: per-polygon menu actions
// come back from the engine and are applied here.
func (c *core) MenuActionRequested(kind draw.OpKind, g draw.Group) {
	if err := c.apply(draw.Candidate{Source: g}, kind, false); err != nil {
		c.note = err.Error()
		return
	}
	c.note = fmt.Sprintf("applied %s", kind)
}

func (c *core) apply(cand draw.Candidate, kind draw.OpKind, merge bool) error {
	res, err := c.engine.Apply(cand, kind, merge, c.reg)
	if err != nil {
		return err
	}
	c.reg.Apply(res)
	return nil
}

func (c *core) undo() bool { return c.engine.Undo(c.reg, c.reg.Replace) }
func (c *core) redo() bool { return c.engine.Redo(c.reg, c.reg.Replace) }

func (c *core) mode() modes.Mode { return c.engine.Modes().Mode() }

func snapshotFor(reg *draw.MemoryRegistry, label string) history.Snapshot {
	return history.NewSnapshot(reg.Features(), label)
}
