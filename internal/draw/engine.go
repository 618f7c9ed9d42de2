// Package draw is the mutation engine: it takes a candidate edit, decides
// how it merges with, splits, or replaces the rendered polygon set, and
// returns the group add/remove instructions that commit it atomically.
package draw

import (
	"fmt"
	"log"

	"github.com/paulmach/orb"

	"github.com/AndreasOlausson/leaflet-polydraw-sub003/internal/geom"
	"github.com/AndreasOlausson/leaflet-polydraw-sub003/internal/history"
	"github.com/AndreasOlausson/leaflet-polydraw-sub003/internal/modes"
	"github.com/AndreasOlausson/leaflet-polydraw-sub003/internal/topology"
)

// OpKind tags the mutation being applied.
type OpKind string

const (
	OpDraw               OpKind = "draw"
	OpSubtract           OpKind = "subtract"
	OpP2P                OpKind = "p2p"
	OpP2PSubtract        OpKind = "p2pSubtract"
	OpClone              OpKind = "clone"
	OpMarkerDrag         OpKind = "markerDrag"
	OpPolygonDrag        OpKind = "polygonDrag"
	OpPolygonClone       OpKind = "polygonClone"
	OpAddVertex          OpKind = "addVertex"
	OpRemoveVertex       OpKind = "removeVertex"
	OpRemoveHole         OpKind = "removeHole"
	OpToggleOptimization OpKind = "toggleOptimization"
	OpTransform          OpKind = "transform"
	OpBezier             OpKind = "bezier"
	OpSimplify           OpKind = "simplify"
	OpDoubleElbows       OpKind = "doubleElbows"
	OpBbox               OpKind = "bbox"
	OpModifierSubtract   OpKind = "modifierSubtract"
)

// Candidate is the input of one mutation. Geometry is whatever shape the
// host hands over; it is normalized once at this boundary. Source names the
// affected group for local edits and is nil for new strokes.
type Candidate struct {
	Geometry orb.Geometry
	Source   Group
	Level    int // optimization level for brand-new features
}

// Config tunes the engine.
type Config struct {
	Selector     geom.SelectorConfig
	History      history.Config
	DefaultLevel int
}

// DefaultConfig is what the terminal editor runs with.
func DefaultConfig() Config {
	return Config{Selector: geom.DefaultSelectorConfig(), History: history.DefaultConfig()}
}

// Engine is the top-level mutation orchestrator. It is single-threaded: the
// host delivers one input event at a time and every call runs to completion
// before the next.
type Engine struct {
	cfg       Config
	hist      *history.Store
	machine   *modes.Machine
	session   *Session
	observers []Observer
}

// NewEngine wires the engine to its mode machine. A mode change observed
// while a drag is in flight cancels the drag.
func NewEngine(cfg Config, machine *modes.Machine) *Engine {
	e := &Engine{
		cfg:     cfg,
		hist:    history.NewStore(cfg.History),
		machine: machine,
	}
	e.hist.OnChange(func(st history.State) {
		for _, o := range e.observers {
			o.HistoryChanged(st)
		}
	})
	if machine != nil {
		machine.OnTransition(func(_, _ modes.Mode) {
			if e.session != nil {
				e.session.Cancel()
			}
		})
	}
	return e
}

// History exposes the engine's history store.
func (e *Engine) History() *history.Store { return e.hist }

// Modes exposes the engine's mode machine.
func (e *Engine) Modes() *modes.Machine { return e.machine }

// Observe registers an observer for the cross-boundary events.
func (e *Engine) Observe(o Observer) { e.observers = append(e.observers, o) }

// RequestMenuAction relays a per-polygon menu request to the host.
func (e *Engine) RequestMenuAction(action OpKind, g Group) {
	for _, o := range e.observers {
		o.MenuActionRequested(action, g)
	}
}

// Apply runs one mutation and returns the groups to remove and the features
// to add. The caller commits remove-then-add. A snapshot of the current set
// is pushed before the mutation; drag gestures snapshot at StartDrag
// instead, so continuous motion does not flood history.
func (e *Engine) Apply(c Candidate, kind OpKind, allowMerge bool, reg Registry) (Result, error) {
	return e.apply(c, kind, allowMerge, reg, true)
}

func (e *Engine) apply(c Candidate, kind OpKind, allowMerge bool, reg Registry, pushHistory bool) (Result, error) {
	var res Result
	var err error
	switch kind {
	case OpDraw, OpP2P:
		res, err = e.applyAdd(c, allowMerge, reg)
	case OpClone, OpPolygonClone:
		res, err = e.applyAdd(c, false, reg)
	case OpSubtract, OpP2PSubtract, OpModifierSubtract:
		res, err = e.applySubtract(c, reg)
	case OpToggleOptimization:
		res, err = e.applyToggle(c)
	case OpMarkerDrag, OpPolygonDrag, OpAddVertex, OpRemoveVertex,
		OpRemoveHole, OpTransform, OpBezier, OpSimplify, OpDoubleElbows, OpBbox:
		res, err = e.applyLocal(c, kind)
	default:
		return Result{}, fmt.Errorf("draw: unknown operation %q", kind)
	}
	if err != nil || res.Empty() {
		return res, err
	}
	if pushHistory {
		e.hist.Push(e.snapshotOf(reg, string(kind)))
	}
	e.notifyPolygons(projected(reg, res))
	return res, nil
}

// applyAdd handles the draw family: union the candidate with every existing
// group it intersects, repeating pairwise unions until no further
// intersections are found. Without allowMerge the candidate stays an
// independent feature. Boolean failures skip the pair; an edit never merges
// wrong or disappears, it just stays separate.
func (e *Engine) applyAdd(c Candidate, allowMerge bool, reg Registry) (Result, error) {
	mp, err := e.normalizeCandidate(c)
	if err != nil {
		return Result{}, err
	}

	level := geom.ClampLevel(pick(c.Level, e.cfg.DefaultLevel))
	origLevel := level
	var removed []Group

	if allowMerge {
		acc := mp
		remaining := reg.Groups()
		for changed := true; changed; {
			changed = false
			for i := 0; i < len(remaining); i++ {
				g := remaining[i]
				merged, ok := unionInto(acc, g.Feature().Polygon)
				if !ok {
					continue
				}
				acc = merged
				removed = append(removed, g)
				remaining = append(remaining[:i], remaining[i+1:]...)
				i--
				changed = true
			}
		}
		mp = selfMerge(acc)
		if len(removed) > 0 {
			// a merged result inherits the levels of the oldest polygon
			// it absorbed
			f := removed[0].Feature()
			level, origLevel = f.Level, f.OriginalLevel
		}
	}

	return Result{Remove: removed, Add: e.finalize(mp, level, origLevel)}, nil
}

// applySubtract carves the candidate out of every group it intersects. Each
// disjoint outer ring of a difference becomes its own feature; groups the
// candidate misses stay untouched.
func (e *Engine) applySubtract(c Candidate, reg Registry) (Result, error) {
	mp, err := e.normalizeCandidate(c)
	if err != nil {
		return Result{}, err
	}
	var res Result
	for _, g := range reg.Groups() {
		f := g.Feature()
		hit := false
		for _, p := range mp {
			if geom.Intersects(f.Polygon, p) {
				hit = true
				break
			}
		}
		if !hit {
			continue
		}
		rest := orb.MultiPolygon{f.Polygon}
		failed := false
		for _, p := range mp {
			next, ok := differenceAll(rest, p)
			if !ok {
				failed = true
				break
			}
			rest = next
		}
		if failed {
			// treat as non-intersecting rather than losing the group
			continue
		}
		res.Remove = append(res.Remove, g)
		res.Add = append(res.Add, e.finalize(rest, f.Level, f.OriginalLevel)...)
	}
	return res, nil
}

// applyLocal handles single-feature edits: vertex and polygon drags, vertex
// add/remove, hole removal, transforms, and the menu operations that derive
// new geometry from the source. Hand edits frequently self-intersect, so the
// result always goes through the resolver.
func (e *Engine) applyLocal(c Candidate, kind OpKind) (Result, error) {
	if c.Source == nil {
		return Result{}, fmt.Errorf("draw: %s requires a source group", kind)
	}
	src := c.Source.Feature()

	var next orb.Polygon
	switch kind {
	case OpSimplify:
		next = geom.SimplifyPolygon(src.Polygon, e.cfg.Selector.Tolerance(src.Level))
	case OpBbox:
		next = orb.Polygon{geom.BoundRing(src.Polygon)}
	case OpDoubleElbows:
		next = mapRings(src.Polygon, geom.Midpoints)
	case OpBezier:
		next = mapRings(src.Polygon, geom.Smooth)
	default:
		if c.Geometry == nil {
			return Result{}, fmt.Errorf("draw: %s requires edited geometry", kind)
		}
		mp, err := geom.Normalize(c.Geometry)
		if err != nil {
			return Result{}, err
		}
		if len(mp) != 1 {
			return Result{}, fmt.Errorf("draw: %s edits exactly one polygon, got %d", kind, len(mp))
		}
		next = mp[0]
	}

	var add []geom.Feature
	for _, piece := range topology.Resolve(geom.CleanPolygon(next)) {
		add = append(add, e.newFeature(piece, src.Level, src.OriginalLevel))
	}
	return Result{Remove: []Group{c.Source}, Add: add}, nil
}

// applyToggle flips a feature between full detail and its original
// optimization level.
func (e *Engine) applyToggle(c Candidate) (Result, error) {
	if c.Source == nil {
		return Result{}, fmt.Errorf("draw: toggleOptimization requires a source group")
	}
	src := c.Source.Feature()
	level := 0
	if src.Level == 0 {
		level = src.OriginalLevel
	}
	return Result{
		Remove: []Group{c.Source},
		Add:    []geom.Feature{e.newFeature(src.Polygon.Clone(), level, src.OriginalLevel)},
	}, nil
}

// Undo restores the previous snapshot via the supplied apply callback. Push
// is disabled while the restore runs so it generates no history of its own.
func (e *Engine) Undo(reg Registry, apply func([]geom.Feature)) bool {
	snap := e.hist.Undo(e.snapshotOf(reg, ""))
	if snap == nil {
		return false
	}
	e.restore(snap, apply)
	return true
}

// Redo is the mirror of Undo.
func (e *Engine) Redo(reg Registry, apply func([]geom.Feature)) bool {
	snap := e.hist.Redo(e.snapshotOf(reg, ""))
	if snap == nil {
		return false
	}
	e.restore(snap, apply)
	return true
}

func (e *Engine) restore(snap *history.Snapshot, apply func([]geom.Feature)) {
	e.hist.BeginRestore()
	defer e.hist.EndRestore()
	apply(snap.Features)
	e.notifyPolygons(snap.Features)
}

// normalizeCandidate cleans and normalizes candidate geometry, then routes
// every polygon through the resolver so kinked strokes split before any
// boolean work happens.
func (e *Engine) normalizeCandidate(c Candidate) (orb.MultiPolygon, error) {
	if c.Geometry == nil {
		return nil, fmt.Errorf("draw: missing candidate geometry")
	}
	mp, err := geom.Normalize(c.Geometry)
	if err != nil {
		return nil, err
	}
	var out orb.MultiPolygon
	for _, p := range mp {
		for _, piece := range topology.Resolve(geom.CleanPolygon(p)) {
			if geom.Area(piece) > geom.AreaEpsilon {
				out = append(out, piece)
			}
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("draw: candidate has no effective area")
	}
	return out, nil
}

// finalize turns raw polygons into features with refreshed importance.
func (e *Engine) finalize(mp orb.MultiPolygon, level, origLevel int) []geom.Feature {
	var out []geom.Feature
	for _, p := range mp {
		if geom.Area(p) <= geom.AreaEpsilon {
			continue
		}
		out = append(out, e.newFeature(p, level, origLevel))
	}
	return out
}

func (e *Engine) newFeature(p orb.Polygon, level, origLevel int) geom.Feature {
	f := geom.NewFeature(geom.CleanPolygon(p), level, origLevel)
	f.Important = e.cfg.Selector.SelectImportant(f.Outer(), f.Level, nil)
	return f
}

func (e *Engine) snapshotOf(reg Registry, label string) history.Snapshot {
	var feats []geom.Feature
	for _, g := range reg.Groups() {
		feats = append(feats, g.Feature())
	}
	return history.NewSnapshot(feats, label)
}

func (e *Engine) notifyPolygons(features []geom.Feature) {
	for _, o := range e.observers {
		o.PolygonSetUpdated(features)
	}
}

// projected computes the polygon set as it will look once the caller commits
// the result, without touching the registry.
func projected(reg Registry, res Result) []geom.Feature {
	removed := make(map[Group]bool, len(res.Remove))
	for _, g := range res.Remove {
		removed[g] = true
	}
	var out []geom.Feature
	for _, g := range reg.Groups() {
		if !removed[g] {
			out = append(out, g.Feature())
		}
	}
	return append(out, res.Add...)
}

// unionInto merges poly into the member of acc it intersects. ok is false
// when nothing intersects or the boolean primitive fails (the pair is then
// treated as non-intersecting).
func unionInto(acc orb.MultiPolygon, poly orb.Polygon) (orb.MultiPolygon, bool) {
	for i, a := range acc {
		if !geom.Intersects(a, poly) {
			continue
		}
		u, err := geom.Union(a, poly)
		if err != nil {
			log.Printf("draw: union failed, keeping polygons separate: %v", err)
			return nil, false
		}
		out := make(orb.MultiPolygon, 0, len(acc)-1+len(u))
		out = append(out, acc[:i]...)
		out = append(out, acc[i+1:]...)
		out = append(out, u...)
		return out, true
	}
	return nil, false
}

// selfMerge unions intersecting members of a set until none overlap.
func selfMerge(mp orb.MultiPolygon) orb.MultiPolygon {
	for changed := true; changed; {
		changed = false
	scan:
		for i := 0; i < len(mp); i++ {
			for j := i + 1; j < len(mp); j++ {
				if !geom.Intersects(mp[i], mp[j]) {
					continue
				}
				u, err := geom.Union(mp[i], mp[j])
				if err != nil {
					continue
				}
				next := make(orb.MultiPolygon, 0, len(mp)-2+len(u))
				for k, p := range mp {
					if k != i && k != j {
						next = append(next, p)
					}
				}
				mp = append(next, u...)
				changed = true
				break scan
			}
		}
	}
	return mp
}

// differenceAll subtracts poly from every member of rest. ok is false when
// the boolean primitive fails.
func differenceAll(rest orb.MultiPolygon, poly orb.Polygon) (orb.MultiPolygon, bool) {
	var out orb.MultiPolygon
	for _, r := range rest {
		if !geom.Intersects(r, poly) {
			out = append(out, r)
			continue
		}
		d, err := geom.Difference(r, poly)
		if err != nil {
			log.Printf("draw: difference failed, leaving polygon untouched: %v", err)
			return nil, false
		}
		out = append(out, d...)
	}
	return out, true
}

func mapRings(p orb.Polygon, fn func(orb.Ring) orb.Ring) orb.Polygon {
	out := make(orb.Polygon, len(p))
	for i, r := range p {
		out[i] = fn(r)
	}
	return out
}

func pick(v, fallback int) int {
	if v != 0 {
		return v
	}
	return fallback
}
