package draw

import (
	"github.com/AndreasOlausson/leaflet-polydraw-sub003/internal/geom"
)

// Group is an opaque handle for one on-screen polygon. The engine only reads
// the feature behind it; rendering internals stay with the host.
type Group interface {
	Feature() geom.Feature
}

// Registry enumerates the currently rendered groups.
type Registry interface {
	Groups() []Group
}

// Result is the atomic outcome of one mutation: the caller removes every
// group in Remove, then adds a rendered group for every feature in Add. No
// half-updated state is ever observable if the caller follows that order.
type Result struct {
	Remove []Group
	Add    []geom.Feature
}

// Empty reports whether the mutation changed nothing.
func (r Result) Empty() bool { return len(r.Remove) == 0 && len(r.Add) == 0 }

// MemoryGroup is the plain Group used by the built-in registry.
type MemoryGroup struct {
	feat geom.Feature
}

// Feature returns the group's polygon feature.
func (g *MemoryGroup) Feature() geom.Feature { return g.feat }

// MemoryRegistry is an in-memory rendered-group registry. Hosts with their
// own scene graph implement Registry directly; the terminal editor and the
// tests use this one.
type MemoryRegistry struct {
	groups []*MemoryGroup
}

// NewMemoryRegistry returns an empty registry.
func NewMemoryRegistry() *MemoryRegistry { return &MemoryRegistry{} }

// Groups implements Registry.
func (r *MemoryRegistry) Groups() []Group {
	out := make([]Group, len(r.groups))
	for i, g := range r.groups {
		out[i] = g
	}
	return out
}

// Add registers a feature as a new rendered group.
func (r *MemoryRegistry) Add(f geom.Feature) *MemoryGroup {
	g := &MemoryGroup{feat: f}
	r.groups = append(r.groups, g)
	return g
}

// Remove drops a group. Unknown handles are ignored.
func (r *MemoryRegistry) Remove(g Group) {
	for i, have := range r.groups {
		if Group(have) == g {
			r.groups = append(r.groups[:i], r.groups[i+1:]...)
			return
		}
	}
}

// Apply commits a result remove-first, then add.
func (r *MemoryRegistry) Apply(res Result) {
	for _, g := range res.Remove {
		r.Remove(g)
	}
	for _, f := range res.Add {
		r.Add(f)
	}
}

// Replace swaps the whole polygon set, used when restoring a snapshot.
func (r *MemoryRegistry) Replace(features []geom.Feature) {
	r.groups = r.groups[:0]
	for _, f := range features {
		r.Add(f.Clone())
	}
}

// Features returns a copy of every group's feature, in render order.
func (r *MemoryRegistry) Features() []geom.Feature {
	out := make([]geom.Feature, len(r.groups))
	for i, g := range r.groups {
		out[i] = g.feat
	}
	return out
}

// Len returns the group count.
func (r *MemoryRegistry) Len() int { return len(r.groups) }
