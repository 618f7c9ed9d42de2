package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"

	"github.com/AndreasOlausson/leaflet-polydraw-sub003/internal/geom"
	"github.com/AndreasOlausson/leaflet-polydraw-sub003/internal/topology"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		if ext == ".geojson" || ext == ".json" {
			items = append(items, fileItem{title: name, desc: ext, path: filepath.Join(m.cwd, name)})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.items = items
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no GeoJSON files in current directory"
	}
}

// loadPath reads a GeoJSON file into the polygon set.
func (m *Model) loadPath(p string) {
	data, err := os.ReadFile(p)
	if err != nil {
		m.status = "load error: " + err.Error()
		return
	}
	feats, err := geom.FromGeoJSON(data)
	if err != nil {
		m.status = "geojson error: " + err.Error()
		return
	}
	m.selPath = p
	n := m.loadFeatures(feats, "load")
	m.zoom = 1.0
	m.offsetX, m.offsetY = 0, 0
	m.status = fmt.Sprintf("loaded %s: %d polygon(s)", filepath.Base(p), n)
	if m.showAttrs {
		m.refreshAttrs()
	}
}

// loadFeatures adds decoded features to the set. Each polygon runs through
// the resolver first, so self-intersecting input splits on the way in. One
// history snapshot covers the whole batch.
func (m *Model) loadFeatures(feats []geom.Feature, label string) int {
	if len(feats) == 0 {
		return 0
	}
	m.core.engine.History().Push(snapshotFor(m.core.reg, label))
	n := 0
	for _, f := range feats {
		for _, piece := range topology.Resolve(geom.CleanPolygon(f.Polygon)) {
			if geom.Area(piece) <= geom.AreaEpsilon {
				continue
			}
			m.core.reg.Add(geom.NewFeature(piece, f.Level, f.OriginalLevel))
			n++
		}
	}
	return n
}

// exportSet writes the current polygon set as GeoJSON, back to the loaded
// file or to polydraw.geojson.
func (m Model) exportSet() Model {
	feats := m.core.reg.Features()
	if len(feats) == 0 {
		m.status = "nothing to export"
		return m
	}
	data, err := geom.ToGeoJSON(feats)
	if err != nil {
		m.status = "export error: " + err.Error()
		return m
	}
	path := m.selPath
	if path == "" {
		path = filepath.Join(m.cwd, "polydraw.geojson")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		m.status = "export error: " + err.Error()
		return m
	}
	m.status = fmt.Sprintf("wrote %d polygon(s) to %s", len(feats), filepath.Base(path))
	return m
}
