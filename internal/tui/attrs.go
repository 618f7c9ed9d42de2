package tui

import (
	"fmt"

	table "github.com/charmbracelet/bubbles/table"

	"github.com/AndreasOlausson/leaflet-polydraw-sub003/internal/geom"
)

// refreshAttrs rebuilds the feature table from the current polygon set.
func (m *Model) refreshAttrs() {
	cols := []table.Column{
		{Title: "#", Width: 4},
		{Title: "vertices", Width: 9},
		{Title: "holes", Width: 6},
		{Title: "area", Width: 12},
		{Title: "level", Width: 6},
		{Title: "key verts", Width: 10},
	}
	var rows []table.Row
	for i, f := range m.core.reg.Features() {
		key := 0
		for _, imp := range f.Important {
			if imp {
				key++
			}
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", geom.UniquePoints(f.Outer())),
			fmt.Sprintf("%d", len(f.Holes())),
			fmt.Sprintf("%.4f", geom.Area(f.Polygon)),
			fmt.Sprintf("%d/%d", f.Level, f.OriginalLevel),
			fmt.Sprintf("%d", key),
		})
	}
	m.tbl.SetColumns(cols)
	m.tbl.SetRows(rows)
	if len(rows) == 0 {
		m.showAttrs = false
		m.status = "no polygons yet"
	}
}
