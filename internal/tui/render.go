package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb"

	"github.com/AndreasOlausson/leaflet-polydraw-sub003/internal/draw"
	"github.com/AndreasOlausson/leaflet-polydraw-sub003/internal/geom"
)

// worldBound is the lon/lat box the canvas shows at zoom 1: the bound of
// everything drawn so far plus a margin, or a fixed box while empty.
func (m Model) worldBound() orb.Bound {
	b := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}}
	first := true
	grow := func(p orb.Point) {
		if first {
			b = orb.Bound{Min: p, Max: p}
			first = false
			return
		}
		b = b.Extend(p)
	}
	for _, f := range m.core.reg.Features() {
		for _, r := range f.Polygon {
			for _, p := range r {
				grow(p)
			}
		}
	}
	for _, p := range m.trace {
		grow(p)
	}
	if first {
		return b
	}
	// margin so edges sit off the border; degenerate bounds get a unit box
	dx, dy := b.Max[0]-b.Min[0], b.Max[1]-b.Min[1]
	if dx <= 0 {
		dx = 1
	}
	if dy <= 0 {
		dy = 1
	}
	return orb.Bound{
		Min: orb.Point{b.Min[0] - dx*0.1, b.Min[1] - dy*0.1},
		Max: orb.Point{b.Max[0] + dx*0.1, b.Max[1] + dy*0.1},
	}
}

// cellToLonLat converts a map cell coordinate back to lon/lat using the
// world bound, zoom, and pan.
func (m Model) cellToLonLat(cx, cy, w, h int) (float64, float64, bool) {
	if w <= 1 || h <= 1 {
		return 0, 0, false
	}
	b := m.worldBound()
	zx := float64(cx-m.offsetX) / float64(w-1)
	zy := 1.0 - float64(cy-m.offsetY)/float64(h-1)
	nx := 0.5 + (zx-0.5)/m.zoom
	ny := 0.5 + (zy-0.5)/m.zoom
	lon := b.Min[0] + nx*(b.Max[0]-b.Min[0])
	lat := b.Min[1] + ny*(b.Max[1]-b.Min[1])
	return lon, lat, true
}

// screenXYMicro maps lon/lat into a 2x4 microgrid per cell for braille
// rendering.
func (m Model) screenXYMicro(lon, lat float64, w, h int) (int, int, bool) {
	b := m.worldBound()
	nx := (lon - b.Min[0]) / (b.Max[0] - b.Min[0])
	ny := (lat - b.Min[1]) / (b.Max[1] - b.Min[1])
	zx := 0.5 + (nx-0.5)*m.zoom
	zy := 0.5 + (ny-0.5)*m.zoom
	sx := int(zx*float64(w*2-1)) + m.offsetX*2
	sy := int((1.0-zy)*float64(h*4-1)) + m.offsetY*4
	return sx, sy, true
}

func (m Model) renderCanvas(w, h int) string {
	lines := make([]string, h)
	for y := 0; y < h; y++ {
		lines[y] = strings.Repeat(" ", w)
	}
	br := newBrailleBuf(w, h)

	dragging := m.core.engine.ActiveSession() != nil
	var dragGroup draw.Group
	if dragging {
		dragGroup = m.core.engine.ActiveSession().Group()
	}

	for _, g := range m.core.reg.Groups() {
		if dragging && g == dragGroup {
			// the working copy is drawn instead
			continue
		}
		m.renderPolygon(br, g.Feature().Polygon, w, h, true)
	}
	if dragging {
		m.renderPolygon(br, m.core.engine.ActiveSession().Geometry(), w, h, false)
	}

	// in-progress stroke as an open polyline
	var prev *[2]int
	for _, p := range m.trace {
		mx, my, ok := m.screenXYMicro(p[0], p[1], w, h)
		if !ok {
			continue
		}
		br.setPixel(mx, my)
		if prev != nil {
			br.drawLineMicro(prev[0], prev[1], mx, my)
		}
		prev = &[2]int{mx, my}
	}

	braLines := br.toLines()
	for y := 0; y < h && y < len(braLines); y++ {
		base := []rune(lines[y])
		over := []rune(braLines[y])
		for x := 0; x < len(base) && x < len(over); x++ {
			if over[x] != ' ' {
				base[x] = over[x]
			}
		}
		lines[y] = string(base)
	}

	// keyboard cursor on top
	if m.curY >= 0 && m.curY < len(lines) {
		r := []rune(lines[m.curY])
		if m.curX >= 0 && m.curX < len(r) {
			cursor := cursorStyle.Render("+")
			lines[m.curY] = string(r[:m.curX]) + cursor + string(r[m.curX+1:])
		}
	}
	return strings.Join(lines, "\n")
}

// renderPolygon fills and outlines one polygon. Fill uses the even-odd rule
// across every ring, so holes render as gaps.
func (m Model) renderPolygon(br *brailleBuf, poly orb.Polygon, w, h int, fill bool) {
	var ringsMic [][][2]int
	for _, ring := range poly {
		var sm [][2]int
		for _, p := range ring {
			mx, my, ok := m.screenXYMicro(p[0], p[1], w, h)
			if !ok {
				continue
			}
			sm = append(sm, [2]int{mx, my})
		}
		if len(sm) >= 3 {
			ringsMic = append(ringsMic, sm)
		}
	}
	if len(ringsMic) == 0 {
		return
	}
	if fill {
		br.fillRings(ringsMic)
	}
	for _, r := range ringsMic {
		for i := 0; i < len(r); i++ {
			a := r[i]
			b := r[(i+1)%len(r)]
			br.drawLineMicro(a[0], a[1], b[0], b[1])
		}
	}
}

// groupAt returns the rendered group containing the world point, topmost
// first, or nil.
func (m Model) groupAt(lon, lat float64) draw.Group {
	pt := orb.Point{lon, lat}
	groups := m.core.reg.Groups()
	for i := len(groups) - 1; i >= 0; i-- {
		f := groups[i].Feature()
		if !geom.RingContainsPoint(f.Outer(), pt) {
			continue
		}
		inHole := false
		for _, hole := range f.Holes() {
			if geom.RingContainsPoint(hole, pt) {
				inHole = true
				break
			}
		}
		if !inHole {
			return groups[i]
		}
	}
	return nil
}

// mapSize is the canvas size implied by the current window and sidebar
// state. View works from the same numbers, so cursor math stays in sync
// with what is on screen.
func (m Model) mapSize() (int, int) {
	sidebarWidth := 0
	if m.showSidebar {
		sidebarWidth = 28 + 1
	}
	w := max(10, m.width) - sidebarWidth
	if w < 10 {
		w = 10
	}
	h := m.height - 3
	if h < 4 {
		h = 4
	}
	return w, h
}

// cursorLonLat is the world position under the keyboard cursor.
func (m Model) cursorLonLat() (float64, float64, bool) {
	w, h := m.mapSize()
	return m.cellToLonLat(m.curX, m.curY, w, h)
}

var cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")).Bold(true)
