package tui

import (
	"fmt"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"

	"github.com/AndreasOlausson/leaflet-polydraw-sub003/internal/draw"
	"github.com/AndreasOlausson/leaflet-polydraw-sub003/internal/geom"
	"github.com/AndreasOlausson/leaflet-polydraw-sub003/internal/modes"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.curX = max(0, m.width/2)
		m.curY = max(0, (m.height-3)/2)
		if m.showSidebar {
			m.l.SetSize(28-2, m.height-1-2) // provisional; refined in View
		}
	case tea.KeyMsg:
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.pasteMode {
			return m.updatePaste(msg)
		}
		return m.updateKeys(msg)
	case tea.MouseMsg:
		m = m.updateMouse(msg)
	}
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updatePaste(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pasteMode = false
		m.ta.Blur()
		return m, nil
	case "enter":
		raw := strings.TrimSpace(m.ta.Value())
		if raw == "" {
			m.status = "paste: empty"
			return m, nil
		}
		feats, err := geom.FromGeoJSON([]byte(raw))
		if err != nil {
			m.status = "geojson error: " + err.Error()
			return m, nil
		}
		n := m.loadFeatures(feats, "paste")
		m.status = fmt.Sprintf("imported %d polygon(s)", n)
		m.pasteMode = false
		m.ta.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.core.engine.ActiveSession()
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	// viewport
	case "+", "=":
		if m.zoom < 64 {
			m.zoom *= 1.2
			m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
		}
	case "-", "_":
		if m.zoom > 0.05 {
			m.zoom /= 1.2
			m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
		}
	case "shift+up":
		m.offsetY -= 1
	case "shift+down":
		m.offsetY += 1
	case "shift+left":
		m.offsetX -= 2
	case "shift+right":
		m.offsetX += 2

	// cursor, or the grabbed polygon while a drag is live
	case "up":
		if s != nil {
			return m.dragBy(s, 0, -1), nil
		}
		m.curY = max(0, m.curY-1)
	case "down":
		if s != nil {
			return m.dragBy(s, 0, 1), nil
		}
		_, mh := m.mapSize()
		m.curY = min(mh-1, m.curY+1)
	case "left":
		if s != nil {
			return m.dragBy(s, -1, 0), nil
		}
		m.curX = max(0, m.curX-1)
	case "right":
		if s != nil {
			return m.dragBy(s, 1, 0), nil
		}
		mw, _ := m.mapSize()
		m.curX = min(mw-1, m.curX+1)

	// modes
	case "o":
		m = m.switchMode(modes.Off)
	case "d":
		m = m.switchMode(modes.Add)
	case "s":
		m = m.switchMode(modes.Subtract)
	case "n":
		m = m.switchMode(modes.PointToPoint)
	case "N":
		m = m.switchMode(modes.PointToPointSubtract)
	case "c":
		m = m.switchMode(modes.Clone)

	// drawing
	case " ":
		m = m.placeVertex()
	case "backspace":
		if len(m.trace) > 0 {
			m.trace = m.trace[:len(m.trace)-1]
			m.status = fmt.Sprintf("stroke: %d vertices", len(m.trace))
		}
	case "enter":
		if s != nil {
			res, err := s.Commit()
			if err != nil {
				m.status = err.Error()
				return m, nil
			}
			m.core.reg.Apply(res)
			m.status = "moved"
			return m, nil
		}
		if m.showSidebar {
			if it, ok := m.l.SelectedItem().(fileItem); ok {
				m.loadPath(it.path)
			}
			return m, nil
		}
		m = m.commitStroke()
	case "esc":
		if s != nil {
			s.Cancel()
			m.status = "move cancelled"
			return m, nil
		}
		if len(m.trace) > 0 {
			m.trace = nil
			m.status = "stroke cancelled"
		}

	// history
	case "u":
		if m.core.undo() {
			m.status = "undo"
		} else {
			m.status = "nothing to undo"
		}
	case "ctrl+r":
		if m.core.redo() {
			m.status = "redo"
		} else {
			m.status = "nothing to redo"
		}

	// per-polygon actions at the cursor
	case "g":
		m = m.grab()
	case "x":
		m = m.deleteAtCursor()
	case "v":
		m = m.menuAction(draw.OpSimplify)
	case "B":
		m = m.menuAction(draw.OpBbox)
	case "e":
		m = m.menuAction(draw.OpDoubleElbows)
	case "z":
		m = m.menuAction(draw.OpBezier)
	case "t":
		m = m.menuAction(draw.OpToggleOptimization)
	case "]":
		m = m.scaleAtCursor(1.1)
	case "[":
		m = m.scaleAtCursor(1 / 1.1)

	// toggles and panels
	case "m":
		m.allowMerge = !m.allowMerge
		m.status = fmt.Sprintf("merge on draw: %v", m.allowMerge)
	case "tab":
		m.showSidebar = !m.showSidebar
		if m.showSidebar {
			m.refreshDir()
			m.l.SetSize(28-2, m.height-1-2)
		}
	case "p":
		m.pasteMode = !m.pasteMode
		if m.pasteMode {
			m.ta.SetValue("")
			m.status = "paste mode"
			m.ta.Focus()
		} else {
			m.status = "edit mode"
			m.ta.Blur()
		}
	case "a":
		m.showAttrs = !m.showAttrs
		if m.showAttrs {
			m.refreshAttrs()
		}
	case "w":
		m = m.exportSet()
	case "h":
		m.helpVisible = !m.helpVisible
	}
	return m, nil
}

func (m Model) updateMouse(msg tea.MouseMsg) Model {
	sidebarWidth := 0
	if m.showSidebar {
		sidebarWidth = 28 + 1
	}
	headerHeight := 1
	mw, mh := m.mapSize()
	cx := msg.X - sidebarWidth
	cy := msg.Y - headerHeight
	if cx < 0 || cy < 0 || cx >= mw || cy >= mh {
		m.hovering = false
		return m
	}
	m.hovering = true
	if lon, lat, ok := m.cellToLonLat(cx, cy, mw, mh); ok {
		m.hoverHasGeo = true
		m.hoverLon = lon
		m.hoverLat = lat
	} else {
		m.hoverHasGeo = false
	}
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		m.curX, m.curY = cx, cy
		m = m.placeVertex()
	}
	return m
}

func (m Model) switchMode(mode modes.Mode) Model {
	m.core.engine.Modes().Transition(mode)
	m.trace = nil
	m.status = "mode: " + mode.String()
	return m
}

// placeVertex appends the cursor position to the in-progress stroke, when
// the active mode accepts one.
func (m Model) placeVertex() Model {
	mm := m.core.engine.Modes()
	if !mm.Can(modes.ActionDraw) && !mm.Can(modes.ActionSubtractDraw) && !mm.Can(modes.ActionPointToPoint) {
		m.status = "switch to a draw mode first (d/s/n/N/c)"
		return m
	}
	lon, lat, ok := m.cursorLonLat()
	if !ok {
		m.status = "cursor outside the map"
		return m
	}
	m.trace = append(m.trace, orb.Point{lon, lat})
	m.status = fmt.Sprintf("stroke: %d vertices", len(m.trace))
	return m
}

// commitStroke closes the trace and runs it through the engine under the
// operation the active mode implies.
func (m Model) commitStroke() Model {
	if len(m.trace) < 3 {
		m.status = "stroke needs at least 3 vertices"
		return m
	}
	var kind draw.OpKind
	switch m.core.mode() {
	case modes.Add:
		kind = draw.OpDraw
	case modes.Clone:
		kind = draw.OpClone
	case modes.Subtract:
		kind = draw.OpSubtract
	case modes.PointToPoint:
		kind = draw.OpP2P
	case modes.PointToPointSubtract:
		kind = draw.OpP2PSubtract
	default:
		m.status = "no draw mode active"
		return m
	}
	ring := make(orb.Ring, 0, len(m.trace)+1)
	ring = append(ring, m.trace...)
	ring = append(ring, m.trace[0])
	if err := m.core.apply(draw.Candidate{Geometry: orb.Polygon{ring}}, kind, m.allowMerge); err != nil {
		m.status = err.Error()
		return m
	}
	m.trace = nil
	m.status = fmt.Sprintf("%s: %d polygon(s)", kind, m.core.reg.Len())
	if m.showAttrs {
		m.refreshAttrs()
	}
	return m
}

// grab starts a whole-polygon drag on the feature under the cursor. Arrows
// then move the working copy and enter commits it.
func (m Model) grab() Model {
	lon, lat, ok := m.cursorLonLat()
	if !ok {
		return m
	}
	g := m.groupAt(lon, lat)
	if g == nil {
		m.status = "no polygon under cursor"
		return m
	}
	if _, err := m.core.engine.StartDrag(g, draw.OpPolygonDrag, m.core.reg); err != nil {
		m.status = err.Error()
		return m
	}
	m.status = "moving: arrows to drag, enter to drop, esc to cancel"
	return m
}

// dragBy translates the live drag by one cell's worth of world units.
func (m Model) dragBy(s *draw.Session, cellsX, cellsY int) Model {
	w, h := m.mapSize()
	lon0, lat0, ok0 := m.cellToLonLat(m.curX, m.curY, w, h)
	lon1, lat1, ok1 := m.cellToLonLat(m.curX+1, m.curY+1, w, h)
	if !ok0 || !ok1 {
		return m
	}
	dx := (lon1 - lon0) * float64(cellsX)
	dy := (lat0 - lat1) * float64(cellsY)
	if err := s.Translate(dx, dy); err != nil {
		m.status = err.Error()
	}
	return m
}

func (m Model) deleteAtCursor() Model {
	lon, lat, ok := m.cursorLonLat()
	if !ok {
		return m
	}
	g := m.groupAt(lon, lat)
	if g == nil {
		m.status = "no polygon under cursor"
		return m
	}
	m.core.engine.History().Push(snapshotFor(m.core.reg, "delete"))
	m.core.reg.Remove(g)
	m.status = "deleted"
	if m.showAttrs {
		m.refreshAttrs()
	}
	return m
}

// scaleAtCursor grows or shrinks the polygon under the cursor around its
// bound center.
func (m Model) scaleAtCursor(factor float64) Model {
	lon, lat, ok := m.cursorLonLat()
	if !ok {
		return m
	}
	g := m.groupAt(lon, lat)
	if g == nil {
		m.status = "no polygon under cursor"
		return m
	}
	next := geom.Scale(g.Feature().Polygon, factor)
	if err := m.core.apply(draw.Candidate{Geometry: next, Source: g}, draw.OpTransform, false); err != nil {
		m.status = err.Error()
		return m
	}
	m.status = fmt.Sprintf("scaled by %.2f", factor)
	if m.showAttrs {
		m.refreshAttrs()
	}
	return m
}

func (m Model) menuAction(kind draw.OpKind) Model {
	lon, lat, ok := m.cursorLonLat()
	if !ok {
		return m
	}
	g := m.groupAt(lon, lat)
	if g == nil {
		m.status = "no polygon under cursor"
		return m
	}
	m.core.engine.RequestMenuAction(kind, g)
	m.status = m.core.note
	if m.showAttrs {
		m.refreshAttrs()
	}
	return m
}
