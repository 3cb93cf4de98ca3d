package tui

import (
	"fmt"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// layout is the position of the panels, shared by View and the mouse
// handling.
type layout struct {
	contentW, contentH int
	sidebarW           int
	mapX, mapY         int
	mapW, mapH         int
	histX, histW       int
}

func (m Model) layout() layout {
	var lay layout
	lay.contentW = max(10, m.width)
	lay.contentH = max(4, m.height-headerHeight-footerHeight)
	if m.showSidebar {
		lay.sidebarW = sidebarWidth
	}
	rest := lay.contentW - lay.sidebarW
	if m.showSidebar {
		rest--
	}
	if rest >= histogramWidth+20 {
		lay.histW = histogramWidth
	}
	lay.mapX = lay.contentW - rest
	lay.mapY = headerHeight
	lay.mapW = max(10, rest-lay.histW-1)
	lay.mapH = lay.contentH
	lay.histX = lay.mapX + lay.mapW + 1
	return lay
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		lay := m.layout()
		m.l.SetSize(sidebarWidth-2, lay.contentH-2)
	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = "load error: " + msg.err.Error()
			m.logger.Error("map not loaded", "err", msg.err)
			return m, nil
		}
		m.res = msg.res
		m.sort = msg.sort
		m.order = paintOrder(m.res)
		m.hoverKey, m.hoverRegion = "", -1
		m.refreshRegions()
		if m.showAttrs {
			m.refreshAttrs()
		}
		m.status = fmt.Sprintf("%d regions  sorted by %s", len(m.res.Regions), m.sort)
		m.logger.Debug("map loaded", "regions", len(m.res.Regions), "bars", len(m.res.Bars), "sort", m.sort)
	case tea.KeyMsg:
		// keys go to the list while its filter is being typed
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.showAttrs {
			switch msg.String() {
			case "a", "esc":
				m.showAttrs = false
				return m, nil
			case "ctrl+c", "q":
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.tbl, cmd = m.tbl.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
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
		case "0":
			m.zoom = 1
			m.offsetX, m.offsetY = 0, 0
			m.status = "view reset"
		case "tab":
			m.showSidebar = !m.showSidebar
			if m.showSidebar {
				m.l.SetSize(sidebarWidth-2, m.layout().contentH-2)
				m.selectListed()
			}
			return m, nil
		case "s":
			if m.loading {
				return m, nil
			}
			m.sort = m.sort.Next()
			m.loading = true
			m.status = fmt.Sprintf("sorting by %s", m.sort)
			return m, m.load()
		case "r":
			if m.loading {
				return m, nil
			}
			m.loading = true
			m.status = "reloading"
			return m, m.load()
		case "h":
			m.helpVisible = !m.helpVisible
		case "a":
			m.showAttrs = true
			m.refreshAttrs()
			return m, nil
		case "esc":
			m.hover(-1, "")
			m.status = "highlight cleared"
		case "enter":
			if m.showSidebar {
				m.selectListed()
			}
		case "up":
			if !m.showSidebar {
				m.offsetY -= 1
			}
		case "down":
			if !m.showSidebar {
				m.offsetY += 1
			}
		case "left":
			m.offsetX -= 2
		case "right":
			m.offsetX += 2
		}
		if m.showSidebar {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			m.selectListed()
			return m, cmd
		}
	case tea.MouseMsg:
		m.mouse(msg)
	}
	return m, nil
}

// mouse highlights the region or bar under the pointer.
func (m *Model) mouse(msg tea.MouseMsg) {
	if m.res == nil || m.showAttrs {
		return
	}
	lay := m.layout()
	switch {
	case msg.X >= lay.mapX && msg.X < lay.mapX+lay.mapW && msg.Y >= lay.mapY && msg.Y < lay.mapY+lay.mapH:
		i := m.regionAt(msg.X-lay.mapX, msg.Y-lay.mapY, lay.mapW, lay.mapH)
		if i < 0 {
			m.hover(-1, "")
			return
		}
		m.hover(i, m.res.Regions[i].Key)
	case lay.histW > 0 && msg.X >= lay.histX && msg.X < lay.histX+lay.histW:
		// first row is the caption
		row := msg.Y - lay.mapY - 1
		if i := m.barAtRow(row, barRows(lay.mapH)); i >= 0 {
			key := m.barKey(m.res.Bars[i])
			m.hover(m.regionOf(key), key)
			return
		}
		m.hover(-1, "")
	default:
		m.hover(-1, "")
	}
}

// hover moves the highlight to key through the index callbacks. An empty
// key clears it.
func (m *Model) hover(region int, key string) {
	if key == m.hoverKey {
		return
	}
	if m.hoverKey != "" {
		m.res.Index.OnLeave(m.hoverKey)
	}
	m.hoverKey, m.hoverRegion = key, region
	if key != "" {
		m.res.Index.OnEnter(key)
		m.logger.Debug("highlight", "key", key)
	}
}

// selectListed highlights the region under the list cursor.
func (m *Model) selectListed() {
	if m.res == nil {
		return
	}
	if it, ok := m.l.SelectedItem().(regionItem); ok {
		m.hover(it.index, it.key)
	}
}

func (m Model) barAtRow(row, rows int) int {
	if row < 0 || row >= rows {
		return -1
	}
	top := 0
	if idx := m.barIndex(m.hoverKey); idx >= rows {
		top = idx - rows + 1
	}
	if i := top + row; i < len(m.res.Bars) {
		return i
	}
	return -1
}

func (m Model) regionOf(key string) int {
	for i, r := range m.res.Regions {
		if r.Key == key {
			return i
		}
	}
	return -1
}
