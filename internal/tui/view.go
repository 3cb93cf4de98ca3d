package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	lay := m.layout()

	header := titleStyle.Render(" roomviz ─ room prices by region ")
	header = lipgloss.NewStyle().Width(lay.contentW).Render(header)

	var body string
	if m.showAttrs {
		width := 0
		for _, c := range m.tbl.Columns() {
			width += c.Width + 3
		}
		width = min(lay.contentW-4, max(32, width))
		m.tbl.SetWidth(width - 4)
		m.tbl.SetHeight(min(lay.contentH-2, 20))
		box := boxStyle.Width(width).Render(m.tbl.View())
		body = lipgloss.Place(lay.contentW, lay.contentH, lipgloss.Center, lipgloss.Center, box)
	} else {
		var cols []string
		if m.showSidebar {
			cols = append(cols, lipgloss.NewStyle().Width(lay.sidebarW).Render(m.l.View()), " ")
		}
		canvas := m.renderMap(lay.mapW, lay.mapH)
		cols = append(cols, lipgloss.NewStyle().Width(lay.mapW).Height(lay.mapH).Render(canvas))
		if lay.histW > 0 {
			hist := m.renderHistogram(lay.histW, lay.mapH)
			cols = append(cols, " ", lipgloss.NewStyle().Width(lay.histW).Height(lay.mapH).Render(hist))
		}
		body = lipgloss.JoinHorizontal(lipgloss.Top, cols...)
	}

	status := dimStyle.Render(" " + m.status + " ")
	if strings.HasPrefix(m.status, "load error") {
		status = errorStyle.Render(" " + m.status + " ")
	}
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, status, m.renderHelp())
	info := m.hoverInfo()
	spacer := max(0, lay.contentW-lipgloss.Width(left)-lipgloss.Width(info))
	right := lipgloss.Place(spacer+lipgloss.Width(info), 1, lipgloss.Right, lipgloss.Center, info)
	footer := lipgloss.NewStyle().Width(lay.contentW).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, right))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(lay.contentW).Height(m.height).Render(ui)
}

// hoverInfo describes the highlighted region for the footer.
func (m Model) hoverInfo() string {
	if m.res == nil || m.hoverRegion < 0 || m.hoverRegion >= len(m.res.Regions) {
		return ""
	}
	r := m.res.Regions[m.hoverRegion]
	price := "no price"
	if r.Priced {
		price = fmt.Sprintf("$ %.0f", r.Value)
	}
	return swatchStyle(r.Fill).Render(fmt.Sprintf("  %s  %s  ", r.Name, price))
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"↑↓←→ pan",
		"+/- zoom",
		"0 reset",
		"Tab regions",
		"s sort",
		"a attrs",
		"r reload",
		"Esc clear",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
