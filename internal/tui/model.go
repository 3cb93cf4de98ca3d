// Package tui is the terminal viewer of the price map: a braille choropleth
// next to the ranked histogram, cross-highlighted through the map's
// highlight index on mouse hover or list selection.
package tui

import (
	"context"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"roomviz/internal/chart"
	"roomviz/internal/config"
	"roomviz/internal/logging"
	"roomviz/internal/post"
)

const (
	sidebarWidth   = 28
	histogramWidth = 44
	headerHeight   = 1
	footerHeight   = 2
)

type Model struct {
	ctx    context.Context
	post   post.Post
	logger *log.Logger

	width  int
	height int

	showSidebar bool
	helpVisible bool

	zoom    float64
	offsetX int
	offsetY int

	status  string
	loading bool

	res  *chart.ChoroplethResult
	sort config.Sort
	// region indices, largest projected area first
	order []int

	// region list
	l list.Model

	// hover state: the key under the mouse or list cursor
	hoverKey    string
	hoverRegion int

	// attributes table
	showAttrs bool
	tbl       table.Model
}

// New returns a viewer that draws the price map of p. Nothing is fetched
// before the program starts.
func New(ctx context.Context, p post.Post, lg *log.Logger) Model {
	if lg == nil {
		lg = logging.Discard()
	}
	m := Model{
		ctx:         ctx,
		post:        p,
		logger:      lg,
		helpVisible: true,
		zoom:        1.0,
		status:      "roomviz ready",
		sort:        p.Config.HistogramSort,
		hoverRegion: -1,
	}
	if !m.sort.Valid() {
		m.sort = config.SortDocument
	}
	d := list.NewDefaultDelegate()
	d.ShowDescription = true
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Regions"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	return m
}

func (m Model) Init() tea.Cmd {
	return m.load()
}

type loadedMsg struct {
	res  *chart.ChoroplethResult
	sort config.Sort
	err  error
}

// load runs the map pipeline on a copy of the post, so that a sort change
// made while loading does not race with it.
func (m Model) load() tea.Cmd {
	p := m.post
	p.Config.HistogramSort = m.sort
	ctx := m.ctx
	return func() tea.Msg {
		res, err := p.NumByNeigh(ctx)
		return loadedMsg{res: res, sort: p.Config.HistogramSort, err: err}
	}
}

// Result returns the map currently shown, nil before the first load.
func (m Model) Result() *chart.ChoroplethResult {
	return m.res
}

// Hovered returns the highlight key under the mouse or list cursor.
func (m Model) Hovered() string {
	return m.hoverKey
}
