package tui

import (
	"fmt"

	list "github.com/charmbracelet/bubbles/list"
)

type regionItem struct {
	title, desc string
	key         string
	index       int
}

func (r regionItem) Title() string       { return r.title }
func (r regionItem) Description() string { return r.desc }
func (r regionItem) FilterValue() string { return r.title }

// refreshRegions fills the sidebar with the drawn regions in map order.
func (m *Model) refreshRegions() {
	if m.res == nil {
		m.l.SetItems(nil)
		return
	}
	items := make([]list.Item, 0, len(m.res.Regions))
	for i, r := range m.res.Regions {
		desc := "no price"
		if r.Priced {
			desc = fmt.Sprintf("$ %.0f", r.Value)
		}
		items = append(items, regionItem{title: r.Name, desc: desc, key: r.Key, index: i})
	}
	m.l.SetItems(items)
}
