package tui

import (
	"fmt"
	"sort"

	table "github.com/charmbracelet/bubbles/table"

	"roomviz/internal/chart"
)

// refreshAttrs rebuilds the attribute table from the drawn regions: one row
// per region with its price, fill and the union of its feature properties.
func (m *Model) refreshAttrs() {
	if m.res == nil || len(m.res.Regions) == 0 {
		m.showAttrs = false
		m.status = "no regions to show"
		return
	}
	props := propertyNames(m.res.Regions)
	cols := []table.Column{
		{Title: "#", Width: 3},
		{Title: "region", Width: 18},
		{Title: "price", Width: 8},
		{Title: "fill", Width: 8},
		{Title: "key", Width: 20},
	}
	for _, p := range props {
		cols = append(cols, table.Column{Title: p, Width: min(16, len(p)+4)})
	}
	rows := make([]table.Row, 0, len(m.res.Regions))
	for i, r := range m.res.Regions {
		price := "-"
		if r.Priced {
			price = fmt.Sprintf("%.0f", r.Value)
		}
		row := table.Row{fmt.Sprintf("%d", i+1), r.Name, price, r.Fill, r.Key}
		for _, p := range props {
			row = append(row, formatProperty(r.Feature.Properties[p]))
		}
		rows = append(rows, row)
	}
	// clear rows first so the column count never disagrees with a row
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(cols)
	m.tbl.SetRows(rows)
}

func propertyNames(regions []chart.Region) []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range regions {
		for k := range r.Feature.Properties {
			if !seen[k] {
				seen[k] = true
				names = append(names, k)
			}
		}
	}
	sort.Strings(names)
	return names
}

func formatProperty(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return fmt.Sprintf("%g", v)
	case bool:
		return fmt.Sprintf("%t", v)
	default:
		return fmt.Sprint(v)
	}
}
