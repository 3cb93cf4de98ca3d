package tui

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"roomviz/internal/chart"
	"roomviz/internal/geom"
)

// viewport maps projected map pixels onto the micro grid of a w x h cell
// canvas, considering zoom and pan.
type viewport struct {
	w, h   int
	scale  float64
	cx, cy float64
	ox, oy int
}

func (m Model) viewport(w, h int) viewport {
	mw, mh := 1.0, 1.0
	if m.res != nil && m.res.Map != nil {
		mw, mh = m.res.Map.Width, m.res.Map.Height
	}
	return viewport{
		w:     w,
		h:     h,
		scale: math.Min(float64(2*w)/mw, float64(4*h)/mh) * m.zoom,
		cx:    mw / 2,
		cy:    mh / 2,
		ox:    m.offsetX * 2,
		oy:    m.offsetY * 4,
	}
}

func (v viewport) micro(pt [2]float64) (float64, float64) {
	x := (pt[0]-v.cx)*v.scale + float64(v.w+v.ox)
	y := (pt[1]-v.cy)*v.scale + float64(2*v.h+v.oy)
	return x, y
}

// pixel is the inverse of micro.
func (v viewport) pixel(mx, my float64) [2]float64 {
	return [2]float64{
		(mx-float64(v.w+v.ox))/v.scale + v.cx,
		(my-float64(2*v.h+v.oy))/v.scale + v.cy,
	}
}

// cellPixel returns the projected point under the centre of cell (cx, cy).
func (v viewport) cellPixel(cx, cy int) [2]float64 {
	return v.pixel(float64(cx*2)+1, float64(cy*4)+2)
}

func (m Model) renderMap(w, h int) string {
	br := newBrailleBuf(w, h)
	if m.res == nil {
		return br.render(func(_ int, s string) string { return s })
	}
	vp := m.viewport(w, h)
	for _, i := range m.regionOrder() {
		r := m.res.Regions[i]
		for _, poly := range r.Feature.Geometry.Polygons {
			rings := make([][][2]float64, 0, len(poly))
			for _, ring := range poly {
				mic := make([][2]float64, 0, len(ring))
				for _, pt := range ring {
					x, y := vp.micro(m.res.Projection.Project(pt))
					mic = append(mic, [2]float64{x, y})
				}
				if len(mic) >= 3 {
					rings = append(rings, mic)
				}
			}
			fillRings(br, rings, i)
			for _, ring := range rings {
				for j := range ring {
					a, b := ring[j], ring[(j+1)%len(ring)]
					br.drawLineMicro(int(a[0]), int(a[1]), int(b[0]), int(b[1]), i)
				}
			}
		}
	}
	for i, r := range m.res.Regions {
		if r.Label == nil {
			continue
		}
		x, y := vp.micro(r.Centroid)
		br.label(int(x)/2, int(y)/4, chart.Initials(r.Name), i)
	}
	return br.render(func(id int, s string) string {
		if id < 0 {
			return s
		}
		r := m.res.Regions[id]
		return fillStyle(r.Fill, m.res.Index.Active(r.Key)).Render(s)
	})
}

// fillRings sets every micro pixel whose centre falls inside the rings,
// using the even-odd rule per scanline.
func fillRings(br *brailleBuf, rings [][][2]float64, id int) {
	if len(rings) == 0 {
		return
	}
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, ring := range rings {
		for _, p := range ring {
			minY = math.Min(minY, p[1])
			maxY = math.Max(maxY, p[1])
		}
	}
	var (
		from = max(0, int(math.Floor(minY)))
		to   = min(br.h*4-1, int(math.Ceil(maxY)))
	)
	for yMic := from; yMic <= to; yMic++ {
		var (
			y  = float64(yMic) + .5
			xs []float64
		)
		for _, ring := range rings {
			for i := range ring {
				a, b := ring[i], ring[(i+1)%len(ring)]
				if a[1] == b[1] {
					continue
				}
				if (y >= a[1] && y < b[1]) || (y >= b[1] && y < a[1]) {
					t := (y - a[1]) / (b[1] - a[1])
					xs = append(xs, a[0]+t*(b[0]-a[0]))
				}
			}
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			start := max(0, int(math.Ceil(xs[i]-.5)))
			end := min(br.w*2-1, int(math.Floor(xs[i+1]-.5)))
			for xMic := start; xMic <= end; xMic++ {
				br.setPixel(xMic, yMic, id)
			}
		}
	}
}

// regionAt returns the index of the region under map cell (cx, cy), or -1.
func (m Model) regionAt(cx, cy, w, h int) int {
	if m.res == nil {
		return -1
	}
	var (
		pt    = m.viewport(w, h).cellPixel(cx, cy)
		order = m.regionOrder()
	)
	for j := len(order) - 1; j >= 0; j-- {
		if i := order[j]; geom.Contains(m.res.Regions[i].Feature.Geometry, m.res.Projection, pt) {
			return i
		}
	}
	return -1
}

// paintOrder sorts the regions by projected area, largest first, so that
// regions enclosed by others are painted over them.
func paintOrder(res *chart.ChoroplethResult) []int {
	var (
		order = make([]int, len(res.Regions))
		area  = make([]float64, len(res.Regions))
	)
	for i, r := range res.Regions {
		order[i] = i
		area[i] = geom.Area(r.Feature.Geometry, res.Projection)
	}
	sort.SliceStable(order, func(a, b int) bool {
		return area[order[a]] > area[order[b]]
	})
	return order
}

func (m Model) regionOrder() []int {
	if len(m.order) == len(m.res.Regions) {
		return m.order
	}
	return paintOrder(m.res)
}

// cellOf returns the map cell holding the projected point pt.
func (m Model) cellOf(pt [2]float64, w, h int) (int, int) {
	x, y := m.viewport(w, h).micro(pt)
	return int(math.Floor(x / 2)), int(math.Floor(y / 4))
}

func (m Model) renderHistogram(w, h int) string {
	if m.res == nil || h <= 0 {
		return ""
	}
	var (
		nameW = 14
		valW  = 7
		barW  = max(1, w-nameW-valW-2)
		top   = 0
		most  float64
		lines []string
	)
	for _, b := range m.res.Bars {
		most = math.Max(most, b.Value)
	}
	caption := m.res.Histogram.Title
	if caption == "" {
		caption = "price by region"
	}
	lines = append(lines, titleStyle.Render(truncate(caption, w)))
	rows := barRows(h)
	if idx := m.barIndex(m.hoverKey); idx >= rows {
		top = idx - rows + 1
	}
	for i := top; i < len(m.res.Bars) && i < top+rows; i++ {
		lines = append(lines, m.renderBar(m.res.Bars[i], most, nameW, barW, valW))
	}
	if h > 1 {
		for len(lines) < h-1 {
			lines = append(lines, "")
		}
		lines = append(lines, m.renderLegend(w))
	}
	return strings.Join(lines, "\n")
}

// barRows is the number of bar rows of a histogram panel h rows high, the
// caption and the legend taken out.
func barRows(h int) int {
	return max(0, h-2)
}

// renderLegend draws one block per colour class between the first and the
// last threshold of the colour scale.
func (m Model) renderLegend(w int) string {
	var (
		q  = m.res.Color
		th = q.Thresholds()
	)
	if len(th) == 0 {
		return ""
	}
	var blocks strings.Builder
	for _, c := range q.Colors {
		blocks.WriteString(fillStyle(c, false).Render("█"))
	}
	var (
		lo = fmt.Sprintf("<%.0f ", th[0])
		hi = fmt.Sprintf(" ≥%.0f", th[len(th)-1])
	)
	if len(lo)+len(q.Colors)+len(hi) > w {
		return blocks.String()
	}
	return dimStyle.Render(lo) + blocks.String() + dimStyle.Render(hi)
}

func (m Model) renderBar(b chart.Bar, most float64, nameW, barW, valW int) string {
	var (
		active = m.res.Index.Active(m.barKey(b))
		n      = 0
	)
	if most > 0 {
		n = int(math.Round(b.Value / most * float64(barW)))
		n = min(barW, max(0, n))
	}
	name := padRight(truncate(b.Name, nameW), nameW)
	if active {
		name = activeStyle.Render(name)
	} else {
		name = dimStyle.Render(name)
	}
	bar := fillStyle(b.Fill, active).Render(strings.Repeat("█", n))
	value := fmt.Sprintf("$ %.0f", b.Value)
	return name + " " + bar + strings.Repeat(" ", barW-n+1) + padRight(value, valW)
}

func (m Model) barKey(b chart.Bar) string {
	if key, ok := m.res.Index.KeyOf(b.Node); ok {
		return key
	}
	return ""
}

func (m Model) barIndex(key string) int {
	if m.res == nil || key == "" {
		return -1
	}
	for i, b := range m.res.Bars {
		if m.barKey(b) == key {
			return i
		}
	}
	return -1
}
