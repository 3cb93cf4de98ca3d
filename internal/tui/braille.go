package tui

import "strings"

// brailleBuf is a w x h cell canvas where every cell holds a 2x4 grid of
// micro pixels. Each cell also remembers the region that last drew in it.
type brailleBuf struct {
	w, h  int       // in cells
	m     [][]uint8 // per-cell 8-bit mask
	owner [][]int   // region index per cell, -1 when blank
	text  map[[2]int]rune
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	owner := make([][]int, h)
	for i := range m {
		m[i] = make([]uint8, w)
		owner[i] = make([]int, w)
		for j := range owner[i] {
			owner[i][j] = -1
		}
	}
	return &brailleBuf{w: w, h: h, m: m, owner: owner, text: make(map[[2]int]rune)}
}

var dots = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell) for region id.
func (b *brailleBuf) setPixel(mx, my, id int) {
	if mx < 0 || my < 0 {
		return
	}
	cx, rx := mx/2, mx%2
	cy, ry := my/4, my%4
	if cy >= b.h || cx >= b.w {
		return
	}
	b.m[cy][cx] |= dots[rx][ry]
	b.owner[cy][cx] = id
}

// drawLineMicro draws a line on the microgrid using Bresenham
func (b *brailleBuf) drawLineMicro(x0, y0, x1, y1, id int) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0, id)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// label writes s centred on cell (cx, cy) over the dots.
func (b *brailleBuf) label(cx, cy int, s string, id int) {
	r := []rune(s)
	x0 := cx - len(r)/2
	for i, c := range r {
		x := x0 + i
		if x < 0 || x >= b.w || cy < 0 || cy >= b.h {
			continue
		}
		b.text[[2]int{x, cy}] = c
		b.owner[cy][x] = id
	}
}

func (b *brailleBuf) cell(x, y int) rune {
	if c, ok := b.text[[2]int{x, y}]; ok {
		return c
	}
	mask := b.m[y][x]
	if mask == 0 {
		return ' '
	}
	return rune(0x2800 + int(mask))
}

// render joins the rows, passing every run of cells with the same owner
// through paint.
func (b *brailleBuf) render(paint func(id int, s string) string) string {
	out := make([]string, b.h)
	for y := 0; y < b.h; y++ {
		var (
			row strings.Builder
			run []rune
			cur = -1
		)
		flush := func() {
			if len(run) == 0 {
				return
			}
			row.WriteString(paint(cur, string(run)))
			run = run[:0]
		}
		for x := 0; x < b.w; x++ {
			id := b.owner[y][x]
			if id != cur {
				flush()
				cur = id
			}
			run = append(run, b.cell(x, y))
		}
		flush()
		out[y] = row.String()
	}
	return strings.Join(out, "\n")
}
