package geom

import "roomviz/internal/svg"

// Path returns the svg path data of g. Rings are closed, lines open and
// points are skipped.
func Path(g Geometry, p Projection) string {
	var d svg.PathData
	for _, poly := range g.Polygons {
		for _, ring := range poly {
			ring = openRing(ring)
			if len(ring) == 0 {
				continue
			}
			for i, pt := range ring {
				xy := p.Project(pt)
				if i == 0 {
					d.MoveTo(xy[0], xy[1])
				} else {
					d.LineTo(xy[0], xy[1])
				}
			}
			d.Close()
		}
	}
	for _, ls := range g.Lines {
		for i, pt := range ls {
			xy := p.Project(pt)
			if i == 0 {
				d.MoveTo(xy[0], xy[1])
			} else {
				d.LineTo(xy[0], xy[1])
			}
		}
	}
	return d.String()
}

// Centroid returns the area weighted centroid of the projected polygons.
// Holes count negatively. Without any area it falls back to the mean of
// the projected vertices.
func Centroid(g Geometry, p Projection) [2]float64 {
	var x2, y2, z2 float64
	for _, poly := range g.Polygons {
		for _, ring := range poly {
			ring = openRing(ring)
			if len(ring) < 3 {
				continue
			}
			prev := p.Project(ring[len(ring)-1])
			for _, pt := range ring {
				cur := p.Project(pt)
				z := prev[1]*cur[0] - prev[0]*cur[1]
				x2 += z * (prev[0] + cur[0])
				y2 += z * (prev[1] + cur[1])
				z2 += z * 3
				prev = cur
			}
		}
	}
	if z2 != 0 {
		return [2]float64{x2 / z2, y2 / z2}
	}
	var (
		sum [2]float64
		n   float64
	)
	g.Each(func(pt [2]float64) {
		xy := p.Project(pt)
		sum[0] += xy[0]
		sum[1] += xy[1]
		n++
	})
	if n == 0 {
		return sum
	}
	return [2]float64{sum[0] / n, sum[1] / n}
}

// Area returns the planar area of the projected polygons, holes removed.
func Area(g Geometry, p Projection) float64 {
	var total float64
	for _, poly := range g.Polygons {
		for i, ring := range poly {
			a := ringArea(openRing(ring), p)
			if a < 0 {
				a = -a
			}
			if i == 0 {
				total += a
			} else {
				total -= a
			}
		}
	}
	return total
}

func ringArea(ring [][2]float64, p Projection) float64 {
	if len(ring) < 3 {
		return 0
	}
	var (
		sum  float64
		prev = p.Project(ring[len(ring)-1])
	)
	for _, pt := range ring {
		cur := p.Project(pt)
		sum += prev[0]*cur[1] - cur[0]*prev[1]
		prev = cur
	}
	return sum / 2
}

// Contains reports whether the projected point xy falls in g, using the
// even-odd rule over every ring.
func Contains(g Geometry, p Projection, xy [2]float64) bool {
	in := false
	for _, poly := range g.Polygons {
		for _, ring := range poly {
			ring = openRing(ring)
			if len(ring) < 3 {
				continue
			}
			j := len(ring) - 1
			for i := range ring {
				a, b := p.Project(ring[i]), p.Project(ring[j])
				if (a[1] > xy[1]) != (b[1] > xy[1]) &&
					xy[0] < (b[0]-a[0])*(xy[1]-a[1])/(b[1]-a[1])+a[0] {
					in = !in
				}
				j = i
			}
		}
	}
	return in
}

// openRing drops the closing vertex of a ring.
func openRing(ring [][2]float64) [][2]float64 {
	for len(ring) > 1 && ring[len(ring)-1] == ring[0] {
		ring = ring[:len(ring)-1]
	}
	return ring
}
