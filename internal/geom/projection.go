package geom

import "math"

const radians = math.Pi / 180

// Projection maps lon/lat degrees to screen coordinates, y growing down.
type Projection interface {
	Project(pt [2]float64) [2]float64
}

// Albers is the conic equal-area projection centred on the lower 48 US
// states, the usual choice for North American maps.
type Albers struct {
	Parallels [2]float64
	Rotate    float64
	Center    [2]float64
	Scale     float64
	Translate [2]float64
}

func NewAlbers() Albers {
	return Albers{
		Parallels: [2]float64{29.5, 45.5},
		Rotate:    96,
		Center:    [2]float64{-0.6, 38.7},
		Scale:     1,
	}
}

// Project implements Projection.
func (a Albers) Project(pt [2]float64) [2]float64 {
	var (
		raw    = a.raw()
		p      = raw(rotate(pt[0]*radians, a.Rotate*radians), pt[1]*radians)
		center = raw(a.Center[0]*radians, a.Center[1]*radians)
	)
	return [2]float64{
		p[0]*a.Scale + a.Translate[0] - center[0]*a.Scale,
		a.Translate[1] + center[1]*a.Scale - p[1]*a.Scale,
	}
}

func (a Albers) raw() func(lambda, phi float64) [2]float64 {
	var (
		sy0 = math.Sin(a.Parallels[0] * radians)
		n   = (sy0 + math.Sin(a.Parallels[1]*radians)) / 2
		c   = 1 + sy0*(2*n-sy0)
		p0  = math.Sqrt(c) / n
	)
	return func(lambda, phi float64) [2]float64 {
		p := math.Sqrt(math.Max(0, c-2*n*math.Sin(phi))) / n
		return [2]float64{
			p * math.Sin(lambda*n),
			p0 - p*math.Cos(lambda*n),
		}
	}
}

func rotate(lambda, delta float64) float64 {
	lambda += delta
	switch {
	case lambda > math.Pi:
		lambda -= 2 * math.Pi
	case lambda < -math.Pi:
		lambda += 2 * math.Pi
	}
	return lambda
}

// Fit returns a copy of a scaled and translated so that the collection
// fills 95% of a width x height area, centred.
func (a Albers) Fit(c Collection, width, height float64) Albers {
	unit := a
	unit.Scale = 1
	unit.Translate = [2]float64{}

	b := Bounds(c, unit)
	if b.Empty() {
		return a
	}
	s := .95 / math.Max(b.Width()/width, b.Height()/height)
	if math.IsInf(s, 0) || math.IsNaN(s) {
		return a
	}
	unit.Scale = s
	unit.Translate = [2]float64{
		(width - s*(b.MaxX+b.MinX)) / 2,
		(height - s*(b.MaxY+b.MinY)) / 2,
	}
	return unit
}

// Bounds returns the projected bounding box of every feature.
func Bounds(c Collection, p Projection) BBox {
	b := EmptyBBox()
	for _, f := range c.Features {
		f.Each(func(pt [2]float64) {
			b = b.Add(p.Project(pt))
		})
	}
	return b
}

// Identity leaves coordinates unchanged. Useful for already planar data.
type Identity struct{}

func (Identity) Project(pt [2]float64) [2]float64 {
	return pt
}
