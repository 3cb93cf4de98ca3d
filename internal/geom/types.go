package geom

import "math"

type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// EmptyBBox returns a box that any point extends.
func EmptyBBox() BBox {
	return BBox{
		MinX: math.Inf(1),
		MinY: math.Inf(1),
		MaxX: math.Inf(-1),
		MaxY: math.Inf(-1),
	}
}

func (b BBox) Empty() bool {
	return b.MinX > b.MaxX || b.MinY > b.MaxY
}

func (b BBox) Add(pt [2]float64) BBox {
	b.MinX = math.Min(b.MinX, pt[0])
	b.MinY = math.Min(b.MinY, pt[1])
	b.MaxX = math.Max(b.MaxX, pt[0])
	b.MaxY = math.Max(b.MaxY, pt[1])
	return b
}

func (b BBox) Union(o BBox) BBox {
	if o.Empty() {
		return b
	}
	return b.Add([2]float64{o.MinX, o.MinY}).Add([2]float64{o.MaxX, o.MaxY})
}

func (b BBox) Width() float64 {
	return b.MaxX - b.MinX
}

func (b BBox) Height() float64 {
	return b.MaxY - b.MinY
}

// Geometry is a minimal geometry container for rendering
type Geometry struct {
	Points   [][2]float64
	Lines    [][][2]float64
	Polygons [][][][2]float64 // polygons with rings (first outer, following holes)
}

func (g Geometry) Empty() bool {
	return len(g.Points) == 0 && len(g.Lines) == 0 && len(g.Polygons) == 0
}

// Each calls fn for every vertex of g.
func (g Geometry) Each(fn func([2]float64)) {
	for _, p := range g.Points {
		fn(p)
	}
	for _, ls := range g.Lines {
		for _, p := range ls {
			fn(p)
		}
	}
	for _, poly := range g.Polygons {
		for _, ring := range poly {
			for _, p := range ring {
				fn(p)
			}
		}
	}
}

func (g Geometry) BBox() BBox {
	b := EmptyBBox()
	g.Each(func(p [2]float64) {
		b = b.Add(p)
	})
	return b
}

type Feature struct {
	ID         string
	Name       string
	Properties map[string]any
	Geometry
}

// Collection holds the decoded features in document order. It is not
// modified after decoding.
type Collection struct {
	Features []Feature
	BBox     BBox
}

func newCollection(features []Feature) (Collection, error) {
	c := Collection{BBox: EmptyBBox()}
	for _, f := range features {
		if f.Geometry.Empty() {
			continue
		}
		c.Features = append(c.Features, f)
		c.BBox = c.BBox.Union(f.Geometry.BBox())
	}
	if len(c.Features) == 0 {
		return Collection{}, ErrNoFeatures
	}
	return c, nil
}

// Lookup returns the first feature called name.
func (c Collection) Lookup(name string) (Feature, bool) {
	for _, f := range c.Features {
		if f.Name == name {
			return f, true
		}
	}
	return Feature{}, false
}

func (c Collection) Names() []string {
	list := make([]string, 0, len(c.Features))
	for _, f := range c.Features {
		list = append(list, f.Name)
	}
	return list
}

func featureName(props map[string]any) string {
	for _, k := range []string{"Name", "name", "NAME"} {
		if s, ok := props[k].(string); ok {
			return s
		}
	}
	return ""
}

func featureID(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return formatID(v)
	default:
		return ""
	}
}
