package geom

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

type topology struct {
	Type      string                     `json:"type"`
	Transform *transform                 `json:"transform"`
	Arcs      [][][]float64              `json:"arcs"`
	Objects   map[string]json.RawMessage `json:"objects"`
}

// transform undoes the quantization of a topology.
type transform struct {
	Scale     [2]float64 `json:"scale"`
	Translate [2]float64 `json:"translate"`
}

func (t *transform) apply(x, y float64) [2]float64 {
	if t == nil {
		return [2]float64{x, y}
	}
	return [2]float64{
		x*t.Scale[0] + t.Translate[0],
		y*t.Scale[1] + t.Translate[1],
	}
}

type topoGeometry struct {
	Type        string          `json:"type"`
	ID          any             `json:"id"`
	Properties  map[string]any  `json:"properties"`
	Arcs        json.RawMessage `json:"arcs"`
	Coordinates json.RawMessage `json:"coordinates"`
	Geometries  []topoGeometry  `json:"geometries"`
}

// DecodeTopoJSON converts one object of a topology to features, stitching
// the shared arcs back into rings.
func DecodeTopoJSON(data []byte, object string) (Collection, error) {
	var topo topology
	if err := json.Unmarshal(data, &topo); err != nil {
		return Collection{}, fmt.Errorf("geom: %w", err)
	}
	if topo.Type != "Topology" {
		return Collection{}, fmt.Errorf("geom: not a topology: %q", topo.Type)
	}
	if object == "" {
		names := make([]string, 0, len(topo.Objects))
		for k := range topo.Objects {
			names = append(names, k)
		}
		sort.Strings(names)
		if len(names) == 0 {
			return Collection{}, ErrNoFeatures
		}
		object = names[0]
	}
	raw, ok := topo.Objects[object]
	if !ok {
		return Collection{}, fmt.Errorf("geom: topology has no object %q", object)
	}
	var root topoGeometry
	if err := json.Unmarshal(raw, &root); err != nil {
		return Collection{}, fmt.Errorf("geom: object %s: %w", object, err)
	}

	st := stitcher{
		arcs: decodeArcs(topo.Arcs, topo.Transform),
		tf:   topo.Transform,
	}
	var list []Feature
	if root.Type == "GeometryCollection" {
		for _, g := range root.Geometries {
			f, err := st.feature(g)
			if err != nil {
				return Collection{}, err
			}
			list = append(list, f)
		}
	} else {
		f, err := st.feature(root)
		if err != nil {
			return Collection{}, err
		}
		list = append(list, f)
	}
	return newCollection(list)
}

// decodeArcs returns absolute coordinates. Quantized arcs are delta encoded.
func decodeArcs(arcs [][][]float64, tf *transform) [][][2]float64 {
	out := make([][][2]float64, len(arcs))
	for i, arc := range arcs {
		var (
			x, y float64
			pts  = make([][2]float64, 0, len(arc))
		)
		for _, p := range arc {
			if len(p) < 2 {
				continue
			}
			if tf != nil {
				x += p[0]
				y += p[1]
			} else {
				x, y = p[0], p[1]
			}
			pts = append(pts, tf.apply(x, y))
		}
		out[i] = pts
	}
	return out
}

type stitcher struct {
	arcs [][][2]float64
	tf   *transform
}

func (s stitcher) feature(g topoGeometry) (Feature, error) {
	f := Feature{
		ID:         featureID(g.ID),
		Properties: g.Properties,
		Name:       featureName(g.Properties),
	}
	if err := s.geometry(g, &f.Geometry); err != nil {
		return Feature{}, err
	}
	return f, nil
}

func (s stitcher) geometry(g topoGeometry, d *Geometry) error {
	switch g.Type {
	case "Point":
		var p []float64
		if err := json.Unmarshal(g.Coordinates, &p); err != nil || len(p) < 2 {
			return errors.New("geom: invalid point")
		}
		d.Points = append(d.Points, s.tf.apply(p[0], p[1]))
	case "MultiPoint":
		var ps [][]float64
		if err := json.Unmarshal(g.Coordinates, &ps); err != nil {
			return fmt.Errorf("geom: invalid multipoint: %w", err)
		}
		for _, p := range ps {
			if len(p) >= 2 {
				d.Points = append(d.Points, s.tf.apply(p[0], p[1]))
			}
		}
	case "LineString":
		var idx []int
		if err := json.Unmarshal(g.Arcs, &idx); err != nil {
			return fmt.Errorf("geom: invalid linestring: %w", err)
		}
		ls, err := s.line(idx)
		if err != nil {
			return err
		}
		d.Lines = append(d.Lines, ls)
	case "MultiLineString":
		var idx [][]int
		if err := json.Unmarshal(g.Arcs, &idx); err != nil {
			return fmt.Errorf("geom: invalid multilinestring: %w", err)
		}
		for _, l := range idx {
			ls, err := s.line(l)
			if err != nil {
				return err
			}
			d.Lines = append(d.Lines, ls)
		}
	case "Polygon":
		var idx [][]int
		if err := json.Unmarshal(g.Arcs, &idx); err != nil {
			return fmt.Errorf("geom: invalid polygon: %w", err)
		}
		poly, err := s.polygon(idx)
		if err != nil {
			return err
		}
		d.Polygons = append(d.Polygons, poly)
	case "MultiPolygon":
		var idx [][][]int
		if err := json.Unmarshal(g.Arcs, &idx); err != nil {
			return fmt.Errorf("geom: invalid multipolygon: %w", err)
		}
		for _, p := range idx {
			poly, err := s.polygon(p)
			if err != nil {
				return err
			}
			d.Polygons = append(d.Polygons, poly)
		}
	case "GeometryCollection":
		for _, sub := range g.Geometries {
			if err := s.geometry(sub, d); err != nil {
				return err
			}
		}
	}
	return nil
}

// arc returns the points of arc i. A negative index is the reversed arc ^i.
func (s stitcher) arc(i int) ([][2]float64, error) {
	j := i
	if i < 0 {
		j = ^i
	}
	if j >= len(s.arcs) {
		return nil, fmt.Errorf("geom: arc %d out of range", i)
	}
	src := s.arcs[j]
	pts := make([][2]float64, len(src))
	copy(pts, src)
	if i < 0 {
		for a, b := 0, len(pts)-1; a < b; a, b = a+1, b-1 {
			pts[a], pts[b] = pts[b], pts[a]
		}
	}
	return pts, nil
}

// line joins consecutive arcs, dropping the point they share.
func (s stitcher) line(idx []int) ([][2]float64, error) {
	var pts [][2]float64
	for _, i := range idx {
		arc, err := s.arc(i)
		if err != nil {
			return nil, err
		}
		if len(pts) > 0 && len(arc) > 0 {
			pts = pts[:len(pts)-1]
		}
		pts = append(pts, arc...)
	}
	if len(pts) == 1 {
		pts = append(pts, pts[0])
	}
	return pts, nil
}

func (s stitcher) polygon(idx [][]int) ([][][2]float64, error) {
	var poly [][][2]float64
	for _, r := range idx {
		ring, err := s.line(r)
		if err != nil {
			return nil, err
		}
		if len(ring) == 0 {
			continue
		}
		for len(ring) < 4 {
			ring = append(ring, ring[0])
		}
		poly = append(poly, ring)
	}
	return poly, nil
}
