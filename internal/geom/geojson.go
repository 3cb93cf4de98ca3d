package geom

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

var ErrNoFeatures = errors.New("geom: no features found")

// Decode reads GeoJSON or TopoJSON. For a topology, object names the
// geometry collection to convert; an empty name picks the first object.
func Decode(data []byte, object string) (Collection, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return Collection{}, fmt.Errorf("geom: %w", err)
	}
	if head.Type == "Topology" {
		return DecodeTopoJSON(data, object)
	}
	return DecodeGeoJSON(data)
}

// DecodeGeoJSON reads a Feature, a FeatureCollection or a bare geometry.
func DecodeGeoJSON(data []byte) (Collection, error) {
	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return Collection{}, fmt.Errorf("geom: %w", err)
	}
	t, _ := raw["type"].(string)
	if t == "" {
		return Collection{}, errors.New("invalid geojson: missing type")
	}
	var list []Feature
	switch t {
	case "Feature":
		list = append(list, parseFeature(raw))
	case "FeatureCollection":
		if fs, ok := raw["features"].([]any); ok {
			for _, f := range fs {
				if fm, ok := f.(map[string]any); ok {
					list = append(list, parseFeature(fm))
				}
			}
		}
	default:
		var f Feature
		walkGeometry(raw, &f.Geometry)
		list = append(list, f)
	}
	return newCollection(list)
}

func parseFeature(fm map[string]any) Feature {
	var f Feature
	f.Properties, _ = fm["properties"].(map[string]any)
	f.Name = featureName(f.Properties)
	f.ID = featureID(fm["id"])
	if g, ok := fm["geometry"].(map[string]any); ok {
		walkGeometry(g, &f.Geometry)
	}
	return f
}

func walkGeometry(g map[string]any, d *Geometry) {
	gt, _ := g["type"].(string)
	switch gt {
	case "Point":
		if pt, ok := parsePoint(g["coordinates"]); ok {
			d.Points = append(d.Points, pt)
		}
	case "MultiPoint":
		if pts, ok := parseArrayPoints(g["coordinates"]); ok {
			d.Points = append(d.Points, pts...)
		}
	case "LineString":
		if ls, ok := parseArrayPoints(g["coordinates"]); ok {
			d.Lines = append(d.Lines, ls)
		}
	case "MultiLineString":
		if mls, ok := parseMultiLineString(g["coordinates"]); ok {
			d.Lines = append(d.Lines, mls...)
		}
	case "Polygon":
		if poly, ok := parsePolygon(g["coordinates"]); ok {
			d.Polygons = append(d.Polygons, poly)
		}
	case "MultiPolygon":
		if mp, ok := parseMultiPolygon(g["coordinates"]); ok {
			d.Polygons = append(d.Polygons, mp...)
		}
	case "GeometryCollection":
		if gs, ok := g["geometries"].([]any); ok {
			for _, sub := range gs {
				if sm, ok := sub.(map[string]any); ok {
					walkGeometry(sm, d)
				}
			}
		}
	}
}

func parsePoint(v any) (pt [2]float64, ok bool) {
	if a, ok := v.([]any); ok && len(a) >= 2 {
		lon, lok := a[0].(float64)
		lat, aok := a[1].(float64)
		if lok && aok {
			return [2]float64{lon, lat}, true
		}
	}
	return [2]float64{}, false
}

func parseArrayPoints(v any) (pts [][2]float64, ok bool) {
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	for _, el := range arr {
		if pt, ok := parsePoint(el); ok {
			pts = append(pts, pt)
		}
	}
	return pts, true
}

func parseMultiLineString(v any) (m [][][2]float64, ok bool) {
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	for _, el := range arr {
		if ls, ok := parseArrayPoints(el); ok {
			m = append(m, ls)
		}
	}
	return m, true
}

func parsePolygon(v any) (poly [][][2]float64, ok bool) {
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	for _, ring := range arr {
		if ls, ok := parseArrayPoints(ring); ok && len(ls) > 0 {
			poly = append(poly, ls)
		}
	}
	return poly, len(poly) > 0
}

func parseMultiPolygon(v any) (mp [][][][2]float64, ok bool) {
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	for _, el := range arr {
		if poly, ok := parsePolygon(el); ok {
			mp = append(mp, poly)
		}
	}
	return mp, true
}

func formatID(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
