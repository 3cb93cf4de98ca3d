package chart

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"roomviz/internal/dataset"
	"roomviz/internal/geom"
	"roomviz/internal/highlight"
	"roomviz/internal/logging"
	"roomviz/internal/palette"
)

func decode(t *testing.T, doc string) *dataset.Dataset {
	t.Helper()
	d, err := dataset.Decode(strings.NewReader(doc), nil)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func square(name string, lon, lat, size float64) geom.Feature {
	return geom.Feature{
		Name: name,
		Geometry: geom.Geometry{Polygons: [][][][2]float64{{{
			{lon, lat}, {lon + size, lat}, {lon + size, lat + size}, {lon, lat + size}, {lon, lat},
		}}}},
	}
}

func areas(t *testing.T) geom.Collection {
	t.Helper()
	data := `{"type":"FeatureCollection","features":[` +
		feature(square("Kitsilano", -123.18, 49.26, .02)) + "," +
		feature(square("West End", -123.14, 49.28, .02)) + "," +
		feature(square("Stanley Park", -123.14, 49.30, .02)) + `]}`
	c, err := geom.Decode([]byte(data), "")
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func feature(f geom.Feature) string {
	var str strings.Builder
	str.WriteString(`{"type":"Feature","properties":{"Name":"` + f.Name + `"},"geometry":{"type":"Polygon","coordinates":[[`)
	for i, p := range f.Polygons[0][0] {
		if i > 0 {
			str.WriteString(",")
		}
		str.WriteString("[" + formatValue(p[0]) + "," + formatValue(p[1]) + "]")
	}
	str.WriteString("]]}}")
	return str.String()
}

func TestDivergingSignsAroundZero(t *testing.T) {
	res, err := Diverging{ContentWidth: 1000}.Render(decode(t, `{"A": 10, "B": -5}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Bars) != 2 {
		t.Fatalf("want 2 bars, got %d", len(res.Bars))
	}
	a, b := res.Bars[0], res.Bars[1]
	if a.Name != "A" || b.Name != "B" {
		t.Fatalf("unexpected order %s %s", a.Name, b.Name)
	}
	if a.X != res.Zero || a.X+a.Width <= res.Zero {
		t.Errorf("positive bar should start on zero and extend right: %+v zero=%v", a, res.Zero)
	}
	if b.X+b.Width != res.Zero || b.X >= res.Zero {
		t.Errorf("negative bar should end on zero and extend left: %+v zero=%v", b, res.Zero)
	}
	if !a.Node.HasClass("positive") || !b.Node.HasClass("negative") {
		t.Errorf("classes: %v %v", a.Node.Class, b.Node.Class)
	}
	if res.Scale.Min != -6 || res.Scale.Max != 10 {
		t.Errorf("domain should be niced to [-6, 10], got %v", res.Scale.Domain)
	}
}

func TestDivergingBarWidth(t *testing.T) {
	res, err := Diverging{ContentWidth: 640}.Render(decode(t, `{"den": 0, "suite": 3.5, "view": -2, "new": 12, "old": -7}`))
	if err != nil {
		t.Fatal(err)
	}
	for i, bar := range res.Bars {
		want := math.Abs(res.Scale.Scale(bar.Value) - res.Scale.Scale(0))
		if math.Abs(bar.Width-want) > 1e-9 {
			t.Errorf("%s: width %v, want %v", bar.Name, bar.Width, want)
		}
		if (bar.Width == 0) != (bar.Value == 0) {
			t.Errorf("%s: zero width iff zero value, got width %v", bar.Name, bar.Width)
		}
		if i > 0 {
			prev := res.Bars[i-1]
			if prev.Value < bar.Value {
				t.Errorf("bars not in non-increasing order: %s before %s", prev.Name, bar.Name)
			}
			if prev.Y >= bar.Y {
				t.Errorf("%s should be drawn above %s", prev.Name, bar.Name)
			}
		}
	}
	out := res.Doc.String()
	for _, want := range []string{">+12<", ">-7<", ">+0<", `class="bar negative"`} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in output", want)
		}
	}
}

func TestDivergingKeepsZero(t *testing.T) {
	tests := []struct {
		doc  string
		bars int
	}{
		{`{"suite": 10}`, 1},
		{`{"a": 10, "b": 5}`, 2},
		{`{"a": -3, "b": -8}`, 2},
	}
	for _, tt := range tests {
		res, err := Diverging{ContentWidth: 800}.Render(decode(t, tt.doc))
		if err != nil {
			t.Fatal(err)
		}
		if len(res.Bars) != tt.bars {
			t.Fatalf("%s: want %d bars, got %d", tt.doc, tt.bars, len(res.Bars))
		}
		if res.Zero < 0 || res.Zero > 600 {
			t.Errorf("%s: zero off the canvas at %v", tt.doc, res.Zero)
		}
		for _, bar := range res.Bars {
			if bar.Width <= 0 {
				t.Errorf("%s: %s has width %v", tt.doc, bar.Name, bar.Width)
			}
			if bar.X < 0 || bar.X+bar.Width > 600+1e-9 {
				t.Errorf("%s: %s drawn outside [0, 600]: x=%v width=%v", tt.doc, bar.Name, bar.X, bar.Width)
			}
		}
	}
}

func TestDivergingTermOffset(t *testing.T) {
	res, err := Diverging{ContentWidth: 800}.Render(decode(t, `{"suite": 10}`))
	if err != nil {
		t.Fatal(err)
	}
	// 5 units right of the value on a [0, 10] -> [0, 600] scale
	if out := res.Doc.String(); !strings.Contains(out, `x="900"`) {
		t.Errorf("term label not at x(15)")
	}
}

func TestTimeSeriesHeights(t *testing.T) {
	res, err := TimeSeries{ContentWidth: 800}.Render(decode(t, `{"Mon": 0.9, "Tue": 0.8, "Wed": 0.5}`))
	if err != nil {
		t.Fatal(err)
	}
	names := []string{"Mon", "Tue", "Wed"}
	for i, bar := range res.Bars {
		if bar.Name != names[i] {
			t.Fatalf("input order lost: %v at %d", bar.Name, i)
		}
		if i > 0 && bar.Height >= res.Bars[i-1].Height {
			t.Errorf("heights should strictly decrease: %s %v >= %v", bar.Name, bar.Height, res.Bars[i-1].Height)
		}
		if i > 0 && bar.X <= res.Bars[i-1].X {
			t.Errorf("bars should go left to right")
		}
		if math.Abs(bar.Y+bar.Height-(res.Bars[0].Y+res.Bars[0].Height)) > 1e-9 {
			t.Errorf("%s not anchored on the baseline", bar.Name)
		}
	}
	out := res.Doc.String()
	for _, want := range []string{">90<", ">50<", "Remaining Posts (%)", ">Day<"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in output", want)
		}
	}
}

func TestBubbleAreas(t *testing.T) {
	res, err := Bubble{ContentWidth: 900}.Render(decode(t, `{"suite": 40, "view": -10, "den": 90, "basement": -25, "new": 5}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Circles) != 5 {
		t.Fatalf("want 5 circles, root filtered, got %d", len(res.Circles))
	}
	ratio := res.Circles[0].R * res.Circles[0].R / res.Circles[0].Value
	for _, c := range res.Circles {
		if c.Name == "root" {
			t.Fatal("root drawn")
		}
		if got := c.R * c.R / c.Value; math.Abs(got-ratio) > 1e-9*ratio {
			t.Errorf("%s: area not proportional to weight (%v vs %v)", c.Name, got, ratio)
		}
		if c.X-c.R < -1e-9 || c.X+c.R > 900+1e-9 || c.Y-c.R < -1e-9 || c.Y+c.R > BubbleHeight+1e-9 {
			t.Errorf("%s outside the drawing area: %+v", c.Name, c)
		}
		wantNeg := c.Sign == -1
		if c.Node.HasClass("negative") != wantNeg {
			t.Errorf("%s: class %v", c.Name, c.Node.Class)
		}
	}
	out := res.Doc.String()
	for _, want := range []string{">-10<tspan", ">+90<tspan", `transform="translate(2,2)"`} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in output", want)
		}
	}
}

func TestPackSeparatesSiblings(t *testing.T) {
	root := &PackNode{Children: []*PackNode{{Name: "a", Value: 4}, {Name: "b", Value: 9}, {Name: "c", Value: 1}}}
	Pack(root, 300, 300, 5)
	kids := root.Children
	if kids[0].Name != "c" || kids[2].Name != "b" {
		t.Fatalf("siblings should be packed smallest first, got %s %s %s", kids[0].Name, kids[1].Name, kids[2].Name)
	}
	for i := range kids {
		for j := i + 1; j < len(kids); j++ {
			a, b := kids[i], kids[j]
			if d := math.Hypot(a.X-b.X, a.Y-b.Y); d <= a.R+b.R {
				t.Errorf("%s and %s overlap: distance %v, radii %v %v", a.Name, b.Name, d, a.R, b.R)
			}
		}
		if d := math.Hypot(kids[i].X-root.X, kids[i].Y-root.Y); d+kids[i].R > root.R+1e-9 {
			t.Errorf("%s leaves the root circle", kids[i].Name)
		}
	}
	if root.X != 150 || root.Y != 150 {
		t.Errorf("root should be centred, got %v %v", root.X, root.Y)
	}
}

func TestChoroplethHighlightsRegionAndBar(t *testing.T) {
	var buf bytes.Buffer
	c := NewChoropleth(1200)
	c.Logger = logging.Plain(&buf, "info")
	prices := decode(t, `{"West End": 950, "Kitsilano": 610, "Sunset": 380}`)

	res, err := c.Render(areas(t), prices, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Map.Width != 800 || res.Histogram.Width != 400 {
		t.Fatalf("side by side sizes: %v %v", res.Map.Width, res.Histogram.Width)
	}
	key := highlight.Key("West End")
	if !res.Index.Activate(key) {
		t.Fatalf("%s not registered", key)
	}
	var region, bar bool
	for _, r := range res.Regions {
		if r.Name == "West End" {
			region = r.Path.HasClass(highlight.Class) && r.Label.HasClass(highlight.Class)
		} else if r.Path.HasClass(highlight.Class) {
			t.Errorf("%s highlighted", r.Name)
		}
	}
	for _, b := range res.Bars {
		if b.Name == "West End" {
			bar = b.Node.HasClass(highlight.Class)
		}
	}
	if !region || !bar {
		t.Fatalf("region %v bar %v", region, bar)
	}
	if got := len(res.Index.Handles(key)); got != 3 {
		t.Fatalf("want path, label and bar, got %d handles", got)
	}
	res.Index.Deactivate(key)
	if strings.Contains(res.Map.String(), highlight.Class) {
		t.Fatalf("highlight left after deactivation")
	}
	if !strings.Contains(res.Map.String(), `class="batch-West-End"`) {
		t.Fatalf("map misses the key class")
	}
}

func TestChoroplethColours(t *testing.T) {
	var buf bytes.Buffer
	c := NewChoropleth(1200)
	c.Logger = logging.Plain(&buf, "info")
	res, err := c.Render(areas(t), decode(t, `{"West End": 950, "Kitsilano": 610}`), nil)
	if err != nil {
		t.Fatal(err)
	}
	fills := map[string]string{}
	for _, r := range res.Regions {
		fills[r.Name] = r.Fill
	}
	if fills["West End"] != palette.Greens9[8] {
		t.Errorf("value above the domain should clamp to the darkest colour, got %s", fills["West End"])
	}
	if fills["Kitsilano"] != palette.Greens9[4] {
		t.Errorf("610 should fall in the fifth bucket, got %s", fills["Kitsilano"])
	}
	if fills["Stanley Park"] != palette.Missing {
		t.Errorf("region without price should get the missing colour, got %s", fills["Stanley Park"])
	}
	if !strings.Contains(buf.String(), "Stanley Park") {
		t.Errorf("missing price not reported: %s", buf.String())
	}
	for _, r := range res.Regions {
		if r.Centroid[0] < 0 || r.Centroid[0] > 800 || r.Centroid[1] < 0 || r.Centroid[1] > 600 {
			t.Errorf("%s centroid off the map: %v", r.Name, r.Centroid)
		}
	}
	if got := Initials("Kensington-Cedar Cottage"); got != "KCC" {
		t.Errorf("initials: %s", got)
	}
}

func TestChoroplethHistogram(t *testing.T) {
	prices := decode(t, `{"Kitsilano": 610, "West End": 950, "Arbutus Ridge": 700}`)
	tests := []struct {
		order Order
		want  []string
	}{
		{OrderDocument, []string{"Kitsilano", "West End", "Arbutus Ridge"}},
		{OrderPrice, []string{"West End", "Arbutus Ridge", "Kitsilano"}},
		{OrderName, []string{"Arbutus Ridge", "Kitsilano", "West End"}},
	}
	for _, tt := range tests {
		c := NewChoropleth(700)
		c.Order = tt.order
		res, err := c.Render(areas(t), prices, nil)
		if err != nil {
			t.Fatal(err)
		}
		if res.Histogram.Width != 700 || res.Map.Width != 700 {
			t.Fatalf("stacked sizes: %v %v", res.Map.Width, res.Histogram.Width)
		}
		for i, b := range res.Bars {
			if b.Name != tt.want[i] {
				t.Errorf("%s: bar %d is %s, want %s", tt.order, i, b.Name, tt.want[i])
			}
			if b.X != barOffset {
				t.Errorf("bar x: %v", b.X)
			}
			want := b.Value / 950 * (700 - barReserve)
			if math.Abs(b.Width-want) > 1e-9 {
				t.Errorf("%s: width %v, want %v", b.Name, b.Width, want)
			}
		}
		if res.Histogram.Title != "mean $ 753" {
			t.Errorf("caption: %q", res.Histogram.Title)
		}
	}
}

func TestChoroplethNegativePrice(t *testing.T) {
	res, err := NewChoropleth(700).Render(areas(t), decode(t, `{"Kitsilano": 500, "West End": -20}`), nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range res.Bars {
		if b.Width < 0 {
			t.Errorf("%s: negative width %v", b.Name, b.Width)
		}
	}
	if out := res.Histogram.String(); strings.Contains(out, `width="-`) {
		t.Errorf("negative width in output")
	}
}

func TestRenderErrors(t *testing.T) {
	empty := decode(t, `{}`)
	if _, err := (Diverging{ContentWidth: 800}).Render(empty); !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("diverging: %v", err)
	}
	if _, err := (TimeSeries{ContentWidth: 800}).Render(empty); !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("timeseries: %v", err)
	}
	if _, err := (Bubble{ContentWidth: 800}).Render(empty); !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("bubble: %v", err)
	}
	one := decode(t, `{"a": 1}`)
	if _, err := (Diverging{ContentWidth: 0}).Render(one); !errors.Is(err, ErrNoSpace) {
		t.Errorf("diverging: %v", err)
	}
	if _, err := (Bubble{ContentWidth: 0}).Render(one); !errors.Is(err, ErrNoSpace) {
		t.Errorf("bubble: %v", err)
	}
	if _, err := NewChoropleth(200).Render(areas(t), one, nil); !errors.Is(err, ErrNoSpace) {
		t.Errorf("choropleth: %v", err)
	}
}
