package chart

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"roomviz/internal/dataset"
	"roomviz/internal/geom"
	"roomviz/internal/highlight"
	"roomviz/internal/palette"
	"roomviz/internal/scale"
	"roomviz/internal/svg"
)

// Order of the histogram bars.
type Order string

const (
	OrderDocument Order = "document"
	OrderPrice    Order = "price"
	OrderName     Order = "name"
)

const (
	stackedWidth = 800
	barOffset    = 180
	nameOffset   = 170
	priceOffset  = 190
	barReserve   = 220
)

var upper = regexp.MustCompile(`[A-Z]`)

// Choropleth colours the regions by price and ranks them in a companion
// histogram. Region, label and bar of a name share a highlight key.
type Choropleth struct {
	ContentWidth float64
	Color        scale.Quantize
	Order        Order
	Logger       *log.Logger
}

func NewChoropleth(content float64) Choropleth {
	return Choropleth{
		ContentWidth: content,
		Color:        scale.NewQuantize(scale.NewDomain(400, 800), palette.Greens9, palette.Missing),
		Order:        OrderDocument,
	}
}

// Region is a map area as drawn.
type Region struct {
	Name     string
	Key      string
	Value    float64
	Priced   bool
	Fill     string
	Centroid [2]float64
	Feature  geom.Feature
	Path     *svg.Node
	Label    *svg.Node
}

type ChoroplethResult struct {
	Map        *svg.Document
	Histogram  *svg.Document
	Index      *highlight.Index
	Projection geom.Albers
	Regions    []Region
	Bars       []Bar
	Mean       float64
	Color      scale.Quantize
}

// Sizes returns the map and histogram widths for a content width: side by
// side above 800 pixels, stacked otherwise.
func Sizes(content float64) (float64, float64) {
	if content <= stackedWidth {
		return content, content
	}
	return content * 2 / 3, content / 3
}

// Render draws the map and the histogram. raw holds the undecoded price
// values for the mean caption; when nil the dataset values are used.
func (c Choropleth) Render(areas geom.Collection, prices *dataset.Dataset, raw []any) (*ChoroplethResult, error) {
	if prices == nil || prices.Len() == 0 {
		return nil, ErrEmptyDataset
	}
	if len(areas.Features) == 0 {
		return nil, geom.ErrNoFeatures
	}
	mapWidth, histWidth := Sizes(c.ContentWidth)
	var (
		mapFrame  = Frame{Width: mapWidth, Height: ChartHeight}
		histFrame = Frame{Width: histWidth, Height: ChartHeight}
	)
	if err := mapFrame.check(); err != nil {
		return nil, err
	}
	if histFrame.Width <= barReserve {
		return nil, fmt.Errorf("%w: histogram needs more than %d pixels", ErrNoSpace, barReserve)
	}
	if len(c.Color.Colors) == 0 {
		c.Color = NewChoropleth(c.ContentWidth).Color
	}

	res := ChoroplethResult{
		Index:      highlight.NewIndex(),
		Color:      c.Color,
		Projection: geom.NewAlbers().Fit(areas, mapFrame.DrawingWidth(), mapFrame.DrawingHeight()),
	}
	res.Map = c.drawMap(mapFrame, areas, prices, &res)
	res.Histogram = c.drawHistogram(histFrame, prices, &res)

	if raw == nil {
		for _, v := range prices.Values() {
			raw = append(raw, v)
		}
	}
	res.Mean = dataset.Mean(raw, c.Logger)
	if !math.IsNaN(res.Mean) {
		res.Histogram.Title = "mean $ " + formatValue(jsRound(res.Mean))
	}
	return &res, nil
}

func (c Choropleth) drawMap(frame Frame, areas geom.Collection, prices *dataset.Dataset, res *ChoroplethResult) *svg.Document {
	doc := svg.NewDocument(frame.Width, frame.Height)
	doc.Class = "map"
	var (
		paths  = svg.NewGroup(svg.WithClass("regions"))
		labels = svg.NewGroup(svg.WithClass("labels"))
	)
	for i, f := range areas.Features {
		value, ok := prices.Lookup(f.Name)
		if !ok {
			value = math.NaN()
			if c.Logger != nil {
				c.Logger.Warn("region without price", "name", f.Name)
			}
		}
		var (
			fill     = c.Color.Scale(value)
			centroid = geom.Centroid(f.Geometry, res.Projection)
			path     = svg.NewPath(geom.Path(f.Geometry, res.Projection),
				svg.WithID(fmt.Sprintf("region-%d", i)),
				svg.WithFill(fill),
			)
			label *svg.Node
		)
		paths.Append(path)
		if initials := Initials(f.Name); initials != "" {
			label = svg.NewText(centroid[0], centroid[1], initials,
				svg.WithID(fmt.Sprintf("region-label-%d", i)),
				svg.WithAttr("text-anchor", "middle"),
				svg.WithAttr("font-size", "12pt"),
				svg.WithFill("#131313"),
			)
			labels.Append(label)
		}
		key := res.Index.Register(f.Name, path, label)
		res.Regions = append(res.Regions, Region{
			Name:     f.Name,
			Key:      key,
			Value:    value,
			Priced:   ok,
			Fill:     fill,
			Centroid: centroid,
			Feature:  f,
			Path:     path,
			Label:    label,
		})
	}
	doc.Append(paths, labels)
	return doc
}

func (c Choropleth) drawHistogram(frame Frame, prices *dataset.Dataset, res *ChoroplethResult) *svg.Document {
	ordered := c.ordered(prices)
	var (
		x = scale.NewLinear(scale.NewDomain(0, math.Max(0, prices.Max())), scale.NewRange(0, frame.Width-barReserve))
		y = scale.Bands(ordered.Names(), scale.NewRange(0, frame.Height), .2)
		h = y.Bandwidth()
	)
	doc := svg.NewDocument(frame.Width, frame.Height)
	doc.Class = "histogram"
	var (
		bars   = svg.NewGroup(svg.WithClass("bars"))
		names  = svg.NewGroup(svg.WithClass("names"))
		amount = svg.NewGroup(svg.WithClass("prices"))
	)
	for i, e := range ordered.Entries() {
		var (
			top   = y.Scale(e.Name)
			width = math.Max(0, x.Scale(e.Value))
			fill  = c.Color.Scale(e.Value)
			rect  = svg.NewRect(barOffset, top, width, h,
				svg.WithID(fmt.Sprintf("bar-%d", i)),
				svg.WithFill(fill),
			)
		)
		bars.Append(rect)
		res.Index.Register(e.Name, rect)

		names.Append(svg.NewText(nameOffset, top, e.Name,
			svg.WithAttr("text-anchor", "end"),
			svg.WithAttr("dy", h/1.5),
		))
		amount.Append(svg.NewText(width+priceOffset, top, "$ "+formatValue(jsRound(e.Value)),
			svg.WithAttr("dy", h/1.7),
			svg.WithAttr("font-size", "8pt"),
			svg.WithAttr("font-family", "sans-serif"),
			svg.WithAttr("font-weight", "bold"),
			svg.WithFill("#888888"),
		))

		res.Bars = append(res.Bars, Bar{
			Name:   e.Name,
			Value:  e.Value,
			X:      barOffset,
			Y:      top,
			Width:  width,
			Height: h,
			Fill:   fill,
			Node:   rect,
		})
	}
	doc.Append(bars, names, amount)
	return doc
}

func (c Choropleth) ordered(prices *dataset.Dataset) *dataset.Dataset {
	switch c.Order {
	case OrderPrice:
		return prices.SortDesc()
	case OrderName:
		return prices.SortName()
	default:
		return prices
	}
}

// Initials returns the capital letters of name.
func Initials(name string) string {
	return strings.Join(upper.FindAllString(name, -1), "")
}
