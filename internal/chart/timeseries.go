package chart

import (
	"math"
	"strconv"

	"roomviz/internal/dataset"
	"roomviz/internal/scale"
	"roomviz/internal/svg"
)

// TimeSeries draws one vertical bar per category in input order.
type TimeSeries struct {
	ContentWidth float64
	Title        string
	Axis         string
}

type TimeSeriesResult struct {
	Doc  *svg.Document
	Bars []Bar
}

var timeSeriesPadding = Padding{Top: 40, Right: 10, Bottom: 100, Left: 10}

func (t TimeSeries) Render(data *dataset.Dataset) (*TimeSeriesResult, error) {
	if data == nil || data.Len() == 0 {
		return nil, ErrEmptyDataset
	}
	frame := chartFrame(t.ContentWidth, timeSeriesPadding)
	if err := frame.check(); err != nil {
		return nil, err
	}
	if t.Title == "" {
		t.Title = "Remaining Posts (%)"
	}
	if t.Axis == "" {
		t.Axis = "Day"
	}
	var (
		width  = frame.DrawingWidth()
		height = frame.DrawingHeight()
		x      = scale.RoundBands(data.Names(), scale.NewRange(0, width), .2)
		y      = scale.NewLinear(scale.NewDomain(0, math.Max(1, data.Max())), scale.NewRange(0, height))
		bw     = x.Bandwidth()
	)

	doc := svg.NewDocument(frame.Width, frame.Height)
	doc.Class = "post-frequency"
	var (
		grp    = svg.NewGroup(svg.WithTranslate(frame.Left, frame.Top))
		bars   = svg.NewGroup(svg.WithClass("bars"))
		names  = svg.NewGroup(svg.WithClass("names"))
		labels = svg.NewGroup(svg.WithClass("labels"))
		res    = TimeSeriesResult{Doc: doc}
	)
	for _, e := range data.Entries() {
		var (
			left = x.Scale(e.Name)
			size = math.Max(0, y.Scale(e.Value))
			top  = height - size
			mid  = left + bw/2
		)
		rect := svg.NewRect(left, top, bw, size, svg.WithClass("positive"))
		bars.Append(rect)

		names.Append(svg.NewText(mid, height+30, e.Name,
			svg.WithAttr("text-anchor", "middle"),
			svg.WithAttr("font-weight", "bold"),
		))
		labels.Append(svg.NewText(mid, top-10, strconv.FormatFloat(jsRound(e.Value*100), 'f', -1, 64),
			svg.WithAttr("text-anchor", "middle"),
			svg.WithAttr("font-weight", "bold"),
			svg.WithAttr("font-size", "10pt"),
			svg.WithFill("#888888"),
		))

		res.Bars = append(res.Bars, Bar{
			Name:   e.Name,
			Value:  e.Value,
			X:      left,
			Y:      top,
			Width:  bw,
			Height: size,
			Node:   rect,
		})
	}

	title := svg.NewText(0, 0, t.Title,
		svg.WithTranslate(width/2, 10),
		svg.WithAttr("text-anchor", "middle"),
		svg.WithAttr("font-size", "20px"),
		svg.WithClass("title"),
	)
	axis := svg.NewText(width/2, height+60, t.Axis,
		svg.WithAttr("text-anchor", "middle"),
		svg.WithClass("axis"),
	)
	grp.Append(bars, names, labels, title, axis)
	doc.Append(grp)
	return &res, nil
}
