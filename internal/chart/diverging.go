package chart

import (
	"math"

	"roomviz/internal/dataset"
	"roomviz/internal/scale"
	"roomviz/internal/svg"
)

// Diverging draws signed weights as horizontal bars anchored on zero, the
// largest value on top.
type Diverging struct {
	ContentWidth float64
}

type DivergingResult struct {
	Doc   *svg.Document
	Bars  []Bar
	Zero  float64
	Scale scale.Linear
}

var divergingPadding = Padding{Top: 10, Right: 150, Bottom: 10, Left: 50}

func (d Diverging) Render(data *dataset.Dataset) (*DivergingResult, error) {
	if data == nil || data.Len() == 0 {
		return nil, ErrEmptyDataset
	}
	frame := chartFrame(d.ContentWidth, divergingPadding)
	if err := frame.check(); err != nil {
		return nil, err
	}
	// zero stays inside the domain so that every bar is anchored on it
	ext := scale.Extent(data.Values())
	ext.Min, ext.Max = math.Min(ext.Min, 0), math.Max(ext.Max, 0)
	var (
		sorted  = data.SortDesc()
		entries = sorted.Signed()
		width   = frame.DrawingWidth()
		height  = frame.DrawingHeight()
		x       = scale.NewLinear(ext, scale.NewRange(0, width)).Nice()
		y       = scale.RoundBands(sorted.Names(), scale.NewRange(0, height), .2)
		zero    = x.Scale(0)
	)

	doc := svg.NewDocument(frame.Width, frame.Height)
	doc.Class = "popular-keywords"
	var (
		grp    = svg.NewGroup(svg.WithTranslate(frame.Left, frame.Top))
		bars   = svg.NewGroup(svg.WithClass("bars"))
		terms  = svg.NewGroup(svg.WithClass("terms"))
		values = svg.NewGroup(svg.WithClass("values"))
		res    = DivergingResult{Doc: doc, Zero: zero, Scale: x}
	)
	for _, e := range entries {
		var (
			top   = y.Scale(e.Name)
			left  = x.Scale(math.Min(0, e.Value))
			size  = math.Abs(x.Scale(e.Value) - zero)
			class = "positive"
		)
		if e.Value < 0 {
			class = "negative"
		}
		rect := svg.NewRect(left, top, size, y.Bandwidth(), svg.WithClass("bar", class))
		bars.Append(rect)

		terms.Append(svg.NewText(x.Scale(math.Max(0, e.Value)+5), top+23, e.Name,
			svg.WithAttr("font-weight", "bold"),
		))

		anchor := "start"
		if e.Sign == -1 {
			anchor = "end"
		}
		values.Append(svg.NewText(zero+float64(e.Sign)*10, top+23, signed(e.Value),
			svg.WithAttr("text-anchor", anchor),
			svg.WithFill("#ffffff"),
			svg.WithAttr("font-weight", "bold"),
			svg.WithAttr("font-size", "10pt"),
		))

		res.Bars = append(res.Bars, Bar{
			Name:   e.Name,
			Value:  e.Value,
			X:      left,
			Y:      top,
			Width:  size,
			Height: y.Bandwidth(),
			Node:   rect,
		})
	}
	grp.Append(bars, terms, values)
	doc.Append(grp)
	return &res, nil
}
