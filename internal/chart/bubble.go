package chart

import (
	"roomviz/internal/dataset"
	"roomviz/internal/svg"
)

const (
	BubbleHeight  = 600
	bubblePadding = 5
	rootName      = "root"
)

// Bubble packs the absolute weights into circles, one per term.
type Bubble struct {
	ContentWidth float64
}

type Circle struct {
	Name  string
	Value float64
	Sign  int
	X     float64
	Y     float64
	R     float64
	Node  *svg.Node
}

type BubbleResult struct {
	Doc     *svg.Document
	Circles []Circle
}

func (b Bubble) Render(data *dataset.Dataset) (*BubbleResult, error) {
	if data == nil || data.Len() == 0 {
		return nil, ErrEmptyDataset
	}
	if b.ContentWidth <= 0 {
		return nil, ErrNoSpace
	}
	root := &PackNode{Name: rootName}
	for _, e := range data.Signed() {
		root.Children = append(root.Children, &PackNode{
			Name:  e.Name,
			Value: e.Abs,
			Sign:  e.Sign,
		})
	}
	Pack(root, b.ContentWidth, BubbleHeight, bubblePadding)

	doc := svg.NewDocument(b.ContentWidth, BubbleHeight)
	doc.Class = "popular-keywords-bubble"
	var (
		grp     = svg.NewGroup(svg.WithTranslate(2, 2))
		circles = svg.NewGroup(svg.WithClass("circles"))
		terms   = svg.NewGroup(svg.WithClass("terms"))
		values  = svg.NewGroup(svg.WithClass("values"))
		res     = BubbleResult{Doc: doc}
	)
	for _, n := range root.Nodes()[1:] {
		class, sign := "positive", "+"
		if n.Sign == -1 {
			class, sign = "negative", "-"
		}
		circle := svg.NewCircle(n.X, n.Y, n.R, svg.WithClass(class))
		circles.Append(circle)

		terms.Append(svg.NewText(n.X, n.Y+.45*n.R, n.Name,
			svg.WithFill("#ffffff"),
			svg.WithAttr("text-anchor", "middle"),
			svg.WithAttr("font-size", px(.3*n.R)),
		))

		value := svg.NewText(n.X, n.Y+.05*n.R, sign+formatValue(n.Value),
			svg.WithFill("#ffffff"),
			svg.WithAttr("text-anchor", "middle"),
			svg.WithAttr("font-size", px(.5*n.R)),
		)
		value.Append(svg.NewTSpan("$", svg.WithAttr("font-size", px(.3*n.R))))
		values.Append(value)

		res.Circles = append(res.Circles, Circle{
			Name:  n.Name,
			Value: n.Value,
			Sign:  n.Sign,
			X:     n.X,
			Y:     n.Y,
			R:     n.R,
			Node:  circle,
		})
	}
	grp.Append(circles, terms, values)
	doc.Append(grp)
	return &res, nil
}
