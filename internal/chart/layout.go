// Package chart computes the visual encoding of the post charts and draws
// them into svg documents. Every renderer is a one-shot: it takes decoded
// data and the content width, derives its scales from the whole dataset and
// returns the drawn shapes.
package chart

import (
	"errors"
	"math"
	"strconv"

	"roomviz/internal/svg"
)

var (
	ErrEmptyDataset = errors.New("chart: empty dataset")
	ErrNoSpace      = errors.New("chart: no space to draw")
)

const (
	MaxChartWidth = 800
	ChartHeight   = 600
)

type Padding struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

func (p Padding) Horizontal() float64 {
	return p.Left + p.Right
}

func (p Padding) Vertical() float64 {
	return p.Top + p.Bottom
}

// Frame is an svg area with its padding.
type Frame struct {
	Width  float64
	Height float64

	Padding
}

func (f Frame) DrawingWidth() float64 {
	return f.Width - f.Padding.Horizontal()
}

func (f Frame) DrawingHeight() float64 {
	return f.Height - f.Padding.Vertical()
}

func (f Frame) check() error {
	if f.DrawingWidth() <= 0 || f.DrawingHeight() <= 0 {
		return ErrNoSpace
	}
	return nil
}

// Bar is one drawn rectangle with the record it stands for.
type Bar struct {
	Name   string
	Value  float64
	X      float64
	Y      float64
	Width  float64
	Height float64
	Fill   string
	Node   *svg.Node
}

// chartFrame is the frame shared by the keyword and frequency bar charts.
func chartFrame(content float64, pad Padding) Frame {
	w := math.Min(MaxChartWidth, content)
	return Frame{
		Width:   w,
		Height:  w / 1.2,
		Padding: pad,
	}
}

// jsRound rounds half up, as browsers do.
func jsRound(v float64) float64 {
	return math.Floor(v + .5)
}

func formatValue(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// signed prefixes non negative values with a plus.
func signed(v float64) string {
	if v < 0 {
		return formatValue(v)
	}
	return "+" + formatValue(v)
}

func px(v float64) string {
	return svg.Number(v) + "px"
}
