// Package raster renders chart documents to PNG snapshots.
//
// The rasterizer draws shapes only: text is skipped and fills that the page
// stylesheet would give through classes are resolved beforehand.
package raster

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"io"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"

	"roomviz/internal/highlight"
	"roomviz/internal/palette"
	"roomviz/internal/svg"
)

var ErrEmpty = errors.New("raster: empty document")

// Fills maps a class to the fill it stands for in the page stylesheet.
var Fills = map[string]string{
	"positive": palette.Positive,
	"negative": palette.Negative,
}

type Options struct {
	Scale float64
	Fills map[string]string
}

// Image rasterizes doc. Shapes flagged with the highlight class are drawn
// in their highlight shade.
func Image(doc *svg.Document, opts Options) (*image.RGBA, error) {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.Fills == nil {
		opts.Fills = Fills
	}
	var (
		w = int(math.Ceil(doc.Width * opts.Scale))
		h = int(math.Ceil(doc.Height * opts.Scale))
	)
	if w <= 0 || h <= 0 {
		return nil, ErrEmpty
	}

	flat := doc.Clone()
	flat.Style = ""
	flat.Root.Walk(func(n *svg.Node) {
		resolveFill(n, opts.Fills)
	})
	var buf bytes.Buffer
	if err := flat.Render(&buf); err != nil {
		return nil, err
	}
	icon, err := oksvg.ReadIconStream(&buf, oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, err
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)
	return img, nil
}

// Encode writes doc as a PNG to w.
func Encode(w io.Writer, doc *svg.Document, opts Options) error {
	img, err := Image(doc, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

func resolveFill(n *svg.Node, fills map[string]string) {
	switch n.Tag {
	case "rect", "circle", "path":
	default:
		return
	}
	fill, ok := n.Get("fill")
	if !ok {
		for _, c := range n.Class {
			if f, found := fills[c]; found {
				fill, ok = f, true
				break
			}
		}
	}
	if !ok {
		return
	}
	if n.HasClass(highlight.Class) {
		fill = palette.Shade(fill, .6)
	}
	n.Set("fill", fill)
}
