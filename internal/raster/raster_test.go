package raster

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"testing"

	"roomviz/internal/highlight"
	"roomviz/internal/palette"
	"roomviz/internal/svg"
)

func testDoc() (*svg.Document, *svg.Node) {
	doc := svg.NewDocument(40, 20)
	bar := svg.NewRect(0, 0, 20, 20, svg.WithClass("bar", "positive"))
	doc.Append(
		bar,
		svg.NewRect(20, 0, 20, 20, svg.WithFill("#000000")),
		svg.NewText(5, 5, "ignored"),
	)
	return doc, bar
}

func TestImage(t *testing.T) {
	doc, bar := testDoc()
	img, err := Image(doc, Options{Scale: 2})
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 80 || b.Dy() != 40 {
		t.Fatalf("unexpected size %v", b)
	}
	if got := img.RGBAAt(60, 20); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("explicit fill: got %v", got)
	}
	if got := img.RGBAAt(20, 20); got == (color.RGBA{0, 0, 0, 255}) || got == (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("class fill not resolved: got %v", got)
	}
	if _, ok := bar.Get("fill"); ok {
		t.Errorf("source document modified")
	}
}

func TestHighlightShade(t *testing.T) {
	n := svg.NewRect(0, 0, 1, 1, svg.WithClass("positive", highlight.Class))
	resolveFill(n, Fills)
	if got, _ := n.Get("fill"); got != palette.Shade(palette.Positive, .6) {
		t.Fatalf("want the highlight shade, got %s", got)
	}
	g := svg.NewGroup(svg.WithClass("positive"))
	resolveFill(g, Fills)
	if _, ok := g.Get("fill"); ok {
		t.Fatalf("groups should be left alone")
	}
}

func TestEncode(t *testing.T) {
	doc, _ := testDoc()
	var buf bytes.Buffer
	if err := Encode(&buf, doc, Options{}); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 40 {
		t.Fatalf("unexpected width %d", img.Bounds().Dx())
	}
	if err := Encode(&buf, svg.NewDocument(0, 10), Options{}); !errors.Is(err, ErrEmpty) {
		t.Fatalf("want ErrEmpty, got %v", err)
	}
}
