package svg

import (
	"strings"
	"testing"
)

func TestDocumentRender(t *testing.T) {
	doc := NewDocument(200, 100)
	doc.Class = "histogram"
	doc.Style = ".highlight{fill:orange}"

	grp := NewGroup(WithTranslate(10, 20))
	rect := NewRect(0, 1.5, 30, 12.3456, WithClass("bar", "positive"), WithFill("#41ab5d"))
	text := NewText(5, 6, "Kitsilano & <West>", WithAttr("text-anchor", "end"))
	grp.Append(rect, text, nil)
	doc.Append(grp)

	got := doc.String()
	want := []string{
		`<svg xmlns="http://www.w3.org/2000/svg" width="200" height="100" viewBox="0 0 200 100" class="histogram">`,
		`<style>.highlight{fill:orange}</style>`,
		`<g transform="translate(10,20)">`,
		`<rect class="bar positive" x="0" y="1.5" width="30" height="12.346" fill="#41ab5d"/>`,
		`<text x="5" y="6" text-anchor="end">Kitsilano &amp; &lt;West&gt;</text>`,
		`</g></svg>`,
	}
	for _, w := range want {
		if !strings.Contains(got, w) {
			t.Errorf("missing %q in\n%s", w, got)
		}
	}
}

func TestNodeClasses(t *testing.T) {
	n := NewRect(0, 0, 1, 1, WithClass("batch-Downtown"))
	n.AddClass("highlight")
	n.AddClass("highlight")
	if len(n.Class) != 2 {
		t.Fatalf("expected 2 classes, got %v", n.Class)
	}
	if !n.HasClass("highlight") {
		t.Fatalf("highlight class not set")
	}
	n.RemoveClass("highlight")
	if n.HasClass("highlight") {
		t.Fatalf("highlight class not removed")
	}
	if !n.HasClass("batch-Downtown") {
		t.Fatalf("unrelated class removed")
	}
}

func TestNodeSetReplaces(t *testing.T) {
	n := NewCircle(1, 2, 3)
	n.Set("r", 4.25)
	if got := n.Float("r"); got != 4.25 {
		t.Fatalf("r: want 4.25, got %v", got)
	}
	if len(n.Attrs) != 3 {
		t.Fatalf("attribute duplicated: %v", n.Attrs)
	}
}

func TestPathData(t *testing.T) {
	var p PathData
	if !p.Empty() {
		t.Fatalf("new path should be empty")
	}
	p.MoveTo(0, 0)
	p.LineTo(10.5, -0.0001)
	p.LineTo(3, 4)
	p.Close()
	if got, want := p.String(), "M0,0L10.5,0L3,4Z"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestFind(t *testing.T) {
	root := NewGroup()
	root.Append(NewRect(0, 0, 1, 1), NewGroup().Append(NewRect(1, 1, 1, 1), NewText(0, 0, "x")))
	if got := len(root.Find("rect")); got != 2 {
		t.Fatalf("want 2 rects, got %d", got)
	}
}

func TestClone(t *testing.T) {
	doc := NewDocument(10, 10)
	rect := NewRect(0, 0, 1, 1, WithClass("bar"))
	doc.Append(NewGroup().Append(rect))

	cp := doc.Clone()
	cp.Root.Find("rect")[0].AddClass("highlight")
	cp.Root.Find("rect")[0].Set("fill", "#000000")
	if rect.HasClass("highlight") {
		t.Fatal("clone shares classes")
	}
	if _, ok := rect.Get("fill"); ok {
		t.Fatal("clone shares attributes")
	}
}
