// Package svg holds a small mutable scene graph that charts draw into.
// Nodes stay addressable after drawing so that callers can toggle classes
// on them (hover highlighting) before the document is serialized.
package svg

import (
	"bufio"
	"encoding/xml"
	"io"
	"math"
	"strconv"
	"strings"
)

const namespace = "http://www.w3.org/2000/svg"

type Attr struct {
	Name  string
	Value string
}

type Node struct {
	Tag      string
	ID       string
	Class    []string
	Attrs    []Attr
	Text     string
	Children []*Node
}

type Option func(*Node)

func WithID(id string) Option {
	return func(n *Node) {
		n.ID = id
	}
}

func WithClass(class ...string) Option {
	return func(n *Node) {
		for _, c := range class {
			n.AddClass(c)
		}
	}
}

func WithTranslate(x, y float64) Option {
	return func(n *Node) {
		n.Set("transform", Translate(x, y))
	}
}

func WithFill(color string) Option {
	return func(n *Node) {
		if color != "" {
			n.Set("fill", color)
		}
	}
}

func WithAttr(name string, value any) Option {
	return func(n *Node) {
		n.Set(name, value)
	}
}

func newNode(tag string, opts []Option) *Node {
	n := &Node{Tag: tag}
	for _, o := range opts {
		o(n)
	}
	return n
}

func NewGroup(opts ...Option) *Node {
	return newNode("g", opts)
}

func NewRect(x, y, w, h float64, opts ...Option) *Node {
	n := newNode("rect", nil)
	n.Set("x", x)
	n.Set("y", y)
	n.Set("width", w)
	n.Set("height", h)
	for _, o := range opts {
		o(n)
	}
	return n
}

func NewCircle(cx, cy, r float64, opts ...Option) *Node {
	n := newNode("circle", nil)
	n.Set("cx", cx)
	n.Set("cy", cy)
	n.Set("r", r)
	for _, o := range opts {
		o(n)
	}
	return n
}

func NewText(x, y float64, str string, opts ...Option) *Node {
	n := newNode("text", nil)
	n.Text = str
	n.Set("x", x)
	n.Set("y", y)
	for _, o := range opts {
		o(n)
	}
	return n
}

func NewTSpan(str string, opts ...Option) *Node {
	n := newNode("tspan", opts)
	n.Text = str
	return n
}

func NewPath(d string, opts ...Option) *Node {
	n := newNode("path", nil)
	n.Set("d", d)
	for _, o := range opts {
		o(n)
	}
	return n
}

// Set replaces the value of attribute name, or appends it.
func (n *Node) Set(name string, value any) *Node {
	str := formatValue(value)
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs[i].Value = str
			return n
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: str})
	return n
}

func (n *Node) Get(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Float returns attribute name parsed as a number, or 0.
func (n *Node) Float(name string) float64 {
	str, ok := n.Get(name)
	if !ok {
		return 0
	}
	f, _ := strconv.ParseFloat(str, 64)
	return f
}

func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

func (n *Node) HasClass(class string) bool {
	for _, c := range n.Class {
		if c == class {
			return true
		}
	}
	return false
}

func (n *Node) AddClass(class string) {
	if class == "" || n.HasClass(class) {
		return
	}
	n.Class = append(n.Class, class)
}

func (n *Node) RemoveClass(class string) {
	out := n.Class[:0]
	for _, c := range n.Class {
		if c != class {
			out = append(out, c)
		}
	}
	n.Class = out
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	c := &Node{
		Tag:   n.Tag,
		ID:    n.ID,
		Class: append([]string(nil), n.Class...),
		Attrs: append([]Attr(nil), n.Attrs...),
		Text:  n.Text,
	}
	for _, child := range n.Children {
		c.Children = append(c.Children, child.Clone())
	}
	return c
}

// Walk visits n and its descendants depth first.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns every node of the tree with the given tag.
func (n *Node) Find(tag string) []*Node {
	var list []*Node
	n.Walk(func(c *Node) {
		if c.Tag == tag {
			list = append(list, c)
		}
	})
	return list
}

func Translate(x, y float64) string {
	return "translate(" + formatFloat(x) + "," + formatFloat(y) + ")"
}

type Document struct {
	Width  float64
	Height float64
	Class  string
	Style  string
	Title  string

	Root *Node
}

func NewDocument(width, height float64) *Document {
	return &Document{
		Width:  width,
		Height: height,
		Root:   NewGroup(),
	}
}

// Clone returns a deep copy of d. Handles into d do not reach the copy.
func (d *Document) Clone() *Document {
	c := *d
	c.Root = d.Root.Clone()
	return &c
}

func (d *Document) Append(children ...*Node) {
	d.Root.Append(children...)
}

// Render writes the document as a standalone svg element.
func (d *Document) Render(w io.Writer) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(`<svg xmlns="` + namespace + `"`)
	writeAttr(bw, "width", formatFloat(d.Width))
	writeAttr(bw, "height", formatFloat(d.Height))
	writeAttr(bw, "viewBox", "0 0 "+formatFloat(d.Width)+" "+formatFloat(d.Height))
	if d.Class != "" {
		writeAttr(bw, "class", d.Class)
	}
	bw.WriteString(">")
	if d.Title != "" {
		bw.WriteString("<title>")
		xml.EscapeText(bw, []byte(d.Title))
		bw.WriteString("</title>")
	}
	if d.Style != "" {
		bw.WriteString("<style>")
		xml.EscapeText(bw, []byte(d.Style))
		bw.WriteString("</style>")
	}
	for _, c := range d.Root.Children {
		writeNode(bw, c)
	}
	bw.WriteString("</svg>")
	return bw.Flush()
}

// String is a convenience for tests and html templates.
func (d *Document) String() string {
	var str strings.Builder
	d.Render(&str)
	return str.String()
}

func writeNode(w *bufio.Writer, n *Node) {
	w.WriteString("<" + n.Tag)
	if n.ID != "" {
		writeAttr(w, "id", n.ID)
	}
	if len(n.Class) > 0 {
		writeAttr(w, "class", strings.Join(n.Class, " "))
	}
	for _, a := range n.Attrs {
		writeAttr(w, a.Name, a.Value)
	}
	if n.Text == "" && len(n.Children) == 0 {
		w.WriteString("/>")
		return
	}
	w.WriteString(">")
	if n.Text != "" {
		xml.EscapeText(w, []byte(n.Text))
	}
	for _, c := range n.Children {
		writeNode(w, c)
	}
	w.WriteString("</" + n.Tag + ">")
}

func writeAttr(w *bufio.Writer, name, value string) {
	w.WriteString(" " + name + `="`)
	xml.EscapeText(w, []byte(value))
	w.WriteString(`"`)
}

func formatValue(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return formatFloat(v)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Number formats f the way attribute values are written: at most three
// decimals, no exponent.
func Number(f float64) string {
	return formatFloat(f)
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "0"
	}
	f = math.Round(f*1000) / 1000
	if f == 0 {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
