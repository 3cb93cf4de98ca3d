// Package palette holds the sequential colour ramps used by the charts and
// the helpers that derive hover and terminal colours from them.
package palette

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Greens9 is the nine class colorbrewer Greens ramp.
var Greens9 = []string{
	"#f7fcf5",
	"#e5f5e0",
	"#c7e9c0",
	"#a1d99b",
	"#74c476",
	"#41ab5d",
	"#238b45",
	"#006d2c",
	"#00441b",
}

const (
	Missing   = "#d9d9d9"
	Highlight = "#ff7f0e"
	Positive  = "#41ab5d"
	Negative  = "#d6604d"
)

var named = map[string][]string{
	"greens": Greens9,
}

// Lookup returns a copy of a named ramp.
func Lookup(name string) ([]string, bool) {
	p, ok := named[name]
	if !ok {
		return nil, false
	}
	return append([]string(nil), p...), true
}

// Parse checks that every entry is a valid hex colour and normalizes it.
func Parse(list []string) ([]string, error) {
	out := make([]string, 0, len(list))
	for _, str := range list {
		c, err := colorful.Hex(str)
		if err != nil {
			return nil, fmt.Errorf("palette: %q: %w", str, err)
		}
		out = append(out, c.Hex())
	}
	return out, nil
}

// Interpolate builds a ramp of n colours blended in Lab space from first to
// last.
func Interpolate(first, last string, n int) ([]string, error) {
	from, err := colorful.Hex(first)
	if err != nil {
		return nil, err
	}
	to, err := colorful.Hex(last)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, nil
	}
	if n == 1 {
		return []string{from.Hex()}, nil
	}
	out := make([]string, n)
	for i := range out {
		t := float64(i) / float64(n-1)
		out[i] = from.BlendLab(to, t).Clamped().Hex()
	}
	return out, nil
}

// Shade blends color towards Highlight. Invalid colours come back unchanged.
func Shade(color string, amount float64) string {
	c, err := colorful.Hex(color)
	if err != nil {
		return color
	}
	h, _ := colorful.Hex(Highlight)
	return c.BlendLab(h, amount).Clamped().Hex()
}

// Contrast returns a dark or light foreground readable on color.
func Contrast(color string) string {
	c, err := colorful.Hex(color)
	if err != nil {
		return "#131313"
	}
	l, _, _ := c.Lab()
	if l > 0.6 {
		return "#131313"
	}
	return "#ffffff"
}

// Terminal converts a hex colour for lipgloss styles.
func Terminal(color string) lipgloss.Color {
	return lipgloss.Color(color)
}
