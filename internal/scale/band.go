package scale

import "math"

// Band maps an ordered list of names onto evenly spaced bands of a range.
type Band struct {
	names     []string
	index     map[string]int
	start     float64
	step      float64
	bandwidth float64
}

// Bands spreads names over rg. Padding is the fraction of each step left
// empty between bands; the outer padding is the same fraction of a step.
func Bands(names []string, rg Range, padding float64) Band {
	b := newBand(names)
	n := float64(len(names))
	if n == 0 {
		return b
	}
	b.step = rg.Len() / (n - padding + 2*padding)
	b.start = rg.F + b.step*padding
	b.bandwidth = b.step * (1 - padding)
	return b
}

// RoundBands is Bands with the step, band width and start snapped to whole
// pixels. The leftover space is split evenly on both sides.
func RoundBands(names []string, rg Range, padding float64) Band {
	b := newBand(names)
	n := float64(len(names))
	if n == 0 {
		return b
	}
	b.step = math.Floor(rg.Len() / (n - padding + 2*padding))
	rest := rg.Len() - (n-padding)*b.step
	b.start = rg.F + math.Round(rest/2)
	b.bandwidth = math.Round(b.step * (1 - padding))
	return b
}

func newBand(names []string) Band {
	b := Band{
		names: append([]string(nil), names...),
		index: make(map[string]int, len(names)),
	}
	for i, n := range names {
		if _, ok := b.index[n]; !ok {
			b.index[n] = i
		}
	}
	return b
}

// Scale returns the start of the band of name, or NaN for an unknown name.
func (b Band) Scale(name string) float64 {
	i, ok := b.index[name]
	if !ok {
		return math.NaN()
	}
	return b.At(i)
}

// At returns the start of the i-th band.
func (b Band) At(i int) float64 {
	return b.start + float64(i)*b.step
}

func (b Band) Bandwidth() float64 {
	return b.bandwidth
}

func (b Band) Step() float64 {
	return b.step
}

func (b Band) Names() []string {
	return append([]string(nil), b.names...)
}
