// Package scale maps data values to visual positions and colours.
// All scales are plain values: copying one never shares state.
package scale

import (
	"math"
)

type Range struct {
	F float64
	T float64
}

func NewRange(f, t float64) Range {
	return Range{
		F: f,
		T: t,
	}
}

func (r Range) Len() float64 {
	return r.T - r.F
}

type Domain struct {
	Min float64
	Max float64
}

func NewDomain(min, max float64) Domain {
	return Domain{
		Min: min,
		Max: max,
	}
}

func (d Domain) Extend() float64 {
	return d.Max - d.Min
}

// Extent returns the smallest domain holding every value.
func Extent(values []float64) Domain {
	if len(values) == 0 {
		return Domain{}
	}
	d := Domain{Min: values[0], Max: values[0]}
	for _, v := range values[1:] {
		d.Min = math.Min(d.Min, v)
		d.Max = math.Max(d.Max, v)
	}
	return d
}

// Linear maps a continuous domain onto a continuous range.
type Linear struct {
	Domain
	Range
}

func NewLinear(dom Domain, rg Range) Linear {
	return Linear{
		Domain: dom,
		Range:  rg,
	}
}

func (s Linear) Scale(v float64) float64 {
	ext := s.Extend()
	if ext == 0 {
		return s.F
	}
	return s.F + (v-s.Min)/ext*s.Len()
}

// Nice extends the domain to round values, using the step that ten ticks
// over the domain would have.
func (s Linear) Nice() Linear {
	return s.NiceCount(10)
}

func (s Linear) NiceCount(count int) Linear {
	lo, hi := s.Min, s.Max
	reverse := hi < lo
	if reverse {
		lo, hi = hi, lo
	}
	step := tickStep(lo, hi, count)
	if step == 0 {
		return s
	}
	lo = math.Floor(lo/step) * step
	hi = math.Ceil(hi/step) * step
	if reverse {
		lo, hi = hi, lo
	}
	s.Domain = NewDomain(lo, hi)
	return s
}

func tickStep(lo, hi float64, count int) float64 {
	span := hi - lo
	if span <= 0 || count <= 0 || math.IsInf(span, 0) || math.IsNaN(span) {
		return 0
	}
	var (
		step = math.Pow(10, math.Floor(math.Log10(span/float64(count))))
		err  = float64(count) / span * step
	)
	switch {
	case err <= .15:
		step *= 10
	case err <= .35:
		step *= 5
	case err <= .75:
		step *= 2
	}
	return step
}
