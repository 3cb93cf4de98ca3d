package scale

import "math"

// Quantize splits a continuous domain into len(Colors) equal buckets.
// Values outside the domain clamp to the first or last bucket. Missing is
// returned for NaN.
type Quantize struct {
	Domain
	Colors  []string
	Missing string
}

func NewQuantize(dom Domain, colors []string, missing string) Quantize {
	return Quantize{
		Domain:  dom,
		Colors:  append([]string(nil), colors...),
		Missing: missing,
	}
}

func (q Quantize) Scale(v float64) string {
	i := q.Bucket(v)
	if i < 0 {
		return q.Missing
	}
	return q.Colors[i]
}

// Bucket returns the index of the colour v falls in, or -1 when v is NaN or
// there is no colour at all.
func (q Quantize) Bucket(v float64) int {
	k := len(q.Colors)
	if k == 0 || math.IsNaN(v) {
		return -1
	}
	ext := q.Extend()
	if ext == 0 {
		return 0
	}
	i := math.Floor(float64(k) / ext * (v - q.Min))
	return int(math.Max(0, math.Min(float64(k-1), i)))
}

// Thresholds returns the lower bound of every bucket but the first.
func (q Quantize) Thresholds() []float64 {
	k := len(q.Colors)
	if k < 2 {
		return nil
	}
	list := make([]float64, 0, k-1)
	for i := 1; i < k; i++ {
		list = append(list, q.Min+float64(i)*q.Extend()/float64(k))
	}
	return list
}
