package scale

import (
	"math"
	"testing"
)

func TestLinearScale(t *testing.T) {
	s := NewLinear(NewDomain(0, 200), NewRange(0, 100))
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{100, 50},
		{200, 100},
		{-20, -10},
	}
	for _, tt := range tests {
		if got := s.Scale(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Scale(%v): want %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestLinearNice(t *testing.T) {
	tests := []struct {
		dom  Domain
		want Domain
	}{
		{NewDomain(-5, 10), NewDomain(-6, 10)},
		{NewDomain(0.12, 0.97), NewDomain(0.1, 1)},
		{NewDomain(3, 3), NewDomain(3, 3)},
		{NewDomain(-13, 87), NewDomain(-20, 90)},
	}
	for _, tt := range tests {
		got := NewLinear(tt.dom, NewRange(0, 1)).Nice().Domain
		if math.Abs(got.Min-tt.want.Min) > 1e-9 || math.Abs(got.Max-tt.want.Max) > 1e-9 {
			t.Errorf("Nice(%v): want %v, got %v", tt.dom, tt.want, got)
		}
	}
}

func TestExtent(t *testing.T) {
	d := Extent([]float64{3, -1, 2})
	if d.Min != -1 || d.Max != 3 {
		t.Fatalf("unexpected extent %v", d)
	}
	if d := Extent(nil); d.Min != 0 || d.Max != 0 {
		t.Fatalf("empty extent should be zero, got %v", d)
	}
}

func TestBands(t *testing.T) {
	b := Bands([]string{"a", "b", "c"}, NewRange(0, 600), .2)
	if got := b.Step(); math.Abs(got-187.5) > 1e-9 {
		t.Fatalf("step: want 187.5, got %v", got)
	}
	if got := b.Bandwidth(); math.Abs(got-150) > 1e-9 {
		t.Fatalf("bandwidth: want 150, got %v", got)
	}
	want := []float64{37.5, 225, 412.5}
	for i, n := range []string{"a", "b", "c"} {
		if got := b.Scale(n); math.Abs(got-want[i]) > 1e-9 {
			t.Errorf("Scale(%s): want %v, got %v", n, want[i], got)
		}
	}
	if !math.IsNaN(b.Scale("z")) {
		t.Errorf("unknown name should map to NaN")
	}
}

func TestRoundBands(t *testing.T) {
	b := RoundBands([]string{"a", "b", "c"}, NewRange(0, 100), .2)
	if b.Step() != 31 || b.Bandwidth() != 25 {
		t.Fatalf("want step 31 and bandwidth 25, got %v and %v", b.Step(), b.Bandwidth())
	}
	if got := b.Scale("a"); got != 7 {
		t.Fatalf("first band: want 7, got %v", got)
	}
	if got := b.Scale("c"); got != 69 {
		t.Fatalf("last band: want 69, got %v", got)
	}
}

func TestQuantize(t *testing.T) {
	colors := []string{"0", "1", "2", "3", "4", "5", "6", "7", "8"}
	q := NewQuantize(NewDomain(400, 800), colors, "missing")
	tests := []struct {
		in   float64
		want string
	}{
		{400, "0"},
		{450, "1"},
		{599, "4"},
		{799.9, "8"},
		{800, "8"},
		{1200, "8"},
		{10, "0"},
		{math.NaN(), "missing"},
	}
	for _, tt := range tests {
		if got := q.Scale(tt.in); got != tt.want {
			t.Errorf("Scale(%v): want %s, got %s", tt.in, tt.want, got)
		}
	}
	if got := len(q.Thresholds()); got != 8 {
		t.Errorf("want 8 thresholds, got %d", got)
	}
}
