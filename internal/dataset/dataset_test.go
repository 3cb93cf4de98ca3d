package dataset

import (
	"bytes"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"roomviz/internal/logging"
)

func TestDecodeKeepsDocumentOrder(t *testing.T) {
	const doc = `{"Kitsilano": 780.5, "Downtown": 900, "Arbutus Ridge": 612, "Sunset": 455}`
	d, err := Decode(strings.NewReader(doc), nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Kitsilano", "Downtown", "Arbutus Ridge", "Sunset"}
	if got := d.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("names: want %v, got %v", want, got)
	}
	if got := d.Max(); got != 900 {
		t.Fatalf("max: want 900, got %v", got)
	}
	if lo, hi := d.Extent(); lo != 455 || hi != 900 {
		t.Fatalf("extent: got %v %v", lo, hi)
	}
	if v, ok := d.Lookup("Arbutus Ridge"); !ok || v != 612 {
		t.Fatalf("lookup: got %v %v", v, ok)
	}
	if _, ok := d.Lookup("Oakridge"); ok {
		t.Fatalf("lookup of an absent name succeeded")
	}
}

func TestDecodeDuplicates(t *testing.T) {
	d, err := Decode(strings.NewReader(`{"a": 1, "b": 2, "a": 3}`), nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []Entry{{"a", 3}, {"b", 2}}
	if got := d.Entries(); !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestDecodeSkipsNonNumeric(t *testing.T) {
	var buf bytes.Buffer
	lg := logging.Plain(&buf, "info")
	d, err := Decode(strings.NewReader(`{"a": 1, "b": "2", "c": null, "d": [1], "e": 5}`), lg)
	if err != nil {
		t.Fatal(err)
	}
	if got := d.Names(); !reflect.DeepEqual(got, []string{"a", "e"}) {
		t.Fatalf("unexpected names %v", got)
	}
	if got := strings.Count(buf.String(), "level=warn"); got != 3 {
		t.Fatalf("want 3 diagnostics, got %d:\n%s", got, buf.String())
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		doc    string
		object bool
	}{
		{`[1, 2]`, true},
		{`42`, true},
		{`{"a": 1`, false},
		{``, false},
	}
	for _, tt := range tests {
		_, err := Decode(strings.NewReader(tt.doc), nil)
		if err == nil {
			t.Errorf("%q: expected error", tt.doc)
			continue
		}
		if got := errors.Is(err, ErrNotObject); got != tt.object {
			t.Errorf("%q: ErrNotObject = %v (%v)", tt.doc, got, err)
		}
	}
}

func TestSignedAndSort(t *testing.T) {
	d := New([]Entry{{"view", -5}, {"den", 0}, {"suite", 10}, {"basement", -12}, {"new", 10}})
	signed := d.Signed()
	wantSign := []int{-1, 0, 1, -1, 1}
	for i, s := range signed {
		if s.Sign != wantSign[i] {
			t.Errorf("%s: want sign %d, got %d", s.Name, wantSign[i], s.Sign)
		}
		if s.Abs != math.Abs(s.Value) {
			t.Errorf("%s: abs %v", s.Name, s.Abs)
		}
	}
	sorted := d.SortDesc()
	want := []string{"suite", "new", "den", "view", "basement"}
	if got := sorted.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("sorted: want %v, got %v", want, got)
	}
	if got := d.Names()[0]; got != "view" {
		t.Fatalf("SortDesc modified the receiver")
	}
	if got := d.SortName().Names()[0]; got != "basement" {
		t.Fatalf("SortName: first is %s", got)
	}
}

func TestEmpty(t *testing.T) {
	d, err := Decode(strings.NewReader(`{}`), nil)
	if err != nil {
		t.Fatal(err)
	}
	if d.Len() != 0 || !math.IsNaN(d.Max()) {
		t.Fatalf("empty dataset: len %d max %v", d.Len(), d.Max())
	}
}

func TestMean(t *testing.T) {
	tests := []struct {
		values []any
		want   float64
		diags  int
	}{
		{[]any{1.0, 2.0, "x", 3.0}, 2, 1},
		{[]any{4, 6}, 5, 0},
		{[]any{"a", nil, true}, math.NaN(), 3},
		{nil, math.NaN(), 0},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		got := Mean(tt.values, logging.Plain(&buf, "info"))
		if math.IsNaN(tt.want) {
			if !math.IsNaN(got) {
				t.Errorf("Mean(%v): want NaN, got %v", tt.values, got)
			}
		} else if got != tt.want {
			t.Errorf("Mean(%v): want %v, got %v", tt.values, tt.want, got)
		}
		if n := strings.Count(buf.String(), "level=error"); n != tt.diags {
			t.Errorf("Mean(%v): want %d diagnostics, got %d", tt.values, tt.diags, n)
		}
	}
}

func TestDecodeRawFeedsMean(t *testing.T) {
	raw, err := DecodeRaw(strings.NewReader(`{"a": 1, "b": 2, "c": "x", "d": 3}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) != 4 {
		t.Fatalf("want 4 raw values, got %d", len(raw))
	}
	var buf bytes.Buffer
	if got := Mean(raw, logging.Plain(&buf, "info")); got != 2 {
		t.Fatalf("want 2, got %v", got)
	}
	if n := strings.Count(buf.String(), "\n"); n != 1 {
		t.Fatalf("want one diagnostic line, got %d", n)
	}
}
