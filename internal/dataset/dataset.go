// Package dataset decodes the flat name -> number JSON resources and keeps
// their entries in document order.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/charmbracelet/log"
)

var ErrNotObject = errors.New("dataset: resource is not a JSON object")

type Entry struct {
	Name  string
	Value float64
}

// Signed is an entry split into magnitude and sign, as drawn by the keyword
// charts.
type Signed struct {
	Name  string
	Value float64
	Abs   float64
	Sign  int
}

type Dataset struct {
	entries []Entry
	index   map[string]int
}

// New builds a dataset from entries. Duplicate names keep the position of
// their first occurrence and the value of their last.
func New(entries []Entry) *Dataset {
	d := &Dataset{
		index: make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		d.put(e.Name, e.Value)
	}
	return d
}

func (d *Dataset) put(name string, value float64) {
	if i, ok := d.index[name]; ok {
		d.entries[i].Value = value
		return
	}
	d.index[name] = len(d.entries)
	d.entries = append(d.entries, Entry{Name: name, Value: value})
}

// Decode reads a JSON object of numbers. Values that are not numbers are
// reported on lg and left out.
func Decode(r io.Reader, lg *log.Logger) (*Dataset, error) {
	d := New(nil)
	err := walkObject(r, func(name string, raw any) {
		v, ok := raw.(json.Number)
		if !ok {
			warn(lg, "non numeric value skipped", name, raw)
			return
		}
		f, err := v.Float64()
		if err != nil {
			warn(lg, "value out of range skipped", name, raw)
			return
		}
		d.put(name, f)
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// DecodeRaw reads a JSON object and keeps every value in document order,
// numbers as float64. Duplicate keys are all kept.
func DecodeRaw(r io.Reader) ([]any, error) {
	var list []any
	err := walkObject(r, func(_ string, raw any) {
		if n, ok := raw.(json.Number); ok {
			if f, err := n.Float64(); err == nil {
				raw = f
			}
		}
		list = append(list, raw)
	})
	return list, err
}

func walkObject(r io.Reader, fn func(string, any)) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("dataset: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ErrNotObject
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("dataset: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("dataset: unexpected token %v", tok)
		}
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("dataset: value of %q: %w", name, err)
		}
		fn(name, raw)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("dataset: %w", err)
	}
	return nil
}

func warn(lg *log.Logger, msg, name string, raw any) {
	if lg == nil {
		return
	}
	lg.Warn(msg, "name", name, "type", typeOf(raw))
}

func typeOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case json.Number, float64, int:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func (d *Dataset) Len() int {
	return len(d.entries)
}

// Entries returns a copy of the entries in document order.
func (d *Dataset) Entries() []Entry {
	return append([]Entry(nil), d.entries...)
}

func (d *Dataset) Names() []string {
	list := make([]string, len(d.entries))
	for i, e := range d.entries {
		list[i] = e.Name
	}
	return list
}

func (d *Dataset) Values() []float64 {
	list := make([]float64, len(d.entries))
	for i, e := range d.entries {
		list[i] = e.Value
	}
	return list
}

// Max returns the largest value, or NaN for an empty dataset.
func (d *Dataset) Max() float64 {
	if len(d.entries) == 0 {
		return math.NaN()
	}
	m := d.entries[0].Value
	for _, e := range d.entries[1:] {
		m = math.Max(m, e.Value)
	}
	return m
}

// Extent returns the smallest and largest values.
func (d *Dataset) Extent() (float64, float64) {
	if len(d.entries) == 0 {
		return math.NaN(), math.NaN()
	}
	lo, hi := d.entries[0].Value, d.entries[0].Value
	for _, e := range d.entries[1:] {
		lo = math.Min(lo, e.Value)
		hi = math.Max(hi, e.Value)
	}
	return lo, hi
}

func (d *Dataset) Lookup(name string) (float64, bool) {
	i, ok := d.index[name]
	if !ok {
		return 0, false
	}
	return d.entries[i].Value, true
}

// Signed returns the entries with their magnitude and sign, in document
// order. Zero has sign 0.
func (d *Dataset) Signed() []Signed {
	list := make([]Signed, len(d.entries))
	for i, e := range d.entries {
		list[i] = Signed{
			Name:  e.Name,
			Value: e.Value,
			Abs:   math.Abs(e.Value),
			Sign:  sign(e.Value),
		}
	}
	return list
}

// SortDesc returns a copy sorted by value, largest first. Equal values keep
// their document order.
func (d *Dataset) SortDesc() *Dataset {
	list := d.Entries()
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Value > list[j].Value
	})
	return New(list)
}

// SortName returns a copy sorted by name.
func (d *Dataset) SortName() *Dataset {
	list := d.Entries()
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return New(list)
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
