package highlight

import (
	"reflect"
	"sync"
	"testing"

	"roomviz/internal/svg"
)

func TestKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Downtown", "batch-Downtown"},
		{"West Point Grey", "batch-West-Point-Grey"},
		{"Renfrew\tCollingwood", "batch-Renfrew-Collingwood"},
		{"", "batch-"},
	}
	for _, tt := range tests {
		if got := Key(tt.in); got != tt.want {
			t.Errorf("Key(%q): want %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestActivateFlagsRegionAndBar(t *testing.T) {
	var (
		region = svg.NewPath("M0,0Z")
		label  = svg.NewText(0, 0, "K")
		bar    = svg.NewRect(0, 0, 1, 1)
		other  = svg.NewRect(0, 0, 1, 1)
		idx    = NewIndex()
	)
	key := idx.Register("Kitsilano", region, label)
	idx.Register("Kitsilano", bar)
	idx.Register("Downtown", other)

	if !idx.Activate(key) {
		t.Fatalf("key %s unknown", key)
	}
	for _, n := range []*svg.Node{region, label, bar} {
		if !n.HasClass(Class) {
			t.Errorf("%s not highlighted", n.Tag)
		}
		if !n.HasClass("batch-Kitsilano") {
			t.Errorf("%s misses its key class", n.Tag)
		}
	}
	if other.HasClass(Class) {
		t.Errorf("unrelated element highlighted")
	}
	if !idx.Active(key) {
		t.Errorf("key should be active")
	}

	idx.Deactivate(key)
	for _, n := range []*svg.Node{region, label, bar} {
		if n.HasClass(Class) {
			t.Errorf("%s still highlighted", n.Tag)
		}
	}
}

func TestCallbacksAndToggle(t *testing.T) {
	idx := NewIndex()
	bar := svg.NewRect(0, 0, 1, 1)
	key := idx.Register("Mount Pleasant", bar)

	idx.OnEnter(key)
	if !bar.HasClass(Class) {
		t.Fatalf("OnEnter did not highlight")
	}
	idx.OnLeave(key)
	if bar.HasClass(Class) {
		t.Fatalf("OnLeave did not clear")
	}
	if !idx.Toggle(key) {
		t.Fatalf("toggle should activate")
	}
	if idx.Toggle(key) {
		t.Fatalf("toggle should deactivate")
	}
	if idx.Activate("batch-Nowhere") {
		t.Fatalf("unknown key reported as known")
	}
}

func TestConcurrentToggle(t *testing.T) {
	idx := NewIndex()
	bar := svg.NewRect(0, 0, 1, 1)
	key := idx.Register("Fairview", bar)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			idx.Toggle(key)
		}()
	}
	wg.Wait()
	if idx.Active(key) || bar.HasClass(Class) {
		t.Errorf("an even number of toggles should leave %s off", key)
	}
}

func TestReverseLookup(t *testing.T) {
	idx := NewIndex()
	a := svg.NewRect(0, 0, 1, 1, svg.WithID("a"))
	b := svg.NewRect(0, 0, 1, 1)
	idx.Register("Sunset", a)
	idx.Register("Oakridge", b)
	idx.Register("Oakridge", a)

	if key, ok := idx.KeyOf(a); !ok || key != "batch-Oakridge" {
		t.Fatalf("KeyOf(a): got %q %v", key, ok)
	}
	if a.HasClass("batch-Sunset") {
		t.Fatalf("moved node kept its old key class")
	}
	if got := len(idx.Handles("batch-Sunset")); got != 0 {
		t.Fatalf("old key still holds the node")
	}
	if got, want := idx.Keys(), []string{"batch-Sunset", "batch-Oakridge"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("keys: want %v, got %v", want, got)
	}
	want := map[string][]string{
		"batch-Sunset":   {},
		"batch-Oakridge": {"a"},
	}
	if got := idx.Export(); !reflect.DeepEqual(got, want) {
		t.Fatalf("export: want %v, got %v", want, got)
	}
}
