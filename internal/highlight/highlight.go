// Package highlight links every drawn element that represents the same
// named record (a map region, its label and its histogram bar) so that
// hovering any of them flags all of them.
//
// The index is filled once while drawing and is then only read, apart from
// the highlight class it toggles on the registered nodes.
package highlight

import (
	"regexp"
	"sync"

	"roomviz/internal/svg"
)

// Class is set on every handle of the active key.
const Class = "highlight"

const prefix = "batch-"

var space = regexp.MustCompile(`\s`)

// Sanitize replaces every whitespace character of name by a dash.
func Sanitize(name string) string {
	return space.ReplaceAllString(name, "-")
}

// Key returns the highlight key shared by all elements drawn for name.
func Key(name string) string {
	return prefix + Sanitize(name)
}

// Index is the bidirectional key <-> handle relation.
type Index struct {
	mu      sync.RWMutex
	keys    []string
	handles map[string][]*svg.Node
	owners  map[*svg.Node]string
	active  map[string]bool
}

func NewIndex() *Index {
	return &Index{
		handles: make(map[string][]*svg.Node),
		owners:  make(map[*svg.Node]string),
		active:  make(map[string]bool),
	}
}

// Register adds the nodes under the key of name. The key is also added to
// the class list of every node so the serialized document carries it.
// A node already owned by another key is moved.
func (x *Index) Register(name string, nodes ...*svg.Node) string {
	key := Key(name)
	x.mu.Lock()
	defer x.mu.Unlock()
	if _, ok := x.handles[key]; !ok {
		x.keys = append(x.keys, key)
		x.handles[key] = nil
	}
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if prev, ok := x.owners[n]; ok {
			if prev == key {
				continue
			}
			x.detach(prev, n)
		}
		n.AddClass(key)
		x.owners[n] = key
		x.handles[key] = append(x.handles[key], n)
	}
	return key
}

func (x *Index) detach(key string, node *svg.Node) {
	list := x.handles[key]
	for i, n := range list {
		if n == node {
			x.handles[key] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	node.RemoveClass(key)
	node.RemoveClass(Class)
}

// Activate flags every handle of key. It reports whether key is known.
func (x *Index) Activate(key string) bool {
	return x.set(key, true)
}

// Deactivate clears the flag on every handle of key.
func (x *Index) Deactivate(key string) bool {
	return x.set(key, false)
}

// Toggle flips the state of key and returns the new state.
func (x *Index) Toggle(key string) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	on := !x.active[key]
	x.setLocked(key, on)
	return x.active[key]
}

func (x *Index) set(key string, on bool) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.setLocked(key, on)
}

// setLocked requires x.mu to be held for writing.
func (x *Index) setLocked(key string, on bool) bool {
	list, ok := x.handles[key]
	if !ok {
		return false
	}
	for _, n := range list {
		if on {
			n.AddClass(Class)
		} else {
			n.RemoveClass(Class)
		}
	}
	if on {
		x.active[key] = true
	} else {
		delete(x.active, key)
	}
	return true
}

func (x *Index) Active(key string) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.active[key]
}

// Handles returns the nodes registered for key in registration order.
func (x *Index) Handles(key string) []*svg.Node {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return append([]*svg.Node(nil), x.handles[key]...)
}

// KeyOf returns the key owning node.
func (x *Index) KeyOf(node *svg.Node) (string, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	key, ok := x.owners[node]
	return key, ok
}

// Keys returns every key in registration order.
func (x *Index) Keys() []string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return append([]string(nil), x.keys...)
}

// Len returns the number of keys.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.keys)
}

// Export returns, per key, the ids of its handles. Handles without an id are
// skipped. The result is what the browser hover script consumes.
func (x *Index) Export() map[string][]string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make(map[string][]string, len(x.keys))
	for _, k := range x.keys {
		ids := []string{}
		for _, n := range x.handles[k] {
			if n.ID != "" {
				ids = append(ids, n.ID)
			}
		}
		out[k] = ids
	}
	return out
}

// OnEnter is the hover-in callback for an element drawn for key.
func (x *Index) OnEnter(key string) {
	x.Activate(key)
}

// OnLeave is the hover-out callback for an element drawn for key.
func (x *Index) OnLeave(key string) {
	x.Deactivate(key)
}
