package reactive

import (
	"encoding/json"
	"sort"
	"sync"
)

// Map is a keyed collection of reactive cells. It is the explicit API that
// replaces transparent property interception on plain data objects.
type Map struct {
	cells map[string]*Cell
	keys  []string
	opts  options

	mu sync.RWMutex
}

// Observe makes data reactive. Nested map[string]any values are observed
// first, depth-first, and stored as nested *Map values. Keys are visited in
// sorted order. A map that contains itself recurses without bound.
//
// The input map is not modified.
func Observe(data map[string]any, opts ...Option) *Map {
	return observe(data, buildOptions(opts))
}

func observe(data map[string]any, o options) *Map {
	m := &Map{
		cells: make(map[string]*Cell, len(data)),
		keys:  make([]string, 0, len(data)),
		opts:  o,
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := data[k]
		if nested, ok := v.(map[string]any); ok {
			v = observe(nested, o)
		}
		m.cells[k] = newCell(k, v, o)
		m.keys = append(m.keys, k)
	}
	return m
}

// Cell returns the cell for key.
func (m *Map) Cell(key string) (*Cell, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.cells[key]
	return c, ok
}

// Get reads key, registering the active subscriber. Missing keys read as nil
// and register nothing.
func (m *Map) Get(key string) any {
	c, ok := m.Cell(key)
	if !ok {
		return nil
	}
	return c.Get()
}

// Peek reads key without tracking.
func (m *Map) Peek(key string) any {
	c, ok := m.Cell(key)
	if !ok {
		return nil
	}
	return c.Peek()
}

// Set writes key. A key that does not exist yet becomes a new cell; nothing
// can have subscribed to it, so nothing is notified. Set reports whether
// the stored value changed.
func (m *Map) Set(key string, value any) bool {
	m.mu.Lock()
	c, ok := m.cells[key]
	if !ok {
		m.cells[key] = newCell(key, value, m.opts)
		m.keys = append(m.keys, key)
		m.mu.Unlock()
		return true
	}
	m.mu.Unlock()

	return c.Set(value)
}

// Has reports whether key is defined.
func (m *Map) Has(key string) bool {
	_, ok := m.Cell(key)
	return ok
}

// Keys returns the defined keys in definition order.
func (m *Map) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Len returns the number of defined keys.
func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.keys)
}

// Snapshot returns a plain copy of the current values. Nested maps are
// copied recursively. Reads are untracked.
func (m *Map) Snapshot() map[string]any {
	out := make(map[string]any, m.Len())
	for _, k := range m.Keys() {
		v := m.Peek(k)
		if nested, ok := v.(*Map); ok {
			v = nested.Snapshot()
		}
		out[k] = v
	}
	return out
}

// MarshalJSON encodes the snapshot of m.
func (m *Map) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Snapshot())
}
