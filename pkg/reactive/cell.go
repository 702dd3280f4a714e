package reactive

import "sync"

// Cell is a single reactive property: a value plus the Dep of everyone who
// read it while being evaluated.
type Cell struct {
	key   string
	value any
	dep   *Dep

	// onNotify is called before the Dep fans out, with the number of
	// registrations about to be notified.
	onNotify func(key string, subscribers int)

	mu sync.RWMutex
}

// NewCell creates a standalone cell. Cells created through Observe share
// the options of their Map.
func NewCell(key string, initial any, opts ...Option) *Cell {
	return newCell(key, initial, buildOptions(opts))
}

func newCell(key string, initial any, o options) *Cell {
	return &Cell{
		key:      key,
		value:    initial,
		dep:      &Dep{dedupe: o.dedupe},
		onNotify: o.onNotify,
	}
}

// Key returns the property name the cell was created for.
func (c *Cell) Key() string {
	return c.key
}

// Get returns the current value and registers the active subscriber, if any.
func (c *Cell) Get() any {
	c.mu.RLock()
	value := c.value
	c.mu.RUnlock()

	// Track dependency after releasing the value lock
	if s := Active(); s != nil {
		c.dep.AddSubscriber(s)
	}

	return value
}

// Peek returns the current value without registering anything.
func (c *Cell) Peek() any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Set stores value and notifies subscribers. Writing a value that is Same
// as the current one does nothing. Set reports whether the value changed.
func (c *Cell) Set(value any) bool {
	c.mu.Lock()
	if Same(c.value, value) {
		c.mu.Unlock()
		return false
	}
	c.value = value
	c.mu.Unlock()

	if c.onNotify != nil {
		c.onNotify(c.key, c.dep.Len())
	}
	c.dep.Notify()
	return true
}

// Dep returns the cell's dependency.
func (c *Cell) Dep() *Dep {
	return c.dep
}
