package reactive

import "testing"

// countingSource wraps a Map and counts reads.
type countingSource struct {
	m     *Map
	reads int
}

func (s *countingSource) Get(key string) any {
	s.reads++
	return s.m.Get(key)
}

// Construction reads once and registers with exactly one dep.
func TestWatcherRegistersOnce(t *testing.T) {
	m := Observe(map[string]any{"a": 1, "b": 2})
	src := &countingSource{m: m}

	NewWatcher(src, "a", nil)

	if src.reads != 1 {
		t.Errorf("expected 1 read during construction, got %d", src.reads)
	}
	a, _ := m.Cell("a")
	b, _ := m.Cell("b")
	if a.Dep().Len() != 1 {
		t.Errorf("expected 1 registration on a, got %d", a.Dep().Len())
	}
	if b.Dep().Len() != 0 {
		t.Errorf("expected no registration on b, got %d", b.Dep().Len())
	}
	if Active() != nil {
		t.Error("expected tracking stack to be cleared after construction")
	}
}

// One write causes exactly N updates, each seeing the new value.
func TestWatcherFanOut(t *testing.T) {
	const n = 5
	m := Observe(map[string]any{"v": 0})

	seen := make([]any, 0, n)
	for i := 0; i < n; i++ {
		NewWatcher(m, "v", func(_ Source, value any) {
			seen = append(seen, value)
		})
	}

	m.Set("v", 7)

	if len(seen) != n {
		t.Fatalf("expected %d updates, got %d", n, len(seen))
	}
	for i, v := range seen {
		if v != 7 {
			t.Errorf("update %d: expected 7, got %v", i, v)
		}
	}
}

func TestWatcherUpdateDoesNotRegister(t *testing.T) {
	m := Observe(map[string]any{"v": 0})
	w := NewWatcher(m, "v", nil)

	m.Set("v", 1)
	m.Set("v", 2)

	c, _ := m.Cell("v")
	if c.Dep().Len() != 1 {
		t.Errorf("expected updates not to add registrations, got %d", c.Dep().Len())
	}
	if w.Key() != "v" {
		t.Errorf("expected key v, got %s", w.Key())
	}
}

func TestWatcherReceivesSource(t *testing.T) {
	m := Observe(map[string]any{"v": 0})
	var got Source
	NewWatcher(m, "v", func(src Source, _ any) { got = src })

	m.Set("v", 1)
	if got != Source(m) {
		t.Error("expected callback to receive the watched source")
	}
}

func TestWatcherMissingKey(t *testing.T) {
	m := Observe(map[string]any{})
	called := false
	NewWatcher(m, "missing", func(Source, any) { called = true })

	// Defining the key later does not reach a watcher that never registered.
	m.Set("missing", "x")
	if called {
		t.Error("expected watcher on a missing key never to fire")
	}
}

func TestWatcherEveryWriteNotifies(t *testing.T) {
	m := Observe(map[string]any{"v": 0})
	calls := 0
	NewWatcher(m, "v", func(Source, any) { calls++ })

	for i := 1; i <= 3; i++ {
		m.Set("v", i)
	}
	if calls != 3 {
		t.Errorf("expected 3 independent notifications, got %d", calls)
	}
}
