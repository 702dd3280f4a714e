package reactive

import (
	"encoding/json"
	"testing"
)

func TestObserveBasic(t *testing.T) {
	m := Observe(map[string]any{"name": "a", "count": 1})

	if m.Get("name") != "a" {
		t.Errorf("expected name a, got %v", m.Get("name"))
	}
	if m.Get("count") != 1 {
		t.Errorf("expected count 1, got %v", m.Get("count"))
	}
	if m.Len() != 2 {
		t.Errorf("expected 2 keys, got %d", m.Len())
	}

	keys := m.Keys()
	if keys[0] != "count" || keys[1] != "name" {
		t.Errorf("expected sorted keys, got %v", keys)
	}
}

func TestObserveNested(t *testing.T) {
	m := Observe(map[string]any{
		"user": map[string]any{"first": "Ada", "address": map[string]any{"city": "London"}},
	})

	user, ok := m.Get("user").(*Map)
	if !ok {
		t.Fatalf("expected nested *Map, got %T", m.Get("user"))
	}
	if user.Get("first") != "Ada" {
		t.Errorf("expected Ada, got %v", user.Get("first"))
	}

	address, ok := user.Get("address").(*Map)
	if !ok {
		t.Fatalf("expected doubly nested *Map, got %T", user.Get("address"))
	}

	// Nested properties have their own cells and deps
	s := &testSubscriber{}
	Track(s, func() { _ = address.Get("city") })
	address.Set("city", "Paris")
	if s.getUpdates() != 1 {
		t.Errorf("expected nested write to notify, got %d", s.getUpdates())
	}
}

func TestObserveDoesNotModifyInput(t *testing.T) {
	nested := map[string]any{"x": 1}
	data := map[string]any{"n": nested}
	Observe(data)

	if _, ok := data["n"].(map[string]any); !ok {
		t.Error("expected input map to keep its plain nested value")
	}
}

// Writing then reading returns exactly the written value.
func TestMapSetGetIdentity(t *testing.T) {
	slice := []int{1, 2}
	tests := []struct {
		name  string
		value any
	}{
		{"string", "hello"},
		{"int", 42},
		{"float", 1.5},
		{"bool", true},
		{"nil", nil},
		{"slice", slice},
	}

	m := Observe(map[string]any{"k": "initial"})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.Set("k", tt.value)
			got := m.Get("k")
			if !Same(got, tt.value) {
				t.Errorf("expected %v, got %v", tt.value, got)
			}
		})
	}
}

// Writing an equal value never notifies.
func TestMapEqualWriteIsNoop(t *testing.T) {
	m := Observe(map[string]any{"name": "a", "n": 3})
	calls := 0
	NewWatcher(m, "name", func(Source, any) { calls++ })
	NewWatcher(m, "n", func(Source, any) { calls++ })

	if m.Set("name", "a") {
		t.Error("expected Set to report no change")
	}
	m.Set("n", 3)

	if calls != 0 {
		t.Errorf("expected 0 callbacks, got %d", calls)
	}
}

func TestMapSetUnknownKey(t *testing.T) {
	m := Observe(map[string]any{})

	if m.Has("later") {
		t.Fatal("expected key to be undefined")
	}
	if m.Get("later") != nil {
		t.Error("expected missing key to read as nil")
	}
	if !m.Set("later", "v") {
		t.Error("expected defining a key to report a change")
	}
	if m.Get("later") != "v" {
		t.Errorf("expected v, got %v", m.Get("later"))
	}
}

func TestMapSetObjectNotObserved(t *testing.T) {
	m := Observe(map[string]any{"obj": map[string]any{"a": 1}})

	plain := map[string]any{"a": 2}
	m.Set("obj", plain)

	if _, ok := m.Get("obj").(map[string]any); !ok {
		t.Errorf("expected written map to be stored as-is, got %T", m.Get("obj"))
	}
}

func TestMapSnapshotAndJSON(t *testing.T) {
	m := Observe(map[string]any{"a": 1, "nested": map[string]any{"b": "x"}})
	m.Set("a", 2)

	snap := m.Snapshot()
	if snap["a"] != 2 {
		t.Errorf("expected a=2 in snapshot, got %v", snap["a"])
	}
	nested, ok := snap["nested"].(map[string]any)
	if !ok || nested["b"] != "x" {
		t.Errorf("expected nested plain map, got %#v", snap["nested"])
	}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"a":2,"nested":{"b":"x"}}` {
		t.Errorf("unexpected JSON: %s", data)
	}
}

func TestNotifyHook(t *testing.T) {
	var gotKey string
	var gotSubs int
	m := Observe(map[string]any{"k": 1}, WithNotifyHook(func(key string, subs int) {
		gotKey, gotSubs = key, subs
	}))
	NewWatcher(m, "k", nil)
	NewWatcher(m, "k", nil)

	m.Set("k", 2)

	if gotKey != "k" || gotSubs != 2 {
		t.Errorf("expected hook(k, 2), got hook(%s, %d)", gotKey, gotSubs)
	}
}

func TestMapSetFreshEmptySliceNotifies(t *testing.T) {
	m := Observe(map[string]any{"items": []any{}})
	calls := 0
	NewWatcher(m, "items", func(Source, any) { calls++ })

	m.Set("items", make([]any, 0))

	if calls != 1 {
		t.Errorf("expected a new empty slice to notify once, got %d", calls)
	}
}
