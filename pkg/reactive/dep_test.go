package reactive

import "testing"

type orderSubscriber struct {
	name string
	log  *[]string
}

func (s *orderSubscriber) Update() {
	*s.log = append(*s.log, s.name)
}

func TestDepNotifyOrder(t *testing.T) {
	var log []string
	d := NewDep()
	d.AddSubscriber(&orderSubscriber{name: "a", log: &log})
	d.AddSubscriber(&orderSubscriber{name: "b", log: &log})
	d.AddSubscriber(&orderSubscriber{name: "c", log: &log})

	d.Notify()

	want := []string{"a", "b", "c"}
	if len(log) != len(want) {
		t.Fatalf("expected %v, got %v", want, log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], log[i])
		}
	}
}

func TestDepKeepsDuplicates(t *testing.T) {
	d := NewDep()
	s := &testSubscriber{}
	d.AddSubscriber(s)
	d.AddSubscriber(s)

	d.Notify()

	if d.Len() != 2 {
		t.Errorf("expected 2 registrations, got %d", d.Len())
	}
	if s.getUpdates() != 2 {
		t.Errorf("expected 2 updates, got %d", s.getUpdates())
	}
}

func TestDepDedupe(t *testing.T) {
	c := NewCell("k", 0, WithDedupe())
	s := &testSubscriber{}

	Track(s, func() {
		_ = c.Get()
		_ = c.Get()
	})
	c.Set(1)

	if c.Dep().Len() != 1 {
		t.Errorf("expected 1 registration, got %d", c.Dep().Len())
	}
	if s.getUpdates() != 1 {
		t.Errorf("expected 1 update, got %d", s.getUpdates())
	}
}

func TestDepAddNil(t *testing.T) {
	d := NewDep()
	d.AddSubscriber(nil)
	if d.Len() != 0 {
		t.Errorf("expected nil subscriber to be ignored, got %d", d.Len())
	}
}

type panicSubscriber struct{}

func (panicSubscriber) Update() { panic("subscriber failed") }

func TestDepPanicAbortsFanOut(t *testing.T) {
	d := NewDep()
	first := &testSubscriber{}
	last := &testSubscriber{}
	d.AddSubscriber(first)
	d.AddSubscriber(panicSubscriber{})
	d.AddSubscriber(last)

	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Error("expected panic to propagate out of Notify")
			}
		}()
		d.Notify()
	}()

	if first.getUpdates() != 1 {
		t.Errorf("expected first subscriber to run, got %d", first.getUpdates())
	}
	if last.getUpdates() != 0 {
		t.Errorf("expected last subscriber to be skipped, got %d", last.getUpdates())
	}
}

type appendingSubscriber struct {
	dep   *Dep
	extra *testSubscriber
}

func (s *appendingSubscriber) Update() {
	s.dep.AddSubscriber(s.extra)
}

func TestDepSubscriberAddedDuringNotify(t *testing.T) {
	d := NewDep()
	extra := &testSubscriber{}
	d.AddSubscriber(&appendingSubscriber{dep: d, extra: extra})

	d.Notify()
	if extra.getUpdates() != 0 {
		t.Errorf("expected subscriber added mid-notify to wait for next round, got %d", extra.getUpdates())
	}

	d.Notify()
	if extra.getUpdates() != 1 {
		t.Errorf("expected 1 update on second round, got %d", extra.getUpdates())
	}
}

// sliceSubscriber is a value type that cannot be compared with ==.
type sliceSubscriber struct {
	hits *int
	tags []string
}

func (s sliceSubscriber) Update() { *s.hits++ }

func TestDepDedupeNonComparableSubscriber(t *testing.T) {
	hits := 0
	c := NewCell("k", 0, WithDedupe())
	sub := sliceSubscriber{hits: &hits, tags: []string{"a"}}

	Track(sub, func() {
		_ = c.Get()
		_ = c.Get()
	})
	c.Set(1)

	if c.Dep().Len() != 2 {
		t.Errorf("expected both registrations to be kept, got %d", c.Dep().Len())
	}
	if hits != 2 {
		t.Errorf("expected 2 updates, got %d", hits)
	}
}
