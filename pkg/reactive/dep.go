package reactive

import (
	"reflect"
	"sync"
)

// Dep holds the subscribers of a single reactive property.
type Dep struct {
	subs []Subscriber

	// dedupe makes AddSubscriber ignore subscribers that are already present.
	// Off by default: repeated reads register repeatedly.
	dedupe bool

	mu sync.Mutex
}

// NewDep creates an empty dependency.
func NewDep() *Dep {
	return &Dep{}
}

// AddSubscriber appends s to the subscriber list. With dedupe on, a
// subscriber equal to one already registered is dropped; subscribers of
// non-comparable types are never considered equal.
func (d *Dep) AddSubscriber(s Subscriber) {
	if s == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.dedupe {
		for _, existing := range d.subs {
			if sameSubscriber(existing, s) {
				return
			}
		}
	}
	d.subs = append(d.subs, s)
}

// Notify calls Update on every subscriber in registration order.
// Subscribers added while notifying are not visited in this round.
// A panicking subscriber aborts the remaining notifications.
func (d *Dep) Notify() {
	// Copy subscribers while holding lock
	d.mu.Lock()
	subs := make([]Subscriber, len(d.subs))
	copy(subs, d.subs)
	d.mu.Unlock()

	for _, sub := range subs {
		sub.Update()
	}
}

// Len returns the number of registrations, duplicates included.
func (d *Dep) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.subs)
}

func sameSubscriber(a, b Subscriber) bool {
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}
