package reactive

// Watcher connects one key of a Source to a callback.
//
// Construction performs exactly one tracked read of the key; that read is
// what registers the watcher with the cell's Dep. A watcher never
// unsubscribes.
type Watcher struct {
	src Source
	key string
	cb  Callback
}

// NewWatcher creates a watcher and registers it by reading src.Get(key)
// once while the watcher is the active subscriber. Keys are single-level.
func NewWatcher(src Source, key string, cb Callback) *Watcher {
	w := &Watcher{src: src, key: key, cb: cb}
	Track(w, func() {
		_ = src.Get(key)
	})
	return w
}

// Key returns the watched key.
func (w *Watcher) Key() string {
	return w.key
}

// Update re-reads the key and invokes the callback with the new value.
// Both run untracked so updates never add registrations.
func (w *Watcher) Update() {
	Untracked(func() {
		value := w.src.Get(w.key)
		if w.cb != nil {
			w.cb(w.src, value)
		}
	})
}
