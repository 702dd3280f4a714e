package reactive

// Subscriber is anything that can be notified when a cell it read changes.
// Watcher is the implementation used by the binding compiler.
type Subscriber interface {
	// Update is called synchronously from Dep.Notify.
	Update()
}

// Source is anything a Watcher can read a keyed value from.
// Both *Map and the root instance implement it.
type Source interface {
	Get(key string) any
}

// Callback receives the source the watcher is bound to and the fresh value.
type Callback func(src Source, value any)
