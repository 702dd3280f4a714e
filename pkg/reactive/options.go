package reactive

// Option configures cells created by Observe and NewCell.
type Option func(*options)

type options struct {
	dedupe   bool
	onNotify func(key string, subscribers int)
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithDedupe makes every Dep ignore a subscriber that is already registered.
//
// This deviates from the default behavior, where each tracked read appends a
// registration and a subscriber that read a cell twice is updated twice.
func WithDedupe() Option {
	return func(o *options) {
		o.dedupe = true
	}
}

// WithNotifyHook installs a function called on every effective write, before
// subscribers run. Used for metrics.
func WithNotifyHook(fn func(key string, subscribers int)) Option {
	return func(o *options) {
		o.onNotify = fn
	}
}
