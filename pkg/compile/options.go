package compile

import "log/slog"

// Option configures a Compiler.
type Option func(*Compiler)

// WithPrefix sets the directive prefix (default "b-").
func WithPrefix(prefix string) Option {
	return func(c *Compiler) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver sets the observer told about bindings and events.
func WithObserver(o Observer) Option {
	return func(c *Compiler) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithBindHandler replaces the handler for bind attributes.
func WithBindHandler(h BindHandler) Option {
	return func(c *Compiler) {
		if h != nil {
			c.bind = h
		}
	}
}
