package telemetry

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	berrors "github.com/bamboo-dev/bamboo/internal/errors"
)

// MetricsConfig configures a Recorder.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "bamboo").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for dispatch duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures a Recorder.
type Option func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "bamboo",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Recorder collects runtime metrics. A nil *Recorder is valid and records
// nothing.
//
// Metrics collected:
//   - bamboo_bindings_total: bindings created, by kind
//   - bamboo_event_listeners_total: listeners attached, by event
//   - bamboo_directives_skipped_total: unknown directives, by name
//   - bamboo_writes_total: effective data writes
//   - bamboo_subscribers_notified_total: subscriber updates fanned out
//   - bamboo_fanout_subscribers: subscribers per write
//   - bamboo_dispatch_total: live events dispatched, by event and status
//   - bamboo_dispatch_duration_seconds: live event handling duration
type Recorder struct {
	bindings         *prometheus.CounterVec
	listeners        *prometheus.CounterVec
	skipped          *prometheus.CounterVec
	writes           prometheus.Counter
	notified         prometheus.Counter
	fanout           prometheus.Histogram
	dispatchTotal    *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec
}

// NewRecorder registers the bamboo metrics with the configured registry.
// It panics if they are already registered there, like promauto does.
func NewRecorder(opts ...Option) *Recorder {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Recorder{
		bindings: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "bindings_total",
			Help:        "Total number of reactive bindings created",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		listeners: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "event_listeners_total",
			Help:        "Total number of event listeners attached by the compiler",
			ConstLabels: config.ConstLabels,
		}, []string{"event"}),

		skipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "directives_skipped_total",
			Help:        "Total number of unknown directives ignored by the compiler",
			ConstLabels: config.ConstLabels,
		}, []string{"directive"}),

		writes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "writes_total",
			Help:        "Total number of writes that changed a data property",
			ConstLabels: config.ConstLabels,
		}),

		notified: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "subscribers_notified_total",
			Help:        "Total number of subscriber updates triggered by writes",
			ConstLabels: config.ConstLabels,
		}),

		fanout: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "fanout_subscribers",
			Help:        "Number of subscribers notified per write",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{0, 1, 2, 4, 8, 16, 32, 64},
		}),

		dispatchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatch_total",
			Help:        "Total number of live events dispatched",
			ConstLabels: config.ConstLabels,
		}, []string{"event", "status"}),

		dispatchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatch_duration_seconds",
			Help:        "Live event handling duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"event"}),
	}
}

// BindingCreated counts a binding of the given kind (text, html, model, ...).
func (r *Recorder) BindingCreated(kind string) {
	if r == nil {
		return
	}
	r.bindings.WithLabelValues(kind).Inc()
}

// EventBound counts a listener attached for event.
func (r *Recorder) EventBound(event string) {
	if r == nil {
		return
	}
	r.listeners.WithLabelValues(event).Inc()
}

// DirectiveSkipped counts an unknown directive.
func (r *Recorder) DirectiveSkipped(name string) {
	if r == nil {
		return
	}
	r.skipped.WithLabelValues(name).Inc()
}

// Notified records one effective write and its fan-out. Its signature
// matches reactive.WithNotifyHook.
func (r *Recorder) Notified(_ string, subscribers int) {
	if r == nil {
		return
	}
	r.writes.Inc()
	r.notified.Add(float64(subscribers))
	r.fanout.Observe(float64(subscribers))
}

// ObserveDispatch records a live event. err decides the status label:
// "success", the bamboo error code, or "error". event becomes a label
// value, so callers must pass a value from a bounded set.
func (r *Recorder) ObserveDispatch(event string, d time.Duration, err error) {
	if r == nil {
		return
	}
	r.dispatchTotal.WithLabelValues(event, statusOf(err)).Inc()
	r.dispatchDuration.WithLabelValues(event).Observe(d.Seconds())
}

func statusOf(err error) string {
	if err == nil {
		return "success"
	}
	var be *berrors.BambooError
	if errors.As(err, &be) && be.Code != "" {
		return be.Code
	}
	return "error"
}
