package urlstore

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Write sources, used as the "source" label of writes_total.
const (
	sourceWrite   = "write"
	sourceClear   = "clear"
	sourceMigrate = "migrate"
	sourceNotify  = "notify"
)

// MetricsConfig configures the Prometheus collectors of a Store.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "urlstore").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for fragment sizes in bytes.
	// Default: 16, 32, ... 8192.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures MetricsConfig.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the fragment size histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "urlstore",
		Buckets:   prometheus.ExponentialBuckets(16, 2, 10),
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the collectors shared by any number of Stores.
// A nil *Metrics records nothing.
type Metrics struct {
	readsTotal      prometheus.Counter
	writesTotal     *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	suppressedTotal prometheus.Counter
	fragmentBytes   prometheus.Histogram
}

// NewMetrics registers the store collectors. Registering twice with the
// same registry panics, so create one Metrics per registry and share it.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		readsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reads_total",
			Help:        "Total number of fragment reads",
			ConstLabels: config.ConstLabels,
		}),

		writesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "writes_total",
			Help:        "Total number of fragment writes by source",
			ConstLabels: config.ConstLabels,
		}, []string{"source"}),

		errorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "errors_total",
			Help:        "Total number of failed store operations",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		suppressedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "suppressed_notifications_total",
			Help:        "Fragment change notifications dropped because they arrived during a write",
			ConstLabels: config.ConstLabels,
		}),

		fragmentBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "fragment_bytes",
			Help:        "Size of written fragments in bytes",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
}

func (m *Metrics) recordRead() {
	if m == nil {
		return
	}
	m.readsTotal.Inc()
}

func (m *Metrics) recordWrite(source string, fragment string) {
	if m == nil {
		return
	}
	m.writesTotal.WithLabelValues(source).Inc()
	m.fragmentBytes.Observe(float64(len(fragment)))
}

func (m *Metrics) recordError(op string) {
	if m == nil {
		return
	}
	m.errorsTotal.WithLabelValues(op).Inc()
}

func (m *Metrics) recordSuppressed() {
	if m == nil {
		return
	}
	m.suppressedTotal.Inc()
}
