package telemetry

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "vtree").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for compile duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures metrics.
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

// WithBuckets sets the compile duration histogram buckets.
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
		Namespace: "vtree",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors.
type Metrics struct {
	compilations    *prometheus.CounterVec
	compileDuration *prometheus.HistogramVec
	diagnostics     *prometheus.CounterVec
	created         *prometheus.CounterVec
	flattens        *prometheus.CounterVec
	rootNodes       *prometheus.HistogramVec
	liveViews       prometheus.Gauge
	sessions        prometheus.Gauge
}

// NewMetrics creates and registers the collectors. Registering twice with
// the same registry panics, as with promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		compilations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "compilations_total",
			Help:        "Total number of component template compilations",
			ConstLabels: config.ConstLabels,
		}, []string{"component", "status"}),

		compileDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "compile_duration_seconds",
			Help:        "Template compilation duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"component"}),

		diagnostics: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "schema_diagnostics_total",
			Help:        "Total number of unknown schema members found by template validation",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		created: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "components_created_total",
			Help:        "Total number of component instantiations",
			ConstLabels: config.ConstLabels,
		}, []string{"component", "status"}),

		flattens: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flatten_total",
			Help:        "Total number of root node computations",
			ConstLabels: config.ConstLabels,
		}, []string{"strategy"}),

		rootNodes: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "root_nodes",
			Help:        "Number of root nodes produced per computation",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{0, 1, 2, 4, 8, 16, 32, 64, 128},
		}, []string{"strategy"}),

		liveViews: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_views",
			Help:        "Number of embedded views currently alive",
			ConstLabels: config.ConstLabels,
		}),

		sessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "preview_sessions",
			Help:        "Number of open websocket preview sessions",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// RecordCompile records a compilation of component.
func (m *Metrics) RecordCompile(component string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.compileDuration.WithLabelValues(component).Observe(d.Seconds())
	m.compilations.WithLabelValues(component, status(err)).Inc()
}

// RecordDiagnostic records an unknown schema member by error code.
func (m *Metrics) RecordDiagnostic(code string) {
	if m == nil {
		return
	}
	m.diagnostics.WithLabelValues(code).Inc()
}

// RecordCreate records a component instantiation.
func (m *Metrics) RecordCreate(component string, err error) {
	if m == nil {
		return
	}
	m.created.WithLabelValues(component, status(err)).Inc()
}

// RecordFlatten records one root node computation.
func (m *Metrics) RecordFlatten(strategy string, nodes int) {
	if m == nil {
		return
	}
	m.flattens.WithLabelValues(strategy).Inc()
	m.rootNodes.WithLabelValues(strategy).Observe(float64(nodes))
}

// ViewCreated increments the live view gauge.
func (m *Metrics) ViewCreated() {
	if m != nil {
		m.liveViews.Inc()
	}
}

// ViewDestroyed decrements the live view gauge.
func (m *Metrics) ViewDestroyed() {
	if m != nil {
		m.liveViews.Dec()
	}
}

// SessionOpened increments the preview session gauge.
func (m *Metrics) SessionOpened() {
	if m != nil {
		m.sessions.Inc()
	}
}

// SessionClosed decrements the preview session gauge.
func (m *Metrics) SessionClosed() {
	if m != nil {
		m.sessions.Dec()
	}
}

type coder interface {
	Code() string
}

// status returns a low-cardinality label for err: "ok", the registered
// error code, or "error".
func status(err error) string {
	if err == nil {
		return "ok"
	}
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return "error"
}
