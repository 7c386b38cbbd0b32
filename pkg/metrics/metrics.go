package metrics

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dmitrymomot/formguard"
	"github.com/dmitrymomot/formguard/pkg/validator"
)

// Evaluation outcomes used as the "result" label.
const (
	ResultPassed  = "passed"
	ResultFailed  = "failed"
	ResultSkipped = "skipped"
)

// Config configures the recorder.
type Config struct {
	// Namespace is the metrics namespace (default: "formguard").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for evaluation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the recorder.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "formguard",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Recorder turns guard results into Prometheus metrics.
type Recorder struct {
	evaluations *prometheus.CounterVec
	failures    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// New registers the formguard metrics:
//   - formguard_evaluations_total: evaluations by guard and result
//   - formguard_failures_total: failed evaluations by guard, field and kind
//   - formguard_evaluation_duration_seconds: evaluation duration by guard
//
// Registering twice on the same registry returns the registry's error.
func New(opts ...Option) (r *Recorder, err error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Registry == nil {
		return nil, ErrNilRegistry
	}

	// promauto panics on registration errors.
	defer func() {
		if p := recover(); p != nil {
			if perr, ok := p.(error); ok {
				err = errors.Join(ErrRegister, perr)
				return
			}
			panic(p)
		}
	}()

	factory := promauto.With(cfg.Registry)
	return &Recorder{
		evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "evaluations_total",
			Help:        "Total number of guard evaluations",
			ConstLabels: cfg.ConstLabels,
		}, []string{"guard", "result"}),

		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "failures_total",
			Help:        "Total number of failed evaluations by field and error kind",
			ConstLabels: cfg.ConstLabels,
		}, []string{"guard", "field", "kind"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "evaluation_duration_seconds",
			Help:        "Guard evaluation duration in seconds",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}, []string{"guard"}),
	}, nil
}

// MustNew is like New but panics on error.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// Observe records one evaluation result.
func (r *Recorder) Observe(res formguard.Result) {
	guard := res.Guard
	if guard == "" {
		guard = "unnamed"
	}

	r.duration.WithLabelValues(guard).Observe(res.Duration.Seconds())

	switch {
	case res.Err != nil:
		r.evaluations.WithLabelValues(guard, ResultFailed).Inc()
		kind := validator.KindOf(res.Err)
		if kind == "" {
			kind = "internal"
		}
		r.failures.WithLabelValues(guard, validator.FieldOf(res.Err), kind).Inc()
	case !res.FormMode:
		r.evaluations.WithLabelValues(guard, ResultSkipped).Inc()
	default:
		r.evaluations.WithLabelValues(guard, ResultPassed).Inc()
	}
}

// Hook returns a guard hook that records into r.
//
// Example:
//
//	rec := metrics.MustNew()
//	guard := formguard.MustNew(
//		formguard.WithName("signup"),
//		formguard.WithHook(rec.Hook()),
//		formguard.WithValidator("email", validator.Email()),
//	)
//	http.Handle("/metrics", promhttp.Handler())
func (r *Recorder) Hook() formguard.Hook {
	return func(_ context.Context, res formguard.Result) {
		r.Observe(res)
	}
}
