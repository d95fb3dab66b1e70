// Package metrics exports toast lifecycle counters to Prometheus.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dmitrymomot/toastkit/pkg/toast"
)

// Config configures the collector.
type Config struct {
	// Namespace is the metrics namespace (default: "toastkit").
	Namespace string
	// Registry defaults to prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// Option configures the collector.
type Option func(*Config)

func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

// Collector is a toast.Observer that counts lifecycle events.
type Collector struct {
	created   *prometheus.CounterVec
	dismissed prometheus.Counter
	removed   prometheus.Counter
	live      prometheus.Gauge
}

var _ toast.Observer = (*Collector)(nil)

// New registers the toast metrics with the configured registry.
func New(opts ...Option) *Collector {
	cfg := Config{
		Namespace: "toastkit",
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	factory := promauto.With(cfg.Registry)
	return &Collector{
		created: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "toasts_created_total",
			Help:      "Total number of toasts shown, by severity",
		}, []string{"severity"}),

		dismissed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "toasts_dismissed_total",
			Help:      "Total number of toasts closed by the user before their dwell time elapsed",
		}),

		removed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "toasts_removed_total",
			Help:      "Total number of toasts removed from the container",
		}),

		live: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "toasts_live",
			Help:      "Number of toasts currently in the container",
		}),
	}
}

// Observe implements toast.Observer.
func (c *Collector) Observe(_ context.Context, ev toast.Event) {
	switch ev.Kind {
	case toast.EventAppended:
		c.created.WithLabelValues(ev.Toast.Severity.Normalize().String()).Inc()
		c.live.Inc()
	case toast.EventDisappearing:
		if ev.Dismissed {
			c.dismissed.Inc()
		}
	case toast.EventRemoved:
		c.removed.Inc()
		c.live.Dec()
	}
}
