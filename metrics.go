package private

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "private"

type metrics struct {
	live         prometheus.Gauge
	materialized prometheus.Counter
	reclaimed    prometheus.Counter
	deleted      prometheus.Counter
	links        prometheus.Counter
	invocations  prometheus.Counter
}

func newMetrics(reg prometheus.Registerer, name string, logger Logger) *metrics {
	labels := prometheus.Labels{"store": name}
	counter := func(metric, help string) prometheus.Counter {
		return register(reg, logger, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Subsystem:   "store",
			Name:        metric,
			Help:        help,
			ConstLabels: labels,
		}))
	}

	return &metrics{
		live: register(reg, logger, prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Subsystem:   "store",
			Name:        "live_references",
			Help:        "References that currently own a container.",
			ConstLabels: labels,
		})),
		materialized: counter("materialized_total", "Containers created on first access."),
		reclaimed:    counter("reclaimed_total", "Containers dropped after their reference was garbage collected."),
		deleted:      counter("deleted_total", "Containers removed explicitly."),
		links:        counter("links_total", "Link operations."),
		invocations:  counter("invocations_total", "Stored methods invoked."),
	}
}

// register adds c to reg, reusing a collector already registered under the
// same descriptor so several stores can share one name.
func register[C prometheus.Collector](reg prometheus.Registerer, logger Logger, c C) C {
	if reg == nil {
		return c
	}
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		logger.Warn("metrics registration failed: %v", err)
	}
	return c
}
