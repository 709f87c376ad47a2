package private

import (
	"github.com/davidroman0O/private/store"
	"github.com/prometheus/client_golang/prometheus"
)

// ContainerFactory builds an empty per-reference container.
type ContainerFactory func() store.Container

// Option configures a Store
type Option func(*config)

type config struct {
	name       string
	logger     Logger
	factory    ContainerFactory
	initial    []store.Entry
	registerer prometheus.Registerer
}

func defaultConfig() config {
	return config{
		name:    "default",
		logger:  NewDefaultLogger(),
		factory: func() store.Container { return store.NewKVStore() },
	}
}

// WithName labels the store in logs and metrics.
func WithName(name string) Option {
	return func(c *config) {
		if name != "" {
			c.name = name
		}
	}
}

// WithLogger sets the logger used for store diagnostics
func WithLogger(logger Logger) Option {
	return func(c *config) {
		if logger == nil {
			c.logger = NewDefaultLogger()
			return
		}
		c.logger = logger
	}
}

// WithContainerFactory replaces the default ordered container.
func WithContainerFactory(factory ContainerFactory) Option {
	return func(c *config) {
		if factory != nil {
			c.factory = factory
		}
	}
}

// WithInitialEntries seeds every freshly created container with entries.
// Entries with an empty key are ignored.
func WithInitialEntries(entries ...store.Entry) Option {
	return func(c *config) {
		for _, e := range entries {
			if e.Key != "" {
				c.initial = append(c.initial, e)
			}
		}
	}
}

// WithRegisterer registers the store metrics on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *config) {
		c.registerer = reg
	}
}
