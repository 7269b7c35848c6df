package cache

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Option is a functor to configure a cache
type Option func(*options)

type options struct {
	capacity int
	metrics  *cacheMetrics
}

func defaultOptions() options {
	return options{capacity: DefaultCapacity}
}

// Capacity sets the maximum number of entries. It defaults to DefaultCapacity.
func Capacity(capacity int) Option {
	return func(o *options) {
		if capacity < 1 {
			o.capacity = DefaultCapacity
			return
		}
		o.capacity = capacity
	}
}

// WithMetrics exposes cache counters to a prometheus registerer.
//
// Registration failures (e.g. duplicate collectors) leave the cache without metrics.
func WithMetrics(reg prometheus.Registerer, name string) Option {
	return func(o *options) {
		if reg == nil {
			return
		}
		m, err := newCacheMetrics(reg, name)
		if err != nil {
			return
		}
		o.metrics = m
	}
}
