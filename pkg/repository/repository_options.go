package repository

import (
	"github.com/jonathangreen/tuque-sub001/pkg/cache"
	"github.com/jonathangreen/tuque-sub001/pkg/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option is a functor to build a repository with some options
type Option func(*Repository)

// Logger sets the logger of the repository and of the objects it builds
func Logger(l *zap.Logger) Option {
	return func(r *Repository) {
		if l != nil {
			r.l = l
		}
	}
}

// CacheCapacity sets the number of objects kept in the cache
func CacheCapacity(n int) Option {
	return func(r *Repository) {
		r.cacheOpts = append(r.cacheOpts, cache.Capacity(n))
	}
}

// CacheMetrics exposes the cache counters to prometheus, under some namespace
func CacheMetrics(reg prometheus.Registerer, namespace string) Option {
	return func(r *Repository) {
		r.cacheOpts = append(r.cacheOpts, cache.WithMetrics(reg, namespace))
	}
}

// Namespace sets the namespace of the identifiers minted for new objects
func Namespace(ns string) Option {
	return func(r *Repository) {
		r.namespace = ns
	}
}

// UUIDIdentifiers mints identifiers for new objects locally, as namespace:uuid,
// instead of asking the repository.
func UUIDIdentifiers(gen *uuid.Generator) Option {
	return func(r *Repository) {
		if gen == nil {
			gen = uuid.NewGenerator()
		}
		r.uuids = gen
	}
}
