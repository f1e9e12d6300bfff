// Package cache holds process-wide values that are computed on first use
// and never invalidated.
package cache

import (
	"context"
	"sync"
)

// Lazy computes a value once and hands out the same value afterwards.
//
// The compute function runs outside the lock, so two callers racing on an
// empty holder may both compute; the first stored result wins and the other
// is discarded. Failed computations are not cached.
type Lazy[T any] struct {
	mu      sync.Mutex
	loaded  bool
	value   T
	compute func(ctx context.Context) (T, error)
}

func NewLazy[T any](compute func(ctx context.Context) (T, error)) *Lazy[T] {
	return &Lazy[T]{compute: compute}
}

// Get returns the cached value, computing it if no value is stored yet.
func (l *Lazy[T]) Get(ctx context.Context) (T, error) {
	l.mu.Lock()
	if l.loaded {
		v := l.value
		l.mu.Unlock()
		return v, nil
	}
	l.mu.Unlock()

	v, err := l.compute(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.loaded {
		l.value = v
		l.loaded = true
	}
	return l.value, nil
}

// Loaded reports whether a value has been stored.
func (l *Lazy[T]) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}
