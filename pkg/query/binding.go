package query

import (
	"context"

	"github.com/lumapix/lumapix-client/pkg/retry"
)

// ReadBinding pairs a cache key with the fetch that fills it. Get serves
// from the cache while the entry is fresh and refetches otherwise,
// applying the binding's retry policy.
type ReadBinding[T any] struct {
	cache   *Cache
	key     string
	fetch   func(context.Context) (T, error)
	retry   retry.Config
	retryIf func(error) bool
}

// ReadOption configures a ReadBinding.
type ReadOption func(*readOptions)

type readOptions struct {
	retry   retry.Config
	retryIf func(error) bool
}

// WithRetry sets the binding's retry policy; shouldRetry decides which
// errors are worth another attempt (typically client.IsTransient).
func WithRetry(cfg retry.Config, shouldRetry func(error) bool) ReadOption {
	return func(o *readOptions) {
		o.retry = cfg
		o.retryIf = shouldRetry
	}
}

// NewRead creates a read binding for key backed by fetch. Without options
// a failed fetch is final (no retry at the gateway, none here either).
func NewRead[T any](cache *Cache, key string, fetch func(context.Context) (T, error), opts ...ReadOption) *ReadBinding[T] {
	o := readOptions{retry: retry.None()}
	for _, opt := range opts {
		opt(&o)
	}
	return &ReadBinding[T]{
		cache:   cache,
		key:     key,
		fetch:   fetch,
		retry:   o.retry,
		retryIf: o.retryIf,
	}
}

// Key returns the binding's cache key.
func (b *ReadBinding[T]) Key() string {
	return b.key
}

// Get returns the fresh cached value or fetches, caches, and returns a new
// one. Concurrent callers share a single in-flight fetch per key.
func (b *ReadBinding[T]) Get(ctx context.Context) (T, error) {
	if v, ok := b.cache.Get(b.key); ok {
		return v.(T), nil
	}

	v, err, _ := b.cache.flight.Do(b.key, func() (any, error) {
		// A racing caller may have filled the cache while we queued.
		if v, ok := b.cache.Get(b.key); ok {
			return v, nil
		}

		result, err := retry.DoWithResult(ctx, b.retry, func() (T, error) {
			r, err := b.fetch(ctx)
			if err != nil && b.retryIf != nil && b.retryIf(err) {
				return r, retry.Retryable(err)
			}
			return r, err
		})
		if err != nil {
			return nil, err
		}

		b.cache.Put(b.key, result)
		return result, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Invalidate flags this binding's entry stale so the next Get refetches.
func (b *ReadBinding[T]) Invalidate() {
	b.cache.Invalidate(b.key)
}

// Mutation wraps a write call with the cache prefixes it renders stale.
// Invalidation is fire-and-forget after success: no ordering is promised
// between the mutation's own response and later background refetches
// beyond eventual consistency with server state.
type Mutation[Arg, T any] struct {
	cache       *Cache
	run         func(context.Context, Arg) (T, error)
	invalidates []string
}

// NewMutation creates a mutation binding. invalidates lists the key
// prefixes flagged stale after a successful run; a failed run flags
// nothing. Mutations are never retried.
func NewMutation[Arg, T any](cache *Cache, run func(context.Context, Arg) (T, error), invalidates ...string) *Mutation[Arg, T] {
	return &Mutation[Arg, T]{
		cache:       cache,
		run:         run,
		invalidates: invalidates,
	}
}

// Do performs the write and, on success, invalidates the related reads.
func (m *Mutation[Arg, T]) Do(ctx context.Context, arg Arg) (T, error) {
	result, err := m.run(ctx, arg)
	if err != nil {
		var zero T
		return zero, err
	}
	for _, prefix := range m.invalidates {
		m.cache.Invalidate(prefix)
	}
	return result, nil
}
