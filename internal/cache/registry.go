// Package cache implements the pull-through read cache shared by every
// component that reads catalog state. Entries are keyed by logical resource
// name and explicitly marked stale by mutating operations; the next read
// recomputes from a fresh remote fetch, never from client-guessed deltas.
package cache

import (
	"context"
	"strconv"
	"sync"
)

// Well-known resource keys.
const (
	ResourceCart       = "cart"
	ResourceProducts   = "products"
	ResourceOrders     = "orders"
	ResourceCategories = "categories"
)

// ProductResource returns the per-product resource key.
func ProductResource(productID uint64) string {
	return "product:" + strconv.FormatUint(productID, 10)
}

// Registry is an explicitly passed cache context. It is never global: every
// component that reads or invalidates cached resources receives it from its
// constructor.
type Registry struct {
	mu      sync.Mutex
	entries map[string]any
}

func NewRegistry() *Registry {
	return &Registry{entries: map[string]any{}}
}

// Invalidate drops the cached values for the given resource keys. Missing keys
// are ignored.
func (r *Registry) Invalidate(keys ...string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, key := range keys {
		delete(r.entries, key)
	}
}

// InvalidateAll drops every cached value.
func (r *Registry) InvalidateAll() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = map[string]any{}
}

func (r *Registry) load(key string) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	value, ok := r.entries[key]
	return value, ok
}

func (r *Registry) store(key string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = value
}

// Fetch returns the cached value for key, invoking fn on a miss and caching the
// result. Fetch errors are returned to the caller and never cached.
func Fetch[T any](ctx context.Context, r *Registry, key string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if r != nil {
		if cached, ok := r.load(key); ok {
			if typed, ok := cached.(T); ok {
				return typed, nil
			}
		}
	}
	value, err := fn(ctx)
	if err != nil {
		return zero, err
	}
	if r != nil {
		r.store(key, value)
	}
	return value, nil
}
