package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/metrics"

	"go.uber.org/zap"
)

const (
	DefaultTTL      = 60 * time.Second
	DefaultCapacity = 5
)

// Loader produces the value for a missing key. It receives a context that is
// detached from the caller's cancellation.
type Loader[T any] func(ctx context.Context) (T, error)

// Options configures a ResultCache
type Options struct {
	TTL      time.Duration
	Capacity int
	Now      func() time.Time
	Logger   *zap.Logger
}

// Handle is the shared outcome of one load. Every caller that asked for the
// same key while the entry was live holds the same Handle.
type Handle[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func newHandle[T any]() *Handle[T] {
	return &Handle[T]{done: make(chan struct{})}
}

// Done is closed once the load has finished
func (h *Handle[T]) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the load finishes or ctx is done. Giving up on ctx does
// not abort the load.
func (h *Handle[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-h.done:
		return h.value, h.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (h *Handle[T]) resolve(value T, err error) {
	h.value = value
	h.err = err
	close(h.done)
}

type entry[T any] struct {
	key       string
	expiresAt time.Time
	seq       uint64
	handle    *Handle[T]
}

// ResultCache memoizes load outcomes per key for a fixed TTL, holds at most
// Capacity entries and coalesces concurrent loads of the same key.
// Failed loads are never kept.
type ResultCache[T any] struct {
	name     string
	ttl      time.Duration
	capacity int
	now      func() time.Time
	logger   *zap.Logger

	mu      sync.Mutex
	entries map[string]*entry[T]
	seq     uint64
}

// NewResultCache creates a cache. Zero options fall back to a 60s TTL,
// capacity 5 and the wall clock.
func NewResultCache[T any](name string, opts Options) *ResultCache[T] {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultCapacity
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &ResultCache[T]{
		name:     name,
		ttl:      opts.TTL,
		capacity: opts.Capacity,
		now:      opts.Now,
		logger:   opts.Logger.With(zap.String("cache", name)),
		entries:  make(map[string]*entry[T]),
	}
}

// GetOrCreate returns the live handle for key, or starts loader and returns
// the new handle. A hit does not extend the entry's expiry.
func (c *ResultCache[T]) GetOrCreate(ctx context.Context, key string, loader Loader[T]) *Handle[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.sweepLocked(now)

	if e, ok := c.entries[key]; ok {
		select {
		case <-e.handle.done:
			metrics.CacheLookups.WithLabelValues(c.name, "hit").Inc()
		default:
			metrics.CacheLookups.WithLabelValues(c.name, "coalesced").Inc()
		}
		return e.handle
	}

	metrics.CacheLookups.WithLabelValues(c.name, "miss").Inc()
	c.seq++
	e := &entry[T]{
		key:       key,
		expiresAt: now.Add(c.ttl),
		seq:       c.seq,
		handle:    newHandle[T](),
	}
	c.entries[key] = e
	c.enforceCapacityLocked()
	metrics.CacheEntries.WithLabelValues(c.name).Set(float64(len(c.entries)))

	c.logger.Debug("Cache miss, loading", zap.String("key", key), zap.Time("expires_at", e.expiresAt))

	go c.load(context.WithoutCancel(ctx), e, loader)
	return e.handle
}

// Get is GetOrCreate followed by Wait
func (c *ResultCache[T]) Get(ctx context.Context, key string, loader Loader[T]) (T, error) {
	return c.GetOrCreate(ctx, key, loader).Wait(ctx)
}

func (c *ResultCache[T]) load(ctx context.Context, e *entry[T], loader Loader[T]) {
	var (
		value T
		err   error
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("loader panicked: %v", r)
			}
		}()
		value, err = loader(ctx)
	}()

	if err != nil {
		// Remove before resolving so no caller can pick up the failed handle.
		c.mu.Lock()
		if cur, ok := c.entries[e.key]; ok && cur == e {
			delete(c.entries, e.key)
			metrics.CacheEvictions.WithLabelValues(c.name, "failed").Inc()
			metrics.CacheEntries.WithLabelValues(c.name).Set(float64(len(c.entries)))
		}
		c.mu.Unlock()
		c.logger.Debug("Load failed, entry dropped", zap.String("key", e.key), zap.Error(err))
	}

	e.handle.resolve(value, err)
}

func (c *ResultCache[T]) sweepLocked(now time.Time) {
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
			metrics.CacheEvictions.WithLabelValues(c.name, "expired").Inc()
		}
	}
}

// enforceCapacityLocked evicts the entry that expires soonest until the cache
// fits. Insertion order breaks ties.
func (c *ResultCache[T]) enforceCapacityLocked() {
	for len(c.entries) > c.capacity {
		var victim *entry[T]
		for _, e := range c.entries {
			if victim == nil ||
				e.expiresAt.Before(victim.expiresAt) ||
				(e.expiresAt.Equal(victim.expiresAt) && e.seq < victim.seq) {
				victim = e
			}
		}
		delete(c.entries, victim.key)
		metrics.CacheEvictions.WithLabelValues(c.name, "capacity").Inc()
		c.logger.Debug("Evicted entry for capacity", zap.String("key", victim.key))
	}
}

// Len returns the number of live entries, including ones still loading
func (c *ResultCache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweepLocked(c.now())
	return len(c.entries)
}

// Keys returns the live keys, for diagnostics and tests
func (c *ResultCache[T]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweepLocked(c.now())
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return keys
}

// Purge drops every entry. In-flight loads still resolve their handles.
func (c *ResultCache[T]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry[T])
	metrics.CacheEntries.WithLabelValues(c.name).Set(0)
}
