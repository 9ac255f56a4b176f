package params

import (
	"context"
	"sync"
	"time"

	"chainy-backend/internal/infrastructure/observability"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultTTL is how long a fetched parameter stays valid
const DefaultTTL = 5 * time.Minute

// cachedParameter is one fetched value and the time it was fetched
type cachedParameter struct {
	value     string
	fetchedAt time.Time
}

// Cache is an in-memory TTL cache in front of a Store. One Cache is built per
// process and shared by every emission.
//
// Lookups are check-then-fetch-then-store and are not coalesced:
// concurrent misses for the same name may each reach the store, and the last
// write wins. Values are immutable strings so readers never observe a partial
// entry. Entries are replaced on refetch and never deleted.
type Cache struct {
	store Store
	ttl   time.Duration
	now   Clock

	mu      sync.RWMutex
	entries map[string]cachedParameter

	logger  *zap.Logger
	metrics *observability.Metrics
	tracer  trace.Tracer
}

// CacheOption configures a Cache
type CacheOption func(*Cache)

// WithTTL overrides DefaultTTL
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock injects the time source
func WithClock(now Clock) CacheOption {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the cache logger
func WithLogger(logger *zap.Logger) CacheOption {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records hits, misses and store reads
func WithMetrics(metrics *observability.Metrics) CacheOption {
	return func(c *Cache) {
		c.metrics = metrics
	}
}

// NewCache creates a parameter cache over store
func NewCache(store Store, opts ...CacheOption) *Cache {
	c := &Cache{
		store:   store,
		ttl:     DefaultTTL,
		now:     time.Now,
		entries: make(map[string]cachedParameter),
		logger:  zap.NewNop(),
		tracer:  observability.Tracer(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetParameter returns the decrypted value of name, reading the store only
// when there is no entry younger than the TTL.
func (c *Cache) GetParameter(ctx context.Context, name string) (string, error) {
	if value, ok := c.lookup(name); ok {
		c.metrics.RecordCacheLookup(true)
		return value, nil
	}
	c.metrics.RecordCacheLookup(false)

	ctx, span := c.tracer.Start(ctx, "params.GetParameter",
		trace.WithAttributes(observability.AttrParameterName.String(name)),
	)
	defer span.End()

	value, err := c.store.GetParameter(ctx, name, true)
	if err != nil {
		c.metrics.RecordParameterFetch(observability.StatusFailure)
		span.RecordError(err)
		span.SetStatus(codes.Error, "parameter fetch failed")
		c.logger.Warn("Failed to fetch parameter",
			zap.String("parameter", name),
			zap.Error(err),
		)
		return "", err
	}
	c.metrics.RecordParameterFetch(observability.StatusSuccess)

	c.mu.Lock()
	c.entries[name] = cachedParameter{value: value, fetchedAt: c.now()}
	c.mu.Unlock()

	c.logger.Debug("Parameter cached", zap.String("parameter", name), zap.Duration("ttl", c.ttl))
	return value, nil
}

func (c *Cache) lookup(name string) (string, bool) {
	c.mu.RLock()
	entry, ok := c.entries[name]
	c.mu.RUnlock()

	if !ok || c.now().Sub(entry.fetchedAt) >= c.ttl {
		return "", false
	}
	return entry.value, true
}
