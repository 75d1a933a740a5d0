// Package imagecache holds resolved location image URLs with a fixed retention
// window and persists them as one JSON blob through a pluggable Store.
package imagecache

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-trip-images/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-images/internal/types"
)

// DefaultRetention is how long a resolved URL stays valid.
const DefaultRetention = 7 * 24 * time.Hour

// Cache maps composite image keys to URLs. Expired entries are never swept in
// the background: they are dropped when the blob is loaded and reported as
// absent by Get.
type Cache struct {
	items     *gocache.Cache
	store     Store
	retention time.Duration
	logger    *slog.Logger
	metrics   *metrics.AppMetrics

	// saveMu serializes snapshot+write so the blob always reflects a complete state.
	saveMu sync.Mutex
}

type Option func(*Cache)

func WithRetention(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.retention = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithMetrics(m *metrics.AppMetrics) Option {
	return func(c *Cache) { c.metrics = m }
}

// New returns an empty cache backed by store. Call Load to read persisted entries.
func New(store Store, opts ...Option) *Cache {
	c := &Cache{
		store:     store,
		retention: DefaultRetention,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.items = gocache.New(c.retention, 0)
	return c
}

// Init builds a cache and loads the persisted entries into it.
func Init(ctx context.Context, store Store, opts ...Option) *Cache {
	c := New(store, opts...)
	c.Load(ctx)
	return c
}

// Load replaces the in-memory entries with the unexpired ones from the store.
// Read and decode failures are logged and leave the cache empty.
func (c *Cache) Load(ctx context.Context) {
	l := c.logger.With(slog.String("component", "imagecache"))
	items := make(map[string]gocache.Item)
	defer func() {
		c.items = gocache.NewFrom(c.retention, 0, items)
	}()

	if c.store == nil {
		return
	}

	data, err := c.store.Load(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to load image cache", slog.Any("error", err))
		c.recordPersistError(ctx, "load")
		return
	}
	if len(data) == 0 {
		return
	}

	var persisted map[string]types.CacheEntry
	if err = json.Unmarshal(data, &persisted); err != nil {
		l.ErrorContext(ctx, "Failed to decode image cache", slog.Any("error", err))
		c.recordPersistError(ctx, "decode")
		return
	}

	nowMs := time.Now().UnixMilli()
	dropped := 0
	for key, entry := range persisted {
		if entry.URL == "" || entry.Expiry <= nowMs {
			dropped++
			continue
		}
		items[key] = gocache.Item{
			Object:     entry.URL,
			Expiration: time.UnixMilli(entry.Expiry).UnixNano(),
		}
	}

	l.DebugContext(ctx, "Image cache loaded",
		slog.Int("entries", len(items)),
		slog.Int("expired_dropped", dropped))
}

// Get returns the cached URL for key if it is present and unexpired.
func (c *Cache) Get(key string) (string, bool) {
	v, ok := c.items.Get(key)
	if !ok {
		return "", false
	}
	url, ok := v.(string)
	return url, ok && url != ""
}

// Entry returns the full entry, expiry included.
func (c *Cache) Entry(key string) (types.CacheEntry, bool) {
	v, exp, ok := c.items.GetWithExpiration(key)
	if !ok {
		return types.CacheEntry{}, false
	}
	url, _ := v.(string)
	return types.CacheEntry{URL: url, Expiry: exp.UnixMilli()}, true
}

// Set stores url under key for the retention window and persists the whole cache.
func (c *Cache) Set(ctx context.Context, key, url string) {
	if key == "" || url == "" {
		return
	}
	c.items.Set(key, url, c.retention)
	c.persist(ctx)
}

// Len counts unexpired entries.
func (c *Cache) Len() int {
	return len(c.items.Items())
}

// Snapshot returns every unexpired entry.
func (c *Cache) Snapshot() map[string]types.CacheEntry {
	items := c.items.Items()
	out := make(map[string]types.CacheEntry, len(items))
	for key, item := range items {
		url, ok := item.Object.(string)
		if !ok {
			continue
		}
		out[key] = types.CacheEntry{
			URL:    url,
			Expiry: time.Unix(0, item.Expiration).UnixMilli(),
		}
	}
	return out
}

func (c *Cache) persist(ctx context.Context) {
	if c.store == nil {
		return
	}

	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	data, err := json.Marshal(c.Snapshot())
	if err != nil {
		c.logger.ErrorContext(ctx, "Failed to encode image cache", slog.Any("error", err))
		c.recordPersistError(ctx, "encode")
		return
	}
	if err = c.store.Save(ctx, data); err != nil {
		c.logger.ErrorContext(ctx, "Failed to save image cache", slog.Any("error", err))
		c.recordPersistError(ctx, "save")
	}
}

func (c *Cache) recordPersistError(ctx context.Context, op string) {
	if c.metrics == nil {
		return
	}
	c.metrics.CachePersistErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}
