package imagecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-images/internal/types"
)

type failingStore struct {
	loadErr error
	saveErr error
	saves   int
}

func (s *failingStore) Load(context.Context) ([]byte, error) { return nil, s.loadErr }

func (s *failingStore) Save(context.Context, []byte) error {
	s.saves++
	return s.saveErr
}

func blob(t *testing.T, entries map[string]types.CacheEntry) []byte {
	t.Helper()
	data, err := json.Marshal(entries)
	require.NoError(t, err)
	return data
}

func TestSetPersistsFullStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)
	c := Init(ctx, store)

	before := time.Now()
	c.Set(ctx, "Paris-cityscape skyline travel-landscape", "https://images.example/paris.jpg")
	c.Set(ctx, "Rome-cityscape skyline travel-landscape", "https://images.example/rome.jpg")

	assert.Equal(t, 2, store.Saves())

	raw, err := store.Load(ctx)
	require.NoError(t, err)
	var persisted map[string]types.CacheEntry
	require.NoError(t, json.Unmarshal(raw, &persisted))
	require.Len(t, persisted, 2)

	entry := persisted["Paris-cityscape skyline travel-landscape"]
	assert.Equal(t, "https://images.example/paris.jpg", entry.URL)
	wantExpiry := before.Add(DefaultRetention).UnixMilli()
	assert.InDelta(t, wantExpiry, entry.Expiry, float64(time.Minute.Milliseconds()))
}

func TestGetReturnsFreshEntryImmediately(t *testing.T) {
	ctx := context.Background()
	c := Init(ctx, NewMemoryStore(nil))

	_, ok := c.Get("Lisbon--")
	assert.False(t, ok)

	c.Set(ctx, "Lisbon--", "https://images.example/lisbon.jpg")
	url, ok := c.Get("Lisbon--")
	assert.True(t, ok)
	assert.Equal(t, "https://images.example/lisbon.jpg", url)

	entry, ok := c.Entry("Lisbon--")
	require.True(t, ok)
	assert.Greater(t, entry.Expiry, time.Now().UnixMilli())
}

func TestInitDropsExpiredEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	store := NewMemoryStore(blob(t, map[string]types.CacheEntry{
		"fresh":   {URL: "https://images.example/fresh.jpg", Expiry: now.Add(time.Hour).UnixMilli()},
		"stale":   {URL: "https://images.example/stale.jpg", Expiry: now.Add(-time.Hour).UnixMilli()},
		"boundry": {URL: "https://images.example/boundary.jpg", Expiry: now.Add(-time.Millisecond).UnixMilli()},
		"empty":   {URL: "", Expiry: now.Add(time.Hour).UnixMilli()},
	}))

	c := Init(ctx, store)

	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("stale")
	assert.False(t, ok)
	_, ok = c.Get("boundry")
	assert.False(t, ok)
	_, ok = c.Get("empty")
	assert.False(t, ok)
	url, ok := c.Get("fresh")
	assert.True(t, ok)
	assert.Equal(t, "https://images.example/fresh.jpg", url)
}

func TestLoadIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(blob(t, map[string]types.CacheEntry{
		"a": {URL: "https://images.example/a.jpg", Expiry: time.Now().Add(time.Hour).UnixMilli()},
	}))

	c := Init(ctx, store)
	first := c.Snapshot()
	c.Load(ctx)
	c.Load(ctx)

	assert.Equal(t, first, c.Snapshot())
	assert.Equal(t, 0, store.Saves())
}

func TestLoadDegradesToEmpty(t *testing.T) {
	ctx := context.Background()

	t.Run("corrupt blob", func(t *testing.T) {
		c := Init(ctx, NewMemoryStore([]byte("{not json")))
		assert.Equal(t, 0, c.Len())
	})

	t.Run("store read failure", func(t *testing.T) {
		c := Init(ctx, &failingStore{loadErr: errors.New("storage unavailable")})
		assert.Equal(t, 0, c.Len())
	})

	t.Run("nil store", func(t *testing.T) {
		c := Init(ctx, nil)
		c.Set(ctx, "k", "https://images.example/k.jpg")
		url, ok := c.Get("k")
		assert.True(t, ok)
		assert.Equal(t, "https://images.example/k.jpg", url)
	})
}

func TestSetSwallowsSaveFailure(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{saveErr: errors.New("quota exceeded")}
	c := Init(ctx, store)

	assert.NotPanics(t, func() {
		c.Set(ctx, "k", "https://images.example/k.jpg")
	})
	assert.Equal(t, 1, store.saves)

	url, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "https://images.example/k.jpg", url)
}

func TestSetIgnoresEmptyValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)
	c := Init(ctx, store)

	c.Set(ctx, "", "https://images.example/x.jpg")
	c.Set(ctx, "k", "")

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, store.Saves())
}

func TestRetentionOption(t *testing.T) {
	ctx := context.Background()
	c := Init(ctx, NewMemoryStore(nil), WithRetention(time.Hour))

	c.Set(ctx, "k", "https://images.example/k.jpg")
	entry, ok := c.Entry("k")
	require.True(t, ok)
	assert.InDelta(t, time.Now().Add(time.Hour).UnixMilli(), entry.Expiry, float64(time.Minute.Milliseconds()))
}

func TestConcurrentSetsLastWriterHasEveryKey(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)
	c := Init(ctx, store)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Set(ctx, fmt.Sprintf("key-%d", i), fmt.Sprintf("https://images.example/%d.jpg", i))
		}()
	}
	wg.Wait()

	reloaded := Init(ctx, store)
	assert.Equal(t, 20, reloaded.Len())
	assert.Equal(t, 20, store.Saves())
}
