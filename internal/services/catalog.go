package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"
)

// SnapshotStore is a cache shared between API processes.
type SnapshotStore interface {
	// Get returns nil, nil on a miss.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CatalogLoader reads the active entries of a catalog from the database.
type CatalogLoader[T any] func(ctx context.Context) ([]T, error)

// CatalogCache holds a point-in-time snapshot of a reference catalog for ttl.
// When a reload fails the previous snapshot keeps being served.
type CatalogCache[T any] struct {
	name   string
	ttl    time.Duration
	load   CatalogLoader[T]
	shared SnapshotStore
	now    func() time.Time

	mu        sync.Mutex
	data      []T
	fetchedAt time.Time
	loaded    bool
}

// NewCatalogCache creates a catalog cache. shared may be nil.
func NewCatalogCache[T any](name string, ttl time.Duration, load CatalogLoader[T], shared SnapshotStore) *CatalogCache[T] {
	return &CatalogCache[T]{
		name:   name,
		ttl:    ttl,
		load:   load,
		shared: shared,
		now:    time.Now,
	}
}

func (c *CatalogCache[T]) key() string {
	return "catalog:" + c.name
}

func (c *CatalogCache[T]) fresh() bool {
	return c.loaded && !c.fetchedAt.IsZero() && c.now().Sub(c.fetchedAt) < c.ttl
}

// Get returns the cached catalog, reloading it once the ttl has passed.
func (c *CatalogCache[T]) Get(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fresh() {
		return c.data, nil
	}

	if c.shared != nil {
		if data, ok := c.readShared(ctx); ok {
			c.store(data)
			return c.data, nil
		}
	}

	data, err := c.load(ctx)
	if err != nil {
		if c.loaded {
			log.Printf("Warning: reloading %s catalog failed, serving snapshot from %s: %v",
				c.name, c.fetchedAt.Format(time.RFC3339), err)
			return c.data, nil
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrCatalogUnavailable, c.name, err)
	}
	c.store(data)

	if c.shared != nil {
		if payload, err := json.Marshal(data); err != nil {
			log.Printf("Warning: failed to encode %s catalog snapshot: %v", c.name, err)
		} else if err := c.shared.Set(ctx, c.key(), payload, c.ttl); err != nil {
			log.Printf("Warning: failed to share %s catalog snapshot: %v", c.name, err)
		}
	}
	return c.data, nil
}

func (c *CatalogCache[T]) readShared(ctx context.Context) ([]T, bool) {
	payload, err := c.shared.Get(ctx, c.key())
	if err != nil {
		log.Printf("Warning: shared %s catalog lookup failed: %v", c.name, err)
		return nil, false
	}
	if payload == nil {
		return nil, false
	}
	var data []T
	if err := json.Unmarshal(payload, &data); err != nil {
		log.Printf("Warning: discarding corrupt %s catalog snapshot: %v", c.name, err)
		return nil, false
	}
	return data, true
}

func (c *CatalogCache[T]) store(data []T) {
	if data == nil {
		data = []T{}
	}
	c.data = data
	c.fetchedAt = c.now()
	c.loaded = true
}

// Invalidate forces the next Get to reload. Call it after every catalog write.
func (c *CatalogCache[T]) Invalidate(ctx context.Context) {
	c.mu.Lock()
	c.fetchedAt = time.Time{}
	c.mu.Unlock()

	if c.shared != nil {
		if err := c.shared.Delete(ctx, c.key()); err != nil {
			log.Printf("Warning: failed to drop shared %s catalog snapshot: %v", c.name, err)
		}
	}
}

// FetchedAt returns when the current snapshot was loaded.
func (c *CatalogCache[T]) FetchedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetchedAt
}
