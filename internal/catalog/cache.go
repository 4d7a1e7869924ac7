package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/oumizumi/kairo-api/internal/models"
)

// Store is the external cache surface the catalog cache writes through to.
// It is satisfied by repository.CacheRepository; a nil Store keeps the cache
// purely in-process.
type Store interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type cacheEntry struct {
	catalog   Catalog
	expiresAt time.Time
}

// Cache memoizes per-term catalogs. Loads go through a local map first, then
// the shared store, then the loader; both layers are filled on the way back.
// Invalidation is manual, for when the scraper drops fresh files.
type Cache struct {
	loader  *Loader
	store   Store
	ttl     time.Duration
	logger  *zap.Logger
	observe func(source string)

	mu    sync.RWMutex
	local map[models.Term]cacheEntry
}

func NewCache(loader *Loader, store Store, ttl time.Duration, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{
		loader: loader,
		store:  store,
		ttl:    ttl,
		logger: logger,
		local:  make(map[models.Term]cacheEntry),
	}
}

// OnLoad registers a hook called with the layer that served each Get:
// "local", "store" or "loader". Used for instrumentation.
func (c *Cache) OnLoad(fn func(source string)) {
	c.observe = fn
}

func (c *Cache) served(source string) {
	if c.observe != nil {
		c.observe(source)
	}
}

func cacheKey(term models.Term) string {
	return fmt.Sprintf("catalog:term:%s", term)
}

// Get returns the catalog for a term, loading and caching it if needed.
// Like the loader itself it never fails: the worst case is an empty catalog.
func (c *Cache) Get(ctx context.Context, term models.Term) Catalog {
	c.mu.RLock()
	entry, ok := c.local[term]
	c.mu.RUnlock()
	if ok && time.Now().Before(entry.expiresAt) {
		c.served("local")
		return entry.catalog
	}

	if c.store != nil {
		var catalog Catalog
		if err := c.store.Get(ctx, cacheKey(term), &catalog); err == nil && len(catalog) > 0 {
			c.putLocal(term, catalog)
			c.served("store")
			return catalog
		}
	}

	catalog := c.loader.Load(ctx, term)
	c.served("loader")
	// An empty load is never memoized: the scraper may still be writing, and
	// a cached miss would pin "no data" for the whole TTL.
	if len(catalog) == 0 {
		return catalog
	}
	c.putLocal(term, catalog)
	if c.store != nil {
		if err := c.store.Set(ctx, cacheKey(term), catalog, c.ttl); err != nil {
			c.logger.Warn("failed to write catalog to shared cache",
				zap.String("term", string(term)), zap.Error(err))
		}
	}
	return catalog
}

func (c *Cache) putLocal(term models.Term, catalog Catalog) {
	c.mu.Lock()
	c.local[term] = cacheEntry{catalog: catalog, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// Invalidate drops one term from both layers.
func (c *Cache) Invalidate(ctx context.Context, term models.Term) {
	c.mu.Lock()
	delete(c.local, term)
	c.mu.Unlock()
	if c.store != nil {
		if err := c.store.Delete(ctx, cacheKey(term)); err != nil {
			c.logger.Warn("failed to invalidate shared catalog cache",
				zap.String("term", string(term)), zap.Error(err))
		}
	}
}

// InvalidateAll drops every cached term.
func (c *Cache) InvalidateAll(ctx context.Context) {
	c.mu.Lock()
	terms := make([]models.Term, 0, len(c.local))
	for term := range c.local {
		terms = append(terms, term)
	}
	c.local = make(map[models.Term]cacheEntry)
	c.mu.Unlock()
	if c.store == nil {
		return
	}
	keys := make([]string, 0, len(terms))
	for _, term := range terms {
		keys = append(keys, cacheKey(term))
	}
	for _, term := range models.AllTerms() {
		keys = append(keys, cacheKey(term))
	}
	if len(keys) > 0 {
		if err := c.store.Delete(ctx, keys...); err != nil {
			c.logger.Warn("failed to invalidate shared catalog cache", zap.Error(err))
		}
	}
}
