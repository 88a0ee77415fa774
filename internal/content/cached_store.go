package content

import (
	"context"
	"strconv"
	"time"

	"github.com/zjrosen/creatureai/internal/cachemanager"
	"github.com/zjrosen/creatureai/internal/domain/creature"
)

// CachedStore puts a read-through template cache in front of a Store.
// Templates and Spawns are passed through.
type CachedStore struct {
	Store
	ttl       time.Duration
	templates *cachemanager.ReadThroughCache[string, creature.Template, uint32]
}

var _ Store = (*CachedStore)(nil)

// NewCachedStore caches Template lookups on store for ttl. A zero ttl uses
// the cache default.
func NewCachedStore(store Store, ttl time.Duration) *CachedStore {
	if ttl == 0 {
		ttl = cachemanager.DefaultExpiration
	}
	mem := cachemanager.NewInMemoryCacheManager[string, creature.Template]("template", ttl, cachemanager.DefaultCleanupInterval)
	return NewCachedStoreWith(store, ttl, mem)
}

// NewCachedStoreWith uses cache as the backing cache manager.
func NewCachedStoreWith(store Store, ttl time.Duration, cache cachemanager.CacheManager[string, creature.Template]) *CachedStore {
	return &CachedStore{
		Store:     store,
		ttl:       ttl,
		templates: cachemanager.NewReadThroughCache[string, creature.Template, uint32](cache, store.Template, false),
	}
}

// Template returns the cached template for entry, loading it on a miss.
// Misses for unknown entries are not cached.
func (s *CachedStore) Template(ctx context.Context, entry uint32) (creature.Template, error) {
	return s.templates.Get(ctx, templateKey(entry), entry, s.ttl)
}

// Invalidate drops cached templates for entries.
func (s *CachedStore) Invalidate(ctx context.Context, entries ...uint32) error {
	keys := make([]string, len(entries))
	for i, entry := range entries {
		keys[i] = templateKey(entry)
	}
	return s.templates.Invalidate(ctx, keys...)
}

func templateKey(entry uint32) string {
	return "template:" + strconv.FormatUint(uint64(entry), 10)
}
