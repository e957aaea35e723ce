package santa

import (
	"container/list"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultCacheTTL is the freshness window for a cached installed set.
	DefaultCacheTTL = 300 * time.Second
	// DefaultCacheCapacity is the maximum number of source entries held.
	DefaultCacheCapacity = 1000

	cachePressureWarnRatio = 0.8
)

// CacheBacking is the optional warm-start persistence interface a Cache
// may be constructed with (NewSQLiteCacheBacking provides one over a
// pkg/cachestore sqlite Store). A
// nil backing means the cache is purely in-memory.
type CacheBacking interface {
	Load() (map[string]cacheRecord, error)
	Save(source string, rec cacheRecord) error
	Delete(source string) error
}

type cacheRecord struct {
	Packages  []string
	Installed time.Time
}

type cacheEntry struct {
	source string
	record cacheRecord
}

// Cache is the bounded, TTL-evicting mapping from source name to a
// freshness-stamped installed-package list. The authoritative structure is
// an in-memory container/list LRU with a TTL check on read; persistence to
// a CacheBacking, when present, is a warm-start optimization only — TTL
// still governs validity regardless of backing.
type Cache struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	ll       *list.List
	index    map[string]*list.Element
	backing  CacheBacking
	logger   zerolog.Logger
}

// NewCache constructs a Cache with the given TTL and capacity. A zero TTL
// or capacity falls back to the package defaults.
func NewCache(ttl time.Duration, capacity int, backing CacheBacking, logger zerolog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	c := &Cache{
		ttl:      ttl,
		capacity: capacity,
		ll:       list.New(),
		index:    make(map[string]*list.Element),
		backing:  backing,
		logger:   logger.With().Str("component", "installed-cache").Logger(),
	}
	c.warmStart()
	return c
}

func (c *Cache) warmStart() {
	if c.backing == nil {
		return
	}
	records, err := c.backing.Load()
	if err != nil {
		c.logger.Warn().Err(err).Msg("warm-start load failed, starting with an empty cache")
		return
	}
	for source, rec := range records {
		c.insertLocked(source, rec)
	}
	c.logger.Info().Int("count", len(records)).Msg("cache warm-started from backing store")
}

// Get returns the cached installed set for source if present and not
// expired under the cache's TTL.
func (c *Cache) Get(source string) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.index[source]
	if !ok {
		return nil, false
	}
	entry := el.Value.(*cacheEntry)
	if time.Since(entry.record.Installed) > c.ttl {
		return nil, false
	}
	c.ll.MoveToFront(el)
	return append([]string(nil), entry.record.Packages...), true
}

// Put stores (or refreshes) the installed set for source, evicting the
// least-recently-used entry if the cache is at capacity.
func (c *Cache) Put(source string, packages []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec := cacheRecord{Packages: append([]string(nil), packages...), Installed: time.Now()}
	c.insertLocked(source, rec)

	if c.backing != nil {
		if err := c.backing.Save(source, rec); err != nil {
			c.logger.Warn().Err(err).Str("source", source).Msg("failed to persist cache entry to backing store")
		}
	}
}

func (c *Cache) insertLocked(source string, rec cacheRecord) {
	if el, ok := c.index[source]; ok {
		el.Value.(*cacheEntry).record = rec
		c.ll.MoveToFront(el)
		return
	}

	if c.ll.Len() >= c.capacity {
		c.evictOldestLocked()
	}

	el := c.ll.PushFront(&cacheEntry{source: source, record: rec})
	c.index[source] = el

	if ratio := float64(c.ll.Len()) / float64(c.capacity); ratio >= cachePressureWarnRatio {
		c.logger.Warn().
			Int("entries", c.ll.Len()).
			Int("capacity", c.capacity).
			Float64("ratio", ratio).
			Msg("installed-set cache nearing capacity")
	}
}

func (c *Cache) evictOldestLocked() {
	oldest := c.ll.Back()
	if oldest == nil {
		return
	}
	entry := oldest.Value.(*cacheEntry)
	c.ll.Remove(oldest)
	delete(c.index, entry.source)
	c.logger.Info().Str("source", entry.source).Msg("evicted installed-set cache entry")

	if c.backing != nil {
		if err := c.backing.Delete(entry.source); err != nil {
			c.logger.Warn().Err(err).Str("source", entry.source).Msg("failed to delete evicted entry from backing store")
		}
	}
}

// Invalidate removes a single source's cached entry.
func (c *Cache) Invalidate(source string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.index[source]
	if !ok {
		return
	}
	c.ll.Remove(el)
	delete(c.index, source)
	if c.backing != nil {
		if err := c.backing.Delete(source); err != nil {
			c.logger.Warn().Err(err).Str("source", source).Msg("failed to delete invalidated entry from backing store")
		}
	}
}

// Clear drops every cached entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.index = make(map[string]*list.Element)
}

// Len reports the number of entries currently cached, for diagnostics.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
