package cache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"

	"github.com/bbernstein/stationmap/internal/config"
	"github.com/bbernstein/stationmap/internal/models"
)

// lookupEntry wraps a cached directory response with its expiry
type lookupEntry struct {
	Stations  []models.Station
	ExpiresAt time.Time
}

// CachedDirectory answers repeated lookups from an LRU cache and, when
// configured, a persistent ResponseStore before asking the wrapped directory.
// Failed lookups are never cached.
type CachedDirectory struct {
	next  models.StationDirectory
	lru   *lru.Cache[string, *lookupEntry]
	store ResponseStore
	ttl   time.Duration
	clock clock

	lruHits     atomic.Uint64
	lruMisses   atomic.Uint64
	storeHits   atomic.Uint64
	storeMisses atomic.Uint64
}

// NewCachedDirectory wraps next. store may be nil.
func NewCachedDirectory(next models.StationDirectory, cfg *config.CacheConfig, store ResponseStore) (*CachedDirectory, error) {
	if cfg == nil {
		cfg = config.GetCacheConfig()
	}

	c := &CachedDirectory{
		next:  next,
		store: store,
		ttl:   cfg.GetLookupLRUTTL(),
		clock: systemClock{},
	}

	if cfg.EnableLRUCache {
		lruCache, err := lru.New[string, *lookupEntry](cfg.LookupLRUSize)
		if err != nil {
			return nil, fmt.Errorf("creating LRU cache: %w", err)
		}
		c.lru = lruCache
	}

	return c, nil
}

func nameKey(text string) string {
	return "name:" + text
}

func locationKey(x, y float64) string {
	return fmt.Sprintf("loc:%.6f,%.6f", x, y)
}

func (c *CachedDirectory) SearchByName(ctx context.Context, text string) ([]models.Station, error) {
	return c.lookup(ctx, nameKey(text), func() ([]models.Station, error) {
		return c.next.SearchByName(ctx, text)
	})
}

func (c *CachedDirectory) SearchByLocation(ctx context.Context, x, y float64) ([]models.Station, error) {
	return c.lookup(ctx, locationKey(x, y), func() ([]models.Station, error) {
		return c.next.SearchByLocation(ctx, x, y)
	})
}

func (c *CachedDirectory) lookup(ctx context.Context, key string, fetch func() ([]models.Station, error)) ([]models.Station, error) {
	if c.lru != nil {
		if entry, ok := c.lru.Get(key); ok {
			if c.clock.Now().Before(entry.ExpiresAt) {
				c.lruHits.Add(1)
				log.Debug().Str("key", key).Msg("Cache HIT for station lookup")
				return cloneStations(entry.Stations), nil
			}
			// Entry expired, remove it
			c.lru.Remove(key)
		}
		c.lruMisses.Add(1)
	}

	if c.store != nil {
		stations, found, err := c.store.Get(ctx, key)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Reading lookup store failed, treating as miss")
		} else if found {
			c.storeHits.Add(1)
			c.remember(key, stations)
			return cloneStations(stations), nil
		}
		c.storeMisses.Add(1)
	}

	log.Debug().Str("key", key).Msg("Cache MISS for station lookup, calling directory")
	stations, err := fetch()
	if err != nil {
		return nil, err
	}

	c.remember(key, stations)
	if c.store != nil {
		if err := c.store.Put(ctx, key, stations); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Writing lookup store failed")
		}
	}

	return cloneStations(stations), nil
}

func (c *CachedDirectory) remember(key string, stations []models.Station) {
	if c.lru == nil {
		return
	}
	c.lru.Add(key, &lookupEntry{
		Stations:  cloneStations(stations),
		ExpiresAt: c.clock.Now().Add(c.ttl),
	})
}

// Stats returns statistics about cache hits and misses
func (c *CachedDirectory) Stats() map[string]uint64 {
	return map[string]uint64{
		"lru_hits":     c.lruHits.Load(),
		"lru_misses":   c.lruMisses.Load(),
		"store_hits":   c.storeHits.Load(),
		"store_misses": c.storeMisses.Load(),
	}
}

// Clear removes all entries from the LRU cache
func (c *CachedDirectory) Clear() {
	if c.lru != nil {
		c.lru.Purge()
	}
}

func cloneStations(stations []models.Station) []models.Station {
	out := make([]models.Station, len(stations))
	copy(out, stations)
	return out
}
