package cache

import (
	"context"

	"github.com/bbernstein/stationmap/internal/models"
)

// ResponseStore is a persistent layer behind the in-memory lookup cache.
// A miss is reported as found == false with a nil error.
type ResponseStore interface {
	Get(ctx context.Context, key string) (stations []models.Station, found bool, err error)
	Put(ctx context.Context, key string, stations []models.Station) error
}

// LookupRecord is a cached directory response as persisted by a ResponseStore.
type LookupRecord struct {
	CacheKey    string           `json:"cacheKey" dynamodbav:"cacheKey"`
	Stations    []models.Station `json:"stations" dynamodbav:"stations"`
	LastUpdated int64            `json:"lastUpdated" dynamodbav:"lastUpdated"`
	TTL         int64            `json:"ttl" dynamodbav:"ttl"`
}

func newLookupRecord(key string, stations []models.Station, now int64, ttlSeconds int64) LookupRecord {
	if stations == nil {
		stations = []models.Station{}
	}
	return LookupRecord{
		CacheKey:    key,
		Stations:    stations,
		LastUpdated: now,
		TTL:         now + ttlSeconds,
	}
}
