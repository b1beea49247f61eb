package config

import (
	"time"

	"github.com/rs/zerolog/log"
)

const (
	StoreNone   = "none"
	StoreDynamo = "dynamo"
	StoreS3     = "s3"
)

// CacheConfig holds all cache-related configuration
type CacheConfig struct {
	// LRU Cache settings
	LookupLRUSize       int
	LookupLRUTTLMinutes int

	// Persistent store settings
	StoreBackend  string
	StoreTTLHours int
	TableName     string
	BucketName    string
	KeyPrefix     string

	EnableLRUCache bool
}

const (
	// Default values
	defaultLookupLRUSize       = 2000
	defaultLookupLRUTTLMinutes = 30
	defaultStoreTTLHours       = 24
	defaultTableName           = "station-lookup-cache"
	defaultKeyPrefix           = "lookups/"
)

// GetCacheConfig returns the cache configuration from environment variables or defaults
func GetCacheConfig() *CacheConfig {
	config := &CacheConfig{
		LookupLRUSize:       getEnvInt("CACHE_LOOKUP_LRU_SIZE", defaultLookupLRUSize),
		LookupLRUTTLMinutes: getEnvInt("CACHE_LOOKUP_LRU_TTL_MINUTES", defaultLookupLRUTTLMinutes),
		StoreBackend:        storeBackend(getEnvOrDefault("CACHE_STORE_BACKEND", StoreNone)),
		StoreTTLHours:       getEnvInt("CACHE_STORE_TTL_HOURS", defaultStoreTTLHours),
		TableName:           getEnvOrDefault("CACHE_TABLE_NAME", defaultTableName),
		BucketName:          getEnvOrDefault("CACHE_BUCKET_NAME", ""),
		KeyPrefix:           getEnvOrDefault("CACHE_KEY_PREFIX", defaultKeyPrefix),
		EnableLRUCache:      getEnvBool("CACHE_ENABLE_LRU", true),
	}

	log.Debug().
		Int("LookupLRUSize", config.LookupLRUSize).
		Int("LookupLRUTTLMinutes", config.LookupLRUTTLMinutes).
		Str("StoreBackend", config.StoreBackend).
		Int("StoreTTLHours", config.StoreTTLHours).
		Str("TableName", config.TableName).
		Str("BucketName", config.BucketName).
		Bool("EnableLRUCache", config.EnableLRUCache).
		Msg("Cache configuration loaded")

	return config
}

func (c *CacheConfig) GetLookupLRUTTL() time.Duration {
	return time.Duration(c.LookupLRUTTLMinutes) * time.Minute
}

func (c *CacheConfig) GetStoreTTL() time.Duration {
	return time.Duration(c.StoreTTLHours) * time.Hour
}

func storeBackend(value string) string {
	switch value {
	case StoreNone, StoreDynamo, StoreS3:
		return value
	default:
		log.Warn().Str("backend", value).Msg("Unknown cache store backend, disabling persistent cache")
		return StoreNone
	}
}
