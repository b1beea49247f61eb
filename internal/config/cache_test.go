package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetCacheConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(*testing.T, *CacheConfig)
	}{
		{
			name:    "default values",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *CacheConfig) {
				assert.Equal(t, defaultLookupLRUSize, cfg.LookupLRUSize)
				assert.Equal(t, defaultLookupLRUTTLMinutes, cfg.LookupLRUTTLMinutes)
				assert.Equal(t, StoreNone, cfg.StoreBackend)
				assert.Equal(t, defaultStoreTTLHours, cfg.StoreTTLHours)
				assert.Equal(t, defaultTableName, cfg.TableName)
				assert.Equal(t, defaultKeyPrefix, cfg.KeyPrefix)
				assert.True(t, cfg.EnableLRUCache)
			},
		},
		{
			name: "custom values",
			envVars: map[string]string{
				"CACHE_LOOKUP_LRU_SIZE":        "50",
				"CACHE_LOOKUP_LRU_TTL_MINUTES": "5",
				"CACHE_STORE_BACKEND":          "s3",
				"CACHE_STORE_TTL_HOURS":        "6",
				"CACHE_BUCKET_NAME":            "stationmap-cache",
				"CACHE_ENABLE_LRU":             "false",
			},
			validate: func(t *testing.T, cfg *CacheConfig) {
				assert.Equal(t, 50, cfg.LookupLRUSize)
				assert.Equal(t, 5*time.Minute, cfg.GetLookupLRUTTL())
				assert.Equal(t, StoreS3, cfg.StoreBackend)
				assert.Equal(t, 6*time.Hour, cfg.GetStoreTTL())
				assert.Equal(t, "stationmap-cache", cfg.BucketName)
				assert.False(t, cfg.EnableLRUCache)
			},
		},
		{
			name: "invalid values fall back",
			envVars: map[string]string{
				"CACHE_LOOKUP_LRU_SIZE": "many",
				"CACHE_STORE_BACKEND":   "redis",
			},
			validate: func(t *testing.T, cfg *CacheConfig) {
				assert.Equal(t, defaultLookupLRUSize, cfg.LookupLRUSize)
				assert.Equal(t, StoreNone, cfg.StoreBackend)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{
				"CACHE_LOOKUP_LRU_SIZE", "CACHE_LOOKUP_LRU_TTL_MINUTES", "CACHE_STORE_BACKEND",
				"CACHE_STORE_TTL_HOURS", "CACHE_TABLE_NAME", "CACHE_BUCKET_NAME",
				"CACHE_KEY_PREFIX", "CACHE_ENABLE_LRU",
			} {
				t.Setenv(key, "")
			}
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			tt.validate(t, GetCacheConfig())
		})
	}
}
