package cache

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/bbernstein/stationmap/internal/config"
)

// NewResponseStore builds the persistent store selected by cfg.StoreBackend.
// It returns nil when persistence is disabled.
func NewResponseStore(ctx context.Context, cfg *config.CacheConfig) (ResponseStore, error) {
	switch cfg.StoreBackend {
	case config.StoreDynamo:
		client, err := NewDynamoClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("creating DynamoDB client: %w", err)
		}
		log.Info().Str("table", cfg.TableName).Msg("Using DynamoDB lookup store")
		return NewDynamoResponseStore(client, cfg.TableName, cfg.GetStoreTTL()), nil
	case config.StoreS3:
		if cfg.BucketName == "" {
			return nil, fmt.Errorf("CACHE_BUCKET_NAME is required for the s3 lookup store")
		}
		client, err := NewS3Client(ctx)
		if err != nil {
			return nil, fmt.Errorf("creating S3 client: %w", err)
		}
		log.Info().Str("bucket", cfg.BucketName).Msg("Using S3 lookup store")
		return NewS3ResponseStore(client, cfg.BucketName, cfg.KeyPrefix, cfg.GetStoreTTL()), nil
	default:
		return nil, nil
	}
}
