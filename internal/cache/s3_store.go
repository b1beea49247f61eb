package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog/log"

	"github.com/bbernstein/stationmap/internal/models"
)

// S3ResponseStore keeps one JSON object per cached directory response.
type S3ResponseStore struct {
	client     S3Client
	bucketName string
	prefix     string
	ttl        time.Duration
	clock      clock
}

func NewS3ResponseStore(client S3Client, bucketName, prefix string, ttl time.Duration) *S3ResponseStore {
	return &S3ResponseStore{
		client:     client,
		bucketName: bucketName,
		prefix:     prefix,
		ttl:        ttl,
		clock:      systemClock{},
	}
}

func (s *S3ResponseStore) objectKey(key string) string {
	return s.prefix + url.PathEscape(key) + ".json"
}

func (s *S3ResponseStore) Get(ctx context.Context, key string) ([]models.Station, bool, error) {
	if s.bucketName == "" {
		return nil, false, fmt.Errorf("empty bucket name")
	}

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("getting lookup from S3: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing S3 object body")
		}
	}(result.Body)

	var record LookupRecord
	if err := json.NewDecoder(result.Body).Decode(&record); err != nil {
		return nil, false, fmt.Errorf("decoding lookup record: %w", err)
	}

	if s.clock.Now().Unix() >= record.TTL {
		log.Debug().Str("key", key).Msg("Lookup record expired")
		return nil, false, nil
	}

	return record.Stations, true, nil
}

func (s *S3ResponseStore) Put(ctx context.Context, key string, stations []models.Station) error {
	if s.bucketName == "" {
		return fmt.Errorf("empty bucket name")
	}

	record := newLookupRecord(key, stations, s.clock.Now().Unix(), int64(s.ttl.Seconds()))

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(record); err != nil {
		return fmt.Errorf("encoding lookup record: %w", err)
	}

	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(s.objectKey(key)),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return fmt.Errorf("saving lookup to S3: %w", err)
	}

	log.Debug().Str("key", key).Int("station_count", len(stations)).Msg("Saved lookup to S3")
	return nil
}
