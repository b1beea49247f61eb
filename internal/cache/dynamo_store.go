package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"

	"github.com/bbernstein/stationmap/internal/models"
)

// DynamoResponseStore persists directory responses in a DynamoDB table keyed
// by cacheKey. Records carry a ttl attribute usable by DynamoDB TTL expiry.
type DynamoResponseStore struct {
	client    DynamoDBClient
	tableName string
	ttl       time.Duration
	clock     clock
}

func NewDynamoResponseStore(client DynamoDBClient, tableName string, ttl time.Duration) *DynamoResponseStore {
	return &DynamoResponseStore{
		client:    client,
		tableName: tableName,
		ttl:       ttl,
		clock:     systemClock{},
	}
}

func (s *DynamoResponseStore) Get(ctx context.Context, key string) ([]models.Station, bool, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"cacheKey": &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return nil, false, fmt.Errorf("getting lookup from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, false, nil
	}

	var record LookupRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return nil, false, fmt.Errorf("unmarshaling lookup record: %w", err)
	}

	// DynamoDB deletes expired items lazily, so check the TTL ourselves
	if s.clock.Now().Unix() >= record.TTL {
		log.Debug().Str("key", key).Msg("Lookup record expired")
		return nil, false, nil
	}

	return record.Stations, true, nil
}

func (s *DynamoResponseStore) Put(ctx context.Context, key string, stations []models.Station) error {
	record := newLookupRecord(key, stations, s.clock.Now().Unix(), int64(s.ttl.Seconds()))

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("marshaling lookup record: %w", err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("putting lookup in DynamoDB: %w", err)
	}

	log.Debug().Str("key", key).Int("station_count", len(stations)).Msg("Saved lookup to DynamoDB")
	return nil
}
