package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"
	"github.com/younsl/archcost/internal/models"
)

// DefaultTableName is the pricing cache table used when none is configured
const DefaultTableName = "PricingCache"

// DynamoDBAPI is the subset of the DynamoDB client used by DynamoStore
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// DynamoStore keeps pricing cache entries in a DynamoDB table keyed by cache_key
type DynamoStore struct {
	client DynamoDBAPI
	table  string
	logger zerolog.Logger
}

type dynamoItem struct {
	CacheKey    string  `dynamodbav:"cache_key"`
	PricingData string  `dynamodbav:"pricing_data"`
	Timestamp   float64 `dynamodbav:"timestamp"`
}

// NewDynamoStore creates a DynamoStore; an empty table uses DefaultTableName
func NewDynamoStore(client DynamoDBAPI, table string, logger zerolog.Logger) *DynamoStore {
	if table == "" {
		table = DefaultTableName
	}
	return &DynamoStore{client: client, table: table, logger: logger}
}

// EnsureTable creates the cache table with on-demand capacity if it is missing
// and waits until it is active
func (s *DynamoStore) EnsureTable(ctx context.Context, maxWait time.Duration) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(s.table)})
	if err == nil {
		s.logger.Debug().Str("table", s.table).Msg("Pricing cache table already exists")
		return nil
	}

	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return fmt.Errorf("error checking pricing cache table %s: %w", s.table, err)
	}

	s.logger.Info().Str("table", s.table).Msg("Creating pricing cache table")
	_, err = s.client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(s.table),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("cache_key"), KeyType: types.KeyTypeHash},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("cache_key"), AttributeType: types.ScalarAttributeTypeS},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		return fmt.Errorf("error creating pricing cache table %s: %w", s.table, err)
	}

	waiter := dynamodb.NewTableExistsWaiter(s.client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(s.table)}, maxWait); err != nil {
		return fmt.Errorf("error waiting for pricing cache table %s: %w", s.table, err)
	}
	return nil
}

// Get implements Store
func (s *DynamoStore) Get(ctx context.Context, key string) (*models.PricingCacheEntry, bool, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"cache_key": &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return nil, false, fmt.Errorf("error reading pricing cache: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, false, nil
	}

	var item dynamoItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, false, fmt.Errorf("error decoding pricing cache item: %w", err)
	}

	return &models.PricingCacheEntry{
		Key:       item.CacheKey,
		Data:      []byte(item.PricingData),
		Timestamp: item.Timestamp,
	}, true, nil
}

// Put implements Store
func (s *DynamoStore) Put(ctx context.Context, entry models.PricingCacheEntry) error {
	item, err := attributevalue.MarshalMap(dynamoItem{
		CacheKey:    entry.Key,
		PricingData: string(entry.Data),
		Timestamp:   entry.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("error encoding pricing cache item: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("error writing pricing cache: %w", err)
	}
	return nil
}
