package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDynamo struct {
	items       map[string]map[string]types.AttributeValue
	tableExists bool
	created     *dynamodb.CreateTableInput
	describeErr error
	getErr      error
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]types.AttributeValue), tableExists: true}
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	key := in.Key["cache_key"].(*types.AttributeValueMemberS).Value
	return &dynamodb.GetItemOutput{Item: f.items[key]}, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	key := in.Item["cache_key"].(*types.AttributeValueMemberS).Value
	f.items[key] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) DescribeTable(_ context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	if f.describeErr != nil {
		return nil, f.describeErr
	}
	if !f.tableExists {
		return nil, &types.ResourceNotFoundException{Message: aws.String("not found")}
	}
	return &dynamodb.DescribeTableOutput{
		Table: &types.TableDescription{TableName: in.TableName, TableStatus: types.TableStatusActive},
	}, nil
}

func (f *fakeDynamo) CreateTable(_ context.Context, in *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	f.created = in
	f.tableExists = true
	return &dynamodb.CreateTableOutput{}, nil
}

func TestDynamoStore(t *testing.T) {
	fake := newFakeDynamo()
	s := NewDynamoStore(fake, "", zerolog.Nop())

	exerciseStore(t, s)

	for _, item := range fake.items {
		ts, ok := item["timestamp"].(*types.AttributeValueMemberN)
		require.True(t, ok, "timestamp must be stored as a number")
		assert.Equal(t, "1700000100", ts.Value)
	}
}

func TestDynamoStore_GetError(t *testing.T) {
	fake := newFakeDynamo()
	fake.getErr = errors.New("throttled")
	s := NewDynamoStore(fake, "Custom", zerolog.Nop())

	_, _, err := s.Get(context.Background(), "k")
	assert.ErrorContains(t, err, "throttled")
}

func TestDynamoStore_EnsureTable(t *testing.T) {
	t.Run("existing table", func(t *testing.T) {
		fake := newFakeDynamo()
		s := NewDynamoStore(fake, "PricingCache", zerolog.Nop())

		require.NoError(t, s.EnsureTable(context.Background(), time.Second))
		assert.Nil(t, fake.created)
	})

	t.Run("creates missing table", func(t *testing.T) {
		fake := newFakeDynamo()
		fake.tableExists = false
		s := NewDynamoStore(fake, "PricingCache", zerolog.Nop())

		require.NoError(t, s.EnsureTable(context.Background(), 5*time.Second))
		require.NotNil(t, fake.created)
		assert.Equal(t, "PricingCache", aws.ToString(fake.created.TableName))
		assert.Equal(t, types.BillingModePayPerRequest, fake.created.BillingMode)
		assert.Equal(t, "cache_key", aws.ToString(fake.created.KeySchema[0].AttributeName))
	})

	t.Run("other describe errors are returned", func(t *testing.T) {
		fake := newFakeDynamo()
		fake.describeErr = errors.New("access denied")
		s := NewDynamoStore(fake, "PricingCache", zerolog.Nop())

		err := s.EnsureTable(context.Background(), time.Second)
		assert.ErrorContains(t, err, "access denied")
	})
}
