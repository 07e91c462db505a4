package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/cellar/kv"
)

// Client is the interface for the DynamoDB operations the backend uses.
type Client interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// Backend implements kv.Backend on a DynamoDB table. Each cell is one item:
// the hex cell key as partition key, the encoded value as a binary
// attribute.
//
// Table schema:
//   - Partition key: cell_key (string) - the hex form of the 256-bit key
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name cellar-cells \
//	  --attribute-definitions AttributeName=cell_key,AttributeType=S \
//	  --key-schema AttributeName=cell_key,KeyType=HASH \
//	  --billing-mode PAY_PER_REQUEST
type Backend struct {
	client    Client
	tableName string
}

const (
	attrKey = "cell_key"
	attrVal = "val"
)

// New creates a new DynamoDB backend over the given table.
func New(client Client, tableName string) *Backend {
	return &Backend{
		client:    client,
		tableName: tableName,
	}
}

func (b *Backend) itemKey(key kv.Key) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrKey: &types.AttributeValueMemberS{Value: key.String()},
	}
}

// Load reads the cell at key. A missing item maps to present=false.
func (b *Backend) Load(ctx context.Context, key kv.Key) ([]byte, bool, error) {
	resp, err := b.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(b.tableName),
		Key:            b.itemKey(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, false, fmt.Errorf("dynamo: get item: %w", err)
	}
	if resp.Item == nil {
		return nil, false, nil
	}
	val, ok := resp.Item[attrVal].(*types.AttributeValueMemberB)
	if !ok {
		return nil, false, fmt.Errorf("dynamo: item %s has no binary %q attribute", key, attrVal)
	}
	return val.Value, true, nil
}

// Store writes the cell at key.
func (b *Backend) Store(ctx context.Context, key kv.Key, value []byte) error {
	item := b.itemKey(key)
	item[attrVal] = &types.AttributeValueMemberB{Value: value}
	_, err := b.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(b.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("dynamo: put item: %w", err)
	}
	return nil
}

// Clear removes the cell at key. Deleting an absent item is not an error.
func (b *Backend) Clear(ctx context.Context, key kv.Key) error {
	_, err := b.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(b.tableName),
		Key:       b.itemKey(key),
	})
	if err != nil {
		return fmt.Errorf("dynamo: delete item: %w", err)
	}
	return nil
}
