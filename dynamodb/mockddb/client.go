// Package mockddb provides a testify mock of the DynamoDB client interface.
package mockddb

import (
	"context"

	"github.com/acksell/slickddb/dynamodb/ddbiface"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/stretchr/testify/mock"
)

// Client records every call. Set expectations with On, e.g.
//
//	m.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)
//
// Options passed to a call are not recorded.
type Client struct {
	mock.Mock
}

var _ ddbiface.AWSDynamoClientV2 = (*Client)(nil)

func ret[T any](args mock.Arguments) (*T, error) {
	out, _ := args.Get(0).(*T)
	return out, args.Error(1)
}

func (m *Client) BatchGetItem(ctx context.Context, in *dynamodb.BatchGetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error) {
	return ret[dynamodb.BatchGetItemOutput](m.Called(ctx, in))
}

func (m *Client) BatchWriteItem(ctx context.Context, in *dynamodb.BatchWriteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	return ret[dynamodb.BatchWriteItemOutput](m.Called(ctx, in))
}

func (m *Client) DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	return ret[dynamodb.DeleteItemOutput](m.Called(ctx, in))
}

func (m *Client) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return ret[dynamodb.GetItemOutput](m.Called(ctx, in))
}

func (m *Client) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	return ret[dynamodb.PutItemOutput](m.Called(ctx, in))
}

func (m *Client) TransactGetItems(ctx context.Context, in *dynamodb.TransactGetItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactGetItemsOutput, error) {
	return ret[dynamodb.TransactGetItemsOutput](m.Called(ctx, in))
}

func (m *Client) TransactWriteItems(ctx context.Context, in *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	return ret[dynamodb.TransactWriteItemsOutput](m.Called(ctx, in))
}

func (m *Client) Query(ctx context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	return ret[dynamodb.QueryOutput](m.Called(ctx, in))
}

func (m *Client) Scan(ctx context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	return ret[dynamodb.ScanOutput](m.Called(ctx, in))
}

func (m *Client) UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	return ret[dynamodb.UpdateItemOutput](m.Called(ctx, in))
}
