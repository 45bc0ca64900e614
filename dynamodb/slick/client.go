package slick

import (
	"context"

	"github.com/acksell/slickddb/dynamodb/ddbiface"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"
)

// Client assembles requests and forwards them to the wrapped client. Outputs
// and errors of the wrapped client are returned unmodified. A Client is safe
// for concurrent use if the wrapped client is.
type Client struct {
	awsddb ddbiface.AWSDynamoClientV2
	opts   []Option
	log    zerolog.Logger
}

func New(awsddb ddbiface.AWSDynamoClientV2, opts ...Option) *Client {
	return &Client{
		awsddb: awsddb,
		opts:   opts,
		log:    newOptions(opts).logger,
	}
}

func (c *Client) assembled(op string, table *string, names map[string]string, values map[string]types.AttributeValue) {
	c.log.Debug().
		Str("operation", op).
		Str("table", aws.ToString(table)).
		Int("names", len(names)).
		Int("values", len(values)).
		Msg("assembled request")
}

func (c *Client) GetItem(ctx context.Context, in *GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	req, err := BuildGetItem(in, c.opts...)
	if err != nil {
		return nil, err
	}
	c.assembled("GetItem", req.TableName, req.ExpressionAttributeNames, nil)
	return c.awsddb.GetItem(ctx, req, optFns...)
}

func (c *Client) PutItem(ctx context.Context, in *PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	req, err := BuildPutItem(in, c.opts...)
	if err != nil {
		return nil, err
	}
	c.assembled("PutItem", req.TableName, req.ExpressionAttributeNames, req.ExpressionAttributeValues)
	return c.awsddb.PutItem(ctx, req, optFns...)
}

func (c *Client) UpdateItem(ctx context.Context, in *UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	req, err := BuildUpdateItem(in, c.opts...)
	if err != nil {
		return nil, err
	}
	c.assembled("UpdateItem", req.TableName, req.ExpressionAttributeNames, req.ExpressionAttributeValues)
	return c.awsddb.UpdateItem(ctx, req, optFns...)
}

func (c *Client) DeleteItem(ctx context.Context, in *DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	req, err := BuildDeleteItem(in, c.opts...)
	if err != nil {
		return nil, err
	}
	c.assembled("DeleteItem", req.TableName, req.ExpressionAttributeNames, req.ExpressionAttributeValues)
	return c.awsddb.DeleteItem(ctx, req, optFns...)
}

func (c *Client) Query(ctx context.Context, in *QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	req, err := BuildQuery(in, c.opts...)
	if err != nil {
		return nil, err
	}
	c.assembled("Query", req.TableName, req.ExpressionAttributeNames, req.ExpressionAttributeValues)
	return c.awsddb.Query(ctx, req, optFns...)
}

func (c *Client) Scan(ctx context.Context, in *ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	req, err := BuildScan(in, c.opts...)
	if err != nil {
		return nil, err
	}
	c.assembled("Scan", req.TableName, req.ExpressionAttributeNames, req.ExpressionAttributeValues)
	return c.awsddb.Scan(ctx, req, optFns...)
}

func (c *Client) BatchGetItem(ctx context.Context, in *BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error) {
	req, err := BuildBatchGetItem(in, c.opts...)
	if err != nil {
		return nil, err
	}
	for table, ka := range req.RequestItems {
		c.assembled("BatchGetItem", aws.String(table), ka.ExpressionAttributeNames, nil)
	}
	return c.awsddb.BatchGetItem(ctx, req, optFns...)
}

// BatchWriteItem has no expressions and is forwarded as is.
func (c *Client) BatchWriteItem(ctx context.Context, in *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	return c.awsddb.BatchWriteItem(ctx, in, optFns...)
}

func (c *Client) TransactGetItems(ctx context.Context, in *TransactGetItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactGetItemsOutput, error) {
	req, err := BuildTransactGetItems(in, c.opts...)
	if err != nil {
		return nil, err
	}
	for _, item := range req.TransactItems {
		if item.Get != nil {
			c.assembled("TransactGetItems", item.Get.TableName, item.Get.ExpressionAttributeNames, nil)
		}
	}
	return c.awsddb.TransactGetItems(ctx, req, optFns...)
}

func (c *Client) TransactWriteItems(ctx context.Context, in *TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	req, err := BuildTransactWriteItems(in, c.opts...)
	if err != nil {
		return nil, err
	}
	for _, item := range req.TransactItems {
		switch {
		case item.ConditionCheck != nil:
			c.assembled("TransactWriteItems", item.ConditionCheck.TableName, item.ConditionCheck.ExpressionAttributeNames, item.ConditionCheck.ExpressionAttributeValues)
		case item.Put != nil:
			c.assembled("TransactWriteItems", item.Put.TableName, item.Put.ExpressionAttributeNames, item.Put.ExpressionAttributeValues)
		case item.Delete != nil:
			c.assembled("TransactWriteItems", item.Delete.TableName, item.Delete.ExpressionAttributeNames, item.Delete.ExpressionAttributeValues)
		case item.Update != nil:
			c.assembled("TransactWriteItems", item.Update.TableName, item.Update.ExpressionAttributeNames, item.Update.ExpressionAttributeValues)
		}
	}
	return c.awsddb.TransactWriteItems(ctx, req, optFns...)
}

// QueryAll assembles the query once and reads every page. The placeholders
// are the same on every page.
func (c *Client) QueryAll(ctx context.Context, in *QueryInput, optFns ...func(*dynamodb.Options)) ([]map[string]types.AttributeValue, error) {
	req, err := BuildQuery(in, c.opts...)
	if err != nil {
		return nil, err
	}
	c.assembled("Query", req.TableName, req.ExpressionAttributeNames, req.ExpressionAttributeValues)
	var items []map[string]types.AttributeValue
	p := dynamodb.NewQueryPaginator(c.awsddb, req)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx, optFns...)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
	}
	return items, nil
}

// ScanAll assembles the scan once and reads every page.
func (c *Client) ScanAll(ctx context.Context, in *ScanInput, optFns ...func(*dynamodb.Options)) ([]map[string]types.AttributeValue, error) {
	req, err := BuildScan(in, c.opts...)
	if err != nil {
		return nil, err
	}
	c.assembled("Scan", req.TableName, req.ExpressionAttributeNames, req.ExpressionAttributeValues)
	var items []map[string]types.AttributeValue
	p := dynamodb.NewScanPaginator(c.awsddb, req)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx, optFns...)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
	}
	return items, nil
}
