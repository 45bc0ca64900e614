package journal

import (
	"context"
	"fmt"

	"github.com/acksell/slickddb/dynamodb/ddbiface"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Recorder records every request in a Journal before forwarding it. Requests
// that cannot be recorded are not sent.
type Recorder struct {
	journal *Journal
	next    ddbiface.AWSDynamoClientV2
}

var _ ddbiface.AWSDynamoClientV2 = (*Recorder)(nil)

// Wrap returns a Recorder that forwards to next. With a nil next the Recorder
// runs dry: requests are recorded and answered with empty outputs.
func (j *Journal) Wrap(next ddbiface.AWSDynamoClientV2) *Recorder {
	return &Recorder{journal: j, next: next}
}

// DryRun reports whether requests are answered without being sent.
func (r *Recorder) DryRun() bool {
	return r.next == nil
}

func forward[Out any](r *Recorder, op string, parts []Part, call func(ddbiface.AWSDynamoClientV2) (*Out, error)) (*Out, error) {
	err := r.journal.Append(&Entry{Operation: op, DryRun: r.DryRun(), Parts: parts})
	if err != nil {
		return nil, fmt.Errorf("journal %s: %w", op, err)
	}
	if r.next == nil {
		return new(Out), nil
	}
	return call(r.next)
}

type exprField struct {
	name string
	text *string
}

func newPart(path string, table *string, names map[string]string, values map[string]types.AttributeValue, fields ...exprField) Part {
	p := Part{
		Path:   path,
		Table:  aws.ToString(table),
		Names:  names,
		Values: values,
	}
	for _, f := range fields {
		if f.text == nil {
			continue
		}
		if p.Expressions == nil {
			p.Expressions = make(map[string]string)
		}
		p.Expressions[f.name] = *f.text
	}
	return p
}

func sortedTables[V any](m map[string]V) []string {
	tables := maps.Keys(m)
	slices.Sort(tables)
	return tables
}

func (r *Recorder) GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	parts := []Part{newPart("", in.TableName, in.ExpressionAttributeNames, nil,
		exprField{"ProjectionExpression", in.ProjectionExpression})}
	return forward(r, "GetItem", parts, func(c ddbiface.AWSDynamoClientV2) (*dynamodb.GetItemOutput, error) {
		return c.GetItem(ctx, in, optFns...)
	})
}

func (r *Recorder) PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	parts := []Part{newPart("", in.TableName, in.ExpressionAttributeNames, in.ExpressionAttributeValues,
		exprField{"ConditionExpression", in.ConditionExpression})}
	return forward(r, "PutItem", parts, func(c ddbiface.AWSDynamoClientV2) (*dynamodb.PutItemOutput, error) {
		return c.PutItem(ctx, in, optFns...)
	})
}

func (r *Recorder) UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	parts := []Part{newPart("", in.TableName, in.ExpressionAttributeNames, in.ExpressionAttributeValues,
		exprField{"UpdateExpression", in.UpdateExpression},
		exprField{"ConditionExpression", in.ConditionExpression})}
	return forward(r, "UpdateItem", parts, func(c ddbiface.AWSDynamoClientV2) (*dynamodb.UpdateItemOutput, error) {
		return c.UpdateItem(ctx, in, optFns...)
	})
}

func (r *Recorder) DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	parts := []Part{newPart("", in.TableName, in.ExpressionAttributeNames, in.ExpressionAttributeValues,
		exprField{"ConditionExpression", in.ConditionExpression})}
	return forward(r, "DeleteItem", parts, func(c ddbiface.AWSDynamoClientV2) (*dynamodb.DeleteItemOutput, error) {
		return c.DeleteItem(ctx, in, optFns...)
	})
}

func (r *Recorder) Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	parts := []Part{newPart("", in.TableName, in.ExpressionAttributeNames, in.ExpressionAttributeValues,
		exprField{"KeyConditionExpression", in.KeyConditionExpression},
		exprField{"FilterExpression", in.FilterExpression},
		exprField{"ProjectionExpression", in.ProjectionExpression})}
	return forward(r, "Query", parts, func(c ddbiface.AWSDynamoClientV2) (*dynamodb.QueryOutput, error) {
		return c.Query(ctx, in, optFns...)
	})
}

func (r *Recorder) Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	parts := []Part{newPart("", in.TableName, in.ExpressionAttributeNames, in.ExpressionAttributeValues,
		exprField{"FilterExpression", in.FilterExpression},
		exprField{"ProjectionExpression", in.ProjectionExpression})}
	return forward(r, "Scan", parts, func(c ddbiface.AWSDynamoClientV2) (*dynamodb.ScanOutput, error) {
		return c.Scan(ctx, in, optFns...)
	})
}

func (r *Recorder) BatchGetItem(ctx context.Context, in *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error) {
	var parts []Part
	for _, table := range sortedTables(in.RequestItems) {
		ka := in.RequestItems[table]
		parts = append(parts, newPart(fmt.Sprintf("RequestItems[%s]", table), aws.String(table), ka.ExpressionAttributeNames, nil,
			exprField{"ProjectionExpression", ka.ProjectionExpression}))
	}
	return forward(r, "BatchGetItem", parts, func(c ddbiface.AWSDynamoClientV2) (*dynamodb.BatchGetItemOutput, error) {
		return c.BatchGetItem(ctx, in, optFns...)
	})
}

func (r *Recorder) BatchWriteItem(ctx context.Context, in *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	var parts []Part
	for _, table := range sortedTables(in.RequestItems) {
		parts = append(parts, newPart(fmt.Sprintf("RequestItems[%s]", table), aws.String(table), nil, nil))
	}
	return forward(r, "BatchWriteItem", parts, func(c ddbiface.AWSDynamoClientV2) (*dynamodb.BatchWriteItemOutput, error) {
		return c.BatchWriteItem(ctx, in, optFns...)
	})
}

func (r *Recorder) TransactGetItems(ctx context.Context, in *dynamodb.TransactGetItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactGetItemsOutput, error) {
	var parts []Part
	for i, item := range in.TransactItems {
		if item.Get == nil {
			continue
		}
		parts = append(parts, newPart(fmt.Sprintf("TransactItems[%d].Get", i), item.Get.TableName, item.Get.ExpressionAttributeNames, nil,
			exprField{"ProjectionExpression", item.Get.ProjectionExpression}))
	}
	return forward(r, "TransactGetItems", parts, func(c ddbiface.AWSDynamoClientV2) (*dynamodb.TransactGetItemsOutput, error) {
		return c.TransactGetItems(ctx, in, optFns...)
	})
}

func (r *Recorder) TransactWriteItems(ctx context.Context, in *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	var parts []Part
	for i, item := range in.TransactItems {
		path := fmt.Sprintf("TransactItems[%d]", i)
		if v := item.ConditionCheck; v != nil {
			parts = append(parts, newPart(path+".ConditionCheck", v.TableName, v.ExpressionAttributeNames, v.ExpressionAttributeValues,
				exprField{"ConditionExpression", v.ConditionExpression}))
		}
		if v := item.Put; v != nil {
			parts = append(parts, newPart(path+".Put", v.TableName, v.ExpressionAttributeNames, v.ExpressionAttributeValues,
				exprField{"ConditionExpression", v.ConditionExpression}))
		}
		if v := item.Delete; v != nil {
			parts = append(parts, newPart(path+".Delete", v.TableName, v.ExpressionAttributeNames, v.ExpressionAttributeValues,
				exprField{"ConditionExpression", v.ConditionExpression}))
		}
		if v := item.Update; v != nil {
			parts = append(parts, newPart(path+".Update", v.TableName, v.ExpressionAttributeNames, v.ExpressionAttributeValues,
				exprField{"UpdateExpression", v.UpdateExpression},
				exprField{"ConditionExpression", v.ConditionExpression}))
		}
	}
	return forward(r, "TransactWriteItems", parts, func(c ddbiface.AWSDynamoClientV2) (*dynamodb.TransactWriteItemsOutput, error) {
		return c.TransactWriteItems(ctx, in, optFns...)
	})
}
