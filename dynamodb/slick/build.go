package slick

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"golang.org/x/exp/maps"
)

// exprField is one expression field of a request, visited in declaration
// order.
type exprField struct {
	name string
	in   Input
	role Role
	dst  **string
}

// keyed assembles fields through one fresh Keys and merges the generated
// placeholders into names and values. path prefixes error fields.
func keyed(path string, fields []exprField, names *map[string]string, values *map[string]types.AttributeValue, opts []Option) error {
	k := NewKeys(opts...)
	for _, f := range fields {
		s, err := k.Expression(f.name, f.in, f.role)
		if err != nil {
			return atField(err, path)
		}
		if s != nil {
			*f.dst = s
		}
	}
	av, err := k.AttributeValues()
	if err != nil {
		return atField(err, joinPath(path, "ExpressionAttributeValues"))
	}
	n, err := mergePlaceholders(joinPath(path, "ExpressionAttributeNames"), *names, k.Names())
	if err != nil {
		return err
	}
	v, err := mergePlaceholders(joinPath(path, "ExpressionAttributeValues"), *values, av)
	if err != nil {
		return err
	}
	*names, *values = n, v
	return nil
}

// mergePlaceholders returns the union of the caller's and the generated
// placeholders, or nil if both are empty. The caller's map is not modified.
func mergePlaceholders[V any](field string, caller, generated map[string]V) (map[string]V, error) {
	if len(caller) == 0 && len(generated) == 0 {
		return nil, nil
	}
	out := make(map[string]V, len(caller)+len(generated))
	maps.Copy(out, caller)
	for key, v := range generated {
		if _, ok := caller[key]; ok {
			return nil, &InvalidInputError{Field: field, Reason: fmt.Sprintf("placeholder %s is also set by the caller", key)}
		}
		out[key] = v
	}
	return out, nil
}

func joinPath(prefix, field string) string {
	if prefix == "" {
		return field
	}
	return prefix + "." + field
}

func BuildGetItem(in *GetItemInput, opts ...Option) (*dynamodb.GetItemInput, error) {
	if in == nil {
		in = &GetItemInput{}
	}
	out := in.GetItemInput
	err := keyed("", []exprField{
		{"ProjectionExpression", in.ProjectionExpression, ProjectionRole, &out.ProjectionExpression},
	}, &out.ExpressionAttributeNames, new(map[string]types.AttributeValue), opts)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func BuildPutItem(in *PutItemInput, opts ...Option) (*dynamodb.PutItemInput, error) {
	if in == nil {
		in = &PutItemInput{}
	}
	out := in.PutItemInput
	err := keyed("", []exprField{
		{"ConditionExpression", in.ConditionExpression, ConditionRole, &out.ConditionExpression},
	}, &out.ExpressionAttributeNames, &out.ExpressionAttributeValues, opts)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// BuildUpdateItem keys the update expression before the condition.
func BuildUpdateItem(in *UpdateItemInput, opts ...Option) (*dynamodb.UpdateItemInput, error) {
	if in == nil {
		in = &UpdateItemInput{}
	}
	out := in.UpdateItemInput
	err := keyed("", []exprField{
		{"UpdateExpression", in.UpdateExpression, UpdateRole, &out.UpdateExpression},
		{"ConditionExpression", in.ConditionExpression, ConditionRole, &out.ConditionExpression},
	}, &out.ExpressionAttributeNames, &out.ExpressionAttributeValues, opts)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func BuildDeleteItem(in *DeleteItemInput, opts ...Option) (*dynamodb.DeleteItemInput, error) {
	if in == nil {
		in = &DeleteItemInput{}
	}
	out := in.DeleteItemInput
	err := keyed("", []exprField{
		{"ConditionExpression", in.ConditionExpression, ConditionRole, &out.ConditionExpression},
	}, &out.ExpressionAttributeNames, &out.ExpressionAttributeValues, opts)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// BuildQuery keys the key condition, then the filter, then the projection.
func BuildQuery(in *QueryInput, opts ...Option) (*dynamodb.QueryInput, error) {
	if in == nil {
		in = &QueryInput{}
	}
	out := in.QueryInput
	err := keyed("", []exprField{
		{"KeyConditionExpression", in.KeyConditionExpression, ConditionRole, &out.KeyConditionExpression},
		{"FilterExpression", in.FilterExpression, ConditionRole, &out.FilterExpression},
		{"ProjectionExpression", in.ProjectionExpression, ProjectionRole, &out.ProjectionExpression},
	}, &out.ExpressionAttributeNames, &out.ExpressionAttributeValues, opts)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// BuildScan keys the filter before the projection.
func BuildScan(in *ScanInput, opts ...Option) (*dynamodb.ScanInput, error) {
	if in == nil {
		in = &ScanInput{}
	}
	out := in.ScanInput
	err := keyed("", []exprField{
		{"FilterExpression", in.FilterExpression, ConditionRole, &out.FilterExpression},
		{"ProjectionExpression", in.ProjectionExpression, ProjectionRole, &out.ProjectionExpression},
	}, &out.ExpressionAttributeNames, &out.ExpressionAttributeValues, opts)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// BuildBatchGetItem keys every table entry with its own placeholders.
func BuildBatchGetItem(in *BatchGetItemInput, opts ...Option) (*dynamodb.BatchGetItemInput, error) {
	if in == nil {
		in = &BatchGetItemInput{}
	}
	out := in.BatchGetItemInput
	if in.RequestItems == nil {
		return &out, nil
	}
	out.RequestItems = make(map[string]types.KeysAndAttributes, len(in.RequestItems))
	for table, ka := range in.RequestItems {
		item := ka.KeysAndAttributes
		err := keyed(fmt.Sprintf("RequestItems[%s]", table), []exprField{
			{"ProjectionExpression", ka.ProjectionExpression, ProjectionRole, &item.ProjectionExpression},
		}, &item.ExpressionAttributeNames, new(map[string]types.AttributeValue), opts)
		if err != nil {
			return nil, err
		}
		out.RequestItems[table] = item
	}
	return &out, nil
}

// BuildTransactGetItems keys every item with its own placeholders.
func BuildTransactGetItems(in *TransactGetItemsInput, opts ...Option) (*dynamodb.TransactGetItemsInput, error) {
	if in == nil {
		in = &TransactGetItemsInput{}
	}
	out := in.TransactGetItemsInput
	if in.TransactItems == nil {
		return &out, nil
	}
	out.TransactItems = make([]types.TransactGetItem, len(in.TransactItems))
	for i, item := range in.TransactItems {
		if item.Get == nil {
			continue
		}
		get := item.Get.Get
		err := keyed(fmt.Sprintf("TransactItems[%d].Get", i), []exprField{
			{"ProjectionExpression", item.Get.ProjectionExpression, ProjectionRole, &get.ProjectionExpression},
		}, &get.ExpressionAttributeNames, new(map[string]types.AttributeValue), opts)
		if err != nil {
			return nil, err
		}
		out.TransactItems[i].Get = &get
	}
	return &out, nil
}

// BuildTransactWriteItems keys every action of every item with its own
// placeholders.
func BuildTransactWriteItems(in *TransactWriteItemsInput, opts ...Option) (*dynamodb.TransactWriteItemsInput, error) {
	if in == nil {
		in = &TransactWriteItemsInput{}
	}
	out := in.TransactWriteItemsInput
	if in.TransactItems == nil {
		return &out, nil
	}
	out.TransactItems = make([]types.TransactWriteItem, len(in.TransactItems))
	for i, item := range in.TransactItems {
		var (
			w   types.TransactWriteItem
			err error
		)
		if item.ConditionCheck != nil {
			if w.ConditionCheck, err = BuildConditionCheck(item.ConditionCheck, opts...); err != nil {
				return nil, atField(err, fmt.Sprintf("TransactItems[%d].ConditionCheck", i))
			}
		}
		if item.Put != nil {
			if w.Put, err = BuildPut(item.Put, opts...); err != nil {
				return nil, atField(err, fmt.Sprintf("TransactItems[%d].Put", i))
			}
		}
		if item.Delete != nil {
			if w.Delete, err = BuildDelete(item.Delete, opts...); err != nil {
				return nil, atField(err, fmt.Sprintf("TransactItems[%d].Delete", i))
			}
		}
		if item.Update != nil {
			if w.Update, err = BuildUpdate(item.Update, opts...); err != nil {
				return nil, atField(err, fmt.Sprintf("TransactItems[%d].Update", i))
			}
		}
		out.TransactItems[i] = w
	}
	return &out, nil
}

func BuildConditionCheck(in *ConditionCheck, opts ...Option) (*types.ConditionCheck, error) {
	out := in.ConditionCheck
	err := keyed("", []exprField{
		{"ConditionExpression", in.ConditionExpression, ConditionRole, &out.ConditionExpression},
	}, &out.ExpressionAttributeNames, &out.ExpressionAttributeValues, opts)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func BuildPut(in *Put, opts ...Option) (*types.Put, error) {
	out := in.Put
	err := keyed("", []exprField{
		{"ConditionExpression", in.ConditionExpression, ConditionRole, &out.ConditionExpression},
	}, &out.ExpressionAttributeNames, &out.ExpressionAttributeValues, opts)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func BuildDelete(in *Delete, opts ...Option) (*types.Delete, error) {
	out := in.Delete
	err := keyed("", []exprField{
		{"ConditionExpression", in.ConditionExpression, ConditionRole, &out.ConditionExpression},
	}, &out.ExpressionAttributeNames, &out.ExpressionAttributeValues, opts)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// BuildUpdate keys the update expression before the condition, sharing one
// set of placeholders between them.
func BuildUpdate(in *Update, opts ...Option) (*types.Update, error) {
	out := in.Update
	err := keyed("", []exprField{
		{"UpdateExpression", in.UpdateExpression, UpdateRole, &out.UpdateExpression},
		{"ConditionExpression", in.ConditionExpression, ConditionRole, &out.ConditionExpression},
	}, &out.ExpressionAttributeNames, &out.ExpressionAttributeValues, opts)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
