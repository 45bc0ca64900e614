package main

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type itemsView struct {
	Items            []map[string]any `json:"items"`
	Count            int32            `json:"count"`
	LastEvaluatedKey map[string]any   `json:"lastEvaluatedKey,omitempty"`
}

// outputView converts the items of an output into plain documents for
// printing.
func outputView(out any) (any, error) {
	switch v := out.(type) {
	case *dynamodb.GetItemOutput:
		return plainItem(v.Item)
	case *dynamodb.PutItemOutput:
		return plainItem(v.Attributes)
	case *dynamodb.UpdateItemOutput:
		return plainItem(v.Attributes)
	case *dynamodb.DeleteItemOutput:
		return plainItem(v.Attributes)
	case *dynamodb.QueryOutput:
		return plainItems(v.Items, v.Count, v.LastEvaluatedKey)
	case *dynamodb.ScanOutput:
		return plainItems(v.Items, v.Count, v.LastEvaluatedKey)
	case *dynamodb.BatchGetItemOutput:
		resp := make(map[string][]map[string]any, len(v.Responses))
		for table, items := range v.Responses {
			var plain []map[string]any
			if err := attributevalue.UnmarshalListOfMaps(items, &plain); err != nil {
				return nil, fmt.Errorf("decode %s items: %w", table, err)
			}
			resp[table] = plain
		}
		return map[string]any{"responses": resp, "unprocessed": len(v.UnprocessedKeys)}, nil
	case *dynamodb.BatchWriteItemOutput:
		return map[string]any{"unprocessed": len(v.UnprocessedItems)}, nil
	case *dynamodb.TransactGetItemsOutput:
		items := make([]map[string]any, len(v.Responses))
		for i, r := range v.Responses {
			item, err := plainItem(r.Item)
			if err != nil {
				return nil, err
			}
			items[i] = item
		}
		return items, nil
	case *dynamodb.TransactWriteItemsOutput:
		return map[string]any{"ok": true}, nil
	default:
		return out, nil
	}
}

func plainItem(item map[string]types.AttributeValue) (map[string]any, error) {
	if item == nil {
		return nil, nil
	}
	var plain map[string]any
	if err := attributevalue.UnmarshalMap(item, &plain); err != nil {
		return nil, fmt.Errorf("decode item: %w", err)
	}
	return plain, nil
}

func plainItems(items []map[string]types.AttributeValue, count int32, last map[string]types.AttributeValue) (itemsView, error) {
	view := itemsView{Count: count, Items: []map[string]any{}}
	if err := attributevalue.UnmarshalListOfMaps(items, &view.Items); err != nil {
		return view, fmt.Errorf("decode items: %w", err)
	}
	lastKey, err := plainItem(last)
	if err != nil {
		return view, err
	}
	view.LastEvaluatedKey = lastKey
	return view, nil
}
