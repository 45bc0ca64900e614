package main

import (
	"fmt"
	"os"

	"github.com/acksell/slickddb/dynamodb/slick"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"gopkg.in/yaml.v3"
)

// requestFile is the YAML description of one request. Request holds the SDK
// field names of the operation; expression fields use the token shapes read
// by slick.FromAny, keys and items are plain documents.
//
//	operation: update
//	request:
//	  TableName: games
//	  Key: {pk: "game#1"}
//	  UpdateExpression: ["SET ", {name: score}, " = ", {value: 10}]
type requestFile struct {
	Operation string         `yaml:"operation"`
	Request   map[string]any `yaml:"request"`
}

func loadRequest(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read request: %w", err)
	}
	var f requestFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse request: %w", err)
	}
	return parseRequest(f)
}

// parseRequest returns one of the slick request types, or a
// *dynamodb.BatchWriteItemInput.
func parseRequest(f requestFile) (any, error) {
	r := &fields{m: f.Request}
	var in any
	switch f.Operation {
	case "get":
		in = &slick.GetItemInput{
			GetItemInput: dynamodb.GetItemInput{
				TableName:                r.str("TableName"),
				Key:                      r.item("Key"),
				ConsistentRead:           r.boolean("ConsistentRead"),
				ExpressionAttributeNames: r.names(),
			},
			ProjectionExpression: r.expr("ProjectionExpression"),
		}
	case "put":
		in = &slick.PutItemInput{
			PutItemInput: dynamodb.PutItemInput{
				TableName:                 r.str("TableName"),
				Item:                      r.item("Item"),
				ReturnValues:              types.ReturnValue(r.plain("ReturnValues")),
				ExpressionAttributeNames:  r.names(),
				ExpressionAttributeValues: r.item("ExpressionAttributeValues"),
			},
			ConditionExpression: r.expr("ConditionExpression"),
		}
	case "update":
		in = &slick.UpdateItemInput{
			UpdateItemInput: dynamodb.UpdateItemInput{
				TableName:                 r.str("TableName"),
				Key:                       r.item("Key"),
				ReturnValues:              types.ReturnValue(r.plain("ReturnValues")),
				ExpressionAttributeNames:  r.names(),
				ExpressionAttributeValues: r.item("ExpressionAttributeValues"),
			},
			UpdateExpression:    r.expr("UpdateExpression"),
			ConditionExpression: r.expr("ConditionExpression"),
		}
	case "delete":
		in = &slick.DeleteItemInput{
			DeleteItemInput: dynamodb.DeleteItemInput{
				TableName:                 r.str("TableName"),
				Key:                       r.item("Key"),
				ReturnValues:              types.ReturnValue(r.plain("ReturnValues")),
				ExpressionAttributeNames:  r.names(),
				ExpressionAttributeValues: r.item("ExpressionAttributeValues"),
			},
			ConditionExpression: r.expr("ConditionExpression"),
		}
	case "query":
		in = &slick.QueryInput{
			QueryInput: dynamodb.QueryInput{
				TableName:                 r.str("TableName"),
				IndexName:                 r.str("IndexName"),
				ConsistentRead:            r.boolean("ConsistentRead"),
				ScanIndexForward:          r.boolean("ScanIndexForward"),
				Limit:                     r.count("Limit"),
				ExclusiveStartKey:         r.item("ExclusiveStartKey"),
				ExpressionAttributeNames:  r.names(),
				ExpressionAttributeValues: r.item("ExpressionAttributeValues"),
			},
			KeyConditionExpression: r.expr("KeyConditionExpression"),
			FilterExpression:       r.expr("FilterExpression"),
			ProjectionExpression:   r.expr("ProjectionExpression"),
		}
	case "scan":
		in = &slick.ScanInput{
			ScanInput: dynamodb.ScanInput{
				TableName:                 r.str("TableName"),
				IndexName:                 r.str("IndexName"),
				ConsistentRead:            r.boolean("ConsistentRead"),
				Limit:                     r.count("Limit"),
				ExclusiveStartKey:         r.item("ExclusiveStartKey"),
				ExpressionAttributeNames:  r.names(),
				ExpressionAttributeValues: r.item("ExpressionAttributeValues"),
			},
			FilterExpression:     r.expr("FilterExpression"),
			ProjectionExpression: r.expr("ProjectionExpression"),
		}
	case "batch-get":
		items := make(map[string]slick.KeysAndAttributes)
		for table, t := range r.tables("RequestItems") {
			items[table] = slick.KeysAndAttributes{
				KeysAndAttributes: types.KeysAndAttributes{
					Keys:                     t.items("Keys"),
					ConsistentRead:           t.boolean("ConsistentRead"),
					ExpressionAttributeNames: t.names(),
				},
				ProjectionExpression: t.expr("ProjectionExpression"),
			}
		}
		in = &slick.BatchGetItemInput{RequestItems: items}
	case "batch-write":
		items := make(map[string][]types.WriteRequest)
		for table, list := range r.tableLists("RequestItems") {
			for _, w := range list {
				var req types.WriteRequest
				if put := w.sub("PutRequest"); put != nil {
					req.PutRequest = &types.PutRequest{Item: put.item("Item")}
				}
				if del := w.sub("DeleteRequest"); del != nil {
					req.DeleteRequest = &types.DeleteRequest{Key: del.item("Key")}
				}
				items[table] = append(items[table], req)
			}
		}
		in = &dynamodb.BatchWriteItemInput{RequestItems: items}
	case "transact-get":
		var items []slick.TransactGetItem
		for _, t := range r.list("TransactItems") {
			var item slick.TransactGetItem
			if g := t.sub("Get"); g != nil {
				item.Get = &slick.Get{
					Get: types.Get{
						TableName:                g.str("TableName"),
						Key:                      g.item("Key"),
						ExpressionAttributeNames: g.names(),
					},
					ProjectionExpression: g.expr("ProjectionExpression"),
				}
			}
			items = append(items, item)
		}
		in = &slick.TransactGetItemsInput{TransactItems: items}
	case "transact-write":
		var items []slick.TransactWriteItem
		for _, t := range r.list("TransactItems") {
			items = append(items, parseTransactWriteItem(t))
		}
		in = &slick.TransactWriteItemsInput{
			TransactWriteItemsInput: dynamodb.TransactWriteItemsInput{ClientRequestToken: r.str("ClientRequestToken")},
			TransactItems:           items,
		}
	case "":
		return nil, fmt.Errorf("missing operation")
	default:
		return nil, fmt.Errorf("unknown operation %q", f.Operation)
	}
	if r.err != nil {
		return nil, r.err
	}
	return in, nil
}

func parseTransactWriteItem(t *fields) slick.TransactWriteItem {
	var item slick.TransactWriteItem
	if c := t.sub("ConditionCheck"); c != nil {
		item.ConditionCheck = &slick.ConditionCheck{
			ConditionCheck: types.ConditionCheck{
				TableName:                 c.str("TableName"),
				Key:                       c.item("Key"),
				ExpressionAttributeNames:  c.names(),
				ExpressionAttributeValues: c.item("ExpressionAttributeValues"),
			},
			ConditionExpression: c.expr("ConditionExpression"),
		}
	}
	if p := t.sub("Put"); p != nil {
		item.Put = &slick.Put{
			Put: types.Put{
				TableName:                 p.str("TableName"),
				Item:                      p.item("Item"),
				ExpressionAttributeNames:  p.names(),
				ExpressionAttributeValues: p.item("ExpressionAttributeValues"),
			},
			ConditionExpression: p.expr("ConditionExpression"),
		}
	}
	if d := t.sub("Delete"); d != nil {
		item.Delete = &slick.Delete{
			Delete: types.Delete{
				TableName:                 d.str("TableName"),
				Key:                       d.item("Key"),
				ExpressionAttributeNames:  d.names(),
				ExpressionAttributeValues: d.item("ExpressionAttributeValues"),
			},
			ConditionExpression: d.expr("ConditionExpression"),
		}
	}
	if u := t.sub("Update"); u != nil {
		item.Update = &slick.Update{
			Update: types.Update{
				TableName:                 u.str("TableName"),
				Key:                       u.item("Key"),
				ExpressionAttributeNames:  u.names(),
				ExpressionAttributeValues: u.item("ExpressionAttributeValues"),
			},
			UpdateExpression:    u.expr("UpdateExpression"),
			ConditionExpression: u.expr("ConditionExpression"),
		}
	}
	return item
}

// fields reads a decoded YAML mapping. The first error is kept in err, shared
// with all nested readers; later reads return zero values.
type fields struct {
	m    map[string]any
	path string
	err  error
	root *fields
}

func (f *fields) top() *fields {
	if f.root != nil {
		return f.root
	}
	return f
}

func (f *fields) fail(name string, format string, args ...any) {
	top := f.top()
	if top.err == nil {
		top.err = fmt.Errorf("%s: %s", f.at(name), fmt.Sprintf(format, args...))
	}
}

func (f *fields) at(name string) string {
	if f.path == "" {
		return name
	}
	return f.path + "." + name
}

func (f *fields) child(path string, m map[string]any) *fields {
	return &fields{m: m, path: path, root: f.top()}
}

func (f *fields) get(name string) (any, bool) {
	if f.top().err != nil {
		return nil, false
	}
	v, ok := f.m[name]
	return v, ok && v != nil
}

func (f *fields) plain(name string) string {
	v, ok := f.get(name)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		f.fail(name, "expected a string, got %T", v)
	}
	return s
}

func (f *fields) str(name string) *string {
	if s := f.plain(name); s != "" {
		return &s
	}
	return nil
}

func (f *fields) boolean(name string) *bool {
	v, ok := f.get(name)
	if !ok {
		return nil
	}
	b, ok := v.(bool)
	if !ok {
		f.fail(name, "expected a boolean, got %T", v)
		return nil
	}
	return &b
}

func (f *fields) count(name string) *int32 {
	v, ok := f.get(name)
	if !ok {
		return nil
	}
	n, ok := v.(int)
	if !ok {
		f.fail(name, "expected an integer, got %T", v)
		return nil
	}
	i := int32(n)
	return &i
}

func (f *fields) names() map[string]string {
	v, ok := f.get("ExpressionAttributeNames")
	if !ok {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		f.fail("ExpressionAttributeNames", "expected a mapping, got %T", v)
		return nil
	}
	out := make(map[string]string, len(m))
	for k, name := range m {
		s, ok := name.(string)
		if !ok {
			f.fail("ExpressionAttributeNames."+k, "expected a string, got %T", name)
			return nil
		}
		out[k] = s
	}
	return out
}

func (f *fields) item(name string) map[string]types.AttributeValue {
	v, ok := f.get(name)
	if !ok {
		return nil
	}
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		f.fail(name, "%v", err)
		return nil
	}
	return item
}

func (f *fields) items(name string) []map[string]types.AttributeValue {
	v, ok := f.get(name)
	if !ok {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		f.fail(name, "expected a list, got %T", v)
		return nil
	}
	out := make([]map[string]types.AttributeValue, len(list))
	for i, el := range list {
		item, err := attributevalue.MarshalMap(el)
		if err != nil {
			f.fail(fmt.Sprintf("%s[%d]", name, i), "%v", err)
			return nil
		}
		out[i] = item
	}
	return out
}

func (f *fields) expr(name string) slick.Input {
	v, ok := f.get(name)
	if !ok {
		return nil
	}
	in, err := slick.FromAny(v)
	if err != nil {
		f.fail(name, "%v", err)
		return nil
	}
	return in
}

func (f *fields) sub(name string) *fields {
	v, ok := f.get(name)
	if !ok {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		f.fail(name, "expected a mapping, got %T", v)
		return nil
	}
	return f.child(f.at(name), m)
}

func (f *fields) list(name string) []*fields {
	v, ok := f.get(name)
	if !ok {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		f.fail(name, "expected a list, got %T", v)
		return nil
	}
	out := make([]*fields, 0, len(list))
	for i, el := range list {
		m, ok := el.(map[string]any)
		if !ok {
			f.fail(fmt.Sprintf("%s[%d]", name, i), "expected a mapping, got %T", el)
			return nil
		}
		out = append(out, f.child(fmt.Sprintf("%s[%d]", f.at(name), i), m))
	}
	return out
}

func (f *fields) tables(name string) map[string]*fields {
	t := f.sub(name)
	if t == nil {
		return nil
	}
	out := make(map[string]*fields, len(t.m))
	for table := range t.m {
		if s := t.sub(table); s != nil {
			out[table] = s
		}
	}
	return out
}

func (f *fields) tableLists(name string) map[string][]*fields {
	t := f.sub(name)
	if t == nil {
		return nil
	}
	out := make(map[string][]*fields, len(t.m))
	for table := range t.m {
		out[table] = t.list(table)
	}
	return out
}
