package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/acksell/slickddb/dynamodb/journal"
	"github.com/acksell/slickddb/dynamodb/slick"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func parse(t *testing.T, doc string) any {
	t.Helper()
	var f requestFile
	require.NoError(t, yaml.Unmarshal([]byte(doc), &f))
	in, err := parseRequest(f)
	require.NoError(t, err)
	return in
}

func TestParseRequest_Update(t *testing.T) {
	in := parse(t, `
operation: update
request:
  TableName: games
  Key: {pk: "game#1"}
  ReturnValues: ALL_NEW
  UpdateExpression: ["SET ", {name: score}, " = ", {value: 10}]
  ConditionExpression: ["attribute_exists(", {name: pk}, ")"]
`)
	assembled, err := build(in)
	require.NoError(t, err)
	req := assembled.(*dynamodb.UpdateItemInput)

	assert.Equal(t, "games", aws.ToString(req.TableName))
	assert.Equal(t, map[string]types.AttributeValue{"pk": &types.AttributeValueMemberS{Value: "game#1"}}, req.Key)
	assert.Equal(t, types.ReturnValueAllNew, req.ReturnValues)
	assert.Equal(t, "SET #k0 = :k0", aws.ToString(req.UpdateExpression))
	assert.Equal(t, "attribute_exists(#k1)", aws.ToString(req.ConditionExpression))
	assert.Equal(t, map[string]string{"#k0": "score", "#k1": "pk"}, req.ExpressionAttributeNames)
	assert.Equal(t, &types.AttributeValueMemberN{Value: "10"}, req.ExpressionAttributeValues[":k0"])
}

func TestParseRequest_Query(t *testing.T) {
	in := parse(t, `
operation: query
request:
  TableName: games
  IndexName: byOwner
  Limit: 25
  ScanIndexForward: false
  KeyConditionExpression: [{name: owner}, " = ", {value: ada}]
  FilterExpression:
    - [{name: score}, " > ", {value: 100}]
    - ["attribute_exists(", {name: finishedAt}, ")"]
  ProjectionExpression: [{name: pk}, {name: score}]
`)
	assembled, err := build(in)
	require.NoError(t, err)
	req := assembled.(*dynamodb.QueryInput)

	assert.Equal(t, "byOwner", aws.ToString(req.IndexName))
	assert.Equal(t, int32(25), aws.ToInt32(req.Limit))
	assert.False(t, aws.ToBool(req.ScanIndexForward))
	assert.Equal(t, "#k0 = :k0", aws.ToString(req.KeyConditionExpression))
	assert.Equal(t, "(#k1 > :k1) AND (attribute_exists(#k2))", aws.ToString(req.FilterExpression))
	assert.Equal(t, "#k3, #k4", aws.ToString(req.ProjectionExpression))
}

func TestParseRequest_TransactWrite(t *testing.T) {
	in := parse(t, `
operation: transact-write
request:
  TransactItems:
    - ConditionCheck:
        TableName: users
        Key: {pk: "user#1"}
        ConditionExpression: ["attribute_exists(", {name: pk}, ")"]
    - Put:
        TableName: games
        Item: {pk: "game#1", owner: "user#1"}
        ConditionExpression: ["attribute_not_exists(", {name: pk}, ")"]
`)
	tw, ok := in.(*slick.TransactWriteItemsInput)
	require.True(t, ok)
	require.Len(t, tw.TransactItems, 2)

	assembled, err := build(in)
	require.NoError(t, err)
	req := assembled.(*dynamodb.TransactWriteItemsInput)
	assert.Equal(t, "attribute_exists(#k0)", aws.ToString(req.TransactItems[0].ConditionCheck.ConditionExpression))
	assert.Equal(t, "attribute_not_exists(#k0)", aws.ToString(req.TransactItems[1].Put.ConditionExpression))
	assert.Len(t, req.TransactItems[1].Put.Item, 2)
}

func TestParseRequest_BatchWrite(t *testing.T) {
	in := parse(t, `
operation: batch-write
request:
  RequestItems:
    games:
      - PutRequest: {Item: {pk: "game#2"}}
      - DeleteRequest: {Key: {pk: "game#1"}}
`)
	req, ok := in.(*dynamodb.BatchWriteItemInput)
	require.True(t, ok)
	require.Len(t, req.RequestItems["games"], 2)
	assert.NotNil(t, req.RequestItems["games"][0].PutRequest)
	assert.NotNil(t, req.RequestItems["games"][1].DeleteRequest)
}

func TestParseRequest_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{name: "unknown operation", doc: "operation: truncate", want: `unknown operation "truncate"`},
		{name: "missing operation", doc: "request: {}", want: "missing operation"},
		{name: "bad table name", doc: "operation: get\nrequest: {TableName: [a]}", want: "TableName"},
		{name: "bad expression", doc: "operation: scan\nrequest: {FilterExpression: []}", want: "FilterExpression"},
		{
			name: "bad nested field",
			doc:  "operation: transact-write\nrequest: {TransactItems: [{Put: {TableName: 3}}]}",
			want: "TransactItems[0].Put.TableName",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f requestFile
			require.NoError(t, yaml.Unmarshal([]byte(tt.doc), &f))
			_, err := parseRequest(f)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSend_DryRunAndPrint(t *testing.T) {
	j, err := journal.Open(journal.Options{InMemory: true})
	require.NoError(t, err)
	defer j.Close()

	in := parse(t, `
operation: get
request:
  TableName: games
  Key: {pk: "game#1"}
  ProjectionExpression: [{name: score}, {name: owner}]
`)
	_, err = send(context.Background(), slick.New(j.Wrap(nil)), in)
	require.NoError(t, err)

	entries, err := j.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	var buf bytes.Buffer
	printEntry(&buf, entries[0])
	out := buf.String()
	assert.Contains(t, out, "GetItem (dry run)")
	assert.Contains(t, out, "ProjectionExpression: #k0, #k1")
	assert.Contains(t, out, "#k0 = score")
	assert.Contains(t, out, "#k1 = owner")
}

func TestOutputView(t *testing.T) {
	view, err := outputView(&dynamodb.QueryOutput{
		Count: 1,
		Items: []map[string]types.AttributeValue{
			{"pk": &types.AttributeValueMemberS{Value: "game#1"}, "score": &types.AttributeValueMemberN{Value: "7"}},
		},
	})
	require.NoError(t, err)
	v := view.(itemsView)
	assert.Equal(t, int32(1), v.Count)
	assert.Equal(t, []map[string]any{{"pk": "game#1", "score": 7.0}}, v.Items)
	assert.Nil(t, v.LastEvaluatedKey)
}
