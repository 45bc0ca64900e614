package journal_test

import (
	"context"
	"errors"
	"testing"

	"github.com/acksell/slickddb/dynamodb/journal"
	"github.com/acksell/slickddb/dynamodb/mockddb"
	"github.com/acksell/slickddb/dynamodb/slick"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var key = map[string]types.AttributeValue{
	"pk": &types.AttributeValueMemberS{Value: "game#1"},
}

func openJournal(t *testing.T) *journal.Journal {
	t.Helper()
	j, err := journal.Open(journal.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecorder_DryRun(t *testing.T) {
	j := openJournal(t)
	rec := j.Wrap(nil)
	require.True(t, rec.DryRun())

	c := slick.New(rec)
	out, err := c.UpdateItem(context.Background(), &slick.UpdateItemInput{
		UpdateItemInput:     dynamodb.UpdateItemInput{TableName: aws.String("games"), Key: key},
		UpdateExpression:    slick.Joined("SET ", slick.Name("score"), " = ", slick.Value(10)),
		ConditionExpression: slick.Joined("attribute_exists(", slick.Name("pk"), ")"),
	})
	require.NoError(t, err)
	assert.NotNil(t, out)

	entries, err := j.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "UpdateItem", e.Operation)
	assert.True(t, e.DryRun)
	require.Len(t, e.Parts, 1)
	p := e.Parts[0]
	assert.Equal(t, "games", p.Table)
	assert.Equal(t, map[string]string{
		"UpdateExpression":    "SET #k0 = :k0",
		"ConditionExpression": "attribute_exists(#k1)",
	}, p.Expressions)
	assert.Equal(t, map[string]string{"#k0": "score", "#k1": "pk"}, p.Names)
	assert.Equal(t, map[string]types.AttributeValue{":k0": &types.AttributeValueMemberN{Value: "10"}}, p.Values)
}

func TestRecorder_Forwards(t *testing.T) {
	ctx := context.Background()
	j := openJournal(t)
	m := &mockddb.Client{}
	boom := errors.New("transaction canceled")
	m.On("TransactWriteItems", ctx, mock.Anything).Return(nil, boom)

	c := slick.New(j.Wrap(m))
	_, err := c.TransactWriteItems(ctx, &slick.TransactWriteItemsInput{
		TransactItems: []slick.TransactWriteItem{
			{Put: &slick.Put{
				Put:                 types.Put{TableName: aws.String("games"), Item: key},
				ConditionExpression: slick.Joined("attribute_not_exists(", slick.Name("pk"), ")"),
			}},
			{Update: &slick.Update{
				Update:           types.Update{TableName: aws.String("scores"), Key: key},
				UpdateExpression: slick.Joined("ADD ", slick.Name("total"), " ", slick.Value(1)),
			}},
		},
	})
	assert.True(t, err == boom, "delegate error is returned as is, got %v", err)
	m.AssertExpectations(t)

	entries, err := j.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].DryRun)
	require.Len(t, entries[0].Parts, 2)
	assert.Equal(t, "TransactItems[0].Put", entries[0].Parts[0].Path)
	assert.Equal(t, "TransactItems[1].Update", entries[0].Parts[1].Path)
	assert.Equal(t, map[string]string{"#k0": "total"}, entries[0].Parts[1].Names)
}

func TestRecorder_BatchTablesSorted(t *testing.T) {
	j := openJournal(t)
	rec := j.Wrap(nil)

	_, err := rec.BatchWriteItem(context.Background(), &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{
			"users": {{PutRequest: &types.PutRequest{Item: key}}},
			"games": {{DeleteRequest: &types.DeleteRequest{Key: key}}},
		},
	})
	require.NoError(t, err)

	entries, err := j.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Len(t, entries[0].Parts, 2)
	assert.Equal(t, "games", entries[0].Parts[0].Table)
	assert.Equal(t, "users", entries[0].Parts[1].Table)
}
