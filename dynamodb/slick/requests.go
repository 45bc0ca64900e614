package slick

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// The request types below embed the SDK input they assemble into and shadow
// its expression fields with Input fields. Every other field, including
// ExpressionAttributeNames and ExpressionAttributeValues, is set on the
// embedded SDK struct. A nil Input leaves the embedded expression string as
// it is.

type GetItemInput struct {
	dynamodb.GetItemInput
	ProjectionExpression Input
}

type PutItemInput struct {
	dynamodb.PutItemInput
	ConditionExpression Input
}

type UpdateItemInput struct {
	dynamodb.UpdateItemInput
	UpdateExpression    Input
	ConditionExpression Input
}

type DeleteItemInput struct {
	dynamodb.DeleteItemInput
	ConditionExpression Input
}

type QueryInput struct {
	dynamodb.QueryInput
	KeyConditionExpression Input
	FilterExpression       Input
	ProjectionExpression   Input
}

type ScanInput struct {
	dynamodb.ScanInput
	FilterExpression     Input
	ProjectionExpression Input
}

// BatchGetItemInput keys every table entry independently. When RequestItems
// is nil the embedded RequestItems are sent unchanged.
type BatchGetItemInput struct {
	dynamodb.BatchGetItemInput
	RequestItems map[string]KeysAndAttributes
}

type KeysAndAttributes struct {
	types.KeysAndAttributes
	ProjectionExpression Input
}

// TransactGetItemsInput keys every item independently. When TransactItems is
// nil the embedded TransactItems are sent unchanged.
type TransactGetItemsInput struct {
	dynamodb.TransactGetItemsInput
	TransactItems []TransactGetItem
}

type TransactGetItem struct {
	Get *Get
}

type Get struct {
	types.Get
	ProjectionExpression Input
}

// TransactWriteItemsInput keys every item independently. When TransactItems
// is nil the embedded TransactItems are sent unchanged.
type TransactWriteItemsInput struct {
	dynamodb.TransactWriteItemsInput
	TransactItems []TransactWriteItem
}

// TransactWriteItem holds one action. Setting more or less than one is left
// for the service to reject.
type TransactWriteItem struct {
	ConditionCheck *ConditionCheck
	Put            *Put
	Delete         *Delete
	Update         *Update
}

type ConditionCheck struct {
	types.ConditionCheck
	ConditionExpression Input
}

type Put struct {
	types.Put
	ConditionExpression Input
}

type Delete struct {
	types.Delete
	ConditionExpression Input
}

type Update struct {
	types.Update
	UpdateExpression    Input
	ConditionExpression Input
}
