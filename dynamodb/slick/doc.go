// Package slick builds DynamoDB expressions from inline tokens instead of
// hand-managed placeholder tables.
//
// An expression is a sequence of literal text, attribute names and attribute
// values:
//
//	slick.Joined("SET users.", slick.Name(user), ".ready = ", slick.Value(true))
//
// When a request is assembled every name and value is replaced by a generated
// placeholder (#k0, #k1, ... and :k0, :k1, ...). The placeholders are shared by
// all expression fields of one request and are attached to the payload as
// ExpressionAttributeNames and ExpressionAttributeValues.
//
// # Joining
//
// A field may hold several expressions. How they are combined depends on the
// field:
//
//   - projections are comma separated: "#k0, #k1"
//   - update expressions are space separated: "SET #k0 = :k0 REMOVE #k1"
//   - conditions, filters and key conditions are parenthesized and AND-ed:
//     "(#k0 < :k0) AND (#k1 = :k1)"
//
// A single expression is never wrapped or joined.
//
// # Client
//
// [Client] mirrors the AWS SDK v2 DynamoDB client. It assembles the request
// and forwards it to the wrapped [ddbiface.AWSDynamoClientV2] unchanged,
// returning the delegate's output and error as is.
//
//	c := slick.New(dynamodb.NewFromConfig(cfg))
//	_, err := c.UpdateItem(ctx, &slick.UpdateItemInput{
//		UpdateItemInput: dynamodb.UpdateItemInput{TableName: aws.String("games"), Key: key},
//		UpdateExpression: slick.Joined("SET ", slick.Name("score"), " = ", slick.Value(10)),
//		ConditionExpression: slick.Joined("attribute_exists(", slick.Name("pk"), ")"),
//	})
package slick
