package preflight

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Requirement is one DynamoDB action on one table or index.
type Requirement struct {
	Action string
	Table  string
	Index  string
}

// ResourceARN returns the ARN of the table or index.
func (r Requirement) ResourceARN(partition, region, account string) string {
	arn := fmt.Sprintf("arn:%s:dynamodb:%s:%s:table/%s", partition, region, account, r.Table)
	if r.Index != "" {
		arn += "/index/" + r.Index
	}
	return arn
}

func dedupe(reqs []Requirement) []Requirement {
	seen := make(map[Requirement]bool, len(reqs))
	out := reqs[:0:0]
	for _, r := range reqs {
		if seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}

func action(name string) string {
	return "dynamodb:" + name
}

// Requirements returns the actions an assembled request needs. Unknown
// request types need nothing.
func Requirements(in any) []Requirement {
	switch v := in.(type) {
	case *dynamodb.GetItemInput:
		return []Requirement{{Action: action("GetItem"), Table: aws.ToString(v.TableName)}}
	case *dynamodb.PutItemInput:
		return []Requirement{{Action: action("PutItem"), Table: aws.ToString(v.TableName)}}
	case *dynamodb.UpdateItemInput:
		return []Requirement{{Action: action("UpdateItem"), Table: aws.ToString(v.TableName)}}
	case *dynamodb.DeleteItemInput:
		return []Requirement{{Action: action("DeleteItem"), Table: aws.ToString(v.TableName)}}
	case *dynamodb.QueryInput:
		return []Requirement{{Action: action("Query"), Table: aws.ToString(v.TableName), Index: aws.ToString(v.IndexName)}}
	case *dynamodb.ScanInput:
		return []Requirement{{Action: action("Scan"), Table: aws.ToString(v.TableName), Index: aws.ToString(v.IndexName)}}
	case *dynamodb.BatchGetItemInput:
		var reqs []Requirement
		for table := range v.RequestItems {
			reqs = append(reqs, Requirement{Action: action("BatchGetItem"), Table: table})
		}
		return reqs
	case *dynamodb.BatchWriteItemInput:
		var reqs []Requirement
		for table := range v.RequestItems {
			reqs = append(reqs, Requirement{Action: action("BatchWriteItem"), Table: table})
		}
		return reqs
	case *dynamodb.TransactGetItemsInput:
		var reqs []Requirement
		for _, item := range v.TransactItems {
			if item.Get != nil {
				reqs = append(reqs, Requirement{Action: action("GetItem"), Table: aws.ToString(item.Get.TableName)})
			}
		}
		return reqs
	case *dynamodb.TransactWriteItemsInput:
		var reqs []Requirement
		for _, item := range v.TransactItems {
			switch {
			case item.ConditionCheck != nil:
				reqs = append(reqs, Requirement{Action: action("ConditionCheckItem"), Table: aws.ToString(item.ConditionCheck.TableName)})
			case item.Put != nil:
				reqs = append(reqs, Requirement{Action: action("PutItem"), Table: aws.ToString(item.Put.TableName)})
			case item.Delete != nil:
				reqs = append(reqs, Requirement{Action: action("DeleteItem"), Table: aws.ToString(item.Delete.TableName)})
			case item.Update != nil:
				reqs = append(reqs, Requirement{Action: action("UpdateItem"), Table: aws.ToString(item.Update.TableName)})
			}
		}
		return reqs
	}
	return nil
}
