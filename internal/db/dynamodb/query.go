package dynamodb

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/kailas-cloud/fanout/internal/db"
)

// QueryPartition returns every row whose partition key equals value.
// All result pages are followed. Numbers (N, NS) are decoded as json.Number
// so integers beyond 2^53 keep every digit.
func (s *Store) QueryPartition(ctx context.Context, value string) ([]map[string]any, error) {
	in := &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		KeyConditionExpression: aws.String("#pk = :pk"),
		ExpressionAttributeNames: map[string]string{
			"#pk": s.partitionKey,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: value},
		},
		ConsistentRead: aws.Bool(s.consistentRead),
	}
	if s.projection != "" {
		in.ProjectionExpression = aws.String(s.projection)
	}

	pager := dynamodb.NewQueryPaginator(s.api, in, func(o *dynamodb.QueryPaginatorOptions) {
		if s.pageLimit > 0 {
			o.Limit = s.pageLimit
		}
	})

	var raw []map[string]types.AttributeValue
	for pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, &db.Error{Op: db.OpQuery, Err: classify(err)}
		}
		raw = append(raw, page.Items...)
	}

	rows := make([]map[string]any, 0, len(raw))
	err := attributevalue.UnmarshalListOfMapsWithOptions(raw, &rows, func(o *attributevalue.DecoderOptions) {
		o.UseNumber = true
	})
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	for _, row := range rows {
		for k, v := range row {
			row[k] = exactNumbers(v)
		}
	}
	return rows, nil
}

// exactNumbers swaps attributevalue.Number for json.Number, which encodes as a
// JSON number literal instead of a quoted string.
func exactNumbers(v any) any {
	switch t := v.(type) {
	case attributevalue.Number:
		return json.Number(t)
	case []attributevalue.Number:
		out := make([]json.Number, len(t))
		for i, n := range t {
			out[i] = json.Number(n)
		}
		return out
	case map[string]any:
		for k, e := range t {
			t[k] = exactNumbers(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = exactNumbers(e)
		}
		return t
	default:
		return v
	}
}
