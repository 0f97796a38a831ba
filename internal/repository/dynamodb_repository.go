package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"SmartSensor.dynamoDB/internal/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// DynamoDBAPI is the subset of *dynamodb.Client the repository uses.
type DynamoDBAPI interface {
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoDBRepository reads sensor readings from a DynamoDB table.
type DynamoDBRepository struct {
	client    DynamoDBAPI
	tableName string
}

// NewDynamoDBClient loads the default AWS configuration and builds a client.
// An empty region keeps the SDK's resolution chain; a non-empty endpoint
// points the client at e.g. DynamoDB Local.
func NewDynamoDBClient(ctx context.Context, region, endpoint string) (*dynamodb.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

// NewDynamoDBRepository creates a new DynamoDBRepository.
func NewDynamoDBRepository(client DynamoDBAPI, tableName string) *DynamoDBRepository {
	return &DynamoDBRepository{
		client:    client,
		tableName: tableName,
	}
}

// Query reads one partition, optionally narrowed to an inclusive timestamp range.
func (r *DynamoDBRepository) Query(ctx context.Context, query models.RangeQuery) (models.Page, error) {
	// limit=0 asks for an empty page. DynamoDB rejects Limit < 1, so the
	// page is answered here instead of issuing the read.
	if query.Limit < 1 {
		return emptyPage(), nil
	}

	keyCond := expression.Key(PartitionKey).Equal(expression.Value(query.PartitionKey))
	if query.Range != nil {
		keyCond = keyCond.And(expression.Key(SortKey).Between(
			expression.Value(query.Range.Start),
			expression.Value(query.Range.End),
		))
	}

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return models.Page{}, models.NewStoreError("query", "", fmt.Errorf("error building key condition: %w", err))
	}

	startKey, err := marshalStartKey(query.StartKey)
	if err != nil {
		return models.Page{}, err
	}

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(clampInt32(query.Limit)),
		ScanIndexForward:          aws.Bool(!query.Descending),
		ExclusiveStartKey:         startKey,
	})
	if err != nil {
		return models.Page{}, storeError("query", err)
	}

	return decodePage(out.Items, out.LastEvaluatedKey)
}

// Scan reads across the table in store order.
// NOT recommended for very large tables.
func (r *DynamoDBRepository) Scan(ctx context.Context, scan models.ScanRequest) (models.Page, error) {
	// same as Query: an empty page for limit=0 without a store read
	if scan.Limit < 1 {
		return emptyPage(), nil
	}

	startKey, err := marshalStartKey(scan.StartKey)
	if err != nil {
		return models.Page{}, err
	}

	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:         aws.String(r.tableName),
		Limit:             aws.Int32(clampInt32(scan.Limit)),
		ExclusiveStartKey: startKey,
	})
	if err != nil {
		return models.Page{}, storeError("scan", err)
	}

	return decodePage(out.Items, out.LastEvaluatedKey)
}

// useNumber keeps DynamoDB numbers as attributevalue.Number instead of
// float64 so no precision is lost before the response is built.
func useNumber(o *attributevalue.DecoderOptions) {
	o.UseNumber = true
}

func decodePage(rawItems []map[string]types.AttributeValue, rawKey map[string]types.AttributeValue) (models.Page, error) {
	var decoded []map[string]interface{}
	if err := attributevalue.UnmarshalListOfMapsWithOptions(rawItems, &decoded, useNumber); err != nil {
		return models.Page{}, models.NewTransformError("decode items", err)
	}

	items := make([]models.SensorReading, 0, len(decoded))
	for _, item := range decoded {
		items = append(items, models.SensorReading(item))
	}

	page := models.Page{Items: items}
	if len(rawKey) > 0 {
		var key map[string]interface{}
		if err := attributevalue.UnmarshalMapWithOptions(rawKey, &key, useNumber); err != nil {
			return models.Page{}, models.NewTransformError("decode lastEvaluatedKey", err)
		}
		page.LastEvaluatedKey = key
	}
	return page, nil
}

func marshalStartKey(key map[string]interface{}) (map[string]types.AttributeValue, error) {
	if len(key) == 0 {
		return nil, nil
	}
	exact := make(map[string]interface{}, len(key))
	for k, v := range key {
		if n, ok := v.(json.Number); ok {
			v = attributevalue.Number(n)
		}
		exact[k] = v
	}
	av, err := attributevalue.MarshalMap(exact)
	if err != nil {
		return nil, models.NewParameterError("start_key", err)
	}
	return av, nil
}

// storeError keeps the SDK error text and records the AWS error code,
// e.g. ThrottlingException or ProvisionedThroughputExceededException.
func storeError(op string, err error) error {
	var code string
	var ae smithy.APIError
	if errors.As(err, &ae) {
		code = ae.ErrorCode()
	}
	return models.NewStoreError(op, code, err)
}

func clampInt32(n int) int32 {
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(n)
}

func emptyPage() models.Page {
	return models.Page{Items: []models.SensorReading{}}
}
