package records

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/deepgram/intake/internal/domain/intake/models"
	"github.com/google/uuid"
)

const pkPrefixRecord = "RECORD#"

// dynamodbAPI is the minimal DynamoDB interface required by DynamoSink
type dynamodbAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoSink mirrors records into a DynamoDB table keyed by a fresh id
type DynamoSink struct {
	api       dynamodbAPI
	tableName string
	now       func() time.Time
}

func NewDynamoSink(api dynamodbAPI, tableName string) (*DynamoSink, error) {
	if api == nil {
		return nil, errors.New("records: dynamodb api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("records: table name must not be empty")
	}
	return &DynamoSink{api: api, tableName: tableName, now: time.Now}, nil
}

func (s *DynamoSink) Write(ctx context.Context, record models.ExtractedRecord) error {
	item := map[string]types.AttributeValue{
		"PK":         &types.AttributeValueMemberS{Value: pkPrefixRecord + uuid.New().String()},
		"created_at": &types.AttributeValueMemberS{Value: s.now().UTC().Format(time.RFC3339Nano)},
	}
	for field, value := range record.Map() {
		item[field] = &types.AttributeValueMemberS{Value: value}
	}

	_, err := s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		return fmt.Errorf("records: PutItem: %w", err)
	}
	return nil
}
