package records

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/deepgram/intake/internal/domain/intake/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDynamo struct {
	putErr       error
	lastPutInput *dynamodb.PutItemInput
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.lastPutInput = in
	return &dynamodb.PutItemOutput{}, f.putErr
}

type recordingSink struct {
	err     error
	records []models.ExtractedRecord
}

func (s *recordingSink) Write(_ context.Context, record models.ExtractedRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestNewDynamoSinkValidation(t *testing.T) {
	_, err := NewDynamoSink(nil, "records")
	require.Error(t, err)

	_, err = NewDynamoSink(&fakeDynamo{}, "  ")
	require.Error(t, err)
}

func TestDynamoSinkWrite(t *testing.T) {
	api := &fakeDynamo{}
	sink, err := NewDynamoSink(api, "records")
	require.NoError(t, err)
	sink.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }

	require.NoError(t, sink.Write(context.Background(), jane()))

	in := api.lastPutInput
	require.NotNil(t, in)
	assert.Equal(t, "records", *in.TableName)

	pk, ok := in.Item["PK"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Contains(t, pk.Value, pkPrefixRecord)

	email, ok := in.Item[models.FieldEmail].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "jane@x.com", email.Value)

	created, ok := in.Item["created_at"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "2024-01-01T00:00:00Z", created.Value)
}

func TestDynamoSinkWriteError(t *testing.T) {
	sink, err := NewDynamoSink(&fakeDynamo{putErr: errors.New("throttled")}, "records")
	require.NoError(t, err)

	assert.ErrorContains(t, sink.Write(context.Background(), jane()), "throttled")
}

func TestFanout(t *testing.T) {
	t.Run("mirror failure does not fail the write", func(t *testing.T) {
		primary := &recordingSink{}
		mirror := &recordingSink{err: errors.New("down")}

		err := NewFanout(primary, mirror, nil).Write(context.Background(), jane())

		require.NoError(t, err)
		assert.Len(t, primary.records, 1)
		assert.Len(t, mirror.records, 1)
	})

	t.Run("primary failure skips mirrors", func(t *testing.T) {
		primary := &recordingSink{err: errors.New("disk full")}
		mirror := &recordingSink{}

		err := NewFanout(primary, mirror).Write(context.Background(), jane())

		require.Error(t, err)
		assert.Empty(t, mirror.records)
	})
}
