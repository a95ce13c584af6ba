package dynamodb

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/deepgram/intake/internal/config"
	"github.com/rs/zerolog/log"
)

// NewClient returns a DynamoDB client and the records table name, or nil
// when no table is configured.
func NewClient(ctx context.Context) (*awsdynamodb.Client, string, error) {
	table := config.GetRecordsTable()
	if table == "" {
		log.Info().Msg("DynamoDB records table not configured - mirror disabled")
		return nil, "", nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Info().Str("table", table).Msg("DynamoDB records mirror enabled")
	return awsdynamodb.NewFromConfig(cfg), table, nil
}
