package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/deepgram/intake/internal/config"
	"github.com/deepgram/intake/internal/connections"
	"github.com/deepgram/intake/internal/infrastructure/dynamodb"
	"github.com/deepgram/intake/internal/infrastructure/openai"
	"github.com/deepgram/intake/internal/infrastructure/redis"
	"github.com/deepgram/intake/internal/services/intake"
	"github.com/deepgram/intake/internal/services/records"
	"github.com/deepgram/intake/internal/services/session"
	"github.com/rs/zerolog/log"
)

var (
	// Mutex for thread-safe initialization
	servicesMu sync.RWMutex
)

type Services struct {
	openAIService  *openai.Service
	redisService   *redis.Service
	sessionService *session.Service
	recordSink     records.Sink
	intakeService  *intake.Service
	connManager    *connections.Manager
}

// InitializeServices initializes all required services
func InitializeServices(ctx context.Context) (*Services, error) {
	servicesMu.Lock()
	defer servicesMu.Unlock()

	log.Info().Msg("Initializing core services")

	// Initialize Redis service (optional)
	redisService := redis.NewService()
	log.Info().Msg("Initializing Redis service")

	// Initialize session service with optional Redis
	sessionService := session.NewService(redisService, config.GetSessionTTL())
	log.Info().Msg("Initializing session service")

	intakeConfig := config.GetIntakeConfig()

	// CSV is the record of truth; DynamoDB is an optional mirror
	csvWriter := records.NewCSVWriter(intakeConfig.OutputPath)
	var mirrors []records.Sink
	dynamoClient, table, err := dynamodb.NewClient(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize DynamoDB mirror - continuing without it")
	} else if dynamoClient != nil {
		sink, err := records.NewDynamoSink(dynamoClient, table)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize record mirror: %w", err)
		}
		mirrors = append(mirrors, sink)
	}
	recordSink := records.NewFanout(csvWriter, mirrors...)
	log.Info().Str("path", csvWriter.Path()).Msg("Initializing record writer")

	openAIService := openai.NewService()

	intakeService := intake.NewService(
		OpenAIClients(openAIService),
		sessionService,
		recordSink,
		intake.ConfigFromEnv(intakeConfig),
	)
	log.Info().Msg("Initializing intake service")

	log.Info().Msg("All services initialized successfully")

	return &Services{
		openAIService:  openAIService,
		redisService:   redisService,
		sessionService: sessionService,
		recordSink:     recordSink,
		intakeService:  intakeService,
		connManager:    connections.NewManager(connections.DefaultTimeouts),
	}, nil
}

// NewServices assembles Services from already built parts, e.g. in tests
func NewServices(sessionService *session.Service, intakeService *intake.Service) *Services {
	return &Services{
		sessionService: sessionService,
		intakeService:  intakeService,
		connManager:    connections.NewManager(connections.DefaultTimeouts),
	}
}

// OpenAIClients adapts the OpenAI service to the intake client factory
func OpenAIClients(svc *openai.Service) intake.ClientFactory {
	return func(apiKey string) (intake.API, error) {
		client, err := svc.Client(apiKey)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// GetIntakeService returns the intake service
func (s *Services) GetIntakeService() *intake.Service {
	return s.intakeService
}

// GetSessionService returns the session service
func (s *Services) GetSessionService() *session.Service {
	return s.sessionService
}

// GetConnectionManager returns the registry of open chat sockets
func (s *Services) GetConnectionManager() *connections.Manager {
	return s.connManager
}

// Close drops open chat sockets and releases external connections
func (s *Services) Close() error {
	if s.connManager != nil {
		s.connManager.CloseAll()
	}
	if s.redisService != nil {
		return s.redisService.Close()
	}
	return nil
}
