package intake

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/deepgram/intake/internal/config"
	"github.com/deepgram/intake/internal/domain/intake/models"
	"github.com/deepgram/intake/internal/services/conversation"
	"github.com/deepgram/intake/internal/services/extraction"
	"github.com/deepgram/intake/internal/services/records"
	"github.com/deepgram/intake/internal/services/session"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	// ErrSessionFinished is returned when a message is sent to a completed or aborted session
	ErrSessionFinished = errors.New("session already finished")
	// ErrUnsupportedModel is returned when a session is started with an unknown model
	ErrUnsupportedModel = errors.New("unsupported model")
)

// API is everything the intake flow calls on the hosted model provider
type API interface {
	conversation.AssistantAPI
	extraction.ChatCompleter
}

// ClientFactory returns a provider client for a user-supplied key
type ClientFactory func(apiKey string) (API, error)

type Config struct {
	DefaultModel    string
	ExtractionModel string
	Poll            conversation.PollConfig
}

// ConfigFromEnv maps the environment settings onto Config
func ConfigFromEnv(cfg config.IntakeConfig) Config {
	return Config{
		DefaultModel:    cfg.DefaultModel,
		ExtractionModel: cfg.ExtractionModel,
		Poll: conversation.PollConfig{
			Interval:    cfg.PollInterval,
			MaxAttempts: cfg.PollMaxAttempts,
		},
	}
}

// TurnResult describes what one user message did to a session. Err carries
// a failure that did not end the session, e.g. a run that timed out.
type TurnResult struct {
	SessionID string                  `json:"session_id"`
	Status    models.Status           `json:"status"`
	Progress  bool                    `json:"progress"`
	Exchange  *models.Exchange        `json:"exchange,omitempty"`
	Record    *models.ExtractedRecord `json:"record,omitempty"`
	Err       error                   `json:"-"`
}

// Service runs intake sessions: the conversation turns, completion
// detection, extraction and record writing.
type Service struct {
	clients  ClientFactory
	sessions *session.Service
	sink     records.Sink
	cfg      Config
	locks    sync.Map
}

func NewService(clients ClientFactory, sessions *session.Service, sink records.Sink, cfg Config) *Service {
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = "gpt-4"
	}
	return &Service{
		clients:  clients,
		sessions: sessions,
		sink:     sink,
		cfg:      cfg,
	}
}

// IsComplete reports whether an assistant reply closes the intake
func IsComplete(content string) bool {
	return strings.Contains(content, models.CompletionPhrase)
}

// Start opens a new session. The assistant and thread are created on the first message.
func (s *Service) Start(ctx context.Context, model string) (*models.SessionState, error) {
	if model == "" {
		model = s.cfg.DefaultModel
	}
	if !config.IsSupportedModel(model) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedModel, model)
	}

	now := time.Now().UTC()
	state := &models.SessionState{
		ID:         uuid.New().String(),
		Model:      model,
		Status:     models.StatusRunning,
		Transcript: models.Transcript{},
		CreatedAt:  now,
	}
	if err := s.sessions.Save(ctx, state); err != nil {
		return nil, err
	}

	log.Info().Str("session_id", state.ID).Str("model", model).Msg("Intake session started")
	return state, nil
}

// Get returns the current state of a session
func (s *Service) Get(ctx context.Context, sessionID string) (*models.SessionState, error) {
	return s.sessions.Load(ctx, sessionID)
}

// Send feeds one user message into a session
func (s *Service) Send(ctx context.Context, apiKey, sessionID, input string) (*TurnResult, error) {
	lock := s.lock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	state, err := s.sessions.Load(ctx, sessionID)
	if errors.Is(err, session.ErrSessionNotFound) {
		s.locks.Delete(sessionID)
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	if state.Status.Finished() {
		return nil, ErrSessionFinished
	}

	api, err := s.clients(apiKey)
	if err != nil {
		return nil, err
	}
	driver := conversation.NewDriver(api, s.cfg.Poll)

	result := &TurnResult{SessionID: sessionID, Status: state.Status}
	logCtx := log.With().Str("session_id", sessionID).Logger()

	exchange, err := driver.Turn(ctx, state, input)
	switch {
	case errors.Is(err, conversation.ErrExitRequested):
		logCtx.Info().Msg("User requested exit, session aborted")
		state.Status = models.StatusAborted
		driver.Close(ctx, state)
	case err != nil:
		logCtx.Error().Err(err).Msg("Turn made no progress")
		result.Err = err
	default:
		state.AppendExchange(*exchange)
		logCtx.Info().Str("role", exchange.User.Role).Msg(exchange.User.Content)
		logCtx.Info().Str("role", exchange.Assistant.Role).Msg(exchange.Assistant.Content)
		result.Exchange = exchange
		result.Progress = true

		if IsComplete(exchange.Assistant.Content) {
			logCtx.Info().Int("messages", len(state.Transcript)).Msg("Intake complete, extracting record")
			state.Status = models.StatusComplete
			record, ferr := s.finish(ctx, api, state)
			result.Record = record
			result.Err = ferr
			driver.Close(ctx, state)
		}
	}

	if err := s.sessions.Save(ctx, state); err != nil {
		return nil, err
	}
	if state.Status.Finished() {
		s.locks.Delete(sessionID)
	}

	result.Status = state.Status
	return result, nil
}

// finish extracts the record from the transcript and hands it to the sink
func (s *Service) finish(ctx context.Context, api API, state *models.SessionState) (*models.ExtractedRecord, error) {
	raw, err := extraction.NewClient(api, s.cfg.ExtractionModel).Extract(ctx, state.Transcript)
	if err != nil {
		log.Error().Err(err).Str("session_id", state.ID).Msg("Extraction failed")
		return nil, err
	}

	record, err := extraction.ParseRecord(raw)
	if err != nil {
		log.Error().Err(err).Str("session_id", state.ID).Str("raw", raw).Msg("Extraction returned an unusable record")
		return nil, err
	}
	state.Record = &record

	if err := s.sink.Write(ctx, record); err != nil {
		log.Error().Err(err).Str("session_id", state.ID).Msg("Failed to write record")
		return &record, fmt.Errorf("failed to write record: %w", err)
	}

	log.Info().Str("session_id", state.ID).Msg("Record written")
	return &record, nil
}

func (s *Service) lock(sessionID string) *sync.Mutex {
	l, _ := s.locks.LoadOrStore(sessionID, &sync.Mutex{})
	return l.(*sync.Mutex)
}
