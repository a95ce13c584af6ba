package intake

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/deepgram/intake/internal/domain/intake/models"
)

// Prompter supplies user input, returning io.EOF when there is no more
type Prompter interface {
	Prompt(ctx context.Context) (string, error)
}

// Renderer shows the outcome of each turn
type Renderer interface {
	Render(result *TurnResult)
}

// Run drives one session from start to a terminal state. A closed input
// stream is treated like the exit command.
func (s *Service) Run(ctx context.Context, apiKey, model string, in Prompter, out Renderer) (*models.SessionState, error) {
	state, err := s.Start(ctx, model)
	if err != nil {
		return nil, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return state, err
		}

		line, err := in.Prompt(ctx)
		if errors.Is(err, io.EOF) {
			line = models.ExitCommand
		} else if err != nil {
			return state, err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		result, err := s.Send(ctx, apiKey, state.ID, line)
		if err != nil {
			return state, err
		}
		out.Render(result)

		if result.Status.Finished() {
			return s.Get(ctx, state.ID)
		}
	}
}
