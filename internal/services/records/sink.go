package records

import (
	"context"
	"errors"

	"github.com/deepgram/intake/internal/domain/intake/models"
	"github.com/rs/zerolog/log"
)

// Sink stores one extracted record
type Sink interface {
	Write(ctx context.Context, record models.ExtractedRecord) error
}

// Fanout writes to a primary sink and then to any mirrors. Only the primary
// decides success; mirror failures are logged.
type Fanout struct {
	primary Sink
	mirrors []Sink
}

func NewFanout(primary Sink, mirrors ...Sink) *Fanout {
	f := &Fanout{primary: primary}
	for _, m := range mirrors {
		if m != nil {
			f.mirrors = append(f.mirrors, m)
		}
	}
	return f
}

func (f *Fanout) Write(ctx context.Context, record models.ExtractedRecord) error {
	if err := f.primary.Write(ctx, record); err != nil {
		return err
	}

	var errs []error
	for _, m := range f.mirrors {
		if err := m.Write(ctx, record); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		log.Warn().Err(err).Msg("Record mirror write failed")
	}
	return nil
}
