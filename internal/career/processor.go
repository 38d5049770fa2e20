package career

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"zymo/internal/logging"
	"zymo/internal/metrics"
	"zymo/internal/queue"
)

// StatusStore reads and updates stored applications.
type StatusStore interface {
	Get(ctx context.Context, id string) (Application, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// Processor handles queued application messages.
type Processor struct {
	repo   StatusStore
	logger zerolog.Logger
}

// NewProcessor creates a processor.
func NewProcessor(repo StatusStore) *Processor {
	return &Processor{repo: repo, logger: logging.PackageLogger("career.worker")}
}

// Handle acknowledges a submitted application. Messages of other types
// are skipped. Already acknowledged applications are left untouched.
func (p *Processor) Handle(ctx context.Context, msg queue.Message) error {
	if msg.Type != queue.TypeApplicationSubmitted {
		metrics.WorkerMessages.WithLabelValues(msg.Type, "skipped").Inc()
		return nil
	}
	id := string(msg.Body)
	log := p.logger.With().Str(logging.ID, id).Logger()

	app, err := p.repo.Get(ctx, id)
	if err != nil {
		metrics.WorkerMessages.WithLabelValues(msg.Type, "failed").Inc()
		if errors.Is(err, ErrApplicationNotFound) {
			log.Warn().Msg("application vanished before processing")
			return err
		}
		return fmt.Errorf("fetch application %s: %w", id, err)
	}
	if app.Status != StatusReceived {
		metrics.WorkerMessages.WithLabelValues(msg.Type, "skipped").Inc()
		log.Debug().Str(logging.STATE, app.Status).Msg("already processed")
		return nil
	}

	if err := p.repo.UpdateStatus(ctx, id, StatusAcknowledged); err != nil {
		metrics.WorkerMessages.WithLabelValues(msg.Type, "failed").Inc()
		return fmt.Errorf("acknowledge %s: %w", id, err)
	}
	metrics.WorkerMessages.WithLabelValues(msg.Type, "processed").Inc()
	log.Info().
		Str(logging.EMAIL, app.Email).
		Str("apply_for", app.ApplyFor).
		Str("job_type", app.JobType).
		Msg("application acknowledged")
	return nil
}

// Run handles messages until the channel closes. Failures are logged and
// the message is dropped.
func (p *Processor) Run(ctx context.Context, msgs <-chan queue.Message) {
	for msg := range msgs {
		if err := p.Handle(ctx, msg); err != nil {
			p.logger.Error().Err(err).Str(logging.EVENT, msg.Type).Msg("process message failed")
		}
	}
}
