package career

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"zymo/internal/logging"
	"zymo/internal/metrics"
	"zymo/internal/queue"
	"zymo/internal/storage"
)

var (
	// ErrDuplicate reports that an application with the email already exists.
	ErrDuplicate = errors.New("application already submitted for email")
	// ErrValidation reports a missing or invalid mandatory field.
	ErrValidation = errors.New("mandatory field missing")
	// ErrNotPDF reports a résumé that is not a PDF.
	ErrNotPDF = errors.New("resume must be a pdf")
	// ErrSubmission reports a failure talking to storage or the document store.
	ErrSubmission = errors.New("submission failed")
	// ErrApplicationNotFound reports an unknown application id.
	ErrApplicationNotFound = errors.New("application not found")
)

// User-facing messages.
const (
	AlertDuplicate  = "Form already submitted with this email. Cannot submit again."
	AlertValidation = "All fields are required!"
	AlertNotPDF     = "Please upload only PDF files"
	AlertSubmission = "Error submitting application. Please try again."
)

// Alert maps a Submit or AttachResume error to the message shown to the
// applicant.
func Alert(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDuplicate):
		return AlertDuplicate
	case errors.Is(err, ErrValidation):
		return AlertValidation
	case errors.Is(err, ErrNotPDF):
		return AlertNotPDF
	default:
		return AlertSubmission
	}
}

// Repository stores application documents.
type Repository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Insert(ctx context.Context, app *Application) error
}

// Publisher announces stored applications.
type Publisher interface {
	Publish(ctx context.Context, msg queue.Message) error
}

// Service runs the submission sequence.
type Service struct {
	repo    Repository
	objects storage.ObjectStore
	pub     Publisher
	clock   Clock
	newID   func() string
	logger  zerolog.Logger
}

// NewService wires a service. pub may be nil.
func NewService(repo Repository, objects storage.ObjectStore, pub Publisher, clock Clock) *Service {
	if clock == nil {
		clock = SystemClock()
	}
	return &Service{
		repo:    repo,
		objects: objects,
		pub:     pub,
		clock:   clock,
		newID:   uuid.NewString,
		logger:  logging.PackageLogger("career"),
	}
}

// Submit checks for a previous application with the same email, validates
// the form, uploads the résumé and stores the application, in that order.
// Nothing is retried. The duplicate check and the insert are separate
// round trips, so concurrent submissions with one email can both succeed.
func (s *Service) Submit(ctx context.Context, form Form) (Application, error) {
	form.Normalize()
	log := s.logger.With().Str(logging.EMAIL, form.Email).Logger()

	exists, err := s.repo.ExistsByEmail(ctx, form.Email)
	if err != nil {
		log.Error().Err(err).Msg("duplicate check failed")
		metrics.CareerSubmissions.WithLabelValues(metrics.OutcomeFailed).Inc()
		return Application{}, fmt.Errorf("%w: duplicate check: %v", ErrSubmission, err)
	}
	if exists {
		log.Info().Str(logging.EVENT, "duplicate").Msg("application already on file")
		metrics.CareerSubmissions.WithLabelValues(metrics.OutcomeDuplicate).Inc()
		return Application{}, ErrDuplicate
	}

	if err := form.Validate(); err != nil {
		log.Debug().Err(err).Msg("validation failed")
		metrics.CareerSubmissions.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return Application{}, err
	}

	var resumeURL string
	if form.Resume != nil {
		resumeURL, err = s.upload(ctx, form)
		if err != nil {
			log.Error().Err(err).Msg("resume upload failed")
			metrics.CareerSubmissions.WithLabelValues(metrics.OutcomeFailed).Inc()
			return Application{}, fmt.Errorf("%w: %v", ErrSubmission, err)
		}
	}

	app := Application{
		ID:     s.newID(),
		Status: StatusReceived,
		Record: form.Record(resumeURL, s.clock.Now().UTC()),
	}
	if err := s.repo.Insert(ctx, &app); err != nil {
		log.Error().Err(err).Msg("persist application failed")
		metrics.CareerSubmissions.WithLabelValues(metrics.OutcomeFailed).Inc()
		return Application{}, fmt.Errorf("%w: %v", ErrSubmission, err)
	}
	metrics.CareerSubmissions.WithLabelValues(metrics.OutcomeAccepted).Inc()
	log.Info().Str(logging.ID, app.ID).Str(logging.EVENT, "submitted").Msg("application stored")

	if s.pub != nil {
		msg := queue.Message{Type: queue.TypeApplicationSubmitted, Body: []byte(app.ID)}
		if err := s.pub.Publish(ctx, msg); err != nil {
			log.Warn().Err(err).Str(logging.ID, app.ID).Msg("queue publish failed")
		}
	}
	return app, nil
}

func (s *Service) upload(ctx context.Context, form Form) (string, error) {
	key := ResumeKey(form.Email, s.clock.Now())
	meta := storage.Metadata{
		ContentType:        pdfType,
		ContentDisposition: ResumeDisposition(form.Email),
	}

	start := time.Now()
	if err := s.objects.Put(ctx, key, bytes.NewReader(form.Resume.Data), meta); err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	metrics.ResumeUploadSeconds.Observe(time.Since(start).Seconds())

	url, err := s.objects.URL(ctx, key)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", key, err)
	}
	return url, nil
}
