package simulation

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Degagemain/degage-sub000/internal/simulation/metrics"
	"github.com/Degagemain/degage-sub000/internal/simulation/models"
	id "github.com/Degagemain/degage-sub000/pkg/domain"
	dErrors "github.com/Degagemain/degage-sub000/pkg/domain-errors"
	"github.com/Degagemain/degage-sub000/pkg/platform/sentinel"
	"github.com/Degagemain/degage-sub000/pkg/requestcontext"
)

// Store persists completed runs.
type Store interface {
	Save(ctx context.Context, run *models.Run) error
	FindByID(ctx context.Context, runID id.RunID) (*models.Run, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Run, error)
}

// Publisher announces completed runs.
type Publisher interface {
	Publish(ctx context.Context, run *models.Run) error
}

// Runner executes the pipeline for one input.
type Runner interface {
	Run(ctx context.Context, in models.RunInput) *models.Result
}

// Service validates input, runs the engine, and records the outcome.
// Publishing is best effort: a failed publish never fails the request.
type Service struct {
	runner        Runner
	store         Store
	publisher     Publisher
	logger        *slog.Logger
	metrics       *metrics.Metrics
	defaultLocale string
}

type ServiceOption func(*Service)

func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = logger }
}

func WithServiceMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

func WithPublisher(p Publisher) ServiceOption {
	return func(s *Service) { s.publisher = p }
}

// WithDefaultLocale sets the locale recorded on runs whose request did not
// negotiate one.
func WithDefaultLocale(locale string) ServiceOption {
	return func(s *Service) { s.defaultLocale = locale }
}

func NewService(runner Runner, store Store, opts ...ServiceOption) *Service {
	s := &Service{
		runner:        runner,
		store:         store,
		defaultLocale: "en",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Simulate runs one simulation and stores it. Invalid input is rejected
// before the engine runs.
func (s *Service) Simulate(ctx context.Context, in models.RunInput) (*models.Run, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	result := s.runner.Run(ctx, in)
	run := &models.Run{
		ID:        id.NewRunID(),
		Input:     in,
		Result:    *result,
		Locale:    s.locale(ctx),
		CreatedAt: requestcontext.Now(ctx).UTC(),
	}

	if err := s.store.Save(ctx, run); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store simulation")
	}

	s.publish(ctx, run)

	if s.logger != nil {
		s.logger.InfoContext(ctx, "simulation completed",
			"request_id", requestcontext.RequestID(ctx),
			"run_id", run.ID,
			"result_code", run.Result.ResultCode,
			"steps", len(run.Result.Steps),
		)
	}
	return run, nil
}

func (s *Service) publish(ctx context.Context, run *models.Run) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, run); err != nil {
		s.metrics.IncrementPublishFailure()
		if s.logger != nil {
			s.logger.WarnContext(ctx, "failed to publish simulation event",
				"run_id", run.ID,
				"error", err,
			)
		}
	}
}

func (s *Service) Get(ctx context.Context, runID id.RunID) (*models.Run, error) {
	run, err := s.store.FindByID(ctx, runID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "simulation not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load simulation")
	}
	return run, nil
}

func (s *Service) List(ctx context.Context, filter models.ListFilter) ([]*models.Run, error) {
	if filter.Limit < 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "limit must not be negative")
	}
	runs, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list simulations")
	}
	return runs, nil
}

func (s *Service) locale(ctx context.Context) string {
	if l := requestcontext.Locale(ctx); l != "" {
		return l
	}
	return s.defaultLocale
}
