// Package simulation decides whether a car qualifies for the shared fleet and
// at which per-km rate.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Degagemain/degage-sub000/internal/cartax"
	"github.com/Degagemain/degage-sub000/internal/messages"
	"github.com/Degagemain/degage-sub000/internal/refdata"
	"github.com/Degagemain/degage-sub000/internal/simulation/metrics"
	"github.com/Degagemain/degage-sub000/internal/simulation/models"
	"github.com/Degagemain/degage-sub000/internal/simulation/ports"
	"github.com/Degagemain/degage-sub000/pkg/requestcontext"
)

const tracerName = "github.com/Degagemain/degage-sub000/internal/simulation"

var (
	ErrNoBenchmark           = errors.New("no hub benchmark")
	ErrInvalidDepreciationKm = errors.New("hub depreciation km must be positive")
	ErrNoYearlyMileage       = errors.New("estimated yearly mileage must be positive")
)

// Engine runs the eligibility and pricing pipeline. It holds no per-run
// state and is safe for concurrent use.
type Engine struct {
	refdata   ports.ReferenceData
	values    ports.ValueEstimator
	specs     ports.SpecEstimator
	insurance ports.InsuranceEstimator
	tax       *cartax.Calculator
	messages  messages.Source
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
	clock     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) { e.tracer = t }
}

// WithClock sets the source of "today" for runs whose context carries no
// request time.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

func NewEngine(
	rd ports.ReferenceData,
	values ports.ValueEstimator,
	specs ports.SpecEstimator,
	insurance ports.InsuranceEstimator,
	msgs messages.Source,
	opts ...Option,
) *Engine {
	e := &Engine{
		refdata:   rd,
		values:    values,
		specs:     specs,
		insurance: insurance,
		tax:       cartax.NewCalculator(rd, msgs),
		messages:  msgs,
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.tracer == nil {
		e.tracer = otel.Tracer(tracerName)
	}
	return e
}

// run is the state of one pipeline execution. Only the goroutine calling
// Engine.Run touches it.
type run struct {
	in    models.RunInput
	res   *models.Result
	f     messages.Formatter
	today time.Time

	town      refdata.Town
	hub       refdata.Hub
	fuel      refdata.FuelType
	carType   *refdata.CarType
	query     ports.CarQuery
	carInfo   models.CarInfo
	figures   models.Figures
	depKm     int
	buildYear int
}

type stage struct {
	phase models.Phase
	fn    func(ctx context.Context, r *run) (proceed bool, err error)
}

// Run executes the pipeline and always returns a completed result. Business
// rejections end the run as NOT_OK; any error or panic in a stage ends it
// as MANUAL_REVIEW with a single ERROR step naming the phase.
func (e *Engine) Run(ctx context.Context, in models.RunInput) *models.Result {
	start := time.Now()
	r := &run{
		in:    in,
		res:   models.NewResult(),
		f:     e.messages.For(ctx),
		today: e.today(ctx),
	}

	ctx, span := e.tracer.Start(ctx, "simulation.run")
	defer span.End()

	if err := e.execute(ctx, r); err != nil {
		e.fail(ctx, r, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "run downgraded to manual review")
	}
	r.res.Figures = r.figures
	span.SetAttributes(attribute.String("simulation.result_code", string(r.res.ResultCode)))

	elapsed := time.Since(start)
	e.metrics.IncrementOutcome(string(r.res.ResultCode))
	e.metrics.ObserveRunLatency(elapsed)
	if e.logger != nil {
		e.logger.InfoContext(ctx, "simulation run completed",
			"request_id", requestcontext.RequestID(ctx),
			"result_code", r.res.ResultCode,
			"phase", r.res.Phase,
			"steps", len(r.res.Steps),
			"duration_ms", elapsed.Milliseconds(),
		)
	}
	return r.res
}

func (e *Engine) execute(ctx context.Context, r *run) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
			if e.logger != nil {
				e.logger.ErrorContext(ctx, "simulation stage panicked",
					"phase", r.res.Phase,
					"panic", p,
					"stack", string(debug.Stack()),
				)
			}
		}
	}()

	stages := []stage{
		{models.PhaseInitialChecks, e.initialChecks},
		{models.PhasePriceEstimation, e.estimatePrice},
		{models.PhaseCarInfo, e.resolveCarInfo},
		{models.PhaseCarTax, e.calculateTax},
		{models.PhaseCarInsurance, e.estimateInsurance},
		{models.PhaseKmRate, e.calculateKmRate},
	}
	for _, st := range stages {
		r.res.Phase = st.phase
		proceed, err := e.runStage(ctx, r, st)
		if err != nil {
			return fmt.Errorf("%s: %w", st.phase, err)
		}
		if !proceed {
			return nil
		}
	}

	if !e.scoreBonus(r) {
		return nil
	}
	e.categorize(r)
	return nil
}

func (e *Engine) runStage(ctx context.Context, r *run, st stage) (bool, error) {
	ctx, span := e.tracer.Start(ctx, "simulation."+strings.ToLower(string(st.phase)))
	defer span.End()

	proceed, err := st.fn(ctx, r)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(attribute.Bool("simulation.proceed", proceed))
	return proceed, err
}

// fail replaces whatever the run reached with MANUAL_REVIEW.
func (e *Engine) fail(ctx context.Context, r *run, err error) {
	phase := r.res.Phase
	if !phase.IsValid() {
		phase = models.PhaseUnknown
	}
	r.res.Phase = phase
	r.res.ResultCode = models.ResultManualReview
	r.res.RejectionReason = ""
	r.res.AddStep(models.Step{
		Code:   models.StepErrorDuringStep,
		Status: models.StatusError,
		Message: r.f.Message(models.StepKey(models.StepErrorDuringStep, models.StatusError), messages.Params{
			"phase": r.f.Message(models.PhaseKey(phase), nil),
		}),
		Phase: phase,
	})

	e.metrics.IncrementFailure(string(phase))
	if e.logger != nil {
		e.logger.ErrorContext(ctx, "simulation run failed",
			"request_id", requestcontext.RequestID(ctx),
			"phase", phase,
			"error", err,
		)
	}
}

func (e *Engine) today(ctx context.Context) time.Time {
	if t, ok := requestcontext.TimeFrom(ctx); ok {
		return t
	}
	return e.clock()
}

func (r *run) step(code models.StepCode, status models.StepStatus, params messages.Params) {
	r.res.AddStep(models.Step{
		Code:    code,
		Status:  status,
		Message: r.f.Message(models.StepKey(code, status), params),
	})
}

func (r *run) reject(key string, params messages.Params) {
	r.res.Reject(r.f.Message(key, params))
}
