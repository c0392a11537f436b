package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Degagemain/degage-sub000/internal/estimate"
	"github.com/Degagemain/degage-sub000/internal/messages"
	"github.com/Degagemain/degage-sub000/internal/platform/config"
	httpmetrics "github.com/Degagemain/degage-sub000/internal/platform/metrics"
	"github.com/Degagemain/degage-sub000/internal/platform/postgres"
	"github.com/Degagemain/degage-sub000/internal/platform/redis"
	refstore "github.com/Degagemain/degage-sub000/internal/refdata/store"
	"github.com/Degagemain/degage-sub000/internal/simulation"
	"github.com/Degagemain/degage-sub000/internal/simulation/handler"
	simmetrics "github.com/Degagemain/degage-sub000/internal/simulation/metrics"
	"github.com/Degagemain/degage-sub000/internal/simulation/ports"
	"github.com/Degagemain/degage-sub000/internal/simulation/publisher"
	runstore "github.com/Degagemain/degage-sub000/internal/simulation/store"
	httptransport "github.com/Degagemain/degage-sub000/internal/transport/http"
	"github.com/Degagemain/degage-sub000/pkg/platform/circuit"
)

// app holds the wired service and the resources to release on shutdown.
type app struct {
	router    http.Handler
	storage   string
	estimator string
	events    string
	closers   []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

type referenceData interface {
	ports.ReferenceData
	estimate.NameLookup
}

func build(ctx context.Context, cfg config.Config, log *slog.Logger) (*app, error) {
	a := &app{}
	checks := map[string]httptransport.HealthCheck{}

	var (
		refData referenceData
		runs    simulation.Store
	)
	if cfg.Postgres.DSN != "" {
		pool, err := postgres.NewPool(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)
		db, err := postgres.OpenDB(ctx, cfg.Postgres.DSN)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = db.Close() })

		refData = refstore.NewPostgres(pool)
		runs = runstore.NewPostgres(db)
		checks["postgres"] = db.PingContext
		a.storage = "postgres"
	} else {
		mem, err := refstore.LoadFile(cfg.RefData.File)
		if err != nil {
			return nil, fmt.Errorf("load reference data: %w", err)
		}
		refData = mem
		runs = runstore.NewInMemoryStore()
		a.storage = "memory"
	}

	var est estimate.Estimator = estimate.NewStatic(cfg.Estimates.NewPriceBaseline)
	a.estimator = "static"
	if cfg.Gemini.APIKey != "" {
		breaker := circuit.New("gemini",
			circuit.WithFailureThreshold(cfg.Estimates.CircuitFailureThreshold),
			circuit.WithSuccessThreshold(cfg.Estimates.CircuitSuccessThreshold),
		)
		gemini, err := estimate.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, refData,
			estimate.WithGeminiLogger(log),
			estimate.WithBreaker(breaker),
		)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, gemini.Close)
		est = gemini
		a.estimator = "gemini"
	}

	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		a.Close()
		return nil, err
	}
	if rc != nil {
		a.closers = append(a.closers, func() { _ = rc.Close() })
		est = estimate.NewRedisCache(est, rc.Client, cfg.Estimates.CacheTTL, estimate.WithCacheLogger(log))
		checks["redis"] = rc.Health
		a.estimator += "+redis"
	}

	bundle, err := messages.Load(cfg.Server.DefaultLocale)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("load messages: %w", err)
	}

	metrics := simmetrics.New()
	engine := simulation.NewEngine(
		refData,
		est,
		est,
		estimate.NewInsurance(cfg.Insurance.BasePremium, cfg.Insurance.ValueRate),
		bundle,
		simulation.WithLogger(log),
		simulation.WithMetrics(metrics),
	)

	var pub publisher.Publisher = publisher.NewLogPublisher(log)
	a.events = "log"
	if len(cfg.Kafka.Brokers) > 0 {
		kafka, err := publisher.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic, publisher.WithLogger(log))
		if err != nil {
			a.Close()
			return nil, err
		}
		if err := kafka.EnsureTopic(ctx, 3, 1); err != nil {
			log.Warn("could not ensure event topic", "topic", cfg.Kafka.Topic, "error", err)
		}
		checks["kafka"] = kafka.Ping
		pub = publisher.NewAsync(kafka, 256,
			publisher.WithAsyncLogger(log),
			publisher.WithAsyncMetrics(metrics),
		)
		a.events = "kafka"
	}
	a.closers = append(a.closers, pub.Close)

	service := simulation.NewService(engine, runs,
		simulation.WithPublisher(pub),
		simulation.WithServiceLogger(log),
		simulation.WithServiceMetrics(metrics),
		simulation.WithDefaultLocale(bundle.Default().Locale().String()),
	)

	a.router = httptransport.NewRouter(httptransport.Config{
		Logger:   log,
		Messages: bundle,
		Metrics:  httpmetrics.New(),
		Checks:   checks,
		Handlers: []httptransport.Registrar{handler.New(service, log)},
	})
	return a, nil
}
