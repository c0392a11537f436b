// Command simulate runs a batch of simulation inputs against a reference
// data file and prints one line per run. It uses the static estimator and
// in-memory stores, so it needs no external services.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/Degagemain/degage-sub000/internal/estimate"
	"github.com/Degagemain/degage-sub000/internal/messages"
	"github.com/Degagemain/degage-sub000/internal/platform/logger"
	refstore "github.com/Degagemain/degage-sub000/internal/refdata/store"
	"github.com/Degagemain/degage-sub000/internal/simulation"
	"github.com/Degagemain/degage-sub000/internal/simulation/models"
	"github.com/Degagemain/degage-sub000/internal/simulation/report"
	runstore "github.com/Degagemain/degage-sub000/internal/simulation/store"
	"github.com/Degagemain/degage-sub000/pkg/requestcontext"
)

type options struct {
	refdata     string
	inputs      string
	locale      string
	today       string
	xlsx        string
	concurrency int
	baseline    float64
	logLevel    string
}

func main() {
	var opts options
	flag.StringVar(&opts.refdata, "refdata", "testdata/refdata.yaml", "reference data YAML file")
	flag.StringVar(&opts.inputs, "inputs", "cmd/simulate/testdata/inputs.yaml", "simulation inputs YAML file")
	flag.StringVar(&opts.locale, "locale", "nl", "message locale")
	flag.StringVar(&opts.today, "today", "", "evaluation date (YYYY-MM-DD), defaults to the current date")
	flag.StringVar(&opts.xlsx, "xlsx", "", "write an XLSX report of all runs to this path")
	flag.IntVar(&opts.concurrency, "concurrency", 4, "maximum simultaneous runs")
	flag.Float64Var(&opts.baseline, "baseline", 30000, "new price baseline for the static estimator")
	flag.StringVar(&opts.logLevel, "log-level", "warn", "log level")
	flag.Parse()

	log := logger.New(opts.logLevel, "text")
	if err := run(context.Background(), opts, os.Stdout, log); err != nil {
		fmt.Fprintln(os.Stderr, "simulate:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, out io.Writer, log *slog.Logger) error {
	rd, err := refstore.LoadFile(opts.refdata)
	if err != nil {
		return fmt.Errorf("load reference data: %w", err)
	}
	inputs, err := loadInputs(opts.inputs)
	if err != nil {
		return err
	}
	bundle, err := messages.Load(opts.locale)
	if err != nil {
		return fmt.Errorf("load messages: %w", err)
	}

	ctx = requestcontext.WithLocale(ctx, opts.locale)
	if opts.today != "" {
		today, err := time.Parse("2006-01-02", opts.today)
		if err != nil {
			return fmt.Errorf("parse -today: %w", err)
		}
		ctx = requestcontext.WithTime(ctx, today)
	}

	est := estimate.NewStatic(opts.baseline)
	engine := simulation.NewEngine(rd, est, est, estimate.NewInsurance(350, 0.025), bundle,
		simulation.WithLogger(log),
	)
	service := simulation.NewService(engine, runstore.NewInMemoryStore(),
		simulation.WithServiceLogger(log),
		simulation.WithDefaultLocale(opts.locale),
	)

	runs := make([]*models.Run, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	if opts.concurrency > 0 {
		g.SetLimit(opts.concurrency)
	}
	for i, in := range inputs {
		g.Go(func() error {
			r, err := service.Simulate(gctx, in)
			if err != nil {
				return fmt.Errorf("input %d: %w", i+1, err)
			}
			runs[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, r := range runs {
		fmt.Fprintf(out, "%d\t%s\t%s\tkm_cost=%.4f\tbonus=%d\t%s\n",
			i+1, r.Input.TownID, r.Result.ResultCode, r.Result.Figures.KmCost,
			r.Result.Figures.BonusPoints, r.Result.RejectionReason)
	}

	if opts.xlsx != "" {
		data, err := report.BuildRunsXLSX(runs)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.xlsx, data, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	return nil
}

type inputFile struct {
	Simulations []models.RunInput `yaml:"simulations"`
}

func loadInputs(path string) ([]models.RunInput, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read inputs: %w", err)
	}
	var f inputFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse inputs: %w", err)
	}
	if len(f.Simulations) == 0 {
		return nil, fmt.Errorf("no simulations in %s", path)
	}
	return f.Simulations, nil
}
