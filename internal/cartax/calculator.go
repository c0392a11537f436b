// Package cartax computes the yearly road tax of a vehicle from the fiscal
// tables of its region.
package cartax

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Degagemain/degage-sub000/internal/messages"
	"github.com/Degagemain/degage-sub000/internal/refdata"
	"github.com/Degagemain/degage-sub000/internal/simulation/models"
	"github.com/Degagemain/degage-sub000/pkg/money"
	"github.com/Degagemain/degage-sub000/pkg/platform/sentinel"
)

const (
	// ccPerExtraPk is the displacement step above the highest band.
	ccPerExtraPk = 200
	// extraPkRate is the yearly surcharge per started step.
	extraPkRate = 134
	// opdeciemFactor is the flat surcharge on pre-2016 registrations.
	opdeciemFactor = 1.10
)

var opdeciemCutover = time.Date(2016, time.January, 1, 0, 0, 0, 0, time.UTC)

var (
	ErrNonDefaultFiscalRegion = errors.New("car tax is only computed for the default fiscal region")
	ErrMissingCombustionData  = errors.New("cylinder capacity, CO2 emission and euro norm are required for combustion engines")
	ErrNoTaxBand              = errors.New("no applicable car tax band")
	ErrNoEuroNormAdjustment   = errors.New("no euro norm adjustment for fiscal region")
)

// RateLookup is the slice of reference data the calculator reads.
type RateLookup interface {
	EuroNorm(ctx context.Context, id string) (refdata.EuroNorm, error)
	FindBaseRate(ctx context.Context, fiscalRegionID string, date time.Time, cc int) (refdata.CarTaxBaseRate, error)
	FindHighestBaseRate(ctx context.Context, fiscalRegionID string, date time.Time) (refdata.CarTaxBaseRate, error)
	FindFlatRate(ctx context.Context, fiscalRegionID string, date time.Time) (refdata.CarTaxFlatRate, error)
	FindEuroNormAdjustment(ctx context.Context, fiscalRegionID string, euroNormGroup int) (refdata.CarTaxEuroNormAdjustment, error)
}

// Input is what the tax depends on. CylinderCc, Co2Emission and EuroNormID
// may be zero only for electric fuel.
type Input struct {
	FiscalRegion      refdata.FiscalRegion
	FuelType          refdata.FuelType
	FirstRegisteredAt time.Time
	CylinderCc        int
	Co2Emission       float64
	EuroNormID        string
}

// Result is the yearly tax and the steps explaining it.
type Result struct {
	Rate  float64
	Steps []models.Step
}

// Calculator composes the rate lookups with the CO2 and euro norm rules.
type Calculator struct {
	rates    RateLookup
	messages messages.Source
}

func NewCalculator(rates RateLookup, msgs messages.Source) *Calculator {
	return &Calculator{rates: rates, messages: msgs}
}

// Calculate returns the yearly road tax. Data-integrity problems are
// returned as errors wrapping one of the package sentinels.
func (c *Calculator) Calculate(ctx context.Context, in Input) (Result, error) {
	if !in.FiscalRegion.IsDefault {
		return Result{}, fmt.Errorf("fiscal region %q: %w", in.FiscalRegion.Code, ErrNonDefaultFiscalRegion)
	}

	f := c.messages.For(ctx)
	if in.FuelType.IsElectric() {
		return c.electric(ctx, f, in)
	}

	if in.CylinderCc <= 0 || in.Co2Emission <= 0 || in.EuroNormID == "" {
		return Result{}, ErrMissingCombustionData
	}
	return c.combustion(ctx, f, in)
}

func (c *Calculator) electric(ctx context.Context, f messages.Formatter, in Input) (Result, error) {
	var flat float64
	fr, err := c.rates.FindFlatRate(ctx, in.FiscalRegion.ID, in.FirstRegisteredAt)
	switch {
	case err == nil:
		flat = fr.Rate
	case !errors.Is(err, sentinel.ErrNotFound):
		return Result{}, fmt.Errorf("flat rate: %w", err)
	}

	rate := money.RoundWhole(flat)
	return Result{
		Rate:  rate,
		Steps: []models.Step{info(f, models.StepCarTaxFlatRate, messages.Params{"rate": rate})},
	}, nil
}

func (c *Calculator) combustion(ctx context.Context, f messages.Formatter, in Input) (Result, error) {
	base, extraPk, err := c.baseRate(ctx, in.FiscalRegion.ID, in.FirstRegisteredAt, in.CylinderCc)
	if err != nil {
		return Result{}, err
	}

	rate := money.RoundWhole(base.Rate + float64(extraPk*extraPkRate))
	steps := []models.Step{info(f, models.StepCarTaxBaseRate, messages.Params{
		"rate":     rate,
		"cc":       in.CylinderCc,
		"extra_pk": extraPk,
	})}

	if !onOrAfter(in.FirstRegisteredAt, opdeciemCutover) {
		return Result{Rate: rate * opdeciemFactor, Steps: steps}, nil
	}

	co2 := CalculateCo2Diff(in.FirstRegisteredAt, in.Co2Emission, rate)
	steps = append(steps, info(f, models.StepCarTaxCo2, messages.Params{
		"diff": money.RoundWhole(co2.Co2Diff),
		"co2":  in.Co2Emission,
	}))

	norm, err := c.rates.EuroNorm(ctx, in.EuroNormID)
	if err != nil {
		return Result{}, fmt.Errorf("euro norm %q: %w", in.EuroNormID, err)
	}
	adj, err := c.rates.FindEuroNormAdjustment(ctx, in.FiscalRegion.ID, norm.Group)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Result{}, fmt.Errorf("group %d: %w", norm.Group, ErrNoEuroNormAdjustment)
		}
		return Result{}, fmt.Errorf("euro norm adjustment: %w", err)
	}

	adjustment := adj.DefaultAdjustment
	if in.FuelType.IsDiesel() {
		adjustment = adj.DieselAdjustment
	}
	euroNormDiff := rate * adjustment
	steps = append(steps, info(f, models.StepCarTaxEuroNorm, messages.Params{
		"diff":      money.RoundWhole(euroNormDiff),
		"euro_norm": norm.Code,
	}))

	return Result{
		Rate:  money.RoundWhole(rate + co2.Co2Diff + euroNormDiff),
		Steps: steps,
	}, nil
}

// baseRate finds the band covering cc. Without an exact band it falls back
// to the highest band and charges extraPkRate per started ccPerExtraPk above
// it; a fallback band that still exceeds cc means the tables have a gap.
func (c *Calculator) baseRate(ctx context.Context, regionID string, date time.Time, cc int) (refdata.CarTaxBaseRate, int, error) {
	exact, err := c.rates.FindBaseRate(ctx, regionID, date, cc)
	if err == nil {
		return exact, 0, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return refdata.CarTaxBaseRate{}, 0, fmt.Errorf("base rate: %w", err)
	}

	highest, err := c.rates.FindHighestBaseRate(ctx, regionID, date)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return refdata.CarTaxBaseRate{}, 0, fmt.Errorf("%d cc on %s: %w", cc, date.Format(time.DateOnly), ErrNoTaxBand)
		}
		return refdata.CarTaxBaseRate{}, 0, fmt.Errorf("highest base rate: %w", err)
	}
	if highest.MaxCc > cc {
		return refdata.CarTaxBaseRate{}, 0, fmt.Errorf("%d cc below highest band %d: %w", cc, highest.MaxCc, ErrNoTaxBand)
	}

	extraCc := cc - highest.MaxCc
	extraPk := int(math.Ceil(float64(extraCc) / ccPerExtraPk))
	return highest, extraPk, nil
}

func info(f messages.Formatter, code models.StepCode, params messages.Params) models.Step {
	return models.Step{
		Code:    code,
		Status:  models.StatusInfo,
		Message: f.Message(models.StepKey(code, models.StatusInfo), params),
	}
}
