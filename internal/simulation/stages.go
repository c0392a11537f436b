package simulation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Degagemain/degage-sub000/internal/cartax"
	"github.com/Degagemain/degage-sub000/internal/messages"
	"github.com/Degagemain/degage-sub000/internal/simulation/models"
	"github.com/Degagemain/degage-sub000/internal/simulation/ports"
	"github.com/Degagemain/degage-sub000/pkg/money"
	"github.com/Degagemain/degage-sub000/pkg/platform/sentinel"
)

// initialChecks applies the mileage rule, then the age rule. The first
// failing rule rejects the run.
func (e *Engine) initialChecks(ctx context.Context, r *run) (bool, error) {
	town, err := e.refdata.Town(ctx, r.in.TownID)
	if err != nil {
		return false, fmt.Errorf("town: %w", err)
	}
	hub, err := e.refdata.Hub(ctx, town.HubID)
	if err != nil {
		return false, fmt.Errorf("hub: %w", err)
	}
	r.town, r.hub = town, hub

	mileage := messages.Params{"mileage": r.in.Mileage, "max_km": hub.MaxKm}
	if r.in.Mileage > hub.MaxKm {
		r.step(models.StepMileageCheck, models.StatusNotOK, mileage)
		r.reject(models.KeyRejectionMileage, messages.Params{"max_km": hub.MaxKm})
		return false, nil
	}
	r.step(models.StepMileageCheck, models.StatusOK, mileage)

	age := messages.Params{
		"first_registered_at": r.in.FirstRegisteredAt.Format(time.DateOnly),
		"max_age":             hub.MaxAgeYears,
	}
	limit := r.in.FirstRegisteredAt.AddDate(hub.MaxAgeYears, 0, 0)
	if dateOnly(limit).Before(dateOnly(r.today)) {
		r.step(models.StepAgeCheck, models.StatusNotOK, age)
		r.reject(models.KeyRejectionAge, messages.Params{"max_age": hub.MaxAgeYears})
		return false, nil
	}
	r.step(models.StepAgeCheck, models.StatusOK, age)
	return true, nil
}

func (e *Engine) estimatePrice(ctx context.Context, r *run) (bool, error) {
	fuel, err := e.refdata.FuelType(ctx, r.in.FuelTypeID)
	if err != nil {
		return false, fmt.Errorf("fuel type: %w", err)
	}
	r.fuel = fuel
	r.query = ports.CarQuery{
		BrandID:      r.in.BrandID,
		FuelType:     fuel,
		CarTypeID:    r.in.CarTypeID,
		CarTypeOther: r.in.CarTypeOther,
	}

	r.depKm = r.hub.DepreciationKmFor(fuel)
	if r.depKm <= 0 {
		return false, fmt.Errorf("hub %q: %w", r.hub.ID, ErrInvalidDepreciationKm)
	}

	start := time.Now()
	pr, err := e.values.EstimateCarValue(ctx, r.query, r.in.FirstRegisteredAt)
	e.metrics.ObserveEstimateLatency("value", time.Since(start))
	if err != nil {
		return false, fmt.Errorf("estimate car value: %w", err)
	}

	value := EstimatedValue(pr, DepreciationFraction(r.in.Mileage, r.depKm))
	r.figures.EstimatedValue = value
	r.step(models.StepCarValueEstimate, models.StatusInfo, messages.Params{
		"value": money.RoundThousands(value),
	})
	return true, nil
}

func (e *Engine) resolveCarInfo(ctx context.Context, r *run) (bool, error) {
	r.buildYear = r.in.FirstRegisteredAt.Year()

	start := time.Now()
	info, err := e.specs.EstimateCarInfo(ctx, r.query, r.buildYear)
	e.metrics.ObserveEstimateLatency("spec", time.Since(start))
	if err != nil {
		return false, fmt.Errorf("estimate car info: %w", err)
	}

	if r.in.HasCarType() {
		ct, err := e.refdata.CarType(ctx, r.in.CarTypeID)
		if err != nil {
			return false, fmt.Errorf("car type: %w", err)
		}
		r.carType = &ct
	}

	r.carInfo = info
	snapshot := info
	r.res.CarInfo = &snapshot

	euroNorm := info.EuroNormCode
	if euroNorm == "" {
		euroNorm = "-"
	}
	r.step(models.StepCarInfoEstimate, models.StatusInfo, messages.Params{
		"cc":          info.CylinderCc,
		"co2":         info.Co2Emission,
		"eco_score":   info.EcoScore,
		"euro_norm":   euroNorm,
		"consumption": info.Consumption,
	})
	return true, nil
}

func (e *Engine) calculateTax(ctx context.Context, r *run) (bool, error) {
	province, err := e.refdata.Province(ctx, r.town.ProvinceID)
	if err != nil {
		return false, fmt.Errorf("province: %w", err)
	}
	region, err := e.refdata.FiscalRegion(ctx, province.FiscalRegionID)
	if err != nil {
		return false, fmt.Errorf("fiscal region: %w", err)
	}

	// Electric tax is a flat rate; the euro norm is not consulted.
	var euroNormID string
	if r.carInfo.EuroNormCode != "" && !r.fuel.IsElectric() {
		norm, err := e.refdata.EuroNormByCode(ctx, r.carInfo.EuroNormCode)
		if err != nil {
			return false, fmt.Errorf("euro norm %q: %w", r.carInfo.EuroNormCode, err)
		}
		euroNormID = norm.ID
	}

	tax, err := e.tax.Calculate(ctx, cartax.Input{
		FiscalRegion:      region,
		FuelType:          r.fuel,
		FirstRegisteredAt: r.in.FirstRegisteredAt,
		CylinderCc:        r.carInfo.CylinderCc,
		Co2Emission:       r.carInfo.Co2Emission,
		EuroNormID:        euroNormID,
	})
	if err != nil {
		return false, fmt.Errorf("car tax: %w", err)
	}
	for _, s := range tax.Steps {
		r.res.AddStep(s)
	}
	r.figures.TaxRate = tax.Rate
	return true, nil
}

func (e *Engine) estimateInsurance(ctx context.Context, r *run) (bool, error) {
	start := time.Now()
	price, err := e.insurance.EstimateInsurancePrice(ctx, r.figures.EstimatedValue, r.today)
	e.metrics.ObserveEstimateLatency("insurance", time.Since(start))
	if err != nil {
		return false, fmt.Errorf("estimate insurance: %w", err)
	}
	r.figures.InsurancePrice = price
	r.step(models.StepInsuranceEstimate, models.StatusInfo, messages.Params{
		"price": money.RoundWhole(price),
	})
	return true, nil
}

func (e *Engine) calculateKmRate(ctx context.Context, r *run) (bool, error) {
	benchmark, err := e.refdata.FindClosestBenchmark(ctx, r.hub.ID, r.in.OwnerKmPerYear)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return false, fmt.Errorf("hub %q: %w", r.hub.ID, ErrNoBenchmark)
		}
		return false, fmt.Errorf("benchmark: %w", err)
	}
	if benchmark.OwnerKm <= 0 {
		return false, fmt.Errorf("hub %q has a benchmark without owner km: %w", r.hub.ID, ErrNoBenchmark)
	}

	total := EstimatedTotalYearlyMileage(r.in.OwnerKmPerYear, benchmark)
	if total <= 0 {
		return false, ErrNoYearlyMileage
	}
	fixed := r.hub.InspectionCost + r.hub.MaintenanceCost + r.figures.InsurancePrice + r.figures.TaxRate

	fuelCost := FuelCostPerKm(r.fuel.PricePer, r.carInfo.Consumption)
	r.step(models.StepFuelCostPerKm, models.StatusInfo, messages.Params{"cost": money.Round(fuelCost, 2)})

	depCost := DepreciationCostPerKm(r.figures.EstimatedValue, r.depKm, r.in.Mileage)
	r.step(models.StepDepreciationCostPerKm, models.StatusInfo, messages.Params{"cost": money.Round(depCost, 2)})

	kmCost := KmCost(fuelCost, fixed, total, depCost)
	r.step(models.StepKmCost, models.StatusInfo, messages.Params{"cost": kmCost})

	r.figures.EstimatedTotalYearlyMileage = total
	r.figures.FixedYearCost = fixed
	r.figures.FuelCostPerKm = fuelCost
	r.figures.DepreciationCostPerKm = depCost
	r.figures.KmCost = kmCost
	return true, nil
}

// scoreBonus rejects the run when the bonus tally stays below the minimum.
func (e *Engine) scoreBonus(r *run) bool {
	ecoScore := EffectiveEcoScore(r.carType, r.carInfo.EcoScore)
	age := r.today.Year() - r.buildYear

	out := ScoreBonus(BonusInput{
		EcoScore:   ecoScore,
		Mileage:    r.in.Mileage,
		Age:        age,
		HighDemand: r.town.HighDemand,
		Hub:        r.hub,
	})

	if out.EcoScore {
		r.step(models.StepEcoScoreBonus, models.StatusOK, messages.Params{
			"eco_score": ecoScore, "min": r.hub.MinEcoScoreForBonus,
		})
	}
	if out.Mileage {
		r.step(models.StepMileageBonus, models.StatusOK, messages.Params{
			"mileage": r.in.Mileage, "max_km": r.hub.MaxKmForBonus,
		})
	}
	if out.Age {
		r.step(models.StepAgeBonus, models.StatusOK, messages.Params{
			"age": age, "max_age": r.hub.MaxAgeForBonus,
		})
	}
	if out.ExtraChanged() {
		r.step(models.StepExtraBonus, models.StatusOK, messages.Params{
			"from": out.PointsBeforeExtra, "to": out.Points,
		})
	}

	r.figures.BonusPoints = out.Points
	if !out.Qualifies() {
		r.reject(models.KeyRejectionQuality, nil)
		return false
	}
	return true
}

func (e *Engine) categorize(r *run) {
	code := Categorize(CategoryInput{
		KmCost:                r.figures.KmCost,
		DepreciationCostPerKm: r.figures.DepreciationCostPerKm,
		Seats:                 r.in.Seats,
		IsVan:                 r.in.IsVan,
		HubIsDefault:          r.hub.IsDefault,
		Electric:              r.fuel.IsElectric(),
	})
	if code == models.ResultNotOK {
		r.reject(models.KeyRejectionPrice, nil)
		return
	}
	r.res.ResultCode = code
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
