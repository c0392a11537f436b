package refdata

import (
	"context"
	"time"
)

// Reader is the read side of the reference data. Every single-row lookup
// returns sentinel.ErrNotFound (possibly wrapped) when nothing matches.
type Reader interface {
	Town(ctx context.Context, id string) (Town, error)
	Province(ctx context.Context, id string) (Province, error)
	FiscalRegion(ctx context.Context, id string) (FiscalRegion, error)
	Hub(ctx context.Context, id string) (Hub, error)
	FuelType(ctx context.Context, id string) (FuelType, error)
	Brand(ctx context.Context, id string) (Brand, error)
	CarType(ctx context.Context, id string) (CarType, error)
	EuroNorm(ctx context.Context, id string) (EuroNorm, error)
	EuroNormByCode(ctx context.Context, code string) (EuroNorm, error)

	// FindBaseRate returns the band covering cc valid on date (exact match only).
	FindBaseRate(ctx context.Context, fiscalRegionID string, date time.Time, cc int) (CarTaxBaseRate, error)
	// FindHighestBaseRate returns the band with the highest MaxCc valid on date.
	FindHighestBaseRate(ctx context.Context, fiscalRegionID string, date time.Time) (CarTaxBaseRate, error)
	FindFlatRate(ctx context.Context, fiscalRegionID string, date time.Time) (CarTaxFlatRate, error)
	FindEuroNormAdjustment(ctx context.Context, fiscalRegionID string, euroNormGroup int) (CarTaxEuroNormAdjustment, error)
	// FindClosestBenchmark applies SelectBenchmark to the hub's benchmarks.
	FindClosestBenchmark(ctx context.Context, hubID string, ownerKm int) (HubBenchmark, error)
}

// SelectBenchmark picks the benchmark with the smallest OwnerKm that is still
// >= ownerKm. When ownerKm exceeds every band the benchmark with the largest
// OwnerKm is returned instead. ok is false only when benchmarks is empty.
func SelectBenchmark(benchmarks []HubBenchmark, ownerKm int) (HubBenchmark, bool) {
	if len(benchmarks) == 0 {
		return HubBenchmark{}, false
	}

	var (
		best    HubBenchmark
		found   bool
		largest = benchmarks[0]
	)
	for _, b := range benchmarks {
		if b.OwnerKm > largest.OwnerKm {
			largest = b
		}
		if b.OwnerKm >= ownerKm && (!found || b.OwnerKm < best.OwnerKm) {
			best = b
			found = true
		}
	}
	if found {
		return best, true
	}
	return largest, true
}

// SelectHighestBand returns the band with the highest MaxCc among rows valid
// on date.
func SelectHighestBand(rates []CarTaxBaseRate, fiscalRegionID string, date time.Time) (CarTaxBaseRate, bool) {
	var (
		best  CarTaxBaseRate
		found bool
	)
	for _, r := range rates {
		if r.FiscalRegionID != fiscalRegionID || !r.Validity.ValidOn(date) {
			continue
		}
		if !found || r.MaxCc > best.MaxCc {
			best = r
			found = true
		}
	}
	return best, found
}
