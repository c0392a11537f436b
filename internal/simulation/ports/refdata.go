package ports

import (
	"context"

	"github.com/Degagemain/degage-sub000/internal/cartax"
	"github.com/Degagemain/degage-sub000/internal/refdata"
)

// ReferenceData is what the engine reads besides the tax tables.
type ReferenceData interface {
	cartax.RateLookup

	Town(ctx context.Context, id string) (refdata.Town, error)
	Province(ctx context.Context, id string) (refdata.Province, error)
	FiscalRegion(ctx context.Context, id string) (refdata.FiscalRegion, error)
	Hub(ctx context.Context, id string) (refdata.Hub, error)
	FuelType(ctx context.Context, id string) (refdata.FuelType, error)
	CarType(ctx context.Context, id string) (refdata.CarType, error)
	EuroNormByCode(ctx context.Context, code string) (refdata.EuroNorm, error)
	FindClosestBenchmark(ctx context.Context, hubID string, ownerKm int) (refdata.HubBenchmark, error)
}
