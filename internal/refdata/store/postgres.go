package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Degagemain/degage-sub000/internal/refdata"
	"github.com/Degagemain/degage-sub000/pkg/platform/sentinel"
)

// PostgresStore reads reference data from PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed reference data store.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func notFound(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, sentinel.ErrNotFound)
	}
	return fmt.Errorf("find %s: %w", what, err)
}

func (s *PostgresStore) Town(ctx context.Context, id string) (refdata.Town, error) {
	var t refdata.Town
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, province_id, hub_id, high_demand FROM towns WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.ProvinceID, &t.HubID, &t.HighDemand)
	if err != nil {
		return refdata.Town{}, notFound(err, "town")
	}
	return t, nil
}

func (s *PostgresStore) Province(ctx context.Context, id string) (refdata.Province, error) {
	var p refdata.Province
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, fiscal_region_id FROM provinces WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.FiscalRegionID)
	if err != nil {
		return refdata.Province{}, notFound(err, "province")
	}
	return p, nil
}

func (s *PostgresStore) FiscalRegion(ctx context.Context, id string) (refdata.FiscalRegion, error) {
	var r refdata.FiscalRegion
	err := s.pool.QueryRow(ctx,
		`SELECT id, code, is_default FROM fiscal_regions WHERE id = $1`, id,
	).Scan(&r.ID, &r.Code, &r.IsDefault)
	if err != nil {
		return refdata.FiscalRegion{}, notFound(err, "fiscal region")
	}
	return r, nil
}

func (s *PostgresStore) Hub(ctx context.Context, id string) (refdata.Hub, error) {
	var h refdata.Hub
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, is_default, max_age_years, max_km,
		       min_eco_score_for_bonus, max_km_for_bonus, max_age_for_bonus,
		       depreciation_km, depreciation_km_electric,
		       inspection_cost, maintenance_cost
		FROM hubs WHERE id = $1`, id,
	).Scan(&h.ID, &h.Name, &h.IsDefault, &h.MaxAgeYears, &h.MaxKm,
		&h.MinEcoScoreForBonus, &h.MaxKmForBonus, &h.MaxAgeForBonus,
		&h.DepreciationKm, &h.DepreciationKmElectric,
		&h.InspectionCost, &h.MaintenanceCost)
	if err != nil {
		return refdata.Hub{}, notFound(err, "hub")
	}
	return h, nil
}

func (s *PostgresStore) FuelType(ctx context.Context, id string) (refdata.FuelType, error) {
	var f refdata.FuelType
	err := s.pool.QueryRow(ctx,
		`SELECT id, code, name, price_per FROM fuel_types WHERE id = $1`, id,
	).Scan(&f.ID, &f.Code, &f.Name, &f.PricePer)
	if err != nil {
		return refdata.FuelType{}, notFound(err, "fuel type")
	}
	return f, nil
}

func (s *PostgresStore) Brand(ctx context.Context, id string) (refdata.Brand, error) {
	var b refdata.Brand
	err := s.pool.QueryRow(ctx, `SELECT id, name FROM brands WHERE id = $1`, id).Scan(&b.ID, &b.Name)
	if err != nil {
		return refdata.Brand{}, notFound(err, "brand")
	}
	return b, nil
}

func (s *PostgresStore) CarType(ctx context.Context, id string) (refdata.CarType, error) {
	var c refdata.CarType
	err := s.pool.QueryRow(ctx,
		`SELECT id, brand_id, fuel_type_id, name, eco_score FROM car_types WHERE id = $1`, id,
	).Scan(&c.ID, &c.BrandID, &c.FuelTypeID, &c.Name, &c.EcoScore)
	if err != nil {
		return refdata.CarType{}, notFound(err, "car type")
	}
	return c, nil
}

func (s *PostgresStore) EuroNorm(ctx context.Context, id string) (refdata.EuroNorm, error) {
	return s.euroNorm(ctx, `SELECT id, code, euro_norm_group FROM euro_norms WHERE id = $1`, id)
}

func (s *PostgresStore) EuroNormByCode(ctx context.Context, code string) (refdata.EuroNorm, error) {
	return s.euroNorm(ctx, `SELECT id, code, euro_norm_group FROM euro_norms WHERE lower(code) = lower($1)`, code)
}

func (s *PostgresStore) euroNorm(ctx context.Context, query, arg string) (refdata.EuroNorm, error) {
	var n refdata.EuroNorm
	if err := s.pool.QueryRow(ctx, query, arg).Scan(&n.ID, &n.Code, &n.Group); err != nil {
		return refdata.EuroNorm{}, notFound(err, "euro norm")
	}
	return n, nil
}

const baseRateColumns = `fiscal_region_id, start_date, end_date, min_cc, max_cc, rate`

func scanBaseRate(row pgx.Row) (refdata.CarTaxBaseRate, error) {
	var r refdata.CarTaxBaseRate
	err := row.Scan(&r.FiscalRegionID, &r.Validity.Start, &r.Validity.End, &r.MinCc, &r.MaxCc, &r.Rate)
	return r, err
}

func (s *PostgresStore) FindBaseRate(ctx context.Context, fiscalRegionID string, date time.Time, cc int) (refdata.CarTaxBaseRate, error) {
	r, err := scanBaseRate(s.pool.QueryRow(ctx, `
		SELECT `+baseRateColumns+`
		FROM car_tax_base_rates
		WHERE fiscal_region_id = $1
		  AND start_date <= $2 AND (end_date IS NULL OR end_date >= $2)
		  AND min_cc <= $3 AND max_cc >= $3
		LIMIT 1`, fiscalRegionID, date, cc))
	if err != nil {
		return refdata.CarTaxBaseRate{}, notFound(err, "base rate")
	}
	return r, nil
}

func (s *PostgresStore) FindHighestBaseRate(ctx context.Context, fiscalRegionID string, date time.Time) (refdata.CarTaxBaseRate, error) {
	r, err := scanBaseRate(s.pool.QueryRow(ctx, `
		SELECT `+baseRateColumns+`
		FROM car_tax_base_rates
		WHERE fiscal_region_id = $1
		  AND start_date <= $2 AND (end_date IS NULL OR end_date >= $2)
		ORDER BY max_cc DESC
		LIMIT 1`, fiscalRegionID, date))
	if err != nil {
		return refdata.CarTaxBaseRate{}, notFound(err, "highest base rate")
	}
	return r, nil
}

func (s *PostgresStore) FindFlatRate(ctx context.Context, fiscalRegionID string, date time.Time) (refdata.CarTaxFlatRate, error) {
	var r refdata.CarTaxFlatRate
	err := s.pool.QueryRow(ctx, `
		SELECT fiscal_region_id, start_date, end_date, rate
		FROM car_tax_flat_rates
		WHERE fiscal_region_id = $1
		  AND start_date <= $2 AND (end_date IS NULL OR end_date >= $2)
		ORDER BY start_date DESC
		LIMIT 1`, fiscalRegionID, date,
	).Scan(&r.FiscalRegionID, &r.Validity.Start, &r.Validity.End, &r.Rate)
	if err != nil {
		return refdata.CarTaxFlatRate{}, notFound(err, "flat rate")
	}
	return r, nil
}

func (s *PostgresStore) FindEuroNormAdjustment(ctx context.Context, fiscalRegionID string, euroNormGroup int) (refdata.CarTaxEuroNormAdjustment, error) {
	var a refdata.CarTaxEuroNormAdjustment
	err := s.pool.QueryRow(ctx, `
		SELECT fiscal_region_id, euro_norm_group, default_adjustment, diesel_adjustment
		FROM car_tax_euro_norm_adjustments
		WHERE fiscal_region_id = $1 AND euro_norm_group = $2`, fiscalRegionID, euroNormGroup,
	).Scan(&a.FiscalRegionID, &a.EuroNormGroup, &a.DefaultAdjustment, &a.DieselAdjustment)
	if err != nil {
		return refdata.CarTaxEuroNormAdjustment{}, notFound(err, "euro norm adjustment")
	}
	return a, nil
}

// FindClosestBenchmark takes the nearest band at or above ownerKm and falls
// back to the largest band.
func (s *PostgresStore) FindClosestBenchmark(ctx context.Context, hubID string, ownerKm int) (refdata.HubBenchmark, error) {
	const cols = `hub_id, owner_km, shared_min_km, shared_max_km, shared_avg_km`
	scan := func(row pgx.Row) (refdata.HubBenchmark, error) {
		var b refdata.HubBenchmark
		err := row.Scan(&b.HubID, &b.OwnerKm, &b.SharedMinKm, &b.SharedMaxKm, &b.SharedAvgKm)
		return b, err
	}

	b, err := scan(s.pool.QueryRow(ctx, `
		SELECT `+cols+` FROM hub_benchmarks
		WHERE hub_id = $1 AND owner_km >= $2
		ORDER BY owner_km ASC LIMIT 1`, hubID, ownerKm))
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return refdata.HubBenchmark{}, fmt.Errorf("find benchmark: %w", err)
	}

	b, err = scan(s.pool.QueryRow(ctx, `
		SELECT `+cols+` FROM hub_benchmarks
		WHERE hub_id = $1
		ORDER BY owner_km DESC LIMIT 1`, hubID))
	if err != nil {
		return refdata.HubBenchmark{}, notFound(err, "benchmark")
	}
	return b, nil
}
