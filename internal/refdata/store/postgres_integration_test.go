//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/Degagemain/degage-sub000/pkg/platform/sentinel"
	"github.com/Degagemain/degage-sub000/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *PostgresStore
	ctx   context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.pg = containers.GetManager().GetPostgres(s.T())
	s.store = NewPostgres(s.pg.Pool)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateTables(s.ctx,
		"car_tax_euro_norm_adjustments", "car_tax_flat_rates", "car_tax_base_rates",
		"euro_norms", "car_types", "brands", "fuel_types", "towns", "hub_benchmarks",
		"hubs", "provinces", "fiscal_regions",
	))

	stmts := []string{
		`INSERT INTO fiscal_regions (id, code, is_default) VALUES ('flanders', 'VL', TRUE)`,
		`INSERT INTO provinces (id, name, fiscal_region_id) VALUES ('ovl', 'Oost-Vlaanderen', 'flanders')`,
		`INSERT INTO hubs (id, name, is_default, max_age_years, max_km, min_eco_score_for_bonus,
			max_km_for_bonus, max_age_for_bonus, depreciation_km, depreciation_km_electric,
			inspection_cost, maintenance_cost)
		 VALUES ('gent', 'Gent', TRUE, 15, 250000, 65, 150000, 7, 250000, 300000, 90, 650)`,
		`INSERT INTO hub_benchmarks (hub_id, owner_km, shared_min_km, shared_max_km, shared_avg_km)
		 VALUES ('gent', 5000, 2000, 6000, 4000), ('gent', 10000, 3000, 7000, 5000), ('gent', 20000, 1000, 5000, 3000)`,
		`INSERT INTO towns (id, name, province_id, hub_id, high_demand) VALUES ('gent', 'Gent', 'ovl', 'gent', TRUE)`,
		`INSERT INTO fuel_types (id, code, name, price_per) VALUES ('diesel', 'diesel', 'Diesel', 1.82)`,
		`INSERT INTO brands (id, name) VALUES ('tesla', 'Tesla'), ('renault', 'Renault')`,
		`INSERT INTO fuel_types (id, code, name, price_per) VALUES ('electric', 'electric', 'Electric', 0.32)`,
		`INSERT INTO car_types (id, brand_id, fuel_type_id, name, eco_score)
		 VALUES ('model-3', 'tesla', 'electric', 'Model 3', 82), ('kangoo', 'renault', 'diesel', 'Kangoo', NULL)`,
		`INSERT INTO euro_norms (id, code, euro_norm_group) VALUES ('euro-6', 'EURO_6', 6)`,
		`INSERT INTO car_tax_base_rates (fiscal_region_id, start_date, end_date, min_cc, max_cc, rate)
		 VALUES ('flanders', '2000-01-01', NULL, 0, 1350, 200),
		        ('flanders', '2000-01-01', NULL, 1351, 2000, 300),
		        ('flanders', '2000-01-01', '2010-12-31', 2001, 9000, 900)`,
		`INSERT INTO car_tax_flat_rates (fiscal_region_id, start_date, end_date, rate)
		 VALUES ('flanders', '2016-01-01', '2020-12-31', 0), ('flanders', '2021-01-01', NULL, 97.6)`,
		`INSERT INTO car_tax_euro_norm_adjustments (fiscal_region_id, euro_norm_group, default_adjustment, diesel_adjustment)
		 VALUES ('flanders', 6, 0, 0.1)`,
	}
	for _, stmt := range stmts {
		_, err := s.pg.DB.ExecContext(s.ctx, stmt)
		s.Require().NoError(err, stmt)
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// Entity lookups
// =============================================================================

func (s *PostgresStoreSuite) TestEntities() {
	s.Run("town and hub", func() {
		town, err := s.store.Town(s.ctx, "gent")
		s.Require().NoError(err)
		s.True(town.HighDemand)

		hub, err := s.store.Hub(s.ctx, town.HubID)
		s.Require().NoError(err)
		s.Equal(250_000, hub.MaxKm)
		s.Equal(300_000, hub.DepreciationKmElectric)
		s.InDelta(650, hub.MaintenanceCost, 1e-9)
	})

	s.Run("car type eco score is optional", func() {
		curated, err := s.store.CarType(s.ctx, "model-3")
		s.Require().NoError(err)
		s.Require().NotNil(curated.EcoScore)
		s.Equal(82, *curated.EcoScore)

		plain, err := s.store.CarType(s.ctx, "kangoo")
		s.Require().NoError(err)
		s.Nil(plain.EcoScore)
	})

	s.Run("euro norm by code ignores case", func() {
		norm, err := s.store.EuroNormByCode(s.ctx, "euro_6")
		s.Require().NoError(err)
		s.Equal(6, norm.Group)
	})

	s.Run("missing rows are not found", func() {
		_, err := s.store.Town(s.ctx, "atlantis")
		s.ErrorIs(err, sentinel.ErrNotFound)
		_, err = s.store.EuroNormByCode(s.ctx, "EURO_7")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

// =============================================================================
// Tax tables
// =============================================================================

func (s *PostgresStoreSuite) TestTaxTables() {
	s.Run("base rate band is inclusive", func() {
		r, err := s.store.FindBaseRate(s.ctx, "flanders", day(2020, 1, 1), 1350)
		s.Require().NoError(err)
		s.InDelta(200, r.Rate, 1e-9)
	})

	s.Run("expired bands are ignored", func() {
		_, err := s.store.FindBaseRate(s.ctx, "flanders", day(2020, 1, 1), 2500)
		s.ErrorIs(err, sentinel.ErrNotFound)

		highest, err := s.store.FindHighestBaseRate(s.ctx, "flanders", day(2020, 1, 1))
		s.Require().NoError(err)
		s.Equal(2000, highest.MaxCc)

		old, err := s.store.FindHighestBaseRate(s.ctx, "flanders", day(2005, 1, 1))
		s.Require().NoError(err)
		s.Equal(9000, old.MaxCc)
		s.Require().NotNil(old.Validity.End)
	})

	s.Run("flat rate by date", func() {
		r, err := s.store.FindFlatRate(s.ctx, "flanders", day(2019, 6, 1))
		s.Require().NoError(err)
		s.Zero(r.Rate)

		r, err = s.store.FindFlatRate(s.ctx, "flanders", day(2023, 6, 1))
		s.Require().NoError(err)
		s.InDelta(97.6, r.Rate, 1e-9)

		_, err = s.store.FindFlatRate(s.ctx, "flanders", day(2012, 6, 1))
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("euro norm adjustment", func() {
		a, err := s.store.FindEuroNormAdjustment(s.ctx, "flanders", 6)
		s.Require().NoError(err)
		s.InDelta(0.1, a.DieselAdjustment, 1e-9)

		_, err = s.store.FindEuroNormAdjustment(s.ctx, "flanders", 3)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

// =============================================================================
// Benchmarks
// =============================================================================

func (s *PostgresStoreSuite) TestFindClosestBenchmark() {
	tests := []struct {
		ownerKm int
		want    int
	}{
		{0, 5000},
		{5000, 5000},
		{5001, 10000},
		{15000, 20000},
		{50000, 20000},
	}
	for _, tt := range tests {
		b, err := s.store.FindClosestBenchmark(s.ctx, "gent", tt.ownerKm)
		s.Require().NoError(err)
		s.Equal(tt.want, b.OwnerKm, "owner km %d", tt.ownerKm)
	}

	_, err := s.store.FindClosestBenchmark(s.ctx, "nowhere", 1000)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
