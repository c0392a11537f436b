//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/Degagemain/degage-sub000/internal/simulation/models"
	id "github.com/Degagemain/degage-sub000/pkg/domain"
	"github.com/Degagemain/degage-sub000/pkg/platform/sentinel"
	"github.com/Degagemain/degage-sub000/pkg/testutil/containers"
)

type PostgresRunStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *PostgresStore
	ctx   context.Context
	base  time.Time
}

func TestPostgresRunStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresRunStoreSuite))
}

func (s *PostgresRunStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.pg = containers.GetManager().GetPostgres(s.T())
	s.store = NewPostgres(s.pg.DB)
	s.base = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
}

func (s *PostgresRunStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateTables(s.ctx, "simulation_runs"))
}

func (s *PostgresRunStoreSuite) newRun(code models.ResultCode, offset time.Duration) *models.Run {
	return &models.Run{
		ID: id.NewRunID(),
		Input: models.RunInput{
			TownID: "gent", BrandID: "volkswagen", FuelTypeID: "diesel", CarTypeOther: "Passat",
			Mileage: 50_000, OwnerKmPerYear: 10_000, Seats: 5,
			FirstRegisteredAt: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		Result: models.Result{
			ResultCode: code,
			Steps: []models.Step{
				{Code: models.StepMileageCheck, Status: models.StatusOK, Message: "Mileage below 250000 km"},
			},
			Figures: models.Figures{KmCost: 0.32, BonusPoints: 2},
		},
		Locale:    "en",
		CreatedAt: s.base.Add(offset),
	}
}

// =============================================================================
// Save / FindByID
// =============================================================================

func (s *PostgresRunStoreSuite) TestSaveAndFind() {
	s.Run("round-trips the run", func() {
		run := s.newRun(models.ResultCategoryA, 0)
		run.Result.CarInfo = &models.CarInfo{CylinderCc: 1598, Co2Emission: 125, EuroNormCode: "EURO_6"}
		s.Require().NoError(s.store.Save(s.ctx, run))

		found, err := s.store.FindByID(s.ctx, run.ID)
		s.Require().NoError(err)
		s.Equal(run.ID, found.ID)
		s.Equal(models.ResultCategoryA, found.Result.ResultCode)
		s.Equal(run.Result.Steps, found.Result.Steps)
		s.Equal(run.Result.Figures, found.Result.Figures)
		s.Require().NotNil(found.Result.CarInfo)
		s.Equal(1598, found.Result.CarInfo.CylinderCc)
		s.True(found.Input.FirstRegisteredAt.Equal(run.Input.FirstRegisteredAt))
		s.True(found.CreatedAt.Equal(run.CreatedAt))
	})

	s.Run("rejection reason and missing car info", func() {
		run := s.newRun(models.ResultNotOK, 0)
		run.Result.RejectionReason = "mileage above 250000 km"
		s.Require().NoError(s.store.Save(s.ctx, run))

		found, err := s.store.FindByID(s.ctx, run.ID)
		s.Require().NoError(err)
		s.Equal("mileage above 250000 km", found.Result.RejectionReason)
		s.Nil(found.Result.CarInfo)
	})

	s.Run("duplicate IDs conflict", func() {
		run := s.newRun(models.ResultNotOK, 0)
		s.Require().NoError(s.store.Save(s.ctx, run))
		s.ErrorIs(s.store.Save(s.ctx, run), sentinel.ErrConflict)
	})

	s.Run("unknown ID is not found", func() {
		_, err := s.store.FindByID(s.ctx, id.NewRunID())
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

// =============================================================================
// List
// =============================================================================

func (s *PostgresRunStoreSuite) TestList() {
	a := s.newRun(models.ResultCategoryA, time.Minute)
	notOK := s.newRun(models.ResultNotOK, 2*time.Minute)
	review := s.newRun(models.ResultManualReview, 3*time.Minute)
	for _, r := range []*models.Run{a, notOK, review} {
		s.Require().NoError(s.store.Save(s.ctx, r))
	}

	s.Run("newest first without filter", func() {
		runs, err := s.store.List(s.ctx, models.ListFilter{})
		s.Require().NoError(err)
		s.Require().Len(runs, 3)
		s.Equal(review.ID, runs[0].ID)
		s.Equal(a.ID, runs[2].ID)
	})

	s.Run("filters by result code", func() {
		runs, err := s.store.List(s.ctx, models.ListFilter{
			ResultCodes: []models.ResultCode{models.ResultNotOK, models.ResultCategoryA},
		})
		s.Require().NoError(err)
		s.Require().Len(runs, 2)
		s.Equal(notOK.ID, runs[0].ID)
	})

	s.Run("applies the limit", func() {
		runs, err := s.store.List(s.ctx, models.ListFilter{Limit: 1})
		s.Require().NoError(err)
		s.Len(runs, 1)
	})
}
