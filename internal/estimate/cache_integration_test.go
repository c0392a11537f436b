//go:build integration

package estimate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/Degagemain/degage-sub000/internal/refdata"
	"github.com/Degagemain/degage-sub000/internal/simulation/models"
	"github.com/Degagemain/degage-sub000/internal/simulation/ports"
	"github.com/Degagemain/degage-sub000/pkg/testutil/containers"
)

type countingEstimator struct {
	valueCalls int
	specCalls  int
}

func (c *countingEstimator) EstimateCarValue(context.Context, ports.CarQuery, time.Time) (ports.PriceRange, error) {
	c.valueCalls++
	return ports.PriceRange{Price: 12000, Min: 10000, Max: 14000}, nil
}

func (c *countingEstimator) EstimateCarInfo(context.Context, ports.CarQuery, int) (models.CarInfo, error) {
	c.specCalls++
	return models.CarInfo{CylinderCc: 1598, Co2Emission: 125, EcoScore: 58, EuroNormCode: "EURO_6", Consumption: 5.2}, nil
}

type RedisCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	ctx   context.Context
}

func TestRedisCacheSuite(t *testing.T) {
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.ctx = context.Background()
	s.redis = containers.GetManager().GetRedis(s.T())
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(s.ctx))
}

func (s *RedisCacheSuite) TestCachesPerCarAndYear() {
	next := &countingEstimator{}
	cache := NewRedisCache(next, s.redis.Client, time.Hour)
	q := ports.CarQuery{BrandID: "volkswagen", FuelType: refdata.FuelType{ID: "diesel"}, CarTypeOther: "Passat"}
	registered := time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)

	first, err := cache.EstimateCarValue(s.ctx, q, registered)
	s.Require().NoError(err)
	second, err := cache.EstimateCarValue(s.ctx, q, registered.AddDate(0, 2, 0))
	s.Require().NoError(err)
	s.Equal(first, second)
	s.Equal(1, next.valueCalls)

	_, err = cache.EstimateCarValue(s.ctx, q, registered.AddDate(1, 0, 0))
	s.Require().NoError(err)
	s.Equal(2, next.valueCalls, "another year is another entry")

	info, err := cache.EstimateCarInfo(s.ctx, q, 2020)
	s.Require().NoError(err)
	cached, err := cache.EstimateCarInfo(s.ctx, q, 2020)
	s.Require().NoError(err)
	s.Equal(info, cached)
	s.Equal(1, next.specCalls)

	ttl, err := s.redis.Client.TTL(s.ctx, cacheKey("spec", q, 2020)).Result()
	s.Require().NoError(err)
	s.Positive(ttl)
}

func (s *RedisCacheSuite) TestCorruptEntryFallsThrough() {
	next := &countingEstimator{}
	cache := NewRedisCache(next, s.redis.Client, time.Hour)
	q := ports.CarQuery{BrandID: "tesla", FuelType: refdata.FuelType{ID: "electric"}, CarTypeID: "model-3"}

	s.Require().NoError(s.redis.Client.Set(s.ctx, cacheKey("spec", q, 2022), "not json", time.Hour).Err())

	info, err := cache.EstimateCarInfo(s.ctx, q, 2022)
	s.Require().NoError(err)
	s.Equal(1598, info.CylinderCc)
	s.Equal(1, next.specCalls)
}
