package estimate

import (
	"context"
	"math"
	"time"

	"github.com/Degagemain/degage-sub000/internal/simulation/models"
	"github.com/Degagemain/degage-sub000/internal/simulation/ports"
	"github.com/Degagemain/degage-sub000/pkg/money"
	"github.com/Degagemain/degage-sub000/pkg/requestcontext"
)

// yearlyValueRetention is the share of value a car keeps each year.
const yearlyValueRetention = 0.85

// StaticEstimator answers without any external call: values decay from a
// new-price baseline, specs come from per-fuel defaults.
type StaticEstimator struct {
	baseline float64
	clock    func() time.Time
}

type StaticOption func(*StaticEstimator)

func WithStaticClock(clock func() time.Time) StaticOption {
	return func(s *StaticEstimator) { s.clock = clock }
}

func NewStatic(newPriceBaseline float64, opts ...StaticOption) *StaticEstimator {
	s := &StaticEstimator{baseline: newPriceBaseline, clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *StaticEstimator) EstimateCarValue(ctx context.Context, _ ports.CarQuery, firstRegisteredAt time.Time) (ports.PriceRange, error) {
	now, ok := requestcontext.TimeFrom(ctx)
	if !ok {
		now = s.clock()
	}
	years := max(0, now.Sub(firstRegisteredAt).Hours()/(24*365.25))
	price := money.Round(s.baseline*math.Pow(yearlyValueRetention, years), 0)
	return ports.PriceRange{
		Price: price,
		Min:   money.Round(price*0.85, 0),
		Max:   money.Round(price*1.15, 0),
	}, nil
}

func (s *StaticEstimator) EstimateCarInfo(_ context.Context, q ports.CarQuery, buildYear int) (models.CarInfo, error) {
	switch {
	case q.FuelType.IsElectric():
		return models.CarInfo{EcoScore: 80, Consumption: 17}, nil
	case q.FuelType.IsDiesel():
		return models.CarInfo{
			CylinderCc:   1598,
			Co2Emission:  125,
			EcoScore:     58,
			EuroNormCode: euroNormForYear(buildYear),
			Consumption:  5.2,
		}, nil
	default:
		return models.CarInfo{
			CylinderCc:   1395,
			Co2Emission:  135,
			EcoScore:     64,
			EuroNormCode: euroNormForYear(buildYear),
			Consumption:  6.3,
		}, nil
	}
}

// euroNormForYear returns the class every new car built in year had to meet.
func euroNormForYear(year int) string {
	switch {
	case year >= 2019:
		return "EURO_6D"
	case year >= 2015:
		return "EURO_6"
	case year >= 2011:
		return "EURO_5"
	case year >= 2006:
		return "EURO_4"
	case year >= 2001:
		return "EURO_3"
	case year >= 1997:
		return "EURO_2"
	default:
		return "EURO_1"
	}
}
