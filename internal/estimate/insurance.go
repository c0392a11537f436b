package estimate

import (
	"context"
	"time"

	"github.com/Degagemain/degage-sub000/pkg/money"
)

// InsuranceEstimator prices a yearly omnium premium as a base amount plus a
// share of the car's value.
type InsuranceEstimator struct {
	base      float64
	valueRate float64
}

func NewInsurance(basePremium, valueRate float64) *InsuranceEstimator {
	return &InsuranceEstimator{base: basePremium, valueRate: valueRate}
}

func (e *InsuranceEstimator) EstimateInsurancePrice(_ context.Context, value float64, _ time.Time) (float64, error) {
	if value < 0 {
		value = 0
	}
	return money.RoundWhole(e.base + value*e.valueRate), nil
}
