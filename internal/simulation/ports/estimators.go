//go:generate mockgen -source=estimators.go -destination=../mocks/estimators.go -package=mocks ValueEstimator,SpecEstimator,InsuranceEstimator

package ports

import (
	"context"
	"time"

	"github.com/Degagemain/degage-sub000/internal/refdata"
	"github.com/Degagemain/degage-sub000/internal/simulation/models"
)

// PriceRange is a value estimate in currency units. Price may be 0 when the
// estimator has no data, in which case Min is used.
type PriceRange struct {
	Price float64 `json:"price"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// CarQuery identifies the car being estimated. CarTypeID is empty when the
// owner entered a free-text CarTypeOther.
type CarQuery struct {
	BrandID      string
	FuelType     refdata.FuelType
	CarTypeID    string
	CarTypeOther string
}

// ValueEstimator estimates the market value of a car by registration date.
type ValueEstimator interface {
	EstimateCarValue(ctx context.Context, q CarQuery, firstRegisteredAt time.Time) (PriceRange, error)
}

// SpecEstimator estimates the technical specification of a car by build year.
type SpecEstimator interface {
	EstimateCarInfo(ctx context.Context, q CarQuery, buildYear int) (models.CarInfo, error)
}

// InsuranceEstimator returns the yearly insurance premium for a car value.
type InsuranceEstimator interface {
	EstimateInsurancePrice(ctx context.Context, estimatedValue float64, asOf time.Time) (float64, error)
}
