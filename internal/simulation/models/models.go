// Package models holds the simulation run data: the input, the accumulated
// result with its step log, and the persisted run.
package models

import (
	"strings"
	"time"

	id "github.com/Degagemain/degage-sub000/pkg/domain"
	dErrors "github.com/Degagemain/degage-sub000/pkg/domain-errors"
)

// RunInput is one simulation request. Either CarTypeID or CarTypeOther is set.
type RunInput struct {
	TownID            string    `json:"town_id" yaml:"town_id"`
	BrandID           string    `json:"brand_id" yaml:"brand_id"`
	FuelTypeID        string    `json:"fuel_type_id" yaml:"fuel_type_id"`
	CarTypeID         string    `json:"car_type_id,omitempty" yaml:"car_type_id"`
	CarTypeOther      string    `json:"car_type_other,omitempty" yaml:"car_type_other"`
	Mileage           int       `json:"mileage" yaml:"mileage"`
	OwnerKmPerYear    int       `json:"owner_km_per_year" yaml:"owner_km_per_year"`
	Seats             int       `json:"seats" yaml:"seats"`
	FirstRegisteredAt time.Time `json:"first_registered_at" yaml:"first_registered_at"`
	IsVan             bool      `json:"is_van" yaml:"is_van"`
}

// HasCarType reports whether a curated car type was selected.
func (in RunInput) HasCarType() bool {
	return in.CarTypeID != ""
}

// Validate checks the invariants the engine relies on.
func (in RunInput) Validate() error {
	switch {
	case strings.TrimSpace(in.TownID) == "":
		return dErrors.New(dErrors.CodeValidation, "town_id is required")
	case strings.TrimSpace(in.BrandID) == "":
		return dErrors.New(dErrors.CodeValidation, "brand_id is required")
	case strings.TrimSpace(in.FuelTypeID) == "":
		return dErrors.New(dErrors.CodeValidation, "fuel_type_id is required")
	case in.CarTypeID == "" && strings.TrimSpace(in.CarTypeOther) == "":
		return dErrors.New(dErrors.CodeValidation, "car_type_other is required when car_type_id is empty")
	case in.Mileage < 0:
		return dErrors.New(dErrors.CodeValidation, "mileage must not be negative")
	case in.OwnerKmPerYear < 1:
		return dErrors.New(dErrors.CodeValidation, "owner_km_per_year must be at least 1")
	case in.Seats < 1:
		return dErrors.New(dErrors.CodeValidation, "seats must be at least 1")
	case in.FirstRegisteredAt.IsZero():
		return dErrors.New(dErrors.CodeValidation, "first_registered_at is required")
	}
	return nil
}

// Step is one entry of the run log.
type Step struct {
	Code    StepCode   `json:"code"`
	Status  StepStatus `json:"status"`
	Message string     `json:"message"`
	Phase   Phase      `json:"phase,omitempty"`
}

// CarInfo is the resolved specification snapshot.
type CarInfo struct {
	CylinderCc   int     `json:"cylinder_cc"`
	Co2Emission  float64 `json:"co2_emission"`
	EcoScore     int     `json:"eco_score"`
	EuroNormCode string  `json:"euro_norm_code,omitempty"`
	Consumption  float64 `json:"consumption"`
}

// Figures are the intermediate numbers of a run, kept for explanation.
type Figures struct {
	EstimatedValue              float64 `json:"estimated_value"`
	TaxRate                     float64 `json:"tax_rate"`
	InsurancePrice              float64 `json:"insurance_price"`
	FixedYearCost               float64 `json:"fixed_year_cost"`
	EstimatedTotalYearlyMileage float64 `json:"estimated_total_yearly_mileage"`
	FuelCostPerKm               float64 `json:"fuel_cost_per_km"`
	DepreciationCostPerKm       float64 `json:"depreciation_cost_per_km"`
	KmCost                      float64 `json:"km_cost"`
	BonusPoints                 int     `json:"bonus_points"`
}

// Result accumulates one engine run. It is owned by a single goroutine and
// never reused; the step log is append-only.
type Result struct {
	ResultCode      ResultCode `json:"result_code"`
	Steps           []Step     `json:"steps"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	CarInfo         *CarInfo   `json:"car_info,omitempty"`
	Figures         Figures    `json:"figures"`
	Phase           Phase      `json:"-"`
}

// NewResult returns an empty accumulator in the MANUAL_REVIEW state.
func NewResult() *Result {
	return &Result{ResultCode: ResultManualReview, Steps: []Step{}}
}

// AddStep appends to the step log.
func (r *Result) AddStep(s Step) {
	r.Steps = append(r.Steps, s)
}

// Reject ends the run with NOT_OK.
func (r *Result) Reject(reason string) {
	r.ResultCode = ResultNotOK
	r.RejectionReason = reason
}

// CountStatus returns how many steps carry the given status.
func (r *Result) CountStatus(status StepStatus) int {
	n := 0
	for _, s := range r.Steps {
		if s.Status == status {
			n++
		}
	}
	return n
}

// Run is a persisted simulation.
type Run struct {
	ID        id.RunID  `json:"id"`
	Input     RunInput  `json:"input"`
	Result    Result    `json:"result"`
	Locale    string    `json:"locale"`
	CreatedAt time.Time `json:"created_at"`
}

// ListFilter narrows List results. Empty ResultCodes matches every run.
type ListFilter struct {
	ResultCodes []ResultCode
	Limit       int
}
