package models

import (
	"fmt"
	"strings"

	dErrors "github.com/Degagemain/degage-sub000/pkg/domain-errors"
)

// ResultCode is the final categorization of a run.
type ResultCode string

const (
	ResultNotOK        ResultCode = "NOT_OK"
	ResultCategoryA    ResultCode = "CATEGORY_A"
	ResultCategoryB    ResultCode = "CATEGORY_B"
	ResultHigherRate   ResultCode = "HIGHER_RATE"
	ResultManualReview ResultCode = "MANUAL_REVIEW"
)

var resultCodes = []ResultCode{ResultNotOK, ResultCategoryA, ResultCategoryB, ResultHigherRate, ResultManualReview}

func (c ResultCode) IsValid() bool {
	for _, v := range resultCodes {
		if c == v {
			return true
		}
	}
	return false
}

func (c ResultCode) String() string { return string(c) }

// ParseResultCode accepts the code in any case.
func ParseResultCode(s string) (ResultCode, error) {
	c := ResultCode(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown result code %q", s))
	}
	return c, nil
}

// StepStatus classifies a step in the run log.
type StepStatus string

const (
	StatusOK      StepStatus = "OK"
	StatusNotOK   StepStatus = "NOT_OK"
	StatusInfo    StepStatus = "INFO"
	StatusWarning StepStatus = "WARNING"
	StatusError   StepStatus = "ERROR"
)

func (s StepStatus) IsValid() bool {
	switch s {
	case StatusOK, StatusNotOK, StatusInfo, StatusWarning, StatusError:
		return true
	}
	return false
}

// StepCode identifies what a step reports on. Together with the status it
// selects the message key.
type StepCode string

const (
	StepMileageCheck          StepCode = "MILEAGE_CHECK"
	StepAgeCheck              StepCode = "AGE_CHECK"
	StepCarValueEstimate      StepCode = "CAR_VALUE_ESTIMATE"
	StepCarInfoEstimate       StepCode = "CAR_INFO_ESTIMATE"
	StepCarTaxFlatRate        StepCode = "CAR_TAX_FLAT_RATE"
	StepCarTaxBaseRate        StepCode = "CAR_TAX_BASE_RATE"
	StepCarTaxCo2             StepCode = "CAR_TAX_CO2"
	StepCarTaxEuroNorm        StepCode = "CAR_TAX_EURO_NORM"
	StepInsuranceEstimate     StepCode = "INSURANCE_ESTIMATE"
	StepFuelCostPerKm         StepCode = "FUEL_COST_PER_KM"
	StepDepreciationCostPerKm StepCode = "DEPRECIATION_COST_PER_KM"
	StepKmCost                StepCode = "KM_COST"
	StepEcoScoreBonus         StepCode = "ECO_SCORE_BONUS"
	StepMileageBonus          StepCode = "MILEAGE_BONUS"
	StepAgeBonus              StepCode = "AGE_BONUS"
	StepExtraBonus            StepCode = "EXTRA_BONUS"
	StepErrorDuringStep       StepCode = "ERROR_DURING_STEP"
)

var stepCodes = []StepCode{
	StepMileageCheck, StepAgeCheck, StepCarValueEstimate, StepCarInfoEstimate,
	StepCarTaxFlatRate, StepCarTaxBaseRate, StepCarTaxCo2, StepCarTaxEuroNorm,
	StepInsuranceEstimate, StepFuelCostPerKm, StepDepreciationCostPerKm, StepKmCost,
	StepEcoScoreBonus, StepMileageBonus, StepAgeBonus, StepExtraBonus, StepErrorDuringStep,
}

func (c StepCode) IsValid() bool {
	for _, v := range stepCodes {
		if c == v {
			return true
		}
	}
	return false
}

// StepCodes lists every step code.
func StepCodes() []StepCode {
	out := make([]StepCode, len(stepCodes))
	copy(out, stepCodes)
	return out
}

// Phase marks the pipeline stage in progress, for error attribution only.
type Phase string

const (
	PhaseUnknown         Phase = "UNKNOWN"
	PhaseInitialChecks   Phase = "INITIAL_CHECKS"
	PhasePriceEstimation Phase = "PRICE_ESTIMATION"
	PhaseCarInfo         Phase = "CAR_INFO"
	PhaseCarTax          Phase = "CAR_TAX"
	PhaseCarInsurance    Phase = "CAR_INSURANCE"
	PhaseKmRate          Phase = "KM_RATE"
)

func (p Phase) IsValid() bool {
	switch p {
	case PhaseUnknown, PhaseInitialChecks, PhasePriceEstimation, PhaseCarInfo,
		PhaseCarTax, PhaseCarInsurance, PhaseKmRate:
		return true
	}
	return false
}

// Message keys.
const (
	KeyRejectionMileage = "rejections.mileage"
	KeyRejectionAge     = "rejections.age"
	KeyRejectionQuality = "rejections.quality"
	KeyRejectionPrice   = "rejections.price"
)

// StepKey is the message key for a step, e.g. "steps.mileage_check.ok".
func StepKey(code StepCode, status StepStatus) string {
	return "steps." + strings.ToLower(string(code)) + "." + strings.ToLower(string(status))
}

// PhaseKey is the message key naming a phase.
func PhaseKey(p Phase) string {
	if p == "" {
		p = PhaseUnknown
	}
	return "phases." + strings.ToLower(string(p))
}
