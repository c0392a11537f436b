package handler

import (
	"strings"
	"time"

	"github.com/Degagemain/degage-sub000/internal/simulation/models"
	dErrors "github.com/Degagemain/degage-sub000/pkg/domain-errors"
)

const dateLayout = "2006-01-02"

// SimulateRequest is the HTTP request body for POST /simulations.
type SimulateRequest struct {
	TownID            string `json:"town_id"`
	BrandID           string `json:"brand_id"`
	FuelTypeID        string `json:"fuel_type_id"`
	CarTypeID         string `json:"car_type_id"`
	CarTypeOther      string `json:"car_type_other"`
	Mileage           int    `json:"mileage"`
	OwnerKmPerYear    int    `json:"owner_km_per_year"`
	Seats             int    `json:"seats"`
	FirstRegisteredAt string `json:"first_registered_at"`
	IsVan             bool   `json:"is_van"`

	// Parsed values (populated by Validate)
	parsedFirstRegisteredAt time.Time
}

// Validate normalizes the request and parses the registration date.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *SimulateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	// Size validation (fail fast)
	if len(r.CarTypeOther) > 200 {
		return dErrors.New(dErrors.CodeValidation, "car_type_other must be at most 200 characters")
	}

	r.TownID = strings.TrimSpace(r.TownID)
	r.BrandID = strings.TrimSpace(r.BrandID)
	r.FuelTypeID = strings.TrimSpace(r.FuelTypeID)
	r.CarTypeID = strings.TrimSpace(r.CarTypeID)
	r.CarTypeOther = strings.TrimSpace(r.CarTypeOther)

	raw := strings.TrimSpace(r.FirstRegisteredAt)
	if raw == "" {
		return dErrors.New(dErrors.CodeValidation, "first_registered_at is required")
	}
	date, err := time.Parse(dateLayout, raw)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "first_registered_at must be a date formatted as YYYY-MM-DD")
	}
	r.parsedFirstRegisteredAt = date

	return r.ToInput().Validate()
}

// ToInput converts the validated request to an engine input.
func (r *SimulateRequest) ToInput() models.RunInput {
	return models.RunInput{
		TownID:            r.TownID,
		BrandID:           r.BrandID,
		FuelTypeID:        r.FuelTypeID,
		CarTypeID:         r.CarTypeID,
		CarTypeOther:      r.CarTypeOther,
		Mileage:           r.Mileage,
		OwnerKmPerYear:    r.OwnerKmPerYear,
		Seats:             r.Seats,
		FirstRegisteredAt: r.parsedFirstRegisteredAt,
		IsVan:             r.IsVan,
	}
}
