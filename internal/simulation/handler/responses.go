package handler

import (
	"time"

	"github.com/Degagemain/degage-sub000/internal/simulation/models"
)

// RunResponse is the HTTP representation of a stored simulation.
type RunResponse struct {
	ID              string          `json:"id"`
	ResultCode      string          `json:"result_code"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	Steps           []StepResponse  `json:"steps"`
	CarInfo         *models.CarInfo `json:"car_info,omitempty"`
	Figures         models.Figures  `json:"figures"`
	Input           InputResponse   `json:"input"`
	Locale          string          `json:"locale"`
	CreatedAt       time.Time       `json:"created_at"`
}

type StepResponse struct {
	Code    string `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type InputResponse struct {
	TownID            string `json:"town_id"`
	BrandID           string `json:"brand_id"`
	FuelTypeID        string `json:"fuel_type_id"`
	CarTypeID         string `json:"car_type_id,omitempty"`
	CarTypeOther      string `json:"car_type_other,omitempty"`
	Mileage           int    `json:"mileage"`
	OwnerKmPerYear    int    `json:"owner_km_per_year"`
	Seats             int    `json:"seats"`
	FirstRegisteredAt string `json:"first_registered_at"`
	IsVan             bool   `json:"is_van"`
}

// ListResponse wraps a page of simulations.
type ListResponse struct {
	Simulations []*RunResponse `json:"simulations"`
	Count       int            `json:"count"`
}

// FromRun converts a stored run to an HTTP response.
func FromRun(run *models.Run) *RunResponse {
	steps := make([]StepResponse, 0, len(run.Result.Steps))
	for _, s := range run.Result.Steps {
		steps = append(steps, StepResponse{
			Code:    string(s.Code),
			Status:  string(s.Status),
			Message: s.Message,
		})
	}
	in := run.Input
	return &RunResponse{
		ID:              run.ID.String(),
		ResultCode:      string(run.Result.ResultCode),
		RejectionReason: run.Result.RejectionReason,
		Steps:           steps,
		CarInfo:         run.Result.CarInfo,
		Figures:         run.Result.Figures,
		Input: InputResponse{
			TownID:            in.TownID,
			BrandID:           in.BrandID,
			FuelTypeID:        in.FuelTypeID,
			CarTypeID:         in.CarTypeID,
			CarTypeOther:      in.CarTypeOther,
			Mileage:           in.Mileage,
			OwnerKmPerYear:    in.OwnerKmPerYear,
			Seats:             in.Seats,
			FirstRegisteredAt: in.FirstRegisteredAt.Format(dateLayout),
			IsVan:             in.IsVan,
		},
		Locale:    run.Locale,
		CreatedAt: run.CreatedAt,
	}
}

func FromRuns(runs []*models.Run) *ListResponse {
	out := make([]*RunResponse, 0, len(runs))
	for _, r := range runs {
		out = append(out, FromRun(r))
	}
	return &ListResponse{Simulations: out, Count: len(out)}
}
