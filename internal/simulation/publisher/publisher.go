// Package publisher emits a simulation.completed event for every stored run.
package publisher

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/Degagemain/degage-sub000/internal/simulation/models"
)

// EventType names the event on the wire.
const EventType = "simulation.completed"

// Publisher delivers run events. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, run *models.Run) error
	Close()
}

// Event is the JSON payload of a simulation.completed event.
type Event struct {
	Type            string            `json:"type"`
	RunID           string            `json:"run_id"`
	ResultCode      models.ResultCode `json:"result_code"`
	RejectionReason string            `json:"rejection_reason,omitempty"`
	TownID          string            `json:"town_id"`
	FuelTypeID      string            `json:"fuel_type_id"`
	KmCost          float64           `json:"km_cost"`
	BonusPoints     int               `json:"bonus_points"`
	Locale          string            `json:"locale"`
	CreatedAt       time.Time         `json:"created_at"`
}

// NewEvent builds the event for run.
func NewEvent(run *models.Run) Event {
	return Event{
		Type:            EventType,
		RunID:           run.ID.String(),
		ResultCode:      run.Result.ResultCode,
		RejectionReason: run.Result.RejectionReason,
		TownID:          run.Input.TownID,
		FuelTypeID:      run.Input.FuelTypeID,
		KmCost:          run.Result.Figures.KmCost,
		BonusPoints:     run.Result.Figures.BonusPoints,
		Locale:          run.Locale,
		CreatedAt:       run.CreatedAt,
	}
}

func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// LogPublisher writes events to the logger. Used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, run *models.Run) error {
	if p.logger == nil || run == nil {
		return nil
	}
	p.logger.DebugContext(ctx, "simulation event",
		"type", EventType,
		"run_id", run.ID,
		"result_code", run.Result.ResultCode,
	)
	return nil
}

func (p *LogPublisher) Close() {}
