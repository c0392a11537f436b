package simulation

import "github.com/Degagemain/degage-sub000/internal/simulation/models"

// Category thresholds in currency per km.
const (
	categoryAMaxKmCost           = 0.38
	categoryBMaxKmCost           = 0.46
	categoryBMinSeats            = 7
	defaultHubMaxDepreciation    = 0.32
	electricMaxDepreciationPerKm = 0.33
)

// CategoryInput is what the final categorization looks at.
type CategoryInput struct {
	KmCost                float64
	DepreciationCostPerKm float64
	Seats                 int
	IsVan                 bool
	HubIsDefault          bool
	Electric              bool
}

// Categorize applies the rules in order; the first match wins.
func Categorize(in CategoryInput) models.ResultCode {
	switch {
	case in.KmCost <= categoryAMaxKmCost && in.Seats < categoryBMinSeats:
		return models.ResultCategoryA
	case in.Seats >= categoryBMinSeats && in.KmCost <= categoryBMaxKmCost:
		return models.ResultCategoryB
	case in.IsVan:
		return models.ResultHigherRate
	case in.HubIsDefault && in.DepreciationCostPerKm <= defaultHubMaxDepreciation:
		return models.ResultCategoryA
	case in.Electric && in.DepreciationCostPerKm <= electricMaxDepreciationPerKm:
		return models.ResultCategoryA
	default:
		return models.ResultNotOK
	}
}
