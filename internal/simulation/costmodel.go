package simulation

import (
	"github.com/Degagemain/degage-sub000/internal/refdata"
	"github.com/Degagemain/degage-sub000/internal/simulation/ports"
	"github.com/Degagemain/degage-sub000/pkg/money"
)

// DepreciationFraction is the share of depreciationKm already driven, capped at 1.
func DepreciationFraction(mileage, depreciationKm int) float64 {
	return float64(min(mileage, depreciationKm)) / float64(depreciationKm)
}

// EstimatedValue interpolates between the minimum and the estimated price by
// the remaining depreciation. A zero price means the estimator had no data
// and the minimum is used.
func EstimatedValue(pr ports.PriceRange, depreciationFraction float64) float64 {
	price := pr.Price
	if price == 0 {
		price = pr.Min
	}
	return pr.Min + (price-pr.Min)*(1-depreciationFraction)
}

// EstimatedTotalYearlyMileage scales the benchmark's shared use to the
// owner's declared yearly km.
func EstimatedTotalYearlyMileage(ownerKm int, b refdata.HubBenchmark) float64 {
	return float64(ownerKm) + float64(ownerKm)/float64(b.OwnerKm)*float64(b.SharedAvgKm)
}

// FuelCostPerKm converts a price per unit and a consumption per 100 km.
func FuelCostPerKm(pricePer, consumption float64) float64 {
	return pricePer * consumption / 100
}

// DepreciationCostPerKm spreads the value over the km left before full
// depreciation; a fully depreciated car costs nothing per km.
func DepreciationCostPerKm(estimatedValue float64, depreciationKm, mileage int) float64 {
	kmToDepreciation := max(0, depreciationKm-mileage)
	if kmToDepreciation == 0 {
		return 0
	}
	return estimatedValue / float64(kmToDepreciation)
}

// KmCost is the per-km rate rounded to cents.
func KmCost(fuelCostPerKm, fixedYearCost, totalYearlyMileage, depreciationCostPerKm float64) float64 {
	return money.Round(fuelCostPerKm+fixedYearCost/totalYearlyMileage+depreciationCostPerKm, 2)
}
