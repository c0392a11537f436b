// Package refdata holds the read-only reference data the simulation engine
// consults: towns and hubs, fiscal tables, fuel types and euro norms.
package refdata

import (
	"strings"
	"time"
)

// FuelCodeElectric and FuelCodeDiesel are the fuel codes with their own rules.
const (
	FuelCodeElectric = "electric"
	FuelCodeDiesel   = "diesel"
)

type Town struct {
	ID         string `yaml:"id" json:"id"`
	Name       string `yaml:"name" json:"name"`
	ProvinceID string `yaml:"province_id" json:"province_id"`
	HubID      string `yaml:"hub_id" json:"hub_id"`
	HighDemand bool   `yaml:"high_demand" json:"high_demand"`
}

type Province struct {
	ID             string `yaml:"id" json:"id"`
	Name           string `yaml:"name" json:"name"`
	FiscalRegionID string `yaml:"fiscal_region_id" json:"fiscal_region_id"`
}

type FiscalRegion struct {
	ID        string `yaml:"id" json:"id"`
	Code      string `yaml:"code" json:"code"`
	IsDefault bool   `yaml:"is_default" json:"is_default"`
}

// Hub is the per-fleet policy: eligibility limits, bonus thresholds and
// fixed yearly cost components.
type Hub struct {
	ID                     string  `yaml:"id" json:"id"`
	Name                   string  `yaml:"name" json:"name"`
	IsDefault              bool    `yaml:"is_default" json:"is_default"`
	MaxAgeYears            int     `yaml:"max_age_years" json:"max_age_years"`
	MaxKm                  int     `yaml:"max_km" json:"max_km"`
	MinEcoScoreForBonus    int     `yaml:"min_eco_score_for_bonus" json:"min_eco_score_for_bonus"`
	MaxKmForBonus          int     `yaml:"max_km_for_bonus" json:"max_km_for_bonus"`
	MaxAgeForBonus         int     `yaml:"max_age_for_bonus" json:"max_age_for_bonus"`
	DepreciationKm         int     `yaml:"depreciation_km" json:"depreciation_km"`
	DepreciationKmElectric int     `yaml:"depreciation_km_electric" json:"depreciation_km_electric"`
	InspectionCost         float64 `yaml:"inspection_cost" json:"inspection_cost"`
	MaintenanceCost        float64 `yaml:"maintenance_cost" json:"maintenance_cost"`
}

// DepreciationKmFor returns the depreciation distance for the fuel type.
func (h Hub) DepreciationKmFor(fuel FuelType) int {
	if fuel.IsElectric() {
		return h.DepreciationKmElectric
	}
	return h.DepreciationKm
}

// HubBenchmark maps an owner's declared yearly km to the shared-use km the
// hub typically adds on top.
type HubBenchmark struct {
	HubID       string `yaml:"hub_id" json:"hub_id"`
	OwnerKm     int    `yaml:"owner_km" json:"owner_km"`
	SharedMinKm int    `yaml:"shared_min_km" json:"shared_min_km"`
	SharedMaxKm int    `yaml:"shared_max_km" json:"shared_max_km"`
	SharedAvgKm int    `yaml:"shared_avg_km" json:"shared_avg_km"`
}

type FuelType struct {
	ID   string `yaml:"id" json:"id"`
	Code string `yaml:"code" json:"code"`
	Name string `yaml:"name" json:"name"`
	// PricePer is the price per litre, or per kWh for electric.
	PricePer float64 `yaml:"price_per" json:"price_per"`
}

func (f FuelType) IsElectric() bool {
	return strings.EqualFold(f.Code, FuelCodeElectric)
}

func (f FuelType) IsDiesel() bool {
	return strings.EqualFold(f.Code, FuelCodeDiesel)
}

type Brand struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// CarType is a curated brand model. EcoScore is nil when not curated.
type CarType struct {
	ID         string `yaml:"id" json:"id"`
	BrandID    string `yaml:"brand_id" json:"brand_id"`
	FuelTypeID string `yaml:"fuel_type_id" json:"fuel_type_id"`
	Name       string `yaml:"name" json:"name"`
	EcoScore   *int   `yaml:"eco_score" json:"eco_score,omitempty"`
}

// EuroNorm is an emissions class; Group bands classes for tax adjustment.
type EuroNorm struct {
	ID    string `yaml:"id" json:"id"`
	Code  string `yaml:"code" json:"code"`
	Group int    `yaml:"group" json:"group"`
}

// Validity is a date window; End nil means open-ended.
type Validity struct {
	Start time.Time  `yaml:"start" json:"start"`
	End   *time.Time `yaml:"end" json:"end,omitempty"`
}

// ValidOn reports whether d falls inside the window, inclusive on both ends.
func (v Validity) ValidOn(d time.Time) bool {
	day := truncateDay(d)
	if day.Before(truncateDay(v.Start)) {
		return false
	}
	return v.End == nil || !day.After(truncateDay(*v.End))
}

// CarTaxBaseRate is one cylinder-capacity band of the yearly road tax.
type CarTaxBaseRate struct {
	FiscalRegionID string   `yaml:"fiscal_region_id" json:"fiscal_region_id"`
	Validity       Validity `yaml:",inline" json:"validity"`
	MinCc          int      `yaml:"min_cc" json:"min_cc"`
	MaxCc          int      `yaml:"max_cc" json:"max_cc"`
	Rate           float64  `yaml:"rate" json:"rate"`
}

// CoversCc reports whether cc falls in [MinCc, MaxCc].
func (r CarTaxBaseRate) CoversCc(cc int) bool {
	return cc >= r.MinCc && cc <= r.MaxCc
}

// CarTaxFlatRate is the flat yearly tax for electric vehicles.
type CarTaxFlatRate struct {
	FiscalRegionID string   `yaml:"fiscal_region_id" json:"fiscal_region_id"`
	Validity       Validity `yaml:",inline" json:"validity"`
	Rate           float64  `yaml:"rate" json:"rate"`
}

// CarTaxEuroNormAdjustment is the relative tax adjustment for a euro norm group.
type CarTaxEuroNormAdjustment struct {
	FiscalRegionID    string  `yaml:"fiscal_region_id" json:"fiscal_region_id"`
	EuroNormGroup     int     `yaml:"euro_norm_group" json:"euro_norm_group"`
	DefaultAdjustment float64 `yaml:"default_adjustment" json:"default_adjustment"`
	DieselAdjustment  float64 `yaml:"diesel_adjustment" json:"diesel_adjustment"`
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
