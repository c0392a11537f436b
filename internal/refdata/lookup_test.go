package refdata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSelectBenchmark(t *testing.T) {
	bands := []HubBenchmark{
		{HubID: "gent", OwnerKm: 15000, SharedAvgKm: 4000},
		{HubID: "gent", OwnerKm: 5000, SharedAvgKm: 6000},
		{HubID: "gent", OwnerKm: 10000, SharedAvgKm: 5000},
	}

	tests := []struct {
		name    string
		ownerKm int
		want    int
	}{
		{"below the smallest band picks the smallest", 1000, 5000},
		{"exact match picks that band", 10000, 10000},
		{"between bands picks the next one up", 10001, 15000},
		{"above every band falls back to the largest", 40000, 15000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectBenchmark(bands, tt.ownerKm)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got.OwnerKm)
		})
	}

	t.Run("no bands", func(t *testing.T) {
		_, ok := SelectBenchmark(nil, 1000)
		assert.False(t, ok)
	})
}

func TestValidity(t *testing.T) {
	end := day(2020, 12, 31)
	closed := Validity{Start: day(2016, 1, 1), End: &end}
	open := Validity{Start: day(2021, 1, 1)}

	assert.False(t, closed.ValidOn(day(2015, 12, 31)))
	assert.True(t, closed.ValidOn(day(2016, 1, 1)))
	assert.True(t, closed.ValidOn(time.Date(2020, 12, 31, 18, 30, 0, 0, time.UTC)))
	assert.False(t, closed.ValidOn(day(2021, 1, 1)))

	assert.False(t, open.ValidOn(day(2020, 12, 31)))
	assert.True(t, open.ValidOn(day(2099, 1, 1)))
}

func TestSelectHighestBand(t *testing.T) {
	rates := []CarTaxBaseRate{
		{FiscalRegionID: "flanders", Validity: Validity{Start: day(2000, 1, 1)}, MinCc: 0, MaxCc: 750},
		{FiscalRegionID: "flanders", Validity: Validity{Start: day(2000, 1, 1)}, MinCc: 751, MaxCc: 2000},
		{FiscalRegionID: "flanders", Validity: Validity{Start: day(2030, 1, 1)}, MinCc: 2001, MaxCc: 5000},
		{FiscalRegionID: "wallonia", Validity: Validity{Start: day(2000, 1, 1)}, MinCc: 0, MaxCc: 9000},
	}

	got, ok := SelectHighestBand(rates, "flanders", day(2022, 1, 1))
	assert.True(t, ok)
	assert.Equal(t, 2000, got.MaxCc)

	_, ok = SelectHighestBand(rates, "brussels", day(2022, 1, 1))
	assert.False(t, ok)
}

func TestHubDepreciationKm(t *testing.T) {
	h := Hub{DepreciationKm: 250000, DepreciationKmElectric: 300000}
	assert.Equal(t, 300000, h.DepreciationKmFor(FuelType{Code: "ELECTRIC"}))
	assert.Equal(t, 250000, h.DepreciationKmFor(FuelType{Code: "diesel"}))
}
