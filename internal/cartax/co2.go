package cartax

import "time"

// co2Cutover is the first registration date taxed with the 2021 CO2 table.
var co2Cutover = time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)

const co2FactorPerGram = 0.003

// Co2Range is the threshold triple of the CO2 table.
type Co2Range struct {
	Low  float64 `json:"low"`
	Mid  float64 `json:"mid"`
	High float64 `json:"high"`
}

var (
	co2RangeBefore2021 = Co2Range{Low: 25, Mid: 123, High: 500}
	co2RangeFrom2021   = Co2Range{Low: 25, Mid: 150, High: 500}
)

// Co2RangeFor returns the thresholds applicable to a first registration date.
func Co2RangeFor(firstRegistration time.Time) Co2Range {
	if onOrAfter(firstRegistration, co2Cutover) {
		return co2RangeFrom2021
	}
	return co2RangeBefore2021
}

// Co2Adjustment is the bonus or malus on the base rate.
type Co2Adjustment struct {
	Co2Diff   float64  `json:"co2_diff"`
	Co2Factor float64  `json:"co2_factor"`
	Diff      float64  `json:"diff"`
	Co2Range  Co2Range `json:"co2_range"`
}

// CalculateCo2Diff computes the CO2 bonus/malus on baseRate. At or above the
// mid threshold the malus grows with emissions up to the high threshold;
// below mid the bonus is proportional to the distance above low.
func CalculateCo2Diff(firstRegistration time.Time, co2Emission, baseRate float64) Co2Adjustment {
	r := Co2RangeFor(firstRegistration)

	var diff float64
	switch {
	case co2Emission >= r.Mid:
		diff = max(0, r.High-co2Emission)
	case co2Emission <= r.Low:
		diff = 0
	default:
		diff = co2Emission - r.Low
	}

	factor := diff * co2FactorPerGram
	co2Diff := baseRate * factor
	if co2Emission < r.Mid {
		co2Diff = -co2Diff
	}

	return Co2Adjustment{
		Co2Diff:   co2Diff,
		Co2Factor: factor,
		Diff:      diff,
		Co2Range:  r,
	}
}

func onOrAfter(d, cutover time.Time) bool {
	y, m, day := d.Date()
	return !time.Date(y, m, day, 0, 0, 0, 0, time.UTC).Before(cutover)
}
