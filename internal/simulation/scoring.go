package simulation

import "github.com/Degagemain/degage-sub000/internal/refdata"

// minBonusPoints is the tally a car needs to be categorized at all.
const minBonusPoints = 2

// Extra pass thresholds.
const (
	extraEcoScoreHigh = 68
	extraEcoScoreLow  = 58
	extraMileageLow   = 100_000
	extraMileageHigh  = 160_000
	extraAgeLow       = 5
	extraAgeHigh      = 10
)

// BonusInput is everything the scorer looks at.
type BonusInput struct {
	EcoScore   int
	Mileage    int
	Age        int
	HighDemand bool
	Hub        refdata.Hub
}

// BonusOutcome records which bonuses applied and the final tally.
type BonusOutcome struct {
	EcoScore bool
	Mileage  bool
	Age      bool

	// ExtraPass is set when the extra pass ran; PointsBeforeExtra is the
	// tally it started from.
	ExtraPass         bool
	PointsBeforeExtra int

	Points int
}

// ExtraChanged reports whether the extra pass moved the tally.
func (o BonusOutcome) ExtraChanged() bool {
	return o.ExtraPass && o.Points != o.PointsBeforeExtra
}

// Qualifies reports whether the tally reaches the minimum.
func (o BonusOutcome) Qualifies() bool {
	return o.Points >= minBonusPoints
}

// ScoreBonus awards one point per hub bonus threshold met. Cars short of the
// minimum get an extra pass that can add or remove points on eco-score,
// mileage, age and town demand.
func ScoreBonus(in BonusInput) BonusOutcome {
	var out BonusOutcome

	if in.EcoScore >= in.Hub.MinEcoScoreForBonus {
		out.EcoScore = true
		out.Points++
	}
	if in.Mileage <= in.Hub.MaxKmForBonus {
		out.Mileage = true
		out.Points++
	}
	if in.Age <= in.Hub.MaxAgeForBonus {
		out.Age = true
		out.Points++
	}

	if out.Points >= minBonusPoints {
		return out
	}

	out.ExtraPass = true
	out.PointsBeforeExtra = out.Points

	switch {
	case in.EcoScore > extraEcoScoreHigh:
		out.Points++
	case in.EcoScore < extraEcoScoreLow:
		out.Points--
	}
	switch {
	case in.Mileage < extraMileageLow:
		out.Points++
	case in.Mileage > extraMileageHigh:
		out.Points--
	}
	switch {
	case in.Age < extraAgeLow:
		out.Points++
	case in.Age > extraAgeHigh:
		out.Points--
	}
	if in.HighDemand {
		out.Points++
	}
	return out
}

// EffectiveEcoScore prefers the curated car type score over the estimate,
// but only when a car type was selected and it carries a score.
func EffectiveEcoScore(carType *refdata.CarType, estimated int) int {
	if carType != nil && carType.EcoScore != nil {
		return *carType.EcoScore
	}
	return estimated
}
