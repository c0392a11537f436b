package cartax

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCo2RangeFor(t *testing.T) {
	t.Run("day before cutover uses the old table", func(t *testing.T) {
		assert.Equal(t, Co2Range{Low: 25, Mid: 123, High: 500}, Co2RangeFor(date(2020, 12, 31)))
	})
	t.Run("cutover day uses the 2021 table", func(t *testing.T) {
		assert.Equal(t, Co2Range{Low: 25, Mid: 150, High: 500}, Co2RangeFor(date(2021, 1, 1)))
	})
	t.Run("time of day does not matter", func(t *testing.T) {
		late := time.Date(2020, 12, 31, 23, 59, 0, 0, time.UTC)
		assert.Equal(t, 123.0, Co2RangeFor(late).Mid)
	})
}

func TestCalculateCo2Diff(t *testing.T) {
	const base = 400.0

	t.Run("emission at low is neutral", func(t *testing.T) {
		for _, d := range []time.Time{date(2019, 5, 1), date(2022, 5, 1)} {
			got := CalculateCo2Diff(d, 25, base)
			assert.Zero(t, got.Diff)
			assert.InDelta(t, 0, got.Co2Diff, 1e-9)
		}
	})

	t.Run("emission below low is neutral", func(t *testing.T) {
		got := CalculateCo2Diff(date(2022, 5, 1), 10, base)
		assert.Zero(t, got.Diff)
		assert.InDelta(t, 0, got.Co2Diff, 1e-9)
	})

	t.Run("emission at high has no malus", func(t *testing.T) {
		got := CalculateCo2Diff(date(2022, 5, 1), 500, base)
		assert.Zero(t, got.Diff)
		assert.InDelta(t, 0, got.Co2Diff, 1e-9)
	})

	t.Run("emission above high saturates", func(t *testing.T) {
		got := CalculateCo2Diff(date(2022, 5, 1), 650, base)
		assert.Zero(t, got.Diff)
	})

	t.Run("at mid is a malus", func(t *testing.T) {
		got := CalculateCo2Diff(date(2022, 5, 1), 150, base)
		assert.Equal(t, 350.0, got.Diff)
		assert.InDelta(t, 1.05, got.Co2Factor, 1e-9)
		assert.InDelta(t, base*1.05, got.Co2Diff, 1e-9)
	})

	t.Run("below mid is a bonus", func(t *testing.T) {
		got := CalculateCo2Diff(date(2022, 5, 1), 100, base)
		assert.Equal(t, 75.0, got.Diff)
		assert.InDelta(t, -base*0.225, got.Co2Diff, 1e-9)
	})

	t.Run("bonus grows moving from low toward mid", func(t *testing.T) {
		prev := 0.0
		for e := 26.0; e < 150; e += 4 {
			got := CalculateCo2Diff(date(2022, 5, 1), e, base)
			assert.Less(t, got.Co2Diff, 0.0)
			assert.Greater(t, -got.Co2Diff, prev)
			prev = -got.Co2Diff
		}
	})

	t.Run("cutover flips the side of 130 g/km", func(t *testing.T) {
		before := CalculateCo2Diff(date(2020, 12, 31), 130, base)
		after := CalculateCo2Diff(date(2021, 1, 1), 130, base)

		assert.Equal(t, 123.0, before.Co2Range.Mid)
		assert.Greater(t, before.Co2Diff, 0.0)
		assert.Equal(t, 370.0, before.Diff)

		assert.Equal(t, 150.0, after.Co2Range.Mid)
		assert.Less(t, after.Co2Diff, 0.0)
		assert.Equal(t, 105.0, after.Diff)
	})
}
