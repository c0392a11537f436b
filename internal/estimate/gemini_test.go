package estimate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/Degagemain/degage-sub000/internal/refdata"
	"github.com/Degagemain/degage-sub000/internal/simulation/ports"
	"github.com/Degagemain/degage-sub000/pkg/platform/circuit"
	"github.com/Degagemain/degage-sub000/pkg/platform/sentinel"
)

type fakeGenerator struct {
	answers []string
	errs    []error
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	i := len(f.prompts) - 1
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return "", err
	}
	if i < len(f.answers) {
		return f.answers[i], nil
	}
	return f.answers[len(f.answers)-1], nil
}

type fakeNames struct{}

func (fakeNames) Brand(_ context.Context, id string) (refdata.Brand, error) {
	if id == "volkswagen" {
		return refdata.Brand{ID: id, Name: "Volkswagen"}, nil
	}
	return refdata.Brand{}, sentinel.ErrNotFound
}

func (fakeNames) CarType(_ context.Context, id string) (refdata.CarType, error) {
	if id == "vw-golf" {
		return refdata.CarType{ID: id, BrandID: "volkswagen", Name: "Golf"}, nil
	}
	return refdata.CarType{}, sentinel.ErrNotFound
}

var dieselQuery = ports.CarQuery{
	BrandID:   "volkswagen",
	FuelType:  refdata.FuelType{ID: "diesel", Code: "diesel", Name: "Diesel"},
	CarTypeID: "vw-golf",
}

type GeminiSuite struct {
	suite.Suite
	ctx context.Context
}

func TestGeminiSuite(t *testing.T) {
	suite.Run(t, new(GeminiSuite))
}

func (s *GeminiSuite) SetupTest() {
	s.ctx = context.Background()
}

// =============================================================================
// Value estimation
// =============================================================================

func (s *GeminiSuite) TestEstimateCarValue() {
	s.Run("parses fenced JSON answers", func() {
		gen := &fakeGenerator{answers: []string{"```json\n{\"price\": 12500, \"min\": 11000, \"max\": 14000}\n```"}}
		g := newGemini(gen, fakeNames{})

		got, err := g.EstimateCarValue(s.ctx, dieselQuery, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
		s.Require().NoError(err)
		s.Equal(ports.PriceRange{Price: 12500, Min: 11000, Max: 14000}, got)
		s.Contains(gen.prompts[0], "Volkswagen Golf")
		s.Contains(gen.prompts[0], "2020-01-01")
	})

	s.Run("uses free text when no car type is selected", func() {
		gen := &fakeGenerator{answers: []string{`{"price": 1, "min": 1, "max": 1}`}}
		g := newGemini(gen, fakeNames{})
		q := dieselQuery
		q.CarTypeID = ""
		q.CarTypeOther = "Passat Variant"

		_, err := g.EstimateCarValue(s.ctx, q, time.Now())
		s.Require().NoError(err)
		s.Contains(gen.prompts[0], "Volkswagen Passat Variant")
	})

	s.Run("rejects inconsistent ranges", func() {
		gen := &fakeGenerator{answers: []string{`{"price": 10000, "min": 12000, "max": 9000}`}}
		g := newGemini(gen, fakeNames{})

		_, err := g.EstimateCarValue(s.ctx, dieselQuery, time.Now())
		s.Equal(ErrorBadData, CategoryOf(err))
	})

	s.Run("malformed JSON is bad data", func() {
		gen := &fakeGenerator{answers: []string{"about 12k euro"}}
		g := newGemini(gen, fakeNames{})

		_, err := g.EstimateCarValue(s.ctx, dieselQuery, time.Now())
		s.Equal(ErrorBadData, CategoryOf(err))
		s.False(IsRetryable(err))
	})

	s.Run("unknown brand is reported before calling the model", func() {
		gen := &fakeGenerator{answers: []string{"{}"}}
		g := newGemini(gen, fakeNames{})
		q := dieselQuery
		q.BrandID = "unknown"

		_, err := g.EstimateCarValue(s.ctx, q, time.Now())
		s.ErrorIs(err, sentinel.ErrNotFound)
		s.Empty(gen.prompts)
	})
}

// =============================================================================
// Spec estimation
// =============================================================================

func (s *GeminiSuite) TestEstimateCarInfo() {
	s.Run("normalizes the euro norm code", func() {
		gen := &fakeGenerator{answers: []string{`{"cylinder_cc": 1968, "co2_emission": 118.5, "eco_score": 61, "euro_norm_code": " euro_6d ", "consumption": 4.6}`}}
		g := newGemini(gen, fakeNames{})

		info, err := g.EstimateCarInfo(s.ctx, dieselQuery, 2021)
		s.Require().NoError(err)
		s.Equal(1968, info.CylinderCc)
		s.Equal("EURO_6D", info.EuroNormCode)
		s.InDelta(4.6, info.Consumption, 1e-9)
	})

	s.Run("rejects eco scores out of range", func() {
		gen := &fakeGenerator{answers: []string{`{"cylinder_cc": 1968, "eco_score": 140}`}}
		g := newGemini(gen, fakeNames{})

		_, err := g.EstimateCarInfo(s.ctx, dieselQuery, 2021)
		s.Equal(ErrorBadData, CategoryOf(err))
	})
}

// =============================================================================
// Circuit breaking
// =============================================================================

func (s *GeminiSuite) TestCircuit() {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	boom := errors.New("503 service unavailable")
	gen := &fakeGenerator{
		errs:    []error{boom, boom, nil},
		answers: []string{"", "", `{"price": 1000, "min": 900, "max": 1100}`},
	}
	g := newGemini(gen, fakeNames{},
		WithBreaker(circuit.New("gemini", circuit.WithFailureThreshold(2), circuit.WithSuccessThreshold(1))),
		WithProbeInterval(time.Minute),
	)
	g.clock = func() time.Time { return now }

	for range 2 {
		_, err := g.EstimateCarValue(s.ctx, dieselQuery, now)
		s.Equal(ErrorProviderOutage, CategoryOf(err))
		s.True(IsRetryable(err))
	}
	s.True(g.breaker.IsOpen())

	_, err := g.EstimateCarValue(s.ctx, dieselQuery, now)
	s.Equal(ErrorProviderOutage, CategoryOf(err))
	s.Len(gen.prompts, 2, "open circuit fails fast")

	now = now.Add(2 * time.Minute)
	got, err := g.EstimateCarValue(s.ctx, dieselQuery, now)
	s.Require().NoError(err)
	s.InDelta(1000, got.Price, 1e-9)
	s.False(g.breaker.IsOpen())
}

func TestCleanJSON(t *testing.T) {
	tests := map[string]string{
		"{\"a\":1}":               "{\"a\":1}",
		"```json\n{\"a\":1}\n```": "{\"a\":1}",
		"  ```\n{\"a\":1}```  ":   "{\"a\":1}",
	}
	for in, want := range tests {
		if got := cleanJSON(in); got != want {
			t.Errorf("cleanJSON(%q) = %q, want %q", in, got, want)
		}
	}
}
