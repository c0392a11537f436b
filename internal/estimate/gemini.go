package estimate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/Degagemain/degage-sub000/internal/refdata"
	"github.com/Degagemain/degage-sub000/internal/simulation/models"
	"github.com/Degagemain/degage-sub000/internal/simulation/ports"
	"github.com/Degagemain/degage-sub000/pkg/platform/circuit"
)

const geminiProvider = "gemini"

// NameLookup resolves IDs to the names used in prompts.
type NameLookup interface {
	Brand(ctx context.Context, id string) (refdata.Brand, error)
	CarType(ctx context.Context, id string) (refdata.CarType, error)
}

// generator produces the raw text answer for a prompt.
type generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type geminiModel struct {
	model *genai.GenerativeModel
}

func (g geminiModel) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("no response candidates")
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return b.String(), nil
}

// GeminiEstimator asks Gemini for second-hand values and technical specs.
// Consecutive failures open a circuit; while open, calls fail fast with
// ErrorProviderOutage except for one probe per probe interval.
type GeminiEstimator struct {
	client  *genai.Client
	gen     generator
	names   NameLookup
	breaker *circuit.Breaker
	logger  *slog.Logger
	timeout time.Duration

	probeInterval time.Duration
	clock         func() time.Time
	mu            sync.Mutex
	nextProbe     time.Time
}

type GeminiOption func(*GeminiEstimator)

func WithGeminiLogger(logger *slog.Logger) GeminiOption {
	return func(g *GeminiEstimator) { g.logger = logger }
}

func WithBreaker(b *circuit.Breaker) GeminiOption {
	return func(g *GeminiEstimator) { g.breaker = b }
}

func WithRequestTimeout(d time.Duration) GeminiOption {
	return func(g *GeminiEstimator) { g.timeout = d }
}

func WithProbeInterval(d time.Duration) GeminiOption {
	return func(g *GeminiEstimator) { g.probeInterval = d }
}

// NewGemini creates a Gemini client in JSON response mode.
func NewGemini(ctx context.Context, apiKey, model string, names NameLookup, opts ...GeminiOption) (*GeminiEstimator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini: missing api key")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	m := client.GenerativeModel(model)
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(0.1)

	g := newGemini(geminiModel{model: m}, names, opts...)
	g.client = client
	return g, nil
}

func newGemini(gen generator, names NameLookup, opts ...GeminiOption) *GeminiEstimator {
	g := &GeminiEstimator{
		gen:           gen,
		names:         names,
		timeout:       20 * time.Second,
		probeInterval: 30 * time.Second,
		clock:         time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.breaker == nil {
		g.breaker = circuit.New(geminiProvider)
	}
	return g
}

func (g *GeminiEstimator) Close() {
	if g.client != nil {
		g.client.Close()
	}
}

type valueAnswer struct {
	Price float64 `json:"price"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

func (g *GeminiEstimator) EstimateCarValue(ctx context.Context, q ports.CarQuery, firstRegisteredAt time.Time) (ports.PriceRange, error) {
	car, err := g.describe(ctx, q)
	if err != nil {
		return ports.PriceRange{}, err
	}
	prompt := fmt.Sprintf(`You estimate second-hand car prices on the Belgian market in EUR.
Car: %s
Fuel: %s
First registration: %s
Answer with JSON only: {"price": number, "min": number, "max": number}.
"price" is the most likely private sale price today, "min" and "max" bound the typical range.`,
		car, q.FuelType.Name, firstRegisteredAt.Format("2006-01-02"))

	var ans valueAnswer
	if err := g.ask(ctx, prompt, &ans); err != nil {
		return ports.PriceRange{}, err
	}
	if ans.Price < 0 || ans.Min < 0 || ans.Max < ans.Min {
		return ports.PriceRange{}, NewProviderError(ErrorBadData, geminiProvider,
			fmt.Sprintf("inconsistent price range %v/%v/%v", ans.Min, ans.Price, ans.Max), nil)
	}
	return ports.PriceRange{Price: ans.Price, Min: ans.Min, Max: ans.Max}, nil
}

type specAnswer struct {
	CylinderCc   int     `json:"cylinder_cc"`
	Co2Emission  float64 `json:"co2_emission"`
	EcoScore     int     `json:"eco_score"`
	EuroNormCode string  `json:"euro_norm_code"`
	Consumption  float64 `json:"consumption"`
}

func (g *GeminiEstimator) EstimateCarInfo(ctx context.Context, q ports.CarQuery, buildYear int) (models.CarInfo, error) {
	car, err := g.describe(ctx, q)
	if err != nil {
		return models.CarInfo{}, err
	}
	prompt := fmt.Sprintf(`You provide technical data for cars sold in Belgium.
Car: %s
Fuel: %s
Build year: %d
Answer with JSON only:
{"cylinder_cc": integer, "co2_emission": number (g/km WLTP), "eco_score": integer (0-100),
 "euro_norm_code": one of "EURO_1".."EURO_6", "EURO_6D" or "" for electric cars,
 "consumption": number (litres per 100 km, or kWh per 100 km for electric cars)}`,
		car, q.FuelType.Name, buildYear)

	var ans specAnswer
	if err := g.ask(ctx, prompt, &ans); err != nil {
		return models.CarInfo{}, err
	}
	if ans.CylinderCc < 0 || ans.Co2Emission < 0 || ans.Consumption < 0 || ans.EcoScore < 0 || ans.EcoScore > 100 {
		return models.CarInfo{}, NewProviderError(ErrorBadData, geminiProvider, "specs out of range", nil)
	}
	return models.CarInfo{
		CylinderCc:   ans.CylinderCc,
		Co2Emission:  ans.Co2Emission,
		EcoScore:     ans.EcoScore,
		EuroNormCode: strings.ToUpper(strings.TrimSpace(ans.EuroNormCode)),
		Consumption:  ans.Consumption,
	}, nil
}

// describe renders "<brand> <model>" from the query.
func (g *GeminiEstimator) describe(ctx context.Context, q ports.CarQuery) (string, error) {
	brand, err := g.names.Brand(ctx, q.BrandID)
	if err != nil {
		return "", fmt.Errorf("brand %q: %w", q.BrandID, err)
	}
	model := q.CarTypeOther
	if q.CarTypeID != "" {
		ct, err := g.names.CarType(ctx, q.CarTypeID)
		if err != nil {
			return "", fmt.Errorf("car type %q: %w", q.CarTypeID, err)
		}
		model = ct.Name
	}
	return strings.TrimSpace(brand.Name + " " + model), nil
}

func (g *GeminiEstimator) ask(ctx context.Context, prompt string, out any) error {
	if !g.allow() {
		return NewProviderError(ErrorProviderOutage, geminiProvider, "circuit open", nil)
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	raw, err := g.gen.Generate(callCtx, prompt)
	if err != nil {
		g.recordFailure(ctx, err)
		if errors.Is(err, context.DeadlineExceeded) {
			return NewProviderError(ErrorTimeout, geminiProvider, "generation timed out", err)
		}
		return NewProviderError(ErrorProviderOutage, geminiProvider, "generation failed", err)
	}

	if err := json.Unmarshal([]byte(cleanJSON(raw)), out); err != nil {
		g.recordFailure(ctx, err)
		return NewProviderError(ErrorBadData, geminiProvider, "malformed JSON answer", err)
	}
	if _, change := g.breaker.RecordSuccess(); change.Closed && g.logger != nil {
		g.logger.InfoContext(ctx, "estimate circuit closed", "provider", geminiProvider)
	}
	return nil
}

// allow reports whether a call may reach the provider.
func (g *GeminiEstimator) allow() bool {
	if !g.breaker.IsOpen() {
		return true
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.clock()
	if now.Before(g.nextProbe) {
		return false
	}
	g.nextProbe = now.Add(g.probeInterval)
	return true
}

func (g *GeminiEstimator) recordFailure(ctx context.Context, err error) {
	_, change := g.breaker.RecordFailure()
	if change.Opened {
		g.mu.Lock()
		g.nextProbe = g.clock().Add(g.probeInterval)
		g.mu.Unlock()
		if g.logger != nil {
			g.logger.WarnContext(ctx, "estimate circuit opened",
				"provider", geminiProvider,
				"error", err,
			)
		}
	}
}

// cleanJSON strips markdown fences some answers arrive wrapped in.
func cleanJSON(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
