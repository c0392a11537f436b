// Package store provides the reference data backends: an in-memory store
// seeded from YAML and a PostgreSQL store.
package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Degagemain/degage-sub000/internal/refdata"
	"github.com/Degagemain/degage-sub000/pkg/platform/sentinel"
)

// Seed is the YAML document shape accepted by Load.
type Seed struct {
	FiscalRegions       []refdata.FiscalRegion             `yaml:"fiscal_regions"`
	Provinces           []refdata.Province                 `yaml:"provinces"`
	Hubs                []refdata.Hub                      `yaml:"hubs"`
	HubBenchmarks       []refdata.HubBenchmark             `yaml:"hub_benchmarks"`
	Towns               []refdata.Town                     `yaml:"towns"`
	FuelTypes           []refdata.FuelType                 `yaml:"fuel_types"`
	Brands              []refdata.Brand                    `yaml:"brands"`
	CarTypes            []refdata.CarType                  `yaml:"car_types"`
	EuroNorms           []refdata.EuroNorm                 `yaml:"euro_norms"`
	BaseRates           []refdata.CarTaxBaseRate           `yaml:"car_tax_base_rates"`
	FlatRates           []refdata.CarTaxFlatRate           `yaml:"car_tax_flat_rates"`
	EuroNormAdjustments []refdata.CarTaxEuroNormAdjustment `yaml:"car_tax_euro_norm_adjustments"`
}

// InMemoryStore serves reference data from maps. It is safe for concurrent use.
type InMemoryStore struct {
	mu            sync.RWMutex
	fiscalRegions map[string]refdata.FiscalRegion
	provinces     map[string]refdata.Province
	hubs          map[string]refdata.Hub
	benchmarks    map[string][]refdata.HubBenchmark
	towns         map[string]refdata.Town
	fuelTypes     map[string]refdata.FuelType
	brands        map[string]refdata.Brand
	carTypes      map[string]refdata.CarType
	euroNorms     map[string]refdata.EuroNorm
	baseRates     []refdata.CarTaxBaseRate
	flatRates     []refdata.CarTaxFlatRate
	adjustments   []refdata.CarTaxEuroNormAdjustment
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		fiscalRegions: make(map[string]refdata.FiscalRegion),
		provinces:     make(map[string]refdata.Province),
		hubs:          make(map[string]refdata.Hub),
		benchmarks:    make(map[string][]refdata.HubBenchmark),
		towns:         make(map[string]refdata.Town),
		fuelTypes:     make(map[string]refdata.FuelType),
		brands:        make(map[string]refdata.Brand),
		carTypes:      make(map[string]refdata.CarType),
		euroNorms:     make(map[string]refdata.EuroNorm),
	}
}

// Load decodes a YAML seed document into a new store.
func Load(r io.Reader) (*InMemoryStore, error) {
	var seed Seed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil {
		return nil, fmt.Errorf("decode refdata seed: %w", err)
	}
	s := NewInMemoryStore()
	s.Apply(seed)
	return s, nil
}

// LoadFile opens path and calls Load.
func LoadFile(path string) (*InMemoryStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open refdata seed: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Apply merges seed into the store, replacing rows with the same ID.
func (s *InMemoryStore) Apply(seed Seed) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range seed.FiscalRegions {
		s.fiscalRegions[v.ID] = v
	}
	for _, v := range seed.Provinces {
		s.provinces[v.ID] = v
	}
	for _, v := range seed.Hubs {
		s.hubs[v.ID] = v
	}
	for _, v := range seed.HubBenchmarks {
		s.benchmarks[v.HubID] = append(s.benchmarks[v.HubID], v)
	}
	for _, v := range seed.Towns {
		s.towns[v.ID] = v
	}
	for _, v := range seed.FuelTypes {
		s.fuelTypes[v.ID] = v
	}
	for _, v := range seed.Brands {
		s.brands[v.ID] = v
	}
	for _, v := range seed.CarTypes {
		s.carTypes[v.ID] = v
	}
	for _, v := range seed.EuroNorms {
		s.euroNorms[v.ID] = v
	}
	s.baseRates = append(s.baseRates, seed.BaseRates...)
	s.flatRates = append(s.flatRates, seed.FlatRates...)
	s.adjustments = append(s.adjustments, seed.EuroNormAdjustments...)
}

func lookup[T any](mu *sync.RWMutex, m map[string]T, kind, id string) (T, error) {
	mu.RLock()
	defer mu.RUnlock()
	if v, ok := m[id]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("%s %q: %w", kind, id, sentinel.ErrNotFound)
}

func (s *InMemoryStore) Town(_ context.Context, id string) (refdata.Town, error) {
	return lookup(&s.mu, s.towns, "town", id)
}

func (s *InMemoryStore) Province(_ context.Context, id string) (refdata.Province, error) {
	return lookup(&s.mu, s.provinces, "province", id)
}

func (s *InMemoryStore) FiscalRegion(_ context.Context, id string) (refdata.FiscalRegion, error) {
	return lookup(&s.mu, s.fiscalRegions, "fiscal region", id)
}

func (s *InMemoryStore) Hub(_ context.Context, id string) (refdata.Hub, error) {
	return lookup(&s.mu, s.hubs, "hub", id)
}

func (s *InMemoryStore) FuelType(_ context.Context, id string) (refdata.FuelType, error) {
	return lookup(&s.mu, s.fuelTypes, "fuel type", id)
}

func (s *InMemoryStore) Brand(_ context.Context, id string) (refdata.Brand, error) {
	return lookup(&s.mu, s.brands, "brand", id)
}

func (s *InMemoryStore) CarType(_ context.Context, id string) (refdata.CarType, error) {
	return lookup(&s.mu, s.carTypes, "car type", id)
}

func (s *InMemoryStore) EuroNorm(_ context.Context, id string) (refdata.EuroNorm, error) {
	return lookup(&s.mu, s.euroNorms, "euro norm", id)
}

func (s *InMemoryStore) EuroNormByCode(_ context.Context, code string) (refdata.EuroNorm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.euroNorms {
		if strings.EqualFold(n.Code, code) {
			return n, nil
		}
	}
	return refdata.EuroNorm{}, fmt.Errorf("euro norm code %q: %w", code, sentinel.ErrNotFound)
}

func (s *InMemoryStore) FindBaseRate(_ context.Context, fiscalRegionID string, date time.Time, cc int) (refdata.CarTaxBaseRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.baseRates {
		if r.FiscalRegionID == fiscalRegionID && r.Validity.ValidOn(date) && r.CoversCc(cc) {
			return r, nil
		}
	}
	return refdata.CarTaxBaseRate{}, fmt.Errorf("base rate for %d cc: %w", cc, sentinel.ErrNotFound)
}

func (s *InMemoryStore) FindHighestBaseRate(_ context.Context, fiscalRegionID string, date time.Time) (refdata.CarTaxBaseRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := refdata.SelectHighestBand(s.baseRates, fiscalRegionID, date); ok {
		return r, nil
	}
	return refdata.CarTaxBaseRate{}, fmt.Errorf("highest base rate: %w", sentinel.ErrNotFound)
}

func (s *InMemoryStore) FindFlatRate(_ context.Context, fiscalRegionID string, date time.Time) (refdata.CarTaxFlatRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.flatRates {
		if r.FiscalRegionID == fiscalRegionID && r.Validity.ValidOn(date) {
			return r, nil
		}
	}
	return refdata.CarTaxFlatRate{}, fmt.Errorf("flat rate: %w", sentinel.ErrNotFound)
}

func (s *InMemoryStore) FindEuroNormAdjustment(_ context.Context, fiscalRegionID string, euroNormGroup int) (refdata.CarTaxEuroNormAdjustment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.adjustments {
		if a.FiscalRegionID == fiscalRegionID && a.EuroNormGroup == euroNormGroup {
			return a, nil
		}
	}
	return refdata.CarTaxEuroNormAdjustment{}, fmt.Errorf("euro norm adjustment group %d: %w", euroNormGroup, sentinel.ErrNotFound)
}

func (s *InMemoryStore) FindClosestBenchmark(_ context.Context, hubID string, ownerKm int) (refdata.HubBenchmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if b, ok := refdata.SelectBenchmark(s.benchmarks[hubID], ownerKm); ok {
		return b, nil
	}
	return refdata.HubBenchmark{}, fmt.Errorf("benchmark for hub %q: %w", hubID, sentinel.ErrNotFound)
}
