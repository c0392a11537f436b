// Package store persists simulation runs.
package store

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/Degagemain/degage-sub000/internal/simulation/models"
	id "github.com/Degagemain/degage-sub000/pkg/domain"
	"github.com/Degagemain/degage-sub000/pkg/platform/sentinel"
)

// DefaultListLimit caps List when the filter sets no limit.
const DefaultListLimit = 100

type InMemoryStore struct {
	mu   sync.RWMutex
	runs map[id.RunID]models.Run
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{runs: make(map[id.RunID]models.Run)}
}

func (s *InMemoryStore) Save(_ context.Context, run *models.Run) error {
	if run == nil {
		return fmt.Errorf("run is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.runs[run.ID]; exists {
		return fmt.Errorf("run %s: %w", run.ID, sentinel.ErrConflict)
	}
	s.runs[run.ID] = *run
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, runID id.RunID) (*models.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[runID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &run, nil
}

// List returns runs newest first.
func (s *InMemoryStore) List(_ context.Context, filter models.ListFilter) ([]*models.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Run, 0, len(s.runs))
	for _, run := range s.runs {
		if len(filter.ResultCodes) > 0 && !slices.Contains(filter.ResultCodes, run.Result.ResultCode) {
			continue
		}
		r := run
		out = append(out, &r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
