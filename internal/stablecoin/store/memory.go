package store

import (
	"context"
	"fmt"
	"sync"

	"sss/internal/stablecoin/models"
	id "sss/pkg/domain"
	"sss/pkg/platform/sentinel"
)

// InMemory keeps stablecoin records in a mutex-guarded map. The store lock
// doubles as the per-record lock: every invocation observes and commits a
// consistent record state.
type InMemory struct {
	mu      sync.RWMutex
	records map[id.Address]*models.Stablecoin
}

func NewInMemory() *InMemory {
	return &InMemory{records: make(map[id.Address]*models.Stablecoin)}
}

var _ Store = (*InMemory)(nil)

func (s *InMemory) Create(_ context.Context, sc *models.Stablecoin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[sc.Address]; exists {
		return fmt.Errorf("stablecoin %s: %w", sc.Address, sentinel.ErrConflict)
	}
	s.records[sc.Address] = sc.Clone()
	return nil
}

func (s *InMemory) Get(_ context.Context, address id.Address) (*models.Stablecoin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sc, ok := s.records[address]
	if !ok {
		return nil, fmt.Errorf("stablecoin %s: %w", address, sentinel.ErrNotFound)
	}
	return sc.Clone(), nil
}

func (s *InMemory) Execute(_ context.Context, address id.Address,
	validate func(*models.Stablecoin) error,
	mutate func(*models.Stablecoin)) (*models.Stablecoin, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.records[address]
	if !ok {
		return nil, fmt.Errorf("stablecoin %s: %w", address, sentinel.ErrNotFound)
	}
	if validate != nil {
		if err := validate(sc); err != nil {
			return nil, err
		}
	}
	if mutate != nil {
		mutate(sc)
	}
	return sc.Clone(), nil
}
