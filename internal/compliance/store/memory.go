package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sss/internal/compliance/models"
	id "sss/pkg/domain"
	"sss/pkg/platform/sentinel"
)

// InMemory keeps compliance records in mutex-guarded maps.
type InMemory struct {
	mu      sync.RWMutex
	entries map[id.Address]*models.BlacklistEntry
	limits  map[id.Address]*models.TransferLimitConfig
}

func NewInMemory() *InMemory {
	return &InMemory{
		entries: make(map[id.Address]*models.BlacklistEntry),
		limits:  make(map[id.Address]*models.TransferLimitConfig),
	}
}

var _ Store = (*InMemory)(nil)

func (s *InMemory) AddEntry(_ context.Context, entry *models.BlacklistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[entry.Address]; exists {
		return fmt.Errorf("blacklist entry %s: %w", entry.Address, sentinel.ErrConflict)
	}
	s.entries[entry.Address] = entry.Clone()
	return nil
}

func (s *InMemory) AddBatch(_ context.Context, entries []*models.BlacklistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		if _, exists := s.entries[e.Address]; exists {
			return fmt.Errorf("blacklist entry %s: %w", e.Address, sentinel.ErrConflict)
		}
	}
	for _, e := range entries {
		s.entries[e.Address] = e.Clone()
	}
	return nil
}

func (s *InMemory) RemoveEntry(_ context.Context, address id.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[address]; !exists {
		return fmt.Errorf("blacklist entry %s: %w", address, sentinel.ErrNotFound)
	}
	delete(s.entries, address)
	return nil
}

func (s *InMemory) GetEntry(_ context.Context, address id.Address) (*models.BlacklistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[address]
	if !ok {
		return nil, fmt.Errorf("blacklist entry %s: %w", address, sentinel.ErrNotFound)
	}
	return entry.Clone(), nil
}

func (s *InMemory) UpsertLimits(_ context.Context, config *models.TransferLimitConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.limits[config.Address] = config.Clone()
	return nil
}

func (s *InMemory) GetLimits(_ context.Context, address id.Address) (*models.TransferLimitConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	config, ok := s.limits[address]
	if !ok {
		return nil, fmt.Errorf("transfer limit config %s: %w", address, sentinel.ErrNotFound)
	}
	return config.Clone(), nil
}

// InMemoryWindow is the window store for development and tests.
type InMemoryWindow struct {
	mu      sync.Mutex
	totals  map[string]uint64
	expires map[string]time.Time
}

func NewInMemoryWindow() *InMemoryWindow {
	return &InMemoryWindow{
		totals:  make(map[string]uint64),
		expires: make(map[string]time.Time),
	}
}

var _ WindowStore = (*InMemoryWindow)(nil)

func (w *InMemoryWindow) Add(_ context.Context, key string, amount uint64, ttl time.Duration) (uint64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	if exp, ok := w.expires[key]; ok && now.After(exp) {
		delete(w.totals, key)
		delete(w.expires, key)
	}
	if _, ok := w.totals[key]; !ok {
		w.expires[key] = now.Add(ttl)
	}
	w.totals[key] += amount
	return w.totals[key], nil
}

func (w *InMemoryWindow) Subtract(_ context.Context, key string, amount uint64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if total, ok := w.totals[key]; ok {
		if amount > total {
			amount = total
		}
		w.totals[key] = total - amount
	}
	return nil
}
