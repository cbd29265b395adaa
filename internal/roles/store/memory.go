package store

import (
	"context"
	"fmt"
	"sync"

	"sss/internal/roles/models"
	id "sss/pkg/domain"
	"sss/pkg/platform/sentinel"
)

// InMemory keeps role and quota records in mutex-guarded maps.
type InMemory struct {
	mu     sync.RWMutex
	roles  map[id.Address]*models.Role
	quotas map[id.Address]*models.MinterQuota
}

func NewInMemory() *InMemory {
	return &InMemory{
		roles:  make(map[id.Address]*models.Role),
		quotas: make(map[id.Address]*models.MinterQuota),
	}
}

var _ Store = (*InMemory)(nil)

func (s *InMemory) UpsertRole(_ context.Context, role *models.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.roles[role.Address] = role.Clone()
	return nil
}

func (s *InMemory) GetRole(_ context.Context, address id.Address) (*models.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	role, ok := s.roles[address]
	if !ok {
		return nil, fmt.Errorf("role %s: %w", address, sentinel.ErrNotFound)
	}
	return role.Clone(), nil
}

func (s *InMemory) UpsertQuota(_ context.Context, quota *models.MinterQuota) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.quotas[quota.Address] = quota.Clone()
	return nil
}

func (s *InMemory) GetQuota(_ context.Context, address id.Address) (*models.MinterQuota, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	quota, ok := s.quotas[address]
	if !ok {
		return nil, fmt.Errorf("minter quota %s: %w", address, sentinel.ErrNotFound)
	}
	return quota.Clone(), nil
}

func (s *InMemory) ExecuteQuota(_ context.Context, address id.Address,
	validate func(*models.MinterQuota) error,
	mutate func(*models.MinterQuota)) (*models.MinterQuota, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	quota, ok := s.quotas[address]
	if !ok {
		return nil, fmt.Errorf("minter quota %s: %w", address, sentinel.ErrNotFound)
	}
	if validate != nil {
		if err := validate(quota); err != nil {
			return nil, err
		}
	}
	if mutate != nil {
		mutate(quota)
	}
	return quota.Clone(), nil
}
