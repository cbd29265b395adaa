package store

import (
	"context"
	"fmt"
	"sync"

	"sss/internal/governance/models"
	id "sss/pkg/domain"
	"sss/pkg/platform/sentinel"
)

// InMemory keeps governance records in mutex-guarded maps.
type InMemory struct {
	mu         sync.RWMutex
	multisigs  map[id.Address]*models.MultisigConfig
	proposals  map[id.Address]*models.Proposal
	configs    map[id.Address]*models.TimelockConfig
	operations map[id.Address]*models.TimelockOperation
}

func NewInMemory() *InMemory {
	return &InMemory{
		multisigs:  make(map[id.Address]*models.MultisigConfig),
		proposals:  make(map[id.Address]*models.Proposal),
		configs:    make(map[id.Address]*models.TimelockConfig),
		operations: make(map[id.Address]*models.TimelockOperation),
	}
}

var _ Store = (*InMemory)(nil)

func (s *InMemory) CreateMultisig(_ context.Context, m *models.MultisigConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.multisigs[m.Address]; exists {
		return fmt.Errorf("multisig %s: %w", m.Address, sentinel.ErrConflict)
	}
	s.multisigs[m.Address] = m.Clone()
	return nil
}

func (s *InMemory) GetMultisig(_ context.Context, address id.Address) (*models.MultisigConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.multisigs[address]
	if !ok {
		return nil, fmt.Errorf("multisig %s: %w", address, sentinel.ErrNotFound)
	}
	return m.Clone(), nil
}

func (s *InMemory) ExecuteMultisig(_ context.Context, address id.Address,
	validate func(*models.MultisigConfig) error,
	mutate func(*models.MultisigConfig)) (*models.MultisigConfig, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.multisigs[address]
	if !ok {
		return nil, fmt.Errorf("multisig %s: %w", address, sentinel.ErrNotFound)
	}
	if validate != nil {
		if err := validate(m); err != nil {
			return nil, err
		}
	}
	if mutate != nil {
		mutate(m)
	}
	return m.Clone(), nil
}

func (s *InMemory) CreateProposal(_ context.Context, p *models.Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.proposals[p.Address]; exists {
		return fmt.Errorf("proposal %s: %w", p.Address, sentinel.ErrConflict)
	}
	s.proposals[p.Address] = p.Clone()
	return nil
}

func (s *InMemory) GetProposal(_ context.Context, address id.Address) (*models.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.proposals[address]
	if !ok {
		return nil, fmt.Errorf("proposal %s: %w", address, sentinel.ErrNotFound)
	}
	return p.Clone(), nil
}

func (s *InMemory) ExecuteProposal(_ context.Context, address id.Address,
	validate func(*models.Proposal) error,
	mutate func(*models.Proposal)) (*models.Proposal, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.proposals[address]
	if !ok {
		return nil, fmt.Errorf("proposal %s: %w", address, sentinel.ErrNotFound)
	}
	if validate != nil {
		if err := validate(p); err != nil {
			return nil, err
		}
	}
	if mutate != nil {
		mutate(p)
	}
	return p.Clone(), nil
}

func (s *InMemory) UpsertTimelockConfig(_ context.Context, c *models.TimelockConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.configs[c.Address] = c.Clone()
	return nil
}

func (s *InMemory) GetTimelockConfig(_ context.Context, address id.Address) (*models.TimelockConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.configs[address]
	if !ok {
		return nil, fmt.Errorf("timelock config %s: %w", address, sentinel.ErrNotFound)
	}
	return c.Clone(), nil
}

func (s *InMemory) CreateOperation(_ context.Context, o *models.TimelockOperation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.operations[o.Address]; exists {
		return fmt.Errorf("timelock operation %s: %w", o.Address, sentinel.ErrConflict)
	}
	s.operations[o.Address] = o.Clone()
	return nil
}

func (s *InMemory) GetOperation(_ context.Context, address id.Address) (*models.TimelockOperation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.operations[address]
	if !ok {
		return nil, fmt.Errorf("timelock operation %s: %w", address, sentinel.ErrNotFound)
	}
	return o.Clone(), nil
}

func (s *InMemory) ExecuteOperation(_ context.Context, address id.Address,
	validate func(*models.TimelockOperation) error,
	mutate func(*models.TimelockOperation)) (*models.TimelockOperation, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.operations[address]
	if !ok {
		return nil, fmt.Errorf("timelock operation %s: %w", address, sentinel.ErrNotFound)
	}
	if validate != nil {
		if err := validate(o); err != nil {
			return nil, err
		}
	}
	if mutate != nil {
		mutate(o)
	}
	return o.Clone(), nil
}
