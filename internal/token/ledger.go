package token

import (
	"context"
	"fmt"
	"math"
	"sync"

	id "sss/pkg/domain"
	"sss/pkg/platform/sentinel"
)

type mintState struct {
	authority     id.Address
	defaultFrozen bool
	decimals      uint8
}

type accountState struct {
	owner   id.Address
	balance uint64
	frozen  bool
}

// InMemoryLedger implements Module for development and tests. It enforces
// the same failure surface the real transfer module exposes: unknown
// mints/accounts, frozen accounts, bad authorities, and insufficient
// balances all propagate as errors.
type InMemoryLedger struct {
	mu       sync.RWMutex
	mints    map[id.Address]*mintState
	accounts map[id.Address]map[id.Address]*accountState // mint → account → state
}

func NewInMemoryLedger() *InMemoryLedger {
	return &InMemoryLedger{
		mints:    make(map[id.Address]*mintState),
		accounts: make(map[id.Address]map[id.Address]*accountState),
	}
}

var _ Module = (*InMemoryLedger)(nil)

func (l *InMemoryLedger) RegisterMint(_ context.Context, mint, authority id.Address, defaultFrozen bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.mints[mint]; exists {
		return fmt.Errorf("mint %s: %w", mint, sentinel.ErrConflict)
	}
	l.mints[mint] = &mintState{authority: authority, defaultFrozen: defaultFrozen}
	l.accounts[mint] = make(map[id.Address]*accountState)
	return nil
}

// CreateAccount opens a token account with an explicit owner. Account
// creation belongs to the hosting platform; this exists so tests and local
// runs can shape ownership before exercising seize paths.
func (l *InMemoryLedger) CreateAccount(_ context.Context, mint, account, owner id.Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.mints[mint]
	if !ok {
		return fmt.Errorf("mint %s: %w", mint, sentinel.ErrNotFound)
	}
	if _, exists := l.accounts[mint][account]; exists {
		return fmt.Errorf("account %s: %w", account, sentinel.ErrConflict)
	}
	l.accounts[mint][account] = &accountState{owner: owner, frozen: m.defaultFrozen}
	return nil
}

// account returns the account state, implicitly opening a self-owned
// account on first use the way associated token accounts appear on demand.
func (l *InMemoryLedger) account(mint, account id.Address) (*accountState, error) {
	m, ok := l.mints[mint]
	if !ok {
		return nil, fmt.Errorf("mint %s: %w", mint, sentinel.ErrNotFound)
	}
	acc, ok := l.accounts[mint][account]
	if !ok {
		acc = &accountState{owner: account, frozen: m.defaultFrozen}
		l.accounts[mint][account] = acc
	}
	return acc, nil
}

func (l *InMemoryLedger) credit(mint, destination id.Address, amount uint64) error {
	acc, err := l.account(mint, destination)
	if err != nil {
		return err
	}
	if acc.frozen {
		return fmt.Errorf("account %s: %w", destination, sentinel.ErrFrozen)
	}
	if acc.balance > math.MaxUint64-amount {
		return fmt.Errorf("account %s balance overflow", destination)
	}
	acc.balance += amount
	return nil
}

func (l *InMemoryLedger) debit(mint, source id.Address, amount uint64) error {
	acc, err := l.account(mint, source)
	if err != nil {
		return err
	}
	if acc.frozen {
		return fmt.Errorf("account %s: %w", source, sentinel.ErrFrozen)
	}
	if acc.balance < amount {
		return fmt.Errorf("account %s: %w", source, sentinel.ErrInsufficientBalance)
	}
	acc.balance -= amount
	return nil
}

func (l *InMemoryLedger) requireMintAuthority(mint, authority id.Address) error {
	m, ok := l.mints[mint]
	if !ok {
		return fmt.Errorf("mint %s: %w", mint, sentinel.ErrNotFound)
	}
	if m.authority != authority {
		return fmt.Errorf("mint %s: %w", mint, ErrInvalidAuthority)
	}
	return nil
}

func (l *InMemoryLedger) MintTo(_ context.Context, mint, destination, authority id.Address, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.requireMintAuthority(mint, authority); err != nil {
		return err
	}
	return l.credit(mint, destination, amount)
}

func (l *InMemoryLedger) Burn(_ context.Context, account, mint, owner id.Address, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	acc, err := l.account(mint, account)
	if err != nil {
		return err
	}
	if acc.owner != owner {
		return fmt.Errorf("account %s: %w", account, ErrInvalidAuthority)
	}
	return l.debit(mint, account, amount)
}

func (l *InMemoryLedger) Freeze(_ context.Context, account, mint, authority id.Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.requireMintAuthority(mint, authority); err != nil {
		return err
	}
	acc, err := l.account(mint, account)
	if err != nil {
		return err
	}
	acc.frozen = true
	return nil
}

func (l *InMemoryLedger) Thaw(_ context.Context, account, mint, authority id.Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.requireMintAuthority(mint, authority); err != nil {
		return err
	}
	acc, err := l.account(mint, account)
	if err != nil {
		return err
	}
	acc.frozen = false
	return nil
}

func (l *InMemoryLedger) Transfer(_ context.Context, source, mint, destination, authority id.Address, amount uint64, _ uint8) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	src, err := l.account(mint, source)
	if err != nil {
		return err
	}
	// Either the account owner or the mint's permanent-delegate authority
	// may move funds.
	if src.owner != authority {
		if err := l.requireMintAuthority(mint, authority); err != nil {
			return err
		}
	}
	if err := l.debit(mint, source, amount); err != nil {
		return err
	}
	if err := l.credit(mint, destination, amount); err != nil {
		// restore the debit so a failed transfer leaves no trace
		l.accounts[mint][source].balance += amount
		return err
	}
	return nil
}

func (l *InMemoryLedger) MintBatch(_ context.Context, mint, authority id.Address, credits []Credit) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.requireMintAuthority(mint, authority); err != nil {
		return err
	}
	// Validate every credit before applying any: the batch is one
	// transaction from the caller's point of view.
	for _, c := range credits {
		acc, err := l.account(mint, c.Destination)
		if err != nil {
			return err
		}
		if acc.frozen {
			return fmt.Errorf("account %s: %w", c.Destination, sentinel.ErrFrozen)
		}
		if acc.balance > math.MaxUint64-c.Amount {
			return fmt.Errorf("account %s balance overflow", c.Destination)
		}
	}
	for _, c := range credits {
		l.accounts[mint][c.Destination].balance += c.Amount
	}
	return nil
}

func (l *InMemoryLedger) FreezeBatch(_ context.Context, mint, authority id.Address, accounts []id.Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.requireMintAuthority(mint, authority); err != nil {
		return err
	}
	states := make([]*accountState, 0, len(accounts))
	for _, a := range accounts {
		acc, err := l.account(mint, a)
		if err != nil {
			return err
		}
		states = append(states, acc)
	}
	for _, acc := range states {
		acc.frozen = true
	}
	return nil
}

func (l *InMemoryLedger) BalanceOf(_ context.Context, account, mint id.Address) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	accs, ok := l.accounts[mint]
	if !ok {
		return 0, fmt.Errorf("mint %s: %w", mint, sentinel.ErrNotFound)
	}
	acc, ok := accs[account]
	if !ok {
		return 0, nil
	}
	return acc.balance, nil
}

func (l *InMemoryLedger) OwnerOf(_ context.Context, account, mint id.Address) (id.Address, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	accs, ok := l.accounts[mint]
	if !ok {
		return "", fmt.Errorf("mint %s: %w", mint, sentinel.ErrNotFound)
	}
	acc, ok := accs[account]
	if !ok {
		return "", fmt.Errorf("account %s: %w", account, sentinel.ErrNotFound)
	}
	return acc.owner, nil
}

// IsFrozen reports the frozen flag for tests.
func (l *InMemoryLedger) IsFrozen(_ context.Context, account, mint id.Address) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	accs, ok := l.accounts[mint]
	if !ok {
		return false, fmt.Errorf("mint %s: %w", mint, sentinel.ErrNotFound)
	}
	acc, ok := accs[account]
	if !ok {
		m := l.mints[mint]
		return m.defaultFrozen, nil
	}
	return acc.frozen, nil
}
