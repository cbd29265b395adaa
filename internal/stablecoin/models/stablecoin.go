package models

import (
	"time"

	"sss/pkg/checked"
	id "sss/pkg/domain"
	dErrors "sss/pkg/domain-errors"
)

// Metadata bounds.
const (
	MaxNameLen   = 32
	MaxSymbolLen = 10
	MaxURILen    = 200
)

// Stablecoin is the aggregate root for one issued currency: its authority,
// feature flags, pause state, and supply accounting.
//
// Invariants:
//   - TotalBurned ≤ TotalMinted
//   - TotalMinted − TotalBurned ≤ MaxSupply whenever MaxSupply > 0
//     (MaxSupply of 0 means uncapped)
//   - exactly one authority at a time; PendingAuthority is only set while a
//     two-step transfer is in flight
//   - feature flags are immutable after initialization
type Stablecoin struct {
	Address          id.Address `json:"address"`
	Bump             uint8      `json:"bump"`
	Authority        id.Address `json:"authority"`
	PendingAuthority id.Address `json:"pending_authority,omitempty"`
	Mint             id.Address `json:"mint"`

	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	URI      string `json:"uri"`
	Decimals uint8  `json:"decimals"`

	EnablePermanentDelegate bool `json:"enable_permanent_delegate"`
	EnableTransferHook      bool `json:"enable_transfer_hook"`
	DefaultAccountFrozen    bool `json:"default_account_frozen"`

	Paused      bool   `json:"paused"`
	TotalMinted uint64 `json:"total_minted"`
	TotalBurned uint64 `json:"total_burned"`
	MaxSupply   uint64 `json:"max_supply"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InitializeParams carries everything needed to configure a new currency.
type InitializeParams struct {
	Mint                    id.Address
	Authority               id.Address
	Name                    string
	Symbol                  string
	URI                     string
	Decimals                uint8
	EnablePermanentDelegate bool
	EnableTransferHook      bool
	DefaultAccountFrozen    bool
	MaxSupply               uint64
}

// New validates metadata bounds and builds the currency record at its
// derived address.
func New(p InitializeParams, now time.Time) (*Stablecoin, error) {
	if len(p.Name) == 0 || len(p.Name) > MaxNameLen {
		return nil, dErrors.NewReason(dErrors.CodeInvalidInput, dErrors.ReasonNameTooLong, "name must be 1-32 characters")
	}
	if len(p.Symbol) == 0 || len(p.Symbol) > MaxSymbolLen {
		return nil, dErrors.NewReason(dErrors.CodeInvalidInput, dErrors.ReasonSymbolTooLong, "symbol must be 1-10 characters")
	}
	if len(p.URI) > MaxURILen {
		return nil, dErrors.NewReason(dErrors.CodeInvalidInput, dErrors.ReasonUriTooLong, "uri must be at most 200 characters")
	}
	if p.Mint.IsZero() || p.Authority.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "mint and authority are required")
	}

	addr, bump := id.Derive(id.SeedStablecoin, string(p.Mint))
	return &Stablecoin{
		Address:                 addr,
		Bump:                    bump,
		Authority:               p.Authority,
		Mint:                    p.Mint,
		Name:                    p.Name,
		Symbol:                  p.Symbol,
		URI:                     p.URI,
		Decimals:                p.Decimals,
		EnablePermanentDelegate: p.EnablePermanentDelegate,
		EnableTransferHook:      p.EnableTransferHook,
		DefaultAccountFrozen:    p.DefaultAccountFrozen,
		MaxSupply:               p.MaxSupply,
		CreatedAt:               now,
		UpdatedAt:               now,
	}, nil
}

// AddressForMint derives the currency record address from its mint. Handlers
// use it to resolve path parameters to store keys.
func AddressForMint(mint id.Address) id.Address {
	addr, _ := id.Derive(id.SeedStablecoin, string(mint))
	return addr
}

// Clone returns an independent copy so store callers never share mutable
// state with the arena.
func (s *Stablecoin) Clone() *Stablecoin {
	c := *s
	return &c
}

// IsComplianceTier reports whether blacklist/seizure features are available:
// both the permanent-delegate and transfer-hook capabilities are required.
func (s *Stablecoin) IsComplianceTier() bool {
	return s.EnablePermanentDelegate && s.EnableTransferHook
}

// Circulating is the supply currently outstanding.
func (s *Stablecoin) Circulating() (uint64, error) {
	return checked.Sub(s.TotalMinted, s.TotalBurned)
}

// CheckMintable verifies the supply cap admits amount more tokens. Called
// strictly before the external mint invocation.
func (s *Stablecoin) CheckMintable(amount uint64) error {
	if s.Paused {
		return dErrors.NewReason(dErrors.CodeConflict, dErrors.ReasonPaused, "stablecoin is paused")
	}
	circulating, err := s.Circulating()
	if err != nil {
		return err
	}
	next, err := checked.Add(circulating, amount)
	if err != nil {
		return err
	}
	if s.MaxSupply > 0 && next > s.MaxSupply {
		return dErrors.NewReason(dErrors.CodeConflict, dErrors.ReasonSupplyCapExceeded, "supply cap exceeded")
	}
	// guard the running total as well; the cap check alone does not cover
	// uncapped currencies
	if _, err := checked.Add(s.TotalMinted, amount); err != nil {
		return err
	}
	return nil
}

// ApplyMint records amount against the total. CheckMintable must have
// passed within the same invocation.
func (s *Stablecoin) ApplyMint(amount uint64, now time.Time) {
	s.TotalMinted += amount
	s.UpdatedAt = now
}

// CheckBurnable verifies a burn keeps TotalBurned ≤ TotalMinted.
func (s *Stablecoin) CheckBurnable(amount uint64) error {
	if s.Paused {
		return dErrors.NewReason(dErrors.CodeConflict, dErrors.ReasonPaused, "stablecoin is paused")
	}
	next, err := checked.Add(s.TotalBurned, amount)
	if err != nil {
		return err
	}
	if next > s.TotalMinted {
		return dErrors.NewReason(dErrors.CodeInvariantViolation, dErrors.ReasonMathOverflow, "burn exceeds minted supply")
	}
	return nil
}

// ApplyBurn records amount as burned. CheckBurnable must have passed within
// the same invocation.
func (s *Stablecoin) ApplyBurn(amount uint64, now time.Time) {
	s.TotalBurned += amount
	s.UpdatedAt = now
}

// CanPause rejects a redundant pause.
func (s *Stablecoin) CanPause() error {
	if s.Paused {
		return dErrors.New(dErrors.CodeInvariantViolation, "stablecoin is already paused")
	}
	return nil
}

func (s *Stablecoin) ApplyPause(now time.Time) {
	s.Paused = true
	s.UpdatedAt = now
}

// CanUnpause rejects a redundant unpause.
func (s *Stablecoin) CanUnpause() error {
	if !s.Paused {
		return dErrors.New(dErrors.CodeInvariantViolation, "stablecoin is not paused")
	}
	return nil
}

func (s *Stablecoin) ApplyUnpause(now time.Time) {
	s.Paused = false
	s.UpdatedAt = now
}

// CanSetSupplyCap rejects caps below the current circulating supply.
// A cap of zero removes the limit.
func (s *Stablecoin) CanSetSupplyCap(newCap uint64) error {
	if newCap == 0 {
		return nil
	}
	circulating, err := s.Circulating()
	if err != nil {
		return err
	}
	if newCap < circulating {
		return dErrors.NewReason(dErrors.CodeConflict, dErrors.ReasonSupplyCapBelowCirculation, "new supply cap is below circulating supply")
	}
	return nil
}

func (s *Stablecoin) ApplySupplyCap(newCap uint64, now time.Time) {
	s.MaxSupply = newCap
	s.UpdatedAt = now
}

// ProposeAuthority starts the two-step handshake.
func (s *Stablecoin) ProposeAuthority(next id.Address, now time.Time) {
	s.PendingAuthority = next
	s.UpdatedAt = now
}

// CanAcceptAuthority verifies the caller is the pending authority.
func (s *Stablecoin) CanAcceptAuthority(caller id.Address) error {
	if s.PendingAuthority.IsZero() {
		return dErrors.New(dErrors.CodeConflict, "no authority transfer pending")
	}
	if s.PendingAuthority != caller {
		return dErrors.NewReason(dErrors.CodeForbidden, dErrors.ReasonUnauthorized, "caller is not the pending authority")
	}
	return nil
}

// ApplyAcceptAuthority completes the handshake: the pending authority
// becomes the authority and the pending slot clears.
func (s *Stablecoin) ApplyAcceptAuthority(now time.Time) {
	s.Authority = s.PendingAuthority
	s.PendingAuthority = ""
	s.UpdatedAt = now
}
