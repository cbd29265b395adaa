// Package token defines the port to the external token-transfer module.
// The control plane never moves value itself: it validates, then invokes
// these primitives and trusts them to fail with a propagated error when the
// authority is invalid or balances are insufficient.
package token

//go:generate mockgen -source=module.go -destination=mocks/mocks.go -package=mocks Module

import (
	"context"
	"errors"

	id "sss/pkg/domain"
)

// ErrInvalidAuthority is returned when the presented authority does not
// match the mint's registered authority or the account's owner.
var ErrInvalidAuthority = errors.New("invalid authority")

// Credit is one recipient/amount pair in a batch mint.
type Credit struct {
	Destination id.Address
	Amount      uint64
}

// Module is the token-transfer collaborator. Batch variants apply
// all-or-nothing: the transfer module owns the transactional boundary that
// the hosting chain's runtime provided in the original deployment.
type Module interface {
	// RegisterMint introduces a mint under the given authority. Accounts
	// created later for a default-frozen mint start frozen.
	RegisterMint(ctx context.Context, mint, authority id.Address, defaultFrozen bool) error

	MintTo(ctx context.Context, mint, destination, authority id.Address, amount uint64) error
	Burn(ctx context.Context, account, mint, owner id.Address, amount uint64) error
	Freeze(ctx context.Context, account, mint, authority id.Address) error
	Thaw(ctx context.Context, account, mint, authority id.Address) error
	Transfer(ctx context.Context, source, mint, destination, authority id.Address, amount uint64, decimals uint8) error

	MintBatch(ctx context.Context, mint, authority id.Address, credits []Credit) error
	FreezeBatch(ctx context.Context, mint, authority id.Address, accounts []id.Address) error

	BalanceOf(ctx context.Context, account, mint id.Address) (uint64, error)
	OwnerOf(ctx context.Context, account, mint id.Address) (id.Address, error)
}
