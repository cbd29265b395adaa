package models

import (
	"time"

	id "sss/pkg/domain"
	dErrors "sss/pkg/domain-errors"
)

// TransferLimitConfig bounds transfer sizes for one currency. A limit of
// zero disables that bound. The per-day running total lives in the window
// store, not in this record.
type TransferLimitConfig struct {
	Address        id.Address `json:"address"`
	Bump           uint8      `json:"bump"`
	Stablecoin     id.Address `json:"stablecoin"`
	MaxPerTransfer uint64     `json:"max_per_transfer"`
	MaxPerDay      uint64     `json:"max_per_day"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TransferLimitAddress derives the config address for a currency.
func TransferLimitAddress(stablecoin id.Address) (id.Address, uint8) {
	return id.Derive(id.SeedTransferLimit, string(stablecoin))
}

// NewTransferLimitConfig builds a limit config at its derived address.
func NewTransferLimitConfig(stablecoin id.Address, maxPerTransfer, maxPerDay uint64, now time.Time) *TransferLimitConfig {
	addr, bump := TransferLimitAddress(stablecoin)
	return &TransferLimitConfig{
		Address:        addr,
		Bump:           bump,
		Stablecoin:     stablecoin,
		MaxPerTransfer: maxPerTransfer,
		MaxPerDay:      maxPerDay,
		UpdatedAt:      now,
	}
}

func (c *TransferLimitConfig) Clone() *TransferLimitConfig {
	c2 := *c
	return &c2
}

// CheckPerTransfer verifies a single transfer stays under the per-transfer
// bound.
func (c *TransferLimitConfig) CheckPerTransfer(amount uint64) error {
	if c.MaxPerTransfer > 0 && amount > c.MaxPerTransfer {
		return dErrors.NewReason(dErrors.CodeForbidden, dErrors.ReasonTransferLimitExceeded, "amount exceeds the per-transfer limit")
	}
	return nil
}

// CheckDaily verifies the accumulated total for the day stays under the
// daily bound.
func (c *TransferLimitConfig) CheckDaily(total uint64) error {
	if c.MaxPerDay > 0 && total > c.MaxPerDay {
		return dErrors.NewReason(dErrors.CodeForbidden, dErrors.ReasonTransferLimitExceeded, "daily transfer limit exceeded")
	}
	return nil
}
