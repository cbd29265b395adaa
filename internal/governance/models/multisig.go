// Package models defines the governance records: the multisig signer set,
// its proposals, and the timelock configuration and operations. Both
// governance paths share one action vocabulary so a currency can run either
// or both against the same payload encoding.
package models

import (
	"time"

	id "sss/pkg/domain"
	dErrors "sss/pkg/domain-errors"
)

// MaxSigners bounds the multisig signer set.
const MaxSigners = 10

// MultisigConfig is the signer set and threshold for one currency. The
// proposal counter is the id sequence: every proposal takes the current
// count and increments it under the record lock.
type MultisigConfig struct {
	Address       id.Address   `json:"address"`
	Bump          uint8        `json:"bump"`
	Stablecoin    id.Address   `json:"stablecoin"`
	Signers       []id.Address `json:"signers"`
	Threshold     uint8        `json:"threshold"`
	ProposalCount uint64       `json:"proposal_count"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// MultisigAddress derives the config address for a currency.
func MultisigAddress(stablecoin id.Address) (id.Address, uint8) {
	return id.Derive(id.SeedMultisig, string(stablecoin))
}

// NewMultisigConfig validates the signer set and builds the record at its
// derived address.
func NewMultisigConfig(stablecoin id.Address, signers []id.Address, threshold uint8, now time.Time) (*MultisigConfig, error) {
	if len(signers) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "at least one signer is required")
	}
	if len(signers) > MaxSigners {
		return nil, dErrors.NewReason(dErrors.CodeInvalidInput, dErrors.ReasonTooManySigners, "signer set exceeds the maximum size")
	}
	seen := make(map[id.Address]struct{}, len(signers))
	for _, signer := range signers {
		if signer.IsZero() {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "signers must not be empty addresses")
		}
		if _, dup := seen[signer]; dup {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "signers must be unique")
		}
		seen[signer] = struct{}{}
	}
	if threshold == 0 || int(threshold) > len(signers) {
		return nil, dErrors.NewReason(dErrors.CodeInvalidInput, dErrors.ReasonInvalidThreshold, "threshold must be between 1 and the signer count")
	}

	addr, bump := MultisigAddress(stablecoin)
	return &MultisigConfig{
		Address:    addr,
		Bump:       bump,
		Stablecoin: stablecoin,
		Signers:    append([]id.Address(nil), signers...),
		Threshold:  threshold,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// IsSigner reports whether addr belongs to the signer set.
func (m *MultisigConfig) IsSigner(addr id.Address) bool {
	for _, signer := range m.Signers {
		if signer == addr {
			return true
		}
	}
	return false
}

// TakeProposalID hands out the next proposal id and advances the sequence.
// Callers must hold the record lock.
func (m *MultisigConfig) TakeProposalID(now time.Time) uint64 {
	next := m.ProposalCount
	m.ProposalCount++
	m.UpdatedAt = now
	return next
}

func (m *MultisigConfig) Clone() *MultisigConfig {
	c := *m
	c.Signers = append([]id.Address(nil), m.Signers...)
	return &c
}
