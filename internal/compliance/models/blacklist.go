package models

import (
	"time"

	id "sss/pkg/domain"
	dErrors "sss/pkg/domain-errors"
)

// MaxReasonLen bounds the free-text justification on a blacklist entry.
const MaxReasonLen = 100

// BlacklistEntry marks one wallet as blocked for one currency. The entry's
// existence is the block; removal deletes the record.
type BlacklistEntry struct {
	Address    id.Address `json:"address"`
	Bump       uint8      `json:"bump"`
	Stablecoin id.Address `json:"stablecoin"`
	Target     id.Address `json:"target"`
	Reason     string     `json:"reason"`
	AddedBy    id.Address `json:"added_by"`
	CreatedAt  time.Time  `json:"created_at"`
}

// BlacklistAddress derives the entry address for (stablecoin, target).
func BlacklistAddress(stablecoin, target id.Address) (id.Address, uint8) {
	return id.Derive(id.SeedBlacklist, string(stablecoin), string(target))
}

// NewBlacklistEntry validates the reason bound and builds an entry at its
// derived address.
func NewBlacklistEntry(stablecoin, target id.Address, reason string, addedBy id.Address, now time.Time) (*BlacklistEntry, error) {
	if len(reason) > MaxReasonLen {
		return nil, dErrors.NewReason(dErrors.CodeInvalidInput, dErrors.ReasonReasonTooLong, "reason must be at most 100 characters")
	}
	if target.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "target is required")
	}
	addr, bump := BlacklistAddress(stablecoin, target)
	return &BlacklistEntry{
		Address:    addr,
		Bump:       bump,
		Stablecoin: stablecoin,
		Target:     target,
		Reason:     reason,
		AddedBy:    addedBy,
		CreatedAt:  now,
	}, nil
}

func (e *BlacklistEntry) Clone() *BlacklistEntry {
	c := *e
	return &c
}
