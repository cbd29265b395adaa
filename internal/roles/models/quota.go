package models

import (
	"time"

	"sss/pkg/checked"
	id "sss/pkg/domain"
	dErrors "sss/pkg/domain-errors"
)

// MinterQuota bounds how much a single minter may issue. A quota of zero
// admits no issuance at all. When EpochDuration > 0 the limit applies per
// epoch and the epoch counter resets once the window elapses; otherwise the
// limit applies to the lifetime total.
type MinterQuota struct {
	Address         id.Address `json:"address"`
	Bump            uint8      `json:"bump"`
	Stablecoin      id.Address `json:"stablecoin"`
	Minter          id.Address `json:"minter"`
	Quota           uint64     `json:"quota"`
	MintedAmount    uint64     `json:"minted_amount"`
	EpochDuration   int64      `json:"epoch_duration"`
	EpochStart      int64      `json:"epoch_start"`
	MintedThisEpoch uint64     `json:"minted_this_epoch"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// QuotaAddress derives the record address for (stablecoin, minter).
func QuotaAddress(stablecoin, minter id.Address) (id.Address, uint8) {
	return id.Derive(id.SeedMinter, string(stablecoin), string(minter))
}

// NewMinterQuota builds a quota record at its derived address. Lifetime
// counters start at zero and the first epoch opens at now.
func NewMinterQuota(stablecoin, minter id.Address, quota uint64, epochDuration int64, now time.Time) (*MinterQuota, error) {
	if epochDuration < 0 {
		return nil, dErrors.NewReason(dErrors.CodeInvalidInput, dErrors.ReasonInvalidEpochDuration, "epoch duration must not be negative")
	}
	addr, bump := QuotaAddress(stablecoin, minter)
	return &MinterQuota{
		Address:       addr,
		Bump:          bump,
		Stablecoin:    stablecoin,
		Minter:        minter,
		Quota:         quota,
		EpochDuration: epochDuration,
		EpochStart:    now.Unix(),
		UpdatedAt:     now,
	}, nil
}

func (q *MinterQuota) Clone() *MinterQuota {
	c := *q
	return &c
}

// epochElapsed reports whether the current epoch window is over at now.
func (q *MinterQuota) epochElapsed(now time.Time) bool {
	return q.EpochDuration > 0 && now.Unix() >= q.EpochStart+q.EpochDuration
}

// ActiveCounter returns the counter the quota check applies to at now:
// the epoch counter (zero if the window rolled over) when epochs are
// enabled, the lifetime counter otherwise.
func (q *MinterQuota) ActiveCounter(now time.Time) uint64 {
	if q.EpochDuration > 0 {
		if q.epochElapsed(now) {
			return 0
		}
		return q.MintedThisEpoch
	}
	return q.MintedAmount
}

// CheckMint verifies that minting amount at now stays inside the quota.
// It does not mutate the record.
func (q *MinterQuota) CheckMint(now time.Time, amount uint64) error {
	if _, err := checked.Add(q.MintedAmount, amount); err != nil {
		return err
	}
	next, err := checked.Add(q.ActiveCounter(now), amount)
	if err != nil {
		return err
	}
	if next > q.Quota {
		return dErrors.NewReason(dErrors.CodeForbidden, dErrors.ReasonQuotaExceeded, "minter quota exceeded")
	}
	return nil
}

// ApplyMint records an issuance that already passed CheckMint, rolling the
// epoch window first if it elapsed.
func (q *MinterQuota) ApplyMint(now time.Time, amount uint64) {
	if q.epochElapsed(now) {
		q.MintedThisEpoch = 0
		q.EpochStart = now.Unix()
	}
	q.MintedAmount += amount
	q.MintedThisEpoch += amount
	q.UpdatedAt = now
}

// ReleaseMint returns a consumed amount to the quota after the token
// module refused the issuance. Counters clamp at zero; an epoch rollover
// between consume and release can leave less than amount to subtract.
func (q *MinterQuota) ReleaseMint(now time.Time, amount uint64) {
	q.MintedAmount = clampSub(q.MintedAmount, amount)
	q.MintedThisEpoch = clampSub(q.MintedThisEpoch, amount)
	q.UpdatedAt = now
}

func clampSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}

// Reconfigure replaces the limit and window. Lifetime counters survive a
// reconfiguration; the epoch counter restarts with the new window. The
// caller validates the window before calling.
func (q *MinterQuota) Reconfigure(quota uint64, epochDuration int64, now time.Time) {
	q.Quota = quota
	q.EpochDuration = epochDuration
	q.EpochStart = now.Unix()
	q.MintedThisEpoch = 0
	q.UpdatedAt = now
}
