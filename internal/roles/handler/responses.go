package handler

import (
	"time"

	"sss/internal/roles/models"
)

// RoleResponse is the HTTP response for role updates.
type RoleResponse struct {
	Address     string    `json:"address"`
	Stablecoin  string    `json:"stablecoin"`
	Holder      string    `json:"holder"`
	Minter      bool      `json:"minter"`
	Burner      bool      `json:"burner"`
	Pauser      bool      `json:"pauser"`
	Blacklister bool      `json:"blacklister"`
	Seizer      bool      `json:"seizer"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FromRole converts a domain role to an HTTP response.
func FromRole(role *models.Role) *RoleResponse {
	return &RoleResponse{
		Address:     string(role.Address),
		Stablecoin:  string(role.Stablecoin),
		Holder:      string(role.Holder),
		Minter:      role.Caps.Minter,
		Burner:      role.Caps.Burner,
		Pauser:      role.Caps.Pauser,
		Blacklister: role.Caps.Blacklister,
		Seizer:      role.Caps.Seizer,
		UpdatedAt:   role.UpdatedAt,
	}
}

// QuotaResponse is the HTTP response for minter quota updates.
type QuotaResponse struct {
	Address         string    `json:"address"`
	Stablecoin      string    `json:"stablecoin"`
	Minter          string    `json:"minter"`
	Quota           uint64    `json:"quota"`
	MintedAmount    uint64    `json:"minted_amount"`
	EpochDuration   int64     `json:"epoch_duration"`
	EpochStart      int64     `json:"epoch_start"`
	MintedThisEpoch uint64    `json:"minted_this_epoch"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// FromQuota converts a domain quota to an HTTP response.
func FromQuota(q *models.MinterQuota) *QuotaResponse {
	return &QuotaResponse{
		Address:         string(q.Address),
		Stablecoin:      string(q.Stablecoin),
		Minter:          string(q.Minter),
		Quota:           q.Quota,
		MintedAmount:    q.MintedAmount,
		EpochDuration:   q.EpochDuration,
		EpochStart:      q.EpochStart,
		MintedThisEpoch: q.MintedThisEpoch,
		UpdatedAt:       q.UpdatedAt,
	}
}
