package handler

import (
	"sss/internal/roles/models"
	dErrors "sss/pkg/domain-errors"
)

// UpdateRolesRequest is the HTTP request body for
// PUT /stablecoins/{mint}/roles/{holder}.
type UpdateRolesRequest struct {
	Minter      bool `json:"minter"`
	Burner      bool `json:"burner"`
	Pauser      bool `json:"pauser"`
	Blacklister bool `json:"blacklister"`
	Seizer      bool `json:"seizer"`
}

// Capabilities converts the request flags to the domain set.
func (r UpdateRolesRequest) Capabilities() models.Capabilities {
	return models.Capabilities{
		Minter:      r.Minter,
		Burner:      r.Burner,
		Pauser:      r.Pauser,
		Blacklister: r.Blacklister,
		Seizer:      r.Seizer,
	}
}

// UpdateMinterRequest is the HTTP request body for
// PUT /stablecoins/{mint}/minters/{minter}.
type UpdateMinterRequest struct {
	Quota         uint64 `json:"quota"`
	EpochDuration int64  `json:"epoch_duration"`
}

// Validate checks the request fields.
func (r UpdateMinterRequest) Validate() error {
	if r.EpochDuration < 0 {
		return dErrors.NewReason(dErrors.CodeInvalidInput, dErrors.ReasonInvalidEpochDuration, "epoch_duration must not be negative")
	}
	return nil
}
