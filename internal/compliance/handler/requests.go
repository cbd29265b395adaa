package handler

import (
	"strings"

	id "sss/pkg/domain"
	dErrors "sss/pkg/domain-errors"
)

// BlacklistRequest is the HTTP request body for
// POST /stablecoins/{mint}/blacklist.
type BlacklistRequest struct {
	Target string `json:"target"`
	Reason string `json:"reason"`

	parsedTarget id.Address
}

func (r *BlacklistRequest) Validate() error {
	target, err := id.ParseAddress(strings.TrimSpace(r.Target))
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "target must be a valid address")
	}
	r.parsedTarget = target
	return nil
}

func (r *BlacklistRequest) ParsedTarget() id.Address { return r.parsedTarget }

// BatchBlacklistRequest is the HTTP request body for
// POST /stablecoins/{mint}/batch/blacklist.
type BatchBlacklistRequest struct {
	Targets []string `json:"targets"`
	Reason  string   `json:"reason"`

	parsedTargets []id.Address
}

func (r *BatchBlacklistRequest) Validate() error {
	r.parsedTargets = make([]id.Address, 0, len(r.Targets))
	for _, raw := range r.Targets {
		target, err := id.ParseAddress(strings.TrimSpace(raw))
		if err != nil {
			return dErrors.New(dErrors.CodeInvalidInput, "target must be a valid address")
		}
		r.parsedTargets = append(r.parsedTargets, target)
	}
	return nil
}

func (r *BatchBlacklistRequest) ParsedTargets() []id.Address { return r.parsedTargets }

// SeizeRequest is the HTTP request body for POST /stablecoins/{mint}/seize.
// Seizure always moves the source account's full balance, so no amount is
// accepted.
type SeizeRequest struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`

	parsedSource      id.Address
	parsedDestination id.Address
}

func (r *SeizeRequest) Validate() error {
	source, err := id.ParseAddress(strings.TrimSpace(r.Source))
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "source must be a valid address")
	}
	destination, err := id.ParseAddress(strings.TrimSpace(r.Destination))
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "destination must be a valid address")
	}
	r.parsedSource = source
	r.parsedDestination = destination
	return nil
}

func (r *SeizeRequest) ParsedSource() id.Address      { return r.parsedSource }
func (r *SeizeRequest) ParsedDestination() id.Address { return r.parsedDestination }

// TransferLimitsRequest is the HTTP request body for
// PUT /stablecoins/{mint}/transfer-limits.
type TransferLimitsRequest struct {
	MaxPerTransfer uint64 `json:"max_per_transfer"`
	MaxPerDay      uint64 `json:"max_per_day"`
}

// TransferCheckRequest is the HTTP request body for
// POST /stablecoins/{mint}/transfer-check.
type TransferCheckRequest struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Amount      uint64 `json:"amount"`

	parsedSource      id.Address
	parsedDestination id.Address
}

func (r *TransferCheckRequest) Validate() error {
	source, err := id.ParseAddress(strings.TrimSpace(r.Source))
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "source must be a valid address")
	}
	destination, err := id.ParseAddress(strings.TrimSpace(r.Destination))
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "destination must be a valid address")
	}
	r.parsedSource = source
	r.parsedDestination = destination
	return nil
}

func (r *TransferCheckRequest) ParsedSource() id.Address      { return r.parsedSource }
func (r *TransferCheckRequest) ParsedDestination() id.Address { return r.parsedDestination }
