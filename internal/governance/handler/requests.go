package handler

import (
	"strings"

	"sss/internal/governance/models"
	id "sss/pkg/domain"
	dErrors "sss/pkg/domain-errors"
)

// CreateMultisigRequest is the HTTP request body for
// POST /stablecoins/{mint}/multisig.
type CreateMultisigRequest struct {
	Signers   []string `json:"signers"`
	Threshold uint8    `json:"threshold"`

	parsedSigners []id.Address
}

func (r *CreateMultisigRequest) Validate() error {
	if len(r.Signers) == 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "signers are required")
	}
	if len(r.Signers) > models.MaxSigners {
		return dErrors.NewReason(dErrors.CodeInvalidInput, dErrors.ReasonTooManySigners, "signer set exceeds the maximum size")
	}
	r.parsedSigners = r.parsedSigners[:0]
	for _, raw := range r.Signers {
		signer, err := id.ParseAddress(strings.TrimSpace(raw))
		if err != nil {
			return dErrors.New(dErrors.CodeInvalidInput, "signers must be valid addresses")
		}
		r.parsedSigners = append(r.parsedSigners, signer)
	}
	return nil
}

func (r *CreateMultisigRequest) ParsedSigners() []id.Address { return r.parsedSigners }

// CreateProposalRequest is the HTTP request body for
// POST /stablecoins/{mint}/proposals. The payload arrives base64-encoded.
type CreateProposalRequest struct {
	Action  string `json:"action"`
	Payload []byte `json:"payload,omitempty"`

	parsedAction models.ActionType
}

func (r *CreateProposalRequest) Validate() error {
	action, err := models.ParseActionType(strings.TrimSpace(r.Action))
	if err != nil {
		return err
	}
	if err := models.ValidateAction(action, r.Payload); err != nil {
		return err
	}
	r.parsedAction = action
	return nil
}

func (r *CreateProposalRequest) ParsedAction() models.ActionType { return r.parsedAction }

// TimelockConfigRequest is the HTTP request body for
// PUT /stablecoins/{mint}/timelock.
type TimelockConfigRequest struct {
	Delay   int64 `json:"delay"`
	Enabled bool  `json:"enabled"`
}

func (r *TimelockConfigRequest) Validate() error {
	if r.Delay < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "delay must not be negative")
	}
	return nil
}

// ProposeOperationRequest is the HTTP request body for
// POST /stablecoins/{mint}/timelock/operations.
type ProposeOperationRequest struct {
	OperationID uint64 `json:"operation_id"`
	Action      string `json:"action"`
	Payload     []byte `json:"payload,omitempty"`

	parsedAction models.ActionType
}

func (r *ProposeOperationRequest) Validate() error {
	action, err := models.ParseActionType(strings.TrimSpace(r.Action))
	if err != nil {
		return err
	}
	if err := models.ValidateAction(action, r.Payload); err != nil {
		return err
	}
	r.parsedAction = action
	return nil
}

func (r *ProposeOperationRequest) ParsedAction() models.ActionType { return r.parsedAction }
