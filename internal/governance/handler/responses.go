package handler

import (
	"time"

	"sss/internal/governance/models"
)

// MultisigResponse is the HTTP shape of a multisig config.
type MultisigResponse struct {
	Stablecoin    string    `json:"stablecoin"`
	Signers       []string  `json:"signers"`
	Threshold     uint8     `json:"threshold"`
	ProposalCount uint64    `json:"proposal_count"`
	CreatedAt     time.Time `json:"created_at"`
}

func toMultisigResponse(m *models.MultisigConfig) MultisigResponse {
	signers := make([]string, 0, len(m.Signers))
	for _, signer := range m.Signers {
		signers = append(signers, string(signer))
	}
	return MultisigResponse{
		Stablecoin:    string(m.Stablecoin),
		Signers:       signers,
		Threshold:     m.Threshold,
		ProposalCount: m.ProposalCount,
		CreatedAt:     m.CreatedAt,
	}
}

// ProposalResponse is the HTTP shape of a proposal.
type ProposalResponse struct {
	ID        uint64    `json:"id"`
	Proposer  string    `json:"proposer"`
	Action    string    `json:"action"`
	Payload   []byte    `json:"payload,omitempty"`
	Approvals []string  `json:"approvals"`
	Executed  bool      `json:"executed"`
	Cancelled bool      `json:"cancelled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toProposalResponse(p *models.Proposal) ProposalResponse {
	approvals := make([]string, 0, len(p.Approvals))
	for _, a := range p.Approvals {
		approvals = append(approvals, string(a))
	}
	return ProposalResponse{
		ID:        p.ID,
		Proposer:  string(p.Proposer),
		Action:    string(p.Action),
		Payload:   p.Payload,
		Approvals: approvals,
		Executed:  p.Executed,
		Cancelled: p.Cancelled,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// TimelockConfigResponse is the HTTP shape of a timelock config.
type TimelockConfigResponse struct {
	Stablecoin string    `json:"stablecoin"`
	Delay      int64     `json:"delay"`
	Enabled    bool      `json:"enabled"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// OperationResponse is the HTTP shape of a timelock operation.
type OperationResponse struct {
	ID        uint64    `json:"id"`
	Proposer  string    `json:"proposer"`
	Action    string    `json:"action"`
	Payload   []byte    `json:"payload,omitempty"`
	ETA       time.Time `json:"eta"`
	Executed  bool      `json:"executed"`
	Cancelled bool      `json:"cancelled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toOperationResponse(o *models.TimelockOperation) OperationResponse {
	return OperationResponse{
		ID:        o.ID,
		Proposer:  string(o.Proposer),
		Action:    string(o.Action),
		Payload:   o.Payload,
		ETA:       o.ETA,
		Executed:  o.Executed,
		Cancelled: o.Cancelled,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
