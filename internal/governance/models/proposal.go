package models

import (
	"time"

	id "sss/pkg/domain"
	dErrors "sss/pkg/domain-errors"
)

// Proposal is one multisig decision moving through Open, then either
// Executed or Cancelled. Approvals are recorded by signer address so each
// signer counts once.
type Proposal struct {
	Address    id.Address   `json:"address"`
	Bump       uint8        `json:"bump"`
	Stablecoin id.Address   `json:"stablecoin"`
	Multisig   id.Address   `json:"multisig"`
	ID         uint64       `json:"id"`
	Proposer   id.Address   `json:"proposer"`
	Action     ActionType   `json:"action"`
	Payload    []byte       `json:"payload,omitempty"`
	Approvals  []id.Address `json:"approvals"`
	Executed   bool         `json:"executed"`
	Cancelled  bool         `json:"cancelled"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// ProposalAddress derives the proposal address from its multisig and
// sequence id.
func ProposalAddress(multisig id.Address, proposalID uint64) (id.Address, uint8) {
	return id.DeriveU64(id.SeedProposal, multisig, proposalID)
}

// NewProposal builds an open proposal with the proposer's approval already
// recorded.
func NewProposal(m *MultisigConfig, proposalID uint64, proposer id.Address,
	action ActionType, payload []byte, now time.Time) (*Proposal, error) {

	if err := ValidateAction(action, payload); err != nil {
		return nil, err
	}

	addr, bump := ProposalAddress(m.Address, proposalID)
	return &Proposal{
		Address:    addr,
		Bump:       bump,
		Stablecoin: m.Stablecoin,
		Multisig:   m.Address,
		ID:         proposalID,
		Proposer:   proposer,
		Action:     action,
		Payload:    append([]byte(nil), payload...),
		Approvals:  []id.Address{proposer},
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// HasApproved reports whether signer already approved.
func (p *Proposal) HasApproved(signer id.Address) bool {
	for _, a := range p.Approvals {
		if a == signer {
			return true
		}
	}
	return false
}

func (p *Proposal) terminal() error {
	if p.Executed {
		return dErrors.NewReason(dErrors.CodeConflict, dErrors.ReasonProposalAlreadyExecuted, "proposal has already been executed")
	}
	if p.Cancelled {
		return dErrors.NewReason(dErrors.CodeConflict, dErrors.ReasonProposalCancelled, "proposal has been cancelled")
	}
	return nil
}

// CanApprove verifies the proposal is open and signer has not yet approved.
func (p *Proposal) CanApprove(signer id.Address) error {
	if err := p.terminal(); err != nil {
		return err
	}
	if p.HasApproved(signer) {
		return dErrors.NewReason(dErrors.CodeConflict, dErrors.ReasonAlreadyApproved, "signer has already approved this proposal")
	}
	return nil
}

// ApplyApproval records one approval. Callers must hold the record lock and
// have passed CanApprove.
func (p *Proposal) ApplyApproval(signer id.Address, now time.Time) {
	p.Approvals = append(p.Approvals, signer)
	p.UpdatedAt = now
}

// CanExecute verifies the proposal is open and the approval threshold is
// met.
func (p *Proposal) CanExecute(threshold uint8) error {
	if err := p.terminal(); err != nil {
		return err
	}
	if len(p.Approvals) < int(threshold) {
		return dErrors.NewReason(dErrors.CodeConflict, dErrors.ReasonInsufficientApprovals, "approval threshold has not been met")
	}
	return nil
}

// ApplyExecuted makes the proposal terminal.
func (p *Proposal) ApplyExecuted(now time.Time) {
	p.Executed = true
	p.UpdatedAt = now
}

func (p *Proposal) Clone() *Proposal {
	c := *p
	c.Payload = append([]byte(nil), p.Payload...)
	c.Approvals = append([]id.Address(nil), p.Approvals...)
	return &c
}
