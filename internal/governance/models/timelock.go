package models

import (
	"time"

	id "sss/pkg/domain"
	dErrors "sss/pkg/domain-errors"
)

// TimelockConfig holds the delay policy for one currency. Operations cannot
// be proposed while disabled.
type TimelockConfig struct {
	Address    id.Address `json:"address"`
	Bump       uint8      `json:"bump"`
	Stablecoin id.Address `json:"stablecoin"`
	Delay      int64      `json:"delay"`
	Enabled    bool       `json:"enabled"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TimelockConfigAddress derives the config address for a currency.
func TimelockConfigAddress(stablecoin id.Address) (id.Address, uint8) {
	return id.Derive(id.SeedTimelockConfig, string(stablecoin))
}

// NewTimelockConfig validates and builds the delay policy. Delay is in
// seconds; zero means operations execute immediately once proposed.
func NewTimelockConfig(stablecoin id.Address, delay int64, enabled bool, now time.Time) (*TimelockConfig, error) {
	if delay < 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "delay must not be negative")
	}
	addr, bump := TimelockConfigAddress(stablecoin)
	return &TimelockConfig{
		Address:    addr,
		Bump:       bump,
		Stablecoin: stablecoin,
		Delay:      delay,
		Enabled:    enabled,
		UpdatedAt:  now,
	}, nil
}

func (c *TimelockConfig) Clone() *TimelockConfig {
	c2 := *c
	return &c2
}

// TimelockOperation is one delayed action moving through Pending, then
// either Executed or Cancelled. The eta is fixed at proposal time from the
// config's delay and never recomputed.
type TimelockOperation struct {
	Address    id.Address `json:"address"`
	Bump       uint8      `json:"bump"`
	Stablecoin id.Address `json:"stablecoin"`
	ID         uint64     `json:"id"`
	Proposer   id.Address `json:"proposer"`
	Action     ActionType `json:"action"`
	Payload    []byte     `json:"payload,omitempty"`
	ETA        time.Time  `json:"eta"`
	Executed   bool       `json:"executed"`
	Cancelled  bool       `json:"cancelled"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TimelockOperationAddress derives the operation address from its currency
// and caller-chosen id.
func TimelockOperationAddress(stablecoin id.Address, operationID uint64) (id.Address, uint8) {
	return id.DeriveU64(id.SeedTimelock, stablecoin, operationID)
}

// NewTimelockOperation builds a pending operation with its eta already
// fixed.
func NewTimelockOperation(stablecoin id.Address, operationID uint64, proposer id.Address,
	action ActionType, payload []byte, eta, now time.Time) (*TimelockOperation, error) {

	if err := ValidateAction(action, payload); err != nil {
		return nil, err
	}

	addr, bump := TimelockOperationAddress(stablecoin, operationID)
	return &TimelockOperation{
		Address:    addr,
		Bump:       bump,
		Stablecoin: stablecoin,
		ID:         operationID,
		Proposer:   proposer,
		Action:     action,
		Payload:    append([]byte(nil), payload...),
		ETA:        eta,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (o *TimelockOperation) terminal() error {
	if o.Executed {
		return dErrors.NewReason(dErrors.CodeConflict, dErrors.ReasonOperationAlreadyExecuted, "operation has already been executed")
	}
	if o.Cancelled {
		return dErrors.NewReason(dErrors.CodeConflict, dErrors.ReasonOperationCancelled, "operation has been cancelled")
	}
	return nil
}

// CanExecute verifies the operation is pending and its eta has passed.
func (o *TimelockOperation) CanExecute(now time.Time) error {
	if err := o.terminal(); err != nil {
		return err
	}
	if now.Before(o.ETA) {
		return dErrors.NewReason(dErrors.CodeConflict, dErrors.ReasonTimelockNotReady, "operation eta has not been reached")
	}
	return nil
}

// ApplyExecuted makes the operation terminal.
func (o *TimelockOperation) ApplyExecuted(now time.Time) {
	o.Executed = true
	o.UpdatedAt = now
}

// CanCancel verifies the operation is still pending.
func (o *TimelockOperation) CanCancel() error {
	return o.terminal()
}

// ApplyCancelled makes the operation terminal without dispatching.
func (o *TimelockOperation) ApplyCancelled(now time.Time) {
	o.Cancelled = true
	o.UpdatedAt = now
}

func (o *TimelockOperation) Clone() *TimelockOperation {
	c := *o
	c.Payload = append([]byte(nil), o.Payload...)
	return &c
}
