package models

import (
	id "sss/pkg/domain"
	dErrors "sss/pkg/domain-errors"
)

// ActionType enumerates what a governance decision does once approved. The
// set is closed: unknown values are rejected at the trust boundary.
type ActionType string

const (
	ActionPause             ActionType = "pause"
	ActionUnpause           ActionType = "unpause"
	ActionUpdateSupplyCap   ActionType = "update_supply_cap"
	ActionTransferAuthority ActionType = "transfer_authority"
	ActionUpdateRoles       ActionType = "update_roles"
	ActionUpdateMinter      ActionType = "update_minter"
	ActionBlacklistAdd      ActionType = "blacklist_add"
	ActionBlacklistRemove   ActionType = "blacklist_remove"
)

// MaxPayloadLen bounds the opaque action payload.
const MaxPayloadLen = 256

// ParseActionType validates a wire value against the closed set.
func ParseActionType(raw string) (ActionType, error) {
	switch ActionType(raw) {
	case ActionPause, ActionUnpause, ActionUpdateSupplyCap, ActionTransferAuthority,
		ActionUpdateRoles, ActionUpdateMinter, ActionBlacklistAdd, ActionBlacklistRemove:
		return ActionType(raw), nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown action type")
}

// ValidatePayload checks the opaque payload bound shared by proposals and
// timelock operations.
func ValidatePayload(payload []byte) error {
	if len(payload) > MaxPayloadLen {
		return dErrors.New(dErrors.CodeInvalidInput, "payload exceeds 256 bytes")
	}
	return nil
}

// check payload shapes up front so a malformed action fails at creation,
// not at execution time when approvals are already collected
func ValidateAction(action ActionType, payload []byte) error {
	if err := ValidatePayload(payload); err != nil {
		return err
	}
	switch action {
	case ActionPause, ActionUnpause:
		if len(payload) != 0 {
			return dErrors.New(dErrors.CodeInvalidInput, "action takes no payload")
		}
	case ActionUpdateSupplyCap:
		if len(payload) != 8 {
			return dErrors.New(dErrors.CodeInvalidInput, "supply cap payload must be 8 bytes")
		}
	case ActionTransferAuthority:
		if _, err := id.ParseAddress(string(payload)); err != nil {
			return dErrors.New(dErrors.CodeInvalidInput, "authority payload must be a valid address")
		}
	}
	return nil
}
