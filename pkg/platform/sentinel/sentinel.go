package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and the token-module
// ledger return these (optionally wrapped) so services can translate them
// into domain errors with the right taxonomy reason.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: record does not exist in the store
// - ErrConflict: record already exists at the derived address
// - ErrInvalidState: record in wrong state for the requested operation
// - ErrFrozen: token account is frozen and rejects credits/debits
// - ErrInsufficientBalance: token account balance below requested amount
//
// For validation errors (bad input, missing fields), use pkg/domain-errors
// directly.
var (
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrInvalidState        = errors.New("invalid state")
	ErrFrozen              = errors.New("account frozen")
	ErrInsufficientBalance = errors.New("insufficient balance")
)
