// Package domain defines the typed identities shared across the control
// plane: account addresses supplied by the hosting platform and record
// addresses derived deterministically from seed components.
package domain

import (
	"strings"

	dErrors "sss/pkg/domain-errors"
)

// Address identifies an account on the hosting platform: a wallet, a token
// account, a mint, or one of our derived records. The platform guarantees
// signature verification; we only care about equality and non-emptiness.
type Address string

const maxAddressLen = 64

// ParseAddress validates an address received at a trust boundary.
// Addresses must be non-empty, at most 64 characters, and contain no
// whitespace.
func ParseAddress(raw string) (Address, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "address is required")
	}
	if len(raw) > maxAddressLen {
		return "", dErrors.New(dErrors.CodeInvalidInput, "address exceeds 64 characters")
	}
	if strings.ContainsAny(raw, " \t\n\r") {
		return "", dErrors.New(dErrors.CodeInvalidInput, "address contains whitespace")
	}
	return Address(raw), nil
}

// IsZero reports whether the address is unset.
func (a Address) IsZero() bool { return a == "" }

func (a Address) String() string { return string(a) }
