package models

import (
	"time"

	id "sss/pkg/domain"
)

// Capability names one grantable permission.
type Capability string

const (
	CapMinter      Capability = "minter"
	CapBurner      Capability = "burner"
	CapPauser      Capability = "pauser"
	CapBlacklister Capability = "blacklister"
	CapSeizer      Capability = "seizer"
)

// Capabilities is the flag set held by one address for one currency.
type Capabilities struct {
	Minter      bool `json:"minter"`
	Burner      bool `json:"burner"`
	Pauser      bool `json:"pauser"`
	Blacklister bool `json:"blacklister"`
	Seizer      bool `json:"seizer"`
}

// All grants every capability; the initializing authority starts with this.
func All() Capabilities {
	return Capabilities{Minter: true, Burner: true, Pauser: true, Blacklister: true, Seizer: true}
}

// Has reports whether the set includes the capability.
func (c Capabilities) Has(cap Capability) bool {
	switch cap {
	case CapMinter:
		return c.Minter
	case CapBurner:
		return c.Burner
	case CapPauser:
		return c.Pauser
	case CapBlacklister:
		return c.Blacklister
	case CapSeizer:
		return c.Seizer
	default:
		return false
	}
}

// Role is a capability grant to one holder for one currency, keyed uniquely
// by (stablecoin, holder). Absence of the record means no capabilities.
type Role struct {
	Address    id.Address   `json:"address"`
	Bump       uint8        `json:"bump"`
	Stablecoin id.Address   `json:"stablecoin"`
	Holder     id.Address   `json:"holder"`
	Caps       Capabilities `json:"capabilities"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// RoleAddress derives the record address for (stablecoin, holder).
func RoleAddress(stablecoin, holder id.Address) (id.Address, uint8) {
	return id.Derive(id.SeedRole, string(stablecoin), string(holder))
}

// NewRole builds a grant record at its derived address.
func NewRole(stablecoin, holder id.Address, caps Capabilities, now time.Time) *Role {
	addr, bump := RoleAddress(stablecoin, holder)
	return &Role{
		Address:    addr,
		Bump:       bump,
		Stablecoin: stablecoin,
		Holder:     holder,
		Caps:       caps,
		UpdatedAt:  now,
	}
}

func (r *Role) Clone() *Role {
	c := *r
	return &c
}
