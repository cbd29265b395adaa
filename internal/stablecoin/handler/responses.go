package handler

import (
	"time"

	"sss/internal/stablecoin/models"
)

// StablecoinResponse is the HTTP shape of a currency record.
type StablecoinResponse struct {
	Address          string `json:"address"`
	Authority        string `json:"authority"`
	PendingAuthority string `json:"pending_authority,omitempty"`
	Mint             string `json:"mint"`

	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	URI      string `json:"uri,omitempty"`
	Decimals uint8  `json:"decimals"`

	EnablePermanentDelegate bool `json:"enable_permanent_delegate"`
	EnableTransferHook      bool `json:"enable_transfer_hook"`
	DefaultAccountFrozen    bool `json:"default_account_frozen"`

	Paused      bool   `json:"paused"`
	TotalMinted uint64 `json:"total_minted"`
	TotalBurned uint64 `json:"total_burned"`
	Circulating uint64 `json:"circulating"`
	MaxSupply   uint64 `json:"max_supply"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromStablecoin converts a domain record to an HTTP response.
func FromStablecoin(sc *models.Stablecoin) *StablecoinResponse {
	circulating, _ := sc.Circulating()
	return &StablecoinResponse{
		Address:                 string(sc.Address),
		Authority:               string(sc.Authority),
		PendingAuthority:        string(sc.PendingAuthority),
		Mint:                    string(sc.Mint),
		Name:                    sc.Name,
		Symbol:                  sc.Symbol,
		URI:                     sc.URI,
		Decimals:                sc.Decimals,
		EnablePermanentDelegate: sc.EnablePermanentDelegate,
		EnableTransferHook:      sc.EnableTransferHook,
		DefaultAccountFrozen:    sc.DefaultAccountFrozen,
		Paused:                  sc.Paused,
		TotalMinted:             sc.TotalMinted,
		TotalBurned:             sc.TotalBurned,
		Circulating:             circulating,
		MaxSupply:               sc.MaxSupply,
		CreatedAt:               sc.CreatedAt,
		UpdatedAt:               sc.UpdatedAt,
	}
}
