package handler

import (
	"strings"

	"sss/internal/stablecoin/models"
	id "sss/pkg/domain"
	dErrors "sss/pkg/domain-errors"
)

// InitializeRequest is the HTTP request body for POST /stablecoins.
type InitializeRequest struct {
	Mint                    string `json:"mint"`
	Name                    string `json:"name"`
	Symbol                  string `json:"symbol"`
	URI                     string `json:"uri"`
	Decimals                uint8  `json:"decimals"`
	EnablePermanentDelegate bool   `json:"enable_permanent_delegate"`
	EnableTransferHook      bool   `json:"enable_transfer_hook"`
	DefaultAccountFrozen    bool   `json:"default_account_frozen"`
	MaxSupply               uint64 `json:"max_supply"`

	parsedMint id.Address
}

// Validate parses and checks the request. Metadata bounds are enforced by
// the model constructor; this catches the transport-level problems.
func (r *InitializeRequest) Validate() error {
	mint, err := id.ParseAddress(strings.TrimSpace(r.Mint))
	if err != nil {
		return err
	}
	r.parsedMint = mint
	r.Name = strings.TrimSpace(r.Name)
	r.Symbol = strings.TrimSpace(r.Symbol)
	r.URI = strings.TrimSpace(r.URI)
	return nil
}

// Params converts the request to domain initialize parameters. The service
// fills the authority from the caller.
func (r *InitializeRequest) Params() models.InitializeParams {
	return models.InitializeParams{
		Mint:                    r.parsedMint,
		Name:                    r.Name,
		Symbol:                  r.Symbol,
		URI:                     r.URI,
		Decimals:                r.Decimals,
		EnablePermanentDelegate: r.EnablePermanentDelegate,
		EnableTransferHook:      r.EnableTransferHook,
		DefaultAccountFrozen:    r.DefaultAccountFrozen,
		MaxSupply:               r.MaxSupply,
	}
}

// SupplyCapRequest is the HTTP request body for PUT /stablecoins/{mint}/supply-cap.
type SupplyCapRequest struct {
	MaxSupply uint64 `json:"max_supply"`
}

// TransferAuthorityRequest is the HTTP request body for
// POST /stablecoins/{mint}/authority/transfer.
type TransferAuthorityRequest struct {
	NewAuthority string `json:"new_authority"`
}

// Parsed returns the validated successor address.
func (r TransferAuthorityRequest) Parsed() (id.Address, error) {
	next, err := id.ParseAddress(strings.TrimSpace(r.NewAuthority))
	if err != nil {
		return "", dErrors.New(dErrors.CodeInvalidInput, "new_authority must be a valid address")
	}
	return next, nil
}
