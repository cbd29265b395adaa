package handler

import (
	"strings"

	"sss/internal/token"
	id "sss/pkg/domain"
	dErrors "sss/pkg/domain-errors"
)

// MintRequest is the HTTP request body for POST /stablecoins/{mint}/mint.
type MintRequest struct {
	Destination string `json:"destination"`
	Amount      uint64 `json:"amount"`

	parsedDestination id.Address
}

func (r *MintRequest) Validate() error {
	dest, err := id.ParseAddress(strings.TrimSpace(r.Destination))
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "destination must be a valid address")
	}
	r.parsedDestination = dest
	return nil
}

func (r *MintRequest) ParsedDestination() id.Address { return r.parsedDestination }

// BurnRequest is the HTTP request body for POST /stablecoins/{mint}/burn.
type BurnRequest struct {
	Account string `json:"account"`
	Amount  uint64 `json:"amount"`

	parsedAccount id.Address
}

func (r *BurnRequest) Validate() error {
	account, err := id.ParseAddress(strings.TrimSpace(r.Account))
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "account must be a valid address")
	}
	r.parsedAccount = account
	return nil
}

func (r *BurnRequest) ParsedAccount() id.Address { return r.parsedAccount }

// FreezeRequest is the HTTP request body for freeze and thaw endpoints.
type FreezeRequest struct {
	Account string `json:"account"`

	parsedAccount id.Address
}

func (r *FreezeRequest) Validate() error {
	account, err := id.ParseAddress(strings.TrimSpace(r.Account))
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "account must be a valid address")
	}
	r.parsedAccount = account
	return nil
}

func (r *FreezeRequest) ParsedAccount() id.Address { return r.parsedAccount }

// BatchMintRequest is the HTTP request body for
// POST /stablecoins/{mint}/batch/mint.
type BatchMintRequest struct {
	Items []BatchMintItem `json:"items"`

	parsedCredits []token.Credit
}

// BatchMintItem is one recipient/amount pair.
type BatchMintItem struct {
	Destination string `json:"destination"`
	Amount      uint64 `json:"amount"`
}

func (r *BatchMintRequest) Validate() error {
	r.parsedCredits = make([]token.Credit, 0, len(r.Items))
	for _, item := range r.Items {
		dest, err := id.ParseAddress(strings.TrimSpace(item.Destination))
		if err != nil {
			return dErrors.New(dErrors.CodeInvalidInput, "destination must be a valid address")
		}
		r.parsedCredits = append(r.parsedCredits, token.Credit{Destination: dest, Amount: item.Amount})
	}
	return nil
}

func (r *BatchMintRequest) ParsedCredits() []token.Credit { return r.parsedCredits }

// BatchFreezeRequest is the HTTP request body for
// POST /stablecoins/{mint}/batch/freeze.
type BatchFreezeRequest struct {
	Accounts []string `json:"accounts"`

	parsedAccounts []id.Address
}

func (r *BatchFreezeRequest) Validate() error {
	r.parsedAccounts = make([]id.Address, 0, len(r.Accounts))
	for _, raw := range r.Accounts {
		account, err := id.ParseAddress(strings.TrimSpace(raw))
		if err != nil {
			return dErrors.New(dErrors.CodeInvalidInput, "account must be a valid address")
		}
		r.parsedAccounts = append(r.parsedAccounts, account)
	}
	return nil
}

func (r *BatchFreezeRequest) ParsedAccounts() []id.Address { return r.parsedAccounts }
