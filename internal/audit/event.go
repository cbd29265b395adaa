// Package audit is the control plane's event sink: fire-and-forget
// structured notifications for every state transition a supervisor or
// indexer would care about. Events are best-effort and never read back by
// the core.
package audit

import (
	"time"

	id "sss/pkg/domain"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so sinks can fan out.
type Event struct {
	ID         string     `json:"id"`
	Action     string     `json:"action"`
	Stablecoin id.Address `json:"stablecoin,omitempty"`
	Actor      id.Address `json:"actor,omitempty"`
	Target     id.Address `json:"target,omitempty"`
	Amount     uint64     `json:"amount,omitempty"`
	Detail     string     `json:"detail,omitempty"`
	RequestID  string     `json:"request_id,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
}

// Actions, one per observable transition.
const (
	EventStablecoinInitialized = "stablecoin_initialized"
	EventTokensMinted          = "tokens_minted"
	EventTokensBurned          = "tokens_burned"
	EventAccountFrozen         = "account_frozen"
	EventAccountThawed         = "account_thawed"
	EventStablecoinPaused      = "stablecoin_paused"
	EventStablecoinUnpaused    = "stablecoin_unpaused"
	EventRolesUpdated          = "roles_updated"
	EventMinterUpdated         = "minter_updated"
	EventSupplyCapUpdated      = "supply_cap_updated"
	EventAuthorityProposed     = "authority_proposed"
	EventAuthorityTransferred  = "authority_transferred"
	EventAddedToBlacklist      = "added_to_blacklist"
	EventRemovedFromBlacklist  = "removed_from_blacklist"
	EventTokensSeized          = "tokens_seized"
	EventTransferLimitsSet     = "transfer_limits_configured"
	EventMultisigCreated       = "multisig_created"
	EventProposalCreated       = "proposal_created"
	EventProposalApproved      = "proposal_approved"
	EventProposalExecuted      = "proposal_executed"
	EventTimelockConfigured    = "timelock_configured"
	EventTimelockProposed      = "timelock_proposed"
	EventTimelockExecuted      = "timelock_executed"
	EventTimelockCancelled     = "timelock_cancelled"
)
