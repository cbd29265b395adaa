package derrors

// Stable failure reasons returned to callers. These form the control plane's
// error taxonomy: authorization, state, validation, arithmetic, and
// compliance-gate failures. None are retryable by the core.
const (
	// Authorization
	ReasonUnauthorized       = "Unauthorized"
	ReasonNotAMultisigSigner = "NotAMultisigSigner"

	// State
	ReasonPaused                   = "Paused"
	ReasonAlreadyBlacklisted       = "AlreadyBlacklisted"
	ReasonNotBlacklisted           = "NotBlacklisted"
	ReasonAlreadyApproved          = "AlreadyApproved"
	ReasonProposalAlreadyExecuted  = "ProposalAlreadyExecuted"
	ReasonProposalCancelled        = "ProposalCancelled"
	ReasonInsufficientApprovals    = "InsufficientApprovals"
	ReasonTimelockNotReady         = "TimelockNotReady"
	ReasonTimelockNotEnabled       = "TimelockNotEnabled"
	ReasonOperationAlreadyExecuted = "OperationAlreadyExecuted"
	ReasonOperationCancelled       = "OperationCancelled"

	// Validation
	ReasonZeroAmount           = "ZeroAmount"
	ReasonNameTooLong          = "NameTooLong"
	ReasonSymbolTooLong        = "SymbolTooLong"
	ReasonUriTooLong           = "UriTooLong"
	ReasonReasonTooLong        = "ReasonTooLong"
	ReasonBatchTooLarge        = "BatchTooLarge"
	ReasonInvalidThreshold     = "InvalidThreshold"
	ReasonTooManySigners       = "TooManySigners"
	ReasonInvalidRoleConfig    = "InvalidRoleConfig"
	ReasonInvalidEpochDuration = "InvalidEpochDuration"

	// Accounting
	ReasonQuotaExceeded             = "QuotaExceeded"
	ReasonSupplyCapExceeded         = "SupplyCapExceeded"
	ReasonSupplyCapBelowCirculation = "SupplyCapBelowCirculation"
	ReasonMathOverflow              = "MathOverflow"

	// Compliance gate
	ReasonComplianceNotEnabled  = "ComplianceNotEnabled"
	ReasonBlacklisted           = "Blacklisted"
	ReasonTransferLimitExceeded = "TransferLimitExceeded"
)
