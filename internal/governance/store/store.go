// Package store persists governance records. Execute variants hold the
// record's lock across validation and mutation so approval counting and
// one-shot execution stay serialized.
package store

import (
	"context"

	"sss/internal/governance/models"
	id "sss/pkg/domain"
)

// Store is consumed by the governance service.
type Store interface {
	// CreateMultisig inserts the signer set; sentinel.ErrConflict when the
	// currency already has one.
	CreateMultisig(ctx context.Context, m *models.MultisigConfig) error
	GetMultisig(ctx context.Context, address id.Address) (*models.MultisigConfig, error)
	ExecuteMultisig(ctx context.Context, address id.Address,
		validate func(*models.MultisigConfig) error,
		mutate func(*models.MultisigConfig)) (*models.MultisigConfig, error)

	CreateProposal(ctx context.Context, p *models.Proposal) error
	GetProposal(ctx context.Context, address id.Address) (*models.Proposal, error)
	ExecuteProposal(ctx context.Context, address id.Address,
		validate func(*models.Proposal) error,
		mutate func(*models.Proposal)) (*models.Proposal, error)

	UpsertTimelockConfig(ctx context.Context, c *models.TimelockConfig) error
	GetTimelockConfig(ctx context.Context, address id.Address) (*models.TimelockConfig, error)

	// CreateOperation inserts a pending operation; sentinel.ErrConflict when
	// the caller-chosen id is already taken for the currency.
	CreateOperation(ctx context.Context, o *models.TimelockOperation) error
	GetOperation(ctx context.Context, address id.Address) (*models.TimelockOperation, error)
	ExecuteOperation(ctx context.Context, address id.Address,
		validate func(*models.TimelockOperation) error,
		mutate func(*models.TimelockOperation)) (*models.TimelockOperation, error)
}
