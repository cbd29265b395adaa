// Package store persists capability grants and minter quotas.
package store

import (
	"context"

	"sss/internal/roles/models"
	id "sss/pkg/domain"
)

// Store is the persistence contract for role and quota records. Both record
// kinds are keyed by their derived address. Upserts replace the whole record;
// ExecuteQuota runs a validate-then-mutate step under the record lock so
// quota accounting stays serialized.
type Store interface {
	UpsertRole(ctx context.Context, role *models.Role) error
	GetRole(ctx context.Context, address id.Address) (*models.Role, error)

	UpsertQuota(ctx context.Context, quota *models.MinterQuota) error
	GetQuota(ctx context.Context, address id.Address) (*models.MinterQuota, error)
	ExecuteQuota(ctx context.Context, address id.Address,
		validate func(*models.MinterQuota) error,
		mutate func(*models.MinterQuota)) (*models.MinterQuota, error)
}
