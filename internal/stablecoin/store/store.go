// Package store persists stablecoin records in an arena keyed by derived
// address. Implementations serialize access per record: Execute holds the
// record's lock (mutex or FOR UPDATE) across both validation and mutation.
package store

import (
	"context"

	"sss/internal/stablecoin/models"
	id "sss/pkg/domain"
)

// Store is consumed by the stablecoin, issuance, and governance services.
type Store interface {
	// Create inserts a new record; sentinel.ErrConflict if the address is
	// already occupied.
	Create(ctx context.Context, sc *models.Stablecoin) error

	// Get returns a copy of the record; sentinel.ErrNotFound when absent.
	Get(ctx context.Context, address id.Address) (*models.Stablecoin, error)

	// Execute runs validate then mutate under the record's lock and returns
	// the updated record. A validate error aborts with no mutation.
	Execute(ctx context.Context, address id.Address,
		validate func(*models.Stablecoin) error,
		mutate func(*models.Stablecoin)) (*models.Stablecoin, error)
}
