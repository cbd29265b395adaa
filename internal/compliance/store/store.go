// Package store persists blacklist entries and transfer limit configs.
package store

import (
	"context"
	"time"

	"sss/internal/compliance/models"
	id "sss/pkg/domain"
)

// Store is the persistence contract for compliance records. Blacklist
// mutations are keyed by entry address; AddBatch is all-or-nothing.
type Store interface {
	AddEntry(ctx context.Context, entry *models.BlacklistEntry) error
	AddBatch(ctx context.Context, entries []*models.BlacklistEntry) error
	RemoveEntry(ctx context.Context, address id.Address) error
	GetEntry(ctx context.Context, address id.Address) (*models.BlacklistEntry, error)

	UpsertLimits(ctx context.Context, config *models.TransferLimitConfig) error
	GetLimits(ctx context.Context, address id.Address) (*models.TransferLimitConfig, error)
}

// WindowStore accumulates per-day transfer totals. Keys carry the day
// bucket, so entries only need a TTL long enough to outlive their day.
type WindowStore interface {
	// Add atomically adds amount to the keyed window, creating it with ttl
	// on first use, and returns the new running total.
	Add(ctx context.Context, key string, amount uint64, ttl time.Duration) (uint64, error)
	// Subtract backs out a previously added amount after a failed check.
	Subtract(ctx context.Context, key string, amount uint64) error
}
