package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"sss/internal/compliance/models"
	id "sss/pkg/domain"
	"sss/pkg/platform/sentinel"
)

// Postgres persists compliance records as jsonb payloads keyed by derived
// address. Batch inserts run inside one transaction so a duplicate rolls
// back the whole batch.
type Postgres struct {
	pool *pgxpool.Pool
}

const complianceSchema = `
CREATE TABLE IF NOT EXISTS blacklist_entries (
    address    TEXT PRIMARY KEY,
    payload    JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS transfer_limits (
    address    TEXT PRIMARY KEY,
    payload    JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func NewPostgres(ctx context.Context, pool *pgxpool.Pool) (*Postgres, error) {
	if _, err := pool.Exec(ctx, complianceSchema); err != nil {
		return nil, fmt.Errorf("ensure compliance tables: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

var _ Store = (*Postgres)(nil)

func (s *Postgres) AddEntry(ctx context.Context, entry *models.BlacklistEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal blacklist entry: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO blacklist_entries (address, payload) VALUES ($1, $2)`,
		entry.Address, payload)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("blacklist entry %s: %w", entry.Address, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert blacklist entry: %w", err)
	}
	return nil
}

func (s *Postgres) AddBatch(ctx context.Context, entries []*models.BlacklistEntry) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, entry := range entries {
		payload, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshal blacklist entry: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO blacklist_entries (address, payload) VALUES ($1, $2)`,
			entry.Address, payload); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return fmt.Errorf("blacklist entry %s: %w", entry.Address, sentinel.ErrConflict)
			}
			return fmt.Errorf("insert blacklist entry: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Postgres) RemoveEntry(ctx context.Context, address id.Address) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM blacklist_entries WHERE address = $1`, address)
	if err != nil {
		return fmt.Errorf("delete blacklist entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("blacklist entry %s: %w", address, sentinel.ErrNotFound)
	}
	return nil
}

func (s *Postgres) GetEntry(ctx context.Context, address id.Address) (*models.BlacklistEntry, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM blacklist_entries WHERE address = $1`, address).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("blacklist entry %s: %w", address, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select blacklist entry: %w", err)
	}

	var entry models.BlacklistEntry
	if err := json.Unmarshal(payload, &entry); err != nil {
		return nil, fmt.Errorf("unmarshal blacklist entry: %w", err)
	}
	return &entry, nil
}

func (s *Postgres) UpsertLimits(ctx context.Context, config *models.TransferLimitConfig) error {
	payload, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshal transfer limit config: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO transfer_limits (address, payload) VALUES ($1, $2)
		 ON CONFLICT (address) DO UPDATE SET payload = $2, updated_at = now()`,
		config.Address, payload)
	if err != nil {
		return fmt.Errorf("upsert transfer limit config: %w", err)
	}
	return nil
}

func (s *Postgres) GetLimits(ctx context.Context, address id.Address) (*models.TransferLimitConfig, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM transfer_limits WHERE address = $1`, address).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("transfer limit config %s: %w", address, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select transfer limit config: %w", err)
	}

	var config models.TransferLimitConfig
	if err := json.Unmarshal(payload, &config); err != nil {
		return nil, fmt.Errorf("unmarshal transfer limit config: %w", err)
	}
	return &config, nil
}
