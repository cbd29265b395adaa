package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sss/internal/roles/models"
	id "sss/pkg/domain"
	"sss/pkg/platform/sentinel"
)

// Postgres persists role and quota records as jsonb payloads keyed by
// derived address. ExecuteQuota takes a row lock (FOR UPDATE) so quota
// accounting stays serialized across processes.
type Postgres struct {
	pool *pgxpool.Pool
}

const rolesSchema = `
CREATE TABLE IF NOT EXISTS roles (
    address    TEXT PRIMARY KEY,
    payload    JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS minter_quotas (
    address    TEXT PRIMARY KEY,
    payload    JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func NewPostgres(ctx context.Context, pool *pgxpool.Pool) (*Postgres, error) {
	if _, err := pool.Exec(ctx, rolesSchema); err != nil {
		return nil, fmt.Errorf("ensure role tables: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

var _ Store = (*Postgres)(nil)

func (s *Postgres) UpsertRole(ctx context.Context, role *models.Role) error {
	payload, err := json.Marshal(role)
	if err != nil {
		return fmt.Errorf("marshal role: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO roles (address, payload) VALUES ($1, $2)
		 ON CONFLICT (address) DO UPDATE SET payload = $2, updated_at = now()`,
		role.Address, payload)
	if err != nil {
		return fmt.Errorf("upsert role: %w", err)
	}
	return nil
}

func (s *Postgres) GetRole(ctx context.Context, address id.Address) (*models.Role, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM roles WHERE address = $1`, address).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("role %s: %w", address, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select role: %w", err)
	}

	var role models.Role
	if err := json.Unmarshal(payload, &role); err != nil {
		return nil, fmt.Errorf("unmarshal role: %w", err)
	}
	return &role, nil
}

func (s *Postgres) UpsertQuota(ctx context.Context, quota *models.MinterQuota) error {
	payload, err := json.Marshal(quota)
	if err != nil {
		return fmt.Errorf("marshal minter quota: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO minter_quotas (address, payload) VALUES ($1, $2)
		 ON CONFLICT (address) DO UPDATE SET payload = $2, updated_at = now()`,
		quota.Address, payload)
	if err != nil {
		return fmt.Errorf("upsert minter quota: %w", err)
	}
	return nil
}

func (s *Postgres) GetQuota(ctx context.Context, address id.Address) (*models.MinterQuota, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM minter_quotas WHERE address = $1`, address).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("minter quota %s: %w", address, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select minter quota: %w", err)
	}

	var quota models.MinterQuota
	if err := json.Unmarshal(payload, &quota); err != nil {
		return nil, fmt.Errorf("unmarshal minter quota: %w", err)
	}
	return &quota, nil
}

func (s *Postgres) ExecuteQuota(ctx context.Context, address id.Address,
	validate func(*models.MinterQuota) error,
	mutate func(*models.MinterQuota)) (*models.MinterQuota, error) {

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var payload []byte
	err = tx.QueryRow(ctx,
		`SELECT payload FROM minter_quotas WHERE address = $1 FOR UPDATE`, address).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("minter quota %s: %w", address, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select minter quota for update: %w", err)
	}

	var quota models.MinterQuota
	if err := json.Unmarshal(payload, &quota); err != nil {
		return nil, fmt.Errorf("unmarshal minter quota: %w", err)
	}

	if validate != nil {
		if err := validate(&quota); err != nil {
			return nil, err
		}
	}
	if mutate != nil {
		mutate(&quota)
	}

	updated, err := json.Marshal(&quota)
	if err != nil {
		return nil, fmt.Errorf("marshal minter quota: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE minter_quotas SET payload = $2, updated_at = now() WHERE address = $1`,
		address, updated); err != nil {
		return nil, fmt.Errorf("update minter quota: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &quota, nil
}
