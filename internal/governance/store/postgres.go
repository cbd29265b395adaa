package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sss/internal/governance/models"
	id "sss/pkg/domain"
	"sss/pkg/platform/sentinel"
)

// Postgres persists governance records as jsonb payloads keyed by derived
// address. Execute variants take a row lock (FOR UPDATE) so approvals and
// one-shot execution stay serialized across processes.
type Postgres struct {
	pool *pgxpool.Pool
}

const governanceSchema = `
CREATE TABLE IF NOT EXISTS multisig_configs (
    address    TEXT PRIMARY KEY,
    payload    JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS proposals (
    address    TEXT PRIMARY KEY,
    payload    JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS timelock_configs (
    address    TEXT PRIMARY KEY,
    payload    JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS timelock_operations (
    address    TEXT PRIMARY KEY,
    payload    JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func NewPostgres(ctx context.Context, pool *pgxpool.Pool) (*Postgres, error) {
	if _, err := pool.Exec(ctx, governanceSchema); err != nil {
		return nil, fmt.Errorf("ensure governance tables: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

var _ Store = (*Postgres)(nil)

// insert adds a new row and maps a duplicate key to ErrConflict.
func insert[T any](ctx context.Context, pool *pgxpool.Pool, table, kind string, address id.Address, record T) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", kind, err)
	}
	tag, err := pool.Exec(ctx,
		`INSERT INTO `+table+` (address, payload) VALUES ($1, $2)
		 ON CONFLICT (address) DO NOTHING`, address, payload)
	if err != nil {
		return fmt.Errorf("insert %s: %w", kind, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", kind, address, sentinel.ErrConflict)
	}
	return nil
}

func get[T any](ctx context.Context, pool *pgxpool.Pool, table, kind string, address id.Address) (*T, error) {
	var payload []byte
	err := pool.QueryRow(ctx,
		`SELECT payload FROM `+table+` WHERE address = $1`, address).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s %s: %w", kind, address, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", kind, err)
	}

	record := new(T)
	if err := json.Unmarshal(payload, record); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", kind, err)
	}
	return record, nil
}

// execute runs validate then mutate against a row-locked record and writes
// it back in the same transaction.
func execute[T any](ctx context.Context, pool *pgxpool.Pool, table, kind string, address id.Address,
	validate func(*T) error, mutate func(*T)) (*T, error) {

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var payload []byte
	err = tx.QueryRow(ctx,
		`SELECT payload FROM `+table+` WHERE address = $1 FOR UPDATE`, address).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s %s: %w", kind, address, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select %s for update: %w", kind, err)
	}

	record := new(T)
	if err := json.Unmarshal(payload, record); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", kind, err)
	}

	if validate != nil {
		if err := validate(record); err != nil {
			return nil, err
		}
	}
	if mutate != nil {
		mutate(record)
	}

	updated, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", kind, err)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE `+table+` SET payload = $2, updated_at = now() WHERE address = $1`,
		address, updated); err != nil {
		return nil, fmt.Errorf("update %s: %w", kind, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return record, nil
}

func (s *Postgres) CreateMultisig(ctx context.Context, m *models.MultisigConfig) error {
	return insert(ctx, s.pool, "multisig_configs", "multisig", m.Address, m)
}

func (s *Postgres) GetMultisig(ctx context.Context, address id.Address) (*models.MultisigConfig, error) {
	return get[models.MultisigConfig](ctx, s.pool, "multisig_configs", "multisig", address)
}

func (s *Postgres) ExecuteMultisig(ctx context.Context, address id.Address,
	validate func(*models.MultisigConfig) error,
	mutate func(*models.MultisigConfig)) (*models.MultisigConfig, error) {
	return execute(ctx, s.pool, "multisig_configs", "multisig", address, validate, mutate)
}

func (s *Postgres) CreateProposal(ctx context.Context, p *models.Proposal) error {
	return insert(ctx, s.pool, "proposals", "proposal", p.Address, p)
}

func (s *Postgres) GetProposal(ctx context.Context, address id.Address) (*models.Proposal, error) {
	return get[models.Proposal](ctx, s.pool, "proposals", "proposal", address)
}

func (s *Postgres) ExecuteProposal(ctx context.Context, address id.Address,
	validate func(*models.Proposal) error,
	mutate func(*models.Proposal)) (*models.Proposal, error) {
	return execute(ctx, s.pool, "proposals", "proposal", address, validate, mutate)
}

func (s *Postgres) UpsertTimelockConfig(ctx context.Context, c *models.TimelockConfig) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal timelock config: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO timelock_configs (address, payload) VALUES ($1, $2)
		 ON CONFLICT (address) DO UPDATE SET payload = $2, updated_at = now()`,
		c.Address, payload)
	if err != nil {
		return fmt.Errorf("upsert timelock config: %w", err)
	}
	return nil
}

func (s *Postgres) GetTimelockConfig(ctx context.Context, address id.Address) (*models.TimelockConfig, error) {
	return get[models.TimelockConfig](ctx, s.pool, "timelock_configs", "timelock config", address)
}

func (s *Postgres) CreateOperation(ctx context.Context, o *models.TimelockOperation) error {
	return insert(ctx, s.pool, "timelock_operations", "timelock operation", o.Address, o)
}

func (s *Postgres) GetOperation(ctx context.Context, address id.Address) (*models.TimelockOperation, error) {
	return get[models.TimelockOperation](ctx, s.pool, "timelock_operations", "timelock operation", address)
}

func (s *Postgres) ExecuteOperation(ctx context.Context, address id.Address,
	validate func(*models.TimelockOperation) error,
	mutate func(*models.TimelockOperation)) (*models.TimelockOperation, error) {
	return execute(ctx, s.pool, "timelock_operations", "timelock operation", address, validate, mutate)
}
