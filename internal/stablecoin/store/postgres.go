package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"sss/internal/stablecoin/models"
	id "sss/pkg/domain"
	"sss/pkg/platform/sentinel"
)

// Postgres persists stablecoin records as jsonb payloads keyed by derived
// address. Execute takes a row lock (FOR UPDATE) so validation and mutation
// observe a consistent record even across processes.
type Postgres struct {
	pool *pgxpool.Pool
}

const stablecoinSchema = `
CREATE TABLE IF NOT EXISTS stablecoins (
    address    TEXT PRIMARY KEY,
    payload    JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func NewPostgres(ctx context.Context, pool *pgxpool.Pool) (*Postgres, error) {
	if _, err := pool.Exec(ctx, stablecoinSchema); err != nil {
		return nil, fmt.Errorf("ensure stablecoins table: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

var _ Store = (*Postgres)(nil)

func (s *Postgres) Create(ctx context.Context, sc *models.Stablecoin) error {
	payload, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("marshal stablecoin: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO stablecoins (address, payload) VALUES ($1, $2)`,
		sc.Address, payload)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("stablecoin %s: %w", sc.Address, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert stablecoin: %w", err)
	}
	return nil
}

func (s *Postgres) Get(ctx context.Context, address id.Address) (*models.Stablecoin, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM stablecoins WHERE address = $1`, address).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("stablecoin %s: %w", address, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select stablecoin: %w", err)
	}

	var sc models.Stablecoin
	if err := json.Unmarshal(payload, &sc); err != nil {
		return nil, fmt.Errorf("unmarshal stablecoin: %w", err)
	}
	return &sc, nil
}

func (s *Postgres) Execute(ctx context.Context, address id.Address,
	validate func(*models.Stablecoin) error,
	mutate func(*models.Stablecoin)) (*models.Stablecoin, error) {

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var payload []byte
	err = tx.QueryRow(ctx,
		`SELECT payload FROM stablecoins WHERE address = $1 FOR UPDATE`, address).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("stablecoin %s: %w", address, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select stablecoin for update: %w", err)
	}

	var sc models.Stablecoin
	if err := json.Unmarshal(payload, &sc); err != nil {
		return nil, fmt.Errorf("unmarshal stablecoin: %w", err)
	}

	if validate != nil {
		if err := validate(&sc); err != nil {
			return nil, err
		}
	}
	if mutate != nil {
		mutate(&sc)
	}

	updated, err := json.Marshal(&sc)
	if err != nil {
		return nil, fmt.Errorf("marshal stablecoin: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE stablecoins SET payload = $2, updated_at = now() WHERE address = $1`,
		address, updated); err != nil {
		return nil, fmt.Errorf("update stablecoin: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &sc, nil
}
