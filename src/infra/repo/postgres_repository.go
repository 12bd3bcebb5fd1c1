package repo

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"lexbridge/src/core/domain"
	"lexbridge/src/core/ports"
	"lexbridge/src/infra/db"
)

// One physical table backs every logical store. Stores are a filter column,
// not separate tables, and ids are unique across the whole table.
const (
	createTableSQL = `
		CREATE TABLE IF NOT EXISTS records (
			id TEXT PRIMARY KEY,
			store_name TEXT NOT NULL,
			content JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	createIndexSQL = `
		CREATE INDEX IF NOT EXISTS records_store_name_idx ON records (store_name)
	`
)

// PostgresRepository implements ports.DocumentRepository using pgx.
type PostgresRepository struct {
	pg  *db.Postgres
	log *slog.Logger
}

var _ ports.DocumentRepository = (*PostgresRepository)(nil)

// NewPostgresRepository constructs a repository backed by Postgres. The pool
// may be absent (degraded mode); every operation then reports a connection
// error instead of panicking.
func NewPostgresRepository(pg *db.Postgres, log *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		pg:  pg,
		log: log,
	}
}

func (r *PostgresRepository) pool() (*pgxpool.Pool, error) {
	if r.pg == nil || r.pg.Pool == nil {
		return nil, domain.NewConnectionError("database not initialized")
	}
	return r.pg.Pool, nil
}

// wrapQueryErr maps a driver error onto the domain taxonomy. Failures to
// establish a connection at query time (DNS, dial, network unreachable,
// timeout) are connection errors: the engine never saw the request.
// Everything the engine itself reports surfaces as a query error with its
// message intact.
func wrapQueryErr(err error) error {
	var connectErr *pgconn.ConnectError
	var opErr *net.OpError
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &connectErr),
		errors.As(err, &opErr):
		return domain.NewConnectionError(err.Error())
	}
	return domain.NewQueryError(err)
}

func (r *PostgresRepository) Health(ctx context.Context) error {
	return r.pg.Health(ctx)
}

// EnsureSchema idempotently creates the records table and the store-name
// index. Safe to call on every startup.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	pool, err := r.pool()
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		return wrapQueryErr(err)
	}
	if _, err := pool.Exec(ctx, createIndexSQL); err != nil {
		return wrapQueryErr(err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, store string) ([]json.RawMessage, error) {
	pool, err := r.pool()
	if err != nil {
		return nil, err
	}
	const q = `
		SELECT content
		FROM records
		WHERE store_name = $1
		ORDER BY updated_at DESC
	`
	rows, err := pool.Query(ctx, q, store)
	if err != nil {
		return nil, wrapQueryErr(err)
	}
	defer rows.Close()

	// Empty stores yield an empty slice, not nil, so they serialize as [].
	out := make([]json.RawMessage, 0)
	for rows.Next() {
		var content []byte
		if err := rows.Scan(&content); err != nil {
			return nil, wrapQueryErr(err)
		}
		out = append(out, json.RawMessage(content))
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryErr(err)
	}
	return out, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, rec domain.Record) error {
	pool, err := r.pool()
	if err != nil {
		return err
	}
	// Single-statement insert-or-replace; atomicity is the engine's.
	const q = `
		INSERT INTO records (id, store_name, content, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (id) DO UPDATE
		SET store_name = EXCLUDED.store_name,
		    content = EXCLUDED.content,
		    updated_at = now()
	`
	if _, err := pool.Exec(ctx, q, rec.ID, rec.Store, []byte(rec.Content)); err != nil {
		return wrapQueryErr(err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	pool, err := r.pool()
	if err != nil {
		return err
	}
	const q = `DELETE FROM records WHERE id = $1`
	// Rows-affected is deliberately ignored: deleting an absent id is
	// still a success.
	if _, err := pool.Exec(ctx, q, id); err != nil {
		return wrapQueryErr(err)
	}
	return nil
}

func (r *PostgresRepository) ExportAll(ctx context.Context) (map[string][]json.RawMessage, error) {
	pool, err := r.pool()
	if err != nil {
		return nil, err
	}
	// No ORDER BY: export preserves scan order within each group, unlike
	// per-store reads.
	const q = `SELECT store_name, content FROM records`
	rows, err := pool.Query(ctx, q)
	if err != nil {
		return nil, wrapQueryErr(err)
	}
	defer rows.Close()

	out := make(map[string][]json.RawMessage)
	for rows.Next() {
		var store string
		var content []byte
		if err := rows.Scan(&store, &content); err != nil {
			return nil, wrapQueryErr(err)
		}
		out[store] = append(out[store], json.RawMessage(content))
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryErr(err)
	}
	return out, nil
}
