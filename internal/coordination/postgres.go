package coordination

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists role assignments in PostgreSQL. Mutual exclusion
// comes from a transaction-scoped advisory lock keyed on the session id, so
// independent worker processes serialize without any shared memory.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS role_assignments (
			session_id TEXT NOT NULL,
			worker_id TEXT NOT NULL,
			role TEXT NOT NULL,
			assigned_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (session_id, worker_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_role_assignments_assigned ON role_assignments (assigned_at);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, sessionID string, fn func(roles map[string]Role) (map[string]Role, error)) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin coordination tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// The advisory lock is released automatically at commit/rollback. A
	// context deadline while waiting is the bounded-retry expiry.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "voicesim:"+sessionID); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: session %q", ErrLockTimeout, sessionID)
		}
		return fmt.Errorf("acquire session lock: %w", err)
	}

	roles, err := readRoles(ctx, tx, sessionID)
	if err != nil {
		return err
	}

	updated, err := fn(roles)
	if err != nil {
		return err
	}

	for worker, role := range updated {
		if _, err := tx.Exec(ctx,
			`INSERT INTO role_assignments (session_id, worker_id, role)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (session_id, worker_id) DO UPDATE SET role = EXCLUDED.role`,
			sessionID, worker, string(role),
		); err != nil {
			return fmt.Errorf("persist assignment: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit coordination tx: %w", err)
	}
	return nil
}

func readRoles(ctx context.Context, tx pgx.Tx, sessionID string) (map[string]Role, error) {
	rows, err := tx.Query(ctx,
		`SELECT worker_id, role FROM role_assignments WHERE session_id = $1`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}
	defer rows.Close()

	roles := make(map[string]Role)
	for rows.Next() {
		var worker, role string
		if err := rows.Scan(&worker, &role); err != nil {
			return nil, fmt.Errorf("scan assignment row: %w", err)
		}
		roles[worker] = Role(role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignment rows: %w", err)
	}
	return roles, nil
}

func (s *PostgresStore) Snapshot(ctx context.Context, sessionID string) (map[string]Role, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT worker_id, role FROM role_assignments WHERE session_id = $1`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}
	defer rows.Close()

	roles := make(map[string]Role)
	for rows.Next() {
		var worker, role string
		if err := rows.Scan(&worker, &role); err != nil {
			return nil, fmt.Errorf("scan assignment row: %w", err)
		}
		roles[worker] = Role(role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignment rows: %w", err)
	}
	return roles, nil
}

func (s *PostgresStore) Prune(ctx context.Context, maxAge time.Duration, keep int) error {
	cutoff := time.Now().UTC().Add(-maxAge)
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM role_assignments WHERE assigned_at < $1`, cutoff,
	); err != nil {
		return fmt.Errorf("prune stale assignments: %w", err)
	}

	if keep > 0 {
		if _, err := s.pool.Exec(ctx,
			`DELETE FROM role_assignments WHERE session_id NOT IN (
				SELECT session_id FROM role_assignments
				GROUP BY session_id
				ORDER BY max(assigned_at) DESC
				LIMIT $1
			)`, keep,
		); err != nil {
			return fmt.Errorf("prune excess sessions: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
