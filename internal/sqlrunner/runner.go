// Package sqlrunner executes built queries against a database/sql backend.
//
// The default backend is SQLite through github.com/mattn/go-sqlite3. SQLite
// accepts the bracketed identifiers legacy SQL uses, so plain SELECT, WHERE,
// JOIN, GROUP BY, ORDER BY and LIMIT queries run unchanged. Table
// decorations, EACH modifiers and IGNORE CASE are BigQuery-only.
package sqlrunner

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/bqchain/internal/query"
)

// Runner implements query.Runner over a *sql.DB.
type Runner struct {
	db     *sql.DB
	owned  bool
	logger *slog.Logger
}

var _ query.Runner = (*Runner)(nil)

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger used for query diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// Open creates or opens a SQLite database at path and applies the
// pragmas the runner relies on.
//
// The connection pool is limited to one connection: SQLite allows a single
// writer, and an in-memory database (":memory:") exists per connection.
func Open(path string, opts ...Option) (*Runner, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	r := New(db, opts...)
	r.owned = true
	return r, nil
}

// New wraps an existing database handle. Close leaves db open.
func New(db *sql.DB, opts ...Option) *Runner {
	r := &Runner{db: db, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Close closes the database if the runner opened it.
func (r *Runner) Close() error {
	if r.db == nil || !r.owned {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// DB returns the underlying handle, for seeding and schema setup.
func (r *Runner) DB() *sql.DB {
	return r.db
}

// Exec runs a statement that returns no rows.
func (r *Runner) Exec(ctx context.Context, stmt string, args ...any) error {
	if _, err := r.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}

// Query executes text and returns its rows. Callers close the rows;
// query.Seq and query.Collect do so automatically.
func (r *Runner) Query(ctx context.Context, text string) (query.Rows, error) {
	rows, err := r.db.QueryContext(ctx, text)
	if err != nil {
		r.logger.DebugContext(ctx, "sqlite query failed", "error", err)
		return nil, fmt.Errorf("sqlite: %w", err)
	}

	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, fmt.Errorf("sqlite: read columns: %w", err)
	}
	return &Rows{rows: rows, columns: cols}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}
