// Package sqlite implements the default storage backend on the pure-Go
// modernc.org/sqlite driver. The pipeline owns exactly one connection, so
// the pool is pinned to a single connection; this also keeps ":memory:"
// databases alive across calls.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"salesetl/internal/storage"
	"salesetl/internal/storage/sqldb"
)

// Open opens a SQLite database at dsn, e.g. "sales_data.db" or ":memory:",
// and verifies it with a ping.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("sqlite: DSN must not be empty")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	return db, nil
}

// NewRepository opens dsn and wraps it as a storage.Repository.
func NewRepository(ctx context.Context, dsn string) (*sqldb.Repository, error) {
	db, err := Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return sqldb.New("sqlite", db, Dialect{}, sqldb.Question), nil
}

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

var _ storage.Repository = (*sqldb.Repository)(nil)

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, err := newRepository(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return r, nil
	})
}
