// Package storage contains the storage-agnostic repository contract, the
// backend factory, and helpers shared by every backend.
//
// Backends register themselves from init (see internal/storage/all), so the
// pipeline only ever talks to the Repository interface.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"salesetl/internal/ddl"
)

// Repository is the minimal surface the pipeline needs from a relational
// store.
type Repository interface {
	// Exec runs a statement that returns no rows (typically DDL).
	Exec(ctx context.Context, sql string) error

	// ReplaceRows discards every existing row of table and inserts rows
	// (aligned to columns) in a single transaction. It returns the number of
	// rows written.
	ReplaceRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)

	// QueryRows runs a read-only query and returns every row as driver values.
	QueryRows(ctx context.Context, sql string) ([][]any, error)

	// Dialect exposes identifier quoting and type mapping for the backend.
	Dialect() ddl.Dialect

	// Close releases the underlying connection(s).
	Close() error
}

// Config is the backend-agnostic connection configuration.
type Config struct {
	// Kind selects the backend: "sqlite", "postgres", "mssql", "mysql".
	Kind string

	// DSN is handed to the backend driver unchanged. For sqlite this is a
	// file path such as "sales_data.db" or ":memory:".
	DSN string
}

// Factory opens a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for kind.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// ListKinds returns the registered backend kinds, sorted.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// New opens a repository using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unsupported kind %q (registered: %v)", cfg.Kind, ListKinds())
	}
	return f(ctx, cfg)
}
