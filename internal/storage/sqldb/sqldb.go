// Package sqldb implements storage.Repository on top of database/sql. The
// sqlite, mssql and mysql backends share it and differ only in driver,
// dialect and placeholder style.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"salesetl/internal/ddl"
)

// Placeholder renders the bind marker for the i-th (1-based) argument.
type Placeholder func(i int) string

// Question renders "?" for every argument (sqlite, mysql).
func Question(int) string { return "?" }

// AtP renders "@p1", "@p2", ... (SQL Server).
func AtP(i int) string { return fmt.Sprintf("@p%d", i) }

// Repository is a database/sql backed storage.Repository.
type Repository struct {
	db          *sql.DB
	dialect     ddl.Dialect
	placeholder Placeholder
	name        string
}

// New wraps an open *sql.DB. name prefixes error messages ("sqlite", ...).
func New(name string, db *sql.DB, d ddl.Dialect, ph Placeholder) *Repository {
	if ph == nil {
		ph = Question
	}
	return &Repository{db: db, dialect: d, placeholder: ph, name: name}
}

// DB returns the underlying handle.
func (r *Repository) DB() *sql.DB { return r.db }

// Dialect implements storage.Repository.
func (r *Repository) Dialect() ddl.Dialect { return r.dialect }

// Exec executes a statement that returns no rows.
func (r *Repository) Exec(ctx context.Context, stmt string) error {
	if strings.TrimSpace(stmt) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("%s: exec: %w", r.name, err)
	}
	return nil
}

// InsertSQL renders "INSERT INTO <table> (<cols>) VALUES (<placeholders>)".
func (r *Repository) InsertSQL(table string, columns []string) string {
	quoted := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = r.dialect.QuoteIdent(c)
		marks[i] = r.placeholder(i + 1)
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		ddl.QuoteFQN(table, r.dialect),
		strings.Join(quoted, ", "),
		strings.Join(marks, ", "),
	)
}

// ReplaceRows deletes every row of table and inserts rows, all inside one
// transaction. On any error the transaction is rolled back and the previous
// contents survive.
func (r *Repository) ReplaceRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("%s: replace rows: columns must not be empty", r.name)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: begin tx: %w", r.name, err)
	}
	rollback := func() { _ = tx.Rollback() }

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+ddl.QuoteFQN(table, r.dialect)); err != nil {
		rollback()
		return 0, fmt.Errorf("%s: clear %s: %w", r.name, table, err)
	}

	stmt, err := tx.PrepareContext(ctx, r.InsertSQL(table, columns))
	if err != nil {
		rollback()
		return 0, fmt.Errorf("%s: prepare insert: %w", r.name, err)
	}
	defer stmt.Close()

	var inserted int64
	for i, row := range rows {
		if len(row) != len(columns) {
			rollback()
			return 0, fmt.Errorf("%s: row %d has %d values, want %d", r.name, i, len(row), len(columns))
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			rollback()
			return 0, fmt.Errorf("%s: insert row %d: %w", r.name, i, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: commit: %w", r.name, err)
	}
	return inserted, nil
}

// QueryRows runs query and returns all rows. []byte values are copied into
// strings so callers never hold driver-owned buffers.
func (r *Repository) QueryRows(ctx context.Context, query string) ([][]any, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", r.name, err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%s: columns: %w", r.name, err)
	}

	var out [][]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", r.name, err)
		}
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		out = append(out, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", r.name, err)
	}
	return out, nil
}

// Close closes the underlying *sql.DB.
func (r *Repository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}
