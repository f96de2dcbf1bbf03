package storage

import (
	"context"
	"fmt"

	"salesetl/internal/ddl"
)

// EnsureTable renders a create-if-missing statement for def in the
// repository's dialect and executes it. An existing table is left untouched.
func EnsureTable(ctx context.Context, repo Repository, def ddl.TableDef) error {
	stmt, err := ddl.BuildCreateTableSQL(def, repo.Dialect())
	if err != nil {
		return fmt.Errorf("build ddl: %w", err)
	}
	if err := repo.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("create table %s: %w", def.FQN, err)
	}
	return nil
}
