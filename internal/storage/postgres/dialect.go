package postgres

import (
	"fmt"
	"strings"
)

// Dialect renders Postgres identifiers, types and create-if-missing DDL.
type Dialect struct{}

// QuoteIdent double-quotes id, preserving case ("OrderId" stays mixed-case).
func (Dialect) QuoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// MapType maps a logical type onto a Postgres type.
func (Dialect) MapType(logical string, _ bool) string {
	switch strings.ToLower(strings.TrimSpace(logical)) {
	case "int", "integer", "bigint":
		return "BIGINT"
	case "real", "float", "double":
		return "DOUBLE PRECISION"
	case "numeric", "decimal":
		return "NUMERIC"
	default:
		return "TEXT"
	}
}

// CreateIfMissing uses CREATE TABLE IF NOT EXISTS.
func (Dialect) CreateIfMissing(fqn, cols string) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s);", fqn, cols)
}

// identifier splits "schema.table" into a pgx.Identifier-compatible slice.
func identifier(fqn string) []string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
