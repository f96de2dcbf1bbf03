package sqlite

import (
	"fmt"
	"strings"
)

// Dialect renders SQLite identifiers, types and create-if-missing DDL.
type Dialect struct{}

// QuoteIdent double-quotes id and escapes embedded quotes.
func (Dialect) QuoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// MapType maps a logical type onto a SQLite type affinity.
func (Dialect) MapType(logical string, _ bool) string {
	switch strings.ToLower(strings.TrimSpace(logical)) {
	case "int", "integer", "bigint":
		return "INTEGER"
	case "real", "float", "double":
		return "REAL"
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
