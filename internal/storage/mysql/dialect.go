package mysql

import (
	"fmt"
	"strings"
)

// Dialect renders MySQL identifiers, types and create-if-missing DDL.
type Dialect struct{}

// QuoteIdent backtick-quotes id.
func (Dialect) QuoteIdent(id string) string {
	return "`" + strings.ReplaceAll(id, "`", "``") + "`"
}

// MapType maps a logical type onto a MySQL type. TEXT cannot be a key
// without a prefix length, so key columns use VARCHAR.
func (Dialect) MapType(logical string, primaryKey bool) string {
	switch strings.ToLower(strings.TrimSpace(logical)) {
	case "int", "integer", "bigint":
		return "BIGINT"
	case "real", "float", "double":
		return "DOUBLE"
	case "numeric", "decimal":
		return "DECIMAL(38,10)"
	default:
		if primaryKey {
			return "VARCHAR(255)"
		}
		return "TEXT"
	}
}

// CreateIfMissing uses CREATE TABLE IF NOT EXISTS.
func (Dialect) CreateIfMissing(fqn, cols string) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s);", fqn, cols)
}
