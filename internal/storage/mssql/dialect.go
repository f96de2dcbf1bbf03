package mssql

import (
	"fmt"
	"strings"
)

// Dialect renders SQL Server identifiers, types and create-if-missing DDL.
type Dialect struct{}

// QuoteIdent brackets id, escaping closing brackets.
func (Dialect) QuoteIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}

// MapType maps a logical type onto a SQL Server type. Key columns get a
// bounded NVARCHAR so they can be indexed.
func (Dialect) MapType(logical string, primaryKey bool) string {
	switch strings.ToLower(strings.TrimSpace(logical)) {
	case "int", "integer", "bigint":
		return "BIGINT"
	case "real", "float", "double":
		return "FLOAT"
	case "numeric", "decimal":
		return "DECIMAL(38,10)"
	default:
		if primaryKey {
			return "NVARCHAR(450)"
		}
		return "NVARCHAR(MAX)"
	}
}

// CreateIfMissing guards CREATE TABLE with OBJECT_ID since SQL Server has no
// IF NOT EXISTS clause for tables.
func (Dialect) CreateIfMissing(fqn, cols string) string {
	lit := strings.ReplaceAll(fqn, "'", "''")
	return fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NULL\nCREATE TABLE %s (%s);", lit, fqn, cols)
}
