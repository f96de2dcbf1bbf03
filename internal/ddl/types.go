package ddl

// ColumnDef describes a single column in a table definition. It intentionally
// uses simple, database-agnostic fields.
//
// Fields:
//   - Name: logical column name (unquoted; quoting happens at render time)
//   - Type: logical type ("text", "real", "integer"); each Dialect maps it
//   - Nullable: whether NULL is allowed
//   - PrimaryKey: whether the column is part of the primary key
type ColumnDef struct {
	Name       string
	Type       string
	Nullable   bool
	PrimaryKey bool
}

// TableDef holds the table name (FQN, optionally dotted as "schema.table")
// and an ordered list of columns.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// ColumnNames returns the column names in definition order.
func (t TableDef) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// Dialect captures the per-backend differences needed to render DDL and
// simple queries.
type Dialect interface {
	// QuoteIdent quotes a single identifier segment.
	QuoteIdent(id string) string

	// MapType maps a logical type to a column type. primaryKey is set for key
	// columns, which some backends cannot declare as unbounded text.
	MapType(logical string, primaryKey bool) string

	// CreateIfMissing turns a quoted table name and rendered column list into a
	// statement that creates the table only when it does not exist yet.
	CreateIfMissing(quotedFQN, columns string) string
}
