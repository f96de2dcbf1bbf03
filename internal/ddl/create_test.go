package ddl

import (
	"strings"
	"testing"
)

// ansi is a minimal Dialect used to test rendering independent of backends.
type ansi struct{}

func (ansi) QuoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

func (ansi) MapType(logical string, primaryKey bool) string {
	if primaryKey {
		return "VARCHAR(64)"
	}
	return strings.ToUpper(logical)
}

func (ansi) CreateIfMissing(fqn, cols string) string {
	return "CREATE TABLE IF NOT EXISTS " + fqn + " (" + cols + ");"
}

// TestBuildCreateTableSQL verifies rendering and input validation with
// table-driven subtests.
func TestBuildCreateTableSQL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		def         TableDef
		dialect     Dialect
		wantSQL     string
		errContains string
	}{
		{
			name:        "empty FQN",
			def:         TableDef{FQN: " ", Columns: []ColumnDef{{Name: "id", Type: "text"}}},
			dialect:     ansi{},
			errContains: "table FQN must not be empty",
		},
		{
			name:        "no columns",
			def:         TableDef{FQN: "t"},
			dialect:     ansi{},
			errContains: "at least one column is required",
		},
		{
			name:        "empty column name",
			def:         TableDef{FQN: "t", Columns: []ColumnDef{{Name: "", Type: "text"}}},
			dialect:     ansi{},
			errContains: "column with empty name",
		},
		{
			name:        "missing type",
			def:         TableDef{FQN: "t", Columns: []ColumnDef{{Name: "id"}}},
			dialect:     ansi{},
			errContains: "missing type",
		},
		{
			name:        "nil dialect",
			def:         TableDef{FQN: "t", Columns: []ColumnDef{{Name: "id", Type: "text"}}},
			errContains: "dialect must not be nil",
		},
		{
			name: "key, nullable and not null columns",
			def: TableDef{
				FQN: "main.sales",
				Columns: []ColumnDef{
					{Name: "OrderId", Type: "text", Nullable: true, PrimaryKey: true},
					{Name: "amount", Type: "real", Nullable: true},
					{Name: "region", Type: "text"},
				},
			},
			dialect: ansi{},
			wantSQL: "CREATE TABLE IF NOT EXISTS \"main\".\"sales\" (\n" +
				"  \"OrderId\" VARCHAR(64),\n" +
				"  \"amount\" REAL,\n" +
				"  \"region\" TEXT NOT NULL,\n" +
				"  PRIMARY KEY (\"OrderId\")\n" +
				");",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := BuildCreateTableSQL(tt.def, tt.dialect)
			if tt.errContains != "" {
				if err == nil || !strings.Contains(err.Error(), tt.errContains) {
					t.Fatalf("BuildCreateTableSQL() error = %v, want containing %q", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildCreateTableSQL() error = %v", err)
			}
			if got != tt.wantSQL {
				t.Fatalf("BuildCreateTableSQL() =\n%s\nwant\n%s", got, tt.wantSQL)
			}
		})
	}
}

func TestQuoteFQN(t *testing.T) {
	t.Parallel()

	tests := []struct{ in, want string }{
		{in: "sales_data", want: `"sales_data"`},
		{in: "main.sales_data", want: `"main"."sales_data"`},
		{in: " .main..sales. ", want: `"main"."sales"`},
		{in: `we"ird`, want: `"we""ird"`},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		if got := QuoteFQN(tt.in, ansi{}); got != tt.want {
			t.Fatalf("QuoteFQN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestColumnNames(t *testing.T) {
	td := TableDef{Columns: []ColumnDef{{Name: "a"}, {Name: "b"}}}
	got := td.ColumnNames()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("ColumnNames() = %v, want [a b]", got)
	}
}
