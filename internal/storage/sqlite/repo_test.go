package sqlite

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"salesetl/internal/ddl"
	"salesetl/internal/storage"
	"salesetl/internal/storage/sqldb"
)

/*
Package-level test helpers (TB-aware)
*/

func newRepo(tb testing.TB) *sqldb.Repository {
	tb.Helper()
	r, err := NewRepository(context.Background(), ":memory:")
	if err != nil {
		tb.Fatalf("open sqlite :memory:: %v", err)
	}
	tb.Cleanup(func() { _ = r.Close() })
	return r
}

var salesDef = ddl.TableDef{
	FQN: "sales_data",
	Columns: []ddl.ColumnDef{
		{Name: "OrderId", Type: "text", Nullable: true, PrimaryKey: true},
		{Name: "region", Type: "text", Nullable: true},
		{Name: "total_sales", Type: "real", Nullable: true},
	},
}

func mustEnsure(tb testing.TB, r storage.Repository) {
	tb.Helper()
	if err := storage.EnsureTable(context.Background(), r, salesDef); err != nil {
		tb.Fatalf("EnsureTable: %v", err)
	}
}

func count(tb testing.TB, r storage.Repository) int64 {
	tb.Helper()
	rows, err := r.QueryRows(context.Background(), `SELECT COUNT(*) FROM "sales_data"`)
	if err != nil {
		tb.Fatalf("count: %v", err)
	}
	return rows[0][0].(int64)
}

/*
Unit tests
*/

func TestDialect(t *testing.T) {
	t.Parallel()

	d := Dialect{}
	if got := d.QuoteIdent(`we"ird`); got != `"we""ird"` {
		t.Fatalf("QuoteIdent = %s", got)
	}
	for in, want := range map[string]string{"text": "TEXT", "real": "REAL", "integer": "INTEGER", "": "TEXT"} {
		if got := d.MapType(in, false); got != want {
			t.Fatalf("MapType(%q) = %s, want %s", in, got, want)
		}
	}
}

// TestEnsureTableIsIdempotent creates the table twice and checks the stored
// schema keeps the primary key.
func TestEnsureTableIsIdempotent(t *testing.T) {
	t.Parallel()

	r := newRepo(t)
	mustEnsure(t, r)
	mustEnsure(t, r)

	rows, err := r.QueryRows(context.Background(), `SELECT sql FROM sqlite_master WHERE type='table' AND name='sales_data'`)
	if err != nil {
		t.Fatalf("schema query: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d schema rows, want 1", len(rows))
	}
	schema := strings.ToUpper(rows[0][0].(string))
	for _, want := range []string{`"ORDERID" TEXT`, `"TOTAL_SALES" REAL`, `PRIMARY KEY ("ORDERID")`} {
		if !strings.Contains(schema, want) {
			t.Fatalf("schema %q missing %q", schema, want)
		}
	}
}

// TestReplaceRowsReplacesContents loads twice and checks the second load
// replaces rather than appends.
func TestReplaceRowsReplacesContents(t *testing.T) {
	t.Parallel()

	r := newRepo(t)
	mustEnsure(t, r)
	ctx := context.Background()
	cols := salesDef.ColumnNames()

	first := [][]any{{"1", "A", 20.0}, {"2", "B", 5.0}}
	for i := 0; i < 2; i++ {
		n, err := r.ReplaceRows(ctx, "sales_data", cols, first)
		if err != nil {
			t.Fatalf("ReplaceRows #%d: %v", i+1, err)
		}
		if n != 2 {
			t.Fatalf("ReplaceRows #%d inserted %d, want 2", i+1, n)
		}
		if got := count(t, r); got != 2 {
			t.Fatalf("after load #%d count = %d, want 2", i+1, got)
		}
	}

	if _, err := r.ReplaceRows(ctx, "sales_data", cols, [][]any{{"9", "A", 1.5}}); err != nil {
		t.Fatalf("ReplaceRows: %v", err)
	}
	rows, err := r.QueryRows(ctx, `SELECT "OrderId", "region", "total_sales" FROM "sales_data"`)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(rows) != 1 || rows[0][0] != "9" || rows[0][2] != 1.5 {
		t.Fatalf("rows = %#v, want only order 9", rows)
	}
}

// TestReplaceRowsRollsBackOnConflict checks a failing load keeps the previous
// contents (duplicate primary key inside the new batch).
func TestReplaceRowsRollsBackOnConflict(t *testing.T) {
	t.Parallel()

	r := newRepo(t)
	mustEnsure(t, r)
	ctx := context.Background()
	cols := salesDef.ColumnNames()

	if _, err := r.ReplaceRows(ctx, "sales_data", cols, [][]any{{"1", "A", 20.0}}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := r.ReplaceRows(ctx, "sales_data", cols, [][]any{{"5", "A", 1.0}, {"5", "B", 2.0}})
	if err == nil {
		t.Fatalf("ReplaceRows with duplicate key error = nil")
	}
	if got := count(t, r); got != 1 {
		t.Fatalf("count after failed load = %d, want 1", got)
	}

	if _, err := r.ReplaceRows(ctx, "sales_data", cols, [][]any{{"1", "A"}}); err == nil {
		t.Fatalf("ReplaceRows with short row error = nil")
	}
	if _, err := r.ReplaceRows(ctx, "sales_data", nil, nil); err == nil {
		t.Fatalf("ReplaceRows without columns error = nil")
	}
}

func TestNullsRoundTrip(t *testing.T) {
	t.Parallel()

	r := newRepo(t)
	mustEnsure(t, r)
	ctx := context.Background()

	if _, err := r.ReplaceRows(ctx, "sales_data", salesDef.ColumnNames(), [][]any{{"1", nil, nil}}); err != nil {
		t.Fatalf("ReplaceRows: %v", err)
	}
	rows, err := r.QueryRows(ctx, `SELECT "region", "total_sales" FROM "sales_data"`)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if rows[0][0] != nil || rows[0][1] != nil {
		t.Fatalf("row = %#v, want NULLs", rows[0])
	}
}

// TestFactoryRegistration opens a file-backed database through storage.New.
func TestFactoryRegistration(t *testing.T) {
	t.Parallel()

	dsn := filepath.Join(t.TempDir(), "sales.db")
	repo, err := storage.New(context.Background(), storage.Config{Kind: "sqlite", DSN: dsn})
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	defer repo.Close()

	mustEnsure(t, repo)
	if got := count(t, repo); got != 0 {
		t.Fatalf("count = %d, want 0", got)
	}

	if _, err := storage.New(context.Background(), storage.Config{Kind: "sqlite", DSN: "  "}); err == nil {
		t.Fatalf("storage.New with empty DSN error = nil")
	}
}
