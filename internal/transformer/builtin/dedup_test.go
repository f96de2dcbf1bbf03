package builtin

import (
	"reflect"
	"testing"

	"salesetl/pkg/records"
)

func mk(id any, fields map[string]any) records.Record {
	r := records.Record{"OrderId": id}
	for k, v := range fields {
		r[k] = v
	}
	return r
}

func table(rows ...records.Record) *records.Table {
	return &records.Table{Columns: []string{"OrderId", "src", "extra"}, Rows: rows}
}

func TestDeDupKeepFirst(t *testing.T) {
	tbl := table(
		mk("X1", map[string]any{"src": "A"}),
		mk("X2", map[string]any{"src": "A"}),
		mk("X1", map[string]any{"src": "B"}),
	)
	d := DeDup{Keys: []string{"OrderId"}, Policy: "keep-first"}
	if err := d.Apply(tbl); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	want := []records.Record{
		mk("X1", map[string]any{"src": "A"}),
		mk("X2", map[string]any{"src": "A"}),
	}
	if !reflect.DeepEqual(tbl.Rows, want) {
		t.Fatalf("keep-first: got %#v want %#v", tbl.Rows, want)
	}
}

func TestDeDupDefaultPolicyIsKeepFirst(t *testing.T) {
	tbl := table(
		mk("X1", map[string]any{"src": "A"}),
		mk("X1", map[string]any{"src": "B"}),
	)
	if err := (DeDup{Keys: []string{"OrderId"}}).Apply(tbl); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if len(tbl.Rows) != 1 || tbl.Rows[0]["src"] != "A" {
		t.Fatalf("default policy kept %#v, want the first row", tbl.Rows)
	}
}

func TestDeDupKeepLast(t *testing.T) {
	tbl := table(
		mk("X1", map[string]any{"src": "A"}),
		mk("X2", map[string]any{"src": "A"}),
		mk("X1", map[string]any{"src": "B"}),
	)
	d := DeDup{Keys: []string{"OrderId"}, Policy: "keep-last"}
	if err := d.Apply(tbl); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	want := []records.Record{
		mk("X2", map[string]any{"src": "A"}),
		mk("X1", map[string]any{"src": "B"}),
	}
	if !reflect.DeepEqual(tbl.Rows, want) {
		t.Fatalf("keep-last: got %#v want %#v", tbl.Rows, want)
	}
}

func TestDeDupMostComplete(t *testing.T) {
	tbl := table(
		mk("X1", map[string]any{"src": ""}),
		mk("X1", map[string]any{"src": "B", "extra": "y"}),
		mk("X2", map[string]any{"src": "C"}),
	)
	d := DeDup{Keys: []string{"OrderId"}, Policy: "most-complete"}
	if err := d.Apply(tbl); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	want := []records.Record{
		mk("X1", map[string]any{"src": "B", "extra": "y"}),
		mk("X2", map[string]any{"src": "C"}),
	}
	if !reflect.DeepEqual(tbl.Rows, want) {
		t.Fatalf("most-complete: got %#v want %#v", tbl.Rows, want)
	}
}

func TestDeDupMissingKeysFormOneGroup(t *testing.T) {
	tbl := table(
		mk(nil, map[string]any{"src": "A"}),
		records.Record{"src": "B"},
		mk("X1", nil),
	)
	if err := (DeDup{Keys: []string{"OrderId"}}).Apply(tbl); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("got %d rows, want 2: %#v", len(tbl.Rows), tbl.Rows)
	}
	if tbl.Rows[0]["src"] != "A" || tbl.Rows[1]["OrderId"] != "X1" {
		t.Fatalf("unexpected survivors %#v", tbl.Rows)
	}
}

func TestDeDupCompositeKey(t *testing.T) {
	tbl := &records.Table{
		Columns: []string{"a", "b"},
		Rows: []records.Record{
			{"a": "1", "b": "2"},
			{"a": "1", "b": "3"},
			{"a": "1", "b": "2"},
			// "1\x1f2" must not collide with a split of "1" and "\x1f2".
			{"a": "12", "b": ""},
		},
	}
	if err := (DeDup{Keys: []string{"a", "b"}}).Apply(tbl); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if len(tbl.Rows) != 3 {
		t.Fatalf("got %d rows, want 3: %#v", len(tbl.Rows), tbl.Rows)
	}
}

func TestDeDupErrors(t *testing.T) {
	tests := []struct {
		name string
		d    DeDup
	}{
		{name: "no keys", d: DeDup{}},
		{name: "unknown column", d: DeDup{Keys: []string{"nope"}}},
		{name: "unknown policy", d: DeDup{Keys: []string{"OrderId"}, Policy: "keep-middle"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := table(mk("X1", nil), mk("X1", nil))
			if err := tt.d.Apply(tbl); err == nil {
				t.Fatalf("Apply() error = nil, want non-nil")
			}
			if len(tbl.Rows) != 2 {
				t.Fatalf("rows modified on error: %#v", tbl.Rows)
			}
		})
	}
}
