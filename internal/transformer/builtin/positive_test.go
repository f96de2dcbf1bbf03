package builtin

import (
	"testing"

	"salesetl/pkg/records"
)

func TestPositiveKeepsStrictlyPositive(t *testing.T) {
	tbl := &records.Table{
		Columns: []string{"id", "net"},
		Rows: []records.Record{
			{"id": "a", "net": 15.0},
			{"id": "b", "net": 0.0},
			{"id": "c", "net": -1.0},
			{"id": "d", "net": "12"},
			{"id": "e", "net": nil},
			{"id": "f", "net": 0.01},
		},
	}
	if err := (Positive{Column: "net"}).Apply(tbl); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	var ids []string
	for _, r := range tbl.Rows {
		ids = append(ids, r["id"].(string))
	}
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "f" {
		t.Fatalf("kept %v, want [a f]", ids)
	}
}

func TestPositiveMissingColumn(t *testing.T) {
	if err := (Positive{Column: "net"}).Apply(&records.Table{}); err == nil {
		t.Fatalf("Apply() error = nil, want non-nil")
	}
}

func TestTagAndRequire(t *testing.T) {
	tbl := &records.Table{
		Columns: []string{"OrderId", "region"},
		Rows: []records.Record{
			{"OrderId": "1", "region": "Z"},
			{"OrderId": "2"},
		},
	}
	if err := (Tag{Column: "region", Value: "A"}).Apply(tbl); err != nil {
		t.Fatalf("Tag.Apply() error = %v", err)
	}
	for i, r := range tbl.Rows {
		if r["region"] != "A" {
			t.Fatalf("row %d region = %v, want A", i, r["region"])
		}
	}
	if len(tbl.Columns) != 2 {
		t.Fatalf("Tag duplicated an existing column: %v", tbl.Columns)
	}

	if err := (Require{Columns: []string{"OrderId", "region"}}).Apply(tbl); err != nil {
		t.Fatalf("Require.Apply() error = %v", err)
	}
	err := (Require{Columns: []string{"OrderId", "ItemPrice", "Other"}}).Apply(tbl)
	mce, ok := err.(*MissingColumnError)
	if !ok || mce.Column != "ItemPrice" {
		t.Fatalf("Require.Apply() error = %v, want missing ItemPrice", err)
	}
}
