package builtin

import (
	"errors"
	"testing"

	"salesetl/pkg/records"
)

func TestProductAndDifference(t *testing.T) {
	tbl := &records.Table{
		Columns: []string{"q", "p", "d"},
		Rows: []records.Record{
			{"q": 2.0, "p": 10.0, "d": 5.0},
			{"q": 1.0, "p": 0.0, "d": 0.0},
		},
	}
	steps := []interface {
		Apply(*records.Table) error
	}{
		Product{Out: "total", Left: "q", Right: "p"},
		Difference{Out: "net", Left: "total", Right: "d"},
	}
	for _, s := range steps {
		if err := s.Apply(tbl); err != nil {
			t.Fatalf("%T.Apply() error = %v", s, err)
		}
	}

	if tbl.Rows[0]["total"] != 20.0 || tbl.Rows[0]["net"] != 15.0 {
		t.Fatalf("row 0 = %#v, want total=20 net=15", tbl.Rows[0])
	}
	if tbl.Rows[1]["total"] != 0.0 || tbl.Rows[1]["net"] != 0.0 {
		t.Fatalf("row 1 = %#v, want total=0 net=0", tbl.Rows[1])
	}
	if !tbl.HasColumn("total") || !tbl.HasColumn("net") {
		t.Fatalf("derived columns not registered: %v", tbl.Columns)
	}
}

func TestDeriveRejectsUncoercedOperand(t *testing.T) {
	tbl := &records.Table{
		Columns: []string{"q", "p"},
		Rows: []records.Record{
			{"q": 2.0, "p": 10.0},
			{"q": "3", "p": 1.0},
		},
	}
	err := Product{Out: "total", Left: "q", Right: "p"}.Apply(tbl)

	var oe *OperandError
	if !errors.As(err, &oe) {
		t.Fatalf("Apply() error = %v, want *OperandError", err)
	}
	if oe.Row != 1 || oe.Column != "q" {
		t.Fatalf("OperandError = %+v, want row 1 column q", oe)
	}
	if _, ok := tbl.Rows[0]["total"]; ok {
		t.Fatalf("row 0 was written before the failure: %#v", tbl.Rows[0])
	}
	if tbl.HasColumn("total") {
		t.Fatalf("output column registered despite failure")
	}
}

func TestDeriveMissingOperandColumn(t *testing.T) {
	tbl := &records.Table{Columns: []string{"q"}}
	err := Difference{Out: "net", Left: "q", Right: "d"}.Apply(tbl)

	var mce *MissingColumnError
	if !errors.As(err, &mce) || mce.Column != "d" {
		t.Fatalf("Apply() error = %v, want missing column d", err)
	}
}
