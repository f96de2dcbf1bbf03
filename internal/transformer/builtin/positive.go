package builtin

import (
	"salesetl/internal/bitmap"
	"salesetl/pkg/records"
)

// Positive keeps only rows whose Column is a float64 strictly greater than
// zero. Rows holding anything else are dropped.
type Positive struct {
	Column string
}

func (p Positive) Apply(t *records.Table) error {
	if !t.HasColumn(p.Column) {
		return &MissingColumnError{Column: p.Column}
	}
	keep := bitmap.New(len(t.Rows))
	for i, r := range t.Rows {
		if v, ok := r[p.Column].(float64); ok && v > 0 {
			keep.Add(i)
		}
	}
	if keep.Count() != len(t.Rows) {
		t.Rows = compact(t.Rows, keep)
	}
	return nil
}
