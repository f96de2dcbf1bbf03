package builtin

import "salesetl/pkg/records"

// Tag sets Column to Value on every row, overwriting any existing value.
type Tag struct {
	Column string
	Value  any
}

func (g Tag) Apply(t *records.Table) error {
	t.AddColumn(g.Column)
	for _, r := range t.Rows {
		r[g.Column] = g.Value
	}
	return nil
}
