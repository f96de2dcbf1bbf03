package builtin

import "salesetl/pkg/records"

// Require fails when the table lacks any of the listed columns. It does not
// look at row values.
type Require struct {
	Columns []string
}

// Apply returns a *MissingColumnError naming the first absent column.
func (r Require) Apply(t *records.Table) error {
	for _, col := range r.Columns {
		if !t.HasColumn(col) {
			return &MissingColumnError{Column: col}
		}
	}
	return nil
}
