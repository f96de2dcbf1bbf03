package builtin

import "salesetl/pkg/records"

// Product sets Out = Left * Right on every row.
type Product struct {
	Out, Left, Right string
}

func (p Product) Apply(t *records.Table) error {
	return derive(t, p.Out, p.Left, p.Right, func(a, b float64) float64 { return a * b })
}

// Difference sets Out = Left - Right on every row.
type Difference struct {
	Out, Left, Right string
}

func (d Difference) Apply(t *records.Table) error {
	return derive(t, d.Out, d.Left, d.Right, func(a, b float64) float64 { return a - b })
}

// derive computes every row first and only then writes Out, so a failing row
// leaves the table untouched.
func derive(t *records.Table, out, left, right string, op func(a, b float64) float64) error {
	for _, col := range []string{left, right} {
		if !t.HasColumn(col) {
			return &MissingColumnError{Column: col}
		}
	}

	vals := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		a, ok := r[left].(float64)
		if !ok {
			return &OperandError{Row: i, Column: left, Value: r[left]}
		}
		b, ok := r[right].(float64)
		if !ok {
			return &OperandError{Row: i, Column: right, Value: r[right]}
		}
		vals[i] = op(a, b)
	}

	t.AddColumn(out)
	for i, r := range t.Rows {
		r[out] = vals[i]
	}
	return nil
}
