package builtin

import "fmt"

// MissingColumnError reports a column a transformer needs but the table lacks.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column: %s", e.Column)
}

// OperandError reports a derived-column operand that is not a float64, which
// means the column was never coerced.
type OperandError struct {
	Row    int
	Column string
	Value  any
}

func (e *OperandError) Error() string {
	return fmt.Sprintf("row %d: column %s holds %T (%v), want float64", e.Row, e.Column, e.Value, e.Value)
}
