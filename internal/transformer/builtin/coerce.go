// Package builtin contains the reusable table transformers the sales pipeline
// is assembled from.
package builtin

import (
	"math"
	"strconv"
	"strings"

	"salesetl/pkg/records"
)

// Coerce converts the listed columns to float64. Any cell that does not parse
// as a finite number (text, empty, missing, NaN, Inf) becomes 0.
type Coerce struct {
	Columns []string
}

// Apply coerces in place. A listed column that the table does not have is a
// *MissingColumnError; nothing is modified in that case.
func (c Coerce) Apply(t *records.Table) error {
	for _, col := range c.Columns {
		if !t.HasColumn(col) {
			return &MissingColumnError{Column: col}
		}
	}
	for _, r := range t.Rows {
		for _, col := range c.Columns {
			r[col] = ToFloat(r[col])
		}
	}
	return nil
}

// ToFloat returns v as a finite float64, or 0 when v is not numeric.
func ToFloat(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		f = p
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
