package storage

import (
	"math"

	"salesetl/pkg/records"
)

// ProjectRows aligns records to columns for a bulk write. Missing-value
// markers become nil so they are written as SQL NULL: an absent key, nil, an
// empty string, and a NaN or infinite float.
func ProjectRows(columns []string, recs []records.Record) [][]any {
	out := make([][]any, 0, len(recs))
	for _, r := range recs {
		row := make([]any, len(columns))
		for i, c := range columns {
			row[i] = NullIfMissing(r[c])
		}
		out = append(out, row)
	}
	return out
}

// NullIfMissing returns nil for missing-value markers and v otherwise.
func NullIfMissing(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if t == "" {
			return nil
		}
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil
		}
	case float32:
		if math.IsNaN(float64(t)) || math.IsInf(float64(t), 0) {
			return nil
		}
	}
	return v
}
