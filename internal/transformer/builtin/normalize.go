package builtin

import (
	"strings"

	"salesetl/pkg/records"
)

const nbsp = "\u00a0"

// Normalize cleans the string cells of Columns: a no-break space (or its
// mis-decoded "Â" + NBSP form) becomes an ASCII space, edge whitespace is
// trimmed, and a cell left empty becomes nil. Listed columns the table lacks
// are skipped. Non-string cells are left alone.
type Normalize struct {
	Columns []string
}

func (n Normalize) Apply(t *records.Table) error {
	for _, col := range n.Columns {
		if !t.HasColumn(col) {
			continue
		}
		for _, r := range t.Rows {
			s, ok := r[col].(string)
			if !ok {
				continue
			}
			if s = normalizeText(s); s == "" {
				r[col] = nil
			} else {
				r[col] = s
			}
		}
	}
	return nil
}

func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\u00c2"+nbsp, " ")
	s = strings.ReplaceAll(s, nbsp, " ")
	return strings.TrimSpace(s)
}
