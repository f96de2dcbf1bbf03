// Package records defines the in-memory tabular model that flows between the
// extract, transform and load stages.
package records

import (
	"fmt"
	"sort"
	"strings"
)

// Record is one row keyed by column name. Values are strings as read from the
// source, nil for a missing value, or float64 after numeric coercion.
type Record map[string]any

// Table is an ordered set of records sharing a common column list.
//
// Rows is always dense: removing rows means building a new slice, so row i is
// simply Rows[i].
type Table struct {
	Columns []string
	Rows    []Record
}

// NewTable returns an empty table with a copy of the given columns.
func NewTable(columns []string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether name is part of the column list.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// AddColumn appends name to the column list unless it is already present.
func (t *Table) AddColumn(name string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
}

// Concat appends the rows of others after the rows of t. The resulting column
// list is the first-seen union; a record lacking a column of the union gets an
// explicit nil for it.
func Concat(tables ...*Table) *Table {
	out := &Table{}
	total := 0
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, c := range t.Columns {
			out.AddColumn(c)
		}
		total += len(t.Rows)
	}

	out.Rows = make([]Record, 0, total)
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, r := range t.Rows {
			for _, c := range out.Columns {
				if _, ok := r[c]; !ok {
					r[c] = nil
				}
			}
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// ColumnTypes summarizes the Go types held by each column, in column order.
// A column holding a single type reports that type ("float64", "string"); a
// column with only missing values reports "null"; anything else reports
// "mixed(t1,t2,...)".
func (t *Table) ColumnTypes() []string {
	out := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		seen := map[string]struct{}{}
		for _, r := range t.Rows {
			v := r[c]
			if v == nil {
				continue
			}
			seen[fmt.Sprintf("%T", v)] = struct{}{}
		}
		kinds := make([]string, 0, len(seen))
		for k := range seen {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)

		var kind string
		switch len(kinds) {
		case 0:
			kind = "null"
		case 1:
			kind = kinds[0]
		default:
			kind = "mixed(" + strings.Join(kinds, ",") + ")"
		}
		out = append(out, c+": "+kind)
	}
	return out
}
