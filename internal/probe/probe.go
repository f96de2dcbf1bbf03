// Package probe samples an order extract and reports what the pipeline will
// make of it: the header, an inferred kind per column, required columns that
// are missing, and numeric cells that extraction will coerce to 0.
package probe

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"salesetl/internal/datasource"
	pcsv "salesetl/internal/parser/csv"
	"salesetl/internal/sales"
	"salesetl/pkg/records"
)

// DefaultSampleRows caps how many data rows feed type inference.
const DefaultSampleRows = 1000

// Options control sampling.
type Options struct {
	// Parser is handed to the CSV parser unchanged.
	Parser pcsv.Options

	// SampleRows caps inference input; <= 0 uses DefaultSampleRows.
	SampleRows int
}

// Column describes one header column.
type Column struct {
	Name string

	// Kind is one of "integer", "real", "text" or "empty".
	Kind string

	// Coerced counts sampled cells of a numeric column that will become 0.
	Coerced int
}

// Report is the outcome of probing one extract.
type Report struct {
	Rows    int
	Sampled int
	Columns []Column
	Missing []string
}

// OK reports whether every required column is present.
func (r Report) OK() bool { return len(r.Missing) == 0 }

// Probe reads src and summarizes it.
func Probe(ctx context.Context, src datasource.Source, opt Options) (Report, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return Report{}, err
	}
	defer rc.Close()
	return ProbeReader(rc, opt)
}

// ProbeReader is Probe over an already opened extract.
func ProbeReader(r io.Reader, opt Options) (Report, error) {
	t, err := pcsv.NewParser(opt.Parser).Parse(r)
	if err != nil {
		return Report{}, err
	}
	return Summarize(t, opt.SampleRows), nil
}

// Summarize builds a Report from an already parsed table.
func Summarize(t *records.Table, sampleRows int) Report {
	if sampleRows <= 0 {
		sampleRows = DefaultSampleRows
	}
	sample := t.Rows
	if len(sample) > sampleRows {
		sample = sample[:sampleRows]
	}

	numeric := map[string]bool{}
	for _, c := range sales.NumericColumns {
		numeric[c] = true
	}

	rep := Report{Rows: t.Len(), Sampled: len(sample)}
	for _, name := range t.Columns {
		vals := nonEmpty(sample, name)
		col := Column{Name: name, Kind: inferKind(vals)}
		if numeric[name] {
			col.Coerced = len(sample) - countFinite(vals)
		}
		rep.Columns = append(rep.Columns, col)
	}
	for _, c := range sales.RequiredColumns {
		if !t.HasColumn(c) {
			rep.Missing = append(rep.Missing, c)
		}
	}
	return rep
}

// Write renders rep as the human-readable block printed by the CLI.
func Write(w io.Writer, label string, rep Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d rows (%d sampled)\n", label, rep.Rows, rep.Sampled)
	for _, c := range rep.Columns {
		fmt.Fprintf(&b, "  %s: %s", c.Name, c.Kind)
		if c.Coerced > 0 {
			fmt.Fprintf(&b, " (%d cells coerced to 0)", c.Coerced)
		}
		b.WriteByte('\n')
	}
	if len(rep.Missing) > 0 {
		fmt.Fprintf(&b, "  missing required columns: %s\n", strings.Join(rep.Missing, ", "))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// nonEmpty returns the trimmed, non-empty string cells of col.
func nonEmpty(rows []records.Record, col string) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		s, ok := r[col].(string)
		if !ok {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// inferKind requires every non-empty value to satisfy the narrower kind.
func inferKind(vals []string) string {
	switch {
	case len(vals) == 0:
		return "empty"
	case allMatch(vals, isInt):
		return "integer"
	case allMatch(vals, isFloat):
		return "real"
	default:
		return "text"
	}
}

func allMatch(vals []string, fn func(string) bool) bool {
	for _, v := range vals {
		if !fn(v) {
			return false
		}
	}
	return true
}

func isInt(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

// isFloat accepts finite decimal or scientific notation.
func isFloat(s string) bool {
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
}

func countFinite(vals []string) int {
	n := 0
	for _, v := range vals {
		if isFloat(v) {
			n++
		}
	}
	return n
}
