// Package csv reads a delimited text extract into a records.Table. The whole
// input is materialized; extracts are expected to fit in memory.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"salesetl/internal/parser"
	"salesetl/pkg/records"
)

// ErrNoHeader is returned for an input without a header row.
var ErrNoHeader = errors.New("csv: missing header row")

// Options configures the CSV parser behavior. All fields are optional.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing spaces from each field value.
	TrimSpace bool

	// LazyQuotes accepts a bare quote inside an unquoted field and a
	// non-doubled quote inside a quoted field.
	LazyQuotes bool

	// HeaderMap maps source header names to canonical column names. Lookups
	// use the trimmed, NFC-normalized header.
	HeaderMap map[string]string
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

var _ parser.Parser = (*Parser)(nil)

// RowWidthError reports a data row with more fields than the header.
type RowWidthError struct {
	Line   int
	Fields int
	Want   int
}

func (e *RowWidthError) Error() string {
	return fmt.Sprintf("csv: line %d has %d fields, header has %d", e.Line, e.Fields, e.Want)
}

// Parse reads the header row and every data row of r.
//
// Empty cells become nil. Rows shorter than the header are padded with nil;
// longer rows fail the whole parse. Blank lines are skipped.
func (p *Parser) Parse(r io.Reader) (*records.Table, error) {
	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = p.opt.LazyQuotes
	cr.ReuseRecord = true

	h, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	headers := normalizeHeaders(h, p.opt)
	out := records.NewTable(headers)

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		if len(row) > len(headers) {
			line, _ := cr.FieldPos(0)
			return nil, &RowWidthError{Line: line, Fields: len(row), Want: len(headers)}
		}

		rec := make(records.Record, len(headers))
		for i, key := range headers {
			if i >= len(row) {
				rec[key] = nil
				continue
			}
			val := row[i]
			if p.opt.TrimSpace {
				val = strings.TrimSpace(val)
			}
			rec[key] = emptyToNil(val)
		}
		out.Rows = append(out.Rows, rec)
	}
	return out, nil
}

// emptyToNil converts an empty string to nil; all other values are returned as-is.
func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// normalizeHeaders produces canonical column names: trimmed, BOM-stripped,
// NFC-normalized, mapped through HeaderMap, and made unique by suffixing
// repeats with ".1", ".2", ...
func normalizeHeaders(h []string, opt Options) []string {
	res := make([]string, len(h))
	copy(res, h)
	StripHeaderBOM(res)

	seen := make(map[string]int, len(res))
	for i, col := range res {
		c := norm.NFC.String(strings.TrimSpace(col))
		if m, ok := opt.HeaderMap[c]; ok {
			c = m
		}
		if c == "" {
			c = "col_" + strconv.Itoa(i)
		}
		res[i] = uniqueName(c, seen)
	}
	return res
}

func uniqueName(name string, seen map[string]int) string {
	n, dup := seen[name]
	if !dup {
		seen[name] = 1
		return name
	}
	for {
		candidate := name + "." + strconv.Itoa(n)
		n++
		if _, taken := seen[candidate]; !taken {
			seen[name] = n
			seen[candidate] = 1
			return candidate
		}
	}
}
