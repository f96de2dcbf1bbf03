// Package parser defines the contract shared by the source format parsers.
package parser

import (
	"io"

	"salesetl/pkg/records"
)

// Parser turns an input stream into a working table.
type Parser interface {
	Parse(r io.Reader) (*records.Table, error)
}
