// Package transformer defines the table-level transformation contract used by
// the sales pipeline and a Chain to compose transformations in order.
package transformer

import (
	"fmt"

	"salesetl/pkg/records"
)

// Transformer mutates a working table in place. Implementations that drop
// rows must leave Rows dense (build a new slice rather than nil-ing entries).
type Transformer interface {
	Apply(t *records.Table) error
}

// Func adapts an ordinary function to the Transformer interface.
type Func func(t *records.Table) error

// Apply calls f(t).
func (f Func) Apply(t *records.Table) error { return f(t) }

// Chain is an ordered list of transformers.
type Chain []Transformer

// Apply runs every transformer in order and stops at the first error. The
// error names the failing step by position and Go type.
func (c Chain) Apply(t *records.Table) error {
	if t == nil {
		return fmt.Errorf("transformer: nil table")
	}
	for i, step := range c {
		if err := step.Apply(t); err != nil {
			return fmt.Errorf("step %d (%T): %w", i, step, err)
		}
	}
	return nil
}
