// Package bitmap provides a fixed-size bitset over row positions. The
// transformers use it to mark which rows of a table survive a filter, then
// compact the table in a single ordered pass.
package bitmap

import "math/bits"

// Bitmap is a bitset backed by 64-bit words.
type Bitmap struct {
	data []uint64
	n    int
}

// New returns an empty bitmap covering positions [0, n). n <= 0 yields a
// bitmap that holds nothing.
func New(n int) *Bitmap {
	if n <= 0 {
		return &Bitmap{}
	}
	return &Bitmap{data: make([]uint64, (n+63)/64), n: n}
}

// Len returns the number of positions covered.
func (b *Bitmap) Len() int { return b.n }

// Add sets position i. Positions outside [0, Len()) are ignored.
func (b *Bitmap) Add(i int) {
	if i < 0 || i >= b.n {
		return
	}
	b.data[i/64] |= 1 << uint(i%64)
}

// Has reports whether position i is set.
func (b *Bitmap) Has(i int) bool {
	if i < 0 || i >= b.n {
		return false
	}
	return b.data[i/64]&(1<<uint(i%64)) != 0
}

// Count returns the number of set positions.
func (b *Bitmap) Count() int {
	c := 0
	for _, w := range b.data {
		c += bits.OnesCount64(w)
	}
	return c
}
