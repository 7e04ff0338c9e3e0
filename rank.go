package roaring

import (
	"github.com/pkg/errors"
)

// Rank returns the number of values in the bitmap which are smaller or equal to x
func (rb *Bitmap) Rank(x uint32) int {
	hi, lo := uint16(x>>16), uint16(x&0xFFFF)
	rank := 0
	for i, key := range rb.index {
		switch {
		case key < hi:
			rank += rb.containers[i].cardinality()
		case key == hi:
			return rank + rb.containers[i].rank(lo)
		default:
			return rank
		}
	}
	return rank
}

// Select returns the value at the zero-based position i, in ascending order
func (rb *Bitmap) Select(i int) (uint32, error) {
	if i < 0 {
		return 0, errors.Wrapf(ErrIndexOutOfRange, "select %d", i)
	}

	remaining := i
	for k := range rb.containers {
		c := &rb.containers[k]
		if remaining >= c.cardinality() {
			remaining -= c.cardinality()
			continue
		}

		lo, _ := c.selectAt(remaining)
		return uint32(rb.index[k])<<16 | uint32(lo), nil
	}

	return 0, errors.Wrapf(ErrIndexOutOfRange, "select %d of %d", i, i-remaining)
}

// At returns the value at position i, where a negative position counts from the
// end so that At(-1) is the largest value.
func (rb *Bitmap) At(i int) (uint32, error) {
	if i >= 0 {
		return rb.Select(i)
	}

	n := rb.Count()
	if -i > n {
		return 0, errors.Wrapf(ErrIndexOutOfRange, "at %d of %d", i, n)
	}
	return rb.Select(n + i)
}
