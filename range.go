package roaring

import (
	"github.com/pkg/errors"
)

// FromRange creates a bitmap with the values start, start+step, start+2*step and
// so on, up to but excluding stop. Consecutive values are stored as runs directly.
func FromRange(start, stop, step int) (*Bitmap, error) {
	switch {
	case start < 0 || stop < 0 || step < 0:
		return nil, errors.Wrapf(ErrInvalidArgument, "range(%d, %d, %d) has a negative argument", start, stop, step)
	case step == 0:
		return nil, errors.Wrapf(ErrInvalidArgument, "range(%d, %d, %d) has a zero step", start, stop, step)
	case uint64(stop) > 1<<32:
		return nil, errors.Wrapf(ErrInvalidArgument, "range(%d, %d, %d) stops beyond 2^32", start, stop, step)
	}

	rb := &Bitmap{}
	if start >= stop {
		return rb, nil
	}

	if step == 1 {
		rb.fill(uint64(start), uint64(stop)-1)
		return rb, nil
	}

	for v := uint64(start); v < uint64(stop); v += uint64(step) {
		rb.Set(uint32(v))
	}
	return rb, nil
}

// fill appends the inclusive range [lo, hi] to an empty bitmap, one run per key
func (rb *Bitmap) fill(lo, hi uint64) {
	for key := lo >> 16; key <= hi>>16; key++ {
		base := key << 16
		start := max(lo, base) - base
		end := min(hi, base|0xFFFF) - base
		rb.ctrPush(uint16(key), fromRuns([]uint16{uint16(start), uint16(end)}))
	}
}
