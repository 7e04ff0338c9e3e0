package roaring

import (
	"iter"
)

// Iterator walks the values of a bitmap in ascending order. The bitmap must
// not be modified while an iterator is in use, doing so leads to undefined results.
type Iterator struct {
	rb    *Bitmap
	pos   int    // position of the current container
	low   uint32 // smallest low bits still to visit in the current container
	value uint32 // next value to return
	valid bool   // whether value holds a value
}

// Iterator returns an iterator positioned on the smallest value of the bitmap
func (rb *Bitmap) Iterator() *Iterator {
	it := &Iterator{rb: rb}
	it.seek()
	return it
}

// HasNext returns true if there are more values to iterate over
func (it *Iterator) HasNext() bool {
	return it.valid
}

// Next returns the current value and advances the iterator. It returns zero
// once the iterator is exhausted.
func (it *Iterator) Next() uint32 {
	if !it.valid {
		return 0
	}

	out := it.value
	it.low = (out & 0xFFFF) + 1
	it.seek()
	return out
}

// AdvanceIfNeeded moves the iterator forward to the first value that is greater
// or equal to min. It never moves the iterator backwards.
func (it *Iterator) AdvanceIfNeeded(min uint32) {
	if !it.valid || it.value >= min {
		return
	}

	hi := uint16(min >> 16)
	for it.pos < len(it.rb.index) && it.rb.index[it.pos] < hi {
		it.pos++
		it.low = 0
	}

	if it.pos < len(it.rb.index) && it.rb.index[it.pos] == hi {
		it.low = min & 0xFFFF
	}
	it.seek()
}

// Clone returns an independent copy of the iterator, at the same position
func (it *Iterator) Clone() *Iterator {
	clone := *it
	return &clone
}

// seek finds the first value at or after the current position
func (it *Iterator) seek() {
	for ; it.pos < len(it.rb.containers); it.pos, it.low = it.pos+1, 0 {
		if lo, ok := it.rb.containers[it.pos].nextFrom(it.low); ok {
			it.value = uint32(it.rb.index[it.pos])<<16 | uint32(lo)
			it.valid = true
			return
		}
	}

	it.valid = false
}

// Values returns a sequence of all the values of the bitmap, in ascending order
func (rb *Bitmap) Values() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		for i := range rb.containers {
			if !rb.containers[i].iterate(uint32(rb.index[i])<<16, yield) {
				return
			}
		}
	}
}

// Range calls the given function for each value in the bitmap
func (rb *Bitmap) Range(fn func(x uint32)) {
	for i := range rb.containers {
		c, base := &rb.containers[i], uint32(rb.index[i])<<16
		switch c.Type {
		case typeBitmap:
			c.bmp().Range(func(value uint32) {
				fn(base | value)
			})
		default:
			c.iterate(base, func(value uint32) bool {
				fn(value)
				return true
			})
		}
	}
}

// Filter iterates over the bitmap elements and calls a predicate provided for each
// containing element. If the predicate returns false, the element is removed.
func (rb *Bitmap) Filter(f func(x uint32) bool) {
	var remove []uint32
	rb.Range(func(x uint32) {
		if !f(x) {
			remove = append(remove, x)
		}
	})

	for _, x := range remove {
		rb.Remove(x)
	}
}
