package roaring

import (
	"math/bits"

	"github.com/kelindar/bitmap"
)

// bmp returns the container data viewed as a fixed 1024-word bitmap
func (c *container) bmp() bitmap.Bitmap {
	return asBitmap(c.Data[:bmpLen])
}

// bmpSet sets a value in a bitmap container
func (c *container) bmpSet(value uint16) bool {
	bm := c.bmp()
	if bm.Contains(uint32(value)) {
		return false
	}

	bm.Set(uint32(value))
	c.Size++
	return true
}

// bmpDel removes a value from a bitmap container
func (c *container) bmpDel(value uint16) bool {
	bm := c.bmp()
	if !bm.Contains(uint32(value)) {
		return false
	}

	bm.Remove(uint32(value))
	c.Size--
	return true
}

// bmpHas checks if a value exists in a bitmap container
func (c *container) bmpHas(value uint16) bool {
	return c.bmp().Contains(uint32(value))
}

// bmpRank returns the number of set bits up to and including the value
func (c *container) bmpRank(value uint16) int {
	words := c.bmp()
	w := int(value >> 6)

	count := 0
	for _, word := range words[:w] {
		count += bits.OnesCount64(word)
	}

	mask := (uint64(2) << (value & 63)) - 1
	return count + bits.OnesCount64(words[w]&mask)
}

// bmpSelect returns the i-th set bit of the bitmap
func (c *container) bmpSelect(i int) (uint16, bool) {
	for w, word := range c.bmp() {
		n := bits.OnesCount64(word)
		if i >= n {
			i -= n
			continue
		}

		for ; i > 0; i-- {
			word &= word - 1
		}
		return uint16(w<<6 | bits.TrailingZeros64(word)), true
	}
	return 0, false
}

// bmpNextFrom returns the first set bit at or after low
func (c *container) bmpNextFrom(low uint16) (uint16, bool) {
	words := c.bmp()
	w := int(low >> 6)
	word := words[w] & (^uint64(0) << (low & 63))
	for word == 0 {
		if w++; w >= bmpWords {
			return 0, false
		}
		word = words[w]
	}
	return uint16(w<<6 | bits.TrailingZeros64(word)), true
}

// bmpCount recomputes the cardinality of the bitmap
func (c *container) bmpCount() {
	c.Size = uint32(c.bmp().Count())
}

// bmpNumRuns counts runs by counting the bits which start a run, that is the set
// bits whose preceding bit is not set.
func (c *container) bmpNumRuns() int {
	var carry uint64
	runs := 0
	for _, word := range c.bmp() {
		runs += bits.OnesCount64(word &^ (word<<1 | carry))
		carry = word >> 63
	}
	return runs
}

// bmpToArr converts this container from bitmap to array
func (c *container) bmpToArr() {
	out := make([]uint16, 0, c.Size)
	c.iterate(0, func(v uint32) bool {
		out = append(out, uint16(v))
		return true
	})

	c.Data = out
	c.Type = typeArray
	c.Size = uint32(len(out))
}

// bmpToRun converts this container from bitmap to run
func (c *container) bmpToRun() {
	runs := make([]uint16, 0, 2*c.bmpNumRuns())
	c.iterate(0, func(v uint32) bool {
		if n := len(runs); n > 0 && uint32(runs[n-1])+1 == v {
			runs[n-1] = uint16(v)
			return true
		}

		runs = append(runs, uint16(v), uint16(v))
		return true
	})

	c.Data = runs
	c.Type = typeRun
}

// ---------------------------------------- Word Ranges ----------------------------------------

// forRange calls fn for every word overlapping the inclusive range [start, end],
// along with the mask of the bits of that word which fall into the range.
func forRange(start, end uint32, fn func(i int, mask uint64)) {
	first, last := int(start>>6), int(end>>6)
	lo := ^uint64(0) << (start & 63)
	hi := ^uint64(0) >> (63 - end&63)
	if first == last {
		fn(first, lo&hi)
		return
	}

	fn(first, lo)
	for i := first + 1; i < last; i++ {
		fn(i, ^uint64(0))
	}
	fn(last, hi)
}

// setRange sets all of the bits in [start, end]
func setRange(words bitmap.Bitmap, start, end uint32) {
	forRange(start, end, func(i int, mask uint64) {
		words[i] |= mask
	})
}

// clearRange clears all of the bits in [start, end]
func clearRange(words bitmap.Bitmap, start, end uint32) {
	forRange(start, end, func(i int, mask uint64) {
		words[i] &^= mask
	})
}

// flipRange inverts all of the bits in [start, end]
func flipRange(words bitmap.Bitmap, start, end uint32) {
	forRange(start, end, func(i int, mask uint64) {
		words[i] ^= mask
	})
}

// countRange counts the set bits in [start, end]
func countRange(words bitmap.Bitmap, start, end uint32) (count int) {
	forRange(start, end, func(i int, mask uint64) {
		count += bits.OnesCount64(words[i] & mask)
	})
	return
}
