package roaring

import (
	"math/bits"
	"slices"
)

const (
	arrMaxSize = 4096 // largest cardinality kept as an array
	bmpWords   = 1024 // 65536 bits as uint64 words
	bmpLen     = 4096 // 65536 bits as uint16 slots
	runMaxSize = 2047 // beyond this many runs a bitmap is always smaller
)

type ctype byte

const (
	typeArray ctype = iota
	typeBitmap
	typeRun
)

// String returns the name of the container type
func (t ctype) String() string {
	switch t {
	case typeArray:
		return "array"
	case typeBitmap:
		return "bitmap"
	case typeRun:
		return "run"
	default:
		return "unknown"
	}
}

// container holds up to 65536 values sharing the same high 16 bits. Data is
// interpreted according to Type: sorted values for arrays, 4096 slots viewed as
// 1024 words for bitmaps and flattened inclusive [start, end] pairs for runs.
type container struct {
	Type ctype  // Type of the container
	Size uint32 // Cardinality
	Data []uint16
}

// newArrContainer creates an empty array container with some room to grow
func newArrContainer(capacity int) container {
	return container{Type: typeArray, Data: make([]uint16, 0, capacity)}
}

// newBmpContainer creates an empty bitmap container
func newBmpContainer() container {
	return container{Type: typeBitmap, Data: make([]uint16, bmpLen)}
}

// set sets a value in the container and returns true if the value was added
func (c *container) set(value uint16) (ok bool) {
	switch c.Type {
	case typeArray:
		if ok = c.arrSet(value); ok && c.Size > arrMaxSize {
			c.arrToBmp()
		}
	case typeBitmap:
		ok = c.bmpSet(value)
	case typeRun:
		if ok = c.runSet(value); ok && c.runCount() > runMaxSize {
			c.runToBmp()
		}
	}
	return
}

// remove removes a value from the container and returns true if the value was removed.
// Containers are never downgraded here, only Optimize picks a smaller representation.
func (c *container) remove(value uint16) (ok bool) {
	switch c.Type {
	case typeArray:
		ok = c.arrDel(value)
	case typeBitmap:
		ok = c.bmpDel(value)
	case typeRun:
		if ok = c.runDel(value); ok && c.runCount() > runMaxSize {
			c.runToBmp()
		}
	}
	return
}

// contains checks if a value exists in the container
func (c *container) contains(value uint16) bool {
	switch c.Type {
	case typeArray:
		return c.arrHas(value)
	case typeBitmap:
		return c.bmpHas(value)
	case typeRun:
		return c.runHas(value)
	}
	return false
}

// cardinality returns the number of elements in the container
func (c *container) cardinality() int {
	return int(c.Size)
}

// isEmpty returns true if the container has no elements
func (c *container) isEmpty() bool {
	return c.Size == 0
}

// min returns the smallest value of the container
func (c *container) min() (uint16, bool) {
	if c.Size == 0 {
		return 0, false
	}

	switch c.Type {
	case typeArray, typeRun:
		return c.Data[0], true
	default:
		bm := c.bmp()
		v, ok := bm.Min()
		return uint16(v), ok
	}
}

// max returns the largest value of the container
func (c *container) max() (uint16, bool) {
	if c.Size == 0 {
		return 0, false
	}

	switch c.Type {
	case typeArray, typeRun:
		return c.Data[len(c.Data)-1], true
	default:
		bm := c.bmp()
		v, ok := bm.Max()
		return uint16(v), ok
	}
}

// rank returns the number of values smaller or equal to the given value
func (c *container) rank(value uint16) int {
	switch c.Type {
	case typeArray:
		return c.arrRank(value)
	case typeBitmap:
		return c.bmpRank(value)
	case typeRun:
		return c.runRank(value)
	}
	return 0
}

// selectAt returns the value at the given zero-based position
func (c *container) selectAt(i int) (uint16, bool) {
	if i < 0 || i >= int(c.Size) {
		return 0, false
	}

	switch c.Type {
	case typeArray:
		return c.Data[i], true
	case typeBitmap:
		return c.bmpSelect(i)
	case typeRun:
		return c.runSelect(i)
	}
	return 0, false
}

// nextFrom returns the smallest value greater or equal to low. The argument is
// wider than 16 bits so that callers can step past 65535 without overflowing.
func (c *container) nextFrom(low uint32) (uint16, bool) {
	if low > 0xFFFF {
		return 0, false
	}

	switch c.Type {
	case typeArray:
		return c.arrNextFrom(uint16(low))
	case typeBitmap:
		return c.bmpNextFrom(uint16(low))
	case typeRun:
		return c.runNextFrom(uint16(low))
	}
	return 0, false
}

// iterate calls fn for every value of the container, combined with the base
// high bits. It stops and returns false as soon as fn returns false.
func (c *container) iterate(base uint32, fn func(uint32) bool) bool {
	switch c.Type {
	case typeArray:
		for _, v := range c.Data {
			if !fn(base | uint32(v)) {
				return false
			}
		}

	case typeBitmap:
		for i, word := range c.bmp() {
			for word != 0 {
				bit := uint32(bits.TrailingZeros64(word))
				if !fn(base | uint32(i)<<6 | bit) {
					return false
				}
				word &= word - 1
			}
		}

	case typeRun:
		for i := 0; i < len(c.Data); i += 2 {
			start, end := uint32(c.Data[i]), uint32(c.Data[i+1])
			for v := start; v <= end; v++ {
				if !fn(base | v) {
					return false
				}
			}
		}
	}
	return true
}

// clone returns a deep copy of the container
func (c *container) clone() container {
	data := make([]uint16, len(c.Data))
	copy(data, c.Data)
	return container{
		Type: c.Type,
		Size: c.Size,
		Data: data,
	}
}

// numRuns returns the number of runs of consecutive values in the container
func (c *container) numRuns() int {
	switch c.Type {
	case typeArray:
		return c.arrNumRuns()
	case typeBitmap:
		return c.bmpNumRuns()
	case typeRun:
		return c.runCount()
	}
	return 0
}

// sizeInBytes returns the size of the container in the portable format
func (c *container) sizeInBytes() int {
	switch {
	case c.Type == typeRun:
		return 2 + 4*c.runCount()
	case c.Size <= arrMaxSize:
		return 2 * int(c.Size)
	default:
		return 2 * bmpLen
	}
}

// optimize converts the container to the representation with the smallest
// portable size and returns the resulting type.
func (c *container) optimize() ctype {
	if c.Size == 0 {
		return c.Type
	}

	best, size := typeBitmap, 2*bmpLen
	if c.Size <= arrMaxSize {
		best, size = typeArray, 2*int(c.Size)
	}

	if runs := c.numRuns(); 2+4*runs < size {
		best = typeRun
	}

	switch best {
	case typeArray:
		c.toArr()
	case typeBitmap:
		c.toBmp()
	case typeRun:
		c.toRun()
	}
	return best
}

// normalize fixes up the result of a set operation so that small bitmaps become
// arrays, large arrays become bitmaps and runs with too many intervals become bitmaps.
func (c *container) normalize() {
	switch c.Type {
	case typeArray:
		if c.Size > arrMaxSize {
			c.arrToBmp()
		}
	case typeBitmap:
		if c.Size <= arrMaxSize {
			c.bmpToArr()
		}
	case typeRun:
		if c.runCount() > runMaxSize {
			c.runToBmp()
		}
	}
}

// toArr converts the container to an array, regardless of its size
func (c *container) toArr() {
	switch c.Type {
	case typeBitmap:
		c.bmpToArr()
	case typeRun:
		c.runToArr()
	}
}

// toBmp converts the container to a bitmap
func (c *container) toBmp() {
	switch c.Type {
	case typeArray:
		c.arrToBmp()
	case typeRun:
		c.runToBmp()
	}
}

// toRun converts the container to a run container
func (c *container) toRun() {
	switch c.Type {
	case typeArray:
		c.arrToRun()
	case typeBitmap:
		c.bmpToRun()
	}
}

// equals checks whether two containers hold exactly the same values
func (c *container) equals(other *container) bool {
	if c.Size != other.Size {
		return false
	}

	if c.Type == other.Type {
		switch c.Type {
		case typeArray, typeRun:
			return slices.Equal(c.Data, other.Data)
		case typeBitmap:
			return slices.Equal(c.Data[:bmpLen], other.Data[:bmpLen])
		}
	}

	return ctrAndCount(c, other) == int(c.Size)
}
