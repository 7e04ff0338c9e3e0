// Package roaring implements a compressed set of uint32 values, split into
// containers of 65536 values which are kept either as sorted arrays, bitsets or
// runs of consecutive values, whichever suits the data best.
//
// A Bitmap is not safe for concurrent mutation. Read-only methods may be called
// concurrently as long as no goroutine modifies the same bitmap at the same time.
package roaring

// Bitmap represents a roaring bitmap for uint32 values. Keys are kept sorted in
// the index, and containers[i] holds the values whose high bits equal index[i].
type Bitmap struct {
	containers []container
	index      []uint16
}

// New creates a new roaring bitmap containing the given values
func New(values ...uint32) *Bitmap {
	rb := &Bitmap{}
	for _, v := range values {
		rb.Set(v)
	}
	return rb
}

// ctrFind finds the position of the container for the given high bits
func (rb *Bitmap) ctrFind(hi uint16) (int, bool) {
	return find16(rb.index, hi)
}

// ctrAdd inserts a container with the given key at the given position
func (rb *Bitmap) ctrAdd(hi uint16, pos int, c container) {
	rb.index = append(rb.index, 0)
	rb.containers = append(rb.containers, container{})
	if pos < len(rb.index)-1 {
		copy(rb.index[pos+1:], rb.index[pos:])
		copy(rb.containers[pos+1:], rb.containers[pos:])
	}

	rb.index[pos] = hi
	rb.containers[pos] = c
}

// ctrDel removes the container at the given position
func (rb *Bitmap) ctrDel(pos int) {
	copy(rb.index[pos:], rb.index[pos+1:])
	copy(rb.containers[pos:], rb.containers[pos+1:])

	last := len(rb.index) - 1
	rb.containers[last] = container{}
	rb.index = rb.index[:last]
	rb.containers = rb.containers[:last]
}

// ctrPush appends a container which must have a key larger than any existing one
func (rb *Bitmap) ctrPush(hi uint16, c container) {
	rb.index = append(rb.index, hi)
	rb.containers = append(rb.containers, c)
}

// Set sets the bit x in the bitmap and returns true if it was not set before.
func (rb *Bitmap) Set(x uint32) bool {
	hi, lo := uint16(x>>16), uint16(x&0xFFFF)
	i, exists := rb.ctrFind(hi)
	if !exists {
		rb.ctrAdd(hi, i, newArrContainer(4))
	}

	return rb.containers[i].set(lo)
}

// Remove removes the bit x from the bitmap and returns true if it was set.
// A container which becomes empty is dropped immediately.
func (rb *Bitmap) Remove(x uint32) bool {
	hi, lo := uint16(x>>16), uint16(x&0xFFFF)
	i, exists := rb.ctrFind(hi)
	if !exists || !rb.containers[i].remove(lo) {
		return false
	}

	if rb.containers[i].isEmpty() {
		rb.ctrDel(i)
	}
	return true
}

// Contains checks whether a value is contained in the bitmap or not.
func (rb *Bitmap) Contains(x uint32) bool {
	hi, lo := uint16(x>>16), uint16(x&0xFFFF)
	i, exists := rb.ctrFind(hi)
	if !exists {
		return false
	}

	return rb.containers[i].contains(lo)
}

// Count returns the total number of bits set to 1 in the bitmap
func (rb *Bitmap) Count() int {
	count := 0
	for i := range rb.containers {
		count += rb.containers[i].cardinality()
	}
	return count
}

// IsEmpty returns true if the bitmap has no values
func (rb *Bitmap) IsEmpty() bool {
	return len(rb.containers) == 0
}

// Clear clears the bitmap and releases all of its containers.
func (rb *Bitmap) Clear() {
	clear(rb.containers)
	rb.containers = rb.containers[:0]
	rb.index = rb.index[:0]
}

// Clone deep-copies the bitmap into the destination, or into a new bitmap if
// the destination is nil. No container memory is shared with the source.
func (rb *Bitmap) Clone(into *Bitmap) *Bitmap {
	if into == nil {
		into = &Bitmap{}
	}

	if into == rb {
		return into
	}

	into.Clear()
	into.index = append(into.index, rb.index...)
	for i := range rb.containers {
		into.containers = append(into.containers, rb.containers[i].clone())
	}
	return into
}

// Optimize converts every container to its most compact representation, which
// may be a run container, and returns true if any run container remains.
// This can significantly reduce memory usage, especially after bulk operations.
func (rb *Bitmap) Optimize() (hasRuns bool) {
	for i := range rb.containers {
		if rb.containers[i].optimize() == typeRun {
			hasRuns = true
		}
	}
	return
}

// ShrinkToFit releases spare capacity held by the containers and the index,
// and returns the number of bytes saved.
func (rb *Bitmap) ShrinkToFit() int {
	saved := 0
	for i := range rb.containers {
		c := &rb.containers[i]
		if spare := cap(c.Data) - len(c.Data); spare > 0 {
			saved += 2 * spare
			c.Data = append(make([]uint16, 0, len(c.Data)), c.Data...)
		}
	}

	if spare := cap(rb.index) - len(rb.index); spare > 0 {
		saved += 2 * spare
		rb.index = append(make([]uint16, 0, len(rb.index)), rb.index...)
	}

	if spare := cap(rb.containers) - len(rb.containers); spare > 0 {
		rb.containers = append(make([]container, 0, len(rb.containers)), rb.containers...)
	}
	return saved
}

// Min returns the smallest value in the bitmap, or false if it is empty
func (rb *Bitmap) Min() (uint32, bool) {
	if len(rb.containers) == 0 {
		return 0, false
	}

	lo, ok := rb.containers[0].min()
	return uint32(rb.index[0])<<16 | uint32(lo), ok
}

// Max returns the largest value in the bitmap, or false if it is empty
func (rb *Bitmap) Max() (uint32, bool) {
	n := len(rb.containers)
	if n == 0 {
		return 0, false
	}

	lo, ok := rb.containers[n-1].max()
	return uint32(rb.index[n-1])<<16 | uint32(lo), ok
}
