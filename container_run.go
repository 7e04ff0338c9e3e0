package roaring

// runCount returns the number of runs in a run container
func (c *container) runCount() int {
	return len(c.Data) >> 1
}

// runFind locates the run containing the value. When the value is not covered
// by any run, the returned index is the position where a new run would go.
func (c *container) runFind(value uint16) (int, bool) {
	n := c.runCount()
	switch {
	case n == 0 || value < c.Data[0]:
		return 0, false
	case value > c.Data[(n-1)*2+1]:
		return n, false
	}

	// binary phase: shrink window to a handful of runs
	lo, hi := 0, n
	for hi-lo > 4 {
		mid := (lo + hi) >> 1
		switch {
		case value < c.Data[mid*2]:
			hi = mid
		case value <= c.Data[mid*2+1]:
			return mid, true
		default:
			lo = mid + 1
		}
	}

	// linear phase inside one cache line
	for i := lo; i < hi; i++ {
		switch {
		case value < c.Data[i*2]:
			return i, false
		case value <= c.Data[i*2+1]:
			return i, true
		}
	}
	return hi, false
}

// runSet sets a value in a run container, extending or merging neighbouring runs
func (c *container) runSet(value uint16) bool {
	idx, found := c.runFind(value)
	if found {
		return false
	}

	n := c.runCount()
	mergeLeft := idx > 0 && uint32(c.Data[(idx-1)*2+1])+1 == uint32(value)
	mergeRight := idx < n && uint32(c.Data[idx*2]) == uint32(value)+1

	switch {
	case mergeLeft && mergeRight:
		c.Data[(idx-1)*2+1] = c.Data[idx*2+1]
		c.runRemoveAt(idx)
	case mergeLeft:
		c.Data[(idx-1)*2+1] = value
	case mergeRight:
		c.Data[idx*2] = value
	default:
		c.runInsertAt(idx, value, value)
	}

	c.Size++
	return true
}

// runDel removes a value from a run container, shrinking or splitting its run
func (c *container) runDel(value uint16) bool {
	idx, found := c.runFind(value)
	if !found {
		return false
	}

	start, end := c.Data[idx*2], c.Data[idx*2+1]
	switch {
	case start == end:
		c.runRemoveAt(idx)
	case value == start:
		c.Data[idx*2] = value + 1
	case value == end:
		c.Data[idx*2+1] = value - 1
	default:
		c.Data[idx*2+1] = value - 1
		c.runInsertAt(idx+1, value+1, end)
	}

	c.Size--
	return true
}

// runHas checks if a value exists in a run container
func (c *container) runHas(value uint16) bool {
	_, found := c.runFind(value)
	return found
}

// runRank returns the number of values smaller or equal to the value
func (c *container) runRank(value uint16) int {
	rank := 0
	for i := 0; i < len(c.Data); i += 2 {
		start, end := c.Data[i], c.Data[i+1]
		switch {
		case value > end:
			rank += int(end-start) + 1
		case value >= start:
			return rank + int(value-start) + 1
		default:
			return rank
		}
	}
	return rank
}

// runSelect returns the i-th value covered by the runs
func (c *container) runSelect(i int) (uint16, bool) {
	for k := 0; k < len(c.Data); k += 2 {
		length := int(c.Data[k+1]-c.Data[k]) + 1
		if i < length {
			return c.Data[k] + uint16(i), true
		}
		i -= length
	}
	return 0, false
}

// runNextFrom returns the first covered value at or after low
func (c *container) runNextFrom(low uint16) (uint16, bool) {
	idx, found := c.runFind(low)
	switch {
	case found:
		return low, true
	case idx < c.runCount():
		return c.Data[idx*2], true
	default:
		return 0, false
	}
}

// runInsertAt inserts a new run at the specified index
func (c *container) runInsertAt(index int, start, end uint16) {
	n := c.runCount()
	c.Data = append(c.Data, 0, 0)
	if index < n {
		copy(c.Data[(index+1)*2:], c.Data[index*2:n*2])
	}

	c.Data[index*2] = start
	c.Data[index*2+1] = end
}

// runRemoveAt removes the run at the specified index
func (c *container) runRemoveAt(index int) {
	copy(c.Data[index*2:], c.Data[(index+1)*2:])
	c.Data = c.Data[:len(c.Data)-2]
}

// runCardinality sums up the lengths of the runs
func runCardinality(runs []uint16) uint32 {
	size := uint32(0)
	for i := 0; i < len(runs); i += 2 {
		size += uint32(runs[i+1]-runs[i]) + 1
	}
	return size
}

// runToArr converts this container from run to array
func (c *container) runToArr() {
	out := make([]uint16, 0, c.Size)
	for i := 0; i < len(c.Data); i += 2 {
		start, end := uint32(c.Data[i]), uint32(c.Data[i+1])
		for v := start; v <= end; v++ {
			out = append(out, uint16(v))
		}
	}

	c.Data = out
	c.Type = typeArray
}

// runToBmp converts this container from run to bitmap
func (c *container) runToBmp() {
	runs := c.Data
	c.Data = make([]uint16, bmpLen)
	c.Type = typeBitmap

	dst := c.bmp()
	for i := 0; i < len(runs); i += 2 {
		setRange(dst, uint32(runs[i]), uint32(runs[i+1]))
	}
}
