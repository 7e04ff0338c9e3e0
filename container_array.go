package roaring

import (
	"sort"
)

// arrFind returns the position of the first element greater or equal to value
func (c *container) arrFind(value uint16) (int, bool) {
	array := c.Data
	i := sort.Search(len(array), func(i int) bool {
		return array[i] >= value
	})
	return i, i < len(array) && array[i] == value
}

// arrSet sets a value in an array container
func (c *container) arrSet(value uint16) bool {
	n := len(c.Data)
	switch {
	case n == 0 || c.Data[n-1] < value:
		c.Data = append(c.Data, value)
		c.Size++
		return true
	case c.Data[n-1] == value:
		return false
	}

	i, found := c.arrFind(value)
	if found {
		return false
	}

	c.Data = append(c.Data, 0)
	copy(c.Data[i+1:], c.Data[i:])
	c.Data[i] = value
	c.Size++
	return true
}

// arrDel removes a value from an array container
func (c *container) arrDel(value uint16) bool {
	i, found := c.arrFind(value)
	if !found {
		return false
	}

	copy(c.Data[i:], c.Data[i+1:])
	c.Data = c.Data[:len(c.Data)-1]
	c.Size--
	return true
}

// arrHas checks if a value exists in an array container
func (c *container) arrHas(value uint16) bool {
	_, found := c.arrFind(value)
	return found
}

// arrRank returns the number of elements smaller or equal to the value
func (c *container) arrRank(value uint16) int {
	i, found := c.arrFind(value)
	if found {
		return i + 1
	}
	return i
}

// arrNextFrom returns the first element greater or equal to low
func (c *container) arrNextFrom(low uint16) (uint16, bool) {
	if i, _ := c.arrFind(low); i < len(c.Data) {
		return c.Data[i], true
	}
	return 0, false
}

// arrNumRuns counts the runs of consecutive values in the array
func (c *container) arrNumRuns() int {
	array := c.Data
	if len(array) == 0 {
		return 0
	}

	runs := 1
	for i := 1; i < len(array); i++ {
		if array[i] != array[i-1]+1 {
			runs++
		}
	}
	return runs
}

// arrToBmp converts this container from array to bitmap
func (c *container) arrToBmp() {
	array := c.Data
	c.Data = make([]uint16, bmpLen)
	c.Type = typeBitmap

	dst := c.bmp()
	for _, v := range array {
		dst[v>>6] |= 1 << (v & 63)
	}
	c.Size = uint32(len(array))
}

// arrToRun converts this container from array to run
func (c *container) arrToRun() {
	c.Data = arrIntervals(c.Data, make([]uint16, 0, 2*c.arrNumRuns()))
	c.Type = typeRun
}

// arrIntervals appends the array as a list of coalesced [start, end] pairs
func arrIntervals(array, dst []uint16) []uint16 {
	if len(array) == 0 {
		return dst
	}

	start, end := array[0], array[0]
	for _, v := range array[1:] {
		if v == end+1 {
			end = v
			continue
		}

		dst = append(dst, start, end)
		start, end = v, v
	}
	return append(dst, start, end)
}
