package roaring

// Statistics describes how the values of a bitmap are spread across containers
type Statistics struct {
	Containers       int    // Number of containers
	ArrayContainers  int    // Number of array containers
	BitmapContainers int    // Number of bitmap containers
	RunContainers    int    // Number of run containers
	ArrayValues      int    // Number of values held in array containers
	BitmapValues     int    // Number of values held in bitmap containers
	RunValues        int    // Number of values held in run containers
	ArrayBytes       int    // Bytes allocated for array containers
	BitmapBytes      int    // Bytes allocated for bitmap containers
	RunBytes         int    // Bytes allocated for run containers
	MinValue         uint32 // Smallest value, zero if empty
	MaxValue         uint32 // Largest value, zero if empty
	SumValue         uint64 // Sum of all of the values
	Cardinality      int    // Number of values
}

// Stats collects statistics about the containers of the bitmap
func (rb *Bitmap) Stats() (out Statistics) {
	out.Containers = len(rb.containers)
	for i := range rb.containers {
		c := &rb.containers[i]
		size, bytes := c.cardinality(), 2*cap(c.Data)
		switch c.Type {
		case typeArray:
			out.ArrayContainers++
			out.ArrayValues += size
			out.ArrayBytes += bytes
		case typeBitmap:
			out.BitmapContainers++
			out.BitmapValues += size
			out.BitmapBytes += bytes
		case typeRun:
			out.RunContainers++
			out.RunValues += size
			out.RunBytes += bytes
		}

		out.Cardinality += size
		c.iterate(uint32(rb.index[i])<<16, func(v uint32) bool {
			out.SumValue += uint64(v)
			return true
		})
	}

	out.MinValue, _ = rb.Min()
	out.MaxValue, _ = rb.Max()
	return
}
