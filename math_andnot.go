package roaring

// ctrAndNot computes the values of c1 which are not in c2 into a new container
func ctrAndNot(c1, c2 *container) container {
	switch c1.Type {
	case typeArray:
		switch c2.Type {
		case typeArray:
			return arrAndNotArr(c1, c2)
		case typeBitmap:
			return arrAndNotBmp(c1, c2)
		case typeRun:
			return arrAndNotRun(c1, c2)
		}
	case typeBitmap:
		switch c2.Type {
		case typeArray:
			return bmpAndNotArr(c1, c2)
		case typeBitmap:
			return bmpAndNotBmp(c1, c2)
		case typeRun:
			return bmpAndNotRun(c1, c2)
		}
	case typeRun:
		switch c2.Type {
		case typeArray:
			return runAndNotArr(c1, c2)
		case typeBitmap:
			return runAndNotBmp(c1, c2)
		case typeRun:
			return fromRuns(subtractRuns(c1.Data, c2.Data))
		}
	}
	return container{}
}

// arrAndNotArr performs AND NOT between two array containers
func arrAndNotArr(c1, c2 *container) container {
	a, b := c1.Data, c2.Data
	out := make([]uint16, 0, len(a))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		av, bv := a[i], b[j]
		switch {
		case av == bv:
			i++
			j++
		case av < bv:
			out = append(out, av)
			i++
		default:
			j++
		}
	}

	out = append(out, a[i:]...)
	return container{Type: typeArray, Size: uint32(len(out)), Data: out}
}

// arrAndNotBmp performs AND NOT between array and bitmap containers
func arrAndNotBmp(c1, c2 *container) container {
	b := c2.bmp()
	out := make([]uint16, 0, len(c1.Data))
	for _, v := range c1.Data {
		if !b.Contains(uint32(v)) {
			out = append(out, v)
		}
	}

	return container{Type: typeArray, Size: uint32(len(out)), Data: out}
}

// arrAndNotRun performs AND NOT between array and run containers
func arrAndNotRun(c1, c2 *container) container {
	a, b := c1.Data, c2.Data
	out := make([]uint16, 0, len(a))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		v := a[i]
		switch {
		case v < b[j]:
			out = append(out, v)
			i++
		case v > b[j+1]:
			j += 2
		default:
			i++
		}
	}

	out = append(out, a[i:]...)
	return container{Type: typeArray, Size: uint32(len(out)), Data: out}
}

// bmpAndNotArr performs AND NOT between bitmap and array containers
func bmpAndNotArr(c1, c2 *container) container {
	out := c1.clone()
	dst := out.bmp()
	for _, v := range c2.Data {
		if word, bit := &dst[v>>6], uint64(1)<<(v&63); *word&bit != 0 {
			*word &^= bit
			out.Size--
		}
	}

	out.normalize()
	return out
}

// bmpAndNotBmp performs AND NOT between two bitmap containers
func bmpAndNotBmp(c1, c2 *container) container {
	out := c1.clone()
	dst := out.bmp()
	dst.AndNot(c2.bmp())
	out.bmpCount()
	out.normalize()
	return out
}

// bmpAndNotRun performs AND NOT between bitmap and run containers
func bmpAndNotRun(c1, c2 *container) container {
	out := c1.clone()
	dst := out.bmp()
	for i := 0; i < len(c2.Data); i += 2 {
		clearRange(dst, uint32(c2.Data[i]), uint32(c2.Data[i+1]))
	}

	out.bmpCount()
	out.normalize()
	return out
}

// runAndNotArr performs AND NOT between run and array containers
func runAndNotArr(c1, c2 *container) container {
	scratch := arrIntervals(c2.Data, borrowArray())
	out := fromRuns(subtractRuns(c1.Data, scratch))
	release(scratch)
	return out
}

// runAndNotBmp performs AND NOT between run and bitmap containers
func runAndNotBmp(c1, c2 *container) container {
	if c1.Size <= arrMaxSize {
		b := c2.bmp()
		out := make([]uint16, 0, c1.Size)
		c1.iterate(0, func(v uint32) bool {
			if !b.Contains(v) {
				out = append(out, uint16(v))
			}
			return true
		})
		return container{Type: typeArray, Size: uint32(len(out)), Data: out}
	}

	out := c1.clone()
	out.runToBmp()
	dst := out.bmp()
	dst.AndNot(c2.bmp())
	out.bmpCount()
	out.normalize()
	return out
}

// subtractRuns removes the runs of b from the runs of a
func subtractRuns(a, b []uint16) []uint16 {
	out := make([]uint16, 0, len(a)+len(b))
	j := 0
	for i := 0; i < len(a); i += 2 {
		s, e := uint32(a[i]), uint32(a[i+1])
		for j < len(b) && uint32(b[j+1]) < s {
			j += 2
		}

		for k := j; k < len(b) && uint32(b[k]) <= e && s <= e; k += 2 {
			if bs := uint32(b[k]); bs > s {
				out = append(out, uint16(s), uint16(bs-1))
			}
			s = max(s, uint32(b[k+1])+1)
		}

		if s <= e {
			out = append(out, uint16(s), uint16(e))
		}
	}
	return out
}
