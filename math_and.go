// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root

package roaring

// ctrAnd computes the intersection of two containers into a new container
func ctrAnd(c1, c2 *container) container {
	switch c1.Type {
	case typeArray:
		switch c2.Type {
		case typeArray:
			return arrAndArr(c1, c2)
		case typeBitmap:
			return arrAndBmp(c1, c2)
		case typeRun:
			return arrAndRun(c1, c2)
		}
	case typeBitmap:
		switch c2.Type {
		case typeArray:
			return arrAndBmp(c2, c1)
		case typeBitmap:
			return bmpAndBmp(c1, c2)
		case typeRun:
			return bmpAndRun(c1, c2)
		}
	case typeRun:
		switch c2.Type {
		case typeArray:
			return arrAndRun(c2, c1)
		case typeBitmap:
			return bmpAndRun(c2, c1)
		case typeRun:
			return runAndRun(c1, c2)
		}
	}
	return container{}
}

// arrAndArr performs AND between two array containers
func arrAndArr(c1, c2 *container) container {
	a, b := c1.Data, c2.Data
	out := make([]uint16, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		av, bv := a[i], b[j]
		switch {
		case av == bv:
			out = append(out, av)
			i++
			j++
		case av < bv:
			i++
		default:
			j++
		}
	}

	return container{Type: typeArray, Size: uint32(len(out)), Data: out}
}

// arrAndBmp performs AND between array and bitmap containers
func arrAndBmp(c1, c2 *container) container {
	b := c2.bmp()
	out := make([]uint16, 0, len(c1.Data))
	for _, v := range c1.Data {
		if b.Contains(uint32(v)) {
			out = append(out, v)
		}
	}

	return container{Type: typeArray, Size: uint32(len(out)), Data: out}
}

// arrAndRun performs AND between array and run containers
func arrAndRun(c1, c2 *container) container {
	a, b := c1.Data, c2.Data
	out := make([]uint16, 0, len(a))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		v := a[i]
		switch {
		case v < b[j]:
			i++
		case v > b[j+1]:
			j += 2
		default:
			out = append(out, v)
			i++
		}
	}

	return container{Type: typeArray, Size: uint32(len(out)), Data: out}
}

// bmpAndBmp performs AND between two bitmap containers
func bmpAndBmp(c1, c2 *container) container {
	out := c1.clone()
	dst := out.bmp()
	dst.And(c2.bmp())
	out.bmpCount()
	out.normalize()
	return out
}

// bmpAndRun performs AND between bitmap and run containers, keeping only the
// words of the bitmap which fall within one of the runs.
func bmpAndRun(c1, c2 *container) container {
	if c2.Size <= arrMaxSize {
		return runFilter(c2, c1)
	}

	out := newBmpContainer()
	src, dst := c1.bmp(), out.bmp()
	runs := c2.Data
	for i := 0; i < len(runs); i += 2 {
		forRange(uint32(runs[i]), uint32(runs[i+1]), func(w int, mask uint64) {
			dst[w] |= src[w] & mask
		})
	}

	out.bmpCount()
	out.normalize()
	return out
}

// runFilter collects the values of the runs which are also in the bitmap
func runFilter(c1, c2 *container) container {
	b := c2.bmp()
	out := make([]uint16, 0, c1.Size)
	c1.iterate(0, func(v uint32) bool {
		if b.Contains(v) {
			out = append(out, uint16(v))
		}
		return true
	})

	return container{Type: typeArray, Size: uint32(len(out)), Data: out}
}

// runAndRun performs AND between two run containers
func runAndRun(c1, c2 *container) container {
	a, b := c1.Data, c2.Data
	out := make([]uint16, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		s1, e1 := a[i], a[i+1]
		s2, e2 := b[j], b[j+1]
		if is, ie := max(s1, s2), min(e1, e2); is <= ie {
			out = append(out, is, ie)
		}

		switch {
		case e1 < e2:
			i += 2
		case e2 < e1:
			j += 2
		default:
			i += 2
			j += 2
		}
	}

	return fromRuns(out)
}
