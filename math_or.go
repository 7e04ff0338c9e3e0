// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root

package roaring

// ctrOr computes the union of two containers into a new container
func ctrOr(c1, c2 *container) container {
	switch c1.Type {
	case typeArray:
		switch c2.Type {
		case typeArray:
			return arrOrArr(c1, c2)
		case typeBitmap:
			return bmpOrArr(c2, c1)
		case typeRun:
			return arrOrRun(c1, c2)
		}
	case typeBitmap:
		switch c2.Type {
		case typeArray:
			return bmpOrArr(c1, c2)
		case typeBitmap:
			return bmpOrBmp(c1, c2)
		case typeRun:
			return bmpOrRun(c1, c2)
		}
	case typeRun:
		switch c2.Type {
		case typeArray:
			return arrOrRun(c2, c1)
		case typeBitmap:
			return bmpOrRun(c2, c1)
		case typeRun:
			return runOrRun(c1, c2)
		}
	}
	return container{}
}

// arrOrArr performs OR between two array containers
func arrOrArr(c1, c2 *container) container {
	a, b := c1.Data, c2.Data
	if len(a)+len(b) > arrMaxSize {
		out := newBmpContainer()
		dst := out.bmp()
		for _, v := range a {
			dst[v>>6] |= 1 << (v & 63)
		}
		for _, v := range b {
			dst[v>>6] |= 1 << (v & 63)
		}

		out.bmpCount()
		out.normalize()
		return out
	}

	out := make([]uint16, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		av, bv := a[i], b[j]
		switch {
		case av == bv:
			out = append(out, av)
			i++
			j++
		case av < bv:
			out = append(out, av)
			i++
		default:
			out = append(out, bv)
			j++
		}
	}

	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return container{Type: typeArray, Size: uint32(len(out)), Data: out}
}

// arrOrRun performs OR between array and run containers by merging the array,
// seen as a list of short runs, into the runs of the other container.
func arrOrRun(c1, c2 *container) container {
	if c2.Size == 1<<16 {
		return c2.clone()
	}

	scratch := arrIntervals(c1.Data, borrowArray())
	out := unionRuns(scratch, c2.Data)
	release(scratch)
	return out
}

// bmpOrArr performs OR between bitmap and array containers
func bmpOrArr(c1, c2 *container) container {
	out := c1.clone()
	dst := out.bmp()
	for _, v := range c2.Data {
		if word, bit := &dst[v>>6], uint64(1)<<(v&63); *word&bit == 0 {
			*word |= bit
			out.Size++
		}
	}

	out.normalize()
	return out
}

// bmpOrBmp performs OR between two bitmap containers
func bmpOrBmp(c1, c2 *container) container {
	out := c1.clone()
	dst := out.bmp()
	dst.Or(c2.bmp())
	out.bmpCount()
	out.normalize()
	return out
}

// bmpOrRun performs OR between bitmap and run containers
func bmpOrRun(c1, c2 *container) container {
	if c2.Size == 1<<16 {
		return c2.clone()
	}

	out := c1.clone()
	dst := out.bmp()
	for i := 0; i < len(c2.Data); i += 2 {
		setRange(dst, uint32(c2.Data[i]), uint32(c2.Data[i+1]))
	}

	out.bmpCount()
	out.normalize()
	return out
}

// runOrRun performs OR between two run containers
func runOrRun(c1, c2 *container) container {
	return unionRuns(c1.Data, c2.Data)
}

// unionRuns merges two sorted lists of runs, coalescing the runs which overlap
// or touch, and returns the most compact container for the result.
func unionRuns(a, b []uint16) container {
	out := make([]uint16, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		var s, e uint16
		switch {
		case j >= len(b) || (i < len(a) && a[i] <= b[j]):
			s, e = a[i], a[i+1]
			i += 2
		default:
			s, e = b[j], b[j+1]
			j += 2
		}

		if n := len(out); n > 0 && uint32(out[n-1])+1 >= uint32(s) {
			out[n-1] = max(out[n-1], e)
			continue
		}
		out = append(out, s, e)
	}

	return fromRuns(out)
}

// fromRuns wraps a list of runs into a container, converting it to an array or
// a bitmap when either of those would be smaller.
func fromRuns(runs []uint16) container {
	c := container{Type: typeRun, Size: runCardinality(runs), Data: runs}
	c.optimize()
	return c
}
