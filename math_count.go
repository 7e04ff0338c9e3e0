// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root

package roaring

import (
	"math/bits"
)

// AndCount returns the cardinality of the intersection of a and b, without
// materializing the intersection.
func AndCount(a, b *Bitmap) int {
	if a == nil || b == nil {
		return 0
	}

	count := 0
	i, j := 0, 0
	for i < len(a.index) && j < len(b.index) {
		hi1, hi2 := a.index[i], b.index[j]
		switch {
		case hi1 < hi2:
			i++
		case hi1 > hi2:
			j++
		default:
			count += ctrAndCount(&a.containers[i], &b.containers[j])
			i++
			j++
		}
	}
	return count
}

// OrCount returns the cardinality of the union of a and b
func OrCount(a, b *Bitmap) int {
	return count(a) + count(b) - AndCount(a, b)
}

// XorCount returns the cardinality of the symmetric difference of a and b
func XorCount(a, b *Bitmap) int {
	return count(a) + count(b) - 2*AndCount(a, b)
}

// AndNotCount returns the cardinality of the values of a which are not in b
func AndNotCount(a, b *Bitmap) int {
	return count(a) - AndCount(a, b)
}

// count returns the cardinality of a bitmap which may be nil
func count(rb *Bitmap) int {
	if rb == nil {
		return 0
	}
	return rb.Count()
}

// ctrAndCount counts the values present in both containers
func ctrAndCount(c1, c2 *container) int {
	if c1.Type > c2.Type {
		c1, c2 = c2, c1
	}

	switch c1.Type {
	case typeArray:
		switch c2.Type {
		case typeArray:
			return arrAndArrCount(c1.Data, c2.Data)
		case typeBitmap:
			b, n := c2.bmp(), 0
			for _, v := range c1.Data {
				if b.Contains(uint32(v)) {
					n++
				}
			}
			return n
		case typeRun:
			return arrAndRunCount(c1.Data, c2.Data)
		}

	case typeBitmap:
		a := c1.bmp()
		switch c2.Type {
		case typeBitmap:
			b, n := c2.bmp(), 0
			for i := range a {
				n += bits.OnesCount64(a[i] & b[i])
			}
			return n
		case typeRun:
			n := 0
			for i := 0; i < len(c2.Data); i += 2 {
				n += countRange(a, uint32(c2.Data[i]), uint32(c2.Data[i+1]))
			}
			return n
		}

	case typeRun:
		return runAndRunCount(c1.Data, c2.Data)
	}
	return 0
}

// arrAndArrCount counts the values common to two sorted arrays
func arrAndArrCount(a, b []uint16) (n int) {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			n++
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return
}

// arrAndRunCount counts the values of the array covered by the runs
func arrAndRunCount(a, runs []uint16) (n int) {
	i, j := 0, 0
	for i < len(a) && j < len(runs) {
		switch v := a[i]; {
		case v < runs[j]:
			i++
		case v > runs[j+1]:
			j += 2
		default:
			n++
			i++
		}
	}
	return
}

// runAndRunCount counts the values covered by both lists of runs
func runAndRunCount(a, b []uint16) (n int) {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if s, e := max(a[i], b[j]), min(a[i+1], b[j+1]); s <= e {
			n += int(e-s) + 1
		}

		switch {
		case a[i+1] < b[j+1]:
			i += 2
		case b[j+1] < a[i+1]:
			j += 2
		default:
			i += 2
			j += 2
		}
	}
	return
}
