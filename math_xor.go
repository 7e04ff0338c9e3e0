// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root

package roaring

// ctrXor computes the symmetric difference of two containers into a new container
func ctrXor(c1, c2 *container) container {
	switch c1.Type {
	case typeArray:
		switch c2.Type {
		case typeArray:
			return arrXorArr(c1, c2)
		case typeBitmap:
			return bmpXorArr(c2, c1)
		case typeRun:
			return arrXorRun(c1, c2)
		}
	case typeBitmap:
		switch c2.Type {
		case typeArray:
			return bmpXorArr(c1, c2)
		case typeBitmap:
			return bmpXorBmp(c1, c2)
		case typeRun:
			return bmpXorRun(c1, c2)
		}
	case typeRun:
		switch c2.Type {
		case typeArray:
			return arrXorRun(c2, c1)
		case typeBitmap:
			return bmpXorRun(c2, c1)
		case typeRun:
			return fromRuns(xorRuns(c1.Data, c2.Data))
		}
	}
	return container{}
}

// arrXorArr performs XOR between two array containers
func arrXorArr(c1, c2 *container) container {
	a, b := c1.Data, c2.Data
	out := make([]uint16, 0, len(a)+len(b))
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
			out = append(out, bv)
			j++
		}
	}

	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	c := container{Type: typeArray, Size: uint32(len(out)), Data: out}
	c.normalize()
	return c
}

// arrXorRun performs XOR between array and run containers
func arrXorRun(c1, c2 *container) container {
	scratch := arrIntervals(c1.Data, borrowArray())
	out := fromRuns(xorRuns(scratch, c2.Data))
	release(scratch)
	return out
}

// bmpXorArr performs XOR between bitmap and array containers
func bmpXorArr(c1, c2 *container) container {
	out := c1.clone()
	dst := out.bmp()
	for _, v := range c2.Data {
		word, bit := &dst[v>>6], uint64(1)<<(v&63)
		switch {
		case *word&bit == 0:
			out.Size++
		default:
			out.Size--
		}
		*word ^= bit
	}

	out.normalize()
	return out
}

// bmpXorBmp performs XOR between two bitmap containers
func bmpXorBmp(c1, c2 *container) container {
	out := c1.clone()
	dst := out.bmp()
	dst.Xor(c2.bmp())
	out.bmpCount()
	out.normalize()
	return out
}

// bmpXorRun performs XOR between bitmap and run containers
func bmpXorRun(c1, c2 *container) container {
	out := c1.clone()
	dst := out.bmp()
	for i := 0; i < len(c2.Data); i += 2 {
		flipRange(dst, uint32(c2.Data[i]), uint32(c2.Data[i+1]))
	}

	out.bmpCount()
	out.normalize()
	return out
}

// xorRuns computes the symmetric difference of two lists of runs. Each run is
// seen as a pair of toggles at start and end+1. Merging the toggles of both
// sides, and cancelling the ones which coincide, yields the boundaries of the result.
func xorRuns(a, b []uint16) []uint16 {
	toggle := func(runs []uint16, k int) uint32 {
		if k&1 == 0 {
			return uint32(runs[k])
		}
		return uint32(runs[k]) + 1
	}

	out := make([]uint16, 0, len(a)+len(b))
	open, start := false, uint32(0)
	emit := func(t uint32) {
		if !open {
			open, start = true, t
			return
		}

		out = append(out, uint16(start), uint16(t-1))
		open = false
	}

	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j >= len(b):
			emit(toggle(a, i))
			i++
		case i >= len(a):
			emit(toggle(b, j))
			j++
		default:
			ta, tb := toggle(a, i), toggle(b, j)
			switch {
			case ta < tb:
				emit(ta)
				i++
			case tb < ta:
				emit(tb)
				j++
			default:
				i++
				j++
			}
		}
	}
	return out
}
