package roaring

// Intersects returns true if a and b have at least one value in common. It stops
// at the first common value without building the intersection.
func Intersects(a, b *Bitmap) bool {
	if a == nil || b == nil {
		return false
	}

	i, j := 0, 0
	for i < len(a.index) && j < len(b.index) {
		hi1, hi2 := a.index[i], b.index[j]
		switch {
		case hi1 < hi2:
			i++
		case hi1 > hi2:
			j++
		default:
			if ctrIntersects(&a.containers[i], &b.containers[j]) {
				return true
			}
			i++
			j++
		}
	}
	return false
}

// IsDisjoint returns true if the bitmap has no value in common with other
func (rb *Bitmap) IsDisjoint(other *Bitmap) bool {
	return !Intersects(rb, other)
}

// IsSubset returns true if every value of the bitmap is also in other
func (rb *Bitmap) IsSubset(other *Bitmap) bool {
	if rb == nil || len(rb.containers) == 0 {
		return true
	}
	if other == nil || len(rb.containers) > len(other.containers) {
		return false
	}

	j := 0
	for i, hi := range rb.index {
		for j < len(other.index) && other.index[j] < hi {
			j++
		}

		if j == len(other.index) || other.index[j] != hi {
			return false
		}

		c1, c2 := &rb.containers[i], &other.containers[j]
		if c1.Size > c2.Size || ctrAndCount(c1, c2) != int(c1.Size) {
			return false
		}
	}
	return true
}

// IsProperSubset returns true if the bitmap is a subset of other and other has
// at least one value which is not in the bitmap.
func (rb *Bitmap) IsProperSubset(other *Bitmap) bool {
	return count(rb) < count(other) && rb.IsSubset(other)
}

// Equals returns true if both bitmaps contain exactly the same values,
// regardless of the representation of their containers.
func (rb *Bitmap) Equals(other *Bitmap) bool {
	if rb == nil || other == nil {
		return count(rb) == count(other)
	}

	if len(rb.index) != len(other.index) {
		return false
	}

	for i := range rb.index {
		if rb.index[i] != other.index[i] || !rb.containers[i].equals(&other.containers[i]) {
			return false
		}
	}
	return true
}

// ctrIntersects checks whether two containers have at least one value in common
func ctrIntersects(c1, c2 *container) bool {
	if c1.Type > c2.Type {
		c1, c2 = c2, c1
	}

	switch c1.Type {
	case typeArray:
		if c2.Type == typeArray {
			return arrIntersectsArr(c1.Data, c2.Data)
		}

		for _, v := range c1.Data {
			if c2.contains(v) {
				return true
			}
		}
		return false

	case typeBitmap:
		a := c1.bmp()
		switch c2.Type {
		case typeBitmap:
			b := c2.bmp()
			for i := range a {
				if a[i]&b[i] != 0 {
					return true
				}
			}
		case typeRun:
			for i := 0; i < len(c2.Data); i += 2 {
				if countRange(a, uint32(c2.Data[i]), uint32(c2.Data[i+1])) > 0 {
					return true
				}
			}
		}
		return false

	case typeRun:
		a, b := c1.Data, c2.Data
		i, j := 0, 0
		for i < len(a) && j < len(b) {
			switch {
			case a[i+1] < b[j]:
				i += 2
			case b[j+1] < a[i]:
				j += 2
			default:
				return true
			}
		}
	}
	return false
}

// arrIntersectsArr checks whether two sorted arrays share a value
func arrIntersectsArr(a, b []uint16) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			return true
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return false
}
