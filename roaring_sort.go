package roaring

// find16 performs a search for the target in the sorted array of keys.
// Returns (index, found) where index is the insertion point if not found.
func find16(keys []uint16, target uint16) (int, bool) {
	n := len(keys)
	switch {
	case n == 0 || target < keys[0]:
		return 0, false
	case target > keys[n-1]:
		return n, false
	case target == keys[n-1]:
		return n - 1, true
	}

	// binary phase: shrink the window down to a cache line
	lo, hi := 0, n
	for hi-lo > 16 {
		mid := int(uint(lo+hi) >> 1)
		switch {
		case keys[mid] < target:
			lo = mid + 1
		default:
			hi = mid
		}
	}

	// linear phase, the window is at most 16 keys wide
	for i := lo; i < hi; i++ {
		if keys[i] >= target {
			return i, keys[i] == target
		}
	}
	return hi, false
}
