package roaring

// operation describes how a binary operation merges two bitmaps: the pairwise
// function applied on matching keys and whether the keys present on only one
// side survive into the result.
type operation struct {
	pair      func(c1, c2 *container) container
	keepLeft  bool
	keepRight bool
}

var (
	opAnd    = operation{pair: ctrAnd}
	opOr     = operation{pair: ctrOr, keepLeft: true, keepRight: true}
	opXor    = operation{pair: ctrXor, keepLeft: true, keepRight: true}
	opAndNot = operation{pair: ctrAndNot, keepLeft: true}
)

// And returns a new bitmap with the intersection of a and b
func And(a, b *Bitmap) *Bitmap {
	return merge(a, b, opAnd, false)
}

// Or returns a new bitmap with the union of a and b
func Or(a, b *Bitmap) *Bitmap {
	return merge(a, b, opOr, false)
}

// Xor returns a new bitmap with the values present in exactly one of a and b
func Xor(a, b *Bitmap) *Bitmap {
	return merge(a, b, opXor, false)
}

// AndNot returns a new bitmap with the values of a which are not in b
func AndNot(a, b *Bitmap) *Bitmap {
	return merge(a, b, opAndNot, false)
}

// And performs bitwise AND operation with other bitmap(s), in place.
func (rb *Bitmap) And(other *Bitmap, extra ...*Bitmap) {
	rb.apply(opAnd, other, extra)
}

// AndNot performs bitwise AND NOT operation with other bitmap(s), in place.
func (rb *Bitmap) AndNot(other *Bitmap, extra ...*Bitmap) {
	rb.apply(opAndNot, other, extra)
}

// Or performs bitwise OR operation with other bitmap(s), in place.
func (rb *Bitmap) Or(other *Bitmap, extra ...*Bitmap) {
	rb.apply(opOr, other, extra)
}

// Xor performs bitwise XOR operation with other bitmap(s), in place.
func (rb *Bitmap) Xor(other *Bitmap, extra ...*Bitmap) {
	rb.apply(opXor, other, extra)
}

// apply folds the operation over the operands, replacing the receiver's index
func (rb *Bitmap) apply(op operation, other *Bitmap, extra []*Bitmap) {
	out := merge(rb, other, op, true)
	for _, bm := range extra {
		if len(out.containers) == 0 && !op.keepRight {
			break // Nothing left to intersect or subtract from
		}
		out = merge(out, bm, op, true)
	}

	rb.containers = out.containers
	rb.index = out.index
}

// merge walks both key sequences in ascending order, like merging two sorted
// lists. When owned is set, containers of the left operand are moved into the
// result instead of being copied, so the left operand must be discarded.
func merge(a, b *Bitmap, op operation, owned bool) *Bitmap {
	if a == nil {
		a = &Bitmap{}
	}
	if b == nil {
		b = &Bitmap{}
	}

	out := &Bitmap{
		containers: make([]container, 0, len(a.containers)+len(b.containers)),
		index:      make([]uint16, 0, len(a.index)+len(b.index)),
	}

	left := func(i int) {
		if !op.keepLeft {
			return
		}

		switch {
		case owned:
			out.ctrPush(a.index[i], a.containers[i])
		default:
			out.ctrPush(a.index[i], a.containers[i].clone())
		}
	}

	right := func(j int) {
		if op.keepRight {
			out.ctrPush(b.index[j], b.containers[j].clone())
		}
	}

	i, j := 0, 0
	for i < len(a.index) && j < len(b.index) {
		hi1, hi2 := a.index[i], b.index[j]
		switch {
		case hi1 < hi2:
			left(i)
			i++
		case hi1 > hi2:
			right(j)
			j++
		default:
			if c := op.pair(&a.containers[i], &b.containers[j]); !c.isEmpty() {
				out.ctrPush(hi1, c)
			}
			i++
			j++
		}
	}

	for ; i < len(a.index); i++ {
		left(i)
	}
	for ; j < len(b.index); j++ {
		right(j)
	}
	return out
}
