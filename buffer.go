package roaring

import (
	"sync"
	"unsafe"

	"github.com/kelindar/bitmap"
)

var pool = sync.Pool{
	New: func() any {
		return make([]uint16, 0, bmpLen)
	},
}

// borrowArray returns an empty scratch slice with room for a full array container
func borrowArray() []uint16 {
	return pool.Get().([]uint16)[:0]
}

// release returns a scratch slice to the pool, it must not be used afterwards
func release(v []uint16) {
	if cap(v) >= bmpLen {
		pool.Put(v[:0])
	}
}

// asBitmap views a slice of uint16 slots as bitmap words. The backing array of
// a []uint16 of this size is 8-byte aligned by the allocator.
func asBitmap(data []uint16) bitmap.Bitmap {
	if len(data) == 0 {
		return nil
	}

	return bitmap.Bitmap(unsafe.Slice((*uint64)(unsafe.Pointer(&data[0])), len(data)/4))
}
