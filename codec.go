// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root

package roaring

import (
	"encoding/binary"
	"io"
	"slices"
	"unsafe"

	"github.com/pkg/errors"
)

const (
	cookieNoRuns      = 12346 // format without run containers
	cookieRuns        = 12347 // format with run containers, count in the high bits
	noOffsetThreshold = 4     // below this many containers, run format omits offsets
	maxContainers     = 1 << 16
)

var isLittleEndian = binary.LittleEndian.Uint16([]byte{1, 0}) == 1

// hasRuns returns true if any container is a run container
func (rb *Bitmap) hasRuns() bool {
	for i := range rb.containers {
		if rb.containers[i].Type == typeRun {
			return true
		}
	}
	return false
}

// headerSize returns the size of the header, offsets included
func headerSize(n int, hasRuns bool) int {
	switch {
	case !hasRuns:
		return 8 + 8*n
	case n < noOffsetThreshold:
		return 4 + (n+7)/8 + 4*n
	default:
		return 4 + (n+7)/8 + 8*n
	}
}

// SizeInBytes returns the exact number of bytes the bitmap takes once serialized
func (rb *Bitmap) SizeInBytes() int {
	size := headerSize(len(rb.containers), rb.hasRuns())
	for i := range rb.containers {
		size += rb.containers[i].sizeInBytes()
	}
	return size
}

// ToBytes converts the bitmap to a byte slice, using the portable format which
// is shared with the other roaring implementations.
func (rb *Bitmap) ToBytes() []byte {
	buffer := make([]byte, rb.SizeInBytes())
	rb.encode(buffer)
	return buffer
}

// WriteTo writes the bitmap to a writer
func (rb *Bitmap) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(rb.ToBytes())
	return int64(n), err
}

// MarshalBinary implements encoding.BinaryMarshaler
func (rb *Bitmap) MarshalBinary() ([]byte, error) {
	return rb.ToBytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler
func (rb *Bitmap) UnmarshalBinary(data []byte) error {
	out, _, err := decode(data)
	if err != nil {
		return err
	}

	rb.containers, rb.index = out.containers, out.index
	return nil
}

// encode writes the bitmap into a zeroed buffer of exactly SizeInBytes() bytes
func (rb *Bitmap) encode(dst []byte) {
	le := binary.LittleEndian
	n, hasRuns := len(rb.containers), rb.hasRuns()

	pos := 0
	switch {
	case hasRuns:
		le.PutUint32(dst, uint32(cookieRuns|(n-1)<<16))
		pos = 4
		for i := range rb.containers {
			if rb.containers[i].Type == typeRun {
				dst[pos+i/8] |= 1 << (i % 8)
			}
		}
		pos += (n + 7) / 8
	default:
		le.PutUint32(dst, cookieNoRuns)
		le.PutUint32(dst[4:], uint32(n))
		pos = 8
	}

	for i, key := range rb.index {
		le.PutUint16(dst[pos:], key)
		le.PutUint16(dst[pos+2:], uint16(rb.containers[i].Size-1))
		pos += 4
	}

	offsets := -1
	if !hasRuns || n >= noOffsetThreshold {
		offsets, pos = pos, pos+4*n
	}

	for i := range rb.containers {
		if offsets >= 0 {
			le.PutUint32(dst[offsets+4*i:], uint32(pos))
		}
		pos += rb.containers[i].encode(dst[pos:])
	}
}

// encode writes the container payload and returns the number of bytes written.
// Anything which is not a run is written as an array when it is small enough
// and as a bitmap otherwise.
func (c *container) encode(dst []byte) int {
	le := binary.LittleEndian
	switch {
	case c.Type == typeRun:
		le.PutUint16(dst, uint16(c.runCount()))
		for i := 0; i < len(c.Data); i += 2 {
			le.PutUint16(dst[2+2*i:], c.Data[i])
			le.PutUint16(dst[4+2*i:], c.Data[i+1]-c.Data[i])
		}
		return 2 + 2*len(c.Data)

	case c.Size <= arrMaxSize && c.Type == typeArray:
		return writeUint16s(dst, c.Data)

	case c.Size <= arrMaxSize:
		pos := 0
		c.iterate(0, func(v uint32) bool {
			le.PutUint16(dst[pos:], uint16(v))
			pos += 2
			return true
		})
		return pos

	default:
		src := c
		if c.Type != typeBitmap {
			clone := c.clone()
			clone.toBmp()
			src = &clone
		}
		return writeUint64s(dst, src.bmp())
	}
}

// FromBytes creates a roaring bitmap from a byte buffer in the portable format.
// The buffer is copied, it can be reused once the function returns. Bytes past the
// end of the serialized bitmap are ignored.
func FromBytes(buffer []byte) (*Bitmap, error) {
	out, _, err := decode(buffer)
	return out, err
}

// ReadFrom reads a roaring bitmap from an io.Reader
func ReadFrom(r io.Reader) (*Bitmap, error) {
	rb := New()
	if _, err := rb.ReadFrom(r); err != nil {
		return nil, err
	}
	return rb, nil
}

// ReadFrom reads exactly one serialized bitmap from the reader and replaces the
// contents of the bitmap with it. On error, the bitmap is left unchanged.
func (rb *Bitmap) ReadFrom(r io.Reader) (int64, error) {
	buffer, err := readSerialized(r)
	if err != nil {
		return int64(len(buffer)), err
	}

	out, _, err := decode(buffer)
	if err != nil {
		return int64(len(buffer)), err
	}

	rb.containers, rb.index = out.containers, out.index
	return int64(len(buffer)), nil
}

// ---------------------------------------- Decoding ----------------------------------------

// decode validates and decodes a serialized bitmap, returning it along with the
// number of bytes consumed. Nothing is returned unless the whole input is valid.
func decode(src []byte) (*Bitmap, int, error) {
	le := binary.LittleEndian
	if len(src) < 4 {
		return nil, 0, corruptf("header needs 4 bytes, got %d", len(src))
	}

	var n, pos int
	var flags []byte
	switch cookie := le.Uint32(src); {
	case cookie == cookieNoRuns:
		if len(src) < 8 {
			return nil, 0, corruptf("header needs 8 bytes, got %d", len(src))
		}

		n, pos = int(le.Uint32(src[4:])), 8
		if n > maxContainers {
			return nil, 0, corruptf("%d containers exceed the maximum of %d", n, maxContainers)
		}

	case cookie&0xFFFF == cookieRuns:
		n, pos = int(cookie>>16)+1, 4
		if len(src) < pos+(n+7)/8 {
			return nil, 0, corruptf("run flags for %d containers are truncated", n)
		}

		flags = src[pos : pos+(n+7)/8]
		pos += len(flags)

	default:
		return nil, 0, corruptf("unknown cookie %d", cookie)
	}

	hasOffsets := flags == nil || n >= noOffsetThreshold
	if need := 4 * n; len(src) < pos+need || (hasOffsets && len(src) < pos+2*need) {
		return nil, 0, corruptf("header for %d containers is truncated", n)
	}

	header := src[pos : pos+4*n]
	pos += 4 * n

	var offsets []byte
	if hasOffsets {
		offsets = src[pos : pos+4*n]
		pos += 4 * n
	}

	rb := &Bitmap{
		containers: make([]container, 0, n),
		index:      make([]uint16, 0, n),
	}

	for i := 0; i < n; i++ {
		key := le.Uint16(header[4*i:])
		card := uint32(le.Uint16(header[4*i+2:])) + 1
		if i > 0 && key <= rb.index[i-1] {
			return nil, 0, corruptf("key %d of container %d is not ascending", key, i)
		}

		if offsets != nil {
			if at := le.Uint32(offsets[4*i:]); int64(at) != int64(pos) {
				return nil, 0, corruptf("container %d is at offset %d, expected %d", i, at, pos)
			}
		}

		isRun := flags != nil && flags[i/8]&(1<<(i%8)) != 0
		c, size, err := decodeContainer(src[pos:], card, isRun)
		if err != nil {
			return nil, 0, errors.Wrapf(err, "container %d (key %d)", i, key)
		}

		rb.ctrPush(key, c)
		pos += size
	}

	return rb, pos, nil
}

// decodeContainer decodes a single container payload of the given cardinality
func decodeContainer(src []byte, card uint32, isRun bool) (container, int, error) {
	switch {
	case isRun:
		return decodeRun(src, card)
	case card <= arrMaxSize:
		return decodeArray(src, card)
	default:
		return decodeBitmap(src, card)
	}
}

// decodeArray decodes a sorted array of values
func decodeArray(src []byte, card uint32) (container, int, error) {
	size := 2 * int(card)
	if len(src) < size {
		return container{}, 0, corruptf("array of %d values is truncated", card)
	}

	data := make([]uint16, card)
	readUint16s(data, src[:size])
	for i := 1; i < len(data); i++ {
		if data[i] <= data[i-1] {
			return container{}, 0, corruptf("array value %d at %d is not ascending", data[i], i)
		}
	}

	return container{Type: typeArray, Size: card, Data: data}, size, nil
}

// decodeBitmap decodes a fixed-size bitmap of 1024 words
func decodeBitmap(src []byte, card uint32) (container, int, error) {
	const size = 8 * bmpWords
	if len(src) < size {
		return container{}, 0, corruptf("bitmap is truncated")
	}

	c := newBmpContainer()
	readUint64s(c.bmp(), src[:size])
	if c.bmpCount(); c.Size != card {
		return container{}, 0, corruptf("bitmap has %d values, header says %d", c.Size, card)
	}

	return c, size, nil
}

// decodeRun decodes a list of (start, length-1) runs. Runs which touch each other
// are coalesced, overlapping or unordered runs are rejected.
func decodeRun(src []byte, card uint32) (container, int, error) {
	le := binary.LittleEndian
	if len(src) < 2 {
		return container{}, 0, corruptf("run count is truncated")
	}

	count := int(le.Uint16(src))
	size := 2 + 4*count
	if len(src) < size {
		return container{}, 0, corruptf("%d runs are truncated", count)
	}

	runs := make([]uint16, 0, 2*count)
	total := uint32(0)
	for i := 0; i < count; i++ {
		start := uint32(le.Uint16(src[2+4*i:]))
		end := start + uint32(le.Uint16(src[4+4*i:]))
		if end > 0xFFFF {
			return container{}, 0, corruptf("run %d ends at %d, beyond the container", i, end)
		}

		switch last := len(runs) - 1; {
		case last < 0 || uint32(runs[last])+1 < start:
			runs = append(runs, uint16(start), uint16(end))
		case uint32(runs[last])+1 == start:
			runs[last] = uint16(end)
		default:
			return container{}, 0, corruptf("run %d starting at %d overlaps the previous one", i, start)
		}
		total += end - start + 1
	}

	if total != card {
		return container{}, 0, corruptf("runs have %d values, header says %d", total, card)
	}

	c := container{Type: typeRun, Size: card, Data: runs}
	c.normalize()
	return c, size, nil
}

// readSerialized reads exactly the bytes of one serialized bitmap from the reader,
// following the header to find out how many bytes each container takes.
func readSerialized(r io.Reader) ([]byte, error) {
	le := binary.LittleEndian
	rd := &reader{src: r}
	if err := rd.next(4); err != nil {
		return rd.buf, err
	}

	var n int
	var flags []byte
	switch cookie := le.Uint32(rd.buf); {
	case cookie == cookieNoRuns:
		if err := rd.next(4); err != nil {
			return rd.buf, err
		}

		if n = int(le.Uint32(rd.buf[4:])); n > maxContainers {
			return rd.buf, corruptf("%d containers exceed the maximum of %d", n, maxContainers)
		}

	case cookie&0xFFFF == cookieRuns:
		n = int(cookie>>16) + 1
		if err := rd.next((n + 7) / 8); err != nil {
			return rd.buf, err
		}
		flags = slices.Clone(rd.buf[4:])

	default:
		return rd.buf, corruptf("unknown cookie %d", cookie)
	}

	at := len(rd.buf)
	if err := rd.next(4 * n); err != nil {
		return rd.buf, err
	}
	header := slices.Clone(rd.buf[at:])

	if flags == nil || n >= noOffsetThreshold {
		if err := rd.next(4 * n); err != nil {
			return rd.buf, err
		}
	}

	for i := 0; i < n; i++ {
		card := int(le.Uint16(header[4*i+2:])) + 1
		switch {
		case flags != nil && flags[i/8]&(1<<(i%8)) != 0:
			if err := rd.next(2); err != nil {
				return rd.buf, err
			}

			count := int(le.Uint16(rd.buf[len(rd.buf)-2:]))
			if err := rd.next(4 * count); err != nil {
				return rd.buf, err
			}
		case card <= arrMaxSize:
			if err := rd.next(2 * card); err != nil {
				return rd.buf, err
			}
		default:
			if err := rd.next(8 * bmpWords); err != nil {
				return rd.buf, err
			}
		}
	}

	return rd.buf, nil
}

// reader accumulates the bytes read from an underlying reader
type reader struct {
	src io.Reader
	buf []byte
}

// next appends exactly n more bytes to the buffer
func (rd *reader) next(n int) error {
	at := len(rd.buf)
	rd.buf = slices.Grow(rd.buf, n)[:at+n]
	read, err := io.ReadFull(rd.src, rd.buf[at:])
	rd.buf = rd.buf[:at+read]

	switch {
	case err == io.EOF || err == io.ErrUnexpectedEOF:
		return corruptf("stream ended after %d bytes", len(rd.buf))
	case err != nil:
		return errors.Wrap(err, "roaring: unable to read bitmap")
	default:
		return nil
	}
}

// ---------------------------------------- Byte Order ----------------------------------------

// writeUint16s writes a slice of uint16s in little endian, copying memory
// directly if the machine is little endian.
func writeUint16s(dst []byte, data []uint16) int {
	if len(data) == 0 {
		return 0
	}

	switch isLittleEndian {
	case true:
		return copy(dst, unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*2))
	default:
		for i, v := range data {
			binary.LittleEndian.PutUint16(dst[2*i:], v)
		}
		return 2 * len(data)
	}
}

// writeUint64s writes a slice of uint64s in little endian
func writeUint64s(dst []byte, data []uint64) int {
	switch isLittleEndian {
	case true:
		return copy(dst, unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*8))
	default:
		for i, v := range data {
			binary.LittleEndian.PutUint64(dst[8*i:], v)
		}
		return 8 * len(data)
	}
}

// readUint16s fills the slice with little endian uint16s from the source
func readUint16s(data []uint16, src []byte) {
	if len(data) == 0 {
		return
	}

	switch isLittleEndian {
	case true:
		copy(unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*2), src)
	default:
		for i := range data {
			data[i] = binary.LittleEndian.Uint16(src[2*i:])
		}
	}
}

// readUint64s fills the slice with little endian uint64s from the source
func readUint64s(data []uint64, src []byte) {
	switch isLittleEndian {
	case true:
		copy(unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*8), src)
	default:
		for i := range data {
			data[i] = binary.LittleEndian.Uint64(src[8*i:])
		}
	}
}
