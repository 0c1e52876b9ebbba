// Package bitio provides the byte and bit cursors used by the LERC2 decoders.
//
// LERC2 mixes two granularities. Header fields, counts and raw pixel values are
// little-endian scalars read through ByteReader. Packed codes live in little-endian
// 32-bit words and are read either most-significant-bit first (Huffman, legacy bit
// stuffing) through Reader, or least-significant-bit first (bit stuffing since v3)
// through UnpackLSB.
package bitio

import (
	"fmt"
	"math"

	"github.com/arloliu/lerc/endian"
	"github.com/arloliu/lerc/errs"
)

// ByteReader is a bounds-checked little-endian cursor over a byte slice.
//
// Every read either succeeds completely or returns an error wrapping
// errs.ErrTruncated and leaves the cursor unchanged.
type ByteReader struct {
	buf    []byte
	pos    int
	engine endian.EndianEngine
}

// NewByteReader creates a cursor positioned at the start of buf.
func NewByteReader(buf []byte) *ByteReader {
	return &ByteReader{buf: buf, engine: endian.GetLittleEndianEngine()}
}

// Pos returns the current offset into the underlying slice.
func (r *ByteReader) Pos() int {
	return r.pos
}

// Len returns the number of unread bytes.
func (r *ByteReader) Len() int {
	return len(r.buf) - r.pos
}

// Remaining returns the unread bytes without advancing the cursor.
func (r *ByteReader) Remaining() []byte {
	return r.buf[r.pos:]
}

func (r *ByteReader) need(n int) error {
	if n < 0 || n > len(r.buf)-r.pos {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d", errs.ErrTruncated, n, r.pos, len(r.buf)-r.pos)
	}

	return nil
}

// Skip advances the cursor by n bytes.
func (r *ByteReader) Skip(n int) error {
	if err := r.need(n); err != nil {
		return err
	}
	r.pos += n

	return nil
}

// Next returns the next n bytes and advances past them. The returned slice aliases
// the underlying buffer.
func (r *ByteReader) Next(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n

	return b, nil
}

func (r *ByteReader) ReadUint8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.buf[r.pos]
	r.pos++

	return v, nil
}

func (r *ByteReader) ReadInt8() (int8, error) {
	v, err := r.ReadUint8()
	return int8(v), err
}

func (r *ByteReader) ReadUint16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := r.engine.Uint16(r.buf[r.pos:])
	r.pos += 2

	return v, nil
}

func (r *ByteReader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

func (r *ByteReader) ReadUint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := r.engine.Uint32(r.buf[r.pos:])
	r.pos += 4

	return v, nil
}

func (r *ByteReader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

func (r *ByteReader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	return math.Float32frombits(v), err
}

func (r *ByteReader) ReadFloat64() (float64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := r.engine.Uint64(r.buf[r.pos:])
	r.pos += 8

	return math.Float64frombits(v), nil
}

// ReadUintN reads an unsigned little-endian integer of 1, 2 or 4 bytes.
func (r *ByteReader) ReadUintN(n int) (uint32, error) {
	switch n {
	case 1:
		v, err := r.ReadUint8()
		return uint32(v), err
	case 2:
		v, err := r.ReadUint16()
		return uint32(v), err
	case 4:
		return r.ReadUint32()
	default:
		return 0, fmt.Errorf("%w: %d byte integer", errs.ErrInvalidBitWidth, n)
	}
}
