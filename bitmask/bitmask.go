// Package bitmask implements the per-pixel validity mask of a LERC2 band.
//
// A BitMask holds one bit per pixel in row-major order, most significant bit
// first within each byte: pixel k lives in byte k>>3 under 0x80>>(k&7). A set
// bit marks a valid pixel. Masks are immutable once built.
package bitmask

import (
	"encoding/binary"
	"fmt"
	"iter"
	"math/bits"
)

// BitMask is an immutable packed validity grid.
type BitMask struct {
	bits []byte
	n    int
}

// NumBytes returns the packed size of a mask over n pixels.
func NumBytes(n int) int {
	return (n + 7) >> 3
}

// New returns a mask of n pixels with every pixel invalid.
func New(n int) *BitMask {
	return &BitMask{bits: make([]byte, NumBytes(n)), n: n}
}

// NewAllValid returns a mask of n pixels with every pixel valid.
func NewAllValid(n int) *BitMask {
	m := New(n)
	for i := range m.bits {
		m.bits[i] = 0xff
	}
	m.clearPadding()

	return m
}

// FromBytes builds a mask of n pixels from its packed form. The bytes are
// copied; bits past pixel n-1 are ignored.
func FromBytes(b []byte, n int) (*BitMask, error) {
	if n < 0 || len(b) < NumBytes(n) {
		return nil, fmt.Errorf("bitmask: %d bytes cannot hold %d pixels", len(b), n)
	}
	m := &BitMask{bits: make([]byte, NumBytes(n)), n: n}
	copy(m.bits, b)
	m.clearPadding()

	return m, nil
}

// FromBools builds a mask from one boolean per pixel.
func FromBools(valid []bool) *BitMask {
	m := New(len(valid))
	for k, v := range valid {
		if v {
			m.bits[k>>3] |= 0x80 >> uint(k&7)
		}
	}

	return m
}

func (m *BitMask) clearPadding() {
	if r := m.n & 7; r != 0 {
		m.bits[len(m.bits)-1] &= 0xff << uint(8-r)
	}
}

// Len returns the number of pixels covered by the mask.
func (m *BitMask) Len() int {
	return m.n
}

// Valid reports whether pixel k is valid. k must be in [0, Len()).
func (m *BitMask) Valid(k int) bool {
	return m.bits[k>>3]&(0x80>>uint(k&7)) != 0
}

// Count returns the number of valid pixels.
func (m *BitMask) Count() int {
	b := m.bits
	c := 0
	for len(b) >= 8 {
		c += bits.OnesCount64(binary.LittleEndian.Uint64(b))
		b = b[8:]
	}
	for _, x := range b {
		c += bits.OnesCount8(x)
	}

	return c
}

// CountRange returns the number of valid pixels in [from, to).
func (m *BitMask) CountRange(from, to int) int {
	c := 0
	for k := from; k < to; k++ {
		if m.Valid(k) {
			c++
		}
	}

	return c
}

// All returns an iterator over the indices of valid pixels in ascending order.
func (m *BitMask) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i, b := range m.bits {
			for b != 0 {
				lz := bits.LeadingZeros8(b)
				if !yield(i<<3 + lz) {
					return
				}
				b &^= 0x80 >> uint(lz)
			}
		}
	}
}

// Bytes returns a copy of the packed mask.
func (m *BitMask) Bytes() []byte {
	out := make([]byte, len(m.bits))
	copy(out, m.bits)

	return out
}

// Bools expands the mask to one boolean per pixel.
func (m *BitMask) Bools() []bool {
	out := make([]bool, m.n)
	for k := range m.All() {
		out[k] = true
	}

	return out
}

// IsAllValid reports whether every pixel is valid.
func (m *BitMask) IsAllValid() bool {
	return m.Count() == m.n
}

// Equal reports whether both masks cover the same pixels with the same validity.
func (m *BitMask) Equal(other *BitMask) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.n != other.n {
		return false
	}
	for i := range m.bits {
		if m.bits[i] != other.bits[i] {
			return false
		}
	}

	return true
}

// And returns a new mask valid where both m and other are valid.
func (m *BitMask) And(other *BitMask) (*BitMask, error) {
	if m.n != other.n {
		return nil, fmt.Errorf("bitmask: length mismatch %d != %d", m.n, other.n)
	}
	out := New(m.n)
	for i := range out.bits {
		out.bits[i] = m.bits[i] & other.bits[i]
	}

	return out, nil
}
