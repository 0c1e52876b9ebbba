package bitio

import (
	"encoding/binary"
	"fmt"

	"github.com/arloliu/lerc/errs"
)

// PackedLen returns the number of bytes needed to hold count values of width bits.
func PackedLen(count, bits int) int {
	return (count*bits + 7) / 8
}

// UnpackLSB decodes len(dst) values of width bits packed least-significant bit
// first into src, the bit stuffing layout of LERC2 v3 and later.
//
// src must hold at least PackedLen(len(dst), bits) bytes.
func UnpackLSB(dst []uint32, src []byte, bits int) error {
	if bits < 0 || bits > 32 {
		return fmt.Errorf("%w: %d bits", errs.ErrInvalidBitWidth, bits)
	}
	if bits == 0 {
		clear(dst)
		return nil
	}
	need := PackedLen(len(dst), bits)
	if len(src) < need {
		return fmt.Errorf("%w: packed values need %d bytes, have %d", errs.ErrTruncated, need, len(src))
	}
	src = src[:need]

	mask := uint64(1)<<uint(bits) - 1
	var acc uint64
	var n int
	p := 0
	for i := range dst {
		if n < bits {
			if p+4 <= len(src) {
				acc |= uint64(binary.LittleEndian.Uint32(src[p:])) << uint(n)
				p += 4
				n += 32
			} else {
				// tail: fewer than four bytes left
				for n < bits {
					acc |= uint64(src[p]) << uint(n)
					p++
					n += 8
				}
			}
		}
		dst[i] = uint32(acc & mask)
		acc >>= uint(bits)
		n -= bits
	}

	return nil
}

// UnpackLegacy decodes len(dst) values of width bits from the LERC2 v2 layout:
// values are packed most-significant bit first into little-endian words, and the
// last word stores only the bytes that carry bits.
//
// src must hold at least PackedLen(len(dst), bits) bytes.
func UnpackLegacy(dst []uint32, src []byte, bits int) error {
	if bits < 0 || bits > 32 {
		return fmt.Errorf("%w: %d bits", errs.ErrInvalidBitWidth, bits)
	}
	if bits == 0 {
		clear(dst)
		return nil
	}
	need := PackedLen(len(dst), bits)
	if len(src) < need {
		return fmt.Errorf("%w: packed values need %d bytes, have %d", errs.ErrTruncated, need, len(src))
	}

	nWords := (len(dst)*bits + 31) / 32
	words := make([]byte, nWords*4)
	full := need / 4 * 4
	copy(words, src[:full])
	if tail := need - full; tail > 0 {
		// the stored low bytes of the last word belong in its high bytes
		copy(words[full+4-tail:], src[full:need])
	}

	r := NewReader(words)
	for i := range dst {
		v, err := r.ReadBits(bits)
		if err != nil {
			return err
		}
		dst[i] = v
	}

	return nil
}
