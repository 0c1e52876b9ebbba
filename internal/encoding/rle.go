package encoding

import (
	"fmt"

	"github.com/arloliu/lerc/bitmask"
	"github.com/arloliu/lerc/errs"
	"github.com/arloliu/lerc/internal/bitio"
)

const rleEndOfStream = -32768

// DecodeRLE expands a LERC byte run-length stream into dst, which must be filled
// exactly. The stream is a sequence of little-endian int16 counts: a positive
// count is followed by that many literal bytes, a non-positive count by one byte
// repeated -count times, and -32768 terminates the stream.
//
// Returns the number of bytes of src consumed.
func DecodeRLE(dst, src []byte) (int, error) {
	r := bitio.NewByteReader(src)
	filled := 0
	for {
		cnt, err := r.ReadInt16()
		if err != nil {
			return 0, fmt.Errorf("%w: mask stream ends without terminator", errs.ErrMaskLengthMismatch)
		}
		if cnt == rleEndOfStream {
			break
		}

		n := int(cnt)
		if n < 0 {
			n = -n
		}
		if filled+n > len(dst) {
			return 0, fmt.Errorf("%w: run of %d overruns %d mask bytes at %d", errs.ErrMaskLengthMismatch, n, len(dst), filled)
		}

		if cnt > 0 {
			lit, err := r.Next(n)
			if err != nil {
				return 0, err
			}
			copy(dst[filled:], lit)
		} else {
			b, err := r.ReadUint8()
			if err != nil {
				return 0, err
			}
			run := dst[filled : filled+n]
			for i := range run {
				run[i] = b
			}
		}
		filled += n
	}

	if filled != len(dst) {
		return 0, fmt.Errorf("%w: runs cover %d of %d mask bytes", errs.ErrMaskLengthMismatch, filled, len(dst))
	}

	return r.Pos(), nil
}

// DecodeMaskRLE decodes an RLE compressed validity mask covering n pixels.
func DecodeMaskRLE(src []byte, n int) (*bitmask.BitMask, error) {
	packed := make([]byte, bitmask.NumBytes(n))
	if _, err := DecodeRLE(packed, src); err != nil {
		return nil, err
	}

	return bitmask.FromBytes(packed, n)
}
