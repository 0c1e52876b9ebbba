package encoding

import (
	"fmt"
	"math/bits"

	"github.com/arloliu/lerc/errs"
	"github.com/arloliu/lerc/internal/bitio"
)

const (
	stuffLUTFlag  = 1 << 5
	stuffBitsMask = 31
)

// BitStuffer decodes BitStuffer2 blocks: a header byte, an element count and a
// run of fixed-width unsigned integers, optionally mapped through a small lookup
// table of distinct values.
//
// A BitStuffer reuses its scratch buffers between blocks. It is not safe for
// concurrent use; each band decode owns one.
type BitStuffer struct {
	version int
	lut     []uint32
}

// NewBitStuffer creates a decoder for blobs of the given LERC2 version. Blobs
// before version 3 use the legacy most-significant-bit-first layout.
func NewBitStuffer(version int) *BitStuffer {
	return &BitStuffer{version: version}
}

// Decode reads one block from r into dst, reusing its capacity, and returns the
// decoded values. The block may hold at most maxCount elements.
func (b *BitStuffer) Decode(r *bitio.ByteReader, maxCount int, dst []uint32) ([]uint32, error) {
	head, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}

	countBytes := 4
	switch head >> 6 {
	case 1:
		countBytes = 2
	case 2:
		countBytes = 1
	case 3:
		return nil, fmt.Errorf("%w: invalid element count width in block header 0x%02x", errs.ErrInvalidBitWidth, head)
	}

	count, err := r.ReadUintN(countBytes)
	if err != nil {
		return nil, err
	}
	if uint64(count) > uint64(maxCount) {
		return nil, fmt.Errorf("%w: block holds %d elements, at most %d allowed", errs.ErrCorruptData, count, maxCount)
	}

	n := int(count)
	if cap(dst) < n {
		dst = make([]uint32, n)
	}
	dst = dst[:n]
	numBits := int(head & stuffBitsMask)

	if head&stuffLUTFlag == 0 {
		if err := b.unstuff(r, dst, numBits); err != nil {
			return nil, err
		}

		return dst, nil
	}

	if numBits == 0 {
		return nil, fmt.Errorf("%w: lookup table block with zero bit width", errs.ErrInvalidBitWidth)
	}
	nLutByte, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	nLut := int(nLutByte) - 1
	if nLut < 1 {
		return nil, fmt.Errorf("%w: empty lookup table", errs.ErrCorruptData)
	}

	// table[0] is always zero and not transmitted
	if cap(b.lut) < nLut+1 {
		b.lut = make([]uint32, nLut+1)
	}
	table := b.lut[:nLut+1]
	table[0] = 0
	if err := b.unstuff(r, table[1:], numBits); err != nil {
		return nil, err
	}

	if err := b.unstuff(r, dst, bits.Len(uint(nLut))); err != nil {
		return nil, err
	}
	for i, idx := range dst {
		if int(idx) > nLut {
			return nil, fmt.Errorf("%w: lookup index %d outside table of %d", errs.ErrCorruptData, idx, nLut+1)
		}
		dst[i] = table[idx]
	}

	return dst, nil
}

// unstuff reads len(dst) values of numBits each and advances r past them.
func (b *BitStuffer) unstuff(r *bitio.ByteReader, dst []uint32, numBits int) error {
	if numBits >= 32 {
		return fmt.Errorf("%w: %d bits", errs.ErrInvalidBitWidth, numBits)
	}
	if numBits == 0 || len(dst) == 0 {
		clear(dst)
		return nil
	}

	n := bitio.PackedLen(len(dst), numBits)
	src, err := r.Next(n)
	if err != nil {
		return err
	}
	if b.version >= 3 {
		return bitio.UnpackLSB(dst, src, numBits)
	}

	return bitio.UnpackLegacy(dst, src, numBits)
}
