package blob

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arloliu/lerc/errs"
	"github.com/arloliu/lerc/format"
	"github.com/arloliu/lerc/internal/bitio"
	"github.com/arloliu/lerc/section"
)

// checkPayload rejects a band whose blob cannot hold the pixel data its header
// declares, before any output buffer is sized from that header.
//
// It follows the band decoder's reads up to the coding path and requires the
// least that path consumes: 2·depth range values on v4+, one flag byte per tile
// and depth, numValid·depth raw values for one sweep, or one bit per symbol for
// Huffman. Layouts the decoder rejects on their own are left to it, so its
// error stays the one reported. first is set for the first band of a blob,
// which has no mask to reuse.
func checkPayload(blob []byte, h *section.Header, first bool) error {
	total := h.NumPixels()
	numValid := h.NumValidPixels
	if numValid == 0 {
		return nil
	}

	r := bitio.NewByteReader(blob[h.Size():])
	maskSize, err := r.ReadInt32()
	if err != nil {
		return nil
	}
	partial := numValid < total
	switch {
	case partial && maskSize < 0, !partial && maskSize != 0:
		return nil
	case partial && maskSize == 0 && first:
		return nil
	}
	if err := r.Skip(int(maskSize)); err != nil {
		return nil
	}
	if h.ZMin == h.ZMax {
		return nil
	}

	depth := int64(h.NumDepth)
	size := int64(h.DataType.Size())
	if h.Version >= 4 {
		if !fitsIn(r.Len(), 2, depth, size) {
			return payloadError("depth ranges", r.Len(), 2, depth, size)
		}
		if equalRanges(r, h.NumDepth, h.DataType) {
			return nil
		}
	}

	oneSweep, err := r.ReadUint8()
	if err != nil {
		return nil
	}
	if oneSweep != 0 {
		if !fitsIn(r.Len(), int64(numValid), depth, size) {
			return payloadError("raw values", r.Len(), int64(numValid), depth, size)
		}

		return nil
	}

	intHuffman := h.DataType.Size() == 1 && h.MaxZError == 0.5
	floatLossless := h.Version >= 6 && h.DataType.IsFloat() && h.MaxZError == 0
	if intHuffman || floatLossless {
		b, err := r.ReadUint8()
		if err != nil {
			return nil
		}
		mode := format.ImageEncodeMode(b)
		switch {
		case mode == format.ModeTiling:
		case intHuffman && (mode == format.ModeDeltaHuffman || (mode == format.ModeHuffman && h.Version >= 4)):
			// every symbol takes at least one bit
			symbols := int64(numValid) * depth
			if int64(r.Len()) < (symbols+7)/8 {
				return fmt.Errorf("%w: %d huffman symbols need more than the %d bytes left", errs.ErrTruncated, symbols, r.Len())
			}

			return nil
		default:
			return nil
		}
	}

	mbs := h.MicroBlockSize
	if mbs > section.MaxMicroBlockSize {
		return nil
	}
	tiles := int64((h.NumRows+mbs-1)/mbs) * int64((h.NumCols+mbs-1)/mbs)
	if !fitsIn(r.Len(), tiles, depth) {
		return payloadError("tile flags", r.Len(), tiles, depth)
	}

	return nil
}

// equalRanges reads the per-depth minima and maxima and reports whether they
// match, which codes every depth slice as a constant. The caller has checked
// that both vectors fit in r.
func equalRanges(r *bitio.ByteReader, depth int, dt format.DataType) bool {
	mins, _ := r.Next(depth * dt.Size())
	minR := bitio.NewByteReader(mins)

	equal := true
	for range depth {
		lo, _ := readValue(minR, dt)
		hi, _ := readValue(r, dt)
		if lo != hi {
			equal = false
		}
	}

	return equal
}

// fitsIn reports whether the product of factors is at most avail. The factors
// are non-negative; the product is never formed, so it cannot overflow.
func fitsIn(avail int, factors ...int64) bool {
	left := int64(avail)
	for _, f := range factors {
		if f == 0 {
			return true
		}
		left /= f
	}

	return left >= 1
}

func payloadError(what string, avail int, factors ...int64) error {
	dims := make([]string, len(factors))
	for i, f := range factors {
		dims[i] = strconv.FormatInt(f, 10)
	}

	return fmt.Errorf("%w: %s need %s bytes, %d left", errs.ErrTruncated, what, strings.Join(dims, "x"), avail)
}
