package blob

import (
	"github.com/arloliu/lerc/format"
	"github.com/arloliu/lerc/internal/bitio"
	"github.com/arloliu/lerc/internal/encoding"
)

// huffmanSymbols is the code table size of 8-bit bands.
const huffmanSymbols = 1 << 8

// readHuffman decodes an 8-bit band coded with a Huffman table, either as
// plain values or as deltas to a spatial predictor.
func (d *bandDecoder[T]) readHuffman(mode format.ImageEncodeMode) error {
	h := d.hdr
	table, err := encoding.ReadHuffmanTable(d.r, h.Version, huffmanSymbols)
	if err != nil {
		return err
	}

	// Int8 symbols are stored shifted into 0..255
	offset := 0
	if h.DataType == format.TypeInt8 {
		offset = 128
	}

	br := bitio.NewReader(d.r.Remaining())
	rows, cols, depth := h.NumRows, h.NumCols, h.NumDepth

	if mode == format.ModeHuffman {
		for k := range d.validPixels() {
			for m := k * depth; m < (k+1)*depth; m++ {
				sym, err := table.Decode(br)
				if err != nil {
					return err
				}
				d.out[m] = T(sym - offset)
			}
		}
	} else {
		for dd := range depth {
			var prev T
			for i := range rows {
				for j := range cols {
					k := i*cols + j
					if !d.valid(k) {
						continue
					}
					sym, err := table.Decode(br)
					if err != nil {
						return err
					}

					m := k*depth + dd
					v := T(sym - offset)
					switch {
					case j > 0 && d.valid(k-1):
						v += d.out[m-depth]
					case i > 0 && d.valid(k-cols):
						v += d.out[m-cols*depth]
					default:
						v += prev
					}
					d.out[m] = v
					prev = v
				}
			}
		}
	}

	// the stream is padded with one word past the last one read
	return d.r.Skip(br.ConsumedBytes() + 4)
}
