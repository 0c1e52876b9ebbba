// Package lerctest builds LERC2 blobs for tests.
//
// The encoder here favours clarity over compression: it produces every layout
// the decoder must understand (masks, tiles, lookup tables, depth differences,
// Huffman streams, legacy versions) but makes no attempt to choose the best one.
package lerctest

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/arloliu/lerc/bitmask"
	"github.com/arloliu/lerc/endian"
	"github.com/arloliu/lerc/format"
	"github.com/arloliu/lerc/internal/bitio"
	"github.com/arloliu/lerc/internal/encoding"
	"github.com/arloliu/lerc/section"
)

// Mode selects how a band's pixel values are written.
type Mode int

const (
	Tiles         Mode = iota // bit-stuffed tiles, constant and zero tiles where possible
	TilesLUT                  // like Tiles, with lookup table blocks where possible
	TilesRaw                  // uncompressed tiles
	TilesDiff                 // like Tiles, depth slices after the first store differences (v5+)
	OneSweep                  // all valid values uncompressed in one run
	Huffman                   // 8-bit Huffman coding (v4+)
	DeltaHuffman              // 8-bit Huffman coding of spatial deltas
	FloatLossless             // announces the float lossless coder and stops
)

// Band describes one band blob.
type Band struct {
	Version        int // default section.MaxVersion
	Rows, Cols     int
	Depth          int // default 1
	DataType       format.DataType
	MaxZError      float64
	MicroBlockSize int // default 8

	// Valid holds one flag per pixel; nil means every pixel is valid.
	Valid []bool
	// Values holds Rows*Cols*Depth values, pixel-major: index (i*Cols+j)*Depth+d.
	Values []float64

	Mode Mode
	// InheritMask writes an empty mask section so that the decoder reuses the
	// previous band's mask.
	InheritMask bool
	// LiteralMask writes the mask as literal runs only.
	LiteralMask bool
	// ReduceOffsets stores tile offsets in the smallest exact type.
	ReduceOffsets bool
	// HuffmanLengths overrides the code lengths derived from the histogram.
	HuffmanLengths []uint8

	PassNoData bool
	NoData     float64
	NoDataOrig float64
}

// Encode concatenates the encoded bands. Version 6 bands carry the number of
// bands that follow in their headers.
func Encode(bands ...Band) ([]byte, error) {
	if len(bands) == 0 {
		return nil, errors.New("lerctest: no bands")
	}

	var out []byte
	for i := range bands {
		b := bands[i]
		b.setDefaults()
		blobsMore := 0
		if b.Version >= 6 {
			blobsMore = len(bands) - 1 - i
		}
		enc, err := b.encode(blobsMore)
		if err != nil {
			return nil, fmt.Errorf("lerctest: band %d: %w", i, err)
		}
		out = append(out, enc...)
	}

	return out, nil
}

// MustEncode is Encode for fixtures that are known to be valid.
func MustEncode(bands ...Band) []byte {
	out, err := Encode(bands...)
	if err != nil {
		panic(err)
	}

	return out
}

// FixChecksum recomputes the checksum of the band blob at the start of blob
// after a test has altered its bytes.
func FixChecksum(blob []byte) {
	h, err := section.ParseHeader(blob)
	if err != nil || h.Version < 3 || h.BlobSize > len(blob) {
		return
	}
	engine := endian.GetLittleEndianEngine()
	engine.PutUint32(blob[section.ChecksumStart-4:], section.ComputeChecksum(blob[:h.BlobSize]))
}

// Grid fills a Rows*Cols*Depth value slice from f.
func Grid(rows, cols, depth int, f func(i, j, d int) float64) []float64 {
	out := make([]float64, 0, rows*cols*depth)
	for i := range rows {
		for j := range cols {
			for d := range depth {
				out = append(out, f(i, j, d))
			}
		}
	}

	return out
}

// Checkerboard returns a validity slice with every other pixel invalid.
func Checkerboard(rows, cols int) []bool {
	valid := make([]bool, rows*cols)
	for i := range rows {
		for j := range cols {
			valid[i*cols+j] = (i+j)%2 == 0
		}
	}

	return valid
}

func (b *Band) setDefaults() {
	if b.Version == 0 {
		b.Version = section.MaxVersion
	}
	if b.Depth == 0 {
		b.Depth = 1
	}
	if b.MicroBlockSize == 0 {
		b.MicroBlockSize = 8
	}
}

func (b *Band) valid(k int) bool {
	return b.Valid == nil || b.Valid[k]
}

func (b *Band) encode(blobsMore int) ([]byte, error) {
	n := b.Rows * b.Cols
	if len(b.Values) != n*b.Depth {
		return nil, fmt.Errorf("%d values for %dx%dx%d", len(b.Values), b.Rows, b.Cols, b.Depth)
	}
	if b.Valid != nil && len(b.Valid) != n {
		return nil, fmt.Errorf("%d validity flags for %d pixels", len(b.Valid), n)
	}

	numValid := 0
	zMin, zMax := math.Inf(1), math.Inf(-1)
	for k := range n {
		if !b.valid(k) {
			continue
		}
		numValid++
		for d := range b.Depth {
			v := b.Values[k*b.Depth+d]
			zMin = min(zMin, v)
			zMax = max(zMax, v)
		}
	}
	if numValid == 0 {
		zMin, zMax = 0, 0
	}

	h := section.Header{
		Version:         b.Version,
		NumRows:         b.Rows,
		NumCols:         b.Cols,
		NumDepth:        b.Depth,
		NumValidPixels:  numValid,
		MicroBlockSize:  b.MicroBlockSize,
		DataType:        b.DataType,
		BlobsMore:       blobsMore,
		PassNoData:      b.PassNoData,
		MaxZError:       b.MaxZError,
		ZMin:            zMin,
		ZMax:            zMax,
		NoDataValue:     b.NoData,
		NoDataValueOrig: b.NoDataOrig,
	}

	if b.Version < 4 && b.Depth != 1 {
		return nil, fmt.Errorf("version %d cannot store depth %d", b.Version, b.Depth)
	}

	body, err := b.encodeBody(numValid, zMin, zMax)
	if err != nil {
		return nil, err
	}

	h.BlobSize = h.Size() + len(body)
	blob := append(h.Bytes(), body...)
	if h.Version >= 3 {
		engine := endian.GetLittleEndianEngine()
		engine.PutUint32(blob[section.ChecksumStart-4:], section.ComputeChecksum(blob))
	}

	return blob, nil
}

func (b *Band) encodeBody(numValid int, zMin, zMax float64) ([]byte, error) {
	engine := endian.GetLittleEndianEngine()
	n := b.Rows * b.Cols

	var body []byte
	if numValid == 0 || numValid == n || b.InheritMask {
		body = engine.AppendUint32(body, 0)
	} else {
		packed := bitmask.FromBools(b.Valid).Bytes()
		rle := EncodeRLE(packed)
		if b.LiteralMask {
			rle = EncodeRLELiteral(packed)
		}
		body = engine.AppendUint32(body, uint32(len(rle)))
		body = append(body, rle...)
	}

	if numValid == 0 || zMin == zMax {
		return body, nil
	}

	if b.Version >= 4 {
		mins, maxs := b.depthRanges()
		for _, v := range mins {
			body = AppendValue(body, b.DataType, v)
		}
		for _, v := range maxs {
			body = AppendValue(body, b.DataType, v)
		}
		if slices.Equal(mins, maxs) {
			return body, nil
		}
	}

	if b.Mode == OneSweep {
		body = append(body, 1)
		for k := range n {
			if !b.valid(k) {
				continue
			}
			for d := range b.Depth {
				body = AppendValue(body, b.DataType, b.Values[k*b.Depth+d])
			}
		}

		return body, nil
	}
	body = append(body, 0)

	intHuffman := b.DataType.Size() == 1 && b.MaxZError == 0.5
	floatLossless := b.Version >= 6 && b.DataType.IsFloat() && b.MaxZError == 0
	switch b.Mode { //nolint: exhaustive
	case Huffman, DeltaHuffman:
		if !intHuffman {
			return nil, fmt.Errorf("mode %d needs an 8-bit type with max z error 0.5", b.Mode)
		}
	case FloatLossless:
		if !floatLossless {
			return nil, errors.New("float lossless needs v6 float data with max z error 0")
		}
	}

	if intHuffman || floatLossless {
		var mode format.ImageEncodeMode
		switch b.Mode { //nolint: exhaustive
		case Huffman:
			mode = format.ModeHuffman
		case DeltaHuffman:
			mode = format.ModeDeltaHuffman
		case FloatLossless:
			mode = format.ModeDeltaDeltaHuffman
		default:
			mode = format.ModeTiling
		}
		body = append(body, byte(mode))

		switch mode { //nolint: exhaustive
		case format.ModeHuffman, format.ModeDeltaHuffman:
			return b.appendHuffman(body)
		case format.ModeDeltaDeltaHuffman:
			return body, nil
		}
	}

	return b.appendTiles(body)
}

func (b *Band) depthRanges() (mins, maxs []float64) {
	mins = make([]float64, b.Depth)
	maxs = make([]float64, b.Depth)
	for d := range b.Depth {
		mins[d], maxs[d] = math.Inf(1), math.Inf(-1)
	}
	for k := range b.Rows * b.Cols {
		if !b.valid(k) {
			continue
		}
		for d := range b.Depth {
			v := b.Values[k*b.Depth+d]
			mins[d] = min(mins[d], v)
			maxs[d] = max(maxs[d], v)
		}
	}

	return mins, maxs
}

func (b *Band) appendTiles(body []byte) ([]byte, error) {
	mbs := b.MicroBlockSize
	for i0 := 0; i0 < b.Rows; i0 += mbs {
		i1 := min(i0+mbs, b.Rows)
		for j0 := 0; j0 < b.Cols; j0 += mbs {
			j1 := min(j0+mbs, b.Cols)
			for d := range b.Depth {
				var vals, prevs []float64
				for i := i0; i < i1; i++ {
					for j := j0; j < j1; j++ {
						k := i*b.Cols + j
						if !b.valid(k) {
							continue
						}
						vals = append(vals, b.Values[k*b.Depth+d])
						if d > 0 {
							prevs = append(prevs, b.Values[k*b.Depth+d-1])
						}
					}
				}

				var err error
				body, err = b.appendTile(body, vals, prevs, j0, d)
				if err != nil {
					return nil, err
				}
			}
		}
	}

	return body, nil
}

func (b *Band) appendTile(body []byte, vals, prevs []float64, j0, d int) ([]byte, error) {
	if len(vals) == 0 {
		return append(body, byte(section.NewTileFlag(section.TileZero, false, 0, j0, b.Version))), nil
	}

	if b.Mode == TilesRaw {
		body = append(body, byte(section.NewTileFlag(section.TileRaw, false, 0, j0, b.Version)))
		for _, v := range vals {
			body = AppendValue(body, b.DataType, v)
		}

		return body, nil
	}

	diff := b.Mode == TilesDiff && d > 0 && b.Version >= 5
	src := vals
	if diff {
		src = make([]float64, len(vals))
		for i := range vals {
			src[i] = vals[i] - prevs[i]
		}
	}

	lo, hi := src[0], src[0]
	for _, v := range src {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if lo == 0 && hi == 0 {
		return append(body, byte(section.NewTileFlag(section.TileZero, diff, 0, j0, b.Version))), nil
	}

	step := 2 * b.MaxZError
	q := make([]uint32, len(src))
	var maxQ uint32
	if lo != hi {
		if step == 0 {
			if diff {
				return nil, errors.New("max z error 0 cannot store varying depth differences")
			}
			body = append(body, byte(section.NewTileFlag(section.TileRaw, false, 0, j0, b.Version)))
			for _, v := range vals {
				body = AppendValue(body, b.DataType, v)
			}

			return body, nil
		}
		for i, v := range src {
			q[i] = uint32(math.Round((v - lo) / step))
			maxQ = max(maxQ, q[i])
		}
	}

	offsetType, _ := section.OffsetType(b.DataType, 0, diff)
	typeCode := 0
	if b.ReduceOffsets {
		typeCode, offsetType = ReduceOffset(b.DataType, lo, diff)
	}

	mode := section.TileStuffed
	if maxQ == 0 {
		mode = section.TileConst
	}
	body = append(body, byte(section.NewTileFlag(mode, diff, typeCode, j0, b.Version)))
	body = AppendValue(body, offsetType, lo)
	if mode == section.TileConst {
		return body, nil
	}

	if b.Mode == TilesLUT {
		if lut, err := EncodeBitStuffedLUT(q, b.Version); err == nil {
			return append(body, lut...), nil
		}
	}

	return append(body, EncodeBitStuffed(q, b.Version)...), nil
}

func (b *Band) appendHuffman(body []byte) ([]byte, error) {
	offset := 0
	if b.DataType == format.TypeInt8 {
		offset = 128
	}

	var syms []int
	if b.Mode == Huffman {
		for k := range b.Rows * b.Cols {
			if !b.valid(k) {
				continue
			}
			for d := range b.Depth {
				syms = append(syms, (int(b.Values[k*b.Depth+d])+offset)&0xff)
			}
		}
	} else {
		for d := range b.Depth {
			prev := 0
			for i := range b.Rows {
				for j := range b.Cols {
					k := i*b.Cols + j
					if !b.valid(k) {
						continue
					}
					m := k*b.Depth + d
					pred := prev
					switch {
					case j > 0 && b.valid(k-1):
						pred = int(b.Values[m-b.Depth])
					case i > 0 && b.valid(k-b.Cols):
						pred = int(b.Values[m-b.Cols*b.Depth])
					}
					v := int(b.Values[m])
					syms = append(syms, (v-pred+offset)&0xff)
					prev = v
				}
			}
		}
	}

	lengths := b.HuffmanLengths
	if lengths == nil {
		hist := make([]int, 256)
		for _, s := range syms {
			hist[s]++
		}
		lengths = huffmanLengths(hist)
	}
	codes, err := encoding.CanonicalCodes(lengths)
	if err != nil {
		return nil, err
	}

	i0, i1 := -1, 0
	for sym, l := range lengths {
		if l == 0 {
			continue
		}
		if i0 < 0 {
			i0 = sym
		}
		i1 = sym + 1
	}
	if i0 < 0 {
		return nil, errors.New("empty huffman code")
	}

	engine := endian.GetLittleEndianEngine()
	for _, v := range []int{4, len(lengths), i0, i1} {
		body = engine.AppendUint32(body, uint32(int32(v)))
	}
	lens := make([]uint32, i1-i0)
	for i := range lens {
		lens[i] = uint32(lengths[i0+i])
	}
	body = append(body, EncodeBitStuffed(lens, b.Version)...)

	w := bitio.NewWriter()
	for sym := i0; sym < i1; sym++ {
		if c := codes[sym]; c.Len > 0 {
			w.WriteBits(c.Code, int(c.Len))
		}
	}
	body = append(body, w.Bytes()...)

	w = bitio.NewWriter()
	for _, s := range syms {
		c := codes[s]
		if c.Len == 0 {
			return nil, fmt.Errorf("symbol %d has no code", s)
		}
		w.WriteBits(c.Code, int(c.Len))
	}
	body = append(body, w.Bytes()...)

	// the decoder skips one word past the data
	return engine.AppendUint32(body, 0), nil
}
