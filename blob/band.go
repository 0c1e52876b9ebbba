package blob

import (
	"fmt"
	"iter"
	"slices"

	"github.com/arloliu/lerc/bitmask"
	"github.com/arloliu/lerc/errs"
	"github.com/arloliu/lerc/format"
	"github.com/arloliu/lerc/internal/bitio"
	"github.com/arloliu/lerc/internal/encoding"
	"github.com/arloliu/lerc/section"
)

// bandState tracks how far a band decode got. Errors carry the stage that was
// being attempted.
type bandState uint8

const (
	stateStart bandState = iota
	stateHeaderValidated
	stateMaskDecoded
	stateDataDecoded
	stateDequantized
	stateDone
	stateFailed
)

func (s bandState) String() string {
	switch s {
	case stateStart:
		return "Start"
	case stateHeaderValidated:
		return "HeaderValidated"
	case stateMaskDecoded:
		return "MaskDecoded"
	case stateDataDecoded:
		return "DataDecoded"
	case stateDequantized:
		return "Dequantized"
	case stateDone:
		return "Done"
	case stateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// pending names the work done when leaving s.
func (s bandState) pending() string {
	switch s { //nolint: exhaustive
	case stateStart:
		return "validating header"
	case stateHeaderValidated:
		return "decoding mask"
	case stateMaskDecoded:
		return "decoding pixel data"
	case stateDataDecoded:
		return "dequantizing"
	default:
		return "finishing"
	}
}

// bandDecoder decodes one band blob into its slice of the output buffer.
//
// Values are written already converted to T: quantized codes are scaled,
// offset and range checked as they are unpacked. The Dequantized stage applies
// the no-data remap that needs the complete band.
type bandDecoder[T number] struct {
	index int
	hdr   *section.Header
	data  []byte // the band blob, exactly BlobSize bytes
	r     *bitio.ByteReader
	out   []T
	conv  converter[T]

	// mask is nil when every pixel is valid
	mask *bitmask.BitMask

	zMinVec []float64
	zMaxVec []float64

	stuffer *encoding.BitStuffer
	codes   []uint32

	state bandState
}

func newBandDecoder[T number](index int, band *BandInfo, data []byte, out []T, conv converter[T]) *bandDecoder[T] {
	blob := data[band.Offset : band.Offset+band.BlobSize]

	return &bandDecoder[T]{
		index: index,
		hdr:   &band.Header,
		data:  blob,
		r:     bitio.NewByteReader(blob[band.Size():]),
		out:   out,
		conv:  conv,
	}
}

func (d *bandDecoder[T]) fail(err error) error {
	stage := d.state.pending()
	d.state = stateFailed

	return fmt.Errorf("band %d: %s: %w", d.index, stage, err)
}

// run drives the band through its stages. prev is the mask of the previous band
// when hasPrev is set.
func (d *bandDecoder[T]) run(prev *bitmask.BitMask, hasPrev, verifyChecksum bool) error {
	if d.state != stateStart {
		return fmt.Errorf("band %d: decoder in state %s", d.index, d.state)
	}

	if verifyChecksum {
		if err := section.VerifyChecksum(d.data, d.hdr); err != nil {
			return d.fail(err)
		}
	}
	d.state = stateHeaderValidated

	if err := d.readMask(prev, hasPrev); err != nil {
		return d.fail(err)
	}
	d.state = stateMaskDecoded

	if err := d.readData(); err != nil {
		return d.fail(err)
	}
	d.state = stateDataDecoded

	if err := d.remapNoData(); err != nil {
		return d.fail(err)
	}
	d.state = stateDequantized

	d.state = stateDone

	return nil
}

func (d *bandDecoder[T]) valid(k int) bool {
	return d.mask == nil || d.mask.Valid(k)
}

// validPixels iterates the indices of valid pixels in row-major order.
func (d *bandDecoder[T]) validPixels() iter.Seq[int] {
	if d.mask != nil {
		return d.mask.All()
	}
	n := d.hdr.NumPixels()

	return func(yield func(int) bool) {
		for k := range n {
			if !yield(k) {
				return
			}
		}
	}
}

func (d *bandDecoder[T]) readMask(prev *bitmask.BitMask, hasPrev bool) error {
	numBytes, err := d.r.ReadInt32()
	if err != nil {
		return err
	}

	total := d.hdr.NumPixels()
	numValid := d.hdr.NumValidPixels
	switch {
	case numValid == 0 || numValid == total:
		if numBytes != 0 {
			return fmt.Errorf("%w: %d mask bytes for a band with %d of %d pixels valid", errs.ErrCorruptData, numBytes, numValid, total)
		}
		if numValid == 0 {
			d.mask = bitmask.New(total)
		}

		return nil
	case numBytes < 0:
		return fmt.Errorf("%w: negative mask size %d", errs.ErrMaskLengthMismatch, numBytes)
	case numBytes == 0:
		if !hasPrev {
			return fmt.Errorf("%w: empty mask and no previous band to reuse", errs.ErrMaskLengthMismatch)
		}
		if prev == nil {
			return fmt.Errorf("%w: reused mask has %d valid pixels, header declares %d", errs.ErrMaskCountMismatch, total, numValid)
		}
		d.mask = prev
	default:
		src, err := d.r.Next(int(numBytes))
		if err != nil {
			return err
		}
		m, err := encoding.DecodeMaskRLE(src, total)
		if err != nil {
			return err
		}
		d.mask = m
	}

	if c := d.mask.Count(); c != numValid {
		return fmt.Errorf("%w: mask has %d valid pixels, header declares %d", errs.ErrMaskCountMismatch, c, numValid)
	}

	return nil
}

func (d *bandDecoder[T]) readData() error {
	h := d.hdr
	if h.NumValidPixels == 0 {
		return nil
	}
	if h.ZMin == h.ZMax {
		return d.fillConst(nil)
	}

	if h.Version >= 4 {
		if err := d.readRanges(); err != nil {
			return err
		}
		if slices.Equal(d.zMinVec, d.zMaxVec) {
			return d.fillConst(d.zMinVec)
		}
	}

	oneSweep, err := d.r.ReadUint8()
	if err != nil {
		return err
	}
	if oneSweep != 0 {
		return d.readOneSweep()
	}

	intHuffman := h.DataType.Size() == 1 && h.MaxZError == 0.5
	floatLossless := h.Version >= 6 && h.DataType.IsFloat() && h.MaxZError == 0
	if intHuffman || floatLossless {
		b, err := d.r.ReadUint8()
		if err != nil {
			return err
		}
		if b > 3 || (b > 2 && h.Version < 6) || (b > 1 && h.Version < 4) {
			return fmt.Errorf("%w: image encode mode %d in version %d", errs.ErrCorruptData, b, h.Version)
		}

		mode := format.ImageEncodeMode(b)
		switch {
		case mode == format.ModeTiling:
		case intHuffman && (mode == format.ModeDeltaHuffman || mode == format.ModeHuffman):
			return d.readHuffman(mode)
		case floatLossless && mode == format.ModeDeltaDeltaHuffman:
			return fmt.Errorf("%w: float point lossless coding", errs.ErrUnsupportedFeature)
		default:
			return fmt.Errorf("%w: image encode mode %s for %s", errs.ErrCorruptData, mode, h.DataType)
		}
	}

	return d.readTiles()
}

// readRanges reads the per-depth minimum and maximum of v4+ bands.
func (d *bandDecoder[T]) readRanges() error {
	depth := d.hdr.NumDepth
	d.zMinVec = make([]float64, depth)
	d.zMaxVec = make([]float64, depth)
	for _, vec := range [][]float64{d.zMinVec, d.zMaxVec} {
		for i := range vec {
			v, err := readValue(d.r, d.hdr.DataType)
			if err != nil {
				return err
			}
			vec[i] = v
		}
	}

	return nil
}

// fillConst sets every valid pixel to zMin, or to perDepth[d] when given.
func (d *bandDecoder[T]) fillConst(perDepth []float64) error {
	depth := d.hdr.NumDepth
	vals := make([]T, depth)
	for i := range vals {
		z := d.hdr.ZMin
		if perDepth != nil {
			z = perDepth[i]
		}
		v, err := d.conv.convert(z)
		if err != nil {
			return err
		}
		vals[i] = v
	}

	for k := range d.validPixels() {
		copy(d.out[k*depth:(k+1)*depth], vals)
	}

	return nil
}

func (d *bandDecoder[T]) readOneSweep() error {
	dt := d.hdr.DataType
	depth := d.hdr.NumDepth
	src, err := d.r.Next(d.hdr.NumValidPixels * depth * dt.Size())
	if err != nil {
		return err
	}
	if d.mask == nil {
		return copyRaw(d.out, src, dt)
	}

	r := bitio.NewByteReader(src)
	for k := range d.mask.All() {
		for i := k * depth; i < (k+1)*depth; i++ {
			v, err := readRaw[T](r, dt)
			if err != nil {
				return err
			}
			d.out[i] = v
		}
	}

	return nil
}

// remapNoData restores the caller's original no-data value in v6 bands whose
// pixels mix valid and invalid depth values.
func (d *bandDecoder[T]) remapNoData() error {
	h := d.hdr
	if h.Version < 6 || !h.PassNoData || h.NumDepth <= 1 || h.NumValidPixels == 0 ||
		h.NoDataValue == h.NoDataValueOrig {
		return nil
	}

	from, err := d.conv.convert(h.NoDataValue)
	if err != nil {
		// no decoded value can equal it
		return nil //nolint: nilerr
	}
	to, err := d.conv.convert(h.NoDataValueOrig)
	if err != nil {
		return err
	}

	depth := h.NumDepth
	for k := range d.validPixels() {
		vals := d.out[k*depth : (k+1)*depth]
		for i, v := range vals {
			if v == from {
				vals[i] = to
			}
		}
	}

	return nil
}
