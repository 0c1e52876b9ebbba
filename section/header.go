package section

import (
	"bytes"
	"fmt"
	"math"

	"github.com/arloliu/lerc/endian"
	"github.com/arloliu/lerc/errs"
	"github.com/arloliu/lerc/format"
	"github.com/arloliu/lerc/internal/bitio"
)

// Header is the decoded header of one LERC2 band blob.
type Header struct {
	Version  int
	Checksum uint32 // v3+

	NumRows        int
	NumCols        int
	NumDepth       int // values per pixel, 1 before v4
	NumValidPixels int
	MicroBlockSize int
	BlobSize       int // bytes from the file key to the end of this band
	DataType       format.DataType
	BlobsMore      int // v6+: number of band blobs that follow

	PassNoData bool // v6+
	IsInt      bool // v6+: float data holds integral values only

	MaxZError       float64
	ZMin            float64
	ZMax            float64
	NoDataValue     float64 // v6+
	NoDataValueOrig float64 // v6+
}

// NumPixels returns the number of pixels in one depth slice.
func (h *Header) NumPixels() int {
	return h.NumRows * h.NumCols
}

// NumValues returns the number of values the band decodes to.
func (h *Header) NumValues() int {
	return h.NumRows * h.NumCols * h.NumDepth
}

// IsAllValid reports whether every pixel is valid.
func (h *Header) IsAllValid() bool {
	return h.NumValidPixels == h.NumPixels()
}

// Size returns the encoded size of the header.
func (h *Header) Size() int {
	return HeaderSize(h.Version)
}

// ReadVersion checks the file key and returns the version field of data
// without interpreting the rest of the header.
func ReadVersion(data []byte) (int, error) {
	if len(data) < len(FileKey) {
		if bytes.HasPrefix([]byte(FileKey), data) {
			return 0, fmt.Errorf("%w: %d bytes, file key needs %d", errs.ErrTruncated, len(data), len(FileKey))
		}

		return 0, fmt.Errorf("%w: %q", errs.ErrBadMagic, data)
	}
	if string(data[:len(FileKey)]) != FileKey {
		return 0, fmt.Errorf("%w: %q", errs.ErrBadMagic, data[:len(FileKey)])
	}
	if len(data) < prefixSize {
		return 0, fmt.Errorf("%w: %d bytes, version field ends at %d", errs.ErrTruncated, len(data), prefixSize)
	}

	engine := endian.GetLittleEndianEngine()

	return int(int32(engine.Uint32(data[versionOffset:]))), nil
}

// ParseHeader parses and validates the header at the start of data.
//
// Only the header bytes are read: a blob shorter than its declared BlobSize is
// not an error here.
//
// Parameters:
//   - data: Byte slice starting with a LERC2 file key
//
// Returns:
//   - Header: The decoded header
//   - error: ErrBadMagic, ErrUnsupportedVersion, ErrTruncated or ErrInvalidHeader
func ParseHeader(data []byte) (Header, error) {
	var h Header

	version, err := ReadVersion(data)
	if err != nil {
		return h, err
	}
	if version < MinVersion || version > MaxVersion {
		return h, fmt.Errorf("%w: %d (supported %d..%d)", errs.ErrUnsupportedVersion, version, MinVersion, MaxVersion)
	}
	h.Version = version

	size := HeaderSize(version)
	if len(data) < size {
		return h, fmt.Errorf("%w: header of version %d needs %d bytes, have %d", errs.ErrTruncated, version, size, len(data))
	}

	// every read below is within size bytes
	r := bitio.NewByteReader(data[prefixSize:size])
	if version >= 3 {
		h.Checksum, _ = r.ReadUint32()
	}

	nInts := 6
	if version >= 4 {
		nInts++
	}
	if version >= 6 {
		nInts++
	}
	ints := make([]int, nInts)
	for i := range ints {
		v, _ := r.ReadInt32()
		ints[i] = int(v)
	}

	i := 0
	next := func() int { v := ints[i]; i++; return v }
	h.NumRows = next()
	h.NumCols = next()
	h.NumDepth = 1
	if version >= 4 {
		h.NumDepth = next()
	}
	h.NumValidPixels = next()
	h.MicroBlockSize = next()
	h.BlobSize = next()
	h.DataType = format.DataType(next())
	if version >= 6 {
		h.BlobsMore = next()

		flags, _ := r.Next(4)
		h.PassNoData = flags[0] != 0
		h.IsInt = flags[1] != 0
	}

	h.MaxZError, _ = r.ReadFloat64()
	h.ZMin, _ = r.ReadFloat64()
	h.ZMax, _ = r.ReadFloat64()
	if version >= 6 {
		h.NoDataValue, _ = r.ReadFloat64()
		h.NoDataValueOrig, _ = r.ReadFloat64()
	}

	if err := h.Validate(); err != nil {
		return h, err
	}

	return h, nil
}

// Validate checks the header fields for consistency.
func (h *Header) Validate() error {
	switch {
	case h.NumRows <= 0 || h.NumCols <= 0 || h.NumDepth <= 0:
		return fmt.Errorf("%w: dimensions %dx%dx%d", errs.ErrInvalidHeader, h.NumRows, h.NumCols, h.NumDepth)
	case h.NumRows > math.MaxInt32/h.NumCols:
		return fmt.Errorf("%w: %dx%d pixels overflow", errs.ErrInvalidHeader, h.NumRows, h.NumCols)
	case h.NumValidPixels < 0 || h.NumValidPixels > h.NumPixels():
		return fmt.Errorf("%w: %d valid pixels of %d", errs.ErrInvalidHeader, h.NumValidPixels, h.NumPixels())
	case h.MicroBlockSize <= 0:
		return fmt.Errorf("%w: micro block size %d", errs.ErrInvalidHeader, h.MicroBlockSize)
	case h.BlobSize < h.Size():
		return fmt.Errorf("%w: blob size %d smaller than header", errs.ErrInvalidHeader, h.BlobSize)
	case !h.DataType.IsValid():
		return fmt.Errorf("%w: data type %d", errs.ErrInvalidHeader, h.DataType)
	case h.BlobsMore < 0:
		return fmt.Errorf("%w: %d blobs more", errs.ErrInvalidHeader, h.BlobsMore)
	case !(h.MaxZError >= 0):
		return fmt.Errorf("%w: max z error %v", errs.ErrInvalidHeader, h.MaxZError)
	}

	return nil
}

// Bytes serializes the header. The checksum field is written as stored in h;
// see ComputeChecksum.
func (h *Header) Bytes() []byte {
	engine := endian.GetLittleEndianEngine()

	buf := make([]byte, 0, h.Size())
	buf = append(buf, FileKey...)
	buf = engine.AppendUint32(buf, uint32(int32(h.Version)))
	if h.Version >= 3 {
		buf = engine.AppendUint32(buf, h.Checksum)
	}

	ints := []int{h.NumRows, h.NumCols}
	if h.Version >= 4 {
		ints = append(ints, h.NumDepth)
	}
	ints = append(ints, h.NumValidPixels, h.MicroBlockSize, h.BlobSize, int(h.DataType))
	if h.Version >= 6 {
		ints = append(ints, h.BlobsMore)
	}
	for _, v := range ints {
		buf = engine.AppendUint32(buf, uint32(int32(v)))
	}

	if h.Version >= 6 {
		buf = append(buf, boolByte(h.PassNoData), boolByte(h.IsInt), 0, 0)
	}

	dbls := []float64{h.MaxZError, h.ZMin, h.ZMax}
	if h.Version >= 6 {
		dbls = append(dbls, h.NoDataValue, h.NoDataValueOrig)
	}
	for _, v := range dbls {
		buf = engine.AppendUint64(buf, math.Float64bits(v))
	}

	return buf
}

func boolByte(b bool) byte {
	if b {
		return 1
	}

	return 0
}
