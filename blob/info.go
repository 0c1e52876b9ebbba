package blob

import (
	"fmt"
	"strings"

	"github.com/arloliu/lerc/endian"
	"github.com/arloliu/lerc/errs"
	"github.com/arloliu/lerc/format"
	"github.com/arloliu/lerc/internal/options"
	"github.com/arloliu/lerc/section"
)

// BandInfo describes one band blob inside a blob.
type BandInfo struct {
	section.Header

	// Offset is the byte position of the band's file key.
	Offset int
	// MaskSize is the declared length of the band's mask stream. A partially
	// valid band with MaskSize 0 reuses the previous band's mask.
	MaskSize int
}

// InheritsMask reports whether the band reuses the previous band's mask.
func (b *BandInfo) InheritsMask() bool {
	return b.NumValidPixels > 0 && !b.IsAllValid() && b.MaskSize == 0
}

// BlobInfo summarises a blob without decoding pixel data.
type BlobInfo struct {
	Version        int // version of the first band
	NumRows        int
	NumCols        int
	NumDepth       int
	NumBands       int
	DataType       format.DataType
	NumValidPixels int // valid pixels of the first band
	MicroBlockSize int

	// MaxZError is the largest error bound of any band; ZMin and ZMax span the
	// valid values of all bands.
	MaxZError float64
	ZMin      float64
	ZMax      float64

	// NumMasks is 0 when every pixel of every band is valid, 1 when all bands
	// share one mask, and NumBands otherwise.
	NumMasks int
	// BlobSize is the number of bytes taken by all bands.
	BlobSize int

	Bands []BandInfo
}

// NumPixels returns rows*cols.
func (i *BlobInfo) NumPixels() int {
	return i.NumRows * i.NumCols
}

// NumValues returns the length of the decoded pixel buffer.
func (i *BlobInfo) NumValues() int {
	return i.NumRows * i.NumCols * i.NumDepth * i.NumBands
}

// exceeds reports whether the decoded buffer would hold more than limit values.
func (i *BlobInfo) exceeds(limit int) bool {
	perDepth := int64(i.NumRows) * int64(i.NumCols)
	if int64(i.NumDepth) > int64(limit)/perDepth {
		return true
	}
	perBand := perDepth * int64(i.NumDepth)

	return int64(i.NumBands) > int64(limit)/perBand
}

// GetBlobInfo parses the band headers of a blob.
//
// Only headers and mask lengths are read; checksums are not verified and no
// pixel data is decoded. WithCompression unwraps an outer container first.
//
// Parameters:
//   - data: Blob bytes
//   - opts: Decoder options
//
// Returns:
//   - BlobInfo: Summary of all bands
//   - error: Header errors, errs.ErrTruncated when a declared band is missing
func GetBlobInfo(data []byte, opts ...DecoderOption) (BlobInfo, error) {
	cfg, err := options.Build(NewDecoderConfig, opts...)
	if err != nil {
		return BlobInfo{}, err
	}
	raw, err := cfg.codec.Decompress(data)
	if err != nil {
		return BlobInfo{}, fmt.Errorf("%s decompression: %w", cfg.compression, err)
	}

	return readBlobInfo(raw)
}

func readBlobInfo(data []byte) (BlobInfo, error) {
	bands, size, err := scanBands(data)
	if err != nil {
		return BlobInfo{}, err
	}

	first := &bands[0].Header
	info := BlobInfo{
		Version:        first.Version,
		NumRows:        first.NumRows,
		NumCols:        first.NumCols,
		NumDepth:       first.NumDepth,
		NumBands:       len(bands),
		DataType:       first.DataType,
		NumValidPixels: first.NumValidPixels,
		MicroBlockSize: first.MicroBlockSize,
		MaxZError:      first.MaxZError,
		BlobSize:       size,
		Bands:          bands,
	}

	seen := false
	for i := range bands {
		h := &bands[i].Header
		info.MaxZError = max(info.MaxZError, h.MaxZError)
		if h.NumValidPixels == 0 {
			continue
		}
		if !seen {
			info.ZMin, info.ZMax = h.ZMin, h.ZMax
			seen = true

			continue
		}
		info.ZMin = min(info.ZMin, h.ZMin)
		info.ZMax = max(info.ZMax, h.ZMax)
	}
	info.NumMasks = countMasks(bands)

	return info, nil
}

// scanBands walks the concatenated band blobs and returns them with the total
// number of bytes they span.
func scanBands(data []byte) ([]BandInfo, int, error) {
	engine := endian.GetLittleEndianEngine()

	var bands []BandInfo
	pos := 0
	for {
		h, err := section.ParseHeader(data[pos:])
		if err != nil {
			return nil, 0, fmt.Errorf("band %d: %w", len(bands), err)
		}
		if h.BlobSize > len(data)-pos {
			return nil, 0, fmt.Errorf("band %d: %w: blob size %d, %d bytes left", len(bands), errs.ErrTruncated, h.BlobSize, len(data)-pos)
		}

		if err := checkPayload(data[pos:pos+h.BlobSize], &h, len(bands) == 0); err != nil {
			return nil, 0, fmt.Errorf("band %d: %w", len(bands), err)
		}

		band := BandInfo{Header: h, Offset: pos}
		if maskAt := pos + h.Size(); h.BlobSize >= h.Size()+4 {
			band.MaskSize = int(int32(engine.Uint32(data[maskAt:])))
		}
		if len(bands) > 0 {
			if err := checkSameShape(&bands[0].Header, &h); err != nil {
				return nil, 0, fmt.Errorf("band %d: %w", len(bands), err)
			}
		}
		bands = append(bands, band)
		pos += h.BlobSize

		if h.Version >= 6 {
			if h.BlobsMore == 0 {
				break
			}
			if pos >= len(data) {
				return nil, 0, fmt.Errorf("band %d: %w: %d more bands declared", len(bands), errs.ErrTruncated, h.BlobsMore)
			}

			continue
		}

		rest := data[pos:]
		if len(rest) >= len(section.FileKey) {
			if string(rest[:len(section.FileKey)]) == section.FileKey {
				continue
			}

			break
		}
		if len(rest) > 0 && strings.HasPrefix(section.FileKey, string(rest)) {
			return nil, 0, fmt.Errorf("band %d: %w: partial file key", len(bands), errs.ErrTruncated)
		}

		break
	}

	return bands, pos, nil
}

func checkSameShape(first, h *section.Header) error {
	if h.NumRows != first.NumRows || h.NumCols != first.NumCols || h.NumDepth != first.NumDepth {
		return fmt.Errorf("%w: band is %dx%dx%d, first band %dx%dx%d", errs.ErrInvalidHeader,
			h.NumRows, h.NumCols, h.NumDepth, first.NumRows, first.NumCols, first.NumDepth)
	}
	if h.DataType != first.DataType {
		return fmt.Errorf("%w: band type %s, first band %s", errs.ErrInvalidHeader, h.DataType, first.DataType)
	}

	return nil
}

func countMasks(bands []BandInfo) int {
	allValid := true
	for i := range bands {
		if !bands[i].IsAllValid() {
			allValid = false
			break
		}
	}
	if allValid {
		return 0
	}
	if len(bands) == 1 {
		return 1
	}

	first := &bands[0]
	for i := 1; i < len(bands); i++ {
		b := &bands[i]
		shared := b.InheritsMask() || (b.NumValidPixels == 0 && first.NumValidPixels == 0)
		if !shared {
			return len(bands)
		}
	}

	return 1
}
