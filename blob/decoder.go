package blob

import (
	"fmt"
	"slices"

	"github.com/arloliu/lerc/bitmask"
	"github.com/arloliu/lerc/errs"
	"github.com/arloliu/lerc/format"
	"github.com/arloliu/lerc/internal/options"
)

// Decoder decodes a LERC2 blob into typed pixels and validity masks.
//
// NewDecoder unwraps the outer container and parses every band header; Decode
// then decodes all bands atomically. The decoder never writes to its input and
// keeps no state between Decode calls, so Decode may be called repeatedly and
// from several goroutines.
type Decoder struct {
	cfg  *DecoderConfig
	data []byte
	info BlobInfo
}

// NewDecoder creates a decoder for data.
//
// Parameters:
//   - data: Blob bytes, optionally wrapped in the codec given by WithCompression
//   - opts: Decoder options
//
// Returns:
//   - *Decoder: Decoder ready to decode
//   - error: Option errors, decompression errors, header errors, or
//     errs.ErrTooLarge when the raster exceeds WithMaxPixels
func NewDecoder(data []byte, opts ...DecoderOption) (*Decoder, error) {
	cfg, err := options.Build(NewDecoderConfig, opts...)
	if err != nil {
		return nil, err
	}

	raw, err := cfg.codec.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("%s decompression: %w", cfg.compression, err)
	}

	info, err := readBlobInfo(raw)
	if err != nil {
		return nil, err
	}
	if info.exceeds(cfg.maxPixels) {
		return nil, fmt.Errorf("%w: %dx%dx%d in %d bands, limit %d values", errs.ErrTooLarge,
			info.NumRows, info.NumCols, info.NumDepth, info.NumBands, cfg.maxPixels)
	}

	return &Decoder{cfg: cfg, data: raw, info: info}, nil
}

// Info returns the blob summary parsed by NewDecoder.
func (d *Decoder) Info() BlobInfo {
	info := d.info
	info.Bands = slices.Clone(info.Bands)

	return info
}

// Decode decodes every band of the blob.
//
// Returns:
//   - *Result: Pixels, masks and blob info
//   - error: The first band error, wrapped with the band index and stage
func (d *Decoder) Decode() (*Result, error) {
	switch d.info.DataType {
	case format.TypeInt8:
		return decodeAs[int8, Int8Pixels](d)
	case format.TypeUint8:
		return decodeAs[uint8, Uint8Pixels](d)
	case format.TypeInt16:
		return decodeAs[int16, Int16Pixels](d)
	case format.TypeUint16:
		return decodeAs[uint16, Uint16Pixels](d)
	case format.TypeInt32:
		return decodeAs[int32, Int32Pixels](d)
	case format.TypeUint32:
		return decodeAs[uint32, Uint32Pixels](d)
	case format.TypeFloat32:
		return decodeAs[float32, Float32Pixels](d)
	case format.TypeFloat64:
		return decodeAs[float64, Float64Pixels](d)
	default:
		return nil, fmt.Errorf("%w: data type %d", errs.ErrInvalidHeader, d.info.DataType)
	}
}

func decodeAs[T number, P interface {
	~[]T
	Pixels
}](d *Decoder) (*Result, error) {
	px, masks, err := decodeBands[T](d)
	if err != nil {
		return nil, err
	}

	return newResult(P(px), masks, d.Info())
}

// decodeBands decodes all bands into one buffer. A band inherits the mask of
// the band before it only within this call.
func decodeBands[T number](d *Decoder) ([]T, []*bitmask.BitMask, error) {
	info := &d.info
	perBand := info.NumPixels() * info.NumDepth
	out := make([]T, perBand*info.NumBands)
	masks := make([]*bitmask.BitMask, info.NumBands)
	conv := newConverter[T](info.DataType)

	var prev *bitmask.BitMask
	for i := range info.Bands {
		bd := newBandDecoder(i, &info.Bands[i], d.data, out[i*perBand:(i+1)*perBand], conv)
		if err := bd.run(prev, i > 0, d.cfg.verifyChecksum); err != nil {
			return nil, nil, err
		}
		masks[i] = bd.mask
		prev = bd.mask
	}

	return out, masks, nil
}

// GetDecodedSize returns the number of values Decode produces for data. It is a
// convenience over GetBlobInfo for sizing caller buffers.
func GetDecodedSize(data []byte, opts ...DecoderOption) (int, error) {
	info, err := GetBlobInfo(data, opts...)
	if err != nil {
		return 0, err
	}

	return info.NumValues(), nil
}
