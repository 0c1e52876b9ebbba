package compress

import (
	"fmt"

	"github.com/arloliu/lerc/errs"
	"github.com/arloliu/lerc/format"
)

// Compressor wraps a LERC2 blob in an outer container codec.
//
// The library itself only decodes; compressors exist so that callers and tests
// can produce the LERC_DEFLATE / LERC_ZSTD style containers GDAL writes.
//
// Memory management:
//   - Returned slice is newly allocated and owned by the caller
//   - Input slice is not modified
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor unwraps an outer container and returns the bare LERC2 blob.
//
// Example:
//
//	codec, err := compress.GetCodec(format.CompressionDeflate)
//	if err != nil {
//	    return err
//	}
//	blob, err := codec.Decompress(payload)
//	if err != nil {
//	    return fmt.Errorf("unwrap lerc blob: %w", err)
//	}
//
// Thread Safety: every Decompressor in this package is safe for concurrent use.
type Decompressor interface {
	// Decompress returns the original bytes of data.
	//
	// Error conditions:
	//   - Returns error if input data is corrupted or invalid
	//   - Returns error if data was compressed with a different algorithm
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec creates a new Codec for the specified compression type.
//
// Parameters:
//   - compressionType: Type of compression (None, Zstd, S2, LZ4 or Deflate)
//   - target: Description of target usage (for error messages)
//
// Returns:
//   - Codec: Codec instance for the specified type
//   - error: errs.ErrInvalidCompression for unknown types
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	case format.CompressionDeflate:
		return NewDeflateCompressor(), nil
	default:
		return nil, fmt.Errorf("%w: %s for %s", errs.ErrInvalidCompression, compressionType, target)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone:    NewNoOpCompressor(),
	format.CompressionZstd:    NewZstdCompressor(),
	format.CompressionS2:      NewS2Compressor(),
	format.CompressionLZ4:     NewLZ4Compressor(),
	format.CompressionDeflate: NewDeflateCompressor(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrInvalidCompression, compressionType)
}
