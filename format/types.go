// Package format defines the enumerations shared by the lerc packages.
package format

import "math"

type (
	// DataType is the LERC2 pixel element type code stored in the blob header.
	DataType uint8
	// CompressionType identifies the outer container codec wrapping a LERC2 blob.
	CompressionType uint8
	// ImageEncodeMode selects how a band's pixel payload is coded.
	ImageEncodeMode uint8
)

const (
	TypeInt8    DataType = 0 // TypeInt8 is a signed 8-bit pixel ("char").
	TypeUint8   DataType = 1 // TypeUint8 is an unsigned 8-bit pixel ("byte").
	TypeInt16   DataType = 2 // TypeInt16 is a signed 16-bit pixel.
	TypeUint16  DataType = 3 // TypeUint16 is an unsigned 16-bit pixel.
	TypeInt32   DataType = 4 // TypeInt32 is a signed 32-bit pixel.
	TypeUint32  DataType = 5 // TypeUint32 is an unsigned 32-bit pixel.
	TypeFloat32 DataType = 6 // TypeFloat32 is an IEEE 754 single precision pixel.
	TypeFloat64 DataType = 7 // TypeFloat64 is an IEEE 754 double precision pixel.

	CompressionNone    CompressionType = 0x1 // CompressionNone represents a bare LERC2 blob.
	CompressionZstd    CompressionType = 0x2 // CompressionZstd represents a Zstandard wrapped blob.
	CompressionS2      CompressionType = 0x3 // CompressionS2 represents an S2 wrapped blob.
	CompressionLZ4     CompressionType = 0x4 // CompressionLZ4 represents an LZ4 block wrapped blob.
	CompressionDeflate CompressionType = 0x5 // CompressionDeflate represents a zlib wrapped blob (LERC_DEFLATE).

	ModeTiling            ImageEncodeMode = 0 // ModeTiling codes pixels in micro blocks.
	ModeDeltaHuffman      ImageEncodeMode = 1 // ModeDeltaHuffman codes spatial deltas with Huffman.
	ModeHuffman           ImageEncodeMode = 2 // ModeHuffman codes raw 8-bit values with Huffman.
	ModeDeltaDeltaHuffman ImageEncodeMode = 3 // ModeDeltaDeltaHuffman is the float lossless coder.
)

// IsValid reports whether d is one of the eight LERC2 data types.
func (d DataType) IsValid() bool {
	return d <= TypeFloat64
}

// Size returns the element width in bytes, or 0 for an invalid type.
func (d DataType) Size() int {
	switch d {
	case TypeInt8, TypeUint8:
		return 1
	case TypeInt16, TypeUint16:
		return 2
	case TypeInt32, TypeUint32, TypeFloat32:
		return 4
	case TypeFloat64:
		return 8
	default:
		return 0
	}
}

// IsSigned reports whether d can hold negative values.
func (d DataType) IsSigned() bool {
	switch d { //nolint: exhaustive
	case TypeUint8, TypeUint16, TypeUint32:
		return false
	default:
		return d.IsValid()
	}
}

// IsFloat reports whether d is a floating point type.
func (d DataType) IsFloat() bool {
	return d == TypeFloat32 || d == TypeFloat64
}

// Range returns the smallest and largest finite values representable by d.
func (d DataType) Range() (lo, hi float64) {
	switch d {
	case TypeInt8:
		return math.MinInt8, math.MaxInt8
	case TypeUint8:
		return 0, math.MaxUint8
	case TypeInt16:
		return math.MinInt16, math.MaxInt16
	case TypeUint16:
		return 0, math.MaxUint16
	case TypeInt32:
		return math.MinInt32, math.MaxInt32
	case TypeUint32:
		return 0, math.MaxUint32
	case TypeFloat32:
		return -math.MaxFloat32, math.MaxFloat32
	default:
		return -math.MaxFloat64, math.MaxFloat64
	}
}

func (d DataType) String() string {
	switch d {
	case TypeInt8:
		return "Int8"
	case TypeUint8:
		return "Uint8"
	case TypeInt16:
		return "Int16"
	case TypeUint16:
		return "Uint16"
	case TypeInt32:
		return "Int32"
	case TypeUint32:
		return "Uint32"
	case TypeFloat32:
		return "Float32"
	case TypeFloat64:
		return "Float64"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	case CompressionDeflate:
		return "Deflate"
	default:
		return "Unknown"
	}
}

func (m ImageEncodeMode) String() string {
	switch m {
	case ModeTiling:
		return "Tiling"
	case ModeDeltaHuffman:
		return "DeltaHuffman"
	case ModeHuffman:
		return "Huffman"
	case ModeDeltaDeltaHuffman:
		return "DeltaDeltaHuffman"
	default:
		return "Unknown"
	}
}
