// Package lerc decodes LERC2 (Limited Error Raster Compression) blobs.
//
// LERC2 stores raster tiles such as elevation models and imagery with a
// per-blob bound on the absolute error of every pixel. A blob holds one or more
// bands of identical shape; each band carries a validity mask and pixel data
// of one of eight element types.
//
// # Core Features
//
//   - Format versions 2 through 6, including multi-band and multi-depth blobs
//   - Fletcher-32 checksum verification (v3+)
//   - Bit-stuffed micro block tiles, lookup tables and depth differences
//   - Canonical Huffman coding of 8-bit bands
//   - Optional outer compression (Deflate, Zstd, S2, LZ4)
//   - Typed pixel buffers without reflection
//
// # Basic Usage
//
// Inspecting a blob:
//
//	info, err := lerc.GetBlobInfo(data)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%dx%d %s, %d bands\n", info.NumCols, info.NumRows, info.DataType, info.NumBands)
//
// Decoding pixels:
//
//	res, err := lerc.Decode(data)
//	if err != nil {
//	    return err
//	}
//	elevation := res.Pixels.(blob.Float32Pixels)
//	for k := range elevation {
//	    if res.Valid(0, k) {
//	        use(elevation[k])
//	    }
//	}
//
// Decoding a LERC_DEFLATE tile:
//
//	res, err := lerc.DecodeCompressed(tile, format.CompressionDeflate)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the blob package.
// For repeated decodes of one blob or inspection of individual bands, use
// blob.NewDecoder directly.
package lerc

import (
	"github.com/arloliu/lerc/blob"
	"github.com/arloliu/lerc/format"
)

// GetBlobInfo parses the band headers of a LERC2 blob without decoding pixel
// data.
//
// Parameters:
//   - data: Blob bytes
//   - opts: Decoder options (see blob.DecoderOption)
//
// Returns:
//   - blob.BlobInfo: Dimensions, data type, value range and per-band headers
//   - error: An error wrapping one of the errs sentinels
func GetBlobInfo(data []byte, opts ...blob.DecoderOption) (blob.BlobInfo, error) {
	return blob.GetBlobInfo(data, opts...)
}

// Decode decodes every band of a LERC2 blob.
//
// Parameters:
//   - data: Blob bytes
//   - opts: Decoder options (see blob.DecoderOption)
//
// Returns:
//   - *blob.Result: Typed pixels, validity masks and blob info
//   - error: An error wrapping one of the errs sentinels; no partial result is
//     returned
//
// Available options:
//   - blob.WithChecksum(false) skips checksum verification
//   - blob.WithCompression(ct) unwraps an outer container first
//   - blob.WithMaxPixels(n) bounds the decoded buffer
func Decode(data []byte, opts ...blob.DecoderOption) (*blob.Result, error) {
	dec, err := blob.NewDecoder(data, opts...)
	if err != nil {
		return nil, err
	}

	return dec.Decode()
}

// DecodeCompressed decodes a blob wrapped in an outer container, as stored in
// LERC_DEFLATE and LERC_ZSTD raster tiles. It is Decode with
// blob.WithCompression(compression) prepended to opts.
func DecodeCompressed(data []byte, compression format.CompressionType, opts ...blob.DecoderOption) (*blob.Result, error) {
	all := make([]blob.DecoderOption, 0, len(opts)+1)
	all = append(all, blob.WithCompression(compression))
	all = append(all, opts...)

	return Decode(data, all...)
}

// GetDecodedSize returns the number of values Decode produces for data.
func GetDecodedSize(data []byte, opts ...blob.DecoderOption) (int, error) {
	return blob.GetDecodedSize(data, opts...)
}
