// Package compress provides the outer container codecs that may wrap a LERC2 blob.
//
// GDAL and tile servers frequently store LERC2 blobs inside a second, general
// purpose compression layer (LERC_DEFLATE, LERC_ZSTD). The blob decoder accepts
// such payloads through blob.WithCompression, which looks the codec up here and
// unwraps the payload before the LERC2 header is parsed.
//
// # Supported Algorithms
//
//   - None (format.CompressionNone): bare blob, passed through without a copy
//   - Deflate (format.CompressionDeflate): zlib stream, klauspost/compress/zlib
//   - Zstd (format.CompressionZstd): klauspost/compress/zstd, or valyala/gozstd
//     when built with cgo and the gozstd tag
//   - S2 (format.CompressionS2): klauspost/compress/s2
//   - LZ4 (format.CompressionLZ4): pierrec/lz4 block format
//
// # Codecs
//
// Every codec implements Codec, a Compress and Decompress pair over whole
// byte slices. Compress exists so tests and tools can build wrapped fixtures;
// the decoder only calls Decompress. GetCodec returns the shared built-in
// instance for a compression type, and CreateCodec validates a type for a
// named consumer.
//
// Built-in codecs are stateless values. Zstd coders and LZ4 compressors are
// pooled internally; nothing pooled is visible in returned slices.
//
// # Example
//
//	codec, err := compress.GetCodec(format.CompressionDeflate)
//	if err != nil {
//	    return err
//	}
//	blob, err := codec.Decompress(payload)
//
// Decompress output is capped at 1 GiB for every codec, ahead
// of the blob's own WithMaxPixels limit.
package compress
