// Package blob decodes LERC2 raster blobs.
//
// A blob is one or more band blobs of identical shape and data type. Each band
// carries a header, a run-length coded validity mask and pixel data coded in one
// of several ways: a constant, raw values, micro block tiles of bit-stuffed
// quantized codes, or Huffman codes for 8-bit lossless data.
//
// # Decoding
//
//	dec, err := blob.NewDecoder(data)
//	if err != nil {
//	    return err
//	}
//	res, err := dec.Decode()
//	if err != nil {
//	    return err
//	}
//	px := res.Pixels.(blob.Float32Pixels)
//
// Use GetBlobInfo to inspect a blob without decoding pixels, and
// WithCompression for blobs stored inside a zlib or zstd container.
//
// # Layout
//
// Decoded values are band-major, then row-major, with the depth values of each
// pixel adjacent. Pixels marked invalid by the mask are zero. Result.BandMasks
// carries the mask of every band, and Result.Mask their intersection.
//
// # Errors
//
// Every error wraps one of the sentinels in package errs. Band errors name the
// band and the stage that failed:
//
//	band 1: decoding pixel data: tile at row 8 col 0 depth 0: corrupt pixel data: ...
//
// A failed decode returns no partial result.
package blob
