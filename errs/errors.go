// Package errs defines the sentinel errors returned by the lerc packages.
//
// Every error produced while parsing or decoding a blob wraps exactly one of these
// values, so callers can branch on the failure kind with errors.Is:
//
//	res, err := lerc.Decode(data)
//	if errors.Is(err, errs.ErrTruncated) {
//	    // re-fetch the blob
//	}
package errs

import "errors"

// Header errors.
var (
	ErrBadMagic           = errors.New("bad magic: not a LERC2 blob")
	ErrUnsupportedVersion = errors.New("unsupported LERC2 version")
	ErrInvalidHeader      = errors.New("invalid blob header")
	ErrChecksumMismatch   = errors.New("blob checksum mismatch")
	ErrTruncated          = errors.New("blob truncated")
	ErrTooLarge           = errors.New("decoded raster exceeds pixel limit")
)

// Mask errors.
var (
	ErrMaskLengthMismatch = errors.New("mask run lengths do not cover the raster")
	ErrMaskCountMismatch  = errors.New("mask population count does not match header")
)

// Payload errors.
var (
	ErrInvalidBitWidth     = errors.New("invalid bit width")
	ErrHuffmanTableCorrupt = errors.New("huffman code table corrupt")
	ErrCorruptData         = errors.New("corrupt pixel data")
	ErrUnsupportedFeature  = errors.New("unsupported feature")
	ErrArithmeticOverflow  = errors.New("dequantized value out of range for data type")
)

// ErrInvalidCompression is returned for unknown outer compression types.
var ErrInvalidCompression = errors.New("invalid compression type")
