// Package section defines the low-level binary structures of a LERC2 blob.
//
// A LERC2 blob is a little-endian byte sequence:
//
//	┌──────────────────────────────────────────────────────────┐
//	│ File key "Lerc2 " (6 bytes)                              │
//	│ Version (int32)                                          │
//	│ Checksum (uint32, v3+) over bytes [14, blobSize)         │
//	│ nRows, nCols, [nDepth v4+], numValidPixel,               │
//	│ microBlockSize, blobSize, dataType, [nBlobsMore v6+]     │
//	│ [passNoData, isInt, 2 reserved bytes v6+]                │
//	│ maxZError, zMin, zMax, [noData, noDataOrig v6+] (f64)    │
//	├──────────────────────────────────────────────────────────┤
//	│ Mask: numBytesMask (int32) + RLE bytes                   │
//	├──────────────────────────────────────────────────────────┤
//	│ [v4+] per-depth zMin and zMax values                     │
//	│ readDataOneSweep (1 byte)                                │
//	│ [imageEncodeMode (1 byte) when Huffman is possible]      │
//	│ Pixel payload: raw values, tiles or Huffman stream       │
//	└──────────────────────────────────────────────────────────┘
//
// Several blobs may be concatenated to carry the bands of one raster.
//
// This package parses and serializes the header, verifies the checksum and
// interprets the per-tile flag byte. Payload decoding lives in package blob.
package section
