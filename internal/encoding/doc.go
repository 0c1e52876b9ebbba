// Package encoding implements the entropy and bit-level codecs of LERC2 band
// payloads.
//
//   - DecodeRLE and DecodeMaskRLE expand the byte run-length stream of the
//     validity mask.
//   - BitStuffer decodes BitStuffer2 blocks, in the least-significant-bit-first
//     layout of version 3 and later or the legacy layout of version 2, with or
//     without a lookup table.
//   - Huffman decodes canonical Huffman codes of 8-bit bands. Short codes
//     resolve with one table lookup, long codes walk an index-addressed tree.
//
// The decoders read from bitio readers and never write to their input.
package encoding
