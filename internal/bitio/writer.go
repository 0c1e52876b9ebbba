package bitio

import "encoding/binary"

// Writer packs bits most-significant first into little-endian 32-bit words. It is
// the inverse of Reader.
type Writer struct {
	words []uint32
	cur   uint32
	bit   int
}

// NewWriter creates an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteBits appends the low n bits (0..32) of v.
func (w *Writer) WriteBits(v uint32, n int) {
	if n == 0 {
		return
	}
	if n < 32 {
		v &= 1<<uint(n) - 1
	}
	free := 32 - w.bit
	if n <= free {
		w.cur |= uint32(uint64(v) << uint(free-n))
		w.bit += n
	} else {
		w.cur |= v >> uint(n-free)
		w.words = append(w.words, w.cur)
		w.cur = v << uint(32-(n-free))
		w.bit = n - free
	}
	if w.bit == 32 {
		w.words = append(w.words, w.cur)
		w.cur = 0
		w.bit = 0
	}
}

// BitLen returns the number of bits written.
func (w *Writer) BitLen() int {
	return len(w.words)*32 + w.bit
}

// Bytes returns the written words, including a partially filled last word, as
// little-endian bytes.
func (w *Writer) Bytes() []byte {
	out := make([]byte, 0, (len(w.words)+1)*4)
	for _, word := range w.words {
		out = binary.LittleEndian.AppendUint32(out, word)
	}
	if w.bit > 0 {
		out = binary.LittleEndian.AppendUint32(out, w.cur)
	}

	return out
}

// PackLSB packs values of width bits least-significant bit first, returning
// exactly PackedLen(len(values), bits) bytes. It is the inverse of UnpackLSB.
func PackLSB(values []uint32, bits int) []byte {
	out := make([]byte, 0, PackedLen(len(values), bits))
	var acc uint64
	var n int
	for _, v := range values {
		if bits < 32 {
			v &= 1<<uint(bits) - 1
		}
		acc |= uint64(v) << uint(n)
		n += bits
		for n >= 8 {
			out = append(out, byte(acc))
			acc >>= 8
			n -= 8
		}
	}
	if n > 0 {
		out = append(out, byte(acc))
	}

	return out
}

// PackLegacy packs values in the LERC2 v2 layout, returning exactly
// PackedLen(len(values), bits) bytes. It is the inverse of UnpackLegacy.
func PackLegacy(values []uint32, bits int) []byte {
	w := NewWriter()
	for _, v := range values {
		w.WriteBits(v, bits)
	}
	b := w.Bytes()
	need := PackedLen(len(values), bits)
	full := need / 4 * 4
	tail := need - full
	out := make([]byte, need)
	copy(out, b[:full])
	if tail > 0 {
		copy(out[full:], b[full+4-tail:full+4])
	}

	return out
}
