package bitio

import (
	"encoding/binary"
	"fmt"

	"github.com/arloliu/lerc/errs"
)

// Reader reads bits most-significant first from a sequence of little-endian
// 32-bit words, the layout used by LERC2 Huffman streams and legacy bit stuffing.
//
// Only whole words are addressable: a trailing partial word is not part of the
// stream. Reads past the last word fail with errs.ErrTruncated.
type Reader struct {
	buf    []byte
	nWords int
	word   int
	bit    int
}

// NewReader creates a Reader over the whole words of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf, nWords: len(buf) / 4}
}

// Word returns the i-th 32-bit word, or 0 if i is past the end.
func (r *Reader) Word(i int) uint32 {
	if i < 0 || i >= r.nWords {
		return 0
	}

	return binary.LittleEndian.Uint32(r.buf[i*4:])
}

// Position returns the current word index and the number of bits already
// consumed from that word.
func (r *Reader) Position() (word, bit int) {
	return r.word, r.bit
}

// BitsLeft returns the number of unread bits.
func (r *Reader) BitsLeft() int {
	return (r.nWords-r.word)*32 - r.bit
}

// ConsumedBytes returns the byte length of the words touched so far, counting a
// partially consumed word as whole.
func (r *Reader) ConsumedBytes() int {
	n := r.word * 4
	if r.bit > 0 {
		n += 4
	}

	return n
}

// CanFastPeek reports whether the two words under the cursor are both present,
// which is the precondition of WindowUnchecked.
func (r *Reader) CanFastPeek() bool {
	return r.word+2 <= r.nWords
}

// WindowUnchecked returns the 64 bits starting at the current word, shifted so
// that the next unread bit is the most significant one.
// The caller must have checked CanFastPeek.
func (r *Reader) WindowUnchecked() uint64 {
	// CanFastPeek holds: buf[word*4 : word*4+8] is in range.
	b := r.buf[r.word*4 : r.word*4+8 : r.word*4+8]
	w := uint64(binary.LittleEndian.Uint32(b))<<32 | uint64(binary.LittleEndian.Uint32(b[4:]))

	return w << uint(r.bit)
}

// Window is the checked variant of WindowUnchecked: missing words read as zero.
func (r *Reader) Window() uint64 {
	w := uint64(r.Word(r.word))<<32 | uint64(r.Word(r.word+1))
	return w << uint(r.bit)
}

// Peek returns the next n bits (1..32) without consuming them. Bits past the end
// of the stream read as zero.
func (r *Reader) Peek(n int) uint32 {
	return uint32(r.Window() >> (64 - uint(n)))
}

// Skip consumes n bits.
func (r *Reader) Skip(n int) error {
	if n < 0 || n > r.BitsLeft() {
		return fmt.Errorf("%w: need %d bits, have %d", errs.ErrTruncated, n, r.BitsLeft())
	}
	r.advance(n)

	return nil
}

// Consume advances the cursor by n bits without a bounds check. The caller must
// know that n bits are present, for example from CanFastPeek and n <= 32.
func (r *Reader) Consume(n int) {
	r.advance(n)
}

func (r *Reader) advance(n int) {
	r.bit += n
	r.word += r.bit >> 5
	r.bit &= 31
}

// ReadBits consumes and returns the next n bits (0..32).
func (r *Reader) ReadBits(n int) (uint32, error) {
	if n == 0 {
		return 0, nil
	}
	if n > 32 {
		return 0, fmt.Errorf("%w: %d bits", errs.ErrInvalidBitWidth, n)
	}
	if n > r.BitsLeft() {
		return 0, fmt.Errorf("%w: need %d bits, have %d", errs.ErrTruncated, n, r.BitsLeft())
	}
	v := r.Peek(n)
	r.advance(n)

	return v, nil
}
