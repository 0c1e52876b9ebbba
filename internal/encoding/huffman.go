package encoding

import (
	"fmt"
	"math/bits"
	"slices"

	"github.com/arloliu/lerc/errs"
	"github.com/arloliu/lerc/internal/bitio"
)

const (
	// MaxHuffmanSymbols bounds the code table size declared in a stream.
	MaxHuffmanSymbols = 1 << 15

	huffmanMaxLUTBits = 12
	huffmanMaxCodeLen = 32
	huffmanMinVersion = 2
)

// HuffmanCode is one code table entry. Len 0 marks an absent symbol.
type HuffmanCode struct {
	Len  uint8
	Code uint32
}

type lutEntry struct {
	length int8 // 0: no short code has this prefix
	symbol uint16
}

// huffNode is a tree node addressed by index into Huffman.nodes. Index 0 is the
// root, and a zero child index means "no child".
type huffNode struct {
	child  [2]int32
	symbol int32 // -1 for inner nodes
}

// Huffman decodes symbols coded with a LERC2 Huffman code table.
//
// Codes up to 12 bits resolve with a single table lookup. Longer codes
// first skip the run of leading zero bits shared by every long code, then walk a
// binary tree stored as a flat node slice.
//
// A Huffman is immutable after construction and may be shared between readers.
type Huffman struct {
	codes   []HuffmanCode
	lut     []lutEntry
	lutBits int
	skip    int
	nodes   []huffNode
}

// ReadHuffmanTable reads a code table from r: four int32 fields (version, size,
// first and one-past-last symbol index), the bit-stuffed code lengths, and the
// codes themselves packed most-significant bit first.
//
// maxSymbols caps the declared table size; 8-bit bands pass 256.
func ReadHuffmanTable(r *bitio.ByteReader, version int, maxSymbols int) (*Huffman, error) {
	var hdr [4]int32
	for i := range hdr {
		v, err := r.ReadInt32()
		if err != nil {
			return nil, err
		}
		hdr[i] = v
	}
	tableVersion, size, i0, i1 := int(hdr[0]), int(hdr[1]), int(hdr[2]), int(hdr[3])

	if tableVersion < huffmanMinVersion {
		return nil, fmt.Errorf("%w: table version %d", errs.ErrHuffmanTableCorrupt, tableVersion)
	}
	if size <= 0 || size > MaxHuffmanSymbols || size > maxSymbols {
		return nil, fmt.Errorf("%w: table size %d", errs.ErrHuffmanTableCorrupt, size)
	}
	if i0 < 0 || i0 >= i1 || i1-1 >= 2*size {
		return nil, fmt.Errorf("%w: symbol range [%d, %d) for size %d", errs.ErrHuffmanTableCorrupt, i0, i1, size)
	}

	lengths, err := NewBitStuffer(version).Decode(r, i1-i0, nil)
	if err != nil {
		return nil, err
	}
	if len(lengths) != i1-i0 {
		return nil, fmt.Errorf("%w: %d code lengths for %d symbols", errs.ErrHuffmanTableCorrupt, len(lengths), i1-i0)
	}

	codes := make([]HuffmanCode, size)
	for i := i0; i < i1; i++ {
		l := lengths[i-i0]
		if l > huffmanMaxCodeLen {
			return nil, fmt.Errorf("%w: code length %d", errs.ErrHuffmanTableCorrupt, l)
		}
		codes[wrapIndex(i, size)].Len = uint8(l)
	}

	br := bitio.NewReader(r.Remaining())
	for i := i0; i < i1; i++ {
		c := &codes[wrapIndex(i, size)]
		if c.Len == 0 {
			continue
		}
		v, err := br.ReadBits(int(c.Len))
		if err != nil {
			return nil, err
		}
		c.Code = v
	}
	if err := r.Skip(br.ConsumedBytes()); err != nil {
		return nil, err
	}

	return NewHuffman(codes)
}

func wrapIndex(i, size int) int {
	if i < size {
		return i
	}

	return i - size
}

// NewHuffman builds a decoder from explicit codes, indexed by symbol.
func NewHuffman(codes []HuffmanCode) (*Huffman, error) {
	maxLen := 0
	var kraft uint64
	for sym, c := range codes {
		if c.Len == 0 {
			continue
		}
		if c.Len > huffmanMaxCodeLen {
			return nil, fmt.Errorf("%w: symbol %d has code length %d", errs.ErrHuffmanTableCorrupt, sym, c.Len)
		}
		if c.Len < 32 && c.Code>>c.Len != 0 {
			return nil, fmt.Errorf("%w: symbol %d code %#x wider than %d bits", errs.ErrHuffmanTableCorrupt, sym, c.Code, c.Len)
		}
		maxLen = max(maxLen, int(c.Len))
		kraft += 1 << (huffmanMaxCodeLen - uint(c.Len))
	}
	if maxLen == 0 {
		return nil, fmt.Errorf("%w: no symbols", errs.ErrHuffmanTableCorrupt)
	}
	if kraft > 1<<huffmanMaxCodeLen {
		return nil, fmt.Errorf("%w: code lengths are over-subscribed", errs.ErrHuffmanTableCorrupt)
	}

	h := &Huffman{
		codes:   codes,
		lutBits: min(maxLen, huffmanMaxLUTBits),
	}
	if err := h.buildLUT(); err != nil {
		return nil, err
	}
	if maxLen > h.lutBits {
		if err := h.buildTree(); err != nil {
			return nil, err
		}
	}

	return h, nil
}

// NewHuffmanFromLengths builds a decoder whose codes are assigned canonically
// from the code lengths, see CanonicalCodes.
func NewHuffmanFromLengths(lengths []uint8) (*Huffman, error) {
	codes, err := CanonicalCodes(lengths)
	if err != nil {
		return nil, err
	}

	return NewHuffman(codes)
}

func (h *Huffman) buildLUT() error {
	h.lut = make([]lutEntry, 1<<uint(h.lutBits))
	h.skip = huffmanMaxCodeLen
	for sym, c := range h.codes {
		l := int(c.Len)
		if l == 0 {
			continue
		}
		if l > h.lutBits {
			// leading zeros of the long code
			h.skip = min(h.skip, l-max(bits.Len32(c.Code), 1))
			continue
		}
		base := c.Code << uint(h.lutBits-l)
		n := uint32(1) << uint(h.lutBits-l)
		for j := range n {
			e := &h.lut[base|j]
			if e.length != 0 {
				return fmt.Errorf("%w: codes for symbols %d and %d collide", errs.ErrHuffmanTableCorrupt, e.symbol, sym)
			}
			*e = lutEntry{length: int8(l), symbol: uint16(sym)}
		}
	}

	return nil
}

func (h *Huffman) buildTree() error {
	h.nodes = append(h.nodes[:0], huffNode{symbol: -1})
	for sym, c := range h.codes {
		l := int(c.Len)
		if l <= h.lutBits {
			continue
		}
		if prefix := c.Code >> uint(l-h.lutBits); h.lut[prefix].length != 0 {
			return fmt.Errorf("%w: symbol %d shares a prefix with symbol %d", errs.ErrHuffmanTableCorrupt, sym, h.lut[prefix].symbol)
		}

		node := int32(0)
		for j := l - h.skip - 1; j >= 0; j-- {
			if h.nodes[node].symbol >= 0 {
				return fmt.Errorf("%w: symbol %d extends the code of symbol %d", errs.ErrHuffmanTableCorrupt, sym, h.nodes[node].symbol)
			}
			bit := (c.Code >> uint(j)) & 1
			next := h.nodes[node].child[bit]
			if next == 0 {
				next = int32(len(h.nodes))
				h.nodes = append(h.nodes, huffNode{symbol: -1})
				h.nodes[node].child[bit] = next
			}
			node = next
		}
		if n := &h.nodes[node]; n.symbol >= 0 || n.child != [2]int32{} {
			return fmt.Errorf("%w: code of symbol %d is not prefix free", errs.ErrHuffmanTableCorrupt, sym)
		}
		h.nodes[node].symbol = int32(sym)
	}

	return nil
}

// Codes returns the code table indexed by symbol.
func (h *Huffman) Codes() []HuffmanCode {
	return h.codes
}

// LUTBits returns the width of the short code lookup table.
func (h *Huffman) LUTBits() int {
	return h.lutBits
}

// decodeWindow decodes one symbol from w, whose most significant bit is the next
// unread bit. It returns the symbol and the bits consumed; on failure the bit
// count is how far the walk got.
func (h *Huffman) decodeWindow(w uint64) (int, int, error) {
	e := h.lut[w>>(64-uint(h.lutBits))]
	if e.length > 0 {
		return int(e.symbol), int(e.length), nil
	}
	if len(h.nodes) == 0 {
		return 0, h.lutBits, fmt.Errorf("%w: invalid code", errs.ErrHuffmanTableCorrupt)
	}

	w <<= uint(h.skip)
	node := int32(0)
	for n := h.skip + 1; n <= huffmanMaxCodeLen; n++ {
		node = h.nodes[node].child[w>>63]
		w <<= 1
		if node == 0 {
			return 0, n, fmt.Errorf("%w: invalid code", errs.ErrHuffmanTableCorrupt)
		}
		if sym := h.nodes[node].symbol; sym >= 0 {
			return int(sym), n, nil
		}
	}

	return 0, huffmanMaxCodeLen, fmt.Errorf("%w: invalid code", errs.ErrHuffmanTableCorrupt)
}

// DecodeFast decodes one symbol without bounds checks on the stream.
// The caller must have checked r.CanFastPeek().
func (h *Huffman) DecodeFast(r *bitio.Reader) (int, error) {
	sym, n, err := h.decodeWindow(r.WindowUnchecked())
	if err != nil {
		return 0, err
	}
	// n <= 32 and at least 33 bits follow the cursor.
	r.Consume(n)

	return sym, nil
}

// DecodeChecked decodes one symbol, treating bits past the end of the stream as
// zero and failing with errs.ErrTruncated if the code runs past the end.
func (h *Huffman) DecodeChecked(r *bitio.Reader) (int, error) {
	sym, n, err := h.decodeWindow(r.Window())
	if n > r.BitsLeft() {
		return 0, fmt.Errorf("%w: huffman code needs %d bits, %d left", errs.ErrTruncated, n, r.BitsLeft())
	}
	if err != nil {
		return 0, err
	}
	r.Consume(n)

	return sym, nil
}

// Decode decodes one symbol, taking the fast path while two whole words remain.
func (h *Huffman) Decode(r *bitio.Reader) (int, error) {
	if r.CanFastPeek() {
		return h.DecodeFast(r)
	}

	return h.DecodeChecked(r)
}

// CanonicalCodes assigns codes from code lengths the way the LERC encoder
// does. Symbols are ordered by descending length and, within one length, by
// ascending symbol. Codes count up from zero in that order and are shifted right
// whenever the length drops. Long codes therefore start with zero bits.
func CanonicalCodes(lengths []uint8) ([]HuffmanCode, error) {
	order := make([]int, 0, len(lengths))
	for sym, l := range lengths {
		if l > huffmanMaxCodeLen {
			return nil, fmt.Errorf("%w: symbol %d has code length %d", errs.ErrHuffmanTableCorrupt, sym, l)
		}
		if l > 0 {
			order = append(order, sym)
		}
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return int(lengths[b]) - int(lengths[a])
	})

	codes := make([]HuffmanCode, len(lengths))
	if len(order) == 0 {
		return codes, nil
	}

	var code uint64
	curLen := lengths[order[0]]
	for _, sym := range order {
		l := lengths[sym]
		code >>= uint(curLen - l)
		curLen = l
		if code>>uint(l) != 0 {
			return nil, fmt.Errorf("%w: code lengths are over-subscribed", errs.ErrHuffmanTableCorrupt)
		}
		codes[sym] = HuffmanCode{Len: l, Code: uint32(code)}
		code++
	}

	return codes, nil
}
