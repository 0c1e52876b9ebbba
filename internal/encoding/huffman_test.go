package encoding_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/lerc/endian"
	"github.com/arloliu/lerc/errs"
	"github.com/arloliu/lerc/internal/bitio"
	"github.com/arloliu/lerc/internal/encoding"
	"github.com/arloliu/lerc/internal/lerctest"
)

// longLengths is a complete code over 15 symbols whose two longest codes do
// not fit the lookup table.
func longLengths() []uint8 {
	lengths := make([]uint8, 15)
	for sym := range 14 {
		lengths[sym] = uint8(sym + 1)
	}
	lengths[14] = 14

	return lengths
}

func writeSymbols(t *testing.T, codes []encoding.HuffmanCode, syms []int) []byte {
	t.Helper()

	w := bitio.NewWriter()
	for _, s := range syms {
		require.NotZero(t, codes[s].Len, "symbol %d", s)
		w.WriteBits(codes[s].Code, int(codes[s].Len))
	}

	return w.Bytes()
}

func TestCanonicalCodes(t *testing.T) {
	codes, err := encoding.CanonicalCodes([]uint8{1, 2, 2})
	require.NoError(t, err)
	require.Equal(t, []encoding.HuffmanCode{
		{Len: 1, Code: 0b1},
		{Len: 2, Code: 0b00},
		{Len: 2, Code: 0b01},
	}, codes)

	t.Run("absent symbols", func(t *testing.T) {
		codes, err := encoding.CanonicalCodes([]uint8{0, 2, 0, 1, 2})
		require.NoError(t, err)
		require.Equal(t, encoding.HuffmanCode{}, codes[0])
		require.Equal(t, encoding.HuffmanCode{Len: 2, Code: 0b00}, codes[1])
		require.Equal(t, encoding.HuffmanCode{Len: 2, Code: 0b01}, codes[4])
		require.Equal(t, encoding.HuffmanCode{Len: 1, Code: 0b1}, codes[3])
	})

	t.Run("long codes start with zeros", func(t *testing.T) {
		codes, err := encoding.CanonicalCodes(longLengths())
		require.NoError(t, err)
		require.Equal(t, encoding.HuffmanCode{Len: 14, Code: 0}, codes[13])
		require.Equal(t, encoding.HuffmanCode{Len: 14, Code: 1}, codes[14])
		require.Equal(t, encoding.HuffmanCode{Len: 1, Code: 1}, codes[0])
	})

	t.Run("over-subscribed", func(t *testing.T) {
		_, err := encoding.CanonicalCodes([]uint8{1, 1, 1})
		require.ErrorIs(t, err, errs.ErrHuffmanTableCorrupt)
	})

	t.Run("length too large", func(t *testing.T) {
		_, err := encoding.CanonicalCodes([]uint8{33, 1})
		require.ErrorIs(t, err, errs.ErrHuffmanTableCorrupt)
	})
}

func TestHuffman_Decode(t *testing.T) {
	h, err := encoding.NewHuffmanFromLengths([]uint8{1, 2, 2})
	require.NoError(t, err)
	require.Equal(t, 2, h.LUTBits())

	want := []int{1, 2, 0, 0, 2, 1, 0}
	r := bitio.NewReader(writeSymbols(t, h.Codes(), want))
	for i, sym := range want {
		got, err := h.Decode(r)
		require.NoError(t, err, "symbol %d", i)
		require.Equal(t, sym, got, "symbol %d", i)
	}
}

func TestHuffman_FastMatchesChecked(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	h, err := encoding.NewHuffmanFromLengths(longLengths())
	require.NoError(t, err)
	require.Equal(t, 12, h.LUTBits())

	syms := make([]int, 2000)
	for i := range syms {
		// favour the long codes
		syms[i] = 10 + rng.Intn(5)
		if i%3 == 0 {
			syms[i] = rng.Intn(15)
		}
	}
	data := writeSymbols(t, h.Codes(), syms)
	// room for the fast path on the last symbols
	data = append(data, 0, 0, 0, 0, 0, 0, 0, 0)

	fast := bitio.NewReader(data)
	checked := bitio.NewReader(data)
	for i, want := range syms {
		var got int
		var err error
		if fast.CanFastPeek() {
			got, err = h.DecodeFast(fast)
		} else {
			got, err = h.DecodeChecked(fast)
		}
		require.NoError(t, err, "symbol %d", i)
		require.Equal(t, want, got, "fast symbol %d", i)

		got, err = h.DecodeChecked(checked)
		require.NoError(t, err, "symbol %d", i)
		require.Equal(t, want, got, "checked symbol %d", i)
	}
	require.Equal(t, fast.ConsumedBytes(), checked.ConsumedBytes())
}

func TestHuffman_DecodeErrors(t *testing.T) {
	t.Run("code outside table", func(t *testing.T) {
		h, err := encoding.NewHuffmanFromLengths([]uint8{1})
		require.NoError(t, err)

		w := bitio.NewWriter()
		w.WriteBits(1, 1)
		_, err = h.Decode(bitio.NewReader(w.Bytes()))
		require.ErrorIs(t, err, errs.ErrHuffmanTableCorrupt)
	})

	t.Run("long code outside tree", func(t *testing.T) {
		codes, err := encoding.CanonicalCodes(longLengths())
		require.NoError(t, err)
		codes[14] = encoding.HuffmanCode{}
		h, err := encoding.NewHuffman(codes)
		require.NoError(t, err)

		// thirteen zero bits then a one: the missing 14-bit code
		w := bitio.NewWriter()
		w.WriteBits(1, 14)
		_, err = h.Decode(bitio.NewReader(w.Bytes()))
		require.ErrorIs(t, err, errs.ErrHuffmanTableCorrupt)
	})

	t.Run("stream ends", func(t *testing.T) {
		h, err := encoding.NewHuffmanFromLengths([]uint8{1, 2, 2})
		require.NoError(t, err)

		w := bitio.NewWriter()
		w.WriteBits(0xffffffff, 32)
		r := bitio.NewReader(w.Bytes())
		for range 32 {
			sym, err := h.Decode(r)
			require.NoError(t, err)
			require.Equal(t, 0, sym)
		}
		_, err = h.Decode(r)
		require.ErrorIs(t, err, errs.ErrTruncated)
	})
}

func TestNewHuffman_Corrupt(t *testing.T) {
	tests := []struct {
		name  string
		codes []encoding.HuffmanCode
	}{
		{name: "no symbols", codes: []encoding.HuffmanCode{{}, {}}},
		{name: "over-subscribed", codes: []encoding.HuffmanCode{{Len: 1, Code: 0}, {Len: 1, Code: 1}, {Len: 1, Code: 1}}},
		{name: "collision", codes: []encoding.HuffmanCode{{Len: 1, Code: 0}, {Len: 2, Code: 0}}},
		{name: "code wider than length", codes: []encoding.HuffmanCode{{Len: 1, Code: 2}, {Len: 1, Code: 0}}},
		{name: "length too large", codes: []encoding.HuffmanCode{{Len: 33, Code: 0}}},
		{
			name: "duplicate long codes",
			codes: append(
				lengthsToCodes(t, []uint8{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13}),
				encoding.HuffmanCode{Len: 14, Code: 0},
				encoding.HuffmanCode{Len: 14, Code: 0},
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := encoding.NewHuffman(tt.codes)
			require.ErrorIs(t, err, errs.ErrHuffmanTableCorrupt)
		})
	}
}

// lengthsToCodes assigns the codes 1, 01, 001 and so on.
func lengthsToCodes(t *testing.T, lengths []uint8) []encoding.HuffmanCode {
	t.Helper()

	codes := make([]encoding.HuffmanCode, len(lengths))
	for i, l := range lengths {
		codes[i] = encoding.HuffmanCode{Len: l, Code: 1}
	}

	return codes
}

// huffmanTable serializes a code table: the four header fields, the stuffed
// code lengths of symbols i0..i1-1 and their codes.
func huffmanTable(version, size, i0, i1 int, lengths []uint32, codes []encoding.HuffmanCode) []byte {
	engine := endian.GetLittleEndianEngine()

	var out []byte
	for _, v := range []int{version, size, i0, i1} {
		out = engine.AppendUint32(out, uint32(int32(v)))
	}
	out = append(out, lerctest.EncodeBitStuffed(lengths, 6)...)

	w := bitio.NewWriter()
	for _, c := range codes {
		w.WriteBits(c.Code, int(c.Len))
	}

	return append(out, w.Bytes()...)
}

func TestReadHuffmanTable(t *testing.T) {
	codes, err := encoding.CanonicalCodes([]uint8{1, 2, 2})
	require.NoError(t, err)
	table := huffmanTable(4, 3, 0, 3, []uint32{1, 2, 2}, codes)
	data := append(table, 0xab)

	r := bitio.NewByteReader(data)
	h, err := encoding.ReadHuffmanTable(r, 6, 256)
	require.NoError(t, err)
	require.Equal(t, codes, h.Codes())
	require.Equal(t, []byte{0xab}, r.Remaining())

	t.Run("wrapped symbol range", func(t *testing.T) {
		// symbols 3, 4 and 5 of a four entry table land on 3, 0 and 1
		explicit := []encoding.HuffmanCode{{Len: 2, Code: 0b00}, {Len: 2, Code: 0b01}, {Len: 1, Code: 0b1}}
		data := huffmanTable(4, 4, 3, 6, []uint32{2, 2, 1}, explicit)

		h, err := encoding.ReadHuffmanTable(bitio.NewByteReader(data), 6, 256)
		require.NoError(t, err)
		require.Equal(t, []encoding.HuffmanCode{
			{Len: 2, Code: 0b01},
			{Len: 1, Code: 0b1},
			{},
			{Len: 2, Code: 0b00},
		}, h.Codes())
	})
}

func TestReadHuffmanTable_Corrupt(t *testing.T) {
	codes, err := encoding.CanonicalCodes([]uint8{1, 2, 2})
	require.NoError(t, err)
	valid := huffmanTable(4, 3, 0, 3, []uint32{1, 2, 2}, codes)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{name: "table version", data: huffmanTable(1, 3, 0, 3, []uint32{1, 2, 2}, codes), want: errs.ErrHuffmanTableCorrupt},
		{name: "empty table", data: huffmanTable(4, 0, 0, 3, []uint32{1, 2, 2}, codes), want: errs.ErrHuffmanTableCorrupt},
		{name: "table too large", data: huffmanTable(4, 300, 0, 3, []uint32{1, 2, 2}, codes), want: errs.ErrHuffmanTableCorrupt},
		{name: "empty symbol range", data: huffmanTable(4, 3, 2, 2, []uint32{1, 2, 2}, codes), want: errs.ErrHuffmanTableCorrupt},
		{name: "symbol range past wrap", data: huffmanTable(4, 3, 0, 7, []uint32{1, 2, 2}, codes), want: errs.ErrHuffmanTableCorrupt},
		{name: "negative start", data: huffmanTable(4, 3, -1, 3, []uint32{1, 2, 2}, codes), want: errs.ErrHuffmanTableCorrupt},
		{name: "too few lengths", data: huffmanTable(4, 3, 0, 3, []uint32{1, 1}, codes[:2]), want: errs.ErrHuffmanTableCorrupt},
		{name: "code length too large", data: huffmanTable(4, 3, 0, 3, []uint32{1, 2, 40}, codes), want: errs.ErrHuffmanTableCorrupt},
		{name: "over-subscribed lengths", data: huffmanTable(4, 3, 0, 3, []uint32{1, 1, 1}, codes), want: errs.ErrHuffmanTableCorrupt},
		{name: "header truncated", data: valid[:10], want: errs.ErrTruncated},
		{name: "codes truncated", data: valid[:len(valid)-4], want: errs.ErrTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := encoding.ReadHuffmanTable(bitio.NewByteReader(tt.data), 6, 256)
			require.ErrorIs(t, err, tt.want)
		})
	}
}
