package lerctest

import (
	"fmt"
	"math"
	"math/bits"
	"slices"

	"github.com/arloliu/lerc/endian"
	"github.com/arloliu/lerc/format"
	"github.com/arloliu/lerc/internal/bitio"
	"github.com/arloliu/lerc/section"
)

const (
	rleMaxRun    = math.MaxInt16
	rleMinRepeat = 5
	rleEnd       = 0x8000 // int16(-32768)
)

// EncodeRLE compresses packed mask bytes with the LERC byte run-length scheme.
// Runs of five or more equal bytes become repeat runs, everything else is
// emitted as literal runs.
func EncodeRLE(src []byte) []byte {
	engine := endian.GetLittleEndianEngine()

	var out []byte
	lit := 0
	flush := func(end int) {
		for lit < end {
			n := min(end-lit, rleMaxRun)
			out = engine.AppendUint16(out, uint16(int16(n)))
			out = append(out, src[lit:lit+n]...)
			lit += n
		}
	}

	for i := 0; i < len(src); {
		run := 1
		for i+run < len(src) && src[i+run] == src[i] && run < rleMaxRun {
			run++
		}
		if run < rleMinRepeat {
			i += run
			continue
		}
		flush(i)
		out = engine.AppendUint16(out, uint16(int16(-run)))
		out = append(out, src[i])
		i += run
		lit = i
	}
	flush(len(src))

	return engine.AppendUint16(out, rleEnd)
}

// EncodeRLELiteral emits src as literal runs only.
func EncodeRLELiteral(src []byte) []byte {
	engine := endian.GetLittleEndianEngine()

	var out []byte
	for p := 0; p < len(src); {
		n := min(len(src)-p, rleMaxRun)
		out = engine.AppendUint16(out, uint16(int16(n)))
		out = append(out, src[p:p+n]...)
		p += n
	}

	return engine.AppendUint16(out, rleEnd)
}

// EncodeBitStuffed writes values as a simple BitStuffer2 block, using the
// legacy layout for versions before 3.
func EncodeBitStuffed(values []uint32, version int) []byte {
	var maxV uint32
	for _, v := range values {
		maxV = max(maxV, v)
	}
	numBits := bits.Len32(maxV)

	out := appendStuffHeader(nil, numBits, false, len(values))

	return appendPacked(out, values, numBits, version)
}

// EncodeBitStuffedLUT writes values as a lookup table BitStuffer2 block. The
// values must contain zero and between two and 255 distinct values.
func EncodeBitStuffedLUT(values []uint32, version int) ([]byte, error) {
	uniq := slices.Clone(values)
	slices.Sort(uniq)
	uniq = slices.Compact(uniq)
	if len(uniq) < 2 || len(uniq) > 255 || uniq[0] != 0 {
		return nil, fmt.Errorf("lerctest: %d distinct values cannot form a lookup table", len(uniq))
	}

	numBits := bits.Len32(uniq[len(uniq)-1])
	out := appendStuffHeader(nil, numBits, true, len(values))
	out = append(out, byte(len(uniq)))
	out = appendPacked(out, uniq[1:], numBits, version)

	idx := make([]uint32, len(values))
	for i, v := range values {
		j, _ := slices.BinarySearch(uniq, v)
		idx[i] = uint32(j)
	}

	return appendPacked(out, idx, bits.Len(uint(len(uniq)-1)), version), nil
}

func appendStuffHeader(dst []byte, numBits int, lut bool, n int) []byte {
	engine := endian.GetLittleEndianEngine()

	head := byte(numBits)
	if lut {
		head |= 1 << 5
	}
	switch {
	case n < 1<<8:
		dst = append(dst, head|2<<6, byte(n))
	case n < 1<<16:
		dst = append(dst, head|1<<6)
		dst = engine.AppendUint16(dst, uint16(n))
	default:
		dst = append(dst, head)
		dst = engine.AppendUint32(dst, uint32(n))
	}

	return dst
}

func appendPacked(dst []byte, values []uint32, numBits, version int) []byte {
	if numBits == 0 || len(values) == 0 {
		return dst
	}
	if version >= 3 {
		return append(dst, bitio.PackLSB(values, numBits)...)
	}

	return append(dst, bitio.PackLegacy(values, numBits)...)
}

// AppendValue appends v in the little-endian encoding of dt.
func AppendValue(dst []byte, dt format.DataType, v float64) []byte {
	engine := endian.GetLittleEndianEngine()

	switch dt {
	case format.TypeInt8:
		return append(dst, byte(int8(v)))
	case format.TypeUint8:
		return append(dst, byte(v))
	case format.TypeInt16:
		return engine.AppendUint16(dst, uint16(int16(v)))
	case format.TypeUint16:
		return engine.AppendUint16(dst, uint16(v))
	case format.TypeInt32:
		return engine.AppendUint32(dst, uint32(int32(v)))
	case format.TypeUint32:
		return engine.AppendUint32(dst, uint32(v))
	case format.TypeFloat32:
		return engine.AppendUint32(dst, math.Float32bits(float32(v)))
	default:
		return engine.AppendUint64(dst, math.Float64bits(v))
	}
}

// ReduceOffset picks the smallest offset type that holds v exactly, returning
// the lowest flag type code for it and the type used.
func ReduceOffset(dt format.DataType, v float64, diff bool) (int, format.DataType) {
	base, _ := section.OffsetType(dt, 0, diff)
	for tc := 3; tc >= 1; tc-- {
		used, err := section.OffsetType(dt, tc, diff)
		if err != nil || used == base {
			continue
		}
		// Float32 maps codes 2 and 3 to one type; write the lower code
		if lower, err := section.OffsetType(dt, tc-1, diff); err == nil && lower == used {
			continue
		}
		if fits(used, v) {
			return tc, used
		}
	}

	return 0, base
}

func fits(dt format.DataType, v float64) bool {
	switch dt { //nolint: exhaustive
	case format.TypeFloat64:
		return true
	case format.TypeFloat32:
		return float64(float32(v)) == v
	}
	lo, hi := dt.Range()

	return v == math.Trunc(v) && v >= lo && v <= hi
}

// huffmanLengths builds code lengths for a symbol histogram.
func huffmanLengths(hist []int) []uint8 {
	type node struct {
		weight      int
		sym         int
		left, right int
	}

	var nodes []node
	var active []int
	for sym, w := range hist {
		if w > 0 {
			nodes = append(nodes, node{weight: w, sym: sym, left: -1, right: -1})
			active = append(active, len(nodes)-1)
		}
	}

	lengths := make([]uint8, len(hist))
	switch len(active) {
	case 0:
		return lengths
	case 1:
		lengths[nodes[0].sym] = 1
		return lengths
	}

	for len(active) > 1 {
		slices.SortStableFunc(active, func(a, b int) int {
			return nodes[a].weight - nodes[b].weight
		})
		a, b := active[0], active[1]
		nodes = append(nodes, node{weight: nodes[a].weight + nodes[b].weight, sym: -1, left: a, right: b})
		active = append(active[2:], len(nodes)-1)
	}

	var walk func(i, depth int)
	walk = func(i, depth int) {
		n := nodes[i]
		if n.sym >= 0 {
			lengths[n.sym] = uint8(depth)
			return
		}
		walk(n.left, depth+1)
		walk(n.right, depth+1)
	}
	walk(active[0], 0)

	return lengths
}
