package blob

import (
	"math"

	"github.com/arloliu/lerc/endian"
	"github.com/arloliu/lerc/format"
)

// Pixels is the typed pixel buffer of a decoded blob. The concrete type matches
// the blob's data type:
//
//	switch px := res.Pixels.(type) {
//	case blob.Float32Pixels:
//	    elevation := px[k]
//	case blob.Uint8Pixels:
//	    ...
//	}
//
// Values are laid out band-major, then row-major, with the depth values of a
// pixel adjacent: index ((b*rows+i)*cols+j)*depth+d.
type Pixels interface {
	// DataType returns the element type.
	DataType() format.DataType
	// Len returns the number of values.
	Len() int
	// Float64 returns value i widened to float64.
	Float64(i int) float64
	// AppendBytes appends the values in little-endian byte order.
	AppendBytes(dst []byte) []byte

	sealed()
}

type (
	Int8Pixels    []int8
	Uint8Pixels   []uint8
	Int16Pixels   []int16
	Uint16Pixels  []uint16
	Int32Pixels   []int32
	Uint32Pixels  []uint32
	Float32Pixels []float32
	Float64Pixels []float64
)

var (
	_ Pixels = Int8Pixels(nil)
	_ Pixels = Uint8Pixels(nil)
	_ Pixels = Int16Pixels(nil)
	_ Pixels = Uint16Pixels(nil)
	_ Pixels = Int32Pixels(nil)
	_ Pixels = Uint32Pixels(nil)
	_ Pixels = Float32Pixels(nil)
	_ Pixels = Float64Pixels(nil)
)

func (p Int8Pixels) DataType() format.DataType    { return format.TypeInt8 }
func (p Uint8Pixels) DataType() format.DataType   { return format.TypeUint8 }
func (p Int16Pixels) DataType() format.DataType   { return format.TypeInt16 }
func (p Uint16Pixels) DataType() format.DataType  { return format.TypeUint16 }
func (p Int32Pixels) DataType() format.DataType   { return format.TypeInt32 }
func (p Uint32Pixels) DataType() format.DataType  { return format.TypeUint32 }
func (p Float32Pixels) DataType() format.DataType { return format.TypeFloat32 }
func (p Float64Pixels) DataType() format.DataType { return format.TypeFloat64 }

func (p Int8Pixels) Len() int    { return len(p) }
func (p Uint8Pixels) Len() int   { return len(p) }
func (p Int16Pixels) Len() int   { return len(p) }
func (p Uint16Pixels) Len() int  { return len(p) }
func (p Int32Pixels) Len() int   { return len(p) }
func (p Uint32Pixels) Len() int  { return len(p) }
func (p Float32Pixels) Len() int { return len(p) }
func (p Float64Pixels) Len() int { return len(p) }

func (p Int8Pixels) Float64(i int) float64    { return float64(p[i]) }
func (p Uint8Pixels) Float64(i int) float64   { return float64(p[i]) }
func (p Int16Pixels) Float64(i int) float64   { return float64(p[i]) }
func (p Uint16Pixels) Float64(i int) float64  { return float64(p[i]) }
func (p Int32Pixels) Float64(i int) float64   { return float64(p[i]) }
func (p Uint32Pixels) Float64(i int) float64  { return float64(p[i]) }
func (p Float32Pixels) Float64(i int) float64 { return float64(p[i]) }
func (p Float64Pixels) Float64(i int) float64 { return p[i] }

func (p Int8Pixels) AppendBytes(dst []byte) []byte {
	for _, v := range p {
		dst = append(dst, byte(v))
	}

	return dst
}

func (p Uint8Pixels) AppendBytes(dst []byte) []byte {
	return append(dst, p...)
}

func (p Int16Pixels) AppendBytes(dst []byte) []byte {
	engine := endian.GetLittleEndianEngine()
	for _, v := range p {
		dst = engine.AppendUint16(dst, uint16(v))
	}

	return dst
}

func (p Uint16Pixels) AppendBytes(dst []byte) []byte {
	engine := endian.GetLittleEndianEngine()
	for _, v := range p {
		dst = engine.AppendUint16(dst, v)
	}

	return dst
}

func (p Int32Pixels) AppendBytes(dst []byte) []byte {
	engine := endian.GetLittleEndianEngine()
	for _, v := range p {
		dst = engine.AppendUint32(dst, uint32(v))
	}

	return dst
}

func (p Uint32Pixels) AppendBytes(dst []byte) []byte {
	engine := endian.GetLittleEndianEngine()
	for _, v := range p {
		dst = engine.AppendUint32(dst, v)
	}

	return dst
}

func (p Float32Pixels) AppendBytes(dst []byte) []byte {
	engine := endian.GetLittleEndianEngine()
	for _, v := range p {
		dst = engine.AppendUint32(dst, math.Float32bits(v))
	}

	return dst
}

func (p Float64Pixels) AppendBytes(dst []byte) []byte {
	engine := endian.GetLittleEndianEngine()
	for _, v := range p {
		dst = engine.AppendUint64(dst, math.Float64bits(v))
	}

	return dst
}

func (Int8Pixels) sealed()    {}
func (Uint8Pixels) sealed()   {}
func (Int16Pixels) sealed()   {}
func (Uint16Pixels) sealed()  {}
func (Int32Pixels) sealed()   {}
func (Uint32Pixels) sealed()  {}
func (Float32Pixels) sealed() {}
func (Float64Pixels) sealed() {}
