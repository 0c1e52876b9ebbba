package blob

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/arloliu/lerc/endian"
	"github.com/arloliu/lerc/errs"
	"github.com/arloliu/lerc/format"
	"github.com/arloliu/lerc/internal/bitio"
)

// number is the set of pixel element types.
type number interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~float32 | ~float64
}

// converter narrows dequantized values to the band's element type.
//
// Integer targets truncate toward zero and reject values outside their range;
// float32 rejects finite values beyond its largest magnitude. NaN only passes
// into float targets.
type converter[T number] struct {
	dt     format.DataType
	lo, hi float64
}

func newConverter[T number](dt format.DataType) converter[T] {
	lo, hi := dt.Range()
	return converter[T]{dt: dt, lo: lo, hi: hi}
}

func (c converter[T]) convert(v float64) (T, error) {
	switch c.dt { //nolint: exhaustive
	case format.TypeFloat64:
		return T(v), nil
	case format.TypeFloat32:
		if math.Abs(v) > math.MaxFloat32 && !math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: %g as %s", errs.ErrArithmeticOverflow, v, c.dt)
		}

		return T(v), nil
	}

	t := math.Trunc(v)
	if !(t >= c.lo && t <= c.hi) {
		return 0, fmt.Errorf("%w: %g as %s", errs.ErrArithmeticOverflow, v, c.dt)
	}

	return T(t), nil
}

// readRaw reads one value stored in the band's own type.
func readRaw[T number](r *bitio.ByteReader, dt format.DataType) (T, error) {
	switch dt {
	case format.TypeInt8:
		v, err := r.ReadInt8()
		return T(v), err
	case format.TypeUint8:
		v, err := r.ReadUint8()
		return T(v), err
	case format.TypeInt16:
		v, err := r.ReadInt16()
		return T(v), err
	case format.TypeUint16:
		v, err := r.ReadUint16()
		return T(v), err
	case format.TypeInt32:
		v, err := r.ReadInt32()
		return T(v), err
	case format.TypeUint32:
		v, err := r.ReadUint32()
		return T(v), err
	case format.TypeFloat32:
		v, err := r.ReadFloat32()
		return T(v), err
	case format.TypeFloat64:
		v, err := r.ReadFloat64()
		return T(v), err
	default:
		return 0, fmt.Errorf("%w: data type %d", errs.ErrInvalidHeader, dt)
	}
}

// readValue reads one value of type dt widened to float64. Tile offsets and
// depth ranges use it.
func readValue(r *bitio.ByteReader, dt format.DataType) (float64, error) {
	switch dt {
	case format.TypeInt8:
		return readWide[int8](r, dt)
	case format.TypeUint8:
		return readWide[uint8](r, dt)
	case format.TypeInt16:
		return readWide[int16](r, dt)
	case format.TypeUint16:
		return readWide[uint16](r, dt)
	case format.TypeInt32:
		return readWide[int32](r, dt)
	case format.TypeUint32:
		return readWide[uint32](r, dt)
	case format.TypeFloat32:
		return readWide[float32](r, dt)
	default:
		return readWide[float64](r, dt)
	}
}

func readWide[T number](r *bitio.ByteReader, dt format.DataType) (float64, error) {
	v, err := readRaw[T](r, dt)
	return float64(v), err
}

// copyRaw fills dst from little-endian values in src, which holds exactly
// len(dst) values. On little-endian hosts the bytes are copied as-is.
func copyRaw[T number](dst []T, src []byte, dt format.DataType) error {
	if len(dst) == 0 {
		return nil
	}
	if endian.IsNativeLittleEndian() {
		size := int(unsafe.Sizeof(dst[0]))
		raw := unsafe.Slice((*byte)(unsafe.Pointer(&dst[0])), len(dst)*size)
		copy(raw, src)

		return nil
	}

	r := bitio.NewByteReader(src)
	for i := range dst {
		v, err := readRaw[T](r, dt)
		if err != nil {
			return err
		}
		dst[i] = v
	}

	return nil
}
