package section

import (
	"fmt"

	"github.com/arloliu/lerc/errs"
	"github.com/arloliu/lerc/format"
)

// TileMode is the coding of one micro block, stored in the low two bits of its
// flag byte.
type TileMode uint8

const (
	TileRaw     TileMode = 0 // values stored uncompressed
	TileStuffed TileMode = 1 // offset plus bit-stuffed quantized codes
	TileZero    TileMode = 2 // all zero, or equal to the previous depth
	TileConst   TileMode = 3 // all equal to the offset
)

func (m TileMode) String() string {
	switch m {
	case TileRaw:
		return "Raw"
	case TileStuffed:
		return "Stuffed"
	case TileZero:
		return "Zero"
	case TileConst:
		return "Const"
	default:
		return "Unknown"
	}
}

const (
	tileDiffFlag = 1 << 2
	tileModeMask = 3
)

// TileFlag is the leading byte of a micro block. Bits 0-1 hold the mode, bit 2
// the depth-difference flag (v5+), bits 2-5 an integrity pattern derived from
// the block column and bits 6-7 the offset type reduction code.
type TileFlag uint8

// NewTileFlag builds the flag byte for a block starting at column j0.
func NewTileFlag(mode TileMode, diff bool, typeCode int, j0, version int) TileFlag {
	f := uint8(mode) | uint8((j0>>3)&integrityPattern(version))<<2 | uint8(typeCode&3)<<6
	if diff {
		f |= tileDiffFlag
	}

	return TileFlag(f)
}

func integrityPattern(version int) int {
	if version >= 5 {
		return 14
	}

	return 15
}

// Mode returns the block coding.
func (f TileFlag) Mode() TileMode {
	return TileMode(f & tileModeMask)
}

// TypeCode returns the offset type reduction code.
func (f TileFlag) TypeCode() int {
	return int(f >> 6)
}

// Diff reports whether the block stores differences to the previous depth.
func (f TileFlag) Diff(version int) bool {
	return version >= 5 && f&tileDiffFlag != 0
}

// Check verifies the integrity pattern against the block column j0.
func (f TileFlag) Check(j0, version int) error {
	p := integrityPattern(version)
	if int(f>>2)&p != (j0>>3)&p {
		return fmt.Errorf("%w: tile flag %#02x does not match column %d", errs.ErrCorruptData, uint8(f), j0)
	}

	return nil
}

// OffsetType returns the type a block offset is stored in, given the band data
// type and the reduction code of the flag byte. Integer blocks that store depth
// differences reduce from Int32.
func OffsetType(dt format.DataType, typeCode int, diff bool) (format.DataType, error) {
	base := dt
	if diff && !dt.IsFloat() {
		base = format.TypeInt32
	}

	used := base
	tc := format.DataType(typeCode)
	switch base { //nolint: exhaustive
	case format.TypeInt16, format.TypeInt32:
		used = base - tc
	case format.TypeUint16, format.TypeUint32:
		used = base - 2*tc
	case format.TypeFloat32:
		switch typeCode {
		case 0:
			used = base
		case 1:
			used = format.TypeInt16
		default:
			used = format.TypeUint8
		}
	case format.TypeFloat64:
		if typeCode != 0 {
			used = base - 2*tc + 1
		}
	}

	// Integer codes that reduce past Int8 wrap far above TypeFloat64. No
	// encoder writes them, so they are reported instead of read as the band type.
	if !used.IsValid() {
		return 0, fmt.Errorf("%w: type code %d invalid for %s", errs.ErrCorruptData, typeCode, dt)
	}

	return used, nil
}
