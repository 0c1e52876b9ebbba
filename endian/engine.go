// Package endian provides byte order utilities for LERC2 decoding.
//
// LERC2 stores every multi-byte field little-endian, so most callers only need
// GetLittleEndianEngine:
//
//	engine := endian.GetLittleEndianEngine()
//	version := int32(engine.Uint32(data[6:]))
//
// The package also reports the host byte order so that hot paths can copy raw
// little-endian payloads straight into typed slices when the host agrees.
//
// All functions in this package are safe for concurrent use.
package endian

import (
	"encoding/binary"

	"golang.org/x/sys/cpu"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian from
// the standard library.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// NativeEngine returns the engine matching the host byte order.
func NativeEngine() EndianEngine {
	if cpu.IsBigEndian {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeLittleEndian reports whether the host stores integers little-endian,
// which is the LERC2 wire order.
func IsNativeLittleEndian() bool {
	return !cpu.IsBigEndian
}

// IsNativeBigEndian reports whether the host stores integers big-endian.
func IsNativeBigEndian() bool {
	return cpu.IsBigEndian
}

// CompareNativeEndian reports whether engine matches the host byte order.
func CompareNativeEndian(engine EndianEngine) bool {
	return engine == NativeEngine()
}

// GetLittleEndianEngine returns the little-endian engine used by LERC2.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
