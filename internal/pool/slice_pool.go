package pool

import "sync"

// MaxPooledCodes bounds the capacity of code slices kept in the pool. Larger
// slices are dropped on release so one oversized micro block does not pin
// memory.
const MaxPooledCodes = 1 << 16

var uint32SlicePool = sync.Pool{
	New: func() any { return &[]uint32{} },
}

// GetUint32Slice retrieves and resizes a uint32 slice from the pool.
//
// The returned slice will have the exact length specified by the size parameter.
// If the pooled slice has insufficient capacity, a new slice will be allocated.
// The caller must call the returned cleanup function to return the slice to the pool.
//
// Parameters:
//   - size: The desired length of the slice
//
// Returns:
//   - []uint32: A slice with length equal to size
//   - func(): Cleanup function that must be called (typically with defer) to return the slice to the pool
//
// Example:
//
//	codes, cleanup := pool.GetUint32Slice(blockSize * blockSize)
//	defer cleanup()
//	// Decode tile codes into codes...
func GetUint32Slice(size int) ([]uint32, func()) {
	ptr, _ := uint32SlicePool.Get().(*[]uint32)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]uint32, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() {
		if cap(*ptr) > MaxPooledCodes {
			return
		}
		uint32SlicePool.Put(ptr)
	}
}
