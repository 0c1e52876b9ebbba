// Package hash computes content digests of decoded rasters.
package hash

import "github.com/cespare/xxhash/v2"

// Raster returns the xxHash64 of the little-endian pixel bytes followed by each
// packed mask in order. A nil mask contributes a single marker byte, so an
// all-valid raster and one with an explicit all-valid mask hash differently.
func Raster(pixels []byte, masks ...[]byte) uint64 {
	d := xxhash.New()
	_, _ = d.Write(pixels)
	for _, m := range masks {
		if m == nil {
			_, _ = d.Write([]byte{0})
			continue
		}
		_, _ = d.Write([]byte{1})
		_, _ = d.Write(m)
	}

	return d.Sum64()
}
