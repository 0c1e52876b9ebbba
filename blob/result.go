package blob

import (
	"github.com/arloliu/lerc/bitmask"
	"github.com/arloliu/lerc/internal/hash"
)

// Result is a decoded blob.
type Result struct {
	// Pixels holds rows*cols*depth*bands values of the blob's data type.
	// Invalid pixels are zero.
	Pixels Pixels
	// Mask is nil when every pixel of every band is valid, otherwise the
	// pixels valid in all bands.
	Mask *bitmask.BitMask
	// BandMasks holds one mask per band; nil entries mean all valid.
	BandMasks []*bitmask.BitMask
	Info      BlobInfo
}

func newResult(px Pixels, masks []*bitmask.BitMask, info BlobInfo) (*Result, error) {
	var combined *bitmask.BitMask
	for _, m := range masks {
		if m == nil {
			continue
		}
		if combined == nil {
			combined = m
			continue
		}
		and, err := combined.And(m)
		if err != nil {
			return nil, err
		}
		combined = and
	}

	return &Result{
		Pixels:    px,
		Mask:      combined,
		BandMasks: masks,
		Info:      info,
	}, nil
}

// Valid reports whether pixel k of band b is valid.
func (r *Result) Valid(b, k int) bool {
	m := r.BandMasks[b]
	return m == nil || m.Valid(k)
}

// Digest returns the xxHash64 of the little-endian pixel bytes and the band
// masks. Equal blobs decode to equal digests on every host.
func (r *Result) Digest() uint64 {
	masks := make([][]byte, len(r.BandMasks))
	for i, m := range r.BandMasks {
		if m != nil {
			masks[i] = m.Bytes()
		}
	}

	return hash.Raster(r.Pixels.AppendBytes(nil), masks...)
}
