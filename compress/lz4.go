package compress

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"
)

var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Compressor handles LZ4 block wrapped blobs. The block format carries no
// decompressed size, so Decompress grows its buffer until the block fits.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 block codec.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress wraps data in a single LZ4 block.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, fmt.Errorf("lz4 compression failed: %w", err)
	}

	return dst[:n], nil
}

// lz4MaxRatio bounds the expansion of one LZ4 block: a match length byte adds
// at most 255 output bytes.
const lz4MaxRatio = 255

// Decompress inflates one LZ4 block.
//
// The output buffer starts at 4x the input and doubles on
// lz4.ErrInvalidSourceShortBuffer up to the block's largest possible expansion.
// The library reports corrupt input with the same error, so the bound also ends
// retries on garbage.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	limit := maxInflatedSize
	if len(data) < maxInflatedSize/lz4MaxRatio {
		limit = len(data)*lz4MaxRatio + 16
	}

	size := min(len(data)*4, limit)
	for {
		buf := make([]byte, size)
		n, err := lz4.UncompressBlock(data, buf)
		if err == nil {
			return buf[:n], nil
		}
		if !errors.Is(err, lz4.ErrInvalidSourceShortBuffer) || size >= limit {
			return nil, fmt.Errorf("lz4 decompression failed: %w", err)
		}
		size = min(size*2, limit)
	}
}
