package compress

// ZstdCompressor handles the Zstandard container used by LERC_ZSTD tiles.
//
// Two implementations exist: the default pure Go one built on
// klauspost/compress/zstd, and a cgo one built on valyala/gozstd that is
// selected with the gozstd build tag.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd codec with default settings.
//
// Example:
//
//	codec := NewZstdCompressor()
//	blob, err := codec.Decompress(payload)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
