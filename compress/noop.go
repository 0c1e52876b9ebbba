package compress

// NoOpCompressor passes bare LERC2 blobs through unchanged.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a new no-operation codec.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns data as-is.
//
// Note: The returned slice shares the same underlying memory as the input.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data as-is.
//
// Note: The returned slice shares the same underlying memory as the input. The
// blob decoder never writes to its input, so no copy is needed.
func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
