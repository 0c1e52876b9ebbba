package blob

import (
	"fmt"
	"math"

	"github.com/arloliu/lerc/compress"
	"github.com/arloliu/lerc/format"
	"github.com/arloliu/lerc/internal/options"
)

// DefaultMaxPixels is the default bound on the number of decoded values.
const DefaultMaxPixels = math.MaxInt32

// DecoderConfig holds the settings of a Decoder.
type DecoderConfig struct {
	verifyChecksum bool
	compression    format.CompressionType
	codec          compress.Decompressor
	maxPixels      int
}

// NewDecoderConfig returns the default configuration: checksums verified, no
// outer compression and DefaultMaxPixels.
func NewDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		verifyChecksum: true,
		compression:    format.CompressionNone,
		codec:          compress.NewNoOpCompressor(),
		maxPixels:      DefaultMaxPixels,
	}
}

func (c *DecoderConfig) setCompression(comp format.CompressionType) error {
	codec, err := compress.GetCodec(comp)
	if err != nil {
		return err
	}
	c.compression = comp
	c.codec = codec

	return nil
}

func (c *DecoderConfig) setMaxPixels(n int) error {
	if n <= 0 {
		return fmt.Errorf("invalid max pixels: %d", n)
	}
	c.maxPixels = n

	return nil
}

// DecoderOption represents a functional option for configuring the DecoderConfig.
type DecoderOption = options.Option[*DecoderConfig]

// WithChecksum enables or disables Fletcher-32 verification of v3+ bands.
// Verification is on by default.
func WithChecksum(enabled bool) DecoderOption {
	return options.NoError(func(c *DecoderConfig) {
		c.verifyChecksum = enabled
	})
}

// WithCompression declares the outer container codec wrapping the blob, as
// used by LERC_DEFLATE and LERC_ZSTD tiles.
func WithCompression(comp format.CompressionType) DecoderOption {
	return options.New(func(c *DecoderConfig) error {
		return c.setCompression(comp)
	})
}

// WithMaxPixels bounds the number of decoded values (rows*cols*depth summed
// over bands). Larger blobs fail with errs.ErrTooLarge before any pixel buffer
// is allocated.
func WithMaxPixels(n int) DecoderOption {
	return options.New(func(c *DecoderConfig) error {
		return c.setMaxPixels(n)
	})
}
