package section

import (
	"fmt"

	"github.com/arloliu/lerc/errs"
)

// fletcherBlock is the largest number of 16-bit words that can be summed before
// the 32-bit accumulators must be folded.
const fletcherBlock = 359

// Fletcher32 computes the LERC2 flavour of the Fletcher-32 checksum: bytes are
// taken in big-endian pairs and an odd trailing byte is padded with a zero low
// byte.
func Fletcher32(data []byte) uint32 {
	sum1, sum2 := uint32(0xffff), uint32(0xffff)
	words := len(data) / 2
	p := 0
	for words > 0 {
		n := min(words, fletcherBlock)
		words -= n
		for range n {
			sum1 += uint32(data[p]) << 8
			sum1 += uint32(data[p+1])
			sum2 += sum1
			p += 2
		}
		sum1 = sum1&0xffff + sum1>>16
		sum2 = sum2&0xffff + sum2>>16
	}
	if len(data)&1 != 0 {
		sum1 += uint32(data[p]) << 8
		sum2 += sum1
	}
	sum1 = sum1&0xffff + sum1>>16
	sum2 = sum2&0xffff + sum2>>16

	return sum2<<16 | sum1
}

// ComputeChecksum returns the checksum of a complete band blob.
func ComputeChecksum(blob []byte) uint32 {
	return Fletcher32(blob[ChecksumStart:])
}

// VerifyChecksum checks the stored checksum of a band blob. blob must span
// exactly h.BlobSize bytes. Versions before 3 carry no checksum.
func VerifyChecksum(blob []byte, h *Header) error {
	if h.Version < 3 {
		return nil
	}
	if len(blob) < ChecksumStart {
		return fmt.Errorf("%w: blob of %d bytes cannot hold a checksum", errs.ErrTruncated, len(blob))
	}
	if sum := ComputeChecksum(blob); sum != h.Checksum {
		return fmt.Errorf("%w: stored %#08x, computed %#08x", errs.ErrChecksumMismatch, h.Checksum, sum)
	}

	return nil
}
