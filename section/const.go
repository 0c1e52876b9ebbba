package section

const (
	// FileKey is the signature every LERC2 blob starts with.
	FileKey = "Lerc2 "

	// MinVersion and MaxVersion bound the versions this package decodes.
	MinVersion = 2
	MaxVersion = 6

	// MaxMicroBlockSize is the largest tile edge a blob may declare.
	MaxMicroBlockSize = 32

	// ChecksumStart is the offset of the first byte covered by the checksum.
	ChecksumStart = len(FileKey) + 4 + 4

	versionOffset = len(FileKey)
	prefixSize    = len(FileKey) + 4
)

// HeaderSize returns the encoded header size for a version.
func HeaderSize(version int) int {
	size := prefixSize + 6*4 + 3*8
	if version >= 3 {
		size += 4
	}
	if version >= 4 {
		size += 4
	}
	if version >= 6 {
		size += 4 + 4 + 2*8
	}

	return size
}
