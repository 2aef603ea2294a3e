package record

import (
	"hash/crc32"
	"io"
)

// CalculateCRC computes the CRC32 checksum of a key field using the IEEE polynomial.
func CalculateCRC(key []byte) uint32 {
	return crc32.ChecksumIEEE(key)
}

// ValidateCRC returns true if the provided checksum matches the computed CRC32 of key
func ValidateCRC(key []byte, checksum uint32) bool {
	return CalculateCRC(key) == checksum
}

// ReaderCRC computes the same checksum as CalculateCRC over everything read
// from r.
func ReaderCRC(r io.Reader) (uint32, error) {
	h := crc32.NewIEEE()
	if _, err := io.Copy(h, r); err != nil {
		return 0, err
	}
	return h.Sum32(), nil
}
