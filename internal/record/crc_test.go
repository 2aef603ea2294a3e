package record

import (
	"bytes"
	"hash/crc32"
	"testing"
)

func TestCRC(t *testing.T) {
	var key = []byte("0123456789abcdef0123456789abcdef0123456789abcdef")

	want := crc32.ChecksumIEEE(key)

	t.Run("CalculateCRC computes expected checksum", func(t *testing.T) {
		got := CalculateCRC(key)
		if got != want {
			t.Errorf("CalculateCRC() = %v, want %v", got, want)
		}
	})

	t.Run("ValidateCRC returns true for matching checksum", func(t *testing.T) {
		if !ValidateCRC(key, want) {
			t.Errorf("ValidateCRC() returned false, expected true")
		}
	})

	t.Run("ValidateCRC returns false for mismatched checksum", func(t *testing.T) {
		badChecksum := want + 1
		if ValidateCRC(key, badChecksum) {
			t.Errorf("ValidateCRC() returned true for wrong checksum")
		}
	})
}

func TestReaderCRC(t *testing.T) {
	data := bytes.Repeat([]byte("wallet"), 20000)

	got, err := ReaderCRC(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReaderCRC() failed: %v", err)
	}
	if got != CalculateCRC(data) {
		t.Errorf("ReaderCRC() = %v, want %v", got, CalculateCRC(data))
	}
}
