package record

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"io"
	"testing"
)

func testKey() []byte {
	key := make([]byte, EncryptedKeySize)
	for i := range key {
		key[i] = byte(i * 7)
	}
	return key
}

func TestKindGeometry(t *testing.T) {
	tests := []struct {
		kind       Kind
		tag        string
		backOffset int64
		windowSize int
		skip       int64
		firstOnly  bool
	}{
		{KindMasterKey, "mkey", 72, 48, 0, true},
		{KindCheckKey, "ckey", 52, 123, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if string(tt.kind.Tag()) != tt.tag {
				t.Errorf("Tag() = %q, want %q", tt.kind.Tag(), tt.tag)
			}
			if tt.kind.BackOffset() != tt.backOffset {
				t.Errorf("BackOffset() = %d, want %d", tt.kind.BackOffset(), tt.backOffset)
			}
			if tt.kind.WindowSize() != tt.windowSize {
				t.Errorf("WindowSize() = %d, want %d", tt.kind.WindowSize(), tt.windowSize)
			}
			if tt.kind.Skip() != tt.skip {
				t.Errorf("Skip() = %d, want %d", tt.kind.Skip(), tt.skip)
			}
			if tt.kind.FirstOnly() != tt.firstOnly {
				t.Errorf("FirstOnly() = %v, want %v", tt.kind.FirstOnly(), tt.firstOnly)
			}
		})
	}
}

func TestNewRecordCopiesWindowPrefix(t *testing.T) {
	window := make([]byte, CheckKeyWindowSize)
	for i := range window {
		window[i] = byte(255 - i)
	}

	r := NewRecord(KindCheckKey, 100, window)

	if !bytes.Equal(r.Key, window[:EncryptedKeySize]) {
		t.Fatalf("key mismatch: got %x", r.Key)
	}
	if r.Offset() != 48 {
		t.Errorf("Offset() = %d, want 48", r.Offset())
	}
	if !ValidateCRC(r.Key, r.CRC) {
		t.Errorf("CRC does not match key")
	}

	// The record must not alias the caller's buffer.
	window[0] ^= 0xff
	if r.Key[0] == window[0] {
		t.Errorf("record key aliases the window buffer")
	}
}

func TestHexIsLowercaseAndZeroPadded(t *testing.T) {
	got := Hex([]byte{0x0a, 0x00, 0xff, 0xAB})
	if got != "0a00ffab" {
		t.Fatalf("Hex() = %q, want %q", got, "0a00ffab")
	}
}

func TestHexRoundTripEveryByte(t *testing.T) {
	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}

	encoded := Hex(all)
	if len(encoded) != 512 {
		t.Fatalf("expected 512 hex chars, got %d", len(encoded))
	}

	decoded, err := hex.DecodeString(encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if Hex(decoded) != encoded {
		t.Fatalf("re-encoding changed the string")
	}
}

func TestEncodeDecodeRecord(t *testing.T) {
	original := &Record{
		Kind:      KindMasterKey,
		TagOffset: 4096,
		Key:       testKey(),
	}
	original.CRC = CalculateCRC(original.Key)

	encoded, err := EncodeRecordToBytes(original)
	if err != nil {
		t.Fatalf("unexpected encode error: %v", err)
	}

	decoded, err := DecodeRecordFromBytes(encoded)
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}

	if decoded.Kind != original.Kind {
		t.Errorf("Kind mismatch: got %v, want %v", decoded.Kind, original.Kind)
	}
	if decoded.TagOffset != original.TagOffset {
		t.Errorf("TagOffset mismatch: got %v, want %v", decoded.TagOffset, original.TagOffset)
	}
	if decoded.CRC != original.CRC {
		t.Errorf("CRC mismatch: got %v, want %v", decoded.CRC, original.CRC)
	}
	if !bytes.Equal(decoded.Key, original.Key) {
		t.Errorf("Key mismatch: got %x, want %x", decoded.Key, original.Key)
	}
}

func TestDecodeErrorsOnTruncatedData(t *testing.T) {
	r := NewRecord(KindCheckKey, 77, testKey())
	encoded, _ := EncodeRecordToBytes(&r)

	if _, err := DecodeRecordFromBytes(nil); err != io.EOF {
		t.Fatalf("expected io.EOF for empty input, got %v", err)
	}

	for i := 1; i < len(encoded); i++ {
		_, err := DecodeRecordFromBytes(encoded[:i])
		if !errors.Is(err, io.ErrUnexpectedEOF) {
			t.Fatalf("expected io.ErrUnexpectedEOF when decoding truncated data of length %d, got %v", i, err)
		}
	}
}

func TestDecodeRejectsCorruption(t *testing.T) {
	r := NewRecord(KindMasterKey, 90, testKey())
	encoded, _ := EncodeRecordToBytes(&r)

	t.Run("flipped key byte", func(t *testing.T) {
		bad := append([]byte(nil), encoded...)
		bad[len(bad)-1] ^= 0x01
		if _, err := DecodeRecordFromBytes(bad); !errors.Is(err, ErrChecksumMismatch) {
			t.Fatalf("expected ErrChecksumMismatch, got %v", err)
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		bad := append([]byte(nil), encoded...)
		bad[4] = 9
		if _, err := DecodeRecordFromBytes(bad); !errors.Is(err, ErrUnknownKind) {
			t.Fatalf("expected ErrUnknownKind, got %v", err)
		}
	})

	t.Run("wrong key size", func(t *testing.T) {
		bad := append([]byte(nil), encoded...)
		binary.LittleEndian.PutUint32(bad[13:17], 12)
		if _, err := DecodeRecordFromBytes(bad); !errors.Is(err, ErrInvalidKeySize) {
			t.Fatalf("expected ErrInvalidKeySize, got %v", err)
		}
	})
}

func TestEncodedByteLayout(t *testing.T) {
	r := NewRecord(KindCheckKey, 0x0102030405, testKey())

	encoded, err := EncodeRecordToBytes(&r)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	if len(encoded) != HeaderSizeBytes+EncryptedKeySize {
		t.Fatalf("encoded length = %d, want %d", len(encoded), HeaderSizeBytes+EncryptedKeySize)
	}

	// Expected bytes structure:
	// uint32 CRC
	// uint8  Kind
	// int64  TagOffset
	// uint32 KeySize
	// []byte Key
	if got := binary.LittleEndian.Uint32(encoded[0:4]); got != r.CRC {
		t.Fatalf("CRC mismatch: got %v want %v", got, r.CRC)
	}
	if Kind(encoded[4]) != KindCheckKey {
		t.Fatalf("Kind mismatch: got %v", encoded[4])
	}
	if got := int64(binary.LittleEndian.Uint64(encoded[5:13])); got != r.TagOffset {
		t.Fatalf("TagOffset mismatch: got %v want %v", got, r.TagOffset)
	}
	if got := binary.LittleEndian.Uint32(encoded[13:17]); got != EncryptedKeySize {
		t.Fatalf("KeySize mismatch: got %v", got)
	}
	if !bytes.Equal(encoded[17:], r.Key) {
		t.Fatalf("key bytes mismatch")
	}
}

func TestEncodeRejectsUnknownKind(t *testing.T) {
	if _, err := EncodeRecordToBytes(&Record{Key: testKey()}); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}
