package record

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// Kind identifies which wallet tag a record was located by.
type Kind uint8

const (
	KindMasterKey Kind = iota + 1
	KindCheckKey
)

// TagSize is the length of the ASCII tags that mark records in a wallet file.
const TagSize = 4

// EncryptedKeySize is the length of every reported key field.
const EncryptedKeySize = 48

const (
	// The master key field starts 72 bytes before its "mkey" tag.
	MasterKeyBackOffset = 72
	MasterKeyWindowSize = 48

	// The check key window starts 52 bytes before its "ckey" tag. Only the
	// first EncryptedKeySize bytes of it are reported.
	CheckKeyBackOffset = 52
	CheckKeyWindowSize = 123

	// Extra cursor advance applied after every "ckey" match, on top of the
	// regular one byte stride.
	CheckKeySkip = 3
)

var (
	masterKeyTag = []byte("mkey")
	checkKeyTag  = []byte("ckey")
)

// CRC (4) + Kind (1) + TagOffset (8) + KeySize (4)
const HeaderSizeBytes = 17

var (
	ErrUnknownKind      = errors.New("unknown record kind")
	ErrInvalidKeySize   = errors.New("invalid record key size")
	ErrChecksumMismatch = errors.New("record checksum mismatch")
)

func (k Kind) String() string {
	switch k {
	case KindMasterKey:
		return "mkey"
	case KindCheckKey:
		return "ckey"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Tag returns the 4 byte marker that records of this kind are located by.
func (k Kind) Tag() []byte {
	switch k {
	case KindMasterKey:
		return masterKeyTag
	case KindCheckKey:
		return checkKeyTag
	default:
		return nil
	}
}

// BackOffset is the distance from the tag position back to the window start.
func (k Kind) BackOffset() int64 {
	switch k {
	case KindMasterKey:
		return MasterKeyBackOffset
	case KindCheckKey:
		return CheckKeyBackOffset
	default:
		return 0
	}
}

// WindowSize is the number of bytes read at the window start.
func (k Kind) WindowSize() int {
	switch k {
	case KindMasterKey:
		return MasterKeyWindowSize
	case KindCheckKey:
		return CheckKeyWindowSize
	default:
		return 0
	}
}

// Skip is the extra cursor advance after a match.
func (k Kind) Skip() int64 {
	if k == KindCheckKey {
		return CheckKeySkip
	}
	return 0
}

// FirstOnly reports whether a scan stops after the first match of this kind.
func (k Kind) FirstOnly() bool {
	return k == KindMasterKey
}

func (k Kind) valid() bool {
	return k == KindMasterKey || k == KindCheckKey
}

// Record is a key field located in a wallet container.
type Record struct {
	Kind      Kind
	TagOffset int64  // Byte offset where the tag matched
	Key       []byte // EncryptedKeySize bytes taken from the window start
	CRC       uint32 // Checksum of Key
}

// NewRecord builds a record from a full window read for kind at tagOffset.
// The key bytes are copied, so window may be reused by the caller.
func NewRecord(kind Kind, tagOffset int64, window []byte) Record {
	key := make([]byte, EncryptedKeySize)
	copy(key, window)

	return Record{
		Kind:      kind,
		TagOffset: tagOffset,
		Key:       key,
		CRC:       CalculateCRC(key),
	}
}

// Offset returns the byte offset of the window the key was taken from.
func (r *Record) Offset() int64 {
	return r.TagOffset - r.Kind.BackOffset()
}

// Hex returns the key as lowercase hexadecimal.
func (r *Record) Hex() string {
	return Hex(r.Key)
}

// Hex renders b as 2*len(b) lowercase hex digits, most significant nibble
// first.
func Hex(b []byte) string {
	return hex.EncodeToString(b)
}

func EncodeRecordToBytes(record *Record) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := WriteRecord(buf, record); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteRecord appends the binary form of record to w.
//
// The layout is little-endian:
//
//	<crc:uint32><kind:uint8><tag_offset:int64><key_size:uint32><key>
func WriteRecord(w io.Writer, record *Record) error {
	if !record.Kind.valid() {
		return ErrUnknownKind
	}

	if err := binary.Write(w, binary.LittleEndian, record.CRC); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint8(record.Kind)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, record.TagOffset); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(record.Key))); err != nil {
		return err
	}
	if _, err := w.Write(record.Key); err != nil {
		return err
	}

	return nil
}

func DecodeRecordFromBytes(data []byte) (*Record, error) {
	return ReadRecord(bytes.NewReader(data))
}

// ReadRecord decodes one record written by WriteRecord. A clean end of
// input before the first byte is reported as io.EOF; a record cut short
// anywhere else is io.ErrUnexpectedEOF.
func ReadRecord(r io.Reader) (*Record, error) {
	header := make([]byte, HeaderSizeBytes)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	crc := binary.LittleEndian.Uint32(header[0:4])
	kind := Kind(header[4])
	tagOffset := int64(binary.LittleEndian.Uint64(header[5:13]))
	keySize := binary.LittleEndian.Uint32(header[13:17])

	if !kind.valid() {
		return nil, ErrUnknownKind
	}
	if keySize != EncryptedKeySize {
		return nil, ErrInvalidKeySize
	}

	key := make([]byte, keySize)
	if _, err := io.ReadFull(r, key); err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	if !ValidateCRC(key, crc) {
		return nil, ErrChecksumMismatch
	}

	return &Record{
		Kind:      kind,
		TagOffset: tagOffset,
		Key:       key,
		CRC:       crc,
	}, nil
}
