// Package scanner locates tagged key records inside wallet container files.
//
// A wallet container is treated as an opaque byte sequence. Records are found
// by their 4 byte ASCII tag at any byte offset, and the key field is read at a
// fixed distance before the tag.
package scanner

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/0xRadioAc7iv/go-walletool/internal/record"
	"github.com/davecgh/go-spew/spew"
)

// Size of the buffered reader used for tag detection.
const readBufferSize = 64 * 1024

// Scanner hands out passes over a single container.
type Scanner struct {
	r    io.ReaderAt
	size int64
}

// New returns a Scanner reading size bytes from r.
func New(r io.ReaderAt, size int64) *Scanner {
	return &Scanner{r: r, size: size}
}

// Pass starts a new forward walk looking for records of the given kind.
func (s *Scanner) Pass(kind record.Kind) *Pass {
	return &Pass{
		kind:   kind,
		tag:    kind.Tag(),
		r:      s.r,
		size:   s.size,
		br:     bufio.NewReaderSize(io.NewSectionReader(s.r, 0, s.size), readBufferSize),
		window: make([]byte, kind.WindowSize()),
	}
}

// MasterKey runs a master key pass and returns the first record found, or nil
// if the container has no usable "mkey" tag.
func (s *Scanner) MasterKey() (*record.Record, error) {
	rec, err := s.Pass(record.KindMasterKey).Next()
	if err == io.EOF {
		return nil, nil
	}
	return rec, err
}

// CheckKeys runs a check key pass and calls fn for every record in file
// order. Returning an error from fn stops the pass.
func (s *Scanner) CheckKeys(fn func(*record.Record) error) error {
	p := s.Pass(record.KindCheckKey)
	for {
		rec, err := p.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}

// Pass is a single, non-restartable walk over the container. Every byte
// offset is a tag candidate, so tags may overlap. After a match the cursor
// additionally moves by the kind's Skip.
type Pass struct {
	kind record.Kind
	tag  []byte

	r    io.ReaderAt
	size int64
	br   *bufio.Reader

	// last record.TagSize bytes read, oldest first
	shift [record.TagSize]byte

	read   int64 // number of bytes consumed from br
	cursor int64 // next offset allowed to start a tag
	done   bool

	window []byte
}

// Next returns the next record of the pass, or io.EOF once the end of the
// container is reached (or, for first-only kinds, after the first record).
func (p *Pass) Next() (*record.Record, error) {
	for !p.done {
		b, err := p.br.ReadByte()
		if err == io.EOF {
			p.done = true
			break
		}
		if err != nil {
			p.done = true
			return nil, fmt.Errorf("reading container at offset %d: %w", p.read, err)
		}

		copy(p.shift[:], p.shift[1:])
		p.shift[record.TagSize-1] = b
		p.read++

		if p.read < record.TagSize {
			continue
		}

		start := p.read - record.TagSize
		if start < p.cursor {
			continue
		}
		p.cursor = start + 1

		if !bytes.Equal(p.shift[:], p.tag) {
			continue
		}

		rec, ok, err := p.extract(start)
		if err != nil {
			p.done = true
			return nil, err
		}
		if !ok {
			log.Debugf("Ignoring %v tag at offset %d: window [%d, %d) "+
				"is outside the container (size %d)", p.kind, start,
				start-p.kind.BackOffset(),
				start-p.kind.BackOffset()+int64(len(p.window)), p.size)
			continue
		}

		p.cursor += p.kind.Skip()
		if p.kind.FirstOnly() {
			p.done = true
		}

		log.Tracef("Matched %v tag at offset %d: %v", p.kind, start,
			newLogClosure(func() string {
				return spew.Sdump(rec)
			}))

		return rec, nil
	}

	return nil, io.EOF
}

// extract reads the window belonging to a tag at tagOffset. A window that
// does not fit inside the container is reported as !ok rather than an
// error.
func (p *Pass) extract(tagOffset int64) (*record.Record, bool, error) {
	off := tagOffset - p.kind.BackOffset()
	if off < 0 || off+int64(len(p.window)) > p.size {
		return nil, false, nil
	}

	n, err := p.r.ReadAt(p.window, off)
	if n < len(p.window) {
		if err == nil || errors.Is(err, io.EOF) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading %v window at offset %d: %w",
			p.kind, off, err)
	}

	rec := record.NewRecord(p.kind, tagOffset, p.window)
	return &rec, true, nil
}
