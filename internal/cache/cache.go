package cache

import (
	"sync"

	"github.com/lightningnetwork/lnd/clock"
)

// Entry is the cached outcome of scanning one wallet file.
//
// An entry is only valid for the exact file it was built from: Size, ModTime
// and Checksum must match the file on disk at lookup time, otherwise the
// caller treats it as stale and rescans. Size and mtime alone are not enough,
// a same-size copy made with preserved times looks identical.
type Entry struct {
	Size      int64  // File size in bytes at scan time
	ModTime   int64  // File modification time, unix nanoseconds
	Checksum  uint32 // CRC32 of the whole file, see record.ReaderCRC
	Data      []byte // Encoded records, see record.WriteRecord
	Timestamp int64  // When the entry was stored, unix nanoseconds
}

// Fresh reports whether e was built from a file with the given size,
// modification time and content checksum.
func (e Entry) Fresh(size, modTime int64, checksum uint32) bool {
	return e.Size == size && e.ModTime == modTime && e.Checksum == checksum
}

// ScanCache maps absolute wallet paths to their latest scan results.
// When full, storing a new path evicts the entry with the oldest Timestamp.
type ScanCache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	max     int
	clock   clock.Clock
}

func New(max int, clk clock.Clock) *ScanCache {
	if clk == nil {
		clk = clock.NewDefaultClock()
	}

	return &ScanCache{
		entries: make(map[string]Entry),
		max:     max,
		clock:   clk,
	}
}

// Store saves e under key, stamping it with the current time.
func (c *ScanCache) Store(key string, e Entry) {
	e.Timestamp = c.clock.Now().UnixNano()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.max {
		c.evictOldest()
	}
	c.entries[key] = e
}

func (c *ScanCache) Retrieve(key string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	return e, ok
}

// Delete drops key from the cache, if present.
func (c *ScanCache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

func (c *ScanCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// callers must hold mu
func (c *ScanCache) evictOldest() {
	var (
		oldestKey string
		oldestTs  int64
		found     bool
	)

	for k, e := range c.entries {
		if !found || e.Timestamp < oldestTs {
			oldestKey, oldestTs, found = k, e.Timestamp, true
		}
	}

	if found {
		delete(c.entries, oldestKey)
	}
}
