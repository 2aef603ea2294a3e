// Package logging owns the btclog backend shared by all walletool
// subsystems, and optionally mirrors it into a rotating log file.
package logging

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"
	"github.com/klauspost/compress/zstd"
)

const (
	LogFilename = "walletool.log"

	Gzip = "gzip"
	Zstd = "zstd"
)

// logCompressors maps each supported compressor to its rolled file suffix.
var logCompressors = map[string]string{
	Gzip: "gz",
	Zstd: "zst",
}

// SupportedLogCompressor reports whether name can be used for rolled logs.
func SupportedLogCompressor(name string) bool {
	_, ok := logCompressors[name]
	return ok
}

type Config struct {
	// Console receives log lines when non-nil.
	Console io.Writer

	// LogDir enables the rotating log file when non-empty.
	LogDir string

	MaxLogFileSize int // MB
	MaxLogFiles    int
	Compressor     string
}

// Manager hands out subsystem loggers that all write through one backend.
type Manager struct {
	backend *btclog.Backend
	console io.Writer
	rotator *rotator.Rotator

	mu         sync.Mutex
	subsystems map[string]btclog.Logger
}

func NewManager(cfg Config) (*Manager, error) {
	m := &Manager{
		console:    cfg.Console,
		subsystems: make(map[string]btclog.Logger),
	}

	if cfg.LogDir != "" {
		if err := m.initRotator(cfg); err != nil {
			return nil, err
		}
	}

	m.backend = btclog.NewBackend(m)

	return m, nil
}

func (m *Manager) initRotator(cfg Config) error {
	compressor := cfg.Compressor
	if compressor == "" {
		compressor = Gzip
	}
	if !SupportedLogCompressor(compressor) {
		return fmt.Errorf("unknown log compressor: %v", compressor)
	}

	if err := os.MkdirAll(cfg.LogDir, 0700); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile := filepath.Join(cfg.LogDir, LogFilename)
	r, err := rotator.New(
		logFile, int64(cfg.MaxLogFileSize*1024), false, cfg.MaxLogFiles,
	)
	if err != nil {
		return fmt.Errorf("failed to create file rotator: %w", err)
	}

	var c rotator.Compressor
	switch compressor {
	case Gzip:
		c = gzip.NewWriter(nil)
	case Zstd:
		c, err = zstd.NewWriter(nil)
		if err != nil {
			r.Close()
			return fmt.Errorf("failed to create zstd compressor: %w", err)
		}
	}
	r.SetCompressor(c, logCompressors[compressor])

	m.rotator = r
	return nil
}

// Write sends b to the console and the log file, whichever are enabled.
func (m *Manager) Write(b []byte) (int, error) {
	if m.console != nil {
		m.console.Write(b)
	}
	if m.rotator != nil {
		return m.rotator.Write(b)
	}
	return len(b), nil
}

// Logger returns the logger for subsystem, creating it on first use.
func (m *Manager) Logger(subsystem string) btclog.Logger {
	m.mu.Lock()
	defer m.mu.Unlock()

	if l, ok := m.subsystems[subsystem]; ok {
		return l
	}

	l := m.backend.Logger(subsystem)
	m.subsystems[subsystem] = l
	return l
}

// SupportedSubsystems returns the sorted names of all created loggers.
func (m *Manager) SupportedSubsystems() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	subsystems := make([]string, 0, len(m.subsystems))
	for id := range m.subsystems {
		subsystems = append(subsystems, id)
	}
	sort.Strings(subsystems)

	return subsystems
}

// SetLevels applies a debug level specification. A bare level applies to
// every subsystem; otherwise it is a comma separated list of SUBSYS=level
// pairs.
func (m *Manager) SetLevels(debugLevel string) error {
	if !strings.Contains(debugLevel, ",") && !strings.Contains(debugLevel, "=") {
		level, ok := btclog.LevelFromString(debugLevel)
		if !ok {
			return fmt.Errorf("the specified debug level [%v] is "+
				"invalid", debugLevel)
		}

		m.mu.Lock()
		for _, l := range m.subsystems {
			l.SetLevel(level)
		}
		m.mu.Unlock()

		return nil
	}

	for _, pair := range strings.Split(debugLevel, ",") {
		fields := strings.Split(pair, "=")
		if len(fields) != 2 {
			return fmt.Errorf("the specified debug level contains "+
				"an invalid subsystem/level pair [%v]", pair)
		}

		subsysID, logLevel := fields[0], fields[1]

		m.mu.Lock()
		l, ok := m.subsystems[subsysID]
		m.mu.Unlock()
		if !ok {
			return fmt.Errorf("the specified subsystem [%v] is "+
				"invalid -- supported subsystems %v", subsysID,
				m.SupportedSubsystems())
		}

		level, ok := btclog.LevelFromString(logLevel)
		if !ok {
			return fmt.Errorf("the specified debug level [%v] is "+
				"invalid", logLevel)
		}
		l.SetLevel(level)
	}

	return nil
}

// Close flushes and closes the log file, if any.
func (m *Manager) Close() error {
	if m.rotator != nil {
		return m.rotator.Close()
	}
	return nil
}
