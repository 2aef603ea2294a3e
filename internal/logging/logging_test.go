package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/btcsuite/btclog"
	"github.com/stretchr/testify/require"
)

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	m, err := NewManager(Config{Console: &buf})
	require.NoError(t, err)
	defer m.Close()

	log := m.Logger("SCAN")
	log.Infof("found %d tags", 3)

	require.Contains(t, buf.String(), "[INF] SCAN: found 3 tags")
}

func TestLoggerIsReused(t *testing.T) {
	m, err := NewManager(Config{})
	require.NoError(t, err)

	require.Same(t, m.Logger("WTOL"), m.Logger("WTOL"))
	m.Logger("SCAN")
	require.Equal(t, []string{"SCAN", "WTOL"}, m.SupportedSubsystems())
}

func TestSetLevels(t *testing.T) {
	m, err := NewManager(Config{})
	require.NoError(t, err)

	wtol := m.Logger("WTOL")
	scan := m.Logger("SCAN")

	require.NoError(t, m.SetLevels("debug"))
	require.Equal(t, btclog.LevelDebug, wtol.Level())
	require.Equal(t, btclog.LevelDebug, scan.Level())

	require.NoError(t, m.SetLevels("SCAN=trace,WTOL=off"))
	require.Equal(t, btclog.LevelOff, wtol.Level())
	require.Equal(t, btclog.LevelTrace, scan.Level())

	tests := []string{
		"loud",
		"SCAN",
		"SCAN=loud",
		"NOPE=info",
		"SCAN=info,WTOL",
	}
	for _, level := range tests {
		require.Error(t, m.SetLevels(level), level)
	}
}

func TestDisabledLevelWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	m, err := NewManager(Config{Console: &buf})
	require.NoError(t, err)

	log := m.Logger("WTOL")
	require.NoError(t, m.SetLevels("off"))
	log.Errorf("should not appear")

	require.Zero(t, buf.Len())
}

func TestLogFile(t *testing.T) {
	for _, compressor := range []string{"", Gzip, Zstd} {
		t.Run("compressor="+compressor, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "logs")

			m, err := NewManager(Config{
				LogDir:         dir,
				MaxLogFileSize: 1,
				MaxLogFiles:    2,
				Compressor:     compressor,
			})
			require.NoError(t, err)

			m.Logger("WTOL").Infof("written to file")
			require.NoError(t, m.Close())

			data, err := os.ReadFile(filepath.Join(dir, LogFilename))
			require.NoError(t, err)
			require.Contains(t, string(data), "WTOL: written to file")
		})
	}
}

func TestUnknownCompressor(t *testing.T) {
	_, err := NewManager(Config{
		LogDir:     t.TempDir(),
		Compressor: "lz4",
	})
	require.ErrorContains(t, err, "unknown log compressor")
}
