package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSession(t *testing.T) {
	data := make([]byte, 300)
	copy(data[150:], "ckey")

	dir := filepath.Join(t.TempDir(), "with space")
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, "wallet.dat")
	require.NoError(t, os.WriteFile(path, data, 0644))

	desktop := t.TempDir()

	input := strings.Join([]string{
		"",
		`dump "` + path + `"`,
		`DUMP "` + path + `"`,
		`remove "` + path + `" SQLite 0123456789`,
		"remove missing.dat SQLite 0123456789",
		"bogus",
		`dump "unterminated`,
		"stats",
		"exit",
		"dump never-reached.dat",
	}, "\n")

	var out, errOut bytes.Buffer
	code := run(context.Background(), []string{"--desktopdir", desktop},
		strings.NewReader(input), &out, &errOut, false)
	require.Zero(t, code)
	require.Empty(t, errOut.String())

	got := out.String()
	require.Equal(t, 2, strings.Count(got, "There is no Master Key in the file"))
	require.Equal(t, 2, strings.Count(got, "encrypted ckey: "))
	require.Contains(t, got, "saved to: "+filepath.Join(desktop, "wallet.dat"))
	require.Contains(t, got, "Error: Source wallet file does not exist: missing.dat")
	require.Contains(t, got, "Error: Invalid Command")
	require.Contains(t, got, "parse error:")
	require.Contains(t, got, "scan_cache_hits: 1")
	require.Contains(t, got, "removal_success: 1")
	require.NotContains(t, got, "never-reached")
	require.NotContains(t, got, "walletool> ")
}

func TestSessionEndsOnEOF(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run(context.Background(), nil, strings.NewReader("help\n"), &out, &errOut, true)
	require.Zero(t, code)
	require.Contains(t, out.String(), "Type commands.")
	require.Contains(t, out.String(), "Available Commands:")
}

func TestSessionEndsOnCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int)

	var out, errOut bytes.Buffer
	go func() {
		done <- run(ctx, nil, pr, &out, &errOut, false)
	}()

	cancel()

	select {
	case code := <-done:
		require.Zero(t, code)
	case <-time.After(5 * time.Second):
		t.Fatal("session did not end after cancellation")
	}
}

func TestBadFlag(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run(context.Background(), []string{"--nope"}, strings.NewReader(""), &out, &errOut, false)
	require.Equal(t, 1, code)
	require.Contains(t, errOut.String(), "Error:")
}
