package walletool

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/0xRadioAc7iv/go-walletool/core"
	"github.com/0xRadioAc7iv/go-walletool/internal"
	"github.com/0xRadioAc7iv/go-walletool/internal/cache"
	"github.com/0xRadioAc7iv/go-walletool/internal/metrics"
	"github.com/lightningnetwork/lnd/clock"
)

var ErrInvalidCommand = errors.New("Invalid Command")

const helpString = `
Available Commands:

DUMP <wallet>
  Print the encrypted master key and every encrypted check key.
  Repeated dumps of an unchanged file are served from cache.

REMOVE <wallet> <BerkelyDB|SQLite> <5-byte-hex-key>
  Copy the wallet to <Desktop>/wallet.dat with the password removed.

STATS
  Show event counters for this session.

HELP
  Show this help message.

EXIT
  Quit the shell.
`

// Client is a walletool session sharing one scan cache and one set of
// counters across calls.
type Client struct {
	tool *core.Walletool
}

func New(opts ...Option) (*Client, error) {
	s := &settings{
		cfg:   internal.DefaultConfig(),
		out:   os.Stdout,
		clock: clock.NewDefaultClock(),
	}

	for _, opt := range opts {
		opt(s)
	}
	if s.out == nil {
		s.out = os.Stdout
	}

	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		tool: &core.Walletool{
			Output:     s.out,
			DesktopDir: s.cfg.DesktopDir,
			Cache:      cache.New(s.cfg.CacheSize, s.clock),
			Metrics:    metrics.New(),
		},
	}, nil
}

func (c *Client) DumpAllKeys(path string) error {
	return c.tool.DumpAllKeys(path)
}

// RemovePassword returns the path of the written copy.
func (c *Client) RemovePassword(path, dbType, key string) (string, error) {
	return c.tool.RemovePassword(core.RemovalRequest{
		WalletPath: path,
		DBType:     dbType,
		Key:        key,
	})
}

// Scan returns the records of path without printing them.
func (c *Client) Scan(path string) (*core.ScanResult, error) {
	return c.tool.Scan(path)
}

func (c *Client) Stats() (map[string]uint64, error) {
	return c.tool.Metrics.Snapshot()
}

func (c *Client) ResetStats() {
	c.tool.Metrics.Reset()
}

// Execute runs one shell command. Command names are case insensitive.
func (c *Client) Execute(cmd string, args []string) error {
	switch strings.ToLower(cmd) {
	case "dump":
		if len(args) != 1 {
			return errors.New("usage: dump <wallet>")
		}
		return c.DumpAllKeys(args[0])

	case "remove":
		if len(args) != 3 {
			return errors.New("usage: remove <wallet> <BerkelyDB|SQLite> <5-byte-hex-key>")
		}
		_, err := c.RemovePassword(args[0], args[1], args[2])
		return err

	case "stats":
		snap, err := c.Stats()
		if err != nil {
			return err
		}
		for _, line := range metrics.Format(snap) {
			fmt.Fprintln(c.tool.Output, line)
		}
		return nil

	case "help":
		fmt.Fprintln(c.tool.Output, strings.TrimSpace(helpString))
		return nil

	default:
		return ErrInvalidCommand
	}
}
