package walletool

import (
	"io"

	"github.com/0xRadioAc7iv/go-walletool/internal"
	"github.com/lightningnetwork/lnd/clock"
)

type settings struct {
	cfg   *internal.Config
	out   io.Writer
	clock clock.Clock
}

type Option func(*settings)

// WithDesktopDir sets the directory the password removal copy is written to.
func WithDesktopDir(dir string) Option {
	return func(s *settings) {
		s.cfg.DesktopDir = dir
	}
}

// WithCacheSize bounds the number of wallet files whose scans are cached.
func WithCacheSize(n int) Option {
	return func(s *settings) {
		s.cfg.CacheSize = n
	}
}

func WithOutput(w io.Writer) Option {
	return func(s *settings) {
		s.out = w
	}
}

func WithClock(c clock.Clock) Option {
	return func(s *settings) {
		s.clock = c
	}
}

// WithConfig starts from cfg instead of the defaults. Options given after it
// still apply.
func WithConfig(cfg *internal.Config) Option {
	return func(s *settings) {
		c := *cfg
		s.cfg = &c
	}
}
