package internal

import (
	"errors"
	"fmt"

	"github.com/0xRadioAc7iv/go-walletool/internal/logging"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every environment variable, e.g.
// WALLETOOL_DESKTOP_DIR.
const EnvPrefix = "WALLETOOL"

const (
	DEFAULT_DEBUG_LEVEL       = "off"
	DEFAULT_MAX_LOG_FILE_SIZE = 10 // MB
	DEFAULT_MAX_LOG_FILES     = 3
	DEFAULT_CACHE_SIZE        = 1000
)

type Config struct {
	DesktopDir     string `envconfig:"DESKTOP_DIR"`
	DebugLevel     string `envconfig:"DEBUG_LEVEL" default:"off"`
	LogDir         string `envconfig:"LOG_DIR"`
	MaxLogFileSize int    `envconfig:"MAX_LOG_FILE_SIZE" default:"10"`
	MaxLogFiles    int    `envconfig:"MAX_LOG_FILES" default:"3"`
	LogCompressor  string `envconfig:"LOG_COMPRESSOR" default:"gzip"`
	CacheSize      int    `envconfig:"CACHE_SIZE" default:"1000"`
}

func DefaultConfig() *Config {
	return &Config{
		DebugLevel:     DEFAULT_DEBUG_LEVEL,
		MaxLogFileSize: DEFAULT_MAX_LOG_FILE_SIZE,
		MaxLogFiles:    DEFAULT_MAX_LOG_FILES,
		LogCompressor:  logging.Gzip,
		CacheSize:      DEFAULT_CACHE_SIZE,
	}
}

// LoadConfig reads the WALLETOOL_* environment variables on top of the
// defaults.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.CacheSize <= 0 {
		return errors.New("cache size must be greater than 0")
	}
	if c.MaxLogFileSize <= 0 {
		return errors.New("max log file size must be greater than 0")
	}
	if c.MaxLogFiles < 0 {
		return errors.New("max log files cannot be negative")
	}
	if !logging.SupportedLogCompressor(c.LogCompressor) {
		return fmt.Errorf("unknown log compressor: %v", c.LogCompressor)
	}

	return nil
}

// LoggingConfig returns the file logging settings of c.
func (c *Config) LoggingConfig() logging.Config {
	return logging.Config{
		LogDir:         c.LogDir,
		MaxLogFileSize: c.MaxLogFileSize,
		MaxLogFiles:    c.MaxLogFiles,
		Compressor:     c.LogCompressor,
	}
}
