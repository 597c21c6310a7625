// Package config loads vaultgraph settings from an optional YAML file and the
// environment. Environment variables override the file, which overrides the
// defaults.
//
//	MAX_MEM_USAGE       memory ceiling in MiB (default 25)
//	LOG_LEVEL           debug, info, warn or error (default error)
//	CSV_DELIMITER       single character used by the CSV adapter (default ;)
//	VAULTGRAPH_CONFIG   path of the YAML file read when Load is given no path
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/vaultgraph"
	"github.com/hupe1980/vaultgraph/persistence"
)

// Environment variable names.
const (
	EnvMaxMemUsage  = "MAX_MEM_USAGE"
	EnvLogLevel     = "LOG_LEVEL"
	EnvCSVDelimiter = "CSV_DELIMITER"
	EnvCompression  = "VAULTGRAPH_COMPRESSION"
	EnvConfigFile   = "VAULTGRAPH_CONFIG"
)

// DefaultMaxMemUsageMiB is the memory ceiling used when nothing is configured.
const DefaultMaxMemUsageMiB = 25

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the settings shared by the library consumers and the CLI.
type Config struct {
	// MaxMemUsageMiB is the memory ceiling in MiB.
	MaxMemUsageMiB int64 `yaml:"max_mem_usage"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// CSVDelimiter is the field separator of the CSV adapter.
	CSVDelimiter string `yaml:"csv_delimiter"`

	// Compression is the snapshot compression: none, lz4 or zstd.
	Compression string `yaml:"compression"`

	// IOLimitBytesPerSec throttles local snapshot writes. 0 means unlimited.
	IOLimitBytesPerSec int64 `yaml:"io_limit_bytes_per_sec"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MaxMemUsageMiB: DefaultMaxMemUsageMiB,
		LogLevel:       "error",
		CSVDelimiter:   ";",
		Compression:    persistence.CompressionZSTD.String(),
	}
}

// Load builds a Config with priority env > file > defaults. An empty path
// falls back to $VAULTGRAPH_CONFIG; a missing file is not an error.
func Load(path string) (Config, error) {
	return load(path, os.Getenv)
}

func load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = getenv(EnvConfigFile)
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := loadEnv(&cfg, getenv); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func loadEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv(EnvMaxMemUsage); v != "" {
		mib, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalidConfig, EnvMaxMemUsage, v, err)
		}
		cfg.MaxMemUsageMiB = mib
	}
	if v := getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv(EnvCSVDelimiter); v != "" {
		cfg.CSVDelimiter = v
	}
	if v := getenv(EnvCompression); v != "" {
		cfg.Compression = v
	}
	return nil
}

// Validate checks that every field can be mapped to a store option.
func (c Config) Validate() error {
	if c.MaxMemUsageMiB <= 0 {
		return fmt.Errorf("%w: max_mem_usage must be positive, got %d", ErrInvalidConfig, c.MaxMemUsageMiB)
	}
	if c.MaxMemUsageMiB > maxMemUsageMiB {
		return fmt.Errorf("%w: max_mem_usage must not exceed %d, got %d", ErrInvalidConfig, int64(maxMemUsageMiB), c.MaxMemUsageMiB)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := c.Delimiter(); err != nil {
		return err
	}
	if _, err := persistence.ParseCompression(c.Compression); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.IOLimitBytesPerSec < 0 {
		return fmt.Errorf("%w: io_limit_bytes_per_sec must not be negative", ErrInvalidConfig)
	}
	return nil
}

// maxMemUsageMiB is the largest ceiling whose byte count fits in an int64.
const maxMemUsageMiB = math.MaxInt64 >> 20

// MemoryLimitBytes returns the ceiling in bytes.
func (c Config) MemoryLimitBytes() int64 {
	return c.MaxMemUsageMiB << 20
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("%w: log_level: %w", ErrInvalidConfig, err)
	}
	return l, nil
}

// Delimiter returns the CSV separator. It must be a single character.
func (c Config) Delimiter() (rune, error) {
	if utf8.RuneCountInString(c.CSVDelimiter) != 1 {
		return 0, fmt.Errorf("%w: csv_delimiter must be one character, got %q", ErrInvalidConfig, c.CSVDelimiter)
	}
	r, _ := utf8.DecodeRuneInString(c.CSVDelimiter)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("%w: csv_delimiter %q is not allowed", ErrInvalidConfig, c.CSVDelimiter)
	}
	return r, nil
}

// StoreOptions maps the configuration to store options.
func (c Config) StoreOptions() ([]vaultgraph.Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	level, _ := c.Level()
	ct, _ := persistence.ParseCompression(c.Compression)

	return []vaultgraph.Option{
		vaultgraph.WithMemoryLimit(c.MemoryLimitBytes()),
		vaultgraph.WithLogLevel(level),
		vaultgraph.WithCompression(ct),
		vaultgraph.WithIOLimit(c.IOLimitBytesPerSec),
	}, nil
}
