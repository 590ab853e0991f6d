// Package config loads the settings shared by the dupes commands.
//
// Values are resolved in order: built-in defaults, an optional TOML file,
// DUPES_* environment variables, then flags set on the command line.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/dendrascience/dupes/dupes"
	"github.com/dendrascience/dupes/report"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "DUPES"

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds every tunable of a scan.
type Config struct {
	Workers     int           `toml:"workers" envconfig:"WORKERS"`
	Algorithm   string        `toml:"algorithm" envconfig:"ALGORITHM"`
	OnError     string        `toml:"on_error" envconfig:"ON_ERROR"`
	ReadTimeout time.Duration `toml:"read_timeout" envconfig:"READ_TIMEOUT"`
	Format      string        `toml:"format" envconfig:"FORMAT"`
	Color       string        `toml:"color" envconfig:"COLOR"`
	Exclude     []string      `toml:"exclude" envconfig:"EXCLUDE"`
	MinSize     int64         `toml:"min_size" envconfig:"MIN_SIZE"`
	LogLevel    string        `toml:"log_level" envconfig:"LOG_LEVEL"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		Workers:   runtime.NumCPU(),
		Algorithm: string(dupes.DefaultAlgorithm),
		OnError:   string(dupes.PolicySkip),
		Format:    string(report.FormatTable),
		Color:     ColorAuto,
		LogLevel:  logrus.WarnLevel.String(),
	}
}

// Load returns the defaults overlaid with the TOML file at file (skipped when
// file is empty) and the environment.
func Load(file string) (Config, error) {
	cfg := Default()

	if file != "" {
		if _, err := os.Stat(file); err != nil {
			return cfg, fmt.Errorf("config file %s: %w", file, err)
		}
		if _, err := toml.DecodeFile(file, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file %s: %w", file, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("reading environment: %w", err)
	}
	return cfg, nil
}

// Validate normalizes the configuration and reports the first invalid value.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.MinSize < 0 {
		return fmt.Errorf("%w: min size must not be negative, got %d", ErrInvalidConfig, c.MinSize)
	}
	if c.ReadTimeout < 0 {
		return fmt.Errorf("%w: read timeout must not be negative, got %s", ErrInvalidConfig, c.ReadTimeout)
	}

	algo, err := dupes.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	c.Algorithm = string(algo)

	policy, err := dupes.ParsePolicy(c.OnError)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	c.OnError = string(policy)

	format, err := report.ParseFormat(c.Format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	c.Format = string(format)

	c.Color = strings.ToLower(strings.TrimSpace(c.Color))
	if c.Color == "" {
		c.Color = ColorAuto
	}
	if !slices.Contains([]string{ColorAuto, ColorAlways, ColorNever}, c.Color) {
		return fmt.Errorf("%w: color must be one of auto, always, never, got %q", ErrInvalidConfig, c.Color)
	}

	for _, pattern := range c.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("%w: exclude pattern %q: %w", ErrInvalidConfig, pattern, doublestar.ErrBadPattern)
		}
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// ScanOptions converts a validated configuration into scanner options.
func (c Config) ScanOptions() dupes.Options {
	return dupes.Options{
		Algorithm:   dupes.Algorithm(c.Algorithm),
		Workers:     c.Workers,
		Policy:      dupes.Policy(c.OnError),
		ReadTimeout: c.ReadTimeout,
		Exclude:     c.Exclude,
		MinSize:     c.MinSize,
	}
}

// UseColor resolves the color mode; auto follows terminal detection.
func (c Config) UseColor(terminal bool) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return terminal
	}
}
