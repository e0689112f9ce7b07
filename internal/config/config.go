// Package config loads runtime settings for the CLI and the HTTP service.
//
// Settings come from DefaultConfig, then an optional YAML file, then
// environment variables, in increasing priority.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/maastrichtu-biss/informed-search/internal/aostar"
	"github.com/maastrichtu-biss/informed-search/internal/astar"
)

// Environment overrides
const (
	EnvAddr          = "INFORMED_SEARCH_ADDR"
	EnvLogLevel      = "INFORMED_SEARCH_LOG_LEVEL"
	EnvMaxExpansions = "INFORMED_SEARCH_MAX_EXPANSIONS"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the root configuration
type Config struct {
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	Search SearchConfig `yaml:"search"`
}

// ServerConfig configures the HTTP service
type ServerConfig struct {
	Addr       string `yaml:"addr" validate:"required"`
	CORSOrigin string `yaml:"corsOrigin"`
	// MaxBodyBytes caps request bodies
	MaxBodyBytes int64 `yaml:"maxBodyBytes" validate:"gt=0"`
}

// LogConfig configures slog
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// SearchConfig holds engine defaults used when a request does not set them
type SearchConfig struct {
	TieBreak      string `yaml:"tieBreak" validate:"omitempty,oneof=lower-g higher-g"`
	Strategy      string `yaml:"strategy" validate:"omitempty,oneof=astar greedy uniform-cost"`
	MaxExpansions int    `yaml:"maxExpansions" validate:"gte=0"`
	CyclePolicy   string `yaml:"cyclePolicy" validate:"omitempty,oneof=strict lenient"`
}

// DefaultConfig returns the built-in settings
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			CORSOrigin:   "*",
			MaxBodyBytes: 1 << 20,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Search: SearchConfig{
			TieBreak:    "lower-g",
			Strategy:    "astar",
			CyclePolicy: "strict",
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads path (if non-empty) over the defaults, applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.Server.Addr = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v, ok := lookup(EnvMaxExpansions); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvMaxExpansions, v)
		}
		c.Search.MaxExpansions = n
	}
	return nil
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// SlogLevel converts the configured level
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// AStarOptions converts the search defaults into engine options
func (s SearchConfig) AStarOptions() ([]astar.Option, error) {
	tb, err := astar.ParseTieBreak(s.TieBreak)
	if err != nil {
		return nil, err
	}
	strategy, err := astar.ParseStrategy(s.Strategy)
	if err != nil {
		return nil, err
	}
	return []astar.Option{
		astar.WithTieBreak(tb),
		astar.WithStrategy(strategy),
		astar.WithMaxExpansions(s.MaxExpansions),
	}, nil
}

// AOStarOptions converts the search defaults into solver options
func (s SearchConfig) AOStarOptions() ([]aostar.Option, error) {
	policy, err := aostar.ParseCyclePolicy(s.CyclePolicy)
	if err != nil {
		return nil, err
	}
	return []aostar.Option{aostar.WithCyclePolicy(policy)}, nil
}

// NewLogger builds the process logger
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
