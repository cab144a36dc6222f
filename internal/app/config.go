package app

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/vk/sheetcalc/internal/cellref"
	"github.com/vk/sheetcalc/internal/dag"
	"github.com/vk/sheetcalc/internal/formula"
)

// Output formats understood by Render.
const (
	OutputTable = "table"
	OutputCSV   = "csv"
	OutputPlain = "plain"
)

// Environment variables providing configuration defaults.
const (
	EnvOutput    = "SHEETCALC_OUTPUT"
	EnvLogLevel  = "SHEETCALC_LOG_LEVEL"
	EnvLogFormat = "SHEETCALC_LOG_FORMAT"
)

var (
	outputFormats = []string{OutputTable, OutputCSV, OutputPlain}
	logLevels     = []string{"debug", "info", "warn", "error"}
	logFormats    = []string{"text", "json"}
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	SheetPath string
	Output    string
	// Updates are applied one by one after the first evaluation.
	Updates []Update

	MaxDepth  int
	CacheSize int

	LogFormat string
	LogLevel  string
}

// Update replaces the text of one cell.
type Update struct {
	Address cellref.Address
	Text    string
}

// DefaultConfig returns the defaults, taking log and output settings from
// the environment when they are set.
func DefaultConfig() Config {
	return Config{
		Output:    envOr(EnvOutput, OutputTable),
		MaxDepth:  dag.DefaultMaxDepth,
		CacheSize: formula.DefaultCacheSize,
		LogFormat: envOr(EnvLogFormat, "text"),
		LogLevel:  envOr(EnvLogLevel, "warn"),
	}
}

// NewConfig validates cfg and returns a normalized copy.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.SheetPath == "" {
		return nil, errors.New("SheetPath is a required configuration field and cannot be empty")
	}

	cfg.Output = strings.ToLower(cfg.Output)
	if !slices.Contains(outputFormats, cfg.Output) {
		return nil, fmt.Errorf("invalid output %q: must be one of %s", cfg.Output, strings.Join(outputFormats, ", "))
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if !slices.Contains(logLevels, cfg.LogLevel) {
		return nil, fmt.Errorf("invalid log-level %q: must be one of %s", cfg.LogLevel, strings.Join(logLevels, ", "))
	}
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if !slices.Contains(logFormats, cfg.LogFormat) {
		return nil, fmt.Errorf("invalid log-format %q: must be one of %s", cfg.LogFormat, strings.Join(logFormats, ", "))
	}
	if cfg.MaxDepth <= 0 {
		return nil, fmt.Errorf("max-depth must be positive, got %d", cfg.MaxDepth)
	}
	if cfg.CacheSize <= 0 {
		return nil, fmt.Errorf("cache-size must be positive, got %d", cfg.CacheSize)
	}

	return &cfg, nil
}

// ParseUpdate parses an ADDR=TEXT assignment. TEXT may be empty and may
// itself contain "=".
func ParseUpdate(raw string) (Update, error) {
	addrText, text, ok := strings.Cut(raw, "=")
	if !ok {
		return Update{}, fmt.Errorf("invalid update %q: expected ADDR=TEXT", raw)
	}
	addr, err := cellref.Parse(strings.TrimSpace(addrText))
	if err != nil {
		return Update{}, fmt.Errorf("invalid update %q: %w", raw, err)
	}
	return Update{Address: addr, Text: text}, nil
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
