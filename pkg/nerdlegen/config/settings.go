package config

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"
)

// Candidate lengths supported by the game datasets.
const (
	MinLength     = 4
	MaxLength     = 11
	DefaultLength = 8
)

// MaxShardDepth is the deepest prefix partition a run accepts.
const MaxShardDepth = 4

// ErrInvalidSettings is wrapped by every Validate failure.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings is the typed configuration of one enumeration run.
type Settings struct {
	Length           int
	Workers          int
	ShardDepth       int
	Output           string
	Checkpoint       string
	RunID            string
	LogLevel         string
	LogFormat        string
	Metrics          bool
	Tracing          bool
	ProgressInterval time.Duration
}

// DefaultSettings returns the settings used when nothing is configured:
// length 8 to stdout with one worker per CPU.
func DefaultSettings() Settings {
	return Settings{
		Length:     DefaultLength,
		Workers:    runtime.GOMAXPROCS(0),
		ShardDepth: 2,
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// Settings overlays the config values onto DefaultSettings.
func (c Config) Settings() Settings {
	s := DefaultSettings()
	s.Length = c.Int("length", s.Length)
	s.Workers = c.Int("workers", s.Workers)
	s.ShardDepth = c.Int("shard_depth", s.ShardDepth)
	s.Output = c.String("output", s.Output)
	s.Checkpoint = c.String("checkpoint", s.Checkpoint)
	s.RunID = c.String("run_id", s.RunID)
	s.LogLevel = c.String("log_level", s.LogLevel)
	s.LogFormat = c.String("log_format", s.LogFormat)
	s.Metrics = c.Bool("metrics", s.Metrics)
	s.Tracing = c.Bool("tracing", s.Tracing)
	s.ProgressInterval = c.Duration("progress_interval", s.ProgressInterval)
	return s
}

// Validate checks ranges and enumerated values.
func (s Settings) Validate() error {
	if s.Length < MinLength || s.Length > MaxLength {
		return fmt.Errorf("%w: length %d outside %d..%d", ErrInvalidSettings, s.Length, MinLength, MaxLength)
	}
	if s.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidSettings, s.Workers)
	}
	if maxDepth := min(s.Length, MaxShardDepth); s.ShardDepth < 1 || s.ShardDepth > maxDepth {
		return fmt.Errorf("%w: shard depth %d outside 1..%d", ErrInvalidSettings, s.ShardDepth, maxDepth)
	}
	if _, err := s.SlogLevel(); err != nil {
		return err
	}
	switch s.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log format %q, want text or json", ErrInvalidSettings, s.LogFormat)
	}
	if s.ProgressInterval < 0 {
		return fmt.Errorf("%w: negative progress interval %s", ErrInvalidSettings, s.ProgressInterval)
	}
	return nil
}

// SlogLevel maps LogLevel to a slog.Level.
func (s Settings) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalidSettings, s.LogLevel)
	}
}
