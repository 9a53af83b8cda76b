package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Format is the encoding of a settings file.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ErrUnknownKey is wrapped when a settings file names a key that
// Settings does not read.
var ErrUnknownKey = errors.New("unknown settings key")

// FormatOf picks the format from a file extension: .yaml, .yml or .json.
func FormatOf(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported config file extension: %q", ext)
	}
}

// Decode parses data in the given format. The document must be a
// mapping; an empty document gives an empty Config.
func Decode(data []byte, format Format) (Config, error) {
	var m map[string]any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &m); err != nil {
			return Config{}, fmt.Errorf("parse yaml: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &m); err != nil {
			return Config{}, fmt.Errorf("parse json: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format %q", format)
	}
	return New(m), nil
}

// FromFile loads a Config from path, choosing the format by extension.
func FromFile(path string) (Config, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	return Decode(data, format)
}

// FromYAML parses YAML data into a Config.
func FromYAML(data []byte) (Config, error) { return Decode(data, FormatYAML) }

// FromJSON parses JSON data into a Config.
func FromJSON(data []byte) (Config, error) { return Decode(data, FormatJSON) }

type valueKind string

const (
	kindInt      valueKind = "an integer"
	kindBool     valueKind = "a boolean"
	kindString   valueKind = "a string"
	kindDuration valueKind = "a duration"
)

// settingKinds maps every key Settings reads to the value it expects.
var settingKinds = map[string]valueKind{
	"length":            kindInt,
	"workers":           kindInt,
	"shard_depth":       kindInt,
	"output":            kindString,
	"checkpoint":        kindString,
	"run_id":            kindString,
	"log_level":         kindString,
	"log_format":        kindString,
	"metrics":           kindBool,
	"tracing":           kindBool,
	"progress_interval": kindDuration,
}

// CheckSettings reports every key that Settings would ignore and every
// value it would replace with a default because of its type.
func (c Config) CheckSettings() error {
	keys := make([]string, 0, len(c.data))
	for k := range c.data {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var errs []error
	for _, k := range keys {
		kind, ok := settingKinds[k]
		if !ok {
			errs = append(errs, fmt.Errorf("%w %q", ErrUnknownKey, k))
			continue
		}
		if v := c.data[k]; !kind.accepts(v) {
			errs = append(errs, fmt.Errorf("%w: %s must be %s, got %v", ErrInvalidSettings, k, kind, v))
		}
	}
	return errors.Join(errs...)
}

func (k valueKind) accepts(v any) bool {
	switch k {
	case kindInt:
		switch n := v.(type) {
		case int, int64:
			return true
		case float64:
			return n == float64(int(n))
		}
	case kindBool:
		_, ok := v.(bool)
		return ok
	case kindString:
		_, ok := v.(string)
		return ok
	case kindDuration:
		switch d := v.(type) {
		case string:
			_, err := time.ParseDuration(d)
			return err == nil
		case int, int64, float64:
			return true
		}
	}
	return false
}

// LoadSettings reads a settings file and overlays it on DefaultSettings,
// failing on unknown keys and mistyped values. The result is not
// validated; callers apply overrides first and then call Validate.
func LoadSettings(path string) (Settings, error) {
	cfg, err := FromFile(path)
	if err != nil {
		return Settings{}, err
	}
	if err := cfg.CheckSettings(); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg.Settings(), nil
}
