// Package config persists an options.OptionSet as a flat key-value
// document. JSON is the native format; a .toml extension selects TOML.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"webpseq/internal/options"
)

const appDir = "webpseq"

// Format selects the on-disk encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatTOML
)

// FormatFor picks the encoding from a file extension.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, "config.json"), nil
}

// Load reads path on top of base, so every key missing from the file
// keeps the value from base. A missing file returns base unchanged and
// an error matching fs.ErrNotExist.
func Load(path string, base options.OptionSet) (options.OptionSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return base, err
	}
	defer f.Close()

	return Decode(f, FormatFor(path), base)
}

// Decode reads one document from r on top of base.
func Decode(r io.Reader, format Format, base options.OptionSet) (options.OptionSet, error) {
	out := base
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&out); err != nil {
			return base, fmt.Errorf("decode toml config: %w", err)
		}
	default:
		dec := json.NewDecoder(r)
		if err := dec.Decode(&out); err != nil {
			if errors.Is(err, io.EOF) {
				return base, nil
			}
			return base, fmt.Errorf("decode json config: %w", err)
		}
	}
	return out, nil
}

// Save writes o to path, creating parent directories as needed.
func Save(path string, o options.OptionSet) error {
	data, err := Encode(o, FormatFor(path))
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// Encode renders o in the requested format.
func Encode(o options.OptionSet, format Format) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(o); err != nil {
			return nil, fmt.Errorf("encode toml config: %w", err)
		}
	default:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "    ")
		if err := enc.Encode(o); err != nil {
			return nil, fmt.Errorf("encode json config: %w", err)
		}
	}
	return buf.Bytes(), nil
}
