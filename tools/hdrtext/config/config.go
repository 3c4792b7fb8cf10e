// Package config loads the settings used by hdrtext to encode and decode
// header fields.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/zostay/go-email-text/header/field"
)

// ErrCharsetRequired is returned by Validate when the charset is blank.
var ErrCharsetRequired = errors.New("charset is required")

// Config holds the encoding settings read from a YAML file.
type Config struct {
	Charset    string `koanf:"charset"`     // charset for encoded-words
	FoldLength int    `koanf:"fold_length"` // preferred line length, -1 to never fold
	FoldIndent string `koanf:"fold_indent"` // whitespace starting each continuation line
	Scope      string `koanf:"scope"`       // line, value, or word
	Unsafe     string `koanf:"unsafe"`      // ASCII characters that are always escaped
	LogLevel   string `koanf:"log_level"`   // debug, info, warn, error
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Charset:    field.DefaultCharset,
		FoldLength: field.DefaultPreferredFoldLength,
		FoldIndent: field.DefaultFoldIndent,
		Scope:      field.PerLine.String(),
		LogLevel:   "info",
	}
}

// Load reads the YAML file at path over the defaults. The defaults are returned
// as they are when path is empty or names a file that does not exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration can be turned into field options.
func (c *Config) Validate() error {
	if c.Charset == "" {
		return ErrCharsetRequired
	}

	if _, err := c.FoldEncoding(); err != nil {
		return fmt.Errorf("fold_length: %w", err)
	}

	if _, err := field.ParseScope(c.Scope); err != nil {
		return fmt.Errorf("scope: %w", err)
	}

	return nil
}

// FoldEncoding builds the fold settings. A FoldLength of field.DoNotFold turns
// folding off entirely.
func (c *Config) FoldEncoding() (*field.FoldEncoding, error) {
	if c.FoldLength == field.DoNotFold {
		return field.NewFoldEncoding(c.FoldIndent, field.DoNotFold, field.DoNotFold)
	}
	return field.NewFoldEncoding(c.FoldIndent, c.FoldLength, field.DefaultForcedFoldLength)
}

// Options returns the field options matching the configuration.
func (c *Config) Options() ([]field.Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	vf, err := c.FoldEncoding()
	if err != nil {
		return nil, err
	}

	scope, err := field.ParseScope(c.Scope)
	if err != nil {
		return nil, err
	}

	opts := []field.Option{
		field.WithCharset(c.Charset),
		field.WithFoldEncoding(vf),
		field.WithScope(scope),
	}
	if c.Unsafe != "" {
		opts = append(opts, field.WithUnsafe(c.Unsafe))
	}

	return opts, nil
}

// Classifier returns the classifier an encoded field will use, for reporting.
func (c *Config) Classifier() (*field.Classifier, error) {
	vf, err := c.FoldEncoding()
	if err != nil {
		return nil, err
	}

	scope, err := field.ParseScope(c.Scope)
	if err != nil {
		return nil, err
	}

	return &field.Classifier{
		Unsafe:         c.Unsafe,
		MaxPlainLength: vf.MaxPlainLength(),
		Scope:          scope,
	}, nil
}

// Level parses LogLevel. Unknown levels are treated as info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
