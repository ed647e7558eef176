// Package config loads the optional .nscript.yaml settings of the nscript
// command.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/log"
	"gopkg.in/yaml.v3"

	"github.com/agenthands/nscript/pkg/vm"
)

// FileName is looked up in the working directory when no path is given.
const FileName = ".nscript.yaml"

// Config holds interpreter limits and CLI preferences.
type Config struct {
	Gas            int    `yaml:"gas"`
	MaxFrames      int    `yaml:"max_frames"`
	ParseCache     int    `yaml:"parse_cache"`
	MaxSourceBytes int64  `yaml:"max_source_bytes"`
	LogLevel       string `yaml:"log_level"`
	HistoryFile    string `yaml:"history_file"`

	// Path is the file the settings came from, empty for defaults.
	Path string `yaml:"-"`
}

// Default returns the settings used when no file is present.
func Default() *Config {
	return &Config{
		MaxFrames:      vm.DefaultMaxFrames,
		ParseCache:     64,
		MaxSourceBytes: 1 << 20,
		LogLevel:       "info",
	}
}

// ValidationError aggregates configuration problems.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Load reads path over the defaults. Unknown keys are rejected. An empty file
// yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	cfg, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", absPath, err)
	}
	cfg.Path = absPath
	return cfg, nil
}

// Decode reads YAML settings from r over the defaults and validates them.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Discover loads FileName from dir, or returns the defaults when it is absent.
func Discover(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: stat %s: %w", path, err)
	}
	return Load(path)
}

func (c *Config) Validate() error {
	var issues []string
	if c.Gas < 0 {
		issues = append(issues, fmt.Sprintf("gas must be >= 0, got %d", c.Gas))
	}
	if c.MaxFrames < 0 {
		issues = append(issues, fmt.Sprintf("max_frames must be >= 0, got %d", c.MaxFrames))
	}
	if c.ParseCache < 0 {
		issues = append(issues, fmt.Sprintf("parse_cache must be >= 0, got %d", c.ParseCache))
	}
	if c.MaxSourceBytes <= 0 {
		issues = append(issues, fmt.Sprintf("max_source_bytes must be > 0, got %d", c.MaxSourceBytes))
	}
	if _, err := log.ValidateLevel(c.LogLevel); err != nil {
		issues = append(issues, fmt.Sprintf("log_level: %v", err))
	}
	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
