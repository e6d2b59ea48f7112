package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".linkinator"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the on-disk YAML configuration. Every field is optional;
// zero values leave the corresponding Config field untouched, and
// explicit CLI flags always take precedence over file values.
type File struct {
	// Recurse enables same-origin recursion by default.
	Recurse *bool `yaml:"recurse,omitempty"`

	// Concurrency is the default worker-pool size.
	Concurrency int `yaml:"concurrency,omitempty"`

	// Timeout is the default per-request timeout.
	Timeout Duration `yaml:"timeout,omitempty"`

	// Deadline is the default crawl-level deadline.
	Deadline Duration `yaml:"deadline,omitempty"`

	// Skip lists substrings of links to skip.
	Skip []string `yaml:"skip,omitempty"`

	// RequestsPerSecond is the default fetch rate limit.
	RequestsPerSecond float64 `yaml:"requestsPerSecond,omitempty"`

	// UserAgent overrides the default User-Agent header.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Format is the default report format.
	Format string `yaml:"format,omitempty"`
}

// LoadConfigFile loads crawl defaults from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound. Callers
// should handle this based on whether the path was explicitly specified
// by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .linkinator in the current directory
// 3. Look for .linkinator in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// Apply copies the file's non-zero values onto cfg. It is called before
// flag values are applied, so flags overwrite anything set here.
func (f *File) Apply(cfg *Config) {
	if f == nil {
		return
	}
	if f.Recurse != nil {
		cfg.Recurse = *f.Recurse
	}
	if f.Concurrency > 0 {
		cfg.Concurrency = f.Concurrency
	}
	if f.Timeout.Duration > 0 {
		cfg.Timeout = f.Timeout.Duration
	}
	if f.Deadline.Duration > 0 {
		cfg.Deadline = f.Deadline.Duration
	}
	if len(f.Skip) > 0 {
		cfg.Skip = append(cfg.Skip, f.Skip...)
	}
	if f.RequestsPerSecond > 0 {
		cfg.RequestsPerSecond = f.RequestsPerSecond
	}
	if f.UserAgent != "" {
		cfg.UserAgent = f.UserAgent
	}
	if f.Format != "" {
		cfg.Format = f.Format
	}
}
