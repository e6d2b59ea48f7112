package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultConcurrency is the worker-pool size for link checks.
	// Link checks are cheap HEAD requests, so a generous default keeps
	// large sites fast without overwhelming a single origin.
	DefaultConcurrency = 100

	// DefaultTimeout is the per-request timeout. Liveness checks
	// transfer little or no payload, so ten seconds comfortably covers
	// slow servers while keeping dead hosts from stalling a crawl.
	DefaultTimeout = 10 * time.Second

	// AppName is the application name used for XDG directory paths.
	AppName = "linkinator"
)

// Report output formats accepted by the --format flag.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
)

// Config holds all options for one linkinator invocation.
//
// Design decision: We use a single flat struct instead of nested structs
// for simplicity. The number of options is manageable, and nesting would
// add complexity without significant benefit.
type Config struct {
	// Target is the URL or local filesystem path to check.
	Target string

	// Recurse enables expansion of same-origin HTML pages beyond the
	// root's direct links.
	Recurse bool

	// Concurrency is the number of links checked simultaneously.
	Concurrency int

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// Deadline bounds the whole crawl. Zero means unlimited; when the
	// deadline passes, the report reflects whatever completed.
	Deadline time.Duration

	// Skip lists literal substrings; links containing any of them are
	// skipped without being fetched.
	Skip []string

	// RequestsPerSecond limits the fetch rate across workers.
	// Zero disables rate limiting.
	RequestsPerSecond float64

	// UserAgent overrides the User-Agent header when non-empty.
	UserAgent string

	// Format selects the report output format (text, json, markdown, csv).
	Format string

	// Output is a file path the report is also written to. Empty means
	// terminal only.
	Output string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is an explicit config file path. If empty, the
	// tool searches for .linkinator in the current directory and then
	// in the user's home directory.
	ConfigFilePath string

	// SkipHistory disables recording the run in the scan-history
	// database.
	SkipHistory bool

	// DBDir is the directory holding the scan-history database.
	DBDir string
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		Concurrency: DefaultConcurrency,
		Timeout:     DefaultTimeout,
		Format:      FormatText,
		DBDir:       XDGDataDir(),
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Target == "" {
		return ErrNoTarget
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Deadline < 0 {
		return ErrInvalidDeadline
	}
	if c.RequestsPerSecond < 0 {
		return ErrInvalidRate
	}
	switch c.Format {
	case FormatText, FormatJSON, FormatMarkdown, FormatCSV:
	default:
		return ErrInvalidFormat
	}
	return nil
}

// XDGDataDir returns the directory for persistent application data,
// following the XDG Base Directory specification.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}
