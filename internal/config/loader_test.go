package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

// TestLoadConfigFile tests YAML config loading.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads all fields", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `recurse: true
concurrency: 25
timeout: 30s
deadline: 2m
skip:
  - example.com/ignore
  - "mailto:"
requestsPerSecond: 5.5
userAgent: custom/1.0
format: json
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if cf.Recurse == nil || !*cf.Recurse {
			t.Error("expected recurse true")
		}
		if cf.Concurrency != 25 {
			t.Errorf("expected concurrency 25, got %d", cf.Concurrency)
		}
		if cf.Timeout.Duration != 30*time.Second {
			t.Errorf("expected timeout 30s, got %v", cf.Timeout.Duration)
		}
		if cf.Deadline.Duration != 2*time.Minute {
			t.Errorf("expected deadline 2m, got %v", cf.Deadline.Duration)
		}
		if len(cf.Skip) != 2 {
			t.Errorf("expected 2 skip entries, got %d", len(cf.Skip))
		}
		if cf.RequestsPerSecond != 5.5 {
			t.Errorf("expected rate 5.5, got %v", cf.RequestsPerSecond)
		}
		if cf.UserAgent != "custom/1.0" {
			t.Errorf("expected user agent custom/1.0, got %q", cf.UserAgent)
		}
		if cf.Format != FormatJSON {
			t.Errorf("expected format json, got %q", cf.Format)
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid YAML returns an error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("recurse: [}"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if _, err := LoadConfigFile(path); err == nil {
			t.Fatal("expected parse error")
		}
	})

	t.Run("invalid duration returns an error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("timeout: soon"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if _, err := LoadConfigFile(path); err == nil {
			t.Fatal("expected duration parse error")
		}
	})
}

// TestFindConfigFile tests the config search order.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit existing path wins", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "my.yaml")
		if err := os.WriteFile(path, []byte("format: text"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("explicit missing path yields empty", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "absent")); got != "" {
			t.Errorf("expected empty, got %q", got)
		}
	})
}

// TestFileApply tests merging file values into a Config.
func TestFileApply(t *testing.T) {
	t.Parallel()

	t.Run("non-zero values override defaults", func(t *testing.T) {
		t.Parallel()

		recurse := true
		cf := &File{
			Recurse:     &recurse,
			Concurrency: 7,
			Timeout:     Duration{3 * time.Second},
			Skip:        []string{"ignored"},
			Format:      FormatMarkdown,
		}

		cfg := NewConfig()
		cf.Apply(cfg)

		if !cfg.Recurse {
			t.Error("expected recurse applied")
		}
		if cfg.Concurrency != 7 {
			t.Errorf("expected concurrency 7, got %d", cfg.Concurrency)
		}
		if cfg.Timeout != 3*time.Second {
			t.Errorf("expected timeout 3s, got %v", cfg.Timeout)
		}
		if len(cfg.Skip) != 1 || cfg.Skip[0] != "ignored" {
			t.Errorf("expected skip list applied, got %v", cfg.Skip)
		}
		if cfg.Format != FormatMarkdown {
			t.Errorf("expected format markdown, got %q", cfg.Format)
		}
	})

	t.Run("zero values leave defaults untouched", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		(&File{}).Apply(cfg)

		if cfg.Concurrency != DefaultConcurrency {
			t.Errorf("expected default concurrency, got %d", cfg.Concurrency)
		}
		if cfg.Timeout != DefaultTimeout {
			t.Errorf("expected default timeout, got %v", cfg.Timeout)
		}
		if cfg.Format != FormatText {
			t.Errorf("expected default format, got %q", cfg.Format)
		}
	})

	t.Run("nil file is a no-op", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		var cf *File
		cf.Apply(cfg)

		if cfg.Concurrency != DefaultConcurrency {
			t.Errorf("expected default concurrency, got %d", cfg.Concurrency)
		}
	})
}

// TestDuration tests YAML round-tripping of durations.
func TestDuration(t *testing.T) {
	t.Parallel()

	t.Run("accepts string durations", func(t *testing.T) {
		t.Parallel()

		var d Duration
		if err := yaml.Unmarshal([]byte("1m30s"), &d); err != nil {
			t.Fatalf("failed to unmarshal: %v", err)
		}
		if d.Duration != 90*time.Second {
			t.Errorf("expected 90s, got %v", d.Duration)
		}
	})

	t.Run("accepts numeric seconds", func(t *testing.T) {
		t.Parallel()

		var d Duration
		if err := yaml.Unmarshal([]byte("45"), &d); err != nil {
			t.Fatalf("failed to unmarshal: %v", err)
		}
		if d.Duration != 45*time.Second {
			t.Errorf("expected 45s, got %v", d.Duration)
		}
	})

	t.Run("accepts fractional seconds", func(t *testing.T) {
		t.Parallel()

		var d Duration
		if err := yaml.Unmarshal([]byte("0.5"), &d); err != nil {
			t.Fatalf("failed to unmarshal: %v", err)
		}
		if d.Duration != 500*time.Millisecond {
			t.Errorf("expected 500ms, got %v", d.Duration)
		}
	})

	t.Run("marshals as string", func(t *testing.T) {
		t.Parallel()

		out, err := yaml.Marshal(Duration{90 * time.Second})
		if err != nil {
			t.Fatalf("failed to marshal: %v", err)
		}
		if string(out) != "1m30s\n" {
			t.Errorf("expected 1m30s, got %q", out)
		}
	})
}
