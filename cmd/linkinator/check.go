package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/davidhauck/linkinator/internal/config"
	"github.com/davidhauck/linkinator/internal/crawler"
	"github.com/davidhauck/linkinator/internal/database"
	logpkg "github.com/davidhauck/linkinator/internal/log"
	"github.com/davidhauck/linkinator/internal/model"
	"github.com/davidhauck/linkinator/internal/report"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <url-or-path>",
		Short: "Crawl a target and verify every link it references",
		Long: `Check crawls the target, extracts every link-bearing reference from
the HTML it encounters, and verifies each one resolves to a live
resource.

The target may be a URL or a local filesystem path. Local paths are
served from an ephemeral local HTTP origin for the duration of the
check.

Examples:
  # Check a website's top-level links
  linkinator check https://example.com

  # Recursively check a whole site
  linkinator check --recurse https://example.com

  # Check a local documentation tree
  linkinator check --recurse ./docs

  # Skip external or noisy links
  linkinator check --skip "github.com" --skip "localhost" ./site

  # Machine-readable output
  linkinator check --format json https://example.com

Configuration file (.linkinator) example:
  recurse: true
  concurrency: 50
  timeout: 15s
  skip:
    - twitter.com
    - linkedin.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCheckCmd,
	}

	// Crawl behavior flags
	cmd.Flags().BoolP("recurse", "r", false,
		"Follow links on same-origin HTML pages and check them too")
	cmd.Flags().IntP("concurrency", "j", config.DefaultConcurrency,
		"Number of links checked simultaneously")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Per-request timeout")
	cmd.Flags().DurationP("deadline", "d", 0,
		"Overall crawl deadline; 0 means unlimited")
	cmd.Flags().StringArrayP("skip", "s", nil,
		"Substring of links to skip (repeatable)")
	cmd.Flags().Float64("rps", 0,
		"Maximum requests per second; 0 means unlimited")
	cmd.Flags().String("user-agent", "",
		"Override the User-Agent header")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .linkinator in current or home directory)")

	// Report flags
	cmd.Flags().StringP("format", "f", config.FormatText,
		"Report format: text, json, markdown, or csv")
	cmd.Flags().StringP("output", "o", "",
		"Write the report to the specified file path as well")

	// History flags
	cmd.Flags().Bool("no-history", false,
		"Do not record this run in the scan-history database")

	return cmd
}

// runCheckCmd executes the check command.
func runCheckCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCheck(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from the config file and cobra flags.
// File values are applied first so explicit flags always win.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath = configPath

	// If the user explicitly specified a config file path, error if not
	// found. Otherwise silently run with defaults.
	found := config.FindConfigFile(cfg.ConfigFilePath)
	if found != "" {
		file, err := config.LoadConfigFile(found)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", found, err)
		}
		file.Apply(cfg)
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	if cmd.Flags().Changed("recurse") {
		if cfg.Recurse, err = cmd.Flags().GetBool("recurse"); err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("concurrency") || cfg.Concurrency == 0 {
		if cfg.Concurrency, err = cmd.Flags().GetInt("concurrency"); err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("timeout") {
		if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("deadline") {
		if cfg.Deadline, err = cmd.Flags().GetDuration("deadline"); err != nil {
			return nil, err
		}
	}

	skip, err := cmd.Flags().GetStringArray("skip")
	if err != nil {
		return nil, err
	}
	cfg.Skip = append(cfg.Skip, skip...)

	if cmd.Flags().Changed("rps") {
		if cfg.RequestsPerSecond, err = cmd.Flags().GetFloat64("rps"); err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("user-agent") {
		if cfg.UserAgent, err = cmd.Flags().GetString("user-agent"); err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("format") {
		if cfg.Format, err = cmd.Flags().GetString("format"); err != nil {
			return nil, err
		}
	}

	if cfg.Output, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}

	if cfg.SkipHistory, err = cmd.Flags().GetBool("no-history"); err != nil {
		return nil, err
	}

	if len(args) > 0 {
		cfg.Target = args[0]
	}

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// setupLogger creates a structured logger based on verbosity setting.
// All attributes pass through the credential-redacting handler.
func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(logpkg.NewRedactHandler(handler))
}

// runCheck executes the crawl and renders the report.
func runCheck(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting check",
		"target", cfg.Target,
		"recurse", cfg.Recurse,
		"concurrency", cfg.Concurrency,
	)

	opts := []crawler.Option{
		crawler.WithRecurse(cfg.Recurse),
		crawler.WithConcurrency(cfg.Concurrency),
		crawler.WithSkipSubstrings(cfg.Skip),
		crawler.WithLogger(logger),
	}
	if cfg.Deadline > 0 {
		opts = append(opts, crawler.WithDeadline(cfg.Deadline))
	}
	if cfg.RequestsPerSecond > 0 {
		opts = append(opts, crawler.WithRequestsPerSecond(cfg.RequestsPerSecond))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, crawler.WithUserAgent(cfg.UserAgent))
	}

	hc := &http.Client{Timeout: cfg.Timeout}

	rep, err := crawler.Check(ctx, cfg.Target, hc, opts...)
	if err != nil {
		return err
	}

	if err := outputReport(cfg, rep); err != nil {
		return err
	}

	// History write failures are logged, never fatal: the user already
	// has the report in hand.
	if !cfg.SkipHistory {
		saveReport(ctx, cfg, rep, logger)
	}

	if !rep.Passed {
		_, broken, _ := rep.Counts()
		return fmt.Errorf("%d broken link(s) found", broken)
	}
	return nil
}

// outputReport renders the report in the configured format, to the
// terminal and optionally to a file.
func outputReport(cfg *config.Config, rep *model.Report) error {
	writers := []report.Writer{newWriter(cfg, os.Stdout)}

	if cfg.Output != "" {
		if dir := filepath.Dir(cfg.Output); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		f, err := os.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		writers = append(writers, newWriter(cfg, f))
	}

	_, err := report.NewMultiWriter(writers...).Write(rep)
	return err
}

// newWriter creates the report writer for the configured format.
func newWriter(cfg *config.Config, out io.Writer) report.Writer {
	switch cfg.Format {
	case config.FormatJSON:
		return report.NewJSONWriter(out, report.WithPrettyPrint())
	case config.FormatMarkdown:
		return report.NewMarkdownWriter(out)
	case config.FormatCSV:
		return report.NewCSVWriter(out)
	default:
		return report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose))
	}
}

// saveReport records the run in the scan-history database.
func saveReport(ctx context.Context, cfg *config.Config, rep *model.Report, logger *slog.Logger) {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		logger.Warn("failed to open history database", "dir", cfg.DBDir, "error", err)
		return
	}
	defer db.Close()

	if _, err := db.SaveReport(ctx, rep); err != nil {
		logger.Warn("failed to save report to history", "error", err)
	}
}
