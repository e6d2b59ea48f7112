package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/davidhauck/linkinator/internal/model"
	"github.com/davidhauck/linkinator/internal/server"
)

// Check is the primary entry point of the engine. The target may be a
// URL or a local filesystem path; for paths, Check brings up an
// ephemeral static-file origin for the duration of the crawl and tears
// it down on every exit path, so the crawl itself only ever sees URLs.
//
// A file target serves the file's directory and crawls the file; a
// directory target serves and crawls the directory root.
func Check(ctx context.Context, target string, hc *http.Client, opts ...Option) (*model.Report, error) {
	checker := NewChecker(hc, opts...)

	if isURLTarget(target) {
		return checker.Crawl(ctx, target)
	}

	root, name, err := splitTarget(target)
	if err != nil {
		return nil, err
	}

	srv := server.New(root)
	base, err := srv.Serve()
	if err != nil {
		// No origin, nothing to check: crawl-fatal, no partial report.
		return nil, err
	}
	defer func() {
		_ = srv.Stop()
	}()

	rootURL := base + "/"
	if name != "" {
		rootURL = base + "/" + name
	}
	return checker.Crawl(ctx, rootURL)
}

// isURLTarget reports whether the target names a remote origin rather
// than a filesystem path.
func isURLTarget(target string) bool {
	if !IsAbsolute(target) {
		return false
	}
	u, err := url.Parse(target)
	return err == nil && IsFetchable(u)
}

// splitTarget resolves a filesystem target into the directory to serve
// and, for file targets, the file name to crawl.
func splitTarget(target string) (dir, name string, err error) {
	info, err := os.Stat(target)
	if err != nil {
		return "", "", fmt.Errorf("cannot check %q: %w", target, err)
	}
	if info.IsDir() {
		return target, "", nil
	}
	return filepath.Dir(target), filepath.Base(target), nil
}
