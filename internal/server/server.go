package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"
)

// ErrNotServing is returned by BaseURL and Stop when Serve has not run.
var ErrNotServing = errors.New("static server is not running")

// Server exposes a filesystem directory as a temporary HTTP origin on
// an ephemeral local port.
//
// Design decision: We bind 127.0.0.1:0 and let the kernel pick the port
// because:
//  1. Concurrent checks on one machine must not race for a fixed port
//  2. The origin only exists for the lifetime of a single crawl
//  3. Nothing outside the crawl should be able to reach it
type Server struct {
	// root is the directory served as the origin's document root.
	root string

	mu       sync.Mutex
	listener net.Listener
	srv      *http.Server
}

// New creates a Server for the given document root. The listener is not
// bound until Serve is called.
func New(root string) *Server {
	return &Server{root: root}
}

// Serve binds an ephemeral listener and starts serving static files.
// It returns the origin's base URL, for example "http://127.0.0.1:53194".
//
// A failure to bind is crawl-fatal for the caller: without an origin
// there is nothing to check.
func (s *Server) Serve() (string, error) {
	info, err := os.Stat(s.root)
	if err != nil {
		return "", fmt.Errorf("cannot serve %q: %w", s.root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("cannot serve %q: not a directory", s.root)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("failed to bind local listener: %w", err)
	}

	srv := &http.Server{
		Handler:           http.FileServer(http.Dir(s.root)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.mu.Lock()
	s.listener = ln
	s.srv = srv
	s.mu.Unlock()

	go func() {
		// ErrServerClosed is the normal shutdown signal.
		_ = srv.Serve(ln)
	}()

	return "http://" + ln.Addr().String(), nil
}

// BaseURL returns the origin's base URL while serving.
func (s *Server) BaseURL() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return "", ErrNotServing
	}
	return "http://" + s.listener.Addr().String(), nil
}

// Stop releases the listener. It is safe to call more than once and on
// a Server that never served; extra calls are no-ops.
func (s *Server) Stop() error {
	s.mu.Lock()
	srv := s.srv
	s.srv = nil
	s.listener = nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
