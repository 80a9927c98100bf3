package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Server serves one root directory on one listening socket.
type Server struct {
	root   string
	ln     net.Listener
	srv    *http.Server
	logger *slog.Logger
	stats  *accessStats
}

// NewServer resolves the root directory and then binds the listener, in that
// order. Both failures are returned as *OpError.
func NewServer(cfg Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = discardLogger()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	root, err := resolveRoot(cfg.Root)
	if err != nil {
		return nil, err
	}

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return nil, &OpError{
			Op:   "server.listen",
			Kind: KindListen,
			Path: cfg.Addr(),
			Err:  err,
		}
	}

	s := &Server{
		root:   root,
		ln:     ln,
		logger: logger,
		stats:  newAccessStats(),
	}
	s.srv = &http.Server{
		Handler:           service(root, logger, s.stats),
		ReadHeaderTimeout: 30 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}
	logger.Debug("server.bound", "addr", ln.Addr().String(), "root", root)
	return s, nil
}

func resolveRoot(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", &OpError{Op: "server.root", Kind: KindRootDir, Path: dir, Err: err}
	}

	f, err := os.Open(abs)
	if err != nil {
		return "", &OpError{Op: "server.root", Kind: KindRootDir, Path: abs, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", &OpError{Op: "server.root", Kind: KindRootDir, Path: abs, Err: err}
	}
	if !info.IsDir() {
		return "", &OpError{
			Op:   "server.root",
			Kind: KindRootDir,
			Path: abs,
			Err:  errors.New("not a directory"),
		}
	}
	return abs, nil
}

// Root returns the absolute directory being served.
func (s *Server) Root() string {
	return s.root
}

// Addr returns the bound listener address.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Port returns the bound TCP port.
func (s *Server) Port() int {
	if a, ok := s.ln.Addr().(*net.TCPAddr); ok {
		return a.Port
	}
	_, p, _ := net.SplitHostPort(s.ln.Addr().String())
	n, _ := strconv.Atoi(p)
	return n
}

// URL returns the address a local browser should open.
func (s *Server) URL() string {
	return "http://" + net.JoinHostPort("localhost", strconv.Itoa(s.Port())) + "/"
}

// Serve prints the startup banner to out and serves until ctx is done. It
// returns nil when stopped through ctx.
func (s *Server) Serve(ctx context.Context, out io.Writer) error {
	errc := make(chan error, 1)
	go func() {
		errc <- s.srv.Serve(s.ln)
	}()

	fmt.Fprintf(out, "Serving HTTP on %s (root %s)\n", s.URL(), s.root)
	fmt.Fprintln(out, "Press Ctrl+C to stop the server")
	s.logger.Info("server.started", "addr", s.Addr().String(), "root", s.root)

	var err error
	select {
	case err = <-errc:
	case <-ctx.Done():
		err = s.srv.Close()
		<-errc
	}

	s.logSummary()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return &OpError{
			Op:   "server.serve",
			Kind: KindServe,
			Path: s.Addr().String(),
			Err:  err,
		}
	}
	return nil
}

// Close releases the listener without serving. It is safe to call after
// Serve returned.
func (s *Server) Close() error {
	err := s.srv.Close()
	if cerr := s.ln.Close(); cerr != nil && err == nil && !errors.Is(cerr, net.ErrClosed) {
		err = cerr
	}
	return err
}

func (s *Server) logSummary() {
	sum, err := s.stats.summary()
	if err != nil {
		s.logger.Warn("server.stats", "error", err)
		return
	}
	s.logger.Info("server.stopped",
		"requests", sum.Requests,
		"errors", sum.Errors,
		"bytes", sum.TotalBytes,
		"avg_ms", sum.AvgLatencyMs,
		"std_ms", sum.StdLatencyMs,
		"p95_ms", sum.P95LatencyMs,
	)
}

// Run starts a server for cfg and blocks until ctx is done.
func Run(ctx context.Context, cfg Config, out io.Writer, logger *slog.Logger) error {
	s, err := NewServer(cfg, logger)
	if err != nil {
		return err
	}
	return s.Serve(ctx, out)
}
