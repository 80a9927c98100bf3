package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/unrolled/render"
)

var ren = render.New()

// responseWriter records the status code and body size a handler produced.
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	written     int64
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// recoveryHandler is a handler that handles and logs panics
func recoveryHandler(outputErr bool, logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				stack := make([]byte, 5012)
				stack = stack[:runtime.Stack(stack, false)]
				displayErr := "Internal server error"
				if outputErr {
					displayErr = fmt.Sprintf("Unexpected error: %v, in %s", err, stack)
				}

				logger.Error("handler.panic", "path", req.URL.Path, "error", err, "stack", string(stack))
				ren.Text(w, http.StatusInternalServerError, displayErr)
			}
		}()

		next.ServeHTTP(w, req)
	})
}

// loggingMiddleware logs one record per request and feeds the access statistics
func loggingMiddleware(logger *slog.Logger, as *accessStats, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, req)

		d := time.Since(start)
		if as != nil {
			as.record(rw.statusCode, rw.written, d)
		}
		logger.Info("request",
			"remote", req.RemoteAddr,
			"method", req.Method,
			"path", req.URL.RequestURI(),
			"proto", req.Proto,
			"status", rw.statusCode,
			"bytes", rw.written,
			"duration", d,
		)
	})
}

// notImplementedHandler answers every method the static handler does not serve
func notImplementedHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ren.Text(w, http.StatusNotImplemented, fmt.Sprintf("Unsupported method ('%s')", req.Method))
	})
}

// staticHandler serves the files under root, with directory listings
func staticHandler(root string) http.Handler {
	if len(root) <= 0 {
		panic("root should not be empty")
	}
	return http.FileServer(http.Dir(root))
}
