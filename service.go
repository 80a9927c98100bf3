package main

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
)

func service(root string, logger *slog.Logger, as *accessStats) http.Handler {
	const pathPrefix = "/"

	r := mux.NewRouter()
	r.PathPrefix(pathPrefix).Handler(staticHandler(root)).Methods(http.MethodGet, http.MethodHead)
	r.MethodNotAllowedHandler = notImplementedHandler()

	return recoveryHandler(false, logger, loggingMiddleware(logger, as, r))
}
