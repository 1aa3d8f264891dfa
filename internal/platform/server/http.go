// Package server assembles the router and the HTTP server of the quote builder.
package server

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/abgdnv/quotebuilder/internal/config"
	"github.com/abgdnv/quotebuilder/internal/platform/web"
	"github.com/go-chi/chi/v5"
)

// New returns an HTTP server listening on every interface at the configured port.
// Timeouts and the header limit come straight from the server section of the config.
func New(cfg config.HTTPConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.Timeout.Read,
		WriteTimeout:      cfg.Timeout.Write,
		IdleTimeout:       cfg.Timeout.Idle,
		ReadHeaderTimeout: cfg.Timeout.ReadHeader,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
}

// Router returns a chi router that tags every request with an ID, logs it
// and turns panics into a JSON 500.
func Router(logger *slog.Logger) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(
		web.RequestIDInjector,
		web.StructuredLogger(logger),
		web.Recoverer(logger),
	)
	return mux
}
