// Package app contains the application setup for the quote builder.
package app

import (
	"log/slog"
	"net/http"

	"github.com/abgdnv/quotebuilder/internal/config"
	"github.com/abgdnv/quotebuilder/internal/export"
	"github.com/abgdnv/quotebuilder/internal/platform/server"
	"github.com/abgdnv/quotebuilder/internal/pricing"
	"github.com/abgdnv/quotebuilder/internal/product/handler"
	"github.com/abgdnv/quotebuilder/internal/product/service"
	"github.com/abgdnv/quotebuilder/internal/product/store"
	"github.com/abgdnv/quotebuilder/internal/whatsapp"
	"github.com/go-chi/chi/v5"
)

type Dependencies struct {
	QuoteService service.QuoteService
	Files        handler.Files
	Logger       *slog.Logger
}

// SetupDependencies builds a fresh in-memory store and the services around it.
func SetupDependencies(cfg *config.Config, logger *slog.Logger) *Dependencies {
	money := pricing.NewFormatter(pricing.Currency{
		Symbol:    cfg.Currency.Symbol,
		Thousand:  cfg.Currency.Thousand,
		Decimal:   cfg.Currency.Decimal,
		Precision: cfg.Currency.Precision,
	})
	formatter := export.NewFormatter(money, cfg.Export.ShareBaseURL)

	opts := []service.Option{service.WithPDFTitle(cfg.Export.Title)}
	if cfg.WhatsApp.Enabled {
		opts = append(opts, service.WithMessenger(whatsapp.NewClient(whatsapp.Config{
			BaseURL:       cfg.WhatsApp.BaseURL,
			APIVersion:    cfg.WhatsApp.APIVersion,
			AccessToken:   cfg.WhatsApp.AccessToken,
			PhoneNumberID: cfg.WhatsApp.PhoneNumberID,
			Timeout:       cfg.WhatsApp.Timeout,
		})))
		logger.Info("WhatsApp Cloud API messaging enabled", "api_version", cfg.WhatsApp.APIVersion)
	}

	return &Dependencies{
		QuoteService: service.NewService(store.NewInMemoryStore(), formatter, logger, opts...),
		Files: handler.Files{
			PDF: cfg.Export.PDFFileName,
			CSV: cfg.Export.CSVFileName,
		},
		Logger: logger,
	}
}

// SetupHttpHandler initializes the router and routes of the application.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.Router(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes of the application.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	quoteHandler := handler.NewHandler(deps.QuoteService, deps.Files, deps.Logger)
	quoteHandler.RegisterRoutes(mux)
}

// SetupHttpServer creates and configures an HTTP server for the application.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	return server.New(cfg.HTTPServer, SetupHttpHandler(deps))
}
