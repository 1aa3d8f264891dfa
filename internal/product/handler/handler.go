// Package handler provides HTTP handlers for the quote builder.
package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/abgdnv/quotebuilder/internal/platform/web"
	perrors "github.com/abgdnv/quotebuilder/internal/product/errors"
	"github.com/abgdnv/quotebuilder/internal/product/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Files names the downloads served by the export endpoints.
type Files struct {
	PDF string
	CSV string
}

type Handler struct {
	service  service.QuoteService
	validate *validator.Validate
	files    Files
	logger   *slog.Logger
}

// NewHandler creates a new Handler with the provided service.
func NewHandler(service service.QuoteService, files Files, logger *slog.Logger) *Handler {
	if files.PDF == "" {
		files.PDF = "orcamento.pdf"
	}
	if files.CSV == "" {
		files.CSV = "orcamento.csv"
	}
	return &Handler{
		service:  service,
		validate: validator.New(),
		files:    files,
		logger:   logger.With("component", "api"),
	}
}

// RegisterRoutes registers the HTTP routes of the quote builder.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.FindAll)
		r.Post("/", h.Create)
		r.Delete("/{id}", h.DeleteByID)
	})

	r.Route("/api/quote", func(r chi.Router) {
		r.Get("/", h.Quote)
		r.Get("/share", h.Share)
		r.Get("/pdf", h.PDF)
		r.Get("/csv", h.CSV)
		r.Post("/whatsapp", h.SendWhatsApp)
	})

	r.Get("/healthz", h.HealthCheck)
}

// FindAll retrieves a list of all products.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	list, err := h.service.FindAll(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// Create handles the creation of a new product.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var productCreateDto service.ProductCreateDto
	if err := json.NewDecoder(r.Body).Decode(&productCreateDto); err != nil {
		mLogger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid product data")
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to create product", "product", productCreateDto)

	created, err := h.service.Create(r.Context(), productCreateDto)
	if err != nil {
		var validationErr *perrors.ValidationError
		if errors.As(err, &validationErr) {
			mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", validationErr.Fields)
			web.RespondValidationError(w, mLogger, "Invalid product data", validationErr.Fields)
			return
		}
		mLogger.ErrorContext(r.Context(), "Error creating product", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to create product")
		return
	}
	mLogger.InfoContext(r.Context(), "Product created successfully", "ID", created.ID, "Name", created.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, created)
}

// DeleteByID deletes a product by its ID.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		mLogger.ErrorContext(r.Context(), "Error deleting product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	mLogger.InfoContext(r.Context(), "Product deleted", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

// Quote returns the formatted quote table.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	q, err := h.service.Quote(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error building quote", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to build quote")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, q)
}

// Share returns the WhatsApp message and click-to-chat link.
func (h *Handler) Share(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	phone := r.URL.Query().Get("phone")
	if phone != "" {
		if err := h.validate.Var(phone, "numeric,min=8,max=15"); err != nil {
			web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid phone number")
			return
		}
	}
	share, err := h.service.Share(r.Context(), phone)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error building share link", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to build share link")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, share)
}

// PDF serves the quote as a downloadable PDF document.
func (h *Handler) PDF(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var buf bytes.Buffer
	if err := h.service.WritePDF(r.Context(), &buf); err != nil {
		mLogger.ErrorContext(r.Context(), "Error rendering PDF", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}
	web.Attachment(w, "application/pdf", h.files.PDF)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// CSV serves the quote as a downloadable CSV file.
func (h *Handler) CSV(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var buf bytes.Buffer
	if err := h.service.WriteCSV(r.Context(), &buf); err != nil {
		mLogger.ErrorContext(r.Context(), "Error rendering CSV", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to generate CSV")
		return
	}
	web.Attachment(w, "text/csv; charset=utf-8", h.files.CSV)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// sendRequest is the body of POST /api/quote/whatsapp.
type sendRequest struct {
	To string `json:"to" validate:"required,numeric,min=8,max=15"`
}

// SendWhatsApp pushes the quote to a phone number through the Cloud API.
func (h *Handler) SendWhatsApp(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			errorResponse := make(map[string]string)
			for _, fieldErr := range validationErrors {
				errorResponse[strings.ToLower(fieldErr.Field())] = "failed on rule: " + fieldErr.Tag()
			}
			web.RespondValidationError(w, mLogger, "Invalid request body", errorResponse)
			return
		}
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Send(r.Context(), req.To)
	if err != nil {
		if errors.Is(err, perrors.ErrMessagingDisabled) {
			web.RespondError(w, mLogger, http.StatusServiceUnavailable, "WhatsApp messaging is not configured")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error sending quote", "error", err)
		web.RespondError(w, mLogger, http.StatusBadGateway, "Failed to send quote")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusAccepted, result)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID, found := web.GetRequestID(r.Context())
	if !found {
		reqID = "unknown"
	}
	return h.logger.With("request_id", reqID)
}
