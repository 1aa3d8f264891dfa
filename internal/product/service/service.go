// Package service provides the implementation of quote-related business logic.
package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/abgdnv/quotebuilder/internal/export"
	perrors "github.com/abgdnv/quotebuilder/internal/product/errors"
	"github.com/abgdnv/quotebuilder/internal/product/store"
	"github.com/abgdnv/quotebuilder/internal/whatsapp"
	"github.com/shopspring/decimal"
)

// QuoteService defines the methods for managing the products of a quote and exporting it.
type QuoteService interface {
	// FindAll returns all products in insertion order.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// Create adds a new product to the quote.
	// Returns a *errors.ValidationError if the product is invalid.
	Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error)

	// DeleteByID removes a product by its ID. Absent IDs are ignored.
	DeleteByID(ctx context.Context, id int64) error

	// Quote returns the quote as a formatted table.
	Quote(ctx context.Context) (*QuoteDto, error)

	// Share returns the WhatsApp message and a click-to-chat link for it.
	Share(ctx context.Context, phone string) (*ShareDto, error)

	// WritePDF renders the quote as a PDF document into w.
	WritePDF(ctx context.Context, w io.Writer) error

	// WriteCSV renders the quote as CSV into w.
	WriteCSV(ctx context.Context, w io.Writer) error

	// Send pushes the WhatsApp message to the given phone number.
	// Returns ErrMessagingDisabled when no WhatsApp client is configured.
	Send(ctx context.Context, to string) (*SendResultDto, error)
}

// service implements QuoteService.
type service struct {
	store     store.ProductStore
	formatter *export.Formatter
	messenger whatsapp.Client
	pdfTitle  string
	logger    *slog.Logger
}

// Option configures optional collaborators of the service.
type Option func(*service)

// WithMessenger enables Send through the given WhatsApp client.
func WithMessenger(c whatsapp.Client) Option {
	return func(s *service) {
		s.messenger = c
	}
}

// WithPDFTitle overrides the title printed on the PDF document.
func WithPDFTitle(title string) Option {
	return func(s *service) {
		s.pdfTitle = title
	}
}

// NewService creates a new instance of QuoteService backed by the given store and formatter.
func NewService(repo store.ProductStore, formatter *export.Formatter, logger *slog.Logger, opts ...Option) QuoteService {
	s := &service{
		store:     repo,
		formatter: formatter,
		pdfTitle:  export.DefaultTitle,
		logger:    logger.With("component", "service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Amounts travel as JSON numbers carrying every digit of the decimal value.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// ProductCreateDto is the payload accepted when adding a product.
// Quantity and price are decoded without a float64 round trip.
type ProductCreateDto struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// QuoteDto is the tabular quote plus the number of products in it.
type QuoteDto struct {
	export.Table
	Count int `json:"count"`
}

// ShareDto carries the WhatsApp message and its click-to-chat URL.
type ShareDto struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// SendResultDto is the outcome of pushing a quote through the Cloud API.
type SendResultDto struct {
	MessageID string `json:"message_id"`
}

// FindAll retrieves all products and returns them as ProductDtos.
func (s *service) FindAll(_ context.Context) ([]ProductDto, error) {
	products, err := s.store.List()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	dtos := make([]ProductDto, len(products))
	for i, item := range products {
		dtos[i] = *toDto(&item)
	}
	return dtos, nil
}

// Create creates a new product and returns it as a ProductDto.
func (s *service) Create(_ context.Context, product ProductCreateDto) (*ProductDto, error) {
	p, err := s.store.Add(store.Input{
		Name:     product.Name,
		Quantity: product.Quantity,
		Price:    product.Price,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	s.logger.Debug("Product added", "ID", p.ID, "Name", p.Name)
	return toDto(p), nil
}

// DeleteByID deletes a product by its ID.
func (s *service) DeleteByID(_ context.Context, id int64) error {
	if err := s.store.Delete(id); err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	return nil
}

// Quote builds the formatted table of the current products.
func (s *service) Quote(_ context.Context) (*QuoteDto, error) {
	products, err := s.store.List()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return &QuoteDto{Table: s.formatter.ToTable(products), Count: len(products)}, nil
}

// Share builds the WhatsApp message and link of the current products.
func (s *service) Share(_ context.Context, phone string) (*ShareDto, error) {
	products, err := s.store.List()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return &ShareDto{
		Text: s.formatter.ShareText(products),
		URL:  s.formatter.ShareURL(products, phone),
	}, nil
}

// WritePDF renders the current quote as a PDF document.
func (s *service) WritePDF(ctx context.Context, w io.Writer) error {
	q, err := s.Quote(ctx)
	if err != nil {
		return err
	}
	return export.RenderPDF(w, q.Table, s.pdfTitle)
}

// WriteCSV renders the current quote as CSV.
func (s *service) WriteCSV(ctx context.Context, w io.Writer) error {
	q, err := s.Quote(ctx)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, q.Table); err != nil {
		return err
	}
	_, err = buf.WriteTo(w)
	return err
}

// Send pushes the current quote as a WhatsApp message.
func (s *service) Send(ctx context.Context, to string) (*SendResultDto, error) {
	if s.messenger == nil {
		return nil, perrors.ErrMessagingDisabled
	}
	products, err := s.store.List()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	resp, err := s.messenger.SendTextMessage(ctx, whatsapp.SendTextMessageRequest{
		To:   to,
		Body: s.formatter.ShareText(products),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send quote: %w", err)
	}
	s.logger.Info("Quote sent via WhatsApp", "to", to, "products", len(products), "message_id", resp.MessageID())
	return &SendResultDto{MessageID: resp.MessageID()}, nil
}

// toDto converts a store.Product to a ProductDto.
func toDto(product *store.Product) *ProductDto {
	return &ProductDto{
		ID:       product.ID,
		Name:     product.Name,
		Quantity: product.Quantity,
		Price:    product.Price,
	}
}
