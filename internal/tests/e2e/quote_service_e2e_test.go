// Package e2e provides end-to-end tests for the quote builder.
// The suite runs the fully wired application handler in an `httptest.Server`
// and drives it over HTTP with `testify/suite`. Every test gets a freshly
// constructed application, so the in-memory store starts empty with IDs from 1.
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/abgdnv/quotebuilder/internal/config"
	"github.com/abgdnv/quotebuilder/internal/export"
	"github.com/abgdnv/quotebuilder/internal/product/app"
	"github.com/abgdnv/quotebuilder/internal/product/service"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// skipE2ETests is the environment variable that can be set to skip E2E tests.
const skipE2ETests = "QUOTE_SKIP_E2E_TESTS"

const (
	productURL = "/api/products"
	quoteURL   = "/api/quote"
)

// QuoteServiceE2ESuite is a test suite for end-to-end tests of the quote builder.
type QuoteServiceE2ESuite struct {
	suite.Suite
	server     *httptest.Server
	httpClient *http.Client
	whatsapp   *httptest.Server
	sent       chan map[string]any
	logger     *slog.Logger
	ctx        context.Context
}

// testConfig creates a configuration pointing the WhatsApp client at a local fake.
func testConfig(whatsappURL string) *config.Config {
	var cfg config.Config
	cfg.HTTPServer.Port = 0
	cfg.HTTPServer.MaxHeaderBytes = 1 << 20
	cfg.HTTPServer.Timeout.Read = time.Minute
	cfg.HTTPServer.Timeout.Write = time.Minute
	cfg.HTTPServer.Timeout.Idle = time.Minute
	cfg.HTTPServer.Timeout.ReadHeader = time.Minute
	cfg.Currency = config.CurrencyConfig{Symbol: "R$", Thousand: ".", Decimal: ",", Precision: 2}
	cfg.Export = config.ExportConfig{
		Title:        "Orçamento",
		ShareBaseURL: "https://wa.me/",
		PDFFileName:  "orcamento.pdf",
		CSVFileName:  "orcamento.csv",
	}
	cfg.WhatsApp = config.WhatsAppConfig{
		Enabled:       true,
		BaseURL:       whatsappURL,
		APIVersion:    "v21.0",
		AccessToken:   "test-token",
		PhoneNumberID: "1234",
		Timeout:       5 * time.Second,
	}
	return &cfg
}

// SetupSuite starts the fake WhatsApp Cloud API.
func (s *QuoteServiceE2ESuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s.sent = make(chan map[string]any, 10)

	s.whatsapp = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		s.sent <- payload
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.e2e"}]}`))
	}))
}

// TearDownSuite cleans up resources after all tests in the suite have run.
func (s *QuoteServiceE2ESuite) TearDownSuite() {
	if s.whatsapp != nil {
		s.whatsapp.Close()
	}
}

// SetupTest starts a new application so that every test sees an empty store.
func (s *QuoteServiceE2ESuite) SetupTest() {
	deps := app.SetupDependencies(testConfig(s.whatsapp.URL), s.logger)
	s.server = httptest.NewServer(app.SetupHttpHandler(deps))
	s.httpClient = s.server.Client()
}

// TearDownTest stops the application started by SetupTest.
func (s *QuoteServiceE2ESuite) TearDownTest() {
	s.server.Close()
}

func TestQuoteServiceE2E(t *testing.T) {
	if os.Getenv(skipE2ETests) == "1" {
		t.Skip("Skipping E2E tests based on " + skipE2ETests + " env var")
	}
	suite.Run(t, new(QuoteServiceE2ESuite))
}

// --------------------------------------------------------------------------
// ---------- Payload structures and Helper methods for E2E tests -----------
// --------------------------------------------------------------------------

type createProductPayload struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}

type errorPayload struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// do sends a request and returns the response status and body.
func (s *QuoteServiceE2ESuite) do(method, path string, payload any) (int, http.Header, []byte) {
	s.T().Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(s.T(), err)
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(s.ctx, method, s.server.URL+path, body)
	require.NoError(s.T(), err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)
	return resp.StatusCode, resp.Header, data
}

func (s *QuoteServiceE2ESuite) createProduct(payload createProductPayload) (service.ProductDto, int) {
	s.T().Helper()
	status, _, body := s.do(http.MethodPost, productURL, payload)
	var dto service.ProductDto
	if status == http.StatusOK {
		require.NoError(s.T(), json.Unmarshal(body, &dto))
	}
	return dto, status
}

func (s *QuoteServiceE2ESuite) listProducts() []service.ProductDto {
	s.T().Helper()
	status, _, body := s.do(http.MethodGet, productURL, nil)
	require.Equal(s.T(), http.StatusOK, status)
	var list []service.ProductDto
	require.NoError(s.T(), json.Unmarshal(body, &list))
	return list
}

func (s *QuoteServiceE2ESuite) assertProduct(p service.ProductDto, id int64, name, quantity, price string) {
	s.T().Helper()
	s.Equal(id, p.ID)
	s.Equal(name, p.Name)
	s.Equal(quantity, p.Quantity.String())
	s.Equal(price, p.Price.String())
}

// --------------------------------------------------------------------------
// ------------------------------- Tests ------------------------------------
// --------------------------------------------------------------------------

func (s *QuoteServiceE2ESuite) TestQuoteScenario() {
	// given
	widget, status := s.createProduct(createProductPayload{Name: "Widget", Quantity: 2, Price: 10})
	s.Require().Equal(http.StatusOK, status)
	gadget, status := s.createProduct(createProductPayload{Name: "Gadget", Quantity: 1, Price: 5})
	s.Require().Equal(http.StatusOK, status)

	// when
	list := s.listProducts()

	// then
	s.Require().Len(list, 2)
	s.assertProduct(list[0], 1, "Widget", "2", "10")
	s.assertProduct(list[1], 2, "Gadget", "1", "5")
	s.Equal(widget.ID+1, gadget.ID)

	status, _, body := s.do(http.MethodGet, quoteURL, nil)
	s.Require().Equal(http.StatusOK, status)
	var quote service.QuoteDto
	s.Require().NoError(json.Unmarshal(body, &quote))
	s.Equal("R$ 15,00", quote.Total)
	s.Equal(2, quote.Count)

	status, _, body = s.do(http.MethodGet, quoteURL+"/share", nil)
	s.Require().Equal(http.StatusOK, status)
	var share service.ShareDto
	s.Require().NoError(json.Unmarshal(body, &share))
	s.Contains(share.Text, "*Widget*")
	s.Contains(share.Text, "*Gadget*")
	s.True(strings.HasSuffix(share.Text, "Total: R$ 15,00*"))
	link, err := url.Parse(share.URL)
	s.Require().NoError(err)
	s.Equal("wa.me", link.Host)
	s.Equal(share.Text, link.Query().Get("text"))
}

func (s *QuoteServiceE2ESuite) TestCreateProduct_KeepsSubmittedValues() {
	// given
	name := "  " + strings.Repeat("Parafuso sextavado ", 10)
	body := `{"name":` + strconv.Quote(name) + `,"quantity":2.5,"price":123456789012345678.99}`

	// when
	status, _, raw := s.do(http.MethodPost, productURL, json.RawMessage(body))

	// then
	s.Require().Equal(http.StatusOK, status)
	s.Contains(string(raw), `"price":123456789012345678.99`)
	list := s.listProducts()
	s.Require().Len(list, 1)
	s.assertProduct(list[0], 1, name, "2.5", "123456789012345678.99")
}

func (s *QuoteServiceE2ESuite) TestCreateProduct_Validation() {
	testCases := []struct {
		name           string
		payload        any
		expectedFields []string
	}{
		{name: "empty name", payload: createProductPayload{Name: "", Quantity: 1, Price: 1}, expectedFields: []string{"name"}},
		{name: "quantity below 1", payload: createProductPayload{Name: "Widget", Quantity: 0, Price: 1}, expectedFields: []string{"quantity"}},
		{name: "price below 0.01", payload: createProductPayload{Name: "Widget", Quantity: 1, Price: 0.001}, expectedFields: []string{"price"}},
		{name: "wrong types", payload: map[string]any{"name": "Widget", "quantity": "two", "price": 1}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			status, _, body := s.do(http.MethodPost, productURL, tc.payload)

			s.Equal(http.StatusBadRequest, status)
			var e errorPayload
			s.Require().NoError(json.Unmarshal(body, &e))
			s.Equal("Invalid product data", e.Message)
			for _, f := range tc.expectedFields {
				s.Contains(e.Errors, f)
			}
		})
	}
	s.Empty(s.listProducts(), "rejected products must not be stored")
}

func (s *QuoteServiceE2ESuite) TestDeleteProduct() {
	// given
	first, _ := s.createProduct(createProductPayload{Name: "Widget", Quantity: 2, Price: 10})
	second, _ := s.createProduct(createProductPayload{Name: "Gadget", Quantity: 1, Price: 5})

	// when
	status, _, body := s.do(http.MethodDelete, productURL+"/1", nil)

	// then
	s.Equal(http.StatusNoContent, status)
	s.Empty(body)
	remaining := s.listProducts()
	s.Require().Len(remaining, 1)
	s.assertProduct(remaining[0], second.ID, second.Name, "1", "5")

	// deleting again, or an id that never existed, is a silent success
	status, _, _ = s.do(http.MethodDelete, productURL+"/1", nil)
	s.Equal(http.StatusNoContent, status)
	status, _, _ = s.do(http.MethodDelete, productURL+"/999", nil)
	s.Equal(http.StatusNoContent, status)
	s.Len(s.listProducts(), 1)

	// ids are never reused
	third, _ := s.createProduct(createProductPayload{Name: "Gizmo", Quantity: 1, Price: 1})
	s.Equal(int64(3), third.ID)
	s.NotEqual(first.ID, third.ID)

	status, _, body = s.do(http.MethodDelete, productURL+"/abc", nil)
	s.Equal(http.StatusBadRequest, status)
	s.JSONEq(`{"message":"Invalid product ID"}`, string(body))
}

func (s *QuoteServiceE2ESuite) TestExports_EmptyQuote() {
	status, _, body := s.do(http.MethodGet, quoteURL, nil)
	s.Equal(http.StatusOK, status)
	s.JSONEq(`{"columns":["Produto","Quantidade","Preço","Valor Unitário"],"rows":[],"total":"R$ 0,00","count":0}`, string(body))

	status, header, pdf := s.do(http.MethodGet, quoteURL+"/pdf", nil)
	s.Equal(http.StatusOK, status)
	s.Equal("application/pdf", header.Get("Content-Type"))
	s.True(bytes.HasPrefix(pdf, []byte("%PDF-")))
}

func (s *QuoteServiceE2ESuite) TestExports_Documents() {
	// given
	s.createProduct(createProductPayload{Name: "Widget", Quantity: 2, Price: 10})
	s.createProduct(createProductPayload{Name: "Gadget", Quantity: 4, Price: 100})

	// when
	status, header, pdf := s.do(http.MethodGet, quoteURL+"/pdf", nil)

	// then
	s.Equal(http.StatusOK, status)
	s.Equal(`attachment; filename="orcamento.pdf"`, header.Get("Content-Disposition"))
	s.True(bytes.HasPrefix(pdf, []byte("%PDF-")))

	status, header, csvBody := s.do(http.MethodGet, quoteURL+"/csv", nil)
	s.Equal(http.StatusOK, status)
	s.Equal(`attachment; filename="orcamento.csv"`, header.Get("Content-Disposition"))
	table, err := export.ReadCSV(bytes.NewReader(csvBody))
	s.Require().NoError(err)
	s.Equal([][]string{
		{"Widget", "2", "R$ 10,00", "R$ 5,00"},
		{"Gadget", "4", "R$ 100,00", "R$ 25,00"},
	}, table.Rows)
	s.Equal("R$ 110,00", table.Total)
}

func (s *QuoteServiceE2ESuite) TestSendWhatsApp() {
	// given
	s.createProduct(createProductPayload{Name: "Widget", Quantity: 2, Price: 10})

	// when
	status, _, body := s.do(http.MethodPost, quoteURL+"/whatsapp", map[string]string{"to": "5511999999999"})

	// then
	s.Equal(http.StatusAccepted, status)
	s.JSONEq(`{"message_id":"wamid.e2e"}`, string(body))
	select {
	case payload := <-s.sent:
		s.Equal("5511999999999", payload["to"])
		text, ok := payload["text"].(map[string]any)
		s.Require().True(ok)
		s.Contains(text["body"], "*Widget*")
	case <-time.After(5 * time.Second):
		s.Fail("WhatsApp API was not called")
	}
}
