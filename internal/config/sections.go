package config

import (
	"fmt"
	"strings"
	"time"
)

type HTTPConfig struct {
	Port           int `koanf:"port"`
	MaxHeaderBytes int `koanf:"maxHeaderBytes"`
	Timeout        struct {
		Read       time.Duration `koanf:"read"`
		Write      time.Duration `koanf:"write"`
		Idle       time.Duration `koanf:"idle"`
		ReadHeader time.Duration `koanf:"readHeader"`
	} `koanf:"timeout"`
}

func (c *HTTPConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid HTTP server port: %d", c.Port)
	}
	if c.Timeout.Read <= 0 {
		return fmt.Errorf("invalid HTTP server read timeout: %v", c.Timeout.Read)
	}
	if c.Timeout.Write <= 0 {
		return fmt.Errorf("invalid HTTP server write timeout: %v", c.Timeout.Write)
	}
	if c.Timeout.Idle <= 0 {
		return fmt.Errorf("invalid HTTP server idle timeout: %v", c.Timeout.Idle)
	}
	if c.Timeout.ReadHeader <= 0 {
		return fmt.Errorf("invalid HTTP server read header timeout: %v", c.Timeout.ReadHeader)
	}
	return nil
}

func (c *HTTPConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Server ---\n")
	b.WriteString(fmt.Sprintf("  server.port: %d\n", c.Port))
	b.WriteString(fmt.Sprintf("  server.maxHeaderBytes: %d\n", c.MaxHeaderBytes))
	b.WriteString(fmt.Sprintf("  server.timeout.read: %v\n", c.Timeout.Read))
	b.WriteString(fmt.Sprintf("  server.timeout.write: %v\n", c.Timeout.Write))
	b.WriteString(fmt.Sprintf("  server.timeout.idle: %v\n", c.Timeout.Idle))
	b.WriteString(fmt.Sprintf("  server.timeout.readHeader: %v\n", c.Timeout.ReadHeader))
	return b.String()
}

type LogConfig struct {
	Level string `koanf:"level"`
}

func (c *LogConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("invalid log level: %q", c.Level)
	}
}

func (c *LogConfig) String() string {
	return fmt.Sprintf("\n--- Log ---\n  level: %s\n", c.Level)
}

type PProfConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

func (c *PProfConfig) Validate() error {
	if c.Enabled && c.Addr == "" {
		return fmt.Errorf("pprof is enabled but address is not configured")
	}
	return nil
}

func (c *PProfConfig) String() string {
	return fmt.Sprintf("\n--- PProf ---\n  enabled: %t\n  address: %s\n", c.Enabled, c.Addr)
}

type ShutdownConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

func (c *ShutdownConfig) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("shutdown timeout is not configured")
	}
	return nil
}

func (c *ShutdownConfig) String() string {
	return fmt.Sprintf("\n--- Shutdown ---\n  timeout: %s\n", c.Timeout)
}

// CurrencyConfig describes how money is rendered in every export.
type CurrencyConfig struct {
	Symbol    string `koanf:"symbol"`
	Thousand  string `koanf:"thousand"`
	Decimal   string `koanf:"decimal"`
	Precision int    `koanf:"precision"`
}

func (c *CurrencyConfig) Validate() error {
	if c.Symbol == "" {
		return fmt.Errorf("currency symbol is not configured")
	}
	if c.Decimal == "" {
		return fmt.Errorf("currency decimal separator is not configured")
	}
	if c.Decimal == c.Thousand {
		return fmt.Errorf("currency decimal and thousand separators must differ: %q", c.Decimal)
	}
	if c.Precision < 0 || c.Precision > 4 {
		return fmt.Errorf("invalid currency precision: %d", c.Precision)
	}
	return nil
}

func (c *CurrencyConfig) String() string {
	return fmt.Sprintf("\n--- Currency ---\n  symbol: %s\n  thousand: %q\n  decimal: %q\n  precision: %d\n",
		c.Symbol, c.Thousand, c.Decimal, c.Precision)
}

// ExportConfig holds the presentation settings of the share link and documents.
type ExportConfig struct {
	Title        string `koanf:"title"`
	ShareBaseURL string `koanf:"shareBaseURL"`
	PDFFileName  string `koanf:"pdfFileName"`
	CSVFileName  string `koanf:"csvFileName"`
}

func (c *ExportConfig) Validate() error {
	if !strings.HasPrefix(c.ShareBaseURL, "https://") && !strings.HasPrefix(c.ShareBaseURL, "http://") {
		return fmt.Errorf("share base URL must be an http(s) URL: %q", c.ShareBaseURL)
	}
	if c.PDFFileName == "" || c.CSVFileName == "" {
		return fmt.Errorf("export file names are not configured")
	}
	return nil
}

func (c *ExportConfig) String() string {
	return fmt.Sprintf("\n--- Export ---\n  title: %s\n  shareBaseURL: %s\n  pdfFileName: %s\n  csvFileName: %s\n",
		c.Title, c.ShareBaseURL, c.PDFFileName, c.CSVFileName)
}

// WhatsAppConfig enables sending quotes through the WhatsApp Cloud API.
type WhatsAppConfig struct {
	Enabled       bool          `koanf:"enabled"`
	BaseURL       string        `koanf:"baseURL"`
	APIVersion    string        `koanf:"apiVersion"`
	AccessToken   string        `koanf:"accessToken"`
	PhoneNumberID string        `koanf:"phoneNumberID"`
	Timeout       time.Duration `koanf:"timeout"`
}

func (c *WhatsAppConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.BaseURL == "" || c.APIVersion == "" {
		return fmt.Errorf("whatsapp is enabled but base URL or API version is not configured")
	}
	if c.AccessToken == "" || c.PhoneNumberID == "" {
		return fmt.Errorf("whatsapp is enabled but access token or phone number ID is not configured")
	}
	return nil
}

func (c *WhatsAppConfig) String() string {
	return fmt.Sprintf("\n--- WhatsApp ---\n  enabled: %t\n  baseURL: %s\n  apiVersion: %s\n  accessToken: %s\n  phoneNumberID: %s\n  timeout: %s\n",
		c.Enabled, c.BaseURL, c.APIVersion, mask(c.AccessToken), c.PhoneNumberID, c.Timeout)
}

func mask(secret string) string {
	if secret == "" {
		return "<not configured>"
	}
	return "****"
}
