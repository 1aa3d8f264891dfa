// Package config loads the service configuration from config.yaml, a .env file
// and the process environment, in increasing order of priority.
package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	HTTPServer HTTPConfig     `koanf:"server"`
	Log        LogConfig      `koanf:"log"`
	PProf      PProfConfig    `koanf:"pprof"`
	Shutdown   ShutdownConfig `koanf:"shutdown"`
	Currency   CurrencyConfig `koanf:"currency"`
	Export     ExportConfig   `koanf:"export"`
	WhatsApp   WhatsAppConfig `koanf:"whatsapp"`
}

const (
	envPrefix      = "quote_"
	defaultEnvFile = ".env"
	configFile     = "config.yaml"
)

// defaults are loaded first so that a bare process starts with a working configuration.
var defaults = map[string]any{
	"server.port":               8080,
	"server.maxHeaderBytes":     1 << 20,
	"server.timeout.read":       5 * time.Second,
	"server.timeout.write":      10 * time.Second,
	"server.timeout.idle":       60 * time.Second,
	"server.timeout.readHeader": 2 * time.Second,
	"log.level":                 "info",
	"pprof.enabled":             false,
	"pprof.addr":                "localhost:6060",
	"shutdown.timeout":          15 * time.Second,
	"currency.symbol":           "R$",
	"currency.thousand":         ".",
	"currency.decimal":          ",",
	"currency.precision":        2,
	"export.title":              "Orçamento",
	"export.shareBaseURL":       "https://wa.me/",
	"export.pdfFileName":        "orcamento.pdf",
	"export.csvFileName":        "orcamento.csv",
	"whatsapp.enabled":          false,
	"whatsapp.baseURL":          "https://graph.facebook.com",
	"whatsapp.apiVersion":       "v21.0",
	"whatsapp.accessToken":      "",
	"whatsapp.phoneNumberID":    "",
	"whatsapp.timeout":          15 * time.Second,
}

// canonicalKeys maps lower-cased keys back to their camelCase form so that
// environment variables override the same koanf key as the yaml file.
var canonicalKeys = func() map[string]string {
	m := make(map[string]string, len(defaults))
	for k := range defaults {
		m[strings.ToLower(k)] = k
	}
	return m
}()

// Load reads the configuration from defaults, a yaml file and environment variables.
func Load() (*Config, error) {
	// Create a new Koanf instance
	var k = koanf.New(".")

	// 0. Built-in defaults, the lowest priority
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("error loading defaults: %w", err)
	}

	// 1. Load configuration from yaml file
	if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("WARN: error loading YAML config: %v", err)
		}
	}

	// 2. Load environment variables from .env file
	if envFileMap, err := godotenv.Read(defaultEnvFile); err == nil {
		envMap := make(map[string]any)
		for key, value := range envFileMap {
			if !strings.HasPrefix(strings.ToLower(key), envPrefix) {
				continue
			}
			envMap[keyTransformer(key)] = value
		}
		if err := k.Load(confmap.Provider(envMap, "."), nil); err != nil {
			log.Printf("WARN: error loading .env config: %v", err)
		}
	} else if !os.IsNotExist(err) {
		log.Printf("WARN: error reading .env file: %v", err)
	}

	// 3. Load environment variables from the system, the highest priority
	if err := k.Load(env.Provider(strings.ToUpper(envPrefix), ".", keyTransformer), nil); err != nil {
		log.Printf("WARN: error loading env vars: %v", err)
	}

	var cfg Config
	// 4. Unmarshal the configuration into the Config struct
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// 5. Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	validators := []interface{ Validate() error }{
		&c.HTTPServer, &c.Log, &c.PProf, &c.Shutdown, &c.Currency, &c.Export, &c.WhatsApp,
	}
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Shutdown.String())
	b.WriteString(c.Currency.String())
	b.WriteString(c.Export.String())
	b.WriteString(c.WhatsApp.String())
	return b.String()
}

// keyTransformer maps QUOTE_SERVER_TIMEOUT_READ to server.timeout.read.
func keyTransformer(key string) string {
	key = strings.ToLower(key)
	key = strings.TrimPrefix(key, envPrefix)
	key = strings.ReplaceAll(key, "_", ".")
	if canonical, ok := canonicalKeys[key]; ok {
		return canonical
	}
	return key
}
