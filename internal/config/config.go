package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port string

	// Styling collaborator: the class name put on highlight wrappers.
	HighlightClass string

	// Auth (optional; API is open when empty)
	APIKey string

	// Selection store. When SelectionStoreURL is set the remote KV backend
	// is used, otherwise slots are JSON files under SelectionStorePath.
	SelectionStoreURL    string
	SelectionStoreAPIKey string
	SelectionStorePath   string

	// Upload limits
	MaxUploadBytes int64

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		HighlightClass: envOr("HIGHLIGHT_CLASS", "hilite"),

		APIKey: os.Getenv("HILITE_API_KEY"),

		SelectionStoreURL:    os.Getenv("SELECTION_STORE_URL"),
		SelectionStoreAPIKey: os.Getenv("SELECTION_STORE_API_KEY"),
		SelectionStorePath:   envOr("SELECTION_STORE_PATH", "data/selections"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.HighlightClass == "" {
		cfg.HighlightClass = "hilite"
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}

	return cfg
}

func (c Config) Validate() error {
	if c.SelectionStoreURL != "" && c.SelectionStoreAPIKey == "" {
		return fmt.Errorf("SELECTION_STORE_API_KEY is required when SELECTION_STORE_URL is set")
	}
	if c.SelectionStoreURL == "" && c.SelectionStorePath == "" {
		return fmt.Errorf("SELECTION_STORE_PATH is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
