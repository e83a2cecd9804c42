package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/cesargomez89/tunedeck/internal/constants"
)

// Config holds all application configuration
type Config struct {
	Port             string        `env:"PORT"`
	DBPath           string        `env:"DB_PATH"`
	DownloadsDir     string        `env:"DOWNLOADS_DIR"`
	DownloadTemplate string        `env:"DOWNLOAD_TEMPLATE"`
	CatalogURL       string        `env:"CATALOG_URL"`
	CatalogMock      bool          `env:"CATALOG_MOCK"`
	Quality          string        `env:"QUALITY"`
	SearchLimit      int           `env:"SEARCH_LIMIT"`
	SuggestionLimit  int           `env:"SUGGESTION_LIMIT"`
	CacheTTL         time.Duration `env:"CACHE_TTL"`
	RequestInterval  time.Duration `env:"REQUEST_INTERVAL"`
	HTTPTimeout      time.Duration `env:"HTTP_TIMEOUT"`
	PollInterval     time.Duration `env:"POLL_INTERVAL"`
	EndBehavior      string        `env:"END_BEHAVIOR"`
	MediaBackend     string        `env:"MEDIA_BACKEND"`
	LogLevel         string        `env:"LOG_LEVEL"`
	LogFormat        string        `env:"LOG_FORMAT"`
}

// Defaults returns a Config populated with the built-in defaults.
func Defaults() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		Port:             constants.DefaultPort,
		DBPath:           constants.DefaultDBPath,
		DownloadsDir:     filepath.Join(home, constants.DefaultDownloadsSubdir),
		DownloadTemplate: constants.DefaultDownloadTemplate,
		CatalogURL:       constants.DefaultCatalogURL,
		Quality:          constants.DefaultQuality,
		SearchLimit:      constants.DefaultSearchLimit,
		SuggestionLimit:  constants.DefaultSuggestionLimit,
		CacheTTL:         constants.DefaultCacheTTL,
		RequestInterval:  constants.DefaultRequestInterval,
		HTTPTimeout:      constants.DefaultHTTPTimeout,
		PollInterval:     constants.DefaultPollInterval,
		EndBehavior:      constants.EndBehaviorAdvance,
		MediaBackend:     constants.MediaBackendClock,
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

// Load loads configuration from environment variables with defaults
func Load() (*Config, error) {
	cfg := Defaults()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// LoadFrom is Load against an explicit environment instead of the process one.
func LoadFrom(environ map[string]string) (*Config, error) {
	cfg := Defaults()
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration and returns detailed errors
func (c *Config) Validate() error {
	var errors []string

	// Validate Port
	if c.Port == "" {
		errors = append(errors, "PORT cannot be empty")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("PORT must be a valid number, got: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("PORT must be between 1 and 65535, got: %d", port))
		}
	}

	if c.DBPath == "" {
		errors = append(errors, "DB_PATH cannot be empty")
	}

	if c.DownloadsDir == "" {
		errors = append(errors, "DOWNLOADS_DIR cannot be empty")
	}

	if c.DownloadTemplate == "" {
		errors = append(errors, "DOWNLOAD_TEMPLATE cannot be empty")
	}

	// Validate CatalogURL
	if c.CatalogURL == "" {
		errors = append(errors, "CATALOG_URL cannot be empty")
	} else if u, err := url.Parse(c.CatalogURL); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, fmt.Sprintf("CATALOG_URL is not a valid URL: %s", c.CatalogURL))
	}

	// Validate Quality
	validQualities := map[string]bool{
		constants.Quality12:  true,
		constants.Quality48:  true,
		constants.Quality96:  true,
		constants.Quality160: true,
		constants.Quality320: true,
	}
	if !validQualities[c.Quality] {
		errors = append(errors, fmt.Sprintf("QUALITY must be one of: 12kbps, 48kbps, 96kbps, 160kbps, 320kbps, got: %s", c.Quality))
	}

	if c.SearchLimit < 1 {
		errors = append(errors, fmt.Sprintf("SEARCH_LIMIT must be positive, got: %d", c.SearchLimit))
	}
	if c.SuggestionLimit < 1 {
		errors = append(errors, fmt.Sprintf("SUGGESTION_LIMIT must be positive, got: %d", c.SuggestionLimit))
	}
	if c.PollInterval <= 0 {
		errors = append(errors, fmt.Sprintf("POLL_INTERVAL must be positive, got: %s", c.PollInterval))
	}
	if c.HTTPTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("HTTP_TIMEOUT must be positive, got: %s", c.HTTPTimeout))
	}
	if c.RequestInterval < 0 {
		errors = append(errors, fmt.Sprintf("REQUEST_INTERVAL cannot be negative, got: %s", c.RequestInterval))
	}

	if c.EndBehavior != constants.EndBehaviorAdvance && c.EndBehavior != constants.EndBehaviorStop {
		errors = append(errors, fmt.Sprintf("END_BEHAVIOR must be one of: advance, stop, got: %s", c.EndBehavior))
	}

	if c.MediaBackend != constants.MediaBackendClock && c.MediaBackend != constants.MediaBackendMPV {
		errors = append(errors, fmt.Sprintf("MEDIA_BACKEND must be one of: clock, mpv, got: %s", c.MediaBackend))
	}

	// Validate LogLevel
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}

	// Validate LogFormat
	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.LogFormat] {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: text, json, got: %s", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}
