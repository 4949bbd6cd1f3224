package provider

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/randalmurphal/llmrouter/model"
)

// DefaultTimeout bounds a single upstream HTTP call.
const DefaultTimeout = 60 * time.Second

// Config holds configuration for creating a provider client.
type Config struct {
	// Provider selects the factory. Required.
	Provider model.Provider `json:"provider" yaml:"provider"`

	// APIKey authenticates against the vendor API. An empty key marks the
	// provider as not configured.
	APIKey string `json:"-" yaml:"api_key"`

	// BaseURL overrides the vendor endpoint. Empty uses the vendor default.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url"`

	// Model is used when a request leaves Model empty.
	Model string `json:"model,omitempty" yaml:"model"`

	// Timeout bounds each upstream call. 0 uses DefaultTimeout.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout"`

	// HTTPClient replaces the client built from Timeout. Used by tests.
	HTTPClient *http.Client `json:"-" yaml:"-"`

	// Logger receives debug output. Nil disables logging.
	Logger *zap.Logger `json:"-" yaml:"-"`
}

// Configured reports whether the config carries credentials.
func (c Config) Configured() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// Validate checks if the configuration is usable.
func (c Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("%w: provider is required", ErrInvalidRequest)
	}
	if !c.Configured() {
		return fmt.Errorf("%w: %s", ErrProviderNotConfigured, c.Provider)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout must be >= 0, got %v", ErrInvalidRequest, c.Timeout)
	}
	return nil
}

// EffectiveTimeout returns Timeout or DefaultTimeout.
func (c Config) EffectiveTimeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}

// Client returns HTTPClient or a new client bounded by EffectiveTimeout.
func (c Config) Client() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: c.EffectiveTimeout()}
}

// Log returns Logger or a no-op logger.
func (c Config) Log() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return zap.NewNop()
}

// WithModel returns a copy of the config with the specified model.
func (c Config) WithModel(name string) Config {
	c.Model = name
	return c
}

// WithBaseURL returns a copy of the config with the specified endpoint.
func (c Config) WithBaseURL(url string) Config {
	c.BaseURL = url
	return c
}

// WithLogger returns a copy of the config with the specified logger.
func (c Config) WithLogger(logger *zap.Logger) Config {
	c.Logger = logger
	return c
}
