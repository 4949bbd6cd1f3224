package openai

import (
	"github.com/randalmurphal/llmrouter/model"
	"github.com/randalmurphal/llmrouter/provider"
)

func init() {
	provider.Register(model.ProviderOpenAI, newFromProviderConfig)
}

// newFromProviderConfig creates a Client from a provider.Config.
func newFromProviderConfig(cfg provider.Config) (provider.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return New(cfg.APIKey, Options(cfg)...)
}

// Options maps a provider.Config onto client options.
// Compatible vendors reuse it and append their own name and endpoint.
func Options(cfg provider.Config) []Option {
	return []Option{
		WithProviderName(cfg.Provider),
		WithModel(cfg.Model),
		WithBaseURL(cfg.BaseURL),
		WithHTTPClient(cfg.Client()),
		WithLogger(cfg.Log()),
	}
}
