package gemini

import (
	"github.com/randalmurphal/llmrouter/model"
	"github.com/randalmurphal/llmrouter/provider"
)

func init() {
	provider.Register(model.ProviderGemini, newFromProviderConfig)
}

// newFromProviderConfig creates a Client from a provider.Config.
// This is the factory function registered with the provider registry.
func newFromProviderConfig(cfg provider.Config) (provider.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return New(cfg.APIKey,
		WithModel(cfg.Model),
		WithBaseURL(cfg.BaseURL),
		WithHTTPClient(cfg.Client()),
		WithLogger(cfg.Log()),
	)
}
