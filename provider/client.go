// Package provider defines the unified interface for vendor LLM APIs.
//
// Each vendor package (gemini, openai, deepseek) implements Client and
// registers a Factory from its init function. A Registry holds the live
// clients for the providers that have credentials:
//
//	import _ "github.com/randalmurphal/llmrouter/providers"
//
//	reg, err := provider.BuildRegistry(cfg.ProviderConfigs())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer reg.Close()
//
//	client, ok := reg.Get(model.ProviderGemini)
//
// # Available Providers
//
//   - "gemini": Google Gemini generateContent REST API
//   - "deepseek": DeepSeek chat completions (OpenAI-compatible)
//   - "openai": OpenAI chat completions
package provider

import (
	"context"

	"github.com/randalmurphal/llmrouter/model"
)

// Client is the unified interface for vendor LLM APIs.
// Implementations must be safe for concurrent use.
type Client interface {
	// Complete sends one request and returns the full response.
	// Implementations make exactly one upstream call and never retry;
	// retries belong to the router.
	Complete(ctx context.Context, req Request) (*Response, error)

	// Provider returns the provider this client talks to.
	Provider() model.Provider

	// Close releases any resources held by the client.
	Close() error
}
