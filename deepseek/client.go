// Package deepseek provides a Client for the DeepSeek chat API.
//
// DeepSeek speaks the OpenAI wire format, so the client is the openai
// client pointed at the DeepSeek endpoint and reporting "deepseek".
package deepseek

import (
	"github.com/randalmurphal/llmrouter/model"
	"github.com/randalmurphal/llmrouter/openai"
	"github.com/randalmurphal/llmrouter/provider"
)

// DefaultBaseURL is the public DeepSeek endpoint.
const DefaultBaseURL = "https://api.deepseek.com/"

// New creates a DeepSeek client. Options are applied after the DeepSeek
// defaults, so WithBaseURL and WithModel still override them.
func New(apiKey string, opts ...openai.Option) (*openai.Client, error) {
	base := []openai.Option{
		openai.WithProviderName(model.ProviderDeepSeek),
		openai.WithBaseURL(DefaultBaseURL),
		openai.WithModel(string(model.ModelDeepSeekChat)),
	}
	return openai.New(apiKey, append(base, opts...)...)
}

func init() {
	provider.Register(model.ProviderDeepSeek, newFromProviderConfig)
}

func newFromProviderConfig(cfg provider.Config) (provider.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return New(cfg.APIKey, openai.Options(cfg)...)
}
