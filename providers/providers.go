// Package providers registers all known LLM API providers.
// Import this package to make all providers available via provider.New():
//
//	import _ "github.com/randalmurphal/llmrouter/providers"
package providers

import (
	_ "github.com/randalmurphal/llmrouter/deepseek"
	_ "github.com/randalmurphal/llmrouter/gemini"
	_ "github.com/randalmurphal/llmrouter/openai"
)
