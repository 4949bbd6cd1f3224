// Package gemini provides a Client for the Google Gemini generateContent API.
//
// # Basic Usage
//
//	client, err := gemini.New(os.Getenv("GEMINI_API_KEY"),
//	    gemini.WithModel("gemini-2.0-flash"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := client.Complete(ctx, provider.Request{
//	    SystemPrompt: "You score client leads from 0 to 100.",
//	    Messages:     []provider.Message{provider.NewTextMessage(provider.RoleUser, "...")},
//	})
//
// # Registry
//
// Importing the package registers the "gemini" factory with the provider
// registry, so the client can also be built from a provider.Config:
//
//	import _ "github.com/randalmurphal/llmrouter/gemini"
//
//	client, err := provider.New(model.ProviderGemini, provider.Config{APIKey: key})
//
// The client makes exactly one HTTP call per Complete. It never retries;
// the router owns retries.
package gemini
