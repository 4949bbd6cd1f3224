// Package tokens estimates token counts and trims text to fit a model's
// context window.
//
// Estimation uses the rule of thumb that about 4 characters make a token.
// It is used where a provider omits usage metadata and to check a prompt
// against the model's context window before any call is made.
//
//	counter := tokens.NewEstimatingCounter()
//	n := counter.Count("Hola, ¿sigue disponible la casa?")
//
//	window := tokens.ContextWindow("gpt-4o") // 128000
//
//	short, cut := tokens.Trim(counter, notes, 2000, tokens.TrimMiddle)
package tokens
