package tokens

import (
	"unicode/utf8"
)

// DefaultCharsPerToken is the default character-to-token ratio.
// Approximately 4 characters equals 1 token for English and Spanish text.
const DefaultCharsPerToken = 4.0

// Counter estimates token counts for text.
type Counter interface {
	// Count estimates the number of tokens in the given text.
	Count(text string) int

	// FitsInLimit returns true if the text fits within the token limit.
	FitsInLimit(text string, limit int) bool
}

// EstimatingCounter uses a character-to-token ratio for estimation.
type EstimatingCounter struct {
	// CharsPerToken is the average characters per token.
	CharsPerToken float64
}

// NewEstimatingCounter creates a token counter with default settings.
func NewEstimatingCounter() *EstimatingCounter {
	return &EstimatingCounter{
		CharsPerToken: DefaultCharsPerToken,
	}
}

// NewEstimatingCounterWithRatio creates a token counter with a custom ratio.
// If charsPerToken is <= 0, the default ratio (4.0) is used.
func NewEstimatingCounterWithRatio(charsPerToken float64) *EstimatingCounter {
	if charsPerToken <= 0 {
		charsPerToken = DefaultCharsPerToken
	}
	return &EstimatingCounter{
		CharsPerToken: charsPerToken,
	}
}

// Count estimates the number of tokens in the given text.
// Runes are counted rather than bytes so accented text is not overcounted.
// Non-empty text is at least one token.
func (c *EstimatingCounter) Count(text string) int {
	runes := utf8.RuneCountInString(text)
	if runes == 0 {
		return 0
	}
	ratio := c.CharsPerToken
	if ratio <= 0 {
		ratio = DefaultCharsPerToken
	}
	n := int(float64(runes)/ratio + 0.5)
	if n < 1 {
		n = 1
	}
	return n
}

// FitsInLimit returns true if the text fits within the token limit.
func (c *EstimatingCounter) FitsInLimit(text string, limit int) bool {
	return c.Count(text) <= limit
}

// EstimateTokens is a convenience function using the default estimator.
func EstimateTokens(text string) int {
	return NewEstimatingCounter().Count(text)
}

// DefaultContextWindow applies to models missing from ContextWindows.
const DefaultContextWindow = 64000

// ContextWindows holds the context window, in tokens, of the routed models.
var ContextWindows = map[string]int{
	"gemini-2.0-flash":  1048576,
	"gemini-2.5-pro":    1048576,
	"gemini-2.5-flash":  1048576,
	"deepseek-chat":     65536,
	"deepseek-reasoner": 65536,
	"gpt-4o":            128000,
	"gpt-4o-mini":       128000,
}

// ContextWindow returns the token window for a model, or DefaultContextWindow.
func ContextWindow(model string) int {
	if n, ok := ContextWindows[model]; ok {
		return n
	}
	return DefaultContextWindow
}
