package router

import (
	"fmt"
	"time"

	"github.com/randalmurphal/llmrouter/model"
	"github.com/randalmurphal/llmrouter/provider"
)

// Request is a caller's routing request. Either Prompt or Messages must be set;
// when both are, Prompt is appended as the final user message.
type Request struct {
	// Prompt is a single user message.
	Prompt string `json:"prompt,omitempty"`

	// Messages is prior conversation, oldest first.
	Messages []provider.Message `json:"messages,omitempty"`

	// TaskType picks the default tier and system prompt.
	TaskType model.TaskType `json:"task_type,omitempty"`

	// OverrideTier replaces the task's default tier.
	OverrideTier model.Tier `json:"override_tier,omitempty"`

	// OverrideProvider replaces the tier's provider. It must be configured.
	OverrideProvider model.Provider `json:"override_provider,omitempty"`

	// SystemPrompt replaces the task's catalog system prompt.
	SystemPrompt string `json:"system_prompt,omitempty"`

	// Temperature controls randomness. Nil uses the provider default.
	Temperature *float64 `json:"temperature,omitempty"`

	// MaxTokens caps the reply. 0 uses the provider default.
	MaxTokens int `json:"max_tokens,omitempty"`

	// Variables are rendered into Prompt and the system prompt.
	Variables map[string]any `json:"variables,omitempty"`

	// JSONMode asks the provider for a JSON reply.
	JSONMode bool `json:"json_mode,omitempty"`
}

// Result is the normalized outcome of a routed request.
// A failed request is reported here with Success false, not as an error.
type Result struct {
	Content  string         `json:"content"`
	Provider model.Provider `json:"provider"`
	Tier     model.Tier     `json:"tier"`
	Task     model.TaskType `json:"task,omitempty"`

	// Model is the resolved model; it names the request in the ledger and
	// selects the price. ServedModel is what the provider reported back,
	// often a dated snapshot such as gpt-4o-mini-2024-07-18.
	Model       string `json:"model"`
	ServedModel string `json:"served_model,omitempty"`

	Attempts  int                 `json:"attempts"`
	Success   bool                `json:"success"`
	Error     string              `json:"error,omitempty"`
	Usage     provider.TokenUsage `json:"usage"`
	CostUSD   float64             `json:"cost_usd"`
	Estimated bool                `json:"estimated,omitempty"`
	Duration  time.Duration       `json:"duration"`

	// LedgerErr is set when the usage record could not be written.
	// CostUSD is 0 in that case.
	LedgerErr error `json:"-"`

	err error
}

// Err returns nil on success, otherwise an error wrapping
// provider.ErrRetriesExhausted and the last attempt's error.
func (r *Result) Err() error {
	if r == nil || r.Success {
		return nil
	}
	if r.err != nil {
		return fmt.Errorf("%w after %d attempts: %w", provider.ErrRetriesExhausted, r.Attempts, r.err)
	}
	return fmt.Errorf("%w after %d attempts: %s", provider.ErrRetriesExhausted, r.Attempts, r.Error)
}
