// Package model provides tier resolution, pricing, and the retry policy.
//
// The package implements a tiered routing strategy:
//   - Simple tier (gemini): Lead scoring, short drafts, high-volume calls
//   - Standard tier (deepseek): Chat assistant, quote edits, general tasks
//   - Advanced tier (openai): Deep analysis, proposals, anything reasoning-heavy
//
// Task types are routing hints only. They pick a default tier and nothing else.
package model

import (
	"fmt"
	"strings"
)

// Tier is a cost/quality class of model, independent of the vendor serving it.
type Tier string

// Tier constants, cheapest first.
const (
	TierSimple   Tier = "simple"
	TierStandard Tier = "standard"
	TierAdvanced Tier = "advanced"
)

// Tiers lists every known tier, cheapest first.
var Tiers = []Tier{TierSimple, TierStandard, TierAdvanced}

// String returns the tier name.
func (t Tier) String() string {
	return string(t)
}

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool {
	switch t {
	case TierSimple, TierStandard, TierAdvanced:
		return true
	default:
		return false
	}
}

// ParseTier converts a case-insensitive name to a Tier.
// The empty string parses to the empty tier (no override).
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if t == "" || t.Valid() {
		return t, nil
	}
	return "", fmt.Errorf("unknown tier %q", s)
}

// Provider names a vendor LLM API.
type Provider string

// Provider constants.
const (
	ProviderGemini   Provider = "gemini"
	ProviderDeepSeek Provider = "deepseek"
	ProviderOpenAI   Provider = "openai"
)

// Providers lists every known provider.
var Providers = []Provider{ProviderGemini, ProviderDeepSeek, ProviderOpenAI}

// String returns the provider name.
func (p Provider) String() string {
	return string(p)
}

// Valid reports whether p is one of the known providers.
func (p Provider) Valid() bool {
	switch p {
	case ProviderGemini, ProviderDeepSeek, ProviderOpenAI:
		return true
	default:
		return false
	}
}

// ParseProvider converts a case-insensitive name to a Provider.
// The empty string parses to the empty provider (no override).
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	if p == "" || p.Valid() {
		return p, nil
	}
	return "", fmt.Errorf("unknown provider %q", s)
}

// ModelName is a provider-specific model identifier.
type ModelName string

// Known model identifiers.
const (
	ModelGeminiFlash      ModelName = "gemini-2.0-flash"
	ModelGeminiPro        ModelName = "gemini-2.5-pro"
	ModelDeepSeekChat     ModelName = "deepseek-chat"
	ModelDeepSeekReasoner ModelName = "deepseek-reasoner"
	ModelGPT4oMini        ModelName = "gpt-4o-mini"
	ModelGPT4o            ModelName = "gpt-4o"
)

// TaskType identifies the call site's intent.
type TaskType string

// Task types used across the CRM.
const (
	TaskLeadScoring   TaskType = "lead-scoring"
	TaskChatAssistant TaskType = "chat-assistant"
	TaskQuoteEdit     TaskType = "quote-edit"
	TaskEmailDraft    TaskType = "email-draft"
	TaskDeepAnalysis  TaskType = "deep-analysis"
	TaskWhatsAppReply TaskType = "whatsapp-reply"
	TaskQuoteGenerate TaskType = "quote-generate"
	TaskLeadSummary   TaskType = "lead-summary"
	TaskMeetingPrep   TaskType = "meeting-prep"
	TaskCampaignIdeas TaskType = "campaign-ideas"
)

// DefaultTier is used for task types missing from the task table.
const DefaultTier = TierStandard

// DefaultTaskTiers maps each task type to its default tier.
var DefaultTaskTiers = map[TaskType]Tier{
	TaskLeadScoring:   TierSimple,
	TaskEmailDraft:    TierSimple,
	TaskWhatsAppReply: TierSimple,
	TaskLeadSummary:   TierSimple,
	TaskChatAssistant: TierStandard,
	TaskQuoteEdit:     TierStandard,
	TaskMeetingPrep:   TierStandard,
	TaskCampaignIdeas: TierStandard,
	TaskDeepAnalysis:  TierAdvanced,
	TaskQuoteGenerate: TierAdvanced,
}

// TierForTask returns the default tier for a task, or DefaultTier when
// the task is not in the table.
func TierForTask(task TaskType) Tier {
	if tier, ok := DefaultTaskTiers[task]; ok {
		return tier
	}
	return DefaultTier
}

// DefaultTierProviders maps each tier to the provider that serves it.
var DefaultTierProviders = map[Tier]Provider{
	TierSimple:   ProviderGemini,
	TierStandard: ProviderDeepSeek,
	TierAdvanced: ProviderOpenAI,
}

// DefaultModels maps provider and tier to a model.
// Used when a provider serves a tier, including through an override.
var DefaultModels = map[Provider]map[Tier]ModelName{
	ProviderGemini: {
		TierSimple:   ModelGeminiFlash,
		TierStandard: ModelGeminiFlash,
		TierAdvanced: ModelGeminiPro,
	},
	ProviderDeepSeek: {
		TierSimple:   ModelDeepSeekChat,
		TierStandard: ModelDeepSeekChat,
		TierAdvanced: ModelDeepSeekReasoner,
	},
	ProviderOpenAI: {
		TierSimple:   ModelGPT4oMini,
		TierStandard: ModelGPT4oMini,
		TierAdvanced: ModelGPT4o,
	},
}
