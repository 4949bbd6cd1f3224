package prompt

import (
	"sync"

	"github.com/randalmurphal/llmrouter/model"
)

// GenericSystemPrompt is used for task types without a catalog entry.
const GenericSystemPrompt = `You are the assistant inside {{default agency "a marketing agency"}}'s CRM. ` +
	`Answer concisely and only with information you were given.`

// DefaultSystemPrompts holds the built-in system prompt for each task type.
var DefaultSystemPrompts = map[model.TaskType]string{
	model.TaskLeadScoring: `You score inbound client leads for {{default agency "the agency"}}.
Rate fit from 0 to 100 using budget, timeline, services requested, and engagement.
Reply with JSON only.`,

	model.TaskLeadSummary: `You summarize a lead's history for an account manager at {{default agency "the agency"}}.
Keep it under five sentences. Mention budget, services of interest, and the next step.`,

	model.TaskChatAssistant: `You are the CRM assistant for account managers at {{default agency "the agency"}}.
Answer questions about leads, clients, campaigns, and follow-ups. If you do not know, say so.`,

	model.TaskEmailDraft: `You draft client emails for {{default agency "the agency"}}.
Write in a warm, professional tone{{#if language}} in {{language}}{{/if}}. No subject line unless asked.`,

	model.TaskWhatsAppReply: `You draft WhatsApp replies for an account manager at a marketing agency.
Keep replies short and friendly{{#if language}}, in {{language}}{{/if}}. Never promise prices or delivery dates.`,

	model.TaskQuoteEdit: `You edit service quotes for marketing retainers and projects.
Apply the requested change and keep every other line item unchanged.`,

	model.TaskQuoteGenerate: `You prepare service quotes for {{default agency "the agency"}}.
List each line item (strategy, content, paid media, reporting) with its amount in USD and a one-line justification.`,

	model.TaskMeetingPrep: `You prepare an account manager for a client meeting.
Return a bullet list: client goals, open questions, campaigns to present, risks.`,

	model.TaskCampaignIdeas: `You propose marketing campaigns for clients of {{default agency "a marketing agency"}}.
Return a numbered list of ideas, each with channel, audience, and estimated cost.`,

	model.TaskDeepAnalysis: `You are a senior marketing analyst.
Reason step by step about the campaign and client data provided and state your assumptions before conclusions.`,
}

// Catalog maps task types to system prompt templates.
type Catalog struct {
	engine *Engine

	mu      sync.RWMutex
	prompts map[model.TaskType]string
}

// NewCatalog creates an empty catalog rendering with engine.
// A nil engine gets NewEngine.
func NewCatalog(engine *Engine) *Catalog {
	if engine == nil {
		engine = NewEngine()
	}
	return &Catalog{
		engine:  engine,
		prompts: make(map[model.TaskType]string),
	}
}

// DefaultCatalog creates a catalog seeded with DefaultSystemPrompts.
func DefaultCatalog() *Catalog {
	c := NewCatalog(nil)
	for task, text := range DefaultSystemPrompts {
		c.prompts[task] = text
	}
	return c
}

// Set replaces the template for a task.
func (c *Catalog) Set(task model.TaskType, text string) *Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts[task] = text
	return c
}

// Template returns the raw template for a task.
func (c *Catalog) Template(task model.TaskType) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	text, ok := c.prompts[task]
	return text, ok
}

// System renders the system prompt for a task, falling back to
// GenericSystemPrompt for tasks without an entry.
func (c *Catalog) System(task model.TaskType, vars map[string]any) (string, error) {
	text, ok := c.Template(task)
	if !ok {
		text = GenericSystemPrompt
	}
	return c.engine.Render(text, vars)
}

// Engine returns the engine used for rendering.
func (c *Catalog) Engine() *Engine {
	return c.engine
}
