package router

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/randalmurphal/llmrouter/provider"
	"github.com/randalmurphal/llmrouter/tokens"
)

// DefaultReplyReserve is the room kept for the reply when a request sets no MaxTokens.
const DefaultReplyReserve = 2048

// fit shrinks req until the prompt plus the reply reserve fits the model's
// context window. Oldest messages are dropped first; the newest message is
// trimmed in the middle only when it alone does not fit.
func (rt *Router) fit(req *provider.Request) error {
	reserve := req.MaxTokens
	if reserve <= 0 {
		reserve = DefaultReplyReserve
	}
	window := tokens.ContextWindow(req.Model)
	avail := window - reserve - rt.counter.Count(req.SystemPrompt)
	if avail <= 0 {
		return fmt.Errorf("%w: system prompt and reply reserve exceed the %d token window of %s",
			provider.ErrInvalidRequest, window, req.Model)
	}

	counts := make([]int, len(req.Messages))
	total := 0
	for i, m := range req.Messages {
		counts[i] = rt.counter.Count(m.Content)
		total += counts[i]
	}
	if total <= avail {
		return nil
	}

	msgs := req.Messages
	for len(msgs) > 1 && total > avail {
		total -= counts[0]
		counts = counts[1:]
		msgs = msgs[1:]
	}

	if total > avail {
		last := msgs[0]
		trimmed, _ := tokens.Trim(rt.counter, last.Content, avail, tokens.TrimMiddle)
		if trimmed == "" {
			return fmt.Errorf("%w: message does not fit the %d token window of %s",
				provider.ErrInvalidRequest, window, req.Model)
		}
		last.Content = trimmed
		msgs = []provider.Message{last}
	}

	rt.logger.Debug("prompt trimmed to context window",
		zap.Int("dropped_messages", len(req.Messages)-len(msgs)),
		zap.Int("window", window))
	req.Messages = msgs
	return nil
}
