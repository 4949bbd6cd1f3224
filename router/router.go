package router

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/randalmurphal/llmrouter/model"
	"github.com/randalmurphal/llmrouter/prompt"
	"github.com/randalmurphal/llmrouter/provider"
	"github.com/randalmurphal/llmrouter/tokens"
	"github.com/randalmurphal/llmrouter/usage"
)

// DefaultFallback is what RouteSafe returns when a request cannot be served.
const DefaultFallback = "Sorry, the assistant is unavailable right now. Please try again in a few minutes."

// Clients looks up the live client for a provider.
// *provider.Registry implements it.
type Clients interface {
	Get(p model.Provider) (provider.Client, bool)
	Has(p model.Provider) bool
}

// Router resolves, executes, and records LLM requests.
// It is safe for concurrent use; the only shared mutable state is the ledger.
type Router struct {
	clients  Clients
	ledger   *usage.Ledger
	resolver *model.Resolver
	policy   model.RetryPolicy
	catalog  *prompt.Catalog
	counter  tokens.Counter
	metrics  *Metrics
	logger   *zap.Logger
	fallback string
	sleep    func(ctx context.Context, d time.Duration) error
	now      func() time.Time
}

// Option configures a Router.
type Option func(*Router)

// WithResolver sets the resolver. The default resolves against the clients
// that are present.
func WithResolver(r *model.Resolver) Option {
	return func(rt *Router) {
		if r != nil {
			rt.resolver = r
		}
	}
}

// WithRetryPolicy sets the retry policy. Attempts stay capped at model.MaxAttempts.
func WithRetryPolicy(p model.RetryPolicy) Option {
	return func(rt *Router) {
		rt.policy = p
	}
}

// WithCatalog sets the system prompt catalog.
func WithCatalog(c *prompt.Catalog) Option {
	return func(rt *Router) {
		if c != nil {
			rt.catalog = c
		}
	}
}

// WithCounter sets the token counter used for estimates and context fitting.
func WithCounter(c tokens.Counter) Option {
	return func(rt *Router) {
		if c != nil {
			rt.counter = c
		}
	}
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *Metrics) Option {
	return func(rt *Router) {
		rt.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(rt *Router) {
		if logger != nil {
			rt.logger = logger
		}
	}
}

// WithFallback sets the message RouteSafe returns on failure.
func WithFallback(msg string) Option {
	return func(rt *Router) {
		if strings.TrimSpace(msg) != "" {
			rt.fallback = msg
		}
	}
}

// WithSleep replaces the backoff wait. Tests use it to skip delays.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(rt *Router) {
		if sleep != nil {
			rt.sleep = sleep
		}
	}
}

// WithClock sets the time source used for durations.
func WithClock(now func() time.Time) Option {
	return func(rt *Router) {
		if now != nil {
			rt.now = now
		}
	}
}

// New creates a router over clients that records into ledger.
// A nil ledger records into a fresh in-memory store.
func New(clients Clients, ledger *usage.Ledger, opts ...Option) *Router {
	if ledger == nil {
		ledger = usage.NewLedger(usage.NewMemoryStore())
	}
	rt := &Router{
		clients:  clients,
		ledger:   ledger,
		policy:   model.DefaultRetryPolicy,
		catalog:  prompt.DefaultCatalog(),
		counter:  tokens.NewEstimatingCounter(),
		logger:   zap.NewNop(),
		fallback: DefaultFallback,
		sleep:    sleepContext,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(rt)
	}
	if rt.resolver == nil {
		rt.resolver = model.NewResolver(clients.Has)
	}
	return rt
}

// Ledger returns the ledger the router records into.
func (rt *Router) Ledger() *usage.Ledger {
	return rt.ledger
}

// Resolve reports where a request for task would be sent without sending it.
func (rt *Router) Resolve(task model.TaskType, overrideTier model.Tier, overrideProvider model.Provider) (model.Resolution, error) {
	return rt.resolver.Resolve(task, overrideTier, overrideProvider)
}

// Route resolves req to a provider and model, then calls the provider,
// retrying failed attempts up to the policy's limit.
//
// Configuration and validation problems are returned as errors and nothing
// is sent. Every request that reaches a provider returns a Result with a nil
// error and produces exactly one ledger record; callers check Result.Success.
func (rt *Router) Route(ctx context.Context, req Request) (*Result, error) {
	return rt.route(ctx, req, "", nil)
}

// RouteSafe routes req and returns the reply content, or the fallback
// message when the request fails for any reason.
func (rt *Router) RouteSafe(ctx context.Context, req Request) (content string) {
	defer func() {
		if v := recover(); v != nil {
			rt.logger.Error("route panicked", zap.Any("panic", v))
			content = rt.fallback
		}
	}()

	res, err := rt.Route(ctx, req)
	if err != nil {
		rt.logger.Warn("route failed, using fallback", zap.Error(err))
		return rt.fallback
	}
	if !res.Success {
		return rt.fallback
	}
	return res.Content
}

// Fallback returns the message RouteSafe uses on failure.
func (rt *Router) Fallback() string {
	return rt.fallback
}

// route runs one request. suffix is appended to the rendered system prompt;
// accept, when set, must approve the content for an attempt to succeed.
func (rt *Router) route(ctx context.Context, req Request, suffix string, accept func(content string) error) (*Result, error) {
	if strings.TrimSpace(req.Prompt) == "" && len(req.Messages) == 0 {
		return nil, provider.NewError(req.OverrideProvider, "route",
			fmt.Errorf("%w: prompt or messages required", provider.ErrInvalidRequest), false)
	}

	res, err := rt.resolver.Resolve(req.TaskType, req.OverrideTier, req.OverrideProvider)
	if err != nil {
		rt.logger.Warn("resolve failed",
			zap.String("task", string(req.TaskType)),
			zap.String("override_tier", string(req.OverrideTier)),
			zap.String("override_provider", string(req.OverrideProvider)),
			zap.Error(err))
		return nil, provider.NewError(req.OverrideProvider, "resolve", err, false)
	}

	client, ok := rt.clients.Get(res.Provider)
	if !ok {
		return nil, provider.NewError(res.Provider, "resolve", provider.ErrProviderNotConfigured, false)
	}

	preq, err := rt.build(req, res, suffix)
	if err != nil {
		return nil, err
	}
	if err := rt.fit(&preq); err != nil {
		return nil, err
	}

	return rt.execute(ctx, client, res, preq, accept), nil
}

// execute runs the attempt loop and records the outcome.
func (rt *Router) execute(ctx context.Context, client provider.Client, res model.Resolution, preq provider.Request, accept func(string) error) *Result {
	start := rt.now()
	result := &Result{
		Provider: res.Provider,
		Model:    string(res.Model),
		Tier:     res.Tier,
		Task:     res.Task,
	}
	log := rt.logger.With(
		zap.String("provider", string(res.Provider)),
		zap.String("tier", string(res.Tier)),
		zap.String("model", string(res.Model)),
		zap.String("task", string(res.Task)))

	var lastErr error
	for attempt := 1; ; attempt++ {
		result.Attempts = attempt
		log.Debug("llm attempt", zap.Int("attempt", attempt))

		resp, err := client.Complete(ctx, preq)
		if err == nil {
			result.Usage.Add(resp.Usage)
			if resp.Model != "" {
				result.ServedModel = resp.Model
			}
			err = checkContent(res.Provider, resp.Content, accept)
			if err == nil {
				result.Content = resp.Content
				result.Success = true
				rt.metrics.attempt(res.Provider, true)
				break
			}
		}
		rt.metrics.attempt(res.Provider, false)
		lastErr = err

		// Only the caller's context ends retries; a client timeout does not.
		if ctxErr := ctx.Err(); ctxErr != nil {
			if !errors.Is(err, ctxErr) {
				lastErr = errors.Join(ctxErr, err)
			}
			break
		}
		d := rt.policy.Decide(attempt, err)
		if !d.Retry {
			break
		}
		log.Warn("llm attempt failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", d.Delay),
			zap.Error(err))
		if serr := rt.sleep(ctx, d.Delay); serr != nil {
			log.Warn("retry wait interrupted", zap.Error(serr))
			break
		}
	}

	if result.Success && result.Usage.IsZero() {
		result.Usage = provider.TokenUsage{
			InputTokens:  rt.counter.Count(preq.Text()),
			OutputTokens: rt.counter.Count(result.Content),
		}
		result.Usage.TotalTokens = result.Usage.InputTokens + result.Usage.OutputTokens
		result.Estimated = true
	}
	if !result.Success {
		result.err = lastErr
		if lastErr != nil {
			result.Error = lastErr.Error()
		}
	}
	result.Duration = rt.now().Sub(start)

	// The record is written even when the caller's context is done.
	rec, err := rt.ledger.Record(context.WithoutCancel(ctx), usage.Record{
		Provider:     result.Provider,
		Tier:         result.Tier,
		Model:        result.Model,
		Task:         result.Task,
		InputTokens:  result.Usage.InputTokens,
		OutputTokens: result.Usage.OutputTokens,
		Attempts:     result.Attempts,
		Success:      result.Success,
		Estimated:    result.Estimated,
	})
	if err != nil {
		result.LedgerErr = err
	} else {
		result.CostUSD = rec.CostUSD
	}

	rt.metrics.observe(result)

	if result.Success {
		log.Info("llm request completed",
			zap.Int("attempts", result.Attempts),
			zap.Int("input_tokens", result.Usage.InputTokens),
			zap.Int("output_tokens", result.Usage.OutputTokens),
			zap.Float64("cost_usd", result.CostUSD),
			zap.Duration("duration", result.Duration))
	} else {
		log.Warn("llm request failed",
			zap.Int("attempts", result.Attempts),
			zap.String("error", result.Error),
			zap.Duration("duration", result.Duration))
	}
	return result
}

// build turns a routing request into a provider request.
func (rt *Router) build(req Request, res model.Resolution, suffix string) (provider.Request, error) {
	engine := rt.catalog.Engine()

	system := req.SystemPrompt
	var err error
	switch {
	case system == "":
		system, err = rt.catalog.System(req.TaskType, req.Variables)
	case req.Variables != nil:
		system, err = engine.Render(system, req.Variables)
	}
	if err != nil {
		return provider.Request{}, provider.NewError(res.Provider, "render",
			fmt.Errorf("%w: system prompt: %w", provider.ErrInvalidRequest, err), false)
	}
	if suffix != "" {
		system = strings.TrimRight(system, "\n") + "\n\n" + suffix
	}

	msgs := make([]provider.Message, 0, len(req.Messages)+1)
	msgs = append(msgs, req.Messages...)
	if text := req.Prompt; strings.TrimSpace(text) != "" {
		if req.Variables != nil {
			text, err = engine.Render(text, req.Variables)
			if err != nil {
				return provider.Request{}, provider.NewError(res.Provider, "render",
					fmt.Errorf("%w: prompt: %w", provider.ErrInvalidRequest, err), false)
			}
		}
		msgs = append(msgs, provider.NewTextMessage(provider.RoleUser, text))
	}

	return provider.Request{
		SystemPrompt: system,
		Messages:     msgs,
		Model:        string(res.Model),
		MaxTokens:    req.MaxTokens,
		Temperature:  req.Temperature,
		JSONMode:     req.JSONMode,
	}, nil
}

// checkContent rejects replies with nothing usable in them.
func checkContent(p model.Provider, content string, accept func(string) error) error {
	if strings.TrimSpace(content) == "" {
		return provider.EmptyResponseError(p, "no content in reply")
	}
	if accept != nil {
		if err := accept(content); err != nil {
			return provider.EmptyResponseError(p, err.Error())
		}
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
