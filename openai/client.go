// Package openai provides a Client for OpenAI-compatible chat completion APIs.
//
// The same client serves OpenAI itself and vendors that speak the OpenAI
// wire format (see the deepseek package). The SDK's own retries are
// disabled; each Complete makes one upstream call.
//
//	client, err := openai.New(os.Getenv("OPENAI_API_KEY"), openai.WithModel("gpt-4o"))
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"
	"go.uber.org/zap"

	"github.com/randalmurphal/llmrouter/model"
	"github.com/randalmurphal/llmrouter/provider"
)

// DefaultBaseURL is the public OpenAI endpoint.
const DefaultBaseURL = "https://api.openai.com/v1/"

// Client implements provider.Client with the openai-go SDK.
type Client struct {
	name    model.Provider
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
	logger  *zap.Logger
	sdk     oai.Client
}

// Option configures Client.
type Option func(*Client)

// New creates a client. The API key is required.
func New(apiKey string, opts ...Option) (*Client, error) {
	c := &Client{
		name:    model.ProviderOpenAI,
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		model:   string(model.ModelGPT4oMini),
		http:    &http.Client{Timeout: provider.DefaultTimeout},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if strings.TrimSpace(c.apiKey) == "" {
		return nil, fmt.Errorf("%w: %s", provider.ErrProviderNotConfigured, c.name)
	}

	c.sdk = oai.NewClient(
		option.WithAPIKey(c.apiKey),
		option.WithBaseURL(c.baseURL),
		option.WithHTTPClient(c.http),
		option.WithMaxRetries(0),
	)
	return c, nil
}

// WithProviderName sets the name reported by Provider and used in errors.
// OpenAI-compatible vendors set their own name here.
func WithProviderName(name model.Provider) Option {
	return func(c *Client) {
		if name != "" {
			c.name = name
		}
	}
}

// WithModel sets the model used when a request leaves Model empty.
func WithModel(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.model = name
		}
	}
}

// WithBaseURL overrides the API endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url == "" {
			return
		}
		if !strings.HasSuffix(url, "/") {
			url += "/"
		}
		c.baseURL = url
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds each call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Provider returns the configured provider name.
func (c *Client) Provider() model.Provider { return c.name }

// Close is a no-op.
func (c *Client) Close() error { return nil }

// Complete calls chat completions once.
func (c *Client) Complete(ctx context.Context, req provider.Request) (*provider.Response, error) {
	params := c.buildParams(req)

	start := time.Now()
	resp, err := c.sdk.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, c.mapError(ctx, err)
	}

	if len(resp.Choices) == 0 {
		return nil, provider.EmptyResponseError(c.name, "no choices")
	}
	choice := resp.Choices[0]
	if choice.Message.Content == "" {
		return nil, provider.EmptyResponseError(c.name, "empty content, finish reason "+choice.FinishReason)
	}

	out := &provider.Response{
		Content:      choice.Message.Content,
		Model:        params.Model,
		FinishReason: choice.FinishReason,
		Duration:     time.Since(start),
		Usage: provider.TokenUsage{
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:  int(resp.Usage.TotalTokens),
		},
	}
	if resp.Model != "" {
		out.Model = resp.Model
	}
	if out.Usage.TotalTokens == 0 {
		out.Usage.TotalTokens = out.Usage.InputTokens + out.Usage.OutputTokens
	}
	return out, nil
}

func (c *Client) buildParams(req provider.Request) oai.ChatCompletionNewParams {
	modelName := req.Model
	if modelName == "" {
		modelName = c.model
	}

	messages := make([]oai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		messages = append(messages, oai.SystemMessage(req.SystemPrompt))
	}
	for _, m := range req.Messages {
		switch m.Role {
		case provider.RoleSystem:
			messages = append(messages, oai.SystemMessage(m.Content))
		case provider.RoleAssistant:
			messages = append(messages, oai.AssistantMessage(m.Content))
		default:
			messages = append(messages, oai.UserMessage(m.Content))
		}
	}

	params := oai.ChatCompletionNewParams{
		Model:    modelName,
		Messages: messages,
	}
	if req.Temperature != nil {
		params.Temperature = param.NewOpt(*req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = param.NewOpt(int64(req.MaxTokens))
	}
	if req.JSONMode {
		params.ResponseFormat = oai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}
	return params
}

func (c *Client) mapError(ctx context.Context, err error) error {
	var apiErr *oai.Error
	if errors.As(err, &apiErr) {
		c.logger.Debug("chat completion failed",
			zap.String("provider", string(c.name)),
			zap.Int("status", apiErr.StatusCode),
			zap.Error(err))
		return provider.CallError(c.name, "complete", apiErr.StatusCode, err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		err = errors.Join(ctxErr, err)
	}
	return provider.CallError(c.name, "complete", 0, err)
}

var _ provider.Client = (*Client)(nil)
