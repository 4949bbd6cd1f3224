package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/randalmurphal/llmrouter/model"
	"github.com/randalmurphal/llmrouter/provider"
)

// DefaultBaseURL is the public Gemini API endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// Client implements provider.Client against the Gemini REST API.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
	logger  *zap.Logger
}

// Option configures Client.
type Option func(*Client)

// New creates a Gemini client. The API key is required.
func New(apiKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: %s", provider.ErrProviderNotConfigured, model.ProviderGemini)
	}
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		model:   string(model.ModelGeminiFlash),
		http:    &http.Client{Timeout: provider.DefaultTimeout},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
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
		if url != "" {
			c.baseURL = strings.TrimRight(url, "/")
		}
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

// Provider returns "gemini".
func (c *Client) Provider() model.Provider { return model.ProviderGemini }

// Close is a no-op; the HTTP client holds no per-client resources.
func (c *Client) Close() error { return nil }

// Complete calls generateContent once.
func (c *Client) Complete(ctx context.Context, req provider.Request) (*provider.Response, error) {
	modelName := req.Model
	if modelName == "" {
		modelName = c.model
	}

	body, err := json.Marshal(buildRequest(req))
	if err != nil {
		return nil, provider.NewError(model.ProviderGemini, "encode", fmt.Errorf("%w: %w", provider.ErrInvalidRequest, err), false)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, modelName)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, provider.NewError(model.ProviderGemini, "encode", fmt.Errorf("%w: %w", provider.ErrInvalidRequest, err), false)
	}
	httpReq.Header.Set("x-goog-api-key", c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, provider.CallError(model.ProviderGemini, "complete", 0, errors.Join(ctxErr, err))
		}
		return nil, provider.CallError(model.ProviderGemini, "complete", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg := readErrorMessage(resp.Body)
		c.logger.Debug("gemini call failed",
			zap.String("model", modelName),
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg))
		return nil, provider.CallError(model.ProviderGemini, "complete", resp.StatusCode, errors.New(msg))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, provider.CallError(model.ProviderGemini, "decode", resp.StatusCode, err)
	}

	text := out.text()
	if text == "" {
		reason := "no candidates"
		if len(out.Candidates) > 0 {
			reason = "empty text, finish reason " + out.Candidates[0].FinishReason
		}
		return nil, provider.EmptyResponseError(model.ProviderGemini, reason)
	}

	result := &provider.Response{
		Content:  text,
		Model:    modelName,
		Duration: time.Since(start),
	}
	if out.ModelVersion != "" {
		result.Model = out.ModelVersion
	}
	if len(out.Candidates) > 0 {
		result.FinishReason = out.Candidates[0].FinishReason
	}
	if u := out.UsageMetadata; u != nil {
		result.Usage = provider.TokenUsage{
			InputTokens:  u.PromptTokenCount,
			OutputTokens: u.CandidatesTokenCount,
			TotalTokens:  u.TotalTokenCount,
		}
		if result.Usage.TotalTokens == 0 {
			result.Usage.TotalTokens = u.PromptTokenCount + u.CandidatesTokenCount
		}
	}
	return result, nil
}

// buildRequest translates a provider request. Gemini calls the assistant
// role "model" and carries the system prompt out of band.
func buildRequest(req provider.Request) generateRequest {
	var out generateRequest

	system := req.SystemPrompt
	for _, m := range req.Messages {
		if m.Role == provider.RoleSystem {
			if system != "" {
				system += "\n\n"
			}
			system += m.Content
			continue
		}
		role := "user"
		if m.Role == provider.RoleAssistant {
			role = "model"
		}
		out.Contents = append(out.Contents, content{
			Role:  role,
			Parts: []part{{Text: m.Content}},
		})
	}
	if system != "" {
		out.SystemInstruction = &content{Parts: []part{{Text: system}}}
	}

	if req.Temperature != nil || req.MaxTokens > 0 || req.JSONMode {
		out.GenerationConfig = &generationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
		}
		if req.JSONMode {
			out.GenerationConfig.ResponseMimeType = "application/json"
		}
	}
	return out
}

var _ provider.Client = (*Client)(nil)
