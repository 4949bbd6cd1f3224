package router

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/llmrouter/model"
	"github.com/randalmurphal/llmrouter/openai"
	"github.com/randalmurphal/llmrouter/provider"
	"github.com/randalmurphal/llmrouter/usage"
)

// chatCompletion is an OpenAI reply as the API sends it, with a dated
// snapshot name instead of the requested alias.
func chatCompletion(servedModel string, promptTokens int) string {
	return fmt.Sprintf(`{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": %q,
  "choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "{\"score\": 64}"}}],
  "usage": {"prompt_tokens": %d, "completion_tokens": 0, "total_tokens": %d}
}`, servedModel, promptTokens, promptTokens)
}

func openAIRouter(t *testing.T, handler http.HandlerFunc, opts ...openai.Option) (*Router, *usage.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts = append([]openai.Option{openai.WithBaseURL(srv.URL)}, opts...)
	client, err := openai.New("sk-test", opts...)
	require.NoError(t, err)

	reg := provider.NewRegistry()
	require.NoError(t, reg.Add(client))
	store := usage.NewMemoryStore()
	rt := New(reg, usage.NewLedger(store), WithSleep(func(ctx context.Context, _ time.Duration) error {
		return ctx.Err()
	}))
	return rt, store
}

func TestRoutePricesResolvedModel(t *testing.T) {
	rt, store := openAIRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chatCompletion("gpt-4o-mini-2024-07-18", 1_000_000))
	})

	res, err := rt.Route(context.Background(), Request{
		Prompt:           "Lead: $2k/month, wants SEO.",
		TaskType:         model.TaskLeadScoring,
		OverrideProvider: model.ProviderOpenAI,
	})
	require.NoError(t, err)
	require.True(t, res.Success, res.Error)

	assert.Equal(t, string(model.ModelGPT4oMini), res.Model)
	assert.Equal(t, "gpt-4o-mini-2024-07-18", res.ServedModel)
	assert.InDelta(t, 0.15, res.CostUSD, 1e-9)
	assert.NoError(t, res.LedgerErr)

	records := store.Records()
	require.Len(t, records, 1)
	assert.Equal(t, string(model.ModelGPT4oMini), records[0].Model)
	assert.InDelta(t, 0.15, records[0].CostUSD, 1e-9)
}

func TestRouteRetriesClientTimeout(t *testing.T) {
	var calls atomic.Int32
	rt, store := openAIRouter(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		select {
		case <-time.After(200 * time.Millisecond):
		case <-r.Context().Done():
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chatCompletion("gpt-4o-2024-08-06", 10))
	}, openai.WithTimeout(50*time.Millisecond))

	res, err := rt.Route(context.Background(), Request{Prompt: "x", TaskType: model.TaskDeepAnalysis})
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Equal(t, model.MaxAttempts, res.Attempts)
	assert.EqualValues(t, model.MaxAttempts, calls.Load())
	assert.ErrorIs(t, res.Err(), provider.ErrTimeout)
	assert.Equal(t, 1, store.Len())
}

func TestRouteStopsWhenCallerDeadlinePasses(t *testing.T) {
	var calls atomic.Int32
	rt, _ := openAIRouter(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	res, err := rt.Route(ctx, Request{Prompt: "x", TaskType: model.TaskDeepAnalysis})
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Equal(t, 1, res.Attempts)
	assert.EqualValues(t, 1, calls.Load())
	assert.ErrorIs(t, res.Err(), context.DeadlineExceeded)
}

type brokenStore struct{ err error }

func (s brokenStore) Append(context.Context, usage.Record) error { return s.err }

func (s brokenStore) Summarize(_ context.Context, month usage.Month) (usage.Summary, error) {
	return usage.NewSummary(month), s.err
}

func TestRouteReportsLedgerFailure(t *testing.T) {
	errDisk := errors.New("disk full")
	reg := provider.NewRegistry()
	require.NoError(t, reg.Add(newFake(model.ProviderGemini, text("Score: 70", 100, 5))))
	rt := New(reg, usage.NewLedger(brokenStore{err: errDisk}))

	res, err := rt.Route(context.Background(), Request{Prompt: "x", TaskType: model.TaskLeadScoring})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "Score: 70", res.Content)
	assert.ErrorIs(t, res.LedgerErr, errDisk)
	assert.Zero(t, res.CostUSD)
}
