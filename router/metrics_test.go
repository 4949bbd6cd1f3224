package router

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/llmrouter/model"
	"github.com/randalmurphal/llmrouter/provider"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	gemini := newFake(model.ProviderGemini, failure(model.ProviderGemini), text("ok", 1_000_000, 0))
	h := newHarness(t, []provider.Client{gemini}, WithMetrics(m))

	res, err := h.router.Route(context.Background(), Request{Prompt: "x", TaskType: model.TaskLeadScoring})
	require.NoError(t, err)
	require.True(t, res.Success)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("gemini", "simple", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.attempts.WithLabelValues("gemini", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.attempts.WithLabelValues("gemini", "success")))
	assert.Equal(t, 1_000_000.0, testutil.ToFloat64(m.tokens.WithLabelValues("gemini", "input")))
	assert.InDelta(t, 0.10, testutil.ToFloat64(m.cost.WithLabelValues("gemini")), 1e-9)

	n, err := testutil.GatherAndCount(reg, "llmrouter_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.attempt(model.ProviderGemini, true)
		m.observe(&Result{Provider: model.ProviderGemini})
	})
}

func TestNewMetricsNilRegisterer(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics(nil)
		NewMetrics(nil)
	})
}
