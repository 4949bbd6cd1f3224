package gormstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/llmrouter/model"
	"github.com/randalmurphal/llmrouter/usage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	// Named in-memory database per test so parallel runs stay isolated.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	store, err := Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreSummarize(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 6, 15, 9, 30, 0, 0, time.UTC)

	records := []usage.Record{
		{ID: "a", Timestamp: now, Provider: model.ProviderGemini, Tier: model.TierSimple, InputTokens: 100, OutputTokens: 10, CostUSD: 0.5, Attempts: 1, Success: true},
		{ID: "b", Timestamp: now.Add(time.Hour), Provider: model.ProviderGemini, Tier: model.TierSimple, InputTokens: 50, CostUSD: 0.25, Attempts: 5, Success: false},
		{ID: "c", Timestamp: now.Add(2 * time.Hour), Provider: model.ProviderOpenAI, Tier: model.TierAdvanced, InputTokens: 10, OutputTokens: 90, CostUSD: 2, Attempts: 1, Success: true},
		{ID: "d", Timestamp: now.AddDate(0, 1, 0), Provider: model.ProviderOpenAI, CostUSD: 100, Attempts: 1, Success: true},
	}
	for _, r := range records {
		require.NoError(t, store.Append(ctx, r))
	}

	s, err := store.Summarize(ctx, usage.MonthOf(now))
	require.NoError(t, err)

	assert.Equal(t, 3, s.Totals.Calls)
	assert.Equal(t, 1, s.Totals.Failures)
	assert.Equal(t, 160, s.Totals.InputTokens)
	assert.Equal(t, 100, s.Totals.OutputTokens)
	assert.InDelta(t, 2.75, s.Totals.CostUSD, 1e-9)

	gemini := s.ByProvider[model.ProviderGemini]
	assert.Equal(t, 2, gemini.Calls)
	assert.Equal(t, 1, gemini.Failures)
	assert.InDelta(t, 0.75, gemini.CostUSD, 1e-9)

	// Same totals as the in-memory aggregation.
	assert.Equal(t, usage.Aggregate(usage.MonthOf(now), records).Totals.Calls, s.Totals.Calls)
}

func TestStoreEmptyMonth(t *testing.T) {
	store := openTestStore(t)

	s, err := store.Summarize(context.Background(), usage.MonthOf(time.Now()))
	require.NoError(t, err)
	assert.Zero(t, s.Totals.Calls)
	assert.Empty(t, s.ByProvider)
}

func TestStoreRecords(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 6, 15, 9, 30, 0, 0, time.UTC)

	in := usage.Record{
		ID: "x", Timestamp: now, Provider: model.ProviderDeepSeek, Tier: model.TierStandard,
		Model: "deepseek-chat", Task: model.TaskChatAssistant, InputTokens: 7, OutputTokens: 3,
		CostUSD: 0.01, Attempts: 2, Success: true, Estimated: true,
	}
	require.NoError(t, store.Append(ctx, in))

	out, err := store.Records(ctx, usage.MonthOf(now))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, in, out[0])

	assert.Error(t, store.Append(ctx, in), "duplicate id must be rejected")
}

func TestStoreWithLedger(t *testing.T) {
	store := openTestStore(t)
	now := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	ledger := usage.NewLedger(store, usage.WithClock(func() time.Time { return now }))
	ctx := context.Background()

	_, err := ledger.Record(ctx, usage.Record{
		Provider: model.ProviderOpenAI, Tier: model.TierAdvanced, Model: string(model.ModelGPT4o),
		InputTokens: 2_000_000, OutputTokens: 2_000_000, Attempts: 1, Success: true,
	})
	require.NoError(t, err)

	st, err := ledger.BudgetStatus(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 25, st.SpendUSD, 1e-9)
	assert.Equal(t, usage.LevelExceeded, st.Level)
}
