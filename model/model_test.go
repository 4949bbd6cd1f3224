package model

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"
)

func TestTierForTask(t *testing.T) {
	tests := []struct {
		task TaskType
		want Tier
	}{
		{TaskLeadScoring, TierSimple},
		{TaskEmailDraft, TierSimple},
		{TaskChatAssistant, TierStandard},
		{TaskQuoteEdit, TierStandard},
		{TaskDeepAnalysis, TierAdvanced},
		{TaskType("birthday-card"), DefaultTier},
		{TaskType(""), DefaultTier},
	}

	for _, tt := range tests {
		t.Run(string(tt.task), func(t *testing.T) {
			if got := TierForTask(tt.task); got != tt.want {
				t.Errorf("TierForTask(%q) = %s, want %s", tt.task, got, tt.want)
			}
		})
	}
}

func TestParseTier(t *testing.T) {
	tests := []struct {
		in      string
		want    Tier
		wantErr bool
	}{
		{"simple", TierSimple, false},
		{" Advanced ", TierAdvanced, false},
		{"", "", false},
		{"premium", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTier(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTier(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTier(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseProvider(t *testing.T) {
	if p, err := ParseProvider("DeepSeek"); err != nil || p != ProviderDeepSeek {
		t.Errorf("ParseProvider(DeepSeek) = %q, %v", p, err)
	}
	if _, err := ParseProvider("anthropic"); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestResolverResolve(t *testing.T) {
	configured := func(p Provider) bool { return p != ProviderOpenAI }

	tests := []struct {
		name             string
		task             TaskType
		overrideTier     Tier
		overrideProvider Provider
		want             Resolution
		wantErr          error
	}{
		{
			name: "task default",
			task: TaskLeadScoring,
			want: Resolution{Task: TaskLeadScoring, Tier: TierSimple, Provider: ProviderGemini, Model: ModelGeminiFlash},
		},
		{
			name: "unknown task falls back to default tier",
			task: TaskType("newsletter"),
			want: Resolution{Task: "newsletter", Tier: TierStandard, Provider: ProviderDeepSeek, Model: ModelDeepSeekChat},
		},
		{
			name:         "override tier wins over task default",
			task:         TaskDeepAnalysis,
			overrideTier: TierSimple,
			want:         Resolution{Task: TaskDeepAnalysis, Tier: TierSimple, Provider: ProviderGemini, Model: ModelGeminiFlash},
		},
		{
			name:             "override provider keeps tier",
			task:             TaskChatAssistant,
			overrideProvider: ProviderGemini,
			want:             Resolution{Task: TaskChatAssistant, Tier: TierStandard, Provider: ProviderGemini, Model: ModelGeminiFlash},
		},
		{
			name:             "override provider not configured",
			task:             TaskChatAssistant,
			overrideProvider: ProviderOpenAI,
			wantErr:          ErrProviderNotConfigured,
		},
		{
			name:    "tier default provider not configured",
			task:    TaskDeepAnalysis,
			wantErr: ErrProviderNotConfigured,
		},
		{
			name:         "invalid override tier",
			task:         TaskChatAssistant,
			overrideTier: Tier("premium"),
			wantErr:      ErrInvalidTier,
		},
		{
			name:             "invalid override provider",
			task:             TaskChatAssistant,
			overrideProvider: Provider("anthropic"),
			wantErr:          ErrInvalidProvider,
		},
	}

	r := NewResolver(configured)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.task, tt.overrideTier, tt.overrideProvider)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolverOptions(t *testing.T) {
	r := NewResolver(nil,
		WithTaskTier(TaskLeadScoring, TierAdvanced),
		WithTierProvider(TierAdvanced, ProviderDeepSeek),
		WithModel(ProviderDeepSeek, TierAdvanced, "deepseek-v4"),
	)

	got, err := r.Resolve(TaskLeadScoring, "", "")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	want := Resolution{Task: TaskLeadScoring, Tier: TierAdvanced, Provider: ProviderDeepSeek, Model: "deepseek-v4"}
	if got != want {
		t.Errorf("Resolve() = %+v, want %+v", got, want)
	}

	// Options must not leak into the package defaults.
	if DefaultTaskTiers[TaskLeadScoring] != TierSimple {
		t.Error("WithTaskTier modified DefaultTaskTiers")
	}
	if DefaultModels[ProviderDeepSeek][TierAdvanced] != ModelDeepSeekReasoner {
		t.Error("WithModel modified DefaultModels")
	}
}

func TestPriceTable(t *testing.T) {
	prices := NewPriceTable()

	t.Run("model rate", func(t *testing.T) {
		got := prices.Cost(ProviderOpenAI, ModelGPT4o, 1_000_000, 1_000_000)
		if got != 12.5 {
			t.Errorf("Cost() = %f, want 12.5", got)
		}
	})

	t.Run("provider fallback", func(t *testing.T) {
		got := prices.Cost(ProviderDeepSeek, "deepseek-v9", 1_000_000, 0)
		if got != 0.27 {
			t.Errorf("Cost() = %f, want 0.27", got)
		}
	})

	t.Run("unknown costs zero", func(t *testing.T) {
		if got := prices.Cost("mistral", "mistral-large", 5000, 5000); got != 0 {
			t.Errorf("Cost() = %f, want 0", got)
		}
		if _, ok := prices.Lookup("mistral", "mistral-large"); ok {
			t.Error("Lookup() ok = true for unknown pair")
		}
	})

	t.Run("override", func(t *testing.T) {
		table := NewPriceTable().SetModel(ModelGeminiFlash, Pricing{InputPerMillion: 1, OutputPerMillion: 2})
		got := table.Cost(ProviderGemini, ModelGeminiFlash, 500_000, 500_000)
		if math.Abs(got-1.5) > 1e-9 {
			t.Errorf("Cost() = %f, want 1.5", got)
		}
		if ModelPrices[ModelGeminiFlash].InputPerMillion != 0.10 {
			t.Error("SetModel modified ModelPrices")
		}
	})
}

func TestRetryPolicyAttempts(t *testing.T) {
	tests := []struct {
		max  int
		want int
	}{
		{0, MaxAttempts},
		{-1, MaxAttempts},
		{3, 3},
		{5, 5},
		{12, MaxAttempts},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.max), func(t *testing.T) {
			p := RetryPolicy{MaxAttempts: tt.max}
			if got := p.Attempts(); got != tt.want {
				t.Errorf("Attempts() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRetryPolicyDecide(t *testing.T) {
	errTransient := errors.New("connection reset")
	errFatal := errors.New("bad request")
	p := RetryPolicy{
		MaxAttempts: 5,
		Retryable:   func(err error) bool { return !errors.Is(err, errFatal) },
	}

	tests := []struct {
		name    string
		attempt int
		err     error
		want    bool
	}{
		{"success stops", 1, nil, false},
		{"transient retries", 1, errTransient, true},
		{"fourth failure retries", 4, errTransient, true},
		{"fifth failure stops", 5, errTransient, false},
		{"non retryable stops", 1, errFatal, false},
		{"cancellation stops", 1, context.Canceled, false},
		{"client timeout retries", 2, fmt.Errorf("Post: %w (Client.Timeout exceeded)", context.DeadlineExceeded), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Decide(tt.attempt, tt.err); got.Retry != tt.want {
				t.Errorf("Decide(%d, %v).Retry = %v, want %v", tt.attempt, tt.err, got.Retry, tt.want)
			}
		})
	}
}

func TestRetryPolicyNeverExceedsCap(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 50}
	err := errors.New("boom")

	attempts := 1
	for p.Decide(attempts, err).Retry {
		attempts++
	}
	if attempts != MaxAttempts {
		t.Errorf("loop ran %d attempts, want %d", attempts, MaxAttempts)
	}
}

func TestRetryPolicyBackoff(t *testing.T) {
	p := RetryPolicy{BaseDelay: 100 * time.Millisecond, MaxDelay: 350 * time.Millisecond}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 0},
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 350 * time.Millisecond},
		{4, 350 * time.Millisecond},
	}

	for _, tt := range tests {
		if got := p.Backoff(tt.attempt); got != tt.want {
			t.Errorf("Backoff(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}

	if d := (RetryPolicy{}).Decide(1, errors.New("x")); !d.Retry || d.Delay != 0 {
		t.Errorf("zero policy Decide = %+v, want immediate retry", d)
	}
}
