package usage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/randalmurphal/llmrouter/model"
)

// Ledger prices, stamps, and stores usage records, and holds the budget.
// Construct one per process and share it; it is safe for concurrent use.
type Ledger struct {
	store  Store
	prices *model.PriceTable
	now    func() time.Time
	logger *zap.Logger

	mu        sync.RWMutex
	budget    BudgetConfig
	lastLevel Level
}

// LedgerOption configures a Ledger.
type LedgerOption func(*Ledger)

// WithPrices sets the price table.
func WithPrices(prices *model.PriceTable) LedgerOption {
	return func(l *Ledger) {
		if prices != nil {
			l.prices = prices
		}
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) LedgerOption {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) LedgerOption {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithBudget sets the initial budget. Invalid budgets are ignored in favor
// of DefaultBudget; use SetBudget to get the validation error.
func WithBudget(b BudgetConfig) LedgerOption {
	return func(l *Ledger) {
		if b.Validate() == nil {
			l.budget = b
		}
	}
}

// NewLedger creates a ledger over store.
func NewLedger(store Store, opts ...LedgerOption) *Ledger {
	l := &Ledger{
		store:     store,
		prices:    model.NewPriceTable(),
		now:       time.Now,
		logger:    zap.NewNop(),
		budget:    DefaultBudget(),
		lastLevel: LevelOK,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Record prices r, assigns its ID and timestamp when missing, and appends it.
// It returns the stored record.
func (l *Ledger) Record(ctx context.Context, r Record) (Record, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = l.now()
	}
	r.CostUSD = l.prices.Cost(r.Provider, model.ModelName(r.Model), r.InputTokens, r.OutputTokens)

	if err := l.store.Append(ctx, r); err != nil {
		l.logger.Error("ledger append failed",
			zap.String("provider", string(r.Provider)),
			zap.String("task", string(r.Task)),
			zap.Error(err))
		return r, fmt.Errorf("append usage record: %w", err)
	}

	l.logger.Debug("usage recorded",
		zap.String("provider", string(r.Provider)),
		zap.String("tier", string(r.Tier)),
		zap.String("model", r.Model),
		zap.Int("input_tokens", r.InputTokens),
		zap.Int("output_tokens", r.OutputTokens),
		zap.Float64("cost_usd", r.CostUSD),
		zap.Int("attempts", r.Attempts),
		zap.Bool("success", r.Success))

	if r.CostUSD > 0 {
		if _, err := l.BudgetStatus(ctx); err != nil {
			l.logger.Warn("budget check failed", zap.Error(err))
		}
	}
	return r, nil
}

// UsageSummary aggregates the current calendar month.
func (l *Ledger) UsageSummary(ctx context.Context) (Summary, error) {
	return l.Summary(ctx, MonthOf(l.now()))
}

// Summary aggregates the given month.
func (l *Ledger) Summary(ctx context.Context, month Month) (Summary, error) {
	s, err := l.store.Summarize(ctx, month)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize %s: %w", month, err)
	}
	return s, nil
}

// BudgetStatus classifies the current month's spend against the budget.
// A move into a more severe band is logged once.
func (l *Ledger) BudgetStatus(ctx context.Context) (BudgetStatus, error) {
	now := l.now()
	s, err := l.Summary(ctx, MonthOf(now))
	if err != nil {
		return BudgetStatus{}, err
	}

	st := ComputeStatus(l.Budget(), s.Totals.CostUSD, now)
	l.noteLevel(st)
	return st, nil
}

// SetBudget replaces the budget after validating it.
func (l *Ledger) SetBudget(b BudgetConfig) error {
	if err := b.Validate(); err != nil {
		return err
	}
	l.mu.Lock()
	l.budget = b
	l.mu.Unlock()

	l.logger.Info("budget updated",
		zap.Float64("monthly_limit_usd", b.MonthlyLimitUSD),
		zap.Float64("warning_percent", b.WarningPercent),
		zap.Float64("critical_percent", b.CriticalPercent))
	return nil
}

// Budget returns the current budget.
func (l *Ledger) Budget() BudgetConfig {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.budget
}

func (l *Ledger) noteLevel(st BudgetStatus) {
	l.mu.Lock()
	prev := l.lastLevel
	l.lastLevel = st.Level
	l.mu.Unlock()

	if st.Level.Severity() <= prev.Severity() {
		return
	}
	l.logger.Warn("budget level changed",
		zap.String("from", string(prev)),
		zap.String("to", string(st.Level)),
		zap.String("month", st.Month.String()),
		zap.Float64("spend_usd", st.SpendUSD),
		zap.Float64("limit_usd", st.Budget.MonthlyLimitUSD),
		zap.Float64("percent_used", st.PercentUsed))
}
