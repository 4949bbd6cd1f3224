package usage

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidBudget indicates a budget configuration that cannot be applied.
var ErrInvalidBudget = errors.New("invalid budget")

// Budget defaults.
const (
	DefaultMonthlyLimitUSD = 25.0
	DefaultWarningPercent  = 80.0
	DefaultCriticalPercent = 95.0
)

// BudgetConfig is the user-editable monthly spend limit.
// Percents are whole-number percentages of the limit (80 means 80%).
type BudgetConfig struct {
	MonthlyLimitUSD float64 `json:"monthly_limit_usd" yaml:"monthly_limit_usd" toml:"monthly_limit_usd" envconfig:"MONTHLY_LIMIT_USD"`
	WarningPercent  float64 `json:"warning_percent" yaml:"warning_percent" toml:"warning_percent" envconfig:"WARNING_PERCENT"`
	CriticalPercent float64 `json:"critical_percent" yaml:"critical_percent" toml:"critical_percent" envconfig:"CRITICAL_PERCENT"`
}

// DefaultBudget returns $25/month with warning at 80% and critical at 95%.
func DefaultBudget() BudgetConfig {
	return BudgetConfig{
		MonthlyLimitUSD: DefaultMonthlyLimitUSD,
		WarningPercent:  DefaultWarningPercent,
		CriticalPercent: DefaultCriticalPercent,
	}
}

// Validate checks the limit and thresholds.
// A zero limit is valid and disables the gate.
func (b BudgetConfig) Validate() error {
	if b.MonthlyLimitUSD < 0 || math.IsNaN(b.MonthlyLimitUSD) || math.IsInf(b.MonthlyLimitUSD, 0) {
		return fmt.Errorf("%w: monthly limit must be a finite value >= 0, got %v", ErrInvalidBudget, b.MonthlyLimitUSD)
	}
	if b.WarningPercent <= 0 {
		return fmt.Errorf("%w: warning percent must be > 0, got %v", ErrInvalidBudget, b.WarningPercent)
	}
	if b.WarningPercent >= b.CriticalPercent {
		return fmt.Errorf("%w: warning percent (%v) must be below critical percent (%v)",
			ErrInvalidBudget, b.WarningPercent, b.CriticalPercent)
	}
	if b.CriticalPercent > 100 {
		return fmt.Errorf("%w: critical percent must be <= 100, got %v", ErrInvalidBudget, b.CriticalPercent)
	}
	return nil
}

// Enabled reports whether the budget gates anything.
func (b BudgetConfig) Enabled() bool {
	return b.MonthlyLimitUSD > 0
}

// WarningUSD returns the spend at which the warning band starts.
func (b BudgetConfig) WarningUSD() float64 {
	return b.MonthlyLimitUSD * b.WarningPercent / 100
}

// CriticalUSD returns the spend at which the critical band starts.
func (b BudgetConfig) CriticalUSD() float64 {
	return b.MonthlyLimitUSD * b.CriticalPercent / 100
}

// Level is a budget band.
type Level string

// Budget bands, in increasing severity.
const (
	LevelOK       Level = "ok"
	LevelWarning  Level = "warning"
	LevelCritical Level = "critical"
	LevelExceeded Level = "exceeded"
)

// Severity orders levels: ok 0 through exceeded 3.
func (l Level) Severity() int {
	switch l {
	case LevelWarning:
		return 1
	case LevelCritical:
		return 2
	case LevelExceeded:
		return 3
	default:
		return 0
	}
}

// Classify places a month's spend in a band. Lower edges are inclusive.
func (b BudgetConfig) Classify(spendUSD float64) Level {
	if !b.Enabled() {
		return LevelOK
	}
	switch {
	case spendUSD >= b.MonthlyLimitUSD:
		return LevelExceeded
	case spendUSD >= b.CriticalUSD():
		return LevelCritical
	case spendUSD >= b.WarningUSD():
		return LevelWarning
	default:
		return LevelOK
	}
}

// BudgetStatus is the month's spend measured against the budget.
type BudgetStatus struct {
	Level        Level        `json:"level"`
	Month        Month        `json:"month"`
	Budget       BudgetConfig `json:"budget"`
	SpendUSD     float64      `json:"spend_usd"`
	RemainingUSD float64      `json:"remaining_usd"`
	PercentUsed  float64      `json:"percent_used"`

	// ElapsedDays is the time since the month started, never below 1.
	ElapsedDays float64 `json:"elapsed_days"`

	// DaysRemaining projects how long the remaining budget lasts at the
	// average daily spend so far. Nil when nothing has been spent or the
	// budget is disabled; 0 once the budget is exceeded.
	DaysRemaining *float64 `json:"days_remaining,omitempty"`

	// ProjectedSpendUSD extrapolates the average daily spend to month end.
	ProjectedSpendUSD float64 `json:"projected_spend_usd"`
}

// ComputeStatus classifies spend for the month containing now.
func ComputeStatus(b BudgetConfig, spendUSD float64, now time.Time) BudgetStatus {
	month := MonthOf(now)
	elapsed := math.Max(now.UTC().Sub(month.Start()).Hours()/24, 1)
	daily := spendUSD / elapsed

	st := BudgetStatus{
		Level:             b.Classify(spendUSD),
		Month:             month,
		Budget:            b,
		SpendUSD:          spendUSD,
		ElapsedDays:       elapsed,
		ProjectedSpendUSD: daily * float64(month.Days()),
	}
	if !b.Enabled() {
		return st
	}

	st.RemainingUSD = math.Max(b.MonthlyLimitUSD-spendUSD, 0)
	st.PercentUsed = spendUSD / b.MonthlyLimitUSD * 100

	switch {
	case st.Level == LevelExceeded:
		zero := 0.0
		st.DaysRemaining = &zero
	case spendUSD > 0:
		days := st.RemainingUSD / daily
		st.DaysRemaining = &days
	}
	return st
}
