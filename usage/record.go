package usage

import (
	"fmt"
	"time"

	"github.com/randalmurphal/llmrouter/model"
)

// Record is one ledger entry: a single routed request that reached a
// provider, successful or not. Tokens are summed across its attempts.
type Record struct {
	ID           string         `json:"id"`
	Timestamp    time.Time      `json:"timestamp"`
	Provider     model.Provider `json:"provider"`
	Tier         model.Tier     `json:"tier"`
	Model        string         `json:"model"`
	Task         model.TaskType `json:"task"`
	InputTokens  int            `json:"input_tokens"`
	OutputTokens int            `json:"output_tokens"`
	CostUSD      float64        `json:"cost_usd"`
	Attempts     int            `json:"attempts"`
	Success      bool           `json:"success"`

	// Estimated is set when the provider omitted usage and the token
	// counts were estimated from text length.
	Estimated bool `json:"estimated,omitempty"`
}

// TotalTokens returns input plus output tokens.
func (r Record) TotalTokens() int {
	return r.InputTokens + r.OutputTokens
}

// Month is a calendar month in UTC.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the UTC calendar month containing t.
func MonthOf(t time.Time) Month {
	t = t.UTC()
	return Month{Year: t.Year(), Month: t.Month()}
}

// Start returns the first instant of the month.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the first instant of the following month.
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, 0)
}

// Contains reports whether t falls within the month.
func (m Month) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(m.Start()) && t.Before(m.End())
}

// Days returns the number of days in the month.
func (m Month) Days() int {
	return int(m.End().Sub(m.Start()).Hours() / 24)
}

// String formats the month as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}
