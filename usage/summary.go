package usage

import "github.com/randalmurphal/llmrouter/model"

// Totals aggregates a group of records.
type Totals struct {
	Calls        int     `json:"calls"`
	Failures     int     `json:"failures"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
}

// TotalTokens returns input plus output tokens.
func (t Totals) TotalTokens() int {
	return t.InputTokens + t.OutputTokens
}

// Add folds a record into the totals.
func (t *Totals) Add(r Record) {
	t.Calls++
	if !r.Success {
		t.Failures++
	}
	t.InputTokens += r.InputTokens
	t.OutputTokens += r.OutputTokens
	t.CostUSD += r.CostUSD
}

// Merge folds other into the totals.
func (t *Totals) Merge(other Totals) {
	t.Calls += other.Calls
	t.Failures += other.Failures
	t.InputTokens += other.InputTokens
	t.OutputTokens += other.OutputTokens
	t.CostUSD += other.CostUSD
}

// Summary is the usage of one month, in total and per provider.
// The per-provider entries always sum to the totals.
type Summary struct {
	Month      Month                    `json:"month"`
	Totals     Totals                   `json:"totals"`
	ByProvider map[model.Provider]Totals `json:"by_provider"`
}

// NewSummary creates an empty summary for a month.
func NewSummary(month Month) Summary {
	return Summary{
		Month:      month,
		ByProvider: make(map[model.Provider]Totals),
	}
}

// AddGroup adds one provider's totals, updating the overall totals too.
func (s *Summary) AddGroup(p model.Provider, t Totals) {
	group := s.ByProvider[p]
	group.Merge(t)
	s.ByProvider[p] = group
	s.Totals.Merge(t)
}

// Aggregate summarizes the records that fall within month.
func Aggregate(month Month, records []Record) Summary {
	s := NewSummary(month)
	for _, r := range records {
		if !month.Contains(r.Timestamp) {
			continue
		}
		var t Totals
		t.Add(r)
		s.AddGroup(r.Provider, t)
	}
	return s
}
