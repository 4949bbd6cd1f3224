package router

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/randalmurphal/llmrouter/model"
)

// Metrics holds the router's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	attempts *prometheus.CounterVec
	tokens   *prometheus.CounterVec
	cost     *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg creates unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "llmrouter",
				Name:      "requests_total",
				Help:      "Routed requests that reached a provider, by outcome.",
			},
			[]string{"provider", "tier", "outcome"},
		),
		attempts: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "llmrouter",
				Name:      "attempts_total",
				Help:      "Provider calls made, including retries.",
			},
			[]string{"provider", "outcome"},
		),
		tokens: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "llmrouter",
				Name:      "tokens_total",
				Help:      "Tokens consumed, by direction (input, output).",
			},
			[]string{"provider", "direction"},
		),
		cost: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "llmrouter",
				Name:      "cost_usd_total",
				Help:      "Spend in USD.",
			},
			[]string{"provider"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "llmrouter",
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds, retries included.",
				Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"provider"},
		),
	}
}

func (m *Metrics) attempt(p model.Provider, ok bool) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(string(p), outcome(ok)).Inc()
}

func (m *Metrics) observe(r *Result) {
	if m == nil {
		return
	}
	p := string(r.Provider)
	m.requests.WithLabelValues(p, string(r.Tier), outcome(r.Success)).Inc()
	m.tokens.WithLabelValues(p, "input").Add(float64(r.Usage.InputTokens))
	m.tokens.WithLabelValues(p, "output").Add(float64(r.Usage.OutputTokens))
	m.cost.WithLabelValues(p).Add(r.CostUSD)
	m.duration.WithLabelValues(p).Observe(r.Duration.Seconds())
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
