// Package model resolves routing targets, prices calls, and decides retries.
//
// # Resolution
//
//	r := model.NewResolver(cfg.Configured)
//	res, err := r.Resolve(model.TaskDeepAnalysis, model.TierSimple, "")
//	// res.Tier == simple, res.Provider == gemini
//
// # Pricing
//
//	prices := model.NewPriceTable()
//	cost := prices.Cost(model.ProviderOpenAI, model.ModelGPT4o, 1200, 300)
//
// # Retries
//
// RetryPolicy is a pure function of (attempt, error). The caller owns the loop:
//
//	for attempt := 1; ; attempt++ {
//	    err := call()
//	    d := policy.Decide(attempt, err)
//	    if !d.Retry {
//	        break
//	    }
//	    time.Sleep(d.Delay)
//	}
package model
