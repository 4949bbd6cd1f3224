// Package router sends CRM requests to the right LLM and accounts for them.
//
// A Router resolves a task type (plus optional tier and provider overrides)
// to a provider and model, renders the task's system prompt, calls the
// provider with bounded retries, and writes one usage record per request:
//
//	reg, err := provider.BuildRegistry(cfg.ProviderConfigs())
//	if err != nil {
//	    return err
//	}
//	ledger := usage.NewLedger(usage.NewMemoryStore(), usage.WithBudget(cfg.Budget))
//	rt := router.New(reg, ledger, router.WithLogger(logger))
//
//	res, err := rt.Route(ctx, router.Request{
//	    Prompt:   "Summarize this lead: ...",
//	    TaskType: model.TaskLeadSummary,
//	})
//	if err != nil {
//	    // configuration problem; nothing was sent
//	}
//	if !res.Success {
//	    // every attempt failed; res.Error has the last error
//	}
//
// Calls never switch providers mid-request. At most model.MaxAttempts calls
// are made per request. RouteSafe returns a fixed fallback message instead of
// a failed result, for paths that must always show the user something.
package router
