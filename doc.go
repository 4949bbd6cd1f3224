// Package llmrouter routes the CRM's LLM calls across Gemini, DeepSeek,
// and OpenAI, and keeps the monthly spend in view.
//
// The subpackages are layered; most callers only need config and router:
//
//   - model: tiers, providers, task types, the resolver, prices, retry policy
//   - provider: the Client interface, errors, factory table, and Registry
//   - gemini, openai, deepseek: vendor clients (providers registers all three)
//   - router: Route, RouteSafe, and RouteJSON with bounded retries
//   - usage: the append-only ledger, monthly summaries, and budget status
//   - usage/gormstore: SQLite persistence for the ledger through GORM
//   - prompt: per-task system prompts and {{variable}} rendering
//   - tokens: token estimates, context windows, and trimming
//   - parser: JSON, YAML, and list extraction from replies
//   - config: YAML/TOML/env loading, hot reload, and stack construction
//
// # Quick Start
//
//	cfg, err := config.Load("llmrouter.yaml")
//	if err != nil {
//	    return err
//	}
//	stack, err := cfg.Build(config.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	defer stack.Close()
//
//	reply := stack.Router.RouteSafe(ctx, router.Request{
//	    Prompt:   "Draft a follow-up for Ana about the spring campaign",
//	    TaskType: model.TaskEmailDraft,
//	})
//
//	status, _ := stack.Ledger.BudgetStatus(ctx)
//	if status.Level == usage.LevelCritical {
//	    // warn the agency owner
//	}
package llmrouter
