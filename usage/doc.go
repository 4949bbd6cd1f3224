// Package usage records token and cost usage per routed request and gates
// spend against a monthly budget.
//
// A Ledger prices each request with a model.PriceTable, stamps it, and
// appends it to a Store. Stores are append-only; MemoryStore serves tests
// and single-process use, gormstore persists to SQL.
//
//	ledger := usage.NewLedger(usage.NewMemoryStore(),
//	    usage.WithBudget(usage.DefaultBudget()),
//	    usage.WithLogger(logger),
//	)
//
//	status, err := ledger.BudgetStatus(ctx)
//	if status.Level == usage.LevelExceeded {
//	    // stop sending non-essential calls
//	}
package usage
