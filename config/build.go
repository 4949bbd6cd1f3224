package config

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/randalmurphal/llmrouter/model"
	"github.com/randalmurphal/llmrouter/provider"
	_ "github.com/randalmurphal/llmrouter/providers" // register gemini, deepseek, openai
	"github.com/randalmurphal/llmrouter/router"
	"github.com/randalmurphal/llmrouter/usage"
	"github.com/randalmurphal/llmrouter/usage/gormstore"
)

// Stack is a router with everything it owns, built from a Config.
type Stack struct {
	Router   *router.Router
	Ledger   *usage.Ledger
	Registry *provider.Registry
	Store    usage.Store

	closeStore func() error
}

// BuildOption configures Build.
type BuildOption func(*buildOptions)

type buildOptions struct {
	logger     *zap.Logger
	registerer prometheus.Registerer
	router     []router.Option
}

// WithLogger sets the logger shared by the router, ledger, and clients.
func WithLogger(logger *zap.Logger) BuildOption {
	return func(o *buildOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics registers router metrics with reg.
func WithMetrics(reg prometheus.Registerer) BuildOption {
	return func(o *buildOptions) {
		o.registerer = reg
	}
}

// WithRouterOptions appends options applied after the config-derived ones.
func WithRouterOptions(opts ...router.Option) BuildOption {
	return func(o *buildOptions) {
		o.router = append(o.router, opts...)
	}
}

// OpenStore opens the configured ledger store. The returned func closes it.
func (c *Config) OpenStore() (usage.Store, func() error, error) {
	switch c.Ledger.Driver {
	case "", DriverMemory:
		return usage.NewMemoryStore(), func() error { return nil }, nil
	case DriverSQLite:
		s, err := gormstore.Open(c.Ledger.DSN)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: ledger.driver: unknown driver %q", ErrInvalidConfig, c.Ledger.Driver)
	}
}

// Build validates c and constructs the provider registry, the ledger store,
// the ledger, and the router.
func (c *Config) Build(opts ...BuildOption) (*Stack, error) {
	o := buildOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	cfgs := c.ProviderConfigs()
	for i := range cfgs {
		cfgs[i] = cfgs[i].WithLogger(o.logger.Named(string(cfgs[i].Provider)))
	}
	reg, err := provider.BuildRegistry(cfgs)
	if err != nil {
		return nil, err
	}

	store, closeStore, err := c.OpenStore()
	if err != nil {
		_ = reg.Close()
		return nil, err
	}

	ledger := usage.NewLedger(store,
		usage.WithPrices(c.PriceTable()),
		usage.WithBudget(c.Budget),
		usage.WithLogger(o.logger.Named("ledger")))

	ropts := []router.Option{
		router.WithResolver(c.Resolver(reg.Has)),
		router.WithRetryPolicy(c.RetryPolicy()),
		router.WithFallback(c.Router.FallbackMessage),
		router.WithLogger(o.logger.Named("router")),
	}
	if o.registerer != nil {
		ropts = append(ropts, router.WithMetrics(router.NewMetrics(o.registerer)))
	}
	ropts = append(ropts, o.router...)

	o.logger.Info("llm router configured",
		zap.Strings("providers", providerNames(reg.Providers())),
		zap.String("ledger", c.Ledger.Driver),
		zap.Float64("monthly_limit_usd", c.Budget.MonthlyLimitUSD))

	return &Stack{
		Router:     router.New(reg, ledger, ropts...),
		Ledger:     ledger,
		Registry:   reg,
		Store:      store,
		closeStore: closeStore,
	}, nil
}

// Close releases the provider clients and the ledger store.
func (s *Stack) Close() error {
	var errs []error
	if err := s.Registry.Close(); err != nil {
		errs = append(errs, err)
	}
	if s.closeStore != nil {
		if err := s.closeStore(); err != nil {
			errs = append(errs, fmt.Errorf("close usage store: %w", err))
		}
	}
	return errors.Join(errs...)
}

func providerNames(ps []model.Provider) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = string(p)
	}
	return out
}
