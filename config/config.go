// Package config loads router configuration from YAML or TOML files and
// the environment, and builds the router stack from it.
//
// Precedence, lowest first: Default, the config file, environment variables.
// API keys are normally supplied through the environment:
//
//	GEMINI_API_KEY, DEEPSEEK_API_KEY, OPENAI_API_KEY
//
// Other settings use the LLMROUTER_ prefix, for example
// LLMROUTER_MONTHLY_LIMIT_USD or LLMROUTER_RETRY_MAX_ATTEMPTS.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/randalmurphal/llmrouter/model"
	"github.com/randalmurphal/llmrouter/provider"
	"github.com/randalmurphal/llmrouter/usage"
)

// ErrInvalidConfig indicates a configuration value that cannot be used.
var ErrInvalidConfig = errors.New("invalid config")

// Ledger drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// ProviderSettings holds one provider's credentials and endpoint.
type ProviderSettings struct {
	// APIKey authenticates the provider. Empty marks it not configured.
	APIKey string `json:"-" yaml:"api_key" toml:"api_key" split_words:"true"`

	// BaseURL overrides the provider endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url" toml:"base_url" split_words:"true"`

	// Timeout bounds one HTTP call. 0 uses provider.DefaultTimeout.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout" toml:"timeout"`
}

// TierSettings overrides which provider and model serve a tier.
type TierSettings struct {
	Provider model.Provider  `json:"provider" yaml:"provider" toml:"provider"`
	Model    model.ModelName `json:"model,omitempty" yaml:"model" toml:"model"`
}

// RetrySettings configures the retry policy. MaxAttempts above
// model.MaxAttempts is clamped to it.
type RetrySettings struct {
	MaxAttempts int           `json:"max_attempts" yaml:"max_attempts" toml:"max_attempts" split_words:"true"`
	BaseDelay   time.Duration `json:"base_delay" yaml:"base_delay" toml:"base_delay" split_words:"true"`
	MaxDelay    time.Duration `json:"max_delay" yaml:"max_delay" toml:"max_delay" split_words:"true"`
}

// LedgerSettings selects where usage records are stored.
type LedgerSettings struct {
	// Driver is "memory" or "sqlite".
	Driver string `json:"driver" yaml:"driver" toml:"driver"`

	// DSN is the SQLite database path or URI. Required for sqlite.
	DSN string `json:"dsn,omitempty" yaml:"dsn" toml:"dsn"`
}

// RouterSettings holds router behavior that is not provider specific.
type RouterSettings struct {
	// FallbackMessage is what RouteSafe returns on failure.
	FallbackMessage string `json:"fallback_message,omitempty" yaml:"fallback_message" toml:"fallback_message" split_words:"true"`
}

// Config is the complete router configuration.
type Config struct {
	Gemini   ProviderSettings `json:"gemini" yaml:"gemini" toml:"gemini"`
	DeepSeek ProviderSettings `json:"deepseek" yaml:"deepseek" toml:"deepseek"`
	OpenAI   ProviderSettings `json:"openai" yaml:"openai" toml:"openai"`

	// Tiers overrides the default provider and model per tier.
	Tiers map[model.Tier]TierSettings `json:"tiers,omitempty" yaml:"tiers" toml:"tiers"`

	// Tasks overrides the default tier per task type.
	Tasks map[model.TaskType]model.Tier `json:"tasks,omitempty" yaml:"tasks" toml:"tasks"`

	// Prices overrides per-model rates.
	Prices map[model.ModelName]model.Pricing `json:"prices,omitempty" yaml:"prices" toml:"prices"`

	Retry  RetrySettings      `json:"retry" yaml:"retry" toml:"retry"`
	Budget usage.BudgetConfig `json:"budget" yaml:"budget" toml:"budget"`
	Ledger LedgerSettings     `json:"ledger" yaml:"ledger" toml:"ledger"`
	Router RouterSettings     `json:"router" yaml:"router" toml:"router"`
}

// Default returns the built-in configuration: no API keys, default tiers,
// the default retry policy, a $25 budget, and an in-memory ledger.
func Default() *Config {
	return &Config{
		Retry: RetrySettings{
			MaxAttempts: model.DefaultRetryPolicy.MaxAttempts,
			BaseDelay:   model.DefaultRetryPolicy.BaseDelay,
			MaxDelay:    model.DefaultRetryPolicy.MaxDelay,
		},
		Budget: usage.DefaultBudget(),
		Ledger: LedgerSettings{Driver: DriverMemory},
	}
}

// Provider returns the settings for p. Unknown providers get nil.
func (c *Config) Provider(p model.Provider) *ProviderSettings {
	switch p {
	case model.ProviderGemini:
		return &c.Gemini
	case model.ProviderDeepSeek:
		return &c.DeepSeek
	case model.ProviderOpenAI:
		return &c.OpenAI
	default:
		return nil
	}
}

// Configured reports whether p has an API key. It implements
// model.ConfiguredFunc and never touches the network.
func (c *Config) Configured(p model.Provider) bool {
	s := c.Provider(p)
	return s != nil && strings.TrimSpace(s.APIKey) != ""
}

// ConfiguredProviders lists the providers with API keys.
func (c *Config) ConfiguredProviders() []model.Provider {
	var out []model.Provider
	for _, p := range model.Providers {
		if c.Configured(p) {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks the configuration. Missing API keys are not an error;
// those providers are simply not configured.
func (c *Config) Validate() error {
	var errs []error

	for _, p := range model.Providers {
		if s := c.Provider(p); s.Timeout < 0 {
			errs = append(errs, fmt.Errorf("%s.timeout must not be negative", p))
		}
	}
	for tier, ts := range c.Tiers {
		if !tier.Valid() {
			errs = append(errs, fmt.Errorf("tiers: unknown tier %q", tier))
		}
		if !ts.Provider.Valid() {
			errs = append(errs, fmt.Errorf("tiers.%s.provider: unknown provider %q", tier, ts.Provider))
		}
	}
	for task, tier := range c.Tasks {
		if !tier.Valid() {
			errs = append(errs, fmt.Errorf("tasks.%s: unknown tier %q", task, tier))
		}
	}
	for name, price := range c.Prices {
		if price.InputPerMillion < 0 || price.OutputPerMillion < 0 {
			errs = append(errs, fmt.Errorf("prices.%s: rates must not be negative", name))
		}
	}
	if c.Retry.MaxAttempts < 0 {
		errs = append(errs, errors.New("retry.max_attempts must not be negative"))
	}
	if c.Retry.BaseDelay < 0 || c.Retry.MaxDelay < 0 {
		errs = append(errs, errors.New("retry delays must not be negative"))
	}
	if err := c.Budget.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("budget: %w", err))
	}
	switch c.Ledger.Driver {
	case "", DriverMemory:
	case DriverSQLite:
		if strings.TrimSpace(c.Ledger.DSN) == "" {
			errs = append(errs, errors.New("ledger.dsn is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("ledger.driver: unknown driver %q", c.Ledger.Driver))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// ProviderConfigs returns one provider.Config per known provider, for
// provider.BuildRegistry. Providers without keys are included and skipped there.
func (c *Config) ProviderConfigs() []provider.Config {
	out := make([]provider.Config, 0, len(model.Providers))
	for _, p := range model.Providers {
		s := c.Provider(p)
		out = append(out, provider.Config{
			Provider: p,
			APIKey:   strings.TrimSpace(s.APIKey),
			BaseURL:  s.BaseURL,
			Timeout:  s.Timeout,
		})
	}
	return out
}

// ResolverOptions converts the tier and task overrides.
func (c *Config) ResolverOptions() []model.ResolverOption {
	var opts []model.ResolverOption
	for task, tier := range c.Tasks {
		opts = append(opts, model.WithTaskTier(task, tier))
	}
	for tier, ts := range c.Tiers {
		opts = append(opts, model.WithTierProvider(tier, ts.Provider))
		if ts.Model != "" {
			opts = append(opts, model.WithModel(ts.Provider, tier, ts.Model))
		}
	}
	return opts
}

// Resolver builds a resolver over configured. A nil configured uses c.Configured.
func (c *Config) Resolver(configured model.ConfiguredFunc) *model.Resolver {
	if configured == nil {
		configured = c.Configured
	}
	return model.NewResolver(configured, c.ResolverOptions()...)
}

// RetryPolicy returns the configured policy.
func (c *Config) RetryPolicy() model.RetryPolicy {
	return model.RetryPolicy{
		MaxAttempts: c.Retry.MaxAttempts,
		BaseDelay:   c.Retry.BaseDelay,
		MaxDelay:    c.Retry.MaxDelay,
	}
}

// PriceTable returns the default prices with the configured overrides applied.
func (c *Config) PriceTable() *model.PriceTable {
	t := model.NewPriceTable()
	for name, price := range c.Prices {
		t.SetModel(name, price)
	}
	return t
}
