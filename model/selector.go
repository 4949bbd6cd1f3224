package model

import (
	"errors"
	"fmt"
)

// Resolution errors.
var (
	// ErrProviderNotConfigured indicates the provider has no credentials.
	ErrProviderNotConfigured = errors.New("provider not configured")

	// ErrInvalidTier indicates an override tier that is not a known tier.
	ErrInvalidTier = errors.New("invalid tier")

	// ErrInvalidProvider indicates an override provider that is not known.
	ErrInvalidProvider = errors.New("invalid provider")
)

// ConfiguredFunc reports whether a provider has the credentials it needs.
// Implementations must be pure lookups; no network calls.
type ConfiguredFunc func(p Provider) bool

// AllConfigured treats every provider as configured.
func AllConfigured(Provider) bool { return true }

// Resolution is the concrete target of a routed request.
type Resolution struct {
	Task     TaskType  `json:"task"`
	Tier     Tier      `json:"tier"`
	Provider Provider  `json:"provider"`
	Model    ModelName `json:"model"`
}

// Resolver maps a task type plus optional overrides to a provider and model.
// A Resolver is immutable after construction and safe for concurrent use.
type Resolver struct {
	taskTiers     map[TaskType]Tier
	tierProviders map[Tier]Provider
	models        map[Provider]map[Tier]ModelName
	configured    ConfiguredFunc
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// NewResolver creates a resolver seeded with the default tables.
// A nil configured func treats every provider as configured.
func NewResolver(configured ConfiguredFunc, opts ...ResolverOption) *Resolver {
	if configured == nil {
		configured = AllConfigured
	}
	r := &Resolver{
		taskTiers:     make(map[TaskType]Tier, len(DefaultTaskTiers)),
		tierProviders: make(map[Tier]Provider, len(DefaultTierProviders)),
		models:        make(map[Provider]map[Tier]ModelName, len(DefaultModels)),
		configured:    configured,
	}
	for task, tier := range DefaultTaskTiers {
		r.taskTiers[task] = tier
	}
	for tier, p := range DefaultTierProviders {
		r.tierProviders[tier] = p
	}
	for p, byTier := range DefaultModels {
		m := make(map[Tier]ModelName, len(byTier))
		for tier, name := range byTier {
			m[tier] = name
		}
		r.models[p] = m
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithTaskTier sets the default tier for a task type.
func WithTaskTier(task TaskType, tier Tier) ResolverOption {
	return func(r *Resolver) {
		r.taskTiers[task] = tier
	}
}

// WithTierProvider sets the provider that serves a tier by default.
func WithTierProvider(tier Tier, p Provider) ResolverOption {
	return func(r *Resolver) {
		r.tierProviders[tier] = p
	}
}

// WithModel sets the model a provider uses for a tier.
func WithModel(p Provider, tier Tier, name ModelName) ResolverOption {
	return func(r *Resolver) {
		if r.models[p] == nil {
			r.models[p] = make(map[Tier]ModelName)
		}
		r.models[p][tier] = name
	}
}

// TierFor returns the default tier for a task. Unknown tasks get DefaultTier.
func (r *Resolver) TierFor(task TaskType) Tier {
	if tier, ok := r.taskTiers[task]; ok {
		return tier
	}
	return DefaultTier
}

// ModelFor returns the model a provider uses for a tier.
// Returns "" when the pair has no entry.
func (r *Resolver) ModelFor(p Provider, tier Tier) ModelName {
	return r.models[p][tier]
}

// Resolve picks the tier, provider, and model for a request.
// Priority: overrideTier > task default tier; overrideProvider > tier provider.
// The chosen provider must be configured, otherwise ErrProviderNotConfigured
// is returned and nothing should be sent.
func (r *Resolver) Resolve(task TaskType, overrideTier Tier, overrideProvider Provider) (Resolution, error) {
	tier := r.TierFor(task)
	if overrideTier != "" {
		if !overrideTier.Valid() {
			return Resolution{}, fmt.Errorf("%w: %q", ErrInvalidTier, overrideTier)
		}
		tier = overrideTier
	}

	p := r.tierProviders[tier]
	if overrideProvider != "" {
		if !overrideProvider.Valid() {
			return Resolution{}, fmt.Errorf("%w: %q", ErrInvalidProvider, overrideProvider)
		}
		p = overrideProvider
	}

	if !r.configured(p) {
		return Resolution{}, fmt.Errorf("%w: %s", ErrProviderNotConfigured, p)
	}

	return Resolution{
		Task:     task,
		Tier:     tier,
		Provider: p,
		Model:    r.ModelFor(p, tier),
	}, nil
}
