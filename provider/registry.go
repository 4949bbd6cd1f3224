package provider

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/randalmurphal/llmrouter/model"
)

// Factory creates a new Client from the given configuration.
// Each provider registers its own factory function.
type Factory func(cfg Config) (Client, error)

// factories stores registered provider factories.
var (
	factoriesMu sync.RWMutex
	factories   = make(map[model.Provider]Factory)
)

// Register adds a provider factory.
// Providers should call this in their init() function.
// Panics if a provider with the same name is already registered.
//
// Example:
//
//	func init() {
//	    provider.Register(model.ProviderGemini, func(cfg provider.Config) (provider.Client, error) {
//	        return New(cfg)
//	    })
//	}
func Register(name model.Provider, factory Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()

	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("provider %q already registered", name))
	}
	factories[name] = factory
}

// New creates a new Client using the named provider's factory.
// Returns ErrUnknownProvider if no factory is registered.
func New(name model.Provider, cfg Config) (Client, error) {
	factoriesMu.RLock()
	factory, ok := factories[name]
	factoriesMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	if cfg.Provider == "" {
		cfg.Provider = name
	}
	return factory(cfg)
}

// Available returns the names of all registered factories, sorted.
func Available() []model.Provider {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()

	names := make([]model.Provider, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// IsRegistered checks if a factory is registered.
func IsRegistered(name model.Provider) bool {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	_, ok := factories[name]
	return ok
}

// Unregister removes a factory.
// This is primarily useful for testing.
func Unregister(name model.Provider) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	delete(factories, name)
}

// ClearRegistry removes every factory.
// This is primarily useful for testing.
func ClearRegistry() {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories = make(map[model.Provider]Factory)
}

// Registry maps each configured provider to its live client.
// Built once at startup and passed to the router.
type Registry struct {
	mu      sync.RWMutex
	clients map[model.Provider]Client
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[model.Provider]Client),
	}
}

// BuildRegistry creates a client for every config that carries credentials.
// Unconfigured providers are skipped, so Has reports them as absent.
func BuildRegistry(cfgs []Config) (*Registry, error) {
	reg := NewRegistry()
	for _, cfg := range cfgs {
		if !cfg.Configured() {
			continue
		}
		client, err := New(cfg.Provider, cfg)
		if err != nil {
			_ = reg.Close()
			return nil, fmt.Errorf("create %s client: %w", cfg.Provider, err)
		}
		if err := reg.Add(client); err != nil {
			_ = client.Close()
			_ = reg.Close()
			return nil, err
		}
	}
	return reg, nil
}

// Add registers a live client under its provider name.
func (r *Registry) Add(c Client) error {
	if c == nil {
		return errors.New("client must not be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Provider()
	if _, exists := r.clients[name]; exists {
		return fmt.Errorf("provider %q already registered", name)
	}
	r.clients[name] = c
	return nil
}

// Get returns the client for a provider.
func (r *Registry) Get(p model.Provider) (Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[p]
	return c, ok
}

// Has reports whether a provider has a live client.
// It satisfies model.ConfiguredFunc.
func (r *Registry) Has(p model.Provider) bool {
	_, ok := r.Get(p)
	return ok
}

// Providers returns the registered provider names, sorted.
func (r *Registry) Providers() []model.Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]model.Provider, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Close closes every client and empties the registry.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for name, c := range r.clients {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
	}
	r.clients = make(map[model.Provider]Client)
	return errors.Join(errs...)
}
