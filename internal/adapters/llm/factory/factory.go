// Package factory constructs and caches provider adapters.
//
// The cache holds one adapter instance per provider name for the lifetime
// of the process. Callers that pass an explicit configuration always get a
// fresh, uncached instance (per-tenant keys, tests). With no explicit
// configuration and no cached instance, the default configuration is
// loaded from the environment; a missing required secret is a fatal
// configuration error.
package factory

import (
	"fmt"
	"sync"

	"github.com/Jjjmaes/AIT-sub004/internal/adapters/llm/ollama"
	"github.com/Jjjmaes/AIT-sub004/internal/adapters/llm/openai"
	"github.com/Jjjmaes/AIT-sub004/internal/config"
	"github.com/Jjjmaes/AIT-sub004/internal/ports"
)

// EnvFunc loads the default adapter configuration for a provider.
// Injectable so tests can avoid touching the real environment.
type EnvFunc func(provider string) (config.AdapterConfig, error)

type Factory struct {
	mu    sync.Mutex
	cache map[string]ports.Provider
	env   EnvFunc
}

func New() *Factory {
	return &Factory{cache: map[string]ports.Provider{}, env: config.FromEnv}
}

func NewWithEnv(env EnvFunc) *Factory {
	return &Factory{cache: map[string]ports.Provider{}, env: env}
}

// Adapter returns the provider adapter for name. When override is non-nil
// a fresh instance is built from it and never cached.
func (f *Factory) Adapter(name string, override *config.AdapterConfig) (ports.Provider, error) {
	if override != nil {
		cfg := *override
		if cfg.Provider == "" {
			cfg.Provider = name
		}
		return build(cfg)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.cache[name]; ok {
		return p, nil
	}
	cfg, err := f.env(name)
	if err != nil {
		return nil, fmt.Errorf("adapter factory: %w", err)
	}
	p, err := build(cfg)
	if err != nil {
		return nil, err
	}
	f.cache[name] = p
	return p, nil
}

// Remove drops the cached adapter for name, if any.
func (f *Factory) Remove(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.cache, name)
}

// Reset clears the whole cache.
func (f *Factory) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cache = map[string]ports.Provider{}
}

func build(cfg config.AdapterConfig) (ports.Provider, error) {
	switch cfg.Provider {
	case "ollama":
		return ollama.New(cfg), nil
	case "openai", "openrouter", "deepseek", "custom-openai":
		return openai.New(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}
