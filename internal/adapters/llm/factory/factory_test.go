package factory

import (
	"errors"
	"testing"

	"github.com/Jjjmaes/AIT-sub004/internal/config"
)

func stubEnv(t *testing.T) (EnvFunc, *int) {
	t.Helper()
	calls := 0
	return func(provider string) (config.AdapterConfig, error) {
		calls++
		if provider == "openai" {
			return config.AdapterConfig{Provider: "openai", APIKey: "sk-test"}, nil
		}
		return config.AdapterConfig{}, errors.New("OPENROUTER_API_KEY is not set")
	}, &calls
}

func TestAdapterCachesPerProvider(t *testing.T) {
	env, calls := stubEnv(t)
	f := NewWithEnv(env)

	a, err := f.Adapter("openai", nil)
	if err != nil {
		t.Fatalf("Adapter: %v", err)
	}
	b, err := f.Adapter("openai", nil)
	if err != nil {
		t.Fatalf("Adapter: %v", err)
	}
	if a != b {
		t.Error("second lookup built a new instance instead of reusing the cache")
	}
	if *calls != 1 {
		t.Errorf("env loads = %d, want 1", *calls)
	}
}

func TestAdapterExplicitConfigBypassesCache(t *testing.T) {
	env, calls := stubEnv(t)
	f := NewWithEnv(env)

	override := &config.AdapterConfig{APIKey: "sk-tenant"}
	a, err := f.Adapter("openai", override)
	if err != nil {
		t.Fatalf("Adapter: %v", err)
	}
	b, err := f.Adapter("openai", override)
	if err != nil {
		t.Fatalf("Adapter: %v", err)
	}
	if a == b {
		t.Error("explicit configuration must build a fresh instance each call")
	}
	if *calls != 0 {
		t.Errorf("env loads = %d, explicit config must not read the environment", *calls)
	}

	// The override instance must not poison the default cache path.
	if _, err := f.Adapter("openai", nil); err != nil {
		t.Fatalf("default Adapter after override: %v", err)
	}
	if *calls != 1 {
		t.Errorf("env loads = %d, want 1 for the default instance", *calls)
	}
}

func TestAdapterMissingEnvKeyIsFatal(t *testing.T) {
	env, _ := stubEnv(t)
	f := NewWithEnv(env)

	if _, err := f.Adapter("openrouter", nil); err == nil {
		t.Fatal("expected error when the environment holds no key")
	}
}

func TestAdapterUnsupportedProvider(t *testing.T) {
	f := NewWithEnv(func(string) (config.AdapterConfig, error) {
		return config.AdapterConfig{Provider: "mainframe"}, nil
	})
	if _, err := f.Adapter("mainframe", nil); err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}

func TestRemoveAndReset(t *testing.T) {
	env, calls := stubEnv(t)
	f := NewWithEnv(env)

	if _, err := f.Adapter("openai", nil); err != nil {
		t.Fatalf("Adapter: %v", err)
	}
	f.Remove("openai")
	if _, err := f.Adapter("openai", nil); err != nil {
		t.Fatalf("Adapter after Remove: %v", err)
	}
	if *calls != 2 {
		t.Errorf("env loads = %d, want rebuild after Remove", *calls)
	}

	f.Reset()
	if _, err := f.Adapter("openai", nil); err != nil {
		t.Fatalf("Adapter after Reset: %v", err)
	}
	if *calls != 3 {
		t.Errorf("env loads = %d, want rebuild after Reset", *calls)
	}
}

func TestOverrideInheritsProviderName(t *testing.T) {
	f := NewWithEnv(func(string) (config.AdapterConfig, error) {
		t.Fatal("env must not be consulted")
		return config.AdapterConfig{}, nil
	})
	p, err := f.Adapter("ollama", &config.AdapterConfig{BaseURL: "http://localhost:11434"})
	if err != nil {
		t.Fatalf("Adapter: %v", err)
	}
	if p.Name() != "ollama" {
		t.Errorf("Name = %q, want provider inherited from lookup name", p.Name())
	}
}
