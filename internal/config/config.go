package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the process configuration loaded from a YAML file. Provider
// secrets are never stored here; they come from the environment (see
// FromEnv) or are supplied per call.
type Config struct {
	DBPath          string `yaml:"db_path"`
	LogLevel        string `yaml:"log_level"`
	LogFormat       string `yaml:"log_format"`
	DefaultProvider string `yaml:"default_provider"`
	MaxInputTokens  int    `yaml:"max_input_tokens"`
	RequestTimeout  int    `yaml:"request_timeout_seconds"`
}

func defaults() *Config {
	return &Config{
		DBPath:          "data/translations.db",
		LogLevel:        "info",
		LogFormat:       "text",
		DefaultProvider: "openai",
		MaxInputTokens:  4000,
		RequestTimeout:  60,
	}
}

// Load reads cfg from path. A missing file is not an error: defaults apply.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// AdapterConfig is the per-provider call configuration: either supplied
// explicitly per call or loaded once from the process environment.
type AdapterConfig struct {
	Provider    string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	BaseURL     string
	Timeout     time.Duration
}

// envKey turns a provider name into its environment prefix, e.g.
// "openai" -> "OPENAI", "custom-openai" -> "CUSTOM_OPENAI".
func envKey(provider string) string {
	up := strings.ToUpper(provider)
	return strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, up)
}

// keylessProviders run locally and need no API key.
var keylessProviders = map[string]bool{
	"ollama": true,
}

// FromEnv loads the default adapter configuration for a provider from
// process environment variables (<PROVIDER>_API_KEY, _DEFAULT_MODEL,
// _BASE_URL). A missing required API key is a configuration error, never
// silently defaulted.
func FromEnv(provider string) (AdapterConfig, error) {
	if provider == "" {
		return AdapterConfig{}, fmt.Errorf("provider name is required")
	}
	prefix := envKey(provider)
	cfg := AdapterConfig{
		Provider:    provider,
		APIKey:      os.Getenv(prefix + "_API_KEY"),
		Model:       os.Getenv(prefix + "_DEFAULT_MODEL"),
		BaseURL:     os.Getenv(prefix + "_BASE_URL"),
		Temperature: 0.3,
		Timeout:     60 * time.Second,
	}
	if cfg.APIKey == "" && !keylessProviders[provider] {
		return AdapterConfig{}, fmt.Errorf("missing required %s_API_KEY for provider %q", prefix, provider)
	}
	return cfg, nil
}
