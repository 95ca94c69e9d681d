package llm

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds LLM provider configuration. It is read from LEARNASSIST_-
// prefixed environment variables, see ConfigFromEnv.
type Config struct {
	// Provider is one of "openai", "anthropic", "gemini", "openrouter", "mock".
	Provider string `env:"LLM_PROVIDER" envDefault:"openai"`

	OpenAI     OpenAIConfig     `envPrefix:"OPENAI_"`
	Anthropic  AnthropicConfig  `envPrefix:"ANTHROPIC_"`
	Gemini     GeminiConfig     `envPrefix:"GEMINI_"`
	OpenRouter OpenRouterConfig `envPrefix:"OPENROUTER_"`
	Retry      RetryConfig      `envPrefix:"LLM_RETRY_"`

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration `env:"LLM_TIMEOUT" envDefault:"30s"`
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `env:"API_KEY"`
	Model   string `env:"MODEL" envDefault:"gpt-3.5-turbo"`
	BaseURL string `env:"BASE_URL"` // OpenAI-compatible endpoint override
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string `env:"API_KEY"`
	Model  string `env:"MODEL" envDefault:"claude-haiku"`
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string `env:"API_KEY"`
	Model  string `env:"MODEL" envDefault:"gemini-flash"`
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string `env:"API_KEY"`
	Model   string `env:"MODEL" envDefault:"openai/gpt-4o-mini"`
	BaseURL string `env:"BASE_URL"` // default https://openrouter.ai/api/v1
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `env:"MAX_ATTEMPTS" envDefault:"3"`
	InitialWait time.Duration `env:"INITIAL_WAIT" envDefault:"1s"`
	MaxWait     time.Duration `env:"MAX_WAIT" envDefault:"10s"`
	Multiplier  float64       `env:"MULTIPLIER" envDefault:"2"`

	// PurposeAttempts overrides MaxAttempts per purpose label, e.g.
	// "chat:2,grading:4".
	PurposeAttempts map[string]int `env:"PURPOSE_ATTEMPTS" envDefault:"chat:2"`
}

// AttemptsFor returns the attempt budget for calls tagged with purpose.
// It is never below one.
func (c RetryConfig) AttemptsFor(purpose string) int {
	n := c.MaxAttempts
	if v, ok := c.PurposeAttempts[purpose]; ok {
		n = v
	}
	return max(n, 1)
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Provider:   "openai",
		OpenAI:     OpenAIConfig{Model: "gpt-3.5-turbo"},
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "openai/gpt-4o-mini"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,

			PurposeAttempts: map[string]int{PurposeChat: 2},
		},
		Timeout: 30 * time.Second,
	}
}

// ConfigFromEnv builds a Config from LEARNASSIST_* variables. When the
// selected provider has no key, the provider's standard variable (e.g.
// OPENAI_API_KEY) is used as a fallback.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "LEARNASSIST_"}); err != nil {
		return Config{}, fmt.Errorf("parse LLM env: %w", err)
	}

	fallback := func(dst *string, name string) {
		if *dst == "" {
			*dst = os.Getenv(name)
		}
	}
	fallback(&cfg.OpenAI.APIKey, "OPENAI_API_KEY")
	fallback(&cfg.Anthropic.APIKey, "ANTHROPIC_API_KEY")
	fallback(&cfg.Gemini.APIKey, "GEMINI_API_KEY")
	fallback(&cfg.OpenRouter.APIKey, "OPENROUTER_API_KEY")

	return cfg, nil
}

// DiscoverConfig probes the standard API key variables in priority order
// (OpenAI, Anthropic, Gemini, OpenRouter) and returns a Config for the
// first provider whose key is found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = "openrouter"
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}

	return Config{}, false
}

// Validate checks that the selected provider has its API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case "openai":
		if c.OpenAI.APIKey == "" {
			return &ErrMissingAPIKey{Provider: c.Provider, Var: "LEARNASSIST_OPENAI_API_KEY"}
		}
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return &ErrMissingAPIKey{Provider: c.Provider, Var: "LEARNASSIST_ANTHROPIC_API_KEY"}
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return &ErrMissingAPIKey{Provider: c.Provider, Var: "LEARNASSIST_GEMINI_API_KEY"}
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return &ErrMissingAPIKey{Provider: c.Provider, Var: "LEARNASSIST_OPENROUTER_API_KEY"}
		}
	case "mock":
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	for purpose := range c.Retry.PurposeAttempts {
		if !IsPurpose(purpose) {
			return fmt.Errorf("retry attempts set for unknown purpose %q (want one of %v)", purpose, Purposes())
		}
	}
	return nil
}
