package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds every setting read from the environment (and .env)
type Config struct {
	// Vision provider
	VisionProvider  string `env:"VISION_PROVIDER" envDefault:"anthropic"`
	VisionModel     string `env:"VISION_MODEL"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	AnthropicURL    string `env:"ANTHROPIC_BASE_URL"`
	GeminiAPIKey    string `env:"GEMINI_API_KEY"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	OpenAIURL       string `env:"OPENAI_BASE_URL"`
	OllamaURL       string `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`

	// Parts/sets catalog
	RebrickableAPIKey  string `env:"REBRICKABLE_API_KEY"`
	RebrickableBaseURL string `env:"REBRICKABLE_BASE_URL" envDefault:"https://rebrickable.com/api/v3"`

	// Gateway
	Port      string `env:"PORT" envDefault:"3001"`
	StaticDir string `env:"STATIC_DIR"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

var providers = map[string]bool{
	"anthropic": true,
	"gemini":    true,
	"openai":    true,
	"ollama":    true,
}

// Load parses the process environment
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFromMap parses settings from a map instead of the process environment
func LoadFromMap(vars map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that have a fixed set of choices
func (c Config) Validate() error {
	if !providers[c.VisionProvider] {
		return fmt.Errorf("unsupported VISION_PROVIDER %q (anthropic, gemini, openai or ollama)", c.VisionProvider)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported LOG_FORMAT %q (text or json)", c.LogFormat)
	}
	return nil
}
