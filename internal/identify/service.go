package identify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lehigh-university-libraries/brickbuilder/internal/anthropic"
	"github.com/lehigh-university-libraries/brickbuilder/internal/config"
	"github.com/lehigh-university-libraries/brickbuilder/internal/gemini"
	"github.com/lehigh-university-libraries/brickbuilder/internal/images"
	"github.com/lehigh-university-libraries/brickbuilder/internal/ollama"
	"github.com/lehigh-university-libraries/brickbuilder/internal/openai"
	"github.com/lehigh-university-libraries/brickbuilder/internal/providers"
)

// Service identifies bricks in images using a vision provider
type Service struct {
	provider providers.Provider
	model    string
}

// NewService creates a service. An empty model uses the provider's default.
func NewService(provider providers.Provider, model string) *Service {
	return &Service{provider: provider, model: model}
}

// NewProvider builds the vision provider selected by cfg.VisionProvider
func NewProvider(cfg config.Config) (providers.Provider, error) {
	switch cfg.VisionProvider {
	case "anthropic", "":
		return anthropic.New(cfg.AnthropicAPIKey, cfg.AnthropicURL), nil
	case "gemini":
		return gemini.New(cfg.GeminiAPIKey), nil
	case "openai":
		return openai.New(cfg.OpenAIAPIKey, cfg.OpenAIURL), nil
	case "ollama":
		return ollama.New(cfg.OllamaURL), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.VisionProvider)
	}
}

// Provider returns the name of the backing provider
func (s *Service) Provider() string {
	return s.provider.Name()
}

// Model returns the configured model, empty meaning the provider default
func (s *Service) Model() string {
	return s.model
}

// Identify asks the provider about img. Provider failures are returned as
// errors; unparseable answers are not, see Extract.
func (s *Service) Identify(ctx context.Context, img images.Image, mode Mode) (*Result, error) {
	instruction := BuildInstruction(mode)
	start := time.Now()

	slog.Info("Identifying LEGO brick", "provider", s.provider.Name(), "model", s.model, "mode", mode, "media_type", img.MediaType)

	text, err := s.provider.ExtractText(ctx, providers.Config{
		Model:       s.model,
		Temperature: Temperature,
		MaxTokens:   instruction.MaxTokens,
		Prompt:      instruction.Prompt,
		Image:       img,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.provider.Name(), err)
	}

	result := Extract(text, mode)
	slog.Info("Brick identification finished",
		"identified", result.Identified,
		"bricks", len(result.Bricks),
		"elapsed_ms", time.Since(start).Milliseconds())
	return result, nil
}
