package providers

import (
	"context"
	"errors"

	"github.com/lehigh-university-libraries/brickbuilder/internal/images"
)

// ErrNoTextContent is returned when a provider answered without any text segment.
var ErrNoTextContent = errors.New("no text response from vision API")

// Config represents a single request to a vision provider
type Config struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Prompt      string
	Image       images.Image
}

// Provider defines the interface for a vision-capable LLM provider
type Provider interface {
	Name() string
	ExtractText(ctx context.Context, config Config) (string, error)
}
