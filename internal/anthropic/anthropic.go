package anthropic

import (
	"context"
	"fmt"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/lehigh-university-libraries/brickbuilder/internal/providers"
)

// DefaultModel is used when no model is configured
const DefaultModel = "claude-sonnet-4-20250514"

// Anthropic is a provider for Claude vision models
type Anthropic struct {
	client sdk.Client
}

// New returns a new Anthropic provider. baseURL may be empty.
func New(apiKey, baseURL string) *Anthropic {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Anthropic{client: sdk.NewClient(opts...)}
}

func (a *Anthropic) Name() string { return "anthropic" }

// ExtractText sends the image and prompt as one user message and returns the
// first text block of the answer.
func (a *Anthropic) ExtractText(ctx context.Context, config providers.Config) (string, error) {
	model := config.Model
	if model == "" {
		model = DefaultModel
	}

	params := sdk.MessageNewParams{
		Model:     sdk.Model(model),
		MaxTokens: int64(config.MaxTokens),
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(
				sdk.NewImageBlockBase64(config.Image.MediaType, config.Image.Data),
				sdk.NewTextBlock(config.Prompt),
			),
		},
		Temperature: sdk.Float(config.Temperature),
	}

	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("claude API call: %w", err)
	}

	for _, block := range resp.Content {
		if block.Type == "text" {
			return block.AsText().Text, nil
		}
	}
	return "", providers.ErrNoTextContent
}
