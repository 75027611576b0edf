package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/lehigh-university-libraries/brickbuilder/internal/images"
	"github.com/lehigh-university-libraries/brickbuilder/internal/providers"
)

func TestResponseText(t *testing.T) {
	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		want    string
		wantErr error
	}{
		{
			name: "first text part",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []genai.Part{
					genai.Blob{MIMEType: "image/png", Data: []byte{1}},
					genai.Text(`{"identified": true}`),
				}},
			}}},
			want: `{"identified": true}`,
		},
		{
			name:    "candidate without content",
			resp:    &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}},
			wantErr: providers.ErrNoTextContent,
		},
		{
			name: "no text parts",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png"}}},
			}}},
			wantErr: providers.ErrNoTextContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := responseText(tt.resp)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestResponseTextNoCandidates(t *testing.T) {
	for _, resp := range []*genai.GenerateContentResponse{nil, {}} {
		if _, err := responseText(resp); err == nil || !strings.Contains(err.Error(), "no candidates") {
			t.Errorf("Expected no candidates error, got %v", err)
		}
	}
}

func TestExtractTextRequiresAPIKey(t *testing.T) {
	_, err := New("").ExtractText(context.Background(), providers.Config{
		Image: images.Image{Data: "AAAA", MediaType: "image/png"},
	})
	if err == nil || !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Errorf("Expected missing key error, got %v", err)
	}
}

func TestExtractTextInvalidImage(t *testing.T) {
	_, err := New("test-key").ExtractText(context.Background(), providers.Config{
		Image: images.Image{Data: "!!!", MediaType: "image/png"},
	})
	if !errors.Is(err, images.ErrInvalidEncoding) {
		t.Errorf("Expected invalid encoding error, got %v", err)
	}
}

func TestName(t *testing.T) {
	if got := New("k").Name(); got != "gemini" {
		t.Errorf("Expected gemini, got %s", got)
	}
}
