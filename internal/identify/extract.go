package identify

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"

	"github.com/lehigh-university-libraries/brickbuilder/internal/models"
)

// FallbackMessage is shown when the provider's answer could not be parsed
const FallbackMessage = "Oops! I had trouble understanding what I saw. Try taking another picture with better lighting! 📸"

var fencePattern = regexp.MustCompile("(?s)```(?i:json)?\\s*(.*?)\\s*```")

// Extract recovers a Result from the provider's free-text answer. It never
// fails: text that does not hold a JSON object becomes a not-identified
// result with the original text attached as RawResponse.
func Extract(text string, mode Mode) *Result {
	payload := strings.TrimSpace(stripCodeFence(text))

	var result Result
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		slog.Warn("Failed to parse JSON response, using fallback", "error", err, "length", len(text))
		return fallback(text, mode)
	}

	var doc any
	if err := json.Unmarshal([]byte(payload), &doc); err == nil {
		if err := validateShape(doc); err != nil {
			slog.Warn("Provider JSON does not match the requested shape", "error", err)
			result.shapeErr = err
		}
	}

	slog.Debug("Successfully extracted identification", "identified", result.Identified, "bricks", len(result.Bricks))
	return &result
}

// stripCodeFence returns the contents of the first fenced block, or text
// unchanged when there is none
func stripCodeFence(text string) string {
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return text
}

func fallback(text string, mode Mode) *Result {
	return &Result{
		Identified:  false,
		BatchMode:   mode == ModeBatch,
		Bricks:      []models.BrickRecord{},
		Suggestions: []string{},
		Message:     FallbackMessage,
		RawResponse: text,
	}
}
