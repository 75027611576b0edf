package render

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/brickbuilder/internal/identify"
	"github.com/lehigh-university-libraries/brickbuilder/internal/models"
)

func batchResult() *identify.Result {
	return &identify.Result{
		Identified:          true,
		BatchMode:           true,
		TotalPiecesEstimate: "50-100 pieces",
		Bricks: []models.BrickRecord{
			{Name: "Brick 2 x 4", PartNumber: "3001", Category: "Brick", Color: "Red", ApproximateCount: "5", Confidence: models.ConfidenceHigh},
			{Name: "Plate 1 x 2", PartNumber: "3023", Category: "Plate", Color: "Blue", ApproximateCount: "10+", Confidence: models.ConfidenceMedium},
			{Name: "Slope 45 2 x 2", Category: "Slope Brick", Confidence: models.ConfidenceLow},
		},
		Categories:       map[string]int{"bricks": 5, "plates": 10, "tiles": 0},
		InterestingFinds: []string{"A trans-clear windscreen"},
		Suggestions:      []string{"A race car"},
		Message:          "What a haul!",
	}
}

func TestResultSingle(t *testing.T) {
	r := &identify.Result{
		Identified: true,
		Bricks: []models.BrickRecord{{
			Name:        "Brick 2 x 4",
			PartNumber:  "3001",
			Category:    "Brick",
			Dimensions:  "2x4",
			Color:       "Red",
			Description: "The classic brick",
			Confidence:  models.ConfidenceHigh,
			FunFact:     "It has been made since 1958",
		}},
		Suggestions: []string{"A tower"},
		Message:     "Awesome!",
	}

	var buf bytes.Buffer
	if err := Result(&buf, r, Options{}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Brick Found!", "Brick 2 x 4", "⭐ Very Sure!", "Part Number: 3001", "Size: 2x4", "Fun Fact: It has been made since 1958", "- A tower", "Awesome!"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestResultSingleWithoutConfidence(t *testing.T) {
	r := &identify.Result{
		Identified: true,
		Bricks:     []models.BrickRecord{{Name: "Brick 2 x 4", Category: "Brick"}},
	}

	var buf bytes.Buffer
	if err := Result(&buf, r, Options{}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if strings.Contains(buf.String(), "[]") {
		t.Errorf("Expected no empty confidence bracket, got:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "Brick 2 x 4\n") {
		t.Errorf("Expected brick name on its own line, got:\n%s", buf.String())
	}
}

func TestResultNotIdentified(t *testing.T) {
	tests := []struct {
		name   string
		result *identify.Result
		want   string
	}{
		{"single", identify.NotIdentified("That's a cat!"), "couldn't find a LEGO brick"},
		{"batch", &identify.Result{BatchMode: true, Message: "Too blurry"}, "couldn't identify the bricks"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Result(&buf, tt.result, Options{}); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) || !strings.Contains(buf.String(), tt.result.Message) {
				t.Errorf("Unexpected output:\n%s", buf.String())
			}
		})
	}
}

func TestResultBatch(t *testing.T) {
	tests := []struct {
		name        string
		category    string
		contains    []string
		notContains []string
	}{
		{
			name:        "all",
			category:    "all",
			contains:    []string{"Collection Scanned!", "approximately 50-100 pieces", "All (3)", "plates (10)", "bricks (5)", "Interesting Finds!", "A trans-clear windscreen", "Bricks (3)", "Brick 2 x 4", "Plate 1 x 2", "×10+", "Part #3001"},
			notContains: []string{"tiles (0)"},
		},
		{
			name:        "filtered",
			category:    "brick",
			contains:    []string{`Bricks in "brick" (2)`, "Brick 2 x 4", "Slope 45 2 x 2"},
			notContains: []string{"Plate 1 x 2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Result(&buf, batchResult(), Options{Category: tt.category}); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			out := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("Expected output to contain %q, got:\n%s", want, out)
				}
			}
			for _, unwanted := range tt.notContains {
				if strings.Contains(out, unwanted) {
					t.Errorf("Expected output not to contain %q, got:\n%s", unwanted, out)
				}
			}
		})
	}

	var buf bytes.Buffer
	_ = Result(&buf, batchResult(), Options{})
	out := buf.String()
	if strings.Index(out, "plates (10)") > strings.Index(out, "bricks (5)") {
		t.Errorf("Expected categories sorted by count, got:\n%s", out)
	}
}

func makeSets(n int) []models.SetSummary {
	sets := make([]models.SetSummary, 0, n)
	for i := 1; i <= n; i++ {
		num := fmt.Sprintf("%d-1", 1000+i)
		sets = append(sets, models.SetSummary{
			SetNum:          num,
			Name:            fmt.Sprintf("Set %d", i),
			Year:            2000 + i,
			NumParts:        100 * i,
			Quantity:        i,
			InstructionsURL: "https://rebrickable.com/sets/" + num + "/",
		})
	}
	return sets
}

func TestSets(t *testing.T) {
	tests := []struct {
		name       string
		sets       models.SetsForPart
		wantShown  int
		wantFooter string
	}{
		{"empty", models.SetsForPart{Sets: []models.SetSummary{}}, 0, ""},
		{"few", models.SetsForPart{Count: 3, Sets: makeSets(3)}, 3, ""},
		{"exactly six", models.SetsForPart{Count: 6, Sets: makeSets(6)}, 6, ""},
		{"more", models.SetsForPart{Count: 14, Sets: makeSets(10)}, 6, "And 8 more sets use this brick!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Sets(&buf, tt.sets, "3001"); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			out := buf.String()
			if got := strings.Count(out, "View Instructions"); got != tt.wantShown {
				t.Errorf("Expected %d sets shown, got %d:\n%s", tt.wantShown, got, out)
			}
			if tt.wantFooter != "" && !strings.Contains(out, tt.wantFooter) {
				t.Errorf("Expected footer %q, got:\n%s", tt.wantFooter, out)
			}
			if tt.wantFooter == "" && strings.Contains(out, "more sets use this brick") {
				t.Errorf("Unexpected footer:\n%s", out)
			}
			if tt.wantShown > 0 && !strings.Contains(out, "Part #3001") {
				t.Errorf("Expected part number in header:\n%s", out)
			}
		})
	}
}
