package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/lehigh-university-libraries/brickbuilder/internal/catalog"
	"github.com/lehigh-university-libraries/brickbuilder/internal/handlers"
	"github.com/lehigh-university-libraries/brickbuilder/internal/identify"
	"github.com/lehigh-university-libraries/brickbuilder/internal/images"
	"github.com/lehigh-university-libraries/brickbuilder/internal/providers"
	"github.com/lehigh-university-libraries/brickbuilder/internal/render"
)

type scriptedProvider struct {
	text string
	err  error
}

func (s *scriptedProvider) Name() string { return "scripted" }

func (s *scriptedProvider) ExtractText(ctx context.Context, config providers.Config) (string, error) {
	return s.text, s.err
}

// rebrickableFake serves part 3001 in one color, appearing in 14 sets
type rebrickableFake struct {
	mu       sync.Mutex
	setsURLs []string
	failSets bool
}

func (f *rebrickableFake) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/lego/parts/3001/colors/":
		fmt.Fprint(w, `{"count": 1, "results": [{"color_id": 5, "color_name": "Red"}]}`)
	case "/lego/parts/3001/colors/5/sets/":
		f.mu.Lock()
		f.setsURLs = append(f.setsURLs, r.URL.String())
		f.mu.Unlock()
		if f.failSets {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var items []string
		for i := 1; i <= 10; i++ {
			items = append(items, fmt.Sprintf(`{"set_num": "%d-1", "set_name": "Castle %d", "set_year": 1990, "set_num_parts": 300, "quantity": 2}`, 6000+i, i))
		}
		fmt.Fprintf(w, `{"count": 14, "next": "more", "results": [%s]}`, strings.Join(items, ","))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *rebrickableFake) requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.setsURLs...)
}

func newGateway(t *testing.T, provider providers.Provider, rebrickable http.Handler) *Client {
	t.Helper()
	upstream := httptest.NewServer(rebrickable)
	t.Cleanup(upstream.Close)

	h := handlers.New(
		identify.NewService(provider, ""),
		catalog.NewService(catalog.NewClient(upstream.URL, "secret")),
		"",
	)
	gateway := httptest.NewServer(h.Routes())
	t.Cleanup(gateway.Close)
	return New(gateway.URL)
}

var testImage = images.Image{Data: "iVBORw0KGgo=", MediaType: "image/png"}

func TestScanSingle(t *testing.T) {
	fake := &rebrickableFake{}
	c := newGateway(t, &scriptedProvider{
		text: "```json\n{\"identified\": true, \"bricks\": [{\"name\": \"Brick 2 x 4\", \"partNumber\": \"3001\", \"category\": \"Brick\", \"description\": \"Classic\", \"confidence\": \"high\"}], \"suggestions\": [\"A castle\"], \"message\": \"Nice!\"}\n```",
	}, fake)

	scan, err := c.Scan(context.Background(), testImage, identify.ModeSingle)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if !scan.Result.Identified || scan.PartNum != "3001" {
		t.Fatalf("Expected part 3001 to be identified, got %+v", scan)
	}
	if scan.Sets == nil {
		t.Fatal("Expected sets to be fetched")
	}
	if len(scan.Sets.Sets) > SetsPageSize {
		t.Errorf("Expected at most %d sets, got %d", SetsPageSize, len(scan.Sets.Sets))
	}
	if reqs := fake.requests(); len(reqs) != 1 || !strings.Contains(reqs[0], "page_size=10") {
		t.Errorf("Expected one sets request of 10, got %v", reqs)
	}

	var buf bytes.Buffer
	if err := render.Sets(&buf, *scan.Sets, scan.PartNum); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	out := buf.String()
	if got := strings.Count(out, "View Instructions"); got != render.MaxSets {
		t.Errorf("Expected %d sets rendered, got %d", render.MaxSets, got)
	}
	if !strings.Contains(out, "And 8 more sets use this brick!") {
		t.Errorf("Expected footer, got:\n%s", out)
	}
}

func TestScanSkipsSets(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		mode     identify.Mode
		failSets bool
	}{
		{
			name: "batch mode",
			text: `{"identified": true, "batchMode": true, "bricks": [{"name": "Brick 2 x 4", "partNumber": "3001", "category": "Brick"}]}`,
			mode: identify.ModeBatch,
		},
		{
			name: "not identified",
			text: `{"identified": false, "message": "That's a sock!"}`,
			mode: identify.ModeSingle,
		},
		{
			name: "no part number",
			text: `{"identified": true, "bricks": [{"name": "Mystery piece", "category": "Other"}]}`,
			mode: identify.ModeSingle,
		},
		{
			name:     "sets lookup fails",
			text:     `{"identified": true, "bricks": [{"name": "Brick 2 x 4", "partNumber": "3001", "category": "Brick"}]}`,
			mode:     identify.ModeSingle,
			failSets: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &rebrickableFake{failSets: tt.failSets}
			c := newGateway(t, &scriptedProvider{text: tt.text}, fake)

			scan, err := c.Scan(context.Background(), testImage, tt.mode)
			if err != nil {
				t.Fatalf("Scan failed: %v", err)
			}
			if scan.Sets != nil {
				t.Errorf("Expected no sets, got %+v", scan.Sets)
			}
			wantRequests := 0
			if tt.failSets {
				wantRequests = 1
			}
			if got := len(fake.requests()); got != wantRequests {
				t.Errorf("Expected %d sets requests, got %d", wantRequests, got)
			}
		})
	}
}

func TestScanBatchRender(t *testing.T) {
	c := newGateway(t, &scriptedProvider{
		text: `{
  "identified": true,
  "batchMode": true,
  "totalPiecesEstimate": "30-40 pieces",
  "bricks": [
    {"name": "Brick 2 x 4", "partNumber": "3001", "category": "Brick", "approximateCount": "4", "confidence": "high"},
    {"name": "Plate 2 x 2", "partNumber": "3022", "category": "Plate", "approximateCount": "12", "confidence": "medium"}
  ],
  "categories": {"bricks": 4, "plates": 12, "technic": 0},
  "interestingFinds": ["A glow-in-the-dark tile"],
  "suggestions": ["A spaceship"],
  "message": "Great pile!"
}`,
	}, &rebrickableFake{})

	scan, err := c.Scan(context.Background(), testImage, identify.ModeBatch)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	var buf bytes.Buffer
	if err := render.Result(&buf, scan.Result, render.Options{Category: "plate"}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"plates (12)", "bricks (4)", "A glow-in-the-dark tile", "Plate 2 x 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "technic (0)") || strings.Contains(out, "Brick 2 x 4") {
		t.Errorf("Expected zero categories and filtered bricks to be hidden:\n%s", out)
	}
}

func TestScanBatchWithoutBatchModeKey(t *testing.T) {
	c := newGateway(t, &scriptedProvider{
		text: `{
  "identified": true,
  "bricks": [
    {"name": "Brick 2 x 4", "partNumber": "3001", "category": "Brick", "confidence": "high"},
    {"name": "Plate 2 x 2", "partNumber": "3022", "category": "Plate", "confidence": "medium"}
  ],
  "categories": {"bricks": 1, "plates": 1},
  "suggestions": [],
  "message": "Nice pile!"
}`,
	}, &rebrickableFake{})

	scan, err := c.Scan(context.Background(), testImage, identify.ModeBatch)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if !scan.Result.BatchMode {
		t.Fatal("Expected the requested batch mode to mark the result as batch")
	}

	var buf bytes.Buffer
	if err := render.Result(&buf, scan.Result, render.Options{Category: "plate"}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Collection Scanned!") || !strings.Contains(out, "Plate 2 x 2") {
		t.Errorf("Expected the batch view, got:\n%s", out)
	}
	if strings.Contains(out, "Brick Found!") || strings.Contains(out, "Brick 2 x 4") {
		t.Errorf("Expected the single view and filtered bricks to be absent, got:\n%s", out)
	}

	body, err := json.Marshal(scan.Result)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(body), `"batchMode":true`) {
		t.Errorf("Expected batchMode in JSON, got %s", body)
	}
}

func TestScanResultJSON(t *testing.T) {
	c := newGateway(t, &scriptedProvider{
		text: `{"identified": true, "bricks": [{"name": "Brick 2 x 4", "partNumber": "3001", "category": "Brick", "confidence": "high"}], "suggestions": [], "message": "Nice!"}`,
	}, &rebrickableFake{})

	scan, err := c.Scan(context.Background(), testImage, identify.ModeSingle)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	body, err := json.Marshal(scan)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	for _, key := range []string{"result", "partNum", "sets"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("Expected key %q in %s", key, body)
		}
	}
}

func TestIdentifyErrors(t *testing.T) {
	c := newGateway(t, &scriptedProvider{err: providers.ErrNoTextContent}, &rebrickableFake{})

	_, err := c.Identify(context.Background(), testImage, identify.ModeSingle)
	var gwErr *Error
	if !errors.As(err, &gwErr) {
		t.Fatalf("Expected *Error, got %v", err)
	}
	if gwErr.StatusCode != http.StatusInternalServerError || gwErr.Message != "Failed to identify brick" {
		t.Errorf("Unexpected error %+v", gwErr)
	}
	if !strings.Contains(gwErr.Details, providers.ErrNoTextContent.Error()) {
		t.Errorf("Expected provider details, got %q", gwErr.Details)
	}

	_, err = c.Identify(context.Background(), images.Image{}, identify.ModeSingle)
	if !errors.As(err, &gwErr) || gwErr.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for empty image, got %v", err)
	}
}

func TestHealth(t *testing.T) {
	c := newGateway(t, &scriptedProvider{}, &rebrickableFake{})
	health, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if health["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", health)
	}
}
