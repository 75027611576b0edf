package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/brickbuilder/internal/identify"
	"github.com/lehigh-university-libraries/brickbuilder/internal/images"
	"github.com/lehigh-university-libraries/brickbuilder/internal/models"
)

// DefaultServer is where `brickbuilder serve` listens by default
const DefaultServer = "http://localhost:3001"

// SetsPageSize is how many sets a scan asks for
const SetsPageSize = 10

// Error is a non-2xx answer from the gateway
type Error struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("gateway returned %d: %s (%s)", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("gateway returned %d: %s", e.StatusCode, e.Message)
}

// Client talks to a running brickbuilder gateway
type Client struct {
	BaseURL    string
	httpClient *http.Client
}

// ScanResult is an identification plus, when applicable, the sets using the
// first identified brick
type ScanResult struct {
	Result  *identify.Result    `json:"result" yaml:"result"`
	PartNum string              `json:"partNum,omitempty" yaml:"partnum,omitempty"`
	Sets    *models.SetsForPart `json:"sets,omitempty" yaml:"sets,omitempty"`
}

// New creates a client. Identification can take a while, hence the long timeout.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultServer
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 180 * time.Second,
		},
	}
}

// Health calls GET /api/health
func (c *Client) Health(ctx context.Context) (map[string]string, error) {
	var out map[string]string
	err := c.do(ctx, http.MethodGet, "/api/health", nil, &out)
	return out, err
}

// Identify posts img as a data URL
func (c *Client) Identify(ctx context.Context, img images.Image, mode identify.Mode) (*identify.Result, error) {
	body, err := json.Marshal(map[string]any{
		"imageBase64": img.DataURL(),
		"batchMode":   mode == identify.ModeBatch,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	var result identify.Result
	if err := c.do(ctx, http.MethodPost, "/api/identify", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchParts calls GET /api/parts/search
func (c *Client) SearchParts(ctx context.Context, query string, page, pageSize int) (models.PartSearch, error) {
	q := url.Values{}
	q.Set("query", query)
	setPaging(q, page, pageSize)

	var out models.PartSearch
	err := c.do(ctx, http.MethodGet, "/api/parts/search?"+q.Encode(), nil, &out)
	return out, err
}

// PartDetails calls GET /api/parts/{partNum}
func (c *Client) PartDetails(ctx context.Context, partNum string) (models.PartDetails, error) {
	var out models.PartDetails
	err := c.do(ctx, http.MethodGet, "/api/parts/"+url.PathEscape(partNum), nil, &out)
	return out, err
}

// SetsForPart calls GET /api/parts/{partNum}/sets
func (c *Client) SetsForPart(ctx context.Context, partNum string, page, pageSize int, color string) (models.SetsForPart, error) {
	q := url.Values{}
	setPaging(q, page, pageSize)
	if color != "" {
		q.Set("color", color)
	}

	path := "/api/parts/" + url.PathEscape(partNum) + "/sets"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out models.SetsForPart
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// SetInstructions calls GET /api/sets/{setNum}
func (c *Client) SetInstructions(ctx context.Context, setNum string) (models.SetInstructions, error) {
	var out models.SetInstructions
	err := c.do(ctx, http.MethodGet, "/api/sets/"+url.PathEscape(setNum), nil, &out)
	return out, err
}

// Scan identifies img and, for a single brick with a part number, looks up
// the sets it appears in. A failed sets lookup is logged and left out.
func (c *Client) Scan(ctx context.Context, img images.Image, mode identify.Mode) (*ScanResult, error) {
	result, err := c.Identify(ctx, img, mode)
	if err != nil {
		return nil, err
	}

	// the requested mode wins when the answer leaves batchMode out
	result.BatchMode = result.BatchMode || mode == identify.ModeBatch

	scan := &ScanResult{Result: result}
	if mode != identify.ModeSingle {
		return scan, nil
	}
	partNum := result.FirstPartNumber()
	if partNum == "" {
		return scan, nil
	}

	sets, err := c.SetsForPart(ctx, partNum, 1, SetsPageSize, "")
	switch {
	case err != nil:
		slog.Warn("Failed to fetch sets", "part_num", partNum, "error", err)
	case sets.Failed():
		slog.Warn("Failed to fetch sets", "part_num", partNum, "error", sets.Error)
	default:
		scan.PartNum = partNum
		scan.Sets = &sets
	}
	return scan, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call gateway: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error   string `json:"error"`
			Details string `json:"details"`
		}
		if json.Unmarshal(data, &apiErr) != nil || apiErr.Error == "" {
			apiErr.Error = strings.TrimSpace(string(data))
		}
		return &Error{StatusCode: resp.StatusCode, Message: apiErr.Error, Details: apiErr.Details}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func setPaging(q url.Values, page, pageSize int) {
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("pageSize", strconv.Itoa(pageSize))
	}
}
