package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the Rebrickable v3 API root
const DefaultBaseURL = "https://rebrickable.com/api/v3"

// ErrNotConfigured is returned before any request is made when no API key is set
var ErrNotConfigured = errors.New("rebrickable API key not configured")

// APIError is returned when Rebrickable answers with a non-2xx status
type APIError struct {
	StatusCode int
	Status     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Rebrickable API error: %d %s", e.StatusCode, e.Status)
}

// Client represents a Rebrickable API client
type Client struct {
	BaseURL    string
	APIKey     string
	httpClient *http.Client
}

// Part is a row of /lego/parts/
type Part struct {
	PartNum    string `json:"part_num"`
	Name       string `json:"name"`
	PartCatID  int    `json:"part_cat_id"`
	YearFrom   int    `json:"year_from"`
	YearTo     int    `json:"year_to"`
	PartURL    string `json:"part_url"`
	PartImgURL string `json:"part_img_url"`
}

// PartColor is a row of /lego/parts/{part_num}/colors/
type PartColor struct {
	ColorID     int    `json:"color_id"`
	ColorName   string `json:"color_name"`
	NumSets     int    `json:"num_sets"`
	NumSetParts int    `json:"num_set_parts"`
	PartImgURL  string `json:"part_img_url"`
}

// SetAppearance is a row of /lego/parts/{part_num}/colors/{color_id}/sets/.
// Older responses prefix the set fields with set_, newer ones do not.
type SetAppearance struct {
	SetNum      string `json:"set_num"`
	SetName     string `json:"set_name"`
	Name        string `json:"name"`
	SetYear     int    `json:"set_year"`
	Year        int    `json:"year"`
	SetNumParts int    `json:"set_num_parts"`
	NumParts    int    `json:"num_parts"`
	SetImgURL   string `json:"set_img_url"`
	Quantity    int    `json:"quantity"`
}

// Set is the body of /lego/sets/{set_num}/
type Set struct {
	SetNum    string `json:"set_num"`
	Name      string `json:"name"`
	Year      int    `json:"year"`
	ThemeID   int    `json:"theme_id"`
	NumParts  int    `json:"num_parts"`
	SetImgURL string `json:"set_img_url"`
	SetURL    string `json:"set_url"`
}

// Page is one page of a paginated Rebrickable list
type Page[T any] struct {
	Count    int    `json:"count"`
	Next     string `json:"next"`
	Previous string `json:"previous"`
	Results  []T    `json:"results"`
}

// NewClient creates a new Rebrickable client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Configured reports whether an API key is set
func (c *Client) Configured() bool {
	return c.APIKey != ""
}

// SearchParts runs a free-text part search
func (c *Client) SearchParts(ctx context.Context, query string, page, pageSize int) (Page[Part], error) {
	var out Page[Part]
	q := url.Values{}
	q.Set("search", query)
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	err := c.get(ctx, "/lego/parts/", q, &out)
	return out, err
}

// GetPart fetches a single part
func (c *Client) GetPart(ctx context.Context, partNum string) (Part, error) {
	var out Part
	err := c.get(ctx, fmt.Sprintf("/lego/parts/%s/", url.PathEscape(partNum)), nil, &out)
	return out, err
}

// PartColors lists the colors a part has appeared in
func (c *Client) PartColors(ctx context.Context, partNum string) (Page[PartColor], error) {
	var out Page[PartColor]
	err := c.get(ctx, fmt.Sprintf("/lego/parts/%s/colors/", url.PathEscape(partNum)), nil, &out)
	return out, err
}

// SetsForPartColor lists sets containing a part in one color
func (c *Client) SetsForPartColor(ctx context.Context, partNum string, colorID, page, pageSize int) (Page[SetAppearance], error) {
	var out Page[SetAppearance]
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	path := fmt.Sprintf("/lego/parts/%s/colors/%d/sets/", url.PathEscape(partNum), colorID)
	err := c.get(ctx, path, q, &out)
	return out, err
}

// GetSet fetches a single set
func (c *Client) GetSet(ctx context.Context, setNum string) (Set, error) {
	var out Set
	err := c.get(ctx, fmt.Sprintf("/lego/sets/%s/", url.PathEscape(setNum)), nil, &out)
	return out, err
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	endpoint := c.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "key "+c.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call Rebrickable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode Rebrickable response: %w", err)
	}
	return nil
}
