package api

import (
	"compress/gzip"
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

	"github.com/glundgren93/railboard/internal/config"
	"github.com/glundgren93/railboard/internal/model"
)

// NavitiaTimeLayout is the naive local timestamp format Navitia uses.
const NavitiaTimeLayout = "20060102T150405"

// Client is the Navitia API client.
type Client struct {
	httpClient  *http.Client
	coverageURL string
	apiKey      string
}

// NewClient creates a Navitia client from the configuration.
func NewClient(cfg config.Config) *Client {
	return NewClientWithHTTP(cfg, &http.Client{Timeout: cfg.Timeout})
}

// NewClientWithHTTP creates a client with a custom HTTP client.
func NewClientWithHTTP(cfg config.Config, httpClient *http.Client) *Client {
	base := cfg.BaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return &Client{
		httpClient:  httpClient,
		coverageURL: base + "coverage/" + url.PathEscape(cfg.Coverage) + "/",
		apiKey:      cfg.APIKey,
	}
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	rawURL := c.coverageURL + endpoint
	if len(params) > 0 {
		rawURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if resp.StatusCode != http.StatusOK {
		// the status decides the error kind even when the body is unreadable
		return nil, newProviderError(resp.StatusCode, body)
	}
	if err != nil {
		return nil, err
	}

	return body, nil
}

func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: creating gzip reader: %w", ErrMalformedResponse, err)
		}
		defer gr.Close()
		reader = gr
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrProviderUnavailable, err)
	}
	return body, nil
}

func newProviderError(status int, body []byte) *ProviderError {
	pe := &ProviderError{StatusCode: status}
	var envelope struct {
		Error *model.APIError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		pe.ID = envelope.Error.ID
		pe.Message = envelope.Error.Message
		return pe
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	pe.Message = msg
	return pe
}

// --- Places API ---

// Places runs a text search restricted to stop areas.
func (c *Client) Places(ctx context.Context, query string) ([]model.Place, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Add("type[]", "stop_area")

	body, err := c.get(ctx, "places", params)
	if err != nil {
		return nil, err
	}
	var resp model.PlacesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: parsing places: %w", ErrMalformedResponse, err)
	}
	return resp.Places, nil
}

// --- Journeys API ---

// JourneyOptions configures a journeys request. At least one of From and To
// must be set.
type JourneyOptions struct {
	From       string
	To         string
	DateTime   time.Time
	Represents model.SortKey // departure or arrival
	Count      int
}

// Journeys queries the journeys endpoint. A "no solution" answer is returned
// as an empty response, not an error.
func (c *Client) Journeys(ctx context.Context, opts JourneyOptions) (*model.JourneysResponse, error) {
	if opts.From == "" && opts.To == "" {
		return nil, fmt.Errorf("%w: from or to station is required", ErrInvalidQuery)
	}

	params := url.Values{}
	if opts.From != "" {
		params.Set("from", opts.From)
	}
	if opts.To != "" {
		params.Set("to", opts.To)
	}
	if !opts.DateTime.IsZero() {
		params.Set("datetime", opts.DateTime.Format(NavitiaTimeLayout))
	}
	if opts.Represents != "" {
		params.Set("datetime_represents", string(opts.Represents))
	}
	if opts.Count > 0 {
		params.Set("count", strconv.Itoa(opts.Count))
	}
	params.Set("data_freshness", "realtime")

	body, err := c.get(ctx, "journeys", params)
	if err != nil {
		var pe *ProviderError
		if errors.As(err, &pe) && pe.NoSolution() {
			return &model.JourneysResponse{}, nil
		}
		return nil, err
	}
	var resp model.JourneysResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: parsing journeys: %w", ErrMalformedResponse, err)
	}
	return &resp, nil
}
