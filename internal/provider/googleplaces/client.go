// Package googleplaces implements the provider contracts against the
// Google Maps web service endpoints.
package googleplaces

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/forkcast/forkcast/internal/provider"
)

const defaultBaseURL = "https://maps.googleapis.com"

var _ provider.Places = (*Client)(nil)
var _ provider.Geocoder = (*Client)(nil)

// Config carries everything the client needs to reach the provider.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client is the process-wide provider session. The underlying HTTP
// session is created lazily on first use and reused afterwards.
type Client struct {
	cfg    Config
	logger *slog.Logger

	mu         sync.Mutex
	ready      bool
	initErr    error
	httpClient *http.Client
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{cfg: cfg, logger: logger}
}

// ensureSession lazily initializes the HTTP session. Idempotent; a
// failed initialization is remembered and returned to every caller.
func (c *Client) ensureSession() (*http.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ready {
		return c.httpClient, c.initErr
	}

	c.ready = true
	if c.cfg.APIKey == "" {
		c.initErr = fmt.Errorf("provider API key is not configured")
		return nil, c.initErr
	}
	c.httpClient = &http.Client{Timeout: c.cfg.Timeout}
	c.logger.Debug("provider session initialized", slog.String("base_url", c.cfg.BaseURL))
	return c.httpClient, nil
}

func (c *Client) TextSearch(ctx context.Context, req provider.TextSearchRequest) (*provider.TextSearchResponse, error) {
	q := url.Values{}
	if req.PageToken != "" {
		q.Set("pagetoken", req.PageToken)
	} else {
		q.Set("location", fmt.Sprintf("%f,%f", req.Lat, req.Lng))
		q.Set("radius", strconv.FormatFloat(req.RadiusMeters, 'f', -1, 64))
		q.Set("query", req.Query)
	}

	var resp provider.TextSearchResponse
	if err := c.getJSON(ctx, "/maps/api/place/textsearch/json", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Details(ctx context.Context, req provider.DetailsRequest) (*provider.DetailsResponse, error) {
	q := url.Values{}
	q.Set("place_id", req.PlaceID)
	if len(req.Fields) > 0 {
		q.Set("fields", strings.Join(req.Fields, ","))
	}

	var resp provider.DetailsResponse
	if err := c.getJSON(ctx, "/maps/api/place/details/json", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Autocomplete(ctx context.Context, input string) (*provider.AutocompleteResponse, error) {
	q := url.Values{}
	q.Set("input", input)

	var resp provider.AutocompleteResponse
	if err := c.getJSON(ctx, "/maps/api/place/autocomplete/json", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Geocode(ctx context.Context, address string) (*provider.GeocodeResponse, error) {
	q := url.Values{}
	q.Set("address", address)

	var resp provider.GeocodeResponse
	if err := c.getJSON(ctx, "/maps/api/geocode/json", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PhotoURL builds a bounded-width photo URL. Pure string work, so it
// does not require the session.
func (c *Client) PhotoURL(photoReference string, maxWidth int) string {
	q := url.Values{}
	q.Set("maxwidth", strconv.Itoa(maxWidth))
	q.Set("photo_reference", photoReference)
	q.Set("key", c.cfg.APIKey)
	return fmt.Sprintf("%s/maps/api/place/photo?%s", c.cfg.BaseURL, q.Encode())
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	httpClient, err := c.ensureSession()
	if err != nil {
		return err
	}

	q.Set("key", c.cfg.APIKey)
	endpoint := fmt.Sprintf("%s%s?%s", c.cfg.BaseURL, path, q.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build provider request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider returned HTTP %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode provider response: %w", err)
	}
	return nil
}
