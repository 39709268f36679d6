// Package nominatim is a minimal client for the OpenStreetMap Nominatim
// geocoding service. It honors the service's usage policy: a fixed
// User-Agent and at most one request per second (enforced with a rate
// limiter rather than a hard-coded sleep).
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://nominatim.openstreetmap.org"

// ErrNoResults indicates a well-formed response with zero matches.
var ErrNoResults = eris.New("nominatim: no results")

// Client performs geocoding lookups.
type Client interface {
	Geocode(ctx context.Context, query string) (*Result, error)
}

// Result is a resolved coordinate.
type Result struct {
	Latitude    float64
	Longitude   float64
	DisplayName string
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default service base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) { c.baseURL = u }
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(ua string) Option {
	return func(c *httpClient) { c.userAgent = ua }
}

// WithRateLimit replaces the default 1 req/s limiter.
func WithRateLimit(r float64) Option {
	return func(c *httpClient) {
		if r > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(r), 1)
		}
	}
}

type httpClient struct {
	baseURL   string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
}

// New creates a Nominatim client.
func New(opts ...Option) Client {
	c := &httpClient{
		baseURL:   defaultBaseURL,
		userAgent: "LP-Design-Prospector/2.0",
		http:      &http.Client{Timeout: 10 * time.Second},
		limiter:   rate.NewLimiter(1, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// searchItem is one entry of the Nominatim /search JSON response. Coordinates
// come back as strings.
type searchItem struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves a free-text query to its best-match coordinate.
func (c *httpClient) Geocode(ctx context.Context, query string) (*Result, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "nominatim: rate limit")
	}

	params := url.Values{
		"q":      {query},
		"format": {"json"},
		"limit":  {"1"},
	}
	reqURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "nominatim: build request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "nominatim: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("nominatim: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "nominatim: read body")
	}

	var items []searchItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, eris.Wrap(err, "nominatim: parse response")
	}
	if len(items) == 0 {
		return nil, eris.Wrap(ErrNoResults, query)
	}

	lat, err := strconv.ParseFloat(items[0].Lat, 64)
	if err != nil {
		return nil, eris.Wrap(err, "nominatim: parse lat")
	}
	lon, err := strconv.ParseFloat(items[0].Lon, 64)
	if err != nil {
		return nil, eris.Wrap(err, "nominatim: parse lon")
	}

	return &Result{Latitude: lat, Longitude: lon, DisplayName: items[0].DisplayName}, nil
}
