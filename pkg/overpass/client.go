// Package overpass queries the Overpass API for OpenStreetMap features
// matching tag filters within a radius of a center point.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://overpass-api.de/api/interpreter"

// Client executes Overpass queries.
type Client interface {
	Search(ctx context.Context, q Query) ([]Element, error)
}

// Element is one raw OSM feature. Ways carry their centroid in Center;
// nodes carry coordinates directly.
type Element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    float64           `json:"lat,omitempty"`
	Lon    float64           `json:"lon,omitempty"`
	Center *Center           `json:"center,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

// Center is the centroid of a way element.
type Center struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Coordinates returns the element's effective coordinate, preferring the
// way centroid. ok is false when the element carries neither.
func (e *Element) Coordinates() (lat, lon float64, ok bool) {
	if e.Center != nil {
		return e.Center.Lat, e.Center.Lon, true
	}
	if e.Lat != 0 || e.Lon != 0 {
		return e.Lat, e.Lon, true
	}
	return 0, 0, false
}

// StatusError is returned for non-200 interpreter responses, which the
// public instances use liberally for load shedding.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("overpass: unexpected status %d", e.Code)
}

type response struct {
	Elements []Element `json:"elements"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default interpreter endpoint.
func WithBaseURL(u string) Option {
	return func(c *httpClient) { c.baseURL = u }
}

// WithHTTPClient overrides the default http.Client. The client timeout
// should exceed the server-side query timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

type httpClient struct {
	baseURL string
	http    *http.Client
}

// New creates an Overpass client.
func New(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 35 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search builds and executes the composite spatial query.
func (c *httpClient) Search(ctx context.Context, q Query) ([]Element, error) {
	ql, err := q.Build()
	if err != nil {
		return nil, err
	}

	form := url.Values{"data": {ql}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, eris.Wrap(err, "overpass: build request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "overpass: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "overpass: read body")
	}

	var parsed response
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, eris.Wrap(err, "overpass: parse response")
	}

	return parsed.Elements, nil
}
