// Package ibge is a client for the public IBGE localities API, used to
// enumerate Brazilian states and their municipalities.
package ibge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://servicodados.ibge.gov.br/api/v1/localidades"

// State is one federative unit.
type State struct {
	ID   int    `json:"id"`
	Code string `json:"sigla"`
	Name string `json:"nome"`
}

// Client looks up Brazilian localities.
type Client interface {
	States(ctx context.Context) ([]State, error)
	Cities(ctx context.Context, uf string) ([]string, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) { c.baseURL = u }
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

type httpClient struct {
	baseURL string
	http    *http.Client
}

// New creates an IBGE client.
func New(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// States returns all states sorted by their two-letter code.
func (c *httpClient) States(ctx context.Context) ([]State, error) {
	var states []State
	if err := c.getJSON(ctx, c.baseURL+"/estados", &states); err != nil {
		return nil, err
	}
	sort.Slice(states, func(i, j int) bool { return states[i].Code < states[j].Code })
	return states, nil
}

// Cities returns the municipality names of a state, sorted.
func (c *httpClient) Cities(ctx context.Context, uf string) ([]string, error) {
	var municipalities []struct {
		Name string `json:"nome"`
	}
	u := fmt.Sprintf("%s/estados/%s/municipios", c.baseURL, uf)
	if err := c.getJSON(ctx, u, &municipalities); err != nil {
		return nil, err
	}

	cities := make([]string, len(municipalities))
	for i, m := range municipalities {
		cities[i] = m.Name
	}
	sort.Strings(cities)
	return cities, nil
}

func (c *httpClient) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return eris.Wrap(err, "ibge: build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "ibge: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("ibge: unexpected status %d from %s", resp.StatusCode, u)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "ibge: read body")
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "ibge: parse response")
	}
	return nil
}
