// Package trends wraps a SerpAPI-compatible Google Trends endpoint. The
// integration is optional: it needs an externally supplied API key, and the
// CLI degrades to a warning when none is configured.
package trends

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://serpapi.com"

// Client looks up search-interest series for keywords.
type Client interface {
	InterestOverTime(ctx context.Context, keyword, region string) ([]int, error)
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
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a trends client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type timeseriesResponse struct {
	InterestOverTime struct {
		TimelineData []struct {
			Values []struct {
				ExtractedValue int `json:"extracted_value"`
			} `json:"values"`
		} `json:"timeline_data"`
	} `json:"interest_over_time"`
}

// InterestOverTime returns the 0-100 interest values for a keyword over the
// last seven days in the given region (e.g. "BR" or "BR-ES").
func (c *httpClient) InterestOverTime(ctx context.Context, keyword, region string) ([]int, error) {
	params := url.Values{
		"engine":    {"google_trends"},
		"q":         {keyword},
		"data_type": {"TIMESERIES"},
		"date":      {"now 7-d"},
		"geo":       {region},
		"api_key":   {c.apiKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search.json?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "trends: build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "trends: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "trends: read body")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("trends: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var parsed timeseriesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, eris.Wrap(err, "trends: parse response")
	}

	var values []int
	for _, point := range parsed.InterestOverTime.TimelineData {
		for _, v := range point.Values {
			values = append(values, v.ExtractedValue)
		}
	}
	return values, nil
}

// Average returns the mean of the series, zero for an empty series.
func Average(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}
