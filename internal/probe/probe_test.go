package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lpdesign/prospector/internal/config"
)

func testConfig() config.ProbeConfig {
	return config.ProbeConfig{
		TimeoutSecs:   5,
		MaxBodyBytes:  256 * 1024,
		SEOHTTPS:      20,
		SEOReachable:  30,
		SEOFast:       20,
		SEOViewport:   30,
		SlowThreshold: 3,
	}
}

func TestProbeHealthySite(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><meta name="viewport" content="width=device-width"></head><body>ok</body></html>`))
	}))
	defer server.Close()

	p := New(testConfig(), WithHTTPClient(server.Client()))
	result := p.Probe(context.Background(), server.URL)

	require.NotNil(t, result)
	assert.True(t, result.Reachable)
	assert.True(t, result.UsesHTTPS)
	assert.True(t, result.HasMobileViewport)
	assert.False(t, result.IsWordPress)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	// https 20 + reachable 30 + fast 20 + viewport 30
	assert.Equal(t, 100, result.SEOScore)
}

func TestProbePlainHTTPNoViewport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><script src="/wp-content/themes/x/app.js"></script></body></html>`))
	}))
	defer server.Close()

	p := New(testConfig())
	result := p.Probe(context.Background(), server.URL)

	assert.True(t, result.Reachable)
	assert.False(t, result.UsesHTTPS)
	assert.False(t, result.HasMobileViewport)
	assert.True(t, result.IsWordPress)
	assert.Equal(t, 50, result.SEOScore)
}

func TestProbeNon200IsUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	p := New(testConfig())
	result := p.Probe(context.Background(), server.URL)

	assert.False(t, result.Reachable)
	assert.Equal(t, http.StatusServiceUnavailable, result.StatusCode)
}

func TestProbeUnreachableHost(t *testing.T) {
	p := New(testConfig())
	result := p.Probe(context.Background(), "http://127.0.0.1:1")

	require.NotNil(t, result)
	assert.False(t, result.Reachable)
	assert.Zero(t, result.StatusCode)
	assert.Zero(t, result.SEOScore)
}

func TestProbeEmptyURL(t *testing.T) {
	p := New(testConfig())
	result := p.Probe(context.Background(), "   ")

	require.NotNil(t, result)
	assert.False(t, result.Reachable)
}

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "https://example.com.br", normalizeURL("example.com.br"))
	assert.Equal(t, "http://example.com.br", normalizeURL("http://example.com.br"))
	assert.Equal(t, "https://example.com.br", normalizeURL(" https://example.com.br "))
	assert.Empty(t, normalizeURL(""))
}

func TestHasViewportFallback(t *testing.T) {
	// Malformed markup still matches via the substring fallback.
	assert.True(t, hasViewport(`<<>< meta VIEWPORT broken`))
	assert.False(t, hasViewport(`<html><body>nothing here</body></html>`))
}
