// Package probe inspects a lead's website: one GET with a short timeout,
// then a handful of cheap checks against the response. A probe never fails
// the surrounding search; any error collapses into an unreachable result.
package probe

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/lpdesign/prospector/internal/config"
	"github.com/lpdesign/prospector/internal/model"
)

const defaultUserAgent = "Mozilla/5.0 (compatible; prospector/1.0)"

// Prober checks a website and reports its technical health.
type Prober interface {
	Probe(ctx context.Context, rawURL string) *model.SiteProbe
}

// Option configures the prober.
type Option func(*httpProber)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(p *httpProber) { p.http = hc }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(p *httpProber) { p.userAgent = ua }
}

type httpProber struct {
	cfg       config.ProbeConfig
	http      *http.Client
	userAgent string
}

// New creates a prober with the given configuration.
func New(cfg config.ProbeConfig, opts ...Option) Prober {
	p := &httpProber{
		cfg:       cfg,
		userAgent: defaultUserAgent,
	}
	p.http = &http.Client{
		Timeout: time.Duration(cfg.TimeoutSecs) * time.Second,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Probe fetches the URL and evaluates it. The returned probe is never nil.
func (p *httpProber) Probe(ctx context.Context, rawURL string) *model.SiteProbe {
	result := &model.SiteProbe{ProbedAt: time.Now().UTC()}

	target := normalizeURL(rawURL)
	if target == "" {
		return result
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		zap.L().Debug("probe: bad url", zap.String("url", rawURL), zap.Error(err))
		return result
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.http.Do(req)
	if err != nil {
		zap.L().Debug("probe: request failed", zap.String("url", target), zap.Error(err))
		return result
	}
	defer resp.Body.Close() //nolint:errcheck

	result.ResponseTime = time.Since(start)
	result.StatusCode = resp.StatusCode
	result.Reachable = resp.StatusCode == http.StatusOK
	// The scheme of the final URL, after redirects, is what counts: an http://
	// entry that lands on https:// is fine.
	if resp.Request != nil && resp.Request.URL != nil {
		result.UsesHTTPS = resp.Request.URL.Scheme == "https"
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(p.cfg.MaxBodyBytes)))
	if err != nil {
		zap.L().Debug("probe: read body", zap.String("url", target), zap.Error(err))
		result.SEOScore = p.seoScore(result)
		return result
	}

	html := string(body)
	result.HasMobileViewport = hasViewport(html)
	result.IsWordPress = strings.Contains(html, "/wp-content/") || strings.Contains(html, "wp-includes")
	result.SEOScore = p.seoScore(result)
	return result
}

func (p *httpProber) seoScore(r *model.SiteProbe) int {
	score := 0
	if r.UsesHTTPS {
		score += p.cfg.SEOHTTPS
	}
	if r.Reachable {
		score += p.cfg.SEOReachable
	}
	if r.ResponseTime > 0 && r.ResponseTime < time.Duration(p.cfg.SlowThreshold)*time.Second {
		score += p.cfg.SEOFast
	}
	if r.HasMobileViewport {
		score += p.cfg.SEOViewport
	}
	return score
}

// normalizeURL prepends https:// when the value carries no scheme. OSM website
// tags are frequently bare hostnames.
func normalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return "https://" + raw
	}
	return raw
}

// hasViewport looks for a viewport meta tag. It parses the document first and
// falls back to a substring scan for pages goquery cannot parse.
func hasViewport(html string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err == nil {
		if doc.Find(`meta[name="viewport"]`).Length() > 0 {
			return true
		}
	}
	return strings.Contains(strings.ToLower(html), "viewport")
}
