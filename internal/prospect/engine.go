// Package prospect runs the full lead search: geocode the city, query
// OpenStreetMap for matching establishments, probe their websites, and score
// each one as a sales opportunity.
package prospect

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lpdesign/prospector/internal/config"
	"github.com/lpdesign/prospector/internal/geo"
	"github.com/lpdesign/prospector/internal/model"
	"github.com/lpdesign/prospector/internal/niche"
	"github.com/lpdesign/prospector/internal/probe"
	"github.com/lpdesign/prospector/internal/resilience"
	"github.com/lpdesign/prospector/internal/scorer"
	"github.com/lpdesign/prospector/internal/whatsapp"
	"github.com/lpdesign/prospector/pkg/nominatim"
	"github.com/lpdesign/prospector/pkg/overpass"
)

// Request describes one prospecting search.
type Request struct {
	State    string
	City     string
	Niche    string
	Category string
	RadiusKm int
}

// Engine orchestrates the search pipeline.
type Engine struct {
	geocoder nominatim.Client
	osm      overpass.Client
	prober   probe.Prober
	scorer   *scorer.Scorer
	cfg      *config.Config
}

// NewEngine creates an Engine from already-constructed clients.
func NewEngine(geocoder nominatim.Client, osm overpass.Client, prober probe.Prober, sc *scorer.Scorer, cfg *config.Config) *Engine {
	return &Engine{
		geocoder: geocoder,
		osm:      osm,
		prober:   prober,
		scorer:   sc,
		cfg:      cfg,
	}
}

// Search runs the whole pipeline and returns a fresh session. It fails only
// on infrastructure errors; an empty result returns ErrNoLeads so callers
// can suggest a wider radius or another niche.
func (e *Engine) Search(ctx context.Context, req Request) (*model.Session, error) {
	if req.RadiusKm <= 0 {
		req.RadiusKm = e.cfg.Search.RadiusKm
	}

	tags, err := niche.TagFilters(req.Niche, req.Category)
	if err != nil {
		return nil, err
	}
	filters, err := overpass.ParseTagFilters(tags)
	if err != nil {
		return nil, err
	}

	center, usedDefault := e.geocode(ctx, req.City, req.State)

	elements, err := e.searchOSM(ctx, center, req.RadiusKm, filters)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, eris.Wrapf(ErrNoLeads, "prospect: %s/%s niche %q radius %dkm",
			req.City, req.State, req.Niche, req.RadiusKm)
	}

	leads := e.buildLeads(elements, center, req)
	e.probeAll(ctx, leads)
	leads = e.scorer.ScoreAll(leads)

	session := &model.Session{
		ID:            uuid.NewString(),
		State:         req.State,
		City:          req.City,
		Niche:         req.Niche,
		Category:      req.Category,
		RadiusKm:      req.RadiusKm,
		CenterLat:     geo.Lat(center),
		CenterLon:     geo.Lon(center),
		CenterDefault: usedDefault,
		Leads:         leads,
		CreatedAt:     time.Now().UTC(),
	}

	zap.L().Info("search complete",
		zap.String("session_id", session.ID),
		zap.String("city", req.City),
		zap.String("niche", req.Niche),
		zap.Int("leads", len(leads)),
		zap.Bool("center_default", usedDefault),
	)
	return session, nil
}

// geocode resolves "city, state, Brasil" to a coordinate. Failures and empty
// results fall back to the default coordinate rather than aborting the
// search; the session records that the center is approximate.
func (e *Engine) geocode(ctx context.Context, city, state string) (center *geom.Point, usedDefault bool) {
	query := fmt.Sprintf("%s, %s, Brasil", city, state)
	result, err := e.geocoder.Geocode(ctx, query)
	if err != nil {
		zap.L().Warn("geocode failed, using default center",
			zap.String("query", query),
			zap.Error(err),
		)
		return geo.Point(geo.DefaultLat, geo.DefaultLon), true
	}
	return geo.Point(result.Latitude, result.Longitude), false
}

func (e *Engine) searchOSM(ctx context.Context, center *geom.Point, radiusKm int, filters []overpass.TagFilter) ([]overpass.Element, error) {
	q := overpass.Query{
		Lat:         geo.Lat(center),
		Lon:         geo.Lon(center),
		RadiusM:     radiusKm * 1000,
		Tags:        filters,
		TimeoutSecs: e.cfg.Overpass.QueryTimeout,
	}

	retryCfg := resilience.DefaultRetryConfig(e.cfg.Overpass.MaxAttempts)
	retryCfg.ShouldRetry = func(err error) bool {
		var se *overpass.StatusError
		if errors.As(err, &se) {
			return resilience.IsTransientHTTPStatus(se.Code)
		}
		return resilience.IsTransient(err)
	}

	elements, err := resilience.DoVal(ctx, "overpass", retryCfg, func(ctx context.Context) ([]overpass.Element, error) {
		return e.osm.Search(ctx, q)
	})
	if err != nil {
		return nil, eris.Wrap(err, "prospect: establishment search")
	}
	return elements, nil
}

// buildLeads converts raw OSM elements into leads, applying the tag fallback
// chains and capping the result at the configured maximum.
func (e *Engine) buildLeads(elements []overpass.Element, center *geom.Point, req Request) []model.Lead {
	limit := e.cfg.Search.MaxResults
	leads := make([]model.Lead, 0, len(elements))

	for _, el := range elements {
		if limit > 0 && len(leads) >= limit {
			break
		}
		lat, lon, ok := el.Coordinates()
		if !ok {
			continue
		}

		id := len(leads) + 1
		phone := tagOr(el.Tags, "", "phone", "contact:phone")
		lead := model.Lead{
			ID:            id,
			Name:          tagOr(el.Tags, fmt.Sprintf("Estabelecimento %d", id), "name"),
			NicheGeneral:  req.Niche,
			NicheSpecific: specificNiche(el.Tags, req.Category),
			State:         req.State,
			City:          req.City,
			Address:       buildAddress(el.Tags, req.City, req.State),
			Phone:         phone,
			WhatsApp:      whatsapp.Digits(phone),
			Email:         tagOr(el.Tags, "", "email", "contact:email"),
			Website:       tagOr(el.Tags, "", "website", "contact:website"),
			Facebook:      tagOr(el.Tags, "", "contact:facebook"),
			Instagram:     tagOr(el.Tags, "", "contact:instagram"),
			OpeningHours:  el.Tags["opening_hours"],
			Latitude:      lat,
			Longitude:     lon,
			DistanceKm:    geo.DistanceKm(center, geo.Point(lat, lon)),
		}
		leads = append(leads, lead)
	}
	return leads
}

// probeAll fans probes out over the leads that have websites. Probe failures
// degrade to zero-value probes, never to search failures.
func (e *Engine) probeAll(ctx context.Context, leads []model.Lead) {
	g, ctx := errgroup.WithContext(ctx)
	if n := e.cfg.Search.ProbeConcurrency; n > 0 {
		g.SetLimit(n)
	} else {
		g.SetLimit(5)
	}

	for i := range leads {
		if !leads[i].HasWebsite() {
			continue
		}
		lead := &leads[i]
		g.Go(func() error {
			lead.Probe = e.prober.Probe(ctx, lead.Website)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors
}

// specificNiche prefers the operator-requested category; without one, the
// element's own classifying tag names the specific niche.
func specificNiche(tags map[string]string, category string) string {
	if category != "" {
		return category
	}
	return tagOr(tags, "outros", "amenity", "shop", "office")
}

// tagOr returns the first non-empty tag among keys, else the fallback.
func tagOr(tags map[string]string, fallback string, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(tags[k]); v != "" {
			return v
		}
	}
	return fallback
}

// buildAddress composes "street, number" from address tags, falling back to
// "city/UF" when the element has no street.
func buildAddress(tags map[string]string, city, state string) string {
	street := strings.TrimSpace(tags["addr:street"])
	if street == "" {
		return fmt.Sprintf("%s/%s", city, state)
	}
	if number := strings.TrimSpace(tags["addr:housenumber"]); number != "" {
		return street + ", " + number
	}
	return street
}
