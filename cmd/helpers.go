package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/lpdesign/prospector/internal/model"
	"github.com/lpdesign/prospector/internal/probe"
	"github.com/lpdesign/prospector/internal/prospect"
	"github.com/lpdesign/prospector/internal/scorer"
	"github.com/lpdesign/prospector/internal/store"
	"github.com/lpdesign/prospector/pkg/nominatim"
	"github.com/lpdesign/prospector/pkg/overpass"
)

// openStore opens the configured session store and runs migrations.
func openStore(ctx context.Context) (store.Store, error) {
	if err := cfg.Validate("store"); err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	return st, nil
}

// newEngine wires the search pipeline from configuration.
func newEngine() *prospect.Engine {
	geocoder := nominatim.New(
		nominatim.WithBaseURL(cfg.Geocode.BaseURL),
		nominatim.WithUserAgent(cfg.Geocode.UserAgent),
		nominatim.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Geocode.TimeoutSecs) * time.Second}),
		nominatim.WithRateLimit(cfg.Geocode.RatePerSec),
	)
	osm := overpass.New(
		overpass.WithBaseURL(cfg.Overpass.BaseURL),
		overpass.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Overpass.TimeoutSecs) * time.Second}),
	)
	prober := probe.New(cfg.Probe)
	return prospect.NewEngine(geocoder, osm, prober, scorer.New(cfg.Scorer), cfg)
}

// resolveSession loads the session with the given ID, or the most recent one
// when the ID is empty.
func resolveSession(ctx context.Context, st store.Store, id string) (*model.Session, error) {
	if id != "" {
		return st.GetSession(ctx, id)
	}
	sess, err := st.LatestSession(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "no session; run a search first")
	}
	return sess, nil
}
