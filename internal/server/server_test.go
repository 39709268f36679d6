package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lpdesign/prospector/internal/config"
	"github.com/lpdesign/prospector/internal/model"
	"github.com/lpdesign/prospector/internal/prospect"
	"github.com/lpdesign/prospector/internal/store"
)

type fakeSearcher struct {
	session *model.Session
	err     error
	lastReq prospect.Request
}

func (f *fakeSearcher) Search(_ context.Context, req prospect.Request) (*model.Session, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

func newTestServer(t *testing.T, searcher *fakeSearcher) (*Server, store.Store) {
	t.Helper()
	st, err := store.NewSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { st.Close() })

	if searcher == nil {
		searcher = &fakeSearcher{}
	}
	return New(searcher, st, config.ServerConfig{Port: 0, AllowedOrigins: []string{"*"}}), st
}

func storedSession(t *testing.T, st store.Store) *model.Session {
	t.Helper()
	sess := &model.Session{
		ID:    "sess-1",
		State: "ES", City: "Vitória", Niche: "Padarias", RadiusKm: 5,
		Leads: []model.Lead{
			{ID: 1, Name: "Padaria Central"},
			{ID: 2, Name: "Padaria do Bairro"},
		},
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, st.SaveSession(context.Background(), sess))
	return sess
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSearchEndpoint(t *testing.T) {
	searcher := &fakeSearcher{session: &model.Session{
		ID: "sess-new", State: "ES", City: "Vitória", Niche: "Padarias",
		Leads:     []model.Lead{{ID: 1, Name: "Padaria Central"}},
		CreatedAt: time.Now().UTC(),
	}}
	s, st := newTestServer(t, searcher)

	body := bytes.NewBufferString(`{"state":"ES","city":"Vitória","niche":"Padarias","radius_km":10}`)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/search", body))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, searcher.lastReq.RadiusKm)

	// The session must be persisted, not just returned.
	got, err := st.GetSession(context.Background(), "sess-new")
	require.NoError(t, err)
	assert.Len(t, got.Leads, 1)
}

func TestSearchEndpointValidation(t *testing.T) {
	s, _ := newTestServer(t, nil)

	body := bytes.NewBufferString(`{"state":"ES"}`)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/search", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "required")
}

func TestSearchEndpointNoLeads(t *testing.T) {
	s, _ := newTestServer(t, &fakeSearcher{err: prospect.ErrNoLeads})

	body := bytes.NewBufferString(`{"state":"ES","city":"Vitória","niche":"Padarias"}`)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/search", body))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "wider radius")
}

func TestNichesEndpoint(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/niches", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var entries []struct {
		Name       string   `json:"name"`
		Categories []string `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	assert.NotEmpty(t, entries)
}

func TestGetSessionEndpoint(t *testing.T) {
	s, st := newTestServer(t, nil)
	storedSession(t, st)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/sess-1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Padaria Central")
}

func TestGetSessionEndpointNotFound(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSelectionEndpoint(t *testing.T) {
	s, st := newTestServer(t, nil)
	storedSession(t, st)

	body := bytes.NewBufferString(`{"lead_ids":[1,2],"selected":true}`)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/sessions/sess-1/selection", body))

	require.Equal(t, http.StatusOK, rec.Code)

	got, err := st.GetSession(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Len(t, got.SelectedLeads(), 2)
}

func TestSelectionEndpointUnknownLead(t *testing.T) {
	s, st := newTestServer(t, nil)
	storedSession(t, st)

	body := bytes.NewBufferString(`{"lead_ids":[99],"selected":true}`)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/sessions/sess-1/selection", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	got, err := st.GetSession(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Empty(t, got.SelectedLeads())
}

func TestDeleteSessionEndpoint(t *testing.T) {
	s, st := newTestServer(t, nil)
	storedSession(t, st)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/sessions/sess-1", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, err := st.GetSession(context.Background(), "sess-1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListSessionsEndpointEmpty(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
