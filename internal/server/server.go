// Package server exposes the prospecting pipeline over HTTP for the web
// dashboard frontend.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/lpdesign/prospector/internal/config"
	"github.com/lpdesign/prospector/internal/model"
	"github.com/lpdesign/prospector/internal/niche"
	"github.com/lpdesign/prospector/internal/prospect"
	"github.com/lpdesign/prospector/internal/store"
)

// Searcher runs prospecting searches. *prospect.Engine satisfies it.
type Searcher interface {
	Search(ctx context.Context, req prospect.Request) (*model.Session, error)
}

// Server is the HTTP API around the engine and the session store.
type Server struct {
	engine Searcher
	store  store.Store
	router *chi.Mux
	server *http.Server
	cfg    config.ServerConfig
}

// New creates a Server and registers its routes.
func New(engine Searcher, st store.Store, cfg config.ServerConfig) *Server {
	s := &Server{
		engine: engine,
		store:  st,
		cfg:    cfg,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Get("/niches", s.handleNiches)
		r.Get("/sessions", s.handleListSessions)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Put("/selection", s.handleSelection)
		})
	})

	s.router = r
	return s
}

// Handler returns the HTTP handler, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	zap.L().Info("starting server", zap.Int("port", s.cfg.Port))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type searchRequest struct {
	State    string `json:"state"`
	City     string `json:"city"`
	Niche    string `json:"niche"`
	Category string `json:"category,omitempty"`
	RadiusKm int    `json:"radius_km,omitempty"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.State == "" || req.City == "" || req.Niche == "" {
		writeError(w, http.StatusBadRequest, "state, city and niche are required")
		return
	}

	session, err := s.engine.Search(r.Context(), prospect.Request{
		State:    req.State,
		City:     req.City,
		Niche:    req.Niche,
		Category: req.Category,
		RadiusKm: req.RadiusKm,
	})
	if err != nil {
		if errors.Is(err, prospect.ErrNoLeads) {
			writeError(w, http.StatusNotFound, "no establishments found; try a wider radius or another niche")
			return
		}
		zap.L().Error("search failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "search failed")
		return
	}

	if err := s.store.SaveSession(r.Context(), session); err != nil {
		zap.L().Error("save session failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not persist session")
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleNiches(w http.ResponseWriter, r *http.Request) {
	type nicheEntry struct {
		Name       string   `json:"name"`
		Categories []string `json:"categories"`
	}
	var out []nicheEntry
	for _, name := range niche.All() {
		out = append(out, nicheEntry{Name: name, Categories: niche.Categories(name)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sums, err := s.store.ListSessions(r.Context(), 50)
	if err != nil {
		zap.L().Error("list sessions failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not list sessions")
		return
	}
	if sums == nil {
		sums = []model.SessionSummary{}
	}
	writeJSON(w, http.StatusOK, sums)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.store.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		zap.L().Error("get session failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load session")
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	err := s.store.DeleteSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		zap.L().Error("delete session failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not delete session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type selectionRequest struct {
	LeadIDs  []int `json:"lead_ids"`
	Selected bool  `json:"selected"`
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := s.store.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		zap.L().Error("get session failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load session")
		return
	}

	for _, id := range req.LeadIDs {
		if session.Lead(id) == nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("lead %d not in session", id))
			return
		}
	}
	for _, id := range req.LeadIDs {
		session.Select(id, req.Selected)
	}

	if err := s.store.SaveSession(r.Context(), session); err != nil {
		zap.L().Error("save session failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not persist selection")
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
