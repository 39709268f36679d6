// Package store persists prospecting sessions. Two backends exist: SQLite
// for single-operator local use, Postgres for a shared installation.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/lpdesign/prospector/internal/config"
	"github.com/lpdesign/prospector/internal/model"
)

// ErrNotFound is returned when a session ID does not exist.
var ErrNotFound = eris.New("store: session not found")

// Store defines session persistence. SaveSession upserts the whole session,
// leads and selection included; partial updates go through load-modify-save.
type Store interface {
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id string) (*model.Session, error)
	LatestSession(ctx context.Context) (*model.Session, error)
	ListSessions(ctx context.Context, limit int) ([]model.SessionSummary, error)
	DeleteSession(ctx context.Context, id string) error

	Migrate(ctx context.Context) error
	Close() error
}

// Open creates the store named by the configuration and runs migrations.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Driver {
	case "sqlite", "":
		s, err = NewSQLite(cfg.DatabaseURL)
	case "postgres":
		s, err = NewPostgres(ctx, cfg)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close() //nolint:errcheck
		return nil, err
	}
	return s, nil
}
