package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/lpdesign/prospector/internal/config"
	"github.com/lpdesign/prospector/internal/db"
	"github.com/lpdesign/prospector/internal/model"
)

// PostgresStore implements Store using a pgx pool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, cfg config.StoreConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if cfg.MaxConns > 0 {
		maxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		minConns = cfg.MinConns
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool, primarily for tests.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS sessions (
	id             TEXT PRIMARY KEY,
	state          TEXT NOT NULL,
	city           TEXT NOT NULL,
	niche          TEXT NOT NULL,
	category       TEXT NOT NULL DEFAULT '',
	radius_km      INTEGER NOT NULL,
	center_lat     DOUBLE PRECISION NOT NULL,
	center_lon     DOUBLE PRECISION NOT NULL,
	center_default BOOLEAN NOT NULL DEFAULT FALSE,
	leads          JSONB NOT NULL,
	selected       JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at     TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_created_at ON sessions(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveSession(ctx context.Context, session *model.Session) error {
	leadsJSON, selectedJSON, err := encodeSession(session)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO sessions (id, state, city, niche, category, radius_km, center_lat, center_lon, center_default, leads, selected, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET leads = EXCLUDED.leads, selected = EXCLUDED.selected`,
		session.ID, session.State, session.City, session.Niche, session.Category,
		session.RadiusKm, session.CenterLat, session.CenterLon, session.CenterDefault,
		leadsJSON, selectedJSON, session.CreatedAt.UTC(),
	)
	return eris.Wrapf(err, "postgres: save session %s", session.ID)
}

func (s *PostgresStore) GetSession(ctx context.Context, id string) (*model.Session, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, state, city, niche, category, radius_km, center_lat, center_lon, center_default, leads::text, selected::text, created_at
		FROM sessions WHERE id = $1`, id)
	return s.scan(row)
}

func (s *PostgresStore) LatestSession(ctx context.Context) (*model.Session, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, state, city, niche, category, radius_km, center_lat, center_lon, center_default, leads::text, selected::text, created_at
		FROM sessions ORDER BY created_at DESC LIMIT 1`)
	return s.scan(row)
}

func (s *PostgresStore) scan(row pgx.Row) (*model.Session, error) {
	var sess model.Session
	var leadsJSON, selectedJSON string
	var createdAt time.Time

	err := row.Scan(&sess.ID, &sess.State, &sess.City, &sess.Niche, &sess.Category,
		&sess.RadiusKm, &sess.CenterLat, &sess.CenterLon, &sess.CenterDefault,
		&leadsJSON, &selectedJSON, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan session")
	}
	sess.CreatedAt = createdAt
	if err := decodeSession(&sess, leadsJSON, selectedJSON); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *PostgresStore) ListSessions(ctx context.Context, limit int) ([]model.SessionSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, state, city, niche, jsonb_array_length(leads), (SELECT count(*) FROM jsonb_object_keys(selected)), created_at
		FROM sessions ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list sessions")
	}
	defer rows.Close()

	var out []model.SessionSummary
	for rows.Next() {
		var sum model.SessionSummary
		if err := rows.Scan(&sum.ID, &sum.State, &sum.City, &sum.Niche, &sum.LeadCount, &sum.Selected, &sum.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan session summary")
		}
		out = append(out, sum)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list sessions")
}

func (s *PostgresStore) DeleteSession(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete session %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "postgres: %s", id)
	}
	return nil
}
