package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/lpdesign/prospector/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL
// mode. An empty path means a local prospector.db file.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		dsn = "prospector.db"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS sessions (
	id             TEXT PRIMARY KEY,
	state          TEXT NOT NULL,
	city           TEXT NOT NULL,
	niche          TEXT NOT NULL,
	category       TEXT NOT NULL DEFAULT '',
	radius_km      INTEGER NOT NULL,
	center_lat     REAL NOT NULL,
	center_lon     REAL NOT NULL,
	center_default INTEGER NOT NULL DEFAULT 0,
	leads          TEXT NOT NULL,
	selected       TEXT NOT NULL DEFAULT '{}',
	created_at     DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_created_at ON sessions(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveSession(ctx context.Context, session *model.Session) error {
	leadsJSON, selectedJSON, err := encodeSession(session)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, state, city, niche, category, radius_km, center_lat, center_lon, center_default, leads, selected, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET leads = excluded.leads, selected = excluded.selected`,
		session.ID, session.State, session.City, session.Niche, session.Category,
		session.RadiusKm, session.CenterLat, session.CenterLon, session.CenterDefault,
		leadsJSON, selectedJSON, session.CreatedAt.UTC(),
	)
	return eris.Wrapf(err, "sqlite: save session %s", session.ID)
}

func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*model.Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, state, city, niche, category, radius_km, center_lat, center_lon, center_default, leads, selected, created_at
		FROM sessions WHERE id = ?`, id)
	return scanSession(row)
}

func (s *SQLiteStore) LatestSession(ctx context.Context) (*model.Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, state, city, niche, category, radius_km, center_lat, center_lon, center_default, leads, selected, created_at
		FROM sessions ORDER BY created_at DESC LIMIT 1`)
	return scanSession(row)
}

func (s *SQLiteStore) ListSessions(ctx context.Context, limit int) ([]model.SessionSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, state, city, niche, leads, selected, created_at
		FROM sessions ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list sessions")
	}
	defer rows.Close() //nolint:errcheck

	var out []model.SessionSummary
	for rows.Next() {
		var sum model.SessionSummary
		var leadsJSON, selectedJSON string
		var createdAt time.Time
		if err := rows.Scan(&sum.ID, &sum.State, &sum.City, &sum.Niche, &leadsJSON, &selectedJSON, &createdAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan session summary")
		}
		sum.CreatedAt = createdAt
		sum.LeadCount, sum.Selected = countSession(leadsJSON, selectedJSON)
		out = append(out, sum)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list sessions")
}

func (s *SQLiteStore) DeleteSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete session %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "sqlite: %s", id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanSession(row scannable) (*model.Session, error) {
	var sess model.Session
	var leadsJSON, selectedJSON string
	var createdAt time.Time
	err := row.Scan(&sess.ID, &sess.State, &sess.City, &sess.Niche, &sess.Category,
		&sess.RadiusKm, &sess.CenterLat, &sess.CenterLon, &sess.CenterDefault,
		&leadsJSON, &selectedJSON, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan session")
	}
	sess.CreatedAt = createdAt
	if err := decodeSession(&sess, leadsJSON, selectedJSON); err != nil {
		return nil, err
	}
	return &sess, nil
}

func encodeSession(session *model.Session) (leadsJSON, selectedJSON string, err error) {
	leads, err := json.Marshal(session.Leads)
	if err != nil {
		return "", "", eris.Wrap(err, "store: marshal leads")
	}
	selected := session.Selected
	if selected == nil {
		selected = map[int]bool{}
	}
	sel, err := json.Marshal(selected)
	if err != nil {
		return "", "", eris.Wrap(err, "store: marshal selection")
	}
	return string(leads), string(sel), nil
}

func decodeSession(sess *model.Session, leadsJSON, selectedJSON string) error {
	if err := json.Unmarshal([]byte(leadsJSON), &sess.Leads); err != nil {
		return eris.Wrap(err, "store: unmarshal leads")
	}
	if selectedJSON != "" {
		if err := json.Unmarshal([]byte(selectedJSON), &sess.Selected); err != nil {
			return eris.Wrap(err, "store: unmarshal selection")
		}
	}
	if len(sess.Selected) == 0 {
		sess.Selected = nil
	}
	return nil
}

func countSession(leadsJSON, selectedJSON string) (leadCount, selected int) {
	var leads []json.RawMessage
	if json.Unmarshal([]byte(leadsJSON), &leads) == nil {
		leadCount = len(leads)
	}
	var sel map[int]bool
	if json.Unmarshal([]byte(selectedJSON), &sel) == nil {
		selected = len(sel)
	}
	return leadCount, selected
}
