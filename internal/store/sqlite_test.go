package store

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lpdesign/prospector/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func testSession(id string) *model.Session {
	return &model.Session{
		ID:        id,
		State:     "ES",
		City:      "Vitória",
		Niche:     "Padarias",
		RadiusKm:  5,
		CenterLat: -20.3155,
		CenterLon: -40.3128,
		Leads: []model.Lead{
			{ID: 1, Name: "Padaria Central", Phone: "27999990001",
				Score: &model.ScoreResult{Opportunity: 55, Tier: model.TierMedium}},
			{ID: 2, Name: "Padaria do Bairro"},
		},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestSQLiteSaveAndGetSession(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	sess := testSession("sess-1")
	require.NoError(t, s.SaveSession(ctx, sess))

	got, err := s.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "Vitória", got.City)
	require.Len(t, got.Leads, 2)
	assert.Equal(t, "Padaria Central", got.Leads[0].Name)
	require.NotNil(t, got.Leads[0].Score)
	assert.Equal(t, model.TierMedium, got.Leads[0].Score.Tier)
	assert.Nil(t, got.Selected)
}

func TestSQLiteSaveSessionUpsertsSelection(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	sess := testSession("sess-1")
	require.NoError(t, s.SaveSession(ctx, sess))

	sess.Select(2, true)
	require.NoError(t, s.SaveSession(ctx, sess))

	got, err := s.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, got.Selected[2])
	assert.Len(t, got.SelectedLeads(), 1)
}

func TestSQLiteGetSessionNotFound(t *testing.T) {
	s := newTestSQLite(t)

	_, err := s.GetSession(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestSQLiteLatestSession(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	older := testSession("sess-old")
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, s.SaveSession(ctx, older))

	newer := testSession("sess-new")
	require.NoError(t, s.SaveSession(ctx, newer))

	got, err := s.LatestSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sess-new", got.ID)
}

func TestSQLiteLatestSessionEmpty(t *testing.T) {
	s := newTestSQLite(t)

	_, err := s.LatestSession(context.Background())
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestSQLiteListSessions(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	first := testSession("sess-1")
	first.CreatedAt = time.Now().UTC().Add(-time.Hour)
	first.Select(1, true)
	require.NoError(t, s.SaveSession(ctx, first))
	require.NoError(t, s.SaveSession(ctx, testSession("sess-2")))

	sums, err := s.ListSessions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, sums, 2)
	assert.Equal(t, "sess-2", sums[0].ID)
	assert.Equal(t, 2, sums[0].LeadCount)
	assert.Equal(t, 0, sums[0].Selected)
	assert.Equal(t, 1, sums[1].Selected)
}

func TestSQLiteDeleteSession(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSession(ctx, testSession("sess-1")))
	require.NoError(t, s.DeleteSession(ctx, "sess-1"))

	_, err := s.GetSession(ctx, "sess-1")
	assert.True(t, eris.Is(err, ErrNotFound))

	err = s.DeleteSession(ctx, "sess-1")
	assert.True(t, eris.Is(err, ErrNotFound))
}
