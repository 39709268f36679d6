package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lpdesign/prospector/internal/model"
	"github.com/lpdesign/prospector/internal/store"
)

func TestRootCommandHasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{
		"search", "probe", "score", "niches", "localities",
		"sessions", "select", "export", "message", "trends", "places", "serve",
	} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommandMetadata(t *testing.T) {
	assert.Equal(t, "prospector", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestSearchCommandFlags(t *testing.T) {
	for _, name := range []string{"uf", "cidade", "nicho", "categoria", "raio"} {
		assert.NotNil(t, searchCmd.Flags().Lookup(name), "search should have --%s flag", name)
	}
}

func TestExportCommandFlags(t *testing.T) {
	flag := exportCmd.Flags().Lookup("out")
	require.NotNil(t, flag)
	assert.Equal(t, "leads.csv", flag.DefValue)
}

func TestSessionsCommandHasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range sessionsCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"list", "show", "delete"} {
		assert.True(t, names[name], "sessions should have subcommand %q", name)
	}
}

func TestResolveSession(t *testing.T) {
	st, err := store.NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	ctx := context.Background()
	require.NoError(t, st.Migrate(ctx))

	_, err = resolveSession(ctx, st, "")
	require.Error(t, err, "empty store should yield an error")

	older := &model.Session{ID: "a", State: "ES", City: "Serra", Niche: "Padarias",
		CreatedAt: time.Now().UTC().Add(-time.Hour)}
	newer := &model.Session{ID: "b", State: "ES", City: "Vitória", Niche: "Padarias",
		CreatedAt: time.Now().UTC()}
	require.NoError(t, st.SaveSession(ctx, older))
	require.NoError(t, st.SaveSession(ctx, newer))

	got, err := resolveSession(ctx, st, "")
	require.NoError(t, err)
	assert.Equal(t, "b", got.ID)

	got, err = resolveSession(ctx, st, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)
}
