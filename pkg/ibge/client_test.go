package ibge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/estados", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"id":35,"sigla":"SP","nome":"São Paulo"},
			{"id":32,"sigla":"ES","nome":"Espírito Santo"},
			{"id":33,"sigla":"RJ","nome":"Rio de Janeiro"}
		]`))
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))

	states, err := c.States(context.Background())
	require.NoError(t, err)
	require.Len(t, states, 3)
	assert.Equal(t, "ES", states[0].Code, "sorted by code")
	assert.Equal(t, "RJ", states[1].Code)
	assert.Equal(t, "SP", states[2].Code)
	assert.Equal(t, "Espírito Santo", states[0].Name)
}

func TestCities(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/estados/ES/municipios", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"nome":"Vitória"},
			{"nome":"Cariacica"},
			{"nome":"Serra"}
		]`))
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))

	cities, err := c.Cities(context.Background(), "ES")
	require.NoError(t, err)
	assert.Equal(t, []string{"Cariacica", "Serra", "Vitória"}, cities)
}

func TestStatesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))
	_, err := c.States(context.Background())
	assert.Error(t, err)
}

func TestCitiesMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"oops":true}`))
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))
	_, err := c.Cities(context.Background(), "ES")
	assert.Error(t, err)
}
