package overpass

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTagFilter(t *testing.T) {
	f, err := ParseTagFilter("amenity=restaurant")
	require.NoError(t, err)
	assert.Equal(t, TagFilter{Key: "amenity", Value: "restaurant"}, f)

	_, err = ParseTagFilter("amenity")
	assert.Error(t, err)

	_, err = ParseTagFilter("=restaurant")
	assert.Error(t, err)
}

func TestParseTagFilters(t *testing.T) {
	fs, err := ParseTagFilters([]string{"amenity=restaurant", "cuisine=pizza"})
	require.NoError(t, err)
	require.Len(t, fs, 2)
	assert.Equal(t, "cuisine", fs[1].Key)

	_, err = ParseTagFilters([]string{"amenity=restaurant", "broken"})
	assert.Error(t, err)
}

func TestQueryBuild(t *testing.T) {
	q := Query{
		Lat:     -20.3155,
		Lon:     -40.3128,
		RadiusM: 20000,
		Tags: []TagFilter{
			{Key: "amenity", Value: "restaurant"},
			{Key: "cuisine", Value: "pizza"},
		},
	}

	ql, err := q.Build()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ql, "[out:json][timeout:25];("))
	assert.True(t, strings.HasSuffix(ql, ");out center;"))
	assert.Contains(t, ql, `node["amenity"="restaurant"](around:20000,`)
	assert.Contains(t, ql, `way["amenity"="restaurant"](around:20000,`)
	assert.Contains(t, ql, `node["cuisine"="pizza"]`)
	assert.Contains(t, ql, `way["cuisine"="pizza"]`)
}

func TestQueryBuildCustomTimeout(t *testing.T) {
	q := Query{Lat: 1, Lon: 2, RadiusM: 500, TimeoutSecs: 40, Tags: []TagFilter{{Key: "shop", Value: "bakery"}}}
	ql, err := q.Build()
	require.NoError(t, err)
	assert.Contains(t, ql, "[timeout:40]")
}

func TestQueryBuildValidation(t *testing.T) {
	_, err := Query{Lat: 1, Lon: 2, RadiusM: 500}.Build()
	assert.Error(t, err, "no tags")

	_, err = Query{Lat: 1, Lon: 2, Tags: []TagFilter{{Key: "a", Value: "b"}}}.Build()
	assert.Error(t, err, "no radius")
}

func TestElementCoordinates(t *testing.T) {
	node := Element{Type: "node", Lat: -20.1, Lon: -40.2}
	lat, lon, ok := node.Coordinates()
	require.True(t, ok)
	assert.Equal(t, -20.1, lat)
	assert.Equal(t, -40.2, lon)

	way := Element{Type: "way", Center: &Center{Lat: -20.5, Lon: -40.6}}
	lat, lon, ok = way.Coordinates()
	require.True(t, ok)
	assert.Equal(t, -20.5, lat)
	assert.Equal(t, -40.6, lon)

	_, _, ok = (&Element{Type: "node"}).Coordinates()
	assert.False(t, ok)
}
