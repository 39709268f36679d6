package niche

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll(t *testing.T) {
	names := All()
	require.NotEmpty(t, names)
	assert.Contains(t, names, "Alimentação")
	assert.Contains(t, names, "Saúde e Bem-estar")
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "alimentacao", Normalize("Alimentação"))
	assert.Equal(t, "saude e bem-estar", Normalize("  Saúde e Bem-estar "))
	assert.Equal(t, "pizzarias", Normalize("PIZZARIAS"))
}

func TestCategories(t *testing.T) {
	cats := Categories("Alimentação")
	assert.Contains(t, cats, "Pizzarias")
	assert.Contains(t, cats, "Padarias")

	assert.Nil(t, Categories("Naval"))
}

func TestTags(t *testing.T) {
	tags := Tags("Alimentação")
	assert.Contains(t, tags, "amenity=restaurant")
	assert.Contains(t, tags, "shop=bakery")
}

func TestTagFiltersOverride(t *testing.T) {
	tags, err := TagFilters("Alimentação", "pizzarias")
	require.NoError(t, err)
	assert.Equal(t, []string{"amenity=restaurant", "cuisine=pizza"}, tags)
}

func TestTagFiltersOverrideAccentInsensitive(t *testing.T) {
	tags, err := TagFilters("Saúde e Bem-estar", "Farmacias")
	require.NoError(t, err)
	assert.Equal(t, []string{"amenity=pharmacy"}, tags)
}

func TestTagFiltersNoCategory(t *testing.T) {
	tags, err := TagFilters("Automotivo", "")
	require.NoError(t, err)
	assert.Equal(t, Tags("Automotivo"), tags)
}

func TestTagFiltersKeywordNarrowing(t *testing.T) {
	// "car" narrows Automotivo tags by substring; no override exists.
	tags, err := TagFilters("Automotivo", "car")
	require.NoError(t, err)
	for _, tag := range tags {
		assert.Contains(t, tag, "car")
	}
	require.NotEmpty(t, tags)
}

func TestTagFiltersUnmatchedCategoryFallsBack(t *testing.T) {
	tags, err := TagFilters("Alimentação", "zeppelins")
	require.NoError(t, err)
	assert.Equal(t, Tags("Alimentação"), tags)
}

func TestTagFiltersUnknownNiche(t *testing.T) {
	_, err := TagFilters("Aeroespacial", "")
	assert.Error(t, err)
}

func TestAllCategoriesSorted(t *testing.T) {
	cats := AllCategories()
	require.NotEmpty(t, cats)
	assert.IsNonDecreasing(t, cats)
}
