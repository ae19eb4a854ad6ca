package catalog_test

import (
	"testing"

	"swapgogo/backend/internal/catalog"
	"swapgogo/backend/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestCategorize_KnownItems(t *testing.T) {
	assert.Equal(t, "Grains", catalog.Categorize("rice"))
	assert.Equal(t, "Tubers", catalog.Categorize("yam"))
	assert.Equal(t, "Oils", catalog.Categorize("palm oil"))
	assert.Equal(t, "Legumes", catalog.Categorize("beans"))
	assert.Equal(t, "Spices", catalog.Categorize("ginger"))
}

func TestCategorize_CaseAndWhitespace(t *testing.T) {
	assert.Equal(t, "Tubers", catalog.Categorize("  Sweet Potato "))
	assert.Equal(t, "Grains", catalog.Categorize("RICE"))
}

func TestCategorize_UnknownFallsBackToMisc(t *testing.T) {
	assert.Equal(t, config.CategoryMisc, catalog.Categorize("flying carpet"))
	assert.Equal(t, config.CategoryMisc, catalog.Categorize(""))
}
