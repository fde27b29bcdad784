package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	q := SearchQuery{}
	q.ApplyDefaults(20, "zh-HK")

	assert.Equal(t, 20, q.Limit)
	assert.Equal(t, "zh-HK", q.Language)
	assert.Equal(t, SortByRelevance, q.SortBy)
	assert.Equal(t, SortOrderDesc, q.SortOrder)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	q := SearchQuery{Limit: 5, Language: "en", SortBy: SortByDate, SortOrder: SortOrderAsc}
	q.ApplyDefaults(20, "zh-HK")

	assert.Equal(t, 5, q.Limit)
	assert.Equal(t, "en", q.Language)
	assert.Equal(t, SortByDate, q.SortBy)
	assert.Equal(t, SortOrderAsc, q.SortOrder)
}

func TestValidate(t *testing.T) {
	valid := SearchQuery{Limit: 20, SortBy: SortByRelevance, SortOrder: SortOrderDesc}
	assert.NoError(t, valid.Validate())

	tooBig := valid
	tooBig.Limit = 101
	assert.Error(t, tooBig.Validate())

	negative := valid
	negative.Offset = -1
	assert.Error(t, negative.Validate())

	badSort := valid
	badSort.SortBy = "price"
	assert.Error(t, badSort.Validate())

	badOrder := valid
	badOrder.SortOrder = "sideways"
	assert.Error(t, badOrder.Validate())
}

func TestEntityType(t *testing.T) {
	assert.True(t, EntityTypeCraftsman.Valid())
	assert.False(t, EntityType("banana").Valid())

	assert.Less(t, EntityTypeCraftsman.TieBreakPriority(), EntityTypeCourse.TieBreakPriority())
	assert.Less(t, EntityTypeCourse.TieBreakPriority(), EntityTypeProduct.TieBreakPriority())
	assert.Less(t, EntityTypeProduct.TieBreakPriority(), EntityTypeMedia.TieBreakPriority())
}

func TestMetadataFloat(t *testing.T) {
	r := SearchResult{Metadata: map[string]any{"price": 480.0, "inventory": 3, "name": "x"}}

	price, ok := r.MetadataFloat("price")
	assert.True(t, ok)
	assert.Equal(t, 480.0, price)

	inv, ok := r.MetadataFloat("inventory")
	assert.True(t, ok)
	assert.Equal(t, 3.0, inv)

	_, ok = r.MetadataFloat("name")
	assert.False(t, ok)

	_, ok = r.MetadataFloat("missing")
	assert.False(t, ok)
}
