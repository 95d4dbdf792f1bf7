package usecase

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawObject(t *testing.T, s string) map[string]json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	return m
}

func TestPatchFromJSON_PresenceSemantics(t *testing.T) {
	p, err := ProductSchema.PatchFromJSON(rawObject(t, `{
		"name": "Bolo",
		"price": "12.5",
		"is_available": false,
		"sort_order": 3,
		"description": null,
		"id": "ignored",
		"category_id": null
	}`))

	require.NoError(t, err)
	assert.Equal(t, []string{"category_id", "is_available", "name", "price", "sort_order"}, p.Fields())

	name, ok := p.String("name")
	require.True(t, ok)
	assert.Equal(t, "Bolo", name)

	price, ok := p.Decimal("price")
	require.True(t, ok)
	assert.True(t, price.Equal(dec("12.50")))

	avail, ok := p.Get("is_available")
	require.True(t, ok)
	assert.Equal(t, false, avail)

	cat, ok := p.Get("category_id")
	require.True(t, ok)
	assert.Nil(t, cat.(*string))
	assert.False(t, p.Has("description"))
}

func TestPatchFromJSON_NumericPriceAndEmptyCategory(t *testing.T) {
	p, err := ProductSchema.PatchFromJSON(rawObject(t, `{"price": 9.9, "category_id": ""}`))

	require.NoError(t, err)
	price, _ := p.Decimal("price")
	assert.Equal(t, "9.90", price.StringFixed(2))
	cat, _ := p.Get("category_id")
	assert.Nil(t, cat.(*string))
}

func TestPatchFromJSON_TypeMismatch(t *testing.T) {
	_, err := CategorySchema.PatchFromJSON(rawObject(t, `{"is_active": "yes"}`))

	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "is_active")
}

func TestPatchFromJSON_Empty(t *testing.T) {
	p, err := SiteProfileSchema.PatchFromJSON(rawObject(t, `{}`))

	require.NoError(t, err)
	assert.Zero(t, p.Len())
}
