package vsat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeID(t *testing.T) {
	t.Run("uuids canonicalize to lowercase hyphenated form", func(t *testing.T) {
		assert.Equal(t, ID("8a6e0804-2bd0-4672-b79d-d97027f9071a"),
			NormalizeID("8A6E0804-2BD0-4672-B79D-D97027F9071A"))
		assert.Equal(t, ID("8a6e0804-2bd0-4672-b79d-d97027f9071a"),
			NormalizeID("urn:uuid:8a6e0804-2bd0-4672-b79d-d97027f9071a"))
	})

	t.Run("non-uuids pass through verbatim", func(t *testing.T) {
		assert.Equal(t, ID("ProductDefinition"), NormalizeID("ProductDefinition"))
		assert.Equal(t, ID("42"), NormalizeID("42"))
	})
}

func TestIDUnmarshal(t *testing.T) {
	var e Entity
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "8A6E0804-2BD0-4672-B79D-D97027F9071A",
		"parentId": 17,
		"entityTypeId": null
	}`), &e))

	assert.Equal(t, ID("8a6e0804-2bd0-4672-b79d-d97027f9071a"), e.ID)
	assert.Equal(t, ID("17"), e.ParentID)
	assert.Equal(t, ID(""), e.EntityTypeID)

	var bad ID
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &bad))
}

func TestPropertyResolve(t *testing.T) {
	assert.Equal(t, 1.5, Property{Name: "posX", Value: 1.5}.Resolve())
	assert.Equal(t, "BOX", Property{Name: "shape", Value: map[string]any{"value": "BOX"}}.Resolve())

	// Maps without a value key are returned as-is.
	raw := map[string]any{"other": 1}
	assert.Equal(t, any(raw), Property{Name: "x", Value: raw}.Resolve())
}
