package vsat

import (
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vsat-setup/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init(false)
	os.Exit(m.Run())
}

// fixture builds a small but representative project: one satellite root,
// two identically named panels inheriting their shape from a product
// definition, and category chains exercising property inheritance.
func fixture() ([]EntityType, []Entity, []Category) {
	types := []EntityType{
		{ID: "et-sat", Name: "Satellite", IsRoot: true},
		{ID: "et-tree", Name: "Product Tree", IsRoot: true}, // excluded from root models
		{ID: "et-part", Name: "Part"},
	}
	entities := []Entity{
		{ID: "sat", Name: "SatA", EntityTypeID: "et-sat"},
		{ID: "panel-1", Name: "Panel", ParentID: "sat", EntityTypeID: "et-part", InheritsFrom: []ID{"base-panel"}},
		{ID: "panel-2", Name: "Panel", ParentID: "sat", EntityTypeID: "et-part", InheritsFrom: []ID{"base-panel"}},
		{ID: "base-panel", Name: "PanelDef", EntityTypeID: "ProductDefinition"},
	}
	categories := []Category{
		// Part definition: a box with string-typed numbers and an
		// out-of-range transparency, as servers actually deliver them.
		{ID: "cat-base", EntityID: "base-panel", Name: "Visualization", Properties: []Property{
			{Name: "shape", Value: "box"},
			{Name: "sizeX", Value: "2.0"},
			{Name: "sizeY", Value: 3.0},
			{Name: "color", Value: "255"},
			{Name: "transparency", Value: 150.0}, // clamped to 100
		}},
		// Placement on panel-1, inheriting posY from a parent category and
		// overriding its posX.
		{ID: "cat-parent", Name: "Defaults", Properties: []Property{
			{Name: "posX", Value: 99.0},
			{Name: "posY", Value: 3.0},
		}},
		{ID: "cat-panel1", EntityID: "panel-1", Name: "geometry", InheritsFrom: "cat-parent", Properties: []Property{
			{Name: "posX", Value: 1.5},
			{Name: "rotX", Value: map[string]any{"value": 90.0}}, // wrapped value
		}},
	}
	return types, entities, categories
}

func TestStructure(t *testing.T) {
	types, entities, categories := fixture()
	b := NewBuilder(types, entities, categories)

	s, err := b.Structure("")
	require.NoError(t, err, "single root model is auto-selected")
	require.NotNil(t, s.Products)
	assert.Equal(t, ID("sat"), s.Products.UUID)
	assert.Greater(t, s.Timestamp, 0.0)

	t.Run("duplicate sibling names get suffixed", func(t *testing.T) {
		require.Len(t, s.Products.Children, 2)
		assert.Equal(t, "Panel", s.Products.Children[0].Name)
		assert.Equal(t, "Panel_2", s.Products.Children[1].Name)
	})

	t.Run("category inheritance: child overrides parent, parent fills gaps", func(t *testing.T) {
		panel := s.Products.Children[0]
		require.NotNil(t, panel.PosX)
		assert.Equal(t, 1.5, *panel.PosX)
		require.NotNil(t, panel.PosY)
		assert.Equal(t, 3.0, *panel.PosY)
	})

	t.Run("rotations are converted to radians", func(t *testing.T) {
		panel := s.Products.Children[0]
		require.NotNil(t, panel.RotX)
		assert.InDelta(t, math.Pi/2, *panel.RotX, 1e-9)
	})

	t.Run("base entity properties are inherited", func(t *testing.T) {
		// panel-2 has no categories of its own; everything comes from the
		// base panel definition.
		panel := s.Products.Children[1]
		require.NotNil(t, panel.SizeX)
		assert.Equal(t, 2.0, *panel.SizeX)
	})

	t.Run("visualized nodes reference their base part", func(t *testing.T) {
		panel := s.Products.Children[0]
		assert.Equal(t, ID("base-panel"), panel.PartUUID)
		assert.Equal(t, "PanelDef", panel.PartName)
	})

	t.Run("parts come from product definitions", func(t *testing.T) {
		require.Len(t, s.Parts, 1)
		part := s.Parts[0]
		assert.Equal(t, "BOX", part.Shape)
		assert.Equal(t, ID("base-panel"), part.UUID)
		assert.Equal(t, 2.0, part.LengthX, "string-typed sizes are coerced")
		assert.Equal(t, 3.0, part.LengthY)
		assert.Equal(t, 255, part.Color)
		assert.Equal(t, 100.0, part.Transparency, "transparency is clamped to [0,100]")
	})
}

func TestStructureModelSelection(t *testing.T) {
	types := []EntityType{{ID: "et-sat", Name: "Satellite", IsRoot: true}}
	entities := []Entity{
		{ID: "sat-1", Name: "SatA", EntityTypeID: "et-sat"},
		{ID: "sat-2", Name: "SatB", EntityTypeID: "et-sat"},
	}
	b := NewBuilder(types, entities, nil)

	t.Run("multiple roots demand a selection", func(t *testing.T) {
		_, err := b.Structure("")
		assert.ErrorIs(t, err, ErrModelChoice)

		models := b.Models()
		require.Len(t, models, 2)
		assert.Equal(t, "Satellite", models[0].Type)
	})

	t.Run("explicit selection works", func(t *testing.T) {
		s, err := b.Structure("sat-2")
		require.NoError(t, err)
		assert.Equal(t, ID("sat-2"), s.Products.UUID)
	})

	t.Run("unknown selection is an error", func(t *testing.T) {
		_, err := b.Structure("nope")
		assert.Error(t, err)
	})
}

func TestRootEntityFallbacks(t *testing.T) {
	t.Run("excluded root types are skipped", func(t *testing.T) {
		types := []EntityType{
			{ID: "et-tree", Name: "Product Tree", IsRoot: true},
			{ID: "et-sat", Name: "Satellite", IsRoot: true},
		}
		entities := []Entity{
			{ID: "tree", Name: "Tree", EntityTypeID: "et-tree"},
			{ID: "sat", Name: "Sat", EntityTypeID: "et-sat"},
		}
		b := NewBuilder(types, entities, nil)

		s, err := b.Structure("")
		require.NoError(t, err, "the Product Tree root does not count, so sat is the single root")
		assert.Equal(t, ID("sat"), s.Products.UUID)
	})

	t.Run("parentless entities are the fallback when no typed root matches", func(t *testing.T) {
		types := []EntityType{{ID: "et-x", Name: "X"}} // nothing marked root
		entities := []Entity{
			{ID: "a", Name: "A", EntityTypeID: "et-x"},
			{ID: "b", Name: "B", ParentID: "a", EntityTypeID: "et-x"},
		}
		b := NewBuilder(types, entities, nil)

		s, err := b.Structure("")
		require.NoError(t, err)
		assert.Equal(t, ID("a"), s.Products.UUID)
	})
}

func TestPartShapes(t *testing.T) {
	build := func(props ...Property) (Part, bool) {
		entities := []Entity{{ID: "e", Name: "E", EntityTypeID: "ProductDefinition"}}
		categories := []Category{{ID: "c", EntityID: "e", Name: "Visualization", Properties: props}}
		b := NewBuilder(nil, entities, categories)
		return b.part(entities[0])
	}

	t.Run("sphere radius defaults to half the largest dimension", func(t *testing.T) {
		part, ok := build(
			Property{Name: "shape", Value: "SPHERE"},
			Property{Name: "sizeX", Value: 4.0},
			Property{Name: "sizeY", Value: 1.0},
			Property{Name: "sizeZ", Value: 2.0},
		)
		require.True(t, ok)
		assert.Equal(t, "SPHERE", part.Shape)
		assert.Equal(t, 2.0, part.Radius)
		assert.Zero(t, part.LengthX)
	})

	t.Run("cylinder keeps sizeY as height", func(t *testing.T) {
		part, ok := build(
			Property{Name: "shape", Value: "CYLINDER"},
			Property{Name: "sizeX", Value: 3.0},
			Property{Name: "sizeY", Value: 5.0},
			Property{Name: "sizeZ", Value: 1.0},
		)
		require.True(t, ok)
		assert.Equal(t, "CYLINDER", part.Shape)
		assert.Equal(t, 1.5, part.Radius)
		assert.Equal(t, 5.0, part.LengthY)
	})

	t.Run("explicit radius wins over the derived one", func(t *testing.T) {
		part, ok := build(
			Property{Name: "shape", Value: "SPHERE"},
			Property{Name: "radius", Value: 7.0},
			Property{Name: "sizeX", Value: 100.0},
		)
		require.True(t, ok)
		assert.Equal(t, 7.0, part.Radius)
	})

	t.Run("unknown shapes fall back to box", func(t *testing.T) {
		part, ok := build(
			Property{Name: "shape", Value: "dodecahedron"},
			Property{Name: "sizeX", Value: 2.0},
		)
		require.True(t, ok)
		assert.Equal(t, "BOX", part.Shape)
		assert.Equal(t, 2.0, part.LengthX)
		assert.Equal(t, 0.1, part.LengthY, "missing dimensions use the default")
	})

	t.Run("NONE and empty shapes produce no part", func(t *testing.T) {
		_, ok := build(Property{Name: "shape", Value: "none"})
		assert.False(t, ok)

		_, ok = build(Property{Name: "posX", Value: 1.0})
		assert.False(t, ok, "visualization without a shape is not a part")
	})

	t.Run("unparsable color falls back to gray", func(t *testing.T) {
		part, ok := build(
			Property{Name: "shape", Value: "BOX"},
			Property{Name: "color", Value: "not-a-number"},
		)
		require.True(t, ok)
		assert.Equal(t, defaultColor, part.Color)
	})
}

// Inheritance cycles in malformed projects must not recurse forever.
func TestVisualizationCycleSafety(t *testing.T) {
	entities := []Entity{
		{ID: "a", Name: "A", InheritsFrom: []ID{"b"}},
		{ID: "b", Name: "B", InheritsFrom: []ID{"a"}},
	}
	categories := []Category{
		{ID: "cat-a", EntityID: "a", Name: "Visualization", InheritsFrom: "cat-a", Properties: []Property{
			{Name: "shape", Value: "BOX"},
		}},
	}
	b := NewBuilder(nil, entities, categories)

	vis := b.visualization("a", map[ID]bool{})
	require.NotNil(t, vis)
	assert.Equal(t, "BOX", vis["shape"])
}
