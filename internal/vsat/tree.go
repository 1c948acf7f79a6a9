package vsat

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"vsat-setup/internal/logger"
)

// ErrModelChoice is returned by Structure when no model was selected and
// the project offers more than one root entity. The caller should present
// Models() and let the operator pick.
var ErrModelChoice = errors.New("multiple root models available, selection required")

// Default gray used when an entity defines no usable color.
const defaultColor = 12632256

// Entity types that are marked root on the server but never represent a
// generatable model.
var excludedRootTypes = map[string]bool{
	"Product Tree":        true,
	"Product Tree Domain": true,
	"Modes":               true,
}

// Builder turns a project's raw entity model into a Structure. It is built
// once from the three fetched collections and can then generate structures
// for any of the project's root models.
type Builder struct {
	entities   []Entity
	types      []EntityType
	categories []Category

	entityByID ID2Entity
	children   map[ID][]Entity
	catByID    map[ID]Category
	baseByID   ID2Entity
	baseList   []Entity
}

// ID2Entity maps normalized entity IDs to entities.
type ID2Entity map[ID]Entity

// NewBuilder indexes the fetched collections for structure generation.
func NewBuilder(types []EntityType, entities []Entity, categories []Category) *Builder {
	b := &Builder{
		entities:   entities,
		types:      types,
		categories: categories,
		entityByID: make(ID2Entity, len(entities)),
		children:   make(map[ID][]Entity),
		catByID:    make(map[ID]Category, len(categories)),
	}

	for _, e := range entities {
		b.entityByID[e.ID] = e
		if e.ParentID != "" {
			b.children[e.ParentID] = append(b.children[e.ParentID], e)
		}
	}
	for _, c := range categories {
		b.catByID[c.ID] = c
	}

	// Base entities carry the reusable part definitions. When the project
	// has no explicit product definitions every entity acts as its own base.
	for _, e := range entities {
		if e.EntityTypeID == "ProductDefinition" {
			b.baseList = append(b.baseList, e)
		}
	}
	if len(b.baseList) == 0 {
		b.baseList = entities
	}
	b.baseByID = make(ID2Entity, len(b.baseList))
	for _, e := range b.baseList {
		b.baseByID[e.ID] = e
	}

	logger.Debug("[DEBUG] Indexed %d entities, %d parent-child links, %d categories\n",
		len(entities), len(b.children), len(categories))
	return b
}

// rootEntities finds the entities a structure can start from: parentless
// entities whose type is a root model type. The original data sets are not
// always well-formed, so two fallbacks keep degraded projects usable.
func (b *Builder) rootEntities() []Entity {
	rootTypes := make(map[ID]bool)
	for _, et := range b.types {
		if et.IsRoot && !excludedRootTypes[et.Name] {
			rootTypes[et.ID] = true
		}
	}

	var roots []Entity
	for _, e := range b.entities {
		if rootTypes[e.EntityTypeID] && e.ParentID == "" {
			roots = append(roots, e)
		}
	}
	if len(roots) > 0 {
		return roots
	}

	logger.Warn("[WARN] No root entities found with standard criteria, trying fallback...\n")
	for _, e := range b.entities {
		if e.ParentID == "" {
			roots = append(roots, e)
		}
	}
	if len(roots) > 0 {
		return roots
	}

	// Last resort: every entity of a root model type.
	for _, e := range b.entities {
		if rootTypes[e.EntityTypeID] {
			roots = append(roots, e)
		}
	}
	return roots
}

// Models lists the selectable root models of the project.
func (b *Builder) Models() []Model {
	var models []Model
	for _, e := range b.rootEntities() {
		typeName := "Unknown"
		for _, et := range b.types {
			if et.ID == e.EntityTypeID {
				typeName = et.Name
				break
			}
		}
		models = append(models, Model{ID: e.ID, Name: e.Name, Type: typeName})
	}
	return models
}

// Structure generates the satellite structure for the given root model.
// An empty modelID auto-selects when exactly one root entity exists and
// returns ErrModelChoice otherwise.
func (b *Builder) Structure(modelID ID) (*Structure, error) {
	if modelID == "" {
		roots := b.rootEntities()
		switch len(roots) {
		case 0:
			return nil, fmt.Errorf("no root entities found")
		case 1:
			modelID = roots[0].ID
			logger.Info("[INFO] Auto-selected model: %s\n", modelID)
		default:
			return nil, ErrModelChoice
		}
	}
	if _, ok := b.entityByID[modelID]; !ok {
		return nil, fmt.Errorf("selected model %s not found in entities", modelID)
	}

	var parts []Part
	for _, e := range b.baseList {
		if p, ok := b.part(e); ok {
			parts = append(parts, p)
		}
	}
	logger.Info("[INFO] Created %d parts\n", len(parts))

	products := b.node(modelID, nil, make(map[ID]map[string]int))
	if products == nil {
		return nil, fmt.Errorf("failed to generate products tree for model %s", modelID)
	}

	return &Structure{
		Products:  products,
		Parts:     parts,
		Timestamp: float64(time.Now().UnixNano()) / float64(time.Second),
	}, nil
}

// visualization resolves an entity's effective visualization properties:
// properties inherited from its base entities first, then its own
// "visualization" or "geometry" category walked up the category
// inheritance chain, with the entity's own values overriding the base's.
// Returns nil when the entity defines nothing visual at all.
func (b *Builder) visualization(entityID ID, visiting map[ID]bool) map[string]any {
	entity, ok := b.entityByID[entityID]
	if !ok {
		logger.Warn("[WARN] Entity %s not found in entities list\n", entityID)
		return nil
	}

	// Guard against inheritance cycles in malformed projects.
	if visiting[entityID] {
		return nil
	}
	visiting[entityID] = true
	defer delete(visiting, entityID)

	// First: properties from inherited base entities, later bases
	// overriding earlier ones.
	baseProps := map[string]any{}
	for _, baseID := range entity.InheritsFrom {
		for k, v := range b.visualization(baseID, visiting) {
			baseProps[k] = v
		}
	}

	// Second: the entity's own visualization categories. Each candidate
	// category is flattened through its inheritsFrom chain; a child's
	// property wins over the same property on a parent category.
	type candidate struct {
		catID ID
		props map[string]any
	}
	var candidates []candidate
	for _, cat := range b.categories {
		name := strings.ToLower(cat.Name)
		if cat.EntityID != entityID || (name != "visualization" && name != "geometry") {
			continue
		}

		props := map[string]any{}
		queue := []Category{cat}
		seen := map[ID]bool{}
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			if seen[current.ID] {
				continue
			}
			seen[current.ID] = true

			for _, prop := range current.Properties {
				if _, exists := props[prop.Name]; exists {
					continue
				}
				value := prop.Resolve()
				if prop.Name == "transparency" {
					f, ok := toFloat(value)
					if !ok {
						f = 0.0
					}
					value = math.Max(0.0, math.Min(100.0, f))
				}
				props[prop.Name] = value
			}

			if current.InheritsFrom != "" {
				if parent, ok := b.catByID[current.InheritsFrom]; ok {
					queue = append(queue, parent)
				}
			}
		}
		candidates = append(candidates, candidate{catID: cat.ID, props: props})
	}

	// Highest category ID wins among multiple candidates.
	combined := baseProps
	if len(candidates) > 0 {
		sort.Slice(candidates, func(i, j int) bool {
			return candidates[i].catID > candidates[j].catID
		})
		for k, v := range candidates[0].props {
			combined[k] = v
		}
	}

	if len(combined) == 0 {
		return nil
	}
	return combined
}

// part builds the reusable part definition for a base entity. Entities
// without a usable shape produce no part.
func (b *Builder) part(entity Entity) (Part, bool) {
	vis := b.visualization(entity.ID, map[ID]bool{})
	if vis == nil {
		logger.Debug("[DEBUG] No visualization for entity %s\n", entity.ID)
		return Part{}, false
	}

	shape := strings.ToUpper(strings.TrimSpace(toString(vis["shape"])))
	if shape == "" || shape == "NONE" {
		return Part{}, false
	}

	sizeX := floatOr(vis["sizeX"], 0.1)
	sizeY := floatOr(vis["sizeY"], 0.1)
	sizeZ := floatOr(vis["sizeZ"], 0.1)
	radius := floatOr(vis["radius"], 0)

	color := defaultColor
	if c, ok := toFloat(vis["color"]); ok {
		color = int(c)
	}

	part := Part{
		UUID:         entity.ID,
		Name:         entity.Name,
		Color:        color,
		Transparency: floatOr(vis["transparency"], 0),
	}

	switch shape {
	case "SPHERE":
		effective := radius
		if effective <= 0 {
			effective = math.Max(sizeX, math.Max(sizeY, sizeZ)) / 2
		}
		part.Shape = "SPHERE"
		part.Radius = effective
	case "CYLINDER":
		effective := radius
		if effective <= 0 {
			effective = math.Max(sizeX, sizeZ) / 2
		}
		part.Shape = "CYLINDER"
		part.Radius = effective
		part.LengthY = sizeY // Height
	default:
		// BOX, and the fallback for unknown shapes.
		part.Shape = "BOX"
		part.LengthX = sizeX
		part.LengthY = sizeY
		part.LengthZ = sizeZ
		part.Radius = radius
	}

	return part, true
}

// node recursively builds the Products subtree rooted at entityID.
// nameCounts disambiguates duplicate sibling names per parent.
func (b *Builder) node(entityID ID, parent *Node, nameCounts map[ID]map[string]int) *Node {
	entity, ok := b.entityByID[entityID]
	if !ok {
		logger.Error("[ERROR] Entity %s not found while building products tree\n", entityID)
		return nil
	}

	name := entity.Name
	if parent != nil {
		if nameCounts[parent.UUID] == nil {
			nameCounts[parent.UUID] = make(map[string]int)
		}
		nameCounts[parent.UUID][name]++
		if count := nameCounts[parent.UUID][name]; count > 1 {
			name = fmt.Sprintf("%s_%d", name, count)
		}
	}

	n := &Node{
		Name:     name,
		UUID:     entity.ID,
		Children: []*Node{},
	}

	vis := b.visualization(entityID, map[ID]bool{})
	if vis != nil {
		// Rotations arrive in degrees and the workbench wants radians;
		// positions stay in meters.
		n.RotX = radians(vis["rotX"])
		n.RotY = radians(vis["rotY"])
		n.RotZ = radians(vis["rotZ"])
		n.PosX = floatPtr(vis["posX"])
		n.PosY = floatPtr(vis["posY"])
		n.PosZ = floatPtr(vis["posZ"])
		n.SizeX = floatPtr(vis["sizeX"])
		n.SizeY = floatPtr(vis["sizeY"])
		n.SizeZ = floatPtr(vis["sizeZ"])
		n.Radius = floatPtr(vis["radius"])
		n.Transparency = floatPtr(vis["transparency"])
	}

	for _, child := range b.children[entityID] {
		if childNode := b.node(child.ID, n, nameCounts); childNode != nil {
			n.Children = append(n.Children, childNode)
		}
	}

	// Every visualized node references a part: the first base entity it
	// inherits from, or itself when it has no base.
	if vis != nil {
		n.PartUUID = entity.ID
		n.PartName = entity.Name
		if len(entity.InheritsFrom) > 0 {
			baseID := entity.InheritsFrom[0]
			if base, ok := b.baseByID[baseID]; ok {
				n.PartUUID = baseID
				n.PartName = base.Name
			}
		}
	}

	return n
}

// toFloat coerces the loosely typed property values to float64.
func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// floatOr coerces v to float64, falling back to def for missing or
// unparsable values.
func floatOr(v any, def float64) float64 {
	if f, ok := toFloat(v); ok {
		return f
	}
	return def
}

// floatPtr coerces v to an optional float64, nil when absent or unparsable.
func floatPtr(v any) *float64 {
	if f, ok := toFloat(v); ok {
		return &f
	}
	return nil
}

// radians converts an optional degree value to radians.
func radians(v any) *float64 {
	if f, ok := toFloat(v); ok {
		r := f * math.Pi / 180
		return &r
	}
	return nil
}

// toString renders a property value for comparisons like the shape name.
func toString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
