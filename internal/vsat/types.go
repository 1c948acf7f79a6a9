// Package vsat talks to a Virtual Satellite server and turns its entity
// model into the satellite structure JSON the workbench imports: a Products
// tree of placed components and a Parts list of reusable shapes.
package vsat

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// ID is a normalized entity/category identifier. The server is loose about
// identifier types (UUID strings, plain strings, numbers), and comparisons
// all over the tree builder break unless every ID is reduced to one
// canonical string form first.
type ID string

// NormalizeID canonicalizes an identifier: UUIDs are parsed and re-rendered
// in their lowercase hyphenated form, everything else is kept verbatim.
func NormalizeID(s string) ID {
	if u, err := uuid.Parse(s); err == nil {
		return ID(u.String())
	}
	return ID(s)
}

// UnmarshalJSON accepts string or numeric identifiers and normalizes them.
// null becomes the empty ID.
func (id *ID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = NormalizeID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*id = ID(n.String())
		return nil
	}
	if string(b) == "null" {
		*id = ""
		return nil
	}
	return fmt.Errorf("unsupported id value %s", b)
}

// Project is one Virtual Satellite project on the server.
type Project struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// EntityType describes a class of entities. Root types identify the models
// a structure can be generated from.
type EntityType struct {
	ID     ID     `json:"id"`
	Name   string `json:"name"`
	IsRoot bool   `json:"isRoot"`
}

// Entity is a node in the project's entity graph. InheritsFrom lists base
// entities whose visualization properties this entity inherits.
type Entity struct {
	ID           ID     `json:"id"`
	Name         string `json:"name"`
	ParentID     ID     `json:"parentId"`
	EntityTypeID ID     `json:"entityTypeId"`
	InheritsFrom []ID   `json:"inheritsFrom"`
}

// Category is a property bag attached to an entity. Categories form their
// own single-parent inheritance chains via InheritsFrom.
type Category struct {
	ID           ID         `json:"id"`
	EntityID     ID         `json:"entityId"`
	Name         string     `json:"name"`
	InheritsFrom ID         `json:"inheritsFrom"`
	Properties   []Property `json:"properties"`
}

// Property is a named value inside a category. The server sometimes wraps
// scalar values in a {"value": ...} object; Resolve unwraps that.
type Property struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Resolve returns the property's effective scalar value.
func (p Property) Resolve() any {
	if m, ok := p.Value.(map[string]any); ok {
		if v, ok := m["value"]; ok {
			return v
		}
	}
	return p.Value
}

// Node is one component in the Products tree. Rotations are radians,
// positions and sizes are meters. Optional values stay absent from the
// JSON when the entity's visualization does not define them.
type Node struct {
	Name     string  `json:"name"`
	UUID     ID      `json:"uuid"`
	Children []*Node `json:"children"`

	RotX *float64 `json:"rotX,omitempty"`
	RotY *float64 `json:"rotY,omitempty"`
	RotZ *float64 `json:"rotZ,omitempty"`

	PosX *float64 `json:"posX,omitempty"`
	PosY *float64 `json:"posY,omitempty"`
	PosZ *float64 `json:"posZ,omitempty"`

	SizeX        *float64 `json:"sizeX,omitempty"`
	SizeY        *float64 `json:"sizeY,omitempty"`
	SizeZ        *float64 `json:"sizeZ,omitempty"`
	Radius       *float64 `json:"radius,omitempty"`
	Transparency *float64 `json:"transparency,omitempty"`

	PartUUID ID     `json:"partUuid,omitempty"`
	PartName string `json:"partName,omitempty"`
}

// Part is one reusable shape definition in the Parts list.
type Part struct {
	Shape        string  `json:"shape"`
	UUID         ID      `json:"uuid"`
	Name         string  `json:"name"`
	Color        int     `json:"color"`
	Transparency float64 `json:"transparency"`
	LengthX      float64 `json:"lengthX"`
	LengthY      float64 `json:"lengthY"`
	LengthZ      float64 `json:"lengthZ"`
	Radius       float64 `json:"radius"`
}

// Structure is the satellite structure document the workbench consumes.
type Structure struct {
	Products  *Node   `json:"Products"`
	Parts     []Part  `json:"Parts"`
	Timestamp float64 `json:"timestamp"`
}

// Model is one selectable root model, offered when a project contains more
// than one and the caller has to choose.
type Model struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}
