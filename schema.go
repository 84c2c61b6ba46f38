// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/schemamarkup

package schemamarkup

import (
	"slices"
	"strings"
)

// Kind is the shape discriminator of one schema node.
type Kind uint8

const (
	// KindUnclassified marks nodes built in code that were not classified yet.
	KindUnclassified Kind = iota
	// KindReference names another model through $ref.
	KindReference
	// KindObject is an object, declared or defaulted when type is absent.
	KindObject
	// KindArray is an array with single, tuple, malformed or absent items.
	KindArray
	// KindPrimitive is any other type string (string, integer, number, boolean, ...).
	KindPrimitive
)

// String returns kind name used in logs.
func (kind Kind) String() string {
	switch kind {
	case KindReference:
		return "reference"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindPrimitive:
		return "primitive"
	default:
		return "unclassified"
	}
}

// ItemsShape describes the items facet of an array schema.
type ItemsShape uint8

const (
	// ItemsAbsent means the node has no items facet.
	ItemsAbsent ItemsShape = iota
	// ItemsSingle means items is one schema shared by all elements.
	ItemsSingle
	// ItemsTuple means items is an ordered sequence of per-position schemas.
	ItemsTuple
	// ItemsMalformed means items is neither a schema nor a sequence of schemas.
	ItemsMalformed
)

// Property is one named entry of an object schema in declaration order.
type Property struct {
	Name   string
	Schema *SchemaNode
}

// Facets carries descriptive constraints. They are rendered, never enforced.
type Facets struct {
	MinLength        *float64
	MaxLength        *float64
	Pattern          string
	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum bool
	ExclusiveMaximum bool
	MultipleOf       *float64
	MinItems         *float64
	MaxItems         *float64
	UniqueItems      bool
	CollectionFormat string
}

// SchemaNode is one unit of the type-definition graph.
type SchemaNode struct {
	Kind       Kind
	ItemsShape ItemsShape

	Ref         string
	Type        string
	Format      string
	Title       string
	Description string

	// Properties is nil when the node declares no properties keyword.
	Properties []Property
	Required   []string

	Items      *SchemaNode
	TupleItems []*SchemaNode

	Enum []any

	Default    any
	HasDefault bool
	Example    any
	HasExample bool

	Facets Facets

	// AllOf holds composition members resolved by the Normalizer.
	AllOf []*SchemaNode
	// Schema is the wrapped schema of parameter or response objects.
	Schema *SchemaNode
}

// EffectiveType returns declared type, defaulting to object.
func (node *SchemaNode) EffectiveType() string {
	if node == nil || node.Type == "" {
		return "object"
	}

	return node.Type
}

// HasProperties reports whether node declares a properties keyword.
func (node *SchemaNode) HasProperties() bool {
	return node != nil && node.Properties != nil
}

// IsStructured reports whether effective type is object or array.
func (node *SchemaNode) IsStructured() bool {
	switch node.EffectiveType() {
	case "object", "array":
		return true
	default:
		return false
	}
}

// IsRequired reports whether property name is listed in required keys.
func (node *SchemaNode) IsRequired(name string) bool {
	if node == nil {
		return false
	}

	return slices.Contains(node.Required, name)
}

// Property returns property schema by name.
func (node *SchemaNode) Property(name string) (*SchemaNode, bool) {
	if node == nil {
		return nil, false
	}

	for _, property := range node.Properties {
		if property.Name == name {
			return property.Schema, true
		}
	}

	return nil, false
}

// Clone returns a deep copy of the node tree.
func (node *SchemaNode) Clone() *SchemaNode {
	if node == nil {
		return nil
	}

	out := *node
	if node.Properties != nil {
		out.Properties = make([]Property, len(node.Properties))
		for index, property := range node.Properties {
			out.Properties[index] = Property{Name: property.Name, Schema: property.Schema.Clone()}
		}
	}

	out.Required = slices.Clone(node.Required)
	out.Items = node.Items.Clone()
	out.TupleItems = cloneNodes(node.TupleItems)
	out.AllOf = cloneNodes(node.AllOf)
	out.Schema = node.Schema.Clone()
	out.Enum = slices.Clone(node.Enum)

	return &out
}

// cloneNodes deep-copies a node list while keeping nil-ness.
func cloneNodes(nodes []*SchemaNode) []*SchemaNode {
	if nodes == nil {
		return nil
	}

	out := make([]*SchemaNode, len(nodes))
	for index, node := range nodes {
		out[index] = node.Clone()
	}

	return out
}

// classify computes Kind and ItemsShape from node fields.
func classify(node *SchemaNode) {
	if node == nil {
		return
	}

	switch {
	case node.ItemsShape == ItemsMalformed:
	case node.TupleItems != nil:
		node.ItemsShape = ItemsTuple
	case node.Items != nil:
		node.ItemsShape = ItemsSingle
	default:
		node.ItemsShape = ItemsAbsent
	}

	switch {
	case node.Ref != "":
		node.Kind = KindReference
	case node.EffectiveType() == "object":
		node.Kind = KindObject
	case node.EffectiveType() == "array":
		node.Kind = KindArray
	default:
		node.Kind = KindPrimitive
	}
}

// ensureClassified returns a classified node; unclassified input is copied, not mutated.
func ensureClassified(node *SchemaNode) *SchemaNode {
	if node == nil {
		node = &SchemaNode{}
		classify(node)
		return node
	}

	if node.Kind != KindUnclassified {
		return node
	}

	classified := *node
	classify(&classified)
	return &classified
}

// classifyTree classifies every node reachable through schema fields.
func classifyTree(node *SchemaNode) {
	if node == nil {
		return
	}

	classify(node)
	for _, property := range node.Properties {
		classifyTree(property.Schema)
	}

	classifyTree(node.Items)
	for _, item := range node.TupleItems {
		classifyTree(item)
	}

	for _, member := range node.AllOf {
		classifyTree(member)
	}

	classifyTree(node.Schema)
}

// RefName extracts model name from $ref value.
func RefName(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}

	for _, prefix := range []string{"#/definitions/", "#/$defs/", "#/components/schemas/"} {
		if !strings.HasPrefix(ref, prefix) {
			continue
		}

		name, _, _ := strings.Cut(strings.TrimPrefix(ref, prefix), "/")
		return decodeJSONPointerToken(name)
	}

	return ref
}

// decodeJSONPointerToken unescapes one JSON pointer token.
func decodeJSONPointerToken(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	token = strings.ReplaceAll(token, "~0", "~")
	return token
}
