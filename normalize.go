// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/schemamarkup

package schemamarkup

import "strings"

// maxCompositionDepth bounds nested allOf flattening.
const maxCompositionDepth = 32

// Normalizer resolves composition keywords into one flat schema node.
// Implementations must be pure and must not mutate input nodes.
type Normalizer interface {
	Normalize(node *SchemaNode) *SchemaNode
}

// NormalizerFunc adapts plain function to Normalizer.
type NormalizerFunc func(node *SchemaNode) *SchemaNode

// Normalize calls function.
func (fn NormalizerFunc) Normalize(node *SchemaNode) *SchemaNode {
	return fn(node)
}

// FlattenComposition unwraps schema wrappers and merges inline allOf members.
func FlattenComposition(node *SchemaNode) *SchemaNode {
	return flattenComposition(node, 0)
}

// flattenComposition merges allOf overlays while preserving keys set on the node itself.
func flattenComposition(node *SchemaNode, depth int) *SchemaNode {
	if node == nil {
		out := &SchemaNode{}
		classify(out)
		return out
	}

	if depth > maxCompositionDepth {
		return node
	}

	if node.Schema != nil {
		return flattenComposition(node.Schema, depth+1)
	}

	if len(node.AllOf) == 0 {
		return node
	}

	out := node.Clone()
	out.AllOf = nil
	for _, member := range node.AllOf {
		mergeSchemaNodes(out, flattenComposition(member, depth+1))
	}

	classify(out)
	return out
}

// mergeSchemaNodes copies fields missing on base from overlay member.
func mergeSchemaNodes(base, overlay *SchemaNode) {
	if overlay == nil {
		return
	}

	if overlay.Ref != "" {
		// a lone reference member turns a bare wrapper into that reference
		if base.Ref == "" && base.Type == "" && !base.HasProperties() {
			base.Ref = overlay.Ref
		}

		return
	}

	if base.Type == "" {
		base.Type = overlay.Type
	}

	if base.Format == "" {
		base.Format = overlay.Format
	}

	if base.Title == "" {
		base.Title = overlay.Title
	}

	if base.Description == "" {
		base.Description = overlay.Description
	}

	base.Properties = mergeProperties(base.Properties, overlay.Properties)
	base.Required = mergeRequiredKeys(base.Required, overlay.Required)

	if base.Items == nil && base.TupleItems == nil && base.ItemsShape != ItemsMalformed {
		base.Items = overlay.Items.Clone()
		base.TupleItems = cloneNodes(overlay.TupleItems)
		if overlay.ItemsShape == ItemsMalformed {
			base.ItemsShape = ItemsMalformed
		}
	}

	if base.Enum == nil {
		base.Enum = overlay.Enum
	}

	if !base.HasDefault && overlay.HasDefault {
		base.Default, base.HasDefault = overlay.Default, true
	}

	if !base.HasExample && overlay.HasExample {
		base.Example, base.HasExample = overlay.Example, true
	}
}

// mergeProperties appends overlay properties absent from base, keeping base order first.
func mergeProperties(base, overlay []Property) []Property {
	if overlay == nil {
		return base
	}

	out := make([]Property, 0, len(base)+len(overlay))
	out = append(out, base...)

	seen := make(map[string]struct{}, len(out))
	for _, property := range out {
		seen[property.Name] = struct{}{}
	}

	for _, property := range overlay {
		if _, exists := seen[property.Name]; exists {
			continue
		}

		seen[property.Name] = struct{}{}
		out = append(out, Property{Name: property.Name, Schema: property.Schema.Clone()})
	}

	return out
}

// mergeRequiredKeys appends unique required keys while preserving first-seen order.
func mergeRequiredKeys(left, right []string) []string {
	if len(left) == 0 && len(right) == 0 {
		return left
	}

	seen := make(map[string]struct{}, len(left)+len(right))
	out := make([]string, 0, len(left)+len(right))

	for _, key := range append(append([]string(nil), left...), right...) {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}

		if _, exists := seen[key]; exists {
			continue
		}

		seen[key] = struct{}{}
		out = append(out, key)
	}

	return out
}
