// SPDX-License-Identifier: AGPL-3.0-only
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/schemamarkup

package schemamarkup

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeSchemaKeepsPropertyOrder(t *testing.T) {
	t.Parallel()

	inputs := map[string]string{
		"json": `{"type": "object", "properties": {"zeta": {"type": "string"}, "alpha": {"type": "integer"}, "mid": {}}}`,
		"tabbed json": "{\n\t\"properties\": {\n\t\t\"zeta\": {\"type\": \"string\"},\n\t\t\"alpha\": {\"type\": \"integer\"},\n\t\t\"mid\": {}\n\t}\n}",
		"yaml": "type: object\nproperties:\n  zeta:\n    type: string\n  alpha:\n    type: integer\n  mid: {}\n",
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			node, err := DecodeSchema([]byte(input))
			if err != nil {
				t.Fatalf("DecodeSchema: %v", err)
			}

			names := make([]string, 0, len(node.Properties))
			for _, property := range node.Properties {
				names = append(names, property.Name)
			}

			if diff := cmp.Diff([]string{"zeta", "alpha", "mid"}, names); diff != "" {
				t.Fatalf("property order mismatch (-want +got):\n%s", diff)
			}

			if node.Kind != KindObject {
				t.Fatalf("kind = %s, want object", node.Kind)
			}

			mid, ok := node.Property("mid")
			if !ok || mid.Kind != KindObject || mid.HasProperties() {
				t.Fatalf("empty property schema must be a bare object: %+v", mid)
			}
		})
	}
}

func TestDecodeSchemaItemsShapes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
		shape ItemsShape
		kind  Kind
	}{
		{name: "single", input: `{"type": "array", "items": {"type": "string"}}`, shape: ItemsSingle, kind: KindArray},
		{name: "tuple", input: `{"type": "array", "items": [{"type": "string"}, {"type": "integer"}]}`, shape: ItemsTuple, kind: KindArray},
		{name: "empty tuple", input: `{"type": "array", "items": []}`, shape: ItemsTuple, kind: KindArray},
		{name: "scalar items", input: `{"type": "array", "items": true}`, shape: ItemsMalformed, kind: KindArray},
		{name: "mixed tuple", input: `{"type": "array", "items": [{"type": "string"}, 3]}`, shape: ItemsMalformed, kind: KindArray},
		{name: "absent", input: `{"type": "array"}`, shape: ItemsAbsent, kind: KindArray},
		{name: "reference", input: `{"$ref": "#/definitions/Pet", "type": "object"}`, shape: ItemsAbsent, kind: KindReference},
		{name: "primitive", input: `{"type": "STRING"}`, shape: ItemsAbsent, kind: KindPrimitive},
		{name: "nullable type list", input: `{"type": ["null", "integer"]}`, shape: ItemsAbsent, kind: KindPrimitive},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			node, err := DecodeSchema([]byte(tc.input))
			if err != nil {
				t.Fatalf("DecodeSchema: %v", err)
			}

			if node.ItemsShape != tc.shape {
				t.Fatalf("items shape = %d, want %d", node.ItemsShape, tc.shape)
			}

			if node.Kind != tc.kind {
				t.Fatalf("kind = %s, want %s", node.Kind, tc.kind)
			}
		})
	}
}

func TestDecodeSchemaFacets(t *testing.T) {
	t.Parallel()

	node, err := DecodeSchema([]byte(`{
		"type": "number",
		"minimum": 0,
		"exclusiveMinimum": true,
		"exclusiveMaximum": 9.5,
		"multipleOf": 0.5,
		"minLength": "not a number",
		"uniqueItems": "yes",
		"pattern": "^x$",
		"collectionFormat": "pipes",
		"default": null,
		"example": [1, "two"],
		"enum": [1, "a", null]
	}`))
	if err != nil {
		t.Fatalf("DecodeSchema: %v", err)
	}

	number := func(value float64) *float64 { return &value }
	want := Facets{
		Minimum:          number(0),
		ExclusiveMinimum: true,
		Maximum:          number(9.5),
		ExclusiveMaximum: true,
		MultipleOf:       number(0.5),
		Pattern:          "^x$",
		CollectionFormat: "pipes",
	}

	if diff := cmp.Diff(want, node.Facets); diff != "" {
		t.Fatalf("facets mismatch (-want +got):\n%s", diff)
	}

	if !node.HasDefault || node.Default != nil {
		t.Fatalf("explicit null default must be recorded: %#v %v", node.Default, node.HasDefault)
	}

	if diff := cmp.Diff([]any{1, "two"}, node.Example); diff != "" {
		t.Fatalf("example mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]any{1, "a", nil}, node.Enum); diff != "" {
		t.Fatalf("enum mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeSchemaNonMappingDocuments(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"true", "", "- a\n- b\n", "[1, 2]"} {
		node, err := DecodeSchema([]byte(input))
		if err != nil {
			t.Fatalf("DecodeSchema(%q): %v", input, err)
		}

		if node.Kind != KindObject || node.HasProperties() {
			t.Fatalf("DecodeSchema(%q) must yield a bare object, got %+v", input, node)
		}
	}
}

func TestDecodeSchemaErrors(t *testing.T) {
	t.Parallel()

	for _, input := range []string{`{"type": `, `{"a": 1} {"b": 2}`, "key: [unclosed\n"} {
		if _, err := DecodeSchema([]byte(input)); !errors.Is(err, ErrDecodeSchema) {
			t.Fatalf("DecodeSchema(%q): expected ErrDecodeSchema, got %v", input, err)
		}
	}
}

func TestDecodeSchemaMergeKeys(t *testing.T) {
	t.Parallel()

	node, err := DecodeSchema([]byte(`type: object
properties:
  base: &base
    type: object
    title: Base
    description: shared
    properties: &baseProps
      id:
        type: integer
  extra: &extra
    description: other
    format: custom
  pet:
    <<: [*base, *extra]
    title: Pet
  tagged:
    type: object
    properties:
      <<: *baseProps
      name:
        type: string
      id:
        type: string
  literal:
    properties:
      "<<":
        type: string
`))
	if err != nil {
		t.Fatalf("DecodeSchema: %v", err)
	}

	pet, ok := node.Property("pet")
	if !ok {
		t.Fatal("missing pet property")
	}

	if pet.Kind != KindObject || pet.Title != "Pet" || pet.Description != "shared" || pet.Format != "custom" {
		t.Fatalf("merged keywords mismatch: kind=%v title=%q description=%q format=%q", pet.Kind, pet.Title, pet.Description, pet.Format)
	}

	if diff := cmp.Diff([]string{"id"}, propertyNames(pet)); diff != "" {
		t.Fatalf("merged properties mismatch (-want +got):\n%s", diff)
	}

	tagged, _ := node.Property("tagged")
	if diff := cmp.Diff([]string{"name", "id"}, propertyNames(tagged)); diff != "" {
		t.Fatalf("merged property map mismatch (-want +got):\n%s", diff)
	}

	if id, _ := tagged.Property("id"); id.Type != "string" {
		t.Fatalf("own property must win over merged one, got type %q", id.Type)
	}

	literal, _ := node.Property("literal")
	if diff := cmp.Diff([]string{"<<"}, propertyNames(literal)); diff != "" {
		t.Fatalf("quoted merge key must stay literal (-want +got):\n%s", diff)
	}
}

func TestDecodeSchemaAliasExpansionLimit(t *testing.T) {
	t.Parallel()

	node, err := DecodeSchema([]byte(nestedAliasSchema(3)))
	if err != nil {
		t.Fatalf("moderate aliasing must decode: %v", err)
	}

	if len(node.AllOf) != 4 {
		t.Fatalf("allOf members = %d, want 4", len(node.AllOf))
	}

	_, err = DecodeSchema([]byte(nestedAliasSchema(9)))
	if !errors.Is(err, ErrAliasExpansion) || !errors.Is(err, ErrDecodeSchema) {
		t.Fatalf("expected ErrAliasExpansion wrapped in ErrDecodeSchema, got %v", err)
	}
}

func TestSchemaFromValue(t *testing.T) {
	t.Parallel()

	node, err := SchemaFromValue(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"b": map[string]any{"type": "string"},
			"a": map[string]any{"$ref": "#/definitions/Tag"},
		},
	})
	if err != nil {
		t.Fatalf("SchemaFromValue: %v", err)
	}

	if len(node.Properties) != 2 || node.Properties[0].Name != "a" || node.Properties[1].Name != "b" {
		t.Fatalf("properties of in-memory values must be sorted: %+v", node.Properties)
	}

	if node.Properties[0].Schema.Kind != KindReference {
		t.Fatalf("property a kind = %s, want reference", node.Properties[0].Schema.Kind)
	}

	if _, err := SchemaFromValue(func() {}); !errors.Is(err, ErrDecodeSchema) {
		t.Fatalf("expected ErrDecodeSchema for unsupported value, got %v", err)
	}
}

func TestRefName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"#/definitions/Pet":                 "Pet",
		"#/$defs/Listener":                  "Listener",
		"#/components/schemas/Item":         "Item",
		"#/definitions/a~1b~0c":             "a/b~c",
		"#/definitions/Outer/properties/x":  "Outer",
		"  #/definitions/Spaced  ":          "Spaced",
		"external.json#/definitions/Remote": "external.json#/definitions/Remote",
		"":                                  "",
	}

	for ref, want := range cases {
		if got := RefName(ref); got != want {
			t.Fatalf("RefName(%q) = %q, want %q", ref, got, want)
		}
	}
}

func TestSchemaNodeClone(t *testing.T) {
	t.Parallel()

	original, err := DecodeSchema([]byte(`{
		"type": "object",
		"required": ["a"],
		"properties": {"a": {"type": "array", "items": {"type": "string"}}},
		"allOf": [{"type": "object"}]
	}`))
	if err != nil {
		t.Fatalf("DecodeSchema: %v", err)
	}

	clone := original.Clone()
	if diff := cmp.Diff(original, clone); diff != "" {
		t.Fatalf("clone differs (-original +clone):\n%s", diff)
	}

	clone.Required[0] = "changed"
	clone.Properties[0].Schema.Items.Type = "integer"
	clone.AllOf[0].Type = "string"

	if original.Required[0] != "a" || original.Properties[0].Schema.Items.Type != "string" || original.AllOf[0].Type != "object" {
		t.Fatal("clone shares state with original")
	}

	var missing *SchemaNode
	if missing.Clone() != nil {
		t.Fatal("nil clone must stay nil")
	}
}

// nestedAliasSchema builds allOf levels where every level aliases the previous one ten times.
func nestedAliasSchema(levels int) string {
	var out strings.Builder
	out.WriteString("allOf:\n  - &level0\n    type: string\n")
	for level := 1; level <= levels; level++ {
		fmt.Fprintf(&out, "  - &level%d\n    type: object\n    properties:\n", level)
		for property := 0; property < 10; property++ {
			fmt.Fprintf(&out, "      p%d: *level%d\n", property, level-1)
		}
	}

	return out.String()
}

// propertyNames lists declared property names in order.
func propertyNames(node *SchemaNode) []string {
	names := make([]string, 0, len(node.Properties))
	for _, property := range node.Properties {
		names = append(names, property.Name)
	}

	return names
}
