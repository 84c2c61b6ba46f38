// SPDX-License-Identifier: AGPL-3.0-only
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/schemamarkup

package schemamarkup

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRegistryNamesAndLookup(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry(t, Options{}, petDefinitions)
	if diff := cmp.Diff([]string{"Category", "Pet", "PetStatus", "Tag"}, registry.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	if registry.Len() != 4 {
		t.Fatalf("Len = %d, want 4", registry.Len())
	}

	if _, ok := registry.Model("Order"); ok {
		t.Fatal("unexpected model Order")
	}

	var empty *Registry
	if empty.Len() != 0 || empty.Names() != nil {
		t.Fatal("nil registry must be empty")
	}

	if _, ok := empty.Model("Pet"); ok {
		t.Fatal("nil registry must not resolve models")
	}
}

func TestRegistryNewModelNaming(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(nil, Options{})
	cases := []struct {
		name       string
		callerName string
		definition *SchemaNode
		want       string
	}{
		{name: "caller name wins", callerName: " Order ", definition: &SchemaNode{Title: "Purchase"}, want: "Order"},
		{name: "title fallback", definition: &SchemaNode{Title: "Purchase"}, want: "Purchase"},
		{name: "sentinel fallback", definition: &SchemaNode{}, want: InlineModelName},
		{name: "nil definition", want: InlineModelName},
	}

	for _, tc := range cases {
		model := registry.NewModel(tc.callerName, tc.definition)
		if model.Name != tc.want {
			t.Fatalf("%s: name = %q, want %q", tc.name, model.Name, tc.want)
		}

		if model.Definition == nil || model.Definition.Kind != KindObject {
			t.Fatalf("%s: definition must be classified object: %+v", tc.name, model.Definition)
		}
	}

	if registry.Len() != 0 {
		t.Fatal("NewModel must not register models")
	}
}

func TestJSONExampleSelection(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		examples map[string]any
		want     any
		ok       bool
	}{
		{name: "exact", examples: map[string]any{"application/json": 1, "Application/JSON; charset=utf-8": 2}, want: 1, ok: true},
		{name: "parameters", examples: map[string]any{"text/plain": 0, "application/json; charset=utf-8": 2}, want: 2, ok: true},
		{name: "case insensitive", examples: map[string]any{"Application/JSON": 3}, want: 3, ok: true},
		{name: "vendor json is not json", examples: map[string]any{"application/vnd.api+json": 4}},
		{name: "broken media type", examples: map[string]any{"application/json;;": 5}},
		{name: "empty"},
	}

	for _, tc := range cases {
		got, ok := jsonExample(tc.examples)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("%s: jsonExample = %v, %v; want %v, %v", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}
