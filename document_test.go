// SPDX-License-Identifier: AGPL-3.0-only
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/schemamarkup

package schemamarkup

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadSwaggerDocument(t *testing.T) {
	t.Parallel()

	doc := loadTestDocument(t, "petstore.swagger.json", Options{})
	if doc.Format != DocumentFormatSwagger || doc.Version != "2.0" {
		t.Fatalf("unexpected format %q version %q", doc.Format, doc.Version)
	}

	if diff := cmp.Diff([]string{"Category", "Pet", "PetStatus", "Tag"}, doc.ModelNames()); diff != "" {
		t.Fatalf("model names mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"GET /pet/findByStatus 200", "getPetById 200"}, doc.ResponseNames()); diff != "" {
		t.Fatalf("response names mismatch (-want +got):\n%s", diff)
	}

	byID := documentModel(t, doc, "getPetById 200")
	got, err := byID.SampleValue()
	if err != nil {
		t.Fatalf("SampleValue: %v", err)
	}

	if diff := cmp.Diff(map[string]any{"id": 42, "name": "doggie"}, got); diff != "" {
		t.Fatalf("text example mismatch (-want +got):\n%s", diff)
	}

	byStatus := documentModel(t, doc, "GET /pet/findByStatus 200")
	got, err = byStatus.SampleValue()
	if err != nil {
		t.Fatalf("SampleValue: %v", err)
	}

	pet := map[string]any{
		"id":        0,
		"category":  map[string]any{"id": 0, "name": "string", "parent": map[string]any{}},
		"name":      "doggie",
		"photoUrls": []any{"string"},
		"tags":      []any{map[string]any{"id": 0, "name": "string"}},
		"status":    "available",
	}

	if diff := cmp.Diff([]any{pet}, got); diff != "" {
		t.Fatalf("array response sample mismatch (-want +got):\n%s", diff)
	}

	view, err := byStatus.Signature()
	if err != nil {
		t.Fatalf("Signature: %v", err)
	}

	wantKeys := []string{"GET /pet/findByStatus 200", "Pet", "Category", "Tag"}
	if diff := cmp.Diff(wantKeys, view.Keys()); diff != "" {
		t.Fatalf("signature models mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]TypeView{{Text: "Pet", Model: "Pet"}}, view.Models[0].Rows); diff != "" {
		t.Fatalf("array response rows mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadOpenAPIDocument(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.March, 4, 5, 6, 7, 0, time.UTC)
	doc := loadTestDocument(t, "inventory.openapi.yaml", Options{Now: func() time.Time { return now }})
	if doc.Format != DocumentFormatOpenAPI || doc.Version != "3.0.3" {
		t.Fatalf("unexpected format %q version %q", doc.Format, doc.Version)
	}

	if diff := cmp.Diff([]string{"Entity", "Item", "ItemPage"}, doc.ModelNames()); diff != "" {
		t.Fatalf("model names mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"POST /items 201", "listItems 200"}, doc.ResponseNames()); diff != "" {
		t.Fatalf("response names mismatch (-want +got):\n%s", diff)
	}

	cases := []struct {
		model string
		want  any
	}{
		{
			model: "listItems 200",
			want: map[string]any{
				"total": 1.0,
				"items": []any{map[string]any{"sku": "A-1", "quantity": 3.0}},
			},
		},
		{
			model: "POST /items 201",
			want:  map[string]any{"sku": "string", "created": "2025-03-04T05:06:07.000Z"},
		},
		{
			model: "ItemPage",
			want: map[string]any{
				"total": 0,
				"items": []any{map[string]any{
					"id":         0,
					"sku":        "string",
					"quantity":   1,
					"dimensions": map[string]any{"width": 0.0, "height": 0.0},
				}},
			},
		},
	}

	for _, tc := range cases {
		got, err := documentModel(t, doc, tc.model).SampleValue()
		if err != nil {
			t.Fatalf("%s: SampleValue: %v", tc.model, err)
		}

		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("%s: sample mismatch (-want +got):\n%s", tc.model, diff)
		}
	}

	view, err := documentModel(t, doc, "Item").Signature()
	if err != nil {
		t.Fatalf("Signature: %v", err)
	}

	if diff := cmp.Diff([]string{"Item", "Inline Model 1"}, view.Keys()); diff != "" {
		t.Fatalf("signature models mismatch (-want +got):\n%s", diff)
	}

	item := view.Models[0]
	if item.Heading != "Inventory Item" {
		t.Fatalf("heading = %q, want Inventory Item", item.Heading)
	}

	optional := make(map[string]bool, len(item.Properties))
	for _, property := range item.Properties {
		optional[property.Name] = property.Optional
	}

	wantOptional := map[string]bool{"id": false, "sku": false, "quantity": true, "dimensions": true}
	if diff := cmp.Diff(wantOptional, optional); diff != "" {
		t.Fatalf("optional flags mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadJSONSchemaDocument(t *testing.T) {
	t.Parallel()

	doc := loadTestDocument(t, "config.schema.json", Options{})
	if doc.Format != DocumentFormatJSONSchema || doc.Version != "" {
		t.Fatalf("unexpected format %q version %q", doc.Format, doc.Version)
	}

	if diff := cmp.Diff([]string{"Listener", RootModelName}, doc.ModelNames()); diff != "" {
		t.Fatalf("model names mismatch (-want +got):\n%s", diff)
	}

	if len(doc.ResponseNames()) != 0 {
		t.Fatalf("JSON Schema document must have no responses: %v", doc.ResponseNames())
	}

	root := documentModel(t, doc, RootModelName)
	got, err := root.SampleValue()
	if err != nil {
		t.Fatalf("SampleValue: %v", err)
	}

	listener := map[string]any{"host": "localhost", "port": 0, "next": map[string]any{}}
	want := map[string]any{
		"name":   "string",
		"listen": listener,
		"peers":  []any{"string", listener},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("root sample mismatch (-want +got):\n%s", diff)
	}

	view, err := root.Signature()
	if err != nil {
		t.Fatalf("Signature: %v", err)
	}

	if view.Models[0].Heading != "Service Config" {
		t.Fatalf("root heading = %q, want Service Config", view.Models[0].Heading)
	}

	if diff := cmp.Diff([]string{RootModelName, "Listener"}, view.Keys()); diff != "" {
		t.Fatalf("signature models mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDocumentValidation(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"petstore.swagger.json", "inventory.openapi.yaml"} {
		if _, err := LoadDocumentFile(context.Background(), filepath.Join("testdata", name), Options{ValidateDocument: true}); err != nil {
			t.Fatalf("%s: validation failed: %v", name, err)
		}
	}

	invalid := []byte("openapi: 3.0.3\npaths: {}\n")
	if _, err := LoadDocument(context.Background(), invalid, Options{}); err != nil {
		t.Fatalf("unvalidated load must accept missing info: %v", err)
	}

	if _, err := LoadDocument(context.Background(), invalid, Options{ValidateDocument: true}); !errors.Is(err, ErrValidateDocument) {
		t.Fatalf("expected ErrValidateDocument, got %v", err)
	}
}

func TestLoadDocumentErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if _, err := LoadDocument(ctx, []byte(`{"swagger": `), Options{}); !errors.Is(err, ErrDecodeDocument) {
		t.Fatalf("expected ErrDecodeDocument, got %v", err)
	}

	if _, err := LoadDocument(ctx, []byte(`[1, 2]`), Options{}); !errors.Is(err, ErrUnknownDocumentFormat) {
		t.Fatalf("expected ErrUnknownDocumentFormat, got %v", err)
	}

	if _, err := LoadDocumentFile(ctx, filepath.Join("testdata", "missing.json"), Options{}); !errors.Is(err, ErrReadDocumentFile) {
		t.Fatalf("expected ErrReadDocumentFile, got %v", err)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := LoadDocument(canceled, []byte(`{"type": "object"}`), Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	doc, err := LoadDocument(ctx, []byte(`{"type": "string"}`), Options{})
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}

	if _, err := doc.Model("Pet"); !errors.Is(err, ErrUnknownModel) {
		t.Fatalf("expected ErrUnknownModel, got %v", err)
	}
}

func TestLoadDocumentYAMLMergeKeys(t *testing.T) {
	t.Parallel()

	data := []byte(`swagger: "2.0"
info:
  title: Merge
  version: "1"
definitions:
  Base: &base
    type: object
    properties:
      id:
        type: integer
  Pet:
    <<: *base
    title: Pet
paths:
  /pets:
    get:
      responses:
        "200":
          description: ok
          schema:
            <<: *base
            required: [id]
`)

	doc, err := LoadDocument(context.Background(), data, Options{})
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}

	pet := documentModel(t, doc, "Pet")
	if pet.Definition.Title != "Pet" {
		t.Fatalf("own title must win, got %q", pet.Definition.Title)
	}

	for _, name := range []string{"Pet", "GET /pets 200"} {
		got, err := documentModel(t, doc, name).SampleValue()
		if err != nil {
			t.Fatalf("%s: SampleValue: %v", name, err)
		}

		if diff := cmp.Diff(map[string]any{"id": 0}, got); diff != "" {
			t.Fatalf("%s: merged sample mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func TestLoadDocumentAliasExpansionLimit(t *testing.T) {
	t.Parallel()

	_, err := LoadDocument(context.Background(), []byte(nestedAliasSchema(9)), Options{})
	if !errors.Is(err, ErrAliasExpansion) || !errors.Is(err, ErrDecodeDocument) {
		t.Fatalf("expected ErrAliasExpansion wrapped in ErrDecodeDocument, got %v", err)
	}
}

func TestResponseModelName(t *testing.T) {
	t.Parallel()

	if got := responseModelName(" addPet ", "post", "/pet", "201"); got != "addPet 201" {
		t.Fatalf("unexpected operation name: %q", got)
	}

	if got := responseModelName("", "get", "/pet/{id}", "default"); got != "GET /pet/{id} default" {
		t.Fatalf("unexpected fallback name: %q", got)
	}
}

// loadTestDocument loads one testdata document or fails test.
func loadTestDocument(t *testing.T, name string, opt Options) *Document {
	t.Helper()

	doc, err := LoadDocumentFile(context.Background(), filepath.Join("testdata", name), opt)
	if err != nil {
		t.Fatalf("LoadDocumentFile(%s): %v", name, err)
	}

	return doc
}

// documentModel returns definition or response model or fails test.
func documentModel(t *testing.T, doc *Document, name string) *Model {
	t.Helper()

	model, err := doc.Model(name)
	if err != nil {
		t.Fatalf("Model(%s): %v", name, err)
	}

	return model
}
