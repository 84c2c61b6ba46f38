// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/schemamarkup

/*
Package schemamarkup renders mock signatures and sample payloads for schema models.

A mock signature is human-readable markup describing a model and every model it
reaches through references, nested objects and array items, each emitted once.
A sample value is a representative JSON-like value built from the same schema
graph, with reference cycles closed by empty placeholders.

Load a Swagger 2.0, OpenAPI 3 or JSON Schema document:

	doc, err := schemamarkup.LoadDocumentFile(ctx, "petstore.yaml", schemamarkup.Options{})
	if err != nil {
		return err
	}

	model, err := doc.Model("Pet")
	if err != nil {
		return err
	}

Render signature markup with a built-in template ("html" or "markdown"):

	markup, err := model.MockSignature()
	if err != nil {
		return err
	}

	fmt.Println(markup)

Generate sample payload:

	value, err := model.SampleValue()
	if err != nil {
		return err
	}

	data, err := schemamarkup.EncodeSample(value, schemamarkup.SampleFormatJSON)
	if err != nil {
		return err
	}

	fmt.Println(string(data))

Build registry from in-memory definitions:

	pet, err := schemamarkup.DecodeSchema([]byte(`{"type":"object","properties":{"id":{"type":"integer"}}}`))
	if err != nil {
		return err
	}

	registry := schemamarkup.NewRegistry(map[string]*schemamarkup.SchemaNode{"Pet": pet}, schemamarkup.Options{
		TemplateName: "markdown",
	})

	model, _ := registry.Model("Pet")
	fmt.Println(model.MockSignature())
*/
package schemamarkup
