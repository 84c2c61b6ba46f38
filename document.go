// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/schemamarkup

package schemamarkup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// RootModelName is the model synthesized from the root of a plain JSON Schema document.
const RootModelName = "Root"

// DocumentFormat identifies the dialect of a loaded document.
type DocumentFormat string

const (
	// DocumentFormatSwagger is a Swagger 2.0 document.
	DocumentFormatSwagger DocumentFormat = "swagger"
	// DocumentFormatOpenAPI is an OpenAPI 3.x document.
	DocumentFormatOpenAPI DocumentFormat = "openapi"
	// DocumentFormatJSONSchema is a plain JSON Schema document.
	DocumentFormatJSONSchema DocumentFormat = "jsonschema"
)

// Document is a parsed API or schema document with its model registry.
type Document struct {
	// Format is the detected document dialect.
	Format DocumentFormat
	// Version is the swagger/openapi version string, empty for JSON Schema.
	Version string
	// Registry holds named definitions.
	Registry *Registry

	responses map[string]*Model
}

// LoadDocumentFile reads document from file and loads it.
func LoadDocumentFile(ctx context.Context, path string, opt Options) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadDocumentFile, err)
	}

	return LoadDocument(ctx, data, opt)
}

// LoadDocument detects document dialect and builds definition registry and response models.
func LoadDocument(ctx context.Context, data []byte, opt Options) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tree, err := decodeNodeTree(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeDocument, err)
	}

	root := resolveYAMLNode(tree)
	if !isMappingNode(root) {
		return nil, fmt.Errorf("%w: document root is not a mapping", ErrUnknownDocumentFormat)
	}

	doc := &Document{
		Format:    detectDocumentFormat(root),
		responses: make(map[string]*Model),
	}

	walker := newNodeWalker()
	definitions, err := documentDefinitions(walker, doc.Format, root)
	if err != nil {
		return nil, err
	}

	doc.Registry = NewRegistry(definitions, opt)

	switch doc.Format {
	case DocumentFormatSwagger:
		doc.Version = scalarText(mappingValue(root, "swagger"))
		err = doc.loadSwaggerResponses(ctx, walker, root)
	case DocumentFormatOpenAPI:
		doc.Version = scalarText(mappingValue(root, "openapi"))
		err = doc.loadOpenAPIResponses(ctx, walker, root)
	}

	if err != nil {
		return nil, err
	}

	return doc, nil
}

// Model returns named definition or response model.
func (doc *Document) Model(name string) (*Model, error) {
	if model, ok := doc.Registry.Model(name); ok {
		return model, nil
	}

	if model, ok := doc.responses[name]; ok {
		return model, nil
	}

	return nil, fmt.Errorf("%w %q", ErrUnknownModel, name)
}

// ModelNames returns sorted definition names.
func (doc *Document) ModelNames() []string {
	return doc.Registry.Names()
}

// ResponseNames returns sorted response model names.
func (doc *Document) ResponseNames() []string {
	return sortedKeys(doc.responses)
}

// Response returns response model by "<operation> <status>" name.
func (doc *Document) Response(name string) (*Model, bool) {
	model, ok := doc.responses[name]
	return model, ok
}

// detectDocumentFormat inspects root version keys.
func detectDocumentFormat(root *yaml.Node) DocumentFormat {
	switch {
	case mappingValue(root, "swagger") != nil:
		return DocumentFormatSwagger
	case mappingValue(root, "openapi") != nil:
		return DocumentFormatOpenAPI
	default:
		return DocumentFormatJSONSchema
	}
}

// documentDefinitions decodes named schemas of document dialect in declaration order.
func documentDefinitions(walker *nodeWalker, format DocumentFormat, root *yaml.Node) (map[string]*SchemaNode, error) {
	sections := make([]*yaml.Node, 0, 2)
	switch format {
	case DocumentFormatSwagger:
		sections = append(sections, mappingValue(root, "definitions"))
	case DocumentFormatOpenAPI:
		if components := mappingValue(root, "components"); components != nil {
			sections = append(sections, mappingValue(components, "schemas"))
		}
	default:
		sections = append(sections, mappingValue(root, "definitions"), mappingValue(root, "$defs"))
	}

	definitions := make(map[string]*SchemaNode)
	for _, section := range sections {
		if !isMappingNode(section) {
			continue
		}

		pairs, err := walker.pairs(section, 0)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecodeDocument, err)
		}

		for index := 0; index+1 < len(pairs); index += 2 {
			name := pairs[index].Value
			definition, err := walker.parseSchema(pairs[index+1])
			if err != nil {
				return nil, fmt.Errorf("%w: definition %q: %w", ErrDecodeDocument, name, err)
			}

			definitions[name] = definition
		}
	}

	if format == DocumentFormatJSONSchema {
		if _, exists := definitions[RootModelName]; !exists {
			definition, err := walker.parseSchema(root)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrDecodeDocument, err)
			}

			definitions[RootModelName] = definition
		}
	}

	return definitions, nil
}

// loadSwaggerResponses registers one model per Swagger 2.0 response with schema.
func (doc *Document) loadSwaggerResponses(ctx context.Context, walker *nodeWalker, root *yaml.Node) error {
	data, err := walker.jsonBytes(root)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecodeDocument, err)
	}

	var spec openapi2.T
	if err := json.Unmarshal(data, &spec); err != nil {
		return fmt.Errorf("%w: %w", ErrDecodeDocument, err)
	}

	if doc.Registry.options.ValidateDocument {
		converted, err := openapi2conv.ToV3(&spec)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrValidateDocument, err)
		}

		if err := converted.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return fmt.Errorf("%w: %w", ErrValidateDocument, err)
		}
	}

	for _, path := range sortedKeys(spec.Paths) {
		item := spec.Paths[path]
		if item == nil {
			continue
		}

		operations := item.Operations()
		for _, method := range sortedKeys(operations) {
			operation := operations[method]
			if operation == nil {
				continue
			}

			for _, status := range sortedKeys(operation.Responses) {
				response := operation.Responses[status]
				if response == nil || response.Schema == nil {
					continue
				}

				definition, err := SchemaFromValue(response.Schema)
				if err != nil {
					return fmt.Errorf("%w: %s %s %s: %w", ErrDecodeDocument, method, path, status, err)
				}

				name := responseModelName(operation.OperationID, method, path, status)
				doc.responses[name] = doc.Registry.NewModel(name, definition, WithExamples(response.Examples))
			}
		}
	}

	return nil
}

// loadOpenAPIResponses registers one model per OpenAPI 3 response with schema.
func (doc *Document) loadOpenAPIResponses(ctx context.Context, walker *nodeWalker, root *yaml.Node) error {
	data, err := walker.jsonBytes(root)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecodeDocument, err)
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecodeDocument, err)
	}

	if doc.Registry.options.ValidateDocument {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return fmt.Errorf("%w: %w", ErrValidateDocument, err)
		}
	}

	if spec.Paths == nil {
		return nil
	}

	paths := spec.Paths.Map()
	for _, path := range sortedKeys(paths) {
		item := paths[path]
		if item == nil {
			continue
		}

		operations := item.Operations()
		for _, method := range sortedKeys(operations) {
			operation := operations[method]
			if operation == nil || operation.Responses == nil {
				continue
			}

			responses := operation.Responses.Map()
			for _, status := range sortedKeys(responses) {
				ref := responses[status]
				if ref == nil || ref.Value == nil {
					continue
				}

				schema, examples := openAPIResponseContent(ref.Value.Content)
				if schema == nil {
					continue
				}

				definition, err := SchemaFromValue(schema)
				if err != nil {
					return fmt.Errorf("%w: %s %s %s: %w", ErrDecodeDocument, method, path, status, err)
				}

				name := responseModelName(operation.OperationID, method, path, status)
				doc.responses[name] = doc.Registry.NewModel(name, definition, WithExamples(examples))
			}
		}
	}

	return nil
}

// openAPIResponseContent picks JSON schema of response content and collects examples by content type.
func openAPIResponseContent(content openapi3.Content) (*openapi3.SchemaRef, map[string]any) {
	var schema *openapi3.SchemaRef
	examples := make(map[string]any)

	for _, contentType := range sortedKeys(content) {
		mediaType := content[contentType]
		if mediaType == nil {
			continue
		}

		if mediaType.Schema != nil && (schema == nil || contentType == jsonMediaType) {
			schema = mediaType.Schema
		}

		if example, ok := openAPIMediaExample(mediaType); ok {
			examples[contentType] = example
		}
	}

	return schema, examples
}

// openAPIMediaExample returns inline example, then first named example value.
func openAPIMediaExample(mediaType *openapi3.MediaType) (any, bool) {
	if mediaType.Example != nil {
		return mediaType.Example, true
	}

	for _, name := range sortedKeys(mediaType.Examples) {
		ref := mediaType.Examples[name]
		if ref != nil && ref.Value != nil && ref.Value.Value != nil {
			return ref.Value.Value, true
		}
	}

	return nil, false
}

// responseModelName names response model after operation id, falling back to method and path.
func responseModelName(operationID, method, path, status string) string {
	operationID = strings.TrimSpace(operationID)
	if operationID == "" {
		operationID = strings.ToUpper(method) + " " + path
	}

	return operationID + " " + status
}

// jsonBytes re-encodes YAML node tree as JSON, stringifying mapping keys.
func (walker *nodeWalker) jsonBytes(node *yaml.Node) ([]byte, error) {
	value, err := walker.jsonValue(node, 0)
	if err != nil {
		return nil, err
	}

	return json.Marshal(value)
}

// jsonValue converts YAML node into JSON-compatible value; YAML allows non-string keys.
func (walker *nodeWalker) jsonValue(node *yaml.Node, depth int) (any, error) {
	if depth > maxDecodeDepth {
		return nil, ErrDepthExceeded
	}

	node, err := walker.resolve(node)
	if err != nil || node == nil {
		return nil, err
	}

	switch node.Kind {
	case yaml.MappingNode:
		pairs, err := walker.pairs(node, depth)
		if err != nil {
			return nil, err
		}

		out := make(map[string]any, len(pairs)/2)
		for index := 0; index+1 < len(pairs); index += 2 {
			value, err := walker.jsonValue(pairs[index+1], depth+1)
			if err != nil {
				return nil, err
			}

			out[pairs[index].Value] = value
		}

		return out, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			value, err := walker.jsonValue(item, depth+1)
			if err != nil {
				return nil, err
			}

			out = append(out, value)
		}

		return out, nil
	default:
		return decodeValue(node)
	}
}
