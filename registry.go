// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/schemamarkup

package schemamarkup

import (
	"mime"
	"strings"
)

// InlineModelName is the sentinel name of models without caller name and title.
// Its heading is never rendered.
const InlineModelName = "Inline Model"

// jsonMediaType is the example content type installed as sample override.
const jsonMediaType = "application/json"

// Registry is a read-only set of named models from one parsed document.
type Registry struct {
	models  map[string]*Model
	options Options
}

// Model wraps one named or inline schema definition and the registry resolving its references.
type Model struct {
	// Name is the caller name, definition title or InlineModelName.
	Name string
	// Definition is the schema definition, never mutated by rendering.
	Definition *SchemaNode
	// Examples holds response examples keyed by content type.
	Examples map[string]any

	registry        *Registry
	propertyDefault PropertyDefaultFunc
}

// ModelOption configures one model created through Registry.NewModel.
type ModelOption func(*Model)

// WithExamples attaches example payloads keyed by content type.
func WithExamples(examples map[string]any) ModelOption {
	return func(model *Model) {
		model.Examples = examples
	}
}

// WithPropertyDefault overrides registry property-default policy for one model.
func WithPropertyDefault(fn PropertyDefaultFunc) ModelOption {
	return func(model *Model) {
		if fn != nil {
			model.propertyDefault = fn
		}
	}
}

// NewRegistry builds registry from named definitions.
func NewRegistry(definitions map[string]*SchemaNode, opt Options) *Registry {
	registry := &Registry{
		models:  make(map[string]*Model, len(definitions)),
		options: opt.withDefaults(),
	}

	for name, definition := range definitions {
		registry.models[name] = registry.NewModel(name, definition)
	}

	return registry
}

// NewModel creates model bound to registry without registering it.
func (registry *Registry) NewModel(name string, definition *SchemaNode, options ...ModelOption) *Model {
	if definition == nil {
		definition = &SchemaNode{}
	}

	classifyTree(definition)

	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.TrimSpace(definition.Title)
	}

	if name == "" {
		name = InlineModelName
	}

	model := &Model{
		Name:       name,
		Definition: definition,
		registry:   registry,
	}

	if registry != nil {
		model.propertyDefault = registry.options.PropertyDefault
	}

	for _, option := range options {
		option(model)
	}

	return model
}

// Model returns registered model by name.
func (registry *Registry) Model(name string) (*Model, bool) {
	if registry == nil {
		return nil, false
	}

	model, ok := registry.models[name]
	return model, ok
}

// Names returns sorted registered model names.
func (registry *Registry) Names() []string {
	if registry == nil {
		return nil
	}

	return sortedKeys(registry.models)
}

// Len returns number of registered models.
func (registry *Registry) Len() int {
	if registry == nil {
		return 0
	}

	return len(registry.models)
}

// normalize runs configured normalizer and classifies its output.
func (registry *Registry) normalize(node *SchemaNode) *SchemaNode {
	expanded := registry.expandComposition(ensureClassified(node), 0)
	return ensureClassified(registry.options.Normalizer.Normalize(expanded))
}

// expandComposition substitutes registered definitions for allOf reference members.
// Unresolved members stay references; the node itself is never mutated.
func (registry *Registry) expandComposition(node *SchemaNode, depth int) *SchemaNode {
	if node == nil || depth > maxCompositionDepth {
		return node
	}

	if node.Schema != nil {
		return registry.expandComposition(node.Schema, depth+1)
	}

	if len(node.AllOf) == 0 {
		return node
	}

	members := make([]*SchemaNode, len(node.AllOf))
	changed := false
	for index, member := range node.AllOf {
		members[index] = member
		if member == nil {
			continue
		}

		if member.Ref != "" {
			if model, ok := registry.Model(RefName(member.Ref)); ok {
				members[index] = registry.expandComposition(model.Definition, depth+1)
				changed = true
			}

			continue
		}

		if expanded := registry.expandComposition(member, depth+1); expanded != member {
			members[index] = expanded
			changed = true
		}
	}

	if !changed {
		return node
	}

	out := *node
	out.AllOf = members
	return &out
}

// SampleValue returns a concrete example value for model definition.
func (model *Model) SampleValue() (any, error) {
	if model == nil || model.registry == nil {
		return nil, ErrNilRegistry
	}

	generator := newSampleGenerator(model.registry, model.policy())
	generator.enter(model.Name)

	return generator.generate(model.effectiveDefinition(), 0)
}

// MockSignature returns markup rendering of model definition and every model it reaches.
func (model *Model) MockSignature() (string, error) {
	view, err := model.Signature()
	if err != nil {
		return "", err
	}

	return executeSignatureTemplate(view, model.registry.options)
}

// Signature returns structured content rendered by MockSignature.
func (model *Model) Signature() (SignatureView, error) {
	if model == nil || model.registry == nil {
		return SignatureView{}, ErrNilRegistry
	}

	renderer := newMarkupRenderer(model.registry, model.policy())
	return renderer.render(model.Name, model.Definition), nil
}

// policy returns model property-default policy with package fallback.
func (model *Model) policy() PropertyDefaultFunc {
	if model.propertyDefault != nil {
		return model.propertyDefault
	}

	return OwnPropertyDefault
}

// effectiveDefinition returns definition with JSON response example installed, leaving model untouched.
func (model *Model) effectiveDefinition() *SchemaNode {
	example, ok := jsonExample(model.Examples)
	if !ok {
		return model.Definition
	}

	if text, isText := example.(string); isText {
		parsed, err := model.registry.options.ExampleParser(text)
		if err != nil {
			model.registry.options.Logger.Warn("example text is not valid JSON or YAML, using it verbatim",
				"model", model.Name, "err", err)
		} else {
			example = parsed
		}
	}

	effective := *model.Definition
	effective.Example, effective.HasExample = example, true
	return &effective
}

// jsonExample selects application/json example, tolerating media type parameters.
func jsonExample(examples map[string]any) (any, bool) {
	if len(examples) == 0 {
		return nil, false
	}

	if value, ok := examples[jsonMediaType]; ok {
		return value, true
	}

	for _, key := range sortedKeys(examples) {
		mediaType, _, err := mime.ParseMediaType(key)
		if err == nil && strings.EqualFold(mediaType, jsonMediaType) {
			return examples[key], true
		}
	}

	return nil, false
}
