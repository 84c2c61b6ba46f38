// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/schemamarkup

package schemamarkup

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// SignatureView is the structured content of one mock signature.
type SignatureView struct {
	// Models lists the requested model first, then every model it reaches, each once.
	Models []ModelView
}

// ModelView is one rendered model section.
type ModelView struct {
	// Key is the unique name used for de-duplication and anchors.
	Key string
	// Heading is the displayed name, empty for the inline sentinel model.
	Heading    string
	IsArray    bool
	Properties []PropertyView
	// Rows holds array items, reference, primitive and bare object descriptors.
	Rows []TypeView
}

// PropertyView is one object property row.
type PropertyView struct {
	Name        string
	Optional    bool
	Type        TypeView
	Description string
	Values      []string
	Options     []OptionView
}

// TypeView is one type descriptor such as "string", "Pet" or "array[Pet]".
type TypeView struct {
	Text string
	// Model is the referenced model key when descriptor names exactly one model.
	Model   string
	Options []OptionView
}

// OptionView is one descriptive facet hint.
type OptionView struct {
	Name  string
	Value string
}

// Model returns model view by key.
func (view SignatureView) Model(key string) (ModelView, bool) {
	for _, model := range view.Models {
		if model.Key == key {
			return model, true
		}
	}

	return ModelView{}, false
}

// Keys returns model keys in emission order.
func (view SignatureView) Keys() []string {
	out := make([]string, 0, len(view.Models))
	for _, model := range view.Models {
		out = append(out, model.Key)
	}

	return out
}

// pendingReference is one discovered model waiting for emission.
type pendingReference struct {
	Name       string
	Definition *SchemaNode
}

// referenceQueue is an insertion-ordered map of discovered models.
type referenceQueue struct {
	order []string
	items map[string]*SchemaNode
}

// put registers discovered model; re-registration keeps first position and updates definition.
func (queue *referenceQueue) put(name string, definition *SchemaNode) {
	if queue.items == nil {
		queue.items = make(map[string]*SchemaNode)
	}

	if _, exists := queue.items[name]; !exists {
		queue.order = append(queue.order, name)
	}

	queue.items[name] = definition
}

// drain returns queued references in insertion order and empties queue.
func (queue *referenceQueue) drain() []pendingReference {
	out := make([]pendingReference, 0, len(queue.order))
	for _, name := range queue.order {
		out = append(out, pendingReference{Name: name, Definition: queue.items[name]})
	}

	queue.order = nil
	queue.items = nil
	return out
}

// empty reports whether queue has no pending references.
func (queue *referenceQueue) empty() bool {
	return len(queue.order) == 0
}

// markupRenderer holds reference-resolution context of one MockSignature call.
type markupRenderer struct {
	registry        *Registry
	propertyDefault PropertyDefaultFunc
	logger          *log.Logger

	pending      referenceQueue
	seen         map[string]struct{}
	inlineModels int
}

// newMarkupRenderer returns renderer with empty tracking structures.
func newMarkupRenderer(registry *Registry, propertyDefault PropertyDefaultFunc) *markupRenderer {
	return &markupRenderer{
		registry:        registry,
		propertyDefault: propertyDefault,
		logger:          registry.options.Logger,
		seen:            make(map[string]struct{}),
	}
}

// render emits requested model, then drains discovered references until none are unseen.
func (renderer *markupRenderer) render(name string, definition *SchemaNode) SignatureView {
	view := SignatureView{
		Models: []ModelView{renderer.processModel(definition, name)},
	}

	for !renderer.pending.empty() {
		for _, reference := range renderer.pending.drain() {
			if _, seen := renderer.seen[reference.Name]; seen {
				continue
			}

			view.Models = append(view.Models, renderer.processModel(reference.Definition, reference.Name))
		}
	}

	return view
}

// processModel renders one model section and queues models it references.
func (renderer *markupRenderer) processModel(definition *SchemaNode, name string) ModelView {
	schema := renderer.registry.normalize(definition)
	view := ModelView{
		Key:     name,
		IsArray: schema.Kind == KindArray,
	}

	if name != InlineModelName {
		view.Heading = name
		if schema.Title != "" {
			view.Heading = schema.Title
		}
	}

	if name != "" {
		renderer.seen[name] = struct{}{}
	}

	switch schema.Kind {
	case KindArray:
		view.Rows = renderer.arrayRows(schema, name)
	case KindReference:
		view.Rows = []TypeView{renderer.referenceType(schema)}
	case KindObject:
		if !schema.HasProperties() {
			view.Rows = []TypeView{{Text: "object"}}
			break
		}

		view.Properties = make([]PropertyView, 0, len(schema.Properties))
		for _, property := range schema.Properties {
			view.Properties = append(view.Properties, renderer.propertyRow(schema, property))
		}
	default:
		view.Rows = []TypeView{{Text: schema.Type, Options: optionHints(schema)}}
	}

	return view
}

// arrayRows renders one row per array item schema.
func (renderer *markupRenderer) arrayRows(schema *SchemaNode, name string) []TypeView {
	switch schema.ItemsShape {
	case ItemsTuple:
		rows := make([]TypeView, 0, len(schema.TupleItems))
		for _, item := range schema.TupleItems {
			rows = append(rows, renderer.itemType(item))
		}

		return rows
	case ItemsSingle:
		row := renderer.itemType(schema.Items)
		if name == InlineModelName {
			return nil
		}

		return []TypeView{row}
	case ItemsMalformed:
		renderer.logger.Warn("array items is neither a schema nor a list of schemas, rendering object",
			"model", name)
		return []TypeView{{Text: "object"}}
	default:
		return []TypeView{{Text: "object"}}
	}
}

// propertyRow renders label, type, description, enum and facet hints for one property.
func (renderer *markupRenderer) propertyRow(owner *SchemaNode, property Property) PropertyView {
	effective := *ensureClassified(property.Schema)
	effective.Default, effective.HasDefault = renderer.propertyDefault(property.Schema)

	resolved := renderer.registry.normalize(&effective)
	if resolved.Kind == KindReference {
		// named primitive and enum types surface their hints at the use site
		model, ok := renderer.registry.Model(RefName(resolved.Ref))
		if ok && model.Definition.Type != "" && !model.Definition.IsStructured() {
			resolved = renderer.registry.normalize(model.Definition)
		}
	}

	description := ""
	if property.Schema != nil {
		description = property.Schema.Description
	}

	return PropertyView{
		Name:        property.Name,
		Optional:    !owner.IsRequired(property.Name),
		Type:        renderer.typeDescriptor(resolved),
		Description: description,
		Values:      enumValues(resolved.Enum),
		Options:     optionHints(resolved),
	}
}

// typeDescriptor renders property type, queueing nested objects and arrays as models.
func (renderer *markupRenderer) typeDescriptor(schema *SchemaNode) TypeView {
	switch schema.Kind {
	case KindReference:
		return renderer.referenceType(schema)
	case KindObject:
		if !schema.HasProperties() {
			return TypeView{Text: "object"}
		}

		name := renderer.addInline(schema)
		return TypeView{Text: name, Model: name}
	case KindArray:
		inner := renderer.itemsDescriptor(schema)
		return TypeView{Text: "array[" + inner.Text + "]", Model: inner.Model}
	default:
		return TypeView{Text: schema.Type}
	}
}

// itemsDescriptor renders the bracketed part of an array type descriptor.
func (renderer *markupRenderer) itemsDescriptor(schema *SchemaNode) TypeView {
	switch schema.ItemsShape {
	case ItemsTuple:
		names := make([]string, 0, len(schema.TupleItems))
		for _, item := range schema.TupleItems {
			names = append(names, renderer.itemType(item).Text)
		}

		return TypeView{Text: strings.Join(names, ",")}
	case ItemsSingle:
		item := renderer.itemType(schema.Items)
		return TypeView{Text: item.Text, Model: item.Model}
	case ItemsMalformed:
		renderer.logger.Warn("array items is neither a schema nor a list of schemas, rendering object",
			"title", schema.Title)
		return TypeView{Text: "object"}
	default:
		return TypeView{Text: "object"}
	}
}

// itemType classifies one array item schema into a row descriptor.
func (renderer *markupRenderer) itemType(item *SchemaNode) TypeView {
	item = renderer.registry.normalize(item)

	switch item.Kind {
	case KindReference:
		return renderer.referenceType(item)
	case KindObject:
		if !item.HasProperties() {
			return TypeView{Text: "object"}
		}

		name := renderer.addInline(item)
		return TypeView{Text: name, Model: name}
	case KindArray:
		name := renderer.addInline(item)
		return TypeView{Text: name, Model: name}
	default:
		return TypeView{Text: item.Type, Options: optionHints(item)}
	}
}

// referenceType queues referenced model and returns descriptor naming it.
func (renderer *markupRenderer) referenceType(schema *SchemaNode) TypeView {
	key := renderer.addReference(schema)
	return TypeView{Text: renderer.displayName(key), Model: key}
}

// addReference queues $ref target, using an empty definition when it is not registered.
func (renderer *markupRenderer) addReference(schema *SchemaNode) string {
	key := RefName(schema.Ref)
	model, ok := renderer.registry.Model(key)
	if !ok {
		renderer.logger.Warn("unresolved reference, rendering empty definition", "ref", schema.Ref)
		renderer.pending.put(key, &SchemaNode{})
		return key
	}

	renderer.pending.put(key, model.Definition)
	return key
}

// addInline queues anonymous nested schema under its title or a minted inline name.
func (renderer *markupRenderer) addInline(schema *SchemaNode) string {
	name := strings.TrimSpace(schema.Title)
	if name == "" {
		renderer.inlineModels++
		name = InlineModelName + " " + strconv.Itoa(renderer.inlineModels)
	}

	renderer.pending.put(name, schema)
	return name
}

// displayName returns referenced definition title or its registry key.
func (renderer *markupRenderer) displayName(key string) string {
	model, ok := renderer.registry.Model(key)
	if ok && strings.TrimSpace(model.Definition.Title) != "" {
		return model.Definition.Title
	}

	return key
}
