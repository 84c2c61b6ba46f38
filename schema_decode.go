// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/schemamarkup

package schemamarkup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// maxDecodeDepth bounds nested schema decoding of untrusted documents.
	maxDecodeDepth = 512
	// maxAliasExpansion bounds nodes re-read through YAML aliases in one decode.
	maxAliasExpansion = 1 << 20
)

// DecodeSchema decodes one JSON or YAML schema and keeps property declaration order.
func DecodeSchema(data []byte) (*SchemaNode, error) {
	document, err := decodeNodeTree(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeSchema, err)
	}

	return ParseSchemaNode(document)
}

// decodeNodeTree decodes JSON or YAML bytes into an ordered YAML node tree.
func decodeNodeTree(data []byte) (*yaml.Node, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return jsonNodeTree(trimmed)
	}

	var document yaml.Node
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, err
	}

	return &document, nil
}

// jsonNodeTree builds YAML node tree from JSON tokens; YAML parsers reject tab-indented JSON.
func jsonNodeTree(data []byte) (*yaml.Node, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	node, err := jsonNextNode(decoder, 0)
	if err != nil {
		return nil, err
	}

	if _, err := decoder.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after top-level JSON value")
	}

	return node, nil
}

// jsonNextNode reads one JSON value from decoder as YAML node.
func jsonNextNode(decoder *json.Decoder, depth int) (*yaml.Node, error) {
	if depth > maxDecodeDepth {
		return nil, ErrDepthExceeded
	}

	token, err := decoder.Token()
	if err != nil {
		return nil, err
	}

	switch typed := token.(type) {
	case json.Delim:
		switch typed {
		case '{':
			node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			for decoder.More() {
				keyToken, err := decoder.Token()
				if err != nil {
					return nil, err
				}

				key, ok := keyToken.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", keyToken)
				}

				value, err := jsonNextNode(decoder, depth+1)
				if err != nil {
					return nil, err
				}

				node.Content = append(node.Content, yamlScalarNode("!!str", key), value)
			}

			if _, err := decoder.Token(); err != nil {
				return nil, err
			}

			return node, nil
		case '[':
			node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
			for decoder.More() {
				value, err := jsonNextNode(decoder, depth+1)
				if err != nil {
					return nil, err
				}

				node.Content = append(node.Content, value)
			}

			if _, err := decoder.Token(); err != nil {
				return nil, err
			}

			return node, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", typed)
		}
	case string:
		return yamlScalarNode("!!str", typed), nil
	case json.Number:
		if strings.ContainsAny(typed.String(), ".eE") {
			return yamlScalarNode("!!float", typed.String()), nil
		}

		return yamlScalarNode("!!int", typed.String()), nil
	case bool:
		return yamlScalarNode("!!bool", strconv.FormatBool(typed)), nil
	case nil:
		return yamlScalarNode("!!null", "null"), nil
	default:
		return nil, fmt.Errorf("unexpected JSON token %v", token)
	}
}

// SchemaFromValue converts in-memory JSON-like value into schema node.
// Go maps have no order, so properties come out sorted by name.
func SchemaFromValue(value any) (*SchemaNode, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeSchema, err)
	}

	return DecodeSchema(data)
}

// ParseSchemaNode converts decoded YAML node tree into classified schema node.
func ParseSchemaNode(node *yaml.Node) (*SchemaNode, error) {
	return newNodeWalker().parseSchema(node)
}

// nodeWalker walks decoded YAML node trees; aliases and merge keys of one
// decode share a single expansion budget.
type nodeWalker struct {
	sizes    map[*yaml.Node]int
	expanded int
}

func newNodeWalker() *nodeWalker {
	return &nodeWalker{sizes: make(map[*yaml.Node]int)}
}

// parseSchema decodes one top-level schema node.
func (walker *nodeWalker) parseSchema(node *yaml.Node) (*SchemaNode, error) {
	out, err := walker.schema(node, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeSchema, err)
	}

	return out, nil
}

// schema recursively decodes one schema mapping.
func (walker *nodeWalker) schema(node *yaml.Node, depth int) (*SchemaNode, error) {
	if depth > maxDecodeDepth {
		return nil, ErrDepthExceeded
	}

	node, err := walker.resolve(node)
	if err != nil {
		return nil, err
	}

	out := &SchemaNode{}
	if node == nil || node.Kind != yaml.MappingNode {
		// boolean schemas and empty documents describe an unconstrained object
		classify(out)
		return out, nil
	}

	pairs, err := walker.pairs(node, depth)
	if err != nil {
		return nil, err
	}

	for index := 0; index+1 < len(pairs); index += 2 {
		key := pairs[index].Value
		value, err := walker.resolve(pairs[index+1])
		if err != nil {
			return nil, err
		}

		if err := walker.applyKeyword(out, key, value, depth); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
	}

	classify(out)
	return out, nil
}

// applyKeyword stores one recognized schema keyword into node fields.
func (walker *nodeWalker) applyKeyword(out *SchemaNode, key string, value *yaml.Node, depth int) error {
	if value == nil {
		return nil
	}

	switch key {
	case "$ref":
		out.Ref = scalarText(value)
	case "type":
		out.Type = schemaTypeName(value)
	case "format":
		out.Format = scalarText(value)
	case "title":
		out.Title = scalarText(value)
	case "description":
		out.Description = scalarText(value)
	case "required":
		out.Required = sequenceStrings(value)
	case "properties":
		properties, err := walker.properties(value, depth)
		if err != nil {
			return err
		}

		out.Properties = properties
	case "items":
		return walker.applyItems(out, value, depth)
	case "allOf":
		members, err := walker.schemaList(value, depth)
		if err != nil {
			return err
		}

		out.AllOf = members
	case "schema":
		if value.Kind != yaml.MappingNode {
			return nil
		}

		wrapped, err := walker.schema(value, depth+1)
		if err != nil {
			return err
		}

		out.Schema = wrapped
	case "enum":
		var values []any
		if value.Kind == yaml.SequenceNode {
			if err := value.Decode(&values); err != nil {
				return err
			}
		}

		out.Enum = values
	case "default":
		decoded, err := decodeValue(value)
		if err != nil {
			return err
		}

		out.Default, out.HasDefault = decoded, true
	case "example":
		decoded, err := decodeValue(value)
		if err != nil {
			return err
		}

		out.Example, out.HasExample = decoded, true
	default:
		out.Facets.applyKeyword(key, value)
	}

	return nil
}

// applyItems decodes single, tuple or malformed items facet.
func (walker *nodeWalker) applyItems(out *SchemaNode, value *yaml.Node, depth int) error {
	switch value.Kind {
	case yaml.MappingNode:
		item, err := walker.schema(value, depth+1)
		if err != nil {
			return err
		}

		out.Items = item
	case yaml.SequenceNode:
		for _, raw := range value.Content {
			if !isMappingNode(raw) {
				out.TupleItems = nil
				out.ItemsShape = ItemsMalformed
				return nil
			}
		}

		items, err := walker.schemaList(value, depth)
		if err != nil {
			return err
		}

		if items == nil {
			items = []*SchemaNode{}
		}

		out.TupleItems = items
	default:
		out.ItemsShape = ItemsMalformed
	}

	return nil
}

// properties decodes ordered property map.
func (walker *nodeWalker) properties(value *yaml.Node, depth int) ([]Property, error) {
	if value.Kind != yaml.MappingNode {
		return nil, nil
	}

	pairs, err := walker.pairs(value, depth)
	if err != nil {
		return nil, err
	}

	out := make([]Property, 0, len(pairs)/2)
	for index := 0; index+1 < len(pairs); index += 2 {
		name := pairs[index].Value
		schema, err := walker.schema(pairs[index+1], depth+1)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		out = append(out, Property{Name: name, Schema: schema})
	}

	return out, nil
}

// schemaList decodes schema sequence, skipping non-schema members.
func (walker *nodeWalker) schemaList(value *yaml.Node, depth int) ([]*SchemaNode, error) {
	if value.Kind != yaml.SequenceNode {
		return nil, nil
	}

	out := make([]*SchemaNode, 0, len(value.Content))
	for index, raw := range value.Content {
		if !isMappingNode(raw) {
			continue
		}

		schema, err := walker.schema(raw, depth+1)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", index, err)
		}

		out = append(out, schema)
	}

	return out, nil
}

// resolve unwraps document and alias nodes; every alias is charged with the size of its target.
func (walker *nodeWalker) resolve(node *yaml.Node) (*yaml.Node, error) {
	for node != nil {
		switch node.Kind {
		case yaml.DocumentNode:
			if len(node.Content) == 0 {
				return nil, nil
			}

			node = node.Content[0]
		case yaml.AliasNode:
			node = node.Alias
			if node == nil {
				return nil, nil
			}

			walker.expanded += walker.size(node)
			if walker.expanded > maxAliasExpansion {
				return nil, fmt.Errorf("%w: more than %d nodes", ErrAliasExpansion, maxAliasExpansion)
			}
		default:
			return node, nil
		}
	}

	return nil, nil
}

// size counts subtree nodes without following aliases.
func (walker *nodeWalker) size(node *yaml.Node) int {
	if size, ok := walker.sizes[node]; ok {
		return size
	}

	size := 1
	for _, child := range node.Content {
		size += walker.size(child)
	}

	walker.sizes[node] = size
	return size
}

// pairs returns mapping key/value nodes with YAML merge keys applied.
// Own keys win over merged ones, earlier merge sources over later ones.
func (walker *nodeWalker) pairs(node *yaml.Node, depth int) ([]*yaml.Node, error) {
	if depth > maxDecodeDepth {
		return nil, ErrDepthExceeded
	}

	merges := false
	taken := make(map[string]bool, len(node.Content)/2)
	for index := 0; index+1 < len(node.Content); index += 2 {
		if isMergeKey(node.Content[index]) {
			merges = true
			continue
		}

		taken[node.Content[index].Value] = true
	}

	if !merges {
		return node.Content, nil
	}

	out := make([]*yaml.Node, 0, len(node.Content))
	for index := 0; index+1 < len(node.Content); index += 2 {
		key, value := node.Content[index], node.Content[index+1]
		if !isMergeKey(key) {
			out = append(out, key, value)
			continue
		}

		merged, err := walker.mergeSources(value, depth)
		if err != nil {
			return nil, err
		}

		for offset := 0; offset+1 < len(merged); offset += 2 {
			name := merged[offset].Value
			if taken[name] {
				continue
			}

			taken[name] = true
			out = append(out, merged[offset], merged[offset+1])
		}
	}

	return out, nil
}

// mergeSources flattens the mapping, or sequence of mappings, under a merge key.
func (walker *nodeWalker) mergeSources(value *yaml.Node, depth int) ([]*yaml.Node, error) {
	value, err := walker.resolve(value)
	if err != nil || value == nil {
		return nil, err
	}

	sources := []*yaml.Node{value}
	if value.Kind == yaml.SequenceNode {
		sources = value.Content
	}

	var out []*yaml.Node
	for _, raw := range sources {
		source, err := walker.resolve(raw)
		if err != nil {
			return nil, err
		}

		if source == nil || source.Kind != yaml.MappingNode {
			continue
		}

		pairs, err := walker.pairs(source, depth+1)
		if err != nil {
			return nil, err
		}

		out = append(out, pairs...)
	}

	return out, nil
}

// isMergeKey reports whether key node is the YAML "<<" merge key.
func isMergeKey(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!merge"
}

// applyKeyword stores descriptive constraint keywords.
func (facets *Facets) applyKeyword(key string, value *yaml.Node) {
	switch key {
	case "minLength":
		facets.MinLength = scalarNumber(value)
	case "maxLength":
		facets.MaxLength = scalarNumber(value)
	case "pattern":
		facets.Pattern = scalarText(value)
	case "minimum":
		facets.Minimum = scalarNumber(value)
	case "maximum":
		facets.Maximum = scalarNumber(value)
	case "exclusiveMinimum":
		facets.ExclusiveMinimum = exclusiveBound(value, &facets.Minimum)
	case "exclusiveMaximum":
		facets.ExclusiveMaximum = exclusiveBound(value, &facets.Maximum)
	case "multipleOf":
		facets.MultipleOf = scalarNumber(value)
	case "minItems":
		facets.MinItems = scalarNumber(value)
	case "maxItems":
		facets.MaxItems = scalarNumber(value)
	case "uniqueItems":
		facets.UniqueItems = scalarBool(value)
	case "collectionFormat":
		facets.CollectionFormat = scalarText(value)
	}
}

// exclusiveBound accepts boolean (draft 4, Swagger) and numeric (draft 6+) forms.
func exclusiveBound(value *yaml.Node, bound **float64) bool {
	if number := scalarNumber(value); number != nil {
		if *bound == nil {
			*bound = number
		}

		return true
	}

	return scalarBool(value)
}

// resolveYAMLNode unwraps document and alias nodes for single-step lookups.
func resolveYAMLNode(node *yaml.Node) *yaml.Node {
	for node != nil {
		switch node.Kind {
		case yaml.DocumentNode:
			if len(node.Content) == 0 {
				return nil
			}

			node = node.Content[0]
		case yaml.AliasNode:
			node = node.Alias
		default:
			return node
		}
	}

	return nil
}

// isMappingNode reports whether node resolves to a YAML mapping.
func isMappingNode(node *yaml.Node) bool {
	node = resolveYAMLNode(node)
	return node != nil && node.Kind == yaml.MappingNode
}

// mappingValue returns value node for key in mapping node.
func mappingValue(node *yaml.Node, key string) *yaml.Node {
	node = resolveYAMLNode(node)
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}

	for index := 0; index+1 < len(node.Content); index += 2 {
		if node.Content[index].Value == key {
			return resolveYAMLNode(node.Content[index+1])
		}
	}

	return nil
}

// decodeValue decodes any YAML node into JSON-like Go value.
func decodeValue(node *yaml.Node) (any, error) {
	var value any
	if err := node.Decode(&value); err != nil {
		return nil, err
	}

	return value, nil
}

// schemaTypeName returns first non-null type from string or list "type" keyword.
func schemaTypeName(node *yaml.Node) string {
	switch node.Kind {
	case yaml.ScalarNode:
		return strings.ToLower(strings.TrimSpace(node.Value))
	case yaml.SequenceNode:
		for _, item := range node.Content {
			text := strings.ToLower(strings.TrimSpace(scalarText(item)))
			if text == "" || text == "null" {
				continue
			}

			return text
		}
	}

	return ""
}

// scalarText returns scalar node text or empty string.
func scalarText(node *yaml.Node) string {
	node = resolveYAMLNode(node)
	if node == nil || node.Kind != yaml.ScalarNode || node.Tag == "!!null" {
		return ""
	}

	return node.Value
}

// scalarNumber returns numeric scalar value or nil.
func scalarNumber(node *yaml.Node) *float64 {
	node = resolveYAMLNode(node)
	if node == nil || node.Kind != yaml.ScalarNode {
		return nil
	}

	if node.Tag != "!!int" && node.Tag != "!!float" {
		return nil
	}

	value, err := strconv.ParseFloat(node.Value, 64)
	if err != nil {
		return nil
	}

	return &value
}

// scalarBool returns boolean scalar value, false for anything else.
func scalarBool(node *yaml.Node) bool {
	node = resolveYAMLNode(node)
	if node == nil || node.Kind != yaml.ScalarNode || node.Tag != "!!bool" {
		return false
	}

	value, err := strconv.ParseBool(node.Value)
	return err == nil && value
}

// sequenceStrings returns string items of a sequence node.
func sequenceStrings(node *yaml.Node) []string {
	if node.Kind != yaml.SequenceNode {
		return nil
	}

	out := make([]string, 0, len(node.Content))
	for _, item := range node.Content {
		if text := scalarText(item); text != "" {
			out = append(out, text)
		}
	}

	return out
}
