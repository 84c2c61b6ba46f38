// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/schemamarkup

package schemamarkup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// SampleFormatJSON encodes sample payload as pretty JSON.
	SampleFormatJSON SampleFormat = "json"
	// SampleFormatYAML encodes sample payload as YAML with schema comments.
	SampleFormatYAML SampleFormat = "yaml"
)

// SampleFormat configures output format for generated sample payload.
type SampleFormat string

// EncodeSample encodes sample value in selected format without schema comments.
func EncodeSample(value any, format SampleFormat) ([]byte, error) {
	format, err := normalizeSampleFormat(format)
	if err != nil {
		return nil, err
	}

	if format == SampleFormatJSON {
		data, err := marshalSampleJSON(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncodeSampleJSON, err)
		}

		return data, nil
	}

	rootNode, err := yamlNodeForValue(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeSampleYAML, err)
	}

	data, err := marshalSampleYAMLNode(rootNode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeSampleYAML, err)
	}

	return data, nil
}

// Sample generates model sample and encodes it; YAML keys carry property titles and descriptions.
func (model *Model) Sample(format SampleFormat) ([]byte, error) {
	format, err := normalizeSampleFormat(format)
	if err != nil {
		return nil, err
	}

	value, err := model.SampleValue()
	if err != nil {
		return nil, err
	}

	value = model.orderSample(value, model.Definition)
	if format == SampleFormatJSON {
		return EncodeSample(value, format)
	}

	rootNode, err := yamlNodeForValue(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeSampleYAML, err)
	}

	model.annotateYAMLNode(rootNode, model.Definition)

	data, err := marshalSampleYAMLNode(rootNode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeSampleYAML, err)
	}

	return data, nil
}

// sampleObject is a sample mapping encoded in field order.
type sampleObject []sampleField

// sampleField is one key of sampleObject.
type sampleField struct {
	Key   string
	Value any
}

// MarshalJSON writes fields in order.
func (object sampleObject) MarshalJSON() ([]byte, error) {
	var out bytes.Buffer
	out.WriteByte('{')
	for index, field := range object {
		if index > 0 {
			out.WriteByte(',')
		}

		key, err := marshalCompactJSON(field.Key)
		if err != nil {
			return nil, err
		}

		value, err := marshalCompactJSON(field.Value)
		if err != nil {
			return nil, err
		}

		out.Write(key)
		out.WriteByte(':')
		out.Write(value)
	}

	out.WriteByte('}')
	return out.Bytes(), nil
}

// orderSample turns sample mappings into objects ordered by property declaration;
// keys the schema does not declare follow in lexical order.
func (model *Model) orderSample(value any, schema *SchemaNode) any {
	resolved := model.resolveAnnotationSchema(schema)

	switch typed := value.(type) {
	case map[string]any:
		out := make(sampleObject, 0, len(typed))
		placed := make(map[string]bool, len(typed))
		if resolved != nil {
			for _, property := range resolved.Properties {
				item, ok := typed[property.Name]
				if !ok || placed[property.Name] {
					continue
				}

				placed[property.Name] = true
				out = append(out, sampleField{Key: property.Name, Value: model.orderSample(item, property.Schema)})
			}
		}

		for _, key := range sortedKeys(typed) {
			if !placed[key] {
				out = append(out, sampleField{Key: key, Value: model.orderSample(typed[key], nil)})
			}
		}

		return out
	case []any:
		out := make([]any, len(typed))
		for index, item := range typed {
			var itemSchema *SchemaNode
			if resolved != nil {
				switch resolved.ItemsShape {
				case ItemsSingle:
					itemSchema = resolved.Items
				case ItemsTuple:
					if index < len(resolved.TupleItems) {
						itemSchema = resolved.TupleItems[index]
					}
				}
			}

			out[index] = model.orderSample(item, itemSchema)
		}

		return out
	default:
		return value
	}
}

// normalizeSampleFormat validates sample format and falls back to JSON.
func normalizeSampleFormat(format SampleFormat) (SampleFormat, error) {
	switch SampleFormat(strings.ToLower(strings.TrimSpace(string(format)))) {
	case "", SampleFormatJSON:
		return SampleFormatJSON, nil
	case SampleFormatYAML, "yml":
		return SampleFormatYAML, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownSampleFormat, format)
	}
}

// cloneJSONValue deep-copies maps and slices used as generated payload values.
func cloneJSONValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = cloneJSONValue(item)
		}

		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, cloneJSONValue(item))
		}

		return out
	default:
		return typed
	}
}

// marshalSampleJSON serializes sample payload as pretty JSON.
func marshalSampleJSON(value any) ([]byte, error) {
	var out bytes.Buffer
	encoder := json.NewEncoder(&out)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(value); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// marshalCompactJSON encodes one value without HTML escaping or trailing newline.
func marshalCompactJSON(value any) ([]byte, error) {
	var out bytes.Buffer
	encoder := json.NewEncoder(&out)
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(value); err != nil {
		return nil, err
	}

	return bytes.TrimRight(out.Bytes(), "\n"), nil
}

// marshalSampleYAMLNode serializes sample node tree as YAML.
func marshalSampleYAMLNode(node *yaml.Node) ([]byte, error) {
	document := &yaml.Node{
		Kind:    yaml.DocumentNode,
		Content: []*yaml.Node{node},
	}

	var out bytes.Buffer
	encoder := yaml.NewEncoder(&out)
	encoder.SetIndent(2)

	if err := encoder.Encode(document); err != nil {
		return nil, err
	}

	if err := encoder.Close(); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// annotateYAMLNode assigns property title/description comments to YAML map keys.
// Recursion follows the finite sample tree, so reference cycles need no guard.
func (model *Model) annotateYAMLNode(node *yaml.Node, schema *SchemaNode) {
	resolved := model.resolveAnnotationSchema(schema)
	if resolved == nil {
		return
	}

	switch node.Kind {
	case yaml.MappingNode:
		for index := 0; index+1 < len(node.Content); index += 2 {
			keyNode := node.Content[index]
			valueNode := node.Content[index+1]

			property, ok := resolved.Property(keyNode.Value)
			if !ok {
				continue
			}

			comment := schemaKeyComment(property)
			if comment == "" {
				comment = schemaKeyComment(model.resolveAnnotationSchema(property))
			}

			if comment != "" {
				keyNode.HeadComment = comment
			}

			model.annotateYAMLNode(valueNode, property)
		}
	case yaml.SequenceNode:
		for index, item := range node.Content {
			switch resolved.ItemsShape {
			case ItemsSingle:
				model.annotateYAMLNode(item, resolved.Items)
			case ItemsTuple:
				if index < len(resolved.TupleItems) {
					model.annotateYAMLNode(item, resolved.TupleItems[index])
				}
			}
		}
	}
}

// resolveAnnotationSchema normalizes schema and follows one reference chain through the registry.
func (model *Model) resolveAnnotationSchema(schema *SchemaNode) *SchemaNode {
	if schema == nil {
		return nil
	}

	registry := model.registry
	resolved := registry.normalize(schema)
	for hops := 0; resolved.Kind == KindReference && hops < registry.options.MaxDepth; hops++ {
		target, ok := registry.Model(RefName(resolved.Ref))
		if !ok {
			return nil
		}

		resolved = registry.normalize(target.Definition)
	}

	if resolved.Kind == KindReference {
		return nil
	}

	return resolved
}

// schemaKeyComment builds YAML key comment from schema title and description.
func schemaKeyComment(schema *SchemaNode) string {
	if schema == nil {
		return ""
	}

	title := strings.TrimSpace(schema.Title)
	description := strings.TrimSpace(schema.Description)

	switch {
	case title == "" && description == "":
		return ""
	case title == "":
		return normalizeYAMLComment(description)
	case description == "", title == description:
		return normalizeYAMLComment(title)
	default:
		return normalizeYAMLComment(title + "\n" + description)
	}
}

// normalizeYAMLComment drops blank lines from comment body.
func normalizeYAMLComment(comment string) string {
	lines := strings.Split(normalizeLineEndings(comment), "\n")
	normalized := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		normalized = append(normalized, strings.TrimRight(line, " \t"))
	}

	return strings.Join(normalized, "\n")
}

// yamlNodeForValue builds deterministic yaml.Node tree from JSON-like value.
func yamlNodeForValue(value any) (*yaml.Node, error) {
	switch typed := value.(type) {
	case nil:
		return yamlScalarNode("!!null", "null"), nil
	case bool:
		return yamlScalarNode("!!bool", strconv.FormatBool(typed)), nil
	case string:
		return yamlScalarNode("!!str", typed), nil
	case int:
		return yamlScalarNode("!!int", strconv.Itoa(typed)), nil
	case int64:
		return yamlScalarNode("!!int", strconv.FormatInt(typed, 10)), nil
	case uint64:
		return yamlScalarNode("!!int", strconv.FormatUint(typed, 10)), nil
	case float64:
		return yamlScalarNode("!!float", yamlFloatText(typed)), nil
	case json.Number:
		if int64Value, err := typed.Int64(); err == nil {
			return yamlScalarNode("!!int", strconv.FormatInt(int64Value, 10)), nil
		}

		float64Value, err := typed.Float64()
		if err != nil {
			return nil, err
		}

		return yamlScalarNode("!!float", yamlFloatText(float64Value)), nil
	case map[string]any:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range sortedKeys(typed) {
			valueNode, err := yamlNodeForValue(typed[key])
			if err != nil {
				return nil, err
			}

			node.Content = append(node.Content, yamlScalarNode("!!str", key), valueNode)
		}

		return node, nil
	case sampleObject:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, field := range typed {
			valueNode, err := yamlNodeForValue(field.Value)
			if err != nil {
				return nil, err
			}

			node.Content = append(node.Content, yamlScalarNode("!!str", field.Key), valueNode)
		}

		return node, nil
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range typed {
			valueNode, err := yamlNodeForValue(item)
			if err != nil {
				return nil, err
			}

			node.Content = append(node.Content, valueNode)
		}

		return node, nil
	default:
		data, err := json.Marshal(typed)
		if err != nil {
			return nil, err
		}

		var normalized any
		if err := json.Unmarshal(data, &normalized); err != nil {
			return nil, err
		}

		return yamlNodeForValue(normalized)
	}
}

// yamlFloatText keeps a decimal point so integral floats stay floats after round trip.
func yamlFloatText(value float64) string {
	text := strconv.FormatFloat(value, 'g', -1, 64)
	if !strings.ContainsAny(text, ".eEn") {
		text += ".0"
	}

	return text
}

// yamlScalarNode creates one scalar yaml.Node with explicit tag.
func yamlScalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   tag,
		Value: value,
	}
}

// sortedKeys returns map keys in lexical order.
func sortedKeys[V any](values map[string]V) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}

	sort.Strings(keys)
	return keys
}
