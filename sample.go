// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/schemamarkup

package schemamarkup

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// sampleDateTimeLayout matches the millisecond UTC timestamp of ISO 8601 encoders.
	sampleDateTimeLayout = "2006-01-02T15:04:05.000Z07:00"
	// sampleDateLayout is the date-only portion of sampleDateTimeLayout.
	sampleDateLayout = "2006-01-02"
)

// sampleGenerator converts schema nodes into representative values for one top-level call.
type sampleGenerator struct {
	registry        *Registry
	propertyDefault PropertyDefaultFunc
	logger          *log.Logger
	now             func() time.Time
	maxDepth        int

	// active holds model names expanded on the current call path.
	active map[string]struct{}
}

// newSampleGenerator returns generator with empty re-entrancy set.
func newSampleGenerator(registry *Registry, propertyDefault PropertyDefaultFunc) *sampleGenerator {
	return &sampleGenerator{
		registry:        registry,
		propertyDefault: propertyDefault,
		logger:          registry.options.Logger,
		now:             registry.options.Now,
		maxDepth:        registry.options.MaxDepth,
		active:          make(map[string]struct{}),
	}
}

// enter marks model name as being expanded and reports whether it was not active yet.
func (generator *sampleGenerator) enter(name string) bool {
	if _, exists := generator.active[name]; exists {
		return false
	}

	generator.active[name] = struct{}{}
	return true
}

// leave removes model name from the active call path.
func (generator *sampleGenerator) leave(name string) {
	delete(generator.active, name)
}

// generate returns sample value for node; absent samples are reported as nil.
func (generator *sampleGenerator) generate(node *SchemaNode, depth int) (any, error) {
	value, _, err := generator.sample(node, depth)
	return value, err
}

// sample computes one value; ok is false when nothing can be produced for the node.
func (generator *sampleGenerator) sample(node *SchemaNode, depth int) (any, bool, error) {
	if depth > generator.maxDepth {
		return nil, false, fmt.Errorf("%w: sample recursion deeper than %d", ErrDepthExceeded, generator.maxDepth)
	}

	node = generator.registry.normalize(node)

	if node.HasExample {
		return cloneJSONValue(node.Example), true, nil
	}

	if node.ItemsShape == ItemsAbsent && len(node.Enum) > 0 {
		return cloneJSONValue(node.Enum[0]), true, nil
	}

	if node.Kind == KindReference {
		return generator.sampleReference(node, depth)
	}

	if node.HasDefault {
		return cloneJSONValue(node.Default), true, nil
	}

	switch node.EffectiveType() {
	case "string":
		return generator.sampleString(node.Format), true, nil
	case "integer":
		return 0, true, nil
	case "number":
		return 0.0, true, nil
	case "boolean":
		return true, true, nil
	case "object":
		return generator.sampleObject(node, depth)
	case "array":
		return generator.sampleArray(node, depth)
	default:
		return nil, false, nil
	}
}

// sampleReference expands referenced model once per call path and breaks cycles with empty values.
func (generator *sampleGenerator) sampleReference(node *SchemaNode, depth int) (any, bool, error) {
	name := RefName(node.Ref)
	model, ok := generator.registry.Model(name)
	if !ok {
		generator.logger.Warn("unresolved reference, using empty definition", "ref", node.Ref)
		return generator.sample(&SchemaNode{}, depth+1)
	}

	if !generator.enter(model.Name) {
		generator.logger.Debug("reference cycle closed", "model", model.Name)
		if model.Definition.EffectiveType() == "array" {
			return []any{}, true, nil
		}

		return map[string]any{}, true, nil
	}
	defer generator.leave(model.Name)

	return generator.sample(model.Definition, depth+1)
}

// sampleString returns placeholder string or current date for date formats.
func (generator *sampleGenerator) sampleString(format string) string {
	switch format {
	case "date-time":
		return generator.now().UTC().Format(sampleDateTimeLayout)
	case "date":
		return generator.now().UTC().Format(sampleDateLayout)
	default:
		return "string"
	}
}

// sampleObject builds mapping from declared properties after applying property-default policy.
func (generator *sampleGenerator) sampleObject(node *SchemaNode, depth int) (any, bool, error) {
	out := make(map[string]any, len(node.Properties))
	for _, property := range node.Properties {
		effective := *ensureClassified(property.Schema)
		effective.Default, effective.HasDefault = generator.propertyDefault(property.Schema)

		value, ok, err := generator.sample(&effective, depth+1)
		if err != nil {
			return nil, false, err
		}

		if ok {
			out[property.Name] = value
		}
	}

	return out, true, nil
}

// sampleArray builds sequence from tuple, single or absent items facet.
func (generator *sampleGenerator) sampleArray(node *SchemaNode, depth int) (any, bool, error) {
	switch node.ItemsShape {
	case ItemsTuple:
		out := make([]any, 0, len(node.TupleItems))
		for _, item := range node.TupleItems {
			value, err := generator.generate(item, depth+1)
			if err != nil {
				return nil, false, err
			}

			out = append(out, value)
		}

		return out, true, nil
	case ItemsSingle:
		value, err := generator.generate(node.Items, depth+1)
		if err != nil {
			return nil, false, err
		}

		return []any{value}, true, nil
	case ItemsAbsent:
		return []any{map[string]any{}}, true, nil
	default:
		generator.logger.Warn("array items is neither a schema nor a list of schemas, omitting sample",
			"title", node.Title)
		return nil, false, nil
	}
}
