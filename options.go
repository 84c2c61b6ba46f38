// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/schemamarkup

package schemamarkup

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

const (
	// defaultMaxDepth caps nested schema recursion for sample generation and normalization.
	defaultMaxDepth = 64
	// defaultTemplateName is used when caller does not provide template name.
	defaultTemplateName = templateHTMLName
)

// PropertyDefaultFunc returns the default value used for one object property.
// The second result reports whether a default is set at all.
type PropertyDefaultFunc func(property *SchemaNode) (any, bool)

// ExampleParser turns example payload text into a native value.
type ExampleParser func(text string) (any, error)

// Options configures registry rendering, document loading and sample generation.
type Options struct {
	// Logger receives warnings about degraded schema shapes. Discarded when nil.
	Logger *log.Logger

	// Normalizer flattens composition keywords before a node is rendered.
	// FlattenComposition is used when nil.
	Normalizer Normalizer

	// PropertyDefault lets documentation tooling override property defaults.
	// The property's own default is used when nil.
	PropertyDefault PropertyDefaultFunc

	// ExampleParser decodes examples supplied as text. YAML (a JSON superset) when nil.
	ExampleParser ExampleParser

	// Now provides the timestamp for date and date-time samples. time.Now when nil.
	Now func() time.Time

	// MaxDepth is the recursion ceiling; exceeding it fails the render.
	MaxDepth int

	// TemplateName selects built-in signature template ("html" or "markdown").
	TemplateName string

	// TemplateText overrides built-in template with custom Go template text.
	TemplateText string

	// ValidateDocument runs OpenAPI validation while loading documents.
	ValidateDocument bool
}

// withDefaults returns options copy with zero values replaced by defaults.
func (opt Options) withDefaults() Options {
	if opt.Logger == nil {
		opt.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	if opt.Normalizer == nil {
		opt.Normalizer = NormalizerFunc(FlattenComposition)
	}

	if opt.PropertyDefault == nil {
		opt.PropertyDefault = OwnPropertyDefault
	}

	if opt.ExampleParser == nil {
		opt.ExampleParser = ParseExampleText
	}

	if opt.Now == nil {
		opt.Now = time.Now
	}

	if opt.MaxDepth <= 0 {
		opt.MaxDepth = defaultMaxDepth
	}

	return opt
}

// OwnPropertyDefault returns the property's declared default value.
func OwnPropertyDefault(property *SchemaNode) (any, bool) {
	if property == nil {
		return nil, false
	}

	return property.Default, property.HasDefault
}

// ParseExampleText decodes example text as YAML, which also accepts JSON.
func ParseExampleText(text string) (any, error) {
	var value any
	if err := yaml.Unmarshal([]byte(text), &value); err != nil {
		return nil, err
	}

	return value, nil
}
