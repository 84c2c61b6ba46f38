// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/schemamarkup

package schemamarkup

import (
	"strconv"
	"strings"
)

// Option hint labels shown next to rendered types.
const (
	optionDefault          = "Default"
	optionMinLength        = "Min. Length"
	optionMaxLength        = "Max. Length"
	optionPattern          = "Reg. Exp."
	optionMinimum          = "Min. Value"
	optionExclusiveMinimum = "Exclusive Min."
	optionMaximum          = "Max. Value"
	optionExclusiveMaximum = "Exclusive Max."
	optionMultipleOf       = "Multiple Of"
	optionMinItems         = "Min. Items"
	optionMaxItems         = "Max. Items"
	optionUniqueItems      = "Unique Items"
	optionCollectionFormat = "Coll. Format"
	optionEnum             = "Enum"
)

// optionHints renders descriptive facets of one primitive or array node.
// Array nodes read the facet table of their single item type.
func optionHints(node *SchemaNode) []OptionView {
	if node == nil {
		return nil
	}

	typeName := node.EffectiveType()
	isArray := typeName == "array"
	if isArray {
		typeName = "object"
		if node.ItemsShape == ItemsSingle && node.Items != nil && node.Items.Type != "" {
			typeName = node.Items.Type
		}
	}

	out := make([]OptionView, 0, 4)
	if node.HasDefault {
		out = append(out, OptionView{Name: optionDefault, Value: formatHintValue(node.Default)})
	}

	facets := node.Facets
	switch typeName {
	case "string":
		out = appendNumberHint(out, optionMinLength, facets.MinLength)
		out = appendNumberHint(out, optionMaxLength, facets.MaxLength)
		if facets.Pattern != "" {
			out = append(out, OptionView{Name: optionPattern, Value: facets.Pattern})
		}
	case "integer", "number":
		out = appendNumberHint(out, optionMinimum, facets.Minimum)
		if facets.ExclusiveMinimum {
			out = append(out, OptionView{Name: optionExclusiveMinimum, Value: "true"})
		}

		out = appendNumberHint(out, optionMaximum, facets.Maximum)
		if facets.ExclusiveMaximum {
			out = append(out, OptionView{Name: optionExclusiveMaximum, Value: "true"})
		}

		out = appendNumberHint(out, optionMultipleOf, facets.MultipleOf)
	}

	if isArray {
		out = appendNumberHint(out, optionMinItems, facets.MinItems)
		out = appendNumberHint(out, optionMaxItems, facets.MaxItems)
		if facets.UniqueItems {
			out = append(out, OptionView{Name: optionUniqueItems, Value: "true"})
		}

		if facets.CollectionFormat != "" {
			out = append(out, OptionView{Name: optionCollectionFormat, Value: facets.CollectionFormat})
		}
	}

	if node.ItemsShape == ItemsAbsent && len(node.Enum) > 0 {
		out = append(out, OptionView{Name: optionEnum, Value: enumHint(typeName, node.Enum)})
	}

	if len(out) == 0 {
		return nil
	}

	return out
}

// appendNumberHint appends numeric facet when it is declared.
func appendNumberHint(out []OptionView, name string, value *float64) []OptionView {
	if value == nil {
		return out
	}

	return append(out, OptionView{Name: name, Value: formatNumber(*value)})
}

// enumHint joins numeric enums plainly and wraps every other value in literal quotes.
func enumHint(typeName string, values []any) string {
	parts := make([]string, 0, len(values))
	for _, value := range values {
		text := formatHintValue(value)
		if typeName != "integer" && typeName != "number" {
			text = "\"" + text + "\""
		}

		parts = append(parts, text)
	}

	return strings.Join(parts, ", ")
}

// enumValues renders enum members for the "Can be" list.
func enumValues(values []any) []string {
	if len(values) == 0 {
		return nil
	}

	out := make([]string, 0, len(values))
	for _, value := range values {
		out = append(out, formatHintValue(value))
	}

	return out
}

// formatHintValue renders strings verbatim and everything else as inline JSON.
func formatHintValue(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case float64:
		return formatNumber(typed)
	case nil:
		return "null"
	default:
		return mustJSONInline(typed)
	}
}

// formatNumber renders float without trailing zeros.
func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
