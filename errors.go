// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/schemamarkup

package schemamarkup

import "errors"

var (
	// ErrNilRegistry is returned when a model is rendered without a registry.
	ErrNilRegistry = errors.New("model has no registry")
	// ErrDepthExceeded is returned when schema recursion passes the configured depth ceiling.
	ErrDepthExceeded = errors.New("schema depth limit exceeded")
	// ErrAliasExpansion is returned when YAML aliases expand past the decode budget.
	ErrAliasExpansion = errors.New("yaml alias expansion limit exceeded")
	// ErrDecodeSchema is returned when schema JSON or YAML decoding fails.
	ErrDecodeSchema = errors.New("decode schema")
	// ErrDecodeDocument is returned when API document decoding fails.
	ErrDecodeDocument = errors.New("decode document")
	// ErrUnknownDocumentFormat is returned when document is neither Swagger, OpenAPI nor JSON Schema.
	ErrUnknownDocumentFormat = errors.New("unknown document format")
	// ErrValidateDocument is returned when optional document validation fails.
	ErrValidateDocument = errors.New("validate document")
	// ErrReadDocumentFile is returned when document file loading fails.
	ErrReadDocumentFile = errors.New("read document file")
	// ErrUnknownModel is returned when requested model name is not registered.
	ErrUnknownModel = errors.New("unknown model")
	// ErrUnknownBuiltinTemplate is returned when requested built-in template name is not registered.
	ErrUnknownBuiltinTemplate = errors.New("unknown built-in template")
	// ErrReadBuiltinTemplate is returned when built-in template file loading fails.
	ErrReadBuiltinTemplate = errors.New("read built-in template")
	// ErrParseBuiltinTemplate is returned when template parsing fails.
	ErrParseBuiltinTemplate = errors.New("parse built-in template")
	// ErrExecuteTemplate is returned when signature template execution fails.
	ErrExecuteTemplate = errors.New("execute signature template")
	// ErrUnknownSampleFormat is returned when sample encoding format is not supported.
	ErrUnknownSampleFormat = errors.New("unknown sample format")
	// ErrEncodeSampleJSON is returned when sample JSON encoding fails.
	ErrEncodeSampleJSON = errors.New("encode sample json")
	// ErrEncodeSampleYAML is returned when sample YAML encoding fails.
	ErrEncodeSampleYAML = errors.New("encode sample yaml")
)
