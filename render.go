// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/schemamarkup

package schemamarkup

import (
	"fmt"
	htmltemplate "html/template"
	"sort"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// descriptionPolicy keeps formatting markup of HTML descriptions and drops scripts and handlers.
	descriptionPolicy = sync.OnceValue(bluemonday.UGCPolicy)
	// plainTextPolicy strips every tag from descriptions rendered as markdown.
	plainTextPolicy = sync.OnceValue(bluemonday.StrictPolicy)
)

// RenderSignature renders structured signature content with built-in or custom template.
func RenderSignature(view SignatureView, opt Options) (string, error) {
	return executeSignatureTemplate(view, opt)
}

// executeSignatureTemplate renders view with template selected by options.
func executeSignatureTemplate(view SignatureView, opt Options) (string, error) {
	signature, templateName, err := resolveTemplate(opt)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	if err := signature.Execute(&out, view); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExecuteTemplate, err)
	}

	if templateName == templateMarkdownName {
		return ensureTrailingNewline(normalizeMarkdownOutput(out.String())), nil
	}

	return ensureTrailingNewline(strings.TrimSpace(out.String())), nil
}

// BuiltinTemplateNames returns all available built-in template names.
func BuiltinTemplateNames() []string {
	names := make([]string, 0, len(builtInTemplateFiles))
	for name := range builtInTemplateFiles {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// BuiltinTemplate returns one built-in template by name.
func BuiltinTemplate(name string) (string, error) {
	name = normalizeTemplateName(name)
	path, ok := builtInTemplateFiles[name]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownBuiltinTemplate, name)
	}

	data, err := templateFS.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadBuiltinTemplate, err)
	}

	return string(data), nil
}

// sanitizeDescriptionHTML passes description markup through the UGC policy.
func sanitizeDescriptionHTML(description string) htmltemplate.HTML {
	description = strings.TrimSpace(description)
	if description == "" {
		return ""
	}

	//nolint:gosec // sanitized by bluemonday policy
	return htmltemplate.HTML(descriptionPolicy().Sanitize(description))
}

// sanitizeDescriptionMarkdown strips description markup and wraps it as markdown paragraphs.
func sanitizeDescriptionMarkdown(description string) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return ""
	}

	stripped := plainTextPolicy().Sanitize(description)
	return formatDescriptionMarkdown(unescapeEntities(stripped), defaultWrapWidth)
}
