// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/schemamarkup

package schemamarkup

import (
	"embed"
	"fmt"
	htmltemplate "html/template"
	"io"
	"strings"
	"text/template"
	"unicode"
)

const (
	templateHTMLName     = "html"
	templateMarkdownName = "markdown"
)

// templateFS stores built-in signature templates embedded into the package.
//
//go:embed templates/*.gotmpl
var templateFS embed.FS

// builtInTemplateFiles maps template aliases to embedded file paths.
var builtInTemplateFiles = map[string]string{
	templateHTMLName:     "templates/signature.html.gotmpl",
	templateMarkdownName: "templates/signature.md.gotmpl",
}

// signatureTemplate is a parsed template of either engine.
type signatureTemplate interface {
	Execute(w io.Writer, data any) error
}

// resolveTemplate parses custom or built-in template text with the engine of selected template name.
// Markdown templates use text/template, everything else uses contextual HTML escaping.
func resolveTemplate(opt Options) (signatureTemplate, string, error) {
	templateName := normalizeTemplateName(opt.TemplateName)
	if templateName == "" {
		templateName = defaultTemplateName
	}

	templateText := strings.TrimSpace(opt.TemplateText)
	label := "custom"
	if templateText == "" {
		text, err := BuiltinTemplate(templateName)
		if err != nil {
			return nil, "", err
		}

		templateText = text
		label = templateName
	}

	parsed, err := parseSignatureTemplate(label, templateName, templateText)
	if err != nil {
		return nil, "", fmt.Errorf("%w %q: %w", ErrParseBuiltinTemplate, label, err)
	}

	return parsed, templateName, nil
}

// parseSignatureTemplate picks template engine by template name.
func parseSignatureTemplate(label, templateName, text string) (signatureTemplate, error) {
	if templateName == templateMarkdownName {
		return template.New(label).Funcs(markdownTemplateFuncs()).Parse(text)
	}

	return htmltemplate.New(label).Funcs(htmlTemplateFuncs()).Parse(text)
}

// normalizeTemplateName normalizes built-in template identifiers.
func normalizeTemplateName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "md" {
		return templateMarkdownName
	}

	return name
}

// htmlTemplateFuncs provides utility functions available inside HTML templates.
func htmlTemplateFuncs() htmltemplate.FuncMap {
	return htmltemplate.FuncMap{
		"anchor":          headingAnchor,
		"descriptionHTML": sanitizeDescriptionHTML,
		"separator":       listSeparator,
	}
}

// markdownTemplateFuncs provides utility functions available inside markdown templates.
func markdownTemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"anchor":              headingAnchor,
		"code":                escapeInline,
		"descriptionMarkdown": sanitizeDescriptionMarkdown,
		"indent":              indentContinuation,
		"separator":           listSeparator,
	}
}

// listSeparator joins "a, b or c" style lists inside templates.
func listSeparator(index, count int) string {
	switch {
	case index == count-2:
		return " or "
	case index < count-2:
		return ", "
	default:
		return ""
	}
}

// headingAnchor converts model key into an anchor slug.
func headingAnchor(value string) string {
	trimmed := strings.TrimSpace(strings.ToLower(value))
	if trimmed == "" {
		return ""
	}

	var out strings.Builder
	out.Grow(len(trimmed))

	lastDash := false
	for _, r := range trimmed {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			out.WriteRune(r)
			lastDash = false
		case unicode.IsSpace(r), r == '-', r == '_', r == '.':
			if lastDash || out.Len() == 0 {
				continue
			}

			out.WriteByte('-')
			lastDash = true
		}
	}

	return strings.Trim(out.String(), "-")
}
