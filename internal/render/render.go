// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns an ExtractedDocument into PDF bytes with fixed
// typographic rules: centered title, left-aligned headings, justified body.
// It renders entirely in memory so a failed run never leaves a partial
// output file. Image bytes from the source document are never emitted.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/pdiddy/paperfmt/pkg/types"
)

// RenderError is terminal: the renderer cannot produce output, usually
// because of an invalid style configuration.
type RenderError struct {
	Reason string
	Err    error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("rendering document: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("rendering document: %s", e.Reason)
}

func (e *RenderError) Unwrap() error { return e.Err }

// pageSizes lists the gofpdf page size names the style accepts.
var pageSizes = map[string]bool{
	"A4":     true,
	"Letter": true,
	"Legal":  true,
}

// DefaultStyle returns the standard output style: Letter page, one-inch
// side margins, 16pt centered title, 12pt left headings, 10pt justified
// body text.
func DefaultStyle() types.StyleConfig {
	return types.StyleConfig{
		PageSize:     "Letter",
		MarginLeft:   72,
		MarginRight:  72,
		MarginTop:    72,
		MarginBottom: 18,
		Title:        types.RoleStyle{FontSize: 16, Alignment: types.AlignCenter},
		Heading:      types.RoleStyle{FontSize: 12, Alignment: types.AlignLeft},
		AbstractBody: types.RoleStyle{FontSize: 10, Alignment: types.AlignJustify},
		Body:         types.RoleStyle{FontSize: 10, Alignment: types.AlignJustify},
	}
}

// Validate checks a style configuration. An invalid style yields a
// *RenderError.
func Validate(style types.StyleConfig) error {
	if !pageSizes[style.PageSize] {
		return &RenderError{Reason: fmt.Sprintf("unknown page size %q", style.PageSize)}
	}
	if style.MarginLeft < 0 || style.MarginRight < 0 || style.MarginTop < 0 || style.MarginBottom < 0 {
		return &RenderError{Reason: "margins must be non-negative"}
	}
	for role, rs := range map[string]types.RoleStyle{
		"title":         style.Title,
		"heading":       style.Heading,
		"abstract_body": style.AbstractBody,
		"body":          style.Body,
	} {
		if rs.FontSize <= 0 {
			return &RenderError{Reason: fmt.Sprintf("%s font size must be positive", role)}
		}
		if _, err := alignCode(rs.Alignment); err != nil {
			return &RenderError{Reason: fmt.Sprintf("%s: %v", role, err)}
		}
	}
	return nil
}

// alignCode maps a role alignment to the gofpdf cell alignment code.
func alignCode(a types.Alignment) (string, error) {
	switch a {
	case types.AlignLeft:
		return "L", nil
	case types.AlignCenter:
		return "C", nil
	case types.AlignJustify:
		return "J", nil
	}
	return "", fmt.Errorf("unknown alignment %q", a)
}

// Renderer emits PDF bytes for extracted documents.
type Renderer struct{}

// New returns a Renderer.
func New() *Renderer { return &Renderer{} }

// Render builds the output PDF. A document with zero sections still renders
// its title and abstract; that is a valid degenerate output, not an error.
func (r *Renderer) Render(doc types.ExtractedDocument, style types.StyleConfig) ([]byte, error) {
	if err := Validate(style); err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "pt", style.PageSize, "")
	pdf.SetMargins(style.MarginLeft, style.MarginTop, style.MarginRight)
	pdf.SetAutoPageBreak(true, style.MarginBottom)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if doc.Title != "" {
		writeRole(pdf, tr, doc.Title, style.Title, "B")
		pdf.Ln(style.Title.FontSize)
	}

	if doc.Abstract != "" {
		writeRole(pdf, tr, "Abstract", style.Heading, "B")
		pdf.Ln(style.Heading.FontSize * 0.5)
		writeParagraphs(pdf, tr, doc.Abstract, style.AbstractBody)
		pdf.Ln(style.AbstractBody.FontSize)
	}

	for _, sec := range doc.Sections {
		if sec.Heading != "" {
			writeRole(pdf, tr, sec.Heading, style.Heading, "B")
			pdf.Ln(style.Heading.FontSize * 0.5)
		}
		writeParagraphs(pdf, tr, sec.Content, style.Body)
		pdf.Ln(style.Body.FontSize)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &RenderError{Reason: "building PDF", Err: err}
	}
	return buf.Bytes(), nil
}

// writeRole writes one block of text with a role's font size and alignment.
func writeRole(pdf *gofpdf.Fpdf, tr func(string) string, text string, rs types.RoleStyle, fontStyle string) {
	align, _ := alignCode(rs.Alignment)
	pdf.SetFont("Helvetica", fontStyle, rs.FontSize)
	pdf.MultiCell(0, rs.FontSize*1.5, tr(text), "", align, false)
}

// writeParagraphs splits content on blank lines and writes each paragraph as
// flowing text.
func writeParagraphs(pdf *gofpdf.Fpdf, tr func(string) string, content string, rs types.RoleStyle) {
	align, _ := alignCode(rs.Alignment)
	pdf.SetFont("Helvetica", "", rs.FontSize)
	for _, para := range strings.Split(content, "\n\n") {
		para = strings.Join(strings.Fields(para), " ")
		if para == "" {
			continue
		}
		pdf.MultiCell(0, rs.FontSize*1.5, tr(para), "", align, false)
		pdf.Ln(rs.FontSize * 0.6)
	}
}
