// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfio extracts plain text and raw table grids from PDF bytes.
// Two interchangeable backends implement the extraction contract: a text-layer
// backend (ledongthuc/pdf) and a content-stream backend (pdfcpu). The
// Extractor tries the primary backend and falls back to the secondary; when
// both fail the error is terminal.
package pdfio

import (
	"fmt"
	"strings"

	"github.com/pdiddy/paperfmt/pkg/types"
)

// Backend reads PDF bytes and returns the full plain text plus recovered
// tables. Backends are interchangeable behind this contract.
type Backend interface {
	// Name identifies the backend in error messages and status output.
	Name() string

	// Extract parses the PDF and returns its text and tables.
	Extract(data []byte) (types.RawDocument, error)
}

// ExtractionError reports that neither backend could read the PDF (corrupt,
// encrypted, or no text layer). It is terminal: callers must not attempt
// further fallback.
type ExtractionError struct {
	Primary  error
	Fallback error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting PDF: primary backend failed (%v); fallback backend failed (%v)", e.Primary, e.Fallback)
}

// Extractor combines a primary and a fallback backend.
type Extractor struct {
	primary  Backend
	fallback Backend
}

// NewExtractor returns an Extractor with the default backend pair: text-layer
// extraction first, content-stream parsing as fallback.
func NewExtractor() *Extractor {
	return &Extractor{
		primary:  &TextLayerBackend{},
		fallback: &ContentStreamBackend{},
	}
}

// NewExtractorWith builds an Extractor from explicit backends. Tests use this
// to substitute stubs.
func NewExtractorWith(primary, fallback Backend) *Extractor {
	return &Extractor{primary: primary, fallback: fallback}
}

// Extract runs the primary backend and, if it fails or yields no text, the
// fallback. When both fail it returns an *ExtractionError.
func (e *Extractor) Extract(data []byte) (types.RawDocument, error) {
	doc, primaryErr := e.primary.Extract(data)
	if primaryErr == nil && strings.TrimSpace(doc.Text) != "" {
		return doc, nil
	}
	if primaryErr == nil {
		primaryErr = fmt.Errorf("%s: no text content", e.primary.Name())
	}

	doc, fallbackErr := e.fallback.Extract(data)
	if fallbackErr == nil && strings.TrimSpace(doc.Text) != "" {
		return doc, nil
	}
	if fallbackErr == nil {
		fallbackErr = fmt.Errorf("%s: no text content", e.fallback.Name())
	}

	return types.RawDocument{}, &ExtractionError{Primary: primaryErr, Fallback: fallbackErr}
}
