// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfio

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pdiddy/paperfmt/pkg/types"
)

// stubBackend returns a fixed document or error.
type stubBackend struct {
	name string
	doc  types.RawDocument
	err  error
}

func (s *stubBackend) Name() string { return s.name }

func (s *stubBackend) Extract(data []byte) (types.RawDocument, error) {
	return s.doc, s.err
}

func TestExtractorPrimaryWins(t *testing.T) {
	primary := &stubBackend{name: "p", doc: types.RawDocument{Text: "primary text"}}
	fallback := &stubBackend{name: "f", doc: types.RawDocument{Text: "fallback text"}}

	doc, err := NewExtractorWith(primary, fallback).Extract(nil)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Text != "primary text" {
		t.Errorf("text = %q, want primary result", doc.Text)
	}
}

func TestExtractorFallsBackOnError(t *testing.T) {
	primary := &stubBackend{name: "p", err: fmt.Errorf("corrupt xref")}
	fallback := &stubBackend{name: "f", doc: types.RawDocument{Text: "fallback text"}}

	doc, err := NewExtractorWith(primary, fallback).Extract(nil)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Text != "fallback text" {
		t.Errorf("text = %q, want fallback result", doc.Text)
	}
}

func TestExtractorFallsBackOnEmptyText(t *testing.T) {
	// A backend that succeeds but yields no text is as good as failed.
	primary := &stubBackend{name: "p", doc: types.RawDocument{Text: "  \n "}}
	fallback := &stubBackend{name: "f", doc: types.RawDocument{Text: "recovered"}}

	doc, err := NewExtractorWith(primary, fallback).Extract(nil)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Text != "recovered" {
		t.Errorf("text = %q, want fallback result", doc.Text)
	}
}

func TestExtractorBothFail(t *testing.T) {
	primary := &stubBackend{name: "p", err: fmt.Errorf("bad header")}
	fallback := &stubBackend{name: "f", err: fmt.Errorf("bad stream")}

	_, err := NewExtractorWith(primary, fallback).Extract(nil)
	if err == nil {
		t.Fatal("expected error when both backends fail")
	}
	extErr, ok := err.(*ExtractionError)
	if !ok {
		t.Fatalf("error type = %T, want *ExtractionError", err)
	}
	msg := extErr.Error()
	if !strings.Contains(msg, "bad header") || !strings.Contains(msg, "bad stream") {
		t.Errorf("error %q must carry both backend failures", msg)
	}
}

func TestExtractorBothEmpty(t *testing.T) {
	primary := &stubBackend{name: "p"}
	fallback := &stubBackend{name: "f"}

	_, err := NewExtractorWith(primary, fallback).Extract(nil)
	if err == nil {
		t.Fatal("expected error when both backends yield no text")
	}
	if !strings.Contains(err.Error(), "no text content") {
		t.Errorf("error = %q", err)
	}
}

func TestTextLayerBackendRejectsGarbage(t *testing.T) {
	_, err := (&TextLayerBackend{}).Extract([]byte("not a pdf at all"))
	if err == nil {
		t.Error("expected error for non-PDF input")
	}
}

func TestContentStreamBackendRejectsGarbage(t *testing.T) {
	_, err := (&ContentStreamBackend{}).Extract([]byte("not a pdf at all"))
	if err == nil {
		t.Error("expected error for non-PDF input")
	}
}

func TestDefaultExtractorRejectsGarbage(t *testing.T) {
	_, err := NewExtractor().Extract([]byte("%PDF-1.4 truncated garbage"))
	if err == nil {
		t.Fatal("expected terminal error")
	}
	if _, ok := err.(*ExtractionError); !ok {
		t.Errorf("error type = %T, want *ExtractionError", err)
	}
}

func TestRectangular(t *testing.T) {
	rows := [][]string{
		{"a", "b", "c"},
		{"d"},
		{"e", "f"},
	}
	got := rectangular(rows)
	for i, r := range got {
		if len(r) != 3 {
			t.Errorf("row %d has %d cells, want 3", i, len(r))
		}
	}
	if got[1][0] != "d" || got[1][1] != "" || got[1][2] != "" {
		t.Errorf("row 1 = %v", got[1])
	}
}
