// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/paperfmt/internal/engine"
	"github.com/pdiddy/paperfmt/internal/render"
	"github.com/pdiddy/paperfmt/pkg/types"
)

// stubExtractor returns a fixed raw document or error, regardless of input.
type stubExtractor struct {
	doc types.RawDocument
	err error
}

func (s *stubExtractor) Extract(data []byte) (types.RawDocument, error) {
	return s.doc, s.err
}

// stubRenderer records what it was asked to render.
type stubRenderer struct {
	rendered *types.ExtractedDocument
	err      error
}

func (s *stubRenderer) Render(doc types.ExtractedDocument, style types.StyleConfig) ([]byte, error) {
	s.rendered = &doc
	if s.err != nil {
		return nil, s.err
	}
	return []byte("%PDF-fake"), nil
}

const samplePaper = `Paper Title

John Doe, Jane Roe
University X

Abstract
This is the abstract.

1. Introduction
Some intro text. Visit https://example.com/paper for details.

2. Methods
The relation $E = mc^2$ holds.`

func newTestPipeline(ext Extractor, rend Renderer) *Pipeline {
	return New(Config{
		Extractor: ext,
		Engine:    engine.New(types.ModeRuleBased, types.EngineConfig{}, nil, nil),
		Renderer:  rend,
		Style:     render.DefaultStyle(),
	})
}

func TestExtract(t *testing.T) {
	p := newTestPipeline(nil, nil)
	var status bytes.Buffer

	result := p.Extract(context.Background(), types.RawDocument{Text: samplePaper}, &status)
	doc := result.Document

	if doc.Title != "Paper Title" {
		t.Errorf("title = %q", doc.Title)
	}
	if doc.Abstract != "This is the abstract." {
		t.Errorf("abstract = %q", doc.Abstract)
	}
	if len(doc.Sections) != 2 {
		t.Fatalf("sections = %+v", doc.Sections)
	}
	if doc.Sections[0].Heading != "Introduction" || doc.Sections[1].Heading != "Methods" {
		t.Errorf("headings = %q, %q", doc.Sections[0].Heading, doc.Sections[1].Heading)
	}

	// Front matter is gone from every section.
	for _, sec := range doc.Sections {
		if strings.Contains(sec.Content, "University X") {
			t.Errorf("front matter leaked into %q", sec.Heading)
		}
		if strings.Contains(sec.Content, "https://") {
			t.Errorf("URL survived normalization in %q", sec.Heading)
		}
		if strings.Contains(sec.Content, "$") {
			t.Errorf("equation delimiter survived in %q: %q", sec.Heading, sec.Content)
		}
	}

	if result.EquationsFound != 1 {
		t.Errorf("equations found = %d, want 1", result.EquationsFound)
	}
	if !strings.Contains(doc.Sections[1].Content, "[Equation: E = mc^2]") {
		t.Errorf("equation description missing: %q", doc.Sections[1].Content)
	}
}

func TestExtractDescribesTables(t *testing.T) {
	p := newTestPipeline(nil, nil)
	raw := types.RawDocument{
		Text: samplePaper,
		Tables: []types.RawTable{
			{Page: 1, Index: 1, Rows: [][]string{{"Name", "Score"}, {"A", "1"}, {"B", "2"}}},
		},
	}

	result := p.Extract(context.Background(), raw, &bytes.Buffer{})
	if result.TablesFound != 1 {
		t.Fatalf("tables found = %d", result.TablesFound)
	}

	var all strings.Builder
	for _, sec := range result.Document.Sections {
		all.WriteString(sec.Content)
		all.WriteString("\n")
	}
	if !strings.Contains(all.String(), "3 rows and 2 columns") {
		t.Errorf("table description missing from sections:\n%s", all.String())
	}
}

func TestExtractNormalizesAbstract(t *testing.T) {
	// The abstract goes through the same cleanup as section bodies: links
	// stripped, equation spans replaced with descriptions.
	text := "Title Line\n\nAbstract\nWe study widgets; see https://example.com/widgets and contact a@b.edu about $E=mc^2$.\n\n1. Introduction\nBody."
	p := newTestPipeline(nil, nil)

	result := p.Extract(context.Background(), types.RawDocument{Text: text}, &bytes.Buffer{})
	abstract := result.Document.Abstract

	for _, bad := range []string{"https://", "@", "$"} {
		if strings.Contains(abstract, bad) {
			t.Errorf("abstract still contains %q: %q", bad, abstract)
		}
	}
	if !strings.Contains(abstract, "[Equation: E=mc^2]") {
		t.Errorf("equation description missing from abstract: %q", abstract)
	}
	if !strings.Contains(abstract, "We study widgets") {
		t.Errorf("abstract body lost: %q", abstract)
	}
}

func TestExtractDropsDuplicateAbstractSection(t *testing.T) {
	// An all-caps ABSTRACT marker also parses as a section heading; the
	// resulting section duplicates the extracted abstract and is dropped.
	text := "Title Line\n\nABSTRACT\nThe abstract body.\n\nINTRODUCTION\nIntro body."
	p := newTestPipeline(nil, nil)

	result := p.Extract(context.Background(), types.RawDocument{Text: text}, &bytes.Buffer{})
	doc := result.Document

	if doc.Abstract != "The abstract body." {
		t.Errorf("abstract = %q", doc.Abstract)
	}
	for _, sec := range doc.Sections {
		if strings.EqualFold(sec.Heading, "abstract") {
			t.Errorf("duplicate abstract section kept: %+v", doc.Sections)
		}
	}
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "paper.pdf")
	output := filepath.Join(dir, "paper-clean.pdf")
	if err := os.WriteFile(input, []byte("%PDF-stub"), 0o644); err != nil {
		t.Fatal(err)
	}

	rend := &stubRenderer{}
	p := newTestPipeline(&stubExtractor{doc: types.RawDocument{Text: samplePaper}}, rend)

	var status bytes.Buffer
	if err := p.ProcessFile(context.Background(), input, output, &status); err != nil {
		t.Fatalf("ProcessFile: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if string(data) != "%PDF-fake" {
		t.Errorf("output content = %q", data)
	}
	if rend.rendered == nil || rend.rendered.Title != "Paper Title" {
		t.Errorf("renderer got %+v", rend.rendered)
	}
	if !strings.Contains(status.String(), "wrote ") {
		t.Errorf("status output missing write line: %q", status.String())
	}
}

func TestProcessFileExtractionError(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "bad.pdf")
	output := filepath.Join(dir, "bad-clean.pdf")
	if err := os.WriteFile(input, []byte("junk"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := newTestPipeline(&stubExtractor{err: fmt.Errorf("unreadable")}, &stubRenderer{})
	err := p.ProcessFile(context.Background(), input, output, &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected extraction error")
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Error("no output file may exist after a failed run")
	}
}

func TestProcessFileRenderError(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "paper.pdf")
	output := filepath.Join(dir, "paper-clean.pdf")
	if err := os.WriteFile(input, []byte("%PDF-stub"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := newTestPipeline(
		&stubExtractor{doc: types.RawDocument{Text: samplePaper}},
		&stubRenderer{err: fmt.Errorf("bad style")},
	)
	if err := p.ProcessFile(context.Background(), input, output, &bytes.Buffer{}); err == nil {
		t.Fatal("expected render error")
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Error("no partial output may exist after a render failure")
	}
}

func TestProcessFileMissingInput(t *testing.T) {
	p := newTestPipeline(&stubExtractor{}, &stubRenderer{})
	err := p.ProcessFile(context.Background(), "/does/not/exist.pdf", "out.pdf", &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected error for missing input")
	}
}

func TestProcessBatch(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatal(err)
	}

	good1 := filepath.Join(dir, "good1.pdf")
	good2 := filepath.Join(dir, "good2.pdf")
	for _, f := range []string{good1, good2} {
		if err := os.WriteFile(f, []byte("%PDF-stub"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	missing := filepath.Join(dir, "missing.pdf")

	p := newTestPipeline(&stubExtractor{doc: types.RawDocument{Text: samplePaper}}, &stubRenderer{})

	var status bytes.Buffer
	result := p.ProcessBatch(context.Background(), []string{good1, missing, good2}, outDir, &status)

	if result.Processed != 2 || result.Failed != 1 {
		t.Errorf("batch result = %+v", result)
	}
	if result.Total() != 3 {
		t.Errorf("total = %d", result.Total())
	}
	if !result.HasFailures() {
		t.Error("HasFailures must report the failed document")
	}

	// One failed document does not stop the rest.
	for _, name := range []string{"good1-clean.pdf", "good2-clean.pdf"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing batch output %s: %v", name, err)
		}
	}
	if !strings.Contains(status.String(), "Batch summary: 2 processed, 1 failed (total: 3)") {
		t.Errorf("summary line missing: %q", status.String())
	}
}

func TestProcessBatchAllSucceed(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "only.pdf")
	if err := os.WriteFile(input, []byte("%PDF-stub"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := newTestPipeline(&stubExtractor{doc: types.RawDocument{Text: samplePaper}}, &stubRenderer{})
	result := p.ProcessBatch(context.Background(), []string{input}, dir, &bytes.Buffer{})
	if result.HasFailures() {
		t.Errorf("unexpected failures: %+v", result)
	}
}
