// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline sequences the processing stages: extract text and tables
// from the PDF, infer document structure, normalize content, and render the
// cleaned PDF. The pipeline itself is thin; all decision logic lives in the
// engine and normalizer.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/paperfmt/internal/engine"
	"github.com/pdiddy/paperfmt/internal/history"
	"github.com/pdiddy/paperfmt/internal/normalize"
	"github.com/pdiddy/paperfmt/internal/patterns"
	"github.com/pdiddy/paperfmt/pkg/types"
)

// Extractor is the text/table extraction collaborator.
type Extractor interface {
	Extract(data []byte) (types.RawDocument, error)
}

// Renderer is the document rendering collaborator.
type Renderer interface {
	Render(doc types.ExtractedDocument, style types.StyleConfig) ([]byte, error)
}

// Config wires the pipeline's collaborators. History is optional.
type Config struct {
	Extractor Extractor
	Engine    *engine.Engine
	Renderer  Renderer
	Patterns  *patterns.Set
	Style     types.StyleConfig
	History   *history.Store
}

// Pipeline processes documents one at a time. Runs share no mutable state,
// so distinct documents can be processed concurrently by distinct calls.
type Pipeline struct {
	extractor  Extractor
	engine     *engine.Engine
	renderer   Renderer
	normalizer *normalize.Normalizer
	pats       *patterns.Set
	style      types.StyleConfig
	history    *history.Store
}

// New builds a Pipeline from the given collaborators.
func New(cfg Config) *Pipeline {
	pats := cfg.Patterns
	if pats == nil {
		pats = patterns.Default()
	}
	return &Pipeline{
		extractor:  cfg.Extractor,
		engine:     cfg.Engine,
		renderer:   cfg.Renderer,
		normalizer: normalize.New(pats),
		pats:       pats,
		style:      cfg.Style,
		history:    cfg.History,
	}
}

// Result is the structured output of one run plus description counts for
// status reporting.
type Result struct {
	Document       types.ExtractedDocument
	TablesFound    int
	EquationsFound int
}

// ProcessFile runs the full pipeline for one PDF. Terminal errors are the
// extractor failing on the input and the renderer failing on the output;
// everything in between resolves to a concrete result. No output file is
// written on error.
func (p *Pipeline) ProcessFile(ctx context.Context, inputPath, outputPath string, w io.Writer) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputPath, err)
	}

	raw, err := p.extractor.Extract(data)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "extracted %d characters, %d tables\n", len(raw.Text), len(raw.Tables))

	result := p.Extract(ctx, raw, w)

	out, err := p.renderer.Render(result.Document, p.style)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	fmt.Fprintf(w, "wrote %s (%d sections)\n", outputPath, len(result.Document.Sections))

	p.record(inputPath, outputPath, result, w)
	return nil
}

// Extract turns a raw document into the structured record: title, abstract,
// front-matter removal, equation and table descriptions, normalization, and
// section parsing, in that order.
func (p *Pipeline) Extract(ctx context.Context, raw types.RawDocument, w io.Writer) Result {
	title := p.engine.ExtractTitle(ctx, raw.Text)
	fmt.Fprintf(w, "title: %s\n", title)

	abstract := p.cleanAbstract(ctx, p.engine.ExtractAbstract(raw.Text))
	body := p.engine.RemoveFrontMatter(raw.Text)

	spans := p.pats.EquationSpans(body)
	equationDescs := make([]types.Description, 0, len(spans))
	for _, s := range spans {
		equationDescs = append(equationDescs, types.Description{
			Start: s.Start,
			End:   s.End,
			Text:  p.engine.DescribeEquation(ctx, body[s.Start:s.End]),
		})
	}

	tableDescs := make([]string, 0, len(raw.Tables))
	for _, t := range raw.Tables {
		tableDescs = append(tableDescs, p.engine.DescribeTable(ctx, t))
	}
	if len(spans) > 0 || len(raw.Tables) > 0 {
		fmt.Fprintf(w, "described %d equations, %d tables\n", len(spans), len(raw.Tables))
	}

	cleaned := p.normalizer.Normalize(body, tableDescs, equationDescs)

	sections := p.engine.ParseSections(ctx, cleaned)
	sections = dropAbstractSection(sections, abstract)
	fmt.Fprintf(w, "parsed %d sections\n", len(sections))

	return Result{
		Document: types.ExtractedDocument{
			Title:    title,
			Abstract: abstract,
			Sections: sections,
		},
		TablesFound:    len(raw.Tables),
		EquationsFound: len(spans),
	}
}

// cleanAbstract runs the normalization passes over the abstract body so it
// carries no links or equation delimiters, same as the section contents.
// Equation spans are computed against the abstract text itself.
func (p *Pipeline) cleanAbstract(ctx context.Context, abstract string) string {
	if abstract == "" {
		return ""
	}
	spans := p.pats.EquationSpans(abstract)
	descs := make([]types.Description, 0, len(spans))
	for _, s := range spans {
		descs = append(descs, types.Description{
			Start: s.Start,
			End:   s.End,
			Text:  p.engine.DescribeEquation(ctx, abstract[s.Start:s.End]),
		})
	}
	return p.normalizer.Normalize(abstract, nil, descs)
}

// dropAbstractSection removes a leading section whose heading is the
// abstract marker itself; its content duplicates the separately extracted
// abstract.
func dropAbstractSection(sections []types.Section, abstract string) []types.Section {
	if abstract == "" || len(sections) == 0 {
		return sections
	}
	h := strings.ToLower(strings.TrimSpace(sections[0].Heading))
	if h == "abstract" || h == "summary" {
		return sections[1:]
	}
	return sections
}

// record logs the run to history. Failures are warnings, never pipeline
// errors.
func (p *Pipeline) record(inputPath, outputPath string, result Result, w io.Writer) {
	if p.history == nil {
		return
	}
	err := p.history.Record(history.Run{
		Input:     inputPath,
		Output:    outputPath,
		Title:     result.Document.Title,
		Mode:      string(p.engine.Mode()),
		Sections:  len(result.Document.Sections),
		Tables:    result.TablesFound,
		Equations: result.EquationsFound,
	})
	if err != nil {
		fmt.Fprintf(w, "warning: could not record run: %v\n", err)
	}
}

// BatchResult holds the outcome of a batch run.
type BatchResult struct {
	Processed int
	Failed    int
}

// Total returns the number of documents attempted.
func (r BatchResult) Total() int { return r.Processed + r.Failed }

// HasFailures reports whether any document failed.
func (r BatchResult) HasFailures() bool { return r.Failed > 0 }

// ProcessBatch runs fully independent single-document runs over many PDFs,
// writing outputs into outDir and per-file status to w.
func (p *Pipeline) ProcessBatch(ctx context.Context, inputs []string, outDir string, w io.Writer) BatchResult {
	var result BatchResult
	for _, input := range inputs {
		base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		output := filepath.Join(outDir, base+"-clean.pdf")

		if err := p.ProcessFile(ctx, input, output, w); err != nil {
			fmt.Fprintf(w, "failed:    %s (%v)\n", base, err)
			result.Failed++
			continue
		}
		fmt.Fprintf(w, "processed: %s\n", base)
		result.Processed++
	}
	fmt.Fprintf(w, "\nBatch summary: %d processed, %d failed (total: %d)\n",
		result.Processed, result.Failed, result.Total())
	return result
}
