// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfio

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/paperfmt/pkg/types"
)

// TextLayerBackend extracts text through the PDF text layer using
// ledongthuc/pdf. Text is read row by row; when row extraction yields
// nothing, positioned glyphs are regrouped into lines. Tables are recovered
// by clustering positioned text into rows and splitting rows on wide
// horizontal gaps.
type TextLayerBackend struct{}

// Name implements Backend.
func (b *TextLayerBackend) Name() string { return "text-layer" }

// Extract implements Backend. The underlying parser panics on some malformed
// files; panics are converted to errors so the caller can fall back.
func (b *TextLayerBackend) Extract(data []byte) (doc types.RawDocument, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("text-layer parse panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return types.RawDocument{}, fmt.Errorf("opening PDF: %w", err)
	}

	var text strings.Builder
	var tables []types.RawTable

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		pageText := extractPageText(page)
		if strings.TrimSpace(pageText) != "" {
			text.WriteString(pageText)
			text.WriteString("\n\n")
		}

		tables = append(tables, extractPageTables(page, pageNum)...)
	}

	return types.RawDocument{Text: text.String(), Tables: tables}, nil
}

// extractPageText reads one page via GetTextByRow, falling back to
// position-based line reconstruction from Content().
func extractPageText(page pdf.Page) string {
	rows, err := page.GetTextByRow()
	if err == nil && len(rows) > 0 {
		var out strings.Builder
		for _, row := range rows {
			line := joinRowWords(row.Content)
			if line != "" {
				out.WriteString(line)
				out.WriteByte('\n')
			}
		}
		if strings.TrimSpace(out.String()) != "" {
			return out.String()
		}
	}

	lines := clusterLines(page.Content().Text)
	var out strings.Builder
	for _, ln := range lines {
		text := strings.TrimSpace(ln.join())
		if text != "" {
			out.WriteString(text)
			out.WriteByte('\n')
		}
	}
	return out.String()
}

// joinRowWords concatenates the words of one text row. Empty strings between
// non-empty ones mark word boundaries.
func joinRowWords(words []pdf.Text) string {
	var line strings.Builder
	prevEmpty := false
	for _, w := range words {
		if w.S == "" {
			prevEmpty = true
			continue
		}
		if line.Len() > 0 && prevEmpty && !strings.HasSuffix(line.String(), " ") {
			line.WriteByte(' ')
		}
		line.WriteString(w.S)
		prevEmpty = false
	}
	return strings.TrimSpace(line.String())
}

// textLine is a cluster of positioned fragments sharing one baseline.
type textLine struct {
	y     float64
	frags []pdf.Text
}

// join orders the fragments left to right and inserts spaces at gaps wider
// than a font-size-relative threshold.
func (l *textLine) join() string {
	sort.Slice(l.frags, func(i, j int) bool { return l.frags[i].X < l.frags[j].X })

	var out strings.Builder
	var lastX, lastWidth float64
	for i, f := range l.frags {
		if i > 0 {
			threshold := f.FontSize * 0.2
			if threshold < 1.0 {
				threshold = 1.0
			}
			if f.X-(lastX+lastWidth) > threshold {
				out.WriteByte(' ')
			}
		}
		out.WriteString(f.S)
		lastX = f.X
		lastWidth = estimateWidth(f)
	}
	return out.String()
}

// estimateWidth approximates the rendered width of a fragment.
func estimateWidth(f pdf.Text) float64 {
	if f.W > 0 {
		return f.W
	}
	return float64(len([]rune(f.S))) * f.FontSize * 0.55
}

// clusterLines groups positioned fragments into lines by Y proximity and
// returns them top to bottom.
func clusterLines(frags []pdf.Text) []*textLine {
	var lines []*textLine
	for _, f := range frags {
		if strings.TrimSpace(f.S) == "" {
			continue
		}
		tolerance := 3.0
		if f.FontSize > 0 {
			tolerance = f.FontSize * 0.3
		}
		placed := false
		for _, ln := range lines {
			if abs(ln.y-f.Y) < tolerance {
				ln.frags = append(ln.frags, f)
				placed = true
				break
			}
		}
		if !placed {
			lines = append(lines, &textLine{y: f.Y, frags: []pdf.Text{f}})
		}
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].y > lines[j].y })
	return lines
}

// Table recovery thresholds: a line splits into cells at horizontal gaps
// wider than minColumnGap points; runs of at least minTableRows consecutive
// multi-cell lines form a table.
const (
	minColumnGap = 18.0
	minTableRows = 2
	minTableCols = 2
)

// extractPageTables recovers rectangular cell grids from the positioned text
// of one page.
func extractPageTables(page pdf.Page, pageNum int) []types.RawTable {
	lines := clusterLines(page.Content().Text)

	cellRows := make([][]string, len(lines))
	for i, ln := range lines {
		cellRows[i] = splitCells(ln)
	}

	var tables []types.RawTable
	index := 0
	run := 0
	for i := 0; i <= len(cellRows); i++ {
		if i < len(cellRows) && len(cellRows[i]) >= minTableCols {
			run++
			continue
		}
		if run >= minTableRows {
			index++
			tables = append(tables, types.RawTable{
				Page:  pageNum,
				Index: index,
				Rows:  rectangular(cellRows[i-run : i]),
			})
		}
		run = 0
	}
	return tables
}

// splitCells breaks one line into cell strings at wide horizontal gaps.
func splitCells(ln *textLine) []string {
	sort.Slice(ln.frags, func(i, j int) bool { return ln.frags[i].X < ln.frags[j].X })

	var cells []string
	var cell strings.Builder
	var lastX, lastWidth float64
	for i, f := range ln.frags {
		if i > 0 && f.X-(lastX+lastWidth) > minColumnGap {
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		} else if i > 0 && cell.Len() > 0 {
			threshold := f.FontSize * 0.2
			if threshold < 1.0 {
				threshold = 1.0
			}
			if f.X-(lastX+lastWidth) > threshold {
				cell.WriteByte(' ')
			}
		}
		cell.WriteString(f.S)
		lastX = f.X
		lastWidth = estimateWidth(f)
	}
	if strings.TrimSpace(cell.String()) != "" {
		cells = append(cells, strings.TrimSpace(cell.String()))
	}
	return cells
}

// rectangular pads ragged rows with empty cells so the grid is rectangular.
func rectangular(rows [][]string) [][]string {
	cols := 0
	for _, r := range rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		padded := make([]string, cols)
		copy(padded, r)
		out[i] = padded
	}
	return out
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
