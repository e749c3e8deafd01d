// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfio

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/pdiddy/paperfmt/pkg/types"
)

// ContentStreamBackend extracts text by parsing page content-stream
// operators through pdfcpu. It recovers no tables; table extraction needs
// glyph positions, which the text-layer backend provides.
type ContentStreamBackend struct{}

// Name implements Backend.
func (b *ContentStreamBackend) Name() string { return "content-stream" }

// Extract implements Backend.
func (b *ContentStreamBackend) Extract(data []byte) (types.RawDocument, error) {
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return types.RawDocument{}, fmt.Errorf("pdfcpu read: %w", err)
	}

	var text strings.Builder
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		pageText := streamPageText(ctx, pageNr)
		if pageText == "" {
			continue
		}
		text.WriteString(pageText)
		text.WriteString("\n\n")
	}

	return types.RawDocument{Text: text.String()}, nil
}

// literalStringRe matches PDF literal strings in parentheses, honoring
// backslash-escaped parens inside the string.
var literalStringRe = regexp.MustCompile(`\(((?:[^()\\]|\\.)*)\)`)

// streamPageText extracts text from one page's content stream.
func streamPageText(ctx *model.Context, pageNr int) string {
	r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return ""
	}
	return textFromStream(data)
}

// textFromStream parses text-showing operators (Tj, TJ, ') and positioning
// operators (Td, TD, T*) out of a raw content stream.
func textFromStream(data []byte) string {
	var sb strings.Builder

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		switch {
		case bytes.HasSuffix(line, []byte("Tj")), bytes.HasSuffix(line, []byte("TJ")):
			for _, m := range literalStringRe.FindAllSubmatch(line, -1) {
				sb.WriteString(decodeLiteralString(m[1]))
			}
		case bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")):
			for _, m := range literalStringRe.FindAllSubmatch(line, -1) {
				sb.WriteByte('\n')
				sb.WriteString(decodeLiteralString(m[1]))
			}
		case bytes.HasSuffix(line, []byte("Td")), bytes.HasSuffix(line, []byte("TD")):
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
		case bytes.Equal(line, []byte("T*")):
			sb.WriteByte('\n')
		}
	}

	return tidyStreamText(sb.String())
}

// decodeLiteralString resolves PDF literal-string escapes: \n, \r, \t,
// \\, \(, \), and octal byte values.
func decodeLiteralString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			sb.WriteByte(raw[i])
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\', '(', ')':
			sb.WriteByte(raw[i])
		default:
			if raw[i] >= '0' && raw[i] <= '7' {
				val := int(raw[i] - '0')
				for n := 0; n < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; n++ {
					i++
					val = val*8 + int(raw[i]-'0')
				}
				sb.WriteByte(byte(val))
			} else {
				sb.WriteByte(raw[i])
			}
		}
	}
	return sb.String()
}

// tidyStreamText drops non-printable runes and collapses horizontal
// whitespace runs while keeping line breaks.
func tidyStreamText(text string) string {
	var sb strings.Builder
	prevSpace := false
	for _, r := range text {
		switch {
		case r == '\n':
			sb.WriteByte('\n')
			prevSpace = false
		case unicode.IsSpace(r):
			if !prevSpace && sb.Len() > 0 {
				sb.WriteByte(' ')
				prevSpace = true
			}
		case unicode.IsPrint(r):
			sb.WriteRune(r)
			prevSpace = false
		}
	}
	return strings.TrimSpace(sb.String())
}
