// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"strings"
	"testing"

	"github.com/pdiddy/paperfmt/pkg/types"
)

func TestStripLinks(t *testing.T) {
	n := New(nil)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "url removed with single space",
			in:   "Visit https://example.com/paper for details.",
			want: "Visit for details.",
		},
		{
			name: "www reference",
			in:   "See www.example.org/data for the dataset.",
			want: "See for the dataset.",
		},
		{
			name: "bare doi",
			in:   "Published as 10.1145/3292500.3330701 last year.",
			want: "Published as last year.",
		},
		{
			name: "doi label",
			in:   "Available at doi:10.1000/xyz123 online.",
			want: "Available at online.",
		},
		{
			name: "email",
			in:   "Contact jane@example.edu with questions.",
			want: "Contact with questions.",
		},
		{
			name: "multiple in one line",
			in:   "See https://a.com and https://b.com here.",
			want: "See and here.",
		},
		{
			name: "nothing to strip",
			in:   "Plain prose stays untouched.",
			want: "Plain prose stays untouched.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Normalize(tt.in, nil, nil)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := New(nil)

	inputs := []string{
		"Visit https://example.com for details.\n\nNext paragraph.",
		"Plain text with no links.",
		"Spaced   out    text\n\n\n\nwith blank runs.",
	}
	for _, in := range inputs {
		once := n.Normalize(in, nil, nil)
		twice := n.Normalize(once, nil, nil)
		if once != twice {
			t.Errorf("not idempotent:\n once: %q\ntwice: %q", once, twice)
		}
	}
}

func TestReplaceSpans(t *testing.T) {
	text := "Before $x+y$ middle $$z$$ after."
	descs := []types.Description{
		{Start: 7, End: 12, Text: "[Equation: x+y]"},
		{Start: 20, End: 25, Text: "[Equation: z]"},
	}
	got := replaceSpans(text, descs)
	want := "Before [Equation: x+y] middle [Equation: z] after."
	if got != want {
		t.Errorf("replaceSpans = %q, want %q", got, want)
	}
}

func TestReplaceSpansSkipsInvalid(t *testing.T) {
	text := "abcdef"
	descs := []types.Description{
		{Start: 4, End: 2, Text: "X"},  // inverted
		{Start: 2, End: 99, Text: "Y"}, // past end
	}
	if got := replaceSpans(text, descs); got != text {
		t.Errorf("invalid spans must be skipped, got %q", got)
	}
}

func TestNormalizeEquations(t *testing.T) {
	n := New(nil)
	text := "The relation $E = mc^2$ holds."
	descs := []types.Description{{Start: 13, End: 23, Text: "[Equation: E = mc^2]"}}

	got := n.Normalize(text, nil, descs)
	if strings.Contains(got, "$") {
		t.Errorf("output still has delimiters: %q", got)
	}
	if !strings.Contains(got, "[Equation: E = mc^2]") {
		t.Errorf("description missing: %q", got)
	}
}

func TestInsertTableDescs(t *testing.T) {
	t.Run("after first reference", func(t *testing.T) {
		text := "As Table 1 shows, accuracy improves.\nMore discussion of Table 1 follows."
		got := insertTableDescs(text, []string{"Table with 3 rows and 2 columns."})

		idx := strings.Index(got, "[Table 1: Table with 3 rows and 2 columns.]")
		if idx < 0 {
			t.Fatalf("description not inserted: %q", got)
		}
		// Inserted after the first reference, before the second.
		if idx > strings.Index(got, "More discussion") {
			t.Errorf("description inserted after second reference: %q", got)
		}
	})

	t.Run("unreferenced table appended", func(t *testing.T) {
		text := "No table references here."
		got := insertTableDescs(text, []string{"Grid summary."})
		if !strings.HasSuffix(strings.TrimSpace(got), "[Table 1: Grid summary.]") {
			t.Errorf("description not appended: %q", got)
		}
	})

	t.Run("numbering follows extraction order", func(t *testing.T) {
		text := "Table 2 is discussed before Table 1 here."
		got := insertTableDescs(text, []string{"first grid", "second grid"})
		if !strings.Contains(got, "[Table 1: first grid]") || !strings.Contains(got, "[Table 2: second grid]") {
			t.Errorf("per-index insertion broken: %q", got)
		}
	})

	t.Run("empty description skipped", func(t *testing.T) {
		text := "Body text."
		if got := insertTableDescs(text, []string{""}); got != text {
			t.Errorf("empty description must not insert: %q", got)
		}
	})
}

func TestCollapseWhitespace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a  b   c", "a b c"},
		{"a\n\n\n\nb", "a\n\nb"},
		{"line \nnext", "line\nnext"},
		{"line\n   indented", "line\nindented"},
		{"  padded  ", "padded"},
	}
	for _, tt := range tests {
		if got := collapseWhitespace(tt.in); got != tt.want {
			t.Errorf("collapseWhitespace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizePreservesParagraphs(t *testing.T) {
	n := New(nil)
	text := "First paragraph.\n\nSecond paragraph.\n\nThird paragraph."
	got := n.Normalize(text, nil, nil)
	if got != text {
		t.Errorf("paragraph structure must survive: %q", got)
	}
}
