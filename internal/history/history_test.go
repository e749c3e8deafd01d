// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndList(t *testing.T) {
	store := newTestStore(t)

	err := store.Record(Run{
		Input:     "paper.pdf",
		Output:    "paper-clean.pdf",
		Title:     "A Study of Parsing",
		Mode:      "rule-based",
		Sections:  4,
		Tables:    2,
		Equations: 3,
	})
	require.NoError(t, err)

	runs, err := store.List(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	r := runs[0]
	assert.Equal(t, "paper.pdf", r.Input)
	assert.Equal(t, "paper-clean.pdf", r.Output)
	assert.Equal(t, "A Study of Parsing", r.Title)
	assert.Equal(t, "rule-based", r.Mode)
	assert.Equal(t, 4, r.Sections)
	assert.Equal(t, 2, r.Tables)
	assert.Equal(t, 3, r.Equations)
	assert.False(t, r.ProcessedAt.IsZero())
}

func TestListNewestFirst(t *testing.T) {
	store := newTestStore(t)

	for _, name := range []string{"first.pdf", "second.pdf", "third.pdf"} {
		require.NoError(t, store.Record(Run{Input: name, Output: "out.pdf", Mode: "rule-based"}))
	}

	runs, err := store.List(10)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "third.pdf", runs[0].Input)
	assert.Equal(t, "first.pdf", runs[2].Input)
}

func TestListLimit(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(Run{Input: "in.pdf", Output: "out.pdf", Mode: "rule-based"}))
	}

	runs, err := store.List(2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	// Non-positive limit falls back to the default.
	runs, err = store.List(0)
	require.NoError(t, err)
	assert.Len(t, runs, 5)
}

func TestListEmpty(t *testing.T) {
	store := newTestStore(t)

	runs, err := store.List(10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestRecordPreservesExplicitTimestamp(t *testing.T) {
	store := newTestStore(t)

	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	require.NoError(t, store.Record(Run{Input: "a.pdf", Output: "b.pdf", Mode: "llm-assisted", ProcessedAt: ts}))

	runs, err := store.List(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.True(t, runs[0].ProcessedAt.Equal(ts))
}

func TestStoreReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Record(Run{Input: "a.pdf", Output: "b.pdf", Mode: "rule-based"}))
	require.NoError(t, store.Close())

	// Reopening finds the existing schema and rows.
	store, err = NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	runs, err := store.List(10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
