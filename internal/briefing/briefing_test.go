package briefing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBriefing() Briefing {
	b := New("sess-1", "/home/dev/app")
	b.SessionSummary = "Built the session reader and its tests."
	b.WhatGotBuilt = []BuiltItem{{
		File:         "internal/session/reader.go",
		Description:  "Parses transcript JSONL files",
		KeyCode:      "ParseTranscript",
		KeyDecisions: []string{"skip malformed lines instead of failing"},
	}}
	b.HowPiecesConnect = "The reader feeds the filter which feeds the analyzer."
	b.PatternsUsed = []Pattern{{Pattern: "tagged union", Where: "block.go", Explained: "type field dispatch"}}
	b.WillBiteYou = Risk{Issue: "huge transcript lines", Where: "reader.go:ParseTranscript", Why: "scanner buffer limit", WhatToCheck: "maxLineBytes"}
	b.ConceptsTouched = []Concept{{Concept: "JSONL", InCode: "reader.go", DeveloperUnderstood: true, Evidence: "explained line-by-line parsing"}}
	return b
}

func TestToMarkdown(t *testing.T) {
	md := sampleBriefing().ToMarkdown()

	assert.Contains(t, md, "# Session Briefing: sess-1")
	assert.Contains(t, md, "**Project:** /home/dev/app")
	assert.Contains(t, md, "## Summary")
	assert.Contains(t, md, "### `internal/session/reader.go`")
	assert.Contains(t, md, "- **Key code:** ParseTranscript")
	assert.Contains(t, md, "- skip malformed lines instead of failing")
	assert.Contains(t, md, "## How Pieces Connect")
	assert.Contains(t, md, "- **tagged union** (block.go): type field dispatch")
	assert.Contains(t, md, "**Issue:** huge transcript lines")
	assert.Contains(t, md, "- **JSONL** [Y] (reader.go): explained line-by-line parsing")
}

func TestToMarkdownSkipsEmptySections(t *testing.T) {
	b := New("sess-2", "/p")
	md := b.ToMarkdown()

	assert.NotContains(t, md, "## What Got Built")
	assert.NotContains(t, md, "## Will Bite You")
	assert.NotContains(t, md, "## Concepts Touched")
}

func TestStoreSaveAndLoad(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "briefings"))

	jsonPath, mdPath, err := store.Save(sampleBriefing())
	require.NoError(t, err)
	assert.FileExists(t, jsonPath)
	assert.FileExists(t, mdPath)

	loaded, err := store.Load("sess-1")
	require.NoError(t, err)
	assert.Equal(t, "Built the session reader and its tests.", loaded.SessionSummary)
	assert.Equal(t, "huge transcript lines", loaded.WillBiteYou.Issue)
}

func TestStoreLoadMissing(t *testing.T) {
	store := NewStore(t.TempDir())
	_, err := store.Load("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreList(t *testing.T) {
	store := NewStore(t.TempDir())

	a := sampleBriefing()
	a.SessionID = "aaa"
	b := sampleBriefing()
	b.SessionID = "bbb"
	_, _, err := store.Save(a)
	require.NoError(t, err)
	_, _, err = store.Save(b)
	require.NoError(t, err)

	summaries, err := store.List()
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "bbb", summaries[0].SessionID)
	assert.Equal(t, "aaa", summaries[1].SessionID)
}

func TestStoreListSkipsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{broken"), 0644))
	_, _, err := store.Save(sampleBriefing())
	require.NoError(t, err)

	summaries, err := store.List()
	require.NoError(t, err)
	assert.Len(t, summaries, 1)
}

func TestUpdateInsightsMergesAndCounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "insights.json")

	first, err := UpdateInsights(path, sampleBriefing())
	require.NoError(t, err)
	assert.Equal(t, 1, first.BriefingCount)
	assert.Equal(t, []string{"tagged union"}, first.RecurringPatterns)
	assert.Equal(t, []string{"huge transcript lines"}, first.KnownIssues)

	// Same briefing again: dedup keeps lists stable, count still grows.
	second, err := UpdateInsights(path, sampleBriefing())
	require.NoError(t, err)
	assert.Equal(t, 2, second.BriefingCount)
	assert.Equal(t, []string{"tagged union"}, second.RecurringPatterns)
	assert.Len(t, second.ArchitectureNotes, 1)

	other := sampleBriefing()
	other.PatternsUsed = []Pattern{{Pattern: "worker pool"}}
	other.WillBiteYou.Issue = "lock contention"
	third, err := UpdateInsights(path, other)
	require.NoError(t, err)
	assert.Equal(t, []string{"tagged union", "worker pool"}, third.RecurringPatterns)
	assert.Equal(t, []string{"huge transcript lines", "lock contention"}, third.KnownIssues)
}

func TestLoadInsightsMissingOrBroken(t *testing.T) {
	assert.Zero(t, LoadInsights(filepath.Join(t.TempDir(), "nope.json")))

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{bad"), 0644))
	assert.Zero(t, LoadInsights(path))
}

func TestSaveSnapshotKeepsFinalBriefing(t *testing.T) {
	store := NewStore(t.TempDir())
	b := sampleBriefing()

	_, _, err := store.Save(b)
	require.NoError(t, err)

	jsonPath, mdPath, err := store.SaveSnapshot(b)
	require.NoError(t, err)
	assert.Regexp(t, `-\d{8}-\d{6}\.json$`, jsonPath)
	assert.Regexp(t, `-\d{8}-\d{6}\.md$`, mdPath)

	// The final briefing is still loadable under the plain session id.
	loaded, err := store.Load(b.SessionID)
	require.NoError(t, err)
	assert.Equal(t, b.SessionSummary, loaded.SessionSummary)

	summaries, err := store.List()
	require.NoError(t, err)
	assert.Len(t, summaries, 2)
}
