package render

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/joss/debrief/internal/briefing"
	"github.com/joss/debrief/internal/session"
)

func init() {
	color.NoColor = true
}

func sampleBriefing() briefing.Briefing {
	b := briefing.New("0123456789abcdef", "/home/dev/app")
	b.SessionSummary = "Added the session reader."
	b.WhatGotBuilt = []briefing.BuiltItem{
		{File: "internal/session/reader.go", Description: "transcript parsing", KeyCode: "ParseTranscript"},
	}
	b.HowPiecesConnect = "reader feeds filter"
	b.PatternsUsed = []briefing.Pattern{{Pattern: "tagged union", Where: "block.go", Explained: "type dispatch"}}
	b.WillBiteYou = briefing.Risk{Issue: "big lines", Where: "reader.go", Why: "buffer cap", WhatToCheck: "maxLineBytes"}
	return b
}

func TestBriefingCompact(t *testing.T) {
	out := New(false).BriefingCompact(sampleBriefing())

	assert.Contains(t, out, "Session 01234567")
	assert.Contains(t, out, "1 files changed | 1 patterns | 1 issue")
	assert.Contains(t, out, "Warning: big lines")
	assert.Contains(t, out, "-> reader.go")
	assert.Contains(t, out, "Files: internal/session/reader.go")
}

func TestBriefingCompactNoRisk(t *testing.T) {
	b := sampleBriefing()
	b.WillBiteYou = briefing.Risk{}

	out := New(false).BriefingCompact(b)

	assert.Contains(t, out, "0 issue")
	assert.NotContains(t, out, "Warning:")
}

func TestBriefingDetail(t *testing.T) {
	out := New(false).BriefingDetail(sampleBriefing())

	assert.Contains(t, out, "Session 01234567 — /home/dev/app")
	assert.Contains(t, out, "Summary")
	assert.Contains(t, out, "Added the session reader.")
	assert.Contains(t, out, "What Got Built")
	assert.Contains(t, out, "How Pieces Connect")
	assert.Contains(t, out, "Check: maxLineBytes")
}

func TestBriefingResultIncludesPatterns(t *testing.T) {
	out := New(false).BriefingResult(sampleBriefing())

	assert.Contains(t, out, "Session Briefing: 01234567...")
	assert.Contains(t, out, "tagged union (block.go): type dispatch")
}

func TestSessionsTable(t *testing.T) {
	out := New(false).Sessions([]session.Info{
		{SessionID: "s1", FirstPrompt: "fix the bug", MessageCount: 12, Modified: "2026-08-27T10:00:00Z"},
	})

	assert.Contains(t, out, "s1")
	assert.Contains(t, out, "fix the bug")
	assert.Contains(t, out, "2026-08-27")
	assert.NotContains(t, out, "T10:00")
}

func TestSessionsEmpty(t *testing.T) {
	assert.Contains(t, New(false).Sessions(nil), "No sessions found.")
}

func TestBriefingsEmpty(t *testing.T) {
	assert.Contains(t, New(false).Briefings(nil), "No briefings generated yet.")
}

func TestStatusView(t *testing.T) {
	ins := briefing.Insights{BriefingCount: 3, RecurringPatterns: []string{"DI"}, KnownIssues: []string{"x", "y"}}
	out := New(false).Status(5, 3, []string{"/a", "/b"}, ins)

	assert.Contains(t, out, "Sessions: 5")
	assert.Contains(t, out, "Projects: /a, /b")
	assert.Contains(t, out, "Briefing count: 3")
	assert.Contains(t, out, "Known issues: 2")
}

func TestStatusNoProjects(t *testing.T) {
	out := New(false).Status(0, 0, nil, briefing.Insights{})

	assert.Contains(t, out, "Projects: none")
	assert.NotContains(t, out, "Accumulated Insights")
}

func TestHookViews(t *testing.T) {
	r := New(false)

	status := r.HookStatus(map[string]bool{"Stop": true, "PreCompact": false}, []string{"Stop", "PreCompact"})
	assert.Contains(t, status, "Stop: registered")
	assert.Contains(t, status, "PreCompact: not registered")

	results := r.HookResults("Installing Hooks", map[string]string{"Stop": "added", "PreCompact": "already_exists"}, []string{"Stop", "PreCompact"})
	assert.Contains(t, results, "Stop: added")
	assert.Contains(t, results, "PreCompact: already exists")
}
