// Package briefing defines the post-session briefing document, its
// on-disk store, and the accumulated cross-session insights.
package briefing

import (
	"fmt"
	"strings"
	"time"
)

// Briefing is the summarizer output for one session.
type Briefing struct {
	SessionID        string      `json:"session_id"`
	ProjectPath      string      `json:"project_path"`
	SessionSummary   string      `json:"session_summary"`
	WhatGotBuilt     []BuiltItem `json:"what_got_built"`
	HowPiecesConnect string      `json:"how_pieces_connect"`
	PatternsUsed     []Pattern   `json:"patterns_used"`
	WillBiteYou      Risk        `json:"will_bite_you"`
	ConceptsTouched  []Concept   `json:"concepts_touched"`
	CreatedAt        string      `json:"created_at"`
}

// BuiltItem describes one file that was built or changed.
type BuiltItem struct {
	File         string   `json:"file"`
	Description  string   `json:"description"`
	KeyCode      string   `json:"key_code,omitempty"`
	KeyDecisions []string `json:"key_decisions,omitempty"`
}

// Pattern is a coding pattern the session used.
type Pattern struct {
	Pattern   string `json:"pattern"`
	Where     string `json:"where"`
	Explained string `json:"explained"`
}

// Risk is the single most likely thing to cause problems later.
type Risk struct {
	Issue        string `json:"issue"`
	Where        string `json:"where"`
	Why          string `json:"why"`
	WhatToCheck  string `json:"what_to_check"`
}

// IsZero reports whether no risk was identified.
func (r Risk) IsZero() bool {
	return r.Issue == "" && r.Where == "" && r.Why == "" && r.WhatToCheck == ""
}

// Concept is a technical concept the session touched.
type Concept struct {
	Concept             string `json:"concept"`
	InCode              string `json:"in_code"`
	DeveloperUnderstood bool   `json:"developer_understood"`
	Evidence            string `json:"evidence"`
}

// New creates a briefing shell with the creation time set.
func New(sessionID, projectPath string) Briefing {
	return Briefing{
		SessionID:   sessionID,
		ProjectPath: projectPath,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
}

// ToMarkdown renders the briefing as a Markdown document.
func (b Briefing) ToMarkdown() string {
	var lines []string
	add := func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	add("# Session Briefing: %s", b.SessionID)
	add("")
	add("**Project:** %s", b.ProjectPath)
	add("**Generated:** %s", b.CreatedAt)
	add("")
	add("## Summary")
	add("%s", b.SessionSummary)
	add("")

	if len(b.WhatGotBuilt) > 0 {
		add("## What Got Built")
		for _, item := range b.WhatGotBuilt {
			file := item.File
			if file == "" {
				file = "unknown"
			}
			add("### `%s`", file)
			add("%s", item.Description)
			if item.KeyCode != "" {
				add("- **Key code:** %s", item.KeyCode)
			}
			for _, d := range item.KeyDecisions {
				add("- %s", d)
			}
			add("")
		}
	}

	if b.HowPiecesConnect != "" {
		add("## How Pieces Connect")
		add("%s", b.HowPiecesConnect)
		add("")
	}

	if len(b.PatternsUsed) > 0 {
		add("## Patterns Used")
		for _, p := range b.PatternsUsed {
			add("- **%s** (%s): %s", p.Pattern, p.Where, p.Explained)
		}
		add("")
	}

	if !b.WillBiteYou.IsZero() {
		add("## Will Bite You")
		add("**Issue:** %s", b.WillBiteYou.Issue)
		add("**Where:** %s", b.WillBiteYou.Where)
		add("**Why:** %s", b.WillBiteYou.Why)
		add("**What to check:** %s", b.WillBiteYou.WhatToCheck)
		add("")
	}

	if len(b.ConceptsTouched) > 0 {
		add("## Concepts Touched")
		for _, c := range b.ConceptsTouched {
			marker := "N"
			if c.DeveloperUnderstood {
				marker = "Y"
			}
			add("- **%s** [%s] (%s): %s", c.Concept, marker, c.InCode, c.Evidence)
		}
		add("")
	}

	return strings.Join(lines, "\n")
}
