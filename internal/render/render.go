// Package render provides terminal output formatting for briefings,
// session listings and status views.
package render

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/joss/debrief/internal/briefing"
	"github.com/joss/debrief/internal/session"
)

const defaultWidth = 80

// Renderer handles output formatting.
type Renderer struct {
	pretty bool
	width  int
}

// New creates a renderer. Pretty output uses borders and color.
func New(pretty bool) *Renderer {
	return &Renderer{pretty: pretty, width: defaultWidth}
}

// Detect creates a renderer matching stdout: pretty when attached to a
// terminal, plain when piped.
func Detect() *Renderer {
	r := &Renderer{width: defaultWidth}
	fd := os.Stdout.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		r.pretty = true
		if w, _, err := term.GetSize(int(fd)); err == nil && w > 20 {
			r.width = w
		}
	}
	return r
}

var panelStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	Padding(0, 1)

var titleStyle = lipgloss.NewStyle().Bold(true)

// panel renders titled, bordered content in pretty mode and an
// underlined heading in plain mode.
func (r *Renderer) panel(title, content string) string {
	if r.pretty {
		body := titleStyle.Render(title) + "\n" + content
		return panelStyle.Width(min(r.width-2, 100)).Render(body)
	}
	return title + "\n" + strings.Repeat("-", len(title)) + "\n" + content
}

func shorten(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func shortID(id string) string {
	return shorten(id, 8)
}

// BriefingCompact shows just the essentials of a briefing.
func (r *Renderer) BriefingCompact(b briefing.Briefing) string {
	var sb strings.Builder

	issueCount := 0
	if !b.WillBiteYou.IsZero() {
		issueCount = 1
	}

	header := fmt.Sprintf("Session %s — %s", shortID(b.SessionID), shorten(b.SessionSummary, 60))
	if r.pretty {
		header = titleStyle.Render("Session "+shortID(b.SessionID)) + " — " + shorten(b.SessionSummary, 60)
	}
	sb.WriteString(header + "\n")
	fmt.Fprintf(&sb, "  %d files changed | %d patterns | %d issue\n\n",
		len(b.WhatGotBuilt), len(b.PatternsUsed), issueCount)

	if !b.WillBiteYou.IsZero() {
		fmt.Fprintf(&sb, "  %s %s\n", color.YellowString("Warning:"), b.WillBiteYou.Issue)
		if b.WillBiteYou.Where != "" {
			fmt.Fprintf(&sb, "    -> %s\n", b.WillBiteYou.Where)
		}
		sb.WriteString("\n")
	}

	if len(b.WhatGotBuilt) > 0 {
		files := make([]string, len(b.WhatGotBuilt))
		for i, item := range b.WhatGotBuilt {
			files[i] = item.File
			if files[i] == "" {
				files[i] = "unknown"
			}
		}
		fmt.Fprintf(&sb, "  Files: %s\n", strings.Join(files, ", "))
	}

	return sb.String()
}

// BriefingDetail adds file descriptions and architecture notes.
func (r *Renderer) BriefingDetail(b briefing.Briefing) string {
	var sections []string

	header := fmt.Sprintf("Session %s — %s", shortID(b.SessionID), b.ProjectPath)
	if r.pretty {
		header = titleStyle.Render("Session "+shortID(b.SessionID)) + " — " + b.ProjectPath
	}
	sections = append(sections, header)
	sections = append(sections, r.panel("Summary", b.SessionSummary))

	if len(b.WhatGotBuilt) > 0 {
		var rows strings.Builder
		for _, item := range b.WhatGotBuilt {
			fmt.Fprintf(&rows, "%s\n    %s\n", color.CyanString(item.File), item.Description)
			if item.KeyCode != "" {
				fmt.Fprintf(&rows, "    %s\n", color.HiBlackString(shorten(item.KeyCode, 50)))
			}
		}
		sections = append(sections, r.panel("What Got Built", strings.TrimRight(rows.String(), "\n")))
	}

	if b.HowPiecesConnect != "" {
		sections = append(sections, r.panel("How Pieces Connect", b.HowPiecesConnect))
	}

	if !b.WillBiteYou.IsZero() {
		sections = append(sections, r.panel("Will Bite You", r.riskBody(b.WillBiteYou)))
	}

	return strings.Join(sections, "\n\n")
}

// BriefingFull is the complete Markdown rendering.
func (r *Renderer) BriefingFull(b briefing.Briefing) string {
	return b.ToMarkdown()
}

// BriefingResult is the interactive post-analysis view.
func (r *Renderer) BriefingResult(b briefing.Briefing) string {
	var sections []string

	title := fmt.Sprintf("Session Briefing: %s...", shortID(b.SessionID))
	sections = append(sections, r.panel(title, b.SessionSummary+"\n"+color.HiBlackString(b.ProjectPath)))

	if len(b.WhatGotBuilt) > 0 {
		var rows strings.Builder
		for _, item := range b.WhatGotBuilt {
			fmt.Fprintf(&rows, "%-32s %s\n", color.CyanString(shorten(item.File, 32)), item.Description)
		}
		sections = append(sections, r.panel("What Got Built", strings.TrimRight(rows.String(), "\n")))
	}

	if b.HowPiecesConnect != "" {
		sections = append(sections, r.panel("How Pieces Connect", b.HowPiecesConnect))
	}

	if !b.WillBiteYou.IsZero() {
		sections = append(sections, r.panel("Will Bite You", r.riskBody(b.WillBiteYou)))
	}

	if len(b.PatternsUsed) > 0 {
		var rows strings.Builder
		for _, p := range b.PatternsUsed {
			fmt.Fprintf(&rows, "%s (%s): %s\n", color.GreenString(p.Pattern), p.Where, p.Explained)
		}
		sections = append(sections, r.panel("Patterns Used", strings.TrimRight(rows.String(), "\n")))
	}

	return strings.Join(sections, "\n\n")
}

func (r *Renderer) riskBody(risk briefing.Risk) string {
	issue := risk.Issue
	if r.pretty {
		issue = titleStyle.Render(issue)
	}
	return fmt.Sprintf("%s\nWhere: %s\nWhy: %s\nCheck: %s",
		issue, risk.Where, risk.Why, risk.WhatToCheck)
}

// Sessions formats the session listing.
func (r *Renderer) Sessions(sessions []session.Info) string {
	if len(sessions) == 0 {
		return color.YellowString("No sessions found.")
	}

	var sb strings.Builder
	if r.pretty {
		sb.WriteString(titleStyle.Render("Claude Code Sessions") + "\n")
		sb.WriteString(strings.Repeat("─", min(r.width, 90)) + "\n")
	}

	for i, s := range sessions {
		summary := s.Summary
		if summary == "" {
			summary = s.FirstPrompt
		}
		modified := s.Modified
		if len(modified) > 10 {
			modified = modified[:10]
		}
		fmt.Fprintf(&sb, "%3d  %s  %-50s %4d  %s\n",
			i+1, color.CyanString(s.SessionID), shorten(summary, 50), s.MessageCount, modified)
	}

	sb.WriteString("\n" + color.HiBlackString("Use: debrief analyze -s <session-id>"))
	return sb.String()
}

// Briefings formats the briefing listing.
func (r *Renderer) Briefings(summaries []briefing.Summary) string {
	if len(summaries) == 0 {
		return color.YellowString("No briefings generated yet.")
	}

	var sb strings.Builder
	if r.pretty {
		sb.WriteString(titleStyle.Render("Generated Briefings") + "\n")
		sb.WriteString(strings.Repeat("─", min(r.width, 90)) + "\n")
	}

	for i, s := range summaries {
		created := s.CreatedAt
		if len(created) > 10 {
			created = created[:10]
		}
		fmt.Fprintf(&sb, "%3d  %s  %-50s %s\n",
			i+1, color.CyanString(s.SessionID), shorten(s.SessionSummary, 50), created)
	}

	sb.WriteString("\n" + color.HiBlackString("Use: debrief briefing -s <session-id>"))
	return sb.String()
}

// Status formats the status overview.
func (r *Renderer) Status(totalSessions, totalBriefings int, projects []string, ins briefing.Insights) string {
	projectsLine := strings.Join(projects, ", ")
	if projectsLine == "" {
		projectsLine = "none"
	}

	var sections []string
	sections = append(sections, r.panel("Debrief Status", fmt.Sprintf(
		"Sessions: %d\nBriefings: %d\nProjects: %s",
		totalSessions, totalBriefings, projectsLine)))

	if ins.BriefingCount > 0 {
		patterns := strings.Join(ins.RecurringPatterns, ", ")
		if patterns == "" {
			patterns = "none"
		}
		sections = append(sections, r.panel("Accumulated Insights", fmt.Sprintf(
			"Briefing count: %d\nPatterns: %s\nKnown issues: %d",
			ins.BriefingCount, patterns, len(ins.KnownIssues))))
	}

	return strings.Join(sections, "\n\n")
}

// HookStatus formats hook registration state.
func (r *Renderer) HookStatus(status map[string]bool, events []string) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Hook Registration Status") + "\n")
	for _, event := range events {
		if status[event] {
			fmt.Fprintf(&sb, "  %s %s: registered\n", color.GreenString("✓"), event)
		} else {
			fmt.Fprintf(&sb, "  %s %s: not registered\n", color.HiBlackString("✗"), event)
		}
	}
	return sb.String()
}

// HookResults formats install/uninstall outcomes.
func (r *Renderer) HookResults(title string, results map[string]string, events []string) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(title) + "\n")
	for _, event := range events {
		switch results[event] {
		case "added":
			fmt.Fprintf(&sb, "  %s %s: added\n", color.GreenString("✓"), event)
		case "removed":
			fmt.Fprintf(&sb, "  %s %s: removed\n", color.GreenString("✓"), event)
		case "already_exists":
			fmt.Fprintf(&sb, "  %s %s: already exists\n", color.YellowString("~"), event)
		default:
			fmt.Fprintf(&sb, "  %s %s: not found\n", color.HiBlackString("~"), event)
		}
	}
	return sb.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
