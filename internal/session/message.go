// Package session reads Claude Code session transcripts and their index
// files from the projects directory.
package session

import "strings"

// Message types found in transcript JSONL files.
const (
	TypeUser        = "user"
	TypeAssistant   = "assistant"
	TypeSummary     = "summary"
	TypeProgress    = "progress"
	TypeFileHistory = "file-history-snapshot"
)

// Info is one entry from a project's sessions-index.json.
type Info struct {
	SessionID    string `json:"session_id"`
	FullPath     string `json:"full_path"`
	FirstPrompt  string `json:"first_prompt"`
	Summary      string `json:"summary"`
	MessageCount int    `json:"message_count"`
	Created      string `json:"created"`
	Modified     string `json:"modified"`
	GitBranch    string `json:"git_branch"`
	ProjectPath  string `json:"project_path"`
}

// Message is a single transcript line. Lines the filter or extractor don't
// understand still round-trip through Content as UnknownBlocks.
type Message struct {
	Type       string  `json:"type"`
	UUID       string  `json:"uuid,omitempty"`
	ParentUUID string  `json:"parentUuid,omitempty"`
	Timestamp  string  `json:"timestamp,omitempty"`
	Role       string  `json:"role,omitempty"`
	Content    []Block `json:"content"`
	CWD        string  `json:"cwd,omitempty"`
}

// Text concatenates all text blocks in the message.
func (m Message) Text() string {
	var parts []string
	for _, b := range m.Content {
		if t, ok := b.(TextBlock); ok {
			parts = append(parts, t.Text)
		}
	}
	return strings.Join(parts, " ")
}

// ToolUses returns the tool_use blocks in the message.
func (m Message) ToolUses() []ToolUseBlock {
	var tools []ToolUseBlock
	for _, b := range m.Content {
		if t, ok := b.(ToolUseBlock); ok {
			tools = append(tools, t)
		}
	}
	return tools
}
