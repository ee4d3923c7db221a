// Package filter reduces session transcripts to high-signal content
// before they are sent to the summarizer.
package filter

import (
	"github.com/joss/debrief/internal/session"
)

// Thresholds, in characters.
const (
	// ShortAssistantThreshold removes assistant messages below this length.
	ShortAssistantThreshold = 50
	// LongAssistantThreshold truncates assistant text above this length.
	LongAssistantThreshold = 500
	// TruncateTo is the truncation target for long assistant text.
	TruncateTo = 300
	// BashCommandPreview keeps the first N chars of bash commands.
	BashCommandPreview = 100
)

// fileTools are the tools whose file_path survives filtering.
var fileTools = map[string]bool{
	"Write": true,
	"Edit":  true,
	"Read":  true,
}

// removeTypes are message types dropped entirely.
var removeTypes = map[string]bool{
	session.TypeProgress:    true,
	session.TypeFileHistory: true,
}

// Stats counts what the filter did.
type Stats struct {
	OriginalCount      int `json:"original_count"`
	KeptCount          int `json:"kept_count"`
	RemovedProgress    int `json:"removed_progress"`
	RemovedFileHistory int `json:"removed_file_history"`
	TruncatedMessages  int `json:"truncated_messages"`
	StrippedToolBlocks int `json:"stripped_tool_blocks"`
}

// Result is the filter output for one session.
type Result struct {
	SessionID string            `json:"session_id"`
	Messages  []session.Message `json:"messages"`
	Stats     Stats             `json:"stats"`
}

// Apply reduces messages to high-signal content.
//
// Rules:
//   - progress / file-history-snapshot: removed entirely
//   - summary: kept as-is
//   - user messages: kept in full
//   - assistant text-only messages where every text is under 50 chars: removed
//   - assistant text over 500 chars: truncated to 300 chars plus "..."
//   - Write/Edit/Read tool_use: reduced to name + file path
//   - Bash tool_use: reduced to description + 100-char command preview
//   - other tool_use: reduced to name only
func Apply(sessionID string, messages []session.Message) Result {
	stats := Stats{OriginalCount: len(messages)}
	kept := make([]session.Message, 0, len(messages))

	for _, msg := range messages {
		if removeTypes[msg.Type] {
			if msg.Type == session.TypeProgress {
				stats.RemovedProgress++
			} else {
				stats.RemovedFileHistory++
			}
			continue
		}

		if msg.Type == session.TypeSummary {
			kept = append(kept, msg)
			continue
		}

		if msg.Role == "user" {
			kept = append(kept, msg)
			continue
		}

		if msg.Role == "assistant" {
			content := filterAssistantContent(msg.Content, &stats)
			if len(content) == 0 {
				continue
			}
			if onlyShortText(content) {
				continue
			}

			kept = append(kept, session.Message{
				Type:       msg.Type,
				UUID:       msg.UUID,
				ParentUUID: msg.ParentUUID,
				Timestamp:  msg.Timestamp,
				Role:       msg.Role,
				Content:    content,
			})
			continue
		}

		// Other message types (queue operations etc) are dropped.
	}

	stats.KeptCount = len(kept)
	return Result{SessionID: sessionID, Messages: kept, Stats: stats}
}

// onlyShortText reports whether content is nothing but text blocks that
// are each under the short threshold.
func onlyShortText(content []session.Block) bool {
	for _, b := range content {
		t, ok := b.(session.TextBlock)
		if !ok {
			return false
		}
		if len(t.Text) >= ShortAssistantThreshold {
			return false
		}
	}
	return true
}

func filterAssistantContent(content []session.Block, stats *Stats) []session.Block {
	result := make([]session.Block, 0, len(content))

	for _, block := range content {
		switch b := block.(type) {
		case session.TextBlock:
			if len(b.Text) > LongAssistantThreshold {
				stats.TruncatedMessages++
				result = append(result, session.TextBlock{Text: b.Text[:TruncateTo] + "..."})
			} else {
				result = append(result, b)
			}

		case session.ToolUseBlock:
			stats.StrippedToolBlocks++
			switch {
			case fileTools[b.Name]:
				result = append(result, session.ToolUseBlock{
					Name:     b.Name,
					FilePath: b.InputString("file_path"),
				})
			case b.Name == "Bash":
				command := b.InputString("command")
				if len(command) > BashCommandPreview {
					command = command[:BashCommandPreview]
				}
				result = append(result, session.ToolUseBlock{
					Name:           b.Name,
					Description:    b.InputString("description"),
					CommandPreview: command,
				})
			default:
				result = append(result, session.ToolUseBlock{Name: b.Name})
			}

		case session.ToolResultBlock:
			// Tool results normally arrive on user messages; if one shows
			// up here, strip it to the reference.
			result = append(result, session.ToolResultBlock{ToolUseID: b.ToolUseID})

		default:
			result = append(result, block)
		}
	}

	return result
}
