// Package prompts is the reusable prompt library backed by SQLite.
package prompts

import (
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Prompt is a stored, reusable prompt template.
type Prompt struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Content       string   `json:"content"`
	Category      string   `json:"category"`
	Variables     []string `json:"variables"`
	UseCount      int      `json:"use_count"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
	RecordType    string   `json:"record_type"`
	SchemaVersion int      `json:"schema_version"`
}

// New creates a prompt with variables extracted from the content.
func New(name, content, category string) Prompt {
	if category == "" {
		category = "general"
	}
	now := time.Now().UTC().Format(time.RFC3339)
	return Prompt{
		ID:            uuid.NewString(),
		Name:          name,
		Content:       content,
		Category:      category,
		Variables:     ExtractVariables(content),
		CreatedAt:     now,
		UpdatedAt:     now,
		RecordType:    "prompt",
		SchemaVersion: SchemaVersion,
	}
}
