// Package changeset extracts what changed on disk during a session,
// from git when possible and from tool calls otherwise.
package changeset

// File statuses.
const (
	StatusAdded    = "added"
	StatusModified = "modified"
	StatusDeleted  = "deleted"
	StatusRenamed  = "renamed"
)

// Change sources.
const (
	SourceGit       = "git"
	SourceToolCalls = "tool_calls"
)

// MaxDiffChars caps diff text sent to the summarizer (~8k tokens).
const MaxDiffChars = 32_000

// FileDiff is a single file's change.
type FileDiff struct {
	Path      string `json:"path"`
	Status    string `json:"status"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	DiffText  string `json:"diff_text,omitempty"`
}

// ChangeSet is the aggregate change for a session.
type ChangeSet struct {
	Files          []FileDiff `json:"files"`
	TotalAdditions int        `json:"total_additions"`
	TotalDeletions int        `json:"total_deletions"`
	Truncated      bool       `json:"truncated"`
	Source         string     `json:"source"`
}
