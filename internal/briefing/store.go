package briefing

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNotFound indicates no briefing exists for the session.
var ErrNotFound = errors.New("briefing not found")

// Store persists briefings as paired JSON and Markdown files.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Summary is the listing view of a stored briefing.
type Summary struct {
	SessionID      string `json:"session_id"`
	ProjectPath    string `json:"project_path"`
	SessionSummary string `json:"session_summary"`
	CreatedAt      string `json:"created_at"`
}

// Save writes the briefing and returns the JSON and Markdown paths.
func (s *Store) Save(b Briefing) (string, string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", "", fmt.Errorf("create briefings dir: %w", err)
	}

	jsonPath := filepath.Join(s.dir, b.SessionID+".json")
	mdPath := filepath.Join(s.dir, b.SessionID+".md")

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("marshal briefing: %w", err)
	}
	if err := os.WriteFile(jsonPath, data, 0644); err != nil {
		return "", "", fmt.Errorf("write briefing: %w", err)
	}
	if err := os.WriteFile(mdPath, []byte(b.ToMarkdown()), 0644); err != nil {
		return "", "", fmt.Errorf("write briefing markdown: %w", err)
	}

	return jsonPath, mdPath, nil
}

// SaveSnapshot writes the briefing under a timestamped name so that
// pre-compaction snapshots never overwrite the final briefing.
func (s *Store) SaveSnapshot(b Briefing) (string, string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", "", fmt.Errorf("create briefings dir: %w", err)
	}

	stamp := time.Now().UTC().Format("20060102-150405")
	base := b.SessionID + "-" + stamp
	jsonPath := filepath.Join(s.dir, base+".json")
	mdPath := filepath.Join(s.dir, base+".md")

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("marshal briefing: %w", err)
	}
	if err := os.WriteFile(jsonPath, data, 0644); err != nil {
		return "", "", fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.WriteFile(mdPath, []byte(b.ToMarkdown()), 0644); err != nil {
		return "", "", fmt.Errorf("write snapshot markdown: %w", err)
	}

	return jsonPath, mdPath, nil
}

// Load reads a briefing by session id.
func (s *Store) Load(sessionID string) (Briefing, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, sessionID+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return Briefing{}, fmt.Errorf("%w: %s", ErrNotFound, sessionID)
		}
		return Briefing{}, fmt.Errorf("read briefing: %w", err)
	}

	var b Briefing
	if err := json.Unmarshal(data, &b); err != nil {
		return Briefing{}, fmt.Errorf("parse briefing %s: %w", sessionID, err)
	}
	if b.SessionID == "" {
		b.SessionID = sessionID
	}
	return b, nil
}

// List returns summaries of all stored briefings, newest file first.
// Unreadable files are skipped.
func (s *Store) List() ([]Summary, error) {
	matches, err := doublestar.FilepathGlob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))

	var summaries []Summary
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var b Briefing
		if err := json.Unmarshal(data, &b); err != nil {
			continue
		}
		if b.SessionID == "" {
			b.SessionID = strings.TrimSuffix(filepath.Base(path), ".json")
		}

		summaries = append(summaries, Summary{
			SessionID:      b.SessionID,
			ProjectPath:    b.ProjectPath,
			SessionSummary: b.SessionSummary,
			CreatedAt:      b.CreatedAt,
		})
	}
	return summaries, nil
}
