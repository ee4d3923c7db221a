package session

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Transcript lines can carry whole file contents inside tool blocks.
const maxLineBytes = 10 * 1024 * 1024

// Reader lists and parses sessions under a Claude Code projects directory.
type Reader struct {
	projectsDir string
}

// NewReader creates a reader rooted at projectsDir.
func NewReader(projectsDir string) *Reader {
	return &Reader{projectsDir: projectsDir}
}

// index mirrors a project's sessions-index.json.
type index struct {
	OriginalPath string       `json:"originalPath"`
	Entries      []indexEntry `json:"entries"`
}

type indexEntry struct {
	SessionID    string `json:"sessionId"`
	FullPath     string `json:"fullPath"`
	FirstPrompt  string `json:"firstPrompt"`
	Summary      string `json:"summary"`
	MessageCount int    `json:"messageCount"`
	Created      string `json:"created"`
	Modified     string `json:"modified"`
	GitBranch    string `json:"gitBranch"`
	ProjectPath  string `json:"projectPath"`
}

// List returns all indexed sessions, most recently modified first.
// projectPath, when non-empty, keeps only sessions of that project.
// Unreadable or malformed index files are skipped.
func (r *Reader) List(projectPath string) ([]Info, error) {
	pattern := filepath.Join(r.projectsDir, "*", "sessions-index.json")
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	var sessions []Info
	for _, indexPath := range matches {
		data, err := os.ReadFile(indexPath)
		if err != nil {
			continue
		}

		var idx index
		if err := json.Unmarshal(data, &idx); err != nil {
			continue
		}

		if projectPath != "" && idx.OriginalPath != projectPath {
			continue
		}

		for _, e := range idx.Entries {
			info := Info{
				SessionID:    e.SessionID,
				FullPath:     e.FullPath,
				FirstPrompt:  e.FirstPrompt,
				Summary:      e.Summary,
				MessageCount: e.MessageCount,
				Created:      e.Created,
				Modified:     e.Modified,
				GitBranch:    e.GitBranch,
				ProjectPath:  e.ProjectPath,
			}
			if info.ProjectPath == "" {
				info.ProjectPath = idx.OriginalPath
			}
			sessions = append(sessions, info)
		}
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Modified > sessions[j].Modified
	})
	return sessions, nil
}

// Get returns the index entry for a session id.
func (r *Reader) Get(sessionID, projectPath string) (Info, error) {
	sessions, err := r.List(projectPath)
	if err != nil {
		return Info{}, err
	}
	for _, s := range sessions {
		if s.SessionID == sessionID {
			return s, nil
		}
	}
	return Info{}, NewNotFoundError(sessionID)
}

// Latest returns the most recently modified session.
func (r *Reader) Latest(projectPath string) (Info, error) {
	sessions, err := r.List(projectPath)
	if err != nil {
		return Info{}, err
	}
	if len(sessions) == 0 {
		return Info{}, NewNotFoundError("no sessions found")
	}
	return sessions[0], nil
}

// Read parses all messages of a session transcript.
func (r *Reader) Read(sessionID, projectPath string) ([]Message, error) {
	info, err := r.Get(sessionID, projectPath)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(info.FullPath); err != nil {
		return nil, &ReadError{Path: info.FullPath, Err: err}
	}

	return ParseTranscript(info.FullPath)
}

// ParseTranscript parses a session JSONL file. Malformed lines are skipped.
func ParseTranscript(path string) ([]Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	defer f.Close()

	var messages []Message

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var raw struct {
			Type       string `json:"type"`
			UUID       string `json:"uuid"`
			ParentUUID string `json:"parentUuid"`
			Timestamp  string `json:"timestamp"`
			CWD        string `json:"cwd"`
			Summary    string `json:"summary"`
			Message    struct {
				Role    string          `json:"role"`
				Content json.RawMessage `json:"content"`
			} `json:"message"`
		}
		if err := json.Unmarshal(line, &raw); err != nil {
			continue
		}

		msg := Message{
			Type:       raw.Type,
			UUID:       raw.UUID,
			ParentUUID: raw.ParentUUID,
			Timestamp:  raw.Timestamp,
			CWD:        raw.CWD,
		}

		switch raw.Type {
		case TypeUser, TypeAssistant:
			msg.Role = raw.Message.Role
			if msg.Role == "" {
				msg.Role = raw.Type
			}
			msg.Content = parseContent(raw.Message.Content)
		case TypeSummary:
			msg.Content = []Block{TextBlock{Text: raw.Summary}}
		}

		messages = append(messages, msg)
	}

	if err := scanner.Err(); err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	return messages, nil
}

// parseContent handles both content shapes the transcript format uses:
// a plain string or an array of typed blocks.
func parseContent(data json.RawMessage) []Block {
	if len(data) == 0 {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return []Block{TextBlock{Text: s}}
	}

	blocks, err := UnmarshalBlocks(data)
	if err != nil {
		return nil
	}
	return blocks
}
