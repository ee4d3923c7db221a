package briefing

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Insights accumulates knowledge across briefings of a project.
// Last writer wins on concurrent updates; briefings are also stored
// individually so nothing is lost beyond the aggregate.
type Insights struct {
	ProjectPath       string   `json:"project_path"`
	RecurringPatterns []string `json:"recurring_patterns"`
	KnownIssues       []string `json:"known_issues"`
	ArchitectureNotes []string `json:"architecture_notes"`
	LastUpdated       string   `json:"last_updated"`
	BriefingCount     int      `json:"briefing_count"`
}

// LoadInsights reads the insights file. A missing or unreadable file
// yields empty insights.
func LoadInsights(path string) Insights {
	data, err := os.ReadFile(path)
	if err != nil {
		return Insights{}
	}

	var ins Insights
	if err := json.Unmarshal(data, &ins); err != nil {
		return Insights{}
	}
	return ins
}

// UpdateInsights merges a new briefing into the insights file and
// persists the result. Entries are deduplicated by exact match.
func UpdateInsights(path string, b Briefing) (Insights, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return Insights{}, fmt.Errorf("create insights dir: %w", err)
	}

	ins := LoadInsights(path)
	if ins.ProjectPath == "" {
		ins.ProjectPath = b.ProjectPath
	}

	for _, p := range b.PatternsUsed {
		if p.Pattern != "" && !contains(ins.RecurringPatterns, p.Pattern) {
			ins.RecurringPatterns = append(ins.RecurringPatterns, p.Pattern)
		}
	}

	if issue := b.WillBiteYou.Issue; issue != "" && !contains(ins.KnownIssues, issue) {
		ins.KnownIssues = append(ins.KnownIssues, issue)
	}

	if note := b.HowPiecesConnect; note != "" && !contains(ins.ArchitectureNotes, note) {
		ins.ArchitectureNotes = append(ins.ArchitectureNotes, note)
	}

	ins.BriefingCount++
	ins.LastUpdated = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(ins, "", "  ")
	if err != nil {
		return Insights{}, fmt.Errorf("marshal insights: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return Insights{}, fmt.Errorf("write insights: %w", err)
	}

	return ins, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
