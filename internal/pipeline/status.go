package pipeline

import (
	"sort"

	"github.com/joss/debrief/internal/briefing"
)

// Status is the overall system summary.
type Status struct {
	TotalSessions  int               `json:"total_sessions"`
	TotalBriefings int               `json:"total_briefings"`
	Insights       briefing.Insights `json:"insights"`
	Projects       []string          `json:"projects"`
}

// Status reports how many sessions and briefings exist and which
// projects have sessions.
func (p *Pipeline) Status() (Status, error) {
	sessions, err := p.reader.List("")
	if err != nil {
		return Status{}, err
	}

	briefings, err := p.store.List()
	if err != nil {
		return Status{}, err
	}

	seen := make(map[string]bool)
	var projects []string
	for _, s := range sessions {
		if s.ProjectPath != "" && !seen[s.ProjectPath] {
			seen[s.ProjectPath] = true
			projects = append(projects, s.ProjectPath)
		}
	}
	sort.Strings(projects)

	return Status{
		TotalSessions:  len(sessions),
		TotalBriefings: len(briefings),
		Insights:       briefing.LoadInsights(p.cfg.InsightsPath),
		Projects:       projects,
	}, nil
}
