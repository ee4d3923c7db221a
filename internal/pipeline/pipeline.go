// Package pipeline orchestrates the extraction chain:
// read, filter, extract changes, analyze, persist.
package pipeline

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/joss/debrief/internal/analyzer"
	"github.com/joss/debrief/internal/briefing"
	"github.com/joss/debrief/internal/changeset"
	"github.com/joss/debrief/internal/config"
	"github.com/joss/debrief/internal/filter"
	"github.com/joss/debrief/internal/logging"
	"github.com/joss/debrief/internal/session"
)

// Summarizer produces a briefing from a filtered session and its changes.
// Satisfied by analyzer.Client.
type Summarizer interface {
	Analyze(ctx context.Context, filtered filter.Result, cs changeset.ChangeSet, projectPath string) (briefing.Briefing, error)
}

var _ Summarizer = (*analyzer.Client)(nil)

// Pipeline runs the full extraction for one session.
type Pipeline struct {
	cfg        *config.Config
	reader     *session.Reader
	extractor  *changeset.Extractor
	summarizer Summarizer
	store      *briefing.Store
	log        *logging.Logger
}

// New wires a pipeline from its collaborators.
func New(cfg *config.Config, reader *session.Reader, extractor *changeset.Extractor, summarizer Summarizer, store *briefing.Store) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		reader:     reader,
		extractor:  extractor,
		summarizer: summarizer,
		store:      store,
		log:        logging.New("pipeline"),
	}
}

// Run executes the pipeline. An empty sessionID selects the most
// recently modified session; an empty projectPath is resolved from the
// session index or, failing that, from the first message carrying a
// working directory.
func (p *Pipeline) Run(ctx context.Context, sessionID, projectPath string) (briefing.Briefing, error) {
	return p.run(ctx, sessionID, projectPath, false)
}

// RunSnapshot executes the pipeline but stores the result under a
// timestamped name and leaves the accumulated insights untouched. Used
// before compaction, when the session is still in progress.
func (p *Pipeline) RunSnapshot(ctx context.Context, sessionID, projectPath string) (briefing.Briefing, error) {
	return p.run(ctx, sessionID, projectPath, true)
}

func (p *Pipeline) run(ctx context.Context, sessionID, projectPath string, snapshot bool) (briefing.Briefing, error) {
	runID := ulid.Make().String()
	start := time.Now()
	log := p.log.WithRun(runID)

	if sessionID == "" {
		info, err := p.reader.Latest(projectPath)
		if err != nil {
			return briefing.Briefing{}, err
		}
		sessionID = info.SessionID
		if projectPath == "" {
			projectPath = info.ProjectPath
		}
	}
	log = log.WithSession(sessionID)

	messages, err := p.reader.Read(sessionID, projectPath)
	if err != nil {
		return briefing.Briefing{}, err
	}

	if projectPath == "" {
		projectPath = firstCWD(messages)
	}

	filtered := filter.Apply(sessionID, messages)
	log.Info("filtered", map[string]any{
		"original": filtered.Stats.OriginalCount,
		"kept":     filtered.Stats.KeptCount,
	})

	changes := p.extractor.Extract(ctx, projectPath, messages)
	log.Info("changes", map[string]any{
		"source":    changes.Source,
		"files":     len(changes.Files),
		"truncated": changes.Truncated,
	})

	b, err := p.summarizer.Analyze(ctx, filtered, changes, projectPath)
	if err != nil {
		return briefing.Briefing{}, err
	}

	if snapshot {
		if _, _, err := p.store.SaveSnapshot(b); err != nil {
			return briefing.Briefing{}, err
		}
	} else {
		if _, _, err := p.store.Save(b); err != nil {
			return briefing.Briefing{}, err
		}
		if _, err := briefing.UpdateInsights(p.cfg.InsightsPath, b); err != nil {
			log.Warn("insights_update_failed", nil, err)
		}
	}

	log.TimedEvent("completed", start, map[string]any{
		"project":  projectPath,
		"snapshot": snapshot,
	})
	return b, nil
}

// firstCWD returns the working directory of the first message that has one.
func firstCWD(messages []session.Message) string {
	for _, msg := range messages {
		if msg.CWD != "" {
			return msg.CWD
		}
	}
	return ""
}
