package main

import (
	"os"

	"github.com/joss/debrief/internal/analyzer"
	"github.com/joss/debrief/internal/briefing"
	"github.com/joss/debrief/internal/changeset"
	"github.com/joss/debrief/internal/config"
	"github.com/joss/debrief/internal/exec"
	"github.com/joss/debrief/internal/hooks"
	"github.com/joss/debrief/internal/pipeline"
	"github.com/joss/debrief/internal/prompts"
	"github.com/joss/debrief/internal/render"
	"github.com/joss/debrief/internal/session"
)

// app is the composition root: every command pulls its collaborators
// from here so wiring lives in one place.
type app struct {
	cfg       *config.Config
	runner    exec.Runner
	reader    *session.Reader
	briefings *briefing.Store
	locks     *hooks.LockGuard
	out       *render.Renderer
}

func newApp() *app {
	cfg := config.Load()
	return &app{
		cfg:       cfg,
		runner:    exec.NewOSRunner(),
		reader:    session.NewReader(cfg.ProjectsDir),
		briefings: briefing.NewStore(cfg.BriefingsDir),
		locks:     hooks.NewLockGuard(cfg.LocksDir),
		out:       render.Detect(),
	}
}

func (a *app) pipeline() *pipeline.Pipeline {
	return pipeline.New(
		a.cfg,
		a.reader,
		changeset.NewExtractor(a.runner),
		a.summarizer(),
		a.briefings,
	)
}

func (a *app) summarizer() pipeline.Summarizer {
	return analyzer.NewClient(a.cfg.APIKey, a.cfg.BaseURL, a.cfg.Model)
}

func (a *app) promptStore() (*prompts.Store, error) {
	return prompts.Open(a.cfg.DBPath)
}

func (a *app) spawner() *hooks.Spawner {
	return hooks.NewSpawner(a.runner, a.cfg.LogsDir, "")
}

func (a *app) installer() *hooks.Installer {
	exe, err := os.Executable()
	if err != nil {
		exe = "debrief"
	}
	return hooks.NewInstaller(a.cfg.SettingsPath, exe)
}
