// Package config provides the composition-root configuration for debrief.
// Every component receives its paths from here; nothing else reads the
// environment or assumes a home directory.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all paths and collaborator settings. Zero values are filled
// by Load; tests construct Config directly with t.TempDir paths.
type Config struct {
	// ProjectsDir is where Claude Code writes session transcripts
	// (one subdirectory per project, each with a sessions-index.json).
	ProjectsDir string `yaml:"projects_dir"`

	// BriefingsDir receives one JSON and one Markdown file per briefing.
	BriefingsDir string `yaml:"briefings_dir"`

	// LocksDir holds per-session lock markers for the hook dedup guard.
	LocksDir string `yaml:"locks_dir"`

	// LogsDir receives per-session background analysis logs.
	LogsDir string `yaml:"logs_dir"`

	// InsightsPath is the accumulated cross-session insights file.
	InsightsPath string `yaml:"insights_path"`

	// DBPath is the SQLite database holding the prompt store.
	DBPath string `yaml:"db_path"`

	// SettingsPath is the Claude Code settings file the hook installer edits.
	SettingsPath string `yaml:"settings_path"`

	// APIKey authenticates against the summarizer API (ANTHROPIC_API_KEY).
	APIKey string `yaml:"-"`

	// BaseURL overrides the summarizer endpoint (ANTHROPIC_BASE_URL).
	BaseURL string `yaml:"base_url"`

	// Model is the summarizer model id.
	Model string `yaml:"model"`
}

const defaultModel = "claude-haiku-4-5-20251001"

// Load builds the configuration: home-rooted defaults, overlaid by the
// optional config file, overlaid by environment variables.
func Load() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".config", "debrief")

	cfg := &Config{
		ProjectsDir:  filepath.Join(home, ".claude", "projects"),
		BriefingsDir: filepath.Join(base, "briefings"),
		LocksDir:     filepath.Join(base, "locks"),
		LogsDir:      filepath.Join(base, "logs"),
		InsightsPath: filepath.Join(base, "insights.json"),
		DBPath:       filepath.Join(base, "debrief.db"),
		SettingsPath: filepath.Join(home, ".claude", "settings.json"),
		Model:        defaultModel,
	}

	cfg.applyFile(filepath.Join(base, "config.yaml"))
	cfg.applyEnv()

	return cfg
}

// applyFile overlays values from a YAML config file. A missing or broken
// file leaves the defaults untouched.
func (c *Config) applyFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return
	}

	if file.ProjectsDir != "" {
		c.ProjectsDir = file.ProjectsDir
	}
	if file.BriefingsDir != "" {
		c.BriefingsDir = file.BriefingsDir
	}
	if file.LocksDir != "" {
		c.LocksDir = file.LocksDir
	}
	if file.LogsDir != "" {
		c.LogsDir = file.LogsDir
	}
	if file.InsightsPath != "" {
		c.InsightsPath = file.InsightsPath
	}
	if file.DBPath != "" {
		c.DBPath = file.DBPath
	}
	if file.SettingsPath != "" {
		c.SettingsPath = file.SettingsPath
	}
	if file.BaseURL != "" {
		c.BaseURL = file.BaseURL
	}
	if file.Model != "" {
		c.Model = file.Model
	}
}

func (c *Config) applyEnv() {
	c.APIKey = os.Getenv("ANTHROPIC_API_KEY")

	if v := os.Getenv("ANTHROPIC_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("DEBRIEF_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("DEBRIEF_PROJECTS_DIR"); v != "" {
		c.ProjectsDir = v
	}
	if v := os.Getenv("DEBRIEF_HOME"); v != "" {
		c.BriefingsDir = filepath.Join(v, "briefings")
		c.LocksDir = filepath.Join(v, "locks")
		c.LogsDir = filepath.Join(v, "logs")
		c.InsightsPath = filepath.Join(v, "insights.json")
		c.DBPath = filepath.Join(v, "debrief.db")
	}
}

// EnsureDir creates a directory if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
