package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DEBRIEF_HOME", "")
	t.Setenv("DEBRIEF_PROJECTS_DIR", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	cfg := Load()

	assert.Contains(t, cfg.ProjectsDir, filepath.Join(".claude", "projects"))
	assert.Contains(t, cfg.BriefingsDir, filepath.Join("debrief", "briefings"))
	assert.Equal(t, defaultModel, cfg.Model)
}

func TestLoadEnvOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("DEBRIEF_HOME", home)
	t.Setenv("DEBRIEF_PROJECTS_DIR", "/tmp/projects")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("DEBRIEF_MODEL", "claude-test-model")

	cfg := Load()

	assert.Equal(t, "/tmp/projects", cfg.ProjectsDir)
	assert.Equal(t, filepath.Join(home, "locks"), cfg.LocksDir)
	assert.Equal(t, filepath.Join(home, "insights.json"), cfg.InsightsPath)
	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, "claude-test-model", cfg.Model)
}

func TestApplyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: from-file\nbriefings_dir: /data/briefings\n"), 0644))

	cfg := &Config{Model: "default"}
	cfg.applyFile(path)

	assert.Equal(t, "from-file", cfg.Model)
	assert.Equal(t, "/data/briefings", cfg.BriefingsDir)
}

func TestApplyFileMissingOrBroken(t *testing.T) {
	cfg := &Config{Model: "default"}

	cfg.applyFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Equal(t, "default", cfg.Model)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0644))
	cfg.applyFile(path)
	assert.Equal(t, "default", cfg.Model)
}
