package hooks

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInstaller(t *testing.T) (*Installer, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".claude", "settings.json")
	return NewInstaller(path, "/usr/local/bin/debrief"), path
}

func readSettings(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var settings map[string]any
	require.NoError(t, json.Unmarshal(data, &settings))
	return settings
}

func TestInstallFresh(t *testing.T) {
	inst, path := newTestInstaller(t)

	results, err := inst.Install()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Stop": ResultAdded, "PreCompact": ResultAdded}, results)

	settings := readSettings(t, path)
	hooks := settings["hooks"].(map[string]any)
	stop := hooks["Stop"].([]any)
	require.Len(t, stop, 1)

	entry := stop[0].(map[string]any)["hooks"].([]any)[0].(map[string]any)
	assert.Equal(t, "command", entry["type"])
	assert.Equal(t, "/usr/local/bin/debrief hook stop", entry["command"])

	pre := hooks["PreCompact"].([]any)
	entry = pre[0].(map[string]any)["hooks"].([]any)[0].(map[string]any)
	assert.Equal(t, "/usr/local/bin/debrief hook pre-compact", entry["command"])
}

func TestInstallIsIdempotent(t *testing.T) {
	inst, path := newTestInstaller(t)

	_, err := inst.Install()
	require.NoError(t, err)
	results, err := inst.Install()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Stop": ResultAlreadyExists, "PreCompact": ResultAlreadyExists}, results)

	hooks := readSettings(t, path)["hooks"].(map[string]any)
	assert.Len(t, hooks["Stop"].([]any), 1)
}

func TestInstallPreservesOtherSettings(t *testing.T) {
	inst, path := newTestInstaller(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	existing := `{
		"model": "opus",
		"hooks": {
			"Stop": [{"hooks": [{"type": "command", "command": "notify-send done"}]}]
		}
	}`
	require.NoError(t, os.WriteFile(path, []byte(existing), 0644))

	_, err := inst.Install()
	require.NoError(t, err)

	settings := readSettings(t, path)
	assert.Equal(t, "opus", settings["model"])

	stop := settings["hooks"].(map[string]any)["Stop"].([]any)
	require.Len(t, stop, 2)
	first := stop[0].(map[string]any)["hooks"].([]any)[0].(map[string]any)
	assert.Equal(t, "notify-send done", first["command"])
}

func TestUninstallRemovesOnlyOurs(t *testing.T) {
	inst, path := newTestInstaller(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	existing := `{
		"hooks": {
			"Stop": [{"hooks": [{"type": "command", "command": "notify-send done"}]}]
		}
	}`
	require.NoError(t, os.WriteFile(path, []byte(existing), 0644))

	_, err := inst.Install()
	require.NoError(t, err)

	results, err := inst.Uninstall()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Stop": ResultRemoved, "PreCompact": ResultRemoved}, results)

	settings := readSettings(t, path)
	hooks := settings["hooks"].(map[string]any)

	stop := hooks["Stop"].([]any)
	require.Len(t, stop, 1)
	entry := stop[0].(map[string]any)["hooks"].([]any)[0].(map[string]any)
	assert.Equal(t, "notify-send done", entry["command"])

	_, hasPreCompact := hooks["PreCompact"]
	assert.False(t, hasPreCompact)
}

func TestUninstallMissingFile(t *testing.T) {
	inst, _ := newTestInstaller(t)

	results, err := inst.Uninstall()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Stop": ResultNotFound, "PreCompact": ResultNotFound}, results)
}

func TestCheck(t *testing.T) {
	inst, _ := newTestInstaller(t)

	assert.Equal(t, map[string]bool{"Stop": false, "PreCompact": false}, inst.Check())

	_, err := inst.Install()
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"Stop": true, "PreCompact": true}, inst.Check())

	_, err = inst.Uninstall()
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"Stop": false, "PreCompact": false}, inst.Check())
}

func TestInstallBrokenSettingsStartsFresh(t *testing.T) {
	inst, path := newTestInstaller(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))

	results, err := inst.Install()
	require.NoError(t, err)
	assert.Equal(t, ResultAdded, results["Stop"])
}
