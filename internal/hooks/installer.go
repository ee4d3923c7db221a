package hooks

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// hookMarker identifies our entries inside settings.json, so install
// and uninstall never touch hooks owned by anything else.
const hookMarker = "debrief"

// Install results per event.
const (
	ResultAdded         = "added"
	ResultAlreadyExists = "already_exists"
	ResultRemoved       = "removed"
	ResultNotFound      = "not_found"
)

var hookEvents = []string{"Stop", "PreCompact"}

// Events returns the hook events debrief manages, in display order.
func Events() []string {
	return append([]string(nil), hookEvents...)
}

// Installer edits the Claude Code settings file to register or remove
// the debrief hooks. Other settings and hooks are preserved.
type Installer struct {
	settingsPath string
	exe          string
}

// NewInstaller creates an installer targeting settingsPath. exe may be
// empty to use the running binary.
func NewInstaller(settingsPath, exe string) *Installer {
	if exe == "" {
		if path, err := os.Executable(); err == nil {
			exe = path
		} else {
			exe = "debrief"
		}
	}
	return &Installer{settingsPath: settingsPath, exe: exe}
}

func (i *Installer) hookCommand(event string) string {
	sub := "stop"
	if event == "PreCompact" {
		sub = "pre-compact"
	}
	return fmt.Sprintf("%s hook %s", i.exe, sub)
}

// matcherGroup builds the settings entry for one event.
func (i *Installer) matcherGroup(event string) map[string]any {
	return map[string]any{
		"hooks": []any{
			map[string]any{
				"type":    "command",
				"command": i.hookCommand(event),
				"timeout": 5,
			},
		},
	}
}

func isOurHook(hook any) bool {
	m, ok := hook.(map[string]any)
	if !ok {
		return false
	}
	command, _ := m["command"].(string)
	return strings.Contains(command, hookMarker) && strings.Contains(command, " hook ")
}

func hasOurHook(matchers []any) bool {
	for _, m := range matchers {
		group, ok := m.(map[string]any)
		if !ok {
			continue
		}
		hooks, _ := group["hooks"].([]any)
		for _, h := range hooks {
			if isOurHook(h) {
				return true
			}
		}
	}
	return false
}

func (i *Installer) loadSettings() map[string]any {
	data, err := os.ReadFile(i.settingsPath)
	if err != nil {
		return map[string]any{}
	}

	var settings map[string]any
	if err := json.Unmarshal(data, &settings); err != nil {
		return map[string]any{}
	}
	return settings
}

func (i *Installer) writeSettings(settings map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(i.settingsPath), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(i.settingsPath, data, 0644)
}

// Install registers both hooks, merging with existing settings.
func (i *Installer) Install() (map[string]string, error) {
	settings := i.loadSettings()

	hooks, _ := settings["hooks"].(map[string]any)
	if hooks == nil {
		hooks = map[string]any{}
	}

	results := make(map[string]string)
	for _, event := range hookEvents {
		existing, _ := hooks[event].([]any)

		if hasOurHook(existing) {
			results[event] = ResultAlreadyExists
			continue
		}
		hooks[event] = append(existing, i.matcherGroup(event))
		results[event] = ResultAdded
	}

	settings["hooks"] = hooks
	if err := i.writeSettings(settings); err != nil {
		return nil, err
	}
	return results, nil
}

// Uninstall removes only our hooks, keeping everything else intact.
func (i *Installer) Uninstall() (map[string]string, error) {
	results := make(map[string]string)

	data, err := os.ReadFile(i.settingsPath)
	if err != nil {
		for _, event := range hookEvents {
			results[event] = ResultNotFound
		}
		return results, nil
	}

	var settings map[string]any
	if err := json.Unmarshal(data, &settings); err != nil {
		for _, event := range hookEvents {
			results[event] = ResultNotFound
		}
		return results, nil
	}

	hooks, _ := settings["hooks"].(map[string]any)
	if hooks == nil {
		hooks = map[string]any{}
	}

	for _, event := range hookEvents {
		matchers, _ := hooks[event].([]any)

		if !hasOurHook(matchers) {
			results[event] = ResultNotFound
			continue
		}

		var kept []any
		for _, m := range matchers {
			group, ok := m.(map[string]any)
			if !ok {
				kept = append(kept, m)
				continue
			}
			hookList, _ := group["hooks"].([]any)
			var filtered []any
			for _, h := range hookList {
				if !isOurHook(h) {
					filtered = append(filtered, h)
				}
			}
			if len(filtered) > 0 {
				group["hooks"] = filtered
				kept = append(kept, group)
			}
		}

		if len(kept) > 0 {
			hooks[event] = kept
		} else {
			delete(hooks, event)
		}
		results[event] = ResultRemoved
	}

	settings["hooks"] = hooks
	if err := i.writeSettings(settings); err != nil {
		return nil, err
	}
	return results, nil
}

// Check reports which of our hooks are currently registered.
func (i *Installer) Check() map[string]bool {
	results := make(map[string]bool)
	for _, event := range hookEvents {
		results[event] = false
	}

	settings := i.loadSettings()
	hooks, _ := settings["hooks"].(map[string]any)
	for _, event := range hookEvents {
		matchers, _ := hooks[event].([]any)
		results[event] = hasOurHook(matchers)
	}
	return results
}
