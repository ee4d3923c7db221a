package hooks

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joss/debrief/internal/exec"
)

// Spawner launches background analyses of the debrief binary itself.
type Spawner struct {
	runner  exec.Runner
	logsDir string
	exe     string
}

// NewSpawner creates a spawner. exe may be empty to use the running binary.
func NewSpawner(runner exec.Runner, logsDir, exe string) *Spawner {
	if exe == "" {
		if path, err := os.Executable(); err == nil {
			exe = path
		} else {
			exe = "debrief"
		}
	}
	return &Spawner{runner: runner, logsDir: logsDir, exe: exe}
}

// Spawn starts a detached `analyze --session-id <id> --background` run
// with output going to the session's analysis log. It returns as soon
// as the child has started.
func (s *Spawner) Spawn(sessionID string, snapshot bool) error {
	if err := os.MkdirAll(s.logsDir, 0755); err != nil {
		return err
	}
	logPath := filepath.Join(s.logsDir, fmt.Sprintf("analyze-%s.log", sessionID))

	args := []string{"analyze", "--session-id", sessionID, "--background"}
	if snapshot {
		args = append(args, "--snapshot")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return s.runner.StartDetached(home, logPath, s.exe, args...)
}
