package exec

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSRunnerOutput(t *testing.T) {
	out, err := NewOSRunner().Output(context.Background(), "", "echo", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(out))
}

func TestOSRunnerOutputRespectsDir(t *testing.T) {
	dir := t.TempDir()
	out, err := NewOSRunner().Output(context.Background(), dir, "pwd")
	require.NoError(t, err)
	assert.Contains(t, string(out), filepath.Base(dir))
}

func TestOSRunnerStartDetachedWritesLog(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "run.log")

	err := NewOSRunner().StartDetached("", logPath, "echo", "detached")
	require.NoError(t, err)

	// The child was started with the log file as stdout; the file must
	// exist even before the child finishes.
	_, statErr := os.Stat(logPath)
	assert.NoError(t, statErr)
}

func TestMockRunnerRecordsCalls(t *testing.T) {
	m := NewMockRunner()
	m.AddResponse("git status", MockResponse{Stdout: []byte("clean")})

	out, err := m.Output(context.Background(), "/repo", "git", "status")
	require.NoError(t, err)
	assert.Equal(t, "clean", string(out))

	require.NoError(t, m.StartDetached("/home", "/tmp/x.log", "debrief", "analyze"))

	require.Len(t, m.Calls, 2)
	assert.Equal(t, "git", m.Calls[0].Name)
	assert.Equal(t, "/repo", m.Calls[0].Dir)
	assert.True(t, m.Calls[1].Detached)
	assert.Equal(t, "/tmp/x.log", m.Calls[1].LogPath)
}
