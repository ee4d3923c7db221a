package hooks

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/debrief/internal/exec"
)

func newTestHandler(t *testing.T) (*Handler, *exec.MockRunner, string) {
	t.Helper()
	home := t.TempDir()
	locksDir := filepath.Join(home, "locks")
	runner := exec.NewMockRunner()
	spawner := NewSpawner(runner, filepath.Join(home, "logs"), "/usr/local/bin/debrief")
	return NewHandler(NewLockGuard(locksDir), spawner), runner, locksDir
}

func TestOnStopSpawnsAndLocks(t *testing.T) {
	h, runner, locksDir := newTestHandler(t)
	var out bytes.Buffer

	h.OnStop(strings.NewReader(`{"session_id":"sess-1"}`), &out)

	assert.JSONEq(t, `{"continue":true,"suppressOutput":true}`, out.String())
	require.Len(t, runner.Calls, 1)

	call := runner.Calls[0]
	assert.True(t, call.Detached)
	assert.Equal(t, "/usr/local/bin/debrief", call.Name)
	assert.Equal(t, []string{"analyze", "--session-id", "sess-1", "--background"}, call.Args)
	assert.Contains(t, call.LogPath, "analyze-sess-1.log")

	assert.FileExists(t, filepath.Join(locksDir, "sess-1.lock"))
}

func TestOnStopDedupsWhileLocked(t *testing.T) {
	h, runner, _ := newTestHandler(t)
	var out bytes.Buffer

	h.OnStop(strings.NewReader(`{"session_id":"sess-1"}`), &out)
	out.Reset()
	h.OnStop(strings.NewReader(`{"session_id":"sess-1"}`), &out)

	// Second invocation responds normally but spawns nothing.
	assert.JSONEq(t, `{"continue":true,"suppressOutput":true}`, out.String())
	assert.Len(t, runner.Calls, 1)
}

func TestOnStopSpawnsAgainAfterExpiry(t *testing.T) {
	h, runner, locksDir := newTestHandler(t)
	var out bytes.Buffer

	writeLockAged(t, locksDir, "sess-1", DefaultLockAge+time.Second)
	h.OnStop(strings.NewReader(`{"session_id":"sess-1"}`), &out)

	assert.Len(t, runner.Calls, 1)
}

func TestOnStopBadInput(t *testing.T) {
	h, runner, _ := newTestHandler(t)

	for _, input := range []string{"", "   ", "{not json", `{"session_id":""}`} {
		var out bytes.Buffer
		h.OnStop(strings.NewReader(input), &out)
		assert.JSONEq(t, `{"continue":true,"suppressOutput":true}`, out.String())
	}
	assert.Empty(t, runner.Calls)
}

func TestOnStopSweepsStaleLocks(t *testing.T) {
	h, _, locksDir := newTestHandler(t)
	writeLockAged(t, locksDir, "dead", 10*time.Minute)

	var out bytes.Buffer
	h.OnStop(strings.NewReader(`{"session_id":"sess-1"}`), &out)

	assert.NoFileExists(t, filepath.Join(locksDir, "dead.lock"))
}

func TestOnStopAbsorbsSpawnFailure(t *testing.T) {
	h, runner, _ := newTestHandler(t)
	runner.DetachedErr = errors.New("fork failed")

	var out bytes.Buffer
	h.OnStop(strings.NewReader(`{"session_id":"sess-1"}`), &out)

	assert.JSONEq(t, `{"continue":true,"suppressOutput":true}`, out.String())
}

func TestOnPreCompactSnapshots(t *testing.T) {
	h, runner, locksDir := newTestHandler(t)
	var out bytes.Buffer

	h.OnPreCompact(strings.NewReader(`{"session_id":"sess-1"}`), &out)

	assert.JSONEq(t, `{"continue":true,"suppressOutput":true}`, out.String())
	require.Len(t, runner.Calls, 1)
	assert.Equal(t, []string{"analyze", "--session-id", "sess-1", "--background", "--snapshot"}, runner.Calls[0].Args)

	// PreCompact takes no lock.
	assert.NoFileExists(t, filepath.Join(locksDir, "sess-1.lock"))
}

func TestOnPreCompactNoDedup(t *testing.T) {
	h, runner, _ := newTestHandler(t)
	var out bytes.Buffer

	h.OnPreCompact(strings.NewReader(`{"session_id":"sess-1"}`), &out)
	h.OnPreCompact(strings.NewReader(`{"session_id":"sess-1"}`), &out)

	assert.Len(t, runner.Calls, 2)
}

func TestBadInputParsesAsNil(t *testing.T) {
	assert.Nil(t, readInput(strings.NewReader("")))
	assert.Nil(t, readInput(strings.NewReader("{broken")))

	in := readInput(strings.NewReader(`{"session_id":"x"}`))
	require.NotNil(t, in)
	assert.Equal(t, "x", in.SessionID)
}
